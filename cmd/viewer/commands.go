package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/shenikar/warzone_monitor/internal/store"
)

var errQuit = errors.New("quit")

// incidentStore - операции хранилища, доступные из командной строки
type incidentStore interface {
	Incidents() []*models.Incident
	Selected() *models.Incident
	Select(id string)
	Totals() store.Totals
	FetchIncidents(ctx context.Context) error
	TriggerScrape(ctx context.Context) (*models.ScrapeResult, error)
	FetchIntegrations(ctx context.Context)
	Integrations() []*models.Integration
	ToggleIntegration(ctx context.Context, id string, enabled bool)
}

type statsSource interface {
	GetStats(ctx context.Context) (*models.Stats, error)
}

// mapControl управляет видом карты; вызовы выполняются в цикле отображения
type mapControl interface {
	Pan(ctx context.Context, dx, dy float64) error
	SetZoom(ctx context.Context, zoom float64) error
	Resize(ctx context.Context, width, height int) error
}

type console struct {
	store  incidentStore
	stats  statsSource
	view   mapControl
	out    io.Writer
	logger *logrus.Logger
}

const helpText = `commands:
  list                      incidents, newest first
  select <id>|none          select an incident and fly to it
  pan <dx> <dy>             move the view by pixels
  zoom <level>              set zoom level
  resize <width> <height>   resize the map container
  refresh                   reload incidents
  scrape                    trigger a scrape on the server
  integrations              list news sources
  toggle <id> on|off        enable or disable a news source
  stats                     server and local totals
  quit
`

// run читает команды построчно до EOF, quit или отмены контекста
func (c *console) run(ctx context.Context, in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := c.exec(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return
			}
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		c.logger.WithError(err).WithField("component", "console").Error("Failed to read commands")
	}
}

func (c *console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprint(c.out, helpText)
	case "list":
		c.list()
	case "select":
		if len(args) != 1 {
			return errors.New("usage: select <id>|none")
		}
		id := args[0]
		if id == "none" {
			id = ""
		}
		c.store.Select(id)
		if id != "" && c.store.Selected() == nil {
			fmt.Fprintf(c.out, "no incident %s in the current list\n", id)
		}
	case "pan":
		v, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: pan <dx> <dy>: %w", err)
		}
		return c.view.Pan(ctx, v[0], v[1])
	case "zoom":
		v, err := floats(args, 1)
		if err != nil {
			return fmt.Errorf("usage: zoom <level>: %w", err)
		}
		return c.view.SetZoom(ctx, v[0])
	case "resize":
		v, err := floats(args, 2)
		if err != nil {
			return fmt.Errorf("usage: resize <width> <height>: %w", err)
		}
		return c.view.Resize(ctx, int(v[0]), int(v[1]))
	case "refresh":
		if err := c.store.FetchIncidents(ctx); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%d incidents\n", len(c.store.Incidents()))
	case "scrape":
		result, err := c.store.TriggerScrape(ctx)
		if result != nil {
			fmt.Fprintln(c.out, result.Message)
		}
		return err
	case "integrations":
		c.store.FetchIntegrations(ctx)
		c.integrations()
	case "toggle":
		if len(args) != 2 || (args[1] != "on" && args[1] != "off") {
			return errors.New("usage: toggle <id> on|off")
		}
		c.store.ToggleIntegration(ctx, args[0], args[1] == "on")
		c.integrations()
	case "stats":
		return c.printStats(ctx)
	default:
		return fmt.Errorf("unknown command %q, type help", cmd)
	}
	return nil
}

func (c *console) list() {
	selected := c.store.Selected()
	for _, inc := range c.store.Incidents() {
		if inc == nil {
			continue
		}
		mark := " "
		if selected != nil && selected.ID == inc.ID {
			mark = "*"
		}
		origin := ""
		if inc.HasOrigin() {
			origin = " <- " + inc.OriginLocation
		}
		fmt.Fprintf(c.out, "%s %s  %s  %-40s killed=%d wounded=%d%s\n",
			mark, inc.ID, inc.Date.Format("2006-01-02"), inc.Title, inc.Killed, inc.Wounded, origin)
	}
}

func (c *console) integrations() {
	for _, it := range c.store.Integrations() {
		state := "off"
		if it.Enabled {
			state = "on"
		}
		fmt.Fprintf(c.out, "%-12s %-3s %s\n", it.ID, state, it.Name)
	}
}

func (c *console) printStats(ctx context.Context) error {
	totals := c.store.Totals()
	fmt.Fprintf(c.out, "loaded: incidents=%d killed=%d wounded=%d\n", totals.Incidents, totals.Killed, totals.Wounded)

	stats, err := c.stats.GetStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "server: incidents=%d killed=%d wounded=%d sources=%d",
		stats.TotalIncidents, stats.TotalKilled, stats.TotalWounded, stats.SourcesCount)
	if stats.LastUpdated != nil {
		fmt.Fprintf(c.out, " updated=%s", stats.LastUpdated.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(c.out)
	return nil
}

func floats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("argument %q is not a finite number", a)
		}
		out[i] = v
	}
	return out, nil
}
