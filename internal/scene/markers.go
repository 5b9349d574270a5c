package scene

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/shenikar/warzone_monitor/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	standardRadius = 6
	largeRadius    = 11
)

// popupTemplate экранирует все текстовые поля: заголовки и описания приходят из сторонних сайтов
var popupTemplate = template.Must(template.New("popup").Parse(`<div class="incident-popup">
<h3>{{.Title}}</h3>
<p class="incident-location">{{.Location}}{{if .Date}} &middot; {{.Date}}{{end}}</p>
<p class="incident-casualties"><span class="killed">{{.Killed}} killed</span> <span class="wounded">{{.Wounded}} wounded</span></p>
{{- if .Attacker}}
<p class="incident-attacker">Attacker: {{.Attacker}}{{if .OriginLocation}} (from {{.OriginLocation}}){{end}}</p>
{{- end}}
{{- if .NotableFigures}}
<p class="incident-figures">{{.NotableFigures}}</p>
{{- end}}
{{- if .Description}}
<p class="incident-description">{{.Description}}</p>
{{- end}}
{{- if .SourceURL}}
<a href="{{.SourceURL}}" target="_blank" rel="noopener noreferrer">{{.Source}}</a>
{{- else if .Source}}
<span class="incident-source">{{.Source}}</span>
{{- end}}
</div>`))

type popupView struct {
	Title          string
	Location       string
	Date           string
	Killed         int
	Wounded        int
	Attacker       string
	OriginLocation string
	NotableFigures string
	Description    string
	Source         string
	SourceURL      string
}

// TierFor выбирает категорию маркера по числу погибших
func TierFor(killed int) Tier {
	if killed >= models.SevereKilledThreshold {
		return TierLarge
	}
	return TierStandard
}

// RebuildMarkers создает по маркеру на каждый инцидент. Клик по маркеру вызывает onSelect с id инцидента.
func (b *Builder) RebuildMarkers(incidents []*models.Incident, onSelect func(id string)) []Marker {
	markers := make([]Marker, 0, len(incidents))
	for _, inc := range incidents {
		if inc == nil {
			continue
		}
		if !inc.HasValidTarget() {
			b.logger.WithFields(logrus.Fields{
				"component":   "scene",
				"method":      "RebuildMarkers",
				"incident_id": inc.ID,
			}).Warn("Skipping marker with invalid target coordinates")
			continue
		}

		popup, err := renderPopup(inc)
		if err != nil {
			b.logger.WithError(err).WithField("incident_id", inc.ID).Warn("Failed to render incident popup")
		}

		tier := TierFor(inc.Killed)
		radius := float64(standardRadius)
		if tier == TierLarge {
			radius = largeRadius
		}

		id := inc.ID
		var onClick func()
		if onSelect != nil {
			onClick = func() { onSelect(id) }
		}

		markers = append(markers, Marker{
			IncidentID: id,
			Latitude:   inc.Latitude,
			Longitude:  inc.Longitude,
			Tier:       tier,
			Radius:     radius,
			ClassName:  "incident-marker incident-marker--" + string(tier),
			Popup:      popup,
			OnClick:    onClick,
		})
	}
	return markers
}

func renderPopup(inc *models.Incident) (string, error) {
	view := popupView{
		Title:          inc.Title,
		Location:       inc.Location,
		Killed:         inc.Killed,
		Wounded:        inc.Wounded,
		Attacker:       inc.Attacker,
		OriginLocation: inc.OriginLocation,
		NotableFigures: strings.Join(inc.NotableFigures, ", "),
		Description:    inc.Description,
		Source:         inc.Source,
		SourceURL:      inc.SourceURL,
	}
	if !inc.Date.IsZero() {
		view.Date = inc.Date.Format("2006-01-02")
	}

	var buf bytes.Buffer
	if err := popupTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
