package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/warzone_monitor/internal/models"
)

const (
	userAgent       = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxArticleLinks = 20
)

var articleClass = regexp.MustCompile(`article|story|content|body|post`)

// Source - источник новостей, из которого извлекаются инциденты
type Source interface {
	ID() string
	Name() string
	Description() string
	Scrape(ctx context.Context, client *http.Client) ([]*models.Incident, error)
}

// SourceConfig описывает новостной сайт: RSS/Atom ленты и страница для разбора HTML
type SourceConfig struct {
	ID          string
	Name        string
	Description string
	FeedURLs    []string
	// PageURL используется, если ленты не дали ни одного инцидента
	PageURL string
	BaseURL string
}

// NewsSource извлекает инциденты из лент и статей новостного сайта
type NewsSource struct {
	cfg    SourceConfig
	logger *logrus.Logger
	now    func() time.Time
}

func NewNewsSource(cfg SourceConfig, logger *logrus.Logger) *NewsSource {
	return &NewsSource{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

func (s *NewsSource) ID() string          { return s.cfg.ID }
func (s *NewsSource) Name() string        { return s.cfg.Name }
func (s *NewsSource) Description() string { return s.cfg.Description }

// Scrape читает все ленты источника. Если они ничего не дали, разбирает HTML-страницу.
func (s *NewsSource) Scrape(ctx context.Context, client *http.Client) ([]*models.Incident, error) {
	log := s.logger.WithField("source", s.cfg.ID)

	var incidents []*models.Incident
	var errs []error
	for _, feedURL := range s.cfg.FeedURLs {
		found, err := s.scrapeFeed(ctx, client, feedURL)
		if err != nil {
			log.WithError(err).WithField("feed_url", feedURL).Warn("Failed to scrape feed")
			errs = append(errs, err)
			continue
		}
		incidents = append(incidents, found...)
	}
	if len(incidents) > 0 {
		return incidents, nil
	}

	if s.cfg.PageURL == "" {
		return nil, errors.Join(errs...)
	}

	found, err := s.scrapeHTML(ctx, client)
	if err != nil {
		return nil, errors.Join(append(errs, err)...)
	}
	return found, nil
}

type feedEntry struct {
	title     string
	link      string
	summary   string
	published time.Time
}

func (s *NewsSource) scrapeFeed(ctx context.Context, client *http.Client, feedURL string) ([]*models.Incident, error) {
	log := s.logger.WithField("source", s.cfg.ID)

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("scraper: could not parse feed %s: %w", feedURL, err)
	}

	entries := make([]feedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := cleanText(item.Title)
		if title == "" {
			continue
		}
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}
		e := feedEntry{
			title:   title,
			link:    strings.TrimSpace(item.Link),
			summary: cleanText(summary),
		}
		switch {
		case item.PublishedParsed != nil:
			e.published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			e.published = *item.UpdatedParsed
		}
		entries = append(entries, e)
	}
	log.WithField("entries", len(entries)).Debug("Parsed feed entries")

	incidents := make([]*models.Incident, 0)
	for _, e := range entries {
		if !IsRelevant(e.title, e.summary) {
			continue
		}
		incident := s.incidentFromEntry(e)

		if e.link != "" {
			full, err := s.fetchArticle(ctx, client, e.link)
			if err != nil {
				log.WithError(err).WithField("url", e.link).Debug("Failed to fetch article")
			} else if full != nil {
				incident = full
			}
		}

		if incident != nil {
			incidents = append(incidents, incident)
		}
	}

	log.WithField("incidents", len(incidents)).Info("Feed scraped")
	return incidents, nil
}

func (s *NewsSource) incidentFromEntry(e feedEntry) *models.Incident {
	location, ok := ExtractLocation(e.title)
	if !ok {
		location, ok = ExtractLocation(e.summary)
	}
	if !ok {
		return nil
	}
	coords, ok := Coordinates(location)
	if !ok {
		return nil
	}

	combined := e.title + ". " + e.summary
	return &models.Incident{
		ID:             uuid.NewString(),
		Title:          e.title,
		Location:       location,
		Latitude:       coords.Lat,
		Longitude:      coords.Lng,
		Date:           s.day(e.published),
		Killed:         ExtractKilled(combined),
		Wounded:        ExtractWounded(combined),
		NotableFigures: []string{},
		Description:    truncateDescription(e.summary),
		Source:         s.cfg.Name,
		SourceURL:      e.link,
	}
}

func (s *NewsSource) scrapeHTML(ctx context.Context, client *http.Client) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"source": s.cfg.ID,
		"url":    s.cfg.PageURL,
	})

	doc, err := fetchDocument(ctx, client, s.cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("scraper: could not fetch page: %w", err)
	}

	links := extractArticleLinks(doc, s.cfg.BaseURL)
	log.WithField("links", len(links)).Debug("Found potential articles")

	incidents := make([]*models.Incident, 0)
	for _, link := range links {
		incident, err := s.fetchArticle(ctx, client, link)
		if err != nil {
			log.WithError(err).WithField("article", link).Debug("Failed to parse article")
			continue
		}
		if incident != nil {
			incidents = append(incidents, incident)
		}
	}

	log.WithField("incidents", len(incidents)).Info("Page scraped")
	return incidents, nil
}

func (s *NewsSource) fetchArticle(ctx context.Context, client *http.Client, url string) (*models.Incident, error) {
	doc, err := fetchDocument(ctx, client, url)
	if err != nil {
		return nil, err
	}
	return s.parseArticle(doc, url), nil
}

// parseArticle извлекает инцидент из страницы статьи; nil, если статья не подходит
func (s *NewsSource) parseArticle(doc *goquery.Document, url string) *models.Incident {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return nil
	}

	container := doc.Find("article").First()
	if container.Length() == 0 {
		container = doc.Find("div").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			class, _ := sel.Attr("class")
			return articleClass.MatchString(class)
		}).First()
	}
	if container.Length() == 0 {
		container = doc.Find("main").First()
	}
	paragraphs := doc.Find("p")
	if container.Length() > 0 {
		paragraphs = container.Find("p")
	}

	parts := paragraphs.Map(func(_ int, sel *goquery.Selection) string {
		return strings.TrimSpace(sel.Text())
	})
	text := cleanText(strings.Join(parts, " "))
	if text == "" || !IsRelevant(title, text) {
		return nil
	}

	location, ok := ExtractLocation(title)
	if !ok {
		location, ok = ExtractLocation(text)
	}
	if !ok {
		return nil
	}
	coords, ok := Coordinates(location)
	if !ok {
		return nil
	}

	var published time.Time
	if datetime, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		published = parseDay(datetime)
	}

	return &models.Incident{
		ID:             uuid.NewString(),
		Title:          title,
		Location:       location,
		Latitude:       coords.Lat,
		Longitude:      coords.Lng,
		Date:           s.day(published),
		Killed:         ExtractKilled(text),
		Wounded:        ExtractWounded(text),
		NotableFigures: []string{},
		Description:    truncateDescription(text),
		Source:         s.cfg.Name,
		SourceURL:      url,
	}
}

// day приводит время публикации к началу суток UTC; пустое время заменяется текущим
func (s *NewsSource) day(t time.Time) time.Time {
	if t.IsZero() {
		t = s.now()
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDay(value string) time.Time {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if len(value) >= 10 {
		if t, err := time.Parse(time.DateOnly, value[:10]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// extractArticleLinks находит на странице ссылки на статьи о конфликте
func extractArticleLinks(doc *goquery.Document, baseURL string) []string {
	keywords := append(append([]string{}, conflictKeywords...), regionKeywords...)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}

		matched := containsAny(strings.ToLower(strings.TrimSpace(a.Text())), keywords)
		if !matched {
			matched = containsAny(strings.ToLower(strings.TrimSpace(a.Parent().Text())), keywords)
		}
		if !matched {
			lowerHref := strings.ToLower(href)
			for _, kw := range keywords {
				if strings.Contains(lowerHref, strings.ReplaceAll(kw, " ", "-")) {
					matched = true
					break
				}
			}
		}
		if !matched {
			return
		}

		switch {
		case strings.HasPrefix(href, "/"):
			href = strings.TrimRight(baseURL, "/") + href
		case !strings.HasPrefix(href, "http"):
			return
		}
		seen[href] = true
	})

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	if len(links) > maxArticleLinks {
		links = links[:maxArticleLinks]
	}
	return links
}

func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}
	return doc, nil
}
