package scraper

import "github.com/sirupsen/logrus"

// DefaultSources - источники, подключенные по умолчанию
func DefaultSources(logger *logrus.Logger) []Source {
	configs := []SourceConfig{
		{
			ID:          "aljazeera",
			Name:        "Al Jazeera",
			Description: "Al Jazeera English: RSS feed with HTML fallback",
			FeedURLs:    []string{"https://www.aljazeera.com/xml/rss/all.xml"},
			PageURL:     "https://www.aljazeera.com/where/iran/",
			BaseURL:     "https://www.aljazeera.com",
		},
		{
			ID:          "vg",
			Name:        "VG",
			Description: "VG Nyheter: Norwegian news, HTML scraping",
			PageURL:     "https://www.vg.no/nyheter/utenriks/",
			BaseURL:     "https://www.vg.no",
		},
		{
			ID:          "bbc",
			Name:        "BBC News",
			Description: "BBC News Middle East: RSS feed with HTML fallback",
			FeedURLs:    []string{"https://feeds.bbci.co.uk/news/world/middle_east/rss.xml"},
			PageURL:     "https://www.bbc.com/news/topics/cwlw3xz047jt",
			BaseURL:     "https://www.bbc.com",
		},
		{
			ID:          "reuters",
			Name:        "Reuters",
			Description: "Reuters World/Middle East: HTML scraping",
			PageURL:     "https://www.reuters.com/world/middle-east/",
			BaseURL:     "https://www.reuters.com",
		},
		{
			ID:          "apnews",
			Name:        "AP News",
			Description: "Associated Press Iran hub: HTML scraping",
			PageURL:     "https://apnews.com/hub/iran",
			BaseURL:     "https://apnews.com",
		},
		{
			ID:          "cnn",
			Name:        "CNN",
			Description: "CNN Middle East: RSS feed with HTML fallback",
			FeedURLs:    []string{"http://rss.cnn.com/rss/edition_meast.rss"},
			PageURL:     "https://edition.cnn.com/middleeast",
			BaseURL:     "https://edition.cnn.com",
		},
		{
			ID:          "google_news",
			Name:        "Google News",
			Description: "Google News RSS search aggregator: multiple keyword feeds",
			FeedURLs: []string{
				"https://news.google.com/rss/search?q=Iran+strike+bombing+missile+when:7d&hl=en-US&gl=US&ceid=US:en",
				"https://news.google.com/rss/search?q=Iran+airstrike+killed+casualties+when:7d&hl=en-US&gl=US&ceid=US:en",
				"https://news.google.com/rss/search?q=Iran+war+attack+military+strike+when:7d&hl=en-US&gl=US&ceid=US:en",
				"https://news.google.com/rss/search?q=Tehran+Isfahan+missile+strike+when:7d&hl=en-US&gl=US&ceid=US:en",
			},
		},
	}

	sources := make([]Source, 0, len(configs))
	for _, cfg := range configs {
		sources = append(sources, NewNewsSource(cfg, logger))
	}
	return sources
}
