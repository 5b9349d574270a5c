package scraper

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	maxKilled         = 10000
	maxWounded        = 50000
	descriptionLength = 300
)

var conflictKeywords = []string{
	"bomb", "bombing", "strike", "airstrike", "air strike",
	"missile", "explosion", "shelling", "artillery", "blast",
	"drone strike", "raid", "killed", "casualties",
	"offensive", "military operation",
	"attack", "attacked", "bombardment", "target", "targeted",
	"destroy", "destroyed", "combat", "battle",
	"cruise missile", "ballistic missile", "intercepted",
	"drone", "warplane", "fighter jet", "sortie",
	"warfare", "strikes", "bombings", "rockets", "rocket",
	"weapons", "munitions", "warhead", "detonation",
	"killing", "deaths", "dead", "fatalities",
}

var regionKeywords = []string{
	"iran", "iranian", "tehran", "isfahan", "tabriz", "shiraz", "mashhad",
	"ahvaz", "kermanshah", "qom", "karaj", "bushehr", "bandar abbas",
	"persian gulf", "strait of hormuz", "khuzestan", "kurdistan",
	"irgc", "revolutionary guard",
	"parchin", "natanz", "fordow", "arak",
	"abadan", "dezful", "khorramshahr", "hamadan",
	"rasht", "kerman", "yazd", "ardabil", "zahedan",
	"gorgan", "sari", "semnan", "birjand", "ilam",
	"sanandaj", "khorramabad",
	"persian", "islamic republic",
	"khamenei", "rouhani", "raisi",
	"quds force", "basij",
	"esfahan", "khoramshahr", "bandar-abbas",
	"chabahar", "bam", "bojnurd", "zanjan", "urmia",
}

var killedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?(?:were\s+)?(?:killed|dead|died|slain)`),
	regexp.MustCompile(`(?i)(?:killed|dead|died|slain)\s+(\d+)`),
	regexp.MustCompile(`(?i)(?:at\s+least\s+)(\d+)\s*(?:people\s+)?(?:killed|dead|died)`),
	regexp.MustCompile(`(?i)death\s+toll[^.]*?(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:casualties|fatalities)`),
	regexp.MustCompile(`(?i)killing\s+(?:at\s+least\s+)?(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s+deaths?\b`),
	regexp.MustCompile(`(?i)claimed\s+(?:the\s+)?(?:lives?\s+of\s+)?(\d+)`),
	regexp.MustCompile(`(?i)left\s+(?:at\s+least\s+)?(\d+)\s*(?:people\s+)?dead`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?(?:lost\s+their\s+lives|perished)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?confirmed\s+dead`),
	regexp.MustCompile(`(?i)(?:toll|count)\s+(?:has\s+)?(?:risen?\s+to|reached?)\s+(\d+)`),
}

var woundedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?(?:were\s+)?(?:wounded|injured|hurt)`),
	regexp.MustCompile(`(?i)(?:wounded|injured|hurt)\s+(\d+)`),
	regexp.MustCompile(`(?i)(?:at\s+least\s+)(\d+)\s*(?:people\s+)?(?:wounded|injured)`),
	regexp.MustCompile(`(?i)(?:wounding|injuring)\s+(?:at\s+least\s+)?(\d+)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?(?:hospitalized|taken\s+to\s+hospital)`),
	regexp.MustCompile(`(?i)(\d+)\s*(?:people\s+)?(?:treated\s+for)`),
}

// placePattern находит имя собственное после предлога: "in Tabriz", "near Bandar Abbas"
var placePattern = regexp.MustCompile(`(?:in|near|outside|targeting|struck|hit|toward|towards|on)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)

var titleCaser = cases.Title(language.English)

// IsRelevant - текст упоминает и боевые действия, и регион конфликта
func IsRelevant(title, text string) bool {
	combined := strings.ToLower(title + " " + text)
	return containsAny(combined, conflictKeywords) && containsAny(combined, regionKeywords)
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ExtractKilled возвращает наибольшее правдоподобное число погибших в тексте
func ExtractKilled(text string) int {
	return extractCount(text, killedPatterns, maxKilled)
}

// ExtractWounded возвращает наибольшее правдоподобное число раненых в тексте
func ExtractWounded(text string) int {
	return extractCount(text, woundedPatterns, maxWounded)
}

func extractCount(text string, patterns []*regexp.Regexp, limit int) int {
	result := 0
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || n >= limit {
				continue
			}
			if n > result {
				result = n
			}
		}
	}
	return result
}

// ExtractLocation ищет в тексте известное место, затем имя собственное после предлога
func ExtractLocation(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, name := range locationNames {
		if strings.Contains(lower, name) {
			return titleCaser.String(name), true
		}
	}
	for _, m := range placePattern.FindAllStringSubmatch(text, -1) {
		if _, ok := Coordinates(m[1]); ok {
			return m[1], true
		}
	}
	return "", false
}

// truncateDescription обрезает текст до descriptionLength символов и добавляет многоточие
func truncateDescription(text string) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= descriptionLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:descriptionLength])) + "..."
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)
)

// cleanText убирает разметку, HTML-сущности и лишние пробелы
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}
