package scene

import "strings"

const (
	defaultAttackerColor = "#f59e0b"
	impactColor          = "#ef4444"
	coreColor            = "#fff7ed"
)

// attackerColors - цвет начала дуги для известных сторон конфликта
var attackerColors = map[string]string{
	"israel":        "#3b82f6",
	"idf":           "#3b82f6",
	"united states": "#a855f7",
	"usa":           "#a855f7",
	"us":            "#a855f7",
	"iran":          "#f97316",
	"irgc":          "#f97316",
	"hezbollah":     "#eab308",
	"houthis":       "#22c55e",
}

// AttackerColor возвращает цвет для стороны-атакующего, неизвестные получают цвет по умолчанию
func AttackerColor(attacker string) string {
	if c, ok := attackerColors[strings.ToLower(strings.TrimSpace(attacker))]; ok {
		return c
	}
	return defaultAttackerColor
}
