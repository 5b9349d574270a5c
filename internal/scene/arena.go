package scene

import (
	"fmt"

	"github.com/shenikar/warzone_monitor/internal/geometry"
)

const glowFilterID = "arc-glow"

// arena выделяет идентификаторы вспомогательных ресурсов (градиенты, фильтры) на одну пересборку.
// Таблица живет вместе со сценой и выбрасывается целиком при следующей пересборке.
type arena struct {
	gradients []Gradient
	filters   []Filter
	byIndex   map[int]string
}

func newArena(capacity int) *arena {
	return &arena{
		gradients: make([]Gradient, 0, capacity),
		byIndex:   make(map[int]string, capacity),
	}
}

// gradient регистрирует направленный градиент для дуги с индексом index
func (a *arena) gradient(index int, from, to geometry.Point, startColor, endColor string) string {
	if id, ok := a.byIndex[index]; ok {
		return id
	}
	id := fmt.Sprintf("arc-gradient-%d", index)
	a.gradients = append(a.gradients, Gradient{
		ID:         id,
		From:       from,
		To:         to,
		StartColor: startColor,
		EndColor:   endColor,
	})
	a.byIndex[index] = id
	return id
}

// glow возвращает общий фильтр свечения, создавая его при первом обращении
func (a *arena) glow() string {
	if len(a.filters) == 0 {
		a.filters = append(a.filters, Filter{ID: glowFilterID, StdDeviation: 3})
	}
	return glowFilterID
}

func (a *arena) defs() Defs {
	return Defs{Gradients: a.gradients, Filters: a.filters}
}
