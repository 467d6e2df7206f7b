package templates

import (
	"fmt"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

// WidgetKind names the input widget a slot is rendered with.
type WidgetKind string

const (
	// WidgetColumnInput picks one column, or a fixed value.
	WidgetColumnInput WidgetKind = "column-input"
	// WidgetHeaderInput picks a set of columns whose headers carry the values.
	WidgetHeaderInput WidgetKind = "header-input"
	// WidgetPlaceInput picks the place column and the property its cells hold.
	WidgetPlaceInput WidgetKind = "place-input"
)

// Slot binds one mapped thing to a widget. Required is template policy and
// never depends on the mapping contents.
type Slot struct {
	Thing    domain.MappedThing `json:"thing"`
	Widget   WidgetKind         `json:"widget"`
	Required bool               `json:"required"`
	// MappingType is the source kind a place input is fixed to.
	MappingType domain.MappingType `json:"mappingType,omitempty"`
}

// Template is the fixed, ordered list of slots for one shape of file.
type Template struct {
	ID          string `json:"id"`
	ElementID   string `json:"elementId"`
	Description string `json:"description"`
	Slots       []Slot `json:"slots"`
}

// MultiVarCol: one variable per column, dates in a single column.
var MultiVarCol = &Template{
	ID:          "multiVarCol",
	ElementID:   "multi-var-col",
	Description: "Each variable is in its own column, with a single date column",
	Slots: []Slot{
		{Thing: domain.MappedThingPlace, Widget: WidgetPlaceInput, MappingType: domain.MappingTypeColumn},
		{Thing: domain.MappedThingDate, Widget: WidgetColumnInput, Required: true},
		{Thing: domain.MappedThingStatVar, Widget: WidgetHeaderInput},
		{Thing: domain.MappedThingUnit, Widget: WidgetColumnInput, Required: false},
	},
}

// MultiVarMultiDateCol: one variable per row, one column per date.
var MultiVarMultiDateCol = &Template{
	ID:          "multiVarMultiDateCol",
	ElementID:   "multi-var-multi-date",
	Description: "Each variable is in its own row, with a column for each date",
	Slots: []Slot{
		{Thing: domain.MappedThingStatVar, Widget: WidgetColumnInput, Required: true},
		{Thing: domain.MappedThingPlace, Widget: WidgetPlaceInput, MappingType: domain.MappingTypeColumn},
		{Thing: domain.MappedThingDate, Widget: WidgetHeaderInput},
		{Thing: domain.MappedThingUnit, Widget: WidgetColumnInput, Required: false},
	},
}

var registry = []*Template{MultiVarCol, MultiVarMultiDateCol}

func All() []*Template {
	out := make([]*Template, len(registry))
	copy(out, registry)
	return out
}

func Lookup(id string) (*Template, error) {
	for _, t := range registry {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", constants.ErrUnknownTemplate, id)
}

// Accepts reports whether the slot's widget can hold a value of type mt.
func (s Slot) Accepts(mt domain.MappingType) bool {
	switch s.Widget {
	case WidgetColumnInput:
		return mt == domain.MappingTypeColumn || mt == domain.MappingTypeConstant
	case WidgetHeaderInput:
		return mt == domain.MappingTypeColumnHeader
	case WidgetPlaceInput:
		if s.MappingType == "" {
			return mt == domain.MappingTypeColumn
		}
		return mt == s.MappingType
	}
	return false
}

// Value returns the entry of m for the slot's thing. Entries the slot's
// widget cannot hold, left over from another template, count as absent.
func (s Slot) Value(m domain.UserMapping) (domain.MappingVal, bool) {
	val, ok := m.Get(s.Thing)
	if !ok || !s.Accepts(val.Type) {
		return domain.MappingVal{}, false
	}
	return val, true
}

// MissingRequired lists required slots without a usable entry in m.
func (t *Template) MissingRequired(m domain.UserMapping) []domain.MappedThing {
	var missing []domain.MappedThing
	for _, s := range t.Slots {
		if !s.Required {
			continue
		}
		if _, ok := s.Value(m); !ok {
			missing = append(missing, s.Thing)
		}
	}
	return missing
}
