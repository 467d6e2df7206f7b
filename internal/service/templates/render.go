package templates

import (
	"fmt"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

// UpdateFunc receives every edit a widget accepts.
type UpdateFunc func(thing domain.MappedThing, val domain.MappingVal) error

// Props is the read-only input of a template render. UserMapping is a
// snapshot; rendering and updates never modify it.
type Props struct {
	UserMapping         domain.UserMapping
	CsvData             *domain.CsvData
	OnMappingValUpdated UpdateFunc
}

// View is a rendered template: one widget per slot, in slot order.
type View struct {
	TemplateID string    `json:"templateId"`
	ElementID  string    `json:"elementId"`
	Widgets    []*Widget `json:"widgets"`
}

func (v *View) Widget(thing domain.MappedThing) (*Widget, bool) {
	for _, w := range v.Widgets {
		if w.Thing == thing {
			return w, true
		}
	}
	return nil, false
}

// Render builds the widget tree for tpl. Entries of props.UserMapping for
// things outside the template, or of a type the slot's widget cannot hold,
// render unset.
func Render(tpl *Template, props Props) *View {
	options := []domain.Column{}
	if props.CsvData != nil {
		options = append(options, props.CsvData.OrderedColumns...)
	}

	view := &View{
		TemplateID: tpl.ID,
		ElementID:  tpl.ElementID,
		Widgets:    make([]*Widget, 0, len(tpl.Slots)),
	}
	for _, slot := range tpl.Slots {
		w := &Widget{
			Thing:       slot.Thing,
			Kind:        slot.Widget,
			Label:       slot.Thing.DisplayName(),
			Required:    slot.Required,
			MappingType: slot.MappingType,
			Options:     options,
			Unset:       true,
			slot:        slot,
			csv:         props.CsvData,
			onUpdate:    props.OnMappingValUpdated,
		}
		if val, ok := slot.Value(props.UserMapping); ok {
			v := val
			w.Value = &v
			w.Unset = false
		}
		view.Widgets = append(view.Widgets, w)
	}

	return view
}

// Widget is one rendered input bound to a single mapped thing.
type Widget struct {
	Thing       domain.MappedThing `json:"thing"`
	Kind        WidgetKind         `json:"kind"`
	Label       string             `json:"label"`
	Required    bool               `json:"required"`
	MappingType domain.MappingType `json:"mappingType,omitempty"`
	Value       *domain.MappingVal `json:"value,omitempty"`
	Unset       bool               `json:"unset"`
	Options     []domain.Column    `json:"options"`

	slot     Slot
	csv      *domain.CsvData
	onUpdate UpdateFunc
}

// PlaceProperties are the identifiers a place column may hold.
var PlaceProperties = map[string]bool{
	"dcid":            true,
	"name":            true,
	"isoCode":         true,
	"geoId":           true,
	"wikidataId":      true,
	"fips52AlphaCode": true,
	"latLng":          true,
}

// Accepts reports whether the widget can produce a value of type t.
func (w *Widget) Accepts(t domain.MappingType) bool {
	return w.slot.Accepts(t)
}

// Update validates val and hands it to the update callback exactly once.
// Rejected values never reach the callback.
func (w *Widget) Update(val domain.MappingVal) error {
	if !w.Accepts(val.Type) {
		return fmt.Errorf("%w: %s widget for %s does not take %s values",
			constants.ErrInvalidMappingVal, w.Kind, w.Thing, val.Type)
	}
	if err := val.ValidateAgainst(w.csv); err != nil {
		return fmt.Errorf("%w: %s: %s", constants.ErrInvalidMappingVal, w.Thing, err.Error())
	}
	if w.Kind == WidgetPlaceInput && val.PlaceProperty != "" && !PlaceProperties[val.PlaceProperty] {
		return fmt.Errorf("%w: unknown place property %q", constants.ErrInvalidMappingVal, val.PlaceProperty)
	}
	if w.Kind != WidgetPlaceInput && val.PlaceProperty != "" {
		return fmt.Errorf("%w: place property set on %s", constants.ErrInvalidMappingVal, w.Thing)
	}

	if w.onUpdate == nil {
		return nil
	}
	return w.onUpdate(w.Thing, val)
}
