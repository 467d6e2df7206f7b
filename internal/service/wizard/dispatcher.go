package wizard

import (
	"github.com/ougirez/mapwizard/internal/domain"
)

// FieldChanged is emitted by a widget when the user edits its value.
type FieldChanged struct {
	Thing domain.MappedThing `json:"thing"`
	Val   domain.MappingVal  `json:"val"`
}

// Apply commits one change and returns the next snapshot. m is not modified.
func Apply(m domain.UserMapping, msg FieldChanged) domain.UserMapping {
	return m.With(msg.Thing, msg.Val)
}

// Replay folds msgs over an empty mapping.
func Replay(msgs ...FieldChanged) domain.UserMapping {
	m := domain.UserMapping{}
	for _, msg := range msgs {
		m = Apply(m, msg)
	}
	return m
}
