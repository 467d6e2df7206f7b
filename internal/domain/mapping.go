package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MappedThing is a semantic role a column (or a fixed value) can be assigned to.
type MappedThing string

const (
	MappedThingPlace   MappedThing = "PLACE"
	MappedThingDate    MappedThing = "DATE"
	MappedThingStatVar MappedThing = "STAT_VAR"
	MappedThingUnit    MappedThing = "UNIT"
)

// MappedThingNames are the display names of the mapped things.
var MappedThingNames = map[MappedThing]string{
	MappedThingPlace:   "Place",
	MappedThingDate:    "Date",
	MappedThingStatVar: "Variable",
	MappedThingUnit:    "Unit",
}

var validMappedThings = map[string]MappedThing{
	"PLACE":    MappedThingPlace,
	"DATE":     MappedThingDate,
	"STAT_VAR": MappedThingStatVar,
	"UNIT":     MappedThingUnit,
}

func ParseMappedThing(s string) (MappedThing, error) {
	thing, ok := validMappedThings[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown mapped thing %q", s)
	}
	return thing, nil
}

// DisplayName falls back to the raw value when no name is registered.
func (t MappedThing) DisplayName() string {
	if name, ok := MappedThingNames[t]; ok && name != "" {
		return name
	}
	return string(t)
}

// MappingType tells where the value of a mapped thing comes from.
type MappingType string

const (
	// MappingTypeColumn: each row holds the value in one column.
	MappingTypeColumn MappingType = "COLUMN"
	// MappingTypeColumnHeader: the headers of a set of columns are the values.
	MappingTypeColumnHeader MappingType = "COLUMN_HEADER"
	// MappingTypeConstant: one literal applies to every row.
	MappingTypeConstant MappingType = "CONSTANT"
)

var validMappingTypes = map[string]MappingType{
	"COLUMN":        MappingTypeColumn,
	"COLUMN_HEADER": MappingTypeColumnHeader,
	"CONSTANT":      MappingTypeConstant,
}

func (t MappingType) IsValid() bool {
	_, ok := validMappingTypes[string(t)]
	return ok
}

// Column references one column of the uploaded file.
type Column struct {
	// ID is unique within a file even when two headers repeat.
	ID        string `json:"id"`
	Header    string `json:"header"`
	ColumnIdx int    `json:"columnIdx"`
}

func NewColumn(header string, idx int) Column {
	return Column{
		ID:        header + "_" + strconv.Itoa(idx),
		Header:    header,
		ColumnIdx: idx,
	}
}

// MappingVal describes how a mapped thing is satisfied. Which fields are set
// depends on Type, see Validate.
type MappingVal struct {
	Type          MappingType `json:"type"`
	Column        *Column     `json:"column,omitempty"`
	Headers       []Column    `json:"headers,omitempty"`
	PlaceProperty string      `json:"placeProperty,omitempty"`
	Value         string      `json:"value,omitempty"`
}

func ColumnVal(col Column) MappingVal {
	return MappingVal{Type: MappingTypeColumn, Column: &col}
}

func HeaderVal(headers ...Column) MappingVal {
	return MappingVal{Type: MappingTypeColumnHeader, Headers: headers}
}

func ConstantVal(value string) MappingVal {
	return MappingVal{Type: MappingTypeConstant, Value: value}
}

// Validate checks that the populated fields agree with the type tag.
func (v MappingVal) Validate() error {
	switch v.Type {
	case MappingTypeColumn:
		if v.Column == nil {
			return fmt.Errorf("%s mapping without a column", v.Type)
		}
		if v.Column.ColumnIdx < 0 {
			return fmt.Errorf("%s mapping with negative column index %d", v.Type, v.Column.ColumnIdx)
		}
		if len(v.Headers) > 0 || v.Value != "" {
			return fmt.Errorf("%s mapping must not carry headers or a fixed value", v.Type)
		}
	case MappingTypeColumnHeader:
		if len(v.Headers) == 0 {
			return fmt.Errorf("%s mapping without headers", v.Type)
		}
		if v.Column != nil || v.Value != "" {
			return fmt.Errorf("%s mapping must not carry a column or a fixed value", v.Type)
		}
	case MappingTypeConstant:
		if strings.TrimSpace(v.Value) == "" {
			return fmt.Errorf("%s mapping with an empty value", v.Type)
		}
		if v.Column != nil || len(v.Headers) > 0 {
			return fmt.Errorf("%s mapping must not carry column references", v.Type)
		}
	default:
		return fmt.Errorf("unknown mapping type %q", v.Type)
	}

	if v.PlaceProperty != "" && v.Type != MappingTypeColumn {
		return fmt.Errorf("place property is only allowed on %s mappings", MappingTypeColumn)
	}

	return nil
}

// ValidateAgainst checks that every referenced column exists in the parsed file.
func (v MappingVal) ValidateAgainst(csv *CsvData) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if v.Column != nil {
		if err := csv.checkColumn(*v.Column); err != nil {
			return err
		}
	}
	for _, h := range v.Headers {
		if err := csv.checkColumn(h); err != nil {
			return err
		}
	}
	return nil
}

// Columns returns every column the value refers to.
func (v MappingVal) Columns() []Column {
	cols := make([]Column, 0, len(v.Headers)+1)
	if v.Column != nil {
		cols = append(cols, *v.Column)
	}
	return append(cols, v.Headers...)
}

func (v MappingVal) Equal(o MappingVal) bool {
	if v.Type != o.Type || v.PlaceProperty != o.PlaceProperty || v.Value != o.Value {
		return false
	}
	if (v.Column == nil) != (o.Column == nil) {
		return false
	}
	if v.Column != nil && *v.Column != *o.Column {
		return false
	}
	if len(v.Headers) != len(o.Headers) {
		return false
	}
	for i := range v.Headers {
		if v.Headers[i] != o.Headers[i] {
			return false
		}
	}
	return true
}
