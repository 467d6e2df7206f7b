package preview

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/service/templates"
)

// needed lists the things an observation cannot be built without.
var needed = []domain.MappedThing{domain.MappedThingPlace, domain.MappedThingStatVar, domain.MappedThingDate}

var rowThings = []domain.MappedThing{
	domain.MappedThingPlace, domain.MappedThingStatVar, domain.MappedThingDate, domain.MappedThingUnit,
}

type RowError struct {
	// Row is 1-indexed over data rows.
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

type Result struct {
	Observations []domain.Observation `json:"observations"`
	Errors       []RowError           `json:"errors"`
	RowsRead     int                  `json:"rowsRead"`
	Truncated    bool                 `json:"truncated"`
}

// Build applies m to the rows of csv. The template's header-input slot picks
// the columns holding values: each such column yields one observation per row.
func Build(tpl *templates.Template, m domain.UserMapping, csv *domain.CsvData, maxRows int) (*Result, error) {
	m = usable(tpl, m)

	var missing []string
	for _, thing := range needed {
		if _, ok := m.Get(thing); !ok {
			missing = append(missing, string(thing))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", constants.ErrIncompleteMapping, strings.Join(missing, ", "))
	}

	var (
		valueThing domain.MappedThing
		found      bool
	)
	for _, slot := range tpl.Slots {
		if slot.Widget == templates.WidgetHeaderInput {
			valueThing, found = slot.Thing, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("template %s has no header input", tpl.ID)
	}

	valueCols, _ := m.Get(valueThing)
	if valueCols.Type != domain.MappingTypeColumnHeader {
		return nil, fmt.Errorf("%w: %s must be mapped to column headers", constants.ErrIncompleteMapping, valueThing)
	}

	res := &Result{Observations: []domain.Observation{}, Errors: []RowError{}}
	if csv == nil {
		return res, nil
	}

	for i, row := range csv.Rows {
		if maxRows > 0 && i >= maxRows {
			res.Truncated = true
			break
		}
		res.RowsRead++
		rowNum := i + 1

		base := make(map[domain.MappedThing]string, len(rowThings))
		ok := true
		for _, thing := range rowThings {
			if thing == valueThing {
				continue
			}
			v, resolveErr := resolve(m, thing, row)
			if resolveErr != nil {
				res.Errors = append(res.Errors, RowError{Row: rowNum, Message: resolveErr.Error()})
				ok = false
				break
			}
			if v == "" && thing != domain.MappedThingUnit {
				res.Errors = append(res.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("empty %s", thing.DisplayName())})
				ok = false
				break
			}
			base[thing] = v
		}
		if !ok {
			continue
		}

		for _, col := range valueCols.Headers {
			if col.ColumnIdx >= len(row) {
				res.Errors = append(res.Errors, RowError{Row: rowNum, Column: col.Header, Message: "missing cell"})
				continue
			}
			val, parseErr := parseValue(row[col.ColumnIdx])
			if parseErr != nil {
				res.Errors = append(res.Errors, RowError{Row: rowNum, Column: col.Header, Message: parseErr.Error()})
				continue
			}

			obs := domain.Observation{
				Place:   base[domain.MappedThingPlace],
				StatVar: base[domain.MappedThingStatVar],
				Date:    base[domain.MappedThingDate],
				Value:   val,
				Unit:    base[domain.MappedThingUnit],
			}
			switch valueThing {
			case domain.MappedThingStatVar:
				obs.StatVar = col.Header
			case domain.MappedThingDate:
				obs.Date = col.Header
			}
			res.Observations = append(res.Observations, obs)
		}
	}

	return res, nil
}

// usable keeps the entries tpl's slots can hold.
func usable(tpl *templates.Template, m domain.UserMapping) domain.UserMapping {
	vals := make(map[domain.MappedThing]domain.MappingVal, len(tpl.Slots))
	for _, slot := range tpl.Slots {
		if val, ok := slot.Value(m); ok {
			vals[slot.Thing] = val
		}
	}
	return domain.NewUserMapping(vals)
}

func resolve(m domain.UserMapping, thing domain.MappedThing, row []string) (string, error) {
	val, ok := m.Get(thing)
	if !ok {
		return "", nil
	}

	switch val.Type {
	case domain.MappingTypeConstant:
		return val.Value, nil
	case domain.MappingTypeColumn:
		if val.Column == nil || val.Column.ColumnIdx >= len(row) {
			return "", fmt.Errorf("%s column missing in row", thing.DisplayName())
		}
		return strings.TrimSpace(row[val.Column.ColumnIdx]), nil
	default:
		return "", fmt.Errorf("%s cannot be read from %s mapping", thing.DisplayName(), val.Type)
	}
}

func parseValue(cell string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty value")
	}
	val, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse value %q", cell)
	}
	return val, nil
}
