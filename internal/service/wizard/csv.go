package wizard

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

type CsvOpts struct {
	// SampleSize caps the distinct values kept per column.
	SampleSize int
	// DisplayRows caps the rows kept for the file preview table.
	DisplayRows int
}

// ParseCsv reads the header row and every data row of r.
func ParseCsv(r io.Reader, fileName string, opts CsvOpts) (*domain.CsvData, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, constants.ErrEmptyCsv
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	data := &domain.CsvData{
		RawCsvFile:          fileName,
		OrderedColumns:      make([]domain.Column, len(header)),
		ColumnValuesSampled: make(map[string][]string, len(header)),
		RowsForDisplay:      [][]string{},
		Rows:                [][]string{},
	}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		data.OrderedColumns[i] = domain.NewColumn(h, i)
	}

	seen := make(map[string]map[string]struct{}, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(data.Rows)+2, err)
		}

		row := make([]string, len(header))
		copy(row, record)
		data.Rows = append(data.Rows, row)
		if opts.DisplayRows <= 0 || len(data.RowsForDisplay) < opts.DisplayRows {
			data.RowsForDisplay = append(data.RowsForDisplay, row)
		}

		for i, col := range data.OrderedColumns {
			v := strings.TrimSpace(row[i])
			if v == "" {
				continue
			}
			if seen[col.ID] == nil {
				seen[col.ID] = make(map[string]struct{})
			}
			if _, ok := seen[col.ID][v]; ok {
				continue
			}
			if opts.SampleSize > 0 && len(data.ColumnValuesSampled[col.ID]) >= opts.SampleSize {
				continue
			}
			seen[col.ID][v] = struct{}{}
			data.ColumnValuesSampled[col.ID] = append(data.ColumnValuesSampled[col.ID], v)
		}
	}

	return data, nil
}
