package domain

import "fmt"

// CsvData is the parsed shape of an uploaded file. It is built once by the
// parser and never modified afterwards.
type CsvData struct {
	RawCsvFile string `json:"rawCsvFile"`
	// OrderedColumns follow the file's left-to-right order.
	OrderedColumns []Column `json:"orderedColumns"`
	// ColumnValuesSampled is keyed by Column.ID.
	ColumnValuesSampled map[string][]string `json:"columnValuesSampled"`
	RowsForDisplay      [][]string          `json:"rowsForDisplay"`
	// Rows holds every data row; it is kept for preview and not sent to clients.
	Rows [][]string `json:"rows,omitempty"`
}

func (c *CsvData) checkColumn(col Column) error {
	if c == nil {
		return fmt.Errorf("column %q: no file parsed", col.Header)
	}
	if col.ColumnIdx < 0 || col.ColumnIdx >= len(c.OrderedColumns) {
		return fmt.Errorf("column %q: index %d out of range", col.Header, col.ColumnIdx)
	}
	if parsed := c.OrderedColumns[col.ColumnIdx]; parsed.Header != col.Header {
		return fmt.Errorf("column %d: header %q does not match file header %q", col.ColumnIdx, col.Header, parsed.Header)
	}
	return nil
}
