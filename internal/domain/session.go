package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the state container that owns a user's mapping while they work
// through the wizard.
type Session struct {
	ID          string      `json:"id" db:"id"`
	TemplateID  string      `json:"templateId" db:"template_id"`
	CsvData     *CsvData    `json:"csvData" db:"csv_data"`
	UserMapping UserMapping `json:"userMapping" db:"user_mapping"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// Observation is one data point produced by applying a mapping to a row.
type Observation struct {
	Place   string          `json:"place"`
	StatVar string          `json:"statVar"`
	Date    string          `json:"date"`
	Value   decimal.Decimal `json:"value"`
	Unit    string          `json:"unit,omitempty"`
}
