package dto

import (
	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/service/templates"
)

type UpdateMappingRequest struct {
	Thing string            `json:"thing" validate:"required"`
	Val   domain.MappingVal `json:"val"`
}

type ChangeTemplateRequest struct {
	Template string `json:"template" validate:"required"`
}

type CreateSessionResponse struct {
	Session *SessionResponse `json:"session"`
	Token   string           `json:"token"`
}

// SessionResponse is a session together with its rendered template.
type SessionResponse struct {
	ID          string             `json:"id"`
	TemplateID  string             `json:"templateId"`
	CsvData     CsvDataView        `json:"csvData"`
	UserMapping domain.UserMapping `json:"userMapping"`
	View        *templates.View    `json:"view"`
}

// CsvDataView leaves out the full rows.
type CsvDataView struct {
	RawCsvFile          string              `json:"rawCsvFile"`
	OrderedColumns      []domain.Column     `json:"orderedColumns"`
	ColumnValuesSampled map[string][]string `json:"columnValuesSampled"`
	RowsForDisplay      [][]string          `json:"rowsForDisplay"`
}

func NewSessionResponse(session *domain.Session, view *templates.View) *SessionResponse {
	resp := &SessionResponse{
		ID:          session.ID,
		TemplateID:  session.TemplateID,
		UserMapping: session.UserMapping,
		View:        view,
	}
	if session.CsvData != nil {
		resp.CsvData = CsvDataView{
			RawCsvFile:          session.CsvData.RawCsvFile,
			OrderedColumns:      session.CsvData.OrderedColumns,
			ColumnValuesSampled: session.CsvData.ColumnValuesSampled,
			RowsForDisplay:      session.CsvData.RowsForDisplay,
		}
	}
	return resp
}

type TopicPageResponse struct {
	Props        *domain.TopicPageProps `json:"props"`
	Locale       string                 `json:"locale"`
	MessageCount int                    `json:"messageCount"`
	Translated   bool                   `json:"translated"`
}
