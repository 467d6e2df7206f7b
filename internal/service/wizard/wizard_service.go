package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/logger"
	"github.com/ougirez/mapwizard/internal/pkg/store"
	"github.com/ougirez/mapwizard/internal/service/preview"
	"github.com/ougirez/mapwizard/internal/service/templates"
)

type Service struct {
	store   store.Store
	csvOpts CsvOpts
	// previewRows caps the rows a preview reads.
	previewRows int

	locksMx sync.Mutex
	locks   map[string]*sessionLock
}

type sessionLock struct {
	mx   sync.Mutex
	refs int
}

func NewWizardService(store store.Store, csvOpts CsvOpts, previewRows int) *Service {
	return &Service{
		store:       store,
		csvOpts:     csvOpts,
		previewRows: previewRows,
		locks:       make(map[string]*sessionLock),
	}
}

// lock serializes edits of one session; the returned func releases it.
func (s *Service) lock(id string) func() {
	s.locksMx.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sessionLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMx.Unlock()

	l.mx.Lock()
	return func() {
		l.mx.Unlock()

		s.locksMx.Lock()
		defer s.locksMx.Unlock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
	}
}

func (s *Service) CreateSession(ctx context.Context, templateID string, fileName string, file io.Reader) (*domain.Session, error) {
	if _, err := templates.Lookup(templateID); err != nil {
		return nil, err
	}

	csvData, err := ParseCsv(file, fileName, s.csvOpts)
	if err != nil {
		return nil, fmt.Errorf("ParseCsv: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:          uuid.NewString(),
		TemplateID:  templateID,
		CsvData:     csvData,
		UserMapping: domain.UserMapping{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store.CreateSession: %w", err)
	}

	logger.Infof(ctx, "created session %s: template %s, %d columns, %d rows",
		session.ID, templateID, len(csvData.OrderedColumns), len(csvData.Rows))
	return session, nil
}

func (s *Service) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrSessionNotFound
		}
		return nil, fmt.Errorf("store.GetSession: %w", err)
	}
	return session, nil
}

func (s *Service) DeleteSession(ctx context.Context, id string) error {
	err := s.store.DeleteSession(ctx, id)
	if errors.Is(err, constants.ErrDBNotFound) {
		return constants.ErrSessionNotFound
	}
	return err
}

// RenderSession renders the session's template. The view's widgets report
// edits through onUpdate, which may be nil for read-only views.
func (s *Service) RenderSession(session *domain.Session, onUpdate templates.UpdateFunc) (*templates.View, error) {
	tpl, err := templates.Lookup(session.TemplateID)
	if err != nil {
		return nil, err
	}

	return templates.Render(tpl, templates.Props{
		UserMapping:         session.UserMapping,
		CsvData:             session.CsvData,
		OnMappingValUpdated: onUpdate,
	}), nil
}

// UpdateMapping routes one edit through the widget bound to thing and
// commits it as a single FieldChanged.
func (s *Service) UpdateMapping(ctx context.Context, id string, thing domain.MappedThing, val domain.MappingVal) (*domain.Session, error) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []FieldChanged
	view, err := s.RenderSession(session, func(thing domain.MappedThing, val domain.MappingVal) error {
		changes = append(changes, FieldChanged{Thing: thing, Val: val})
		return nil
	})
	if err != nil {
		return nil, err
	}

	widget, ok := view.Widget(thing)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", constants.ErrThingNotInTemplate, thing, session.TemplateID)
	}
	if err = widget.Update(val); err != nil {
		return nil, err
	}

	next := *session
	for _, change := range changes {
		next.UserMapping = Apply(next.UserMapping, change)
	}
	next.UpdatedAt = time.Now().UTC()

	if err = s.store.UpdateSession(ctx, &next); err != nil {
		return nil, fmt.Errorf("store.UpdateSession: %w", err)
	}

	logger.Debugf(ctx, "session %s: %s set to %s", id, thing, val.Type)
	return &next, nil
}

// ChangeTemplate switches the file shape. Every entry is kept; those the new
// template has no slot for, or whose type its widget cannot hold, render unset
// and do not count towards completeness.
func (s *Service) ChangeTemplate(ctx context.Context, id string, templateID string) (*domain.Session, error) {
	if _, err := templates.Lookup(templateID); err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	defer unlock()

	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *session
	next.TemplateID = templateID
	next.UpdatedAt = time.Now().UTC()
	if err = s.store.UpdateSession(ctx, &next); err != nil {
		return nil, fmt.Errorf("store.UpdateSession: %w", err)
	}

	return &next, nil
}

type CheckResult struct {
	Complete        bool                 `json:"complete"`
	MissingRequired []domain.MappedThing `json:"missingRequired"`
}

func (s *Service) CheckMapping(ctx context.Context, id string) (*CheckResult, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl, err := templates.Lookup(session.TemplateID)
	if err != nil {
		return nil, err
	}

	missing := tpl.MissingRequired(session.UserMapping)
	return &CheckResult{
		Complete:        len(missing) == 0,
		MissingRequired: missing,
	}, nil
}

func (s *Service) Preview(ctx context.Context, id string) (*preview.Result, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl, err := templates.Lookup(session.TemplateID)
	if err != nil {
		return nil, err
	}

	res, err := preview.Build(tpl, session.UserMapping, session.CsvData, s.previewRows)
	if err != nil {
		return nil, fmt.Errorf("preview.Build: %w", err)
	}
	return res, nil
}
