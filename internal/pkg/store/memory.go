package store

import (
	"context"
	"sync"

	"github.com/ougirez/mapwizard/internal/domain"
	"github.com/ougirez/mapwizard/internal/pkg/constants"
)

type memoryStore struct {
	mx       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemoryStore keeps sessions in process memory.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]domain.Session)}
}

func (s *memoryStore) CreateSession(_ context.Context, session *domain.Session) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	s.sessions[session.ID] = *session
	return nil
}

func (s *memoryStore) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mx.RLock()
	defer s.mx.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, constants.ErrDBNotFound
	}
	return &session, nil
}

func (s *memoryStore) UpdateSession(_ context.Context, session *domain.Session) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return constants.ErrDBNotFound
	}
	s.sessions[session.ID] = *session
	return nil
}

func (s *memoryStore) DeleteSession(_ context.Context, id string) error {
	s.mx.Lock()
	defer s.mx.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return constants.ErrDBNotFound
	}
	delete(s.sessions, id)
	return nil
}
