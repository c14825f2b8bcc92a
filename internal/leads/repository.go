package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store defines the interface for lead persistence. Create stamps the record
// with the server time and an initial Pending status and returns the new
// record identifier. QueryRecent returns the stored leads whose match field
// equals value and whose submission time is after since.
type Store interface {
	Create(ctx context.Context, lead *Lead) (string, error)
	QueryRecent(ctx context.Context, field MatchField, value string, since time.Time) ([]*Lead, error)
}

// InMemoryStore keeps leads in process memory. Used in tests and local
// development when no Airtable or Postgres credentials are configured.
type InMemoryStore struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		leads: make(map[string]*Lead),
	}
}

// Create stores a copy of the lead under a fresh UUID.
func (s *InMemoryStore) Create(ctx context.Context, lead *Lead) (string, error) {
	stored := *lead
	stored.ID = uuid.New().String()
	stored.SubmittedAt = time.Now().UTC()
	stored.Status = StatusPending

	s.mu.Lock()
	s.leads[stored.ID] = &stored
	s.mu.Unlock()

	return stored.ID, nil
}

// QueryRecent scans for matching leads submitted after the cutoff.
func (s *InMemoryStore) QueryRecent(ctx context.Context, field MatchField, value string, since time.Time) ([]*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*Lead
	for _, lead := range s.leads {
		if !lead.SubmittedAt.After(since) {
			continue
		}
		switch field {
		case MatchEmail:
			if lead.Email == value {
				matches = append(matches, lead)
			}
		case MatchPhone:
			if lead.Phone == value {
				matches = append(matches, lead)
			}
		}
	}
	return matches, nil
}

// GetByID retrieves a lead by ID
func (s *InMemoryStore) GetByID(ctx context.Context, id string) (*Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead, ok := s.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	return lead, nil
}
