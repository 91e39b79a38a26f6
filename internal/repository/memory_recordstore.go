package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// MemoryRecordStore is an in-memory RecordStore for tests and local
// development. Records are flat field maps keyed by reference and client id.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[models.Reference]map[int64]map[string]string

	// UpdateErr, when set, is returned by every UpdateField call.
	UpdateErr error
}

// NewMemoryRecordStore creates an empty MemoryRecordStore.
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		records: map[models.Reference]map[int64]map[string]string{
			models.ReferenceIndividual: {},
			models.ReferenceCompany:    {},
		},
	}
}

// PutRecord installs or replaces a client record.
func (s *MemoryRecordStore) PutRecord(clientID int64, reference models.Reference, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.records[reference][clientID] = copied
}

func (s *MemoryRecordStore) GetField(ctx context.Context, clientID int64, reference models.Reference, fieldName string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[reference][clientID]
	if !ok {
		return "", fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	return rec[fieldName], nil
}

func (s *MemoryRecordStore) UpdateField(ctx context.Context, clientID int64, reference models.Reference, fieldName, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	rec, ok := s.records[reference][clientID]
	if !ok {
		return fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	rec[fieldName] = value
	return nil
}

func (s *MemoryRecordStore) GetBasicProfile(ctx context.Context, clientID int64, reference models.Reference) (*BasicProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[reference][clientID]
	if !ok {
		return nil, fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	p := &BasicProfile{
		Reference:    reference,
		ClientID:     clientID,
		Email:        rec["email"],
		FilingStatus: rec["filing_status"],
	}
	if reference == models.ReferenceIndividual {
		p.DisplayName = rec["full_legal_name"]
		p.FirstName = firstToken(rec["full_legal_name"])
	} else {
		p.DisplayName = rec["legal_name"]
		p.DBA = rec["dba"]
		p.FEINOrSSN = rec["fein"]
	}
	return p, nil
}

func (s *MemoryRecordStore) FirstName(ctx context.Context, clientID int64, reference models.Reference) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[reference][clientID]
	if !ok {
		return "", fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	if reference == models.ReferenceCompany {
		if t := firstToken(rec["contact_name"]); t != "" {
			return t, nil
		}
		return firstToken(rec["legal_name"]), nil
	}
	return firstToken(rec["full_legal_name"]), nil
}

func (s *MemoryRecordStore) Ping(ctx context.Context) error { return nil }

// Field reads a stored value directly, bypassing the interface. Test helper.
func (s *MemoryRecordStore) Field(clientID int64, reference models.Reference, fieldName string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[reference][clientID]
	if !ok {
		return ""
	}
	return strings.TrimSpace(rec[fieldName])
}
