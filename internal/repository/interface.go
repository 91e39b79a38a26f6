package repository

import (
	"context"
	"errors"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

var (
	// ErrClientNotFound is returned when no record exists for the
	// (client id, reference) pair.
	ErrClientNotFound = errors.New("client record not found")
	// ErrUnknownField is returned for a field name outside the schema of
	// the given reference type.
	ErrUnknownField = errors.New("unknown field")
)

// BasicProfile is the normalized identity/status shape for a client record,
// independent of which schema it came from.
type BasicProfile struct {
	Reference    models.Reference `json:"reference"`
	ClientID     int64            `json:"client_id"`
	DisplayName  string           `json:"display_name"`
	FirstName    string           `json:"first_name,omitempty"`
	MiddleName   string           `json:"middle_name,omitempty"`
	LastName     string           `json:"last_name,omitempty"`
	DBA          string           `json:"dba,omitempty"`
	FEINOrSSN    string           `json:"fein_or_ssn,omitempty"`
	Email        string           `json:"email,omitempty"`
	Status       string           `json:"status,omitempty"`
	FilingStatus string           `json:"filing_status,omitempty"`
}

// RecordStore is the client-record collaborator contract. Records live in two
// distinct schemas selected by the reference type; field names are the
// catalog's field names, mapped to columns by the implementation.
type RecordStore interface {
	// GetField reads the stored value for a field. A missing client is an
	// error; a NULL field is an empty string.
	GetField(ctx context.Context, clientID int64, reference models.Reference, fieldName string) (string, error)
	// UpdateField writes a corrected value for a field.
	UpdateField(ctx context.Context, clientID int64, reference models.Reference, fieldName, value string) error
	// GetBasicProfile returns the normalized client profile.
	GetBasicProfile(ctx context.Context, clientID int64, reference models.Reference) (*BasicProfile, error)
	// FirstName returns the best-effort personal first name for greeting,
	// or empty when nothing usable is on file.
	FirstName(ctx context.Context, clientID int64, reference models.Reference) (string, error)
	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
