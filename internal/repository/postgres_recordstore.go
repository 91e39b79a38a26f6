package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// fieldSpec binds a catalog field name to the SQL that reads and writes it.
// Queries take $1 = primary key; updates additionally take $2 = value.
// Virtual fields (full_legal_name, has_itin, is_dissolved) span or derive
// from several columns.
type fieldSpec struct {
	selectSQL string
	updateSQL string
}

var individualFields = map[string]fieldSpec{
	"full_legal_name": {
		selectSQL: `SELECT concat_ws(' ', first_name, middle_name, last_name) FROM individual WHERE id = $1`,
		// handled by updateFullLegalName
	},
	"date_of_birth": {
		selectSQL: `SELECT to_char(birth_date, 'YYYY-MM-DD') FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET birth_date = $2::date WHERE id = $1`,
	},
	"country_of_citizenship": {
		selectSQL: `SELECT country_of_citizenship FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET country_of_citizenship = $2 WHERE id = $1`,
	},
	"country_of_residence": {
		selectSQL: `SELECT country_of_residence FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET country_of_residence = $2 WHERE id = $1`,
	},
	"has_itin": {
		selectSQL: `SELECT CASE WHEN ssn_itin_type = 'ITIN' AND ssn_itin IS NOT NULL THEN 'yes' ELSE 'no' END FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET
			ssn_itin_type = CASE WHEN $2 = 'yes' THEN 'ITIN' ELSE NULL END,
			ssn_itin = CASE WHEN $2 = 'yes' THEN ssn_itin ELSE NULL END
			WHERE id = $1`,
	},
	"itin_number": {
		selectSQL: `SELECT CASE WHEN ssn_itin_type = 'ITIN' THEN ssn_itin END FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET ssn_itin = $2, ssn_itin_type = 'ITIN' WHERE id = $1`,
	},
	"needs_w7": {
		selectSQL: `SELECT needs_w7 FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET needs_w7 = $2 WHERE id = $1`,
	},
	"filing_status": {
		selectSQL: `SELECT filing_status FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET filing_status = $2 WHERE id = $1`,
	},
	"email": {
		selectSQL: `SELECT email FROM individual WHERE id = $1`,
		updateSQL: `UPDATE individual SET email = $2 WHERE id = $1`,
	},
}

var companyFields = map[string]fieldSpec{
	"legal_name": {
		selectSQL: `SELECT name FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET name = $2 WHERE company_id = $1`,
	},
	"dba": {
		selectSQL: `SELECT dba FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET dba = $2 WHERE company_id = $1`,
	},
	"fein": {
		selectSQL: `SELECT fein FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET fein = $2 WHERE company_id = $1`,
	},
	"email": {
		selectSQL: `SELECT email FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET email = $2 WHERE company_id = $1`,
	},
	"filing_status": {
		selectSQL: `SELECT filing_status FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET filing_status = $2 WHERE company_id = $1`,
	},
	"is_dissolved": {
		selectSQL: `SELECT CASE WHEN date_of_dissolution IS NOT NULL THEN 'yes' ELSE 'no' END FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET date_of_dissolution = CASE WHEN $2 = 'no' THEN NULL ELSE date_of_dissolution END WHERE company_id = $1`,
	},
	"date_of_dissolution": {
		selectSQL: `SELECT to_char(date_of_dissolution, 'YYYY-MM-DD') FROM company WHERE company_id = $1`,
		updateSQL: `UPDATE company SET date_of_dissolution = $2::date WHERE company_id = $1`,
	},
}

// PostgresRecordStore is a PostgreSQL implementation of the RecordStore
// interface over the individual and company schemas.
type PostgresRecordStore struct {
	db *pgxpool.Pool
}

// NewPostgresRecordStore creates a new PostgresRecordStore.
func NewPostgresRecordStore(db *pgxpool.Pool) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

func fieldsFor(reference models.Reference) (map[string]fieldSpec, error) {
	switch reference {
	case models.ReferenceIndividual:
		return individualFields, nil
	case models.ReferenceCompany:
		return companyFields, nil
	}
	return nil, fmt.Errorf("unsupported reference type %q", reference)
}

// GetField reads the stored value for a catalog field.
func (s *PostgresRecordStore) GetField(ctx context.Context, clientID int64, reference models.Reference, fieldName string) (string, error) {
	fields, err := fieldsFor(reference)
	if err != nil {
		return "", err
	}
	spec, ok := fields[fieldName]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrUnknownField, reference, fieldName)
	}

	var value *string
	err = s.db.QueryRow(ctx, spec.selectSQL, clientID).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	if err != nil {
		return "", fmt.Errorf("get %s for %s id=%d: %w", fieldName, reference, clientID, err)
	}
	if value == nil {
		return "", nil
	}
	return strings.TrimSpace(*value), nil
}

// UpdateField writes a corrected value for a catalog field.
func (s *PostgresRecordStore) UpdateField(ctx context.Context, clientID int64, reference models.Reference, fieldName, value string) error {
	fields, err := fieldsFor(reference)
	if err != nil {
		return err
	}
	spec, ok := fields[fieldName]
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownField, reference, fieldName)
	}

	if reference == models.ReferenceIndividual && fieldName == "full_legal_name" {
		return s.updateFullLegalName(ctx, clientID, value)
	}

	tag, err := s.db.Exec(ctx, spec.updateSQL, clientID, value)
	if err != nil {
		return fmt.Errorf("update %s for %s id=%d: %w", fieldName, reference, clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s id=%d", ErrClientNotFound, reference, clientID)
	}
	return nil
}

// updateFullLegalName splits a display name back into the first/middle/last
// columns: first token, last token, everything between.
func (s *PostgresRecordStore) updateFullLegalName(ctx context.Context, clientID int64, value string) error {
	first, middle, last := splitName(value)
	tag, err := s.db.Exec(ctx,
		`UPDATE individual SET first_name = $2, middle_name = NULLIF($3, ''), last_name = NULLIF($4, '') WHERE id = $1`,
		clientID, first, middle, last)
	if err != nil {
		return fmt.Errorf("update full_legal_name for individual id=%d: %w", clientID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: individual id=%d", ErrClientNotFound, clientID)
	}
	return nil
}

func splitName(full string) (first, middle, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", "", ""
	case 1:
		return parts[0], "", ""
	case 2:
		return parts[0], "", parts[1]
	default:
		return parts[0], strings.Join(parts[1:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// GetBasicProfile returns the normalized client profile for either schema.
func (s *PostgresRecordStore) GetBasicProfile(ctx context.Context, clientID int64, reference models.Reference) (*BasicProfile, error) {
	switch reference {
	case models.ReferenceIndividual:
		var p BasicProfile
		var first, middle, last, ssnType, ssn, email, status, filing *string
		err := s.db.QueryRow(ctx,
			`SELECT first_name, middle_name, last_name, ssn_itin_type, ssn_itin, email, status, filing_status
			 FROM individual WHERE id = $1`, clientID).
			Scan(&first, &middle, &last, &ssnType, &ssn, &email, &status, &filing)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: individual id=%d", ErrClientNotFound, clientID)
		}
		if err != nil {
			return nil, fmt.Errorf("get profile for individual id=%d: %w", clientID, err)
		}
		p.Reference = models.ReferenceIndividual
		p.ClientID = clientID
		p.FirstName = deref(first)
		p.MiddleName = deref(middle)
		p.LastName = deref(last)
		p.DisplayName = strings.TrimSpace(strings.Join(nonEmpty(p.FirstName, p.MiddleName, p.LastName), " "))
		p.FEINOrSSN = deref(ssn)
		p.Email = deref(email)
		p.Status = deref(status)
		p.FilingStatus = deref(filing)
		return &p, nil

	case models.ReferenceCompany:
		var p BasicProfile
		var name, dba, fein, email, status, filing *string
		err := s.db.QueryRow(ctx,
			`SELECT name, dba, fein, email, status, filing_status FROM company WHERE company_id = $1`, clientID).
			Scan(&name, &dba, &fein, &email, &status, &filing)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: company id=%d", ErrClientNotFound, clientID)
		}
		if err != nil {
			return nil, fmt.Errorf("get profile for company id=%d: %w", clientID, err)
		}
		p.Reference = models.ReferenceCompany
		p.ClientID = clientID
		p.DisplayName = deref(name)
		p.DBA = deref(dba)
		p.FEINOrSSN = deref(fein)
		p.Email = deref(email)
		p.Status = deref(status)
		p.FilingStatus = deref(filing)
		return &p, nil
	}
	return nil, fmt.Errorf("unsupported reference type %q", reference)
}

// FirstName returns a first name suitable for greeting. Companies fall back
// from the contact name to the first token of the company name.
func (s *PostgresRecordStore) FirstName(ctx context.Context, clientID int64, reference models.Reference) (string, error) {
	switch reference {
	case models.ReferenceIndividual:
		var first *string
		err := s.db.QueryRow(ctx, `SELECT first_name FROM individual WHERE id = $1`, clientID).Scan(&first)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: individual id=%d", ErrClientNotFound, clientID)
		}
		if err != nil {
			return "", fmt.Errorf("get first name for individual id=%d: %w", clientID, err)
		}
		return firstToken(deref(first)), nil

	case models.ReferenceCompany:
		var contact, name *string
		err := s.db.QueryRow(ctx, `SELECT contact_name, name FROM company WHERE company_id = $1`, clientID).Scan(&contact, &name)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: company id=%d", ErrClientNotFound, clientID)
		}
		if err != nil {
			return "", fmt.Errorf("get contact name for company id=%d: %w", clientID, err)
		}
		if t := firstToken(deref(contact)); t != "" {
			return t, nil
		}
		return firstToken(deref(name)), nil
	}
	return "", fmt.Errorf("unsupported reference type %q", reference)
}

// Ping verifies database connectivity.
func (s *PostgresRecordStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonEmpty(parts ...string) []string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
