package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxQuerier is the slice of pgxpool.Pool the store needs. pgxmock satisfies
// it too, which is how the store is tested.
type PgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore persists leads in a relational table for self-hosted
// deployments that do not use Airtable.
type PostgresStore struct {
	db PgxQuerier
}

// NewPostgresStore initializes a store backed by a pgx pool.
func NewPostgresStore(db PgxQuerier) *PostgresStore {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresStore{db: db}
}

// Create inserts a new row stamped Pending at the database's current time.
func (s *PostgresStore) Create(ctx context.Context, lead *Lead) (string, error) {
	id := uuid.New()
	query := `
		INSERT INTO leads (
			id, full_name, email, phone, zip_code,
			project_type, timeframe, budget, property_type, own_rent,
			tcpa_consent, utm_source, utm_medium, utm_campaign,
			gclid, fbclid, referrer, landing_page_url, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING submitted_at
	`
	var submittedAt time.Time
	if err := s.db.QueryRow(ctx, query,
		id,
		lead.FullName,
		lead.Email,
		lead.Phone,
		lead.ZipCode,
		lead.ProjectType,
		lead.Timeframe,
		lead.Budget,
		lead.PropertyType,
		lead.OwnRent,
		lead.TCPAConsent,
		nullable(lead.UTMSource),
		nullable(lead.UTMMedium),
		nullable(lead.UTMCampaign),
		nullable(lead.GCLID),
		nullable(lead.FBCLID),
		nullable(lead.Referrer),
		lead.LandingPageURL,
		StatusPending,
	).Scan(&submittedAt); err != nil {
		return "", fmt.Errorf("leads: insert failed: %w", err)
	}

	return id.String(), nil
}

// QueryRecent fetches leads matching the field submitted after the cutoff.
func (s *PostgresStore) QueryRecent(ctx context.Context, field MatchField, value string, since time.Time) ([]*Lead, error) {
	column, ok := postgresColumn(field)
	if !ok {
		return nil, fmt.Errorf("leads: unsupported match field %q", field)
	}

	query := fmt.Sprintf(`
		SELECT id, full_name, email, phone, status, submitted_at
		FROM leads
		WHERE %s = $1 AND submitted_at > $2
	`, column)

	rows, err := s.db.Query(ctx, query, value, since)
	if err != nil {
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	defer rows.Close()

	var matches []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.FullName,
			&lead.Email,
			&lead.Phone,
			&lead.Status,
			&lead.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		matches = append(matches, &lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w", err)
	}
	return matches, nil
}

// postgresColumn whitelists filterable columns; the match field is never
// interpolated from user input directly.
func postgresColumn(field MatchField) (string, bool) {
	switch field {
	case MatchEmail:
		return "email", true
	case MatchPhone:
		return "phone", true
	}
	return "", false
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
