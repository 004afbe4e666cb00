package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wolfman30/flight-intent/internal/extraction"
)

// ErrNotFound is returned when no intent has the requested id.
var ErrNotFound = errors.New("archive: intent not found")

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore keeps confirmed intents in the intents table.
type PostgresStore struct {
	db querier
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("archive: pgx pool required")
	}
	return &PostgresStore{db: pool}
}

func newPostgresStoreWithQuerier(db querier) *PostgresStore {
	if db == nil {
		panic("archive: querier required")
	}
	return &PostgresStore{db: db}
}

// Archive inserts the intent. Re-archiving the same id is a no-op.
func (s *PostgresStore) Archive(ctx context.Context, in Intent) error {
	raw, err := json.Marshal(in.Record)
	if err != nil {
		return fmt.Errorf("archive: marshal record: %w", err)
	}
	query := `
		INSERT INTO intents (
			id, session_id, source, destination, flight_type, flight_class,
			departure_date, return_date, adults, children, infants, airline,
			turns, record, confirmed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO NOTHING
	`
	r := in.Record
	_, err = s.db.Exec(ctx, query,
		in.ID, in.SessionID, codeText(r.Source), codeText(r.Destination),
		string(r.FlightType), string(r.FlightClass),
		dateValue(r.DepartureDate), dateValue(r.ReturnDate),
		int32(r.Passengers.Adults), int32(r.Passengers.Children), int32(r.Passengers.Infants),
		r.Airline, in.Turns, raw, in.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("archive: insert intent: %w", err)
	}
	return nil
}

// Get loads one intent by id.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Intent, error) {
	query := `SELECT id, session_id, turns, record, confirmed_at FROM intents WHERE id = $1`
	in, err := scanIntent(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Intent{}, ErrNotFound
		}
		return Intent{}, fmt.Errorf("archive: get intent: %w", err)
	}
	return in, nil
}

// Recent lists the newest intents for a session, newest first.
func (s *PostgresStore) Recent(ctx context.Context, sessionID string, limit int) ([]Intent, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, session_id, turns, record, confirmed_at
		FROM intents
		WHERE session_id = $1
		ORDER BY confirmed_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("archive: list intents: %w", err)
	}
	defer rows.Close()

	var out []Intent
	for rows.Next() {
		in, err := scanIntent(rows)
		if err != nil {
			return nil, fmt.Errorf("archive: scan intent: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("archive: list intents: %w", err)
	}
	return out, nil
}

func scanIntent(row pgx.Row) (Intent, error) {
	var (
		in  Intent
		raw []byte
	)
	if err := row.Scan(&in.ID, &in.SessionID, &in.Turns, &raw, &in.ConfirmedAt); err != nil {
		return Intent{}, err
	}
	if err := json.Unmarshal(raw, &in.Record); err != nil {
		return Intent{}, fmt.Errorf("decode record: %w", err)
	}
	return in, nil
}

func codeText[T ~string](p *T) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

func dateValue(d *extraction.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}
