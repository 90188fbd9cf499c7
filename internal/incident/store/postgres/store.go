package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"refguard/internal/incident"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
	txcontext "refguard/pkg/platform/tx"
)

//go:embed schema.sql
var Schema string

// Store persists incidents in Postgres. References are stored as their id and
// fallback marker; the kind is implied by the column.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate incidents: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, inc *incident.Incident) error {
	query := `
		INSERT INTO incidents (
			id, title, description,
			state_id, state_fallback,
			address_id, address_fallback,
			reporter_id, reporter_fallback,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			state_id = EXCLUDED.state_id,
			state_fallback = EXCLUDED.state_fallback,
			address_id = EXCLUDED.address_id,
			address_fallback = EXCLUDED.address_fallback,
			reporter_id = EXCLUDED.reporter_id,
			reporter_fallback = EXCLUDED.reporter_fallback,
			updated_at = EXCLUDED.updated_at
	`
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		inc.ID,
		inc.Title,
		inc.Description,
		inc.State.ID.String(), inc.State.Fallback,
		nullableID(inc.Address.ID), inc.Address.Fallback,
		inc.Reporter.ID.String(), inc.Reporter.Fallback,
		inc.CreatedAt,
		inc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert incident: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, title, description,
		   state_id, state_fallback,
		   address_id, address_fallback,
		   reporter_id, reporter_fallback,
		   created_at, updated_at
	FROM incidents
`

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return s.findOne(ctx, selectColumns+` WHERE id = $1`, id)
}

// FindForUpdate locks the row until the transaction carried in ctx ends.
// Outside a transaction the lock is released as soon as the row is read.
func (s *Store) FindForUpdate(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return s.findOne(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id)
}

func (s *Store) findOne(ctx context.Context, query string, id uuid.UUID) (*incident.Incident, error) {
	row := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, id)
	inc, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find incident: %w", err)
	}
	return inc, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete incident: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]*incident.Incident, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, selectColumns+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []*incident.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(row scanner) (*incident.Incident, error) {
	var (
		inc                         incident.Incident
		stateID, reporterID         string
		addressID                   sql.NullString
		stateFB, addressFB, reporFB bool
	)
	err := row.Scan(
		&inc.ID, &inc.Title, &inc.Description,
		&stateID, &stateFB,
		&addressID, &addressFB,
		&reporterID, &reporFB,
		&inc.CreatedAt, &inc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inc.State = reference.Reference{Kind: reference.KindState, ID: reference.ID(stateID), Fallback: stateFB}
	inc.Address = reference.Reference{Kind: reference.KindAddress, ID: reference.ID(addressID.String), Fallback: addressFB}
	inc.Reporter = reference.Reference{Kind: reference.KindUser, ID: reference.ID(reporterID), Fallback: reporFB}
	return &inc, nil
}

func nullableID(id reference.ID) sql.NullString {
	return sql.NullString{String: id.String(), Valid: !id.IsZero()}
}
