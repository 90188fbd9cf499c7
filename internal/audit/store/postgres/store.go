package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"refguard/internal/audit"
	"refguard/internal/reference"
	txcontext "refguard/pkg/platform/tx"
)

//go:embed schema.sql
var Schema string

// Store persists audit records in the audit_records table. Writes join the
// SQL transaction carried in ctx, so the record commits or rolls back with
// the state change that produced it.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate audit_records: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, record audit.Record) error {
	query := `
		INSERT INTO audit_records (
			id, created_at, detail,
			prior_kind, prior_id, prior_fallback,
			new_kind, new_id, new_fallback,
			parent_kind, parent_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, query,
		record.ID,
		record.CreatedAt,
		record.Detail,
		string(record.PriorState.Kind),
		record.PriorState.ID.String(),
		record.PriorState.Fallback,
		string(record.NewState.Kind),
		record.NewState.ID.String(),
		record.NewState.Fallback,
		string(record.Parent.Kind()),
		record.Parent.ID(),
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (s *Store) ListByParent(ctx context.Context, parent audit.Parent) ([]audit.Record, error) {
	query := `
		SELECT id, created_at, detail,
			   prior_kind, prior_id, prior_fallback,
			   new_kind, new_id, new_fallback,
			   parent_kind, parent_id
		FROM audit_records
		WHERE parent_kind = $1 AND parent_id = $2
		ORDER BY created_at ASC
	`
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, query, string(parent.Kind()), parent.ID())
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

func (s *Store) DeleteByParent(ctx context.Context, parent audit.Parent) (int, error) {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx,
		`DELETE FROM audit_records WHERE parent_kind = $1 AND parent_id = $2`,
		string(parent.Kind()), parent.ID(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}
	return int(n), nil
}

func scanRecords(rows *sql.Rows) ([]audit.Record, error) {
	var records []audit.Record
	for rows.Next() {
		var (
			record                 audit.Record
			priorKind, priorID     string
			newKind, newID         string
			parentKind, parentID   string
			priorFallback, newFall bool
		)
		err := rows.Scan(
			&record.ID,
			&record.CreatedAt,
			&record.Detail,
			&priorKind, &priorID, &priorFallback,
			&newKind, &newID, &newFall,
			&parentKind, &parentID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}

		parent, err := audit.ParentOf(audit.ParentKind(parentKind), parentID)
		if err != nil {
			return nil, fmt.Errorf("scan audit record %s: %w", record.ID, err)
		}
		record.Parent = parent
		record.PriorState = reference.Reference{Kind: reference.Kind(priorKind), ID: reference.ID(priorID), Fallback: priorFallback}
		record.NewState = reference.Reference{Kind: reference.Kind(newKind), ID: reference.ID(newID), Fallback: newFall}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}
