package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// pgForeignKeyViolation is the PostgreSQL error code for a broken foreign key.
const pgForeignKeyViolation = "23503"

const noteColumns = `id, user_id, title, description, tag, date`

// PostgresStore keeps notes in the `notes` table created by the db migrations.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore on top of an sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string) ([]Note, error) {
	list := []Note{}
	if _, err := uuid.Parse(ownerID); err != nil {
		return list, nil
	}
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY date, id`
	if err := s.db.SelectContext(ctx, &list, query, ownerID); err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	return list, nil
}

func (s *PostgresStore) Create(ctx context.Context, n *Note) (*Note, error) {
	query := `INSERT INTO notes (id, user_id, title, description, tag)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING ` + noteColumns

	var created Note
	err := s.db.QueryRowxContext(ctx, query, uuid.NewString(), n.Owner, n.Title, n.Description, n.Tag).StructScan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var n Note
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	if err := s.db.GetContext(ctx, &n, query, id); err != nil {
		return nil, notFoundOr(err, "select note")
	}
	return &n, nil
}

// Update sets only the patched columns; COALESCE keeps the rest.
func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) (*Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `UPDATE notes
              SET title = COALESCE($2, title),
                  description = COALESCE($3, description),
                  tag = COALESCE($4, tag)
              WHERE id = $1
              RETURNING ` + noteColumns

	var n Note
	err := s.db.QueryRowxContext(ctx, query, id, patch.Title, patch.Description, patch.Tag).StructScan(&n)
	if err != nil {
		return nil, notFoundOr(err, "update note")
	}
	return &n, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (*Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	query := `DELETE FROM notes WHERE id = $1 RETURNING ` + noteColumns

	var n Note
	if err := s.db.QueryRowxContext(ctx, query, id).StructScan(&n); err != nil {
		return nil, notFoundOr(err, "delete note")
	}
	return &n, nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
