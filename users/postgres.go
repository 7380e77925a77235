package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore keeps users in the `users` table created by the db migrations.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore on top of an sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *User) (*User, error) {
	query := `INSERT INTO users (id, name, email, password)
              VALUES ($1, $2, $3, $4)
              RETURNING id, name, email, password, date`

	var created User
	err := s.db.QueryRowxContext(ctx, query, uuid.NewString(), u.Name, u.Email, u.PasswordHash).StructScan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	query := `SELECT id, name, email, password, date FROM users WHERE email = $1`
	if err := s.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	// Ids are UUID strings; anything else cannot exist, so skip the round trip.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var u User
	query := `SELECT id, name, email, password, date FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return &u, nil
}
