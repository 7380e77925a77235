package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUUID = "6f1c2a4e-9a51-4a63-8f0e-1d2c3b4a5e6f"

var userColumns = []string{"id", "name", "email", "password", "date"}

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "pgx")), mock
}

func TestPostgresCreate_Success(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*name,\s*email,\s*password\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id,\s*name,\s*email,\s*password,\s*date\s*$`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), "Ann Lee", "ann@x.com", "hash").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testUUID, "Ann Lee", "ann@x.com", "hash", now))

	got, err := store.Create(context.Background(), &User{Name: "Ann Lee", Email: "ann@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, testUUID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, now, got.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"})

	_, err := store.Create(context.Background(), &User{Name: "Ann Lee", Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestPostgresCreate_DBError(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	_, err := store.Create(context.Background(), &User{Name: "Ann Lee", Email: "ann@x.com"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.Contains(t, err.Error(), "db down")
}

func TestPostgresFindByEmail(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password,\s*date\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testUUID, "Ann Lee", "ann@x.com", "hash", time.Now()))
	mock.ExpectQuery(q).WithArgs("bob@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	got, err := store.FindByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)

	_, err = store.FindByEmail(context.Background(), "bob@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^SELECT\s+id,\s*name,\s*email,\s*password,\s*date\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs(testUUID).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(testUUID, "Ann Lee", "ann@x.com", "hash", time.Now()))

	got, err := store.FindByID(context.Background(), testUUID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", got.Email)

	// malformed ids never reach the database
	_, err = store.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
