package notes

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

const (
	testNoteID  = "0b6f3c52-7d1e-4a8b-9c3f-5e2d1a0b4c6d"
	testOwnerID = "6f1c2a4e-9a51-4a63-8f0e-1d2c3b4a5e6f"
)

var noteRowColumns = []string{"id", "user_id", "title", "description", "tag", "date"}

func newStoreWithMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(sqlx.NewDb(db, "pgx")), mock
}

func noteRow(title, desc, tag string, date time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(noteRowColumns).AddRow(testNoteID, testOwnerID, title, desc, tag, date)
}

func TestPostgresListByOwner(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*tag,\s*date\s+FROM\s+notes\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+date,\s*id\s*$`
	mock.ExpectQuery(q).WithArgs(testOwnerID).
		WillReturnRows(sqlmock.NewRows(noteRowColumns).
			AddRow(testNoteID, testOwnerID, "a", "d", "General", now).
			AddRow("9d8c7b6a-5f4e-4d3c-8b2a-1f0e9d8c7b6a", testOwnerID, "b", "d", "work", now.Add(time.Second)))

	list, err := store.ListByOwner(context.Background(), testOwnerID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Title)
	assert.Equal(t, testOwnerID, list[1].Owner)

	// an owner id that cannot exist yields an empty list without a query
	list, err = store.ListByOwner(context.Background(), "nope")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate(t *testing.T) {
	store, mock := newStoreWithMock(t)
	now := time.Now().UTC()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(id,\s*user_id,\s*title,\s*description,\s*tag\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*user_id,\s*title,\s*description,\s*tag,\s*date\s*$`
	mock.ExpectQuery(q).
		WithArgs(sqlmock.AnyArg(), testOwnerID, "t", "d", DefaultTag).
		WillReturnRows(noteRow("t", "d", DefaultTag, now))

	got, err := store.Create(context.Background(), &Note{Owner: testOwnerID, Title: "t", Description: "d", Tag: DefaultTag})
	require.NoError(t, err)
	assert.Equal(t, testNoteID, got.ID)
	assert.Equal(t, now, got.Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreate_MissingOwner(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "notes_user_id_fkey"})

	_, err := store.Create(context.Background(), &Note{Owner: testOwnerID, Title: "t", Description: "d", Tag: DefaultTag})
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestPostgresFindByID(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^SELECT\s+id,\s*user_id,\s*title,\s*description,\s*tag,\s*date\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs(testNoteID).WillReturnRows(noteRow("t", "d", "x", time.Now()))
	mock.ExpectQuery(q).WithArgs(testNoteID).WillReturnRows(sqlmock.NewRows(noteRowColumns))

	got, err := store.FindByID(context.Background(), testNoteID)
	require.NoError(t, err)
	assert.Equal(t, testOwnerID, got.Owner)

	_, err = store.FindByID(context.Background(), testNoteID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_OnlyPatchedColumns(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^UPDATE\s+notes\s+SET\s+title\s*=\s*COALESCE\(\$2,\s*title\),\s*description\s*=\s*COALESCE\(\$3,\s*description\),\s*tag\s*=\s*COALESCE\(\$4,\s*tag\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*user_id,\s*title,\s*description,\s*tag,\s*date\s*$`
	mock.ExpectQuery(q).
		WithArgs(testNoteID, nil, nil, "work").
		WillReturnRows(noteRow("t", "d", "work", time.Now()))

	tag := "work"
	got, err := store.Update(context.Background(), testNoteID, Patch{Tag: &tag})
	require.NoError(t, err)
	assert.Equal(t, "work", got.Tag)
	assert.Equal(t, "t", got.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdate_Missing(t *testing.T) {
	store, mock := newStoreWithMock(t)

	mock.ExpectQuery(`UPDATE\s+notes`).WillReturnRows(sqlmock.NewRows(noteRowColumns))

	_, err := store.Update(context.Background(), testNoteID, Patch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	store, mock := newStoreWithMock(t)

	q := `(?s)^DELETE\s+FROM\s+notes\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+id,\s*user_id,\s*title,\s*description,\s*tag,\s*date\s*$`
	mock.ExpectQuery(q).WithArgs(testNoteID).WillReturnRows(noteRow("t", "d", "x", time.Now()))
	mock.ExpectQuery(q).WithArgs(testNoteID).WillReturnError(errors.New("db down"))

	got, err := store.Delete(context.Background(), testNoteID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Tag)

	_, err = store.Delete(context.Background(), testNoteID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
