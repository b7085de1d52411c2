package preferences

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewPostgresStore(db)
	ctx := context.Background()
	query := regexp.QuoteMeta(selectPrefSQL)

	mock.ExpectQuery(query).WithArgs("alice", "min_confidence_threshold").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("0.75"))
	v, found, err := store.Get(ctx, "alice", "min_confidence_threshold")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.75, v)

	mock.ExpectQuery(query).WithArgs("alice", "theme").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(nil))
	_, found, err = store.Get(ctx, "alice", "theme")
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectQuery(query).WithArgs("nobody", "theme").WillReturnError(sql.ErrNoRows)
	_, found, err = store.Get(ctx, "nobody", "theme")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(upsertPrefSQL)).
		WithArgs("alice", "theme", `"dark"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresStore(db).Set(context.Background(), "alice", "theme", "dark"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_EnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS user_preferences").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, NewPostgresStore(db).EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
