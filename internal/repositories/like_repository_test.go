package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestToggleLikeInsertsRowAndIncrementsCounter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLikeRepository(db)

	mock.ExpectBegin()
	// No existing like row for this user and post
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET .*like_count \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "like_count" FROM "posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(1))
	mock.ExpectCommit()

	liked, likeCount, err := repo.ToggleLike(7, 5)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeDeletesRowAndDecrementsFloored(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}).
			AddRow(3, 7, 5, time.Now()))
	mock.ExpectExec(`DELETE FROM "likes"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "posts" SET .*GREATEST\(like_count - 1, 0\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "like_count" FROM "posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectCommit()

	liked, likeCount, err := repo.ToggleLike(7, 5)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, likeCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeRollsBackOnCounterFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLikeRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "posts" SET .*like_count \+ 1`).
		WillReturnError(gorm.ErrInvalidData)
	mock.ExpectRollback()

	_, _, err := repo.ToggleLike(7, 5)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleLikeConcurrentInsertLosesAsConflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresLikeRepository(db)

	// The lookup misses, but by the time we insert, a concurrent request
	// from the same user has already created the row. The unique index on
	// (user_id, post_id) rejects the insert and the counter stays untouched.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE user_id = \$1 AND post_id = \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "post_id", "created_at"}))
	mock.ExpectQuery(`INSERT INTO "likes"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_user_post_like"})
	mock.ExpectRollback()

	_, _, err := repo.ToggleLike(7, 5)
	require.ErrorIs(t, err, ErrAlreadyLiked)
	assert.NoError(t, mock.ExpectationsWereMet())
}
