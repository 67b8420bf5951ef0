package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notificationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "type", "recipient_id", "sender_id", "message", "post_id", "is_read", "created_at",
	})
}

func TestMarkAsReadFlipsUnreadRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1 AND recipient_id = \$2`).
		WillReturnRows(notificationRows().
			AddRow(1, "LIKE", 2, 3, "liked your post", nil, false, time.Now()))
	mock.ExpectExec(`UPDATE "notifications" SET "is_read"=\$1 WHERE id = \$2 AND recipient_id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	notification, err := repo.MarkAsRead(1, 2)
	require.NoError(t, err)
	// Pre-update state: false signals this call performed the flip
	assert.False(t, notification.IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsReadSkipsUpdateWhenAlreadyRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1 AND recipient_id = \$2`).
		WillReturnRows(notificationRows().
			AddRow(1, "LIKE", 2, 3, "liked your post", nil, true, time.Now()))

	notification, err := repo.MarkAsRead(1, 2)
	require.NoError(t, err)
	assert.True(t, notification.IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsReadUnownedRowIsNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "notifications" WHERE id = \$1 AND recipient_id = \$2`).
		WillReturnRows(notificationRows())

	_, err := repo.MarkAsRead(1, 2)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAllAsReadReportsFlippedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectExec(`UPDATE "notifications" SET "is_read"=\$1 WHERE recipient_id = \$2 AND is_read = false`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	flipped, err := repo.MarkAllAsRead(2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), flipped)

	// Second call flips nothing
	mock.ExpectExec(`UPDATE "notifications" SET "is_read"=\$1 WHERE recipient_id = \$2 AND is_read = false`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	flipped, err = repo.MarkAllAsRead(2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), flipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUnreadCountQueriesRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE recipient_id = \$1 AND is_read = false`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.GetUnreadCount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
