package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityRepositoryWithDB(db)

	mock.ExpectExec("INSERT INTO activity_log").
		WithArgs(sqlmock.AnyArg(), "user-1", "project-1", "comment",
			"User user-1 commented on segment seg-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Record(context.Background(), "user-1", "project-1", "comment",
		"User user-1 commented on segment seg-1")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepository_RecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityRepositoryWithDB(db)

	mock.ExpectExec("INSERT INTO activity_log").
		WillReturnError(assert.AnError)

	err = repo.Record(context.Background(), "user-1", "project-1", "comment", "message")
	assert.Error(t, err)
}

func TestActivityRepository_RecentForProject(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityRepositoryWithDB(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "user_id", "project_id", "category", "message", "created_at"}).
		AddRow(uuid.New(), "user-2", "project-1", "comment", "second comment", now).
		AddRow(uuid.New(), "user-1", "project-1", "comment", "first comment", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, user_id, project_id, category, message, created_at").
		WithArgs("project-1", 10).
		WillReturnRows(rows)

	records, err := repo.RecentForProject(context.Background(), "project-1", 10)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, "second comment", records[0].Message)
	assert.Equal(t, "user-2", records[0].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}
