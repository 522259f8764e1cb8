package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/database"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

func TestAccessRequestCreate(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewAccessRequestRepository(pool)
	req := &domain.AccessRequest{
		ID:        "req-1",
		StudentID: "stu-1",
		CourseID:  "crs-1",
		Status:    domain.AccessStatusPending,
	}

	pool.ExpectExec("INSERT INTO access_requests").
		WithArgs(req.ID, req.StudentID, req.CourseID, req.Status,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), req))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestAccessRequestCreateUniqueViolation(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewAccessRequestRepository(pool)

	pool.ExpectExec("INSERT INTO access_requests").
		WithArgs("req-1", "stu-1", "crs-1", domain.AccessStatusPending,
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_access_requests_pair" (SQLSTATE 23505)`))

	err = repo.Create(context.Background(), &domain.AccessRequest{
		ID:        "req-1",
		StudentID: "stu-1",
		CourseID:  "crs-1",
		Status:    domain.AccessStatusPending,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePending)
}

func TestAccessRequestGetByPairNotFound(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewAccessRequestRepository(pool)

	pool.ExpectQuery("SELECT (.+) FROM access_requests").
		WithArgs("stu-1", "crs-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "course_id", "status", "created_at", "updated_at"}))

	_, err = repo.GetByPair(context.Background(), "stu-1", "crs-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAccessRequestListByCourse(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewAccessRequestRepository(pool)
	now := time.Now().UTC()

	pool.ExpectQuery("SELECT (.+) FROM access_requests").
		WithArgs("crs-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "course_id", "status", "created_at", "updated_at"}).
			AddRow("req-2", "stu-2", "crs-1", domain.AccessStatusPending, now, now).
			AddRow("req-1", "stu-1", "crs-1", domain.AccessStatusApproved, now.Add(-time.Hour), now))

	requests, err := repo.ListByCourse(context.Background(), "crs-1")

	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "req-2", requests[0].ID, "newest request comes first")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestAccessRequestUpdateStatusMissing(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewAccessRequestRepository(pool)

	pool.ExpectExec("UPDATE access_requests").
		WithArgs("req-9", domain.AccessStatusApproved, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateStatus(context.Background(), "req-9", domain.AccessStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
