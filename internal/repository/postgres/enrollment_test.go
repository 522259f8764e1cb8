package postgres

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/pkg/database"
)

func TestEnrollmentAdd(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewEnrollmentRepository(pool)

	pool.ExpectExec("INSERT INTO enrollments").
		WithArgs("stu-1", "crs-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Add(context.Background(), "stu-1", "crs-1"))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestEnrollmentAddExistingIsNoop(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewEnrollmentRepository(pool)

	// ON CONFLICT DO NOTHING: zero rows affected, no error.
	pool.ExpectExec("INSERT INTO enrollments").
		WithArgs("stu-1", "crs-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	assert.NoError(t, repo.Add(context.Background(), "stu-1", "crs-1"))
}

func TestEnrollmentExists(t *testing.T) {
	pool, err := database.NewMockPool()
	require.NoError(t, err)
	defer pool.Close()

	repo := NewEnrollmentRepository(pool)

	pool.ExpectQuery("SELECT EXISTS").
		WithArgs("stu-1", "crs-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	enrolled, err := repo.Exists(context.Background(), "stu-1", "crs-1")
	require.NoError(t, err)
	assert.True(t, enrolled)
}
