package postgres

import (
	"context"
	"time"

	"github.com/studyway/coursegate/pkg/database"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// EnrollmentRepository implements repository.EnrollmentRepository backed by
// PostgreSQL. Enrollment is a bare membership fact keyed on the pair, so the
// table's primary key is (student_id, course_id).
type EnrollmentRepository struct {
	db database.DBTX
}

// NewEnrollmentRepository creates a new PostgreSQL enrollment repository.
func NewEnrollmentRepository(db database.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Add upserts the enrollment fact. ON CONFLICT DO NOTHING gives it set-add
// semantics: re-adding an existing fact is a no-op, not an error.
func (r *EnrollmentRepository) Add(ctx context.Context, studentID, courseID string) error {
	query := `
		INSERT INTO enrollments (student_id, course_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, course_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, studentID, courseID, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to add enrollment")
	}
	return nil
}

// Exists reports whether the fact is present for (student, course).
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check enrollment")
	}
	return exists, nil
}
