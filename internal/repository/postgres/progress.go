package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/database"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// ProgressRepository implements repository.ProgressRepository backed by
// PostgreSQL. The per-lecture flags live in a JSONB column; the record is
// read, mutated, and written back whole, matching the one-row-per-pair
// model.
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new PostgreSQL progress repository.
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get retrieves the progress record for (student, course).
func (r *ProgressRepository) Get(ctx context.Context, studentID, courseID string) (*domain.ProgressRecord, error) {
	query := `
		SELECT student_id, course_id, units, completed, updated_at
		FROM progress_records
		WHERE student_id = $1 AND course_id = $2`

	var (
		record domain.ProgressRecord
		units  []byte
	)
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(
		&record.StudentID, &record.CourseID, &units, &record.Completed, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundCode("PROGRESS_NOT_FOUND", "progress record not found")
		}
		return nil, apperrors.Wrap(err, "failed to get progress record")
	}

	if err := json.Unmarshal(units, &record.Units); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode progress units")
	}
	return &record, nil
}

// Upsert creates or replaces the progress record in a single write.
func (r *ProgressRepository) Upsert(ctx context.Context, record *domain.ProgressRecord) error {
	query := `
		INSERT INTO progress_records (student_id, course_id, units, completed, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, course_id)
		DO UPDATE SET units = EXCLUDED.units, completed = EXCLUDED.completed, updated_at = EXCLUDED.updated_at`

	units, err := json.Marshal(record.Units)
	if err != nil {
		return apperrors.Wrap(err, "failed to encode progress units")
	}

	record.UpdatedAt = time.Now().UTC()
	_, err = r.db.Exec(ctx, query,
		record.StudentID, record.CourseID, units, record.Completed, record.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert progress record")
	}
	return nil
}
