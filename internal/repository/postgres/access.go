package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/database"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// AccessRequestRepository implements repository.AccessRequestRepository
// backed by PostgreSQL. The access_requests table carries a unique index on
// (student_id, course_id), so two racing first requests collapse to one row
// and the loser sees domain.ErrDuplicatePending.
type AccessRequestRepository struct {
	db database.DBTX
}

// NewAccessRequestRepository creates a new PostgreSQL access request
// repository.
func NewAccessRequestRepository(db database.DBTX) *AccessRequestRepository {
	return &AccessRequestRepository{db: db}
}

// Create inserts a new pending request.
func (r *AccessRequestRepository) Create(ctx context.Context, req *domain.AccessRequest) error {
	query := `
		INSERT INTO access_requests (id, student_id, course_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		req.ID, req.StudentID, req.CourseID, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePending
		}
		return apperrors.Wrap(err, "failed to create access request")
	}
	return nil
}

// GetByID retrieves a request by its identifier.
func (r *AccessRequestRepository) GetByID(ctx context.Context, id string) (*domain.AccessRequest, error) {
	query := `
		SELECT id, student_id, course_id, status, created_at, updated_at
		FROM access_requests
		WHERE id = $1`

	return r.scanRequest(r.db.QueryRow(ctx, query, id))
}

// GetByPair retrieves the single live request for (student, course).
func (r *AccessRequestRepository) GetByPair(ctx context.Context, studentID, courseID string) (*domain.AccessRequest, error) {
	query := `
		SELECT id, student_id, course_id, status, created_at, updated_at
		FROM access_requests
		WHERE student_id = $1 AND course_id = $2`

	return r.scanRequest(r.db.QueryRow(ctx, query, studentID, courseID))
}

// UpdateStatus persists a status transition on an existing request.
func (r *AccessRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.AccessStatus) error {
	query := `
		UPDATE access_requests
		SET status = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to update access request status")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("access request", id)
	}
	return nil
}

// Delete removes a request record.
func (r *AccessRequestRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM access_requests WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access request")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("access request", id)
	}
	return nil
}

// ListByCourse returns all requests for a course, newest-created first.
func (r *AccessRequestRepository) ListByCourse(ctx context.Context, courseID string) ([]domain.AccessRequest, error) {
	query := `
		SELECT id, student_id, course_id, status, created_at, updated_at
		FROM access_requests
		WHERE course_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access requests")
	}
	defer rows.Close()

	var requests []domain.AccessRequest
	for rows.Next() {
		var req domain.AccessRequest
		err := rows.Scan(&req.ID, &req.StudentID, &req.CourseID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access request")
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access requests")
	}
	return requests, nil
}

func (r *AccessRequestRepository) scanRequest(row pgx.Row) (*domain.AccessRequest, error) {
	var req domain.AccessRequest
	err := row.Scan(&req.ID, &req.StudentID, &req.CourseID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundCode("REQUEST_NOT_FOUND", "access request not found")
		}
		return nil, apperrors.Wrap(err, "failed to get access request")
	}
	return &req, nil
}
