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

// CourseRepository implements repository.CourseRepository backed by
// PostgreSQL.
type CourseRepository struct {
	db database.DBTX
}

// NewCourseRepository creates a new PostgreSQL course repository.
func NewCourseRepository(db database.DBTX) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	query := `
		INSERT INTO courses (id, instructor_id, title, category, level, thumbnail_url, description, price_cents, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		course.ID, course.InstructorID, course.Title, course.Category,
		course.Level, course.ThumbnailURL, course.Description,
		course.PriceCents, course.Published, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create course")
	}
	return nil
}

// GetByID retrieves a course together with its lectures in position order.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	query := `
		SELECT id, instructor_id, title, category, level, thumbnail_url, description, price_cents, published, created_at, updated_at
		FROM courses
		WHERE id = $1`

	var course domain.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID, &course.InstructorID, &course.Title, &course.Category,
		&course.Level, &course.ThumbnailURL, &course.Description,
		&course.PriceCents, &course.Published, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get course")
	}

	lectures, err := r.lecturesForCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Lectures = lectures
	return &course, nil
}

// AddLecture appends a lecture to a course.
func (r *CourseRepository) AddLecture(ctx context.Context, lecture *domain.Lecture) error {
	query := `
		INSERT INTO lectures (id, course_id, title, position)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, lecture.ID, lecture.CourseID, lecture.Title, lecture.Position)
	if err != nil {
		return apperrors.Wrap(err, "failed to add lecture")
	}
	return nil
}

// SetPublished updates the course's published flag.
func (r *CourseRepository) SetPublished(ctx context.Context, id string, published bool) error {
	query := `
		UPDATE courses
		SET published = $2, updated_at = $3
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, published, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, "failed to update course publication")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) lecturesForCourse(ctx context.Context, courseID string) ([]domain.Lecture, error) {
	query := `
		SELECT id, course_id, title, position
		FROM lectures
		WHERE course_id = $1
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list lectures")
	}
	defer rows.Close()

	var lectures []domain.Lecture
	for rows.Next() {
		var l domain.Lecture
		if err := rows.Scan(&l.ID, &l.CourseID, &l.Title, &l.Position); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan lecture")
		}
		lectures = append(lectures, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate lectures")
	}
	return lectures, nil
}
