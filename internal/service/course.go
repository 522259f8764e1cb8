package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/repository"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// CourseService owns the catalog side: creating courses, attaching
// lectures, and publishing.
type CourseService struct {
	courses repository.CourseRepository
	gate    *Gate
	logger  *slog.Logger
}

// NewCourseService creates a course service.
func NewCourseService(courses repository.CourseRepository, gate *Gate, logger *slog.Logger) *CourseService {
	return &CourseService{courses: courses, gate: gate, logger: logger}
}

// CreateCourseInput carries the fields needed to create a course.
type CreateCourseInput struct {
	InstructorID string
	Title        string
	Category     string
	Level        string
	ThumbnailURL string
	Description  string
	PriceCents   int64
}

// CreateCourse creates an unpublished course.
func (s *CourseService) CreateCourse(ctx context.Context, input CreateCourseInput) (*domain.Course, error) {
	course := &domain.Course{
		ID:           uuid.New().String(),
		InstructorID: input.InstructorID,
		Title:        input.Title,
		Category:     input.Category,
		Level:        input.Level,
		ThumbnailURL: input.ThumbnailURL,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		Published:    false,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info("course created",
		slog.String("course_id", course.ID),
		slog.String("instructor_id", course.InstructorID),
	)
	return course, nil
}

// AddLecture appends a lecture at the end of the course's lecture list.
func (s *CourseService) AddLecture(ctx context.Context, courseID, title string) (*domain.Lecture, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	lecture := &domain.Lecture{
		ID:       uuid.New().String(),
		CourseID: course.ID,
		Title:    title,
		Position: len(course.Lectures) + 1,
	}
	if err := s.courses.AddLecture(ctx, lecture); err != nil {
		return nil, err
	}
	return lecture, nil
}

// Publish makes the course visible. Publication requires the descriptive
// fields and at least one lecture to be in place.
func (s *CourseService) Publish(ctx context.Context, courseID string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.ReadyToPublish() {
		return nil, domain.ErrInvalidState
	}
	if err := s.courses.SetPublished(ctx, course.ID, true); err != nil {
		return nil, err
	}
	course.Published = true

	s.logger.Info("course published", slog.String("course_id", course.ID))
	return course, nil
}

// GetLecture returns one lecture's content, gated on consumption rights.
func (s *CourseService) GetLecture(ctx context.Context, courseID, lectureID, accountID, role string) (*domain.Lecture, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.gate.CanConsume(ctx, accountID, role, courseID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, domain.ErrNotEnrolled
	}

	for i := range course.Lectures {
		if course.Lectures[i].ID == lectureID {
			return &course.Lectures[i], nil
		}
	}
	return nil, apperrors.NotFoundCode("LECTURE_NOT_FOUND", "lecture not found in this course")
}

// GetCourse returns a course, shaped for the caller: enrolled students and
// operators see the full lecture list, everyone else gets the summary view
// with lectures stripped.
func (s *CourseService) GetCourse(ctx context.Context, courseID, accountID, role string) (*domain.Course, bool, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	allowed, err := s.gate.CanConsume(ctx, accountID, role, courseID)
	if err != nil {
		return nil, false, err
	}
	if !allowed {
		course.Lectures = nil
	}
	return course, allowed, nil
}
