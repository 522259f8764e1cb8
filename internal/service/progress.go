package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/repository"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// ProgressService tracks per-lecture viewing state. Completed is derived
// from the course's current lecture set on every write, never set directly.
type ProgressService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	progress    repository.ProgressRepository
	logger      *slog.Logger
}

// NewProgressService creates a progress service.
func NewProgressService(
	courses repository.CourseRepository,
	enrollments repository.EnrollmentRepository,
	progress repository.ProgressRepository,
	logger *slog.Logger,
) *ProgressService {
	return &ProgressService{
		courses:     courses,
		enrollments: enrollments,
		progress:    progress,
		logger:      logger,
	}
}

// SetLectureViewed records one lecture's viewed flag and recomputes the
// course completion state.
func (s *ProgressService) SetLectureViewed(ctx context.Context, studentID, courseID, lectureID string, viewed bool) (*domain.ProgressRecord, error) {
	course, err := s.requireEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !course.HasLecture(lectureID) {
		return nil, apperrors.NotFoundCode("LECTURE_NOT_FOUND", "lecture not found in this course")
	}

	record, err := s.loadOrInit(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	record.SetViewed(lectureID, viewed)
	record.Recompute(course.LectureIDs())

	if err := s.progress.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("lecture progress recorded",
		slog.String("student_id", studentID),
		slog.String("course_id", courseID),
		slog.String("lecture_id", lectureID),
		slog.Bool("viewed", viewed),
		slog.Bool("completed", record.Completed),
	)
	return record, nil
}

// MarkAllViewed overrides every lecture's flag at once, including lectures
// the record has never seen. Unlike the single-lecture write it requires an
// existing record: it is a bulk edit, not a first touch.
func (s *ProgressService) MarkAllViewed(ctx context.Context, studentID, courseID string, viewed bool) (*domain.ProgressRecord, error) {
	course, err := s.requireEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	record, err := s.progress.Get(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}

	record.SetAll(course.LectureIDs(), viewed)

	if err := s.progress.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("course progress overridden",
		slog.String("student_id", studentID),
		slog.String("course_id", courseID),
		slog.Bool("viewed", viewed),
		slog.Bool("completed", record.Completed),
	)
	return record, nil
}

// GetProgress returns the record for (student, course). A student who has
// never recorded anything gets an empty, not-completed record rather than an
// error; the read itself requires only that the course exists. Consumption
// gating stays with the writes and the lecture-content endpoint.
func (s *ProgressService) GetProgress(ctx context.Context, studentID, courseID string) (*domain.ProgressRecord, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.loadOrInit(ctx, studentID, courseID)
}

func (s *ProgressService) loadOrInit(ctx context.Context, studentID, courseID string) (*domain.ProgressRecord, error) {
	record, err := s.progress.Get(ctx, studentID, courseID)
	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, apperrors.ErrNotFound):
		return domain.NewProgressRecord(studentID, courseID), nil
	default:
		return nil, err
	}
}

func (s *ProgressService) requireEnrollment(ctx context.Context, studentID, courseID string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, domain.ErrNotEnrolled
	}
	return course, nil
}
