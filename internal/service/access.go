package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/event"
	"github.com/studyway/coursegate/internal/repository"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// AccessService owns the grant ledger and the enrollment fact store. A paid
// course is joined through the request/approve workflow; a free course skips
// the ledger entirely and writes the enrollment fact directly.
type AccessService struct {
	accounts    repository.AccountRepository
	courses     repository.CourseRepository
	requests    repository.AccessRequestRepository
	enrollments repository.EnrollmentRepository
	events      *event.Producer
	logger      *slog.Logger
}

// NewAccessService creates an access service.
func NewAccessService(
	accounts repository.AccountRepository,
	courses repository.CourseRepository,
	requests repository.AccessRequestRepository,
	enrollments repository.EnrollmentRepository,
	events *event.Producer,
	logger *slog.Logger,
) *AccessService {
	return &AccessService{
		accounts:    accounts,
		courses:     courses,
		requests:    requests,
		enrollments: enrollments,
		events:      events,
		logger:      logger,
	}
}

// Request opens (or reopens) an access request for a paid course. A declined
// request is recycled in place: the same record flips back to pending, so
// the (student, course) pair never grows a second row.
func (s *AccessService) Request(ctx context.Context, studentID, courseID string) (*domain.AccessRequest, error) {
	course, err := s.requireVerifiedAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if course.Free() {
		return nil, domain.ErrInvalidState
	}

	// The ledger record decides the outcome first: an approved record means
	// AlreadyGranted even though the enrollment fact also exists. Only a
	// fact without any record (the free path, or a direct grant) reads as
	// AlreadyEnrolled here.
	existing, err := s.requests.GetByPair(ctx, studentID, courseID)
	switch {
	case err == nil:
		return s.reopenExisting(ctx, existing)
	case errors.Is(err, apperrors.ErrNotFound):
		// fall through
	default:
		return nil, err
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}

	req := &domain.AccessRequest{
		ID:        uuid.New().String(),
		StudentID: studentID,
		CourseID:  courseID,
		Status:    domain.AccessStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("access requested",
		slog.String("request_id", req.ID),
		slog.String("student_id", studentID),
		slog.String("course_id", courseID),
	)
	s.events.PublishAccessRequested(ctx, req)
	return req, nil
}

func (s *AccessService) reopenExisting(ctx context.Context, req *domain.AccessRequest) (*domain.AccessRequest, error) {
	switch req.Status {
	case domain.AccessStatusPending:
		return nil, domain.ErrDuplicatePending
	case domain.AccessStatusApproved:
		return nil, domain.ErrAlreadyGranted
	}

	if err := req.Transition(domain.AccessStatusPending); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, domain.AccessStatusPending); err != nil {
		return nil, err
	}

	s.logger.Info("access re-requested",
		slog.String("request_id", req.ID),
		slog.String("student_id", req.StudentID),
		slog.String("course_id", req.CourseID),
	)
	s.events.PublishAccessRequested(ctx, req)
	return req, nil
}

// Approve grants the request. The enrollment fact is written before the
// status flips, so a crash between the two writes leaves the student
// enrolled with a pending request, which a repeated approval repairs.
// Approving an already-approved request re-asserts the fact and succeeds.
// The route already gates on role; the service re-checks so the rule holds
// for every caller.
func (s *AccessService) Approve(ctx context.Context, requestID, actorRole string) (*domain.AccessRequest, error) {
	if !domain.IsOperatorRole(actorRole) {
		return nil, apperrors.Forbidden("FORBIDDEN", "only instructors and admins decide access requests")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if req.Status == domain.AccessStatusApproved {
		// Idempotent repair path: make sure the fact really exists.
		if err := s.enrollments.Add(ctx, req.StudentID, req.CourseID); err != nil {
			return nil, err
		}
		return req, nil
	}

	if err := req.Transition(domain.AccessStatusApproved); err != nil {
		return nil, err
	}

	if err := s.enrollments.Add(ctx, req.StudentID, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, domain.AccessStatusApproved); err != nil {
		return nil, err
	}

	s.logger.Info("access approved",
		slog.String("request_id", req.ID),
		slog.String("student_id", req.StudentID),
		slog.String("course_id", req.CourseID),
	)
	s.events.PublishAccessApproved(ctx, req)
	s.events.PublishEnrollmentCreated(ctx, req.StudentID, req.CourseID, false)
	return req, nil
}

// Decline rejects a pending request. The record is kept so a later
// re-request reuses it.
func (s *AccessService) Decline(ctx context.Context, requestID, actorRole string) (*domain.AccessRequest, error) {
	if !domain.IsOperatorRole(actorRole) {
		return nil, apperrors.Forbidden("FORBIDDEN", "only instructors and admins decide access requests")
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := req.Transition(domain.AccessStatusDeclined); err != nil {
		return nil, err
	}
	if err := s.requests.UpdateStatus(ctx, req.ID, domain.AccessStatusDeclined); err != nil {
		return nil, err
	}

	s.logger.Info("access declined",
		slog.String("request_id", req.ID),
		slog.String("student_id", req.StudentID),
		slog.String("course_id", req.CourseID),
	)
	s.events.PublishAccessDeclined(ctx, req)
	return req, nil
}

// Delete removes a request record. Only declined requests can be deleted;
// pending and approved records are load-bearing.
func (s *AccessService) Delete(ctx context.Context, requestID string) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !req.Deletable() {
		return domain.ErrInvalidState
	}
	return s.requests.Delete(ctx, req.ID)
}

// FreeEnroll writes the enrollment fact for a free course directly, without
// touching the ledger. Paid courses must go through Request.
func (s *AccessService) FreeEnroll(ctx context.Context, studentID, courseID string) error {
	course, err := s.requireVerifiedAndCourse(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !course.Free() {
		return domain.ErrInvalidState
	}

	enrolled, err := s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return domain.ErrAlreadyEnrolled
	}

	if err := s.enrollments.Add(ctx, studentID, courseID); err != nil {
		return err
	}

	s.logger.Info("free enrollment",
		slog.String("student_id", studentID),
		slog.String("course_id", courseID),
	)
	s.events.PublishEnrollmentCreated(ctx, studentID, courseID, true)
	return nil
}

// StatusView is the polling read for a student's standing on a course: the
// live request status if any, plus whether the enrollment fact exists.
type StatusView struct {
	Course        domain.CourseSummary `json:"course"`
	RequestStatus *domain.AccessStatus `json:"request_status"`
	Enrolled      bool                 `json:"enrolled"`
}

// Status returns the student's standing on a course. A pair with no ledger
// record reads as a null status, not an error, so clients can poll it before
// ever requesting access.
func (s *AccessService) Status(ctx context.Context, studentID, courseID string) (*StatusView, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{Course: course.Summary()}

	req, err := s.requests.GetByPair(ctx, studentID, courseID)
	switch {
	case err == nil:
		view.RequestStatus = &req.Status
	case errors.Is(err, apperrors.ErrNotFound):
		// no ledger record, leave status null
	default:
		return nil, err
	}

	view.Enrolled, err = s.enrollments.Exists(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListForCourse returns all requests for a course, newest first. The caller
// is responsible for restricting this to operator roles.
func (s *AccessService) ListForCourse(ctx context.Context, courseID string) ([]domain.AccessRequest, error) {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}
	return s.requests.ListByCourse(ctx, courseID)
}

// requireVerifiedAndCourse enforces the shared preconditions of both join
// paths: the student must be verified and the course must exist.
func (s *AccessService) requireVerifiedAndCourse(ctx context.Context, studentID, courseID string) (*domain.Course, error) {
	account, err := s.accounts.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !account.Verified {
		return nil, domain.ErrNotVerified
	}

	return s.courses.GetByID(ctx, courseID)
}
