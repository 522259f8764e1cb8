package repository

import (
	"context"
	"time"

	"github.com/studyway/coursegate/internal/domain"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create inserts a new account into the store.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByPhone retrieves an account by its normalized phone number.
	GetByPhone(ctx context.Context, phone string) (*domain.Account, error)

	// SetChallenge overwrites the outstanding verification challenge.
	SetChallenge(ctx context.Context, id, code string, expiresAt time.Time) error

	// MarkVerified sets verified=true and clears the challenge in a single
	// write. It fails if the account is already verified.
	MarkVerified(ctx context.Context, id string) error
}

// CourseRepository defines the interface for course persistence operations.
type CourseRepository interface {
	// Create inserts a new course into the store.
	Create(ctx context.Context, course *domain.Course) error

	// GetByID retrieves a course with its lectures in position order.
	GetByID(ctx context.Context, id string) (*domain.Course, error)

	// AddLecture appends a lecture to a course.
	AddLecture(ctx context.Context, lecture *domain.Lecture) error

	// SetPublished updates the course's published flag.
	SetPublished(ctx context.Context, id string, published bool) error
}

// AccessRequestRepository defines the interface for the approval workflow
// ledger. The store enforces a uniqueness constraint on (student_id,
// course_id); Create surfaces a violation as domain.ErrDuplicatePending so
// racing first requests resolve to exactly one pending record.
type AccessRequestRepository interface {
	// Create inserts a new pending request.
	Create(ctx context.Context, req *domain.AccessRequest) error

	// GetByID retrieves a request by its identifier.
	GetByID(ctx context.Context, id string) (*domain.AccessRequest, error)

	// GetByPair retrieves the single live request for (student, course).
	GetByPair(ctx context.Context, studentID, courseID string) (*domain.AccessRequest, error)

	// UpdateStatus persists a status transition on an existing request.
	UpdateStatus(ctx context.Context, id string, status domain.AccessStatus) error

	// Delete removes a request record.
	Delete(ctx context.Context, id string) error

	// ListByCourse returns all requests for a course, newest-created first.
	ListByCourse(ctx context.Context, courseID string) ([]domain.AccessRequest, error)
}

// EnrollmentRepository defines the interface for the membership fact store.
type EnrollmentRepository interface {
	// Add upserts the enrollment fact with set-add semantics: adding an
	// existing fact succeeds without creating a duplicate.
	Add(ctx context.Context, studentID, courseID string) error

	// Exists reports whether the fact is present for (student, course).
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
}

// ProgressRepository defines the interface for progress record persistence.
type ProgressRepository interface {
	// Get retrieves the progress record for (student, course).
	Get(ctx context.Context, studentID, courseID string) (*domain.ProgressRecord, error)

	// Upsert creates or replaces the progress record in a single write.
	Upsert(ctx context.Context, record *domain.ProgressRecord) error
}
