package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/internal/domain"
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// In-memory repositories for the full-flow scenario. They mimic the real
// store's behavior closely enough that the services cannot tell the
// difference: pair uniqueness on requests, set-add enrollments, not-found
// sentinels.

type memAccounts struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{accounts: make(map[string]*domain.Account)}
}

func (m *memAccounts) Create(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, apperrors.NotFoundCode("ACCOUNT_NOT_FOUND", "account not found")
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) GetByPhone(_ context.Context, phone string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Phone == phone {
			cp := *a
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundCode("ACCOUNT_NOT_FOUND", "account not found")
}

func (m *memAccounts) SetChallenge(_ context.Context, id, code string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return apperrors.NotFound("account", id)
	}
	a.Challenge = &domain.OTPChallenge{Code: code, ExpiresAt: expiresAt}
	return nil
}

func (m *memAccounts) MarkVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.Verified {
		return domain.ErrAlreadyVerified
	}
	a.Verified = true
	a.Challenge = nil
	return nil
}

type memCourses struct {
	courses map[string]*domain.Course
}

func (m *memCourses) Create(_ context.Context, c *domain.Course) error {
	m.courses[c.ID] = c
	return nil
}

func (m *memCourses) GetByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return c, nil
}

func (m *memCourses) AddLecture(_ context.Context, l *domain.Lecture) error {
	c, ok := m.courses[l.CourseID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	c.Lectures = append(c.Lectures, *l)
	return nil
}

func (m *memCourses) SetPublished(_ context.Context, id string, published bool) error {
	c, ok := m.courses[id]
	if !ok {
		return domain.ErrCourseNotFound
	}
	c.Published = published
	return nil
}

type memRequests struct {
	mu       sync.Mutex
	requests map[string]*domain.AccessRequest
}

func newMemRequests() *memRequests {
	return &memRequests{requests: make(map[string]*domain.AccessRequest)}
}

func (m *memRequests) Create(_ context.Context, r *domain.AccessRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.requests {
		if existing.StudentID == r.StudentID && existing.CourseID == r.CourseID {
			return domain.ErrDuplicatePending
		}
	}
	cp := *r
	m.requests[r.ID] = &cp
	return nil
}

func (m *memRequests) GetByID(_ context.Context, id string) (*domain.AccessRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, apperrors.NotFoundCode("REQUEST_NOT_FOUND", "access request not found")
	}
	cp := *r
	return &cp, nil
}

func (m *memRequests) GetByPair(_ context.Context, studentID, courseID string) (*domain.AccessRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.StudentID == studentID && r.CourseID == courseID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperrors.NotFoundCode("REQUEST_NOT_FOUND", "access request not found")
}

func (m *memRequests) UpdateStatus(_ context.Context, id string, status domain.AccessStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return apperrors.NotFound("access request", id)
	}
	r.Status = status
	return nil
}

func (m *memRequests) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[id]; !ok {
		return apperrors.NotFound("access request", id)
	}
	delete(m.requests, id)
	return nil
}

func (m *memRequests) ListByCourse(_ context.Context, courseID string) ([]domain.AccessRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.AccessRequest
	for _, r := range m.requests {
		if r.CourseID == courseID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type memEnrollments struct {
	mu    sync.Mutex
	pairs map[[2]string]struct{}
}

func newMemEnrollments() *memEnrollments {
	return &memEnrollments{pairs: make(map[[2]string]struct{})}
}

func (m *memEnrollments) Add(_ context.Context, studentID, courseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs[[2]string{studentID, courseID}] = struct{}{}
	return nil
}

func (m *memEnrollments) Exists(_ context.Context, studentID, courseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pairs[[2]string{studentID, courseID}]
	return ok, nil
}

type memProgress struct {
	records map[[2]string]*domain.ProgressRecord
}

func (m *memProgress) Get(_ context.Context, studentID, courseID string) (*domain.ProgressRecord, error) {
	r, ok := m.records[[2]string{studentID, courseID}]
	if !ok {
		return nil, apperrors.NotFoundCode("PROGRESS_NOT_FOUND", "progress record not found")
	}
	return r, nil
}

func (m *memProgress) Upsert(_ context.Context, record *domain.ProgressRecord) error {
	m.records[[2]string{record.StudentID, record.CourseID}] = record
	return nil
}

// TestFullEnrollmentFlow drives the whole lifecycle through real services on
// in-memory stores: register, verify, request access, get approved, consume,
// complete the course.
func TestFullEnrollmentFlow(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	producer, _ := testProducer()
	dispatcher := &stubDispatcher{}

	accounts := newMemAccounts()
	courses := &memCourses{courses: make(map[string]*domain.Course)}
	requests := newMemRequests()
	enrollments := newMemEnrollments()
	progress := &memProgress{records: make(map[[2]string]*domain.ProgressRecord)}

	verification := NewVerificationService(accounts, dispatcher, &stubLimiter{allowed: true}, &stubTokens{token: "t"}, producer, 10*time.Minute, log)
	gate := NewGate(enrollments)
	courseSvc := NewCourseService(courses, gate, log)
	accessSvc := NewAccessService(accounts, courses, requests, enrollments, producer, log)
	progressSvc := NewProgressService(courses, enrollments, progress, log)

	// The catalog: a paid course with two lectures.
	course := &domain.Course{ID: "crs-1", InstructorID: "ins-1", Title: "Go", PriceCents: 4900}
	require.NoError(t, courses.Create(ctx, course))
	require.NoError(t, courses.AddLecture(ctx, &domain.Lecture{ID: "l1", CourseID: "crs-1", Title: "A", Position: 1}))
	require.NoError(t, courses.AddLecture(ctx, &domain.Lecture{ID: "l2", CourseID: "crs-1", Title: "B", Position: 2}))

	// Register; the account starts unverified and a code goes out.
	student, err := verification.Register(ctx, RegisterInput{Phone: "+15551234567", Password: "secret123"})
	require.NoError(t, err)
	require.Len(t, dispatcher.codes, 1)

	// Unverified students cannot open requests.
	_, err = accessSvc.Request(ctx, student.ID, "crs-1")
	assert.ErrorIs(t, err, domain.ErrNotVerified)

	// Verify with the dispatched code.
	_, err = verification.Verify(ctx, "+15551234567", dispatcher.codes[0])
	require.NoError(t, err)

	// Request access; the gate still says no while pending.
	req, err := accessSvc.Request(ctx, student.ID, "crs-1")
	require.NoError(t, err)
	allowed, err := gate.CanConsume(ctx, student.ID, domain.RoleStudent, "crs-1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// A second request while pending is rejected.
	_, err = accessSvc.Request(ctx, student.ID, "crs-1")
	assert.ErrorIs(t, err, domain.ErrDuplicatePending)

	// Approve; the gate opens.
	_, err = accessSvc.Approve(ctx, req.ID, domain.RoleInstructor)
	require.NoError(t, err)
	allowed, err = gate.CanConsume(ctx, student.ID, domain.RoleStudent, "crs-1")
	require.NoError(t, err)
	assert.True(t, allowed)

	// The status read agrees.
	view, err := accessSvc.Status(ctx, student.ID, "crs-1")
	require.NoError(t, err)
	require.NotNil(t, view.RequestStatus)
	assert.Equal(t, domain.AccessStatusApproved, *view.RequestStatus)
	assert.True(t, view.Enrolled)

	// Approving again is harmless.
	_, err = accessSvc.Approve(ctx, req.ID, domain.RoleInstructor)
	require.NoError(t, err)

	// Consume content and work through the course.
	lecture, err := courseSvc.GetLecture(ctx, "crs-1", "l1", student.ID, domain.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "A", lecture.Title)

	record, err := progressSvc.SetLectureViewed(ctx, student.ID, "crs-1", "l1", true)
	require.NoError(t, err)
	assert.False(t, record.Completed)

	record, err = progressSvc.SetLectureViewed(ctx, student.ID, "crs-1", "l2", true)
	require.NoError(t, err)
	assert.True(t, record.Completed)
}

// TestDeclineAndReRequestFlow exercises the declined -> pending recycle on
// the same stores.
func TestDeclineAndReRequestFlow(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	producer, _ := testProducer()

	accounts := newMemAccounts()
	courses := &memCourses{courses: make(map[string]*domain.Course)}
	requests := newMemRequests()
	enrollments := newMemEnrollments()

	accessSvc := NewAccessService(accounts, courses, requests, enrollments, producer, log)

	require.NoError(t, accounts.Create(ctx, &domain.Account{ID: "stu-1", Phone: "+15551234567", Role: domain.RoleStudent, Verified: true}))
	require.NoError(t, courses.Create(ctx, &domain.Course{ID: "crs-1", PriceCents: 1000}))

	req, err := accessSvc.Request(ctx, "stu-1", "crs-1")
	require.NoError(t, err)

	_, err = accessSvc.Decline(ctx, req.ID, domain.RoleAdmin)
	require.NoError(t, err)

	// Declining never enrolls.
	enrolled, err := enrollments.Exists(ctx, "stu-1", "crs-1")
	require.NoError(t, err)
	assert.False(t, enrolled)

	// Re-request recycles the same record.
	again, err := accessSvc.Request(ctx, "stu-1", "crs-1")
	require.NoError(t, err)
	assert.Equal(t, req.ID, again.ID)
	assert.Equal(t, domain.AccessStatusPending, again.Status)

	// And the cycle can still end in approval.
	_, err = accessSvc.Approve(ctx, again.ID, domain.RoleInstructor)
	require.NoError(t, err)

	// The approved ledger record, not the enrollment fact, answers a
	// repeat request.
	_, err = accessSvc.Request(ctx, "stu-1", "crs-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyGranted)
}
