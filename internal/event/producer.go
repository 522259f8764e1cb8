package event

import (
	"context"
	"log/slog"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/pkg/kafka"
)

// Topic names for the events this service emits.
const (
	TopicAccountVerified   = "coursegate.account.verified"
	TopicAccessRequested   = "coursegate.access.requested"
	TopicAccessApproved    = "coursegate.access.approved"
	TopicAccessDeclined    = "coursegate.access.declined"
	TopicEnrollmentCreated = "coursegate.enrollment.created"
)

const source = "coursegate"

// Publisher abstracts the message broker so services and tests do not depend
// on a live Kafka cluster.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes domain events. Publishing is best-effort: a broker
// failure is logged and swallowed so it never fails the request that caused
// the event.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{publisher: publisher, logger: logger}
}

// AccountVerifiedData is the payload of an account verification event.
type AccountVerifiedData struct {
	AccountID string `json:"account_id"`
	Phone     string `json:"phone"`
}

// AccessRequestData is the payload of access request lifecycle events.
type AccessRequestData struct {
	RequestID string `json:"request_id"`
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Status    string `json:"status"`
}

// EnrollmentCreatedData is the payload of an enrollment fact event.
type EnrollmentCreatedData struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Free      bool   `json:"free"`
}

// PublishAccountVerified emits an account verification event.
func (p *Producer) PublishAccountVerified(ctx context.Context, account *domain.Account) {
	data := AccountVerifiedData{AccountID: account.ID, Phone: account.Phone}
	p.publish(ctx, TopicAccountVerified, "account.verified", account.ID, "account", data)
}

// PublishAccessRequested emits an event for a newly created pending request.
func (p *Producer) PublishAccessRequested(ctx context.Context, req *domain.AccessRequest) {
	p.publishRequest(ctx, TopicAccessRequested, "access.requested", req)
}

// PublishAccessApproved emits an event for an approved request.
func (p *Producer) PublishAccessApproved(ctx context.Context, req *domain.AccessRequest) {
	p.publishRequest(ctx, TopicAccessApproved, "access.approved", req)
}

// PublishAccessDeclined emits an event for a declined request.
func (p *Producer) PublishAccessDeclined(ctx context.Context, req *domain.AccessRequest) {
	p.publishRequest(ctx, TopicAccessDeclined, "access.declined", req)
}

// PublishEnrollmentCreated emits an event for a new enrollment fact.
func (p *Producer) PublishEnrollmentCreated(ctx context.Context, studentID, courseID string, free bool) {
	data := EnrollmentCreatedData{StudentID: studentID, CourseID: courseID, Free: free}
	p.publish(ctx, TopicEnrollmentCreated, "enrollment.created", studentID+":"+courseID, "enrollment", data)
}

func (p *Producer) publishRequest(ctx context.Context, topic, eventType string, req *domain.AccessRequest) {
	data := AccessRequestData{
		RequestID: req.ID,
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Status:    string(req.Status),
	}
	p.publish(ctx, topic, eventType, req.ID, "access_request", data)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.Error("failed to build event",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		p.logger.Error("failed to publish event",
			slog.String("event_type", eventType),
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
	}
}
