package service

import (
	"context"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/repository"
)

// Gate decides whether an account may consume a course's content. Operator
// roles pass unconditionally; everyone else needs the enrollment fact. The
// ledger's request status is never consulted here: the fact store is the
// single authority.
type Gate struct {
	enrollments repository.EnrollmentRepository
}

// NewGate creates an authorization gate.
func NewGate(enrollments repository.EnrollmentRepository) *Gate {
	return &Gate{enrollments: enrollments}
}

// CanConsume reports whether the account may consume the course's content.
func (g *Gate) CanConsume(ctx context.Context, accountID, role, courseID string) (bool, error) {
	if domain.IsOperatorRole(role) {
		return true, nil
	}
	return g.enrollments.Exists(ctx, accountID, courseID)
}
