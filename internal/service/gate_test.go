package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyway/coursegate/internal/domain"
	"github.com/studyway/coursegate/internal/repository/mocks"
)

func TestCanConsume(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		enrolled bool
		want     bool
	}{
		{"enrolled student", domain.RoleStudent, true, true},
		{"unenrolled student", domain.RoleStudent, false, false},
		{"instructor bypasses enrollment", domain.RoleInstructor, false, true},
		{"admin bypasses enrollment", domain.RoleAdmin, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrollments := new(mocks.EnrollmentRepository)
			if !domain.IsOperatorRole(tt.role) {
				enrollments.On("Exists", mock.Anything, "acc-1", "crs-1").Return(tt.enrolled, nil)
			}

			gate := NewGate(enrollments)
			got, err := gate.CanConsume(context.Background(), "acc-1", tt.role, "crs-1")

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if domain.IsOperatorRole(tt.role) {
				enrollments.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
