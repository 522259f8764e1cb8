package domain

import (
	"time"
)

// Enrollment is the authoritative membership fact granting a student
// consumption rights over a course. It is written either by an access
// request being approved or by the free-course direct path, with set-add
// semantics: writing an existing fact is a no-op, never a duplicate.
//
// The access ledger is advisory history for paid flows; once this fact
// exists the student may consume the course regardless of ledger state.
type Enrollment struct {
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
