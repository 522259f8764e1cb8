package domain

import (
	"time"
)

// UnitProgress is the viewed flag for a single lecture within a progress
// record. Entries keep the order in which lectures were first recorded.
type UnitProgress struct {
	LectureID string `json:"lecture_id"`
	Viewed    bool   `json:"viewed"`
}

// ProgressRecord tracks one student's per-lecture completion state for one
// course. Completed is derived, never authoritative on its own: it must be
// recomputed against the course's current lecture set on every write.
type ProgressRecord struct {
	StudentID string         `json:"student_id"`
	CourseID  string         `json:"course_id"`
	Units     []UnitProgress `json:"units"`
	Completed bool           `json:"completed"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewProgressRecord returns an empty record for the given pair.
func NewProgressRecord(studentID, courseID string) *ProgressRecord {
	return &ProgressRecord{
		StudentID: studentID,
		CourseID:  courseID,
		Units:     []UnitProgress{},
	}
}

// SetViewed upserts the viewed flag for a lecture: updated in place if
// already tracked, appended otherwise.
func (p *ProgressRecord) SetViewed(lectureID string, viewed bool) {
	for i := range p.Units {
		if p.Units[i].LectureID == lectureID {
			p.Units[i].Viewed = viewed
			return
		}
	}
	p.Units = append(p.Units, UnitProgress{LectureID: lectureID, Viewed: viewed})
}

// Viewed reports the recorded flag for a lecture. A lecture never recorded
// counts as not viewed.
func (p *ProgressRecord) Viewed(lectureID string) bool {
	for _, u := range p.Units {
		if u.LectureID == lectureID {
			return u.Viewed
		}
	}
	return false
}

// Recompute derives Completed as the AND over all lectures currently on the
// course. An empty lecture set yields false: a course with nothing to view
// cannot be completed.
func (p *ProgressRecord) Recompute(lectureIDs []string) {
	if len(lectureIDs) == 0 {
		p.Completed = false
		return
	}
	for _, id := range lectureIDs {
		if !p.Viewed(id) {
			p.Completed = false
			return
		}
	}
	p.Completed = true
}

// SetAll overwrites every given lecture's entry with the same flag and sets
// Completed to match directly. This is the explicit override shortcut, as
// opposed to the derived recomputation in Recompute.
func (p *ProgressRecord) SetAll(lectureIDs []string, viewed bool) {
	for _, id := range lectureIDs {
		p.SetViewed(id, viewed)
	}
	p.Completed = viewed && len(lectureIDs) > 0
}
