package domain

import (
	"time"
)

// Lecture is an individually trackable content unit belonging to a course.
type Lecture struct {
	ID       string `json:"id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Position int    `json:"position"`
}

// Course represents a gated content collection owned by an instructor.
// PriceCents of zero marks a free course, which uses the direct enrollment
// path instead of the access request workflow.
type Course struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructor_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Level        string    `json:"level"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Description  string    `json:"description"`
	PriceCents   int64     `json:"price_cents"`
	Published    bool      `json:"published"`
	Lectures     []Lecture `json:"lectures,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Free reports whether the course requires no approval to enroll.
func (c *Course) Free() bool {
	return c.PriceCents == 0
}

// ReadyToPublish reports whether all fields required for public consumption
// are present: title, category, level, thumbnail, description, and at least
// one lecture.
func (c *Course) ReadyToPublish() bool {
	return c.Title != "" &&
		c.Category != "" &&
		c.Level != "" &&
		c.ThumbnailURL != "" &&
		c.Description != "" &&
		len(c.Lectures) > 0
}

// LectureIDs returns the ids of the course's lectures in position order.
func (c *Course) LectureIDs() []string {
	ids := make([]string, len(c.Lectures))
	for i, l := range c.Lectures {
		ids[i] = l.ID
	}
	return ids
}

// HasLecture reports whether the given lecture id belongs to the course.
func (c *Course) HasLecture(lectureID string) bool {
	for _, l := range c.Lectures {
		if l.ID == lectureID {
			return true
		}
	}
	return false
}

// CourseSummary is the compact course view returned by the status polling
// endpoint.
type CourseSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Level        string `json:"level"`
	ThumbnailURL string `json:"thumbnail_url"`
	PriceCents   int64  `json:"price_cents"`
	Published    bool   `json:"published"`
}

// Summary returns the compact view of the course.
func (c *Course) Summary() CourseSummary {
	return CourseSummary{
		ID:           c.ID,
		Title:        c.Title,
		Category:     c.Category,
		Level:        c.Level,
		ThumbnailURL: c.ThumbnailURL,
		PriceCents:   c.PriceCents,
		Published:    c.Published,
	}
}
