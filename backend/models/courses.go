package models

import "time"

type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Lessons     []Lesson  `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lesson is one unit of a course. SequenceOrder is 1-based, dense and unique within the course.
type Lesson struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CourseID        uint      `gorm:"not null;uniqueIndex:idx_lesson_course_order,priority:1" json:"course_id"`
	Title           string    `gorm:"not null" json:"title"`
	Description     string    `json:"description"`
	DocumentURL     string    `json:"document_url"`
	InstructorNotes string    `json:"instructor_notes"`
	QuizSetID       *uint     `gorm:"index" json:"quiz_set_id"`
	SequenceOrder   int       `gorm:"not null;uniqueIndex:idx_lesson_course_order,priority:2" json:"order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceOffering is a paid or free service advertised next to the course catalog.
type ServiceOffering struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    string    `json:"image_url"`
	Active      bool      `gorm:"not null" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
