package models

import "time"

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

type Student struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"unique;not null" json:"email"`
	PasswordHash    string    `gorm:"not null" json:"-"`
	Role            string    `gorm:"default:student" json:"role"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (s Student) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// CourseAssignment links a student to a course. Locked blocks the whole course for that student.
type CourseAssignment struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey" json:"course_id"`
	Locked    bool      `gorm:"not null;default:false" json:"locked"`
	CreatedAt time.Time `json:"created_at"`
}
