package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultPassMarkPercentage = 70
	DefaultEnforcePassMark    = true
	quizSettingsID            = 1
)

type QuizSet struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"not null" json:"title"`
	Questions []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// QuizQuestion is a multiple-choice question. CorrectAnswer is a 0-based index into Options.
type QuizQuestion struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	QuizSetID     uint                        `gorm:"not null;index" json:"quiz_set_id"`
	Question      string                      `gorm:"not null" json:"question"`
	Options       datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"options"`
	CorrectAnswer int                         `json:"correct_answer"`
	Position      int                         `json:"position"`
}

// ValidAnswer reports whether CorrectAnswer points inside Options.
func (q QuizQuestion) ValidAnswer() bool {
	return q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// QuizSettings is a singleton row.
type QuizSettings struct {
	ID                 uint      `gorm:"primaryKey" json:"-"`
	PassMarkPercentage int       `gorm:"not null" json:"pass_mark_percentage"`
	EnforcePassMark    bool      `gorm:"not null" json:"enforce_pass_mark"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewQuizSettings(passMark int, enforce bool) QuizSettings {
	return QuizSettings{ID: quizSettingsID, PassMarkPercentage: passMark, EnforcePassMark: enforce}
}

func DefaultQuizSettings() QuizSettings {
	return NewQuizSettings(DefaultPassMarkPercentage, DefaultEnforcePassMark)
}
