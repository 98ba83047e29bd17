package course

import (
	"time"

	"gorm.io/gorm"
)

// AssessmentSubmission records one graded attempt against an assessment.
// Attempts are unlimited; AttemptNumber keeps the history ordered.
type AssessmentSubmission struct {
	gorm.Model
	AssessmentID  uint      `json:"assessment_id" gorm:"index;not null"`
	EnrollmentID  uint      `json:"enrollment_id" gorm:"index;not null"`
	Answers       string    `json:"answers" gorm:"type:text"` // question-id -> option-id JSON
	Score         int       `json:"score"`                    // percentage 0-100
	Passed        bool      `json:"passed" gorm:"default:false"`
	AttemptNumber int       `json:"attempt_number" gorm:"default:1"`
	GradedAt      time.Time `json:"graded_at"`
	IsDeleted     bool      `gorm:"default:false"`
}
