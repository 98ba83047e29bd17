package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress is the per-lesson completion record scoped to one enrollment.
// At most one row per (enrollment, lesson); writes are upserts on that key so
// repeated completions refresh timestamps instead of duplicating rows.
type LessonProgress struct {
	gorm.Model
	EnrollmentID   uint       `json:"enrollment_id" gorm:"uniqueIndex:idx_progress_enrollment_lesson;not null"`
	LessonID       uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_enrollment_lesson;not null"`
	IsCompleted    bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	IsDeleted      bool       `gorm:"default:false"`
}
