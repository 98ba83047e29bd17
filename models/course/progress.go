package course

import (
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertLessonProgress marks a lesson complete for an enrollment. The write is
// an upsert on (enrollment_id, lesson_id): repeated completions refresh the
// timestamps on the one existing row, and concurrent completions are
// serialized by the unique index rather than handler-level reads.
func UpsertLessonProgress(tx *gorm.DB, enrollmentID, lessonID uint) error {
	now := time.Now()
	progress := LessonProgress{
		EnrollmentID:   enrollmentID,
		LessonID:       lessonID,
		IsCompleted:    true,
		CompletedAt:    &now,
		LastAccessedAt: now,
	}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_completed":     true,
			"completed_at":     now,
			"last_accessed_at": now,
			"updated_at":       now,
		}),
	}).Create(&progress).Error
}

// RecomputeProgress derives the enrollment's aggregate progress from the set
// of completed published lessons and persists it. Runs inside the same DB
// transaction as the LessonProgress change so the stored percentage can never
// drift from the rows it is derived from.
func RecomputeProgress(tx *gorm.DB, enrollment *Enrollment) error {
	var totalLessons int64
	if err := tx.Model(&Lesson{}).
		Where("course_id = ? AND is_deleted = false AND is_published = true", enrollment.CourseID).
		Count(&totalLessons).Error; err != nil {
		return err
	}

	var completedLessons int64
	if err := tx.Model(&LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.enrollment_id = ? AND lesson_progresses.is_completed = true AND lesson_progresses.is_deleted = false", enrollment.ID).
		Where("lessons.is_deleted = false AND lessons.is_published = true").
		Count(&completedLessons).Error; err != nil {
		return err
	}

	enrollment.TotalLessons = int(totalLessons)
	enrollment.CompletedLessons = int(completedLessons)

	enrollment.Progress = 0
	if totalLessons > 0 {
		enrollment.Progress = int(math.Round(float64(completedLessons) / float64(totalLessons) * 100))
	}

	if enrollment.Progress >= 100 && totalLessons > 0 {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			now := time.Now()
			enrollment.CompletedAt = &now
		}
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	return tx.Save(enrollment).Error
}
