package course

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Enrollment tracks a user's enrollment in a course with progress. The
// (user_id, course_id) unique index is what makes enrollment idempotent under
// concurrent requests; inserts go through ON CONFLICT DO NOTHING and a
// re-read, never a prior SELECT.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID         uint       `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED
	Progress         int        `json:"progress" gorm:"default:0"`        // derived percentage 0-100, recomputed transactionally
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	PaymentReference string     `json:"payment_reference"` // gateway reference for paid enrollments
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}

// FirstOrEnroll atomically inserts an enrollment for (userID, courseID) and
// returns the existing row when one is already present. The second return
// value reports whether a new enrollment was created. Losing a concurrent
// insert is not an error: the winner's row is read back and returned.
func FirstOrEnroll(db *gorm.DB, userID, courseID uint, paymentRef string) (*Enrollment, bool, error) {
	enrollment := Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		Status:           "ENROLLED",
		PaymentReference: paymentRef,
	}

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if result.Error != nil {
		return nil, false, result.Error
	}

	if result.RowsAffected == 0 {
		if err := db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userID, courseID).First(&enrollment).Error; err != nil {
			return nil, false, err
		}
		return &enrollment, false, nil
	}

	return &enrollment, true, nil
}
