package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an issued, publicly verifiable proof of course completion.
// The unique index on EnrollmentID closes the double-issue race: concurrent
// issuance requests both attempt the insert and the loser reads back the
// winner's row. Code is the sole public verification key and never changes.
type Certificate struct {
	gorm.Model
	EnrollmentID uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	Code         string    `json:"code" gorm:"type:varchar(50);uniqueIndex;not null"`
	IssuedAt     time.Time `json:"issued_at"`
	IsDeleted    bool      `gorm:"default:false"`
}
