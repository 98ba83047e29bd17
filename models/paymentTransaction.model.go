package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentPurpose defines what a gateway transaction is meant to unlock
type PaymentPurpose string

const (
	PurposeCourseEnrollment PaymentPurpose = "COURSE_ENROLLMENT"
	PurposeMembership       PaymentPurpose = "MEMBERSHIP"
)

// PaymentStatus defines the lifecycle of a gateway transaction
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentExpired PaymentStatus = "EXPIRED"
)

// PaymentTransaction tracks every transaction initialized with the payment
// gateway. Reference is ours (generated at initialize time) and is the key the
// gateway echoes back for verification.
type PaymentTransaction struct {
	gorm.Model
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Reference string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	Purpose   PaymentPurpose `gorm:"type:varchar(50);not null" json:"purpose"`
	CourseID  *uint          `gorm:"index" json:"course_id"` // set when Purpose is COURSE_ENROLLMENT
	Amount    int64          `gorm:"not null" json:"amount"` // expected amount, minor currency unit
	Status    PaymentStatus  `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	GatewayStatus      string     `gorm:"type:varchar(50)" json:"gateway_status"` // success, failed, abandoned...
	GatewayAmount      int64      `gorm:"default:0" json:"gateway_amount"`        // amount the gateway actually settled
	GatewayResponseRaw string     `gorm:"type:text" json:"-"`                     // full verify response JSON
	VerifiedAt         *time.Time `json:"verified_at"`

	IsDeleted bool `gorm:"default:false" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}
