package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership status values
const (
	MembershipNone   = "NONE"
	MembershipActive = "ACTIVE"
)

type User struct {
	gorm.Model
	Name             string     `gorm:"default:''" json:"name"`
	Email            string     `gorm:"unique;not null" json:"email"`
	Mobile           string     `gorm:"default:''" json:"mobile"`
	Role             string     `gorm:"default:'MEMBER'" json:"role"` // MEMBER, AUTHOR, ADMIN
	Password         string     `gorm:"not null" json:"-"`
	Designation      string     `json:"designation"` // e.g. Registered Caregiver, Care Supervisor
	MembershipStatus string     `gorm:"default:'NONE'" json:"membership_status"`
	MembershipPaidAt *time.Time `json:"membership_paid_at"`
	LastLogin        time.Time  `gorm:"default:NULL" json:"last_login"`
	IsDeleted        bool       `gorm:"default:false" json:"-"`
}
