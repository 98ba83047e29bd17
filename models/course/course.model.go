package course

import "gorm.io/gorm"

// Course represents a learning course offered by the body
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	Price        int64  `json:"price" gorm:"default:0"`        // minor currency unit, 0 = free
	Duration     int64  `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// IsFree reports whether the course can be enrolled in without payment.
func (c *Course) IsFree() bool {
	return c.Price == 0
}
