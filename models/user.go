// models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a registered bowler. PasswordHash never leaves the server —
// JSON marshalling drops it.
type User struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	Email           string  `json:"email" gorm:"uniqueIndex;not null"`
	Name            string  `json:"name" gorm:"not null"`
	PasswordHash    string  `json:"-" gorm:"not null"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	ProfileImageUrl *string `json:"profileImageUrl,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
