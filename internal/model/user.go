package model

import "time"

// User is a registered account. Password holds the bcrypt hash of the
// credential and is never serialized.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Login    string `gorm:"uniqueIndex;not null" json:"login"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `json:"bio"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
