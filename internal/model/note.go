package model

import "time"

// Note is a sticky note. The owner is set once at creation and never
// changes; corkboard coordinates live in the browser, not here.
type Note struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID int64  `gorm:"not null;index" json:"user_id"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Title string `gorm:"not null" json:"title"`
	Body  string `json:"body"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
