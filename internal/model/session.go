package model

import "time"

// Session is the server-side record behind an opaque cookie token.
// The token maps to exactly one user for the session's lifetime; a session
// is expired when now-LastSeenAt exceeds the configured TTL, even while
// the row still physically exists.
type Session struct {
	Token  string `gorm:"primaryKey" json:"-"`
	UserID int64  `gorm:"not null;index" json:"user_id"`

	User *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// Anti-forgery value the client must echo in X-CSRF-Token on every
	// state-mutating request.
	CSRFToken string `gorm:"not null" json:"-"`

	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	LastSeenAt time.Time `gorm:"not null;index" json:"last_seen_at"`
}
