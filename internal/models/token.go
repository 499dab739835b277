package models

import "time"

// AccessToken is an opaque bearer credential. Only the SHA-256 digest of the
// issued token is stored; the plaintext leaves the server exactly once, in the
// login/register response. Tokens have no expiry and die only on logout.
type AccessToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"size:50;not null" json:"name"`
	TokenHash string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}
