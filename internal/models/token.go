package models

import "time"

// AuthToken is the opaque bearer credential mapped one-to-one to a user.
// The key is issued at registration and presented in the Authorization
// header on every mutating request.
type AuthToken struct {
	ID      uint      `gorm:"primaryKey" json:"-"`
	Key     string    `gorm:"size:64;uniqueIndex;not null" json:"key"`
	UserID  uint      `gorm:"uniqueIndex;not null" json:"-"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Created time.Time `gorm:"autoCreateTime" json:"-"`
}
