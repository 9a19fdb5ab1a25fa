package models

import "time"

// User represents an operator account. Passwords and security answers are
// stored as one-way digests, never plaintext.
type User struct {
	ID               uint   `gorm:"primaryKey"`
	Username         string `gorm:"size:64;uniqueIndex;not null"`
	PasswordDigest   string `gorm:"size:128;not null"`
	SecurityQuestion string `gorm:"size:255;not null"`
	AnswerDigest     string `gorm:"size:128;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
