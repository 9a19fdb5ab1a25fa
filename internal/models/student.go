package models

import "time"

// Student is a fee-paying entity.
// Amounts are whole shillings stored as integers to avoid float error.
type Student struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:128;index;not null"`
	Form        string `gorm:"size:32;index;not null"` // key into the fee structure
	ParentEmail string `gorm:"size:255;not null"`      // AES-GCM + base64
	ParentPhone string `gorm:"size:255;not null"`      // AES-GCM + base64
	TotalPaid   int64  `gorm:"not null;default:0"`     // cached sum of the student's ledger entries
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
