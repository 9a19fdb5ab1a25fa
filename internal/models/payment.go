package models

import "time"

// Payment is one immutable ledger entry. Rows are append-only: nothing in
// the application updates or deletes them, and the set of entries for a
// student is the source of truth for that student's total paid.
type Payment struct {
	ID        uint   `gorm:"primaryKey"`
	StudentID uint   `gorm:"index;not null"`
	Amount    int64  `gorm:"not null"`
	Reference string `gorm:"size:36;uniqueIndex;not null"` // printed on the receipt
	Date      string `gorm:"size:19;index;not null"`       // "2006-01-02 15:04:05"
	CreatedAt time.Time

	Student Student `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
}
