package parcel

import (
	"time"
)

// StatusLog is one entry in a parcel's append-only status history.
// Rows are only ever inserted, never updated or deleted; the history is
// the audit trail of every delivery and payment event.
type StatusLog struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	ParcelID uint `gorm:"not null;index" json:"parcelId"`

	Status    string    `gorm:"type:varchar(30);not null" json:"status"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// TableName sets the table name for the StatusLog model
func (StatusLog) TableName() string {
	return "parcel_status_logs"
}
