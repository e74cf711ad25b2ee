package payment

import (
	"time"
)

// Payment records one successful prepaid transaction and the parcel it
// created. Rows are immutable after insert.
type Payment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Email         string    `gorm:"type:varchar(255);not null;index" json:"email"`
	ParcelID      uint      `gorm:"not null;index" json:"parcelId"`
	TotalCost     float64   `gorm:"not null" json:"totalCost"`
	PaymentMethod string    `gorm:"type:varchar(30);not null" json:"paymentMethod"`
	TransactionID string    `gorm:"type:varchar(255);not null;unique" json:"transactionId"`
	PaidAt        time.Time `gorm:"not null" json:"paidAt"`
}

// TableName sets the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
