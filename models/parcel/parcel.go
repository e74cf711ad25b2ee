package parcel

import (
	"time"
)

// PaymentMethod distinguishes cash-on-delivery bookings from parcels
// paid for up front.
type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodPrepaid PaymentMethod = "prepaid"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus moves from unpaid to paid exactly once, either at
// prepaid-booking time or when COD is collected on delivery.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Parcel represents a courier booking and its delivery lifecycle.
type Parcel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	SenderEmail     string `gorm:"type:varchar(255);not null;index" json:"senderEmail"`
	SenderName      string `gorm:"type:varchar(255)" json:"senderName"`
	ReceiverName    string `gorm:"type:varchar(255)" json:"receiverName"`
	ReceiverAddress string `gorm:"type:text" json:"receiverAddress"`

	AssignedAgentID    *uint   `gorm:"index" json:"assignedAgentId,omitempty"`
	AssignedAgentEmail *string `gorm:"type:varchar(255);index" json:"assignedAgentEmail,omitempty"`

	DeliveryStatus DeliveryStatus `gorm:"type:varchar(30);not null" json:"deliveryStatus"`
	PaymentMethod  PaymentMethod  `gorm:"type:varchar(20);not null" json:"paymentMethod"`
	PaymentStatus  PaymentStatus  `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	TotalCost      float64        `gorm:"not null" json:"totalCost"`
	TransactionID  *string        `gorm:"type:varchar(255)" json:"transactionId,omitempty"`

	StatusLogs []StatusLog `gorm:"foreignKey:ParcelID" json:"statusLogs"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName sets the table name for the Parcel model
func (Parcel) TableName() string {
	return "parcels"
}
