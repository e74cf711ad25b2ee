package payment

import (
	"fmt"

	parcelTypes "courier-desk/types/parcel"
)

// CreateIntentRequest asks the payment provider for an intent covering
// totalCost, given in major currency units.
type CreateIntentRequest struct {
	TotalCost float64 `json:"totalCost" validate:"required,gt=0"`
}

func (r CreateIntentRequest) Validate() error {
	if r.TotalCost <= 0 {
		return fmt.Errorf("totalCost must be greater than zero")
	}
	return nil
}

// RecordPaymentRequest records a completed payment and the prepaid parcel
// it pays for.
type RecordPaymentRequest struct {
	Email         string                        `json:"email" validate:"required,email"`
	TotalCost     float64                       `json:"totalCost" validate:"required,gt=0"`
	PaymentMethod string                        `json:"paymentMethod" validate:"omitempty,max=30"`
	TransactionID string                        `json:"transactionId" validate:"required,max=255"`
	ParcelData    parcelTypes.BookParcelRequest `json:"parcelData"`
}

func (r RecordPaymentRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.TransactionID == "" {
		return fmt.Errorf("transactionId is required")
	}
	if r.TotalCost <= 0 {
		return fmt.Errorf("totalCost must be greater than zero")
	}
	return r.ParcelData.Validate()
}
