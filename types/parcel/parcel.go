package parcel

import (
	"fmt"
)

// BookParcelRequest is the payload for booking a parcel. Cash-on-delivery
// bookings post it directly; prepaid bookings embed it in the payment
// payload.
type BookParcelRequest struct {
	SenderEmail     string  `json:"senderEmail" validate:"required,email"`
	SenderName      string  `json:"senderName" validate:"omitempty,max=255"`
	ReceiverName    string  `json:"receiverName" validate:"omitempty,max=255"`
	ReceiverAddress string  `json:"receiverAddress" validate:"omitempty"`
	TotalCost       float64 `json:"totalCost" validate:"omitempty,gte=0"`
}

func (r BookParcelRequest) Validate() error {
	if r.SenderEmail == "" {
		return fmt.Errorf("senderEmail is required")
	}
	if r.TotalCost < 0 {
		return fmt.Errorf("totalCost cannot be negative")
	}
	return nil
}

// AssignAgentRequest attaches a delivery agent to a parcel.
type AssignAgentRequest struct {
	AssignedAgentID    uint   `json:"assignedAgentId" validate:"required"`
	AssignedAgentEmail string `json:"assignedAgentEmail" validate:"required,email"`
}

func (r AssignAgentRequest) Validate() error {
	if r.AssignedAgentID == 0 {
		return fmt.Errorf("assignedAgentId is required")
	}
	if r.AssignedAgentEmail == "" {
		return fmt.Errorf("assignedAgentEmail is required")
	}
	return nil
}

// UpdateStatusRequest moves a parcel to a new delivery status.
type UpdateStatusRequest struct {
	NewStatus string `json:"newStatus" validate:"required"`
}

func (r UpdateStatusRequest) Validate() error {
	if r.NewStatus == "" {
		return fmt.Errorf("newStatus is required")
	}
	return nil
}
