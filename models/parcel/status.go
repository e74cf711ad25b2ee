package parcel

// DeliveryStatus is the lifecycle state of a parcel.
type DeliveryStatus string

const (
	StatusCreated   DeliveryStatus = "Created"
	StatusAssigned  DeliveryStatus = "Assigned"
	StatusPickedUp  DeliveryStatus = "Picked Up"
	StatusInTransit DeliveryStatus = "In Transit"
	StatusDelivered DeliveryStatus = "Delivered"
	StatusFailed    DeliveryStatus = "Failed"
)

// Log-only markers recorded in the status history alongside delivery
// statuses. They never appear as a parcel's DeliveryStatus.
const (
	LogPaymentReceived   = "payment_received"
	LogPaymentSuccessful = "payment_successful"
)

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusAssigned, StatusPickedUp, StatusInTransit, StatusDelivered, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the parcel is in a completed state
func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// CanFail reports whether a parcel in this status may be marked Failed.
// A delivery can only fail while the agent has the parcel in hand.
func (s DeliveryStatus) CanFail() bool {
	return s == StatusPickedUp || s == StatusInTransit
}

// AllDeliveryStatuses returns all valid delivery statuses
func AllDeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		StatusCreated,
		StatusAssigned,
		StatusPickedUp,
		StatusInTransit,
		StatusDelivered,
		StatusFailed,
	}
}
