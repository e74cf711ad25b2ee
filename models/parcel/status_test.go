package parcel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusIsValid(t *testing.T) {
	for _, s := range AllDeliveryStatuses() {
		assert.True(t, s.IsValid(), "expected %q to be valid", s)
	}

	assert.False(t, DeliveryStatus("Lost").IsValid())
	assert.False(t, DeliveryStatus("").IsValid())
	assert.False(t, DeliveryStatus(LogPaymentReceived).IsValid(), "log-only markers are not delivery statuses")
	assert.False(t, DeliveryStatus(LogPaymentSuccessful).IsValid(), "log-only markers are not delivery statuses")
}

func TestDeliveryStatusCanFail(t *testing.T) {
	cases := []struct {
		status  DeliveryStatus
		canFail bool
	}{
		{StatusCreated, false},
		{StatusAssigned, false},
		{StatusPickedUp, true},
		{StatusInTransit, true},
		{StatusDelivered, false},
		{StatusFailed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.canFail, tc.status.CanFail(), "CanFail(%q)", tc.status)
	}
}

func TestDeliveryStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())

	for _, s := range []DeliveryStatus{StatusCreated, StatusAssigned, StatusPickedUp, StatusInTransit} {
		assert.False(t, s.IsTerminal(), "expected %q to be non-terminal", s)
	}
}
