package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingFromLead(t *testing.T) {
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	lead := &Lead{
		ID:             "lead-1",
		CustomerName:   "Mette Hansen",
		CustomerEmail:  "mette@example.dk",
		CustomerPhone:  "+45 22 33 44 55",
		ServiceType:    "Hjemmerengøring",
		Address:        "Vestergade 4",
		City:           "Aarhus",
		EstimatedHours: 3,
	}
	slot := Slot{Index: 2, Start: now.Add(24 * time.Hour)}

	b, err := NewBookingFromLead(lead, slot, 349, now)
	require.NoError(t, err)

	assert.Equal(t, "lead-1", b.LeadID)
	assert.Equal(t, slot.Start, b.Start)
	assert.Equal(t, 1047.0, b.TotalAmount)
	assert.Equal(t, BookingScheduled, b.Status)
	assert.Equal(t, slot.Start.Add(3*time.Hour), b.End())
	assert.Equal(t, "Aarhus", b.City)
}

func TestBookingMoveTo(t *testing.T) {
	now := time.Now()
	b := &Booking{Status: BookingScheduled}

	require.NoError(t, b.MoveTo(BookingInProgress, now))
	require.NoError(t, b.MoveTo(BookingCompleted, now))

	err := b.MoveTo(BookingCancelled, now)
	var statusErr *InvalidBookingStatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, BookingCompleted, b.Status)
}

func TestOfferOutstanding(t *testing.T) {
	now := time.Date(2025, 5, 5, 12, 0, 0, 0, time.UTC)
	slots := []Slot{{Index: 1}, {Index: 2}, {Index: 3}}

	o, err := NewOffer("lead-1", slots, 72*time.Hour, now)
	require.NoError(t, err)

	assert.True(t, o.Outstanding(now.Add(time.Hour)))
	assert.False(t, o.Outstanding(now.Add(72*time.Hour)))

	o.Status = OfferAccepted
	assert.False(t, o.Outstanding(now))

	_, err = NewOffer("lead-1", slots[:2], time.Hour, now)
	assert.ErrorIs(t, err, ErrInvalidSlotIndex)

	_, err = o.Slot(4)
	assert.ErrorIs(t, err, ErrInvalidSlotIndex)
}
