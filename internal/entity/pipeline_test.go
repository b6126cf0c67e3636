package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []Status{StatusNew, StatusContacted, StatusBooked, StatusCompleted, StatusInvoiced}

var allEvents = []Event{EventOfferSent, EventSlotChosen, EventJobPerformed, EventBookingCancelled, EventInvoiceIssued}

func TestNextStatus_HappyPath(t *testing.T) {
	cases := []struct {
		from  Status
		event Event
		to    Status
	}{
		{StatusNew, EventOfferSent, StatusContacted},
		{StatusContacted, EventSlotChosen, StatusBooked},
		{StatusBooked, EventJobPerformed, StatusCompleted},
		{StatusBooked, EventBookingCancelled, StatusContacted},
		{StatusCompleted, EventInvoiceIssued, StatusInvoiced},
	}

	for _, tc := range cases {
		to, err := NextStatus(tc.from, tc.event)
		require.NoError(t, err, "%s + %s", tc.from, tc.event)
		assert.Equal(t, tc.to, to)
	}
}

// Every pair missing from the table must be rejected and leave the lead untouched.
func TestApply_RejectsEverythingOutsideTheTable(t *testing.T) {
	allowed := map[Status]map[Event]bool{
		StatusNew:       {EventOfferSent: true},
		StatusContacted: {EventSlotChosen: true},
		StatusBooked:    {EventJobPerformed: true, EventBookingCancelled: true},
		StatusCompleted: {EventInvoiceIssued: true},
	}
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	for _, from := range allStatuses {
		for _, ev := range allEvents {
			if allowed[from][ev] {
				continue
			}
			lead := &Lead{ID: "l-1", Status: from, UpdatedAt: created}
			err := lead.Apply(ev, later)

			var transErr *InvalidTransitionError
			require.True(t, errors.As(err, &transErr), "%s + %s should be rejected", from, ev)
			assert.Equal(t, from, transErr.From)
			assert.Equal(t, ev, transErr.Event)
			assert.Equal(t, from, lead.Status)
			assert.Equal(t, created, lead.UpdatedAt)
		}
	}
}

func TestContactedCannotGoBackToNew(t *testing.T) {
	for _, ev := range allEvents {
		to, _ := NextStatus(StatusContacted, ev)
		assert.NotEqual(t, StatusNew, to)
	}
}

func TestMarkBookedAndCancel(t *testing.T) {
	now := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	lead := &Lead{ID: "l-1", Status: StatusContacted}
	slot := Slot{Index: 2, Start: now.Add(26 * time.Hour), Label: "tirsdag d. 4. marts kl. 10:00"}

	require.NoError(t, lead.MarkBooked(slot, now))
	assert.Equal(t, StatusBooked, lead.Status)
	require.NotNil(t, lead.BookingDate)
	assert.Equal(t, slot.Start, *lead.BookingDate)
	assert.Equal(t, slot.Label, lead.BookingTimeSlot)

	require.NoError(t, lead.MarkBookingCancelled(now))
	assert.Equal(t, StatusContacted, lead.Status)
	assert.Nil(t, lead.BookingDate)
	assert.Empty(t, lead.BookingTimeSlot)
}

func TestMarkOfferSent_SetsResponseSent(t *testing.T) {
	lead := &Lead{Status: StatusNew}
	require.NoError(t, lead.MarkOfferSent(time.Now()))
	assert.True(t, lead.ResponseSent)
	assert.Equal(t, StatusContacted, lead.Status)

	// a second offer_sent is not in the table
	assert.Error(t, lead.MarkOfferSent(time.Now()))
}

func TestNewLead_PricesAtCreation(t *testing.T) {
	lead, err := NewLead(SourceLeadmail, 3, 349, time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusNew, lead.Status)
	assert.Equal(t, 1047.0, lead.EstimatedPrice)
	assert.Equal(t, 1, lead.Version)
	assert.NotEmpty(t, lead.ID)

	_, err = NewLead(Source("fax"), 3, 349, time.Now())
	assert.ErrorIs(t, err, ErrInvalidSource)
}

func TestReprice_FrozenOnceInvoiced(t *testing.T) {
	lead, err := NewLead(SourceLeadpoint, 2, 349, time.Now())
	require.NoError(t, err)

	require.NoError(t, lead.Reprice(4, 349, time.Now()))
	assert.Equal(t, 1396.0, lead.EstimatedPrice)

	lead.Status = StatusInvoiced
	assert.ErrorIs(t, lead.Reprice(10, 349, time.Now()), ErrLeadFrozen)
	assert.Equal(t, 1396.0, lead.EstimatedPrice)
}
