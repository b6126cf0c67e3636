package entity

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
	StatusInvoiced  Status = "invoiced"
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

type Event string

const (
	EventOfferSent        Event = "offer_sent"
	EventSlotChosen       Event = "slot_chosen"
	EventJobPerformed     Event = "job_performed"
	EventBookingCancelled Event = "booking_cancelled"
	EventInvoiceIssued    Event = "invoice_issued"
)

// transitions is the only place lead statuses are allowed to change.
// booked -> contacted (cancellation) is the single backward edge.
var transitions = map[Status]map[Event]Status{
	StatusNew: {
		EventOfferSent: StatusContacted,
	},
	StatusContacted: {
		EventSlotChosen: StatusBooked,
	},
	StatusBooked: {
		EventJobPerformed:     StatusCompleted,
		EventBookingCancelled: StatusContacted,
	},
	StatusCompleted: {
		EventInvoiceIssued: StatusInvoiced,
	},
	StatusInvoiced: {},
}

type InvalidTransitionError struct {
	From  Status
	Event Event
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: event %q not allowed from status %q", e.Event, e.From)
}

func NextStatus(from Status, event Event) (Status, error) {
	to, ok := transitions[from][event]
	if !ok {
		return from, &InvalidTransitionError{From: from, Event: event}
	}
	return to, nil
}

// Apply moves the lead through the table. Nothing on the lead changes when
// the transition is rejected.
func (l *Lead) Apply(event Event, now time.Time) error {
	to, err := NextStatus(l.Status, event)
	if err != nil {
		return err
	}
	l.Status = to
	l.UpdatedAt = now
	return nil
}

func (l *Lead) MarkOfferSent(now time.Time) error {
	if err := l.Apply(EventOfferSent, now); err != nil {
		return err
	}
	l.ResponseSent = true
	return nil
}

func (l *Lead) MarkBooked(slot Slot, now time.Time) error {
	if err := l.Apply(EventSlotChosen, now); err != nil {
		return err
	}
	start := slot.Start
	l.BookingDate = &start
	l.BookingTimeSlot = slot.Label
	return nil
}

func (l *Lead) MarkBookingCancelled(now time.Time) error {
	if err := l.Apply(EventBookingCancelled, now); err != nil {
		return err
	}
	l.BookingDate = nil
	l.BookingTimeSlot = ""
	return nil
}

func (l *Lead) MarkCompleted(now time.Time) error {
	return l.Apply(EventJobPerformed, now)
}

func (l *Lead) MarkInvoiced(now time.Time) error {
	return l.Apply(EventInvoiceIssued, now)
}
