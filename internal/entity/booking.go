package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingScheduled  BookingStatus = "scheduled"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingScheduled:  {BookingInProgress, BookingCompleted, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
	BookingCompleted:  {},
	BookingCancelled:  {},
}

type InvalidBookingStatusError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidBookingStatusError) Error() string {
	return fmt.Sprintf("booking can not move from %q to %q", e.From, e.To)
}

type Booking struct {
	ID            string `json:"id" db:"id"`
	LeadID        string `json:"lead_id" db:"lead_id"`
	CustomerName  string `json:"customer_name" db:"customer_name"`
	CustomerEmail string `json:"customer_email" db:"customer_email"`
	CustomerPhone string `json:"customer_phone" db:"customer_phone"`
	ServiceType   string `json:"service_type" db:"service_type"`
	Address       string `json:"address" db:"address"`
	City          string `json:"city" db:"city"`

	Start         time.Time     `json:"start" db:"start_at"`
	DurationHours float64       `json:"duration_hours" db:"duration_hours"`
	HourlyRate    float64       `json:"hourly_rate" db:"hourly_rate"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        BookingStatus `json:"status" db:"status"`

	CalendarEventID string     `json:"calendar_event_id,omitempty" db:"calendar_event_id"`
	Notes           string     `json:"notes,omitempty" db:"notes"`
	ReminderSentAt  *time.Time `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// NewBookingFromLead copies the customer fields so the booking stays readable
// even if the lead is edited later.
func NewBookingFromLead(lead *Lead, slot Slot, hourlyRate float64, now time.Time) (*Booking, error) {
	price, err := Price(lead.EstimatedHours, hourlyRate, 0)
	if err != nil {
		return nil, err
	}
	return &Booking{
		ID:            uuid.New().String(),
		LeadID:        lead.ID,
		CustomerName:  lead.CustomerName,
		CustomerEmail: lead.CustomerEmail,
		CustomerPhone: lead.CustomerPhone,
		ServiceType:   lead.ServiceType,
		Address:       lead.Address,
		City:          lead.City,
		Start:         slot.Start,
		DurationHours: lead.EstimatedHours,
		HourlyRate:    hourlyRate,
		TotalAmount:   price.Subtotal,
		Status:        BookingScheduled,
		Notes:         lead.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (b *Booking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationHours * float64(time.Hour)))
}

func (b *Booking) IsActive() bool {
	return b.Status != BookingCancelled
}

func (b *Booking) MoveTo(to BookingStatus, now time.Time) error {
	for _, allowed := range bookingTransitions[b.Status] {
		if allowed == to {
			b.Status = to
			b.UpdatedAt = now
			return nil
		}
	}
	return &InvalidBookingStatusError{From: b.Status, To: to}
}

type BookingRepositoryInterface interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindActiveByLeadID(ctx context.Context, leadID string) (*Booking, error)
	ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*Booking, error)
	ListDueForReminder(ctx context.Context, from, to time.Time) ([]*Booking, error)
	UpdateStatus(ctx context.Context, id string, status BookingStatus) error
	MarkReminderSent(ctx context.Context, id string, at time.Time) error
}
