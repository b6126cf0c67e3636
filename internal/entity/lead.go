package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Source string

const (
	SourceLeadpoint   Source = "leadpoint"
	SourceLeadmail    Source = "leadmail"
	SourceBookingForm Source = "booking_form"
)

func (s Source) Valid() bool {
	switch s {
	case SourceLeadpoint, SourceLeadmail, SourceBookingForm:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ExtractionMethod tells how the lead fields were obtained from the raw email.
type ExtractionMethod string

const (
	ExtractionAI        ExtractionMethod = "ai"
	ExtractionHeuristic ExtractionMethod = "heuristic"
	ExtractionForm      ExtractionMethod = "form"
)

type Lead struct {
	ID            string `json:"id" db:"id"`
	CustomerName  string `json:"customer_name" db:"customer_name"`
	CustomerEmail string `json:"customer_email" db:"customer_email"`
	CustomerPhone string `json:"customer_phone" db:"customer_phone"`
	Source        Source `json:"source" db:"source"` // leadpoint, leadmail, booking_form

	ServiceType string `json:"service_type" db:"service_type"`
	Address     string `json:"address" db:"address"`
	City        string `json:"city" db:"city"`
	PostalCode  string `json:"postal_code,omitempty" db:"postal_code"`

	EstimatedHours float64 `json:"estimated_hours" db:"estimated_hours"`
	EstimatedPrice float64 `json:"estimated_price" db:"estimated_price"`

	Status   Status   `json:"status" db:"status"`
	Priority Priority `json:"priority" db:"priority"`
	Notes    string   `json:"notes,omitempty" db:"notes"`

	BookingDate     *time.Time `json:"booking_date,omitempty" db:"booking_date"`
	BookingTimeSlot string     `json:"booking_time_slot,omitempty" db:"booking_time_slot"`

	EmailContent     string           `json:"email_content,omitempty" db:"email_content"`
	AIAnalysis       string           `json:"ai_analysis,omitempty" db:"ai_analysis"`
	ExtractionMethod ExtractionMethod `json:"extraction_method" db:"extraction_method"`
	LowConfidence    bool             `json:"low_confidence" db:"low_confidence"`
	ResponseSent     bool             `json:"response_sent" db:"response_sent"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewLead prices the lead at creation time. The price is never recomputed
// implicitly afterwards.
func NewLead(source Source, hours, hourlyRate float64, now time.Time) (*Lead, error) {
	if !source.Valid() {
		return nil, ErrInvalidSource
	}
	breakdown, err := Price(hours, hourlyRate, 0)
	if err != nil {
		return nil, err
	}

	return &Lead{
		ID:             uuid.New().String(),
		Source:         source,
		EstimatedHours: hours,
		EstimatedPrice: breakdown.Subtotal,
		Status:         StatusNew,
		Priority:       PriorityMedium,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Reprice recomputes the estimate. Invoiced leads are frozen.
func (l *Lead) Reprice(hours, hourlyRate float64, now time.Time) error {
	if l.Status == StatusInvoiced {
		return ErrLeadFrozen
	}
	breakdown, err := Price(hours, hourlyRate, 0)
	if err != nil {
		return err
	}
	l.EstimatedHours = hours
	l.EstimatedPrice = breakdown.Subtotal
	l.UpdatedAt = now
	return nil
}

func (l *Lead) IsNew() bool {
	return l.Status == StatusNew
}

func (l *Lead) IsContacted() bool {
	return l.Status == StatusContacted
}

// Clone returns a shallow copy, used to restore state when a saga compensates.
func (l *Lead) Clone() *Lead {
	c := *l
	if l.BookingDate != nil {
		d := *l.BookingDate
		c.BookingDate = &d
	}
	return &c
}

type LeadFilter struct {
	Status *Status
	Source *Source
	Limit  int
	Offset int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	// FindLatestByContact resolves an inbound reply sender (phone or email),
	// preferring leads that are currently contacted.
	FindLatestByContact(ctx context.Context, identifier string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	// Update persists the lead only if its stored version still equals
	// expectedVersion. On success lead.Version is incremented.
	Update(ctx context.Context, lead *Lead, expectedVersion int) error
}
