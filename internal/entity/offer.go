package entity

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OfferSize is the number of candidate slots presented to a lead.
const OfferSize = 3

type Slot struct {
	Index int       `json:"index"` // 1-based, what the customer replies with
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Short string    `json:"short"`
}

func (s Slot) Overlaps(start, end time.Time) bool {
	return s.Start.Before(end) && start.Before(s.End)
}

// Slots is stored as a JSON column.
type Slots []Slot

// Value is a string so lib/pq sends it as jsonb text instead of bytea.
func (s Slots) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Slots) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return errors.New("slots: unsupported column type")
}

type OfferStatus string

const (
	OfferOpen       OfferStatus = "open"
	OfferAccepted   OfferStatus = "accepted"
	OfferExpired    OfferStatus = "expired"
	OfferSuperseded OfferStatus = "superseded"
)

type Offer struct {
	ID           string      `json:"id" db:"id"`
	LeadID       string      `json:"lead_id" db:"lead_id"`
	Slots        Slots       `json:"slots" db:"slots"`
	Status       OfferStatus `json:"status" db:"status"`
	AcceptedSlot int         `json:"accepted_slot,omitempty" db:"accepted_slot"`
	ExpiresAt    time.Time   `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

func NewOffer(leadID string, slots []Slot, ttl time.Duration, now time.Time) (*Offer, error) {
	if len(slots) != OfferSize {
		return nil, ErrInvalidSlotIndex
	}
	return &Offer{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		Slots:     Slots(slots),
		Status:    OfferOpen,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Outstanding reports whether the customer can still answer this offer.
func (o *Offer) Outstanding(now time.Time) bool {
	return o.Status == OfferOpen && now.Before(o.ExpiresAt)
}

func (o *Offer) Slot(index int) (Slot, error) {
	if index < 1 || index > len(o.Slots) {
		return Slot{}, ErrInvalidSlotIndex
	}
	return o.Slots[index-1], nil
}

type OfferRepositoryInterface interface {
	Create(ctx context.Context, offer *Offer) error
	FindOpenByLeadID(ctx context.Context, leadID string) (*Offer, error)
	// FindLatestByLeadID returns the most recent offer regardless of status.
	FindLatestByLeadID(ctx context.Context, leadID string) (*Offer, error)
	// Accept flips an open offer to accepted; ErrOfferNotOpen when another
	// writer got there first.
	Accept(ctx context.Context, offerID string, slotIndex int) error
	Reopen(ctx context.Context, offerID string) error
	SupersedeOpen(ctx context.Context, leadID string) error
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}
