package usecase

import (
	"time"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

type ProcessLeadEmailInput struct {
	Content string        `json:"content"`
	Source  entity.Source `json:"source"`
	Subject string        `json:"subject"`
	Sender  string        `json:"sender"`
}

type BookingFormInput struct {
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Address        string  `json:"address"`
	PostalCode     string  `json:"postal_code"`
	City           string  `json:"city"`
	ServiceType    string  `json:"service_type"`
	EstimatedHours float64 `json:"estimated_hours"`
	Notes          string  `json:"notes"`
}

// LeadIntakeOutput is returned by both intake paths. An intake succeeds even
// when the offer could not be sent; OfferError then says why.
type LeadIntakeOutput struct {
	Lead       *entity.Lead            `json:"lead"`
	Method     entity.ExtractionMethod `json:"method"`
	Defaulted  []string                `json:"defaulted,omitempty"`
	Offer      *SendOfferOutput        `json:"offer,omitempty"`
	OfferError string                  `json:"offer_error,omitempty"`
}

type SendOfferOutput struct {
	Offer     *entity.Offer         `json:"offer"`
	Price     entity.PriceBreakdown `json:"price"`
	Channels  []Channel             `json:"channels"`
	Delivered bool                  `json:"delivered"`
}

type ReplyInput struct {
	From       string    `json:"from"`
	Text       string    `json:"text"`
	ReceivedAt time.Time `json:"received_at"`
	MessageID  string    `json:"message_id"`
}

type ReplyOutcome string

const (
	OutcomeBooked        ReplyOutcome = "booked"
	OutcomeAlreadyBooked ReplyOutcome = "already_booked"
	OutcomeUnrecognized  ReplyOutcome = "unrecognized"
	OutcomeDuplicate     ReplyOutcome = "duplicate"
	OutcomeConflict      ReplyOutcome = "conflict"
)

type ReplyOutput struct {
	Outcome ReplyOutcome    `json:"outcome"`
	Reason  ReplyReason     `json:"reason,omitempty"`
	LeadID  string          `json:"lead_id,omitempty"`
	Booking *entity.Booking `json:"booking,omitempty"`
}

type CancelBookingInput struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

type UpdateBookingStatusInput struct {
	BookingID string               `json:"booking_id"`
	Status    entity.BookingStatus `json:"status"`
}

type BookingOutput struct {
	Booking *entity.Booking `json:"booking"`
	Lead    *entity.Lead    `json:"lead"`
}

type TransitionLeadInput struct {
	LeadID string       `json:"lead_id"`
	Event  entity.Event `json:"event"`
}

type RemindersOutput struct {
	Due    int `json:"due"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}
