package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/extraction"
	"github.com/xavierca1/rendetalje-leads/internal/messaging"
	"github.com/xavierca1/rendetalje-leads/internal/scheduling"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// OutboundMessage é o que vai para a fila q.outbound (ou direto pro SMTP/SMS).
type OutboundMessage struct {
	ID        string                `json:"id"`
	LeadID    string                `json:"lead_id"`
	BookingID string                `json:"booking_id,omitempty"`
	Type      messaging.MessageType `json:"type"`
	Channel   Channel               `json:"channel"`
	To        string                `json:"to"`
	Subject   string                `json:"subject,omitempty"`
	Text      string                `json:"text"`
	HTML      string                `json:"html,omitempty"`
}

type Dispatcher interface {
	Dispatch(ctx context.Context, msg OutboundMessage) error
}

// Escalation hands a lead to a human: unreadable replies, lost booking races,
// leads without any usable contact.
type Escalation struct {
	LeadID string `json:"lead_id,omitempty"`
	Reason string `json:"reason"`
	From   string `json:"from,omitempty"`
	Text   string `json:"text,omitempty"`
}

type Escalator interface {
	Escalate(ctx context.Context, e Escalation) error
}

type ReplyDeduplicator interface {
	// FirstSeen reports true the first time messageID is offered.
	FirstSeen(ctx context.Context, messageID string) (bool, error)
}

type LeadExtractor interface {
	Extract(ctx context.Context, raw string, source entity.Source) *extraction.LeadDraft
}

type SlotGenerator interface {
	Generate(reference time.Time, count int, duration time.Duration, busy []scheduling.Interval) []entity.Slot
	Location() *time.Location
}

type MessageComposer interface {
	ComposeOffer(lead *entity.Lead, slots []entity.Slot, price entity.PriceBreakdown) (*messaging.Composed, error)
	ComposeConfirmation(b *entity.Booking, loc *time.Location) (*messaging.Composed, error)
	ComposeReminder(b *entity.Booking, loc *time.Location) (*messaging.Composed, error)
}
