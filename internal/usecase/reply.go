package usecase

import (
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

type ReplyReason string

const (
	ReasonNotAChoice       ReplyReason = "not_a_choice"
	ReasonOutOfRange       ReplyReason = "out_of_range"
	ReasonLeadNotContacted ReplyReason = "lead_not_contacted"
	ReasonNoOpenOffer      ReplyReason = "no_open_offer"
	ReasonOfferExpired     ReplyReason = "offer_expired"
	ReasonUnknownSender    ReplyReason = "unknown_sender"
)

type ReplyResult struct {
	Recognized bool
	Choice     int
	Slot       entity.Slot
	Reason     ReplyReason
}

// InterpretReply classifies an inbound reply. It only reads its arguments.
// A reply is a choice when, after trimming, it is exactly 1, 2 or 3, the lead
// is contacted and the offer belongs to the lead and is still outstanding.
func InterpretReply(lead *entity.Lead, offer *entity.Offer, raw string, now time.Time) ReplyResult {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ReplyResult{Reason: ReasonNotAChoice}
	}
	if n < 1 || n > entity.OfferSize {
		return ReplyResult{Reason: ReasonOutOfRange}
	}
	if lead == nil || lead.Status != entity.StatusContacted {
		return ReplyResult{Reason: ReasonLeadNotContacted}
	}
	if offer == nil || offer.LeadID != lead.ID {
		return ReplyResult{Reason: ReasonNoOpenOffer}
	}
	if offer.Status == entity.OfferExpired || (offer.Status == entity.OfferOpen && !now.Before(offer.ExpiresAt)) {
		return ReplyResult{Reason: ReasonOfferExpired}
	}
	if !offer.Outstanding(now) {
		return ReplyResult{Reason: ReasonNoOpenOffer}
	}

	slot, err := offer.Slot(n)
	if err != nil {
		return ReplyResult{Reason: ReasonOutOfRange}
	}
	return ReplyResult{Recognized: true, Choice: n, Slot: slot}
}
