package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

func TestInterpretReply(t *testing.T) {
	lead := contactedLead(t)
	offer := openOffer(t, lead)

	cases := []struct {
		name   string
		text   string
		choice int
		reason ReplyReason
	}{
		{"plain digit", "2", 2, ""},
		{"surrounding whitespace", "  3\n", 3, ""},
		{"first slot", "1", 1, ""},
		{"question", "hvad koster det?", 0, ReasonNotAChoice},
		{"empty", "", 0, ReasonNotAChoice},
		{"digit with text", "1 tak", 0, ReasonNotAChoice},
		{"zero", "0", 0, ReasonOutOfRange},
		{"four", "4", 0, ReasonOutOfRange},
		{"negative", "-1", 0, ReasonOutOfRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := InterpretReply(lead, offer, tc.text, testNow)
			assert.Equal(t, tc.reason == "", r.Recognized)
			assert.Equal(t, tc.reason, r.Reason)
			assert.Equal(t, tc.choice, r.Choice)
			if r.Recognized {
				assert.Equal(t, offer.Slots[tc.choice-1], r.Slot)
			}
		})
	}
}

func TestInterpretReply_RequiresContactedLeadAndOutstandingOffer(t *testing.T) {
	lead := contactedLead(t)
	offer := openOffer(t, lead)

	booked := lead.Clone()
	booked.Status = entity.StatusBooked
	assert.Equal(t, ReasonLeadNotContacted, InterpretReply(booked, offer, "1", testNow).Reason)

	assert.Equal(t, ReasonNoOpenOffer, InterpretReply(lead, nil, "1", testNow).Reason)

	foreign := *offer
	foreign.LeadID = "someone-else"
	assert.Equal(t, ReasonNoOpenOffer, InterpretReply(lead, &foreign, "1", testNow).Reason)

	superseded := *offer
	superseded.Status = entity.OfferSuperseded
	assert.Equal(t, ReasonNoOpenOffer, InterpretReply(lead, &superseded, "1", testNow).Reason)

	assert.Equal(t, ReasonOfferExpired, InterpretReply(lead, offer, "1", offer.ExpiresAt).Reason)
	assert.Equal(t, ReasonOfferExpired, InterpretReply(lead, offer, "1", offer.ExpiresAt.Add(time.Minute)).Reason)

	expired := *offer
	expired.Status = entity.OfferExpired
	assert.Equal(t, ReasonOfferExpired, InterpretReply(lead, &expired, "1", testNow).Reason)
}

func TestInterpretReply_DoesNotMutate(t *testing.T) {
	lead := contactedLead(t)
	offer := openOffer(t, lead)
	leadBefore := *lead
	offerStatus := offer.Status

	InterpretReply(lead, offer, "2", testNow)
	InterpretReply(lead, offer, "nej", testNow)

	assert.Equal(t, leadBefore, *lead)
	assert.Equal(t, offerStatus, offer.Status)
}
