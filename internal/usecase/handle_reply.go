package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

// overlapLookback covers bookings that start before a slot and run into it.
const overlapLookback = 24 * time.Hour

type HandleReplyUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	OfferRepo   entity.OfferRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	Composer    MessageComposer
	Dispatcher  Dispatcher
	Escalator   Escalator
	Dedupe      ReplyDeduplicator
	HourlyRate  float64
	Location    *time.Location
	Now         func() time.Time
}

func NewHandleReplyUseCase(
	leadRepo entity.LeadRepositoryInterface,
	offerRepo entity.OfferRepositoryInterface,
	bookingRepo entity.BookingRepositoryInterface,
	composer MessageComposer,
	dispatcher Dispatcher,
	escalator Escalator,
	dedupe ReplyDeduplicator,
	hourlyRate float64,
	loc *time.Location,
) *HandleReplyUseCase {
	return &HandleReplyUseCase{
		LeadRepo:    leadRepo,
		OfferRepo:   offerRepo,
		BookingRepo: bookingRepo,
		Composer:    composer,
		Dispatcher:  dispatcher,
		Escalator:   escalator,
		Dedupe:      dedupe,
		HourlyRate:  hourlyRate,
		Location:    loc,
		Now:         time.Now,
	}
}

func (uc *HandleReplyUseCase) Execute(ctx context.Context, input ReplyInput) (*ReplyOutput, error) {
	from := strings.TrimSpace(input.From)
	if from == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: from (is required)"}
	}

	if input.MessageID != "" && uc.Dedupe != nil {
		first, err := uc.Dedupe.FirstSeen(ctx, input.MessageID)
		if err != nil {
			// Without the cache the lead state still makes a repeated reply a no-op.
			log.WithFields(log.Fields{"message_id": input.MessageID, "error": err}).
				Warn("⚠️ Dedupe indisponível, seguindo sem cache")
		} else if !first {
			return &ReplyOutput{Outcome: OutcomeDuplicate}, nil
		}
	}

	now := uc.Now()
	fields := log.Fields{"from": from, "message_id": input.MessageID}

	lead, err := uc.LeadRepo.FindLatestByContact(ctx, from)
	if errors.Is(err, entity.ErrLeadNotFound) {
		escalate(ctx, uc.Escalator, Escalation{Reason: string(ReasonUnknownSender), From: from, Text: input.Text})
		return &ReplyOutput{Outcome: OutcomeUnrecognized, Reason: ReasonUnknownSender}, nil
	}
	if err != nil {
		return nil, databaseError("falha ao buscar lead pelo contato", err)
	}
	fields["lead_id"] = lead.ID

	offer, err := uc.OfferRepo.FindLatestByLeadID(ctx, lead.ID)
	if err != nil && !errors.Is(err, entity.ErrOfferNotFound) {
		return nil, databaseError("falha ao buscar oferta", err)
	}

	if out, ok := uc.alreadyBooked(ctx, lead, offer, input.Text); ok {
		log.WithFields(fields).Info("🔁 Resposta repetida para booking já confirmado")
		return out, nil
	}

	result := InterpretReply(lead, offer, input.Text, now)
	if !result.Recognized {
		log.WithFields(fields).WithField("reason", result.Reason).Info("❓ Resposta não reconhecida, escalando")
		escalate(ctx, uc.Escalator, Escalation{LeadID: lead.ID, Reason: string(result.Reason), From: from, Text: input.Text})
		return &ReplyOutput{Outcome: OutcomeUnrecognized, Reason: result.Reason, LeadID: lead.ID}, nil
	}

	booking, err := uc.commit(ctx, lead, offer, result.Slot, now)
	if err != nil {
		if errors.Is(err, ErrConcurrentBookingConflict) {
			log.WithFields(fields).Warn("⚔️ Conflito de booking, outro pedido venceu")
			escalate(ctx, uc.Escalator, Escalation{LeadID: lead.ID, Reason: "booking_conflict", From: from, Text: input.Text})
		}
		return nil, err
	}

	log.WithFields(fields).WithField("booking_id", booking.ID).Info("✅ Booking confirmado")
	uc.sendConfirmation(ctx, lead, booking)
	return &ReplyOutput{Outcome: OutcomeBooked, LeadID: lead.ID, Booking: booking}, nil
}

// alreadyBooked makes a repeated choice a no-op: the same digit arriving
// after the booking was committed returns the existing booking. The reason is
// the one InterpretReply gives for a lead that is no longer contacted.
func (uc *HandleReplyUseCase) alreadyBooked(ctx context.Context, lead *entity.Lead, offer *entity.Offer, text string) (*ReplyOutput, bool) {
	if lead.Status != entity.StatusBooked || offer == nil || offer.Status != entity.OfferAccepted {
		return nil, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n != offer.AcceptedSlot {
		return nil, false
	}
	booking, err := uc.BookingRepo.FindActiveByLeadID(ctx, lead.ID)
	if err != nil {
		return nil, false
	}
	return &ReplyOutput{Outcome: OutcomeAlreadyBooked, Reason: ReasonLeadNotContacted, LeadID: lead.ID, Booking: booking}, true
}

// commit runs the booking saga: accept offer, book lead, create booking.
// Losing any conditional update rolls back and yields ErrConcurrentBookingConflict.
func (uc *HandleReplyUseCase) commit(ctx context.Context, lead *entity.Lead, offer *entity.Offer, slot entity.Slot, now time.Time) (*entity.Booking, error) {
	taken, err := uc.BookingRepo.ListScheduledBetween(ctx, slot.Start.Add(-overlapLookback), slot.End)
	if err != nil {
		return nil, databaseError("falha ao verificar agenda", err)
	}
	for _, iv := range bookingIntervals(taken) {
		if slot.Overlaps(iv.Start, iv.End) {
			return nil, ErrConcurrentBookingConflict
		}
	}

	booking, err := entity.NewBookingFromLead(lead, slot, uc.HourlyRate, now)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	previous := lead.Clone()
	txn := NewTransaction()

	txn.AddStep("accept_offer",
		func(ctx context.Context) error { return uc.OfferRepo.Accept(ctx, offer.ID, slot.Index) },
		func(ctx context.Context) error { return uc.OfferRepo.Reopen(ctx, offer.ID) },
	)

	txn.AddStep("book_lead",
		func(ctx context.Context) error {
			if err := lead.MarkBooked(slot, now); err != nil {
				return err
			}
			return uc.LeadRepo.Update(ctx, lead, previous.Version)
		},
		func(ctx context.Context) error {
			restore := previous.Clone()
			restore.UpdatedAt = uc.Now()
			return uc.LeadRepo.Update(ctx, restore, lead.Version)
		},
	)

	txn.AddStep("create_booking",
		func(ctx context.Context) error { return uc.BookingRepo.Create(ctx, booking) },
		nil,
	)

	if err := txn.Execute(ctx); err != nil {
		*lead = *previous
		if isBookingRace(err) {
			return nil, ErrConcurrentBookingConflict
		}
		var te *entity.InvalidTransitionError
		if errors.As(err, &te) {
			return nil, transitionError(err)
		}
		return nil, databaseError("falha ao confirmar booking", err)
	}
	return booking, nil
}

func (uc *HandleReplyUseCase) sendConfirmation(ctx context.Context, lead *entity.Lead, booking *entity.Booking) {
	msg, err := uc.Composer.ComposeConfirmation(booking, uc.Location)
	if err != nil {
		log.WithFields(log.Fields{"booking_id": booking.ID, "error": err}).Error("❌ Falha ao montar confirmação")
		return
	}
	dispatchAll(ctx, uc.Dispatcher, lead.ID, booking.ID, msg, contactChannels(booking.CustomerEmail, booking.CustomerPhone))
}
