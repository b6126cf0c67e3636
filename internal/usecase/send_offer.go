package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/extraction"
	"github.com/xavierca1/rendetalje-leads/internal/messaging"
	"github.com/xavierca1/rendetalje-leads/internal/scheduling"
)

// busyHorizon is how far ahead existing bookings are loaded to block slots.
const busyHorizon = 60 * 24 * time.Hour

type SendOfferUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	OfferRepo   entity.OfferRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	Slots       SlotGenerator
	Pricing     entity.PriceCalculator
	Composer    MessageComposer
	Dispatcher  Dispatcher
	Escalator   Escalator
	OfferTTL    time.Duration
	Now         func() time.Time
}

func NewSendOfferUseCase(
	leadRepo entity.LeadRepositoryInterface,
	offerRepo entity.OfferRepositoryInterface,
	bookingRepo entity.BookingRepositoryInterface,
	slots SlotGenerator,
	pricing entity.PriceCalculator,
	composer MessageComposer,
	dispatcher Dispatcher,
	escalator Escalator,
	offerTTL time.Duration,
) *SendOfferUseCase {
	return &SendOfferUseCase{
		LeadRepo:    leadRepo,
		OfferRepo:   offerRepo,
		BookingRepo: bookingRepo,
		Slots:       slots,
		Pricing:     pricing,
		Composer:    composer,
		Dispatcher:  dispatcher,
		Escalator:   escalator,
		OfferTTL:    offerTTL,
		Now:         time.Now,
	}
}

func (uc *SendOfferUseCase) ExecuteByID(ctx context.Context, leadID string) (*SendOfferOutput, error) {
	lead, err := uc.LeadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, leadLookupError(err)
	}
	return uc.Execute(ctx, lead)
}

// Execute sends (or re-sends) a 3-slot offer. A new lead is stored as contacted
// before dispatch and reverted to new when no channel accepts the message; a
// contacted lead only gets a fresh offer that supersedes the previous one.
// On any failure the undelivered offer is superseded and lead is left as stored.
func (uc *SendOfferUseCase) Execute(ctx context.Context, lead *entity.Lead) (*SendOfferOutput, error) {
	if lead.Status != entity.StatusNew && lead.Status != entity.StatusContacted {
		return nil, &DomainError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("não é possível enviar oferta para lead com status %q", lead.Status),
		}
	}

	now := uc.Now()
	fields := log.Fields{"lead_id": lead.ID, "status": lead.Status}

	recipients := contactChannels(lead.CustomerEmail, lead.CustomerPhone)
	if len(recipients) == 0 {
		escalate(ctx, uc.Escalator, Escalation{LeadID: lead.ID, Reason: "no_contact"})
		return nil, &DomainError{Code: CodeValidation, Message: "lead não tem email nem telefone para envio da oferta"}
	}

	price, err := uc.Pricing.Price(lead.EstimatedHours)
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}

	busy, err := uc.busyIntervals(ctx, now)
	if err != nil {
		return nil, err
	}
	duration := time.Duration(lead.EstimatedHours * float64(time.Hour))
	slots := uc.Slots.Generate(now, entity.OfferSize, duration, busy)
	if len(slots) < entity.OfferSize {
		return nil, &DomainError{Code: CodeNoSlots, Message: "não há horários livres suficientes"}
	}

	msg, err := uc.Composer.ComposeOffer(lead, slots, price)
	if err != nil {
		return nil, &TechnicalError{Code: CodeCompose, Message: "falha ao montar mensagem de oferta", Err: err}
	}

	offer, err := entity.NewOffer(lead.ID, slots, uc.OfferTTL, now)
	if err != nil {
		return nil, &TechnicalError{Code: CodeCompose, Message: "oferta inválida", Err: err}
	}

	// a reply must never find the stored lead still new
	previous := lead.Clone()
	var (
		restored  *entity.Lead
		delivered []Channel
	)
	txn := NewTransaction()

	txn.AddStep("save_offer",
		func(ctx context.Context) error {
			if err := uc.OfferRepo.SupersedeOpen(ctx, lead.ID); err != nil {
				return err
			}
			return uc.OfferRepo.Create(ctx, offer)
		},
		// the customer never saw it
		func(ctx context.Context) error { return uc.OfferRepo.SupersedeOpen(ctx, lead.ID) },
	)

	if lead.Status == entity.StatusNew {
		txn.AddStep("mark_contacted",
			func(ctx context.Context) error {
				if err := lead.MarkOfferSent(now); err != nil {
					return err
				}
				return uc.LeadRepo.Update(ctx, lead, previous.Version)
			},
			func(ctx context.Context) error {
				restore := previous.Clone()
				restore.UpdatedAt = uc.Now()
				if err := uc.LeadRepo.Update(ctx, restore, lead.Version); err != nil {
					return err
				}
				restored = restore
				return nil
			},
		)
	}

	txn.AddStep("dispatch",
		func(ctx context.Context) error {
			delivered = dispatchAll(ctx, uc.Dispatcher, lead.ID, "", msg, recipients)
			if len(delivered) == 0 {
				return errNothingDelivered
			}
			return nil
		},
		nil,
	)

	if err := txn.Execute(ctx); err != nil {
		if restored != nil {
			*lead = *restored
		} else {
			*lead = *previous
		}
		return nil, sendOfferError(err)
	}

	log.WithFields(fields).WithField("offer_id", offer.ID).Info("📨 Oferta enviada")
	return &SendOfferOutput{Offer: offer, Price: price, Channels: delivered, Delivered: true}, nil
}

var errNothingDelivered = errors.New("nenhum canal aceitou a oferta")

func sendOfferError(err error) error {
	var te *entity.InvalidTransitionError
	switch {
	case errors.Is(err, errNothingDelivered):
		return &TechnicalError{Code: CodeDispatch, Message: "nenhum canal aceitou a oferta"}
	case errors.Is(err, entity.ErrVersionConflict):
		return updateError(err)
	case errors.As(err, &te):
		return transitionError(err)
	}
	return databaseError("falha ao salvar oferta", err)
}

func (uc *SendOfferUseCase) busyIntervals(ctx context.Context, now time.Time) ([]scheduling.Interval, error) {
	bookings, err := uc.BookingRepo.ListScheduledBetween(ctx, now, now.Add(busyHorizon))
	if err != nil {
		return nil, databaseError("falha ao buscar agenda", err)
	}
	return bookingIntervals(bookings), nil
}

func bookingIntervals(bookings []*entity.Booking) []scheduling.Interval {
	busy := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		if !b.IsActive() {
			continue
		}
		busy = append(busy, scheduling.Interval{Start: b.Start, End: b.End()})
	}
	return busy
}

// contactChannels drops placeholders so nothing is sent to "[Email]".
func contactChannels(email, phone string) map[Channel]string {
	out := make(map[Channel]string, 2)
	if e := strings.TrimSpace(email); !extraction.IsPlaceholder(e) && strings.Contains(e, "@") {
		out[ChannelEmail] = e
	}
	if p := strings.TrimSpace(phone); !extraction.IsPlaceholder(p) {
		out[ChannelSMS] = p
	}
	return out
}

// dispatchAll sends msg on every channel in a fixed order (email first) and
// returns the channels that accepted it. Failures are logged, not returned.
func dispatchAll(ctx context.Context, d Dispatcher, leadID, bookingID string, msg *messaging.Composed, to map[Channel]string) []Channel {
	var delivered []Channel
	for _, ch := range []Channel{ChannelEmail, ChannelSMS} {
		addr, ok := to[ch]
		if !ok {
			continue
		}
		out := OutboundMessage{
			ID:        uuid.New().String(),
			LeadID:    leadID,
			BookingID: bookingID,
			Type:      msg.Type,
			Channel:   ch,
			To:        addr,
		}
		if ch == ChannelEmail {
			out.Subject, out.Text, out.HTML = msg.Subject, msg.Text, msg.HTML
		} else {
			out.Text = msg.SMS
		}

		if err := d.Dispatch(ctx, out); err != nil {
			log.WithFields(log.Fields{"lead_id": leadID, "channel": ch, "type": msg.Type, "error": err}).
				Warn("⚠️ Falha ao despachar mensagem")
			continue
		}
		delivered = append(delivered, ch)
	}
	return delivered
}

func escalate(ctx context.Context, esc Escalator, e Escalation) {
	if esc == nil {
		log.WithFields(log.Fields{"lead_id": e.LeadID, "reason": e.Reason, "from": e.From}).
			Warn("👤 Precisa de atendimento humano")
		return
	}
	if err := esc.Escalate(ctx, e); err != nil {
		log.WithFields(log.Fields{"lead_id": e.LeadID, "reason": e.Reason, "error": err}).
			Warn("⚠️ Falha ao escalar para atendimento humano")
	}
}
