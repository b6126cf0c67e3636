package usecase

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

const reminderWindow = 24 * time.Hour

type SendRemindersUseCase struct {
	BookingRepo entity.BookingRepositoryInterface
	Composer    MessageComposer
	Dispatcher  Dispatcher
	Location    *time.Location
	Now         func() time.Time
}

func NewSendRemindersUseCase(bookingRepo entity.BookingRepositoryInterface, composer MessageComposer, dispatcher Dispatcher, loc *time.Location) *SendRemindersUseCase {
	return &SendRemindersUseCase{
		BookingRepo: bookingRepo,
		Composer:    composer,
		Dispatcher:  dispatcher,
		Location:    loc,
		Now:         time.Now,
	}
}

// Execute reminds every scheduled booking starting within the next 24 hours
// that has not been reminded yet.
func (uc *SendRemindersUseCase) Execute(ctx context.Context) (*RemindersOutput, error) {
	now := uc.Now()
	due, err := uc.BookingRepo.ListDueForReminder(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return nil, databaseError("falha ao buscar bookings para lembrete", err)
	}

	out := &RemindersOutput{Due: len(due)}
	for _, b := range due {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if uc.remind(ctx, b, now) {
			out.Sent++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func (uc *SendRemindersUseCase) remind(ctx context.Context, b *entity.Booking, now time.Time) bool {
	fields := log.Fields{"booking_id": b.ID, "lead_id": b.LeadID}

	msg, err := uc.Composer.ComposeReminder(b, uc.Location)
	if err != nil {
		log.WithFields(fields).WithError(err).Error("❌ Falha ao montar lembrete")
		return false
	}
	if len(dispatchAll(ctx, uc.Dispatcher, b.LeadID, b.ID, msg, contactChannels(b.CustomerEmail, b.CustomerPhone))) == 0 {
		return false
	}
	if err := uc.BookingRepo.MarkReminderSent(ctx, b.ID, now); err != nil {
		log.WithFields(fields).WithError(err).Error("❌ Lembrete enviado, mas não marcado no banco")
		return false
	}
	log.WithFields(fields).Info("⏰ Lembrete enviado")
	return true
}

type ExpireOffersUseCase struct {
	OfferRepo entity.OfferRepositoryInterface
	Now       func() time.Time
}

func NewExpireOffersUseCase(offerRepo entity.OfferRepositoryInterface) *ExpireOffersUseCase {
	return &ExpireOffersUseCase{OfferRepo: offerRepo, Now: time.Now}
}

// Execute marks stale open offers expired. Lead status is not touched.
func (uc *ExpireOffersUseCase) Execute(ctx context.Context) (int64, error) {
	n, err := uc.OfferRepo.ExpireBefore(ctx, uc.Now())
	if err != nil {
		return 0, databaseError("falha ao expirar ofertas", err)
	}
	return n, nil
}
