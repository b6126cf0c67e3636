package usecase

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

type CancelBookingUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	Now         func() time.Time
}

func NewCancelBookingUseCase(leadRepo entity.LeadRepositoryInterface, bookingRepo entity.BookingRepositoryInterface) *CancelBookingUseCase {
	return &CancelBookingUseCase{LeadRepo: leadRepo, BookingRepo: bookingRepo, Now: time.Now}
}

// Execute cancels the booking and moves its lead back to contacted with the
// booking date cleared. No new offer is sent automatically.
func (uc *CancelBookingUseCase) Execute(ctx context.Context, input CancelBookingInput) (*BookingOutput, error) {
	booking, err := uc.BookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, bookingLookupError(err)
	}
	lead, err := uc.LeadRepo.FindByID(ctx, booking.LeadID)
	if err != nil {
		return nil, leadLookupError(err)
	}

	now := uc.Now()
	previousStatus := booking.Status
	if err := booking.MoveTo(entity.BookingCancelled, now); err != nil {
		return nil, transitionError(err)
	}
	expected := lead.Version
	if err := lead.MarkBookingCancelled(now); err != nil {
		booking.Status = previousStatus
		return nil, transitionError(err)
	}

	txn := NewTransaction()
	txn.AddStep("cancel_booking",
		func(ctx context.Context) error { return uc.BookingRepo.UpdateStatus(ctx, booking.ID, entity.BookingCancelled) },
		func(ctx context.Context) error { return uc.BookingRepo.UpdateStatus(ctx, booking.ID, previousStatus) },
	)
	txn.AddStep("revert_lead",
		func(ctx context.Context) error { return uc.LeadRepo.Update(ctx, lead, expected) },
		nil,
	)
	if err := txn.Execute(ctx); err != nil {
		return nil, updateError(err)
	}

	log.WithFields(log.Fields{"booking_id": booking.ID, "lead_id": lead.ID, "reason": input.Reason}).
		Info("🚫 Booking cancelado, lead voltou para contacted")
	return &BookingOutput{Booking: booking, Lead: lead}, nil
}

type UpdateBookingStatusUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	Now         func() time.Time
}

func NewUpdateBookingStatusUseCase(leadRepo entity.LeadRepositoryInterface, bookingRepo entity.BookingRepositoryInterface) *UpdateBookingStatusUseCase {
	return &UpdateBookingStatusUseCase{LeadRepo: leadRepo, BookingRepo: bookingRepo, Now: time.Now}
}

// Execute moves a booking forward (in_progress, completed). Completing the
// booking also applies job_performed to a booked lead.
func (uc *UpdateBookingStatusUseCase) Execute(ctx context.Context, input UpdateBookingStatusInput) (*BookingOutput, error) {
	if input.Status == entity.BookingCancelled {
		return nil, &DomainError{Code: CodeEventNotAllowed, Message: "use o endpoint de cancelamento para cancelar bookings"}
	}
	if input.Status != entity.BookingInProgress && input.Status != entity.BookingCompleted {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: status (must be in_progress or completed)"}
	}

	booking, err := uc.BookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		return nil, bookingLookupError(err)
	}
	now := uc.Now()
	if err := booking.MoveTo(input.Status, now); err != nil {
		return nil, transitionError(err)
	}
	if err := uc.BookingRepo.UpdateStatus(ctx, booking.ID, booking.Status); err != nil {
		return nil, databaseError("falha ao atualizar booking", err)
	}

	out := &BookingOutput{Booking: booking}
	if booking.Status != entity.BookingCompleted {
		return out, nil
	}

	lead, err := uc.LeadRepo.FindByID(ctx, booking.LeadID)
	if err != nil {
		return nil, leadLookupError(err)
	}
	out.Lead = lead
	if lead.Status != entity.StatusBooked {
		return out, nil
	}
	expected := lead.Version
	if err := lead.MarkCompleted(now); err != nil {
		return nil, transitionError(err)
	}
	if err := uc.LeadRepo.Update(ctx, lead, expected); err != nil {
		return nil, updateError(err)
	}
	log.WithFields(log.Fields{"booking_id": booking.ID, "lead_id": lead.ID}).Info("🧹 Serviço concluído")
	return out, nil
}

// externalEvents are the events an operator may fire directly. The others
// belong to the offer, reply and cancellation flows.
var externalEvents = map[entity.Event]bool{
	entity.EventJobPerformed:  true,
	entity.EventInvoiceIssued: true,
}

type TransitionLeadUseCase struct {
	LeadRepo    entity.LeadRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	Now         func() time.Time
}

func NewTransitionLeadUseCase(leadRepo entity.LeadRepositoryInterface, bookingRepo entity.BookingRepositoryInterface) *TransitionLeadUseCase {
	return &TransitionLeadUseCase{LeadRepo: leadRepo, BookingRepo: bookingRepo, Now: time.Now}
}

func (uc *TransitionLeadUseCase) Execute(ctx context.Context, input TransitionLeadInput) (*entity.Lead, error) {
	if !externalEvents[input.Event] {
		return nil, &DomainError{Code: CodeEventNotAllowed, Message: "evento não permitido por esta rota: " + string(input.Event)}
	}
	lead, err := uc.LeadRepo.FindByID(ctx, input.LeadID)
	if err != nil {
		return nil, leadLookupError(err)
	}

	now := uc.Now()
	expected := lead.Version
	if err := lead.Apply(input.Event, now); err != nil {
		return nil, transitionError(err)
	}
	if err := uc.LeadRepo.Update(ctx, lead, expected); err != nil {
		return nil, updateError(err)
	}

	if input.Event == entity.EventJobPerformed {
		uc.completeActiveBooking(ctx, lead.ID, now)
	}

	log.WithFields(log.Fields{"lead_id": lead.ID, "event": input.Event, "status": lead.Status}).Info("🔀 Lead transicionado")
	return lead, nil
}

// completeActiveBooking keeps the booking in step with a lead marked done by hand.
func (uc *TransitionLeadUseCase) completeActiveBooking(ctx context.Context, leadID string, now time.Time) {
	if uc.BookingRepo == nil {
		return
	}
	b, err := uc.BookingRepo.FindActiveByLeadID(ctx, leadID)
	if errors.Is(err, entity.ErrBookingNotFound) {
		return
	}
	if err == nil {
		if err = b.MoveTo(entity.BookingCompleted, now); err == nil {
			err = uc.BookingRepo.UpdateStatus(ctx, b.ID, entity.BookingCompleted)
		}
	}
	if err != nil {
		log.WithFields(log.Fields{"lead_id": leadID, "error": err}).Warn("⚠️ Booking não foi marcado como concluído")
	}
}
