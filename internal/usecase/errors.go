package usecase

import (
	"errors"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeLeadNotFound      = "LEAD_NOT_FOUND"
	CodeBookingNotFound   = "BOOKING_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeBookingConflict   = "BOOKING_CONFLICT"
	CodeVersionConflict   = "VERSION_CONFLICT"
	CodeEventNotAllowed   = "EVENT_NOT_ALLOWED"
	CodeNoSlots           = "NO_SLOTS_AVAILABLE"
	CodeDatabase          = "DATABASE_ERROR"
	CodeDispatch          = "DISPATCH_ERROR"
	CodeCompose           = "COMPOSE_ERROR"
)

// DomainError é erro de regra de negócio: o cliente pode corrigir a requisição.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var d *DomainError
	return errors.As(err, &d)
}

// TechnicalError é falha de infraestrutura (banco, fila, SMTP).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var t *TechnicalError
	return errors.As(err, &t)
}

// ErrConcurrentBookingConflict is returned to the loser of two replies racing
// for the same offer, or when the chosen slot was taken in the meantime.
var ErrConcurrentBookingConflict = &DomainError{
	Code:    CodeBookingConflict,
	Message: "det valgte tidspunkt er ikke længere ledigt",
}

func databaseError(msg string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: msg, Err: err}
}

// leadLookupError keeps "not found" a domain error and everything else technical.
func leadLookupError(err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{Code: CodeLeadNotFound, Message: "lead não encontrado"}
	}
	return databaseError("falha ao buscar lead", err)
}

func bookingLookupError(err error) error {
	if errors.Is(err, entity.ErrBookingNotFound) {
		return &DomainError{Code: CodeBookingNotFound, Message: "booking não encontrado"}
	}
	return databaseError("falha ao buscar booking", err)
}

func transitionError(err error) error {
	var te *entity.InvalidTransitionError
	if errors.As(err, &te) {
		return &DomainError{Code: CodeInvalidTransition, Message: te.Error()}
	}
	var be *entity.InvalidBookingStatusError
	if errors.As(err, &be) {
		return &DomainError{Code: CodeInvalidTransition, Message: be.Error()}
	}
	if errors.Is(err, entity.ErrLeadFrozen) {
		return &DomainError{Code: CodeInvalidTransition, Message: err.Error()}
	}
	return err
}

func updateError(err error) error {
	if errors.Is(err, entity.ErrVersionConflict) {
		return &DomainError{Code: CodeVersionConflict, Message: "lead foi alterado por outra requisição, tente novamente"}
	}
	return databaseError("falha ao salvar lead", err)
}

// isBookingRace reports whether a saga step lost a conditional update.
func isBookingRace(err error) bool {
	return errors.Is(err, entity.ErrOfferNotOpen) ||
		errors.Is(err, entity.ErrVersionConflict) ||
		errors.Is(err, entity.ErrActiveBookingExists)
}
