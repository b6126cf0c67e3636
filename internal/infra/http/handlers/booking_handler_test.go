package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

func newBookingRouter() (http.Handler, *MockBookingCanceller, *MockBookingStatusUpdater) {
	cancel, update := new(MockBookingCanceller), new(MockBookingStatusUpdater)
	h := NewBookingHandler(cancel, update)

	r := chi.NewRouter()
	r.Post("/bookings/{id}/cancel", h.HandleCancel)
	r.Patch("/bookings/{id}/status", h.HandleUpdateStatus)
	return r, cancel, update
}

func TestCancelBooking_WithoutBody(t *testing.T) {
	router, cancel, _ := newBookingRouter()
	cancel.On("Execute", mock.Anything, usecase.CancelBookingInput{BookingID: "b-1"}).
		Return(&usecase.BookingOutput{
			Booking: &entity.Booking{ID: "b-1", Status: entity.BookingCancelled},
			Lead:    &entity.Lead{ID: "lead-1", Status: entity.StatusContacted},
		}, nil)

	rec := do(router, http.MethodPost, "/bookings/b-1/cancel", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cancelled"`)
	cancel.AssertExpectations(t)
}

func TestCancelBooking_WithReason(t *testing.T) {
	router, cancel, _ := newBookingRouter()
	cancel.On("Execute", mock.Anything, usecase.CancelBookingInput{BookingID: "b-1", Reason: "syg"}).
		Return(&usecase.BookingOutput{Booking: &entity.Booking{ID: "b-1"}}, nil)

	rec := do(router, http.MethodPost, "/bookings/b-1/cancel", `{"reason":"syg"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	cancel.AssertExpectations(t)
}

func TestCancelBooking_NotFound(t *testing.T) {
	router, cancel, _ := newBookingRouter()
	cancel.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeBookingNotFound, Message: "booking não encontrado"})

	rec := do(router, http.MethodPost, "/bookings/nope/cancel", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	router, _, update := newBookingRouter()
	update.On("Execute", mock.Anything, usecase.UpdateBookingStatusInput{BookingID: "b-1", Status: entity.BookingCompleted}).
		Return(&usecase.BookingOutput{Booking: &entity.Booking{ID: "b-1", Status: entity.BookingCompleted}}, nil)

	rec := do(router, http.MethodPatch, "/bookings/b-1/status", `{"status":"completed"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	update.AssertExpectations(t)
}

func TestUpdateBookingStatus_NotAllowed(t *testing.T) {
	router, _, update := newBookingRouter()
	update.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeEventNotAllowed, Message: "use /cancel"})

	rec := do(router, http.MethodPatch, "/bookings/b-1/status", `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
