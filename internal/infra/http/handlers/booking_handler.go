package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type BookingCanceller interface {
	Execute(ctx context.Context, input usecase.CancelBookingInput) (*usecase.BookingOutput, error)
}

type BookingStatusUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateBookingStatusInput) (*usecase.BookingOutput, error)
}

type BookingHandler struct {
	Cancel       BookingCanceller
	UpdateStatus BookingStatusUpdater
}

func NewBookingHandler(cancel BookingCanceller, updateStatus BookingStatusUpdater) *BookingHandler {
	return &BookingHandler{Cancel: cancel, UpdateStatus: updateStatus}
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type UpdateBookingStatusRequest struct {
	Status entity.BookingStatus `json:"status"`
}

// HandleCancel (POST /bookings/{id}/cancel); o corpo é opcional.
func (h *BookingHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	var req CancelBookingRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.Cancel.Execute(r.Context(), usecase.CancelBookingInput{
		BookingID: chi.URLParam(r, "id"),
		Reason:    req.Reason,
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleUpdateStatus (PATCH /bookings/{id}/status)
func (h *BookingHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	out, err := h.UpdateStatus.Execute(r.Context(), usecase.UpdateBookingStatusInput{
		BookingID: chi.URLParam(r, "id"),
		Status:    req.Status,
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
