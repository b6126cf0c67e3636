package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/infra/http/middleware"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type EmailIntake interface {
	Execute(ctx context.Context, input usecase.ProcessLeadEmailInput) (*usecase.LeadIntakeOutput, error)
}

type FormIntake interface {
	Execute(ctx context.Context, input usecase.BookingFormInput) (*usecase.LeadIntakeOutput, error)
}

type OfferSender interface {
	ExecuteByID(ctx context.Context, leadID string) (*usecase.SendOfferOutput, error)
}

type LeadTransitioner interface {
	Execute(ctx context.Context, input usecase.TransitionLeadInput) (*entity.Lead, error)
}

type LeadHandler struct {
	EmailIntake EmailIntake
	FormIntake  FormIntake
	SendOffer   OfferSender
	Transition  LeadTransitioner
	LeadRepo    entity.LeadRepositoryInterface
	OfferRepo   entity.OfferRepositoryInterface
	BookingRepo entity.BookingRepositoryInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(
	emailIntake EmailIntake,
	formIntake FormIntake,
	sendOffer OfferSender,
	transition LeadTransitioner,
	leadRepo entity.LeadRepositoryInterface,
	offerRepo entity.OfferRepositoryInterface,
	bookingRepo entity.BookingRepositoryInterface,
	formRateLimit int,
) *LeadHandler {
	return &LeadHandler{
		EmailIntake: emailIntake,
		FormIntake:  formIntake,
		SendOffer:   sendOffer,
		Transition:  transition,
		LeadRepo:    leadRepo,
		OfferRepo:   offerRepo,
		BookingRepo: bookingRepo,
		rateLimiter: NewRateLimiter(formRateLimit, time.Minute), // por IP
	}
}

type LeadDetailResponse struct {
	Lead    *entity.Lead    `json:"lead"`
	Offer   *entity.Offer   `json:"offer,omitempty"`
	Booking *entity.Booking `json:"booking,omitempty"`
}

type TransitionRequest struct {
	Event entity.Event `json:"event"`
}

// ProcessEmail (POST /leads/email)
func (h *LeadHandler) ProcessEmail(w http.ResponseWriter, r *http.Request) {
	var input usecase.ProcessLeadEmailInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.EmailIntake.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	recordIntake(out)
	writeJSON(w, http.StatusCreated, out)
}

// SubmitForm (POST /leads/form). Formulário público do site, com rate limit.
func (h *LeadHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		log.WithField("ip", clientIP).Warn("⚠️ Rate limit do formulário atingido")
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "For mange forespørgsler. Prøv igen om lidt.")
		return
	}

	var input usecase.BookingFormInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.FormIntake.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	recordIntake(out)
	writeJSON(w, http.StatusCreated, out)
}

// List (GET /leads?status=&source=&limit=&offset=)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLeadFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
		return
	}

	leads, err := h.LeadRepo.List(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// Get (GET /leads/{id}) devolve o lead com a última oferta e o booking ativo.
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	lead, err := h.LeadRepo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, usecase.CodeLeadNotFound, "lead não encontrado")
		return
	}
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	resp := LeadDetailResponse{Lead: lead}

	offer, err := h.OfferRepo.FindLatestByLeadID(ctx, id)
	switch {
	case err == nil:
		resp.Offer = offer
	case !errors.Is(err, entity.ErrOfferNotFound):
		writeUseCaseError(w, r, err)
		return
	}

	booking, err := h.BookingRepo.FindActiveByLeadID(ctx, id)
	switch {
	case err == nil:
		resp.Booking = booking
	case !errors.Is(err, entity.ErrBookingNotFound):
		writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SendOfferAgain (POST /leads/{id}/offer)
func (h *LeadHandler) SendOfferAgain(w http.ResponseWriter, r *http.Request) {
	out, err := h.SendOffer.ExecuteByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if out.Delivered {
		middleware.RecordOfferSent()
	}
	writeJSON(w, http.StatusOK, out)
}

// ApplyTransition (POST /leads/{id}/transitions)
func (h *LeadHandler) ApplyTransition(w http.ResponseWriter, r *http.Request) {
	var req TransitionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.Transition.Execute(r.Context(), usecase.TransitionLeadInput{
		LeadID: chi.URLParam(r, "id"),
		Event:  req.Event,
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func recordIntake(out *usecase.LeadIntakeOutput) {
	middleware.RecordLeadReceived(string(out.Lead.Source), string(out.Method))
	if out.Offer != nil && out.Offer.Delivered {
		middleware.RecordOfferSent()
	}
}

func parseLeadFilter(r *http.Request) (entity.LeadFilter, error) {
	q := r.URL.Query()
	var filter entity.LeadFilter

	if v := q.Get("status"); v != "" {
		status := entity.Status(v)
		if !status.Valid() {
			return filter, errors.New("status inválido: " + v)
		}
		filter.Status = &status
	}
	if v := q.Get("source"); v != "" {
		source := entity.Source(v)
		if !source.Valid() {
			return filter, errors.New("source inválido: " + v)
		}
		filter.Source = &source
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return filter, errors.New("limit deve estar entre 1 e 200")
		}
		filter.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, errors.New("offset inválido")
		}
		filter.Offset = n
	}
	return filter, nil
}
