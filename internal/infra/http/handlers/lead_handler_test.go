package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type leadMocks struct {
	email      *MockEmailIntake
	form       *MockFormIntake
	offer      *MockOfferSender
	transition *MockTransitioner
	leads      *MockLeadRepository
	offers     *MockOfferRepository
	bookings   *MockBookingRepository
}

func newLeadRouter(formLimit int) (http.Handler, leadMocks) {
	m := leadMocks{
		email:      new(MockEmailIntake),
		form:       new(MockFormIntake),
		offer:      new(MockOfferSender),
		transition: new(MockTransitioner),
		leads:      new(MockLeadRepository),
		offers:     new(MockOfferRepository),
		bookings:   new(MockBookingRepository),
	}
	h := NewLeadHandler(m.email, m.form, m.offer, m.transition, m.leads, m.offers, m.bookings, formLimit)

	r := chi.NewRouter()
	r.Get("/leads", h.List)
	r.Post("/leads/email", h.ProcessEmail)
	r.Post("/leads/form", h.SubmitForm)
	r.Get("/leads/{id}", h.Get)
	r.Post("/leads/{id}/offer", h.SendOfferAgain)
	r.Post("/leads/{id}/transitions", h.ApplyTransition)
	return r, m
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestProcessEmail_Created(t *testing.T) {
	router, m := newLeadRouter(5)
	lead := &entity.Lead{ID: "lead-1", Source: entity.SourceLeadmail, Status: entity.StatusContacted}
	m.email.On("Execute", mock.Anything, usecase.ProcessLeadEmailInput{Content: "Hej", Source: entity.SourceLeadmail}).
		Return(&usecase.LeadIntakeOutput{Lead: lead, Method: entity.ExtractionHeuristic}, nil)

	rec := do(router, http.MethodPost, "/leads/email", `{"content":"Hej","source":"leadmail"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lead-1"`)
	m.email.AssertExpectations(t)
}

func TestProcessEmail_BadJSON(t *testing.T) {
	router, m := newLeadRouter(5)

	rec := do(router, http.MethodPost, "/leads/email", `{"content":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, usecase.CodeValidation, decodeError(t, rec).Code)
	m.email.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestProcessEmail_TechnicalErrorHidesDetail(t *testing.T) {
	router, m := newLeadRouter(5)
	m.email.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "insert", Err: errors.New("pq: password authentication failed")})

	rec := do(router, http.MethodPost, "/leads/email", `{"content":"Hej","source":"leadmail"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Equal(t, usecase.CodeDatabase, decodeError(t, rec).Code)
}

func TestSubmitForm_RateLimited(t *testing.T) {
	router, m := newLeadRouter(2)
	lead := &entity.Lead{ID: "lead-1", Source: entity.SourceBookingForm}
	m.form.On("Execute", mock.Anything, mock.Anything).
		Return(&usecase.LeadIntakeOutput{Lead: lead, Method: entity.ExtractionForm}, nil)

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, do(router, http.MethodPost, "/leads/form", `{"name":"Ole","phone":"22334455","address":"Gade 1"}`).Code)
	}

	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
	m.form.AssertNumberOfCalls(t, "Execute", 2)
}

func TestSubmitForm_ValidationError(t *testing.T) {
	router, m := newLeadRouter(5)
	m.form.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeValidation, Message: "phone: ugyldigt telefonnummer"})

	rec := do(router, http.MethodPost, "/leads/form", `{"name":"Ole","phone":"1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "phone")
}

func TestListLeads_Filter(t *testing.T) {
	router, m := newLeadRouter(5)
	status := entity.StatusContacted
	m.leads.On("List", mock.Anything, entity.LeadFilter{Status: &status, Limit: 10, Offset: 20}).
		Return([]*entity.Lead{{ID: "a"}, {ID: "b"}}, nil)

	rec := do(router, http.MethodGet, "/leads?status=contacted&limit=10&offset=20", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var leads []entity.Lead
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&leads))
	assert.Len(t, leads, 2)
}

func TestListLeads_InvalidQuery(t *testing.T) {
	router, m := newLeadRouter(5)

	for _, q := range []string{"status=archived", "source=facebook", "limit=0", "limit=500", "offset=-1", "limit=abc"} {
		rec := do(router, http.MethodGet, "/leads?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
	m.leads.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestGetLead_WithOfferAndBooking(t *testing.T) {
	router, m := newLeadRouter(5)
	m.leads.On("FindByID", mock.Anything, "lead-1").Return(&entity.Lead{ID: "lead-1"}, nil)
	m.offers.On("FindLatestByLeadID", mock.Anything, "lead-1").Return(&entity.Offer{ID: "offer-1"}, nil)
	m.bookings.On("FindActiveByLeadID", mock.Anything, "lead-1").Return(nil, entity.ErrBookingNotFound)

	rec := do(router, http.MethodGet, "/leads/lead-1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Lead    map[string]interface{} `json:"lead"`
		Offer   map[string]interface{} `json:"offer"`
		Booking map[string]interface{} `json:"booking"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotNil(t, resp.Offer)
	assert.Nil(t, resp.Booking)
}

func TestGetLead_NotFound(t *testing.T) {
	router, m := newLeadRouter(5)
	m.leads.On("FindByID", mock.Anything, "nope").Return(nil, entity.ErrLeadNotFound)

	rec := do(router, http.MethodGet, "/leads/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, usecase.CodeLeadNotFound, decodeError(t, rec).Code)
}

func TestSendOfferAgain_InvalidTransition(t *testing.T) {
	router, m := newLeadRouter(5)
	m.offer.On("ExecuteByID", mock.Anything, "lead-1").
		Return(nil, &usecase.DomainError{Code: usecase.CodeInvalidTransition, Message: "lead já agendado"})

	rec := do(router, http.MethodPost, "/leads/lead-1/offer", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyTransition(t *testing.T) {
	router, m := newLeadRouter(5)
	m.transition.On("Execute", mock.Anything, usecase.TransitionLeadInput{LeadID: "lead-1", Event: entity.EventInvoiceIssued}).
		Return(&entity.Lead{ID: "lead-1", Status: entity.StatusInvoiced}, nil)

	rec := do(router, http.MethodPost, "/leads/lead-1/transitions", `{"event":"invoice_issued"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"invoiced"`)
}

func TestApplyTransition_VersionConflict(t *testing.T) {
	router, m := newLeadRouter(5)
	m.transition.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.DomainError{Code: usecase.CodeVersionConflict, Message: "lead alterado por outro processo"})

	rec := do(router, http.MethodPost, "/leads/lead-1/transitions", `{"event":"job_performed"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
