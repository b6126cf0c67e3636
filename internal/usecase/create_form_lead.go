package usecase

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/extraction"
)

// CreateFormLeadUseCase handles the public booking form. The fields arrive
// structured, so no extraction runs; only missing hours and service type are
// estimated from the free-text notes.
type CreateFormLeadUseCase struct {
	LeadRepo     entity.LeadRepositoryInterface
	SendOffer    *SendOfferUseCase
	HourlyRate   float64
	DefaultHours float64
	Now          func() time.Time
}

func NewCreateFormLeadUseCase(
	leadRepo entity.LeadRepositoryInterface,
	sendOffer *SendOfferUseCase,
	hourlyRate, defaultHours float64,
) *CreateFormLeadUseCase {
	return &CreateFormLeadUseCase{
		LeadRepo:     leadRepo,
		SendOffer:    sendOffer,
		HourlyRate:   hourlyRate,
		DefaultHours: defaultHours,
		Now:          time.Now,
	}
}

func (uc *CreateFormLeadUseCase) Execute(ctx context.Context, input BookingFormInput) (*LeadIntakeOutput, error) {
	if errs := ValidateBookingForm(input); len(errs) > 0 {
		return nil, &DomainError{Code: CodeValidation, Message: validationMessage(errs)}
	}

	var defaulted []string
	hours := input.EstimatedHours
	if hours <= 0 {
		hours = extraction.EstimateHours(input.ServiceType+" "+input.Notes, uc.DefaultHours)
		defaulted = append(defaulted, "estimatedHours")
	}
	service := strings.TrimSpace(input.ServiceType)
	if service == "" {
		service = extraction.DetectServiceType(input.Notes)
		defaulted = append(defaulted, "serviceType")
	}

	lead, err := entity.NewLead(entity.SourceBookingForm, hours, uc.HourlyRate, uc.Now())
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	lead.CustomerName = strings.TrimSpace(input.Name)
	lead.CustomerEmail = orPlaceholder(input.Email, extraction.PlaceholderEmail)
	lead.CustomerPhone = orPlaceholder(input.Phone, extraction.PlaceholderPhone)
	lead.Address = strings.TrimSpace(input.Address)
	lead.PostalCode = strings.TrimSpace(input.PostalCode)
	lead.City = orPlaceholder(input.City, extraction.PlaceholderCity)
	lead.ServiceType = service
	lead.Priority = extraction.DetectPriority(input.Notes)
	lead.Notes = strings.TrimSpace(input.Notes)
	lead.ExtractionMethod = entity.ExtractionForm

	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, databaseError("falha ao salvar lead", err)
	}
	log.WithFields(log.Fields{"lead_id": lead.ID, "source": lead.Source}).Info("📥 Lead recebido pelo formulário")

	out := &LeadIntakeOutput{Lead: lead, Method: entity.ExtractionForm, Defaulted: defaulted}
	sendOfferAfterIntake(ctx, uc.SendOffer, out)
	return out, nil
}

func orPlaceholder(v, placeholder string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return placeholder
}
