package usecase

import (
	"context"
	"net/mail"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/extraction"
)

type ProcessLeadEmailUseCase struct {
	LeadRepo   entity.LeadRepositoryInterface
	Extractor  LeadExtractor
	SendOffer  *SendOfferUseCase
	HourlyRate float64
	Now        func() time.Time
}

func NewProcessLeadEmailUseCase(
	leadRepo entity.LeadRepositoryInterface,
	extractor LeadExtractor,
	sendOffer *SendOfferUseCase,
	hourlyRate float64,
) *ProcessLeadEmailUseCase {
	return &ProcessLeadEmailUseCase{
		LeadRepo:   leadRepo,
		Extractor:  extractor,
		SendOffer:  sendOffer,
		HourlyRate: hourlyRate,
		Now:        time.Now,
	}
}

func (uc *ProcessLeadEmailUseCase) Execute(ctx context.Context, input ProcessLeadEmailInput) (*LeadIntakeOutput, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: content (is required)"}
	}
	if input.Source == entity.SourceBookingForm || !input.Source.Valid() {
		return nil, &DomainError{Code: CodeValidation, Message: "validation failed: source (must be leadpoint or leadmail)"}
	}

	draft := uc.Extractor.Extract(ctx, input.Content, input.Source)

	// Nothing is persisted if the caller gave up while extraction ran.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if draft.CustomerEmail == extraction.PlaceholderEmail {
		if addr, err := mail.ParseAddress(input.Sender); err == nil {
			draft.CustomerEmail = addr.Address
		}
	}

	lead, err := leadFromDraft(draft, input.Content, uc.HourlyRate, uc.Now())
	if err != nil {
		return nil, &DomainError{Code: CodeValidation, Message: err.Error()}
	}
	if err := uc.LeadRepo.Create(ctx, lead); err != nil {
		return nil, databaseError("falha ao salvar lead", err)
	}

	log.WithFields(log.Fields{
		"lead_id":        lead.ID,
		"source":         lead.Source,
		"method":         draft.Method,
		"low_confidence": draft.LowConfidence,
	}).Info("📥 Lead recebido por email")

	out := &LeadIntakeOutput{Lead: lead, Method: draft.Method, Defaulted: draft.Defaulted}
	sendOfferAfterIntake(ctx, uc.SendOffer, out)
	return out, nil
}

func leadFromDraft(d *extraction.LeadDraft, raw string, hourlyRate float64, now time.Time) (*entity.Lead, error) {
	lead, err := entity.NewLead(d.Source, d.EstimatedHours, hourlyRate, now)
	if err != nil {
		return nil, err
	}
	lead.CustomerName = d.CustomerName
	lead.CustomerEmail = d.CustomerEmail
	lead.CustomerPhone = d.CustomerPhone
	lead.ServiceType = d.ServiceType
	lead.Address = d.Address
	lead.City = d.City
	lead.PostalCode = d.PostalCode
	lead.Priority = d.Priority
	lead.Notes = d.Notes
	lead.AIAnalysis = d.Analysis
	lead.EmailContent = raw
	lead.ExtractionMethod = d.Method
	lead.LowConfidence = d.LowConfidence
	return lead, nil
}

// sendOfferAfterIntake never fails the intake: the lead is already stored and
// an operator can re-send the offer later.
func sendOfferAfterIntake(ctx context.Context, sendOffer *SendOfferUseCase, out *LeadIntakeOutput) {
	if sendOffer == nil {
		return
	}
	offer, err := sendOffer.Execute(ctx, out.Lead)
	if err != nil {
		log.WithFields(log.Fields{"lead_id": out.Lead.ID, "error": err}).
			Warn("⚠️ Lead salvo, mas oferta não foi enviada")
		out.OfferError = err.Error()
		return
	}
	out.Offer = offer
}
