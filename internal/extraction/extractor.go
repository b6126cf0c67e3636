// Package extraction turns a raw inquiry email into a fully populated LeadDraft.
// The AI path and the keyword heuristics share one entry point, Extract, which
// never fails: an unreachable provider degrades to the heuristic path.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

// DefaultHours is used whenever an estimate is missing or not a positive number.
const DefaultHours = 4.0

const (
	PlaceholderName    = "[Kunde navn]"
	PlaceholderEmail   = "[Email]"
	PlaceholderPhone   = "[Telefon]"
	PlaceholderAddress = "[Adresse]"
	PlaceholderCity    = "[By]"
	EmptyNotes         = "Ingen noter"
)

var ErrNoProvider = errors.New("no extraction provider configured")

// IsPlaceholder reports whether a contact field holds a substituted default
// rather than data supplied by the customer.
func IsPlaceholder(v string) bool {
	switch v {
	case PlaceholderName, PlaceholderEmail, PlaceholderPhone, PlaceholderAddress, PlaceholderCity, "":
		return true
	}
	return false
}

// Provider is any "analyze text, return typed object" service.
type Provider interface {
	ExtractStructured(ctx context.Context, prompt string, schema Schema) (map[string]any, error)
}

// ExtractionError wraps a provider failure. It is carried on the draft, not returned.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("ai extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

type LeadDraft struct {
	CustomerName   string          `json:"customerName"`
	CustomerEmail  string          `json:"customerEmail"`
	CustomerPhone  string          `json:"customerPhone"`
	ServiceType    string          `json:"serviceType"`
	Address        string          `json:"address"`
	City           string          `json:"city"`
	PostalCode     string          `json:"postalCode,omitempty"`
	EstimatedHours float64         `json:"estimatedHours"`
	Priority       entity.Priority `json:"priority"`
	Notes          string          `json:"notes"`
	Analysis       string          `json:"analysis,omitempty"`

	Source        entity.Source           `json:"source"`
	Method        entity.ExtractionMethod `json:"method"`
	LowConfidence bool                    `json:"lowConfidence"`
	// Defaulted lists the fields that received a placeholder or default value.
	Defaulted []string `json:"defaulted,omitempty"`
	Cause     error    `json:"-"`
}

type Extractor struct {
	provider     Provider
	defaultHours float64
}

func NewExtractor(provider Provider, defaultHours float64) *Extractor {
	if defaultHours <= 0 || math.IsNaN(defaultHours) || math.IsInf(defaultHours, 0) {
		defaultHours = DefaultHours
	}
	return &Extractor{provider: provider, defaultHours: defaultHours}
}

func (e *Extractor) Extract(ctx context.Context, raw string, source entity.Source) *LeadDraft {
	var cause error = &ExtractionError{Err: ErrNoProvider}

	if e.provider != nil {
		fields, err := e.provider.ExtractStructured(ctx, BuildPrompt(raw, source), LeadSchema)
		if err == nil {
			draft := e.fromStructured(fields)
			draft.Source = source
			draft.Method = entity.ExtractionAI
			e.applyDefaults(draft, raw)
			return draft
		}
		cause = &ExtractionError{Err: err}
		log.WithFields(log.Fields{"source": source, "error": err}).
			Warn("⚠️ Extração via IA falhou, usando heurística")
	}

	draft := heuristicDraft(raw, e.defaultHours)
	draft.Source = source
	draft.Method = entity.ExtractionHeuristic
	draft.LowConfidence = true
	draft.Cause = cause
	e.applyDefaults(draft, raw)
	return draft
}

func (e *Extractor) fromStructured(fields map[string]any) *LeadDraft {
	d := &LeadDraft{
		CustomerName:  stringField(fields, "customerName"),
		CustomerEmail: stringField(fields, "customerEmail"),
		CustomerPhone: stringField(fields, "customerPhone"),
		ServiceType:   stringField(fields, "serviceType"),
		Address:       stringField(fields, "address"),
		City:          stringField(fields, "city"),
		PostalCode:    stringField(fields, "postalCode"),
		Priority:      entity.Priority(strings.ToLower(stringField(fields, "priority"))),
		Notes:         stringField(fields, "notes"),
		Analysis:      stringField(fields, "analysis"),
	}
	d.EstimatedHours, _ = numberField(fields, "estimatedHours")
	if conf, ok := numberField(fields, "confidence"); ok && conf < 70 {
		d.LowConfidence = true
	}
	return d
}

// applyDefaults guarantees every required field is populated.
func (e *Extractor) applyDefaults(d *LeadDraft, raw string) {
	fill := func(field string, v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
			d.Defaulted = append(d.Defaulted, field)
		}
	}
	fill("customerName", &d.CustomerName, PlaceholderName)
	fill("customerEmail", &d.CustomerEmail, PlaceholderEmail)
	fill("customerPhone", &d.CustomerPhone, PlaceholderPhone)
	fill("address", &d.Address, PlaceholderAddress)
	fill("city", &d.City, PlaceholderCity)
	fill("serviceType", &d.ServiceType, GenericService)

	notes := truncateRunes(strings.TrimSpace(raw), 100)
	if notes == "" {
		notes = EmptyNotes
	}
	fill("notes", &d.Notes, notes)

	if !d.Priority.Valid() {
		d.Priority = entity.PriorityMedium
		d.Defaulted = append(d.Defaulted, "priority")
	}
	if d.EstimatedHours <= 0 || math.IsNaN(d.EstimatedHours) || math.IsInf(d.EstimatedHours, 0) {
		d.EstimatedHours = e.defaultHours
		d.Defaulted = append(d.Defaulted, "estimatedHours")
	}

	if len(d.Defaulted) > 0 {
		log.WithFields(log.Fields{"method": d.Method, "defaulted": d.Defaulted}).
			Info("📝 Lead com campos padrão, precisa revisão manual")
	}
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func numberField(fields map[string]any, key string) (float64, bool) {
	switch v := fields[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(v), ",", ".", 1), 64)
		return f, err == nil
	}
	return 0, false
}
