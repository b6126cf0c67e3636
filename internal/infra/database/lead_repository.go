package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

const leadColumns = `id, customer_name, customer_email, customer_phone, source, service_type,
	address, city, postal_code, estimated_hours, estimated_price, status, priority, notes,
	booking_date, booking_time_slot, email_content, ai_analysis, extraction_method,
	low_confidence, response_sent, version, created_at, updated_at`

// phoneSuffixDigits is the length of a Danish subscriber number; contacts are
// matched on it so "+45 22 33 44 55" and "22334455" resolve to the same lead.
const phoneSuffixDigits = 8

const defaultListLimit = 50

type LeadRepository struct {
	DB *sqlx.DB
}

func NewLeadRepository(db *sqlx.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO leads (` + leadColumns + `)
		VALUES (:id, :customer_name, :customer_email, :customer_phone, :source, :service_type,
			:address, :city, :postal_code, :estimated_hours, :estimated_price, :status, :priority, :notes,
			:booking_date, :booking_time_slot, :email_content, :ai_analysis, :extraction_method,
			:low_confidence, :response_sent, :version, :created_at, :updated_at)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, lead); err != nil {
		log.WithFields(log.Fields{"lead_id": lead.ID, "error": err}).Error("❌ Erro ao inserir lead")
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.DB.GetContext(ctx, &lead, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select lead: %w", err)
	}
	return &lead, nil
}

// FindLatestByContact resolves an inbound reply sender. Leads waiting for an
// answer (contacted) win over everything else, then the most recent one.
func (r *LeadRepository) FindLatestByContact(ctx context.Context, identifier string) (*entity.Lead, error) {
	where, arg := contactPredicate(identifier)
	if where == "" {
		return nil, entity.ErrLeadNotFound
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + where + `
		ORDER BY (status = 'contacted') DESC, updated_at DESC
		LIMIT 1`

	var lead entity.Lead
	err := r.DB.GetContext(ctx, &lead, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select lead by contact: %w", err)
	}
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query, args := buildLeadListQuery(filter)

	leads := []*entity.Lead{}
	if err := r.DB.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// Update grava o lead inteiro se ninguém mexeu nele desde expectedVersion.
func (r *LeadRepository) Update(ctx context.Context, lead *entity.Lead, expectedVersion int) error {
	query := `
		UPDATE leads SET
			customer_name = $3, customer_email = $4, customer_phone = $5, service_type = $6,
			address = $7, city = $8, postal_code = $9, estimated_hours = $10, estimated_price = $11,
			status = $12, priority = $13, notes = $14, booking_date = $15, booking_time_slot = $16,
			ai_analysis = $17, low_confidence = $18, response_sent = $19, updated_at = $20,
			version = version + 1
		WHERE id = $1 AND version = $2
	`

	res, err := r.DB.ExecContext(ctx, query,
		lead.ID, expectedVersion,
		lead.CustomerName, lead.CustomerEmail, lead.CustomerPhone, lead.ServiceType,
		lead.Address, lead.City, lead.PostalCode, lead.EstimatedHours, lead.EstimatedPrice,
		lead.Status, lead.Priority, lead.Notes, lead.BookingDate, lead.BookingTimeSlot,
		lead.AIAnalysis, lead.LowConfidence, lead.ResponseSent, lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if n == 0 {
		log.WithFields(log.Fields{"lead_id": lead.ID, "expected_version": expectedVersion}).
			Warn("⚠️ Conflito de versão ao atualizar lead")
		return entity.ErrVersionConflict
	}

	lead.Version = expectedVersion + 1
	return nil
}

func contactPredicate(identifier string) (string, string) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return `lower(customer_email) = $1`, strings.ToLower(identifier)
	}

	digits := onlyDigits(identifier)
	if len(digits) < phoneSuffixDigits {
		return "", ""
	}
	return `right(regexp_replace(customer_phone, '\D', '', 'g'), 8) = $1`, digits[len(digits)-phoneSuffixDigits:]
}

func buildLeadListQuery(filter entity.LeadFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Source != nil {
		args = append(args, *filter.Source)
		conds = append(conds, fmt.Sprintf("source = $%d", len(args)))
	}

	query := `SELECT ` + leadColumns + ` FROM leads`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return query, args
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
