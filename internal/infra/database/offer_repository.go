package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
)

const offerColumns = `id, lead_id, slots, status, accepted_slot, expires_at, created_at, updated_at`

type OfferRepository struct {
	DB *sqlx.DB
}

func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{DB: db}
}

func (r *OfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	query := `
		INSERT INTO offers (` + offerColumns + `)
		VALUES (:id, :lead_id, :slots, :status, :accepted_slot, :expires_at, :created_at, :updated_at)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, offer); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) FindOpenByLeadID(ctx context.Context, leadID string) (*entity.Offer, error) {
	return r.findOne(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE lead_id = $1 AND status = 'open'
		ORDER BY created_at DESC LIMIT 1`, leadID)
}

func (r *OfferRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Offer, error) {
	return r.findOne(ctx, `SELECT `+offerColumns+` FROM offers
		WHERE lead_id = $1
		ORDER BY created_at DESC LIMIT 1`, leadID)
}

// Accept só vence se a oferta ainda estiver aberta; quem chegar depois recebe ErrOfferNotOpen.
func (r *OfferRepository) Accept(ctx context.Context, offerID string, slotIndex int) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE offers SET status = 'accepted', accepted_slot = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'open'
	`, offerID, slotIndex)
	if err != nil {
		return fmt.Errorf("accept offer: %w", err)
	}
	return expectOneRow(res, entity.ErrOfferNotOpen)
}

func (r *OfferRepository) Reopen(ctx context.Context, offerID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE offers SET status = 'open', accepted_slot = 0, updated_at = NOW()
		WHERE id = $1 AND status = 'accepted'
	`, offerID)
	if err != nil {
		return fmt.Errorf("reopen offer: %w", err)
	}
	return nil
}

func (r *OfferRepository) SupersedeOpen(ctx context.Context, leadID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE offers SET status = 'superseded', updated_at = NOW()
		WHERE lead_id = $1 AND status = 'open'
	`, leadID)
	if err != nil {
		return fmt.Errorf("supersede offers: %w", err)
	}
	return nil
}

func (r *OfferRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	rows, err := r.DB.QueryxContext(ctx, `
		UPDATE offers SET status = 'expired', updated_at = NOW()
		WHERE status = 'open' AND expires_at <= $1
		RETURNING id, lead_id
	`, now)
	if err != nil {
		return 0, fmt.Errorf("expire offers: %w", err)
	}
	defer rows.Close()

	var expired int64
	for rows.Next() {
		var offerID, leadID string
		if err := rows.Scan(&offerID, &leadID); err != nil {
			log.WithError(err).Warn("⚠️ Erro ao escanear oferta expirada")
			continue
		}
		log.WithFields(log.Fields{"offer_id": offerID, "lead_id": leadID}).Debug("⏱️ Oferta expirada")
		expired++
	}
	return expired, rows.Err()
}

func (r *OfferRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Offer, error) {
	var offer entity.Offer
	err := r.DB.GetContext(ctx, &offer, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrOfferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select offer: %w", err)
	}
	return &offer, nil
}

func expectOneRow(res sql.Result, none error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return none
	}
	return nil
}
