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

const bookingColumns = `id, lead_id, customer_name, customer_email, customer_phone, service_type,
	address, city, start_at, duration_hours, hourly_rate, total_amount, status,
	calendar_event_id, notes, reminder_sent_at, created_at, updated_at`

const activeBookingIndex = "idx_bookings_active_lead"

type BookingRepository struct {
	DB *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func (r *BookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (:id, :lead_id, :customer_name, :customer_email, :customer_phone, :service_type,
			:address, :city, :start_at, :duration_hours, :hourly_rate, :total_amount, :status,
			:calendar_event_id, :notes, :reminder_sent_at, :created_at, :updated_at)
	`

	if _, err := r.DB.NamedExecContext(ctx, query, b); err != nil {
		if isUniqueViolation(err, activeBookingIndex) {
			return entity.ErrActiveBookingExists
		}
		log.WithFields(log.Fields{"booking_id": b.ID, "lead_id": b.LeadID, "error": err}).
			Error("❌ Erro crítico ao inserir booking")
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *BookingRepository) FindActiveByLeadID(ctx context.Context, leadID string) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE lead_id = $1 AND status <> 'cancelled'
		ORDER BY created_at DESC LIMIT 1`, leadID)
}

// ListScheduledBetween returns non-cancelled, unfinished bookings starting in [from, to).
func (r *BookingRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE status IN ('scheduled', 'in_progress') AND start_at >= $1 AND start_at < $2
		ORDER BY start_at`, from, to)
}

func (r *BookingRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE status = 'scheduled' AND reminder_sent_at IS NULL AND start_at >= $1 AND start_at < $2
		ORDER BY start_at`, from, to)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	if err != nil {
		if isUniqueViolation(err, activeBookingIndex) {
			return entity.ErrActiveBookingExists
		}
		return fmt.Errorf("update booking status: %w", err)
	}
	return expectOneRow(res, entity.ErrBookingNotFound)
}

func (r *BookingRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings SET reminder_sent_at = $2, updated_at = NOW() WHERE id = $1
	`, id, at)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return expectOneRow(res, entity.ErrBookingNotFound)
}

func (r *BookingRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Booking, error) {
	var b entity.Booking
	err := r.DB.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...interface{}) ([]*entity.Booking, error) {
	bookings := []*entity.Booking{}
	if err := r.DB.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
