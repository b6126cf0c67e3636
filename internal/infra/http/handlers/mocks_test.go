package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type MockEmailIntake struct{ mock.Mock }

func (m *MockEmailIntake) Execute(ctx context.Context, input usecase.ProcessLeadEmailInput) (*usecase.LeadIntakeOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.LeadIntakeOutput)
	return out, args.Error(1)
}

type MockFormIntake struct{ mock.Mock }

func (m *MockFormIntake) Execute(ctx context.Context, input usecase.BookingFormInput) (*usecase.LeadIntakeOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.LeadIntakeOutput)
	return out, args.Error(1)
}

type MockOfferSender struct{ mock.Mock }

func (m *MockOfferSender) ExecuteByID(ctx context.Context, leadID string) (*usecase.SendOfferOutput, error) {
	args := m.Called(ctx, leadID)
	out, _ := args.Get(0).(*usecase.SendOfferOutput)
	return out, args.Error(1)
}

type MockTransitioner struct{ mock.Mock }

func (m *MockTransitioner) Execute(ctx context.Context, input usecase.TransitionLeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*entity.Lead)
	return out, args.Error(1)
}

type MockReplyProcessor struct{ mock.Mock }

func (m *MockReplyProcessor) Execute(ctx context.Context, input usecase.ReplyInput) (*usecase.ReplyOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.ReplyOutput)
	return out, args.Error(1)
}

type MockForgetter struct{ mock.Mock }

func (m *MockForgetter) Forget(ctx context.Context, messageID string) error {
	return m.Called(ctx, messageID).Error(0)
}

type MockReplyPublisher struct{ mock.Mock }

func (m *MockReplyPublisher) PublishReply(ctx context.Context, reply usecase.ReplyInput) error {
	return m.Called(ctx, reply).Error(0)
}

type MockBookingCanceller struct{ mock.Mock }

func (m *MockBookingCanceller) Execute(ctx context.Context, input usecase.CancelBookingInput) (*usecase.BookingOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.BookingOutput)
	return out, args.Error(1)
}

type MockBookingStatusUpdater struct{ mock.Mock }

func (m *MockBookingStatusUpdater) Execute(ctx context.Context, input usecase.UpdateBookingStatusInput) (*usecase.BookingOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.BookingOutput)
	return out, args.Error(1)
}

type MockLeadRepository struct{ mock.Mock }

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*entity.Lead)
	return out, args.Error(1)
}

func (m *MockLeadRepository) FindLatestByContact(ctx context.Context, identifier string) (*entity.Lead, error) {
	args := m.Called(ctx, identifier)
	out, _ := args.Get(0).(*entity.Lead)
	return out, args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	out, _ := args.Get(0).([]*entity.Lead)
	return out, args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, lead *entity.Lead, expectedVersion int) error {
	return m.Called(ctx, lead, expectedVersion).Error(0)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Create(ctx context.Context, offer *entity.Offer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *MockOfferRepository) FindOpenByLeadID(ctx context.Context, leadID string) (*entity.Offer, error) {
	args := m.Called(ctx, leadID)
	out, _ := args.Get(0).(*entity.Offer)
	return out, args.Error(1)
}

func (m *MockOfferRepository) FindLatestByLeadID(ctx context.Context, leadID string) (*entity.Offer, error) {
	args := m.Called(ctx, leadID)
	out, _ := args.Get(0).(*entity.Offer)
	return out, args.Error(1)
}

func (m *MockOfferRepository) Accept(ctx context.Context, offerID string, slotIndex int) error {
	return m.Called(ctx, offerID, slotIndex).Error(0)
}

func (m *MockOfferRepository) Reopen(ctx context.Context, offerID string) error {
	return m.Called(ctx, offerID).Error(0)
}

func (m *MockOfferRepository) SupersedeOpen(ctx context.Context, leadID string) error {
	return m.Called(ctx, leadID).Error(0)
}

func (m *MockOfferRepository) ExpireBefore(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookingRepository struct{ mock.Mock }

func (m *MockBookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*entity.Booking)
	return out, args.Error(1)
}

func (m *MockBookingRepository) FindActiveByLeadID(ctx context.Context, leadID string) (*entity.Booking, error) {
	args := m.Called(ctx, leadID)
	out, _ := args.Get(0).(*entity.Booking)
	return out, args.Error(1)
}

func (m *MockBookingRepository) ListScheduledBetween(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]*entity.Booking)
	return out, args.Error(1)
}

func (m *MockBookingRepository) ListDueForReminder(ctx context.Context, from, to time.Time) ([]*entity.Booking, error) {
	args := m.Called(ctx, from, to)
	out, _ := args.Get(0).([]*entity.Booking)
	return out, args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, status entity.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockBookingRepository) MarkReminderSent(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}
