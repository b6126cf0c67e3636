package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) Execute(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockReminderSender struct {
	mock.Mock
}

func (m *MockReminderSender) Execute(ctx context.Context) (*usecase.RemindersOutput, error) {
	args := m.Called()
	out, _ := args.Get(0).(*usecase.RemindersOutput)
	return out, args.Error(1)
}

func TestOfferExpirationWorker_RunsImmediatelyAndStops(t *testing.T) {
	expirer := new(MockExpirer)
	ctx, cancel := context.WithCancel(context.Background())
	expirer.On("Execute").Return(int64(2), nil).Run(func(mock.Arguments) { cancel() })

	done := make(chan struct{})
	go func() {
		NewOfferExpirationWorker(expirer, time.Hour).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
	expirer.AssertNumberOfCalls(t, "Execute", 1)
}

func TestOfferExpirationWorker_ErrorDoesNotStopLoop(t *testing.T) {
	expirer := new(MockExpirer)
	expirer.On("Execute").Return(int64(0), errors.New("db down"))

	NewOfferExpirationWorker(expirer, time.Hour).expireOffers(context.Background())

	expirer.AssertExpectations(t)
}

func TestReminderWorker_TicksUntilCancelled(t *testing.T) {
	sender := new(MockReminderSender)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	sender.On("Execute").Return(&usecase.RemindersOutput{Due: 1, Sent: 1}, nil).Run(func(mock.Arguments) {
		calls++
		if calls == 2 {
			cancel()
		}
	})

	done := make(chan struct{})
	go func() {
		NewReminderWorker(sender, 10*time.Millisecond).Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancel")
	}
	assert.GreaterOrEqual(t, calls, 2)
}

func TestNewReminderWorker_DefaultInterval(t *testing.T) {
	assert.Equal(t, 15*time.Minute, NewReminderWorker(nil, 0).tickInterval)
}
