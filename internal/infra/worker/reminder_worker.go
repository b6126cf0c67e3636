package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type ReminderSender interface {
	Execute(ctx context.Context) (*usecase.RemindersOutput, error)
}

type ReminderWorker struct {
	sender       ReminderSender
	tickInterval time.Duration
}

func NewReminderWorker(sender ReminderSender, tickInterval time.Duration) *ReminderWorker {
	if tickInterval <= 0 {
		tickInterval = 15 * time.Minute
	}
	return &ReminderWorker{sender: sender, tickInterval: tickInterval}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	log.WithField("interval", w.tickInterval).Info("⏰ Reminder Worker iniciado")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sendReminders(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("⚠️ Reminder Worker encerrado")
			return
		case <-ticker.C:
			w.sendReminders(ctx)
		}
	}
}

func (w *ReminderWorker) sendReminders(ctx context.Context) {
	out, err := w.sender.Execute(ctx)
	if err != nil {
		log.WithError(err).Error("❌ Erro ao enviar lembretes")
		return
	}
	if out.Due > 0 {
		log.WithFields(log.Fields{"due": out.Due, "sent": out.Sent, "failed": out.Failed}).Info("📨 Lembretes processados")
	}
}
