package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier avisa a equipe no Telegram quando um lead precisa de atendimento humano.
type Notifier struct {
	bot    sender
	chatID int64
}

func NewNotifier(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: falha ao autenticar bot: %w", err)
	}
	log.WithField("bot", bot.Self.UserName).Info("🤖 Telegram autorizado")
	return &Notifier{bot: bot, chatID: chatID}, nil
}

func (n *Notifier) Escalate(ctx context.Context, e usecase.Escalation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, escalationText(e))
	msg.DisableWebPagePreview = true

	if _, err := n.bot.Send(msg); err != nil {
		log.WithFields(log.Fields{"lead_id": e.LeadID, "error": err}).Error("❌ Telegram: falha ao enviar alerta")
		return fmt.Errorf("telegram: %w", err)
	}
	return nil
}

var reasonLabels = map[string]string{
	"not_a_choice":       "Svaret er ikke et tidspunkt (1-3)",
	"out_of_range":       "Valgt nummer findes ikke",
	"lead_not_contacted": "Lead venter ikke på svar",
	"no_open_offer":      "Ingen åbent tilbud",
	"offer_expired":      "Tilbuddet er udløbet",
	"unknown_sender":     "Ukendt afsender",
	"booking_conflict":   "Tidspunktet blev taget af en anden booking",
	"no_contact":         "Ingen brugbar email eller telefon",
}

func escalationText(e usecase.Escalation) string {
	reason := e.Reason
	if label, ok := reasonLabels[e.Reason]; ok {
		reason = label
	}

	var b strings.Builder
	b.WriteString("🔔 Kræver manuel opfølgning\n")
	fmt.Fprintf(&b, "Årsag: %s\n", reason)
	if e.LeadID != "" {
		fmt.Fprintf(&b, "Lead: %s\n", e.LeadID)
	}
	if e.From != "" {
		fmt.Fprintf(&b, "Fra: %s\n", e.From)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, "Besked:\n%s", truncate(e.Text, 500))
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
