package mail

import (
	"context"
	"fmt"

	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

// DirectDispatcher entrega na hora, sem fila. O worker da fila q.outbound usa
// ele por baixo, e o main usa direto quando o RabbitMQ não está configurado.
type DirectDispatcher struct {
	Email *EmailSender
	SMS   *SMSSender
}

func NewDirectDispatcher(email *EmailSender, sms *SMSSender) *DirectDispatcher {
	return &DirectDispatcher{Email: email, SMS: sms}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, msg usecase.OutboundMessage) error {
	switch msg.Channel {
	case usecase.ChannelEmail:
		if d.Email == nil {
			return fmt.Errorf("canal email não configurado")
		}
		return d.Email.Send(msg.To, msg.Subject, msg.HTML, msg.Text)
	case usecase.ChannelSMS:
		if d.SMS == nil {
			return fmt.Errorf("canal sms não configurado")
		}
		return d.SMS.Send(ctx, msg.To, msg.Text)
	default:
		return fmt.Errorf("canal desconhecido: %q", msg.Channel)
	}
}
