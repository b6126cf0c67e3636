package mail

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/infra/integration/sms"
)

type smsClient interface {
	SendMessage(ctx context.Context, input sms.SendMessageInput) (string, error)
}

type SMSSender struct {
	client smsClient
}

func NewSMSSender(client smsClient) *SMSSender {
	return &SMSSender{client: client}
}

func (s *SMSSender) Send(ctx context.Context, phone, text string) error {
	if phone == "" || text == "" {
		log.WithField("phone", phone).Warn("⚠️ SMS: Dados incompletos para envio")
		return errors.New("sms: telefone ou texto vazio")
	}

	_, err := s.client.SendMessage(ctx, sms.SendMessageInput{PhoneNumber: phone, Message: text})
	if err != nil {
		log.WithFields(log.Fields{"phone": phone, "error": err}).Warn("⚠️ SMS: Falha ao enviar")
		return err
	}
	return nil
}
