package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var ErrNotConfigured = errors.New("sms não configurado")

// Client fala com um gateway SMS HTTP/JSON com token Bearer.
type Client struct {
	apiURL     string
	token      string
	sender     string
	httpClient *http.Client
}

func NewClient(apiURL, token, sender string) *Client {
	return &Client{
		apiURL:     apiURL,
		token:      token,
		sender:     sender,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiURL != "" && c.token != ""
}

func (c *Client) SendMessage(ctx context.Context, input SendMessageInput) (string, error) {
	if !c.Configured() {
		log.Warn("⚠️ SMS: SMS_API_URL ou SMS_API_TOKEN não configurados")
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(sendRequest{
		Sender:     c.sender,
		Recipients: []string{NormalizeDanishNumber(input.PhoneNumber)},
		Message:    input.Message,
	})
	if err != nil {
		return "", fmt.Errorf("sms: erro ao serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("❌ SMS: Erro ao enviar mensagem")
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		log.WithFields(log.Fields{"status": resp.StatusCode, "body": string(respBody)}).Error("❌ SMS: API retornou erro")
		return "", fmt.Errorf("sms api error: %d", resp.StatusCode)
	}

	var result SendMessageResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return "", fmt.Errorf("sms: erro ao parsear resposta: %w", err)
		}
	}
	if result.Error != nil {
		return "", fmt.Errorf("sms: %s", result.Error.Message)
	}

	log.WithField("to", input.PhoneNumber).Info("✅ SMS: Mensagem enviada")
	return result.ID, nil
}

// NormalizeDanishNumber deixa o número no formato +45XXXXXXXX quando ele tem 8 dígitos.
func NormalizeDanishNumber(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 8:
		return "+45" + d
	case len(d) == 10 && strings.HasPrefix(d, "45"):
		return "+" + d
	case len(d) == 12 && strings.HasPrefix(d, "0045"):
		return "+" + d[2:]
	}
	return strings.TrimSpace(phone)
}
