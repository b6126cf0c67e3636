package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/rendetalje-leads/internal/infra/queue"
	"github.com/xavierca1/rendetalje-leads/internal/usecase"
)

const signatureHeader = "X-Webhook-Signature"

type ReplyProcessor interface {
	Execute(ctx context.Context, input usecase.ReplyInput) (*usecase.ReplyOutput, error)
}

type ReplyForgetter interface {
	Forget(ctx context.Context, messageID string) error
}

// ReplyPublisher joga a resposta na fila q.replies para nova tentativa.
type ReplyPublisher interface {
	PublishReply(ctx context.Context, reply usecase.ReplyInput) error
}

// ReplyHandler recebe respostas de clientes (SMS gateway, email inbound).
type ReplyHandler struct {
	Replies   ReplyProcessor
	Forgetter ReplyForgetter
	Retry     ReplyPublisher
	secret    []byte
}

func NewReplyHandler(replies ReplyProcessor, forgetter ReplyForgetter, secret string) *ReplyHandler {
	return &ReplyHandler{Replies: replies, Forgetter: forgetter, secret: []byte(secret)}
}

// WithRetryQueue faz falhas técnicas irem para a fila em vez de devolver 500.
func (h *ReplyHandler) WithRetryQueue(p ReplyPublisher) *ReplyHandler {
	h.Retry = p
	return h
}

// Handle (POST /webhooks/replies)
func (h *ReplyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "corpo ilegível")
		return
	}

	if !h.validSignature(body, r.Header.Get(signatureHeader)) {
		log.WithField("ip", getClientIP(r)).Warn("🚨 Webhook de resposta com assinatura inválida")
		writeError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "assinatura inválida")
		return
	}

	var input usecase.ReplyInput
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, usecase.CodeValidation, "JSON inválido: "+err.Error())
		return
	}

	out, err := h.Replies.Execute(r.Context(), input)
	queue.RecordReplyMetrics(out, err)
	if err != nil {
		if usecase.IsTechnicalError(err) && h.Forgetter != nil && input.MessageID != "" {
			// a reentrega não pode cair no dedupe
			if ferr := h.Forgetter.Forget(r.Context(), input.MessageID); ferr != nil {
				log.WithError(ferr).Warn("⚠️ Não foi possível liberar o id da resposta")
			}
		}
		if usecase.IsTechnicalError(err) && h.Retry != nil {
			if perr := h.Retry.PublishReply(r.Context(), input); perr == nil {
				log.WithError(err).Warn("⚠️ Resposta enfileirada para nova tentativa")
				writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
				return
			}
		}
		writeUseCaseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// validSignature confere HMAC-SHA256(secret, body) em hex. Sem secret configurado, aceita tudo.
func (h *ReplyHandler) validSignature(body []byte, signature string) bool {
	if len(h.secret) == 0 {
		return true
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
