package gemini

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

	"github.com/xavierca1/rendetalje-leads/internal/extraction"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	ErrNotConfigured = errors.New("gemini: GEMINI_API_KEY não configurada")
	ErrEmptyResponse = errors.New("gemini: resposta sem conteúdo")
)

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL aponta o client para outro host (testes, proxy).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// ExtractStructured pede ao modelo um objeto JSON no formato do schema.
func (c *Client) ExtractStructured(ctx context.Context, prompt string, s extraction.Schema) (map[string]any, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      0.1,
			ResponseMimeType: "application/json",
			ResponseSchema:   toGeminiSchema(s),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: erro na requisição: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		log.WithFields(log.Fields{"status": resp.StatusCode}).Error("❌ Gemini: resposta ilegível")
		return nil, fmt.Errorf("gemini: erro ao parsear resposta (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		if result.Error != nil {
			msg = result.Error.Message
		}
		log.WithFields(log.Fields{"status": resp.StatusCode, "message": msg}).Error("❌ Gemini: API retornou erro")
		return nil, fmt.Errorf("gemini api error %d: %s", resp.StatusCode, msg)
	}

	text := firstText(result)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(stripFence(text)))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("gemini: JSON inválido do modelo: %w", err)
	}

	return fields, nil
}

func firstText(r generateResponse) string {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

// stripFence remove ```json ... ``` que alguns modelos insistem em mandar.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func toGeminiSchema(s extraction.Schema) *schema {
	out := &schema{
		Type:        strings.ToUpper(s.Type),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}
