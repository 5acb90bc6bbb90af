// Package gemini extrai leads de anúncios (texto ou imagem) com a API generateContent do Gemini.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/autoleads/internal/entity"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-3-flash-preview"
	defaultMIME    = "image/jpeg"
)

const SystemInstruction = `
You are an expert lead generation assistant. Your job is to extract business details from advertising content (text or images).
1. Identify the 'companyName' (Business name, Facebook page name, or Shop name). If unknown, guess based on context or use 'Boutique'.
2. Identify the 'productName' (The specific item or service being advertised). If unknown, use 'produits'.
3. Extract 'phone' numbers.
   - Strict Rule: Ignore numbers with fewer than 8 digits.
   - Ignore formatting spaces or dashes.
   - Return the number in international format if possible, otherwise keep original.
4. Return a JSON object containing an array of leads.
`

var ErrMissingAPIKey = errors.New("gemini: GEMINI_API_KEY não configurada")

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Extract envia o conteúdo ao modelo e devolve os candidatos sem nenhuma validação.
func (c *Client) Extract(ctx context.Context, req entity.ExtractionRequest) (*entity.ExtractionResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return nil, fmt.Errorf("gemini: marshal request: %w", err)
	}

	// A chave vai no header: erros de transporte carregam a URL e acabam no log.
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var gr generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if gr.Error != nil {
		return nil, fmt.Errorf("gemini: %s (%d)", gr.Error.Message, gr.Error.Code)
	}

	text := responseText(gr)
	if text == "" {
		return &entity.ExtractionResult{Leads: []entity.ExtractionCandidate{}}, nil
	}

	var result entity.ExtractionResult
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &result); err != nil {
		return nil, fmt.Errorf("gemini: parse leads json: %w", err)
	}
	if result.Leads == nil {
		result.Leads = []entity.ExtractionCandidate{}
	}
	return &result, nil
}

func (c *Client) buildRequest(req entity.ExtractionRequest) generateContentRequest {
	parts := make([]part, 0, 2)

	if req.HasImage() {
		mime := req.ImageMIME
		if mime == "" {
			mime = defaultMIME
		}
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(req.Image),
		}})
	}

	prompt := "Analyze this image for business contact info."
	if strings.TrimSpace(req.Text) != "" {
		prompt = fmt.Sprintf("Analyze this text: \"%s\"", req.Text)
	}
	parts = append(parts, part{Text: prompt})

	return generateContentRequest{
		SystemInstruction: &content{Parts: []part{{Text: SystemInstruction}}},
		Contents:          []content{{Role: "user", Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:      0.1,
			ResponseMimeType: "application/json",
			ResponseSchema:   leadsSchema,
		},
	}
}

func responseText(gr generateContentResponse) string {
	if len(gr.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// stripCodeFence remove ```json ... ``` que o modelo às vezes devolve mesmo em modo JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeDataURL aceita "data:image/png;base64,AAAA" ou base64 puro.
// Retorna os bytes e o MIME declarado (vazio quando não houver prefixo).
func DecodeDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", nil
	}

	var mime string
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil, "", errors.New("data url sem conteúdo")
		}
		meta := strings.TrimPrefix(header, "data:")
		mime, _, _ = strings.Cut(meta, ";")
		s = data
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, "", fmt.Errorf("imagem base64 inválida: %w", err)
		}
	}
	return raw, mime, nil
}
