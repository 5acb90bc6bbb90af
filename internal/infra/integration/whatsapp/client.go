package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

var ErrNotConfigured = errors.New("whatsapp não configurado")

// Client envia mensagens de texto pela WhatsApp Cloud API.
type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	http        *http.Client
}

func NewClient(accessToken, phoneID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.accessToken != "" && c.phoneID != ""
}

// SendText envia o corpo como mensagem de texto livre. Retorna o ID da mensagem.
func (c *Client) SendText(ctx context.Context, input SendTextInput) (string, error) {
	if !c.Configured() {
		log.Println("⚠️ WhatsApp: ACCESS_TOKEN ou PHONE_ID não configurados")
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(textMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               input.PhoneNumber,
		Type:             "text",
		Text: textPayload{
			PreviewURL: input.PreviewURL,
			Body:       input.Body,
		},
	})
	if err != nil {
		return "", fmt.Errorf("whatsapp: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("❌ WhatsApp: Erro ao enviar mensagem: %v", err)
		return "", fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var result SendMessageResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("whatsapp: decode response: %w", err)
		}
	}

	if result.Error != nil {
		log.Printf("❌ WhatsApp: Erro na API: %s (Code: %d)", result.Error.Message, result.Error.Code)
		return "", fmt.Errorf("whatsapp: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ WhatsApp: API retornou status %d: %s", resp.StatusCode, string(respBody))
		return "", fmt.Errorf("whatsapp api error: %d", resp.StatusCode)
	}

	var messageID string
	if len(result.Messages) > 0 {
		messageID = result.Messages[0].ID
	}
	log.Printf("✅ WhatsApp: Mensagem enviada para %s", input.PhoneNumber)
	return messageID, nil
}
