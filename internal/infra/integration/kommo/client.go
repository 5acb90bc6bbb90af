package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/autoleads/internal/infra/queue"
)

const LeadTag = "autoleads"

var (
	ErrNotConfigured   = errors.New("kommo não configurado")
	errContactNotFound = errors.New("contato não encontrado")
)

type Client struct {
	apiToken string
	baseURL  string
	statusID int
	http     *http.Client
}

// NewClient recebe a URL da conta, ex: https://minhaconta.kommo.com/api/v4.
// statusID zero deixa o Kommo usar a etapa inicial do funil.
func NewClient(apiToken, baseURL string, statusID int) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  strings.TrimRight(baseURL, "/"),
		statusID: statusID,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiToken != "" && c.baseURL != ""
}

// SyncLead é o ponto de entrada do worker: um lead aceito vira contato + lead no Kommo.
func (c *Client) SyncLead(ctx context.Context, p queue.LeadAcceptedPayload) (int, error) {
	name := p.CompanyName
	if p.ProductName != "" {
		name = fmt.Sprintf("%s - %s", p.CompanyName, p.ProductName)
	}
	return c.CreateLead(ctx, CreateLeadInput{
		Name:           name,
		ContactName:    p.CompanyName,
		Phone:          p.NormalizedPhone,
		Tags:           []string{LeadTag},
		ExternalLeadID: p.LeadID,
	})
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if !c.Configured() {
		log.Println("⚠️ Kommo: API_TOKEN não configurado")
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("erro ao criar/buscar contato: %w", err)
	}

	tags := make([]map[string]interface{}, 0, len(input.Tags))
	for _, t := range input.Tags {
		tags = append(tags, map[string]interface{}{"name": t})
	}

	lead := map[string]interface{}{
		"name": input.Name,
		"_embedded": map[string]interface{}{
			"tags":     tags,
			"contacts": []map[string]interface{}{{"id": contactID}},
		},
	}
	if c.statusID > 0 {
		lead["status_id"] = c.statusID
	}

	var result embeddedLeads
	if err := c.do(ctx, http.MethodPost, "/leads", []map[string]interface{}{lead}, &result); err != nil {
		return 0, fmt.Errorf("erro ao criar lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, fmt.Errorf("lead não criado")
	}

	leadID := result.Embedded.Leads[0].ID
	log.Printf("✅ Kommo: Lead criado #%d para %s", leadID, input.Name)
	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil && contactID > 0 {
		log.Printf("📱 Kommo: Contato existente encontrado: %d", contactID)
		return contactID, nil
	}
	if err != nil && !errors.Is(err, errContactNotFound) {
		return 0, err
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedContacts
	err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(phone), nil, &result)
	if err != nil {
		return 0, err
	}
	if len(result.Embedded.Contacts) > 0 {
		return result.Embedded.Contacts[0].ID, nil
	}
	return 0, errContactNotFound
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contact := []map[string]interface{}{
		{
			"name": input.ContactName,
			"custom_fields_values": []map[string]interface{}{
				{
					"field_code": "PHONE",
					"values": []map[string]interface{}{
						{"value": input.Phone, "enum_code": "WORK"},
					},
				},
			},
		},
	}

	var result embeddedContacts
	if err := c.do(ctx, http.MethodPost, "/contacts", contact, &result); err != nil {
		return 0, fmt.Errorf("erro ao criar contato: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("erro ao obter ID do contato criado")
	}

	contactID := result.Embedded.Contacts[0].ID
	log.Printf("✅ Kommo: Novo contato criado: %d", contactID)
	return contactID, nil
}

// do envia o request e decodifica a resposta. 204 (busca sem resultado) deixa out vazio.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("status %d - %s", resp.StatusCode, string(respBody))
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
