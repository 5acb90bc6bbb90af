package mail

import (
	"context"
	"log"

	"github.com/xavierca1/autoleads/internal/infra/integration/whatsapp"
)

// WhatsAppSender adapta o client da Cloud API para o caso de uso de prospecção.
type WhatsAppSender struct {
	client *whatsapp.Client
}

func NewWhatsAppSender(client *whatsapp.Client) *WhatsAppSender {
	return &WhatsAppSender{
		client: client,
	}
}

func (s *WhatsAppSender) SendText(ctx context.Context, phone, body string) (string, error) {
	id, err := s.client.SendText(ctx, whatsapp.SendTextInput{
		PhoneNumber: phone,
		Body:        body,
		PreviewURL:  true,
	})
	if err != nil {
		log.Printf("⚠️ WhatsApp: Falha ao enviar para %s: %v", phone, err)
		return "", err
	}
	return id, nil
}
