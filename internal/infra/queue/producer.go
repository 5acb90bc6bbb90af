package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xavierca1/autoleads/internal/entity"
)

type LeadAcceptedPayload struct {
	LeadID          string `json:"lead_id"`
	Phone           string `json:"phone"`
	NormalizedPhone string `json:"normalized_phone"`
	CompanyName     string `json:"company_name"`
	ProductName     string `json:"product_name"`
	Timestamp       int64  `json:"timestamp"`
}

func NewLeadAcceptedPayload(l entity.Lead) LeadAcceptedPayload {
	return LeadAcceptedPayload{
		LeadID:          l.ID,
		Phone:           l.Phone,
		NormalizedPhone: l.NormalizedPhone(),
		CompanyName:     l.CompanyName,
		ProductName:     l.ProductName,
		Timestamp:       l.Timestamp,
	}
}

// Publisher é o pedaço do *amqp.Channel que o producer usa.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadAccepted(ctx context.Context, lead entity.Lead) error {
	body, err := json.Marshal(NewLeadAcceptedPayload(lead))
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    lead.ID,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
