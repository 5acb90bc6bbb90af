package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// CRMClient recebe os leads aceitos (Kommo, por exemplo).
type CRMClient interface {
	SyncLead(ctx context.Context, payload LeadAcceptedPayload) (int, error)
}

type Worker struct {
	Channel *amqp.Channel
	CRM     CRMClient
}

func NewWorker(ch *amqp.Channel, crm CRMClient) *Worker {
	return &Worker{Channel: ch, CRM: crm}
}

// Start consome a fila até o ctx ser cancelado ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"autoleads-crm", // consumer
		false,           // auto-ack (manual é mais seguro)
		false,           // exclusive
		false,           // no-local
		false,           // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] Encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				log.Println("⚠️ [WORKER] Canal de entregas fechado")
				return nil
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadAcceptedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Printf("❌ [WORKER] JSON Inválido: %s", err)
		// Mensagem malformada: rejeita sem requeue para não travar a fila.
		d.Nack(false, false)
		return
	}

	log.Printf("⚙️ [WORKER] Sincronizando lead %s (%s)", payload.LeadID, payload.CompanyName)

	crmID, err := w.CRM.SyncLead(ctx, payload)
	if err != nil {
		log.Printf("❌ [WORKER] Erro na integração: %s", err)
		// Sem requeue: a mensagem vai para a DLQ e pode ser reprocessada à mão.
		d.Nack(false, false)
		return
	}

	log.Printf("✅ [WORKER] Lead %s sincronizado no CRM (#%d)", payload.LeadID, crmID)
	d.Ack(false)
}
