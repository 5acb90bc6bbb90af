package usecase

import (
	"context"

	"github.com/xavierca1/autoleads/internal/entity"
)

type ExtractionGateway interface {
	Extract(ctx context.Context, req entity.ExtractionRequest) (*entity.ExtractionResult, error)
}

// ContentSanitizer limpa o texto colado (HTML de página, por exemplo) antes da extração.
type ContentSanitizer interface {
	PlainText(s string) string
}

type LeadEventPublisher interface {
	PublishLeadAccepted(ctx context.Context, lead entity.Lead) error
}

type EmailService interface {
	SendLeadsExport(to string, csv []byte, count int) error
}

type WhatsAppService interface {
	SendText(ctx context.Context, phone, body string) (string, error)
}
