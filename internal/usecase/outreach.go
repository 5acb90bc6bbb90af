package usecase

import (
	"context"
	"log"

	"github.com/xavierca1/autoleads/internal/infra/integration/whatsapp"
)

type OutreachOutput struct {
	LeadID    string `json:"lead_id"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Link      string `json:"link"`
	MessageID string `json:"message_id,omitempty"`
}

// OutreachUseCase prepara (e opcionalmente envia) a mensagem de prospecção de um lead.
type OutreachUseCase struct {
	Session  *Session
	WhatsApp WhatsAppService
}

func NewOutreachUseCase(session *Session, wa WhatsAppService) *OutreachUseCase {
	return &OutreachUseCase{Session: session, WhatsApp: wa}
}

func (uc *OutreachUseCase) Prepare(leadID string) (*OutreachOutput, error) {
	lead, ok := uc.Session.FindLead(leadID)
	if !ok {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found: " + leadID}
	}
	profile := uc.Session.Profile()

	return &OutreachOutput{
		LeadID:  lead.ID,
		Phone:   lead.NormalizedPhone(),
		Message: whatsapp.ComposeMessage(lead, profile),
		Link:    whatsapp.BuildLink(lead, profile),
	}, nil
}

func (uc *OutreachUseCase) Send(ctx context.Context, leadID string) (*OutreachOutput, error) {
	out, err := uc.Prepare(leadID)
	if err != nil {
		return nil, err
	}
	if uc.WhatsApp == nil {
		return nil, &DomainError{Code: CodeNotConfigured, Message: "WhatsApp Cloud API is not configured, use the link instead"}
	}

	id, err := uc.WhatsApp.SendText(ctx, out.Phone, out.Message)
	if err != nil {
		log.Printf("❌ [OUTREACH] Falha no envio para o lead %s: %v", leadID, err)
		return nil, &TechnicalError{Code: CodeWhatsAppError, Message: "could not send the WhatsApp message, try again", Err: err}
	}
	out.MessageID = id
	return out, nil
}
