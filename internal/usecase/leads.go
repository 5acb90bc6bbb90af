package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/autoleads/internal/entity"
	"github.com/xavierca1/autoleads/internal/infra/integration/whatsapp"
)

type LeadView struct {
	entity.Lead
	WhatsAppLink string `json:"whatsapp_link"`
}

type ListLeadsOutput struct {
	Count int        `json:"count"`
	Leads []LeadView `json:"leads"`
}

type DeleteLeadOutput struct {
	ID      string `json:"id"`
	Warning string `json:"warning,omitempty"`
}

type LeadsUseCase struct {
	Session *Session
}

func NewLeadsUseCase(session *Session) *LeadsUseCase {
	return &LeadsUseCase{Session: session}
}

// List devolve os leads do mais novo para o mais antigo, cada um com o link do WhatsApp.
func (uc *LeadsUseCase) List() *ListLeadsOutput {
	leads := uc.Session.Leads()
	profile := uc.Session.Profile()

	views := make([]LeadView, 0, len(leads))
	for _, l := range leads {
		views = append(views, LeadView{Lead: l, WhatsAppLink: whatsapp.BuildLink(l, profile)})
	}
	return &ListLeadsOutput{Count: len(views), Leads: views}
}

func (uc *LeadsUseCase) Delete(ctx context.Context, id string) (*DeleteLeadOutput, error) {
	err := uc.Session.Remove(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "lead not found: " + id}
	}
	return &DeleteLeadOutput{ID: id, Warning: warningFor(err)}, nil
}
