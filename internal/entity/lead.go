package entity

import (
	"context"
	"errors"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead é um contato comercial aceito. Timestamp em milissegundos Unix.
type Lead struct {
	ID          string `json:"id"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	ProductName string `json:"productName"`
	Timestamp   int64  `json:"timestamp"`
}

// NormalizedPhone devolve só os dígitos do telefone, usado como identidade do lead.
func (l Lead) NormalizedPhone() string {
	return NormalizePhone(l.Phone)
}

type LeadRepositoryInterface interface {
	LoadLeads(ctx context.Context) ([]Lead, error)
	SaveLeads(ctx context.Context, leads []Lead) error
	LoadProfile(ctx context.Context) (*UserProfile, error)
	SaveProfile(ctx context.Context, profile UserProfile) error
}
