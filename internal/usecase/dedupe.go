package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/autoleads/internal/entity"
)

type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// Deduplicator filtra os candidatos do gateway usando o telefone normalizado como identidade.
type Deduplicator struct {
	IDs IDGenerator
	Now func() time.Time
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{IDs: UUIDGenerator{}, Now: time.Now}
}

// Dedupe devolve, na ordem de entrada, os candidatos com telefone válido que não existem
// em existing nem apareceram antes no mesmo lote. Não altera nenhuma das entradas.
func (d *Deduplicator) Dedupe(existing []entity.Lead, candidates []entity.ExtractionCandidate) []entity.Lead {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, l := range existing {
		seen[l.NormalizedPhone()] = struct{}{}
	}

	now := d.Now().UnixMilli()
	accepted := make([]entity.Lead, 0, len(candidates))

	for _, c := range candidates {
		phone := entity.NormalizePhone(c.Phone)
		if !entity.IsValidPhone(phone) {
			continue
		}
		if _, dup := seen[phone]; dup {
			continue
		}
		seen[phone] = struct{}{}

		accepted = append(accepted, entity.Lead{
			ID:          d.IDs.NewID(),
			Phone:       c.Phone,
			CompanyName: c.CompanyName,
			ProductName: c.ProductName,
			Timestamp:   now,
		})
	}

	return accepted
}
