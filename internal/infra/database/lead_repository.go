package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xavierca1/autoleads/internal/entity"
)

// Chaves herdadas da versão web, para que um export do localStorage possa ser importado como está.
const (
	ProfileKey = "autoLeads_profile"
	LeadsKey   = "autoLeads_data"
)

type LeadRepository struct {
	Store Store
}

func NewLeadRepository(store Store) *LeadRepository {
	return &LeadRepository{Store: store}
}

func (r *LeadRepository) LoadLeads(ctx context.Context) ([]entity.Lead, error) {
	raw, err := r.Store.Load(ctx, LeadsKey)
	if err != nil {
		return nil, err
	}
	leads := []entity.Lead{}
	if len(raw) == 0 {
		return leads, nil
	}
	if err := json.Unmarshal(raw, &leads); err != nil {
		return nil, fmt.Errorf("leads corrompidos em %s: %w", LeadsKey, err)
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	return leads, nil
}

func (r *LeadRepository) SaveLeads(ctx context.Context, leads []entity.Lead) error {
	if leads == nil {
		leads = []entity.Lead{}
	}
	raw, err := json.Marshal(leads)
	if err != nil {
		return err
	}
	return r.Store.Save(ctx, LeadsKey, raw)
}

// LoadProfile devolve nil quando o usuário nunca salvou um perfil.
func (r *LeadRepository) LoadProfile(ctx context.Context) (*entity.UserProfile, error) {
	raw, err := r.Store.Load(ctx, ProfileKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var p entity.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("perfil corrompido em %s: %w", ProfileKey, err)
	}
	return &p, nil
}

func (r *LeadRepository) SaveProfile(ctx context.Context, profile entity.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.Store.Save(ctx, ProfileKey, raw)
}
