package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/xavierca1/autoleads/internal/entity"
)

// Session é a cópia em memória dos dois registros persistidos. Toda mutação passa pelo
// lock e é gravada logo em seguida; se a gravação falhar a mutação continua valendo em memória.
type Session struct {
	mu      sync.Mutex
	repo    entity.LeadRepositoryInterface
	leads   []entity.Lead
	profile entity.UserProfile
	hasProf bool
}

func NewSession(repo entity.LeadRepositoryInterface) *Session {
	return &Session{repo: repo, leads: []entity.Lead{}}
}

// Load lê o store. Chamado uma vez na subida.
func (s *Session) Load(ctx context.Context) error {
	leads, err := s.repo.LoadLeads(ctx)
	if err != nil {
		return err
	}
	profile, err := s.repo.LoadProfile(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if leads == nil {
		leads = []entity.Lead{}
	}
	s.leads = leads
	if profile != nil {
		s.profile = *profile
		s.hasProf = true
	}
	log.Printf("📂 Sessão carregada: %d leads, perfil configurado=%v", len(s.leads), s.profile.IsConfigured())
	return nil
}

func (s *Session) Leads() []entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leads)
}

func (s *Session) FindLead(id string) (entity.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.leads {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lead{}, false
}

func (s *Session) Profile() entity.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// HasSavedProfile é falso até o primeiro save do perfil.
func (s *Session) HasSavedProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasProf
}

// Accept deduplica os candidatos contra o conteúdo atual e coloca os aceitos no topo.
// O erro retornado, quando houver, é sempre *PersistenceError: os leads já estão na sessão.
func (s *Session) Accept(ctx context.Context, candidates []entity.ExtractionCandidate, d *Deduplicator) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := d.Dedupe(s.leads, candidates)
	if len(accepted) == 0 {
		return accepted, nil
	}

	merged := make([]entity.Lead, 0, len(accepted)+len(s.leads))
	merged = append(merged, accepted...)
	merged = append(merged, s.leads...)
	s.leads = merged

	return accepted, s.persistLeads(ctx)
}

func (s *Session) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, l := range s.leads {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return entity.ErrLeadNotFound
	}

	remaining := make([]entity.Lead, 0, len(s.leads)-1)
	remaining = append(remaining, s.leads[:idx]...)
	remaining = append(remaining, s.leads[idx+1:]...)
	s.leads = remaining

	return s.persistLeads(ctx)
}

func (s *Session) SetProfile(ctx context.Context, p entity.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = p
	s.hasProf = true

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		log.Printf("⚠️ Perfil não persistido: %v", err)
		return &PersistenceError{Record: "profile", Err: err}
	}
	return nil
}

func (s *Session) persistLeads(ctx context.Context) error {
	snapshot := make([]entity.Lead, len(s.leads))
	copy(snapshot, s.leads)

	if err := s.repo.SaveLeads(ctx, snapshot); err != nil {
		log.Printf("⚠️ Leads não persistidos (%d em memória): %v", len(snapshot), err)
		return &PersistenceError{Record: "leads", Err: err}
	}
	return nil
}
