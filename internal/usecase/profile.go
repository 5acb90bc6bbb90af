package usecase

import (
	"context"

	"github.com/xavierca1/autoleads/internal/entity"
)

type ProfileInput struct {
	Civility string `json:"civility"`
	Name     string `json:"name"`
}

type ProfileOutput struct {
	Civility   entity.Civility `json:"civility"`
	Name       string          `json:"name"`
	Configured bool            `json:"configured"`
	Saved      bool            `json:"saved"`
	Warning    string          `json:"warning,omitempty"`
}

type ProfileUseCase struct {
	Session *Session
}

func NewProfileUseCase(session *Session) *ProfileUseCase {
	return &ProfileUseCase{Session: session}
}

func (uc *ProfileUseCase) Get() *ProfileOutput {
	p := uc.Session.Profile()
	return &ProfileOutput{
		Civility:   p.Civility,
		Name:       p.Name,
		Configured: p.IsConfigured(),
		Saved:      uc.Session.HasSavedProfile(),
	}
}

// Save substitui o perfil inteiro.
func (uc *ProfileUseCase) Save(ctx context.Context, input ProfileInput) (*ProfileOutput, error) {
	p, err := entity.NewUserProfile(input.Civility, input.Name)
	if err != nil {
		return nil, &DomainError{Code: CodeProfileInvalid, Message: err.Error()}
	}

	err = uc.Session.SetProfile(ctx, *p)

	out := uc.Get()
	out.Warning = warningFor(err)
	return out, nil
}
