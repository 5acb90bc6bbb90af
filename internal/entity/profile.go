package entity

import (
	"errors"
	"strings"
)

type Civility string

const (
	CivilityMonsieur Civility = "Monsieur"
	CivilityMadame   Civility = "Madame"
	CivilityNone     Civility = ""
)

var ErrInvalidCivility = errors.New("civility must be Monsieur, Madame or empty")

// UserProfile assina as mensagens de prospecção. Campos vazios são válidos.
type UserProfile struct {
	Civility Civility `json:"civility"`
	Name     string   `json:"name"`
}

func NewUserProfile(civility, name string) (*UserProfile, error) {
	p := &UserProfile{
		Civility: Civility(strings.TrimSpace(civility)),
		Name:     strings.TrimSpace(name),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p UserProfile) Validate() error {
	switch p.Civility {
	case CivilityMonsieur, CivilityMadame, CivilityNone:
		return nil
	}
	return ErrInvalidCivility
}

// IsConfigured indica se o usuário já informou o nome.
func (p UserProfile) IsConfigured() bool {
	return p.Name != ""
}
