package usecase

import (
	"errors"
	"fmt"
)

// Códigos de erro expostos ao cliente HTTP.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeAnalysisInProgress = "ANALYSIS_IN_PROGRESS"
	CodeLeadNotFound       = "LEAD_NOT_FOUND"
	CodeProfileInvalid     = "PROFILE_INVALID"
	CodeNoLeads            = "NO_LEADS"
	CodeNotConfigured      = "NOT_CONFIGURED"

	CodeGatewayError  = "GATEWAY_ERROR"
	CodeMailError     = "MAIL_ERROR"
	CodeWhatsAppError = "WHATSAPP_ERROR"
)

// DomainError é um erro que o usuário consegue corrigir sozinho.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// TechnicalError vem de uma dependência externa; o usuário só pode tentar de novo.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

// PersistenceError indica que a mutação ficou só em memória.
type PersistenceError struct {
	Record string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("falha ao persistir %s: %v", e.Record, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PersistenceWarning é a mensagem mostrada ao usuário quando o store falha.
const PersistenceWarning = "Changes are kept for this session but could not be saved to storage."

func warningFor(err error) string {
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return PersistenceWarning
	}
	return ""
}
