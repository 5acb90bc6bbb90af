package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/autoleads/internal/infra/http/middleware"
	"github.com/xavierca1/autoleads/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ Erro ao escrever resposta: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError traduz os erros dos casos de uso para status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, domainStatus(de.Code), de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		middleware.RecordIntegrationError(integrationFor(te.Code))
		writeErrorResponse(w, http.StatusBadGateway, te.Code, te.Message)
		return
	}

	log.Printf("❌ Erro inesperado: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error")
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeLeadNotFound:
		return http.StatusNotFound
	case usecase.CodeAnalysisInProgress:
		return http.StatusConflict
	case usecase.CodeNoLeads:
		return http.StatusUnprocessableEntity
	case usecase.CodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func integrationFor(code string) string {
	switch code {
	case usecase.CodeGatewayError:
		return "gemini"
	case usecase.CodeMailError:
		return "smtp"
	case usecase.CodeWhatsAppError:
		return "whatsapp"
	default:
		return "unknown"
	}
}

// recordWarning conta falhas de persistência que o caso de uso transformou em aviso.
func recordWarning(operation, warning string) {
	if warning != "" {
		middleware.RecordPersistenceFailure(operation)
	}
}
