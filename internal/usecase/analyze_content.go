package usecase

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/xavierca1/autoleads/internal/entity"
)

const (
	StatusLeadsAdded = "LEADS_ADDED"
	StatusNoNewLeads = "NO_NEW_LEADS"

	gatewayFailureMessage = "Unable to analyze the content. Check the API key or try again."
)

type AnalyzeContentInput struct {
	Text      string
	Image     []byte
	ImageMIME string
}

type AnalyzeContentOutput struct {
	Status     string        `json:"status"`
	Leads      []entity.Lead `json:"leads"`
	Added      int           `json:"added"`
	Candidates int           `json:"candidates"`
	Msg        string        `json:"msg"`
	Warning    string        `json:"warning,omitempty"`
}

type AnalyzeContentUseCase struct {
	Session   *Session
	Gateway   ExtractionGateway
	Dedupe    *Deduplicator
	Sanitizer ContentSanitizer
	Events    LeadEventPublisher

	busy atomic.Bool
}

func NewAnalyzeContentUseCase(
	session *Session,
	gateway ExtractionGateway,
	dedupe *Deduplicator,
	sanitizer ContentSanitizer,
	events LeadEventPublisher,
) *AnalyzeContentUseCase {
	if dedupe == nil {
		dedupe = NewDeduplicator()
	}
	return &AnalyzeContentUseCase{
		Session:   session,
		Gateway:   gateway,
		Dedupe:    dedupe,
		Sanitizer: sanitizer,
		Events:    events,
	}
}

// Busy indica se há uma análise em andamento.
func (uc *AnalyzeContentUseCase) Busy() bool {
	return uc.busy.Load()
}

func (uc *AnalyzeContentUseCase) Execute(ctx context.Context, input AnalyzeContentInput) (*AnalyzeContentOutput, error) {
	if errs := ValidateAnalyzeContentInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	// A limpeza de HTML pode zerar o texto; o gateway nunca recebe conteúdo vazio.
	req, errs := uc.buildRequest(input)
	if len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	// Uma análise por vez, como o botão desabilitado da versão web.
	if !uc.busy.CompareAndSwap(false, true) {
		return nil, &DomainError{
			Code:    CodeAnalysisInProgress,
			Message: "an analysis is already running, wait for it to finish",
		}
	}
	defer uc.busy.Store(false)

	result, err := uc.Gateway.Extract(ctx, req)
	if err != nil {
		log.Printf("❌ [ANALYZE] Erro na extração: %v", err)
		return nil, &TechnicalError{
			Code:    CodeGatewayError,
			Message: gatewayFailureMessage,
			Err:     err,
		}
	}

	var candidates []entity.ExtractionCandidate
	if result != nil {
		candidates = result.Leads
	}

	accepted, err := uc.Session.Accept(ctx, candidates, uc.Dedupe)
	warning := warningFor(err)

	output := &AnalyzeContentOutput{
		Leads:      accepted,
		Added:      len(accepted),
		Candidates: len(candidates),
		Warning:    warning,
	}

	if len(accepted) == 0 {
		output.Status = StatusNoNewLeads
		output.Msg = "No new phone number found, or all numbers already exist."
		log.Printf("ℹ️ [ANALYZE] %d candidatos, nenhum novo", len(candidates))
		return output, nil
	}

	output.Status = StatusLeadsAdded
	output.Msg = "New leads added."
	log.Printf("✅ [ANALYZE] %d/%d candidatos aceitos", len(accepted), len(candidates))

	uc.publish(ctx, accepted)
	return output, nil
}

func (uc *AnalyzeContentUseCase) buildRequest(input AnalyzeContentInput) (entity.ExtractionRequest, []ValidationError) {
	req := entity.ExtractionRequest{}

	if len(input.Image) > 0 {
		mime, ok := imageMIME(input.Image, input.ImageMIME)
		if !ok {
			return req, []ValidationError{{"image", "must be an image"}}
		}
		req.Image = input.Image
		req.ImageMIME = mime
	}

	text := strings.TrimSpace(input.Text)
	if text != "" && uc.Sanitizer != nil {
		text = strings.TrimSpace(uc.Sanitizer.PlainText(text))
	}
	req.Text = text

	if req.Text == "" && !req.HasImage() {
		return req, []ValidationError{{"content", "text or image is required"}}
	}
	return req, nil
}

// Falha de publicação não desfaz o lead: a fila é só para integrações.
func (uc *AnalyzeContentUseCase) publish(ctx context.Context, leads []entity.Lead) {
	if uc.Events == nil {
		return
	}
	for _, l := range leads {
		if err := uc.Events.PublishLeadAccepted(ctx, l); err != nil {
			log.Printf("⚠️ [ANALYZE] Evento do lead %s não publicado: %v", l.ID, err)
		}
	}
}

// imageMIME confia no MIME declarado quando é image/*; senão olha os bytes.
// Sem MIME declarado e sem assinatura conhecida, assume image/jpeg.
func imageMIME(image []byte, declared string) (string, bool) {
	if strings.HasPrefix(declared, "image/") {
		return declared, true
	}
	if sniffed := http.DetectContentType(image); strings.HasPrefix(sniffed, "image/") {
		return sniffed, true
	}
	if declared == "" {
		return "image/jpeg", true
	}
	return "", false
}
