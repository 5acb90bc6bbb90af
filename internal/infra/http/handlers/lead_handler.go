package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/autoleads/internal/infra/http/middleware"
	"github.com/xavierca1/autoleads/internal/infra/integration/gemini"
	"github.com/xavierca1/autoleads/internal/usecase"
)

const maxMultipartMemory = 12 << 20

// maxAnalyzeBodyBytes cobre a imagem em base64, o texto com escapes JSON (até 6 bytes por caractere)
// e a folga do envelope multipart ou do prefixo data URL.
var maxAnalyzeBodyBytes = int64(base64.StdEncoding.EncodedLen(usecase.MaxImageBytes)) + int64(usecase.MaxTextLength)*6 + 64<<10

type LeadHandler struct {
	AnalyzeUC   *usecase.AnalyzeContentUseCase
	LeadsUC     *usecase.LeadsUseCase
	ExportUC    *usecase.ExportLeadsUseCase
	OutreachUC  *usecase.OutreachUseCase
	rateLimiter *RateLimiter
	maxBody     int64
}

// NewLeadHandler limita só o /analyze: é o único endpoint que custa chamada ao Gemini.
func NewLeadHandler(
	analyze *usecase.AnalyzeContentUseCase,
	leads *usecase.LeadsUseCase,
	export *usecase.ExportLeadsUseCase,
	outreach *usecase.OutreachUseCase,
	analyzePerMinute int,
) *LeadHandler {
	if analyzePerMinute <= 0 {
		analyzePerMinute = 20
	}
	return &LeadHandler{
		AnalyzeUC:   analyze,
		LeadsUC:     leads,
		ExportUC:    export,
		OutreachUC:  outreach,
		rateLimiter: NewRateLimiter(analyzePerMinute, time.Minute),
		maxBody:     maxAnalyzeBodyBytes,
	}
}

// Close encerra a limpeza periódica do rate limiter.
func (h *LeadHandler) Close() {
	h.rateLimiter.Stop()
}

type AnalyzeRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

// Analyze (POST /analyze) aceita JSON {text, image} ou multipart com os campos text e image.
func (h *LeadHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	input, err := decodeAnalyzeInput(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, usecase.CodeValidation,
				fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit))
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, err.Error())
		return
	}

	output, err := h.AnalyzeUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordAnalysis(output.Status, output.Added, output.Candidates)
	recordWarning("save_leads", output.Warning)
	writeJSON(w, http.StatusOK, output)
}

func decodeAnalyzeInput(r *http.Request) (usecase.AnalyzeContentInput, error) {
	var input usecase.AnalyzeContentInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return input, fmt.Errorf("invalid multipart form: %w", err)
		}
		input.Text = r.FormValue("text")

		file, header, err := r.FormFile("image")
		if errors.Is(err, http.ErrMissingFile) {
			return input, nil
		}
		if err != nil {
			return input, fmt.Errorf("invalid image upload: %w", err)
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, usecase.MaxImageBytes+1))
		if err != nil {
			return input, fmt.Errorf("could not read image: %w", err)
		}
		input.Image = raw
		input.ImageMIME = header.Header.Get("Content-Type")
		return input, nil
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return input, err
		}
		return input, fmt.Errorf("invalid JSON")
	}
	input.Text = req.Text

	image, mime, err := gemini.DecodeDataURL(req.Image)
	if err != nil {
		return input, err
	}
	input.Image = image
	input.ImageMIME = mime
	return input, nil
}

// List (GET /leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.LeadsUC.List())
}

// Delete (DELETE /leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	output, err := h.LeadsUC.Delete(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	if output.Warning != "" {
		recordWarning("delete_lead", output.Warning)
		writeJSON(w, http.StatusOK, output)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV (GET /leads/export.csv)
func (h *LeadHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	csv, err := h.ExportUC.CSV()
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, usecase.ExportFileName))
	w.WriteHeader(http.StatusOK)
	w.Write(csv)
}

// ExportEmail (POST /leads/export/email)
func (h *LeadHandler) ExportEmail(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendExportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, "invalid JSON")
		return
	}

	output, err := h.ExportUC.SendByEmail(input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// WhatsAppLink (GET /leads/{id}/whatsapp)
func (h *LeadHandler) WhatsAppLink(w http.ResponseWriter, r *http.Request) {
	output, err := h.OutreachUC.Prepare(chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// WhatsAppSend (POST /leads/{id}/whatsapp/send)
func (h *LeadHandler) WhatsAppSend(w http.ResponseWriter, r *http.Request) {
	output, err := h.OutreachUC.Send(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// getClientIP usa só o RemoteAddr: o middleware RealIP do chi já aplicou os headers de proxy.
// A porta sai para que conexões novas do mesmo cliente caiam no mesmo balde.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := rl.now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
