package usecase

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/xavierca1/autoleads/internal/entity"
)

const (
	ExportFileName    = "prospects_autoleads.csv"
	DefaultDateLayout = "02/01/2006"
)

var csvHeader = []string{"ID", "Company", "Product", "Phone", "Date"}

type SendExportInput struct {
	To string `json:"to"`
}

type SendExportOutput struct {
	To    string `json:"to"`
	Count int    `json:"count"`
}

type ExportLeadsUseCase struct {
	Session    *Session
	Mail       EmailService
	DateLayout string
	Location   *time.Location
}

func NewExportLeadsUseCase(session *Session, mail EmailService, dateLayout string, loc *time.Location) *ExportLeadsUseCase {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.Local
	}
	return &ExportLeadsUseCase{Session: session, Mail: mail, DateLayout: dateLayout, Location: loc}
}

func (uc *ExportLeadsUseCase) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLeadsCSV(&buf, uc.Session.Leads(), uc.DateLayout, uc.Location); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (uc *ExportLeadsUseCase) SendByEmail(input SendExportInput) (*SendExportOutput, error) {
	if errs := validateEmail(input.To); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	if uc.Mail == nil {
		return nil, &DomainError{Code: CodeNotConfigured, Message: "email delivery is not configured"}
	}

	count := uc.Session.Count()
	if count == 0 {
		return nil, &DomainError{Code: CodeNoLeads, Message: "there are no leads to export"}
	}

	csv, err := uc.CSV()
	if err != nil {
		return nil, err
	}
	if err := uc.Mail.SendLeadsExport(input.To, csv, count); err != nil {
		log.Printf("❌ [EXPORT] Falha no envio para %s: %v", input.To, err)
		return nil, &TechnicalError{Code: CodeMailError, Message: "could not send the export email, try again", Err: err}
	}

	log.Printf("📧 [EXPORT] %d leads enviados para %s", count, input.To)
	return &SendExportOutput{To: input.To, Count: count}, nil
}

// WriteLeadsCSV escreve o cabeçalho e uma linha por lead. Empresa, produto e telefone
// vão sempre entre aspas para aguentar vírgulas no texto extraído.
func WriteLeadsCSV(w io.Writer, leads []entity.Lead, dateLayout string, loc *time.Location) error {
	lines := make([]string, 0, len(leads)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, l := range leads {
		date := time.UnixMilli(l.Timestamp).In(loc).Format(dateLayout)
		lines = append(lines, strings.Join([]string{
			l.ID,
			quoteField(l.CompanyName),
			quoteField(l.ProductName),
			quoteField(l.Phone),
			date,
		}, ","))
	}

	if _, err := io.WriteString(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("escrever csv: %w", err)
	}
	return nil
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
