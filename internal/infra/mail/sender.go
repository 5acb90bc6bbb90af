package mail

import (
	"bytes"
	"fmt"
	"io"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"
)

const (
	DefaultFrom    = "nao-responda@autoleads.app"
	ExportFileName = "prospects_autoleads.csv"
)

var exportTemplate = template.Must(template.New("export").Parse(`Bonjour,

Vous trouverez en pièce jointe {{.FileName}} avec {{.Count}} prospect(s).

Export généré le {{.GeneratedAt}}.

AutoLeads
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = DefaultFrom
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Now:      time.Now,
	}
}

func (s *EmailSender) Configured() bool {
	return s != nil && s.Host != ""
}

// BuildLeadsExport monta a mensagem com o CSV anexado, sem enviar.
func (s *EmailSender) BuildLeadsExport(to string, csv []byte, count int) (*gomail.Message, error) {
	data := LeadsExportEmailData{
		Count:       count,
		FileName:    ExportFileName,
		GeneratedAt: s.Now().Format("02/01/2006 15:04"),
	}

	var body bytes.Buffer
	if err := exportTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("AutoLeads : export de %d prospect(s)", count))
	m.SetBody("text/plain", body.String())
	m.Attach(ExportFileName,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(csv)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"text/csv; charset=utf-8"}}),
	)
	return m, nil
}

func (s *EmailSender) SendLeadsExport(to string, csv []byte, count int) error {
	if !s.Configured() {
		return fmt.Errorf("SMTP não configurado")
	}

	m, err := s.BuildLeadsExport(to, csv, count)
	if err != nil {
		return err
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
