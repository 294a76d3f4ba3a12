package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

//go:embed templates/*.html
var templatesFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templatesFS, "templates/new_lead.html"))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		From:   from,
		To:     to,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// NotifyNewLead avisa a caixa comercial sobre um preliminar recém-capturado.
func (s *EmailSender) NotifyNewLead(ctx context.Context, event queue.LeadEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := NewLeadEmailData{
		Name:         event.Name,
		Phone:        event.Phone,
		Email:        event.Email,
		LandingURL:   event.LandingURL,
		LastActivity: event.OccurredAt,
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	subject := fmt.Sprintf("Novo preliminar: %s", event.Phone)
	if event.Name != "" {
		subject = fmt.Sprintf("Novo preliminar: %s (%s)", event.Name, event.Phone)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}
