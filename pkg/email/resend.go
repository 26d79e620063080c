package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/dkl25/admin-api/internal/config"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/resendlabs/resend-go"
	"go.uber.org/zap"
)

var notulenFinalizedTemplate = template.Must(template.New("notulen_finalized").Funcs(template.FuncMap{
	"date": func(t time.Time) string { return t.Format("02-01-2006") },
}).Parse(`<h2>Notulen vastgesteld: {{.Titel}}</h2>
<p>Vergadering van {{date .VergaderingDatum}}{{if .Locatie}} te {{.Locatie}}{{end}}.</p>
{{if .AgendaItems}}<h3>Agenda</h3>
<ol>{{range .AgendaItems}}<li><strong>{{.Titel}}</strong>{{if .Details}}: {{.Details}}{{end}}</li>{{end}}</ol>{{end}}
{{if .Besluiten}}<h3>Besluiten</h3>
<ul>{{range .Besluiten}}<li>{{.Besluit}}{{if .Toelichting}} ({{.Toelichting}}){{end}}</li>{{end}}</ul>{{end}}
{{if .Actiepunten}}<h3>Actiepunten</h3>
<ul>{{range .Actiepunten}}<li>{{.Actie}}{{if .Verantwoordelijke}}, {{.Verantwoordelijke}}{{end}}{{if .Deadline}} voor {{.Deadline}}{{end}}</li>{{end}}</ul>{{end}}
<p>Versie {{.Versie}}</p>
`))

// Sender is the part of the Resend client used here.
type Sender interface {
	Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error)
}

// NotulenMailer sends the finalized minutes to a fixed list of recipients.
type NotulenMailer struct {
	sender     Sender
	from       string
	recipients []string
	log        *zap.Logger
}

func NewNotulenMailer(cfg config.EmailConfig, log *zap.Logger) *NotulenMailer {
	client := resend.NewClient(cfg.APIKey)
	return NewNotulenMailerWithSender(client.Emails, cfg, log)
}

func NewNotulenMailerWithSender(sender Sender, cfg config.EmailConfig, log *zap.Logger) *NotulenMailer {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = cfg.FromName + " <" + cfg.FromAddress + ">"
	}
	return &NotulenMailer{
		sender:     sender,
		from:       from,
		recipients: cfg.NotulenRecipients,
		log:        log,
	}
}

func (m *NotulenMailer) NotulenFinalized(ctx context.Context, n *models.Notulen) error {
	if len(m.recipients) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	html, err := renderNotulen(n)
	if err != nil {
		m.log.Error("failed to render notulen mail", zap.String("notulen_id", n.ID), zap.Error(err))
		return err
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      m.recipients,
		Subject: "Notulen vastgesteld: " + n.Titel,
		Html:    html,
	}

	resp, err := m.sender.Send(params)
	if err != nil {
		m.log.Error("failed to send notulen mail", zap.String("notulen_id", n.ID), zap.Error(err))
		return fmt.Errorf("failed to send notulen mail: %w", err)
	}

	m.log.Info("notulen mail sent",
		zap.String("notulen_id", n.ID),
		zap.String("email_id", resp.Id),
		zap.Int("recipients", len(m.recipients)),
	)
	return nil
}

func renderNotulen(n *models.Notulen) (string, error) {
	var body bytes.Buffer
	if err := notulenFinalizedTemplate.Execute(&body, n); err != nil {
		return "", err
	}
	return body.String(), nil
}
