package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dkl25/admin-api/internal/config"
	"github.com/dkl25/admin-api/pkg/models"
	"github.com/resendlabs/resend-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (s *fakeSender) Send(params *resend.SendEmailRequest) (resend.SendEmailResponse, error) {
	s.sent = append(s.sent, params)
	return resend.SendEmailResponse{Id: "email-1"}, s.err
}

func TestNotulenFinalized(t *testing.T) {
	locatie := "Clubhuis"
	n := &models.Notulen{
		ID: "n1",
		NotulenContent: models.NotulenContent{
			Titel:            "Bestuur <maart>",
			VergaderingDatum: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Locatie:          &locatie,
			Besluiten:        []models.Besluit{{Besluit: "Route vastgesteld"}},
		},
		Versie: 4,
	}
	cfg := config.EmailConfig{FromAddress: "noreply@dkl.nl", FromName: "DKL", NotulenRecipients: []string{"bestuur@dkl.nl"}}

	sender := &fakeSender{}
	m := NewNotulenMailerWithSender(sender, cfg, zap.NewNop())
	require.NoError(t, m.NotulenFinalized(context.Background(), n))

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "DKL <noreply@dkl.nl>", msg.From)
	assert.Equal(t, []string{"bestuur@dkl.nl"}, msg.To)
	assert.Contains(t, msg.Html, "01-03-2024 te Clubhuis")
	assert.Contains(t, msg.Html, "Route vastgesteld")
	assert.Contains(t, msg.Html, "Bestuur &lt;maart&gt;")
	assert.Contains(t, msg.Html, "Versie 4")

	sender.err = errors.New("rate limited")
	assert.Error(t, m.NotulenFinalized(context.Background(), n))

	empty := NewNotulenMailerWithSender(sender, config.EmailConfig{}, zap.NewNop())
	require.NoError(t, empty.NotulenFinalized(context.Background(), n))
	assert.Len(t, sender.sent, 2)
}
