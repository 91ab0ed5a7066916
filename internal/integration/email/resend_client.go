package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/myeconomy/backend/internal/application/adapter"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

// Substrings of Resend errors that retrying cannot fix.
var permanentErrorPatterns = []string{
	"401", "403", "422",
	"unauthorized", "forbidden", "validation", "invalid", "bad request",
}

// ResendClient sends emails through the Resend API.
type ResendClient struct {
	client *resend.Client
	from   string
}

// NewResendClient creates a new Resend client. An empty baseURL keeps the
// public Resend endpoint.
func NewResendClient(apiKey, fromName, fromEmail, baseURL string) (*ResendClient, error) {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid resend base url: %w", err)
		}
		client.BaseURL = parsed
	}

	return &ResendClient{
		client: client,
		from:   formatSender(fromName, fromEmail),
	}, nil
}

// Send sends an email via Resend. Failures are EmailErrors coded as
// permanent or temporary so the worker knows whether to retry.
func (c *ResendClient) Send(ctx context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{input.To},
		Subject: input.Subject,
		Html:    input.HTML,
		Text:    input.Text,
	})
	if err != nil {
		return nil, classifySendError(err)
	}

	return &adapter.SendEmailResult{ResendID: resp.Id}, nil
}

func formatSender(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

func classifySendError(err error) error {
	message := strings.ToLower(err.Error())
	for _, pattern := range permanentErrorPatterns {
		if strings.Contains(message, pattern) {
			return domainerror.NewEmailError(domainerror.ErrCodePermanentEmailFailure, "permanent email failure", err)
		}
	}
	return domainerror.NewEmailError(domainerror.ErrCodeTemporaryEmailFailure, "temporary email failure", err)
}

// LogSender stands in for Resend when no API key is configured. It logs the
// envelope, never the body, and reports the email as delivered.
type LogSender struct{}

// Send implements adapter.EmailSender.
func (LogSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	slog.Info("Email delivery skipped, no provider configured", "recipient", input.To, "subject", input.Subject)
	return &adapter.SendEmailResult{ResendID: "log-" + input.To}, nil
}

var (
	_ adapter.EmailSender = (*ResendClient)(nil)
	_ adapter.EmailSender = LogSender{}
)
