package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/resend/resend-go/v3"
)

// provider sends one payload over one external channel and returns the
// provider's response text.
type provider interface {
	name() string
	send(ctx context.Context, payload Payload) (string, error)
}

type webhookProvider struct {
	url    string
	client *http.Client
}

func newWebhookProvider(url string) *webhookProvider {
	return &webhookProvider{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *webhookProvider) name() string { return "webhook" }

func (p *webhookProvider) send(ctx context.Context, payload Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return string(respBody), fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return string(respBody), nil
}

// resendProvider handles the email channel directly through Resend when
// an API key is configured, so email delivery does not depend on the
// generic webhook endpoint.
type resendProvider struct {
	client *resend.Client
	from   string
}

func newResendProvider(apiKey, from string) *resendProvider {
	return &resendProvider{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (p *resendProvider) name() string { return "resend" }

func (p *resendProvider) send(ctx context.Context, payload Payload) (string, error) {
	if payload.Email == "" {
		return "", errors.New("recipient has no email address")
	}

	text := payload.Message
	if payload.Link != "" {
		text += "\n\n" + payload.Link
	}

	params := &resend.SendEmailRequest{
		From:    p.from,
		To:      []string{payload.Email},
		Subject: payload.Title,
		Text:    text,
	}

	sent, err := p.client.Emails.Send(params)
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
