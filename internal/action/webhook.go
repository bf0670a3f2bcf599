package action

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/oshokin/alarm-agent/internal/config"
	"github.com/oshokin/alarm-agent/internal/placeholder"
)

// errWebhookURLRequired rejects webhook actions without a URL.
var errWebhookURLRequired = errors.New("'url' cannot be empty")

// webhookBackend delivers the rendered body via a single HTTP request.
// The per-trigger deadline is carried by the request context, so no
// client-level timeout is configured.
type webhookBackend struct {
	url     string
	method  string
	headers map[string]string
	body    string
	client  *http.Client
}

func newWebhookBackend(cfg *config.Action) (*webhookBackend, error) {
	if cfg.URL == "" {
		return nil, errWebhookURLRequired
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodPost
	}

	return &webhookBackend{
		url:     cfg.URL,
		method:  method,
		headers: cfg.Headers,
		body:    cfg.Body,
		client:  &http.Client{},
	}, nil
}

// Trigger sends the request and treats any non-2xx response as a failure.
func (b *webhookBackend) Trigger(ctx context.Context, placeholders placeholder.Map) error {
	body := placeholder.Resolve(b.body, placeholders)

	req, err := http.NewRequestWithContext(ctx, b.method, b.url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}

	for key, value := range b.headers {
		req.Header.Set(key, placeholder.Resolve(value, placeholders))
	}

	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook responded with status '%s'", resp.Status)
	}

	return nil
}
