// Package notify delivers yield alerts.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/fd1az/aura-yield/business/yield/app"
	"github.com/fd1az/aura-yield/business/yield/domain"
	"github.com/fd1az/aura-yield/internal/apperror"
	"github.com/fd1az/aura-yield/internal/httpclient"
	"github.com/fd1az/aura-yield/internal/logger"
)

const (
	tracerName = "github.com/fd1az/aura-yield/business/yield/infra/notify"

	webhookTimeout = 10 * time.Second
	// Discord rejects messages over 2000 characters.
	maxContentLength = 2000
)

// message is the Discord webhook payload.
type message struct {
	Content string `json:"content"`
}

// DiscordNotifier posts alerts to a Discord webhook. Without a URL alerts are
// only logged.
type DiscordNotifier struct {
	client httpclient.Client
	url    string
	prefix string
	logger logger.LoggerInterface
}

var _ app.Notifier = (*DiscordNotifier)(nil)

// NewDiscordNotifier creates a notifier. prefix is prepended to every
// message, usually the service name.
func NewDiscordNotifier(url, prefix string, log logger.LoggerInterface) (*DiscordNotifier, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("discord"),
		httpclient.WithRequestTimeout(webhookTimeout),
		httpclient.WithTracer(otel.Tracer(tracerName), false),
		httpclient.WithHeaders(map[string]string{"Content-Type": "application/json"}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	return &DiscordNotifier{
		client: client,
		url:    url,
		prefix: prefix,
		logger: log,
	}, nil
}

// Notify sends one alert.
func (n *DiscordNotifier) Notify(ctx context.Context, alert domain.Alert) error {
	content := alert.Message()
	if n.prefix != "" {
		content = "[" + n.prefix + "] " + content
	}
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	n.logger.Warn(ctx, "yield alert", "pool", alert.Pool, "reason", string(alert.Reason), "message", content)

	if n.url == "" {
		return nil
	}

	_, err := n.client.NewRequest(
		httpclient.WithLabels(httpclient.NewLabel("endpoint", "webhook")),
		httpclient.WithResponseErrorHandler(func(statusCode int, body []byte) error {
			if statusCode >= http.StatusBadRequest {
				return fmt.Errorf("HTTP %d: %s", statusCode, string(body))
			}
			return nil
		}),
	).
		SetBody(message{Content: content}).
		Post(ctx, n.url)
	if err != nil {
		return apperror.New(apperror.CodeNotifyFailed,
			apperror.WithContext(alert.Pool),
			apperror.WithCause(err))
	}
	return nil
}
