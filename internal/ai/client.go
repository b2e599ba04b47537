// Package ai wraps the completion provider boundary. The client makes a
// single attempt per call with a bounded timeout and reports failure through
// the error return; substituting a fallback reply is the caller's decision.
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	"bloom/internal/ai/component"
	"bloom/internal/config"
	"bloom/internal/model/settings"
)

// Params re-exports the per-request sampling parameters
type Params = component.Params

// ParamsFromSettings maps the admin settings document onto completion
// parameters.
func ParamsFromSettings(s *settings.Settings) Params {
	return Params{
		Model:            s.Model,
		Temperature:      s.Temperature,
		MaxTokens:        s.MaxTokens,
		FrequencyPenalty: s.FrequencyPenalty,
		PresencePenalty:  s.PresencePenalty,
		TopP:             s.TopP,
	}
}

// Client is the completion gateway
type Client struct {
	cfg *config.AIConfig
}

// NewClient creates the gateway
func NewClient(cfg *config.AIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		log.Warn().Msg("completion API key not configured, chat replies will fall back")
	}
	return &Client{cfg: cfg}, nil
}

// Complete sends one assembled message list to the provider and returns the
// reply text. The request is bounded by the configured timeout; the caller's
// context is not used for cancellation so a persisted reply survives client
// disconnects.
func (c *Client) Complete(ctx context.Context, params Params, messages []*schema.Message) (string, error) {
	timeout := c.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	chatModel, err := component.NewChatModel(callCtx, c.cfg, params)
	if err != nil {
		return "", err
	}

	resp, err := chatModel.Generate(callCtx, messages)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Content), nil
}

// Close releases gateway resources
func (c *Client) Close() error {
	return nil
}
