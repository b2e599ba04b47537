package component

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"bloom/internal/config"
)

// Params are the per-request sampling parameters. They come from the admin
// settings document, not from static config, so the model is constructed per
// request.
type Params struct {
	Model            string
	Temperature      float64
	MaxTokens        *int
	FrequencyPenalty float64
	PresencePenalty  float64
	TopP             float64
}

// NewChatModel creates an OpenAI-compatible ChatModel with the given
// sampling parameters. BaseURL covers proxies and compatible APIs.
func NewChatModel(ctx context.Context, cfg *config.AIConfig, p Params) (model.ChatModel, error) {
	modelName := p.Model
	if modelName == "" {
		modelName = cfg.Model
	}

	modelCfg := &openai.ChatModelConfig{
		Model:  modelName,
		APIKey: cfg.APIKey,
	}

	if cfg.BaseURL != "" {
		modelCfg.BaseURL = cfg.BaseURL
	}

	temp := float32(p.Temperature)
	modelCfg.Temperature = &temp

	topP := float32(p.TopP)
	modelCfg.TopP = &topP

	if p.MaxTokens != nil && *p.MaxTokens > 0 {
		modelCfg.MaxTokens = p.MaxTokens
	}
	if p.FrequencyPenalty != 0 {
		fp := float32(p.FrequencyPenalty)
		modelCfg.FrequencyPenalty = &fp
	}
	if p.PresencePenalty != 0 {
		pp := float32(p.PresencePenalty)
		modelCfg.PresencePenalty = &pp
	}

	return openai.NewChatModel(ctx, modelCfg)
}
