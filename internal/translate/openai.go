package translate

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/MuazAshraf/ppt-translator/internal/types"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

const openaiSystemPrompt = "You are a professional translator. Translate the " +
	"user's text into the requested language. Preserve meaning, tone and any " +
	"placeholders exactly. Reply with the translation only, no explanations."

// openaiTranslator drives an OpenAI-compatible chat model through eino.
type openaiTranslator struct {
	chatModel model.BaseChatModel
	modelName string
}

// NewOpenAI creates a translator backed by an OpenAI-compatible chat
// completion endpoint. An empty baseURL uses the official API; an empty
// model falls back to DefaultOpenAIModel.
func NewOpenAI(ctx context.Context, apiKey, baseURL, modelName string) (Service, error) {
	if apiKey == "" {
		return nil, types.NewAppError(types.ErrConfig, "openai provider requires an API key", nil)
	}
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}

	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, types.NewAppError(types.ErrConfig, "failed to initialize openai chat model", err)
	}

	return &openaiTranslator{chatModel: cm, modelName: modelName}, nil
}

func (o *openaiTranslator) Name() string { return ProviderOpenAI }

func (o *openaiTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if isBlank(text) {
		return text, nil
	}

	out, err := o.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(openaiSystemPrompt),
		schema.UserMessage(fmt.Sprintf("Translate into %s:\n\n%s", targetLang, text)),
	})
	if err != nil {
		return "", types.NewAppError(types.ErrAPICall, "openai translation request failed", err)
	}
	if out == nil || out.Content == "" {
		return "", types.NewAppError(types.ErrAPICall, "openai returned an empty translation", nil)
	}
	return out.Content, nil
}
