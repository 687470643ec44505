package classify

import (
	"context"
	"strings"

	"github.com/juju/errors"
	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/estateflow/orchestrator/types"
	"github.com/estateflow/orchestrator/utils"
)

const DefaultModel = "gpt-4o-mini"

const systemPrompt = `You classify real-estate queries. Respond with a single JSON object:
{"intent": one of [find_listings, price_forecast, legal_verification, builder_reputation, compare_locations, check_freshness],
 "slots": object with any of property_type, max_price_inr (integer), location, radius_km, rera_status, goal, near, preferences, configuration, builder, time_horizon_years,
 "confidence": number between 0 and 1,
 "model_version": string}
Extract only what the query states. Do not invent slot values.`

var _ Classifier = &OpenAIClassifier{}

type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

type ClientConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API host, for proxies and tests.
	BaseURL string
}

func NewOpenAIClassifier(cfg ClientConfig) (*OpenAIClassifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.BadRequestf("OpenAI API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
		log.Warnf("classifier model not set, defaulting to %s", model)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIClassifier{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (o *OpenAIClassifier) Classify(ctx context.Context, query string) (*types.IntentClassification, error) {
	log.Debugf("classifying query via %s", o.model)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})
	if err != nil {
		return nil, errors.Annotatef(err, "intent classification call failed")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Errorf("intent classifier returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	classification := &types.IntentClassification{}
	if err := utils.Unserialize([]byte(content), classification); err != nil {
		return nil, errors.Annotatef(err, "intent classifier returned malformed JSON")
	}
	if classification.Slots == nil {
		classification.Slots = types.Data{}
	}
	if err := classification.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	log.Debugf("classified intent=%s confidence=%.2f model_version=%s",
		classification.Intent, classification.Confidence, classification.ModelVersion)
	return classification, nil
}
