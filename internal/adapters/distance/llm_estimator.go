package distance

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/platform/retry"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultModel   = "gemini-1.5-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
)

var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// LLMEstimator asks a chat-completions model for the road distance between
// two places. Any OpenAI-compatible endpoint works; Gemini is the default.
type LLMEstimator struct {
	client *openai.Client
	model  string
	retry  retry.Policy
}

type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Retry   *retry.Policy
}

func NewLLMEstimator(cfg LLMConfig) (*LLMEstimator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("llm estimator: API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	policy := retry.Default
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}

	return &LLMEstimator{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		retry:  policy,
	}, nil
}

func (e *LLMEstimator) EstimateDistance(ctx context.Context, origin, destination string) (km float64, err error) {
	defer obs.Time(ctx, "llm.distance.Estimate")(&err)

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: distancePrompt(origin, destination)},
		},
	}

	var reply string
	err = retry.Do(ctx, e.retry, isTransient, func(ctx context.Context) error {
		resp, err := e.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("model returned no choices: %w", domain.ErrUpstream)
		}
		reply = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("estimate distance %q -> %q: %w", origin, destination, err)
	}

	km, err = ParseKilometres(reply)
	if err != nil {
		return 0, fmt.Errorf("estimate distance %q -> %q: %w", origin, destination, err)
	}
	return km, nil
}

func distancePrompt(origin, destination string) string {
	return fmt.Sprintf(
		"What is the distance between %s and %s? Please provide the answer in km. "+
			"Only return the numbers, no text.",
		origin, destination,
	)
}

// ParseKilometres extracts the first number from a model reply such as
// "1,234.5 km" and returns it as kilometres.
func ParseKilometres(reply string) (float64, error) {
	match := numberPattern.FindString(reply)
	if match == "" {
		return 0, fmt.Errorf("no distance in reply %q: %w", reply, domain.ErrUpstream)
	}

	km, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("parse distance %q: %w", match, domain.ErrUpstream)
	}
	return km, nil
}

func isTransient(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retry.TransientStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retry.TransientStatus(reqErr.HTTPStatusCode)
	}
	return retry.IsNetworkError(err)
}
