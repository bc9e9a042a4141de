// Package translation adapts Google Cloud Translation v2 to ports.Translator.
package translation

import (
	"context"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/platform/retry"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

type Config struct {
	// Empty means application default credentials.
	APIKey string
	// Overrides the service endpoint; used by tests.
	Endpoint string
	Retry    *retry.Policy
}

type GoogleTranslator struct {
	svc   *translate.Service
	retry retry.Policy
}

func NewGoogleTranslator(ctx context.Context, cfg Config) (*GoogleTranslator, error) {
	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("translation: new service: %w", err)
	}

	policy := retry.Default
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}
	return &GoogleTranslator{svc: svc, retry: policy}, nil
}

func (g *GoogleTranslator) Translate(ctx context.Context, text, targetLanguage string) (_ string, err error) {
	defer obs.Time(ctx, "google.translate")(&err)

	if targetLanguage == "" {
		return "", fmt.Errorf("translate: target language required: %w", domain.ErrValidation)
	}

	var out string
	err = retry.Do(ctx, g.retry, retry.GoogleAPITransient, func(ctx context.Context) error {
		resp, err := g.svc.Translations.List([]string{text}, targetLanguage).
			Format("text").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Translations) == 0 {
			return fmt.Errorf("empty translation response: %w", domain.ErrUpstream)
		}
		out = resp.Translations[0].TranslatedText
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("translate to %q: %w", targetLanguage, err)
	}
	return out, nil
}
