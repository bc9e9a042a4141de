// Package speech adapts Google Cloud Text-to-Speech v1 to ports.SpeechSynthesizer.
package speech

import (
	"context"
	"fmt"

	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/platform/retry"
	"delivery-tracking-service/internal/ports"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"
)

const audioEncoding = "MP3"

type Config struct {
	APIKey   string
	Endpoint string
	Retry    *retry.Policy
}

type GoogleSynthesizer struct {
	svc   *texttospeech.Service
	retry retry.Policy
}

func NewGoogleSynthesizer(ctx context.Context, cfg Config) (*GoogleSynthesizer, error) {
	var opts []option.ClientOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("speech: new service: %w", err)
	}

	policy := retry.Default
	if cfg.Retry != nil {
		policy = *cfg.Retry
	}
	return &GoogleSynthesizer{svc: svc, retry: policy}, nil
}

// Synthesize returns MP3 audio, base64-encoded as the API delivers it.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, voice ports.Voice) (_ string, err error) {
	defer obs.Time(ctx, "google.texttospeech")(&err)

	if voice.LanguageCode == "" {
		return "", fmt.Errorf("synthesize: language code required: %w", domain.ErrValidation)
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			SsmlGender:   voice.SsmlGender,
		},
		AudioConfig: &texttospeech.AudioConfig{AudioEncoding: audioEncoding},
	}

	var audio string
	err = retry.Do(ctx, g.retry, retry.GoogleAPITransient, func(ctx context.Context) error {
		resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
		if err != nil {
			return err
		}
		if resp.AudioContent == "" {
			return fmt.Errorf("empty audio content: %w", domain.ErrUpstream)
		}
		audio = resp.AudioContent
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}
	return audio, nil
}
