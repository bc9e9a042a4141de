package ports

import (
	"context"
	"time"
)

// Contract for estimating road distance in kilometres between two places.
type DistanceEstimator interface {
	EstimateDistance(ctx context.Context, origin, destination string) (float64, error)
}

// Persistent cache of distance estimates.
type DistanceCache interface {
	// ok is false on a miss.
	GetDistance(ctx context.Context, origin, destination string) (km float64, ok bool, err error)
	PutDistance(ctx context.Context, origin, destination string, km float64, ttl time.Duration) error
}

// Contract for translating text into a target language code.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// Voice selection for speech synthesis.
type Voice struct {
	LanguageCode string
	SsmlGender   string
}

// Contract for synthesizing speech. Returns base64-encoded MP3 audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice Voice) (string, error)
}
