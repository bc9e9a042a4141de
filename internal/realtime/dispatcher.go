package realtime

import (
	"context"
	"encoding/json"
	"time"

	"delivery-tracking-service/internal/platform/logging"
	"delivery-tracking-service/internal/platform/metrics"
	"delivery-tracking-service/internal/ports"
)

const (
	DefaultOrigin  = "Melbourne"
	DefaultTimeout = 15 * time.Second
)

// Dispatcher answers one inbound envelope with one reply. Engine failures and
// timeouts become the exchange's failure sentinel, never an error.
type Dispatcher struct {
	Distance   ports.DistanceEstimator
	Speech     ports.SpeechSynthesizer
	Translator ports.Translator
	Origin     string
	Timeout    time.Duration
}

func (d *Dispatcher) origin() string {
	if d.Origin == "" {
		return DefaultOrigin
	}
	return d.Origin
}

func (d *Dispatcher) timeout() time.Duration {
	if d.Timeout <= 0 {
		return DefaultTimeout
	}
	return d.Timeout
}

func (d *Dispatcher) Handle(ctx context.Context, in Envelope) Envelope {
	switch in.Event {
	case EventCalculateDistance:
		var req DistanceRequest
		if err := json.Unmarshal(in.Data, &req); err != nil {
			return rejected(in.Event, "malformed calculateDistance payload")
		}
		return envelope(EventDistanceResult, d.CalculateDistance(ctx, req))

	case EventTextToSpeech:
		var req SpeechRequest
		if err := json.Unmarshal(in.Data, &req); err != nil {
			return rejected(in.Event, "malformed textToSpeech payload")
		}
		return envelope(EventSpeechResult, d.TextToSpeech(ctx, req))

	case EventTranslateRequest:
		var req TranslateRequest
		if err := json.Unmarshal(in.Data, &req); err != nil {
			return rejected(in.Event, "malformed translateRequest payload")
		}
		return envelope(EventTranslationResult, d.Translate(ctx, req))
	}

	return rejected(in.Event, "unknown event "+quote(in.Event))
}

func (d *Dispatcher) CalculateDistance(ctx context.Context, req DistanceRequest) DistanceResult {
	out := DistanceResult{PackageID: req.PackageID, Distance: DistanceUnavailable, RequestID: req.RequestID}
	if d.Distance == nil || req.Destination == "" {
		observe(EventCalculateDistance, "failed")
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	km, err := d.Distance.EstimateDistance(ctx, d.origin(), req.Destination)
	if err != nil {
		log := logging.WithComponent("realtime")
		log.Warn().
			Err(err).
			Str("package_id", req.PackageID).
			Str("destination", req.Destination).
			Msg("distance estimate failed")
		observe(EventCalculateDistance, "failed")
		return out
	}

	out.Distance = km
	observe(EventCalculateDistance, "ok")
	return out
}

func (d *Dispatcher) TextToSpeech(ctx context.Context, req SpeechRequest) SpeechResult {
	out := SpeechResult{RequestID: req.RequestID}
	if d.Speech == nil {
		out.Error = speechFailed
		observe(EventTextToSpeech, "failed")
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	audio, err := d.Speech.Synthesize(ctx, req.Text, ports.Voice{
		LanguageCode: req.Voice.LanguageCode,
		SsmlGender:   req.Voice.SsmlGender,
	})
	if err != nil {
		log := logging.WithComponent("realtime")
		log.Warn().Err(err).Msg("speech synthesis failed")
		out.Error = speechFailed
		observe(EventTextToSpeech, "failed")
		return out
	}

	out.AudioContent = audio
	observe(EventTextToSpeech, "ok")
	return out
}

func (d *Dispatcher) Translate(ctx context.Context, req TranslateRequest) TranslationResult {
	out := TranslationResult{RequestID: req.RequestID}
	if d.Translator == nil {
		out.Error = translationFailed
		observe(EventTranslateRequest, "failed")
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout())
	defer cancel()

	text, err := d.Translator.Translate(ctx, req.Description, req.TargetLanguage)
	if err != nil {
		log := logging.WithComponent("realtime")
		log.Warn().
			Err(err).
			Str("target", req.TargetLanguage).
			Msg("translation failed")
		out.Error = translationFailed
		observe(EventTranslateRequest, "failed")
		return out
	}

	out.Translation = text
	observe(EventTranslateRequest, "ok")
	return out
}

// Throttled builds the failure reply for an exchange dropped by the rate limiter.
func Throttled(in Envelope) Envelope {
	observe(in.Event, "throttled")

	var corr struct {
		PackageID string `json:"packageId"`
		RequestID string `json:"requestId"`
	}
	_ = json.Unmarshal(in.Data, &corr)

	switch in.Event {
	case EventCalculateDistance:
		return envelope(EventDistanceResult, DistanceResult{
			PackageID: corr.PackageID, Distance: DistanceUnavailable, RequestID: corr.RequestID,
		})
	case EventTextToSpeech:
		return envelope(EventSpeechResult, SpeechResult{Error: "rate limit exceeded", RequestID: corr.RequestID})
	case EventTranslateRequest:
		return envelope(EventTranslationResult, TranslationResult{Error: "rate limit exceeded", RequestID: corr.RequestID})
	}
	return envelope(EventError, ErrorReply{Error: "rate limit exceeded"})
}

func rejected(event, msg string) Envelope {
	observe(event, "rejected")
	return envelope(EventError, ErrorReply{Error: msg})
}

func observe(event, status string) {
	switch event {
	case EventCalculateDistance, EventTextToSpeech, EventTranslateRequest:
	default:
		event = "unknown"
	}
	metrics.RealtimeEventsTotal.WithLabelValues(event, status).Inc()
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
