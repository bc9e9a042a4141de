// Package realtime serves the websocket side-channel: distance estimates,
// speech synthesis and translation, one JSON envelope per frame.
package realtime

import "encoding/json"

const (
	EventCalculateDistance = "calculateDistance"
	EventDistanceResult    = "distanceResult"
	EventTextToSpeech      = "textToSpeech"
	EventSpeechResult      = "speechResult"
	EventTranslateRequest  = "translateRequest"
	EventTranslationResult = "translationResponse"
	EventError             = "error"
)

// Reported distance when the estimate cannot be produced.
const DistanceUnavailable float64 = -1

const (
	speechFailed      = "Conversion failed"
	translationFailed = "Translation failed."
)

type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type DistanceRequest struct {
	PackageID   string `json:"packageId"`
	Destination string `json:"destination"`
	RequestID   string `json:"requestId,omitempty"`
}

type DistanceResult struct {
	PackageID string  `json:"packageId"`
	Distance  float64 `json:"distance"`
	RequestID string  `json:"requestId,omitempty"`
}

type VoiceParams struct {
	LanguageCode string `json:"languageCode"`
	SsmlGender   string `json:"ssmlGender"`
}

type SpeechRequest struct {
	Text      string      `json:"text"`
	Voice     VoiceParams `json:"voice"`
	RequestID string      `json:"requestId,omitempty"`
}

type SpeechResult struct {
	AudioContent string `json:"audioContent,omitempty"`
	Error        string `json:"error,omitempty"`
	RequestID    string `json:"requestId,omitempty"`
}

type TranslateRequest struct {
	Description    string `json:"description"`
	TargetLanguage string `json:"targetLanguage"`
	RequestID      string `json:"requestId,omitempty"`
}

type TranslationResult struct {
	Translation string `json:"translation,omitempty"`
	Error       string `json:"error,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
}

type ErrorReply struct {
	Error string `json:"error"`
}

func envelope(event string, payload any) Envelope {
	data, err := json.Marshal(payload)
	if err != nil {
		data, _ = json.Marshal(ErrorReply{Error: "encode reply: " + err.Error()})
		event = EventError
	}
	return Envelope{Event: event, Data: data}
}
