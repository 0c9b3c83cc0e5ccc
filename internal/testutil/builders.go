package testutil

import (
	"encoding/json"

	"github.com/watchme/emotion-hume/internal/domain/model"
)

// Emotion is one {name, score} entry of a Hume prediction.
type Emotion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// E is shorthand for Emotion{name, score}.
func E(name string, score float64) Emotion {
	return Emotion{Name: name, Score: score}
}

// Span is a {begin, end} pair used for both time ranges and text positions.
type Span struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

// Prediction is one entry of grouped_predictions[0].predictions.
type Prediction struct {
	Text       string    `json:"text,omitempty"`
	Time       *Span     `json:"time,omitempty"`
	Position   *Span     `json:"position,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Emotions   []Emotion `json:"emotions"`
}

// PredictionDocBuilder assembles Hume predictions documents for parser and client tests.
type PredictionDocBuilder struct {
	models map[string]map[string]any
}

// PredictionDoc starts an empty document with no models.
func PredictionDoc() *PredictionDocBuilder {
	return &PredictionDocBuilder{models: map[string]map[string]any{}}
}

// Prosody adds a prosody model with the given predictions.
func (b *PredictionDocBuilder) Prosody(preds ...Prediction) *PredictionDocBuilder {
	return b.withModel("prosody", preds)
}

// Burst adds a vocal burst model with the given predictions.
func (b *PredictionDocBuilder) Burst(preds ...Prediction) *PredictionDocBuilder {
	return b.withModel("burst", preds)
}

// Language adds a language model with the given predictions.
func (b *PredictionDocBuilder) Language(preds ...Prediction) *PredictionDocBuilder {
	return b.withModel("language", preds)
}

// ProsodyMetadata sets models.prosody.metadata, creating the prosody model if needed.
func (b *PredictionDocBuilder) ProsodyMetadata(confidence float64, detectedLanguage string) *PredictionDocBuilder {
	m, ok := b.models["prosody"]
	if !ok {
		m = map[string]any{}
		b.models["prosody"] = m
	}
	m["metadata"] = map[string]any{
		"confidence":        confidence,
		"detected_language": detectedLanguage,
	}
	return b
}

func (b *PredictionDocBuilder) withModel(name string, preds []Prediction) *PredictionDocBuilder {
	if preds == nil {
		preds = []Prediction{}
	}
	m, ok := b.models[name]
	if !ok {
		m = map[string]any{}
		b.models[name] = m
	}
	m["grouped_predictions"] = []any{
		map[string]any{"id": "unknown", "predictions": preds},
	}
	return b
}

// Build renders the document as the predictions endpoint returns it.
func (b *PredictionDocBuilder) Build() []byte {
	doc := []any{
		map[string]any{
			"source": map[string]any{"type": "url"},
			"results": map[string]any{
				"predictions": []any{
					map[string]any{"file": "audio.wav", "models": b.models},
				},
				"errors": []any{},
			},
		},
	}
	out, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return out
}

// AsyncRequest returns a valid analysis request for the given file.
func AsyncRequest(filePath string) model.AsyncProcessRequest {
	return model.AsyncProcessRequest{
		FilePath:   filePath,
		DeviceID:   "device-001",
		RecordedAt: "2025-07-01T09:30:00Z",
	}
}
