// Package model defines the core data types shared by the emotion analysis pipeline.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// SegmentKind discriminates which Hume model produced a segment.
type SegmentKind string

const (
	// SegmentKindProsody marks a speech prosody (utterance) segment.
	SegmentKindProsody SegmentKind = "prosody"
	// SegmentKindBurst marks a vocal burst segment.
	SegmentKindBurst SegmentKind = "burst"
	// SegmentKindLanguage marks a text (language) segment.
	SegmentKindLanguage SegmentKind = "language"
)

// Valid returns true if the SegmentKind is one of the known kinds.
func (k SegmentKind) Valid() bool {
	return k == SegmentKindProsody || k == SegmentKindBurst || k == SegmentKindLanguage
}

// EmotionScore is a single named score in [0.0, 1.0].
type EmotionScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// DominantEmotion is the highest scoring entry of a segment.
type DominantEmotion struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Emotions is an insertion-ordered name to score mapping.
// It serializes as a JSON object whose keys keep their source order.
//
//nolint:recvcheck // UnmarshalJSON needs a pointer receiver
type Emotions []EmotionScore

// Set stores score under name. An existing name keeps its position and takes the new score.
func (e *Emotions) Set(name string, score float64) {
	for i := range *e {
		if (*e)[i].Name == name {
			(*e)[i].Score = score
			return
		}
	}
	*e = append(*e, EmotionScore{Name: name, Score: score})
}

// Get returns the score stored for name.
func (e Emotions) Get(name string) (float64, bool) {
	for _, s := range e {
		if s.Name == name {
			return s.Score, true
		}
	}
	return 0, false
}

// Len returns the number of distinct emotions.
func (e Emotions) Len() int { return len(e) }

// Dominant returns the entry with the highest score. Ties go to the entry listed first.
// Nil is returned for an empty mapping.
func (e Emotions) Dominant() *DominantEmotion {
	if len(e) == 0 {
		return nil
	}
	best := e[0]
	for _, s := range e[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return &DominantEmotion{Name: best.Name, Score: best.Score}
}

// MarshalJSON encodes the mapping as an object preserving insertion order.
func (e Emotions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range e {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Name)
		if err != nil {
			return nil, fmt.Errorf("encode emotion name: %w", err)
		}
		val, err := json.Marshal(s.Score)
		if err != nil {
			return nil, fmt.Errorf("encode emotion %q: %w", s.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object into the mapping, keeping key order.
func (e *Emotions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*e = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("emotions must be a JSON object")
	}

	out := Emotions{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected emotion key %v", keyTok)
		}
		var score float64
		if err := dec.Decode(&score); err != nil {
			return fmt.Errorf("decode emotion %q: %w", name, err)
		}
		out.Set(name, score)
	}
	*e = out
	return nil
}

// TimeRange is a segment's span in seconds from the start of the audio.
type TimeRange struct {
	Begin float64 `json:"begin"`
	End   float64 `json:"end"`
}

// TextPosition is a segment's character span inside the transcript.
type TextPosition struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// EmotionSegment is one prediction unit (utterance, burst or text span) with its emotion scores.
// Time is set for prosody and burst segments, Position for language segments.
type EmotionSegment struct {
	SegmentID       int              `json:"segment_id"`
	Kind            SegmentKind      `json:"-"`
	Time            *TimeRange       `json:"time,omitempty"`
	Position        *TextPosition    `json:"position,omitempty"`
	Text            string           `json:"text,omitempty"`
	Confidence      *float64         `json:"confidence,omitempty"`
	Emotions        Emotions         `json:"emotions"`
	DominantEmotion *DominantEmotion `json:"dominant_emotion,omitempty"`
}

// SegmentGroup holds every segment produced by one model.
type SegmentGroup struct {
	TotalSegments int              `json:"total_segments"`
	Segments      []EmotionSegment `json:"segments"`
}

// NewSegmentGroup builds a group whose total matches the segment count.
func NewSegmentGroup(segments []EmotionSegment) *SegmentGroup {
	if segments == nil {
		segments = []EmotionSegment{}
	}
	return &SegmentGroup{TotalSegments: len(segments), Segments: segments}
}

// Len returns the number of segments in the group; nil groups are empty.
func (g *SegmentGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Segments)
}
