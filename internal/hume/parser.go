package hume

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmespath-community/go-jmespath"

	"github.com/watchme/emotion-hume/internal/domain/model"
)

type searcher interface {
	Search(data any) (any, error)
}

func mustCompile(expr string) searcher {
	p, err := jmespath.Compile(expr)
	if err != nil {
		panic(fmt.Sprintf("hume: compile %q: %v", expr, err))
	}
	return p
}

var (
	predictionsExpr = mustCompile("[0].results.predictions")
	modelsExpr      = mustCompile("[0].models")
	groupExpr       = mustCompile("grouped_predictions[0].predictions")
	metaConfExpr    = mustCompile("metadata.confidence")
	metaLangExpr    = mustCompile("metadata.detected_language")
)

// Parse converts a Hume predictions document into an AnalysisResult.
//
// It returns nil, nil when the document carries no usable emotion data: anything
// other than a non-empty JSON list, an empty predictions list, or zero segments
// across all models. An error is returned only when doc is not valid JSON.
func Parse(doc []byte, now time.Time) (*model.AnalysisResult, error) {
	var root any
	if err := json.Unmarshal(doc, &root); err != nil {
		return nil, fmt.Errorf("decode predictions: %w", err)
	}
	if list, ok := root.([]any); !ok || len(list) == 0 {
		return nil, nil
	}

	predictions, _ := search(predictionsExpr, root).([]any)
	if len(predictions) == 0 {
		return nil, nil
	}
	models, _ := search(modelsExpr, predictions).(map[string]any)

	result := &model.AnalysisResult{
		Provider:  model.ProviderHume,
		Version:   model.ResultVersion,
		Timestamp: now.UTC().Format(time.RFC3339),
	}

	if prosody := nonEmptyObject(models, "prosody"); prosody != nil {
		result.SpeechProsody = parseGroup(prosody, model.SegmentKindProsody)
		result.Confidence = optionalFloat(search(metaConfExpr, prosody), hasPath(prosody, "metadata", "confidence"), 0)
		if lang, ok := search(metaLangExpr, prosody).(string); ok {
			result.DetectedLanguage = &lang
		}
	}
	if burst := nonEmptyObject(models, "burst"); burst != nil {
		result.VocalBurst = parseGroup(burst, model.SegmentKindBurst)
	}
	if language := nonEmptyObject(models, "language"); language != nil {
		result.Language = parseGroup(language, model.SegmentKindLanguage)
	}

	result.TotalSegments = result.SpeechProsody.Len() + result.VocalBurst.Len() + result.Language.Len()
	if result.TotalSegments == 0 {
		return nil, nil
	}
	return result, nil
}

// search evaluates a compiled expression; type errors in the tree read as missing data.
func search(expr searcher, data any) any {
	v, err := expr.Search(data)
	if err != nil {
		return nil
	}
	return v
}

func nonEmptyObject(parent map[string]any, key string) map[string]any {
	obj, ok := parent[key].(map[string]any)
	if !ok || len(obj) == 0 {
		return nil
	}
	return obj
}

func hasPath(obj map[string]any, keys ...string) bool {
	cur := obj
	for i, k := range keys {
		v, ok := cur[k]
		if !ok {
			return false
		}
		if i == len(keys)-1 {
			return true
		}
		if cur, ok = v.(map[string]any); !ok {
			return false
		}
	}
	return false
}

func parseGroup(modelData map[string]any, kind model.SegmentKind) *model.SegmentGroup {
	preds, _ := search(groupExpr, modelData).([]any)
	segments := make([]model.EmotionSegment, 0, len(preds))
	for i, raw := range preds {
		pred, _ := raw.(map[string]any)
		segments = append(segments, parseSegment(i+1, pred, kind))
	}
	return model.NewSegmentGroup(segments)
}

func parseSegment(id int, pred map[string]any, kind model.SegmentKind) model.EmotionSegment {
	seg := model.EmotionSegment{SegmentID: id, Kind: kind}

	switch kind {
	case model.SegmentKindProsody:
		seg.Time = timeRange(pred["time"])
		seg.Text, _ = pred["text"].(string)
		_, present := pred["confidence"]
		seg.Confidence = optionalFloat(pred["confidence"], present, 0)
	case model.SegmentKindBurst:
		seg.Time = timeRange(pred["time"])
	case model.SegmentKindLanguage:
		seg.Text, _ = pred["text"].(string)
		seg.Position = textPosition(pred["position"])
	}

	entries, _ := pred["emotions"].([]any)
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name, _ := entry["name"].(string)
		if name == "" {
			continue
		}
		score, _ := entry["score"].(float64)
		seg.Emotions.Set(name, score)
	}
	seg.DominantEmotion = seg.Emotions.Dominant()
	return seg
}

// optionalFloat mirrors a lookup with a default: absent keys take def, explicit nulls stay nil.
func optionalFloat(v any, present bool, def float64) *float64 {
	if !present {
		return &def
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func timeRange(v any) *model.TimeRange {
	m, ok := v.(map[string]any)
	if !ok {
		return &model.TimeRange{}
	}
	begin, _ := m["begin"].(float64)
	end, _ := m["end"].(float64)
	return &model.TimeRange{Begin: begin, End: end}
}

func textPosition(v any) *model.TextPosition {
	m, ok := v.(map[string]any)
	if !ok {
		return &model.TextPosition{}
	}
	begin, _ := m["begin"].(float64)
	end, _ := m["end"].(float64)
	return &model.TextPosition{Begin: int(begin), End: int(end)}
}
