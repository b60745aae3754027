package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tags the Question variant.
type Kind string

const (
	KindSingle  Kind = "single"
	KindMulti   Kind = "multi"
	KindHotspot Kind = "hotspot"
)

var kindAliases = map[string]Kind{
	"single":   KindSingle,
	"radio":    KindSingle,
	"multi":    KindMulti,
	"multiple": KindMulti,
	"checkbox": KindMulti,
	"hotspot":  KindHotspot,
}

// Hotspot is a circular region on the question image.
type Hotspot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Question is one entry of a quiz. Choice kinds use Correct, the hotspot kind
// uses Hotspots. Authoring fields the backend does not interpret (text,
// options, image url, ...) are kept in raw and served back unchanged.
type Question struct {
	Kind     Kind
	Correct  []string
	Hotspots []Hotspot

	raw json.RawMessage
}

type questionWire struct {
	Type     string          `json:"type"`
	Correct  json.RawMessage `json:"correct,omitempty"`
	Hotspots []Hotspot       `json:"hotspots,omitempty"`
}

func (q *Question) UnmarshalJSON(b []byte) error {
	var w questionWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	t := strings.ToLower(strings.TrimSpace(w.Type))
	var kind Kind
	switch {
	case t == "" && isJSONArray(w.Correct):
		kind = KindMulti
	case t == "":
		kind = KindSingle
	default:
		k, ok := kindAliases[t]
		if !ok {
			return fmt.Errorf("unknown question type %q", w.Type)
		}
		kind = k
	}

	*q = Question{Kind: kind, raw: append(json.RawMessage(nil), b...)}
	switch kind {
	case KindHotspot:
		q.Hotspots = w.Hotspots
	case KindSingle, KindMulti:
		correct, err := ChoiceValues(w.Correct)
		if err != nil {
			return fmt.Errorf("correct: %w", err)
		}
		q.Correct = correct
	}
	return nil
}

func (q Question) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	w := questionWire{Type: string(q.Kind), Hotspots: q.Hotspots}
	var err error
	switch {
	case len(q.Correct) == 0:
	case len(q.Correct) == 1 && q.Kind == KindSingle:
		w.Correct, err = json.Marshal(q.Correct[0])
	default:
		w.Correct, err = json.Marshal(q.Correct)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// Redacted returns the question without its answer key.
func (q Question) Redacted() Question {
	out := Question{Kind: q.Kind}
	if len(q.raw) == 0 {
		return out
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(q.raw, &fields); err != nil {
		return out
	}
	delete(fields, "correct")
	delete(fields, "hotspots")
	if b, err := json.Marshal(fields); err == nil {
		out.raw = b
	}
	return out
}

func isJSONArray(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '['
}
