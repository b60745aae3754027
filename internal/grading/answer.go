package grading

import (
	"bytes"
	"encoding/json"

	"github.com/nurseconnect/lms/internal/quiz"
)

// Answer is one submitted answer as sent by the client: a scalar, an array
// of scalars, or an {x, y} point. It is interpreted only against the
// question it is graded with.
type Answer struct {
	raw json.RawMessage
}

// NewAnswer builds an Answer from any JSON-encodable value.
func NewAnswer(v any) (Answer, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Answer{}, err
	}
	return Answer{raw: b}, nil
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	a.raw = append(a.raw[:0], b...)
	return nil
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Missing() {
		return []byte("null"), nil
	}
	return a.raw, nil
}

func (a Answer) Missing() bool {
	b := bytes.TrimSpace(a.raw)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

// Values returns the answer as canonical choice values.
func (a Answer) Values() ([]string, bool) {
	vals, err := quiz.ChoiceValues(a.raw)
	if err != nil || len(vals) == 0 {
		return nil, false
	}
	return vals, true
}

type Point struct {
	X float64
	Y float64
}

// Point returns the answer as a click position; both coordinates are required.
func (a Answer) Point() (Point, bool) {
	var p struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}
	if err := json.Unmarshal(a.raw, &p); err != nil || p.X == nil || p.Y == nil {
		return Point{}, false
	}
	return Point{X: *p.X, Y: *p.Y}, true
}
