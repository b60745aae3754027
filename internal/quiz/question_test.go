package quiz_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurseconnect/lms/internal/quiz"
)

func TestQuestionDecodeKinds(t *testing.T) {
	var qs []quiz.Question
	err := json.Unmarshal([]byte(`[
		{"type":"single","text":"Pick one","options":["A","B"],"correct":"B"},
		{"type":"checkbox","correct":["A","C"]},
		{"type":"hotspot","image":"heart.png","hotspots":[{"x":1,"y":2,"r":3}]},
		{"correct":["A","B"]},
		{"correct":4},
		{"hotspots":[{"x":0,"y":0,"r":1}]}
	]`), &qs)
	require.NoError(t, err)

	require.Equal(t, quiz.KindSingle, qs[0].Kind)
	require.Equal(t, []string{"B"}, qs[0].Correct)
	require.Equal(t, quiz.KindMulti, qs[1].Kind)
	require.Equal(t, []string{"A", "C"}, qs[1].Correct)
	require.Equal(t, quiz.KindHotspot, qs[2].Kind)
	require.Equal(t, []quiz.Hotspot{{X: 1, Y: 2, R: 3}}, qs[2].Hotspots)
	require.Equal(t, quiz.KindMulti, qs[3].Kind)
	require.Equal(t, quiz.KindSingle, qs[4].Kind)
	require.Equal(t, []string{"4"}, qs[4].Correct)
	// hotspot is never inferred from the presence of regions
	require.Equal(t, quiz.KindSingle, qs[5].Kind)
	require.Empty(t, qs[5].Hotspots)
}

func TestQuestionDecodeRejectsUnknownType(t *testing.T) {
	var q quiz.Question
	require.Error(t, json.Unmarshal([]byte(`{"type":"essay","correct":"x"}`), &q))
	require.Error(t, json.Unmarshal([]byte(`{"type":"single","correct":{"a":1}}`), &q))
	require.Error(t, json.Unmarshal([]byte(`{"type":"hotspot","hotspots":"nope"}`), &q))
}

func TestQuestionKeepsAuthoringFields(t *testing.T) {
	in := `{"type":"single","text":"Pick one","options":["A","B"],"correct":"B"}`
	var q quiz.Question
	require.NoError(t, json.Unmarshal([]byte(in), &q))

	out, err := json.Marshal(q)
	require.NoError(t, err)
	require.JSONEq(t, in, string(out))
}

func TestQuestionRedacted(t *testing.T) {
	var q quiz.Question
	require.NoError(t, json.Unmarshal([]byte(`{"type":"hotspot","image":"a.png","hotspots":[{"x":1,"y":1,"r":1}]}`), &q))

	red := q.Redacted()
	require.Nil(t, red.Hotspots)
	out, err := json.Marshal(red)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"hotspot","image":"a.png"}`, string(out))
}

func TestQuestionMarshalWithoutRaw(t *testing.T) {
	q := quiz.Question{Kind: quiz.KindSingle, Correct: []string{"B"}}
	out, err := json.Marshal(q)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"single","correct":"B"}`, string(out))

	q = quiz.Question{Kind: quiz.KindMulti, Correct: []string{"B"}}
	out, err = json.Marshal(q)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"multi","correct":["B"]}`, string(out))
}

func TestAttemptLimit(t *testing.T) {
	zero, three := 0, 3
	require.Equal(t, 1, quiz.Quiz{}.AttemptLimit())
	require.Equal(t, 1, quiz.Quiz{MaxAttempts: &zero}.AttemptLimit())
	require.Equal(t, 3, quiz.Quiz{MaxAttempts: &three}.AttemptLimit())
}

func TestForStudentStripsKeys(t *testing.T) {
	var qs []quiz.Question
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"single","text":"t","correct":"B"}]`), &qs))
	qz := quiz.Quiz{ID: "q1", Questions: qs}

	st := qz.ForStudent()
	out, err := json.Marshal(st.Questions)
	require.NoError(t, err)
	require.JSONEq(t, `[{"type":"single","text":"t"}]`, string(out))
	// original untouched
	require.Equal(t, []string{"B"}, qz.Questions[0].Correct)
}
