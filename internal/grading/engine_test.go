package grading_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurseconnect/lms/internal/grading"
	"github.com/nurseconnect/lms/internal/quiz"
)

func questions(t *testing.T, s string) []quiz.Question {
	t.Helper()
	var qs []quiz.Question
	require.NoError(t, json.Unmarshal([]byte(s), &qs))
	return qs
}

func answers(t *testing.T, s string) []grading.Answer {
	t.Helper()
	var as []grading.Answer
	require.NoError(t, json.Unmarshal([]byte(s), &as))
	return as
}

func TestGrade_SingleAndHotspot(t *testing.T) {
	qs := questions(t, `[
		{"type":"single","correct":"B"},
		{"type":"hotspot","hotspots":[{"x":10,"y":10,"r":5}]}
	]`)
	res := grading.Grade(qs, answers(t, `["B", {"x":12,"y":10}]`))

	require.Equal(t, []bool{true, true}, res.PerQuestionCorrect)
	require.Equal(t, 2, res.CorrectCount)
	require.Equal(t, 2, res.Total)
}

func TestGrade_VectorLengthFollowsQuestions(t *testing.T) {
	qs := questions(t, `[
		{"type":"single","correct":"A"},
		{"type":"single","correct":"B"},
		{"type":"multi","correct":["C","D"]}
	]`)

	for _, in := range []string{`[]`, `["A"]`, `["A","B",["C","D"],"extra","more"]`} {
		res := grading.Grade(qs, answers(t, in))
		require.Len(t, res.PerQuestionCorrect, 3, in)
		require.Equal(t, 3, res.Total)
	}

	res := grading.Grade(qs, answers(t, `["A"]`))
	require.Equal(t, []bool{true, false, false}, res.PerQuestionCorrect)

	res = grading.Grade(qs, nil)
	require.Equal(t, []bool{false, false, false}, res.PerQuestionCorrect)
	require.Zero(t, res.CorrectCount)
}

func TestGrade_MultiIsOrderIndependent(t *testing.T) {
	qs := questions(t, `[{"type":"multi","correct":[1,2]}]`)

	require.True(t, grading.Grade(qs, answers(t, `[[2,1]]`)).PerQuestionCorrect[0])
	require.True(t, grading.Grade(qs, answers(t, `[[1,2]]`)).PerQuestionCorrect[0])
	require.False(t, grading.Grade(qs, answers(t, `[[1]]`)).PerQuestionCorrect[0])
	require.False(t, grading.Grade(qs, answers(t, `[[1,2,3]]`)).PerQuestionCorrect[0])
	require.False(t, grading.Grade(qs, answers(t, `[[1,1]]`)).PerQuestionCorrect[0])
}

func TestGrade_ScalarAndSingletonAreEquivalent(t *testing.T) {
	qs := questions(t, `[{"type":"single","correct":"B"}, {"type":"single","correct":["B"]}]`)
	res := grading.Grade(qs, answers(t, `[["B"], "B"]`))
	require.Equal(t, []bool{true, true}, res.PerQuestionCorrect)
}

func TestGrade_NumbersAndStringsCompareCanonically(t *testing.T) {
	qs := questions(t, `[{"type":"single","correct":2}, {"type":"multi","correct":["1", 2.0]}]`)
	res := grading.Grade(qs, answers(t, `["2", [2, 1]]`))
	require.Equal(t, []bool{true, true}, res.PerQuestionCorrect)
}

func TestGrade_HotspotBoundaryIsInclusive(t *testing.T) {
	qs := questions(t, `[{"type":"hotspot","hotspots":[{"x":10,"y":10,"r":5}]}]`)

	cases := []struct {
		answer string
		want   bool
	}{
		{`[{"x":15,"y":10}]`, true},   // exactly r on the axis
		{`[{"x":13,"y":14}]`, true},   // 3-4-5 triangle
		{`[{"x":15.0001,"y":10}]`, false},
		{`[{"x":10,"y":10}]`, true},
		{`[{"x":10}]`, false},
		{`[null]`, false},
		{`["B"]`, false},
	}
	for _, c := range cases {
		res := grading.Grade(qs, answers(t, c.answer))
		require.Equal(t, c.want, res.PerQuestionCorrect[0], c.answer)
	}
}

func TestGrade_HotspotAnyRegion(t *testing.T) {
	qs := questions(t, `[{"type":"hotspot","hotspots":[{"x":0,"y":0,"r":1},{"x":100,"y":100,"r":10}]}]`)
	require.True(t, grading.Grade(qs, answers(t, `[{"x":95,"y":105}]`)).PerQuestionCorrect[0])
	require.False(t, grading.Grade(qs, answers(t, `[{"x":50,"y":50}]`)).PerQuestionCorrect[0])
}

func TestGrade_HotspotWithoutRegions(t *testing.T) {
	qs := questions(t, `[{"type":"hotspot","hotspots":[]}]`)
	require.False(t, grading.Grade(qs, answers(t, `[{"x":0,"y":0}]`)).PerQuestionCorrect[0])
}

func TestGrade_QuestionWithoutKeyIsNeverCorrect(t *testing.T) {
	qs := questions(t, `[{"type":"single"}]`)
	require.False(t, grading.Grade(qs, answers(t, `[null]`)).PerQuestionCorrect[0])
	require.False(t, grading.Grade(qs, answers(t, `[""]`)).PerQuestionCorrect[0])
}

func TestGrade_Empty(t *testing.T) {
	res := grading.Grade(nil, answers(t, `["A"]`))
	require.Empty(t, res.PerQuestionCorrect)
	require.Zero(t, res.CorrectCount)
	require.Zero(t, res.Total)
}

func TestNewAnswer(t *testing.T) {
	qs := questions(t, `[{"type":"multi","correct":["x","y"]}]`)
	a, err := grading.NewAnswer([]string{"y", "x"})
	require.NoError(t, err)
	require.True(t, grading.GradeQuestion(qs[0], a))
	require.False(t, grading.GradeQuestion(qs[0], grading.Answer{}))
}

func TestPercent(t *testing.T) {
	require.Equal(t, 63, grading.Percent(5, 8))
	require.Equal(t, 100, grading.Percent(3, 3))
	require.Equal(t, 0, grading.Percent(0, 0))
	require.Equal(t, 33, grading.Percent(1, 3))
}
