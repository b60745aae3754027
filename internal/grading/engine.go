package grading

import (
	"math"
	"slices"

	"github.com/nurseconnect/lms/internal/quiz"
)

// Result is the outcome of grading one submission.
type Result struct {
	PerQuestionCorrect []bool `json:"perQuestionCorrect"`
	CorrectCount       int    `json:"correctCount"`
	Total              int    `json:"total"`
}

// Grade marks every question against the answer at the same position.
// Missing or unreadable answers count as incorrect; the result always has
// one entry per question.
func Grade(questions []quiz.Question, answers []Answer) Result {
	res := Result{
		PerQuestionCorrect: make([]bool, len(questions)),
		Total:              len(questions),
	}
	for i, q := range questions {
		var a Answer
		if i < len(answers) {
			a = answers[i]
		}
		if GradeQuestion(q, a) {
			res.PerQuestionCorrect[i] = true
			res.CorrectCount++
		}
	}
	return res
}

// GradeQuestion reports whether a single answer is correct.
func GradeQuestion(q quiz.Question, a Answer) bool {
	if a.Missing() {
		return false
	}
	switch q.Kind {
	case quiz.KindSingle, quiz.KindMulti:
		got, ok := a.Values()
		if !ok {
			return false
		}
		return sameChoices(q.Correct, got)
	case quiz.KindHotspot:
		p, ok := a.Point()
		if !ok {
			return false
		}
		return inAnyRegion(p, q.Hotspots)
	default:
		return false
	}
}

// sameChoices compares both sides as multisets.
func sameChoices(want, got []string) bool {
	if len(want) == 0 || len(want) != len(got) {
		return false
	}
	w := slices.Clone(want)
	g := slices.Clone(got)
	slices.Sort(w)
	slices.Sort(g)
	return slices.Equal(w, g)
}

// inAnyRegion is a point-in-circle test with an inclusive boundary.
func inAnyRegion(p Point, regions []quiz.Hotspot) bool {
	for _, h := range regions {
		if h.R < 0 {
			continue
		}
		dx := p.X - h.X
		dy := p.Y - h.Y
		if dx*dx+dy*dy <= h.R*h.R {
			return true
		}
	}
	return false
}

// Percent is round(100*score/total), or 0 when total is 0.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
