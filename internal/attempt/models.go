package attempt

import (
	"errors"

	"github.com/nurseconnect/lms/internal/grading"
)

var (
	ErrNotFound     = errors.New("attempt not found")
	ErrAttemptLimit = errors.New("attempt limit reached")
	ErrInvalidScore = errors.New("score must be between 0 and total")
)

// Attempt is one persisted, scored submission. Rows are never updated.
type Attempt struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	QuizID    string `json:"quiz_id"`
	Ordinal   int    `json:"ordinal"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
	Correct   []bool `json:"correct,omitempty"`
	SolvedAt  int64  `json:"solved_at"`
}

type Submission struct {
	StudentID string           `json:"student_id"`
	QuizID    string           `json:"quiz_id"`
	Answers   []grading.Answer `json:"answers"`
}

// Solved is the replay view of a student's latest attempt on a quiz.
type Solved struct {
	Solved    bool   `json:"solved"`
	Results   []bool `json:"results"`
	Attempts  int    `json:"attempts"`
	Remaining int    `json:"remaining"`
}

// Recorded is passed to notifiers after an attempt is committed.
type Recorded struct {
	Attempt     Attempt
	ProfessorID string
}

const EventRecorded = "attempt.recorded"

// Results returns the per-question vector for replay. Attempts stored
// without a vector are approximated: the first Score positions are
// reported correct and the rest incorrect.
func (a Attempt) Results() []bool {
	if len(a.Correct) == a.Total && a.Correct != nil {
		return append([]bool(nil), a.Correct...)
	}
	out := make([]bool, max(a.Total, 0))
	for i := 0; i < a.Score && i < len(out); i++ {
		out[i] = true
	}
	return out
}
