package quiz

import "errors"

var (
	ErrNotFound           = errors.New("quiz not found")
	ErrMalformedQuestions = errors.New("quiz questions are malformed")
)

type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Questions   []Question `json:"questions"`
	Subject     string     `json:"subject"`
	Grade       string     `json:"grade"`
	MaxAttempts *int       `json:"max_attempts,omitempty"` // nil means one attempt
	ProfessorID string     `json:"professor_id"`
	Hidden      bool       `json:"hidden"`
	CreatedAt   int64      `json:"created_at,omitempty"`
}

// AttemptLimit is the number of attempts one student may submit.
func (q Quiz) AttemptLimit() int {
	if q.MaxAttempts == nil || *q.MaxAttempts <= 0 {
		return 1
	}
	return *q.MaxAttempts
}

// ForStudent strips answer keys.
func (q Quiz) ForStudent() Quiz {
	out := q
	out.Questions = make([]Question, len(q.Questions))
	for i, qq := range q.Questions {
		out.Questions[i] = qq.Redacted()
	}
	return out
}

type ListOpts struct {
	Subject       string
	Grade         string
	ProfessorID   string
	IncludeHidden bool
}
