package attempt

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nurseconnect/lms/internal/grading"
	"github.com/nurseconnect/lms/internal/quiz"
)

// QuizSource is the part of the quiz repository the service reads.
type QuizSource interface {
	Get(ctx context.Context, id string) (quiz.Quiz, error)
}

type StudentLookup interface {
	StudentExists(ctx context.Context, id string) (bool, error)
}

// Notifier observes committed attempts. Failures are the notifier's own
// business and never undo the attempt.
type Notifier interface {
	AttemptRecorded(ctx context.Context, r Recorded)
}

type Service struct {
	store     Store
	quizzes   QuizSource
	students  StudentLookup
	notifiers []Notifier
}

func NewService(store Store, quizzes QuizSource, students StudentLookup, notifiers ...Notifier) *Service {
	return &Service{store: store, quizzes: quizzes, students: students, notifiers: notifiers}
}

// CanAttempt reports whether the student has attempts left on the quiz.
func (s *Service) CanAttempt(ctx context.Context, studentID, quizID string) (bool, error) {
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return false, err
	}
	n, err := s.store.CountByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return false, err
	}
	return n < q.AttemptLimit(), nil
}

// Submit grades a submission and records it. A student who is out of
// attempts gets ErrAttemptLimit and nothing is graded or stored.
func (s *Service) Submit(ctx context.Context, sub Submission) (grading.Result, error) {
	q, err := s.quizzes.Get(ctx, sub.QuizID)
	if err != nil {
		return grading.Result{}, err
	}
	if err := s.requireStudent(ctx, sub.StudentID); err != nil {
		return grading.Result{}, err
	}
	n, err := s.store.CountByStudentAndQuiz(ctx, sub.StudentID, sub.QuizID)
	if err != nil {
		return grading.Result{}, err
	}
	if n >= q.AttemptLimit() {
		return grading.Result{}, ErrAttemptLimit
	}

	res := grading.Grade(q.Questions, sub.Answers)
	a, err := s.store.InsertWithinLimit(ctx, Attempt{
		StudentID: sub.StudentID,
		QuizID:    sub.QuizID,
		Score:     res.CorrectCount,
		Total:     res.Total,
		Correct:   res.PerQuestionCorrect,
	}, q.AttemptLimit())
	if err != nil {
		return grading.Result{}, err
	}
	s.notify(ctx, Recorded{Attempt: a, ProfessorID: q.ProfessorID})
	return res, nil
}

// RecordAttempt stores an already scored attempt under the same limit.
func (s *Service) RecordAttempt(ctx context.Context, studentID, quizID string, score, total int) (Attempt, error) {
	if total < 0 || score < 0 || score > total {
		return Attempt{}, ErrInvalidScore
	}
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	a, err := s.store.InsertWithinLimit(ctx, Attempt{
		StudentID: studentID,
		QuizID:    quizID,
		Score:     score,
		Total:     total,
	}, q.AttemptLimit())
	if err != nil {
		return Attempt{}, err
	}
	s.notify(ctx, Recorded{Attempt: a, ProfessorID: q.ProfessorID})
	return a, nil
}

// AlreadySolved replays the student's latest attempt on the quiz.
func (s *Service) AlreadySolved(ctx context.Context, studentID, quizID string) (Solved, error) {
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return Solved{}, err
	}
	limit := q.AttemptLimit()

	n, err := s.store.CountByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		return Solved{}, err
	}
	out := Solved{Results: []bool{}, Attempts: n, Remaining: max(limit-n, 0)}
	if n == 0 {
		return out, nil
	}
	latest, err := s.store.FindByStudentAndQuiz(ctx, studentID, quizID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return out, nil
		}
		return Solved{}, err
	}
	out.Solved = true
	out.Results = latest.Results()
	return out, nil
}

func (s *Service) requireStudent(ctx context.Context, id string) error {
	if s.students == nil {
		return nil
	}
	ok, err := s.students.StudentExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: student %s", ErrNotFound, id)
	}
	return nil
}

func (s *Service) notify(ctx context.Context, r Recorded) {
	for _, n := range s.notifiers {
		n.AttemptRecorded(ctx, r)
	}
}

// LogNotifier writes one line per recorded attempt.
type LogNotifier struct{}

func (LogNotifier) AttemptRecorded(_ context.Context, r Recorded) {
	log.Printf("attempt %s: student=%s quiz=%s #%d score=%d/%d",
		r.Attempt.ID, r.Attempt.StudentID, r.Attempt.QuizID, r.Attempt.Ordinal, r.Attempt.Score, r.Attempt.Total)
}
