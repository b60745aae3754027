package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/nurseconnect/lms/internal/attempt"
	"github.com/nurseconnect/lms/internal/grading"
	"github.com/nurseconnect/lms/internal/quiz"
)

// Cache stores computed summaries. Get reports whether the key was found.
// Entries are keyed by the generation of their summary; Bump moves a
// summary to a new generation so writes computed before it are never read.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, keys ...string) error
}

type Counter interface {
	CountStudents(ctx context.Context) (int, error)
	CountProfessors(ctx context.Context) (int, error)
}

type MaterialSource interface {
	ReadIDs(ctx context.Context, studentID string) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type Reporter struct {
	db        *sql.DB
	attempts  attempt.Store
	quizzes   quiz.Repository
	people    Counter
	materials MaterialSource
	cache     Cache
}

func NewReporter(dbh *sql.DB, attempts attempt.Store, quizzes quiz.Repository, people Counter, materials MaterialSource, cache Cache) *Reporter {
	return &Reporter{db: dbh, attempts: attempts, quizzes: quizzes, people: people, materials: materials, cache: cache}
}

func quizKey(id string) string      { return "stats:quiz:" + id }
func professorKey(id string) string { return "stats:professor:" + id }

func (r *Reporter) QuizSummary(ctx context.Context, quizID string) (QuizSummary, error) {
	var out QuizSummary
	key := r.entry(ctx, quizKey(quizID))
	if r.cached(ctx, key, &out) {
		return out, nil
	}
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, quizID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return QuizSummary{}, quiz.ErrNotFound
	}
	if err != nil {
		return QuizSummary{}, err
	}
	var score, total int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(score),0), COALESCE(SUM(total),0) FROM attempts WHERE quiz_id=$1`,
		quizID).Scan(&out.AttemptCount, &score, &total)
	if err != nil {
		return QuizSummary{}, err
	}
	out.AveragePercent = grading.Percent(score, total)
	r.store(ctx, key, out)
	return out, nil
}

// ProfessorSummary aggregates every quiz the professor owns. An unknown
// professor has an all-zero summary.
func (r *Reporter) ProfessorSummary(ctx context.Context, professorID string) (ProfessorSummary, error) {
	var out ProfessorSummary
	key := r.entry(ctx, professorKey(professorID))
	if r.cached(ctx, key, &out) {
		return out, nil
	}
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE professor_id=$1`, professorID).Scan(&out.TotalQuizzes); err != nil {
		return ProfessorSummary{}, err
	}
	var score, total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(a.id), COALESCE(SUM(a.score),0), COALESCE(SUM(a.total),0)
		FROM attempts a JOIN quizzes q ON q.id = a.quiz_id
		WHERE q.professor_id=$1`, professorID).Scan(&out.TotalAttempts, &score, &total)
	if err != nil {
		return ProfessorSummary{}, err
	}
	out.AveragePercent = grading.Percent(score, total)
	r.store(ctx, key, out)
	return out, nil
}

// ProfessorQuizStatistics returns one row per quiz the professor owns,
// including quizzes nobody attempted yet.
func (r *Reporter) ProfessorQuizStatistics(ctx context.Context, professorID string) ([]QuizStat, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT q.id, q.title, q.grade,
			COUNT(a.id), COALESCE(SUM(a.score),0), COALESCE(SUM(a.total),0)
		FROM quizzes q LEFT JOIN attempts a ON a.quiz_id = q.id
		WHERE q.professor_id=$1
		GROUP BY q.id, q.title, q.grade, q.created_at
		ORDER BY q.created_at, q.id`, professorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []QuizStat{}
	for rows.Next() {
		var (
			st           QuizStat
			score, total int
		)
		if err := rows.Scan(&st.ID, &st.Title, &st.Grade, &st.AttemptCount, &score, &total); err != nil {
			return nil, err
		}
		st.AveragePercent = grading.Percent(score, total)
		out = append(out, st)
	}
	return out, rows.Err()
}

// QuizDetails lists a quiz's attempts newest first with student names.
// Attempts of deleted students keep empty names.
func (r *Reporter) QuizDetails(ctx context.Context, quizID string) ([]AttemptDetail, error) {
	if _, err := r.quizzes.Get(ctx, quizID); err != nil && !errors.Is(err, quiz.ErrMalformedQuestions) {
		return nil, err
	}
	list, err := r.attempts.FindByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	names, err := r.studentNames(ctx, quizID)
	if err != nil {
		return nil, err
	}
	out := make([]AttemptDetail, len(list))
	for i, a := range list {
		n := names[a.StudentID]
		out[i] = AttemptDetail{Attempt: a, StudentFirstName: n[0], StudentLastName: n[1]}
	}
	return out, nil
}

func (r *Reporter) studentNames(ctx context.Context, quizID string) (map[string][2]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT s.id, s.first_name, s.last_name
		FROM students s JOIN attempts a ON a.student_id = s.id
		WHERE a.quiz_id=$1`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string][2]string{}
	for rows.Next() {
		var id, first, last string
		if err := rows.Scan(&id, &first, &last); err != nil {
			return nil, err
		}
		out[id] = [2]string{first, last}
	}
	return out, rows.Err()
}

// StudentProgress lists read materials and attempted quizzes, each id once.
func (r *Reporter) StudentProgress(ctx context.Context, studentID string) (Progress, error) {
	read, err := r.materials.ReadIDs(ctx, studentID)
	if err != nil {
		return Progress{}, err
	}
	list, err := r.attempts.FindByStudent(ctx, studentID)
	if err != nil {
		return Progress{}, err
	}
	seen := map[string]bool{}
	solved := []string{}
	for _, a := range list {
		if !seen[a.QuizID] {
			seen[a.QuizID] = true
			solved = append(solved, a.QuizID)
		}
	}
	return Progress{ReadMaterialIDs: read, SolvedQuizIDs: solved}, nil
}

func (r *Reporter) PlatformCounts(ctx context.Context) (PlatformCounts, error) {
	var (
		out PlatformCounts
		err error
	)
	if out.Students, err = r.people.CountStudents(ctx); err != nil {
		return PlatformCounts{}, err
	}
	if out.Professors, err = r.people.CountProfessors(ctx); err != nil {
		return PlatformCounts{}, err
	}
	if out.Materials, err = r.materials.Count(ctx); err != nil {
		return PlatformCounts{}, err
	}
	if out.Quizzes, err = r.quizzes.Count(ctx); err != nil {
		return PlatformCounts{}, err
	}
	return out, nil
}

// AttemptRecorded retires the summaries the new attempt changes.
func (r *Reporter) AttemptRecorded(ctx context.Context, rec attempt.Recorded) {
	r.Invalidate(ctx, rec.Attempt.QuizID, rec.ProfessorID)
}

// Invalidate retires cached summaries for a quiz and its owner.
func (r *Reporter) Invalidate(ctx context.Context, quizID, professorID string) {
	if r.cache == nil {
		return
	}
	keys := []string{quizKey(quizID)}
	if professorID != "" {
		keys = append(keys, professorKey(professorID))
	}
	if err := r.cache.Bump(ctx, keys...); err != nil {
		log.Printf("stats cache: invalidate %v: %v", keys, err)
	}
}

// entry resolves a summary key to its current generation. It must be read
// before the summary is computed. "" means caching is off for this call.
func (r *Reporter) entry(ctx context.Context, base string) string {
	if r.cache == nil {
		return ""
	}
	gen, err := r.cache.Generation(ctx, base)
	if err != nil {
		log.Printf("stats cache: generation %s: %v", base, err)
		return ""
	}
	return fmt.Sprintf("%s@%d", base, gen)
}

func (r *Reporter) cached(ctx context.Context, key string, dst any) bool {
	if key == "" {
		return false
	}
	ok, err := r.cache.Get(ctx, key, dst)
	if err != nil {
		log.Printf("stats cache: get %s: %v", key, err)
		return false
	}
	return ok
}

func (r *Reporter) store(ctx context.Context, key string, v any) {
	if key == "" {
		return
	}
	if err := r.cache.Set(ctx, key, v); err != nil {
		log.Printf("stats cache: set %s: %v", key, err)
	}
}
