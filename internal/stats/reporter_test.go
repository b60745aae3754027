package stats_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurseconnect/lms/internal/attempt"
	"github.com/nurseconnect/lms/internal/db"
	"github.com/nurseconnect/lms/internal/directory"
	"github.com/nurseconnect/lms/internal/material"
	"github.com/nurseconnect/lms/internal/quiz"
	"github.com/nurseconnect/lms/internal/stats"
)

// mapCache is an in-process stand-in for the redis cache.
type mapCache struct {
	data   map[string][]byte
	gens   map[string]int64
	bumped []string
	// beforeSet runs once, just before the next Set.
	beforeSet func()
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, gens: map[string]int64{}}
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (bool, error) {
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *mapCache) Set(_ context.Context, key string, v any) error {
	if f := c.beforeSet; f != nil {
		c.beforeSet = nil
		f()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *mapCache) Generation(_ context.Context, key string) (int64, error) {
	return c.gens[key], nil
}

func (c *mapCache) Bump(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.gens[k]++
		c.bumped = append(c.bumped, k)
	}
	return nil
}

type env struct {
	db        *sql.DB
	quizzes   *quiz.SQLStore
	attempts  *attempt.SQLStore
	people    *directory.SQLStore
	materials *material.SQLStore
}

func newEnv(t *testing.T) env {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	attempts := attempt.NewSQLStore(dbh)
	return env{
		db:        dbh,
		quizzes:   quiz.NewSQLStore(dbh, attempts.DeleteByQuizTx),
		attempts:  attempts,
		people:    directory.NewSQLStore(dbh),
		materials: material.NewSQLStore(dbh),
	}
}

func (e env) reporter(c stats.Cache) *stats.Reporter {
	return stats.NewReporter(e.db, e.attempts, e.quizzes, e.people, e.materials, c)
}

func (e env) quiz(t *testing.T, title, professorID string) quiz.Quiz {
	t.Helper()
	five := 5
	q, err := e.quizzes.Create(context.Background(), quiz.Quiz{
		Title: title, Subject: "biology", Grade: "1", ProfessorID: professorID, MaxAttempts: &five,
	})
	require.NoError(t, err)
	return q
}

func (e env) record(t *testing.T, studentID, quizID string, score, total int) {
	t.Helper()
	_, err := e.attempts.InsertWithinLimit(context.Background(),
		attempt.Attempt{StudentID: studentID, QuizID: quizID, Score: score, Total: total}, 5)
	require.NoError(t, err)
}

func TestQuizSummary(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.reporter(nil)
	q := e.quiz(t, "Cells", "p1")

	got, err := r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{}, got)

	e.record(t, "s1", q.ID, 2, 4)
	e.record(t, "s2", q.ID, 3, 4)

	got, err = r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{AttemptCount: 2, AveragePercent: 63}, got)

	// 1/1 and 0/9: mean of percentages would be 50, ratio of sums is 10
	skew := e.quiz(t, "Skew", "p1")
	e.record(t, "s1", skew.ID, 1, 1)
	e.record(t, "s2", skew.ID, 0, 9)
	got, err = r.QuizSummary(ctx, skew.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{AttemptCount: 2, AveragePercent: 10}, got)

	empty := e.quiz(t, "Empty", "p1")
	e.record(t, "s1", empty.ID, 0, 0)
	got, err = r.QuizSummary(ctx, empty.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{AttemptCount: 1}, got)

	_, err = r.QuizSummary(ctx, "missing")
	require.ErrorIs(t, err, quiz.ErrNotFound)
}

func TestProfessorSummaryAndStatistics(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.reporter(nil)

	a := e.quiz(t, "A", "p1")
	b := e.quiz(t, "B", "p1")
	c := e.quiz(t, "C", "p1")
	other := e.quiz(t, "Other", "p2")

	e.record(t, "s1", a.ID, 1, 1)
	e.record(t, "s1", b.ID, 0, 9)
	e.record(t, "s1", other.ID, 5, 5)

	sum, err := r.ProfessorSummary(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, stats.ProfessorSummary{TotalQuizzes: 3, TotalAttempts: 2, AveragePercent: 10}, sum)

	sum, err = r.ProfessorSummary(ctx, "nobody")
	require.NoError(t, err)
	require.Equal(t, stats.ProfessorSummary{}, sum)

	list, err := r.ProfessorQuizStatistics(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	byID := map[string]stats.QuizStat{}
	for _, s := range list {
		byID[s.ID] = s
	}
	require.Equal(t, 100, byID[a.ID].AveragePercent)
	require.Equal(t, 1, byID[b.ID].AttemptCount)
	require.Equal(t, 0, byID[b.ID].AveragePercent)
	require.Equal(t, 0, byID[c.ID].AttemptCount)
	require.Equal(t, "C", byID[c.ID].Title)
}

func TestSummaryCacheInvalidatedOnAttempt(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := newMapCache()
	r := e.reporter(c)
	q := e.quiz(t, "Cells", "p1")

	e.record(t, "s1", q.ID, 2, 4)
	got, err := r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AttemptCount)
	_, err = r.ProfessorSummary(ctx, "p1")
	require.NoError(t, err)

	e.record(t, "s2", q.ID, 3, 4)
	got, err = r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AttemptCount, "served from cache")

	r.AttemptRecorded(ctx, attempt.Recorded{Attempt: attempt.Attempt{QuizID: q.ID}, ProfessorID: "p1"})
	require.ElementsMatch(t, []string{"stats:quiz:" + q.ID, "stats:professor:p1"}, c.bumped)

	got, err = r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{AttemptCount: 2, AveragePercent: 63}, got)
}

func TestStaleSummaryIsNotServedAfterConcurrentAttempt(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	c := newMapCache()
	r := e.reporter(c)
	q := e.quiz(t, "Cells", "p1")
	e.record(t, "s1", q.ID, 2, 4)

	// an attempt commits and invalidates after the summary was computed
	// but before it reaches the cache
	c.beforeSet = func() {
		e.record(t, "s2", q.ID, 3, 4)
		r.AttemptRecorded(ctx, attempt.Recorded{Attempt: attempt.Attempt{QuizID: q.ID}, ProfessorID: "p1"})
	}
	got, err := r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.AttemptCount)

	got, err = r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, stats.QuizSummary{AttemptCount: 2, AveragePercent: 63}, got)

	got, err = r.QuizSummary(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.AttemptCount, "served from the current generation")
	require.Len(t, c.data, 2)
}

func TestQuizDetailsNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.reporter(nil)
	q := e.quiz(t, "Cells", "p1")

	ana, err := e.people.CreateStudent(ctx, directory.Student{FirstName: "Ana", LastName: "K", Email: "a@example.com", Grade: "1"})
	require.NoError(t, err)

	_, err = e.attempts.InsertWithinLimit(ctx, attempt.Attempt{StudentID: ana.ID, QuizID: q.ID, Score: 1, Total: 2, SolvedAt: 100}, 5)
	require.NoError(t, err)
	_, err = e.attempts.InsertWithinLimit(ctx, attempt.Attempt{StudentID: "gone", QuizID: q.ID, Score: 2, Total: 2, SolvedAt: 200}, 5)
	require.NoError(t, err)

	list, err := r.QuizDetails(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "gone", list[0].StudentID)
	require.Empty(t, list[0].StudentFirstName)
	require.Equal(t, "Ana", list[1].StudentFirstName)

	b, err := json.Marshal(list[1])
	require.NoError(t, err)
	require.Contains(t, string(b), `"studentFirstName":"Ana"`)
	require.Contains(t, string(b), `"quiz_id":"`+q.ID+`"`)

	_, err = r.QuizDetails(ctx, "missing")
	require.ErrorIs(t, err, quiz.ErrNotFound)
}

func TestStudentProgressAndCounts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	r := e.reporter(nil)
	q := e.quiz(t, "Cells", "p1")

	m, err := e.materials.Create(ctx, material.Material{Title: "Cells", Description: "d", Subject: "biology", Grade: "1"})
	require.NoError(t, err)
	require.NoError(t, e.materials.MarkRead(ctx, "s1", m.ID))
	require.NoError(t, e.materials.MarkRead(ctx, "s1", m.ID))

	e.record(t, "s1", q.ID, 1, 2)
	e.record(t, "s1", q.ID, 2, 2)

	p, err := r.StudentProgress(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, []string{m.ID}, p.ReadMaterialIDs)
	require.Equal(t, []string{q.ID}, p.SolvedQuizIDs)

	p, err = r.StudentProgress(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, p.ReadMaterialIDs)
	require.NotNil(t, p.SolvedQuizIDs)

	_, err = e.people.CreateStudent(ctx, directory.Student{FirstName: "Ana", LastName: "K", Email: "a@example.com", Grade: "1"})
	require.NoError(t, err)
	counts, err := r.PlatformCounts(ctx)
	require.NoError(t, err)
	require.Equal(t, stats.PlatformCounts{Students: 1, Professors: 0, Materials: 1, Quizzes: 1}, counts)
}
