package quiz_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurseconnect/lms/internal/db"
	"github.com/nurseconnect/lms/internal/quiz"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}

func sampleQuiz(t *testing.T, title, subject, grade string) quiz.Quiz {
	t.Helper()
	var qs []quiz.Question
	require.NoError(t, json.Unmarshal([]byte(`[{"type":"single","correct":"B"},{"type":"hotspot","hotspots":[{"x":10,"y":10,"r":5}]}]`), &qs))
	return quiz.Quiz{Title: title, Subject: subject, Grade: grade, ProfessorID: "prof-1", Questions: qs}
}

func TestSQLStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewSQLStore(openDB(t))

	created, err := store.Create(ctx, sampleQuiz(t, "Anatomy", "biology", "1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Anatomy", got.Title)
	require.Nil(t, got.MaxAttempts)
	require.Equal(t, 1, got.AttemptLimit())
	require.Len(t, got.Questions, 2)
	require.Equal(t, quiz.KindHotspot, got.Questions[1].Kind)

	_, err = store.Get(ctx, "missing")
	require.ErrorIs(t, err, quiz.ErrNotFound)
}

func TestSQLStoreMalformedQuestions(t *testing.T) {
	ctx := context.Background()
	dbh := openDB(t)
	store := quiz.NewSQLStore(dbh)

	_, err := dbh.ExecContext(ctx, `INSERT INTO quizzes (id,title,questions_json,subject,grade,professor_id,hidden,created_at)
		VALUES ('bad','Broken','{not json','s','1','p',0,1)`)
	require.NoError(t, err)

	meta, err := store.Get(ctx, "bad")
	require.ErrorIs(t, err, quiz.ErrMalformedQuestions)
	require.Equal(t, "p", meta.ProfessorID)
	require.Nil(t, meta.Questions)

	list, err := store.List(ctx, quiz.ListOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].Questions)
}

func TestSQLStoreListFilters(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewSQLStore(openDB(t))

	_, err := store.Create(ctx, sampleQuiz(t, "A", "biology", "1"))
	require.NoError(t, err)
	_, err = store.Create(ctx, sampleQuiz(t, "B", "biology", "2"))
	require.NoError(t, err)
	hidden := sampleQuiz(t, "C", "chemistry", "1")
	hidden.Hidden = true
	_, err = store.Create(ctx, hidden)
	require.NoError(t, err)

	all, err := store.List(ctx, quiz.ListOpts{IncludeHidden: true})
	require.NoError(t, err)
	require.Len(t, all, 3)

	visible, err := store.List(ctx, quiz.ListOpts{})
	require.NoError(t, err)
	require.Len(t, visible, 2)

	bio1, err := store.List(ctx, quiz.ListOpts{Subject: "biology", Grade: "1"})
	require.NoError(t, err)
	require.Len(t, bio1, 1)
	require.Equal(t, "A", bio1[0].Title)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestSQLStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewSQLStore(openDB(t))

	q, err := store.Create(ctx, sampleQuiz(t, "A", "biology", "1"))
	require.NoError(t, err)

	three := 3
	q.Title = "A2"
	q.MaxAttempts = &three
	updated, err := store.Update(ctx, q)
	require.NoError(t, err)
	require.Equal(t, "A2", updated.Title)
	require.Equal(t, 3, updated.AttemptLimit())

	q.ID = "missing"
	_, err = store.Update(ctx, q)
	require.ErrorIs(t, err, quiz.ErrNotFound)
}

func TestSQLStoreDeleteRunsCascades(t *testing.T) {
	ctx := context.Background()
	var cascaded []string
	cascade := func(ctx context.Context, tx *sql.Tx, quizID string) error {
		cascaded = append(cascaded, quizID)
		_, err := tx.ExecContext(ctx, `DELETE FROM attempts WHERE quiz_id=$1`, quizID)
		return err
	}
	store := quiz.NewSQLStore(openDB(t), cascade)

	q, err := store.Create(ctx, sampleQuiz(t, "A", "biology", "1"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, q.ID))
	require.Equal(t, []string{q.ID}, cascaded)

	_, err = store.Get(ctx, q.ID)
	require.ErrorIs(t, err, quiz.ErrNotFound)
	require.ErrorIs(t, store.Delete(ctx, q.ID), quiz.ErrNotFound)
}
