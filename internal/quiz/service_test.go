package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolp(b bool) *bool { return &b }

// twoQuestionLesson: q0 is single-select (choice 1 correct), q1 is
// multi-select (choices 0 and 2 correct).
func twoQuestionLesson() LessonInput {
	return LessonInput{
		Title: "Geography",
		Questions: []QuestionInput{
			{
				Text: "Capital of France?",
				Choices: []ChoiceInput{
					{Text: "Berlin", IsCorrect: boolp(false)},
					{Text: "Paris", IsCorrect: boolp(true)},
					{Text: "Madrid", IsCorrect: boolp(false)},
				},
			},
			{
				Text: "Which are oceans?",
				Choices: []ChoiceInput{
					{Text: "Pacific", IsCorrect: boolp(true)},
					{Text: "Sahara", IsCorrect: boolp(false)},
					{Text: "Atlantic", IsCorrect: boolp(true)},
				},
			},
		},
	}
}

func newTestService() (*Service, *MemoryStore) {
	store := NewMemoryStore()
	return NewService(store), store
}

func mustCreate(t *testing.T, svc *Service, in LessonInput) Lesson {
	t.Helper()
	ctx := context.Background()
	id, err := svc.CreateLesson(ctx, in)
	require.NoError(t, err)
	l, err := svc.store.GetLesson(ctx, id)
	require.NoError(t, err)
	return l
}

// correctAnswers builds the exactly-right submission for a stored lesson.
func correctAnswers(l Lesson) map[string][]string {
	out := map[string][]string{}
	for _, q := range l.Questions {
		ids := []string{}
		for _, c := range q.Choices {
			if c.IsCorrect {
				ids = append(ids, c.ID)
			}
		}
		out[q.ID] = ids
	}
	return out
}

func TestCreateLesson(t *testing.T) {
	svc, _ := newTestService()
	l := mustCreate(t, svc, twoQuestionLesson())

	assert.Equal(t, "Geography", l.Title)
	require.Len(t, l.Questions, 2)
	assert.Len(t, l.Questions[0].Choices, 3)

	// is_multiple is derived from the correct-choice count, never taken
	// from the payload.
	assert.False(t, l.Questions[0].IsMultiple)
	assert.True(t, l.Questions[1].IsMultiple)
}

func TestCreateLesson_InvalidPayloadPersistsNothing(t *testing.T) {
	testCases := []struct {
		name string
		in   LessonInput
	}{
		{
			name: "missing title",
			in: LessonInput{
				Questions: []QuestionInput{
					{Text: "Q?", Choices: []ChoiceInput{{Text: "A", IsCorrect: boolp(true)}}},
				},
			},
		},
		{
			name: "no questions",
			in:   LessonInput{Title: "Empty"},
		},
		{
			name: "question missing text",
			in: LessonInput{
				Title: "Bad",
				Questions: []QuestionInput{
					{Choices: []ChoiceInput{{Text: "A", IsCorrect: boolp(true)}}},
				},
			},
		},
		{
			name: "question without choices",
			in: LessonInput{
				Title:     "Bad",
				Questions: []QuestionInput{{Text: "Q?"}},
			},
		},
		{
			name: "choice missing is_correct",
			in: LessonInput{
				Title: "Bad",
				Questions: []QuestionInput{
					{Text: "Q?", Choices: []ChoiceInput{{Text: "A"}}},
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newTestService()
			_, err := svc.CreateLesson(context.Background(), tc.in)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected validation error, got %v", err)

			lessons, err := store.ListLessons(context.Background())
			require.NoError(t, err)
			assert.Empty(t, lessons, "failed create must leave no partial rows")
		})
	}
}

func TestChoiceMutationsKeepIsMultipleConsistent(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	q0 := l.Questions[0]
	require.False(t, q0.IsMultiple)

	// Marking a second choice correct flips the flag.
	_, err := svc.UpdateChoice(ctx, q0.Choices[0].ID, ChoiceUpdate{Text: "Berlin", IsCorrect: boolp(true)})
	require.NoError(t, err)
	got, err := store.GetLesson(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, got.Questions[0].IsMultiple)

	// Reverting clears it again.
	_, err = svc.UpdateChoice(ctx, q0.Choices[0].ID, ChoiceUpdate{Text: "Berlin", IsCorrect: boolp(false)})
	require.NoError(t, err)
	got, err = store.GetLesson(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, got.Questions[0].IsMultiple)

	// Deleting one correct choice of a multi-select demotes it.
	q1 := l.Questions[1]
	require.True(t, q1.IsMultiple)
	require.NoError(t, svc.DeleteChoice(ctx, q1.Choices[0].ID))
	got, err = store.GetLesson(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, got.Questions[1].IsMultiple)
}

func TestSubmitAnswers_AllCorrect(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	score, err := svc.SubmitAnswers(ctx, "u1", l.ID, correctAnswers(l))
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)

	results, err := store.ResultsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 100.0, results[0].Score)
	assert.Equal(t, l.ID, results[0].LessonID)
}

func TestSubmitAnswers_NoPartialCredit(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	q0, q1 := l.Questions[0], l.Questions[1]

	// q0 exactly right, q1 under-selected (one of two correct): half credit
	// for the lesson, zero for q1.
	answers := correctAnswers(l)
	answers[q1.ID] = []string{q1.Choices[0].ID}
	score, err := svc.SubmitAnswers(ctx, "u1", l.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 50.0, score)

	// Over-selection also scores zero for the question.
	answers = correctAnswers(l)
	answers[q0.ID] = []string{q0.Choices[0].ID, q0.Choices[1].ID}
	score, err = svc.SubmitAnswers(ctx, "u1", l.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 50.0, score)

	// Everything wrong: zero overall.
	score, err = svc.SubmitAnswers(ctx, "u1", l.ID, map[string][]string{
		q0.ID: {q0.Choices[0].ID},
		q1.ID: {q1.Choices[1].ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestSubmitAnswers_RequiresExactQuestionSet(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	full := correctAnswers(l)

	missing := map[string][]string{l.Questions[0].ID: full[l.Questions[0].ID]}

	extra := correctAnswers(l)
	extra["not-a-question"] = []string{"x"}

	for name, answers := range map[string]map[string][]string{
		"missing question": missing,
		"extra question":   extra,
		"empty map":        {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SubmitAnswers(ctx, "u1", l.ID, answers)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Contains(t, err.Error(), "answers must be provided for all questions")
		})
	}

	// Rejected submissions record nothing.
	results, err := store.ResultsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSubmitAnswers_LessonNotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.SubmitAnswers(context.Background(), "u1", "nope", map[string][]string{})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestSubmitAnswers_ZeroQuestionLesson(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	// The builder refuses empty lessons, so seed the store directly.
	require.NoError(t, store.CreateLesson(ctx, Lesson{ID: "empty", Title: "Empty"}))

	_, err := svc.SubmitAnswers(ctx, "u1", "empty", map[string][]string{})
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSubmitAnswers_RepeatSubmissionsAppend(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	answers := correctAnswers(l)
	for i := 0; i < 3; i++ {
		_, err := svc.SubmitAnswers(ctx, "u1", l.ID, answers)
		require.NoError(t, err)
	}

	results, err := store.ResultsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, results, 3, "each attempt is its own immutable row")
}

func TestDeleteLessonRemovesDescendants(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())
	choiceID := l.Questions[0].Choices[0].ID

	require.NoError(t, svc.DeleteLesson(ctx, l.ID))

	_, err := store.GetLesson(ctx, l.ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	// The choice tree went with the lesson.
	_, err = svc.UpdateChoice(ctx, choiceID, ChoiceUpdate{Text: "x", IsCorrect: boolp(false)})
	assert.ErrorIs(t, err, ErrChoiceNotFound)

	assert.ErrorIs(t, svc.DeleteLesson(ctx, l.ID), ErrLessonNotFound)
}

func TestGetLessonHidesAnswerKeyFromStudents(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	l := mustCreate(t, svc, twoQuestionLesson())

	got, err := svc.GetLesson(ctx, l.ID, false)
	require.NoError(t, err)
	for _, q := range got.Questions {
		for _, c := range q.Choices {
			assert.False(t, c.IsCorrect)
		}
	}
	// Derived flag stays visible; it leaks only the count being >1, which
	// the answering UI needs anyway.
	assert.True(t, got.Questions[1].IsMultiple)

	got, err = svc.GetLesson(ctx, l.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Questions[0].Choices[1].IsCorrect)
}
