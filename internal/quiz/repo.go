package quiz

import "context"

// Store abstracts persistence for lessons and submission history. The SQL
// implementation backs the service; the in-memory one backs tests.
//
// Mutating methods that touch choices must recompute the owning question's
// is_multiple flag within the same atomic unit, so concurrent readers never
// observe the flag out of sync with the choice set.
type Store interface {
	// CreateLesson persists the whole lesson tree (lesson, questions,
	// choices) atomically. Either the full tree becomes visible or nothing.
	CreateLesson(ctx context.Context, l Lesson) error
	// GetLesson returns the full tree including answer keys.
	GetLesson(ctx context.Context, id string) (Lesson, error)
	ListLessons(ctx context.Context) ([]LessonSummary, error)
	// DeleteLesson removes the lesson and all descendant questions/choices.
	DeleteLesson(ctx context.Context, id string) error

	UpdateChoice(ctx context.Context, id, text string, isCorrect bool) (Choice, error)
	DeleteChoice(ctx context.Context, id string) error

	// InsertResult appends one immutable submission record.
	InsertResult(ctx context.Context, r Result) error
	ResultsByUser(ctx context.Context, userID string) ([]Result, error)
	// UserAggregates rolls up all results per user (max/min/mean/sum),
	// ordered by mean descending then username. Ranks are not assigned here.
	UserAggregates(ctx context.Context) ([]UserAggregate, error)
}

// multipleFromChoices is the invariant the Multiplicity Tracker maintains:
// a question is multi-select iff more than one of its choices is correct.
func multipleFromChoices(choices []Choice) bool {
	n := 0
	for _, c := range choices {
		if c.IsCorrect {
			n++
		}
	}
	return n > 1
}
