package quiz

// Choice is one selectable option for a question. IsCorrect is omitted from
// JSON when false so student-safe views can simply blank it out.
type Choice struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id,omitempty"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct,omitempty"`
}

// Question is a single prompt with its choices. IsMultiple is derived: it must
// always equal "more than one choice is correct" and is recomputed inside the
// same transaction as any choice mutation, never set by clients.
type Question struct {
	ID         string   `json:"id"`
	LessonID   string   `json:"lesson_id,omitempty"`
	Text       string   `json:"text"`
	IsMultiple bool     `json:"is_multiple"`
	Choices    []Choice `json:"choices"`
}

// Lesson is a named collection of questions.
type Lesson struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions,omitempty"`
	CreatedAt int64      `json:"created_at,omitempty"`
}

// LessonSummary is the listing view (no question tree).
type LessonSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Result records one scored submission attempt. Immutable once created; a user
// may submit the same lesson any number of times, producing one row each.
type Result struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	LessonID  string  `json:"lesson_id"`
	Score     float64 `json:"score"`
	CreatedAt int64   `json:"created_at"`
}

// UserAggregate is one user's rolled-up result history, as the rankings
// report consumes it. Rank is assigned after sorting by mean descending.
type UserAggregate struct {
	Username string  `json:"username"`
	Max      float64 `json:"highest_score"`
	Min      float64 `json:"lowest_score"`
	Mean     float64 `json:"average_score"`
	Sum      float64 `json:"total_score"`
	Rank     int     `json:"rank"`
}
