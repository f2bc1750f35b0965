package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LessonInput is the typed creation payload. Validation is field-level and
// strict: a missing title, an empty question list, or a choice without an
// is_correct flag all fail before anything is persisted.
type LessonInput struct {
	Title     string          `json:"title" validate:"required"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

type QuestionInput struct {
	Text    string        `json:"text" validate:"required"`
	Choices []ChoiceInput `json:"choices" validate:"required,min=1,dive"`
}

type ChoiceInput struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect *bool  `json:"is_correct" validate:"required"`
}

// ChoiceUpdate is the payload for editing a single existing choice.
type ChoiceUpdate struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect *bool  `json:"is_correct" validate:"required"`
}

// Service holds the core use cases: building lessons, scoring submissions and
// reporting statistics. All persistence goes through the injected Store.
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func NewService(store Store) *Service {
	return &Service{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// CreateLesson validates the payload and persists the whole tree as one unit.
// Returns the new lesson ID.
func (s *Service) CreateLesson(ctx context.Context, in LessonInput) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", asValidationError(err)
	}

	l := Lesson{
		ID:        s.newID(),
		Title:     in.Title,
		CreatedAt: s.now().Unix(),
	}
	for _, qi := range in.Questions {
		q := Question{ID: s.newID(), Text: qi.Text}
		for _, ci := range qi.Choices {
			q.Choices = append(q.Choices, Choice{
				ID:        s.newID(),
				Text:      ci.Text,
				IsCorrect: *ci.IsCorrect,
			})
		}
		l.Questions = append(l.Questions, q)
	}

	if err := s.store.CreateLesson(ctx, l); err != nil {
		return "", fmt.Errorf("create lesson: %w", err)
	}
	return l.ID, nil
}

// GetLesson returns the lesson tree. Unless includeAnswers is set (lesson
// authors), is_correct is blanked so students cannot read the answer key.
func (s *Service) GetLesson(ctx context.Context, id string, includeAnswers bool) (Lesson, error) {
	l, err := s.store.GetLesson(ctx, id)
	if err != nil {
		return Lesson{}, err
	}
	if !includeAnswers {
		for i := range l.Questions {
			for j := range l.Questions[i].Choices {
				l.Questions[i].Choices[j].IsCorrect = false
			}
		}
	}
	return l, nil
}

func (s *Service) ListLessons(ctx context.Context) ([]LessonSummary, error) {
	return s.store.ListLessons(ctx)
}

func (s *Service) DeleteLesson(ctx context.Context, id string) error {
	return s.store.DeleteLesson(ctx, id)
}

func (s *Service) UpdateChoice(ctx context.Context, id string, in ChoiceUpdate) (Choice, error) {
	if err := s.validate.Struct(in); err != nil {
		return Choice{}, asValidationError(err)
	}
	return s.store.UpdateChoice(ctx, id, in.Text, *in.IsCorrect)
}

func (s *Service) DeleteChoice(ctx context.Context, id string) error {
	return s.store.DeleteChoice(ctx, id)
}

// SubmitAnswers scores a submission against the lesson's answer key and
// records the attempt.
//
// The answer map must cover the lesson's question set exactly: a missing
// question or an unknown key both fail validation. Per question there is no
// partial credit; the submitted choice set must equal the correct set.
func (s *Service) SubmitAnswers(ctx context.Context, userID, lessonID string, answers map[string][]string) (float64, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if err != nil {
		return 0, err
	}
	total := len(lesson.Questions)
	if total == 0 {
		return 0, fmt.Errorf("lesson %s: %w", lessonID, ErrNoQuestions)
	}

	if len(answers) != total {
		return 0, NewValidationError("answers", "answers must be provided for all questions")
	}
	for _, q := range lesson.Questions {
		if _, ok := answers[q.ID]; !ok {
			return 0, NewValidationError("answers", "answers must be provided for all questions")
		}
	}

	correct := 0
	for _, q := range lesson.Questions {
		want := map[string]struct{}{}
		for _, c := range q.Choices {
			if c.IsCorrect {
				want[c.ID] = struct{}{}
			}
		}
		if equalIDSets(answers[q.ID], want) {
			correct++
		}
	}

	score := float64(correct) / float64(total) * 100

	r := Result{
		ID:        s.newID(),
		UserID:    userID,
		LessonID:  lessonID,
		Score:     score,
		CreatedAt: s.now().Unix(),
	}
	if err := s.store.InsertResult(ctx, r); err != nil {
		return 0, fmt.Errorf("record result: %w", err)
	}
	return score, nil
}

// equalIDSets compares the submitted IDs (duplicates collapse) against want.
func equalIDSets(got []string, want map[string]struct{}) bool {
	gotSet := make(map[string]struct{}, len(got))
	for _, id := range got {
		gotSet[id] = struct{}{}
	}
	if len(gotSet) != len(want) {
		return false
	}
	for id := range gotSet {
		if _, ok := want[id]; !ok {
			return false
		}
	}
	return true
}

// asValidationError flattens validator.ValidationErrors into our field map.
func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("body", err.Error())
	}
	fields := map[string]string{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Namespace()] = "required field is missing"
		case "min":
			fields[fe.Namespace()] = "must not be empty"
		default:
			fields[fe.Namespace()] = "failed " + fe.Tag() + " validation"
		}
	}
	return &ValidationError{Fields: fields}
}
