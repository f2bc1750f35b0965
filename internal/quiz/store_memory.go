package quiz

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a mutex-guarded Store used in tests in place of SQL.
type MemoryStore struct {
	mu        sync.RWMutex
	lessons   map[string]Lesson
	results   []Result
	usernames map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lessons:   map[string]Lesson{},
		usernames: map[string]string{},
	}
}

// SetUsername registers a display name for aggregate reports (the SQL store
// joins the users table for this).
func (m *MemoryStore) SetUsername(userID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usernames[userID] = username
}

func (m *MemoryStore) CreateLesson(_ context.Context, l Lesson) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range l.Questions {
		l.Questions[i].LessonID = l.ID
		l.Questions[i].IsMultiple = multipleFromChoices(l.Questions[i].Choices)
		for j := range l.Questions[i].Choices {
			l.Questions[i].Choices[j].QuestionID = l.Questions[i].ID
		}
	}
	m.lessons[l.ID] = l
	return nil
}

func (m *MemoryStore) GetLesson(_ context.Context, id string) (Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lessons[id]
	if !ok {
		return Lesson{}, ErrLessonNotFound
	}
	return cloneLesson(l), nil
}

func (m *MemoryStore) ListLessons(_ context.Context) ([]LessonSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LessonSummary, 0, len(m.lessons))
	for _, l := range m.lessons {
		out = append(out, LessonSummary{ID: l.ID, Title: l.Title})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) DeleteLesson(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lessons[id]; !ok {
		return ErrLessonNotFound
	}
	delete(m.lessons, id)
	return nil
}

func (m *MemoryStore) UpdateChoice(_ context.Context, id, text string, isCorrect bool) (Choice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for lid, l := range m.lessons {
		for qi := range l.Questions {
			for ci := range l.Questions[qi].Choices {
				if l.Questions[qi].Choices[ci].ID != id {
					continue
				}
				l.Questions[qi].Choices[ci].Text = text
				l.Questions[qi].Choices[ci].IsCorrect = isCorrect
				l.Questions[qi].IsMultiple = multipleFromChoices(l.Questions[qi].Choices)
				m.lessons[lid] = l
				return l.Questions[qi].Choices[ci], nil
			}
		}
	}
	return Choice{}, ErrChoiceNotFound
}

func (m *MemoryStore) DeleteChoice(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for lid, l := range m.lessons {
		for qi := range l.Questions {
			for ci := range l.Questions[qi].Choices {
				if l.Questions[qi].Choices[ci].ID != id {
					continue
				}
				q := &l.Questions[qi]
				q.Choices = append(q.Choices[:ci], q.Choices[ci+1:]...)
				q.IsMultiple = multipleFromChoices(q.Choices)
				m.lessons[lid] = l
				return nil
			}
		}
	}
	return ErrChoiceNotFound
}

func (m *MemoryStore) InsertResult(_ context.Context, r Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

func (m *MemoryStore) ResultsByUser(_ context.Context, userID string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Result
	for _, r := range m.results {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MemoryStore) UserAggregates(_ context.Context) ([]UserAggregate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byUser := map[string][]float64{}
	for _, r := range m.results {
		byUser[r.UserID] = append(byUser[r.UserID], r.Score)
	}
	out := make([]UserAggregate, 0, len(byUser))
	for uid, scores := range byUser {
		name := m.usernames[uid]
		if name == "" {
			name = uid
		}
		a := UserAggregate{Username: name, Max: scores[0], Min: scores[0]}
		for _, s := range scores {
			if s > a.Max {
				a.Max = s
			}
			if s < a.Min {
				a.Min = s
			}
			a.Sum += s
		}
		a.Mean = a.Sum / float64(len(scores))
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func cloneLesson(l Lesson) Lesson {
	out := l
	out.Questions = make([]Question, len(l.Questions))
	for i, q := range l.Questions {
		out.Questions[i] = q
		out.Questions[i].Choices = append([]Choice(nil), q.Choices...)
	}
	return out
}
