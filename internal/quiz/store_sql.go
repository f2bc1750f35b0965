package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/quizlab/quizlab/internal/storage"
)

// SQLStore implements Store over database/sql (sqlite or postgres).
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateLesson(ctx context.Context, l Lesson) error {
	return storage.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lessons (id,title,created_at) VALUES ($1,$2,$3)`,
			l.ID, l.Title, l.CreatedAt); err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}
		for _, q := range l.Questions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO questions (id,lesson_id,text,is_multiple) VALUES ($1,$2,$3,FALSE)`,
				q.ID, l.ID, q.Text); err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			for _, c := range q.Choices {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO choices (id,question_id,text,is_correct) VALUES ($1,$2,$3,$4)`,
					c.ID, q.ID, c.Text, c.IsCorrect); err != nil {
					return fmt.Errorf("insert choice: %w", err)
				}
			}
			if err := recomputeMultipleTx(ctx, tx, q.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) GetLesson(ctx context.Context, id string) (Lesson, error) {
	var l Lesson
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,created_at FROM lessons WHERE id=$1`, id)
	if err := row.Scan(&l.ID, &l.Title, &l.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Lesson{}, ErrLessonNotFound
		}
		return Lesson{}, err
	}

	qrows, err := s.db.QueryContext(ctx,
		`SELECT id,text,is_multiple FROM questions WHERE lesson_id=$1 ORDER BY id`, id)
	if err != nil {
		return Lesson{}, err
	}
	defer qrows.Close()
	for qrows.Next() {
		var q Question
		if err := qrows.Scan(&q.ID, &q.Text, &q.IsMultiple); err != nil {
			return Lesson{}, err
		}
		q.LessonID = l.ID
		l.Questions = append(l.Questions, q)
	}
	if err := qrows.Err(); err != nil {
		return Lesson{}, err
	}

	for i := range l.Questions {
		choices, err := s.choicesFor(ctx, l.Questions[i].ID)
		if err != nil {
			return Lesson{}, err
		}
		l.Questions[i].Choices = choices
	}
	return l, nil
}

func (s *SQLStore) choicesFor(ctx context.Context, questionID string) ([]Choice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,text,is_correct FROM choices WHERE question_id=$1 ORDER BY id`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Choice
	for rows.Next() {
		var c Choice
		if err := rows.Scan(&c.ID, &c.Text, &c.IsCorrect); err != nil {
			return nil, err
		}
		c.QuestionID = questionID
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListLessons(ctx context.Context) ([]LessonSummary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title FROM lessons ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LessonSummary{}
	for rows.Next() {
		var ls LessonSummary
		if err := rows.Scan(&ls.ID, &ls.Title); err != nil {
			return nil, err
		}
		out = append(out, ls)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteLesson(ctx context.Context, id string) error {
	// Questions and choices go with it via ON DELETE CASCADE.
	res, err := s.db.ExecContext(ctx, `DELETE FROM lessons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrLessonNotFound
	}
	return nil
}

func (s *SQLStore) UpdateChoice(ctx context.Context, id, text string, isCorrect bool) (Choice, error) {
	var out Choice
	err := storage.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		var qid string
		if err := tx.QueryRowContext(ctx,
			`SELECT question_id FROM choices WHERE id=$1`, id).Scan(&qid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrChoiceNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE choices SET text=$1, is_correct=$2 WHERE id=$3`, text, isCorrect, id); err != nil {
			return err
		}
		out = Choice{ID: id, QuestionID: qid, Text: text, IsCorrect: isCorrect}
		return recomputeMultipleTx(ctx, tx, qid)
	})
	return out, err
}

func (s *SQLStore) DeleteChoice(ctx context.Context, id string) error {
	return storage.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		var qid string
		if err := tx.QueryRowContext(ctx,
			`SELECT question_id FROM choices WHERE id=$1`, id).Scan(&qid); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrChoiceNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM choices WHERE id=$1`, id); err != nil {
			return err
		}
		return recomputeMultipleTx(ctx, tx, qid)
	})
}

// recomputeMultipleTx re-derives questions.is_multiple from the live choice
// set, writing only when the stored value differs. Every choice mutation path
// calls this inside its own transaction, so the flag is never stale outside it.
func recomputeMultipleTx(ctx context.Context, tx *sql.Tx, questionID string) error {
	var correct int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM choices WHERE question_id=$1 AND is_correct`, questionID).Scan(&correct); err != nil {
		return fmt.Errorf("count correct choices: %w", err)
	}
	multiple := correct > 1
	var stored bool
	if err := tx.QueryRowContext(ctx,
		`SELECT is_multiple FROM questions WHERE id=$1`, questionID).Scan(&stored); err != nil {
		return fmt.Errorf("read is_multiple: %w", err)
	}
	if stored == multiple {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE questions SET is_multiple=$1 WHERE id=$2`, multiple, questionID); err != nil {
		return fmt.Errorf("write is_multiple: %w", err)
	}
	return nil
}

func (s *SQLStore) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_results (id,user_id,lesson_id,score,created_at) VALUES ($1,$2,$3,$4,$5)`,
		r.ID, r.UserID, r.LessonID, r.Score, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

func (s *SQLStore) ResultsByUser(ctx context.Context, userID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,lesson_id,score,created_at FROM quiz_results WHERE user_id=$1 ORDER BY created_at, id`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.UserID, &r.LessonID, &r.Score, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) UserAggregates(ctx context.Context) ([]UserAggregate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.username, MAX(r.score), MIN(r.score), AVG(r.score), SUM(r.score)
		FROM quiz_results r
		JOIN users u ON u.id = r.user_id
		GROUP BY u.username
		ORDER BY AVG(r.score) DESC, u.username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UserAggregate
	for rows.Next() {
		var a UserAggregate
		if err := rows.Scan(&a.Username, &a.Max, &a.Min, &a.Mean, &a.Sum); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
