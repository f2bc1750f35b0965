package storage

import (
	"context"
	"fmt"
	"strings"
)

// Up applies (idempotent) DDL for the quiz service:
//   - accounts (users)
//   - lesson content (lessons, questions, choices)
//   - submission history (quiz_results)
//
// Call this once on startup (after Connect). Drivers supported: postgres|sqlite.
// Children reference their parent with ON DELETE CASCADE, so deleting a lesson
// removes its questions and their choices in one statement.
func Up(ctx context.Context, db *DB, driver string) error {
	if db == nil || db.SQL == nil {
		return fmt.Errorf("migrations: db is nil")
	}

	var schema string
	switch normalizeDriver(driver) {
	case "postgres":
		schema = schemaPostgres
	case "sqlite":
		schema = schemaSQLite
	default:
		return fmt.Errorf("migrations: unsupported driver %q (expected postgres|sqlite)", driver)
	}

	// Try to run as a single script; if the driver rejects multiple statements,
	// fall back to splitting on semicolons (sufficient for simple DDL).
	if _, err := db.SQL.ExecContext(ctx, schema); err != nil {
		for _, stmt := range splitSQL(schema) {
			trim := strings.TrimSpace(stmt)
			if trim == "" || trim == ";" {
				continue
			}
			if _, e := db.SQL.ExecContext(ctx, stmt); e != nil {
				return fmt.Errorf("migrations: failed at:\n%s\nerr: %w", firstLine(stmt), e)
			}
		}
	}
	return nil
}

/* ----------------------------- POSTGRES SCHEMA ----------------------------- */

const schemaPostgres = `
-- Accounts --------------------------------------------------------------------
CREATE TABLE IF NOT EXISTS users (
  id             TEXT PRIMARY KEY,
  username       TEXT NOT NULL UNIQUE,
  password_hash  TEXT NOT NULL,
  email          TEXT,
  role           TEXT NOT NULL DEFAULT 'student',
  created_at     BIGINT NOT NULL
);

-- Lesson content --------------------------------------------------------------
CREATE TABLE IF NOT EXISTS lessons (
  id             TEXT PRIMARY KEY,
  title          TEXT NOT NULL,
  created_at     BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id             TEXT PRIMARY KEY,
  lesson_id      TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
  text           TEXT NOT NULL,
  is_multiple    BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS questions_lesson_idx ON questions (lesson_id);

CREATE TABLE IF NOT EXISTS choices (
  id             TEXT PRIMARY KEY,
  question_id    TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  text           TEXT NOT NULL,
  is_correct     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS choices_question_idx ON choices (question_id);

-- Submission history -----------------------------------------------------------
-- One row per submission attempt; never updated after insert.
CREATE TABLE IF NOT EXISTS quiz_results (
  id             TEXT PRIMARY KEY,
  user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  lesson_id      TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
  score          DOUBLE PRECISION NOT NULL CHECK (score >= 0 AND score <= 100),
  created_at     BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS quiz_results_user_idx ON quiz_results (user_id);
`

/* ------------------------------ SQLITE SCHEMA ------------------------------ */

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
  id             TEXT PRIMARY KEY,
  username       TEXT NOT NULL UNIQUE,
  password_hash  TEXT NOT NULL,
  email          TEXT,
  role           TEXT NOT NULL DEFAULT 'student',
  created_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS lessons (
  id             TEXT PRIMARY KEY,
  title          TEXT NOT NULL,
  created_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id             TEXT PRIMARY KEY,
  lesson_id      TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
  text           TEXT NOT NULL,
  is_multiple    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS questions_lesson_idx ON questions (lesson_id);

CREATE TABLE IF NOT EXISTS choices (
  id             TEXT PRIMARY KEY,
  question_id    TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
  text           TEXT NOT NULL,
  is_correct     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS choices_question_idx ON choices (question_id);

CREATE TABLE IF NOT EXISTS quiz_results (
  id             TEXT PRIMARY KEY,
  user_id        TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  lesson_id      TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
  score          REAL NOT NULL CHECK (score >= 0 AND score <= 100),
  created_at     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS quiz_results_user_idx ON quiz_results (user_id);
`

/* ------------------------------ LOCAL HELPERS ------------------------------ */

// splitSQL naively splits on ';' boundaries so we can run one statement at a
// time. Acceptable for our simple DDL (no functions/procedures).
func splitSQL(s string) []string {
	raw := strings.Split(s, ";")
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part+";")
	}
	return out
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
