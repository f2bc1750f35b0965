package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUsernameTaken is returned on registration with an existing username.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrUserNotFound is returned when a username has no account.
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Role         string // student|teacher|admin
	CreatedAt    int64
}

// UserStore abstracts account persistence (SQL in production, memory in tests).
type UserStore interface {
	CreateUser(ctx context.Context, u User) error
	UserByName(ctx context.Context, username string) (User, error)
}

type SQLUserStore struct {
	db *sql.DB
}

func NewSQLUserStore(db *sql.DB) *SQLUserStore { return &SQLUserStore{db: db} }

func (s *SQLUserStore) CreateUser(ctx context.Context, u User) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username=$1`, u.Username).Scan(&exists)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("check username: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id,username,password_hash,email,role,created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Username, u.PasswordHash, u.Email, u.Role, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLUserStore) UserByName(ctx context.Context, username string) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,username,password_hash,email,role,created_at FROM users WHERE username=$1`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	return u, nil
}

// MemoryUserStore backs tests.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User // keyed by username
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: map[string]User{}}
}

func (m *MemoryUserStore) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return ErrUsernameTaken
	}
	m.users[u.Username] = u
	return nil
}

func (m *MemoryUserStore) UserByName(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}
