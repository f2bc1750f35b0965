package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// POST /auth/register  { "username": "...", "password": "...", "email": "..." }
// Creates the account and logs the user straight in.
func RegisterHandler(users UserStore, a *AuthService, bcryptCost int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Email    string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Username == "" || req.Password == "" {
			http.Error(w, "username and password required", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			http.Error(w, "hash password", http.StatusInternalServerError)
			return
		}
		u := User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			PasswordHash: string(hash),
			Email:        req.Email,
			Role:         "student",
			CreatedAt:    time.Now().Unix(),
		}
		if err := users.CreateUser(r.Context(), u); err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Username is already taken"})
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		tok, err := a.IssueJWT(u.ID, u.Username, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message": "User registered and logged in successfully",
			"token":   tok,
		})
	}
}

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(users UserStore, a *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		u, err := users.UserByName(r.Context(), req.Username)
		if err == nil {
			err = bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password))
		}
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Login failed"})
			return
		}

		tok, err := a.IssueJWT(u.ID, u.Username, u.Role)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Login successful",
			"token":   tok,
		})
	}
}

// POST /auth/logout — revokes the presented token. Mounted behind
// JWTMiddleware so the claims are already in context.
func LogoutHandler(a *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c := ClaimsFromContext(r.Context()); c != nil {
			a.Revoke(c)
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "User logged out successfully"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
