package http

import (
	"net/http"

	"github.com/quizlab/quizlab/internal/auth"
	"github.com/quizlab/quizlab/internal/quiz"
)

// GET /me/stats — descriptive statistics over the caller's own attempts.
func UserStatsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "missing bearer", http.StatusUnauthorized)
			return
		}
		st, err := svc.UserStats(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// GET /rankings — cross-user leaderboard ordered by mean score.
func RankingsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ranks, err := svc.Rankings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"user_rankings": ranks})
	}
}
