package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizlab/quizlab/internal/auth"
	"github.com/quizlab/quizlab/internal/quiz"
)

// POST /lessons/{lessonID}/submit
// Body: { "answers": { "<question_id>": ["<choice_id>", ...], ... } }
// The acting user comes from the verified token, never the payload.
func SubmitAnswersHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "missing bearer", http.StatusUnauthorized)
			return
		}

		var req struct {
			Answers map[string][]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, quiz.NewValidationError("body", "malformed JSON: "+err.Error()))
			return
		}
		if req.Answers == nil {
			writeError(w, quiz.NewValidationError("answers", "required field is missing"))
			return
		}

		score, err := svc.SubmitAnswers(r.Context(), userID, chi.URLParam(r, "lessonID"), req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]float64{"score": score})
	}
}
