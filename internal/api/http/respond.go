package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizlab/quizlab/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses in one place:
// validation → 400, missing rows → 404, structurally impossible → 409.
func writeError(w http.ResponseWriter, err error) {
	var ve *quiz.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
	case errors.Is(err, quiz.ErrLessonNotFound),
		errors.Is(err, quiz.ErrChoiceNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, quiz.ErrNoResults):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "No quiz results found for this user."})
	case errors.Is(err, quiz.ErrNoQuestions):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
