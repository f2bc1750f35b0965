package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizlab/quizlab/internal/quiz"
	"github.com/quizlab/quizlab/internal/rbac"
)

// POST /lessons — create a lesson from its full question/choice tree.
func CreateLessonHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.LessonInput
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			writeError(w, quiz.NewValidationError("body", "malformed JSON: "+err.Error()))
			return
		}
		id, err := svc.CreateLesson(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{
			"message":   "Lesson created successfully.",
			"lesson_id": id,
		})
	}
}

// GET /lessons
func ListLessonsHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := svc.ListLessons(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, lessons)
	}
}

// GET /lessons/{lessonID} — answer keys are visible only to lesson authors.
func GetLessonHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		l, err := svc.GetLesson(r.Context(), chi.URLParam(r, "lessonID"), rbac.HasPerm(role, "lesson:author"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

// DELETE /lessons/{lessonID}
func DeleteLessonHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteLesson(r.Context(), chi.URLParam(r, "lessonID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PUT /choices/{choiceID}
func UpdateChoiceHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.ChoiceUpdate
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, quiz.NewValidationError("body", "malformed JSON: "+err.Error()))
			return
		}
		c, err := svc.UpdateChoice(r.Context(), chi.URLParam(r, "choiceID"), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DELETE /choices/{choiceID}
func DeleteChoiceHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteChoice(r.Context(), chi.URLParam(r, "choiceID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
