package http

import (
	"github.com/go-chi/chi/v5"

	"github.com/quizlab/quizlab/internal/auth"
	"github.com/quizlab/quizlab/internal/quiz"
	"github.com/quizlab/quizlab/internal/rbac"
)

// Routes mounts the full API surface: open auth endpoints plus the protected
// group (JWT → role in context → RBAC guard per route).
func Routes(svc *quiz.Service, users auth.UserStore, authSvc *auth.AuthService, bcryptCost int) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", auth.RegisterHandler(users, authSvc, bcryptCost))
	r.Post("/auth/login", auth.LoginHandler(users, authSvc))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Post("/auth/logout", auth.LogoutHandler(authSvc))

		pr.With(rbac.Require("lesson:create")).
			Post("/lessons", CreateLessonHandler(svc))
		pr.With(rbac.Require("lesson:list")).
			Get("/lessons", ListLessonsHandler(svc))
		pr.With(rbac.Require("lesson:view")).
			Get("/lessons/{lessonID}", GetLessonHandler(svc))
		pr.With(rbac.Require("lesson:delete")).
			Delete("/lessons/{lessonID}", DeleteLessonHandler(svc))

		pr.With(rbac.Require("choice:edit")).
			Put("/choices/{choiceID}", UpdateChoiceHandler(svc))
		pr.With(rbac.Require("choice:edit")).
			Delete("/choices/{choiceID}", DeleteChoiceHandler(svc))

		pr.With(rbac.Require("submission:create")).
			Post("/lessons/{lessonID}/submit", SubmitAnswersHandler(svc))

		pr.With(rbac.Require("stats:view")).
			Get("/me/stats", UserStatsHandler(svc))
		pr.With(rbac.Require("rankings:view")).
			Get("/rankings", RankingsHandler(svc))
	})

	return r
}
