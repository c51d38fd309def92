package main

import (
	"log"
	"net/http"
	"time"

	api "github.com/quizforge/quizforge/internal/api/http"
	"github.com/quizforge/quizforge/internal/auth"
	"github.com/quizforge/quizforge/internal/config"
	"github.com/quizforge/quizforge/internal/qtype"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func main() {
	cfg := config.FromEnv()

	// The registry is built once here and shared read-only by every request.
	reg := qtype.NewDefaultRegistry()

	authSvc := auth.NewService(cfg.AuthSecret)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.AuthorUser, cfg.AuthorPassHash))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Any authenticated user: grading and learner-facing projection.
		pr.Post("/questions/score", api.ScoreHandler(reg))
		pr.Post("/questions/display", api.DisplayHandler(reg))
		pr.Post("/questions/answer-check", api.AnswerCheckHandler(reg))
		pr.Get("/question-types", api.ListTypesHandler(reg))

		// Author-only: pre-save validation and authoring introspection.
		pr.Group(func(ar chi.Router) {
			ar.Use(auth.RequireRole(auth.RoleAuthor))
			ar.Post("/questions/validate", api.ValidateQuestionHandler(reg))
			ar.Route("/question-types/{type}", func(tr chi.Router) {
				tr.Get("/schema", api.SchemaHandler(reg))
				tr.Get("/defaults", api.DefaultSettingsHandler(reg))
				tr.Get("/rules", api.ValidationRulesHandler(reg))
				tr.Get("/metadata", api.MetadataHandler(reg))
				tr.Get("/templates", api.TemplatesHandler(reg))
			})
		})
	})

	log.Printf("quizforge gateway listening on %s", cfg.HTTPAddr)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
