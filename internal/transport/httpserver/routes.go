package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"safety-survey-go/internal/config"
	"safety-survey-go/internal/transport/httpserver/handler"
	authmw "safety-survey-go/internal/transport/httpserver/middleware"
	"safety-survey-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, gate *authmw.AccessGate, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(authmw.NewCORS([]string{"http://localhost:8081", "http://localhost:19006"}))

	r.Route("/api", func(r chi.Router) {
		r.Use(gate.Middleware)

		r.Get("/", handlers.Index)
		r.Post("/signin", handlers.SignIn)
		r.Get("/accounts", handlers.ListAccounts)

		r.Get("/projects", handlers.ListProjects)
		r.Get("/projects/{id}", handlers.GetProject)
		r.Get("/projects/{id}/surveys", handlers.ListSurveys)
		r.Post("/projects/{id}/surveys", handlers.CreateSurvey)

		r.Get("/surveys", handlers.ListSurveys)
		r.Post("/surveys", handlers.CreateSurvey)
		r.Get("/surveys/code/{access_code}", handlers.GetSurveyByCode)
		r.Post("/surveys/join/{access_code}", handlers.JoinSurvey)
		r.Get("/filled-surveys", handlers.FilledSurveys)
		r.Get("/surveys/{id}", handlers.GetSurvey)
		r.Put("/surveys/{id}", handlers.UpdateSurvey)
		r.Patch("/surveys/{id}", handlers.UpdateSurvey)
		r.Delete("/surveys/{id}", handlers.DeleteSurvey)

		r.Get("/surveys/{id}/risk_notes", handlers.ListRiskNotesBySurvey)
		r.Post("/surveys/{id}/risk_notes", handlers.CreateRiskNotes)
		r.Get("/risk_notes", handlers.ListRiskNotes)
		r.Put("/risk_notes/{id}", handlers.UpdateRiskNote)
		r.Patch("/risk_notes/{id}", handlers.UpdateRiskNote)

		r.Post("/transcribe", handlers.Transcribe)
		r.Post("/translate", handlers.Translate)
		r.Post("/upload-images", handlers.UploadImages)
		r.Get("/retrieve-image", handlers.RetrieveImage)
	})

	return r
}
