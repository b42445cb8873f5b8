package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pixcore/pixcore-api/internal/api"
	apimiddleware "github.com/pixcore/pixcore-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	generationHandler := api.NewGenerationHandler(app.generationService, app.logger)
	versionHandler := api.NewVersionHandler(app.versionService, app.logger)
	shotHandler := api.NewShotHandler(app.shotService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/generate", func(r chi.Router) {
			r.Post("/text-to-image", generationHandler.CreateTextToImage)
			r.Post("/text-to-video", generationHandler.CreateTextToVideo)
			r.Post("/image-to-video", generationHandler.CreateImageToVideo)
			r.Post("/estimate", generationHandler.Estimate)

			r.Get("/tasks/{taskID}", generationHandler.GetTaskStatus)
			r.Post("/tasks/{taskID}/cancel", generationHandler.CancelTask)
		})

		r.Route("/shots", func(r chi.Router) {
			r.Post("/", shotHandler.CreateShot)
			r.Get("/{shotID}", shotHandler.GetShot)
			r.Get("/{shotID}/versions", versionHandler.ListShotVersions)
		})

		r.Route("/versions", func(r chi.Router) {
			r.Get("/{versionID}", versionHandler.GetVersion)
			r.Post("/{versionID}/set-primary", versionHandler.SetPrimary)
			r.Delete("/{versionID}", versionHandler.DeleteVersion)
		})
	})

	// Persisted artifacts are addressed as /media/shots/{shotID}/{file}.
	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(app.config.Storage.Root)))
	r.Get("/media/*", fileServer.ServeHTTP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
