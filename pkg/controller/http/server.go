package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	domainConfig "github.com/ward-lab/themis/pkg/domain/model/config"
	"github.com/ward-lab/themis/pkg/usecase"
)

// Server is the REST controller for the proposer and reviewer surfaces
type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	catalog *domainConfig.Catalog
}

// Options is a functional option for Server
type Options func(*Server)

// WithCatalog exposes the constraint catalog on the API
func WithCatalog(catalog *domainConfig.Catalog) Options {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// New creates the HTTP server around the use cases
func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		uc:      uc,
		catalog: &domainConfig.Catalog{},
	}
	for _, opt := range opts {
		opt(s)
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(actorMiddleware)

		r.Get("/queue", s.handleQueue)
		r.Get("/constraints", s.handleConstraints)

		r.Route("/subjects", func(r chi.Router) {
			r.Post("/", s.handleCreateSubject)
			r.Get("/", s.handleListSubjects)

			r.Route("/{subjectID}", func(r chi.Router) {
				r.Get("/", s.handleGetSubject)
				r.Patch("/", s.handleUpdateSubject)

				r.Post("/decision", s.handleSubmitDecision)
				r.Get("/decisions", s.handleDecisionHistory)
				r.Post("/undo", s.handleUndo)
				r.Post("/retry", s.handleRetry)

				r.Put("/draft", s.handlePutDraft)
				r.Get("/draft", s.handleGetDraft)
				r.Delete("/draft", s.handleDeleteDraft)
			})
		})
	})

	return s
}

func (s *Server) handleConstraints(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
