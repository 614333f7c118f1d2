package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/feedback"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/usecase"
)

// UseCase is the surface of the application layer the API exposes.
type UseCase interface {
	CreateDisturbance(ctx context.Context, category types.Category, req usecase.CreateRequest) (*disturbance.Disturbance, error)
	UpdateDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID, incoming disturbance.Update) (*disturbance.Disturbance, error)
	DeleteDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) error
	GetDisturbance(ctx context.Context, category types.Category, id types.DisturbanceID) (*disturbance.Disturbance, error)
	ListDisturbances(ctx context.Context, statuses []types.DisturbanceStatus, categories []types.Category) ([]*disturbance.Disturbance, error)
	ListDisturbancesByParty(ctx context.Context, partyID string, categories []types.Category, statuses []types.DisturbanceStatus) ([]*disturbance.Disturbance, error)
	CreateFeedback(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) (*feedback.Feedback, error)
	DeleteFeedback(ctx context.Context, category types.Category, id types.DisturbanceID, partyID string) error
}

type Server struct {
	router *chi.Mux
}

var _ UseCase = &usecase.UseCases{}

func New(uc UseCase) *Server {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(panicRecoveryMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api/v1/disturbances", func(r chi.Router) {
		r.Get("/", listDisturbancesHandler(uc))
		r.Get("/affecteds/{partyID}", listByPartyHandler(uc))

		r.Route("/{category}", func(r chi.Router) {
			r.Post("/", createDisturbanceHandler(uc))

			r.Route("/{disturbanceID}", func(r chi.Router) {
				r.Get("/", getDisturbanceHandler(uc))
				r.Patch("/", updateDisturbanceHandler(uc))
				r.Delete("/", deleteDisturbanceHandler(uc))

				r.Post("/feedback", createFeedbackHandler(uc))
				r.Delete("/feedback/{partyID}", deleteFeedbackHandler(uc))
			})
		})
	})

	return &Server{router: r}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
