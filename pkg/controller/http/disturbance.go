package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/disturbance"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/usecase"
)

func pathCategory(r *http.Request) types.Category {
	return types.Category(chi.URLParam(r, "category"))
}

func pathDisturbanceID(r *http.Request) types.DisturbanceID {
	return types.DisturbanceID(chi.URLParam(r, "disturbanceID"))
}

func queryStatuses(r *http.Request) ([]types.DisturbanceStatus, error) {
	var statuses []types.DisturbanceStatus
	for _, raw := range r.URL.Query()["status"] {
		status := types.DisturbanceStatus(raw)
		if err := status.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid status filter", goerr.T(errs.TagInvalidRequest))
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func queryCategories(r *http.Request) []types.Category {
	var categories []types.Category
	for _, raw := range r.URL.Query()["category"] {
		categories = append(categories, types.Category(raw))
	}
	return categories
}

func createDisturbanceHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usecase.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to decode request body", goerr.T(errs.TagInvalidRequest)))
			return
		}

		d, err := uc.CreateDisturbance(r.Context(), pathCategory(r), req)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusCreated, d)
	}
}

func updateDisturbanceHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var incoming disturbance.Update
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to decode request body", goerr.T(errs.TagInvalidRequest)))
			return
		}

		d, err := uc.UpdateDisturbance(r.Context(), pathCategory(r), pathDisturbanceID(r), incoming)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, d)
	}
}

func deleteDisturbanceHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteDisturbance(r.Context(), pathCategory(r), pathDisturbanceID(r)); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusNoContent, nil)
	}
}

func getDisturbanceHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := uc.GetDisturbance(r.Context(), pathCategory(r), pathDisturbanceID(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, d)
	}
}

func listDisturbancesHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := queryStatuses(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		ds, err := uc.ListDisturbances(r.Context(), statuses, queryCategories(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		if ds == nil {
			ds = []*disturbance.Disturbance{}
		}
		respondJSON(w, r, http.StatusOK, ds)
	}
}

func listByPartyHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		statuses, err := queryStatuses(r)
		if err != nil {
			handleError(w, r, err)
			return
		}

		ds, err := uc.ListDisturbancesByParty(r.Context(), chi.URLParam(r, "partyID"), queryCategories(r), statuses)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if ds == nil {
			ds = []*disturbance.Disturbance{}
		}
		respondJSON(w, r, http.StatusOK, ds)
	}
}
