package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
)

type createFeedbackRequest struct {
	PartyID string `json:"partyId"`
}

func createFeedbackHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "failed to decode request body", goerr.T(errs.TagInvalidRequest)))
			return
		}
		if req.PartyID == "" {
			handleError(w, r, goerr.New("partyId is required", goerr.T(errs.TagInvalidRequest)))
			return
		}

		fb, err := uc.CreateFeedback(r.Context(), pathCategory(r), pathDisturbanceID(r), req.PartyID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusCreated, fb)
	}
}

func deleteFeedbackHandler(uc UseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.DeleteFeedback(r.Context(), pathCategory(r), pathDisturbanceID(r), chi.URLParam(r, "partyID")); err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusNoContent, nil)
	}
}
