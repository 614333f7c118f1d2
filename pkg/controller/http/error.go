package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	status := http.StatusInternalServerError
	switch {
	case goerr.HasTag(err, errs.TagNotFound):
		status = http.StatusNotFound
	case goerr.HasTag(err, errs.TagValidation), goerr.HasTag(err, errs.TagInvalidRequest):
		status = http.StatusBadRequest
	case goerr.HasTag(err, errs.TagConflict):
		status = http.StatusConflict
	case goerr.HasTag(err, errs.TagExternal):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		errs.Handle(ctx, err)
	} else {
		logging.From(ctx).Warn("request failed",
			logging.ErrAttr(err),
			"path", r.URL.Path,
			"status", status,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); encErr != nil {
		logging.From(ctx).Warn("failed to encode error response", logging.ErrAttr(encErr))
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.From(r.Context()).Warn("failed to encode response", logging.ErrAttr(err))
	}
}
