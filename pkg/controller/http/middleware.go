package http

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/errs"
	"github.com/utilmon-lab/varsel/pkg/utils/logging"
	"github.com/utilmon-lab/varsel/pkg/utils/request_id"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, reqID := request_id.Generate(r.Context())

		logger := logging.From(ctx).With("request_id", reqID)
		ctx = logging.With(ctx, logger)

		sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(sw, r.WithContext(ctx))

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"latency", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}

func panicRecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				err := goerr.New("panic in http handler",
					goerr.T(errs.TagInternal),
					goerr.V("panic", rec),
					goerr.V("stack", string(debug.Stack())),
				)
				errs.Handle(r.Context(), err)
				handleError(w, r, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
