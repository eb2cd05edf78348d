package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "github.com/maruel/actionmap/internal/errors"
	"github.com/maruel/actionmap/internal/utils"
)

// Options configures wrapped handlers.
type Options struct {
	// Logger returns the logger of a request. Defaults to slog.Default.
	Logger func(ctx context.Context) *slog.Logger
	// Fallback answers errors that carry no HTTP status. Defaults to
	// DefaultFallback.
	Fallback func(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error)
}

func (o *Options) logger(ctx context.Context) *slog.Logger {
	if o != nil && o.Logger != nil {
		return o.Logger(ctx)
	}
	return slog.Default()
}

func (o *Options) fallback() func(http.ResponseWriter, *http.Request, *slog.Logger, error) {
	if o != nil && o.Fallback != nil {
		return o.Fallback
	}
	return DefaultFallback
}

// DefaultFallback logs err and answers a generic 500.
func DefaultFallback(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "Handler error", "err", err, "method", r.Method, "path", r.URL.Path)
	e := apierrors.Internal()
	utils.RespondError(w, e.StatusCode(), e.Code(), e.Message(), nil)
}

// Wrap adapts h to an http.Handler.
//
// envFor builds the environment of each request. A nil result of h is
// encoded as JSON null.
func Wrap[E any](h HandlerFunc[E], envFor func(*http.Request) E, opts *Options) http.Handler {
	fallback := opts.fallback()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := opts.logger(ctx)
		output, err := h(r, envFor(r))
		if err != nil {
			var ews apierrors.ErrorWithStatus
			if !errors.As(err, &ews) {
				fallback(w, r, logger, err)
				return
			}
			level := slog.LevelInfo
			if ews.StatusCode() >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.Log(ctx, level, "Handler error", "err", err, "statusCode", ews.StatusCode(), "code", ews.Code())
			utils.RespondError(w, ews.StatusCode(), ews.Code(), ews.Message(), ews.Details())
			return
		}
		if err := utils.RespondJSON(w, http.StatusOK, output); err != nil {
			logger.ErrorContext(ctx, "Failed to encode response", "err", err)
		}
	})
}
