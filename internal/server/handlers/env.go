// Package handlers holds what route handlers share: their per request
// environment and the non-file routes.
package handlers

import (
	"context"
	"errors"
	"iter"
	"log/slog"

	apierrors "github.com/maruel/actionmap/internal/errors"
	"github.com/maruel/actionmap/internal/models"
)

// ActionMappings is the read side of the action mapping store.
type ActionMappings interface {
	Find(ctx context.Context, f models.Filter) iter.Seq2[models.ActionMapping, error]
	Get(ctx context.Context, c models.Codeword) (models.ActionMapping, bool, error)
}

// Env is passed to every route handler.
type Env struct {
	Logger   *slog.Logger
	Mappings ActionMappings
}

// InvalidInput converts a parse error into a 400.
//
// The field and reason of a *models.FieldError are reported as details.
func InvalidInput(message string, err error) *apierrors.APIError {
	e := apierrors.BadRequest(message).Wrap(err)
	var fe *models.FieldError
	if errors.As(err, &fe) {
		e.WithDetails(map[string]any{"field": fe.Field, "reason": fe.Reason})
	}
	return e
}
