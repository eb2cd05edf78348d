//route:path actions/[codeword]

// Package actions serves single action mappings.
package actions

import (
	"fmt"
	"net/http"

	apierrors "github.com/maruel/actionmap/internal/errors"
	"github.com/maruel/actionmap/internal/models"
	"github.com/maruel/actionmap/internal/server/handlers"
)

// GET returns the action mapping of the codeword path parameter.
func GET(r *http.Request, env *handlers.Env) (any, error) {
	ctx := r.Context()
	c, err := models.ParseCodeword(r.PathValue("codeword"))
	if err != nil {
		return nil, handlers.InvalidInput("Invalid codeword", err)
	}
	env.Logger.DebugContext(ctx, "Looking for an ActionMapping", "codeword", c)
	m, ok, err := env.Mappings.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apierrors.NotFound(fmt.Sprintf("No ActionMapping found with codeword %d", c))
	}
	return m, nil
}
