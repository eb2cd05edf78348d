package routes

import (
	"net/http"

	"github.com/maruel/actionmap/internal/models"
	"github.com/maruel/actionmap/internal/router"
	"github.com/maruel/actionmap/internal/server/handlers"
)

// GET lists the action mappings matching the query string filter.
func GET(r *http.Request, env *handlers.Env) (any, error) {
	ctx := r.Context()
	q, err := router.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, handlers.InvalidInput("Invalid query string", err)
	}
	f, err := models.ParseFilter(q.All())
	if err != nil {
		return nil, handlers.InvalidInput("Invalid filter", err)
	}
	env.Logger.InfoContext(ctx, "Requesting actions", "filter", f)
	out := []models.ActionMapping{}
	for m, err := range env.Mappings.Find(ctx, f) {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
