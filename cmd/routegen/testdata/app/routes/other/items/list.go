package items

import "net/http"

func HEAD(r *http.Request, env any) (any, error) { return nil, nil }
