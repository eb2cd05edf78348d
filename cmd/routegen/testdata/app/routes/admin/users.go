package people

import "net/http"

func GET(r *http.Request, env any) (any, error) { return nil, nil }
