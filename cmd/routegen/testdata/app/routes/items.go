package routes

import "net/http"

type server struct{}

// PUT has a receiver so it does not serve /items.
func (server) PUT(r *http.Request, env any) (any, error) { return nil, nil }

func GET(r *http.Request, env any) (any, error) { return helper(), nil }

var POST = GET

const Get = 1

func helper() any { return nil }
