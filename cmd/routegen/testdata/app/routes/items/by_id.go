//route:path items/[id]

package items

import "net/http"

func GET(r *http.Request, env any) (any, error) { return nil, nil }

func DELETE(r *http.Request, env any) (any, error) { return nil, nil }
