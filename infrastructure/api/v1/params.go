package v1

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aoidb/aoi/infrastructure/api/middleware"
)

func pathID(req *http.Request, name string) (int64, error) {
	raw := chi.URLParam(req, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.BadRequest("invalid "+name+" "+strconv.Quote(raw), err)
	}
	return id, nil
}

func queryID(req *http.Request, name string) (int64, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, middleware.BadRequest(name+" is required", nil)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.BadRequest("invalid "+name+" "+strconv.Quote(raw), err)
	}
	return id, nil
}

func queryInt(req *http.Request, name string) (int, error) {
	raw := req.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, middleware.BadRequest("invalid "+name+" "+strconv.Quote(raw), err)
	}
	return n, nil
}
