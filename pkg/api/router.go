package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dskvich/ottaga/pkg/api/middleware"
)

type Registrar interface {
	Register(r *mux.Router)
}

// NewRouter mounts every registrar under /api and adds the health and
// metrics endpoints.
func NewRouter(registrars ...Registrar) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(middleware.UserID)
	for _, reg := range registrars {
		reg.Register(apiRouter)
	}

	return r
}
