package handler

import (
	"net/http"
	"sharelend/core"
	"sharelend/handler/hc"
	"sharelend/handler/rest"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Server server
type Server struct {
	version   string
	snapshots core.ISnapshotService
	banks     core.IBankService
	accounts  core.IAccountService
}

// New new server function
func New(
	version string,
	snapshots core.ISnapshotService,
	banks core.IBankService,
	accounts core.IAccountService,
) Server {
	return Server{
		version:   version,
		snapshots: snapshots,
		banks:     banks,
		accounts:  accounts,
	}
}

// Handler /hc, /metrics and the restful apis under /api
func (s Server) Handler() http.Handler {
	mux := chi.NewMux()
	mux.Use(middleware.Recoverer)
	mux.Use(middleware.StripSlashes)
	mux.Use(cors.AllowAll().Handler)
	mux.Use(logger.WithRequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.NewCompressor(5).Handler)

	mux.Mount("/hc", hc.Handle(s.version, s.snapshots))
	mux.Mount("/metrics", promhttp.Handler())
	mux.Mount("/api", s.HandleRestAPI())

	return mux
}

// HandleRestAPI handle restful apis
func (s Server) HandleRestAPI() http.Handler {
	return rest.Handle(s.banks, s.accounts)
}
