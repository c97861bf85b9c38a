package hc

import (
	"net/http"
	"sharelend/core"
	"sharelend/handler/render"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Handle handle hc request, reporting the slot of the published snapshot
func Handle(ver string, snapshots core.ISnapshotService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(ver, snapshots))
	return r
}

func handle(version string, snapshots core.ISnapshotService) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := time.Since(b).Truncate(time.Millisecond)

		snap, err := snapshots.Current(r.Context())
		if err != nil {
			render.Error(w, http.StatusServiceUnavailable, int(core.ErrSnapshotNotReady), err)
			return
		}

		render.JSON(w, render.H{
			"uptime":    uptime.String(),
			"version":   version,
			"slot":      snap.Slot,
			"snapshot":  snap.ID,
			"loaded_at": snap.LoadedAt,
		})
	}
}
