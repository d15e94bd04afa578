// Package api serves the read-only admin surface: health, metrics and the
// loaded schedule set. It never mutates scheduler state.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cronbeat/cronbeat/internal/core"
	"github.com/cronbeat/cronbeat/internal/registry"
)

// StoreStatus is the slice of the store client the handlers need.
type StoreStatus interface {
	Connected() bool
	ConnectedURL() string
}

// Handler serves the admin endpoints.
type Handler struct {
	registry  *registry.Registry
	store     StoreStatus
	replicaID string
	startTime time.Time
}

// NewHandler creates a Handler.
func NewHandler(reg *registry.Registry, store StoreStatus, replicaID string) *Handler {
	return &Handler{
		registry:  reg,
		store:     store,
		replicaID: replicaID,
		startTime: time.Now(),
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	ReplicaID     string `json:"replica_id"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Store         struct {
		Status string `json:"status"`
		URL    string `json:"url,omitempty"`
	} `json:"store"`
}

// Healthz reports process and store connectivity status. A disconnected
// store degrades health but returns 200: the loop keeps retrying and the
// missed-jobs window bounds the staleness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		ReplicaID:     h.replicaID,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}
	if h.store.Connected() {
		resp.Store.Status = "connected"
		resp.Store.URL = h.store.ConnectedURL()
	} else {
		resp.Status = "degraded"
		resp.Store.Status = "disconnected"
	}
	writeJSON(w, http.StatusOK, resp)
}

type scheduleInfo struct {
	Name     string `json:"name"`
	Cron     string `json:"cron"`
	Timezone string `json:"timezone"`
	Queue    string `json:"queue"`
	JobType  string `json:"job_type"`
	NextRun  string `json:"next_run_at"`
}

// Schedules lists the loaded schedule set with each schedule's next
// activation.
func (h *Handler) Schedules(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	infos := make([]scheduleInfo, 0, h.registry.Len())
	for _, entry := range h.registry.All() {
		infos = append(infos, scheduleInfo{
			Name:     entry.Schedule.Name,
			Cron:     entry.Expr.Spec(),
			Timezone: entry.Expr.Location().String(),
			Queue:    entry.Schedule.Queue,
			JobType:  entry.Schedule.JobType,
			NextRun:  core.FormatTime(entry.Expr.Next(now)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"schedules": infos})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
