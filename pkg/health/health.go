// Package health provides Kubernetes-style liveness and readiness probe
// endpoints. Checks are evaluated on demand when a probe arrives; an
// in-memory service has no slow dependencies that would warrant background
// polling.
package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func() error

type namedCheck struct {
	name  string
	check CheckFunc
}

// Health serves liveness and readiness probes for a service.
type Health struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []namedCheck
	readiness []namedCheck
}

// New creates a Health that starts not ready; call SetReady(true) once
// initialization finishes.
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check that decides whether the process is
// alive, e.g. a goroutine-leak guard.
func (h *Health) AddLivenessCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.liveness = append(h.liveness, namedCheck{name: name, check: check})
}

// AddReadinessCheck registers a check that decides whether the service
// should receive traffic.
func (h *Health) AddReadinessCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readiness = append(h.readiness, namedCheck{name: name, check: check})
}

// SetReady flips the readiness gate; readiness checks only run while the
// gate is open.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// LiveEndpoint is the /livez handler.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	h.mu.RLock()
	checks := h.liveness
	h.mu.RUnlock()

	writeStatus(w, runChecks(checks))
}

// ReadyEndpoint is the /readyz handler. It reports 503 while the readiness
// gate is closed, regardless of check results.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	if !h.ready.Load() {
		writeStatus(w, map[string]string{"ready": "shutting down or not started"})
		return
	}

	h.mu.RLock()
	checks := h.readiness
	h.mu.RUnlock()

	writeStatus(w, runChecks(checks))
}

// runChecks returns a map of failing check names to their errors; empty
// means healthy.
func runChecks(checks []namedCheck) map[string]string {
	failures := make(map[string]string)
	for _, c := range checks {
		if err := c.check(); err != nil {
			failures[c.name] = err.Error()
		}
	}
	return failures
}

func writeStatus(w http.ResponseWriter, failures map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	if len(failures) == 0 {
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "unhealthy",
		"errors": failures,
	})
}
