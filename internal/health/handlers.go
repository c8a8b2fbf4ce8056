// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the global readiness gate. Shutdown turns it off so load
// balancers drain traffic before the listener closes.
func SetReady(v bool) { ready.Store(v) }

// RedisPinger probes the optional Redis dependency.
type RedisPinger interface {
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// SnapshotSource reports how many products the catalog snapshot holds.
type SnapshotSource interface {
	Len() int
}

// Handler exposes HTTP handlers for health endpoints. Redis and Catalog are
// both optional; absent dependencies are simply not probed.
type Handler struct {
	Redis        RedisPinger
	Catalog      SnapshotSource
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the shutdown gate and dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{}
	healthy := ready.Load()
	if !healthy {
		status["gate"] = "draining"
	}

	if h.Redis != nil {
		if err := h.Redis.PingRedis(r.Context(), h.redisTimeout()); err != nil {
			status["redis"] = err.Error()
			healthy = false
		} else {
			status["redis"] = "ok"
		}
	}
	if h.Catalog != nil {
		status["products"] = h.Catalog.Len()
	}

	w.Header().Set("Content-Type", "application/json")
	if !healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
