package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pagemarkapp/pagemark-server/internal/store"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports overall server health and per-component status",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Probe round-trip time"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Worst status across all components"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.probeDatabase(ctx),
		"search":   s.probeSearch(),
	}

	overall := statusHealthy
	for _, c := range components {
		overall = worseOf(overall, c.Status)
	}

	return &HealthOutput{Body: HealthResponse{
		Status:     overall,
		Components: components,
	}}, nil
}

var statusRank = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func worseOf(a, b string) string {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// probeDatabase issues a point read against SQLite. A not-found result
// still proves the database answers queries.
func (s *Server) probeDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}

	start := time.Now()
	_, err := s.store.GetUser(ctx, "health-probe")
	latency := time.Since(start).String()

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: "database read failed"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency}
}

// probeSearch asks the Bleve index for its document count.
func (s *Server) probeSearch() ComponentHealth {
	if s.services == nil || s.services.Book == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search not configured"}
	}

	start := time.Now()
	count, err := s.services.Book.IndexedBooks()
	latency := time.Since(start).String()

	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Latency: latency, Message: "search index unavailable"}
	}
	return ComponentHealth{
		Status:  statusHealthy,
		Latency: latency,
		Message: fmt.Sprintf("%d books indexed", count),
	}
}
