package health

import (
	"context"
	"database/sql"
	"time"
)

const dbPingTimeout = 2 * time.Second

// Service encapsulates health-related checks.
type Service struct {
	DB *sql.DB
}

// NewService constructs a new health service. A nil db means the app runs on
// in-memory repositories.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// Status reports liveness plus the state of the backing database.
func (s *Service) Status(ctx context.Context) map[string]any {
	status := map[string]any{"ok": true}
	if s.DB == nil {
		status["database"] = "memory"
		return status
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		status["ok"] = false
		status["database"] = "down"
		return status
	}
	status["database"] = "up"
	return status
}
