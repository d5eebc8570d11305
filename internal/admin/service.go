package admin

import (
	"context"
	"log/slog"

	"github.com/evelinavait/fleettrack/internal/apperr"
	"github.com/evelinavait/fleettrack/internal/db"
)

// Service carries destructive maintenance operations. Nothing here is
// reachable without an explicit request.
type Service struct {
	db     db.Querier
	logger *slog.Logger
}

func NewService(db db.Querier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, logger: logger}
}

// Wipe removes every client, vehicle, journey and sample in one statement.
func (s *Service) Wipe(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `TRUNCATE clients, vehicles, journeys, journey_points CASCADE`)
	if err != nil {
		return apperr.Store(err)
	}
	s.logger.Warn("all fleet data wiped")
	return nil
}
