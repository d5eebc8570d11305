package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/evelinavait/fleettrack/internal/apperr"
	"github.com/evelinavait/fleettrack/internal/db"

	"github.com/google/uuid"
)

// Results groups matches per entity. Empty slices marshal as [] so the
// response shape is stable.
type Results struct {
	Clients  []ClientResult  `json:"clients"`
	Vehicles []VehicleResult `json:"vehicles"`
	Journeys []JourneyResult `json:"journeys"`
}

type ClientResult struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type VehicleResult struct {
	ID           string `json:"id"`
	ClientID     string `json:"client_id"`
	VIN          string `json:"vin"`
	Model        string `json:"model"`
	Manufacturer string `json:"manufacturer"`
	LicensePlate string `json:"license_plate"`
}

type JourneyResult struct {
	ID          string `json:"id"`
	VehicleID   string `json:"vehicle_id"`
	Description string `json:"description"`
	IsCompleted bool   `json:"is_completed"`
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Search runs the full-text query against clients, vehicles and journeys.
// A query that parses as a UUID additionally matches journeys directly by
// journey or vehicle id, since ids never make it into the text index.
func (s *Service) Search(ctx context.Context, query string) (Results, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Results{}, fmt.Errorf("query required: %w", apperr.ErrValidation)
	}

	results := Results{
		Clients:  []ClientResult{},
		Vehicles: []VehicleResult{},
		Journeys: []JourneyResult{},
	}

	if err := s.searchClients(ctx, query, &results); err != nil {
		return Results{}, err
	}
	if err := s.searchVehicles(ctx, query, &results); err != nil {
		return Results{}, err
	}
	if err := s.searchJourneys(ctx, query, &results); err != nil {
		return Results{}, err
	}

	if _, err := uuid.Parse(query); err == nil {
		if err := s.searchJourneysByID(ctx, query, &results); err != nil {
			return Results{}, err
		}
	}
	return results, nil
}

func (s *Service) searchClients(ctx context.Context, query string, out *Results) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, first_name, last_name, email
		FROM clients
		WHERE search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC
	`, query)
	if err != nil {
		return apperr.Store(err)
	}
	defer rows.Close()

	for rows.Next() {
		var r ClientResult
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Email); err != nil {
			return apperr.Store(err)
		}
		out.Clients = append(out.Clients, r)
	}
	return apperr.Store(rows.Err())
}

func (s *Service) searchVehicles(ctx context.Context, query string, out *Results) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, client_id, vin, model, manufacturer, license_plate
		FROM vehicles
		WHERE search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC
	`, query)
	if err != nil {
		return apperr.Store(err)
	}
	defer rows.Close()

	for rows.Next() {
		var r VehicleResult
		if err := rows.Scan(&r.ID, &r.ClientID, &r.VIN, &r.Model, &r.Manufacturer, &r.LicensePlate); err != nil {
			return apperr.Store(err)
		}
		out.Vehicles = append(out.Vehicles, r)
	}
	return apperr.Store(rows.Err())
}

func (s *Service) searchJourneys(ctx context.Context, query string, out *Results) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, vehicle_id, description, is_completed
		FROM journeys
		WHERE search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC
	`, query)
	if err != nil {
		return apperr.Store(err)
	}
	defer rows.Close()

	for rows.Next() {
		var r JourneyResult
		if err := rows.Scan(&r.ID, &r.VehicleID, &r.Description, &r.IsCompleted); err != nil {
			return apperr.Store(err)
		}
		out.Journeys = append(out.Journeys, r)
	}
	return apperr.Store(rows.Err())
}

func (s *Service) searchJourneysByID(ctx context.Context, id string, out *Results) error {
	rows, err := s.db.Query(ctx, `
		SELECT id, vehicle_id, description, is_completed
		FROM journeys
		WHERE id = $1 OR vehicle_id = $1
	`, id)
	if err != nil {
		return apperr.Store(err)
	}
	defer rows.Close()

	seen := make(map[string]struct{}, len(out.Journeys))
	for _, j := range out.Journeys {
		seen[j.ID] = struct{}{}
	}

	for rows.Next() {
		var r JourneyResult
		if err := rows.Scan(&r.ID, &r.VehicleID, &r.Description, &r.IsCompleted); err != nil {
			return apperr.Store(err)
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		out.Journeys = append(out.Journeys, r)
	}
	return apperr.Store(rows.Err())
}
