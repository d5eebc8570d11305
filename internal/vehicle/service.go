package vehicle

import (
	"context"
	"fmt"
	"time"

	"github.com/evelinavait/fleettrack/internal/apperr"
	"github.com/evelinavait/fleettrack/internal/db"
	"github.com/evelinavait/fleettrack/internal/shared/geo"

	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

func (s *Service) Register(ctx context.Context, input Vehicle) (Vehicle, error) {
	if input.ClientID == "" || input.VIN == "" || input.Model == "" || input.Manufacturer == "" || input.LicensePlate == "" || input.Year == 0 {
		return Vehicle{}, fmt.Errorf("client_id, vin, model, manufacturer, license_plate, year required: %w", apperr.ErrValidation)
	}

	var clientExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id=$1)`, input.ClientID).Scan(&clientExists); err != nil {
		return Vehicle{}, apperr.Store(err)
	}
	if !clientExists {
		return Vehicle{}, fmt.Errorf("client %s: %w", input.ClientID, apperr.ErrNotFound)
	}

	var vinExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE vin=$1)`, input.VIN).Scan(&vinExists); err != nil {
		return Vehicle{}, apperr.Store(err)
	}
	if vinExists {
		return Vehicle{}, fmt.Errorf("vehicle with this VIN already exists: %w", apperr.ErrConflict)
	}

	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO vehicles (id, client_id, vin, model, manufacturer, license_plate, year)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at
	`, input.ID, input.ClientID, input.VIN, input.Model, input.Manufacturer, input.LicensePlate, input.Year)
	if err := row.Scan(&input.CreatedAt); err != nil {
		if apperr.IsUniqueViolation(err) {
			return Vehicle{}, fmt.Errorf("vehicle with this VIN already exists: %w", apperr.ErrConflict)
		}
		return Vehicle{}, apperr.Store(err)
	}
	return input, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]Vehicle, error) {
	var clientExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM clients WHERE id=$1)`, clientID).Scan(&clientExists); err != nil {
		return nil, apperr.Store(err)
	}
	if !clientExists {
		return nil, fmt.Errorf("client %s: %w", clientID, apperr.ErrNotFound)
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, client_id, vin, model, manufacturer, license_plate, year, created_at
		FROM vehicles WHERE client_id=$1
		ORDER BY created_at
	`, clientID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.ClientID, &v.VIN, &v.Model, &v.Manufacturer, &v.LicensePlate, &v.Year, &v.CreatedAt); err != nil {
			return nil, apperr.Store(err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, apperr.Store(rows.Err())
}

// Statistics folds distance and duration over every journey of the vehicle.
// A vehicle without journeys reports not found, never zero totals.
func (s *Service) Statistics(ctx context.Context, vehicleID string) (Statistics, error) {
	type journeyRow struct {
		id    string
		start time.Time
		end   *time.Time
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, start_time, end_time
		FROM journeys WHERE vehicle_id=$1
	`, vehicleID)
	if err != nil {
		return Statistics{}, apperr.Store(err)
	}
	defer rows.Close()

	var journeys []journeyRow
	for rows.Next() {
		var j journeyRow
		if err := rows.Scan(&j.id, &j.start, &j.end); err != nil {
			return Statistics{}, apperr.Store(err)
		}
		journeys = append(journeys, j)
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, apperr.Store(err)
	}
	if len(journeys) == 0 {
		return Statistics{}, fmt.Errorf("no journeys for vehicle %s: %w", vehicleID, apperr.ErrNotFound)
	}

	ids := make([]string, len(journeys))
	for i, j := range journeys {
		ids[i] = j.id
	}

	pointRows, err := s.db.Query(ctx, `
		SELECT journey_id, latitude, longitude
		FROM journey_points WHERE journey_id = ANY($1)
		ORDER BY journey_id, recorded_at, id
	`, ids)
	if err != nil {
		return Statistics{}, apperr.Store(err)
	}
	defer pointRows.Close()

	pointsByJourney := make(map[string][]geo.Point, len(journeys))
	for pointRows.Next() {
		var journeyID string
		var p geo.Point
		if err := pointRows.Scan(&journeyID, &p.Lat, &p.Lng); err != nil {
			return Statistics{}, apperr.Store(err)
		}
		pointsByJourney[journeyID] = append(pointsByJourney[journeyID], p)
	}
	if err := pointRows.Err(); err != nil {
		return Statistics{}, apperr.Store(err)
	}

	stats := Statistics{VehicleID: vehicleID, JourneyCount: len(journeys)}
	for _, j := range journeys {
		stats.TotalDistance += geo.PathDistance(pointsByJourney[j.id])
		stats.TotalDurationMinutes += geo.DurationMinutes(j.start, j.end)
	}
	return stats, nil
}
