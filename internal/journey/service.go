package journey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/evelinavait/fleettrack/internal/apperr"
	"github.com/evelinavait/fleettrack/internal/db"
	"github.com/evelinavait/fleettrack/internal/metrics"
	"github.com/evelinavait/fleettrack/internal/shared/geo"
	"github.com/evelinavait/fleettrack/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db       db.Querier
	hub      *stream.Hub
	samplers *Registry
	rec      metrics.Recorder
}

func NewService(db db.Querier, hub *stream.Hub, samplers *Registry, rec metrics.Recorder) *Service {
	return &Service{db: db, hub: hub, samplers: samplers, rec: rec}
}

// Start opens a journey and launches its background sampler.
func (s *Service) Start(ctx context.Context, input Journey) (Journey, error) {
	if input.VehicleID == "" {
		return Journey{}, fmt.Errorf("vehicle_id required: %w", apperr.ErrValidation)
	}
	if input.IntervalSeconds < MinIntervalSeconds {
		return Journey{}, fmt.Errorf("interval must be at least %d seconds: %w", MinIntervalSeconds, apperr.ErrValidation)
	}

	var vehicleExists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id=$1)`, input.VehicleID).Scan(&vehicleExists); err != nil {
		return Journey{}, apperr.Store(err)
	}
	if !vehicleExists {
		return Journey{}, fmt.Errorf("vehicle %s: %w", input.VehicleID, apperr.ErrNotFound)
	}

	input.ID = uuid.NewString()
	input.StartTime = time.Now()
	input.EndTime = nil
	input.IsCompleted = false

	row := s.db.QueryRow(ctx, `
		INSERT INTO journeys (id, vehicle_id, description, start_time, interval_seconds)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, input.ID, input.VehicleID, input.Description, input.StartTime, input.IntervalSeconds)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Journey{}, apperr.Store(err)
	}

	if s.rec != nil {
		s.rec.JourneyStarted()
	}
	if s.samplers != nil {
		s.samplers.Start(input.ID, time.Duration(input.IntervalSeconds)*time.Second, s.submitSampled)
	}
	return input, nil
}

// SubmitPoint is the ingestion path for externally reported samples.
func (s *Service) SubmitPoint(ctx context.Context, journeyID string, input Point) (Point, error) {
	return s.submit(ctx, journeyID, input, "api")
}

func (s *Service) submitSampled(ctx context.Context, journeyID string, recordedAt time.Time, lat, lng float64) error {
	_, err := s.submit(ctx, journeyID, Point{RecordedAt: recordedAt, Latitude: lat, Longitude: lng}, "sampler")
	return err
}

func (s *Service) submit(ctx context.Context, journeyID string, input Point, source string) (Point, error) {
	if input.RecordedAt.IsZero() {
		return Point{}, s.reject("invalid_input", fmt.Errorf("timestamp required: %w", apperr.ErrValidation))
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return Point{}, s.reject("invalid_input", fmt.Errorf("latitude out of range: %w", apperr.ErrValidation))
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return Point{}, s.reject("invalid_input", fmt.Errorf("longitude out of range: %w", apperr.ErrValidation))
	}

	// The insert is guarded by the journey's open state in a single
	// statement, so a concurrent close cannot let a sample through after
	// it commits.
	row := s.db.QueryRow(ctx, `
		INSERT INTO journey_points (journey_id, recorded_at, latitude, longitude)
		SELECT $1, $2, $3, $4
		WHERE EXISTS (SELECT 1 FROM journeys WHERE id=$1 AND NOT is_completed)
		RETURNING id, created_at
	`, journeyID, input.RecordedAt, input.Latitude, input.Longitude)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Point{}, s.rejectClosedOrMissing(ctx, journeyID)
		}
		return Point{}, apperr.Store(err)
	}
	input.JourneyID = journeyID

	if s.rec != nil {
		s.rec.SampleSubmitted(source)
	}
	if s.hub != nil {
		payload, _ := json.Marshal(input)
		s.hub.Broadcast(journeyID, payload)
	}
	return input, nil
}

func (s *Service) rejectClosedOrMissing(ctx context.Context, journeyID string) error {
	var completed bool
	err := s.db.QueryRow(ctx, `SELECT is_completed FROM journeys WHERE id=$1`, journeyID).Scan(&completed)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return s.reject("journey_not_found", fmt.Errorf("journey %s: %w", journeyID, apperr.ErrNotFound))
	case err != nil:
		return apperr.Store(err)
	default:
		return s.reject("journey_closed", fmt.Errorf("journey %s already completed: %w", journeyID, apperr.ErrConflict))
	}
}

func (s *Service) reject(reason string, err error) error {
	if s.rec != nil {
		s.rec.SampleRejected(reason)
	}
	return err
}

// Close marks the journey completed and stops its sampler. The update is
// guarded by NOT is_completed, so the transition happens at most once.
func (s *Service) Close(ctx context.Context, journeyID string) (Journey, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE journeys
		SET end_time = now(), is_completed = TRUE
		WHERE id=$1 AND NOT is_completed
		RETURNING id, vehicle_id, description, start_time, end_time, is_completed, interval_seconds, created_at
	`, journeyID)

	j, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			var exists bool
			if checkErr := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journeys WHERE id=$1)`, journeyID).Scan(&exists); checkErr != nil {
				return Journey{}, apperr.Store(checkErr)
			}
			if !exists {
				return Journey{}, fmt.Errorf("journey %s: %w", journeyID, apperr.ErrNotFound)
			}
			return Journey{}, fmt.Errorf("journey %s already completed: %w", journeyID, apperr.ErrConflict)
		}
		return Journey{}, apperr.Store(err)
	}

	if s.samplers != nil {
		s.samplers.Stop(journeyID)
	}
	if s.rec != nil {
		s.rec.JourneyClosed()
	}
	return j, nil
}

// Detail returns the journey with its derived distance and duration.
func (s *Service) Detail(ctx context.Context, journeyID string) (Detail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, vehicle_id, description, start_time, end_time, is_completed, interval_seconds, created_at
		FROM journeys WHERE id=$1
	`, journeyID)

	j, err := scanJourney(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, fmt.Errorf("journey %s: %w", journeyID, apperr.ErrNotFound)
		}
		return Detail{}, apperr.Store(err)
	}

	points, err := s.Points(ctx, journeyID)
	if err != nil {
		return Detail{}, err
	}

	track := make([]geo.Point, len(points))
	for i, p := range points {
		track[i] = geo.Point{Lat: p.Latitude, Lng: p.Longitude, RecordedAt: p.RecordedAt}
	}

	return Detail{
		JourneyID: j.ID,
		VehicleID: j.VehicleID,
		StartTime: j.StartTime,
		EndTime:   j.EndTime,
		// The detail view keeps its historical distance variant; fleet
		// statistics count every adjacent delta.
		TotalDistance:        geo.PathDistanceSkipFirst(track),
		TotalDurationMinutes: geo.DurationMinutes(j.StartTime, j.EndTime),
		PointCount:           len(points),
	}, nil
}

// Points returns the journey's samples ordered by timestamp, insertion
// order breaking ties. Derived metrics rely on this ordering.
func (s *Service) Points(ctx context.Context, journeyID string) ([]Point, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, journey_id, recorded_at, latitude, longitude, created_at
		FROM journey_points WHERE journey_id=$1
		ORDER BY recorded_at, id
	`, journeyID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	defer rows.Close()

	var points []Point
	for rows.Next() {
		var p Point
		if err := rows.Scan(&p.ID, &p.JourneyID, &p.RecordedAt, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, apperr.Store(err)
		}
		points = append(points, p)
	}
	return points, apperr.Store(rows.Err())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJourney(s scanner) (Journey, error) {
	var j Journey
	if err := s.Scan(&j.ID, &j.VehicleID, &j.Description, &j.StartTime, &j.EndTime, &j.IsCompleted, &j.IntervalSeconds, &j.CreatedAt); err != nil {
		return Journey{}, err
	}
	return j, nil
}
