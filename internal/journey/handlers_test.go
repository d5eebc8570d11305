package journey

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

func newApp(svc *Service) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app.Group("/journeys"), svc)
	return app
}

func TestJourneyHandlersStart(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM vehicles`).
		WithArgs("vehicle-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`INSERT INTO journeys`).
		WithArgs(pgxmock.AnyArg(), "vehicle-1", "", pgxmock.AnyArg(), 10).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := newApp(newService(mock))
	body, _ := json.Marshal(startRequest{VehicleID: "vehicle-1", IntervalSeconds: 10})
	req := httptest.NewRequest(http.MethodPost, "/journeys/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("start status: %v %d", err, resp.StatusCode)
	}
}

func TestJourneyHandlersStartBadInterval(t *testing.T) {
	app := newApp(newService(nil))

	body, _ := json.Marshal(startRequest{VehicleID: "vehicle-1", IntervalSeconds: 2})
	req := httptest.NewRequest(http.MethodPost, "/journeys/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestJourneyHandlersSubmitPoint(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO journey_points`).
		WithArgs("journey-1", pgxmock.AnyArg(), 54.69, 25.28).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	app := newApp(newService(mock))
	// Legacy wire format, no zone offset.
	body := []byte(`{"latitude":54.69,"longitude":25.28,"timestamp":"2024-11-20T08:00:00"}`)
	req := httptest.NewRequest(http.MethodPost, "/journeys/journey-1/coordinates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status: %v %d", err, resp.StatusCode)
	}

	var accepted Point
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &accepted); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if accepted.ID != 7 || accepted.JourneyID != "journey-1" {
		t.Fatalf("unexpected point: %+v", accepted)
	}
}

func TestJourneyHandlersSubmitPointBadTimestamp(t *testing.T) {
	app := newApp(newService(nil))

	body := []byte(`{"latitude":54.69,"longitude":25.28,"timestamp":"yesterday"}`)
	req := httptest.NewRequest(http.MethodPost, "/journeys/journey-1/coordinates", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestJourneyHandlersClose(t *testing.T) {
	mock := newMock(t)

	start := time.Date(2024, 11, 20, 8, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	mock.ExpectQuery(`UPDATE journeys`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "vehicle_id", "description", "start_time", "end_time", "is_completed", "interval_seconds", "created_at"}).
			AddRow("journey-1", "vehicle-1", "", start, &end, true, 5, start))

	app := newApp(newService(mock))
	req := httptest.NewRequest(http.MethodPut, "/journeys/journey-1/end", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("close status: %v %d", err, resp.StatusCode)
	}
}

func TestJourneyHandlersCloseConflict(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`UPDATE journeys`).
		WithArgs("journey-1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM journeys`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	app := newApp(newService(mock))
	req := httptest.NewRequest(http.MethodPut, "/journeys/journey-1/end", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected conflict, got %d", resp.StatusCode)
	}
}

func TestJourneyHandlersDetailNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, vehicle_id, description, start_time, end_time`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	app := newApp(newService(mock))
	req := httptest.NewRequest(http.MethodGet, "/journeys/ghost", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected not found, got %d", resp.StatusCode)
	}
}

func TestJourneyHandlersPointsEmpty(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`SELECT id, journey_id, recorded_at, latitude, longitude, created_at`).
		WithArgs("journey-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "journey_id", "recorded_at", "latitude", "longitude", "created_at"}))

	app := newApp(newService(mock))
	req := httptest.NewRequest(http.MethodGet, "/journeys/journey-1/points", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("points status: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	if string(raw) != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}
}
