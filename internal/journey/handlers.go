package journey

import (
	"fmt"
	"time"

	"github.com/evelinavait/fleettrack/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type startRequest struct {
	VehicleID       string `json:"vehicle_id"`
	Description     string `json:"description"`
	IntervalSeconds int    `json:"interval"`
}

type pointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp string  `json:"timestamp"`
}

// timestampLayout accepts the legacy wire format without a zone offset.
const timestampLayout = "2006-01-02T15:04:05"

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("timestamp required: %w", apperr.ErrValidation)
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	ts, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, apperr.ErrValidation)
	}
	return ts, nil
}

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req startRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		started, err := svc.Start(c.Context(), Journey{
			VehicleID:       req.VehicleID,
			Description:     req.Description,
			IntervalSeconds: req.IntervalSeconds,
		})
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(started)
	})

	r.Post("/:id/coordinates", func(c *fiber.Ctx) error {
		var req pointRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		recordedAt, err := parseTimestamp(req.Timestamp)
		if err != nil {
			return apperr.ToFiber(err)
		}
		accepted, err := svc.SubmitPoint(c.Context(), c.Params("id"), Point{
			RecordedAt: recordedAt,
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
		})
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(accepted)
	})

	r.Put("/:id/end", func(c *fiber.Ctx) error {
		closed, err := svc.Close(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(closed)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		detail, err := svc.Detail(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(detail)
	})

	r.Get("/:id/points", func(c *fiber.Ctx) error {
		points, err := svc.Points(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		if points == nil {
			points = []Point{}
		}
		return c.JSON(points)
	})
}
