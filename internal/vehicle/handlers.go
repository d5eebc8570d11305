package vehicle

import (
	"github.com/evelinavait/fleettrack/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req Vehicle
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		created, err := svc.Register(c.Context(), req)
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	r.Get("/:id/statistics", func(c *fiber.Ctx) error {
		stats, err := svc.Statistics(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(stats)
	})
}

// RegisterClientRoutes adds the vehicle listing under the clients group.
func RegisterClientRoutes(r fiber.Router, svc *Service) {
	r.Get("/:id/vehicles", func(c *fiber.Ctx) error {
		vehicles, err := svc.ListByClient(c.Context(), c.Params("id"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(vehicles)
	})
}
