package admin

import (
	"github.com/evelinavait/fleettrack/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		if err := svc.Wipe(c.Context()); err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
