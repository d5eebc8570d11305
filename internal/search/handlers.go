package search

import (
	"github.com/evelinavait/fleettrack/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		results, err := svc.Search(c.Context(), c.Query("q"))
		if err != nil {
			return apperr.ToFiber(err)
		}
		return c.JSON(results)
	})
}
