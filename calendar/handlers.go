package calendar

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

type CalendarHandler struct {
	service *Service
}

func NewCalendarHandler(s *Service) *CalendarHandler {
	return &CalendarHandler{
		service: s,
	}
}

func RegisterCalendarRoutes(router fiber.Router, handler *CalendarHandler) {
	cal := router.Group("/calendar")
	cal.Get("/crops", handler.ListCrops)
	cal.Post("/generate", handler.GenerateCalendar)
}

// GenerateCalendar computes a full crop calendar for the posted request
func (h *CalendarHandler) GenerateCalendar(c fiber.Ctx) error {
	req := new(GenerateRequest)
	if err := c.Bind().JSON(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Generate(c.Context(), *req)
	if err != nil {
		var unsupported *UnsupportedCropError
		var misconfigured *ConfigurationError
		switch {
		case errors.As(err, &unsupported):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.As(err, &misconfigured):
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		default:
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(result)
}

func (h *CalendarHandler) ListCrops(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"crops": h.service.ListSupportedCrops(),
	})
}
