package sos

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SOSHandler struct {
	service *Service
}

func NewSOSHandler(s *Service) *SOSHandler {
	return &SOSHandler{
		service: s,
	}
}

func RegisterSOSRoutes(router fiber.Router, handler *SOSHandler) {
	sos := router.Group("/sos")
	sos.Post("/", handler.CreateRequest)
	sos.Get("/", handler.ListRequests)
	sos.Post("/responders", handler.RegisterResponder)
	sos.Get("/responders", handler.ListResponders)
	sos.Delete("/responders/:uid", handler.UnregisterResponder)
	sos.Get("/:uid", handler.GetRequest)
	sos.Patch("/:uid/status", handler.UpdateStatus)
}

// CreateRequest files a new emergency ticket and dispatches responders
func (h *SOSHandler) CreateRequest(c fiber.Ctx) error {
	req := new(CreateRequestReq)
	if err := c.Bind().JSON(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ticket, err := h.service.CreateRequest(*req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func (h *SOSHandler) ListRequests(c fiber.Ctx) error {
	tickets, err := h.service.ListRequests(RequestStatus(c.Query("status")))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{
		"requests": tickets,
	})
}

func (h *SOSHandler) GetRequest(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid uuid")
	}
	ticket, err := h.service.GetRequest(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "emergency request not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(ticket)
}

type updateStatusReq struct {
	Status RequestStatus `json:"status"`
}

func (h *SOSHandler) UpdateStatus(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid uuid")
	}
	req := new(updateStatusReq)
	if err := c.Bind().JSON(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	ticket, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "emergency request not found")
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(ticket)
}

// RegisterResponder connects a new responder to the dispatch network
func (h *SOSHandler) RegisterResponder(c fiber.Ctx) error {
	req := new(RegisterResponderReq)
	if err := c.Bind().JSON(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	id, err := h.service.RegisterResponder(*req)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"message": "responder registered successfully",
		"uuid":    id,
	})
}

func (h *SOSHandler) ListResponders(c fiber.Ctx) error {
	responders, err := h.service.ListResponders()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"responders": responders,
	})
}

func (h *SOSHandler) UnregisterResponder(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("uid"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid uuid")
	}
	if err := h.service.UnregisterResponder(id); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.SendString(id.String())
}
