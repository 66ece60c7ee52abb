package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pos-ticketing/internal/api/dto"
	"github.com/spec-kit/pos-ticketing/internal/service"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// TemplatesHandler exposes ticket template configuration to terminals.
type TemplatesHandler struct {
	service *service.TicketService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(ticketService *service.TicketService) *TemplatesHandler {
	return &TemplatesHandler{service: ticketService}
}

// List GET /templates.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	templates, err := h.service.ListTemplates(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, dto.TemplateResponseFromDomain(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid template id", nil)
	}
	detail, err := h.service.GetTicketTemplate(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TemplateDetailResponseFromDomain(detail)})
}
