package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pos-ticketing/internal/api/dto"
	"github.com/spec-kit/pos-ticketing/internal/domain"
	"github.com/spec-kit/pos-ticketing/internal/repository"
	"github.com/spec-kit/pos-ticketing/internal/service"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// TicketsHandler exposes ticket operations to terminals.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// OpenTicket GET /tickets/:id.
func (h *TicketsHandler) OpenTicket(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", nil)
	}
	ticket, err := h.service.OpenTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketPayloadFromDomain(ticket)})
}

// SaveTicket POST /tickets. With skip_concurrency unset the persisted
// snapshot is checked first and a conflicting save returns 409 carrying
// the reason; the ticket is not saved in that case.
func (h *TicketsHandler) SaveTicket(c *fiber.Ctx) error {
	var req dto.SaveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket := req.Ticket.ToDomain()

	if !req.SkipConcurrency {
		message, err := h.service.CheckConcurrency(c.UserContext(), ticket)
		if err != nil {
			return err
		}
		if message != "" {
			return c.Status(http.StatusConflict).JSON(fiber.Map{
				"data": dto.SaveTicketResponse{TicketID: ticket.ID, ErrorMessage: message},
			})
		}
	}

	if err := h.service.Save(c.UserContext(), ticket); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SaveTicketResponse{TicketID: ticket.ID},
	})
}

// CheckConcurrency POST /tickets/check-concurrency.
func (h *TicketsHandler) CheckConcurrency(c *fiber.Ctx) error {
	var req dto.SaveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	message, err := h.service.CheckConcurrency(c.UserContext(), req.Ticket.ToDomain())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ConcurrencyCheckResponse{ErrorMessage: message}})
}

// GetOpenTicketCount GET /tickets/open/count.
func (h *TicketsHandler) GetOpenTicketCount(c *fiber.Ctx) error {
	count, err := h.service.GetOpenTicketCount(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// GetOpenTicketIDs GET /tickets/open/ids?resource_id=.
func (h *TicketsHandler) GetOpenTicketIDs(c *fiber.Ctx) error {
	resourceID, err := strconv.Atoi(c.Query("resource_id"))
	if err != nil {
		return apperrors.NewValidationError("resource_id required", nil)
	}
	ids, err := h.service.GetOpenTicketIDs(c.UserContext(), resourceID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ids": ids}})
}

// GetOpenTickets GET /tickets/open.
func (h *TicketsHandler) GetOpenTickets(c *fiber.Ctx) error {
	filter := repository.OpenTicketFilter{}
	if v := c.Query("resource_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("invalid resource_id", nil)
		}
		filter.ResourceID = &id
	}
	if v := c.Query("account_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("invalid account_id", nil)
		}
		filter.AccountID = &id
	}
	if v := c.Query("department_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("invalid department_id", nil)
		}
		filter.DepartmentID = &id
	}

	rows, err := h.service.GetOpenTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.OpenTicketRowResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.OpenTicketRowFromDomain(&rows[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetFilteredTickets GET /tickets?start=&end=.
func (h *TicketsHandler) GetFilteredTickets(c *fiber.Ctx) error {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		return apperrors.NewValidationError("start date required (YYYY-MM-DD)", nil)
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		return apperrors.NewValidationError("end date required (YYYY-MM-DD)", nil)
	}

	filter := repository.ExplorerFilter{}
	if v := c.Query("account_name"); v != "" {
		filter.AccountName = &v
	}
	if v := c.Query("ticket_number"); v != "" {
		filter.TicketNumber = &v
	}
	if v := c.Query("resource_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.NewValidationError("invalid resource_id", nil)
		}
		filter.ResourceID = &id
	}
	if v := c.Query("is_closed"); v != "" {
		closed, err := strconv.ParseBool(v)
		if err != nil {
			return apperrors.NewValidationError("invalid is_closed", nil)
		}
		filter.IsClosed = &closed
	}

	tickets, err := h.service.GetFilteredTickets(c.UserContext(), start, end, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketPayload, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.TicketPayloadFromDomain(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetOrders GET /tickets/:id/orders.
func (h *TicketsHandler) GetOrders(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid ticket id", nil)
	}
	orders, err := h.service.GetOrders(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.OrderPayload, 0, len(orders))
	for i := range orders {
		items = append(items, dto.OrderPayloadFromDomain(&orders[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SaveFreeTicketTag POST /tag-groups/ticket/:id/tags.
func (h *TicketsHandler) SaveFreeTicketTag(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid tag group id", nil)
	}
	var req dto.SaveFreeTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.SaveFreeTicketTag(c.UserContext(), groupID, req.Name); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SaveFreeOrderTag POST /tag-groups/order/:id/tags.
func (h *TicketsHandler) SaveFreeOrderTag(c *fiber.Ctx) error {
	groupID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperrors.NewValidationError("invalid tag group id", nil)
	}
	var req dto.SaveFreeTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	tag := domain.OrderTag{Name: req.Name, Price: req.Price}
	if err := h.service.SaveFreeOrderTag(c.UserContext(), groupID, tag); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
