package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pos-ticketing/internal/api/dto"
	"github.com/spec-kit/pos-ticketing/internal/service"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// StaffHandler manages terminal login.
type StaffHandler struct {
	auth *service.AuthService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(authService *service.AuthService) *StaffHandler {
	return &StaffHandler{auth: authService}
}

// Login POST /auth/staff/login.
func (h *StaffHandler) Login(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || req.PIN == "" {
		return apperrors.NewValidationError("name and pin required", nil)
	}

	token, expiresAt, staff, err := h.auth.LoginStaff(c.UserContext(), req.Name, req.PIN)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		StaffID:   staff.ID,
		Name:      staff.Name,
		Role:      string(staff.Role),
	}})
}
