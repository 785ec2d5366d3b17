package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// AdminHandler covers the admin-only escalation and reset endpoints.
type AdminHandler struct {
	complaints  *service.ComplaintService
	escalations *service.EscalationService
	reset       *service.ResetService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(complaints *service.ComplaintService, escalations *service.EscalationService, reset *service.ResetService) *AdminHandler {
	return &AdminHandler{complaints: complaints, escalations: escalations, reset: reset}
}

// Escalate POST /complaints/:id/escalate. Manual escalation, failing on an
// already-escalated complaint.
func (h *AdminHandler) Escalate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	complaint, err := h.escalations.Escalate(c.UserContext(), id, principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// EscalationCheck POST /complaints/:id/escalation-check. Applies the sweep's
// threshold logic to one complaint on demand.
func (h *AdminHandler) EscalationCheck(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	escalated, err := h.escalations.Check(c.UserContext(), complaint)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"escalated": escalated,
		"complaint": dto.FromComplaint(complaint),
	}})
}

// ResetData POST /complaints/reset-data. Wipes history and renumbers every
// complaint from CMP-00001.
func (h *AdminHandler) ResetData(c *fiber.Ctx) error {
	if err := h.reset.Reset(c.UserContext()); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}
