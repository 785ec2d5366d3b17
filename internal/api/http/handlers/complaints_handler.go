package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintsHandler manages complaint endpoints for every audience; role
// middleware on the routes decides who reaches which method.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Create(c.UserContext(), principal.User, service.ComplaintCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Anonymous:   req.Anonymous,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// ListAll GET /complaints (admin).
func (h *ComplaintsHandler) ListAll(c *fiber.Ctx) error {
	complaints, err := h.complaints.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaints(complaints)})
}

// ListMine GET /complaints/my.
func (h *ComplaintsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaints, err := h.complaints.ListByCreator(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaints(complaints)})
}

// ListAssigned GET /complaints/assigned (staff).
func (h *ComplaintsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	complaints, err := h.complaints.ListByAssignee(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaints(complaints)})
}

// Get GET /complaints/:id. Owners see their own; staff and admin see all.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if principal.User.Role == domain.RoleUser && complaint.CreatedByID != principal.User.ID {
		return apperrors.NewForbidden("not your complaint")
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Edit PUT /complaints/:id (admin).
func (h *ComplaintsHandler) Edit(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.EditComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	complaint, err := h.complaints.Edit(c.UserContext(), id, service.ComplaintEditInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Delete DELETE /complaints/:id (admin).
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.complaints.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UpdateStatus PUT /complaints/:id/status (staff).
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Status == "" {
		return apperrors.NewValidationError("status required", nil)
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), id, service.StatusUpdateInput{
		Status:        req.Status,
		Comment:       req.Comment,
		AssigneeEmail: req.AssigneeEmail,
	}, principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Assign POST /complaints/:id/assign/:userID (admin).
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	userID, err := strconv.ParseInt(c.Params("userID"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	complaint, err := h.complaints.Assign(c.UserContext(), id, userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaint(complaint)})
}

// Timeline GET /complaints/:id/timeline.
func (h *ComplaintsHandler) Timeline(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if principal.User.Role == domain.RoleUser {
		owner, err := h.complaints.IsOwner(c.UserContext(), id, principal.User.ID)
		if err != nil {
			return err
		}
		if !owner {
			return apperrors.NewForbidden("not your complaint")
		}
	}
	updates, err := h.complaints.Timeline(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComplaintUpdates(updates)})
}

// ReportResolved POST /complaints/:id/report-resolved (staff).
func (h *ComplaintsHandler) ReportResolved(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.complaints.ReportResolved(c.UserContext(), id, principal.User); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reported": true}})
}

// UploadAttachment POST /complaints/:id/attachments.
func (h *ComplaintsHandler) UploadAttachment(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	attachment, err := h.complaints.AddAttachment(c.UserContext(), id,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAttachment(attachment)})
}

// ListAttachments GET /complaints/:id/attachments.
func (h *ComplaintsHandler) ListAttachments(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	attachments, err := h.complaints.ListAttachments(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAttachments(attachments)})
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid complaint id", nil)
	}
	return id, nil
}
