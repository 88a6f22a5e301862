package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// TicketsHandler manages ticket endpoints available to every principal.
type TicketsHandler struct {
	tickets  *service.TicketService
	comments *service.CommentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, commentService *service.CommentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, comments: commentService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, vacation, err := h.tickets.CreateTicket(c.Context(), principal, service.TicketCreateInput{
		Title:    req.Title,
		Body:     req.Body,
		Category: domain.TicketCategory(req.Category),
	})
	if err != nil {
		return err
	}

	resp := dto.CreateTicketResponse{Ticket: ticketSummary(ticket)}
	if vacation != nil {
		v := vacationResponse(vacation)
		resp.Vacation = &v
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// GetTicket GET /tickets/:year/:month/:day/:code.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	year, month, day, err := dateParams(c)
	if err != nil {
		return err
	}
	view, err := h.tickets.ViewTicketAt(c.Context(), principal, year, month, day, c.Params("code"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(view)})
}

// UploadAttachment POST /tickets/:year/:month/:day/:code/attachments.
func (h *TicketsHandler) UploadAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if _, _, _, err := dateParams(c); err != nil {
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

	attachment, err := h.comments.AddAttachment(c.Context(), principal, c.Params("code"), service.AttachmentUpload{
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		SizeBytes: fileHeader.Size,
		Reader:    file,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// DownloadAttachment GET /tickets/:code/attachments/:id.
func (h *TicketsHandler) DownloadAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	attachment, reader, err := h.comments.OpenAttachment(c.Context(), principal, c.Params("code"), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, attachment.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+attachment.FileName+`"`)
	return c.SendStream(reader)
}

// AddComment POST /tickets/:code/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.comments.AddComment(c.Context(), principal, c.Params("code"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

func dateParams(c *fiber.Ctx) (year, month, day int, err error) {
	year, yerr := c.ParamsInt("year")
	month, merr := c.ParamsInt("month")
	day, derr := c.ParamsInt("day")
	if yerr != nil || merr != nil || derr != nil {
		return 0, 0, 0, apperrors.NewValidationError("invalid date path", nil)
	}
	return year, month, day, nil
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:        ticket.ID,
		Code:      ticket.Code,
		OwnerID:   ticket.OwnerID,
		AgentID:   ticket.AgentID,
		Title:     ticket.Title,
		Category:  ticket.Category,
		Status:    ticket.Status,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

func ticketDetail(view *service.TicketView) dto.TicketDetailResponse {
	comments := make([]dto.CommentResponse, 0, len(view.Comments))
	for i := range view.Comments {
		comments = append(comments, commentResponse(&view.Comments[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(view.Attachments))
	for i := range view.Attachments {
		attachments = append(attachments, attachmentResponse(&view.Attachments[i]))
	}
	resp := dto.TicketDetailResponse{
		ID:          view.Ticket.ID,
		Code:        view.Ticket.Code,
		OwnerID:     view.Ticket.OwnerID,
		AgentID:     view.Ticket.AgentID,
		Title:       view.Ticket.Title,
		Body:        view.Ticket.Body,
		Category:    view.Ticket.Category,
		Status:      view.Ticket.Status,
		CreatedAt:   view.Ticket.CreatedAt,
		UpdatedAt:   view.Ticket.UpdatedAt,
		Comments:    comments,
		Attachments: attachments,
	}
	if view.Vacation != nil {
		v := vacationResponse(view.Vacation)
		resp.Vacation = &v
	}
	return resp
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		OwnerID:   comment.OwnerID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}

func attachmentResponse(att *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        att.ID,
		FileName:  att.FileName,
		MimeType:  att.MimeType,
		SizeBytes: att.SizeBytes,
		CreatedAt: att.CreatedAt,
	}
}

func vacationResponse(vacation *domain.Vacation) dto.VacationResponse {
	return dto.VacationResponse{
		ID:        vacation.ID,
		TicketID:  vacation.TicketID,
		OwnerID:   vacation.OwnerID,
		AgentID:   vacation.AgentID,
		Status:    vacation.Status,
		StartDate: vacation.StartDate,
		EndDate:   vacation.EndDate,
		CreatedAt: vacation.CreatedAt,
		UpdatedAt: vacation.UpdatedAt,
	}
}
