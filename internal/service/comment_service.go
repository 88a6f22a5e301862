package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/pkg/apperrors"
)

// BlobStore stores and retrieves attachment bytes by key.
type BlobStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// CommentService appends comments and attachments to tickets.
type CommentService struct {
	comments    repository.CommentRepository
	attachments repository.AttachmentRepository
	tickets     repository.TicketRepository
	blobs       BlobStore
	dispatcher  events.Dispatcher
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo    repository.CommentRepository
	AttachmentRepo repository.AttachmentRepository
	TicketRepo     repository.TicketRepository
	Blobs          BlobStore
	Dispatcher     events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:    deps.CommentRepo,
		attachments: deps.AttachmentRepo,
		tickets:     deps.TicketRepo,
		blobs:       deps.Blobs,
		dispatcher:  deps.Dispatcher,
	}
}

// AddComment records a remark on the ticket. Any authenticated principal
// with a valid ticket code may comment; visibility is not checked here.
func (s *CommentService) AddComment(ctx context.Context, author *domain.User, code, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	ticket, err := s.ticketByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		OwnerID:  author.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventCommentAdded,
		TicketCode: ticket.Code,
		ActorID:    author.ID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: stringPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// AttachmentUpload carries the incoming file.
type AttachmentUpload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Reader    io.Reader
}

// AddAttachment streams the file to object storage and records the
// metadata row. Uploads come from the ticket detail view, so the caller
// must be the owner or the assigned agent.
func (s *CommentService) AddAttachment(ctx context.Context, owner *domain.User, code string, upload AttachmentUpload) (*domain.Attachment, error) {
	if strings.TrimSpace(upload.FileName) == "" {
		return nil, apperrors.NewValidationError("file name required", nil)
	}
	ticket, err := s.ticketByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ticket.VisibleTo(owner) {
		return nil, apperrors.NewForbidden("access denied")
	}

	key := "tickets/" + ticket.ID + "/" + uuid.NewString() + "-" + upload.FileName
	if err := s.blobs.Put(ctx, key, upload.Reader, upload.SizeBytes, upload.MimeType); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	attachment := &domain.Attachment{
		TicketID:   ticket.ID,
		OwnerID:    owner.ID,
		StorageKey: key,
		FileName:   upload.FileName,
		MimeType:   upload.MimeType,
		SizeBytes:  upload.SizeBytes,
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventAttachmentAdded,
		TicketCode: ticket.Code,
		ActorID:    owner.ID,
		Payload: events.AttachmentAddedPayload{
			AttachmentID: attachment.ID,
			FileName:     attachment.FileName,
			SizeBytes:    attachment.SizeBytes,
		},
	})
	return attachment, nil
}

// OpenAttachment streams a stored attachment back to a permitted viewer.
// The attachment must belong to the ticket named in the URL.
func (s *CommentService) OpenAttachment(ctx context.Context, principal *domain.User, code, attachmentID string) (*domain.Attachment, io.ReadCloser, error) {
	ticket, err := s.ticketByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if !ticket.VisibleTo(principal) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}

	attachment, err := s.attachments.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("attachment", map[string]any{"id": attachmentID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	if attachment.TicketID != ticket.ID {
		return nil, nil, apperrors.NewNotFound("attachment", map[string]any{"id": attachmentID})
	}

	reader, err := s.blobs.Get(ctx, attachment.StorageKey)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	return attachment, reader, nil
}

func (s *CommentService) ticketByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"code": code})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}
