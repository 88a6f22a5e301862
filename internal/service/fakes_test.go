package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// In-memory collaborators used across the service tests.

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket.ID = uuid.NewString()
	ticket.CreatedAt = time.Now().UTC()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now().UTC()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.tickets {
		if stored.Code == code {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, stored := range r.tickets {
		if filter.OwnerID != nil && stored.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.AgentID != nil && (stored.AgentID == nil || *stored.AgentID != *filter.AgentID) {
			continue
		}
		if filter.Unassigned && stored.AgentID != nil {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, stored.Status) {
			continue
		}
		if filter.SearchTerm != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.SearchTerm))
			if !strings.Contains(strings.ToLower(stored.Title), needle) &&
				!strings.Contains(strings.ToLower(stored.Body), needle) {
				continue
			}
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeTicketRepo) WithTx(pgx.Tx) repository.TicketRepository { return r }

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type fakeVacationRepo struct {
	mu        sync.Mutex
	vacations map[string]*domain.Vacation // keyed by ticket ID
}

func newFakeVacationRepo() *fakeVacationRepo {
	return &fakeVacationRepo{vacations: make(map[string]*domain.Vacation)}
}

func (r *fakeVacationRepo) Create(_ context.Context, vacation *domain.Vacation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vacations[vacation.TicketID]; exists {
		return pgx.ErrTooManyRows
	}
	vacation.ID = uuid.NewString()
	vacation.CreatedAt = time.Now().UTC()
	vacation.UpdatedAt = vacation.CreatedAt
	stored := *vacation
	r.vacations[vacation.TicketID] = &stored
	return nil
}

func (r *fakeVacationRepo) Update(_ context.Context, vacation *domain.Vacation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vacations[vacation.TicketID]; !ok {
		return pgx.ErrNoRows
	}
	vacation.UpdatedAt = time.Now().UTC()
	stored := *vacation
	r.vacations[vacation.TicketID] = &stored
	return nil
}

func (r *fakeVacationRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Vacation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.vacations[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeVacationRepo) ListWithFilter(_ context.Context, filter repository.VacationFilter) ([]domain.Vacation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Vacation
	for _, stored := range r.vacations {
		if filter.OwnerID != nil && stored.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.AgentID != nil && (stored.AgentID == nil || *stored.AgentID != *filter.AgentID) {
			continue
		}
		if len(filter.Statuses) > 0 && !containsVacationStatus(filter.Statuses, stored.Status) {
			continue
		}
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeVacationRepo) WithTx(pgx.Tx) repository.VacationRepository { return r }

func containsVacationStatus(statuses []domain.VacationStatus, status domain.VacationStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.OwnerID == ownerID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments []domain.Attachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	attachment.ID = uuid.NewString()
	attachment.CreatedAt = time.Now().UTC()
	r.attachments = append(r.attachments, *attachment)
	return nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Attachment
	for _, attachment := range r.attachments {
		if attachment.TicketID == ticketID {
			result = append(result, attachment)
		}
	}
	return result, nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, attachment := range r.attachments {
		if attachment.ID == id {
			copied := attachment
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
}

func (r *fakeHistoryRepo) Create(_ context.Context, history *domain.TicketHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	history.ID = uuid.NewString()
	history.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TicketHistory
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// fakeTxRunner executes the callback directly; the fake repositories ignore
// the transaction handle.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(_ context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type sequenceCodes struct {
	mu   sync.Mutex
	next int
}

func (c *sequenceCodes) Next(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	return fmt.Sprintf("HD-TEST-%04d", c.next), nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Put(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *fakeBlobStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) typesSeen() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.EventType
	for _, event := range d.events {
		result = append(result, event.Type)
	}
	return result
}

type ticketFixture struct {
	tickets     *fakeTicketRepo
	vacations   *fakeVacationRepo
	comments    *fakeCommentRepo
	attachments *fakeAttachmentRepo
	history     *fakeHistoryRepo
	dispatcher  *recordingDispatcher
	service     *TicketService
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:     newFakeTicketRepo(),
		vacations:   newFakeVacationRepo(),
		comments:    &fakeCommentRepo{},
		attachments: &fakeAttachmentRepo{},
		history:     &fakeHistoryRepo{},
		dispatcher:  &recordingDispatcher{},
	}
	f.service = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		VacationRepo:   f.vacations,
		CommentRepo:    f.comments,
		AttachmentRepo: f.attachments,
		HistoryRepo:    f.history,
		Tx:             fakeTxRunner{},
		Codes:          &sequenceCodes{},
		Dispatcher:     f.dispatcher,
	})
	return f
}

func regularUser() *domain.User {
	return &domain.User{ID: uuid.NewString(), Name: "Dana", Email: "dana@example.com", Role: domain.RoleRegular}
}

func agentUser() *domain.User {
	return &domain.User{ID: uuid.NewString(), Name: "Alex", Email: "alex@example.com", Role: domain.RoleAgent}
}

func uploadOf(content string) AttachmentUpload {
	return AttachmentUpload{
		FileName:  "report.pdf",
		MimeType:  "application/pdf",
		SizeBytes: int64(len(content)),
		Reader:    bytes.NewReader([]byte(content)),
	}
}
