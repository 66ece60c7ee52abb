package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/spec-kit/pos-ticketing/internal/cache"
	"github.com/spec-kit/pos-ticketing/internal/concurrency"
	"github.com/spec-kit/pos-ticketing/internal/domain"
	"github.com/spec-kit/pos-ticketing/internal/events"
	"github.com/spec-kit/pos-ticketing/internal/observability"
	"github.com/spec-kit/pos-ticketing/internal/repository"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// TicketService coordinates ticket persistence with the concurrency
// validator. The validator is injected so save-time precedence rules stay
// unit-testable in isolation. The service never locks anything: the store
// serializes access per record and this layer converts a save race into a
// well-defined verdict.
type TicketService struct {
	tickets    repository.TicketRepository
	tags       repository.TagRepository
	templates  repository.TemplateRepository
	validator  concurrency.Validator
	cache      *cache.TicketCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	TagRepo      repository.TagRepository
	TemplateRepo repository.TemplateRepository
	Validator    concurrency.Validator
	Cache        *cache.TicketCache
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validator := deps.Validator
	if validator == nil {
		validator = concurrency.NewTicketValidator()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		tags:       deps.TagRepo,
		templates:  deps.TemplateRepo,
		validator:  validator,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// OpenTicket loads the full aggregate by id. An id of zero or below is a
// programming error and fails fast instead of reading an empty ticket.
func (s *TicketService) OpenTicket(ctx context.Context, id int) (*domain.Ticket, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("ticket id must be greater than zero", map[string]any{"id": id})
	}
	return s.tickets.OpenTicket(ctx, id)
}

// Save persists the ticket unconditionally. Callers that need conflict
// detection run CheckConcurrency first and decide what to do with the
// verdict; bulk and background paths save directly.
func (s *TicketService) Save(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.TicketNumber == "" {
		ticket.TicketNumber = newTicketNumber()
	}

	timer := prometheus.NewTimer(observability.StoreSaveDuration)
	err := s.tickets.Save(ctx, ticket)
	timer.ObserveDuration()
	if err != nil {
		return err
	}
	observability.TicketSavesTotal.Inc()

	resourceIDs := make([]int, 0, len(ticket.TicketResources))
	for i := range ticket.TicketResources {
		resourceIDs = append(resourceIDs, ticket.TicketResources[i].ResourceID)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketSaved,
		TicketID: ticket.ID,
		Payload: events.TicketSavedPayload{
			ResourceIDs:     resourceIDs,
			IsClosed:        ticket.IsClosed,
			RemainingAmount: ticket.RemainingAmount,
		},
	})
	return nil
}

// CheckConcurrency loads the currently persisted version of the ticket and
// runs the validator against it. It returns the conflict message, empty
// when saving is safe, and performs no save itself: the caller decides
// whether to retry, discard or overwrite. A ticket that was never
// persisted has no conflict by definition.
func (s *TicketService) CheckConcurrency(ctx context.Context, ticket *domain.Ticket) (string, error) {
	if ticket.ID == 0 {
		return "", nil
	}

	loaded, err := s.tickets.OpenTicket(ctx, ticket.ID)
	if err != nil {
		return "", err
	}

	result := s.validator.Check(ticket, loaded)
	if !result.CanContinue() {
		observability.ConcurrencyConflictsTotal.WithLabelValues(string(result.Rule)).Inc()
		s.logger.Warn("ticket save rejected",
			zap.Int("ticket_id", ticket.ID),
			zap.String("rule", string(result.Rule)),
			zap.String("reason", result.ErrorMessage),
		)
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketConflict,
			TicketID: ticket.ID,
			Payload: events.TicketConflictPayload{
				Rule:    string(result.Rule),
				Message: result.ErrorMessage,
			},
		})
	}
	return result.ErrorMessage, nil
}

// GetOpenTicketCount counts open tickets, serving from cache when possible.
func (s *TicketService) GetOpenTicketCount(ctx context.Context) (int, error) {
	if count, ok, err := s.cache.GetOpenTicketCount(ctx); err == nil && ok {
		return count, nil
	}
	count, err := s.tickets.GetOpenTicketCount(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetOpenTicketCount(ctx, count); err != nil {
		s.logger.Warn("open ticket count cache write failed", zap.Error(err))
	}
	return count, nil
}

// GetOpenTicketIDs lists open tickets attached to a resource, serving from
// cache when possible.
func (s *TicketService) GetOpenTicketIDs(ctx context.Context, resourceID int) ([]int, error) {
	if ids, ok, err := s.cache.GetOpenTicketIDs(ctx, resourceID); err == nil && ok {
		return ids, nil
	}
	ids, err := s.tickets.GetOpenTicketIDs(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetOpenTicketIDs(ctx, resourceID, ids); err != nil {
		s.logger.Warn("open ticket ids cache write failed",
			zap.Int("resource_id", resourceID), zap.Error(err))
	}
	return ids, nil
}

// GetOpenTickets lists open tickets as lobby projections.
func (s *TicketService) GetOpenTickets(ctx context.Context, filter repository.OpenTicketFilter) ([]domain.OpenTicketRow, error) {
	return s.tickets.GetOpenTickets(ctx, filter)
}

// GetFilteredTickets lists tickets within a date window. The end date is
// inclusive through the last minute of that calendar day.
func (s *TicketService) GetFilteredTickets(ctx context.Context, start, end time.Time, filter repository.ExplorerFilter) ([]domain.Ticket, error) {
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end date precedes start date", nil)
	}
	return s.tickets.GetFilteredTickets(ctx, start, end, filter)
}

// GetOrders lists the order lines of a ticket.
func (s *TicketService) GetOrders(ctx context.Context, ticketID int) ([]domain.Order, error) {
	if ticketID <= 0 {
		return nil, apperrors.NewValidationError("ticket id must be greater than zero", map[string]any{"id": ticketID})
	}
	return s.tickets.GetOrders(ctx, ticketID)
}

// SaveFreeTicketTag registers a free-form ticket tag under its group.
// Empty tags are ignored; repeated calls with the same text, in any case,
// never create duplicates.
func (s *TicketService) SaveFreeTicketTag(ctx context.Context, groupID int, freeTag string) error {
	freeTag = strings.TrimSpace(freeTag)
	if freeTag == "" {
		return nil
	}
	created, err := s.tags.SaveFreeTicketTag(ctx, groupID, freeTag)
	if err != nil {
		return err
	}
	if created {
		observability.FreeTagsRegisteredTotal.WithLabelValues("ticket").Inc()
		s.publishEvent(ctx, events.Event{
			Type:    events.EventFreeTagSaved,
			Payload: events.FreeTagSavedPayload{GroupID: groupID, Kind: "ticket", TagName: freeTag},
		})
	}
	return nil
}

// SaveFreeOrderTag registers a free-form order tag under its group.
func (s *TicketService) SaveFreeOrderTag(ctx context.Context, groupID int, tag domain.OrderTag) error {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return nil
	}
	created, err := s.tags.SaveFreeOrderTag(ctx, groupID, tag)
	if err != nil {
		return err
	}
	if created {
		observability.FreeTagsRegisteredTotal.WithLabelValues("order").Inc()
		s.publishEvent(ctx, events.Event{
			Type:    events.EventFreeTagSaved,
			Payload: events.FreeTagSavedPayload{GroupID: groupID, Kind: "order", TagName: tag.Name},
		})
	}
	return nil
}

// TemplateDetail is a ticket template with its tag vocabularies resolved.
type TemplateDetail struct {
	Template        domain.TicketTemplate
	TicketTagGroups []domain.TicketTagGroup
	OrderTagGroups  []domain.OrderTagGroup
}

// ListTemplates lists the configured ticket templates.
func (s *TicketService) ListTemplates(ctx context.Context) ([]domain.TicketTemplate, error) {
	return s.templates.List(ctx)
}

// GetTicketTemplate loads a template and resolves the tag groups it binds,
// so a terminal can present the full tag vocabulary in one round trip.
func (s *TicketService) GetTicketTemplate(ctx context.Context, id int) (*TemplateDetail, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("template id must be greater than zero", map[string]any{"id": id})
	}
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &TemplateDetail{Template: *template}
	for _, groupID := range template.TicketTagGroupIDs {
		group, err := s.tags.GetTicketTagGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		detail.TicketTagGroups = append(detail.TicketTagGroups, *group)
	}
	for _, groupID := range template.OrderTagGroupIDs {
		group, err := s.tags.GetOrderTagGroup(ctx, groupID)
		if err != nil {
			return nil, err
		}
		detail.OrderTagGroups = append(detail.OrderTagGroups, *group)
	}
	return detail, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func newTicketNumber() string {
	return "TKT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
