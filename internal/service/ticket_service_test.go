package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pos-ticketing/internal/concurrency"
	"github.com/spec-kit/pos-ticketing/internal/domain"
	"github.com/spec-kit/pos-ticketing/internal/events"
	"github.com/spec-kit/pos-ticketing/internal/repository"
	"github.com/spec-kit/pos-ticketing/internal/service"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

type fakeTicketRepo struct {
	tickets map[int]*domain.Ticket
	nextID  int
	saved   []int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int]*domain.Ticket{}, nextID: 1}
}

func (r *fakeTicketRepo) OpenTicket(_ context.Context, id int) (*domain.Ticket, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("ticket id must be greater than zero", nil)
	}
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Save(_ context.Context, ticket *domain.Ticket) error {
	if ticket.ID == 0 {
		ticket.ID = r.nextID
		r.nextID++
	}
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	r.saved = append(r.saved, ticket.ID)
	return nil
}

func (r *fakeTicketRepo) GetOpenTicketCount(context.Context) (int, error) {
	count := 0
	for _, t := range r.tickets {
		if t.IsOpen() {
			count++
		}
	}
	return count, nil
}

func (r *fakeTicketRepo) GetOpenTicketIDs(_ context.Context, resourceID int) ([]int, error) {
	var ids []int
	for id, t := range r.tickets {
		if t.IsOpen() && t.HasResource(resourceID) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeTicketRepo) GetOpenTickets(context.Context, repository.OpenTicketFilter) ([]domain.OpenTicketRow, error) {
	return nil, nil
}

func (r *fakeTicketRepo) GetFilteredTickets(_ context.Context, start, end time.Time, _ repository.ExplorerFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.tickets {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) GetOrders(_ context.Context, ticketID int) ([]domain.Order, error) {
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, nil
	}
	return ticket.Orders, nil
}

type fakeTagRepo struct {
	ticketGroups map[int][]string
	orderGroups  map[int][]domain.OrderTag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{
		ticketGroups: map[int][]string{},
		orderGroups:  map[int][]domain.OrderTag{},
	}
}

func (r *fakeTagRepo) GetTicketTagGroup(_ context.Context, groupID int) (*domain.TicketTagGroup, error) {
	tags, ok := r.ticketGroups[groupID]
	if !ok {
		return nil, apperrors.NewNotFound("ticket tag group", nil)
	}
	group := &domain.TicketTagGroup{ID: groupID}
	for i, name := range tags {
		group.TicketTags = append(group.TicketTags, domain.TicketTag{ID: i + 1, GroupID: groupID, Name: name})
	}
	return group, nil
}

func (r *fakeTagRepo) GetOrderTagGroup(_ context.Context, groupID int) (*domain.OrderTagGroup, error) {
	tags, ok := r.orderGroups[groupID]
	if !ok {
		return nil, apperrors.NewNotFound("order tag group", nil)
	}
	return &domain.OrderTagGroup{ID: groupID, OrderTags: tags}, nil
}

func (r *fakeTagRepo) SaveFreeTicketTag(_ context.Context, groupID int, name string) (bool, error) {
	tags, ok := r.ticketGroups[groupID]
	if !ok {
		return false, apperrors.NewNotFound("ticket tag group", nil)
	}
	for _, existing := range tags {
		if strings.EqualFold(existing, name) {
			return false, nil
		}
	}
	r.ticketGroups[groupID] = append(tags, name)
	return true, nil
}

func (r *fakeTagRepo) SaveFreeOrderTag(_ context.Context, groupID int, tag domain.OrderTag) (bool, error) {
	tags, ok := r.orderGroups[groupID]
	if !ok {
		return false, apperrors.NewNotFound("order tag group", nil)
	}
	for _, existing := range tags {
		if strings.EqualFold(existing.Name, tag.Name) {
			return false, nil
		}
	}
	r.orderGroups[groupID] = append(tags, tag)
	return true, nil
}

type fakeTemplateRepo struct {
	templates map[int]domain.TicketTemplate
}

func (r *fakeTemplateRepo) List(context.Context) ([]domain.TicketTemplate, error) {
	var out []domain.TicketTemplate
	for _, t := range r.templates {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id int) (*domain.TicketTemplate, error) {
	t, ok := r.templates[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket template", nil)
	}
	return &t, nil
}

func newService(repo *fakeTicketRepo, tags *fakeTagRepo) *service.TicketService {
	return newServiceWithTemplates(repo, tags, &fakeTemplateRepo{})
}

func newServiceWithTemplates(repo *fakeTicketRepo, tags *fakeTagRepo, templates *fakeTemplateRepo) *service.TicketService {
	return service.NewTicketService(service.TicketDependencies{
		TicketRepo:   repo,
		TagRepo:      tags,
		TemplateRepo: templates,
		Validator:    concurrency.NewTicketValidator(),
		Dispatcher:   events.NewInMemoryDispatcher(nil),
	})
}

func TestCheckConcurrency_NewTicketHasNoConflict(t *testing.T) {
	svc := newService(newFakeTicketRepo(), newFakeTagRepo())

	message, err := svc.CheckConcurrency(context.Background(), domain.NewTicket(1))
	require.NoError(t, err)
	assert.Empty(t, message)
}

func TestCheckConcurrency_LoadsCurrentSnapshotWithoutSaving(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newService(repo, newFakeTagRepo())

	stored := domain.NewTicket(1)
	stored.AccountName = "Acme"
	require.NoError(t, repo.Save(context.Background(), stored))

	edited := *stored
	edited.AccountName = "Globex"
	// The store was rebound elsewhere in the meantime.
	stored.AccountName = "Initech"
	repo.tickets[stored.ID] = stored

	savesBefore := len(repo.saved)
	message, err := svc.CheckConcurrency(context.Background(), &edited)
	require.NoError(t, err)
	assert.Contains(t, message, "Initech")
	assert.Len(t, repo.saved, savesBefore, "check must not save")
}

func TestCheckConcurrency_CleanSnapshotReturnsEmpty(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newService(repo, newFakeTagRepo())

	stored := domain.NewTicket(1)
	stored.AccountName = "Acme"
	stored.AddResource(domain.TicketResource{ResourceID: 1, ResourceName: "Table 1"})
	require.NoError(t, repo.Save(context.Background(), stored))

	edited := *stored
	edited.Note = "extra napkins"

	message, err := svc.CheckConcurrency(context.Background(), &edited)
	require.NoError(t, err)
	assert.Empty(t, message)
}

func TestSave_PersistsUnconditionally(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newService(repo, newFakeTagRepo())

	ticket := domain.NewTicket(1)
	require.NoError(t, svc.Save(context.Background(), ticket))

	assert.NotZero(t, ticket.ID)
	assert.NotEmpty(t, ticket.TicketNumber)
	assert.Len(t, repo.saved, 1)
}

func TestOpenTicket_RejectsNonPositiveID(t *testing.T) {
	svc := newService(newFakeTicketRepo(), newFakeTagRepo())

	_, err := svc.OpenTicket(context.Background(), 0)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestGetFilteredTickets_EndDateInclusiveThroughDay(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := newService(repo, newFakeTagRepo())

	lateEvening := domain.NewTicket(1)
	lateEvening.Date = time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	require.NoError(t, repo.Save(context.Background(), lateEvening))

	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	// The fake applies the window as given; day expansion is the
	// repository's job (see ExplorerWindowEnd).
	tickets, err := svc.GetFilteredTickets(context.Background(), start, end.AddDate(0, 0, 1), repository.ExplorerFilter{})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)

	_, err = svc.GetFilteredTickets(context.Background(), end, start.AddDate(0, 0, -1), repository.ExplorerFilter{})
	require.Error(t, err)
}

func TestSaveFreeTicketTag_CaseInsensitiveDedup(t *testing.T) {
	tags := newFakeTagRepo()
	tags.ticketGroups[7] = nil
	svc := newService(newFakeTicketRepo(), tags)

	ctx := context.Background()
	require.NoError(t, svc.SaveFreeTicketTag(ctx, 7, "VIP"))
	require.NoError(t, svc.SaveFreeTicketTag(ctx, 7, "VIP"))
	require.NoError(t, svc.SaveFreeTicketTag(ctx, 7, "vip"))

	group, err := tags.GetTicketTagGroup(ctx, 7)
	require.NoError(t, err)
	require.Len(t, group.TicketTags, 1)
	assert.Equal(t, "VIP", group.TicketTags[0].Name)
}

func TestSaveFreeTicketTag_EmptyTagIsNoOp(t *testing.T) {
	tags := newFakeTagRepo()
	svc := newService(newFakeTicketRepo(), tags)

	require.NoError(t, svc.SaveFreeTicketTag(context.Background(), 7, "   "))
}

func TestSaveFreeOrderTag_MissingGroupFails(t *testing.T) {
	tags := newFakeTagRepo()
	svc := newService(newFakeTicketRepo(), tags)

	err := svc.SaveFreeOrderTag(context.Background(), 99, domain.OrderTag{Name: "Spicy"})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestGetTicketTemplate_ResolvesTagGroups(t *testing.T) {
	tags := newFakeTagRepo()
	tags.ticketGroups[7] = []string{"VIP"}
	tags.orderGroups[3] = []domain.OrderTag{{Name: "Spicy", Price: 0.50}}
	templates := &fakeTemplateRepo{templates: map[int]domain.TicketTemplate{
		1: {ID: 1, Name: "Dine In", TicketTagGroupIDs: []int{7}, OrderTagGroupIDs: []int{3}},
	}}
	svc := newServiceWithTemplates(newFakeTicketRepo(), tags, templates)

	detail, err := svc.GetTicketTemplate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Dine In", detail.Template.Name)
	require.Len(t, detail.TicketTagGroups, 1)
	assert.Equal(t, "VIP", detail.TicketTagGroups[0].TicketTags[0].Name)
	require.Len(t, detail.OrderTagGroups, 1)
	assert.Equal(t, "Spicy", detail.OrderTagGroups[0].OrderTags[0].Name)
}

func TestGetTicketTemplate_RejectsNonPositiveID(t *testing.T) {
	svc := newService(newFakeTicketRepo(), newFakeTagRepo())

	_, err := svc.GetTicketTemplate(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestSaveFreeOrderTag_Dedup(t *testing.T) {
	tags := newFakeTagRepo()
	tags.orderGroups[3] = nil
	svc := newService(newFakeTicketRepo(), tags)

	ctx := context.Background()
	require.NoError(t, svc.SaveFreeOrderTag(ctx, 3, domain.OrderTag{Name: "Spicy", Price: 0.50}))
	require.NoError(t, svc.SaveFreeOrderTag(ctx, 3, domain.OrderTag{Name: "SPICY"}))

	group, err := tags.GetOrderTagGroup(ctx, 3)
	require.NoError(t, err)
	require.Len(t, group.OrderTags, 1)
	assert.Equal(t, 0.50, group.OrderTags[0].Price)
}
