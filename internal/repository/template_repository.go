package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pos-ticketing/internal/domain"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// TemplateRepository reads ticket templates. Templates are configuration
// rows maintained by back office; this service only consumes them.
type TemplateRepository interface {
	List(ctx context.Context) ([]domain.TicketTemplate, error)
	GetByID(ctx context.Context, id int) (*domain.TicketTemplate, error)
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository instantiates repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

const templateColumns = `id, name, ticket_tag_group_ids, order_tag_group_ids`

func (r *templateRepository) List(ctx context.Context) ([]domain.TicketTemplate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+templateColumns+` FROM ticket_templates ORDER BY name`)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	defer rows.Close()

	var templates []domain.TicketTemplate
	for rows.Next() {
		var t domain.TicketTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.TicketTagGroupIDs, &t.OrderTagGroupIDs); err != nil {
			return nil, apperrors.MapError(err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) GetByID(ctx context.Context, id int) (*domain.TicketTemplate, error) {
	var t domain.TicketTemplate
	err := r.pool.QueryRow(ctx, `SELECT `+templateColumns+` FROM ticket_templates WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.TicketTagGroupIDs, &t.OrderTagGroupIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket template", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &t, nil
}
