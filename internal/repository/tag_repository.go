package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pos-ticketing/internal/domain"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// TagRepository registers free-form tags under their owning groups. Tag
// names are deduplicated case-insensitively; the group must pre-exist.
type TagRepository interface {
	GetTicketTagGroup(ctx context.Context, groupID int) (*domain.TicketTagGroup, error)
	GetOrderTagGroup(ctx context.Context, groupID int) (*domain.OrderTagGroup, error)
	SaveFreeTicketTag(ctx context.Context, groupID int, name string) (bool, error)
	SaveFreeOrderTag(ctx context.Context, groupID int, tag domain.OrderTag) (bool, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository instantiates repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) GetTicketTagGroup(ctx context.Context, groupID int) (*domain.TicketTagGroup, error) {
	var group domain.TicketTagGroup
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, free_tagging FROM ticket_tag_groups WHERE id=$1`, groupID,
	).Scan(&group.ID, &group.Name, &group.FreeTagging)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("ticket tag group", map[string]any{"id": groupID})
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, group_id, name FROM ticket_tags WHERE group_id=$1 ORDER BY id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tag domain.TicketTag
		if err := rows.Scan(&tag.ID, &tag.GroupID, &tag.Name); err != nil {
			return nil, err
		}
		group.TicketTags = append(group.TicketTags, tag)
	}
	return &group, rows.Err()
}

func (r *tagRepository) GetOrderTagGroup(ctx context.Context, groupID int) (*domain.OrderTagGroup, error) {
	var group domain.OrderTagGroup
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, free_tagging FROM order_tag_groups WHERE id=$1`, groupID,
	).Scan(&group.ID, &group.Name, &group.FreeTagging)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("order tag group", map[string]any{"id": groupID})
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, group_id, name, price FROM order_tags WHERE group_id=$1 ORDER BY id`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tag domain.OrderTag
		if err := rows.Scan(&tag.ID, &tag.GroupID, &tag.Name, &tag.Price); err != nil {
			return nil, err
		}
		group.OrderTags = append(group.OrderTags, tag)
	}
	return &group, rows.Err()
}

// SaveFreeTicketTag inserts the tag under the group unless a tag with the
// same name (ignoring case) already exists. Returns whether a row was
// created.
func (r *tagRepository) SaveFreeTicketTag(ctx context.Context, groupID int, name string) (bool, error) {
	created := false
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var id int
		err := tx.QueryRow(ctx, `SELECT id FROM ticket_tag_groups WHERE id=$1`, groupID).Scan(&id)
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket tag group", map[string]any{"id": groupID})
		}
		if err != nil {
			return err
		}

		var existing int
		err = tx.QueryRow(ctx,
			`SELECT id FROM ticket_tags WHERE group_id=$1 AND LOWER(name)=LOWER($2)`, groupID, name,
		).Scan(&existing)
		if err == nil {
			return nil
		}
		if err != pgx.ErrNoRows {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO ticket_tags (group_id, name) VALUES ($1,$2)`, groupID, name); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// SaveFreeOrderTag behaves like SaveFreeTicketTag for order tags, also
// persisting the tag's surcharge.
func (r *tagRepository) SaveFreeOrderTag(ctx context.Context, groupID int, tag domain.OrderTag) (bool, error) {
	created := false
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var id int
		err := tx.QueryRow(ctx, `SELECT id FROM order_tag_groups WHERE id=$1`, groupID).Scan(&id)
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("order tag group", map[string]any{"id": groupID})
		}
		if err != nil {
			return err
		}

		var existing int
		err = tx.QueryRow(ctx,
			`SELECT id FROM order_tags WHERE group_id=$1 AND LOWER(name)=LOWER($2)`, groupID, tag.Name,
		).Scan(&existing)
		if err == nil {
			return nil
		}
		if err != pgx.ErrNoRows {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO order_tags (group_id, name, price) VALUES ($1,$2,$3)`, groupID, tag.Name, tag.Price); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

func (r *tagRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
