package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pos-ticketing/internal/domain"
)

// StaffRepository encapsulates terminal operator persistence.
type StaffRepository interface {
	GetByID(ctx context.Context, id int) (*domain.StaffMember, error)
	GetByName(ctx context.Context, name string) (*domain.StaffMember, error)
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) GetByID(ctx context.Context, id int) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx,
		`SELECT id, name, pin_hash, role, is_active FROM staff_members WHERE id=$1`, id)
}

func (r *staffRepository) GetByName(ctx context.Context, name string) (*domain.StaffMember, error) {
	return r.fetchSingle(ctx,
		`SELECT id, name, pin_hash, role, is_active FROM staff_members WHERE LOWER(name)=LOWER($1)`, name)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.StaffMember, error) {
	var staff domain.StaffMember
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID, &staff.Name, &staff.PINHash, &staff.Role, &staff.IsActive,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}
