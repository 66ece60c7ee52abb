package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/pos-ticketing/internal/domain"
	apperrors "github.com/spec-kit/pos-ticketing/pkg/util"
)

// OpenTicketFilter narrows open-ticket listings.
type OpenTicketFilter struct {
	ResourceID   *int
	AccountID    *int
	DepartmentID *int
}

// ExplorerFilter narrows date-range ticket queries.
type ExplorerFilter struct {
	AccountName  *string
	TicketNumber *string
	ResourceID   *int
	DepartmentID *int
	IsClosed     *bool
}

// TicketRepository encapsulates ticket persistence. OpenTicket returns the
// complete aggregate with every sub-collection loaded; callers never
// trigger further retrieval.
type TicketRepository interface {
	OpenTicket(ctx context.Context, id int) (*domain.Ticket, error)
	Save(ctx context.Context, ticket *domain.Ticket) error
	GetOpenTicketCount(ctx context.Context) (int, error)
	GetOpenTicketIDs(ctx context.Context, resourceID int) ([]int, error)
	GetOpenTickets(ctx context.Context, filter OpenTicketFilter) ([]domain.OpenTicketRow, error)
	GetFilteredTickets(ctx context.Context, start, end time.Time, filter ExplorerFilter) ([]domain.Ticket, error)
	GetOrders(ctx context.Context, ticketID int) ([]domain.Order, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, date, last_order_date, last_payment_date,
               state, is_closed, remaining_amount, total_amount,
               account_id, account_name, note, department_id`

func (r *ticketRepository) OpenTicket(ctx context.Context, id int) (*domain.Ticket, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("ticket id must be greater than zero", map[string]any{"id": id})
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	ticket, err := r.scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if ticket.Orders, err = r.GetOrders(ctx, id); err != nil {
		return nil, err
	}
	if ticket.TicketResources, err = r.loadResources(ctx, id); err != nil {
		return nil, err
	}
	if ticket.Payments, err = r.loadPayments(ctx, id); err != nil {
		return nil, err
	}
	if ticket.ChangePayments, err = r.loadChangePayments(ctx, id); err != nil {
		return nil, err
	}
	if ticket.Calculations, err = r.loadCalculations(ctx, id); err != nil {
		return nil, err
	}
	if ticket.TicketTags, err = r.loadTicketTags(ctx, id); err != nil {
		return nil, err
	}
	return ticket, nil
}

// Save persists the whole aggregate in one transaction. Payments and
// change payments are append-only: rows already persisted are left
// untouched for audit. Resources, calculations and tag values are replaced
// wholesale; orders are upserted and stale lines removed.
func (r *ticketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if ticket.ID == 0 {
			const insert = `
        INSERT INTO tickets (ticket_number, date, last_order_date, last_payment_date, state, is_closed,
                             remaining_amount, total_amount, account_id, account_name, note, department_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id`
			if err := tx.QueryRow(ctx, insert,
				ticket.TicketNumber, ticket.Date, ticket.LastOrderDate, ticket.LastPaymentDate,
				ticket.State, ticket.IsClosed, ticket.RemainingAmount, ticket.TotalAmount,
				ticket.AccountID, ticket.AccountName, ticket.Note, ticket.DepartmentID,
			).Scan(&ticket.ID); err != nil {
				return err
			}
		} else {
			const update = `
        UPDATE tickets SET ticket_number=$1, date=$2, last_order_date=$3, last_payment_date=$4,
               state=$5, is_closed=$6, remaining_amount=$7, total_amount=$8,
               account_id=$9, account_name=$10, note=$11, department_id=$12
        WHERE id=$13`
			cmd, err := tx.Exec(ctx, update,
				ticket.TicketNumber, ticket.Date, ticket.LastOrderDate, ticket.LastPaymentDate,
				ticket.State, ticket.IsClosed, ticket.RemainingAmount, ticket.TotalAmount,
				ticket.AccountID, ticket.AccountName, ticket.Note, ticket.DepartmentID, ticket.ID,
			)
			if err != nil {
				return err
			}
			if cmd.RowsAffected() == 0 {
				return pgx.ErrNoRows
			}
		}

		if err := r.saveOrders(ctx, tx, ticket); err != nil {
			return err
		}
		if err := r.savePayments(ctx, tx, ticket); err != nil {
			return err
		}
		if err := r.saveResources(ctx, tx, ticket); err != nil {
			return err
		}
		if err := r.saveCalculations(ctx, tx, ticket); err != nil {
			return err
		}
		return r.saveTicketTags(ctx, tx, ticket)
	})
}

// withTx runs fn inside a transaction; the deferred rollback releases the
// connection on every exit path.
func (r *ticketRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
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

func (r *ticketRepository) GetOpenTicketCount(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets WHERE state < $1`, domain.TicketStateClosed,
	).Scan(&count)
	return count, err
}

func (r *ticketRepository) GetOpenTicketIDs(ctx context.Context, resourceID int) ([]int, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT t.id FROM tickets t
        JOIN ticket_resources tr ON tr.ticket_id = t.id
        WHERE t.state < $1 AND tr.resource_id = $2
        ORDER BY t.id`, domain.TicketStateClosed, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ticketRepository) GetOpenTickets(ctx context.Context, filter OpenTicketFilter) ([]domain.OpenTicketRow, error) {
	clauses := []string{"t.state < $1"}
	args := []any{domain.TicketStateClosed}

	if filter.ResourceID != nil {
		args = append(args, *filter.ResourceID)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM ticket_resources tr WHERE tr.ticket_id = t.id AND tr.resource_id = $%d)", len(args)))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		clauses = append(clauses, fmt.Sprintf("t.account_id = $%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("t.department_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
        SELECT t.id, t.ticket_number, t.date, t.last_order_date, t.remaining_amount
        FROM tickets t WHERE %s ORDER BY t.last_order_date DESC`, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.OpenTicketRow
	for rows.Next() {
		var row domain.OpenTicketRow
		if err := rows.Scan(&row.ID, &row.TicketNumber, &row.Date, &row.LastOrderDate, &row.RemainingAmount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		if result[i].TicketResources, err = r.loadResources(ctx, result[i].ID); err != nil {
			return nil, err
		}
		if result[i].TicketTags, err = r.loadTicketTags(ctx, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ExplorerWindowEnd expands an end date to the last minute of its calendar
// day, so a window ending on a date includes every ticket opened that day.
func ExplorerWindowEnd(end time.Time) time.Time {
	return time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).
		AddDate(0, 0, 1).Add(-time.Minute)
}

func (r *ticketRepository) GetFilteredTickets(ctx context.Context, start, end time.Time, filter ExplorerFilter) ([]domain.Ticket, error) {
	end = ExplorerWindowEnd(end)

	clauses := []string{"t.date >= $1", "t.date < $2"}
	args := []any{start, end}

	if filter.AccountName != nil {
		args = append(args, *filter.AccountName)
		clauses = append(clauses, fmt.Sprintf("t.account_name = $%d", len(args)))
	}
	if filter.TicketNumber != nil {
		args = append(args, *filter.TicketNumber)
		clauses = append(clauses, fmt.Sprintf("t.ticket_number = $%d", len(args)))
	}
	if filter.ResourceID != nil {
		args = append(args, *filter.ResourceID)
		clauses = append(clauses, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM ticket_resources tr WHERE tr.ticket_id = t.id AND tr.resource_id = $%d)", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("t.department_id = $%d", len(args)))
	}
	if filter.IsClosed != nil {
		args = append(args, *filter.IsClosed)
		clauses = append(clauses, fmt.Sprintf("t.is_closed = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets t WHERE %s ORDER BY t.date`,
		strings.ReplaceAll(ticketColumns, "\n", " "), strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := r.scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range tickets {
		if tickets[i].TicketResources, err = r.loadResources(ctx, tickets[i].ID); err != nil {
			return nil, err
		}
	}
	return tickets, nil
}

func (r *ticketRepository) GetOrders(ctx context.Context, ticketID int) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, ticket_id, menu_item_name, portion_name, price, quantity, order_number, created_at
        FROM orders WHERE ticket_id=$1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.TicketID, &o.MenuItemName, &o.PortionName,
			&o.Price, &o.Quantity, &o.OrderNumber, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].OrderTagValues, err = r.loadOrderTagValues(ctx, orders[i].ID); err != nil {
			return nil, err
		}
		if orders[i].ProductTimerValue, err = r.loadProductTimerValue(ctx, orders[i].ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ticketRepository) scanTicket(row rowScanner) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.ID, &t.TicketNumber, &t.Date, &t.LastOrderDate, &t.LastPaymentDate,
		&t.State, &t.IsClosed, &t.RemainingAmount, &t.TotalAmount,
		&t.AccountID, &t.AccountName, &t.Note, &t.DepartmentID,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) loadResources(ctx context.Context, ticketID int) ([]domain.TicketResource, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT ticket_id, resource_id, resource_name, account_id
        FROM ticket_resources WHERE ticket_id=$1 ORDER BY resource_id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.TicketResource
	for rows.Next() {
		var res domain.TicketResource
		if err := rows.Scan(&res.TicketID, &res.ResourceID, &res.ResourceName, &res.AccountID); err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

func (r *ticketRepository) loadPayments(ctx context.Context, ticketID int) ([]domain.Payment, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, ticket_id, name, amount, date FROM payments WHERE ticket_id=$1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.TicketID, &p.Name, &p.Amount, &p.Date); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *ticketRepository) loadChangePayments(ctx context.Context, ticketID int) ([]domain.ChangePayment, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, ticket_id, name, amount, date FROM change_payments WHERE ticket_id=$1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.ChangePayment
	for rows.Next() {
		var p domain.ChangePayment
		if err := rows.Scan(&p.ID, &p.TicketID, &p.Name, &p.Amount, &p.Date); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *ticketRepository) loadCalculations(ctx context.Context, ticketID int) ([]domain.Calculation, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, ticket_id, name, amount FROM calculations WHERE ticket_id=$1 ORDER BY id`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calcs []domain.Calculation
	for rows.Next() {
		var c domain.Calculation
		if err := rows.Scan(&c.ID, &c.TicketID, &c.Name, &c.Amount); err != nil {
			return nil, err
		}
		calcs = append(calcs, c)
	}
	return calcs, rows.Err()
}

func (r *ticketRepository) loadTicketTags(ctx context.Context, ticketID int) ([]domain.TicketTagValue, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT ticket_id, tag_name, tag_value FROM ticket_tag_values WHERE ticket_id=$1 ORDER BY tag_name`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []domain.TicketTagValue
	for rows.Next() {
		var tag domain.TicketTagValue
		if err := rows.Scan(&tag.TicketID, &tag.TagName, &tag.TagValue); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *ticketRepository) loadOrderTagValues(ctx context.Context, orderID int) ([]domain.OrderTagValue, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, order_id, tag_name, tag_value, price, quantity
        FROM order_tag_values WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []domain.OrderTagValue
	for rows.Next() {
		var v domain.OrderTagValue
		if err := rows.Scan(&v.ID, &v.OrderID, &v.TagName, &v.TagValue, &v.Price, &v.Quantity); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *ticketRepository) loadProductTimerValue(ctx context.Context, orderID int) (*domain.ProductTimerValue, error) {
	var v domain.ProductTimerValue
	err := r.pool.QueryRow(ctx, `
        SELECT id, order_id, start_time, stop_time, price_duration
        FROM product_timer_values WHERE order_id=$1`, orderID).
		Scan(&v.ID, &v.OrderID, &v.Start, &v.Stop, &v.PriceDuration)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ticketRepository) saveOrders(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	kept := make([]int, 0, len(ticket.Orders))
	for i := range ticket.Orders {
		o := &ticket.Orders[i]
		o.TicketID = ticket.ID
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now()
		}
		if o.ID == 0 {
			if err := tx.QueryRow(ctx, `
        INSERT INTO orders (ticket_id, menu_item_name, portion_name, price, quantity, order_number, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
				o.TicketID, o.MenuItemName, o.PortionName, o.Price, o.Quantity, o.OrderNumber, o.CreatedAt,
			).Scan(&o.ID); err != nil {
				return err
			}
		} else {
			if _, err := tx.Exec(ctx, `
        UPDATE orders SET menu_item_name=$1, portion_name=$2, price=$3, quantity=$4, order_number=$5
        WHERE id=$6 AND ticket_id=$7`,
				o.MenuItemName, o.PortionName, o.Price, o.Quantity, o.OrderNumber, o.ID, o.TicketID,
			); err != nil {
				return err
			}
		}
		kept = append(kept, o.ID)

		if err := r.saveOrderTagValues(ctx, tx, o); err != nil {
			return err
		}
		if err := r.saveProductTimerValue(ctx, tx, o); err != nil {
			return err
		}
	}

	_, err := tx.Exec(ctx,
		`DELETE FROM orders WHERE ticket_id=$1 AND NOT (id = ANY($2))`, ticket.ID, kept)
	return err
}

func (r *ticketRepository) saveOrderTagValues(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	if _, err := tx.Exec(ctx, `DELETE FROM order_tag_values WHERE order_id=$1`, order.ID); err != nil {
		return err
	}
	for i := range order.OrderTagValues {
		v := &order.OrderTagValues[i]
		v.OrderID = order.ID
		if err := tx.QueryRow(ctx, `
        INSERT INTO order_tag_values (order_id, tag_name, tag_value, price, quantity)
        VALUES ($1,$2,$3,$4,$5) RETURNING id`,
			v.OrderID, v.TagName, v.TagValue, v.Price, v.Quantity,
		).Scan(&v.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketRepository) saveProductTimerValue(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	if _, err := tx.Exec(ctx, `DELETE FROM product_timer_values WHERE order_id=$1`, order.ID); err != nil {
		return err
	}
	if order.ProductTimerValue == nil {
		return nil
	}
	v := order.ProductTimerValue
	v.OrderID = order.ID
	return tx.QueryRow(ctx, `
        INSERT INTO product_timer_values (order_id, start_time, stop_time, price_duration)
        VALUES ($1,$2,$3,$4) RETURNING id`,
		v.OrderID, v.Start, v.Stop, v.PriceDuration,
	).Scan(&v.ID)
}

func (r *ticketRepository) savePayments(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	for i := range ticket.Payments {
		p := &ticket.Payments[i]
		if p.ID != 0 {
			continue
		}
		p.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, `
        INSERT INTO payments (ticket_id, name, amount, date)
        VALUES ($1,$2,$3,$4) RETURNING id`,
			p.TicketID, p.Name, p.Amount, p.Date,
		).Scan(&p.ID); err != nil {
			return err
		}
	}
	for i := range ticket.ChangePayments {
		p := &ticket.ChangePayments[i]
		if p.ID != 0 {
			continue
		}
		p.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, `
        INSERT INTO change_payments (ticket_id, name, amount, date)
        VALUES ($1,$2,$3,$4) RETURNING id`,
			p.TicketID, p.Name, p.Amount, p.Date,
		).Scan(&p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketRepository) saveResources(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	if _, err := tx.Exec(ctx, `DELETE FROM ticket_resources WHERE ticket_id=$1`, ticket.ID); err != nil {
		return err
	}
	for i := range ticket.TicketResources {
		res := &ticket.TicketResources[i]
		res.TicketID = ticket.ID
		if _, err := tx.Exec(ctx, `
        INSERT INTO ticket_resources (ticket_id, resource_id, resource_name, account_id)
        VALUES ($1,$2,$3,$4)`,
			res.TicketID, res.ResourceID, res.ResourceName, res.AccountID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketRepository) saveCalculations(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	if _, err := tx.Exec(ctx, `DELETE FROM calculations WHERE ticket_id=$1`, ticket.ID); err != nil {
		return err
	}
	for i := range ticket.Calculations {
		c := &ticket.Calculations[i]
		c.TicketID = ticket.ID
		if err := tx.QueryRow(ctx, `
        INSERT INTO calculations (ticket_id, name, amount) VALUES ($1,$2,$3) RETURNING id`,
			c.TicketID, c.Name, c.Amount,
		).Scan(&c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ticketRepository) saveTicketTags(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	if _, err := tx.Exec(ctx, `DELETE FROM ticket_tag_values WHERE ticket_id=$1`, ticket.ID); err != nil {
		return err
	}
	for i := range ticket.TicketTags {
		tag := &ticket.TicketTags[i]
		tag.TicketID = ticket.ID
		if _, err := tx.Exec(ctx, `
        INSERT INTO ticket_tag_values (ticket_id, tag_name, tag_value) VALUES ($1,$2,$3)`,
			tag.TicketID, tag.TagName, tag.TagValue,
		); err != nil {
			return err
		}
	}
	return nil
}
