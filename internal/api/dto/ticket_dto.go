package dto

import (
	"time"

	"github.com/spec-kit/pos-ticketing/internal/domain"
)

// SaveTicketRequest carries the edited aggregate submitted for save.
type SaveTicketRequest struct {
	Ticket          TicketPayload `json:"ticket"`
	SkipConcurrency bool          `json:"skip_concurrency"`
}

// TicketPayload mirrors the ticket aggregate on the wire.
type TicketPayload struct {
	ID              int                     `json:"id"`
	TicketNumber    string                  `json:"ticket_number"`
	Date            time.Time               `json:"date"`
	LastOrderDate   time.Time               `json:"last_order_date"`
	LastPaymentDate time.Time               `json:"last_payment_date"`
	State           int                     `json:"state"`
	IsClosed        bool                    `json:"is_closed"`
	RemainingAmount float64                 `json:"remaining_amount"`
	TotalAmount     float64                 `json:"total_amount"`
	AccountID       int                     `json:"account_id"`
	AccountName     string                  `json:"account_name"`
	Note            string                  `json:"note"`
	DepartmentID    int                     `json:"department_id"`
	Orders          []OrderPayload          `json:"orders"`
	TicketResources []TicketResourcePayload `json:"ticket_resources"`
	Payments        []PaymentPayload        `json:"payments"`
	ChangePayments  []PaymentPayload        `json:"change_payments"`
	Calculations    []CalculationPayload    `json:"calculations"`
	TicketTags      []TicketTagPayload      `json:"ticket_tags"`
}

// OrderPayload mirrors a line item.
type OrderPayload struct {
	ID                int                       `json:"id"`
	MenuItemName      string                    `json:"menu_item_name"`
	PortionName       string                    `json:"portion_name"`
	Price             float64                   `json:"price"`
	Quantity          float64                   `json:"quantity"`
	OrderNumber       int                       `json:"order_number"`
	CreatedAt         time.Time                 `json:"created_at"`
	OrderTagValues    []OrderTagValuePayload    `json:"order_tag_values"`
	ProductTimerValue *ProductTimerValuePayload `json:"product_timer_value"`
}

// OrderTagValuePayload mirrors a tag applied to a line.
type OrderTagValuePayload struct {
	ID       int     `json:"id"`
	TagName  string  `json:"tag_name"`
	TagValue string  `json:"tag_value"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

// ProductTimerValuePayload mirrors timed pricing on a line.
type ProductTimerValuePayload struct {
	ID            int       `json:"id"`
	Start         time.Time `json:"start"`
	Stop          time.Time `json:"stop"`
	PriceDuration int       `json:"price_duration"`
}

// PaymentPayload mirrors a payment or change payment.
type PaymentPayload struct {
	ID     int       `json:"id"`
	Name   string    `json:"name"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// CalculationPayload mirrors a total adjustment.
type CalculationPayload struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// TicketTagPayload mirrors a tag value recorded on a ticket.
type TicketTagPayload struct {
	TagName  string `json:"tag_name"`
	TagValue string `json:"tag_value"`
}

// TicketResourcePayload mirrors a ticket/resource association.
type TicketResourcePayload struct {
	ResourceID   int    `json:"resource_id"`
	ResourceName string `json:"resource_name"`
	AccountID    int    `json:"account_id"`
}

// SaveTicketResponse reports the outcome of a save attempt.
type SaveTicketResponse struct {
	TicketID     int    `json:"ticket_id"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// ConcurrencyCheckResponse carries the verdict message; empty means safe.
type ConcurrencyCheckResponse struct {
	ErrorMessage string `json:"error_message"`
}

// OpenTicketRowResponse is the lobby projection.
type OpenTicketRowResponse struct {
	ID              int                     `json:"id"`
	TicketNumber    string                  `json:"ticket_number"`
	Date            time.Time               `json:"date"`
	LastOrderDate   time.Time               `json:"last_order_date"`
	RemainingAmount float64                 `json:"remaining_amount"`
	TicketResources []TicketResourcePayload `json:"ticket_resources"`
	TicketTags      []TicketTagPayload      `json:"ticket_tags"`
}

// SaveFreeTagRequest registers a free-form tag under a group.
type SaveFreeTagRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// ToDomain converts the payload to the aggregate.
func (p TicketPayload) ToDomain() *domain.Ticket {
	ticket := &domain.Ticket{
		ID:              p.ID,
		TicketNumber:    p.TicketNumber,
		Date:            p.Date,
		LastOrderDate:   p.LastOrderDate,
		LastPaymentDate: p.LastPaymentDate,
		State:           p.State,
		IsClosed:        p.IsClosed,
		RemainingAmount: p.RemainingAmount,
		TotalAmount:     p.TotalAmount,
		AccountID:       p.AccountID,
		AccountName:     p.AccountName,
		Note:            p.Note,
		DepartmentID:    p.DepartmentID,
	}
	for _, o := range p.Orders {
		order := domain.Order{
			ID:           o.ID,
			TicketID:     p.ID,
			MenuItemName: o.MenuItemName,
			PortionName:  o.PortionName,
			Price:        o.Price,
			Quantity:     o.Quantity,
			OrderNumber:  o.OrderNumber,
			CreatedAt:    o.CreatedAt,
		}
		for _, v := range o.OrderTagValues {
			order.OrderTagValues = append(order.OrderTagValues, domain.OrderTagValue{
				ID: v.ID, OrderID: o.ID, TagName: v.TagName, TagValue: v.TagValue,
				Price: v.Price, Quantity: v.Quantity,
			})
		}
		if o.ProductTimerValue != nil {
			order.ProductTimerValue = &domain.ProductTimerValue{
				ID: o.ProductTimerValue.ID, OrderID: o.ID,
				Start: o.ProductTimerValue.Start, Stop: o.ProductTimerValue.Stop,
				PriceDuration: o.ProductTimerValue.PriceDuration,
			}
		}
		ticket.Orders = append(ticket.Orders, order)
	}
	for _, r := range p.TicketResources {
		ticket.TicketResources = append(ticket.TicketResources, domain.TicketResource{
			TicketID: p.ID, ResourceID: r.ResourceID, ResourceName: r.ResourceName, AccountID: r.AccountID,
		})
	}
	for _, pay := range p.Payments {
		ticket.Payments = append(ticket.Payments, domain.Payment{
			ID: pay.ID, TicketID: p.ID, Name: pay.Name, Amount: pay.Amount, Date: pay.Date,
		})
	}
	for _, pay := range p.ChangePayments {
		ticket.ChangePayments = append(ticket.ChangePayments, domain.ChangePayment{
			ID: pay.ID, TicketID: p.ID, Name: pay.Name, Amount: pay.Amount, Date: pay.Date,
		})
	}
	for _, c := range p.Calculations {
		ticket.Calculations = append(ticket.Calculations, domain.Calculation{
			ID: c.ID, TicketID: p.ID, Name: c.Name, Amount: c.Amount,
		})
	}
	for _, tag := range p.TicketTags {
		ticket.TicketTags = append(ticket.TicketTags, domain.TicketTagValue{
			TicketID: p.ID, TagName: tag.TagName, TagValue: tag.TagValue,
		})
	}
	return ticket
}

// TicketPayloadFromDomain converts an aggregate for responses.
func TicketPayloadFromDomain(t *domain.Ticket) TicketPayload {
	payload := TicketPayload{
		ID:              t.ID,
		TicketNumber:    t.TicketNumber,
		Date:            t.Date,
		LastOrderDate:   t.LastOrderDate,
		LastPaymentDate: t.LastPaymentDate,
		State:           t.State,
		IsClosed:        t.IsClosed,
		RemainingAmount: t.RemainingAmount,
		TotalAmount:     t.TotalAmount,
		AccountID:       t.AccountID,
		AccountName:     t.AccountName,
		Note:            t.Note,
		DepartmentID:    t.DepartmentID,
	}
	for i := range t.Orders {
		payload.Orders = append(payload.Orders, OrderPayloadFromDomain(&t.Orders[i]))
	}
	for _, r := range t.TicketResources {
		payload.TicketResources = append(payload.TicketResources, TicketResourcePayload{
			ResourceID: r.ResourceID, ResourceName: r.ResourceName, AccountID: r.AccountID,
		})
	}
	for _, p := range t.Payments {
		payload.Payments = append(payload.Payments, PaymentPayload{
			ID: p.ID, Name: p.Name, Amount: p.Amount, Date: p.Date,
		})
	}
	for _, p := range t.ChangePayments {
		payload.ChangePayments = append(payload.ChangePayments, PaymentPayload{
			ID: p.ID, Name: p.Name, Amount: p.Amount, Date: p.Date,
		})
	}
	for _, c := range t.Calculations {
		payload.Calculations = append(payload.Calculations, CalculationPayload{
			ID: c.ID, Name: c.Name, Amount: c.Amount,
		})
	}
	for _, tag := range t.TicketTags {
		payload.TicketTags = append(payload.TicketTags, TicketTagPayload{
			TagName: tag.TagName, TagValue: tag.TagValue,
		})
	}
	return payload
}

// OrderPayloadFromDomain converts a line item for responses.
func OrderPayloadFromDomain(o *domain.Order) OrderPayload {
	payload := OrderPayload{
		ID:           o.ID,
		MenuItemName: o.MenuItemName,
		PortionName:  o.PortionName,
		Price:        o.Price,
		Quantity:     o.Quantity,
		OrderNumber:  o.OrderNumber,
		CreatedAt:    o.CreatedAt,
	}
	for _, v := range o.OrderTagValues {
		payload.OrderTagValues = append(payload.OrderTagValues, OrderTagValuePayload{
			ID: v.ID, TagName: v.TagName, TagValue: v.TagValue, Price: v.Price, Quantity: v.Quantity,
		})
	}
	if o.ProductTimerValue != nil {
		payload.ProductTimerValue = &ProductTimerValuePayload{
			ID:            o.ProductTimerValue.ID,
			Start:         o.ProductTimerValue.Start,
			Stop:          o.ProductTimerValue.Stop,
			PriceDuration: o.ProductTimerValue.PriceDuration,
		}
	}
	return payload
}

// OpenTicketRowFromDomain converts the lobby projection.
func OpenTicketRowFromDomain(row *domain.OpenTicketRow) OpenTicketRowResponse {
	resp := OpenTicketRowResponse{
		ID:              row.ID,
		TicketNumber:    row.TicketNumber,
		Date:            row.Date,
		LastOrderDate:   row.LastOrderDate,
		RemainingAmount: row.RemainingAmount,
	}
	for _, r := range row.TicketResources {
		resp.TicketResources = append(resp.TicketResources, TicketResourcePayload{
			ResourceID: r.ResourceID, ResourceName: r.ResourceName, AccountID: r.AccountID,
		})
	}
	for _, tag := range row.TicketTags {
		resp.TicketTags = append(resp.TicketTags, TicketTagPayload{
			TagName: tag.TagName, TagValue: tag.TagValue,
		})
	}
	return resp
}
