package concurrency

import (
	"fmt"

	"github.com/spec-kit/pos-ticketing/internal/domain"
)

// User-facing conflict reasons. The %s in MsgTicketMovedFmt names the
// account or resource the ticket now belongs to.
const (
	MsgTicketMovedFmt  = "ticket moved to %s, retry the last operation"
	MsgTicketPaid      = "ticket is already paid, your changes were not saved"
	MsgTicketChanged   = "ticket changed, retry the last operation"
	MsgPaymentRecorded = "a payment was recorded for this ticket, your changes were not saved"
)

// Validator decides whether an edited ticket may overwrite the persisted
// version. Implementations must be pure: both snapshots are complete and
// no further retrieval happens during the check.
type Validator interface {
	Check(current, loaded *domain.Ticket) Result
}

// TicketValidator applies the save-time precedence rules. Rules are
// evaluated in order and the first match wins; a ticket that was never
// persisted (ID 0) has no conflict by definition.
type TicketValidator struct{}

// NewTicketValidator returns the standard validator.
func NewTicketValidator() *TicketValidator {
	return &TicketValidator{}
}

// Check compares the edited snapshot against the freshly loaded one.
//
// The account and resource rules come first: a ticket rebound to another
// account or moved to different resources is no longer the same ticket
// from the editor's point of view and must never be silently merged.
// Closed-state and payment rules guard against losing money movements;
// the settled-sum rule catches a zero remaining amount computed from
// stale line items.
func (v *TicketValidator) Check(current, loaded *domain.Ticket) Result {
	if current.ID <= 0 {
		return Continue()
	}

	if current.AccountName != loaded.AccountName {
		return Break(RuleAccountMoved, fmt.Sprintf(MsgTicketMovedFmt, loaded.AccountName))
	}

	if !sameResourceSet(current, loaded) {
		return Break(RuleResourceMoved, fmt.Sprintf(MsgTicketMovedFmt, differingResource(current, loaded).ResourceName))
	}

	if current.IsClosed != loaded.IsClosed {
		if loaded.IsClosed {
			return Break(RuleAlreadyClosed, MsgTicketPaid)
		}
		return Break(RuleNotClosed, MsgTicketChanged)
	} else if !current.LastPaymentDate.Equal(loaded.LastPaymentDate) {
		known := current.PaymentIDSet()
		for i := range loaded.Payments {
			if _, ok := known[loaded.Payments[i].ID]; !ok {
				return Break(RulePaymentUnknown, MsgPaymentRecorded)
			}
		}
		// Every stored payment is already known to the editor; the
		// timestamp drift alone is not a conflict.
	}

	if current.RemainingAmount == 0 && loaded.Sum() != current.Sum() {
		return Break(RuleSumChanged, MsgTicketChanged)
	}

	return Continue()
}

func sameResourceSet(current, loaded *domain.Ticket) bool {
	if len(current.TicketResources) != len(loaded.TicketResources) {
		return false
	}
	loadedSet := loaded.ResourceIDSet()
	for i := range current.TicketResources {
		if _, ok := loadedSet[current.TicketResources[i].ResourceID]; !ok {
			return false
		}
	}
	return true
}

// differingResource names one resource that distinguishes the snapshots,
// preferring one the editor added over one added elsewhere.
func differingResource(current, loaded *domain.Ticket) domain.TicketResource {
	loadedSet := loaded.ResourceIDSet()
	for i := range current.TicketResources {
		if _, ok := loadedSet[current.TicketResources[i].ResourceID]; !ok {
			return current.TicketResources[i]
		}
	}
	currentSet := current.ResourceIDSet()
	for i := range loaded.TicketResources {
		if _, ok := currentSet[loaded.TicketResources[i].ResourceID]; !ok {
			return loaded.TicketResources[i]
		}
	}
	return domain.TicketResource{}
}
