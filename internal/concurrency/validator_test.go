package concurrency_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pos-ticketing/internal/concurrency"
	"github.com/spec-kit/pos-ticketing/internal/domain"
)

func baseTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:          5,
		AccountName: "Acme",
		TicketResources: []domain.TicketResource{
			{ResourceID: 1, ResourceName: "Table 1"},
		},
	}
}

func withOrder(t *domain.Ticket, price float64) *domain.Ticket {
	t.Orders = append(t.Orders, domain.Order{MenuItemName: "Item", Price: price, Quantity: 1})
	return t
}

func TestCheck_NewTicketNeverConflicts(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.ID = 0
	current.AccountName = "Someone Else"
	current.IsClosed = true
	current.TicketResources = nil

	loaded := baseTicket()
	loaded.IsClosed = false
	withOrder(loaded, 80)

	result := validator.Check(current, loaded)
	assert.True(t, result.CanContinue())
}

func TestCheck_AccountMismatchNamesLoadedAccount(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	loaded := baseTicket()
	loaded.AccountName = "Globex"

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleAccountMoved, result.Rule)
	assert.Equal(t, fmt.Sprintf(concurrency.MsgTicketMovedFmt, "Globex"), result.ErrorMessage)
}

func TestCheck_AccountMismatchBeatsEveryOtherRule(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	loaded := baseTicket()
	loaded.AccountName = "Globex"
	loaded.IsClosed = true
	loaded.TicketResources = []domain.TicketResource{{ResourceID: 9, ResourceName: "Table 9"}}

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleAccountMoved, result.Rule)
}

func TestCheck_ResourceSetOrderIndependent(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.TicketResources = []domain.TicketResource{
		{ResourceID: 1, ResourceName: "Table 1"},
		{ResourceID: 2, ResourceName: "Table 2"},
	}
	loaded := baseTicket()
	loaded.TicketResources = []domain.TicketResource{
		{ResourceID: 2, ResourceName: "Table 2"},
		{ResourceID: 1, ResourceName: "Table 1"},
	}

	assert.True(t, validator.Check(current, loaded).CanContinue())
}

func TestCheck_ResourceNamesDoNotMatter(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	loaded := baseTicket()
	loaded.TicketResources = []domain.TicketResource{{ResourceID: 1, ResourceName: "Renamed Table"}}

	assert.True(t, validator.Check(current, loaded).CanContinue())
}

func TestCheck_ResourceAddedLocallyNamesLocalResource(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.TicketResources = append(current.TicketResources,
		domain.TicketResource{ResourceID: 2, ResourceName: "Table 2"})
	loaded := baseTicket()

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleResourceMoved, result.Rule)
	assert.Equal(t, fmt.Sprintf(concurrency.MsgTicketMovedFmt, "Table 2"), result.ErrorMessage)
}

func TestCheck_ResourceAddedRemotelyNamesRemoteResource(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	loaded := baseTicket()
	loaded.TicketResources = append(loaded.TicketResources,
		domain.TicketResource{ResourceID: 7, ResourceName: "Terrace 3"})

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, fmt.Sprintf(concurrency.MsgTicketMovedFmt, "Terrace 3"), result.ErrorMessage)
}

func TestCheck_LoadedAlreadyClosed(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.RemainingAmount = 42
	loaded := baseTicket()
	loaded.IsClosed = true

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleAlreadyClosed, result.Rule)
	assert.Equal(t, concurrency.MsgTicketPaid, result.ErrorMessage)
}

func TestCheck_CurrentClosedButStoreDisagrees(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.IsClosed = true
	loaded := baseTicket()

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleNotClosed, result.Rule)
	assert.Equal(t, concurrency.MsgTicketChanged, result.ErrorMessage)
}

func TestCheck_UnknownConcurrentPayment(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.RemainingAmount = 10
	current.LastPaymentDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	current.Payments = []domain.Payment{{ID: 1, Amount: 20}}

	loaded := baseTicket()
	loaded.RemainingAmount = 10
	loaded.LastPaymentDate = time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
	loaded.Payments = []domain.Payment{{ID: 1, Amount: 20}, {ID: 2, Amount: 30}}

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RulePaymentUnknown, result.Rule)
	assert.Equal(t, concurrency.MsgPaymentRecorded, result.ErrorMessage)
}

func TestCheck_KnownPaymentsFallThrough(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	// Timestamps differ but the editor already knows every stored payment:
	// not a conflict on its own.
	current := baseTicket()
	current.RemainingAmount = 10
	current.LastPaymentDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	current.Payments = []domain.Payment{{ID: 1, Amount: 20}, {ID: 2, Amount: 30}}

	loaded := baseTicket()
	loaded.RemainingAmount = 10
	loaded.LastPaymentDate = time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
	loaded.Payments = []domain.Payment{{ID: 1, Amount: 20}}

	assert.True(t, validator.Check(current, loaded).CanContinue())
}

func TestCheck_KnownPaymentsStillHitSumRule(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.RemainingAmount = 0
	current.LastPaymentDate = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	current.Payments = []domain.Payment{{ID: 1, Amount: 100}}
	withOrder(current, 100)

	loaded := baseTicket()
	loaded.RemainingAmount = 0
	loaded.LastPaymentDate = time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
	loaded.Payments = []domain.Payment{{ID: 1, Amount: 100}}
	withOrder(loaded, 80)

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleSumChanged, result.Rule)
}

func TestCheck_SettledSumMismatch(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.RemainingAmount = 0
	withOrder(current, 100)

	loaded := baseTicket()
	loaded.RemainingAmount = 0
	withOrder(loaded, 80)

	result := validator.Check(current, loaded)
	require.False(t, result.CanContinue())
	assert.Equal(t, concurrency.RuleSumChanged, result.Rule)
	assert.Equal(t, concurrency.MsgTicketChanged, result.ErrorMessage)
}

func TestCheck_RemainingAmountShieldsSumRule(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := baseTicket()
	current.RemainingAmount = 20
	withOrder(current, 100)

	loaded := baseTicket()
	loaded.RemainingAmount = 20
	withOrder(loaded, 80)

	assert.True(t, validator.Check(current, loaded).CanContinue())
}

func TestCheck_IdenticalSnapshotsContinue(t *testing.T) {
	validator := concurrency.NewTicketValidator()

	current := withOrder(baseTicket(), 100)
	loaded := withOrder(baseTicket(), 100)

	result := validator.Check(current, loaded)
	assert.True(t, result.CanContinue())
	assert.Empty(t, result.ErrorMessage)
}
