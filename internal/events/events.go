// Package events defines the ledger change notifications emitted after
// successful billing writes.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event names.
const (
	LedgerEntryRecorded = "ledger.entry_recorded"
	LedgerEntryUpdated  = "ledger.entry_updated"
	LedgerEntryDeleted  = "ledger.entry_deleted"
)

// LedgerEntryEvent describes a change to one customer_payments row.
type LedgerEntryEvent struct {
	Name           string          `json:"name"`
	EntryID        string          `json:"entry_id"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	ContractNumber string          `json:"contract_number,omitempty"`
	Kind           string          `json:"kind,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Actor          string          `json:"actor,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// Key partitions events per customer so one customer's changes stay ordered.
func (e LedgerEntryEvent) Key() string {
	if e.CustomerID != "" {
		return e.CustomerID
	}
	return e.CustomerName
}

// Publisher delivers ledger events.
type Publisher interface {
	PublishLedger(ctx context.Context, event LedgerEntryEvent) error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

// PublishLedger implements Publisher.
func (Noop) PublishLedger(context.Context, LedgerEntryEvent) error { return nil }
