// Package ledger computes customer balances from contracts and ledger entries.
// Every function is pure: inputs are never mutated and the current time is
// passed in explicitly.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind enumerates ledger entry kinds as stored in customer_payments.entry_type.
type EntryKind string

const (
	KindInvoice        EntryKind = "invoice"
	KindReceipt        EntryKind = "receipt"
	KindDebt           EntryKind = "debt"
	KindAccountPayment EntryKind = "account_payment"
)

// IsDebit reports whether the kind increases the amount owed by the customer.
func (k EntryKind) IsDebit() bool {
	return k == KindInvoice || k == KindDebt
}

// IsCredit reports whether the kind decreases the amount owed by the customer.
func (k EntryKind) IsCredit() bool {
	return k == KindReceipt || k == KindAccountPayment
}

// Valid reports whether k is one of the known kinds.
func (k EntryKind) Valid() bool {
	return k.IsDebit() || k.IsCredit()
}

// Contract is a rental contract as consumed by the aggregator.
type Contract struct {
	Number         string          `json:"number"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name"`
	AdType         string          `json:"ad_type"`
	TotalRent      decimal.Decimal `json:"total_rent"`
	Start          *time.Time      `json:"start,omitempty"`
	End            *time.Time      `json:"end,omitempty"`
	BillboardCount int             `json:"billboard_count"`
	CreatedAt      *time.Time      `json:"created_at,omitempty"`
}

// Entry is one financial event recorded against a customer.
type Entry struct {
	ID             uuid.UUID       `json:"id"`
	CustomerID     string          `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name"`
	ContractNumber string          `json:"contract_number,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Kind           EntryKind       `json:"kind"`
	Method         string          `json:"method,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// HasContract reports whether the entry is tied to a specific contract.
func (e Entry) HasContract() bool {
	return e.ContractNumber != ""
}

// EffectiveDate returns the paid-at date, falling back to creation time.
func (e Entry) EffectiveDate() time.Time {
	if e.PaidAt != nil {
		return *e.PaidAt
	}
	return e.CreatedAt
}

// Summary bundles the figures shown on the billing screen.
type Summary struct {
	TotalContracted decimal.Decimal `json:"total_contracted"`
	TotalDebits     decimal.Decimal `json:"total_debits"`
	TotalCredits    decimal.Decimal `json:"total_credits"`
	Balance         decimal.Decimal `json:"balance"`
	AccountCredit   decimal.Decimal `json:"account_credit"`
	ActiveContracts int             `json:"active_contracts"`
}

// ContractDetails describes how much of a contract has been settled.
type ContractDetails struct {
	Contract  Contract        `json:"contract"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
	InForce   bool            `json:"in_force"`
}
