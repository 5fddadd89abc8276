package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrent/billboard-admin/internal/ledger"
)

// DebtMethod is stored as the method of every previous-debt entry.
const DebtMethod = "دين سابق"

// Customer identifies whose ledger is shown. Either field may be empty until resolved.
type Customer struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Empty reports whether neither id nor name is known.
func (c Customer) Empty() bool {
	return c.ID == "" && c.Name == ""
}

// Snapshot is one load of a customer's rows.
type Snapshot struct {
	Customer  Customer
	Contracts []ledger.Contract
	Entries   []ledger.Entry
}

// NewEntry is an entry about to be inserted.
type NewEntry struct {
	CustomerID     string
	CustomerName   string
	ContractNumber string
	Amount         decimal.Decimal
	Kind           ledger.EntryKind
	Method         string
	Reference      string
	Notes          string
	PaidAt         time.Time
}

// EntryPatch replaces the editable fields of an entry.
type EntryPatch struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
	Notes     string
	PaidAt    *time.Time
}

// ContractView is a contract row with its settlement figures.
type ContractView struct {
	ledger.Contract
	Paid          decimal.Decimal `json:"paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	InForce       bool            `json:"in_force"`
	TotalText     string          `json:"total_text"`
	RemainingText string          `json:"remaining_text"`
	StartText     string          `json:"start_text"`
	EndText       string          `json:"end_text"`
}

// EntryView is a ledger entry with display strings.
type EntryView struct {
	ledger.Entry
	KindLabel  string `json:"kind_label"`
	AmountText string `json:"amount_text"`
	DateText   string `json:"date_text"`
}

// LedgerView is the billing screen payload.
type LedgerView struct {
	Customer          Customer       `json:"customer"`
	Contracts         []ContractView `json:"contracts"`
	Entries           []EntryView    `json:"entries"`
	Summary           ledger.Summary `json:"summary"`
	BalanceText       string         `json:"balance_text"`
	AccountCreditText string         `json:"account_credit_text"`
	Dialog            string         `json:"dialog"`
}

// StatementLineView is a statement line with display strings.
type StatementLineView struct {
	ledger.StatementLine
	DateText    string `json:"date_text"`
	DebitText   string `json:"debit_text"`
	CreditText  string `json:"credit_text"`
	RunningText string `json:"running_text"`
}

// StatementView is the chronological account statement.
type StatementView struct {
	Customer    Customer            `json:"customer"`
	Lines       []StatementLineView `json:"lines"`
	TotalDebit  decimal.Decimal     `json:"total_debit"`
	TotalCredit decimal.Decimal     `json:"total_credit"`
	Closing     decimal.Decimal     `json:"closing"`
	ClosingText string              `json:"closing_text"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// InvoiceView is a composed invoice preview.
type InvoiceView struct {
	Customer Customer             `json:"customer"`
	Invoice  ledger.Invoice       `json:"invoice"`
	Lines    []ledger.InvoiceLine `json:"available_lines"`
	Total    string               `json:"total_text"`
}

// ReceiptView carries what a printed receipt needs.
type ReceiptView struct {
	Customer      Customer        `json:"customer"`
	Entry         EntryView       `json:"entry"`
	TotalDebits   decimal.Decimal `json:"total_debits"`
	Remaining     decimal.Decimal `json:"remaining"`
	RemainingText string          `json:"remaining_text"`
}

// ContractDetailsView is shown when a contract is picked for a payment.
type ContractDetailsView struct {
	ledger.ContractDetails
	TotalText     string `json:"total_text"`
	PaidText      string `json:"paid_text"`
	RemainingText string `json:"remaining_text"`
}

// Dialogs of the billing screen. Only one is open at a time.
type (
	// EditingEntry edits the entry with ID.
	EditingEntry struct{ ID uuid.UUID }
	// AddingDebt records a previous debt.
	AddingDebt struct{}
	// AddingAccountPayment records a payment to the account or a contract.
	AddingAccountPayment struct{}
	// ComposingInvoice edits invoice line items before printing.
	ComposingInvoice struct{}
)

// DialogKind names the receipt editor.
func (EditingEntry) DialogKind() string { return "editing_entry" }

// DialogKind names the previous-debt form.
func (AddingDebt) DialogKind() string { return "adding_debt" }

// DialogKind names the account payment form.
func (AddingAccountPayment) DialogKind() string { return "adding_account_payment" }

// DialogKind names the invoice composer.
func (ComposingInvoice) DialogKind() string { return "composing_invoice" }
