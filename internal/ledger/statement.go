package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Labeler renders the description column of a statement.
type Labeler interface {
	ContractLine(c Contract) string
	EntryLine(e Entry) string
}

// LineSource identifies what produced a statement line.
type LineSource string

const (
	SourceContract LineSource = "contract"
	SourceEntry    LineSource = "entry"
)

// StatementLine is one row of an account statement.
type StatementLine struct {
	Date        time.Time       `json:"date"`
	Source      LineSource      `json:"source"`
	Ref         string          `json:"ref"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Running     decimal.Decimal `json:"running"`
}

// Statement is a chronological account statement.
type Statement struct {
	Lines       []StatementLine `json:"lines"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Closing     decimal.Decimal `json:"closing"`
}

// BuildStatement merges contracts and entries into date order and accumulates
// the running balance. Lines sharing a date keep their input order: contracts
// first, then entries by creation time.
func BuildStatement(contracts []Contract, entries []Entry, now time.Time, labels Labeler) Statement {
	if labels == nil {
		labels = PlainLabels{}
	}
	lines := make([]StatementLine, 0, len(contracts)+len(entries))
	for _, c := range contracts {
		date := now
		switch {
		case c.Start != nil:
			date = *c.Start
		case c.End != nil:
			date = *c.End
		}
		lines = append(lines, StatementLine{
			Date:        date,
			Source:      SourceContract,
			Ref:         c.Number,
			Description: labels.ContractLine(c),
			Debit:       c.TotalRent,
			Credit:      decimal.Zero,
		})
	}
	for _, e := range byCreation(entries) {
		line := StatementLine{
			Date:        e.EffectiveDate(),
			Source:      SourceEntry,
			Ref:         e.ID.String(),
			Description: labels.EntryLine(e),
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if e.Kind.IsDebit() {
			line.Debit = e.Amount
		} else {
			line.Credit = e.Amount
		}
		lines = append(lines, line)
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Date.Before(lines[j].Date)
	})

	st := Statement{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, Closing: decimal.Zero}
	running := decimal.Zero
	for i := range lines {
		running = running.Add(lines[i].Debit).Sub(lines[i].Credit)
		lines[i].Running = running
		st.TotalDebit = st.TotalDebit.Add(lines[i].Debit)
		st.TotalCredit = st.TotalCredit.Add(lines[i].Credit)
	}
	st.Lines = lines
	st.Closing = running
	return st
}

// PlainLabels is the default English Labeler.
type PlainLabels struct{}

// ContractLine implements Labeler.
func (PlainLabels) ContractLine(c Contract) string {
	return fmt.Sprintf("Contract %s value - %s", c.Number, c.AdType)
}

// EntryLine implements Labeler.
func (PlainLabels) EntryLine(e Entry) string {
	return DescribeEntry(e, KindName(e.Kind), "contract", "general account", "ref", "notes")
}

// KindName returns an English label for an entry kind.
func KindName(k EntryKind) string {
	switch k {
	case KindAccountPayment:
		return "Account payment"
	case KindReceipt:
		return "Receipt"
	case KindDebt:
		return "Previous debt"
	case KindInvoice:
		return "Invoice"
	case "":
		return "Movement"
	default:
		return string(k)
	}
}

// DescribeEntry assembles an entry description from localized fragments.
func DescribeEntry(e Entry, kind, contractWord, generalAccount, refWord, notesWord string) string {
	var b strings.Builder
	b.WriteString(kind)
	if e.HasContract() {
		b.WriteString(" - " + contractWord + " " + e.ContractNumber)
	} else {
		b.WriteString(" - " + generalAccount)
	}
	if e.Reference != "" {
		b.WriteString(" - " + refWord + ": " + e.Reference)
	}
	if e.Notes != "" {
		b.WriteString(" - " + notesWord + ": " + e.Notes)
	}
	return b.String()
}
