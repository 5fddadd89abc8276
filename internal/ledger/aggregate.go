package ledger

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TotalContracted sums the total rent of every contract.
func TotalContracted(contracts []Contract) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contracts {
		total = total.Add(c.TotalRent)
	}
	return total
}

// TotalDebits returns the contracted value plus every invoice and debt entry.
func TotalDebits(contracts []Contract, entries []Entry) decimal.Decimal {
	total := TotalContracted(contracts)
	for _, e := range byCreation(entries) {
		if e.Kind.IsDebit() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalCredits sums receipts and account payments.
func TotalCredits(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Kind.IsCredit() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// OutstandingBalance is debits minus credits, floored at zero.
func OutstandingBalance(debits, credits decimal.Decimal) decimal.Decimal {
	return maxZero(debits.Sub(credits))
}

// AccountCredit sums entries that are not allocated to a contract, together
// with anything explicitly recorded as an account payment.
func AccountCredit(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if !e.HasContract() || e.Kind == KindAccountPayment {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// ContractPaid sums every entry recorded against the contract number,
// regardless of kind.
func ContractPaid(number string, entries []Entry) decimal.Decimal {
	paid := decimal.Zero
	if number == "" {
		return paid
	}
	for _, e := range entries {
		if e.ContractNumber == number {
			paid = paid.Add(e.Amount)
		}
	}
	return paid
}

// ContractRemainder is the contract total minus what was recorded against it,
// floored at zero.
func ContractRemainder(c Contract, entries []Entry) decimal.Decimal {
	return maxZero(c.TotalRent.Sub(ContractPaid(c.Number, entries)))
}

// ContractDetailsFor looks up a contract by number and reports its settlement.
func ContractDetailsFor(number string, contracts []Contract, entries []Entry, now time.Time) (ContractDetails, bool) {
	for _, c := range contracts {
		if c.Number != number {
			continue
		}
		return ContractDetails{
			Contract:  c,
			Paid:      ContractPaid(c.Number, entries),
			Remaining: ContractRemainder(c, entries),
			InForce:   InForce(c, now),
		}, true
	}
	return ContractDetails{}, false
}

// Active treats a contract as running when now falls inside [start, end].
// A contract missing either date counts as active.
func Active(c Contract, now time.Time) bool {
	if c.Start == nil || c.End == nil {
		return true
	}
	return !now.Before(*c.Start) && !now.After(*c.End)
}

// InForce is the strict form of Active: both dates must be present.
func InForce(c Contract, now time.Time) bool {
	if c.Start == nil || c.End == nil {
		return false
	}
	return Active(c, now)
}

// ActiveContracts returns the contracts that are Active at now.
func ActiveContracts(contracts []Contract, now time.Time) []Contract {
	out := make([]Contract, 0, len(contracts))
	for _, c := range contracts {
		if Active(c, now) {
			out = append(out, c)
		}
	}
	return out
}

// Summarize computes the billing screen summary.
func Summarize(contracts []Contract, entries []Entry, now time.Time) Summary {
	debits := TotalDebits(contracts, entries)
	credits := TotalCredits(entries)
	return Summary{
		TotalContracted: TotalContracted(contracts),
		TotalDebits:     debits,
		TotalCredits:    credits,
		Balance:         OutstandingBalance(debits, credits),
		AccountCredit:   AccountCredit(entries),
		ActiveContracts: len(ActiveContracts(contracts, now)),
	}
}

// RemainingAfter reports what the customer still owes once the given entry
// and every credit recorded before it have been applied. Unknown ids yield the
// balance after all credits.
func RemainingAfter(id uuid.UUID, entries []Entry, totalDebits decimal.Decimal) decimal.Decimal {
	credited := decimal.Zero
	for _, e := range byCreation(entries) {
		if e.Kind.IsCredit() {
			credited = credited.Add(e.Amount)
		}
		if e.ID == id {
			break
		}
	}
	return maxZero(totalDebits.Sub(credited))
}

func byCreation(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}
