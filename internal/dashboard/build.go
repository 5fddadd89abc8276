package dashboard

import (
	"math"
	"sort"
	"time"

	"github.com/adrent/billboard-admin/internal/ledger"
)

// Build derives the dashboard from raw rows. Inputs are not mutated.
func Build(billboards []Billboard, contracts []ledger.Contract, entries []ledger.Entry, now time.Time, opts Options) Snapshot {
	opts = opts.withDefaults()
	horizon := now.Add(opts.ExpiryWindow)

	snap := Snapshot{
		RecentContracts:     []ContractItem{},
		ExpiringContracts:   []ContractItem{},
		OverdueContracts:    []ContractItem{},
		RecentPayments:      []ledger.Entry{},
		RecentInvoices:      []ledger.Entry{},
		AvailableBillboards: []Billboard{},
		GeneratedAt:         now,
	}

	snap.Stats.TotalBillboards = len(billboards)
	for _, b := range billboards {
		if !b.Available() {
			continue
		}
		snap.Stats.AvailableBillboards++
		if len(snap.AvailableBillboards) < opts.ListLimit {
			snap.AvailableBillboards = append(snap.AvailableBillboards, b)
		}
	}

	customers := make(map[string]struct{})
	for _, c := range contracts {
		if ledger.InForce(c, now) {
			snap.Stats.ActiveContracts++
		}
		if key := customerKey(c); key != "" {
			customers[key] = struct{}{}
		}
		if c.End == nil {
			continue
		}
		if !c.End.Before(now) && !c.End.After(horizon) {
			snap.ExpiringContracts = append(snap.ExpiringContracts, item(c, now))
		}
		if c.End.Before(now) && len(snap.OverdueContracts) < opts.ListLimit {
			snap.OverdueContracts = append(snap.OverdueContracts, item(c, now))
		}
	}
	snap.Stats.ExpiringContracts = len(snap.ExpiringContracts)
	snap.Stats.ActiveCustomers = len(customers)

	for _, c := range newestContracts(contracts) {
		if len(snap.RecentContracts) == opts.ListLimit {
			break
		}
		snap.RecentContracts = append(snap.RecentContracts, item(c, now))
	}

	snap.Stats.TotalRevenue = ledger.TotalCredits(entries)
	for _, e := range newestEntries(entries) {
		switch {
		case e.Kind.IsCredit() && len(snap.RecentPayments) < opts.ListLimit:
			snap.RecentPayments = append(snap.RecentPayments, e)
		case e.Kind == ledger.KindInvoice && len(snap.RecentInvoices) < opts.ListLimit:
			snap.RecentInvoices = append(snap.RecentInvoices, e)
		}
	}

	return snap
}

// DaysUntil returns the whole days from now to end, rounded up.
func DaysUntil(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

func item(c ledger.Contract, now time.Time) ContractItem {
	it := ContractItem{Contract: c}
	if c.End != nil {
		days := DaysUntil(*c.End, now)
		it.DaysLeft = &days
	}
	return it
}

func customerKey(c ledger.Contract) string {
	if c.CustomerID != "" {
		return c.CustomerID
	}
	return c.CustomerName
}

// newestContracts orders by created_at descending; undated contracts go last.
func newestContracts(contracts []ledger.Contract) []ledger.Contract {
	sorted := make([]ledger.Contract, len(contracts))
	copy(sorted, contracts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return sorted
}

func newestEntries(entries []ledger.Entry) []ledger.Entry {
	sorted := make([]ledger.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
