// Package dashboard computes the home screen KPIs from billboards, contracts
// and ledger entries.
package dashboard

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adrent/billboard-admin/internal/ledger"
)

// Statuses that mark a billboard as available for rent.
const (
	StatusAvailableAR = "متاح"
	StatusAvailable   = "available"
)

// Billboard is a billboards row.
type Billboard struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Location     string          `json:"location,omitempty"`
	City         string          `json:"city,omitempty"`
	Municipality string          `json:"municipality,omitempty"`
	Size         string          `json:"size,omitempty"`
	Level        string          `json:"level,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
}

// Available reports whether the billboard can be rented.
func (b Billboard) Available() bool {
	status := strings.TrimSpace(b.Status)
	return status == StatusAvailableAR || strings.EqualFold(status, StatusAvailable)
}

// Stats are the headline counters.
type Stats struct {
	TotalBillboards     int             `json:"total_billboards"`
	AvailableBillboards int             `json:"available_billboards"`
	ActiveContracts     int             `json:"active_contracts"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalRevenueText    string          `json:"total_revenue_text"`
	ActiveCustomers     int             `json:"active_customers"`
	ExpiringContracts   int             `json:"expiring_contracts"`
}

// ContractItem is a contract listed on the dashboard.
type ContractItem struct {
	ledger.Contract
	DaysLeft *int   `json:"days_left,omitempty"`
	EndText  string `json:"end_text,omitempty"`
}

// Snapshot is everything the dashboard shows.
type Snapshot struct {
	Stats               Stats          `json:"stats"`
	RecentContracts     []ContractItem `json:"recent_contracts"`
	ExpiringContracts   []ContractItem `json:"expiring_contracts"`
	OverdueContracts    []ContractItem `json:"overdue_contracts"`
	RecentPayments      []ledger.Entry `json:"recent_payments"`
	RecentInvoices      []ledger.Entry `json:"recent_invoices"`
	AvailableBillboards []Billboard    `json:"available_billboards"`
	GeneratedAt         time.Time      `json:"generated_at"`
}

// Options tunes list sizes and the expiry horizon.
type Options struct {
	ExpiryWindow time.Duration
	ListLimit    int
}

func (o Options) withDefaults() Options {
	if o.ExpiryWindow <= 0 {
		o.ExpiryWindow = 30 * 24 * time.Hour
	}
	if o.ListLimit <= 0 {
		o.ListLimit = 10
	}
	return o
}
