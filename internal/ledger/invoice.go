package ledger

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoInvoiceItems is returned when every invoice line has a zero quantity.
var ErrNoInvoiceItems = errors.New("ledger: invoice needs at least one item")

// InvoiceLine is a transient invoice row composed from a contract.
type InvoiceLine struct {
	ContractNumber string          `json:"contract_number"`
	AdType         string          `json:"ad_type"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Total          decimal.Decimal `json:"total"`
}

// NewInvoiceLine builds a line and computes its total.
func NewInvoiceLine(contractNumber, adType string, quantity int, unitPrice decimal.Decimal) InvoiceLine {
	if quantity < 0 {
		quantity = 0
	}
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	return InvoiceLine{
		ContractNumber: contractNumber,
		AdType:         adType,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		Total:          unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// WithQuantity returns a copy of the line with a new quantity.
func (l InvoiceLine) WithQuantity(q int) InvoiceLine {
	return NewInvoiceLine(l.ContractNumber, l.AdType, q, l.UnitPrice)
}

// WithUnitPrice returns a copy of the line with a new unit price.
func (l InvoiceLine) WithUnitPrice(p decimal.Decimal) InvoiceLine {
	return NewInvoiceLine(l.ContractNumber, l.AdType, l.Quantity, p)
}

// InvoiceLinesFor seeds one line per contract at quantity one.
func InvoiceLinesFor(contracts []Contract) []InvoiceLine {
	lines := make([]InvoiceLine, 0, len(contracts))
	for _, c := range contracts {
		lines = append(lines, NewInvoiceLine(c.Number, c.AdType, 1, c.TotalRent))
	}
	return lines
}

// Invoice is the composed printable invoice.
type Invoice struct {
	Items          []InvoiceLine   `json:"items"`
	ItemsTotal     decimal.Decimal `json:"items_total"`
	AccountBalance decimal.Decimal `json:"account_balance"`
	Total          decimal.Decimal `json:"total"`
}

// ComposeInvoice keeps lines with a positive quantity and totals them, adding
// the general account credit when requested.
func ComposeInvoice(lines []InvoiceLine, includeAccount bool, accountCredit decimal.Decimal) (Invoice, error) {
	inv := Invoice{ItemsTotal: decimal.Zero, AccountBalance: decimal.Zero}
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l = NewInvoiceLine(l.ContractNumber, l.AdType, l.Quantity, l.UnitPrice)
		inv.Items = append(inv.Items, l)
		inv.ItemsTotal = inv.ItemsTotal.Add(l.Total)
	}
	if len(inv.Items) == 0 {
		return Invoice{}, ErrNoInvoiceItems
	}
	if includeAccount {
		inv.AccountBalance = accountCredit
	}
	inv.Total = inv.ItemsTotal.Add(inv.AccountBalance)
	return inv, nil
}
