package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceLinesForSeedsOnePerContract(t *testing.T) {
	lines := InvoiceLinesFor([]Contract{
		{Number: "1", AdType: "Outdoor", TotalRent: amt(900)},
		{Number: "2", AdType: "Indoor", TotalRent: amt(150)},
	})
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Quantity)
	requireAmount(t, 900, lines[0].Total)

	edited := lines[1].WithQuantity(3)
	requireAmount(t, 450, edited.Total)
	requireAmount(t, 150, lines[1].Total)

	repriced := edited.WithUnitPrice(amt(100))
	requireAmount(t, 300, repriced.Total)
}

func TestComposeInvoice(t *testing.T) {
	lines := []InvoiceLine{
		NewInvoiceLine("1", "Outdoor", 2, amt(100)),
		NewInvoiceLine("2", "Indoor", 0, amt(500)),
	}

	inv, err := ComposeInvoice(lines, false, amt(75))
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	requireAmount(t, 200, inv.ItemsTotal)
	requireAmount(t, 0, inv.AccountBalance)
	requireAmount(t, 200, inv.Total)

	inv, err = ComposeInvoice(lines, true, amt(75))
	require.NoError(t, err)
	requireAmount(t, 75, inv.AccountBalance)
	requireAmount(t, 275, inv.Total)
}

func TestComposeInvoiceRejectsEmptySelection(t *testing.T) {
	_, err := ComposeInvoice([]InvoiceLine{NewInvoiceLine("1", "Outdoor", 0, amt(100))}, true, amt(10))
	require.ErrorIs(t, err, ErrNoInvoiceItems)
}

func TestNewInvoiceLineClampsNegatives(t *testing.T) {
	l := NewInvoiceLine("1", "x", -2, amt(-5))
	assert.Equal(t, 0, l.Quantity)
	requireAmount(t, 0, l.UnitPrice)
	requireAmount(t, 0, l.Total)
}
