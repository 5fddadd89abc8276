package format

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/adrent/billboard-admin/internal/ledger"
)

func TestEnglishFormatter(t *testing.T) {
	f := New("en-US", "LYD")
	assert.Equal(t, "1,234.5 LYD", f.Money(decimal.RequireFromString("1234.50")))
	d := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", f.Date(&d))
	assert.Equal(t, "—", f.Date(nil))
	assert.Equal(t, "Receipt", f.KindLabel(ledger.KindReceipt))
}

func TestArabicLabels(t *testing.T) {
	f := New("ar-LY", "د.ل")
	assert.Equal(t, "فاتورة", f.KindLabel(ledger.KindInvoice))
	line := f.EntryLine(ledger.Entry{Kind: ledger.KindDebt})
	assert.True(t, strings.HasPrefix(line, "دين سابق - الحساب العام"))
	assert.True(t, strings.HasSuffix(f.Money(decimal.NewFromInt(5)), "د.ل"))
	d := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "9/3/2024", f.Date(&d))
}

func TestUnknownLocaleFallsBack(t *testing.T) {
	f := New("???", "")
	assert.Equal(t, "en", f.Locale())
	assert.Equal(t, "Contract 4 value - x", f.ContractLine(ledger.Contract{Number: "4", AdType: "x"}))
}
