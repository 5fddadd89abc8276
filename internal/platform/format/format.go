// Package format renders amounts, dates and ledger descriptions for a locale.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/adrent/billboard-admin/internal/ledger"
)

// Formatter turns raw figures into display strings. It also implements
// ledger.Labeler so statements are described in the configured language.
type Formatter struct {
	tag      language.Tag
	printer  *message.Printer
	currency string
	arabic   bool
}

// New builds a Formatter for the BCP 47 locale, e.g. "ar-LY" or "en-US".
// Unknown locales fall back to English.
func New(locale, currency string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	base, _ := tag.Base()
	return &Formatter{
		tag:      tag,
		printer:  message.NewPrinter(tag),
		currency: strings.TrimSpace(currency),
		arabic:   base.String() == "ar",
	}
}

// Locale returns the resolved language tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Number formats a decimal with grouping and at most two fraction digits.
func (f *Formatter) Number(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Money formats an amount followed by the currency symbol.
func (f *Formatter) Money(d decimal.Decimal) string {
	if f.currency == "" {
		return f.Number(d)
	}
	return f.Number(d) + " " + f.currency
}

// Date formats a calendar date; nil renders as an em placeholder.
func (f *Formatter) Date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	if f.arabic {
		return t.Format("2/1/2006")
	}
	return t.Format("2006-01-02")
}

// KindLabel names an entry kind in the configured language.
func (f *Formatter) KindLabel(k ledger.EntryKind) string {
	if !f.arabic {
		return ledger.KindName(k)
	}
	switch k {
	case ledger.KindAccountPayment:
		return "دفعة على الحساب"
	case ledger.KindReceipt:
		return "إيصال"
	case ledger.KindDebt:
		return "دين سابق"
	case ledger.KindInvoice:
		return "فاتورة"
	case "":
		return "حركة"
	default:
		return string(k)
	}
}

// ContractLine implements ledger.Labeler.
func (f *Formatter) ContractLine(c ledger.Contract) string {
	if !f.arabic {
		return ledger.PlainLabels{}.ContractLine(c)
	}
	return fmt.Sprintf("قيمة العقد رقم %s - %s", c.Number, c.AdType)
}

// EntryLine implements ledger.Labeler.
func (f *Formatter) EntryLine(e ledger.Entry) string {
	if !f.arabic {
		return ledger.PlainLabels{}.EntryLine(e)
	}
	return ledger.DescribeEntry(e, f.KindLabel(e.Kind), "عقد", "الحساب العام", "مرجع", "ملاحظات")
}
