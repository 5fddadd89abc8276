package billing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrent/billboard-admin/internal/events"
	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/platform/format"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type capturePublisher struct{ events []events.LedgerEntryEvent }

func (c *capturePublisher) PublishLedger(_ context.Context, ev events.LedgerEntryEvent) error {
	c.events = append(c.events, ev)
	return nil
}

type fixture struct {
	repo   *memoryRepo
	audit  *recordingAudit
	cache  *countingInvalidator
	idem   *memoryIdempotency
	pub    *capturePublisher
	svc    *Service
	client Customer
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newMemoryRepo(),
		audit:  &recordingAudit{},
		cache:  &countingInvalidator{},
		idem:   &memoryIdempotency{},
		pub:    &capturePublisher{},
		client: Customer{ID: "c-1", Name: "Acme Media"},
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	f.repo.contracts = []ledger.Contract{
		{Number: "7", CustomerID: "c-1", CustomerName: "Acme Media", AdType: "Outdoor", TotalRent: decimal.NewFromInt(1000), Start: &start, End: &end},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewService(f.repo, format.New("en", "LYD"), logger,
		WithAudit(f.audit),
		WithInvalidator(f.cache),
		WithIdempotency(f.idem),
		WithPublisher(f.pub),
		WithClock(func() time.Time { return testNow }),
	)
	return f
}

func TestAddDebtRejectsNonNumericAmountWithoutWriting(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddDebt(context.Background(), f.client, DebtRequest{Amount: "abc"}, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ledger.ErrAmountInvalid)
	assert.Zero(t, f.repo.writes)
	assert.Empty(t, f.repo.entries)
	assert.Empty(t, f.audit.logs)
}

func TestWritesRejectExponentAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.AddDebt(ctx, f.client, DebtRequest{Amount: "1e99999999"}, "")
	require.ErrorIs(t, err, ledger.ErrAmountInvalid)
	_, err = f.svc.AddAccountPayment(ctx, f.client, AccountPaymentRequest{Amount: "1e9"}, "")
	require.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.AddDebt(ctx, f.client, DebtRequest{Amount: "1000000000000"}, "")
	require.ErrorIs(t, err, ledger.ErrAmountTooLarge)

	entry, err := f.svc.AddDebt(ctx, f.client, DebtRequest{Amount: "50"}, "")
	require.NoError(t, err)
	_, err = f.svc.UpdateEntry(ctx, entry.ID, EntryUpdateRequest{Amount: "2E8"})
	require.ErrorIs(t, err, ledger.ErrAmountInvalid)
	assert.Equal(t, 1, f.repo.writes)
}

func TestAddDebtStoresContractlessDebt(t *testing.T) {
	f := newFixture()

	entry, err := f.svc.AddDebt(context.Background(), f.client, DebtRequest{Amount: "200", Notes: "carried over"}, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.KindDebt, entry.Kind)
	assert.Equal(t, DebtMethod, entry.Method)
	assert.Empty(t, entry.ContractNumber)
	require.NotNil(t, entry.PaidAt)
	assert.Equal(t, testNow, *entry.PaidAt)

	require.Len(t, f.audit.logs, 1)
	assert.Equal(t, "ledger_entry.create", f.audit.logs[0].Action)
	assert.Equal(t, 1, f.cache.bumps)
	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.LedgerEntryRecorded, f.pub.events[0].Name)
}

func TestAddAccountPaymentKinds(t *testing.T) {
	f := newFixture()
	general := false

	_, err := f.svc.AddAccountPayment(context.Background(), f.client, AccountPaymentRequest{Amount: "50", ToGeneral: &general}, "")
	require.ErrorIs(t, err, ErrContractRequired)

	_, err = f.svc.AddAccountPayment(context.Background(), f.client, AccountPaymentRequest{Amount: "50", ToGeneral: &general, ContractNumber: "seven"}, "")
	require.ErrorIs(t, err, ErrContractNumberInvalid)
	assert.Zero(t, f.repo.writes)

	receipt, err := f.svc.AddAccountPayment(context.Background(), f.client, AccountPaymentRequest{Amount: "300", ToGeneral: &general, ContractNumber: "7", PaidAt: "2024-03-01"}, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.KindReceipt, receipt.Kind)
	assert.Equal(t, "7", receipt.ContractNumber)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *receipt.PaidAt)

	onAccount, err := f.svc.AddAccountPayment(context.Background(), f.client, AccountPaymentRequest{Amount: "25", ContractNumber: "7"}, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.KindAccountPayment, onAccount.Kind)
	assert.Empty(t, onAccount.ContractNumber)
}

func TestIdempotencyKeyRejectsReplay(t *testing.T) {
	f := newFixture()

	_, err := f.svc.AddDebt(context.Background(), f.client, DebtRequest{Amount: "10"}, "key-1")
	require.NoError(t, err)
	_, err = f.svc.AddDebt(context.Background(), f.client, DebtRequest{Amount: "10"}, "key-1")
	require.ErrorIs(t, err, ErrDuplicateRequest)
	assert.Len(t, f.repo.entries, 1)
}

func TestWriteFailureReleasesKeyAndCarriesMessage(t *testing.T) {
	f := newFixture()
	f.repo.writeErr = errGateway

	_, err := f.svc.AddDebt(context.Background(), f.client, DebtRequest{Amount: "10"}, "key-2")
	require.ErrorIs(t, err, ErrWriteFailed)
	assert.Contains(t, err.Error(), "permission denied")
	assert.False(t, f.idem.keys["key-2"])
	assert.Zero(t, f.cache.bumps)
}

func TestUpdateEntryValidatesLikeInserts(t *testing.T) {
	f := newFixture()
	entry, err := f.svc.AddAccountPayment(context.Background(), f.client, AccountPaymentRequest{Amount: "40"}, "")
	require.NoError(t, err)
	writes := f.repo.writes

	_, err = f.svc.UpdateEntry(context.Background(), entry.ID, EntryUpdateRequest{Amount: "0"})
	require.ErrorIs(t, err, ledger.ErrAmountNotPositive)
	assert.Equal(t, writes, f.repo.writes)

	updated, err := f.svc.UpdateEntry(context.Background(), entry.ID, EntryUpdateRequest{Amount: "45", Reference: "R-1"})
	require.NoError(t, err)
	assert.Equal(t, "45", updated.Amount.String())
	assert.Equal(t, "R-1", updated.Reference)
}

func TestResolveAndLoadWithNameFallback(t *testing.T) {
	f := newFixture()
	f.repo.entries = []ledger.Entry{{CustomerName: "ACME MEDIA LLC", Kind: ledger.KindReceipt, Amount: decimal.NewFromInt(5)}}

	_, err := f.svc.ResolveCustomer(context.Background(), Customer{})
	require.ErrorIs(t, err, ErrCustomerRequired)

	c, err := f.svc.ResolveCustomer(context.Background(), Customer{Name: "acme media"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)

	snap, err := f.svc.Load(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, snap.Entries, 1, "entries fall back to partial name match")
	assert.Len(t, snap.Contracts, 1)
}

func TestLoadFailsWhenPrimaryReadFails(t *testing.T) {
	f := newFixture()
	f.repo.readErr = errGateway

	_, err := f.svc.Load(context.Background(), Customer{ID: "c-1"})
	require.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadReportsPrimaryFailureRegardlessOfName(t *testing.T) {
	f := newFixture()
	f.repo.idErr = errGateway

	_, err := f.svc.Load(context.Background(), Customer{ID: "c-1"})
	require.ErrorIs(t, err, ErrLoadFailed)

	_, err = f.svc.Load(context.Background(), Customer{ID: "c-1", Name: "Nobody"})
	require.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadDegradesWhenNameFallbackFails(t *testing.T) {
	f := newFixture()
	f.repo.nameErr = errGateway

	snap, err := f.svc.Load(context.Background(), Customer{ID: "c-9", Name: "Acme"})
	require.NoError(t, err)
	assert.Empty(t, snap.Entries)

	_, err = f.svc.Load(context.Background(), Customer{Name: "Acme"})
	require.ErrorIs(t, err, ErrLoadFailed, "name is the primary lookup without an id")
}

func TestViewStatementAndReceipt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	general := false
	_, err := f.svc.AddDebt(ctx, f.client, DebtRequest{Amount: "200", PaidAt: "2024-02-01"}, "")
	require.NoError(t, err)
	receipt, err := f.svc.AddAccountPayment(ctx, f.client, AccountPaymentRequest{Amount: "300", ToGeneral: &general, ContractNumber: "7", PaidAt: "2024-03-01"}, "")
	require.NoError(t, err)

	snap, err := f.svc.Load(ctx, f.client)
	require.NoError(t, err)

	view := f.svc.View(snap)
	assert.Equal(t, "900", view.Summary.Balance.String())
	assert.Equal(t, "900 LYD", view.BalanceText)
	require.Len(t, view.Contracts, 1)
	assert.Equal(t, "700", view.Contracts[0].Remaining.String())
	assert.True(t, view.Contracts[0].InForce)

	st := f.svc.Statement(snap)
	require.Len(t, st.Lines, 3)
	assert.Equal(t, "900", st.Closing.String())

	rc, err := f.svc.Receipt(snap, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "900", rc.Remaining.String())

	details, err := f.svc.ContractDetails(snap, "7")
	require.NoError(t, err)
	assert.Equal(t, "300", details.Paid.String())
	_, err = f.svc.ContractDetails(snap, "99")
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestInvoiceAppliesLineEdits(t *testing.T) {
	f := newFixture()
	snap, err := f.svc.Load(context.Background(), f.client)
	require.NoError(t, err)

	qty := 2
	price := "150"
	inv, err := f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{ContractNumber: "7", Quantity: &qty, UnitPrice: &price}}})
	require.NoError(t, err)
	assert.Equal(t, "300", inv.Invoice.Total.String())

	zero := 0
	_, err = f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{ContractNumber: "7", Quantity: &zero}}})
	require.ErrorIs(t, err, ledger.ErrNoInvoiceItems)

	_, err = f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{ContractNumber: "8"}}})
	require.ErrorIs(t, err, ErrContractNotFound)
}

func TestInvoiceEditsDuplicateNumbersByPosition(t *testing.T) {
	f := newFixture()
	snap, err := f.svc.Load(context.Background(), f.client)
	require.NoError(t, err)
	second := snap.Contracts[0]
	second.TotalRent = decimal.NewFromInt(400)
	snap.Contracts = append(snap.Contracts, second)

	zero := 0
	_, err = f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{ContractNumber: "7", Quantity: &zero}}})
	require.ErrorIs(t, err, ErrInvalidInput)

	first := 0
	inv, err := f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{Index: &first, Quantity: &zero}}})
	require.NoError(t, err)
	assert.Equal(t, "400", inv.Invoice.Total.String())
	assert.Equal(t, 0, inv.Lines[0].Quantity)
	assert.Equal(t, 1, inv.Lines[1].Quantity)

	out := 5
	_, err = f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{Index: &out}}})
	require.ErrorIs(t, err, ErrContractNotFound)

	_, err = f.svc.Invoice(snap, InvoiceRequest{Lines: []InvoiceLineInput{{Index: &first, ContractNumber: "8"}}})
	require.ErrorIs(t, err, ErrInvalidInput)
}
