package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adrent/billboard-admin/internal/events"
	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/platform/db"
	"github.com/adrent/billboard-admin/internal/platform/format"
	"github.com/adrent/billboard-admin/internal/shared"
)

// RepositoryPort defines data access methods for billing.
type RepositoryPort interface {
	CustomerName(ctx context.Context, id string) (string, error)
	CustomerIDByName(ctx context.Context, name string) (string, error)
	EntriesByCustomerID(ctx context.Context, id string) ([]ledger.Entry, error)
	EntriesByCustomerName(ctx context.Context, name string) ([]ledger.Entry, error)
	ContractsByCustomerID(ctx context.Context, id string) ([]ledger.Contract, error)
	ContractsByCustomerName(ctx context.Context, name string) ([]ledger.Contract, error)
	InsertEntry(ctx context.Context, in NewEntry) (ledger.Entry, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, patch EntryPatch) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) (ledger.Entry, error)
}

// AuditRecorder persists audit trail records.
type AuditRecorder interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// IdempotencyClaimer guards inserts against replayed requests.
type IdempotencyClaimer interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Invalidator drops cached views that depend on ledger entries.
type Invalidator interface {
	Bump(ctx context.Context) error
}

// WriteCounter counts ledger writes.
type WriteCounter interface {
	LedgerWrite(kind, action string)
}

// Option configures optional collaborators of Service.
type Option func(*Service)

// WithAudit records every write in the audit trail.
func WithAudit(a AuditRecorder) Option { return func(s *Service) { s.audit = a } }

// WithPublisher emits ledger events after writes.
func WithPublisher(p events.Publisher) Option { return func(s *Service) { s.events = p } }

// WithInvalidator bumps dependent caches after writes.
func WithInvalidator(i Invalidator) Option { return func(s *Service) { s.invalidator = i } }

// WithIdempotency enables Idempotency-Key handling for inserts.
func WithIdempotency(c IdempotencyClaimer) Option { return func(s *Service) { s.idempotency = c } }

// WithMetrics counts writes.
func WithMetrics(m WriteCounter) Option { return func(s *Service) { s.metrics = m } }

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// Service handles billing business logic.
type Service struct {
	repo        RepositoryPort
	format      *format.Formatter
	logger      *slog.Logger
	validate    *validator.Validate
	audit       AuditRecorder
	events      events.Publisher
	invalidator Invalidator
	idempotency IdempotencyClaimer
	metrics     WriteCounter
	now         func() time.Time
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, formatter *format.Formatter, logger *slog.Logger, opts ...Option) *Service {
	if formatter == nil {
		formatter = format.New("en", "")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		repo:     repo,
		format:   formatter,
		logger:   logger,
		validate: validator.New(),
		events:   events.Noop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

// ResolveCustomer fills in the missing half of a customer reference. Lookup
// failures leave the reference as given.
func (s *Service) ResolveCustomer(ctx context.Context, c Customer) (Customer, error) {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = strings.TrimSpace(c.Name)
	if c.Empty() {
		return c, ErrCustomerRequired
	}
	if c.ID != "" && c.Name == "" {
		name, err := s.repo.CustomerName(ctx, c.ID)
		if err != nil {
			s.logger.Warn("resolve customer name", slog.String("customer_id", c.ID), slog.Any("error", err))
		}
		c.Name = name
	}
	if c.ID == "" && c.Name != "" {
		id, err := s.repo.CustomerIDByName(ctx, c.Name)
		if err != nil {
			s.logger.Warn("resolve customer id", slog.String("customer_name", c.Name), slog.Any("error", err))
		}
		c.ID = id
	}
	return c, nil
}

// Load reads the customer's entries and contracts. Rows are looked up by
// customer id first and by partial name match when the id yields nothing.
// A failed primary read fails the load; a failed name fallback after an
// empty id lookup degrades to no rows.
func (s *Service) Load(ctx context.Context, c Customer) (Snapshot, error) {
	entries, err := loadWithFallback(ctx, s, c, s.repo.EntriesByCustomerID, s.repo.EntriesByCustomerName)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: entries: %v", ErrLoadFailed, err)
	}
	contracts, err := loadWithFallback(ctx, s, c, s.repo.ContractsByCustomerID, s.repo.ContractsByCustomerName)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: contracts: %v", ErrLoadFailed, err)
	}
	return Snapshot{Customer: c, Contracts: contracts, Entries: entries}, nil
}

func loadWithFallback[T any](
	ctx context.Context,
	s *Service,
	c Customer,
	byID func(context.Context, string) ([]T, error),
	byName func(context.Context, string) ([]T, error),
) ([]T, error) {
	if c.ID == "" {
		if c.Name == "" {
			return nil, nil
		}
		return byName(ctx, c.Name)
	}
	out, err := byID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if len(out) > 0 || c.Name == "" {
		return out, nil
	}
	fallback, err := byName(ctx, c.Name)
	if err != nil {
		s.logger.Warn("name fallback lookup failed", slog.String("customer_name", c.Name), slog.Any("error", err))
		return nil, nil
	}
	return fallback, nil
}

// View aggregates a snapshot into the billing screen payload.
func (s *Service) View(snap Snapshot) LedgerView {
	now := s.now()
	summary := ledger.Summarize(snap.Contracts, snap.Entries, now)

	contracts := make([]ContractView, 0, len(snap.Contracts))
	for _, c := range snap.Contracts {
		paid := ledger.ContractPaid(c.Number, snap.Entries)
		remaining := ledger.ContractRemainder(c, snap.Entries)
		contracts = append(contracts, ContractView{
			Contract:      c,
			Paid:          paid,
			Remaining:     remaining,
			InForce:       ledger.InForce(c, now),
			TotalText:     s.format.Money(c.TotalRent),
			RemainingText: s.format.Money(remaining),
			StartText:     s.format.Date(c.Start),
			EndText:       s.format.Date(c.End),
		})
	}

	entries := make([]EntryView, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		entries = append(entries, s.entryView(e))
	}

	return LedgerView{
		Customer:          snap.Customer,
		Contracts:         contracts,
		Entries:           entries,
		Summary:           summary,
		BalanceText:       s.format.Money(summary.Balance),
		AccountCreditText: s.format.Money(summary.AccountCredit),
		Dialog:            shared.Closed{}.DialogKind(),
	}
}

func (s *Service) entryView(e ledger.Entry) EntryView {
	date := e.EffectiveDate()
	return EntryView{
		Entry:      e,
		KindLabel:  s.format.KindLabel(e.Kind),
		AmountText: s.format.Money(e.Amount),
		DateText:   s.format.Date(&date),
	}
}

// Statement builds the chronological statement with a running balance.
func (s *Service) Statement(snap Snapshot) StatementView {
	now := s.now()
	st := ledger.BuildStatement(snap.Contracts, snap.Entries, now, s.format)
	lines := make([]StatementLineView, 0, len(st.Lines))
	for _, l := range st.Lines {
		date := l.Date
		lines = append(lines, StatementLineView{
			StatementLine: l,
			DateText:      s.format.Date(&date),
			DebitText:     s.format.Money(l.Debit),
			CreditText:    s.format.Money(l.Credit),
			RunningText:   s.format.Money(l.Running),
		})
	}
	return StatementView{
		Customer:    snap.Customer,
		Lines:       lines,
		TotalDebit:  st.TotalDebit,
		TotalCredit: st.TotalCredit,
		Closing:     st.Closing,
		ClosingText: s.format.Money(st.Closing),
		GeneratedAt: now,
	}
}

// ContractDetails reports total, paid and remaining for one contract.
func (s *Service) ContractDetails(snap Snapshot, number string) (ContractDetailsView, error) {
	details, ok := ledger.ContractDetailsFor(strings.TrimSpace(number), snap.Contracts, snap.Entries, s.now())
	if !ok {
		return ContractDetailsView{}, ErrContractNotFound
	}
	return ContractDetailsView{
		ContractDetails: details,
		TotalText:       s.format.Money(details.Contract.TotalRent),
		PaidText:        s.format.Money(details.Paid),
		RemainingText:   s.format.Money(details.Remaining),
	}, nil
}

// Receipt reports an entry with the balance left after it.
func (s *Service) Receipt(snap Snapshot, id uuid.UUID) (ReceiptView, error) {
	for _, e := range snap.Entries {
		if e.ID != id {
			continue
		}
		debits := ledger.TotalDebits(snap.Contracts, snap.Entries)
		remaining := ledger.RemainingAfter(id, snap.Entries, debits)
		return ReceiptView{
			Customer:      snap.Customer,
			Entry:         s.entryView(e),
			TotalDebits:   debits,
			Remaining:     remaining,
			RemainingText: s.format.Money(remaining),
		}, nil
	}
	return ReceiptView{}, ErrEntryNotFound
}

// Invoice composes an invoice from the customer's contracts and line edits.
func (s *Service) Invoice(snap Snapshot, req InvoiceRequest) (InvoiceView, error) {
	if err := s.validate.Struct(req); err != nil {
		return InvoiceView{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	lines := ledger.InvoiceLinesFor(snap.Contracts)
	positions := make(map[string][]int, len(lines))
	for i, l := range lines {
		positions[l.ContractNumber] = append(positions[l.ContractNumber], i)
	}
	for _, edit := range req.Lines {
		i, err := invoiceLinePosition(edit, lines, positions)
		if err != nil {
			return InvoiceView{}, err
		}
		if edit.Quantity != nil {
			lines[i] = lines[i].WithQuantity(*edit.Quantity)
		}
		if edit.UnitPrice != nil {
			lines[i] = lines[i].WithUnitPrice(ledger.CoerceAmount(*edit.UnitPrice))
		}
	}
	inv, err := ledger.ComposeInvoice(lines, req.IncludeAccount, ledger.AccountCredit(snap.Entries))
	if err != nil {
		return InvoiceView{}, err
	}
	return InvoiceView{
		Customer: snap.Customer,
		Invoice:  inv,
		Lines:    lines,
		Total:    s.format.Money(inv.Total),
	}, nil
}

func invoiceLinePosition(edit InvoiceLineInput, lines []ledger.InvoiceLine, positions map[string][]int) (int, error) {
	number := strings.TrimSpace(edit.ContractNumber)
	if edit.Index != nil {
		i := *edit.Index
		if i >= len(lines) {
			return 0, fmt.Errorf("%w: invoice line %d", ErrContractNotFound, i)
		}
		if number != "" && lines[i].ContractNumber != number {
			return 0, fmt.Errorf("%w: invoice line %d is not contract %s", ErrInvalidInput, i, number)
		}
		return i, nil
	}
	switch at := positions[number]; len(at) {
	case 0:
		return 0, fmt.Errorf("%w: %s", ErrContractNotFound, number)
	case 1:
		return at[0], nil
	default:
		return 0, fmt.Errorf("%w: contract %s appears on %d lines, edit it by index", ErrInvalidInput, number, len(at))
	}
}

// AddDebt records a previous debt on the customer's general account.
func (s *Service) AddDebt(ctx context.Context, c Customer, req DebtRequest, idempotencyKey string) (ledger.Entry, error) {
	if c.Empty() {
		return ledger.Entry{}, ErrCustomerRequired
	}
	amount, err := s.parseAmount(req, req.Amount)
	if err != nil {
		return ledger.Entry{}, err
	}
	in := NewEntry{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Amount:       amount,
		Kind:         ledger.KindDebt,
		Method:       DebtMethod,
		Notes:        req.Notes,
		PaidAt:       ledger.DateOr(ledger.ParseDate(req.PaidAt), s.now()),
	}
	return s.insert(ctx, in, "billing.debt", idempotencyKey)
}

// AddAccountPayment records a payment to the general account, or a receipt
// against a contract when ToGeneral is false.
func (s *Service) AddAccountPayment(ctx context.Context, c Customer, req AccountPaymentRequest, idempotencyKey string) (ledger.Entry, error) {
	if c.Empty() {
		return ledger.Entry{}, ErrCustomerRequired
	}
	amount, err := s.parseAmount(req, req.Amount)
	if err != nil {
		return ledger.Entry{}, err
	}
	in := NewEntry{
		CustomerID:   c.ID,
		CustomerName: c.Name,
		Amount:       amount,
		Kind:         ledger.KindAccountPayment,
		Method:       req.Method,
		Reference:    req.Reference,
		Notes:        req.Notes,
		PaidAt:       ledger.DateOr(ledger.ParseDate(req.PaidAt), s.now()),
	}
	if !req.General() {
		number := strings.TrimSpace(req.ContractNumber)
		if number == "" {
			return ledger.Entry{}, ErrContractRequired
		}
		if _, err := decimal.NewFromString(number); err != nil {
			return ledger.Entry{}, ErrContractNumberInvalid
		}
		in.ContractNumber = number
		in.Kind = ledger.KindReceipt
	}
	return s.insert(ctx, in, "billing.account_payment", idempotencyKey)
}

// UpdateEntry edits a recorded receipt. The amount follows the same rules as inserts.
func (s *Service) UpdateEntry(ctx context.Context, id uuid.UUID, req EntryUpdateRequest) (ledger.Entry, error) {
	amount, err := s.parseAmount(req, req.Amount)
	if err != nil {
		return ledger.Entry{}, err
	}
	patch := EntryPatch{
		Amount:    amount,
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
		PaidAt:    ledger.ParseDate(req.PaidAt),
	}
	entry, err := s.repo.UpdateEntry(ctx, id, patch)
	if err != nil {
		return ledger.Entry{}, s.writeError("update", err)
	}
	s.afterWrite(ctx, "update", events.LedgerEntryUpdated, entry)
	return entry, nil
}

// DeleteEntry removes a ledger entry.
func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) (ledger.Entry, error) {
	entry, err := s.repo.DeleteEntry(ctx, id)
	if err != nil {
		return ledger.Entry{}, s.writeError("delete", err)
	}
	s.afterWrite(ctx, "delete", events.LedgerEntryDeleted, entry)
	return entry, nil
}

func (s *Service) parseAmount(req any, raw string) (decimal.Decimal, error) {
	amount, err := ledger.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.validate.Struct(req); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return amount, nil
}

func (s *Service) insert(ctx context.Context, in NewEntry, module, key string) (ledger.Entry, error) {
	key = strings.TrimSpace(key)
	if key != "" && s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, module); err != nil {
			if errors.Is(err, shared.ErrIdempotencyConflict) {
				return ledger.Entry{}, ErrDuplicateRequest
			}
			return ledger.Entry{}, fmt.Errorf("%w: %s", ErrWriteFailed, db.Message(err))
		}
	}
	entry, err := s.repo.InsertEntry(ctx, in)
	if err != nil {
		if key != "" && s.idempotency != nil {
			if delErr := s.idempotency.Delete(ctx, key); delErr != nil {
				s.logger.Error("release idempotency key", slog.String("key", key), slog.Any("error", delErr))
			}
		}
		return ledger.Entry{}, s.writeError("create", err)
	}
	s.afterWrite(ctx, "create", events.LedgerEntryRecorded, entry)
	return entry, nil
}

func (s *Service) writeError(action string, err error) error {
	if errors.Is(err, ErrEntryNotFound) {
		return err
	}
	s.logger.Error("ledger write failed", slog.String("action", action), slog.Any("error", err))
	return fmt.Errorf("%w: %s", ErrWriteFailed, db.Message(err))
}

func (s *Service) afterWrite(ctx context.Context, action, event string, entry ledger.Entry) {
	if s.metrics != nil {
		s.metrics.LedgerWrite(string(entry.Kind), action)
	}
	if s.audit != nil {
		err := s.audit.Record(ctx, shared.AuditLog{
			Action:   "ledger_entry." + action,
			Entity:   "customer_payments",
			EntityID: entry.ID.String(),
			Meta: map[string]any{
				"customer":        entry.CustomerName,
				"contract_number": entry.ContractNumber,
				"kind":            string(entry.Kind),
				"amount":          entry.Amount.String(),
			},
			At: s.now(),
		})
		if err != nil {
			s.logger.Error("audit ledger write", slog.Any("error", err))
		}
	}
	if s.invalidator != nil {
		if err := s.invalidator.Bump(ctx); err != nil {
			s.logger.Warn("invalidate dashboard cache", slog.Any("error", err))
		}
	}
	err := s.events.PublishLedger(ctx, events.LedgerEntryEvent{
		Name:           event,
		EntryID:        entry.ID.String(),
		CustomerID:     entry.CustomerID,
		CustomerName:   entry.CustomerName,
		ContractNumber: entry.ContractNumber,
		Kind:           string(entry.Kind),
		Amount:         entry.Amount,
		Actor:          shared.ActorFromContext(ctx),
		OccurredAt:     s.now(),
	})
	if err != nil {
		s.logger.Warn("publish ledger event", slog.String("event", event), slog.Any("error", err))
	}
}
