package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/shared"
)

// Notice is the outcome message shown after an action.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Outcome reports the result of a submitted dialog.
type Outcome struct {
	Entry  *ledger.Entry `json:"entry,omitempty"`
	Notice Notice        `json:"notice"`
	Dialog string        `json:"dialog"`
	View   *LedgerView   `json:"view,omitempty"`
}

// Controller drives one billing screen: it loads the customer's rows under
// the screen context, owns the dialog slot and reloads after every write.
type Controller struct {
	screen   *shared.Screen
	service  *Service
	logger   *slog.Logger
	customer Customer
	snapshot Snapshot
	loaded   bool
}

// NewController binds a controller to screen for customer.
func NewController(screen *shared.Screen, service *Service, customer Customer) *Controller {
	return &Controller{screen: screen, service: service, logger: service.logger, customer: customer}
}

// Customer returns the resolved customer.
func (c *Controller) Customer() Customer {
	return c.customer
}

// Snapshot returns the rows of the last successful load.
func (c *Controller) Snapshot() Snapshot {
	return c.snapshot
}

// Load resolves the customer and reads their rows. Results arriving after the
// screen was torn down are discarded.
func (c *Controller) Load() error {
	snap, err := shared.Load(c.screen, func(ctx context.Context) (Snapshot, error) {
		customer, err := c.service.ResolveCustomer(ctx, c.customer)
		if err != nil {
			return Snapshot{}, err
		}
		return c.service.Load(ctx, customer)
	})
	if err != nil {
		return err
	}
	c.customer = snap.Customer
	c.snapshot = snap
	c.loaded = true
	return nil
}

// View returns the aggregated screen state, loading first when needed.
func (c *Controller) View() (LedgerView, error) {
	if !c.loaded {
		if err := c.Load(); err != nil {
			return LedgerView{}, err
		}
	}
	view := c.service.View(c.snapshot)
	view.Dialog = c.screen.Dialog().DialogKind()
	return view, nil
}

// OpenEditEntry opens the receipt editor for id, replacing any open dialog.
func (c *Controller) OpenEditEntry(id uuid.UUID) { c.screen.Open(EditingEntry{ID: id}) }

// OpenAddDebt opens the previous-debt dialog.
func (c *Controller) OpenAddDebt() { c.screen.Open(AddingDebt{}) }

// OpenAccountPayment opens the account payment dialog.
func (c *Controller) OpenAccountPayment() { c.screen.Open(AddingAccountPayment{}) }

// OpenInvoice opens the invoice composer.
func (c *Controller) OpenInvoice() { c.screen.Open(ComposingInvoice{}) }

// Cancel closes whatever dialog is open.
func (c *Controller) Cancel() { c.screen.Close() }

// Dialog returns the open dialog.
func (c *Controller) Dialog() shared.Dialog { return c.screen.Dialog() }

// SubmitDebt saves the debt dialog.
func (c *Controller) SubmitDebt(req DebtRequest, idempotencyKey string) (Outcome, error) {
	if _, ok := c.screen.Dialog().(AddingDebt); !ok {
		return c.outcome(nil, ErrDialogNotOpen)
	}
	entry, err := c.service.AddDebt(c.screen.Context(), c.customer, req, idempotencyKey)
	return c.complete(entry, err, "debt added")
}

// SubmitAccountPayment saves the account payment dialog.
func (c *Controller) SubmitAccountPayment(req AccountPaymentRequest, idempotencyKey string) (Outcome, error) {
	if _, ok := c.screen.Dialog().(AddingAccountPayment); !ok {
		return c.outcome(nil, ErrDialogNotOpen)
	}
	entry, err := c.service.AddAccountPayment(c.screen.Context(), c.customer, req, idempotencyKey)
	return c.complete(entry, err, "payment saved")
}

// SubmitEntryEdit saves the receipt editor.
func (c *Controller) SubmitEntryEdit(req EntryUpdateRequest) (Outcome, error) {
	editing, ok := c.screen.Dialog().(EditingEntry)
	if !ok {
		return c.outcome(nil, ErrDialogNotOpen)
	}
	entry, err := c.service.UpdateEntry(c.screen.Context(), editing.ID, req)
	return c.complete(entry, err, "receipt updated")
}

// ComposeInvoice previews the invoice while the composer is open.
func (c *Controller) ComposeInvoice(req InvoiceRequest) (InvoiceView, error) {
	if _, ok := c.screen.Dialog().(ComposingInvoice); !ok {
		return InvoiceView{}, ErrDialogNotOpen
	}
	if !c.loaded {
		if err := c.Load(); err != nil {
			return InvoiceView{}, err
		}
	}
	return c.service.Invoice(c.snapshot, req)
}

// Delete removes an entry. It needs no dialog.
func (c *Controller) Delete(id uuid.UUID) (Outcome, error) {
	entry, err := c.service.DeleteEntry(c.screen.Context(), id)
	return c.complete(entry, err, "entry deleted")
}

// complete closes the dialog and reloads on success. Failures leave the
// dialog and the previously loaded state untouched. A controller built
// without a customer has nothing to reload.
func (c *Controller) complete(entry ledger.Entry, err error, success string) (Outcome, error) {
	if err != nil {
		return c.outcome(nil, err)
	}
	c.screen.Close()
	out := Outcome{
		Entry:  &entry,
		Notice: Notice{Level: "success", Message: success},
		Dialog: c.screen.Dialog().DialogKind(),
	}
	if c.customer.Empty() {
		return out, nil
	}
	if reloadErr := c.Load(); reloadErr != nil {
		if !errors.Is(reloadErr, shared.ErrScreenClosed) {
			c.logger.Warn("reload after write", slog.Any("error", reloadErr))
		}
		return out, nil
	}
	view, _ := c.View()
	out.View = &view
	return out, nil
}

func (c *Controller) outcome(entry *ledger.Entry, err error) (Outcome, error) {
	return Outcome{
		Entry:  entry,
		Notice: Notice{Level: "error", Message: err.Error()},
		Dialog: c.screen.Dialog().DialogKind(),
	}, err
}
