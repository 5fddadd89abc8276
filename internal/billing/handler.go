package billing

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/platform/httpx"
	"github.com/adrent/billboard-admin/internal/shared"
)

// IdempotencyHeader carries the client supplied key for inserts.
const IdempotencyHeader = "Idempotency-Key"

// Handler exposes the billing screen over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers billing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledger", h.ledger)
	r.Get("/ledger/statement", h.statement)
	r.Post("/ledger/invoice", h.invoice)
	r.Get("/contracts/{number}", h.contractDetails)
	r.Get("/entries/{id}/receipt", h.receipt)
	r.Post("/debts", h.addDebt)
	r.Post("/account-payments", h.addAccountPayment)
	r.Put("/entries/{id}", h.updateEntry)
	r.Delete("/entries/{id}", h.deleteEntry)
}

func (h *Handler) controller(r *http.Request) (*Controller, *shared.Screen) {
	screen := shared.NewScreen(r.Context())
	q := r.URL.Query()
	return NewController(screen, h.service, Customer{ID: q.Get("id"), Name: q.Get("name")}), screen
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	view, err := ctrl.View()
	if err != nil {
		h.fail(w, "load ledger", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	if err := ctrl.Load(); err != nil {
		h.fail(w, "load statement", err)
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Statement(ctrl.Snapshot()))
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	var req InvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl.OpenInvoice()
	view, err := ctrl.ComposeInvoice(req)
	if err != nil {
		h.fail(w, "compose invoice", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) contractDetails(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	if err := ctrl.Load(); err != nil {
		h.fail(w, "load contract", err)
		return
	}
	details, err := h.service.ContractDetails(ctrl.Snapshot(), chi.URLParam(r, "number"))
	if err != nil {
		h.fail(w, "contract details", err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	if err := ctrl.Load(); err != nil {
		h.fail(w, "load receipt", err)
		return
	}
	view, err := h.service.Receipt(ctrl.Snapshot(), id)
	if err != nil {
		h.fail(w, "receipt", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) addDebt(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	var req DebtRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := ctrl.Load(); err != nil {
		h.fail(w, "load customer", err)
		return
	}
	ctrl.OpenAddDebt()
	out, err := ctrl.SubmitDebt(req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		h.fail(w, "add debt", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) addAccountPayment(w http.ResponseWriter, r *http.Request) {
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	var req AccountPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := ctrl.Load(); err != nil {
		h.fail(w, "load customer", err)
		return
	}
	ctrl.OpenAccountPayment()
	out, err := ctrl.SubmitAccountPayment(req, r.Header.Get(IdempotencyHeader))
	if err != nil {
		h.fail(w, "add account payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	var req EntryUpdateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	ctrl.OpenEditEntry(id)
	out, err := ctrl.SubmitEntryEdit(req)
	if err != nil {
		h.fail(w, "update entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.entryID(w, r)
	if !ok {
		return
	}
	ctrl, screen := h.controller(r)
	defer screen.Teardown()

	out, err := ctrl.Delete(id)
	if err != nil {
		h.fail(w, "delete entry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) entryID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		httpx.RespondError(w, httpx.Classify(httpx.ErrValidation, errors.New("billing: entry id must be a uuid")))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	classified := classify(err)
	if errors.Is(classified, httpx.ErrUnavailable) || errors.Is(classified, httpx.ErrWriteFailed) {
		h.logger.Error(msg, slog.Any("error", err))
	}
	httpx.RespondError(w, classified)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrCustomerRequired),
		errors.Is(err, ErrContractRequired),
		errors.Is(err, ErrContractNumberInvalid),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrDialogNotOpen),
		errors.Is(err, ledger.ErrNoInvoiceItems):
		return httpx.Classify(httpx.ErrValidation, err)
	case errors.Is(err, ErrContractNotFound), errors.Is(err, ErrEntryNotFound):
		return httpx.Classify(httpx.ErrNotFound, err)
	case errors.Is(err, ErrDuplicateRequest):
		return httpx.Classify(httpx.ErrConflict, err)
	case errors.Is(err, ErrLoadFailed), errors.Is(err, shared.ErrScreenClosed):
		return httpx.Classify(httpx.ErrUnavailable, err)
	case errors.Is(err, ErrWriteFailed):
		return httpx.Classify(httpx.ErrWriteFailed, err)
	default:
		return err
	}
}
