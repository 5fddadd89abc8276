package billing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/shared"
)

type memoryRepo struct {
	mu        sync.Mutex
	customers map[string]string
	contracts []ledger.Contract
	entries   []ledger.Entry
	writes    int
	readErr   error
	idErr     error
	nameErr   error
	writeErr  error
	clock     time.Time
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		customers: map[string]string{"c-1": "Acme Media"},
		clock:     time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepo) CustomerName(_ context.Context, id string) (string, error) {
	return m.customers[id], nil
}

func (m *memoryRepo) CustomerIDByName(_ context.Context, name string) (string, error) {
	for id, n := range m.customers {
		if strings.EqualFold(n, name) {
			return id, nil
		}
	}
	return "", nil
}

func (m *memoryRepo) EntriesByCustomerID(_ context.Context, id string) ([]ledger.Entry, error) {
	if err := errors.Join(m.readErr, m.idErr); err != nil {
		return nil, err
	}
	var out []ledger.Entry
	for _, e := range m.entries {
		if e.CustomerID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) EntriesByCustomerName(_ context.Context, name string) ([]ledger.Entry, error) {
	if err := errors.Join(m.readErr, m.nameErr); err != nil {
		return nil, err
	}
	var out []ledger.Entry
	for _, e := range m.entries {
		if strings.Contains(strings.ToLower(e.CustomerName), strings.ToLower(name)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) ContractsByCustomerID(_ context.Context, id string) ([]ledger.Contract, error) {
	var out []ledger.Contract
	for _, c := range m.contracts {
		if c.CustomerID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) ContractsByCustomerName(_ context.Context, name string) ([]ledger.Contract, error) {
	var out []ledger.Contract
	for _, c := range m.contracts {
		if strings.Contains(strings.ToLower(c.CustomerName), strings.ToLower(name)) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) InsertEntry(_ context.Context, in NewEntry) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return ledger.Entry{}, m.writeErr
	}
	m.clock = m.clock.Add(time.Minute)
	paid := in.PaidAt
	e := ledger.Entry{
		ID:             uuid.New(),
		CustomerID:     in.CustomerID,
		CustomerName:   in.CustomerName,
		ContractNumber: in.ContractNumber,
		Amount:         in.Amount,
		Kind:           in.Kind,
		Method:         in.Method,
		Reference:      in.Reference,
		Notes:          in.Notes,
		PaidAt:         &paid,
		CreatedAt:      m.clock,
	}
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memoryRepo) UpdateEntry(_ context.Context, id uuid.UUID, patch EntryPatch) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return ledger.Entry{}, m.writeErr
	}
	for i, e := range m.entries {
		if e.ID == id {
			e.Amount = patch.Amount
			e.Method = patch.Method
			e.Reference = patch.Reference
			e.Notes = patch.Notes
			e.PaidAt = patch.PaidAt
			m.entries[i] = e
			return e, nil
		}
	}
	return ledger.Entry{}, ErrEntryNotFound
}

func (m *memoryRepo) DeleteEntry(_ context.Context, id uuid.UUID) (ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return ledger.Entry{}, m.writeErr
	}
	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return e, nil
		}
	}
	return ledger.Entry{}, ErrEntryNotFound
}

type recordingAudit struct{ logs []shared.AuditLog }

func (r *recordingAudit) Record(_ context.Context, log shared.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

type countingInvalidator struct{ bumps int }

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

type memoryIdempotency struct{ keys map[string]bool }

func (m *memoryIdempotency) CheckAndInsert(_ context.Context, key, _ string) error {
	if m.keys == nil {
		m.keys = map[string]bool{}
	}
	if m.keys[key] {
		return shared.ErrIdempotencyConflict
	}
	m.keys[key] = true
	return nil
}

func (m *memoryIdempotency) Delete(_ context.Context, key string) error {
	delete(m.keys, key)
	return nil
}

var errGateway = errors.New("permission denied for table customer_payments")
