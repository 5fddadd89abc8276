package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/ledger/ledgerdb"
	"github.com/adrent/billboard-admin/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for the billing screen.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// CustomerName returns the name of customer id.
func (r *Repository) CustomerName(ctx context.Context, id string) (string, error) {
	var name string
	err := r.db.QueryRow(ctx, `SELECT COALESCE(name, '') FROM customers WHERE id::text = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return name, err
}

// CustomerIDByName returns the id of the first customer whose name matches
// case-insensitively.
func (r *Repository) CustomerIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id::text FROM customers WHERE name ILIKE $1 LIMIT 1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return id, err
}

// EntriesByCustomerID lists entries for the customer ordered by creation.
func (r *Repository) EntriesByCustomerID(ctx context.Context, id string) ([]ledger.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.EntryColumns+`
		FROM customer_payments WHERE customer_id::text = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectEntries(rows)
}

// EntriesByCustomerName lists entries whose customer name contains name.
func (r *Repository) EntriesByCustomerName(ctx context.Context, name string) ([]ledger.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.EntryColumns+`
		FROM customer_payments WHERE customer_name ILIKE '%' || $1 || '%' ORDER BY created_at ASC`, name)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectEntries(rows)
}

// ContractsByCustomerID lists the customer's contracts.
func (r *Repository) ContractsByCustomerID(ctx context.Context, id string) ([]ledger.Contract, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.ContractColumns+`
		FROM "Contract" WHERE customer_id::text = $1`, id)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectContracts(rows)
}

// ContractsByCustomerName lists contracts whose customer name contains name.
func (r *Repository) ContractsByCustomerName(ctx context.Context, name string) ([]ledger.Contract, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.ContractColumns+`
		FROM "Contract" WHERE "Customer Name" ILIKE '%' || $1 || '%'`, name)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectContracts(rows)
}

// InsertEntry stores a new entry and returns the stored row.
func (r *Repository) InsertEntry(ctx context.Context, in NewEntry) (ledger.Entry, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO customer_payments
		(customer_id, customer_name, contract_number, amount, method, reference, notes, paid_at, entry_type)
		VALUES (NULLIF($1, '')::uuid, $2, NULLIF($3, '')::bigint, $4, $5, $6, $7, $8, $9)
		RETURNING `+ledgerdb.EntryColumns,
		in.CustomerID,
		in.CustomerName,
		in.ContractNumber,
		in.Amount,
		ledgerdb.NullableText(in.Method),
		ledgerdb.NullableText(in.Reference),
		ledgerdb.NullableText(in.Notes),
		in.PaidAt,
		string(in.Kind),
	)
	entry, err := ledgerdb.ScanEntry(row)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("insert entry: %w", err)
	}
	return entry, nil
}

// UpdateEntry overwrites the editable fields of entry id.
func (r *Repository) UpdateEntry(ctx context.Context, id uuid.UUID, patch EntryPatch) (ledger.Entry, error) {
	row := r.db.QueryRow(ctx, `UPDATE customer_payments
		SET amount = $2, method = $3, reference = $4, notes = $5, paid_at = $6
		WHERE id = $1
		RETURNING `+ledgerdb.EntryColumns,
		id.String(),
		patch.Amount,
		ledgerdb.NullableText(patch.Method),
		ledgerdb.NullableText(patch.Reference),
		ledgerdb.NullableText(patch.Notes),
		ledgerdb.NullableTime(patch.PaidAt),
	)
	entry, err := ledgerdb.ScanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes entry id and returns the removed row.
func (r *Repository) DeleteEntry(ctx context.Context, id uuid.UUID) (ledger.Entry, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM customer_payments WHERE id = $1 RETURNING `+ledgerdb.EntryColumns, id.String())
	entry, err := ledgerdb.ScanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("delete entry: %w", err)
	}
	return entry, nil
}
