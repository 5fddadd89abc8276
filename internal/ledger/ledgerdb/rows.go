// Package ledgerdb maps Contract and customer_payments rows onto ledger types.
// Stored values are coerced leniently: bad amounts become zero and bad dates
// become absent.
package ledgerdb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adrent/billboard-admin/internal/ledger"
)

// ContractColumns selects a Contract row in the order ScanContract expects.
const ContractColumns = `COALESCE("Contract_Number"::text, ''), COALESCE(customer_id::text, ''),
	COALESCE("Customer Name", ''), COALESCE("Ad Type", ''), COALESCE("Total Rent"::text, ''),
	COALESCE("Contract Date"::text, ''), COALESCE("End Date"::text, ''),
	COALESCE(billboards_count::text, ''), COALESCE(created_at::text, '')`

// EntryColumns selects a customer_payments row in the order ScanEntry expects.
const EntryColumns = `id::text, COALESCE(customer_id::text, ''), COALESCE(customer_name, ''),
	COALESCE(contract_number::text, ''), COALESCE(amount::text, ''), COALESCE(entry_type, ''),
	COALESCE(method, ''), COALESCE(reference, ''), COALESCE(notes, ''), paid_at, created_at`

// ScanContract reads one row selected with ContractColumns.
func ScanContract(row pgx.Row) (ledger.Contract, error) {
	var (
		c                                   ledger.Contract
		total, start, end, count, createdAt string
	)
	if err := row.Scan(&c.Number, &c.CustomerID, &c.CustomerName, &c.AdType, &total, &start, &end, &count, &createdAt); err != nil {
		return ledger.Contract{}, err
	}
	c.TotalRent = ledger.CoerceAmount(total)
	c.Start = ledger.ParseDate(start)
	c.End = ledger.ParseDate(end)
	c.CreatedAt = ledger.ParseDate(createdAt)
	if n, err := strconv.Atoi(strings.TrimSpace(count)); err == nil {
		c.BillboardCount = n
	}
	return c, nil
}

// ScanEntry reads one row selected with EntryColumns.
func ScanEntry(row pgx.Row) (ledger.Entry, error) {
	var (
		e                 ledger.Entry
		id, amount, kind  string
		paidAt, createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &e.CustomerID, &e.CustomerName, &e.ContractNumber, &amount, &kind,
		&e.Method, &e.Reference, &e.Notes, &paidAt, &createdAt); err != nil {
		return ledger.Entry{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("ledgerdb: entry id %q: %w", id, err)
	}
	e.ID = parsed
	e.Amount = ledger.CoerceAmount(amount)
	e.Kind = ledger.EntryKind(kind)
	e.PaidAt = timestamp(paidAt)
	if createdAt.Valid {
		e.CreatedAt = createdAt.Time
	}
	return e, nil
}

// CollectContracts drains rows into contracts and closes them.
func CollectContracts(rows pgx.Rows) ([]ledger.Contract, error) {
	defer rows.Close()
	var out []ledger.Contract
	for rows.Next() {
		c, err := ScanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CollectEntries drains rows into entries and closes them.
func CollectEntries(rows pgx.Rows) ([]ledger.Entry, error) {
	defer rows.Close()
	var out []ledger.Entry
	for rows.Next() {
		e, err := ScanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// NullableText maps "" to SQL NULL.
func NullableText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	return pgtype.Text{String: s, Valid: s != ""}
}

// NullableTime maps nil to SQL NULL.
func NullableTime(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func timestamp(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}
