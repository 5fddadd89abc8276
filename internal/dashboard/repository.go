package dashboard

import (
	"context"
	"strings"

	"github.com/adrent/billboard-admin/internal/ledger"
	"github.com/adrent/billboard-admin/internal/ledger/ledgerdb"
	"github.com/adrent/billboard-admin/internal/platform/db"
)

// Repository reads the dashboard's source tables.
type Repository struct {
	db db.DBTX
}

// NewRepository constructs a repository.
func NewRepository(conn db.DBTX) *Repository {
	return &Repository{db: conn}
}

// Billboards lists every billboard.
func (r *Repository) Billboards(ctx context.Context) ([]Billboard, error) {
	rows, err := r.db.Query(ctx, `SELECT id::text, COALESCE(name, ''), COALESCE(location, ''), COALESCE(city, ''),
		COALESCE("Municipality", ''), COALESCE("Size", ''), COALESCE(level, ''), COALESCE(price::text, ''),
		COALESCE(status, ''), COALESCE(created_at::text, '')
		FROM billboards`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Billboard
	for rows.Next() {
		var (
			b                Billboard
			price, createdAt string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.City, &b.Municipality, &b.Size, &b.Level, &price, &b.Status, &createdAt); err != nil {
			return nil, err
		}
		b.Price = ledger.CoerceAmount(price)
		b.Status = strings.TrimSpace(b.Status)
		b.CreatedAt = ledger.ParseDate(createdAt)
		out = append(out, b)
	}
	return out, rows.Err()
}

// Contracts lists every contract.
func (r *Repository) Contracts(ctx context.Context) ([]ledger.Contract, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.ContractColumns+` FROM "Contract"`)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectContracts(rows)
}

// Entries lists every ledger entry, newest first.
func (r *Repository) Entries(ctx context.Context) ([]ledger.Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ledgerdb.EntryColumns+` FROM customer_payments ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return ledgerdb.CollectEntries(rows)
}
