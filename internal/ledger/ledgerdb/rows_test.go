package ledgerdb

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *pgtype.Timestamptz:
			*p = r.values[i].(pgtype.Timestamptz)
		}
	}
	return nil
}

func TestScanContractCoercesValues(t *testing.T) {
	c, err := ScanContract(fakeRow{values: []any{"12", "c-1", "Acme", "Outdoor", "not money", "2024-01-01", "", " 3 ", "2024-01-01 10:00:00+00"}})
	require.NoError(t, err)
	assert.Equal(t, "12", c.Number)
	assert.True(t, c.TotalRent.IsZero())
	require.NotNil(t, c.Start)
	assert.Nil(t, c.End)
	assert.Equal(t, 3, c.BillboardCount)
	require.NotNil(t, c.CreatedAt)
}

func TestScanEntry(t *testing.T) {
	created := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	e, err := ScanEntry(fakeRow{values: []any{
		"7b0c2f3e-8d3f-4a7e-9a55-0a0d2f1c9e11", "c-1", "Acme", "", "1,250.75", "receipt",
		"cash", "", "", pgtype.Timestamptz{}, pgtype.Timestamptz{Time: created, Valid: true},
	}})
	require.NoError(t, err)
	assert.Equal(t, "1250.75", e.Amount.String())
	assert.Nil(t, e.PaidAt)
	assert.Equal(t, created, e.CreatedAt)
	assert.Equal(t, created, e.EffectiveDate())
}

func TestScanEntryRejectsBadID(t *testing.T) {
	_, err := ScanEntry(fakeRow{values: []any{"nope", "", "", "", "", "", "", "", "", pgtype.Timestamptz{}, pgtype.Timestamptz{}}})
	require.Error(t, err)

	boom := errors.New("boom")
	_, err = ScanEntry(fakeRow{err: boom})
	require.ErrorIs(t, err, boom)
}

func TestNullables(t *testing.T) {
	assert.False(t, NullableText("  ").Valid)
	assert.Equal(t, "x", NullableText(" x ").String)
	assert.False(t, NullableTime(nil).Valid)
	now := time.Now()
	assert.True(t, NullableTime(&now).Valid)
}
