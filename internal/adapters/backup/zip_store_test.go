package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/banquito_backend/internal/apperrors"
	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotAt(created time.Time) domain.Snapshot {
	audit := domain.NewAuditFields("user-1", created)
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	return domain.Snapshot{
		FormatVersion: domain.SnapshotFormatVersion,
		CreatedAt:     created,
		Profile:       &domain.CompanyProfile{ProfileID: domain.DefaultProfileID, BusinessName: "Préstamos Ana", BaseCurrency: "NIO", AuditFields: audit},
		Currencies:    []domain.Currency{{CurrencyCode: "NIO", Symbol: "C$", Name: "Córdoba", Precision: 2, AuditFields: audit}},
		ExchangeRates: []domain.ExchangeRate{{
			ExchangeRateID: "rate-1", FromCurrencyCode: "USD", ToCurrencyCode: "NIO",
			Rate: decimal.RequireFromString("36.6243"), DateEffective: start, AuditFields: audit,
		}},
		Clients: []domain.Client{{ClientID: "client-1", FirstName: "Ana", LastName: "López", Cedula: "001-010190-0001A", IsActive: true, AuditFields: audit}},
		Loans: []domain.Loan{{
			LoanID: "loan-1", ClientID: "client-1", Principal: decimal.NewFromInt(1000), InterestRate: decimal.NewFromInt(10),
			PaymentPeriod: domain.Monthly, TermPeriods: 3, StartDate: start, DueDate: start.AddDate(0, 3, 0),
			CurrencyCode: "NIO", Status: domain.LoanActive, PaidAmount: decimal.RequireFromString("433.33"), AuditFields: audit,
		}},
		Installments: []domain.Installment{{
			InstallmentID: "inst-1", LoanID: "loan-1", Amount: decimal.RequireFromString("433.33"),
			PaymentDate: start.AddDate(0, 1, 0), Notes: "primera cuota", AuditFields: audit,
		}},
	}
}

func TestZipStore_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)

	created := time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC)
	file, err := store.Save(ctx, snapshotAt(created))
	require.NoError(t, err)
	assert.Equal(t, "banquito_backup.zip", file.Name)
	assert.True(t, file.Exists)
	assert.Positive(t, file.SizeBytes)

	snap, err := store.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.SnapshotFormatVersion, snap.FormatVersion)
	assert.True(t, created.Equal(snap.CreatedAt))
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "Préstamos Ana", snap.Profile.BusinessName)
	require.Len(t, snap.Loans, 1)
	assert.Equal(t, "433.33", snap.Loans[0].PaidAmount.String())
	assert.Equal(t, domain.Monthly, snap.Loans[0].PaymentPeriod)
	assert.Equal(t, "2024-04-15", snap.Loans[0].DueDate.Format(dateLayout))
	require.Len(t, snap.ExchangeRates, 1)
	assert.Equal(t, "36.6243", snap.ExchangeRates[0].Rate.String())
	require.Len(t, snap.Clients, 1)
	assert.True(t, snap.Clients[0].IsActive)
	require.Len(t, snap.Installments, 1)
	assert.Equal(t, "primera cuota", snap.Installments[0].Notes)
}

func TestZipStore_RotatesThreeSlots(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewZipStore(dir)
	require.NoError(t, err)

	base := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := store.Save(ctx, snapshotAt(base.AddDate(0, 0, i)))
		require.NoError(t, err)
	}

	files, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, domain.BackupSlots)
	for i, f := range files {
		assert.True(t, f.Exists, "slot %d", i)
	}
	assert.Equal(t, "banquito_backup_1.zip", files[1].Name)
	assert.Equal(t, "banquito_backup_2.zip", files[2].Name)

	for slot, wantDay := range []int{3, 2, 1} {
		snap, err := store.Load(ctx, slot)
		require.NoError(t, err)
		assert.True(t, base.AddDate(0, 0, wantDay).Equal(snap.CreatedAt), "slot %d", slot)
	}

	_, err = os.Stat(filepath.Join(dir, tempName))
	assert.True(t, os.IsNotExist(err), "temporary file is left behind")
}

func TestZipStore_MissingSlot(t *testing.T) {
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = store.Open(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	files, err := store.List(context.Background())
	require.NoError(t, err)
	assert.False(t, files[0].Exists)
}

func TestZipStore_OpenReturnsArchive(t *testing.T) {
	ctx := context.Background()
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save(ctx, snapshotAt(time.Now().UTC()))
	require.NoError(t, err)

	rc, file, err := store.Open(ctx, 0)
	require.NoError(t, err)
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, file.SizeBytes, int64(len(raw)))

	snap, err := store.LoadFrom(ctx, bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	assert.Len(t, snap.Clients, 1)
}

func TestZipStore_LoadFromRejectsBadArchives(t *testing.T) {
	ctx := context.Background()
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)

	garbage := []byte("not a zip file")
	_, err = store.LoadFrom(ctx, bytes.NewReader(garbage), int64(len(garbage)))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("other.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = store.LoadFrom(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), EntryName)

	_, err = store.LoadFrom(ctx, bytes.NewReader(nil), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestZipStore_LoadFromRejectsOversizedEntry(t *testing.T) {
	ctx := context.Background()
	store, err := NewZipStore(t.TempDir())
	require.NoError(t, err)
	store.maxEntryBytes = 1024

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(EntryName)
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte{0}, 4096))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = store.LoadFrom(ctx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds 1024 bytes")
}

func TestExtract_StopsAtLimit(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(EntryName)
	require.NoError(t, err)
	_, err = w.Write(bytes.Repeat([]byte{1}, 2048))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	dst := filepath.Join(t.TempDir(), EntryName)

	err = extract(zr.File[0], dst, 100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	info, statErr := os.Stat(dst)
	require.NoError(t, statErr)
	assert.LessOrEqual(t, info.Size(), int64(101))
}

func TestReadSnapshotDB_CorruptRowsAreInvalid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), EntryName)
	require.NoError(t, writeSnapshotDB(ctx, path, snapshotAt(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE loans SET principal = 'mil córdobas'`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = readSnapshotDB(ctx, path)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "loans")
}

func TestReadSnapshotDB_MissingTableIsInvalid(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), EntryName)
	require.NoError(t, writeSnapshotDB(ctx, path, snapshotAt(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `DROP TABLE installments`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = readSnapshotDB(ctx, path)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
