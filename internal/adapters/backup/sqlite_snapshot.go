package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/banquito_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

var schema = []string{
	`CREATE TABLE backup_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
	`CREATE TABLE company_profile (
		profile_id TEXT PRIMARY KEY, business_name TEXT, owner_name TEXT, cedula TEXT, phone TEXT,
		address TEXT, city TEXT, email TEXT, base_currency TEXT,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
	`CREATE TABLE currencies (
		currency_code TEXT PRIMARY KEY, symbol TEXT, name TEXT, precision INTEGER,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
	`CREATE TABLE exchange_rates (
		exchange_rate_id TEXT PRIMARY KEY, from_currency_code TEXT, to_currency_code TEXT, rate TEXT, date_effective TEXT,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
	`CREATE TABLE clients (
		client_id TEXT PRIMARY KEY, first_name TEXT, last_name TEXT, cedula TEXT, phone TEXT, address TEXT,
		email TEXT, notes TEXT, is_active INTEGER,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
	`CREATE TABLE loans (
		loan_id TEXT PRIMARY KEY, client_id TEXT, principal TEXT, interest_rate TEXT, payment_period TEXT,
		term_periods INTEGER, start_date TEXT, due_date TEXT, currency_code TEXT, status TEXT, paid_amount TEXT, notes TEXT,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
	`CREATE TABLE installments (
		installment_id TEXT PRIMARY KEY, loan_id TEXT, amount TEXT, payment_date TEXT, notes TEXT,
		created_at TEXT, created_by TEXT, last_updated_at TEXT, last_updated_by TEXT)`,
}

func stamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }
func day(t time.Time) string   { return t.Format(dateLayout) }

func parseStamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// writeSnapshotDB creates a fresh SQLite database at path holding the snapshot.
func writeSnapshotDB(ctx context.Context, path string, snap domain.Snapshot) (err error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open backup database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close backup database: %w", cerr)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin backup transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schema {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create backup schema: %w", err)
		}
	}
	if err = writeRows(ctx, tx, snap); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit backup database: %w", err)
	}
	return nil
}

func writeRows(ctx context.Context, tx *sql.Tx, snap domain.Snapshot) error {
	meta := map[string]string{
		"format_version": strconv.Itoa(snap.FormatVersion),
		"created_at":     stamp(snap.CreatedAt),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO backup_meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("failed to write backup metadata: %w", err)
		}
	}

	if p := snap.Profile; p != nil {
		_, err := tx.ExecContext(ctx, `INSERT INTO company_profile VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ProfileID, p.BusinessName, p.OwnerName, p.Cedula, p.Phone, p.Address, p.City, p.Email, p.BaseCurrency,
			stamp(p.CreatedAt), p.CreatedBy, stamp(p.LastUpdatedAt), p.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write company profile: %w", err)
		}
	}
	for _, c := range snap.Currencies {
		_, err := tx.ExecContext(ctx, `INSERT INTO currencies VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CurrencyCode, c.Symbol, c.Name, c.Precision,
			stamp(c.CreatedAt), c.CreatedBy, stamp(c.LastUpdatedAt), c.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write currency %s: %w", c.CurrencyCode, err)
		}
	}
	for _, r := range snap.ExchangeRates {
		_, err := tx.ExecContext(ctx, `INSERT INTO exchange_rates VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ExchangeRateID, r.FromCurrencyCode, r.ToCurrencyCode, r.Rate.String(), day(r.DateEffective),
			stamp(r.CreatedAt), r.CreatedBy, stamp(r.LastUpdatedAt), r.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write exchange rate %s: %w", r.ExchangeRateID, err)
		}
	}
	for _, c := range snap.Clients {
		_, err := tx.ExecContext(ctx, `INSERT INTO clients VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ClientID, c.FirstName, c.LastName, c.Cedula, c.Phone, c.Address, c.Email, c.Notes, c.IsActive,
			stamp(c.CreatedAt), c.CreatedBy, stamp(c.LastUpdatedAt), c.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write client %s: %w", c.ClientID, err)
		}
	}
	for _, l := range snap.Loans {
		_, err := tx.ExecContext(ctx, `INSERT INTO loans VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			l.LoanID, l.ClientID, l.Principal.String(), l.InterestRate.String(), string(l.PaymentPeriod),
			l.TermPeriods, day(l.StartDate), day(l.DueDate), l.CurrencyCode, string(l.Status), l.PaidAmount.String(), l.Notes,
			stamp(l.CreatedAt), l.CreatedBy, stamp(l.LastUpdatedAt), l.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write loan %s: %w", l.LoanID, err)
		}
	}
	for _, i := range snap.Installments {
		_, err := tx.ExecContext(ctx, `INSERT INTO installments VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i.InstallmentID, i.LoanID, i.Amount.String(), day(i.PaymentDate), i.Notes,
			stamp(i.CreatedAt), i.CreatedBy, stamp(i.LastUpdatedAt), i.LastUpdatedBy)
		if err != nil {
			return fmt.Errorf("failed to write installment %s: %w", i.InstallmentID, err)
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type auditRow struct {
	createdAt, createdBy, updatedAt, updatedBy string
}

func (a *auditRow) dest() []any {
	return []any{&a.createdAt, &a.createdBy, &a.updatedAt, &a.updatedBy}
}

func (a auditRow) fields() (domain.AuditFields, error) {
	created, err := parseStamp(a.createdAt)
	if err != nil {
		return domain.AuditFields{}, err
	}
	updated, err := parseStamp(a.updatedAt)
	if err != nil {
		return domain.AuditFields{}, err
	}
	return domain.AuditFields{CreatedAt: created, CreatedBy: a.createdBy, LastUpdatedAt: updated, LastUpdatedBy: a.updatedBy}, nil
}

// readSnapshotDB loads a snapshot from the SQLite database at path.
func readSnapshotDB(ctx context.Context, path string) (*domain.Snapshot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup database: %w", err)
	}
	defer db.Close()

	snap := &domain.Snapshot{}
	if err := readMeta(ctx, db, snap); err != nil {
		return nil, err
	}
	if err := readProfile(ctx, db, snap); err != nil {
		return nil, err
	}

	readers := []struct {
		table string
		query string
		scan  func(rowScanner) error
	}{
		{"currencies", `SELECT currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by FROM currencies`,
			func(row rowScanner) error {
				var c domain.Currency
				var a auditRow
				if err := row.Scan(append([]any{&c.CurrencyCode, &c.Symbol, &c.Name, &c.Precision}, a.dest()...)...); err != nil {
					return err
				}
				audit, err := a.fields()
				if err != nil {
					return err
				}
				c.AuditFields = audit
				snap.Currencies = append(snap.Currencies, c)
				return nil
			}},
		{"exchange_rates", `SELECT exchange_rate_id, from_currency_code, to_currency_code, rate, date_effective, created_at, created_by, last_updated_at, last_updated_by FROM exchange_rates`,
			func(row rowScanner) error {
				var r domain.ExchangeRate
				var rate, effective string
				var a auditRow
				if err := row.Scan(append([]any{&r.ExchangeRateID, &r.FromCurrencyCode, &r.ToCurrencyCode, &rate, &effective}, a.dest()...)...); err != nil {
					return err
				}
				var err error
				if r.Rate, err = decimal.NewFromString(rate); err != nil {
					return err
				}
				if r.DateEffective, err = parseDay(effective); err != nil {
					return err
				}
				if r.AuditFields, err = a.fields(); err != nil {
					return err
				}
				snap.ExchangeRates = append(snap.ExchangeRates, r)
				return nil
			}},
		{"clients", `SELECT client_id, first_name, last_name, cedula, phone, address, email, notes, is_active, created_at, created_by, last_updated_at, last_updated_by FROM clients`,
			func(row rowScanner) error {
				var c domain.Client
				var a auditRow
				if err := row.Scan(append([]any{&c.ClientID, &c.FirstName, &c.LastName, &c.Cedula, &c.Phone, &c.Address, &c.Email, &c.Notes, &c.IsActive}, a.dest()...)...); err != nil {
					return err
				}
				audit, err := a.fields()
				if err != nil {
					return err
				}
				c.AuditFields = audit
				snap.Clients = append(snap.Clients, c)
				return nil
			}},
		{"loans", `SELECT loan_id, client_id, principal, interest_rate, payment_period, term_periods, start_date, due_date, currency_code, status, paid_amount, notes, created_at, created_by, last_updated_at, last_updated_by FROM loans`,
			func(row rowScanner) error {
				var l domain.Loan
				var principal, rate, period, start, due, status, paid string
				var a auditRow
				if err := row.Scan(append([]any{&l.LoanID, &l.ClientID, &principal, &rate, &period, &l.TermPeriods, &start, &due, &l.CurrencyCode, &status, &paid, &l.Notes}, a.dest()...)...); err != nil {
					return err
				}
				var err error
				if l.Principal, err = decimal.NewFromString(principal); err != nil {
					return err
				}
				if l.InterestRate, err = decimal.NewFromString(rate); err != nil {
					return err
				}
				if l.PaidAmount, err = decimal.NewFromString(paid); err != nil {
					return err
				}
				if l.StartDate, err = parseDay(start); err != nil {
					return err
				}
				if l.DueDate, err = parseDay(due); err != nil {
					return err
				}
				if l.AuditFields, err = a.fields(); err != nil {
					return err
				}
				l.PaymentPeriod = domain.PaymentPeriod(period)
				l.Status = domain.LoanStatus(status)
				snap.Loans = append(snap.Loans, l)
				return nil
			}},
		{"installments", `SELECT installment_id, loan_id, amount, payment_date, notes, created_at, created_by, last_updated_at, last_updated_by FROM installments`,
			func(row rowScanner) error {
				var i domain.Installment
				var amount, paidOn string
				var a auditRow
				if err := row.Scan(append([]any{&i.InstallmentID, &i.LoanID, &amount, &paidOn, &i.Notes}, a.dest()...)...); err != nil {
					return err
				}
				var err error
				if i.Amount, err = decimal.NewFromString(amount); err != nil {
					return err
				}
				if i.PaymentDate, err = parseDay(paidOn); err != nil {
					return err
				}
				if i.AuditFields, err = a.fields(); err != nil {
					return err
				}
				snap.Installments = append(snap.Installments, i)
				return nil
			}},
	}

	for _, r := range readers {
		if err := eachRow(ctx, db, r.query, r.scan); err != nil {
			return nil, corrupt(ctx, r.table, err)
		}
	}
	return snap, nil
}

// corrupt reports a table that could not be read or parsed as an invalid backup,
// unless the request itself was cancelled.
func corrupt(ctx context.Context, table string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("failed to read %s from backup: %w", table, ctxErr)
	}
	return fmt.Errorf("%w: failed to read %s from backup: %v", ErrInvalidBackup, table, err)
}

func eachRow(ctx context.Context, db *sql.DB, query string, scan func(rowScanner) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func readMeta(ctx context.Context, db *sql.DB, snap *domain.Snapshot) error {
	meta := map[string]string{}
	err := eachRow(ctx, db, `SELECT key, value FROM backup_meta`, func(row rowScanner) error {
		var k, v string
		if err := row.Scan(&k, &v); err != nil {
			return err
		}
		meta[k] = v
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: backup metadata is missing: %v", ErrInvalidBackup, err)
	}
	version, err := strconv.Atoi(meta["format_version"])
	if err != nil {
		return fmt.Errorf("%w: backup format version is missing", ErrInvalidBackup)
	}
	if version > domain.SnapshotFormatVersion {
		return fmt.Errorf("%w: backup format version %d is newer than supported version %d", ErrInvalidBackup, version, domain.SnapshotFormatVersion)
	}
	created, err := parseStamp(meta["created_at"])
	if err != nil {
		return fmt.Errorf("%w: backup creation time is malformed", ErrInvalidBackup)
	}
	snap.FormatVersion = version
	snap.CreatedAt = created
	return nil
}

func readProfile(ctx context.Context, db *sql.DB, snap *domain.Snapshot) error {
	var p domain.CompanyProfile
	var a auditRow
	row := db.QueryRowContext(ctx, `SELECT profile_id, business_name, owner_name, cedula, phone, address, city, email, base_currency,
		created_at, created_by, last_updated_at, last_updated_by FROM company_profile LIMIT 1`)
	err := row.Scan(append([]any{&p.ProfileID, &p.BusinessName, &p.OwnerName, &p.Cedula, &p.Phone, &p.Address, &p.City, &p.Email, &p.BaseCurrency}, a.dest()...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return corrupt(ctx, "company profile", err)
	}
	if p.AuditFields, err = a.fields(); err != nil {
		return corrupt(ctx, "company profile", err)
	}
	snap.Profile = &p
	return nil
}
