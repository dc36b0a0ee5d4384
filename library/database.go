package library

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3" // dialect registration
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// dialect builds parameterized SQL for every filtered query; identifiers are
// never assembled from caller input.
var dialect = goqu.Dialect("sqlite3")

// Logger receives operational messages with slog-style key/value args.
// log/slog's *Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Database is the shared store handle. It owns the SQLite connection, the
// schema, and the prepared hot-path statements; every component holds a
// reference to it and all multi-step mutations go through withTx.
type Database struct {
	db     *sqlx.DB
	logger Logger
	now    func() time.Time

	addBookStmt   *sqlx.Stmt
	addMemberStmt *sqlx.Stmt
	addStaffStmt  *sqlx.Stmt
}

// Option configures a Database during NewDatabase.
type Option func(*Database)

// WithLogger sets the logger. Debug level carries per-operation timing;
// Info level carries circulation and billing outcomes.
func WithLogger(logger Logger) Option {
	return func(d *Database) { d.logger = logger }
}

// WithClock overrides the time source. Issue, return, and bill dates all flow
// through it, which keeps date arithmetic deterministic under test.
func WithClock(now func() time.Time) Option {
	return func(d *Database) { d.now = now }
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	database := &Database{db: db, now: time.Now}
	for _, opt := range opts {
		opt(database)
	}

	if err := database.applyMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sqlx.Stmt{d.addBookStmt, d.addMemberStmt, d.addStaffStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// today returns the current calendar day at midnight UTC. Loan date
// arithmetic is calendar-day granular, so the time of day never matters.
func (d *Database) today() time.Time {
	t := d.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func (d *Database) applyMigrations() error {
	// WAL improves write concurrency.
	if _, err := d.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	if _, err := d.db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	var current int
	_ = d.db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := d.db.Begin()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            book_id  TEXT PRIMARY KEY,
            title    TEXT NOT NULL,
            author   TEXT NOT NULL,
            category TEXT NOT NULL DEFAULT '',
            price    REAL NOT NULL DEFAULT 0 CHECK (price >= 0),
            stock    INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS staff (
            staff_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name     TEXT NOT NULL,
            role     TEXT NOT NULL DEFAULT '',
            phone    TEXT NOT NULL DEFAULT ''
        );`,
		`CREATE TABLE IF NOT EXISTS members (
            member_id INTEGER PRIMARY KEY AUTOINCREMENT,
            name      TEXT NOT NULL,
            phone     TEXT NOT NULL DEFAULT '',
            email     TEXT NOT NULL DEFAULT '',
            membership_type TEXT NOT NULL DEFAULT 'Regular'
        );`,
		`CREATE TABLE IF NOT EXISTS issues (
            issue_id    INTEGER PRIMARY KEY AUTOINCREMENT,
            member_id   INTEGER NOT NULL REFERENCES members(member_id),
            book_id     TEXT NOT NULL REFERENCES books(book_id),
            issue_date  DATE NOT NULL,
            due_date    DATE NOT NULL,
            return_date DATE,
            late_fee    REAL NOT NULL DEFAULT 0 CHECK (late_fee >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS bills (
            bill_id      INTEGER PRIMARY KEY AUTOINCREMENT,
            member_id    INTEGER REFERENCES members(member_id),
            bill_date    DATETIME NOT NULL,
            subtotal     REAL NOT NULL,
            discount_pct REAL NOT NULL DEFAULT 0,
            discount_amt REAL NOT NULL,
            grand_total  REAL NOT NULL CHECK (grand_total >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS bill_items (
            item_id    INTEGER PRIMARY KEY AUTOINCREMENT,
            bill_id    INTEGER NOT NULL REFERENCES bills(bill_id) ON DELETE CASCADE,
            book_id    TEXT NOT NULL REFERENCES books(book_id),
            qty        INTEGER NOT NULL CHECK (qty >= 1),
            unit_price REAL NOT NULL,
            line_total REAL NOT NULL
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Join(ErrStoreUnavailable, fmt.Errorf("apply migration: %w", err))
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
        ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return errors.Join(ErrStoreUnavailable, fmt.Errorf("record schema version: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	d.logDebug("schema ready", "version", schemaVersion)
	return nil
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addBookStmt, err = d.db.Preparex(
		`INSERT INTO books(book_id,title,author,category,price,stock) VALUES(?,?,?,?,?,?)`); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if d.addMemberStmt, err = d.db.Preparex(
		`INSERT INTO members(name,phone,email,membership_type) VALUES(?,?,?,?)`); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if d.addStaffStmt, err = d.db.Preparex(
		`INSERT INTO staff(name,role,phone) VALUES(?,?,?)`); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// withTx runs fn inside a transaction. Any error from fn rolls everything
// back, so a mutation is never observably partial.
func (d *Database) withTx(fn func(tx *sqlx.Tx) error) error {
	tx, err := d.db.Beginx()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// selectSQL builds and runs a goqu dataset into dest (a slice pointer).
func (d *Database) selectSQL(dest any, ds *goqu.SelectDataset) error {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	start := time.Now()
	selectErr := d.db.Select(dest, query, args...)
	d.logDebug("query executed", "query", query, "duration_ms", time.Since(start).Milliseconds())
	if selectErr != nil {
		return errors.Join(ErrStoreUnavailable, selectErr)
	}
	return nil
}

// round2 rounds a currency amount to two fractional digits; every monetary
// value that leaves this package has passed through it.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ---------------------------------------------------------------------------
// Error helpers
// ---------------------------------------------------------------------------

// isDuplicate reports whether err is a primary-key or unique violation.
func isDuplicate(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// ---------------------------------------------------------------------------
// Logging (nil-safe)
// ---------------------------------------------------------------------------

func (d *Database) logDebug(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Debug(msg, args...)
	}
}

func (d *Database) logInfo(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Database) logWarn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
