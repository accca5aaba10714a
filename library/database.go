package library

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	DriverSQLite3  = "sqlite3"  // github.com/mattn/go-sqlite3 (cgo)
	DriverSQLite   = "sqlite"   // modernc.org/sqlite (pure Go)
	DriverPostgres = "postgres" // github.com/lib/pq
)

// Ack acknowledges a write. LastInsertID is zero for statements that insert
// nothing.
type Ack struct {
	LastInsertID int64
	RowsAffected int64
}

// Gateway is the statement-level view of the store the managers depend on.
// Statements use ? placeholders regardless of driver.
type Gateway interface {
	ExecuteWrite(ctx context.Context, query string, args ...any) (Ack, error)
	ExecuteRead(ctx context.Context, query string, args ...any) ([]Row, error)
	EnsureSchema(ctx context.Context, ddl ...string) error
}

// Options selects and tunes the store.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Database provides high-level helpers around a single SQL connection.
type Database struct {
	db     *sql.DB
	driver string
	closed bool
}

var _ Gateway = (*Database)(nil)

var errDatabaseClosed = errors.New("database is closed")

// NewDatabase opens the store described by opts and verifies the connection.
// For SQLite the DSN is a file path (or ":memory:") and its directory is
// created on first run.
func NewDatabase(ctx context.Context, opts Options) (*Database, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite3
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 1
	}

	dsn, err := buildDSN(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, &ConnectionError{Driver: opts.Driver, Err: err}
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectionError{Driver: opts.Driver, Err: err}
	}

	d := &Database{db: db, driver: opts.Driver}
	if d.isSQLite() {
		// WAL improves write concurrency.
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	log.Debug().Str("driver", opts.Driver).Msg("Database connection established")
	return d, nil
}

func buildDSN(driverName, dsn string) (string, error) {
	switch driverName {
	case DriverSQLite3, DriverSQLite:
		if dsn == "" {
			return "", fmt.Errorf("%w: empty sqlite path", ErrInvalidInput)
		}
		if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
			return dsn, nil
		}
		// Ensure directory exists so first-run succeeds.
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return "", fmt.Errorf("create db dir: %w", err)
			}
		}
		if driverName == DriverSQLite3 {
			return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dsn), nil
		}
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dsn), nil
	case DriverPostgres:
		if dsn == "" {
			return "", fmt.Errorf("%w: empty postgres dsn", ErrInvalidInput)
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("%w: unsupported driver %q", ErrInvalidInput, driverName)
	}
}

// Driver returns the database/sql driver name in use.
func (d *Database) Driver() string { return d.driver }

// Close closes the connection. Calling it more than once is a no-op.
func (d *Database) Close() error {
	if d == nil || d.closed {
		return nil
	}
	d.closed = true
	log.Debug().Str("driver", d.driver).Msg("Closing database connection")
	return d.db.Close()
}

// checkOpen rejects statements issued after Close.
func (d *Database) checkOpen() error {
	if d.closed {
		return &ConnectionError{Driver: d.driver, Err: errDatabaseClosed}
	}
	return nil
}

func (d *Database) isSQLite() bool {
	return d.driver == DriverSQLite3 || d.driver == DriverSQLite
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Schema returns the DDL for this database's dialect.
func (d *Database) Schema() []string {
	if d.driver == DriverPostgres {
		return postgresSchema
	}
	return sqliteSchema
}

// EnsureSchema applies each DDL statement in order within one transaction.
// Statements are expected to be idempotent.
func (d *Database) EnsureSchema(ctx context.Context, ddl ...string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return d.wrapErr("BEGIN", err)
	}
	defer tx.Rollback()

	for _, stmt := range ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", d.wrapErr(stmt, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return d.wrapErr("COMMIT", err)
	}
	log.Debug().Int("statements", len(ddl)).Msg("Schema ensured")
	return nil
}

// CurrentSchemaVersion reads the version recorded in the meta table. A store
// without a meta table reports 0.
func (d *Database) CurrentSchemaVersion(ctx context.Context) (int, error) {
	rows, err := d.ExecuteRead(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`)
	if err != nil {
		var stmtErr *StatementError
		if errors.As(err, &stmtErr) {
			return 0, nil
		}
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	v, err := rows[0].Int64("value")
	if err != nil {
		return 0, fmt.Errorf("schema version: %w", err)
	}
	return int(v), nil
}

// Migrate applies this dialect's schema unless the store already records
// SchemaVersion or later. It reports whether anything was applied.
func (d *Database) Migrate(ctx context.Context) (bool, error) {
	current, err := d.CurrentSchemaVersion(ctx)
	if err != nil {
		return false, err
	}
	if current >= SchemaVersion {
		log.Debug().Int("version", current).Msg("Schema up to date")
		return false, nil
	}
	if err := d.EnsureSchema(ctx, d.Schema()...); err != nil {
		return false, err
	}
	log.Info().Int("from", current).Int("to", SchemaVersion).Msg("Schema migrated")
	return true, nil
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// ExecuteWrite runs one statement in auto-commit mode. On Postgres an INSERT
// is given a RETURNING id clause so the generated id can be reported.
func (d *Database) ExecuteWrite(ctx context.Context, query string, args ...any) (Ack, error) {
	if err := d.checkOpen(); err != nil {
		return Ack{}, err
	}
	q := d.rebind(query)
	log.Trace().Str("query", q).Int("args", len(args)).Msg("Executing write")

	if d.driver == DriverPostgres && isInsert(q) {
		var id int64
		if err := d.db.QueryRowContext(ctx, q+" RETURNING id", args...).Scan(&id); err != nil {
			return Ack{}, d.wrapErr(query, err)
		}
		return Ack{LastInsertID: id, RowsAffected: 1}, nil
	}

	res, err := d.db.ExecContext(ctx, q, args...)
	if err != nil {
		return Ack{}, d.wrapErr(query, err)
	}

	var ack Ack
	if ack.RowsAffected, err = res.RowsAffected(); err != nil {
		return Ack{}, d.wrapErr(query, err)
	}
	if isInsert(q) {
		if ack.LastInsertID, err = res.LastInsertId(); err != nil {
			return Ack{}, d.wrapErr(query, err)
		}
	}
	return ack, nil
}

// ExecuteRead runs one query and materializes every row.
func (d *Database) ExecuteRead(ctx context.Context, query string, args ...any) ([]Row, error) {
	if err := d.checkOpen(); err != nil {
		return nil, err
	}
	q := d.rebind(query)
	log.Trace().Str("query", q).Int("args", len(args)).Msg("Executing read")

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, d.wrapErr(query, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, d.wrapErr(query, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, d.wrapErr(query, err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, d.wrapErr(query, err)
	}
	return out, nil
}

// rebind rewrites ? placeholders to $1..$n for Postgres.
func (d *Database) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

// wrapErr classifies a driver error. Lost or refused connections (including
// network failures surfaced by lib/pq) become ConnectionError; everything else
// the store rejected becomes StatementError.
func (d *Database) wrapErr(query string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone),
		errors.As(err, &netErr):
		return &ConnectionError{Driver: d.driver, Err: err}
	default:
		return &StatementError{Query: query, Err: err}
	}
}

// isUniqueViolation reports whether err came from a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite only exposes the code through the message.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
