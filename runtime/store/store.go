// Package store provides the handle that executes prepared statements
// against the relational engine.
//
// A Handle moves through three states: New creates it, Open makes it ready
// and Close closes it for good. Every call outside the ready state fails
// with errs.ErrInvalidState. The handle adds no pooling or locking of its
// own; concurrent callers are serialized by the engine connection.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/danny270793/myorm/errs"
	"github.com/danny270793/myorm/internal/debug"
	"github.com/danny270793/myorm/query/sqlgen"
)

// State is the lifecycle state of a Handle.
type State int

const (
	StateNew State = iota
	StateReady
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config configures a Handle.
type Config struct {
	// Provider is sqlite (default), mysql, postgres or postgresql.
	Provider string
	// DSN is the driver connection string; ":memory:" for an in-memory SQLite database.
	DSN string
	// Debug installs LoggingHook with the debug logger.
	Debug bool
	// ConnectTimeout bounds Open. Zero means 10 seconds.
	ConnectTimeout time.Duration
}

// Result is returned by statements that do not produce rows.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Row is one result row keyed by column name.
type Row map[string]interface{}

// Executor is the subset of Handle the schema and model layers depend on.
type Executor interface {
	// Exec runs a statement without parameters, typically DDL.
	Exec(ctx context.Context, query string) error
	// Execute runs a prepared statement that returns no rows.
	Execute(ctx context.Context, ps sqlgen.PreparedStatement) (Result, error)
	// Query runs a prepared statement and returns every row.
	Query(ctx context.Context, ps sqlgen.PreparedStatement) ([]Row, error)
	// QueryOne runs a prepared statement and returns its first row, if any.
	QueryOne(ctx context.Context, ps sqlgen.PreparedStatement) (Row, bool, error)
}

// Handle is a connection to one database.
type Handle struct {
	mu      sync.RWMutex
	cfg     Config
	dialect Dialect
	db      *sql.DB
	state   State
	hooks   []Hook
}

// New creates a handle in the new state. It does not touch the database.
func New(cfg Config) (*Handle, error) {
	dialect, err := DialectFor(cfg.Provider)
	if err != nil {
		return nil, err
	}
	h := &Handle{cfg: cfg, dialect: dialect}
	if cfg.Debug {
		h.Use(LoggingHook(debug.Logger()))
	}
	return h, nil
}

// Open creates and opens a handle in one step.
func Open(ctx context.Context, cfg Config) (*Handle, error) {
	h, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := h.Open(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// OpenMemory opens a private in-memory SQLite database.
func OpenMemory(ctx context.Context) (*Handle, error) {
	return Open(ctx, Config{Provider: "sqlite", DSN: ":memory:"})
}

// Open connects to the database and moves the handle to the ready state.
func (h *Handle) Open(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateNew {
		return errs.InvalidState("cannot open store handle in state %s", h.state)
	}

	db, err := sql.Open(h.dialect.Driver, h.cfg.DSN)
	if err != nil {
		return &errs.StoreError{Op: "open", Cause: err}
	}

	if h.dialect.Name == SQLite {
		// one connection, so that ":memory:" databases are shared and writes are serialized
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	timeout := h.cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return &errs.StoreError{Op: "ping", Cause: err}
	}

	h.db = db
	h.state = StateReady
	debug.Debug("store opened", "provider", h.dialect.Name, "dsn", h.cfg.DSN)
	return nil
}

// Close releases the connection. Closing a closed handle is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == StateClosed {
		return nil
	}
	h.state = StateClosed
	if h.db == nil {
		return nil
	}
	err := h.db.Close()
	h.db = nil
	if err != nil {
		return &errs.StoreError{Op: "close", Cause: err}
	}
	return nil
}

// State returns the lifecycle state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Dialect returns the dialect of the configured provider.
func (h *Handle) Dialect() Dialect {
	return h.dialect
}

// DB returns the underlying connection, or nil when the handle is not ready.
func (h *Handle) DB() *sql.DB {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.db
}

func (h *Handle) ready() (*sql.DB, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateReady {
		return nil, errs.InvalidState("store handle is %s", h.state)
	}
	return h.db, nil
}

// Prepare compiles query into a reusable statement.
func (h *Handle) Prepare(ctx context.Context, query string) (*Statement, error) {
	db, err := h.ready()
	if err != nil {
		return nil, err
	}
	bound := h.dialect.Rebind(query)
	stmt, err := db.PrepareContext(ctx, bound)
	if err != nil {
		return nil, wrapError("prepare", query, nil, err)
	}
	return &Statement{handle: h, stmt: stmt, query: query}, nil
}

// Exec runs a parameterless statement.
func (h *Handle) Exec(ctx context.Context, query string) error {
	db, err := h.ready()
	if err != nil {
		return err
	}
	return h.intercept(ctx, query, nil, func() error {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return wrapError("exec", query, nil, err)
		}
		return nil
	})
}

// Execute prepares and runs ps.
func (h *Handle) Execute(ctx context.Context, ps sqlgen.PreparedStatement) (Result, error) {
	stmt, err := h.Prepare(ctx, ps.SQL)
	if err != nil {
		return Result{}, err
	}
	defer stmt.Close()
	return stmt.Run(ctx, ps.Params...)
}

// Query prepares ps and returns all rows.
func (h *Handle) Query(ctx context.Context, ps sqlgen.PreparedStatement) ([]Row, error) {
	stmt, err := h.Prepare(ctx, ps.SQL)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	return stmt.All(ctx, ps.Params...)
}

// QueryOne prepares ps and returns its first row.
func (h *Handle) QueryOne(ctx context.Context, ps sqlgen.PreparedStatement) (Row, bool, error) {
	stmt, err := h.Prepare(ctx, ps.SQL)
	if err != nil {
		return nil, false, err
	}
	defer stmt.Close()
	return stmt.Get(ctx, ps.Params...)
}

var _ Executor = (*Handle)(nil)
