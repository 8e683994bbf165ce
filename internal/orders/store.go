// Package orders keeps the profile's order history in an in-memory SQLite
// database. The database lives as long as the Store; nothing is written to
// disk.
package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"petshop/internal/catalog"
	"petshop/internal/logging"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// ErrOrderNotFound is returned by Get for unknown ids.
var ErrOrderNotFound = errors.New("order not found")

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT    NOT NULL UNIQUE,
	placed_at  TEXT    NOT NULL,
	total      TEXT    NOT NULL,
	status     TEXT    NOT NULL,
	item_count INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

// Store is the order history for one process.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open creates an empty in-memory store.
func Open(ctx context.Context) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryOrders, "orders.Open")
	defer timer.Stop()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open order store: %w", err)
	}
	// Each connection to :memory: is a separate database, so pin one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create order schema: %w", err)
	}

	logging.OrdersDebug("in-memory order store ready")
	return &Store{db: db}, nil
}

// Close releases the database. The history is lost.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Seed inserts orders in the given order inside one transaction.
func (s *Store) Seed(ctx context.Context, orders []catalog.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range orders {
		if err := insert(ctx, tx, o); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	logging.Orders("seeded %d orders", len(orders))
	return nil
}

// Add appends an order to the history.
func (s *Store) Add(ctx context.Context, o catalog.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := insert(ctx, s.db, o); err != nil {
		return err
	}
	logging.Orders("recorded order %s (%s, %d items)", o.ID, o.Total.StringFixed(2), o.ItemCount)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, o catalog.Order) error {
	if o.ID == "" {
		return fmt.Errorf("order id required")
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO orders (id, placed_at, total, status, item_count) VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Date.UTC().Format(time.RFC3339Nano), o.Total.String(), string(o.Status), o.ItemCount)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}
	return nil
}

// List returns all orders, most recently recorded first.
func (s *Store) List(ctx context.Context) ([]catalog.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, placed_at, total, status, item_count FROM orders ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var out []catalog.Order
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Get returns one order by id.
func (s *Store) Get(ctx context.Context, id string) (catalog.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, placed_at, total, status, item_count FROM orders WHERE id = ?`, id)
	o, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, err
}

// Count returns the number of orders.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (catalog.Order, error) {
	var (
		o                       catalog.Order
		placedAt, total, status string
	)
	if err := row.Scan(&o.ID, &placedAt, &total, &status, &o.ItemCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("failed to scan order: %w", err)
	}

	var err error
	if o.Date, err = time.Parse(time.RFC3339Nano, placedAt); err != nil {
		return o, fmt.Errorf("order %s: bad timestamp %q: %w", o.ID, placedAt, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return o, fmt.Errorf("order %s: bad total %q: %w", o.ID, total, err)
	}
	if o.Status, err = catalog.ParseOrderStatus(status); err != nil {
		return o, fmt.Errorf("order %s: %w", o.ID, err)
	}
	return o, nil
}
