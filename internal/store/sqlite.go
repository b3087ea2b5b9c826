package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	apperrors "options-pricer/internal/errors"
	"options-pricer/internal/models"
)

// SQLiteStore implements OrderStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed order blotter.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		raw_text TEXT NOT NULL,
		underlying TEXT NOT NULL,
		structure TEXT NOT NULL,
		stock_ref REAL NOT NULL DEFAULT 0,
		delta REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0,
		quote_side TEXT NOT NULL DEFAULT 'bid',
		quantity INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_orders_underlying ON orders(underlying);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns all blotter records in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, raw_text, underlying, structure, stock_ref, delta,
		       price, quote_side, quantity, created_at, updated_at
		FROM orders ORDER BY created_at, rowid`)
	if err != nil {
		return nil, apperrors.NewStoreError("load", err)
	}
	defer rows.Close()

	var records []models.OrderRecord
	for rows.Next() {
		var r models.OrderRecord
		var quoteSide string
		if err := rows.Scan(&r.ID, &r.RawText, &r.Underlying, &r.StructureName,
			&r.StockRef, &r.Delta, &r.Price, &quoteSide, &r.Quantity,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, apperrors.NewStoreError("load", err)
		}
		r.QuoteSide = models.QuoteSide(quoteSide)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("load", err)
	}
	return records, nil
}

// Save replaces the whole blotter with the given records in a single
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []models.OrderRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("save", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return apperrors.NewStoreError("save", err)
	}

	for _, r := range records {
		if err := insertRecord(ctx, tx, r); err != nil {
			return apperrors.NewStoreError("save", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("save", err)
	}
	return nil
}

// Add appends a record, minting an id and timestamps when absent, and
// returns the stored record.
func (s *SQLiteStore) Add(ctx context.Context, record models.OrderRecord) (models.OrderRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.OrderRecord{}, apperrors.NewStoreError("add", err)
	}
	defer tx.Rollback()

	if err := insertRecord(ctx, tx, record); err != nil {
		return models.OrderRecord{}, apperrors.NewStoreError("add", err)
	}
	if err := tx.Commit(); err != nil {
		return models.OrderRecord{}, apperrors.NewStoreError("add", err)
	}
	return record, nil
}

// Update overwrites the record with the given id.
func (s *SQLiteStore) Update(ctx context.Context, id string, record models.OrderRecord) error {
	record.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders SET raw_text = ?, underlying = ?, structure = ?,
			stock_ref = ?, delta = ?, price = ?, quote_side = ?,
			quantity = ?, updated_at = ?
		WHERE id = ?`,
		record.RawText, record.Underlying, record.StructureName,
		record.StockRef, record.Delta, record.Price, string(record.QuoteSide),
		record.Quantity, record.UpdatedAt, id)
	if err != nil {
		return apperrors.NewStoreError("update", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("update", err)
	}
	if affected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

// Remove deletes the record with the given id.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("remove", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("remove", err)
	}
	if affected == 0 {
		return apperrors.ErrOrderNotFound
	}
	return nil
}

// ExportCSV writes the whole blotter as CSV.
func (s *SQLiteStore) ExportCSV(ctx context.Context, w io.Writer) error {
	records, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return apperrors.NewStoreError("export", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func insertRecord(ctx context.Context, tx *sql.Tx, r models.OrderRecord) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, raw_text, underlying, structure, stock_ref,
			delta, price, quote_side, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RawText, r.Underlying, r.StructureName, r.StockRef,
		r.Delta, r.Price, string(r.QuoteSide), r.Quantity,
		r.CreatedAt, r.UpdatedAt)
	return err
}
