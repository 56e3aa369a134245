// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Journal using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based journal.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Strategy signals per run
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		action TEXT NOT NULL,
		tier TEXT NOT NULL,
		regime TEXT NOT NULL,
		iv_rank REAL,
		percentile REAL,
		multiplier REAL,
		rationale TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Submission attempts, approved or not
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		premium REAL,
		max_risk REAL,
		contracts INTEGER,
		status TEXT NOT NULL,
		reason TEXT,
		order_ids TEXT,
		is_paper INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol, timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveSignal journals a strategy signal.
func (s *SQLiteStore) SaveSignal(ctx context.Context, rec *SignalRecord) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO signals (timestamp, symbol, action, tier, regime, iv_rank, percentile, multiplier, rationale)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Symbol, rec.Action, rec.Tier, rec.Regime,
		rec.IVRank, rec.Percentile, rec.Multiplier, rec.Rationale)
	if err != nil {
		return fmt.Errorf("saving signal: %w", err)
	}
	rec.ID, _ = result.LastInsertId()
	return nil
}

// SaveTrade journals a submission attempt.
func (s *SQLiteStore) SaveTrade(ctx context.Context, rec *TradeRecord) error {
	isPaper := 0
	if rec.IsPaper {
		isPaper = 1
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (timestamp, symbol, strategy, premium, max_risk, contracts, status, reason, order_ids, is_paper)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Symbol, rec.Strategy, rec.Premium, rec.MaxRisk,
		rec.Contracts, rec.Status, rec.Reason, rec.OrderIDs, isPaper)
	if err != nil {
		return fmt.Errorf("saving trade: %w", err)
	}
	rec.ID, _ = result.LastInsertId()
	return nil
}

// GetSignals returns recent signals, newest first, optionally filtered
// by symbol.
func (s *SQLiteStore) GetSignals(ctx context.Context, symbol string, limit int) ([]SignalRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, timestamp, symbol, action, tier, regime, iv_rank, percentile, multiplier, rationale
		FROM signals`
	args := []interface{}{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var records []SignalRecord
	for rows.Next() {
		var rec SignalRecord
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Symbol, &rec.Action, &rec.Tier,
			&rec.Regime, &rec.IVRank, &rec.Percentile, &rec.Multiplier, &rec.Rationale); err != nil {
			return nil, fmt.Errorf("scanning signal: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetTrades returns recent trades, newest first, optionally filtered
// by symbol.
func (s *SQLiteStore) GetTrades(ctx context.Context, symbol string, limit int) ([]TradeRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, timestamp, symbol, strategy, premium, max_risk, contracts, status, reason, order_ids, is_paper
		FROM trades`
	args := []interface{}{}
	if symbol != "" {
		query += " WHERE symbol = ?"
		args = append(args, symbol)
	}
	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	defer rows.Close()

	var records []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		var isPaper int
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Symbol, &rec.Strategy, &rec.Premium,
			&rec.MaxRisk, &rec.Contracts, &rec.Status, &rec.Reason, &rec.OrderIDs, &isPaper); err != nil {
			return nil, fmt.Errorf("scanning trade: %w", err)
		}
		rec.IsPaper = isPaper == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}
