// Package storage implements the local record store on SQLite.
//
// The store is deliberately a key-value layer: each slot holds one whole
// JSON-serialized collection (loans, income, expenses) or value (profile,
// flags), loaded once at startup and rewritten in full on every mutation.
// Personal-finance volumes are hundreds of records, not millions, so whole
// collection rewrites are cheaper than keeping a relational schema in sync.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/udhaarapp/udhaar/internal/model"
	"github.com/udhaarapp/udhaar/internal/service"
)

// SQLiteStore implements the service.Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	s := &SQLiteStore{db: db, dbPath: dbPath}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create slots table: %w", err)
	}
	return nil
}

// getSlot returns the raw value for key, reporting whether it was present.
func (s *SQLiteStore) getSlot(ctx context.Context, key string) (string, bool, error) {
	if err := validateContext(ctx); err != nil {
		return "", false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return value, true, nil
}

// putSlot overwrites the value for key.
func (s *SQLiteStore) putSlot(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	return nil
}

// decodeSlot unmarshals a slot value into dst. A corrupt value is treated as
// absent: the caller gets its empty default and the corruption is logged, no
// partial recovery is attempted.
func decodeSlot(key, value string, dst any) bool {
	if err := json.Unmarshal([]byte(value), dst); err != nil {
		slog.Warn("Discarding corrupt slot value",
			"key", key,
			"error", err)
		return false
	}
	return true
}

func (s *SQLiteStore) saveJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode slot %q: %w", key, err)
	}
	return s.putSlot(ctx, key, string(data))
}

// LoadLoans returns the persisted loan collection, or an empty one.
func (s *SQLiteStore) LoadLoans(ctx context.Context) ([]model.Loan, error) {
	value, ok, err := s.getSlot(ctx, service.SlotLoans)
	if err != nil {
		return nil, err
	}
	loans := []model.Loan{}
	if ok {
		if !decodeSlot(service.SlotLoans, value, &loans) {
			return []model.Loan{}, nil
		}
	}
	return loans, nil
}

// SaveLoans rewrites the loan collection slot.
func (s *SQLiteStore) SaveLoans(ctx context.Context, loans []model.Loan) error {
	if err := validateLoans(loans); err != nil {
		return err
	}
	return s.saveJSON(ctx, service.SlotLoans, loans)
}

// LoadIncome returns the persisted income collection, or an empty one.
func (s *SQLiteStore) LoadIncome(ctx context.Context) ([]model.Income, error) {
	value, ok, err := s.getSlot(ctx, service.SlotIncome)
	if err != nil {
		return nil, err
	}
	income := []model.Income{}
	if ok {
		if !decodeSlot(service.SlotIncome, value, &income) {
			return []model.Income{}, nil
		}
	}
	return income, nil
}

// SaveIncome rewrites the income collection slot.
func (s *SQLiteStore) SaveIncome(ctx context.Context, income []model.Income) error {
	return s.saveJSON(ctx, service.SlotIncome, income)
}

// LoadExpenses returns the persisted expense collection, or an empty one.
func (s *SQLiteStore) LoadExpenses(ctx context.Context) ([]model.Expense, error) {
	value, ok, err := s.getSlot(ctx, service.SlotExpenses)
	if err != nil {
		return nil, err
	}
	expenses := []model.Expense{}
	if ok {
		if !decodeSlot(service.SlotExpenses, value, &expenses) {
			return []model.Expense{}, nil
		}
	}
	return expenses, nil
}

// SaveExpenses rewrites the expense collection slot.
func (s *SQLiteStore) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	return s.saveJSON(ctx, service.SlotExpenses, expenses)
}

// LoadProfile returns the persisted profile, or nil when absent.
func (s *SQLiteStore) LoadProfile(ctx context.Context) (*model.UserProfile, error) {
	value, ok, err := s.getSlot(ctx, service.SlotProfile)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var profile model.UserProfile
	if !decodeSlot(service.SlotProfile, value, &profile) {
		return nil, nil
	}
	return &profile, nil
}

// SaveProfile rewrites the profile slot.
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	return s.saveJSON(ctx, service.SlotProfile, profile)
}

// LoadFlag returns a persisted boolean flag, defaulting to false.
func (s *SQLiteStore) LoadFlag(ctx context.Context, key string) (bool, error) {
	if err := validateString(key, "key"); err != nil {
		return false, err
	}
	value, ok, err := s.getSlot(ctx, key)
	if err != nil {
		return false, err
	}
	var flag bool
	if ok {
		if !decodeSlot(key, value, &flag) {
			return false, nil
		}
	}
	return flag, nil
}

// SaveFlag rewrites a boolean flag slot.
func (s *SQLiteStore) SaveFlag(ctx context.Context, key string, value bool) error {
	if err := validateString(key, "key"); err != nil {
		return err
	}
	return s.saveJSON(ctx, key, value)
}
