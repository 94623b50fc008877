// Package cache persists the contact list so the phonebook keeps working when
// the gateway is unreachable.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/smsgw/sms-terminal/internal/gateway"
)

const schemaVersion = 1

// Store is a SQLite-backed contact cache.
type Store struct {
	db *sql.DB
}

// Open creates or opens the cache database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// The cache is only touched from the UI goroutine and short-lived
	// helpers; a single connection sidesteps SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	phone_number  TEXT PRIMARY KEY,
	friendly_name TEXT,
	updated_at    INTEGER NOT NULL DEFAULT (unixepoch())
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version=%d", schemaVersion)); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceContacts stores a freshly fetched contact list, replacing the cached
// set in one transaction.
func (s *Store) ReplaceContacts(ctx context.Context, contacts []gateway.Contact) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin contact replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return fmt.Errorf("clear contacts: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO contacts (phone_number, friendly_name) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare contact insert: %w", err)
	}
	defer stmt.Close()
	for _, contact := range contacts {
		if _, err := stmt.ExecContext(ctx, contact.PhoneNumber, contact.FriendlyName); err != nil {
			return fmt.Errorf("insert contact %s: %w", contact.PhoneNumber, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit contact replace: %w", err)
	}
	return nil
}

// Contacts returns the cached contact list, most recently updated first.
func (s *Store) Contacts(ctx context.Context) ([]gateway.Contact, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT phone_number, friendly_name FROM contacts ORDER BY updated_at DESC, phone_number")
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []gateway.Contact
	for rows.Next() {
		var contact gateway.Contact
		if err := rows.Scan(&contact.PhoneNumber, &contact.FriendlyName); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

// SetFriendlyName records a friendly-name edit, inserting the contact when it
// is not cached yet. A nil name clears the stored value.
func (s *Store) SetFriendlyName(ctx context.Context, phone string, name *string) error {
	const upsert = `
INSERT INTO contacts (phone_number, friendly_name, updated_at)
VALUES (?, ?, unixepoch())
ON CONFLICT(phone_number) DO UPDATE SET
	friendly_name = excluded.friendly_name,
	updated_at    = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, upsert, phone, name); err != nil {
		return fmt.Errorf("store friendly name for %s: %w", phone, err)
	}
	return nil
}
