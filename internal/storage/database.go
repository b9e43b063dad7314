package storage

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Database is the durable byte container behind the store: a single SQLite
// table mapping record keys to JSON values.
type Database struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the database at dbPath and initializes the
// schema.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	kvTable := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	_, err := d.db.Exec(kvTable)
	return err
}

// Get returns the value stored at key and whether the key exists.
func (d *Database) Get(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites the value stored at key.
func (d *Database) Set(key, value string) error {
	_, err := d.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

// Close closes the underlying database.
func (d *Database) Close() error {
	return d.db.Close()
}
