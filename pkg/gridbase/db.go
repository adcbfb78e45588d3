// Package gridbase turns a Google Sheet into a lightweight persistence
// backend: a key-value store and a row-oriented table store with a small
// query builder (select/insert/update/delete with filtering and ordering),
// compiled into spreadsheet range operations and query-language strings.
package gridbase

import (
	"context"
	"fmt"
)

// DB is a handle to one spreadsheet. It hands out row stores, key-value
// stores and scratchpads backed by sheets of that spreadsheet.
type DB struct {
	spreadsheetID string
	client        SheetsClient
}

// Config holds the connection configuration.
type Config struct {
	SpreadsheetID string
	Credentials   []byte // Service account JSON
}

// New creates a DB for the configured spreadsheet.
func New(ctx context.Context, cfg Config) (*DB, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is required")
	}
	if len(cfg.Credentials) == 0 {
		return nil, fmt.Errorf("credentials are required")
	}

	client, err := newSheetsClient(ctx, cfg.Credentials, cfg.SpreadsheetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return &DB{
		spreadsheetID: cfg.SpreadsheetID,
		client:        client,
	}, nil
}

// CreateSpreadsheet creates a new spreadsheet with the given title and
// returns its ID. The DB stays bound to its own spreadsheet.
func (db *DB) CreateSpreadsheet(ctx context.Context, title string) (string, error) {
	return db.client.CreateSpreadsheet(ctx, title)
}

// Scratchpad books a cell in the scratch sheet belonging to the named
// sheet for ad-hoc formula evaluation. The caller owns the returned
// scratchpad and must close it to release the cell.
func (db *DB) Scratchpad(ctx context.Context, sheet string) (*Scratchpad, error) {
	name := sheet + scratchSheetSuffix
	_, _ = db.client.CreateSheet(ctx, name)
	return newScratchpad(ctx, db.client, name)
}
