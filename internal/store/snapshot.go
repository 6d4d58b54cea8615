package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shopfront-cli/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Snapshot describes one catalog export.
type Snapshot struct {
	ID       string    `json:"id"`
	Endpoint string    `json:"endpoint"`
	TakenAt  time.Time `json:"takenAt"`
	Products int       `json:"products"`
	DBPath   string    `json:"dbPath"`
}

// SnapshotStore writes fetched catalogs into a SQLite file for offline
// inspection and offline listing. The TUI always fetches live.
type SnapshotStore struct {
	Path string
}

func (s SnapshotStore) open(ctx context.Context) (*sql.DB, error) {
	if strings.TrimSpace(s.Path) == "" {
		return nil, errors.New("snapshot db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			endpoint TEXT NOT NULL,
			taken_at_unixms INTEGER NOT NULL,
			product_count INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			id INTEGER NOT NULL,
			title TEXT NOT NULL,
			price REAL NOT NULL,
			image TEXT NOT NULL,
			category TEXT NOT NULL,
			json TEXT NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_products_title ON products(title);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate snapshot db: %w", err)
		}
	}
	return nil
}

// Save stores products in catalog order under a new snapshot id.
func (s SnapshotStore) Save(ctx context.Context, endpoint string, products []model.Product, now time.Time) (Snapshot, error) {
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	defer db.Close()

	snap := Snapshot{
		ID:       uuid.NewString(),
		Endpoint: endpoint,
		TakenAt:  now.UTC(),
		Products: len(products),
		DBPath:   s.Path,
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots(id, endpoint, taken_at_unixms, product_count) VALUES(?, ?, ?, ?)`,
		snap.ID, snap.Endpoint, snap.TakenAt.UnixMilli(), snap.Products,
	); err != nil {
		return Snapshot{}, err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products(snapshot_id, position, id, title, price, image, category, json) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Snapshot{}, err
	}
	defer stmt.Close()

	for i, p := range products {
		b, err := json.Marshal(p)
		if err != nil {
			return Snapshot{}, err
		}
		if _, err := stmt.ExecContext(ctx, snap.ID, i, p.ID, p.Title, p.Price, p.Image, p.Category, string(b)); err != nil {
			return Snapshot{}, fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Latest returns the most recent snapshot and its products in saved order.
func (s SnapshotStore) Latest(ctx context.Context) (Snapshot, []model.Product, error) {
	// Reading must not create the file.
	if strings.TrimSpace(s.Path) != "" {
		if _, err := os.Stat(s.Path); errors.Is(err, fs.ErrNotExist) {
			return Snapshot{}, nil, ErrNoSnapshot
		}
	}
	db, err := s.open(ctx)
	if err != nil {
		return Snapshot{}, nil, err
	}
	defer db.Close()

	var (
		snap    Snapshot
		takenMs int64
	)
	err = db.QueryRowContext(ctx,
		`SELECT id, endpoint, taken_at_unixms, product_count FROM snapshots ORDER BY taken_at_unixms DESC, rowid DESC LIMIT 1`,
	).Scan(&snap.ID, &snap.Endpoint, &takenMs, &snap.Products)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, nil, ErrNoSnapshot
		}
		return Snapshot{}, nil, err
	}
	snap.TakenAt = time.UnixMilli(takenMs).UTC()
	snap.DBPath = s.Path

	rows, err := db.QueryContext(ctx, `SELECT json FROM products WHERE snapshot_id = ? ORDER BY position`, snap.ID)
	if err != nil {
		return Snapshot{}, nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return Snapshot{}, nil, err
		}
		var p model.Product
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return Snapshot{}, nil, err
		}
		out = append(out, p)
	}
	return snap, out, rows.Err()
}

var ErrNoSnapshot = errors.New("no snapshot saved yet")
