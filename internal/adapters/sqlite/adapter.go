// Package sqlite provides a SQLite-backed implementation of the catalog repository port.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/antaww/uta/internal/core/domain"
	"github.com/antaww/uta/internal/core/ports"
)

var _ ports.CatalogRepository = (*Adapter)(nil)

// Adapter implements the catalog repository port for SQLite
type Adapter struct {
	db *sql.DB
}

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping db: %w", err)
	}

	adapter := &Adapter{db: db}
	if err := adapter.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

const selectCatalog = `
	SELECT id, name, artists, album, year, duration_ms, popularity, explicit,
		preview_url, external_url,
		danceability, energy, "key", loudness, mode, speechiness,
		acousticness, instrumentalness, liveness, valence, tempo
	FROM catalog_tracks
	ORDER BY position ASC
`

// LoadCatalog returns every stored row in table order. An empty table is
// reported as domain.ErrNotFound.
func (a *Adapter) LoadCatalog(ctx context.Context) ([]domain.Track, error) {
	rows, err := a.db.QueryContext(ctx, selectCatalog)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load catalog: %w", err)
	}
	defer rows.Close()

	var tracks []domain.Track
	for rows.Next() {
		var (
			t          domain.Track
			id         sql.NullString
			artists    string
			album      sql.NullString
			previewURL sql.NullString
			externURL  sql.NullString
			f          = &t.Features
		)
		if err := rows.Scan(
			&id, &t.Name, &artists, &album, &t.Year, &t.DurationMs, &t.Popularity, &t.Explicit,
			&previewURL, &externURL,
			&f.Danceability, &f.Energy, &f.Key, &f.Loudness, &f.Mode, &f.Speechiness,
			&f.Acousticness, &f.Instrumentalness, &f.Liveness, &f.Valence, &f.Tempo,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan catalog row %d: %w", len(tracks), err)
		}
		if err := json.Unmarshal([]byte(artists), &t.Artists); err != nil {
			return nil, fmt.Errorf("sqlite: decode artists of row %d: %w", len(tracks), err)
		}
		t.ID = id.String
		t.Album = album.String
		t.PreviewURL = previewURL.String
		t.ExternalURL = externURL.String
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate catalog: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("sqlite: catalog is empty: %w", domain.ErrNotFound)
	}

	return tracks, nil
}

// SaveCatalog replaces the stored catalog with tracks, keeping their order.
func (a *Adapter) SaveCatalog(ctx context.Context, tracks []domain.Track) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM catalog_tracks"); err != nil {
		return fmt.Errorf("sqlite: clear catalog: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalog_tracks (
			position, id, name, artists, album, year, duration_ms, popularity, explicit,
			preview_url, external_url,
			danceability, energy, "key", loudness, mode, speechiness,
			acousticness, instrumentalness, liveness, valence, tempo
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tracks {
		artists := t.Artists
		if artists == nil {
			artists = []string{}
		}
		encoded, err := json.Marshal(artists)
		if err != nil {
			return fmt.Errorf("sqlite: encode artists of row %d: %w", i, err)
		}
		f := t.Features
		if _, err := stmt.ExecContext(ctx,
			i, nullable(t.ID), t.Name, string(encoded), nullable(t.Album), t.Year, t.DurationMs, t.Popularity, t.Explicit,
			nullable(t.PreviewURL), nullable(t.ExternalURL),
			f.Danceability, f.Energy, f.Key, f.Loudness, f.Mode, f.Speechiness,
			f.Acousticness, f.Instrumentalness, f.Liveness, f.Valence, f.Tempo,
		); err != nil {
			return fmt.Errorf("sqlite: save row %d (%q): %w", i, t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: transaction commit failed: %w", err)
	}
	return nil
}

// Count returns the number of stored catalog rows.
func (a *Adapter) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog_tracks").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count catalog: %w", err)
	}
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_tracks (
		position INTEGER PRIMARY KEY,
		id TEXT,
		name TEXT NOT NULL,
		artists TEXT NOT NULL DEFAULT '[]',
		album TEXT,
		year INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		popularity INTEGER NOT NULL DEFAULT 0,
		explicit BOOLEAN NOT NULL DEFAULT 0,
		preview_url TEXT,
		external_url TEXT,
		danceability REAL NOT NULL,
		energy REAL NOT NULL,
		"key" REAL NOT NULL,
		loudness REAL NOT NULL,
		mode REAL NOT NULL,
		speechiness REAL NOT NULL,
		acousticness REAL NOT NULL,
		instrumentalness REAL NOT NULL,
		liveness REAL NOT NULL,
		valence REAL NOT NULL,
		tempo REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_catalog_tracks_name_year ON catalog_tracks (name COLLATE NOCASE, year);
	`
	_, err := a.db.Exec(query)
	return err
}
