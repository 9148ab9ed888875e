package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/samdwyer/dungeondelve/internal/spatial"
)

// Store is an embedded SQLite save store keyed by world id. It keeps a
// single connection; the engine is single-threaded by construction, so
// there is never a concurrent writer.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS worlds (
	id       TEXT PRIMARY KEY,
	player   TEXT NOT NULL,
	saved_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS rooms (
	world_id    TEXT NOT NULL,
	id          TEXT NOT NULL,
	x           INTEGER NOT NULL,
	y           INTEGER NOT NULL,
	z           INTEGER NOT NULL,
	depth       INTEGER NOT NULL,
	visited     INTEGER NOT NULL,
	connections TEXT NOT NULL,
	offered     TEXT NOT NULL,
	PRIMARY KEY (world_id, id)
);
`

// Open creates or opens a save database at the given path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty save path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating save directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening save store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing save schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes a world export, replacing any previous save of the same
// world in one transaction.
func (s *Store) Save(ctx context.Context, exp WorldExport) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving world %s: %w", exp.WorldID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE world_id = ?`, exp.WorldID); err != nil {
		return fmt.Errorf("saving world %s: %w", exp.WorldID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO worlds (id, player, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET player = excluded.player, saved_at = excluded.saved_at`,
		exp.WorldID, exp.Player, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving world %s: %w", exp.WorldID, err)
	}

	for _, rec := range exp.Rooms {
		conns, err := json.Marshal(rec.Connections)
		if err != nil {
			return fmt.Errorf("saving room %q: %w", rec.ID, err)
		}
		offered, err := json.Marshal(rec.Offered)
		if err != nil {
			return fmt.Errorf("saving room %q: %w", rec.ID, err)
		}
		visited := 0
		if rec.Visited {
			visited = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rooms (world_id, id, x, y, z, depth, visited, connections, offered)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			exp.WorldID, rec.ID, rec.Position.X, rec.Position.Y, rec.Position.Z,
			rec.Depth, visited, string(conns), string(offered)); err != nil {
			return fmt.Errorf("saving room %q: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("saving world %s: %w", exp.WorldID, err)
	}
	return nil
}

// Load reads a saved world by id.
func (s *Store) Load(ctx context.Context, worldID string) (WorldExport, error) {
	exp := WorldExport{WorldID: worldID}

	err := s.db.QueryRowContext(ctx,
		`SELECT player FROM worlds WHERE id = ?`, worldID).Scan(&exp.Player)
	if err == sql.ErrNoRows {
		return WorldExport{}, fmt.Errorf("world %s has no save", worldID)
	}
	if err != nil {
		return WorldExport{}, fmt.Errorf("loading world %s: %w", worldID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, x, y, z, depth, visited, connections, offered
		 FROM rooms WHERE world_id = ? ORDER BY id`, worldID)
	if err != nil {
		return WorldExport{}, fmt.Errorf("loading rooms of %s: %w", worldID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec RoomRecord
		var x, y, z, visited int
		var conns, offered string
		if err := rows.Scan(&rec.ID, &x, &y, &z, &rec.Depth, &visited, &conns, &offered); err != nil {
			return WorldExport{}, fmt.Errorf("loading rooms of %s: %w", worldID, err)
		}
		pos := spatial.Position{X: x, Y: y, Z: z}
		rec.Position = &pos
		rec.Visited = visited != 0
		if err := json.Unmarshal([]byte(conns), &rec.Connections); err != nil {
			return WorldExport{}, fmt.Errorf("loading room %q: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(offered), &rec.Offered); err != nil {
			return WorldExport{}, fmt.Errorf("loading room %q: %w", rec.ID, err)
		}
		exp.Rooms = append(exp.Rooms, rec)
	}
	if err := rows.Err(); err != nil {
		return WorldExport{}, fmt.Errorf("loading rooms of %s: %w", worldID, err)
	}
	return exp, nil
}

// LatestWorldID returns the most recently saved world id, or empty when
// the store has no saves yet.
func (s *Store) LatestWorldID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM worlds ORDER BY saved_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("listing saves: %w", err)
	}
	return id, nil
}
