package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Generation represents one QR code generation recorded in the history
// database.
type Generation struct {
	ID         string `json:"id"`
	Target     string `json:"target"`
	OutputPath string `json:"output_path"`
	Level      string `json:"level"`
	ImageSize  int    `json:"image_size"`
	Bytes      int64  `json:"bytes"`
	CreatedAt  int64  `json:"created_at"`
}

// HistoryStore manages SQLite storage for generation history.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    target TEXT NOT NULL,
    output_path TEXT NOT NULL,
    level TEXT NOT NULL DEFAULT 'low',
    image_size INTEGER NOT NULL DEFAULT 0,
    bytes INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
`

const createFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS generations_fts USING fts5(
    target,
    output_path,
    content='generations',
    content_rowid='rowid'
);
`

const createFTSTrigger = `
CREATE TRIGGER IF NOT EXISTS generations_ai AFTER INSERT ON generations BEGIN
    INSERT INTO generations_fts(rowid, target, output_path)
    VALUES (new.rowid, new.target, new.output_path);
END;
`

const createFTSDeleteTrigger = `
CREATE TRIGGER IF NOT EXISTS generations_ad AFTER DELETE ON generations BEGIN
    INSERT INTO generations_fts(generations_fts, rowid, target, output_path)
    VALUES ('delete', old.rowid, old.target, old.output_path);
END;
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath,
// initialises the schema (generations table, FTS5 virtual table, sync
// triggers), and returns a ready-to-use HistoryStore.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run schema migrations.
	for _, stmt := range []string{
		createGenerationsTable,
		createFTSTable,
		createFTSTrigger,
		createFTSDeleteTrigger,
		createIndexes,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// SaveGeneration inserts a generation record. A missing ID is assigned a
// fresh UUID and a missing CreatedAt is set to now; both mutate gen so the
// caller sees the stored values.
func (s *HistoryStore) SaveGeneration(gen *Generation) error {
	if gen.ID == "" {
		gen.ID = uuid.NewString()
	}
	if gen.CreatedAt == 0 {
		gen.CreatedAt = time.Now().Unix()
	}

	const query = `
		INSERT INTO generations
			(id, target, output_path, level, image_size, bytes, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		gen.ID,
		gen.Target,
		gen.OutputPath,
		gen.Level,
		gen.ImageSize,
		gen.Bytes,
		gen.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// ListGenerations returns history records ordered by creation time descending
// (newest first). Use limit and offset for pagination.
func (s *HistoryStore) ListGenerations(limit, offset int) ([]Generation, error) {
	const query = `
		SELECT id, target, output_path, level, image_size, bytes, created_at
		FROM generations
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.Query(query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

// SearchGenerations performs a full-text search across targets and output
// paths using the FTS5 index. Results are ranked by relevance.
func (s *HistoryStore) SearchGenerations(query string, limit int) ([]Generation, error) {
	// Escape any double quotes in the query to avoid FTS5 syntax errors.
	escaped := strings.ReplaceAll(query, `"`, `""`)
	ftsQuery := fmt.Sprintf(`"%s"`, escaped)

	const q = `
		SELECT g.id, g.target, g.output_path, g.level, g.image_size, g.bytes, g.created_at
		FROM generations g
		JOIN generations_fts fts ON g.rowid = fts.rowid
		WHERE generations_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(q, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

// CountGenerations returns the total number of history records.
func (s *HistoryStore) CountGenerations() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM generations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count generations: %w", err)
	}
	return n, nil
}

// PurgeOlderThan deletes history records created before cutoff and returns
// how many rows were removed.
func (s *HistoryStore) PurgeOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM generations WHERE created_at < ?`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge generations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge rows affected: %w", err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func scanGenerations(rows *sql.Rows) ([]Generation, error) {
	var gens []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(
			&g.ID, &g.Target, &g.OutputPath, &g.Level,
			&g.ImageSize, &g.Bytes, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation rows: %w", err)
	}
	return gens, nil
}
