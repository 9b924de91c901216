package database

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists index entries in a single SQLite file. Similarity
// search is a brute-force cosine scan over all rows, ordered by rowid so
// score ties resolve to insertion order. Writes are serialized by a mutex;
// reads go through the connection pool and may run concurrently.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
	dim  int
}

// NewSQLiteStore opens (or creates) the store at path. The parent
// directory is created when missing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	// WAL mode lets retrieval reads proceed while an ingestion writes
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source_id TEXT NOT NULL,
			page INTEGER NOT NULL DEFAULT 0,
			json_key TEXT NOT NULL DEFAULT '',
			start_offset INTEGER NOT NULL DEFAULT 0,
			chunk_index INTEGER NOT NULL DEFAULT 0,
			embedding BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating entries table: %w", err)
	}

	s := &SQLiteStore{
		db:   db,
		path: path,
	}

	// Recover the embedding dimension from an existing row, if any
	var blobLen sql.NullInt64
	row := db.QueryRow("SELECT LENGTH(embedding) FROM entries LIMIT 1")
	if err := row.Scan(&blobLen); err != nil && err != sql.ErrNoRows {
		db.Close()
		return nil, fmt.Errorf("reading store dimension: %w", err)
	}
	if blobLen.Valid {
		s.dim = int(blobLen.Int64) / 4
	}

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if len(entry.Vector) == 0 {
			return fmt.Errorf("entry %q has an empty vector", entry.Metadata.SourceID)
		}
		if s.dim == 0 {
			s.dim = len(entry.Vector)
		} else if len(entry.Vector) != s.dim {
			return fmt.Errorf("vector dimension %d does not match store dimension %d", len(entry.Vector), s.dim)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, content, source_id, page, json_key, start_offset, chunk_index, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), entry.Content,
			entry.Metadata.SourceID, entry.Metadata.Page, entry.Metadata.Key,
			entry.Metadata.StartOffset, entry.Metadata.ChunkIndex,
			float32SliceToBytes(entry.Vector)); err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, vector []float32, k int) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT content, source_id, page, json_key, start_offset, chunk_index, embedding
		FROM entries ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.Content, &m.Metadata.SourceID, &m.Metadata.Page,
			&m.Metadata.Key, &m.Metadata.StartOffset, &m.Metadata.ChunkIndex, &blob); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		embedding := bytesToFloat32Slice(blob)
		if len(embedding) != len(vector) {
			return nil, fmt.Errorf("query dimension %d does not match store dimension %d", len(vector), len(embedding))
		}
		m.Score = cosineSimilarity(vector, embedding)
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return rankMatches(matches, k), nil
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
