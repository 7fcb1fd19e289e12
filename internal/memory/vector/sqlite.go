package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a persistent vector store backed by a SQLite file. Search
// is brute-force cosine in Go over all rows, which keeps the schema plain
// and is adequate for the learning-memory scale this system targets.
type SQLiteStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	dims   int
	table  string
	closed bool
}

// SQLiteConfig holds configuration for SQLiteStore.
type SQLiteConfig struct {
	Path       string // database file path
	Table      string // table name, defaults to "learnings"
	Dimensions int    // embedding dimensionality
}

// NewSQLiteStore opens (creating if needed) a SQLite-backed vector store.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, types.NewError(ErrCodeConfigInvalid, "database path cannot be empty")
	}
	if cfg.Dimensions <= 0 {
		return nil, types.NewError(ErrCodeConfigInvalid,
			fmt.Sprintf("dimensions must be positive, got %d", cfg.Dimensions))
	}
	if cfg.Table == "" {
		cfg.Table = "learnings"
	}

	// WAL mode keeps concurrent readers from blocking the writer.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to ping database", err)
	}

	store := &SQLiteStore{
		db:    db,
		dims:  cfg.Dimensions,
		table: cfg.Table,
	}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to initialize schema", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	createSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			metadata TEXT,
			created_at TIMESTAMP NOT NULL
		)
	`, s.table)

	if _, err := s.db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// Upsert writes a single record, replacing any record with the same ID.
func (s *SQLiteStore) Upsert(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if len(record.Embedding) != s.dims {
		return types.NewError(ErrCodeStoreFailed,
			fmt.Sprintf("embedding dimensions mismatch: expected %d, got %d", s.dims, len(record.Embedding)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeUnavailable, "vector store is closed")
	}

	metadataJSON, err := marshalMetadata(record.Metadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.table)

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.Content,
		encodeEmbedding(record.Embedding),
		metadataJSON,
		record.CreatedAt,
	)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to insert record", err)
	}
	return nil
}

// UpsertBatch writes multiple records in a single transaction.
func (s *SQLiteStore) UpsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	for i, record := range records {
		if err := record.Validate(); err != nil {
			return types.WrapError(ErrCodeStoreFailed,
				fmt.Sprintf("invalid record at index %d", i), err)
		}
		if len(record.Embedding) != s.dims {
			return types.NewError(ErrCodeStoreFailed,
				fmt.Sprintf("record %d: embedding dimensions mismatch: expected %d, got %d",
					i, s.dims, len(record.Embedding)))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeUnavailable, "vector store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.table)

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for _, record := range records {
		metadataJSON, err := marshalMetadata(record.Metadata)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			record.ID,
			record.Content,
			encodeEmbedding(record.Embedding),
			metadataJSON,
			record.CreatedAt,
		); err != nil {
			return types.WrapError(ErrCodeStoreFailed, "failed to insert batch record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to commit transaction", err)
	}
	return nil
}

// Search scans all rows, scores them against the query embedding and
// returns the top-k above the score floor, ordered by sortMatches.
func (s *SQLiteStore) Search(ctx context.Context, query Query) ([]Match, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(query.Embedding) != s.dims {
		return nil, types.NewError(ErrCodeSearchFailed,
			fmt.Sprintf("query embedding dimensions mismatch: expected %d, got %d",
				s.dims, len(query.Embedding)))
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeUnavailable, "vector store is closed")
	}

	selectSQL := fmt.Sprintf("SELECT id, content, embedding, metadata, created_at FROM %s", s.table)
	rows, err := s.db.QueryContext(ctx, selectSQL)
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to query records", err)
	}
	defer rows.Close()

	matches := make([]Match, 0)
	for rows.Next() {
		record, err := scanRecord(rows, s.dims)
		if err != nil {
			return nil, err
		}
		if !matchesFilters(record, query.Filters) {
			continue
		}
		score := cosineSimilarity(query.Embedding, record.Embedding)
		if score >= query.MinScore {
			matches = append(matches, Match{Record: record, Score: score})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "error iterating rows", err)
	}

	sortMatches(matches)
	if len(matches) > query.TopK {
		matches = matches[:query.TopK]
	}
	return matches, nil
}

// Get retrieves a record by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, types.NewError(ErrCodeUnavailable, "vector store is closed")
	}

	query := fmt.Sprintf("SELECT id, content, embedding, metadata, created_at FROM %s WHERE id = ?", s.table)
	row := s.db.QueryRowContext(ctx, query, id)

	var record Record
	var embeddingBlob []byte
	var metadataJSON []byte

	err := row.Scan(&record.ID, &record.Content, &embeddingBlob, &metadataJSON, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.NewError(ErrCodeNotFound, fmt.Sprintf("vector record not found: %s", id))
	}
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to get record", err)
	}

	record.Embedding, err = decodeEmbedding(embeddingBlob, s.dims)
	if err != nil {
		return nil, types.WrapError(ErrCodeSearchFailed, "failed to decode embedding", err)
	}
	if err := unmarshalMetadata(metadataJSON, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Delete removes a record. Deleting an absent ID is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return types.NewError(ErrCodeUnavailable, "vector store is closed")
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table)
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return types.WrapError(ErrCodeStoreFailed, "failed to delete record", err)
	}
	return nil
}

// Health pings the database and reports the record count.
func (s *SQLiteStore) Health(ctx context.Context) types.HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Unhealthy("sqlite vector store is closed")
	}
	if err := s.db.PingContext(ctx); err != nil {
		return types.Unhealthy(fmt.Sprintf("database ping failed: %v", err))
	}

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return types.Degraded(fmt.Sprintf("failed to count records: %v", err))
	}

	return types.Healthy(
		fmt.Sprintf("sqlite vector store operational with %d records (dims: %d)", count, s.dims))
}

// Close closes the underlying database. Subsequent calls are no-ops.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scanRecord reads one row into a Record, decoding the embedding blob and
// metadata JSON.
func scanRecord(rows *sql.Rows, dims int) (Record, error) {
	var record Record
	var embeddingBlob []byte
	var metadataJSON []byte

	if err := rows.Scan(&record.ID, &record.Content, &embeddingBlob, &metadataJSON, &record.CreatedAt); err != nil {
		return Record{}, types.WrapError(ErrCodeSearchFailed, "failed to scan record", err)
	}

	embedding, err := decodeEmbedding(embeddingBlob, dims)
	if err != nil {
		return Record{}, types.WrapError(ErrCodeSearchFailed, "failed to decode embedding", err)
	}
	record.Embedding = embedding

	if err := unmarshalMetadata(metadataJSON, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

func marshalMetadata(metadata map[string]any) ([]byte, error) {
	if metadata == nil {
		return nil, nil
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return nil, types.WrapError(ErrCodeStoreFailed, "failed to serialize metadata", err)
	}
	return data, nil
}

func unmarshalMetadata(data []byte, record *Record) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &record.Metadata); err != nil {
		return types.WrapError(ErrCodeSearchFailed, "failed to deserialize metadata", err)
	}
	return nil
}

// encodeEmbedding packs a float64 slice into a little-endian blob, 8 bytes
// per element.
func encodeEmbedding(embedding []float64) []byte {
	buf := make([]byte, len(embedding)*8)
	for i, v := range embedding {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// decodeEmbedding unpacks a little-endian blob produced by encodeEmbedding.
func decodeEmbedding(buf []byte, dims int) ([]float64, error) {
	if len(buf) != dims*8 {
		return nil, fmt.Errorf("embedding blob length mismatch: expected %d bytes, got %d", dims*8, len(buf))
	}
	embedding := make([]float64, dims)
	for i := range embedding {
		embedding[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return embedding, nil
}
