package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/config"
)

// ErrNotFound is returned when no metadata record exists for the given ID.
var ErrNotFound = errors.New("metadata record not found")

// MetadataRecord is one persisted parse result. MetadataJSON holds the
// serialized MetadataDocument.
type MetadataRecord struct {
	ID           int64
	MetadataID   string
	SrcDocName   string
	SrcDocPath   string
	MetadataJSON []byte
	Description  string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Metadata status lifecycle.
const (
	StatusUploaded  = "uploaded"
	StatusProcessed = "processed"
	StatusIndexed   = "indexed"
)

// MetadataStore defines the persistence operations needed by the CLI.
type MetadataStore interface {
	EnsureSchema(ctx context.Context) error
	SaveMetadata(ctx context.Context, rec *MetadataRecord) error
	GetMetadata(ctx context.Context, metadataID string) (*MetadataRecord, error)
	ListMetadata(ctx context.Context) ([]MetadataRecord, error)
	DeleteMetadata(ctx context.Context, metadataID string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
	GetConfig() config.DatabaseConfig
}

var _ MetadataStore = (*DB)(nil)

// DB holds the database connection pool and dialect handler.
type DB struct {
	Pool    *sql.DB
	Handler DialectHandler
	Config  config.DatabaseConfig
}

// DialectHandler supplies the dialect-specific pieces of the store: pool
// construction and the SQL text with the dialect's placeholder style.
type DialectHandler interface {
	CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error)
	CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error)
	QuoteIdentifier(name string) string

	// EnsureSchemaSQL creates the metadata_extract table if missing.
	EnsureSchemaSQL() string
	// UpsertSQL takes (metadata_id, src_doc_name, src_doc_path,
	// metadata_json, description, status).
	UpsertSQL() string
	// SelectSQL takes (metadata_id) and yields the full record.
	SelectSQL() string
	// ListSQL yields all records without the JSON payload.
	ListSQL() string
	// DeleteSQL takes (metadata_id).
	DeleteSQL() string
}

var (
	dialectHandlers = make(map[string]DialectHandler)
	mu              sync.RWMutex
)

// RegisterDialectHandler is called from dialect subpackage init functions.
func RegisterDialectHandler(dialect string, handler DialectHandler) {
	mu.Lock()
	defer mu.Unlock()
	dialectHandlers[dialect] = handler
}

func GetDialectHandler(dialect string) (DialectHandler, error) {
	mu.RLock()
	defer mu.RUnlock()
	handler, ok := dialectHandlers[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported database dialect: %s", dialect)
	}
	return handler, nil
}

// New opens a connection pool for the configured dialect and verifies it
// with a ping. Cloud SQL dialects ("cloudsqlpostgres", ...) use the Cloud
// SQL connector instead of a host/port pool.
func New(cfg config.DatabaseConfig) (*DB, error) {
	handler, err := GetDialectHandler(cfg.Dialect)
	if err != nil {
		return nil, err
	}

	var pool *sql.DB
	if strings.HasPrefix(cfg.Dialect, "cloudsql") {
		pool, err = handler.CreateCloudSQLPool(cfg)
	} else {
		pool, err = handler.CreateStandardPool(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool for dialect %s: %w", cfg.Dialect, err)
	}

	if err := pool.PingContext(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database (ping failed) for dialect %s: %w", cfg.Dialect, err)
	}

	return &DB{
		Pool:    pool,
		Handler: handler,
		Config:  cfg,
	}, nil
}

func (db *DB) GetConfig() config.DatabaseConfig {
	return db.Config
}

func (db *DB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database connection pool is not initialized")
	}
	return db.Pool.PingContext(ctx)
}

func (db *DB) Close() error {
	if db.Pool != nil {
		return db.Pool.Close()
	}
	return nil
}

// EnsureSchema creates the metadata_extract table when it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.ExecContext(ctx, db.Handler.EnsureSchemaSQL()); err != nil {
		return fmt.Errorf("failed to ensure metadata schema: %w", err)
	}
	return nil
}

// SaveMetadata inserts or updates the record keyed by MetadataID.
func (db *DB) SaveMetadata(ctx context.Context, rec *MetadataRecord) error {
	if rec == nil || rec.MetadataID == "" {
		return fmt.Errorf("metadata record requires a metadata ID")
	}
	status := rec.Status
	if status == "" {
		status = StatusProcessed
	}
	_, err := db.Pool.ExecContext(ctx, db.Handler.UpsertSQL(),
		rec.MetadataID, rec.SrcDocName, rec.SrcDocPath, rec.MetadataJSON, rec.Description, status)
	if err != nil {
		return fmt.Errorf("failed to save metadata %s: %w", rec.MetadataID, err)
	}
	return nil
}

// GetMetadata fetches one record by metadata ID.
func (db *DB) GetMetadata(ctx context.Context, metadataID string) (*MetadataRecord, error) {
	row := db.Pool.QueryRowContext(ctx, db.Handler.SelectSQL(), metadataID)

	var rec MetadataRecord
	err := row.Scan(&rec.ID, &rec.MetadataID, &rec.SrcDocName, &rec.SrcDocPath,
		&rec.MetadataJSON, &rec.Description, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata %s: %w", metadataID, err)
	}
	return &rec, nil
}

// ListMetadata returns all stored records, newest first, without the JSON
// payload.
func (db *DB) ListMetadata(ctx context.Context) ([]MetadataRecord, error) {
	rows, err := db.Pool.QueryContext(ctx, db.Handler.ListSQL())
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}
	defer rows.Close()

	var records []MetadataRecord
	for rows.Next() {
		var rec MetadataRecord
		if err := rows.Scan(&rec.ID, &rec.MetadataID, &rec.SrcDocName, &rec.Status, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan metadata row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metadata rows: %w", err)
	}
	return records, nil
}

// DeleteMetadata removes one record, reporting whether it existed.
func (db *DB) DeleteMetadata(ctx context.Context, metadataID string) (bool, error) {
	res, err := db.Pool.ExecContext(ctx, db.Handler.DeleteSQL(), metadataID)
	if err != nil {
		return false, fmt.Errorf("failed to delete metadata %s: %w", metadataID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, nil
	}
	return affected > 0, nil
}
