/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/config"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
)

// postgresHandler implements store.DialectHandler for PostgreSQL.
type postgresHandler struct{}

var _ store.DialectHandler = (*postgresHandler)(nil)

func init() {
	store.RegisterDialectHandler("postgres", postgresHandler{})
	store.RegisterDialectHandler("cloudsqlpostgres", postgresHandler{})
}

// CreateCloudSQLPool connects through the Cloud SQL connector using the pgx
// dial hook.
func (h postgresHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.User == "" || cfg.Password == "" || cfg.DBName == "" || cfg.CloudSQLInstanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, pass, db, instance)")
	}

	dsn := fmt.Sprintf("user=%s password=%s database=%s", cfg.User, cfg.Password, cfg.DBName)
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	var opts []cloudsqlconn.Option
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithDefaultDialOptions(cloudsqlconn.WithPrivateIP()))
	}
	d, err := cloudsqlconn.NewDialer(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	instance := cfg.CloudSQLInstanceConnectionName
	connConfig.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(ctx, instance)
	}

	dbURI := stdlib.RegisterConnConfig(connConfig)
	dbPool, err := sql.Open("pgx", dbURI)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	return dbPool, nil
}

// CreateStandardPool creates a standard PostgreSQL connection pool.
func (h postgresHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	dbPool, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	return dbPool, nil
}

// QuoteIdentifier for PostgreSQL.
func (h postgresHandler) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, `"`, `""`)
	return fmt.Sprintf(`"%s"`, name)
}

func (h postgresHandler) EnsureSchemaSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS metadata_extract (
			id BIGSERIAL PRIMARY KEY,
			metadata_id VARCHAR(64) NOT NULL UNIQUE,
			src_doc_name VARCHAR(512) NOT NULL,
			src_doc_path VARCHAR(512) NOT NULL,
			metadata_json JSONB NOT NULL,
			description TEXT,
			status VARCHAR(32) NOT NULL DEFAULT 'uploaded',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`
}

func (h postgresHandler) UpsertSQL() string {
	return `
		INSERT INTO metadata_extract (metadata_id, src_doc_name, src_doc_path, metadata_json, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (metadata_id) DO UPDATE SET
			src_doc_name = EXCLUDED.src_doc_name,
			src_doc_path = EXCLUDED.src_doc_path,
			metadata_json = EXCLUDED.metadata_json,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			updated_at = NOW();`
}

func (h postgresHandler) SelectSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, src_doc_path, metadata_json, COALESCE(description, ''), status, created_at, updated_at
		FROM metadata_extract
		WHERE metadata_id = $1;`
}

func (h postgresHandler) ListSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, status, updated_at
		FROM metadata_extract
		ORDER BY updated_at DESC;`
}

func (h postgresHandler) DeleteSQL() string {
	return `DELETE FROM metadata_extract WHERE metadata_id = $1;`
}
