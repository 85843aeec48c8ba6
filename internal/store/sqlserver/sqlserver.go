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
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	mssql "github.com/denisenkom/go-mssqldb"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/config"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
)

// sqlServerHandler implements store.DialectHandler for SQL Server.
type sqlServerHandler struct{}

var _ store.DialectHandler = (*sqlServerHandler)(nil)

func init() {
	store.RegisterDialectHandler("sqlserver", sqlServerHandler{})
	store.RegisterDialectHandler("cloudsqlsqlserver", sqlServerHandler{})
}

type csqlDialer struct {
	dialer     *cloudsqlconn.Dialer
	connName   string
	usePrivate bool
}

// DialContext adheres to the mssql.Dialer interface.
func (c *csqlDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	var opts []cloudsqlconn.DialOption
	if c.usePrivate {
		opts = append(opts, cloudsqlconn.WithPrivateIP())
	}
	return c.dialer.Dial(ctx, c.connName, opts...)
}

func (h sqlServerHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.User == "" || cfg.Password == "" || cfg.DBName == "" || cfg.CloudSQLInstanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, pass, db, instance)")
	}

	// WithLazyRefresh avoids background certificate refreshes throttling
	// CPU in serverless environments.
	dialer, err := cloudsqlconn.NewDialer(context.Background(), cloudsqlconn.WithLazyRefresh())
	if err != nil {
		return nil, fmt.Errorf("cloudsqlconn.NewDialer: %w", err)
	}
	connector, err := mssql.NewConnector(fmt.Sprintf("sqlserver://%s:%s@localhost:1433?database=%s&dial=cloudsqlconn&instance=%s",
		cfg.User, cfg.Password, cfg.DBName, cfg.CloudSQLInstanceConnectionName))
	if err != nil {
		return nil, fmt.Errorf("mssql.NewConnector: %w", err)
	}
	connector.Dialer = &csqlDialer{
		dialer:     dialer,
		connName:   cfg.CloudSQLInstanceConnectionName,
		usePrivate: cfg.UsePrivateIP,
	}

	return sql.OpenDB(connector), nil
}

func (h sqlServerHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	port := cfg.Port
	if port == 0 {
		port = 1433 // Default SQL Server port
	}
	connStr := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s",
		cfg.User, cfg.Password, cfg.Host, port, cfg.DBName)

	dbPool, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open (standard sqlserver): %w", err)
	}
	return dbPool, nil
}

// QuoteIdentifier for SQL Server. Square brackets are the standard quoting
// style.
func (h sqlServerHandler) QuoteIdentifier(name string) string {
	return fmt.Sprintf("[%s]", name)
}

func (h sqlServerHandler) EnsureSchemaSQL() string {
	return `
		IF OBJECT_ID(N'metadata_extract', N'U') IS NULL
		CREATE TABLE metadata_extract (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			metadata_id NVARCHAR(64) NOT NULL UNIQUE,
			src_doc_name NVARCHAR(512) NOT NULL,
			src_doc_path NVARCHAR(512) NOT NULL,
			metadata_json NVARCHAR(MAX) NOT NULL,
			description NVARCHAR(MAX),
			status NVARCHAR(32) NOT NULL DEFAULT 'uploaded',
			created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
			updated_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
		);`
}

func (h sqlServerHandler) UpsertSQL() string {
	return `
		MERGE metadata_extract AS target
		USING (SELECT @p1 AS metadata_id, @p2 AS src_doc_name, @p3 AS src_doc_path, @p4 AS metadata_json, @p5 AS description, @p6 AS status) AS source
		ON target.metadata_id = source.metadata_id
		WHEN MATCHED THEN UPDATE SET
			src_doc_name = source.src_doc_name,
			src_doc_path = source.src_doc_path,
			metadata_json = source.metadata_json,
			description = source.description,
			status = source.status,
			updated_at = SYSUTCDATETIME()
		WHEN NOT MATCHED THEN
			INSERT (metadata_id, src_doc_name, src_doc_path, metadata_json, description, status)
			VALUES (source.metadata_id, source.src_doc_name, source.src_doc_path, source.metadata_json, source.description, source.status);`
}

func (h sqlServerHandler) SelectSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, src_doc_path, metadata_json, COALESCE(description, ''), status, created_at, updated_at
		FROM metadata_extract
		WHERE metadata_id = @p1;`
}

func (h sqlServerHandler) ListSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, status, updated_at
		FROM metadata_extract
		ORDER BY updated_at DESC;`
}

func (h sqlServerHandler) DeleteSQL() string {
	return `DELETE FROM metadata_extract WHERE metadata_id = @p1;`
}
