package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/go-sql-driver/mysql"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/config"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
)

type mysqlHandler struct{}

var _ store.DialectHandler = (*mysqlHandler)(nil)

func init() {
	store.RegisterDialectHandler("mysql", mysqlHandler{})
	store.RegisterDialectHandler("cloudsqlmysql", mysqlHandler{})
}

func (h mysqlHandler) CreateCloudSQLPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.User == "" || cfg.Password == "" || cfg.DBName == "" || cfg.CloudSQLInstanceConnectionName == "" {
		return nil, fmt.Errorf("missing required CloudSQL connection parameter (user, pass, db, instance)")
	}

	d, err := cloudsqlconn.NewDialer(context.Background())
	if err != nil {
		return nil, fmt.Errorf("cloudsqlconn.NewDialer: %w", err)
	}

	var opts []cloudsqlconn.DialOption
	if cfg.UsePrivateIP {
		opts = append(opts, cloudsqlconn.WithPrivateIP())
	}

	instance := cfg.CloudSQLInstanceConnectionName
	network := fmt.Sprintf("cloudsql-%s", instance)
	mysql.RegisterDialContext(network,
		func(ctx context.Context, addr string) (net.Conn, error) {
			return d.Dial(ctx, instance, opts...)
		})

	mysqlCfg := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  network,
		Addr:                 instance,
		DBName:               cfg.DBName,
		AllowNativePasswords: true,
		ParseTime:            true,
	}

	dbPool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		mysql.DeregisterDialContext(network)
		d.Close()
		return nil, fmt.Errorf("sql.Open failed for CloudSQL MySQL: %w", err)
	}
	return dbPool, nil
}

func (h mysqlHandler) CreateStandardPool(cfg config.DatabaseConfig) (*sql.DB, error) {
	mysqlCfg := mysql.Config{
		User:                 cfg.User,
		Passwd:               cfg.Password,
		Net:                  "tcp",
		Addr:                 fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DBName:               cfg.DBName,
		AllowNativePasswords: true,
		ParseTime:            true,
	}

	dbPool, err := sql.Open("mysql", mysqlCfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("sql.Open (standard mysql): %w", err)
	}
	return dbPool, nil
}

func (h mysqlHandler) QuoteIdentifier(name string) string {
	name = strings.ReplaceAll(name, "`", "``")
	return fmt.Sprintf("`%s`", name)
}

func (h mysqlHandler) EnsureSchemaSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS metadata_extract (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			metadata_id VARCHAR(64) NOT NULL,
			src_doc_name VARCHAR(512) NOT NULL,
			src_doc_path VARCHAR(512) NOT NULL,
			metadata_json JSON NOT NULL,
			description TEXT,
			status VARCHAR(32) NOT NULL DEFAULT 'uploaded',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_metadata_id (metadata_id)
		);`
}

func (h mysqlHandler) UpsertSQL() string {
	return `
		INSERT INTO metadata_extract (metadata_id, src_doc_name, src_doc_path, metadata_json, description, status)
		VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			src_doc_name = VALUES(src_doc_name),
			src_doc_path = VALUES(src_doc_path),
			metadata_json = VALUES(metadata_json),
			description = VALUES(description),
			status = VALUES(status),
			updated_at = CURRENT_TIMESTAMP;`
}

func (h mysqlHandler) SelectSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, src_doc_path, metadata_json, COALESCE(description, ''), status, created_at, updated_at
		FROM metadata_extract
		WHERE metadata_id = ?;`
}

func (h mysqlHandler) ListSQL() string {
	return `
		SELECT id, metadata_id, src_doc_name, status, updated_at
		FROM metadata_extract
		ORDER BY updated_at DESC;`
}

func (h mysqlHandler) DeleteSQL() string {
	return `DELETE FROM metadata_extract WHERE metadata_id = ?;`
}
