package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

// DuckDBConfig configures the connection FromDuckDB's caller opens before
// pulling Arrow batches out of it, adapted from the original module's
// DuckDBClient wiring in internal/duckdb_conn.go down to what a read-only
// ingest path needs: a path (or ":memory:"), the httpfs/parquet extensions
// a snapshot query typically needs, and S3 PRAGMA credentials when reading
// Parquet directly out of object storage.
type DuckDBConfig struct {
	DBPath         string
	MaxConnections int
	EnableS3       bool
	S3AccessKey    string
	S3SecretKey    string
	S3Region       string
	S3Endpoint     string
	EnableParquet  bool
}

// OpenDuckDB opens a database/sql DB against the DuckDB driver and installs
// the extensions cfg asks for, the same INSTALL/LOAD/PRAGMA sequence
// internal/duckdb_conn.go ran for the federated query path.
func OpenDuckDB(ctx context.Context, cfg DuckDBConfig) (*sql.DB, error) {
	dsn := cfg.DBPath
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("ingest: open duckdb: %w", err)
	}

	db.SetMaxOpenConns(1)
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ingest: ping duckdb: %w", err)
	}

	if cfg.EnableParquet {
		installAndLoad(pingCtx, db, "parquet")
	}

	if cfg.EnableS3 {
		installAndLoad(pingCtx, db, "httpfs")
		setPragma(pingCtx, db, "s3_access_key", cfg.S3AccessKey)
		setPragma(pingCtx, db, "s3_secret_key", cfg.S3SecretKey)
		setPragma(pingCtx, db, "s3_region", cfg.S3Region)
		setPragma(pingCtx, db, "s3_endpoint", cfg.S3Endpoint)
	}

	return db, nil
}

func installAndLoad(ctx context.Context, db *sql.DB, extension string) {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("INSTALL %s;", extension)); err != nil {
		zap.S().Warnw("ingest: install duckdb extension failed", "extension", extension, "err", err)
		return
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("LOAD %s;", extension)); err != nil {
		zap.S().Warnw("ingest: load duckdb extension failed", "extension", extension, "err", err)
	}
}

func setPragma(ctx context.Context, db *sql.DB, name, value string) {
	if value == "" {
		return
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA %s='%s';", name, value)); err != nil {
		zap.S().Warnw("ingest: set duckdb pragma failed", "pragma", name, "err", err)
	}
}
