package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/nusanet/nusarag/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// InitSchema provisions the pgvector extension, the histories table and one
// embeddings table per tenant. Runs at startup only, never at request time.
// vectorDim must match the embedding provider's output width.
func (db *DB) InitSchema(ctx context.Context, vectorDim int) error {
	if vectorDim <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", vectorDim)
	}

	extensions := `
		CREATE EXTENSION IF NOT EXISTS vector;
		CREATE EXTENSION IF NOT EXISTS pgcrypto;
	`
	if _, err := db.ExecContext(ctx, extensions); err != nil {
		return fmt.Errorf("failed to enable extensions: %w", err)
	}

	botTypeEnum := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_type WHERE typname = 'bot_type_enum'
			) THEN
				CREATE TYPE bot_type_enum AS ENUM ('nusawork', 'nusaid');
			END IF;
		END$$;
	`
	if _, err := db.ExecContext(ctx, botTypeEnum); err != nil {
		return fmt.Errorf("failed to create bot_type enum: %w", err)
	}

	histories := `
		CREATE TABLE IF NOT EXISTS histories (
			id SERIAL PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			similarity_score DOUBLE PRECISION DEFAULT NULL,
			similarity_results JSONB NULL,
			users JSONB NOT NULL,
			space JSONB NULL,
			bot_type bot_type_enum NOT NULL DEFAULT 'nusawork',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_histories_bot_type ON histories(bot_type);
		CREATE INDEX IF NOT EXISTS idx_histories_created_at ON histories(created_at);
	`
	if _, err := db.ExecContext(ctx, histories); err != nil {
		return fmt.Errorf("failed to create histories table: %w", err)
	}

	for _, table := range []string{"nusawork_embeddings", "nusaid_embeddings"} {
		embeddings := fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				content TEXT NOT NULL,
				vector vector(%d) NOT NULL,
				metadata JSONB NULL
			);
		`, table, vectorDim)
		if _, err := db.ExecContext(ctx, embeddings); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table, err)
		}
	}

	db.logger.Info("database schema initialized successfully",
		zap.Int("vector_dim", vectorDim))
	return nil
}
