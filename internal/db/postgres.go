package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres() (*pgxpool.Pool, error) {
	// Get database URL from environment variable or use default
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Default local development configuration
		host := getEnvOrDefault("POSTGRES_HOST", "localhost")
		port := getEnvOrDefault("POSTGRES_PORT", "5432")
		user := getEnvOrDefault("POSTGRES_USER", "myspot")
		password := getEnvOrDefault("POSTGRES_PASSWORD", "")
		dbname := getEnvOrDefault("POSTGRES_DB", "myspot")
		sslmode := getEnvOrDefault("POSTGRES_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
			user, password, host, port, dbname, sslmode)
	}

	// Configure connection pool
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Set connection pool settings
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute * 5

	// Create connection pool
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Create tables if they don't exist
	if err := createTables(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pool, nil
}

// createTables creates all required tables if they don't exist
func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Users table - stores Firebase user information
	usersTable := `
		CREATE TABLE IF NOT EXISTS users (
			uid VARCHAR(255) PRIMARY KEY,
			display_name VARCHAR(255),
			email VARCHAR(255) UNIQUE NOT NULL,
			token TEXT,
			photo_url TEXT,
			email_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		);
	`

	// Spots table - the shared public catalog of published spots
	spotsTable := `
		CREATE TABLE IF NOT EXISTS spots (
			id UUID PRIMARY KEY,
			owner_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			name VARCHAR(500) NOT NULL,
			founded_by VARCHAR(255),
			description TEXT,
			date_founded VARCHAR(100),
			latitude DECIMAL(10, 8) NOT NULL,
			longitude DECIMAL(11, 8) NOT NULL,
			spot_type VARCHAR(100),
			place_name VARCHAR(500),
			likes INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
			offensive INTEGER NOT NULL DEFAULT 0 CHECK (offensive >= 0),
			spam INTEGER NOT NULL DEFAULT 0 CHECK (spam >= 0),
			inappropriate INTEGER NOT NULL DEFAULT 0 CHECK (inappropriate >= 0),
			dangerous INTEGER NOT NULL DEFAULT 0 CHECK (dangerous >= 0),
			has_multiple_images BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Spot images table - content-addressed attachment references, 1 to 3 per spot
	spotImagesTable := `
		CREATE TABLE IF NOT EXISTS spot_images (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			spot_id UUID NOT NULL REFERENCES spots(id) ON DELETE CASCADE,
			ref TEXT NOT NULL,
			upload_order INTEGER DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	// Subscriptions table - areas of interest registered for push notifications
	subscriptionsTable := `
		CREATE TABLE IF NOT EXISTS subscriptions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_uid VARCHAR(255) NOT NULL REFERENCES users(uid) ON DELETE CASCADE,
			latitude DECIMAL(10, 8) NOT NULL,
			longitude DECIMAL(11, 8) NOT NULL,
			radius_meters DOUBLE PRECISION NOT NULL DEFAULT 0,
			filter_one VARCHAR(255),
			filter_two VARCHAR(255),
			filter_three VARCHAR(255),
			fcm_token TEXT NOT NULL,
			active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(user_uid)
		);
	`

	// Create indexes for better performance
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);`,
		`CREATE INDEX IF NOT EXISTS idx_spots_owner_uid ON spots(owner_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_spots_created_at ON spots(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_spots_coords ON spots(latitude, longitude);`,
		`CREATE INDEX IF NOT EXISTS idx_spots_likes ON spots(likes DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_spot_images_spot_id ON spot_images(spot_id);`,
		`CREATE INDEX IF NOT EXISTS idx_spot_images_upload_order ON spot_images(spot_id, upload_order);`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_user_uid ON subscriptions(user_uid);`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_active ON subscriptions(active);`,
	}

	// Execute table creation statements
	tables := []string{usersTable, spotsTable, spotImagesTable, subscriptionsTable}

	for _, table := range tables {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Execute index creation statements
	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default value if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
