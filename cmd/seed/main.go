// Command seed applies the schema and creates the initial admin user.
package main

import (
	"context"
	"os"

	"golang.org/x/crypto/bcrypt"

	"milltrack/internal/domain/auth"
	"milltrack/internal/infrastructure/storage/postgres"
	"milltrack/pkg/logger"
)

func main() {
	ctx := context.Background()

	log, err := logger.New(logger.Config{Level: "info", Development: true})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	ctx = logger.WithLogger(ctx, log)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal(ctx, "DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Fatal(ctx, "connect failed", "error", err)
	}
	defer pool.Close()

	schemaPath := os.Getenv("SCHEMA_PATH")
	if schemaPath == "" {
		schemaPath = "migrations/schema.sql"
	}
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		logger.Fatal(ctx, "read schema failed", "path", schemaPath, "error", err)
	}

	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		logger.Fatal(ctx, "apply schema failed", "error", err)
	}
	logger.Info(ctx, "schema applied", "path", schemaPath)

	if err := seedAdmin(ctx, pool); err != nil {
		logger.Fatal(ctx, "seed admin failed", "error", err)
	}

	logger.Info(ctx, "seed completed")
}

// seedAdmin creates the admin user unless one already exists.
func seedAdmin(ctx context.Context, pool *postgres.Pool) error {
	var exists bool
	err := pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)", auth.RoleAdmin).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		logger.Info(ctx, "admin user already present, skipping")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme-now"
		logger.Warn(ctx, "ADMIN_PASSWORD not set, using default; change it immediately")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := auth.NewUser()
	admin.Username = "admin"
	admin.FullName = "Administrator"
	admin.Role = auth.RoleAdmin
	admin.HashedPassword = string(hash)

	_, err = pool.Exec(ctx, `INSERT INTO users
		(id, deletion_mark, version, created_at, updated_at, created_by, updated_by,
		 username, email, full_name, hashed_password, role, is_active, serial_prefix, serial_counter)
		VALUES ($1, false, 1, $2, $3, '', '', $4, '', $5, $6, $7, true, NULL, 0)`,
		admin.ID, admin.CreatedAt, admin.UpdatedAt,
		admin.Username, admin.FullName, admin.HashedPassword, admin.Role)
	if err != nil {
		return err
	}

	logger.Info(ctx, "admin user created", "username", admin.Username)
	return nil
}
