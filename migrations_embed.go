package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"shop-telegram/db"
)

// Embed migrations into the binary so `shop-telegram migrate` works
// regardless of the current working directory.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// applyMigrations runs every embedded migration in filename order and
// reports how many were applied.
func applyMigrations(ctx context.Context) (int, error) {
	names, err := migrationNames()
	if err != nil {
		return 0, err
	}
	for i, name := range names {
		sqlBytes, err := migrationsFS.ReadFile(name)
		if err != nil {
			return i, fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Pool.Exec(ctx, string(sqlBytes)); err != nil {
			return i, fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return len(names), nil
}

func migrationNames() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// autoMigrateEnabled reports whether AUTO_MIGRATE asks for migrations to
// run at startup (useful in production and for fresh DBs).
func autoMigrateEnabled() bool {
	v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE"))
	return v == "1" || strings.EqualFold(v, "true")
}
