package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"kpitrack/internal/domain/auth"
	"kpitrack/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureRolePermissions(ctx, pool); err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	return nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for roleName, perms := range auth.RolePermissions {
		for _, permKey := range perms {
			_, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_name, permission_key)
        VALUES ($1, $2)
        ON CONFLICT DO NOTHING
      `, roleName, permKey)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, password_hash, role_name, status)
    VALUES ($1, 'Administrator', $2, $3, 'active')
  `, email, hash, auth.RoleAdmin)
	return err
}
