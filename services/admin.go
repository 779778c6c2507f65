package services

import (
	"context"
	"errors"

	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/jackc/pgx/v5"
)

func GetAdmin(ctx context.Context, telegramID int64) (*models.Admin, error) {
	var a models.Admin
	err := db.Pool.QueryRow(ctx, `
		SELECT id, telegram_id, role, broadcasting
		FROM admins WHERE telegram_id = $1`,
		telegramID,
	).Scan(&a.ID, &a.TelegramID, &a.Role, &a.Broadcasting)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// RoleFor resolves the effective role: the configured super admin is always
// sadmin, with or without an admins row.
func RoleFor(ctx context.Context, telegramID, sadminID int64) string {
	if sadminID != 0 && telegramID == sadminID {
		return models.RoleSAdmin
	}
	a, err := GetAdmin(ctx, telegramID)
	if err != nil {
		return models.RoleUser
	}
	return a.Role
}

// EnsureAdmin upserts an admins row, used so the super admin can carry a
// broadcasting flag without being added by hand.
func EnsureAdmin(ctx context.Context, telegramID int64, role string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO admins (telegram_id, role)
		VALUES ($1, $2)
		ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID, role,
	)
	return err
}

// SetBroadcasting arms the admin's broadcasting mode (copy or forward);
// the next content message is the broadcast.
func SetBroadcasting(ctx context.Context, telegramID int64, mode string) error {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE admins SET broadcasting = $1 WHERE telegram_id = $2`,
		mode, telegramID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TakeBroadcasting atomically claims and clears the admin's broadcasting
// mode, so the flag is single-use even under duplicate delivery. Returns
// BroadcastNone when the admin was not mid-broadcast.
func TakeBroadcasting(ctx context.Context, telegramID int64) (string, error) {
	var mode string
	err := db.Pool.QueryRow(ctx, `
		UPDATE admins a SET broadcasting = 'none'
		FROM (
			SELECT telegram_id, broadcasting FROM admins
			WHERE telegram_id = $1 FOR UPDATE
		) old
		WHERE a.telegram_id = old.telegram_id AND old.broadcasting <> 'none'
		RETURNING old.broadcasting`,
		telegramID,
	).Scan(&mode)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.BroadcastNone, nil
	}
	if err != nil {
		return models.BroadcastNone, err
	}
	return mode, nil
}
