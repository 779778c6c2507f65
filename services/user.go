package services

import (
	"context"
	"time"

	"shop-telegram/db"
	"shop-telegram/models"
)

// TouchUser records an interaction: inserts the user on first contact,
// otherwise refreshes last_interaction and reactivates.
func TouchUser(ctx context.Context, telegramID int64) error {
	now := time.Now().Unix()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO users (telegram_id, is_active, created_at, last_interaction)
		VALUES ($1, TRUE, $2, $2)
		ON CONFLICT (telegram_id) DO UPDATE SET
			last_interaction = $2,
			is_active = TRUE`,
		telegramID, now,
	)
	return err
}

// ListActiveUsers is the broadcast audience.
func ListActiveUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, telegram_id, is_active, created_at, last_interaction
		FROM users WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.IsActive, &u.CreatedAt, &u.LastInteraction); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// RecipientIDs extracts the chat ids a broadcast fans out to.
func RecipientIDs(users []models.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.TelegramID
	}
	return ids
}
