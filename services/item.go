package services

import (
	"context"
	"errors"

	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/jackc/pgx/v5"
)

// GetItem is the Catalog Lookup: item id -> title/price. A missing row is
// ErrNotFound; any other failure is the underlying persistence error, which
// callers must not mistake for a vanished item.
func GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var it models.Item
	err := db.Pool.QueryRow(ctx, `
		SELECT id, title, price, COALESCE(image, ''), sizes, COALESCE(description, ''), created_at
		FROM items WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Title, &it.Price, &it.Image, &it.Sizes, &it.Description, &it.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems returns the whole catalog for the web app.
func ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, title, price, COALESCE(image, ''), sizes, COALESCE(description, ''), created_at
		FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Price, &it.Image, &it.Sizes, &it.Description, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
