package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shop-telegram/db"
	"shop-telegram/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.UserID, &o.UserName, &o.UserPhone, &o.Location, &o.Items, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return scanOrder(db.Pool.QueryRow(ctx, `
		SELECT id, user_id, user_name, user_phone, location, items, created_at
		FROM orders WHERE id = $1`,
		id,
	))
}

// GetIncompleteOrder returns the user's incomplete order. Creation enforces
// at most one, so this lookup is unambiguous.
func GetIncompleteOrder(ctx context.Context, userID int64) (*models.Order, error) {
	return scanOrder(db.Pool.QueryRow(ctx, `
		SELECT id, user_id, user_name, user_phone, location, items, created_at
		FROM orders
		WHERE user_id = $1
		  AND (user_name IS NULL OR user_phone IS NULL OR location IS NULL)`,
		userID,
	))
}

// CreateOrder opens a new order holding the item map. A second incomplete
// order for the same user violates the partial unique index and is reported
// as ErrIncompleteOrderExists.
func CreateOrder(ctx context.Context, userID int64, items map[string]int) (int64, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, fmt.Errorf("marshal order items: %w", err)
	}
	var id int64
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO orders (user_id, items, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		userID, string(itemsJSON), time.Now().Unix(),
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return 0, ErrIncompleteOrderExists
	}
	return id, err
}

func SetOrderName(ctx context.Context, id int64, name string) error {
	return setOrderField(ctx, id, "user_name", &name)
}

func SetOrderPhone(ctx context.Context, id int64, phone string) error {
	return setOrderField(ctx, id, "user_phone", &phone)
}

func SetOrderLocation(ctx context.Context, id int64, location string) error {
	return setOrderField(ctx, id, "location", &location)
}

func ClearOrderName(ctx context.Context, id int64) error {
	return setOrderField(ctx, id, "user_name", nil)
}

func ClearOrderPhone(ctx context.Context, id int64) error {
	return setOrderField(ctx, id, "user_phone", nil)
}

func ClearOrderLocation(ctx context.Context, id int64) error {
	return setOrderField(ctx, id, "location", nil)
}

func setOrderField(ctx context.Context, id int64, column string, value *string) error {
	// column comes from the Set/Clear wrappers above, never from input.
	tag, err := db.Pool.Exec(ctx,
		fmt.Sprintf(`UPDATE orders SET %s = $1 WHERE id = $2`, column),
		value, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder removes the order and reports whether a row was actually
// deleted. false means another request already terminated it, which callers
// treat as a "not found" no-op rather than an error.
func DeleteOrder(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
