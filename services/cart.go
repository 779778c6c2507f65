package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"shop-telegram/db"
	"shop-telegram/models"
)

// CartKey is the parsed form of a composite cart key
// "itemId-size[-gender]".
type CartKey struct {
	ItemID int64
	Size   string
	Gender string // empty for gender-neutral items
}

// ParseCartKey splits a composite key. Fewer than two parts or a
// non-numeric item id is ErrMalformedCartKey, which aborts the whole
// reconciliation for that request.
func ParseCartKey(key string) (CartKey, error) {
	parts := strings.SplitN(key, "-", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return CartKey{}, fmt.Errorf("%w: %q", ErrMalformedCartKey, key)
	}
	itemID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || itemID <= 0 {
		return CartKey{}, fmt.Errorf("%w: %q", ErrMalformedCartKey, key)
	}
	k := CartKey{ItemID: itemID, Size: parts[1]}
	if len(parts) == 3 {
		k.Gender = parts[2]
	}
	return k, nil
}

func (k CartKey) String() string {
	if k.Gender != "" {
		return fmt.Sprintf("%d-%s-%s", k.ItemID, k.Size, k.Gender)
	}
	return fmt.Sprintf("%d-%s", k.ItemID, k.Size)
}

func keyForRow(ci models.CartItem) string {
	k := CartKey{ItemID: ci.ItemID, Size: ci.Size}
	if ci.Gender != nil {
		k.Gender = *ci.Gender
	}
	return k.String()
}

// CartPlan is the minimal set of writes bringing persisted rows in line
// with a client snapshot.
type CartPlan struct {
	Delete []int64       // row ids removed client-side
	Update map[int64]int // row id -> new quantity
	Insert []models.CartItem
}

func (p *CartPlan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Update) == 0 && len(p.Insert) == 0
}

// PlanCartSync diffs the persisted rows of one user against the client's
// cart map. Keys present in both with equal quantity are untouched, so
// re-applying the same snapshot plans nothing. A non-positive client
// quantity behaves like removal.
func PlanCartSync(userID int64, existing []models.CartItem, client map[string]int) (*CartPlan, error) {
	persisted := make(map[string]models.CartItem, len(existing))
	for _, row := range existing {
		persisted[keyForRow(row)] = row
	}

	// Validate every client key before planning a single write: a malformed
	// key fails the whole request closed, not partially.
	parsed := make(map[string]CartKey, len(client))
	for key := range client {
		k, err := ParseCartKey(key)
		if err != nil {
			return nil, err
		}
		parsed[key] = k
	}

	plan := &CartPlan{Update: make(map[int64]int)}
	for key, row := range persisted {
		if qty, ok := client[key]; !ok || qty < 1 {
			plan.Delete = append(plan.Delete, row.ID)
		}
	}
	for key, qty := range client {
		if qty < 1 {
			continue
		}
		if row, ok := persisted[key]; ok {
			if row.Quantity != qty {
				plan.Update[row.ID] = qty
			}
			continue
		}
		k := parsed[key]
		item := models.CartItem{UserID: userID, ItemID: k.ItemID, Size: k.Size, Quantity: qty}
		if k.Gender != "" {
			g := k.Gender
			item.Gender = &g
		}
		plan.Insert = append(plan.Insert, item)
	}

	sort.Slice(plan.Delete, func(i, j int) bool { return plan.Delete[i] < plan.Delete[j] })
	sort.Slice(plan.Insert, func(i, j int) bool {
		return keyForRow(plan.Insert[i]) < keyForRow(plan.Insert[j])
	})
	return plan, nil
}

// SyncCart reconciles the user's cart rows with a client snapshot inside
// one transaction. Idempotent: applying the same snapshot twice is a no-op
// the second time.
func SyncCart(ctx context.Context, userID int64, client map[string]int) error {
	existing, err := listCartRows(ctx, userID)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	plan, err := PlanCartSync(userID, existing, client)
	if err != nil {
		return err
	}
	if plan.Empty() {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, id := range plan.Delete {
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID); err != nil {
			return fmt.Errorf("delete cart row %d: %w", id, err)
		}
	}
	for id, qty := range plan.Update {
		if _, err := tx.Exec(ctx, `UPDATE cart_items SET quantity = $1 WHERE id = $2 AND user_id = $3`, qty, id, userID); err != nil {
			return fmt.Errorf("update cart row %d: %w", id, err)
		}
	}
	for _, item := range plan.Insert {
		if _, err := tx.Exec(ctx, `
			INSERT INTO cart_items (user_id, item_id, size, gender, quantity, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.UserID, item.ItemID, item.Size, item.Gender, item.Quantity, time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("insert cart row %s: %w", keyForRow(item), err)
		}
	}
	return tx.Commit(ctx)
}

func listCartRows(ctx context.Context, userID int64) ([]models.CartItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, item_id, size, gender, quantity, created_at
		FROM cart_items WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var ci models.CartItem
		if err := rows.Scan(&ci.ID, &ci.UserID, &ci.ItemID, &ci.Size, &ci.Gender, &ci.Quantity, &ci.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, ci)
	}
	return items, rows.Err()
}

// GetCartMap returns the user's persisted cart in the client's wire shape.
func GetCartMap(ctx context.Context, userID int64) (map[string]int, error) {
	rows, err := listCartRows(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart := make(map[string]int, len(rows))
	for _, ci := range rows {
		cart[keyForRow(ci)] = ci.Quantity
	}
	return cart, nil
}

// ClearCart drops all cart rows of one user (after order placement).
func ClearCart(ctx context.Context, userID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
