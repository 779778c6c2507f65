package models

// CartItem is one line of a user's pre-order basket, uniquely identified
// by (user_id, item_id, size, gender).
type CartItem struct {
	ID        int64
	UserID    int64
	ItemID    int64
	Size      string
	Gender    *string // nil for gender-neutral items
	Quantity  int
	CreatedAt int64
}
