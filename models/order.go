package models

// Order is a row from the orders table. The three customer fields are
// nullable; an order is incomplete until all of them are set, and the
// current checkout step is derived from which ones are still NULL.
type Order struct {
	ID        int64
	UserID    int64
	UserName  *string
	UserPhone *string
	Location  *string // "lat,lon"
	Items     string  // JSON object: "itemId-size[-gender]" -> quantity
	CreatedAt int64
}
