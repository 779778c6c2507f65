package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"shop-telegram/models"
)

// ItemLookup resolves a catalog item id. ErrNotFound means the item no
// longer exists and the line is skipped; any other error is a persistence
// failure and aborts the summary.
type ItemLookup func(itemID int64) (*models.Item, error)

// CatalogLookup is the DB-backed ItemLookup.
func CatalogLookup(ctx context.Context) ItemLookup {
	return func(itemID int64) (*models.Item, error) {
		return GetItem(ctx, itemID)
	}
}

type OrderLine struct {
	Title    string
	Size     string
	Gender   string
	Quantity int
	Subtotal int64
}

type OrderSummary struct {
	Name  string
	Phone string
	Lines []OrderLine
	Total int64
}

// SummarizeOrder prices a fully populated order against the catalog.
// Undecodable or empty item maps are ErrMalformedOrder; lines with missing
// items or non-positive quantities are skipped, and if nothing chargeable
// remains the result is ErrEmptyOrder with the order left untouched.
func SummarizeOrder(o *models.Order, lookup ItemLookup) (*OrderSummary, error) {
	items, err := decodeItems(o.Items)
	if err != nil {
		return nil, err
	}
	sum, err := SummarizeItems(items, lookup)
	if err != nil {
		return nil, err
	}
	if o.UserName != nil {
		sum.Name = *o.UserName
	}
	if o.UserPhone != nil {
		sum.Phone = *o.UserPhone
	}
	return sum, nil
}

// SummarizeItems prices a raw item map. Shared with the order-placement
// flow, which previews the cart to the user before the progression starts.
func SummarizeItems(items map[string]int, lookup ItemLookup) (*OrderSummary, error) {
	if len(items) == 0 {
		return nil, ErrMalformedOrder
	}
	keys := make([]string, 0, len(items))
	for key := range items {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sum := &OrderSummary{}
	for _, key := range keys {
		k, err := ParseCartKey(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedOrder, key)
		}
		qty := items[key]
		if qty < 1 {
			log.Printf("order line %s skipped: quantity %d", key, qty)
			continue
		}
		item, err := lookup(k.ItemID)
		if errors.Is(err, ErrNotFound) {
			log.Printf("order line %s skipped: item %d not in catalog", key, k.ItemID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup item %d: %w", k.ItemID, err)
		}
		sum.Lines = append(sum.Lines, OrderLine{
			Title:    item.Title,
			Size:     k.Size,
			Gender:   k.Gender,
			Quantity: qty,
			Subtotal: item.Price * int64(qty),
		})
		sum.Total += item.Price * int64(qty)
	}
	if sum.Total == 0 {
		return nil, ErrEmptyOrder
	}
	return sum, nil
}

func decodeItems(raw string) (map[string]int, error) {
	var items map[string]int
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOrder, err)
	}
	if len(items) == 0 {
		return nil, ErrMalformedOrder
	}
	return items, nil
}

// ChannelText renders the staff channel notification (HTML).
func (s *OrderSummary) ChannelText() string {
	var b strings.Builder
	b.WriteString("<b>🛍️ YANGI BUYURTMA</b>\n\n")
	b.WriteString("<b>Foydalanuvchi:</b>\n")
	fmt.Fprintf(&b, "👤 <b>Ism:</b> <code>%s</code>\n", s.Name)
	fmt.Fprintf(&b, "📞 <b>Telefon:</b> <code>%s</code>\n\n", s.Phone)
	b.WriteString("---<b>Mahsulotlar:</b>\n")
	for i, line := range s.Lines {
		fmt.Fprintf(&b, "<b>%d. %s</b> <i>(%s)</i>\n", i+1, line.Title, line.variant())
		fmt.Fprintf(&b, "   - Soni: %d ta\n", line.Quantity)
		fmt.Fprintf(&b, "   - Narxi: %s UZS\n", FormatPrice(line.Subtotal))
	}
	fmt.Fprintf(&b, "\n<b>Jami:</b> %s UZS", FormatPrice(s.Total))
	return b.String()
}

// UserText renders the customer-facing cart recap sent on order placement.
func (s *OrderSummary) UserText() string {
	var b strings.Builder
	b.WriteString("<b>🛍️ Sizning buyurtmalaringiz:</b>")
	for i, line := range s.Lines {
		fmt.Fprintf(&b, "\n%d. %s (%s) - %d dona - %s so'm",
			i+1, line.Title, line.variant(), line.Quantity, FormatPrice(line.Subtotal))
	}
	fmt.Fprintf(&b, "\n\n<b>Jami: %s so'm</b>", FormatPrice(s.Total))
	return b.String()
}

func (l OrderLine) variant() string {
	if l.Gender != "" {
		return l.Size + ", " + l.Gender
	}
	return l.Size
}

// FormatPrice groups thousands with spaces: 1234567 -> "1 234 567".
func FormatPrice(price int64) string {
	s := fmt.Sprintf("%d", price)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	out := strings.Join(groups, " ")
	if neg {
		out = "-" + out
	}
	return out
}
