package services

import (
	"errors"
	"strings"
	"testing"

	"shop-telegram/models"
)

func testCatalog() ItemLookup {
	items := map[int64]*models.Item{
		3: {ID: 3, Title: "Futbolka", Price: 100},
		5: {ID: 5, Title: "Shim", Price: 200},
	}
	return func(itemID int64) (*models.Item, error) {
		item, ok := items[itemID]
		if !ok {
			return nil, ErrNotFound
		}
		return item, nil
	}
}

func TestSummarizeItemsTotal(t *testing.T) {
	sum, err := SummarizeItems(map[string]int{"3-M": 2, "5-L-male": 1}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 400 {
		t.Errorf("Total = %d, want 400", sum.Total)
	}
	if len(sum.Lines) != 2 {
		t.Fatalf("Lines = %d, want 2", len(sum.Lines))
	}
	// Keys are sorted, so "3-M" comes first.
	if sum.Lines[0].Title != "Futbolka" || sum.Lines[0].Quantity != 2 || sum.Lines[0].Subtotal != 200 {
		t.Errorf("line 0 = %+v", sum.Lines[0])
	}
	if sum.Lines[1].Title != "Shim" || sum.Lines[1].Gender != "male" || sum.Lines[1].Subtotal != 200 {
		t.Errorf("line 1 = %+v", sum.Lines[1])
	}
}

func TestSummarizeItemsSkipsBadLines(t *testing.T) {
	// A vanished catalog item and a non-positive quantity are skipped
	// without affecting the rest.
	sum, err := SummarizeItems(map[string]int{"3-M": 2, "99-S": 1, "5-L": 0}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 200 {
		t.Errorf("Total = %d, want 200", sum.Total)
	}
	if len(sum.Lines) != 1 {
		t.Errorf("Lines = %d, want 1", len(sum.Lines))
	}
}

func TestSummarizeItemsErrors(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]int
		want  error
	}{
		{"empty map", map[string]int{}, ErrMalformedOrder},
		{"malformed key", map[string]int{"bogus": 1}, ErrMalformedOrder},
		{"all lines skipped", map[string]int{"99-S": 1, "3-M": 0}, ErrEmptyOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SummarizeItems(tt.items, testCatalog())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSummarizeItemsPersistenceErrorAborts(t *testing.T) {
	// A failing lookup is a storage problem, not a vanished item: the
	// summary must surface it instead of skipping every line and
	// misreporting the order as empty.
	dbDown := errors.New("connection refused")
	broken := func(int64) (*models.Item, error) { return nil, dbDown }

	_, err := SummarizeItems(map[string]int{"3-M": 2, "5-L-male": 1}, broken)
	if !errors.Is(err, dbDown) {
		t.Fatalf("error = %v, want wrapped %v", err, dbDown)
	}
	if errors.Is(err, ErrEmptyOrder) || errors.Is(err, ErrMalformedOrder) {
		t.Errorf("persistence failure must not collapse into an order error, got %v", err)
	}
}

func TestSummarizeOrder(t *testing.T) {
	o := &models.Order{
		ID:        1,
		UserID:    10,
		UserName:  strPtr("Burxon Nurmurodov"),
		UserPhone: strPtr("+998901234567"),
		Items:     `{"3-M": 2, "5-L-male": 1}`,
	}
	sum, err := SummarizeOrder(o, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if sum.Total != 400 {
		t.Errorf("Total = %d, want 400", sum.Total)
	}
	if sum.Name != "Burxon Nurmurodov" || sum.Phone != "+998901234567" {
		t.Errorf("contact = %q / %q", sum.Name, sum.Phone)
	}

	for _, raw := range []string{"", "not json", "{}", "[1,2]"} {
		o := &models.Order{Items: raw}
		if _, err := SummarizeOrder(o, testCatalog()); !errors.Is(err, ErrMalformedOrder) {
			t.Errorf("items %q: error = %v, want ErrMalformedOrder", raw, err)
		}
	}
}

func TestSummaryTexts(t *testing.T) {
	sum, err := SummarizeItems(map[string]int{"3-M": 2, "5-L-male": 1}, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	sum.Name = "Burxon"
	sum.Phone = "+998901234567"

	ch := sum.ChannelText()
	for _, want := range []string{
		"YANGI BUYURTMA",
		"<code>Burxon</code>",
		"<code>+998901234567</code>",
		"Futbolka</b> <i>(M)</i>",
		"Shim</b> <i>(L, male)</i>",
		"Soni: 2 ta",
		"<b>Jami:</b> 400 UZS",
	} {
		if !strings.Contains(ch, want) {
			t.Errorf("ChannelText missing %q:\n%s", want, ch)
		}
	}

	ut := sum.UserText()
	for _, want := range []string{
		"Sizning buyurtmalaringiz",
		"Futbolka (M) - 2 dona - 200 so'm",
		"Jami: 400 so'm",
	} {
		if !strings.Contains(ut, want) {
			t.Errorf("UserText missing %q:\n%s", want, ut)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{400, "400"},
		{1234567, "1 234 567"},
		{-45000, "-45 000"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
