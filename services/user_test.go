package services

import (
	"reflect"
	"testing"

	"shop-telegram/models"
)

func TestRecipientIDs(t *testing.T) {
	users := []models.User{
		{ID: 1, TelegramID: 101, IsActive: true},
		{ID: 2, TelegramID: 202, IsActive: true},
		{ID: 5, TelegramID: 505, IsActive: true},
	}
	want := []int64{101, 202, 505}
	if got := RecipientIDs(users); !reflect.DeepEqual(got, want) {
		t.Errorf("RecipientIDs() = %v, want %v", got, want)
	}
	if got := RecipientIDs(nil); len(got) != 0 {
		t.Errorf("RecipientIDs(nil) = %v, want empty", got)
	}
}
