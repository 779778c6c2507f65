package models

// User is a known bot user; the broadcast recipient list.
type User struct {
	ID              int64
	TelegramID      int64
	IsActive        bool
	CreatedAt       int64
	LastInteraction int64
}
