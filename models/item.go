package models

type Item struct {
	ID          int64
	Title       string
	Price       int64
	Image       string
	Sizes       string // "45, 46, 47, ..."
	Description string
	CreatedAt   int64
}
