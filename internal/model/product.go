package model

import "time"

// Product is product model entity
type Product struct {
	ID            string     `json:"id" msgpack:"id"`
	CategoryID    *string    `json:"categoryId" msgpack:"categoryId"`
	Name          string     `json:"name" msgpack:"name"`
	Slug          string     `json:"slug" msgpack:"slug"`
	SKU           *string    `json:"sku" msgpack:"sku"`
	Description   *string    `json:"description" msgpack:"description"`
	Price         float64    `json:"price" msgpack:"price"`
	StockQuantity int        `json:"stockQuantity" msgpack:"stockQuantity"`
	ImageURL      *string    `json:"imageUrl" msgpack:"imageUrl"`
	Active        bool       `json:"active" msgpack:"active"`
	DeletedAt     *time.Time `json:"-" msgpack:"-"`
	CreatedAt     time.Time  `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt" msgpack:"updatedAt"`
}
