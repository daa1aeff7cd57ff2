package model

import "time"

const (
	AddressTypeShipping = "shipping"
	AddressTypeBilling  = "billing"
)

// Address is user address model entity
type Address struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	RecipientName string    `json:"recipientName"`
	Phone         string    `json:"phone"`
	Line1         string    `json:"line1"`
	Line2         *string   `json:"line2"`
	SubDistrict   string    `json:"subDistrict"`
	District      string    `json:"district"`
	Province      string    `json:"province"`
	ZipCode       string    `json:"zipCode"`
	Default       bool      `json:"default"`
	Type          string    `json:"type"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
