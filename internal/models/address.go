// Package models provides the data structures exchanged by the addresses API.
package models

import "time"

// Address is a single postal address record.
type Address struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	Zip       string    `json:"zip" db:"zip"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AddressWithPosition is an address together with its 1-based position
// when all addresses are ordered by id.
type AddressWithPosition struct {
	Address
	RecordNo int64 `json:"recordNo" db:"record_no"`
}

// AddressInput is the payload of create and replace requests.
// All five fields are mandatory.
type AddressInput struct {
	Name    string `json:"name" validate:"required,notblank,max=255"`
	Address string `json:"address" validate:"required,notblank,max=255"`
	City    string `json:"city" validate:"required,notblank,max=255"`
	State   string `json:"state" validate:"required,notblank,max=255"`
	Zip     string `json:"zip" validate:"required,notblank,max=255"`
}

// FieldValues returns the input as field/value pairs in column order.
func (in *AddressInput) FieldValues() []FieldValue {
	return []FieldValue{
		{Field: FieldName, Value: in.Name},
		{Field: FieldAddress, Value: in.Address},
		{Field: FieldCity, Value: in.City},
		{Field: FieldState, Value: in.State},
		{Field: FieldZip, Value: in.Zip},
	}
}

// PageMetadata describes where a page sits within the full listing.
type PageMetadata struct {
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	Limit        int   `json:"limit"`
}

// AddressPage is one page of the address listing.
type AddressPage struct {
	Data     []Address    `json:"data"`
	Metadata PageMetadata `json:"metadata"`
}

// SearchResult lists the ids of addresses matching a search keyword.
type SearchResult struct {
	IDs []int64 `json:"ids"`
}

// CountResult carries the total number of addresses.
type CountResult struct {
	Count int64 `json:"count"`
}

// CreateResult is returned after a successful insert.
type CreateResult struct {
	Message   string `json:"message"`
	AddressID int64  `json:"addressId"`
}
