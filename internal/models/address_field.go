package models

import (
	"github.com/bytecodeman/addressesapi/internal/constants"
)

// AddressField enumerates the text fields a client may write.
// It is the only source of column names for dynamically built statements.
type AddressField int

const (
	FieldName AddressField = iota + 1
	FieldAddress
	FieldCity
	FieldState
	FieldZip
)

// AddressFields lists every writable field in column order.
var AddressFields = []AddressField{FieldName, FieldAddress, FieldCity, FieldState, FieldZip}

var fieldKeys = map[AddressField]string{
	FieldName:    "name",
	FieldAddress: "address",
	FieldCity:    "city",
	FieldState:   "state",
	FieldZip:     "zip",
}

var fieldColumns = map[AddressField]string{
	FieldName:    constants.ColumnName,
	FieldAddress: constants.ColumnAddress,
	FieldCity:    constants.ColumnCity,
	FieldState:   constants.ColumnState,
	FieldZip:     constants.ColumnZip,
}

// ParseAddressField maps a JSON key to its field. Matching is exact and case-sensitive.
func ParseAddressField(key string) (AddressField, bool) {
	for _, f := range AddressFields {
		if fieldKeys[f] == key {
			return f, true
		}
	}
	return 0, false
}

// String returns the JSON key of the field.
func (f AddressField) String() string {
	if key, ok := fieldKeys[f]; ok {
		return key
	}
	return "unknown"
}

// Column returns the database column backing the field.
func (f AddressField) Column() string {
	return fieldColumns[f]
}

// Valid reports whether f is one of the declared fields.
func (f AddressField) Valid() bool {
	_, ok := fieldColumns[f]
	return ok
}

// FieldValue pairs a field with the value to store in it.
type FieldValue struct {
	Field AddressField
	Value string
}
