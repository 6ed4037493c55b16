package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/bytecodeman/addressesapi/internal/constants"
	"github.com/bytecodeman/addressesapi/internal/utils"
)

// PatchEntry is one key of a partial update body with its undecoded value.
type PatchEntry struct {
	Key   string
	Value json.RawMessage
}

// StringValue returns the entry's value when it is a JSON string.
func (e PatchEntry) StringValue() (string, bool) {
	raw := bytes.TrimSpace(e.Value)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// DecodePatchPayload reads a JSON object and returns its members in the order
// they appear. A repeated key keeps its first position and takes its last value.
// An empty body or a literal null yields no entries.
func DecodePatchPayload(r io.Reader) ([]PatchEntry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.MapJSONError(err)
	}
	if tok == nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, utils.NewBadRequestError(constants.MsgBodyMustBeObject)
	}

	var entries []PatchEntry
	positions := make(map[string]int)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, truncatedJSONError(err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, utils.NewBadRequestError(constants.MsgMalformedJSON)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, truncatedJSONError(err)
		}

		if i, seen := positions[key]; seen {
			entries[i].Value = value
			continue
		}
		positions[key] = len(entries)
		entries = append(entries, PatchEntry{Key: key, Value: value})
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return nil, truncatedJSONError(err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, utils.NewBadRequestError("Request body must only contain a single JSON object")
	}

	return entries, nil
}

// truncatedJSONError maps decoder errors that occur after the opening brace.
// Running out of input at that point means the object was cut short.
func truncatedJSONError(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return utils.MapJSONError(err)
}

// FilterPatch keeps the entries naming a writable field, in the order supplied,
// and checks their values.
//
// Returns a validation error when the payload is empty, when no entry names a
// writable field, or when a writable field carries a non-string, blank or
// over-long value.
func FilterPatch(entries []PatchEntry) ([]FieldValue, error) {
	if len(entries) == 0 {
		return nil, utils.NewValidationError("", constants.MsgNoFieldsToUpdate)
	}

	updates := make([]FieldValue, 0, len(entries))
	for _, entry := range entries {
		field, ok := ParseAddressField(entry.Key)
		if !ok {
			continue
		}

		value, ok := entry.StringValue()
		if !ok {
			return nil, utils.NewValidationError(entry.Key, "Must be a string")
		}
		if err := utils.ValidateVar(entry.Key, value, "required,notblank,max=255"); err != nil {
			return nil, err
		}

		updates = append(updates, FieldValue{Field: field, Value: value})
	}

	if len(updates) == 0 {
		return nil, utils.NewValidationError("", constants.MsgNoValidFields)
	}

	return updates, nil
}

// RecognizedStrings returns the string values of entries naming a writable field.
// Entries with other value types are skipped; FilterPatch rejects them later.
func RecognizedStrings(entries []PatchEntry) []FieldValue {
	var values []FieldValue
	for _, entry := range entries {
		field, ok := ParseAddressField(entry.Key)
		if !ok {
			continue
		}
		if value, ok := entry.StringValue(); ok {
			values = append(values, FieldValue{Field: field, Value: value})
		}
	}
	return values
}
