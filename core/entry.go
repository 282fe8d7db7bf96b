// Package core — chronology entry.
// Entry keeps every field the API sends so write-back round-trips the
// record untouched apart from entryFinal.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean that also accepts the loosely typed string forms the
// API produces ("True", "false", "1", "").
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding flag: %w", err)
	}

	switch v := raw.(type) {
	case bool:
		*f = Flag(v)
	case float64:
		*f = v != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		*f = Flag(err == nil && b)
	default:
		*f = false
	}
	return nil
}

// Entry is one chronology record.
type Entry struct {
	ID            int64
	BookItemID    int64
	EntryOriginal string
	// EntryFinal is nil until something writes it; absent and empty differ.
	EntryFinal   *string
	DocumentType string
	Description  string
	Handwritten  Flag

	// raw holds every field as received; received is what raw decoded to.
	raw      map[string]json.RawMessage
	received entryFields
}

// entryFields is the decoded form of the fields Entry owns.
type entryFields struct {
	ID            int64
	BookItemID    int64
	EntryOriginal string
	EntryFinal    *string
	DocumentType  string
	Description   string
	Handwritten   Flag
}

func (e Entry) fields() entryFields {
	return entryFields{
		ID:            e.ID,
		BookItemID:    e.BookItemID,
		EntryOriginal: e.EntryOriginal,
		EntryFinal:    e.EntryFinal,
		DocumentType:  e.DocumentType,
		Description:   e.Description,
		Handwritten:   e.Handwritten,
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding entry: %w", err)
	}

	var known struct {
		ID            int64   `json:"id"`
		BookItemID    int64   `json:"bookItemId"`
		EntryOriginal *string `json:"entryOriginal"`
		EntryFinal    *string `json:"entryFinal"`
		DocumentType  *string `json:"documentType"`
		Description   *string `json:"description"`
		Handwritten   Flag    `json:"handwritten"`
	}
	if err := json.Unmarshal(data, &known); err != nil {
		return fmt.Errorf("decoding entry: %w", err)
	}

	*e = Entry{
		ID:            known.ID,
		BookItemID:    known.BookItemID,
		EntryOriginal: deref(known.EntryOriginal),
		EntryFinal:    known.EntryFinal,
		DocumentType:  deref(known.DocumentType),
		Description:   deref(known.Description),
		Handwritten:   known.Handwritten,
		raw:           raw,
	}
	e.received = e.fields()
	return nil
}

// MarshalJSON implements json.Marshaler. Received fields are written back
// byte for byte unless their value was changed after decoding. Fields the
// API did not send are added only when they hold a value.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.raw)+7)
	for k, v := range e.raw {
		out[k] = v
	}

	cur, was := e.fields(), e.received
	decoded := e.raw != nil
	set := func(key string, v any, changed, zero bool) error {
		_, received := e.raw[key]
		if (received && !changed) || (!received && zero) {
			return nil
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		out[key] = data
		return nil
	}

	for _, err := range []error{
		set("id", cur.ID, cur.ID != was.ID, decoded && cur.ID == 0),
		set("bookItemId", cur.BookItemID, cur.BookItemID != was.BookItemID, cur.BookItemID == 0),
		set("entryOriginal", cur.EntryOriginal, cur.EntryOriginal != was.EntryOriginal, decoded && cur.EntryOriginal == ""),
		set("entryFinal", cur.EntryFinal, !samePtr(cur.EntryFinal, was.EntryFinal), cur.EntryFinal == nil),
		set("documentType", cur.DocumentType, cur.DocumentType != was.DocumentType, cur.DocumentType == ""),
		set("description", cur.Description, cur.Description != was.Description, cur.Description == ""),
		set("handwritten", bool(cur.Handwritten), cur.Handwritten != was.Handwritten, !bool(cur.Handwritten)),
	} {
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Final returns entryFinal, or "" when it is absent.
func (e Entry) Final() string {
	return deref(e.EntryFinal)
}

// SetFinal stores a normalized fragment in entryFinal.
func (e *Entry) SetFinal(s string) {
	e.EntryFinal = &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
