package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID identifies a stored record. Relational backends hand out auto-increment
// integers, the document backend hands out ObjectID hex strings; callers treat
// both as opaque.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether no identity was assigned yet.
func (id ID) IsZero() bool { return id == "" }

// Uint returns the numeric form of a relational id.
func (id ID) Uint() (uint, bool) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// UintID builds an ID from a relational primary key.
func UintID(n uint) ID {
	return ID(strconv.FormatUint(uint64(n), 10))
}

// MarshalJSON writes numeric ids as JSON numbers and everything else as
// strings, so relational clients keep seeing {"id": 7}.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
