package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is an ordered []string stored as a JSON array in a TEXT column.
// Scan also accepts an already-decoded []string so rows coming from a cache or
// a test double read the same way as fresh rows.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []string:
		*l = append(StringList{}, v...)
		return nil
	case StringList:
		*l = append(StringList{}, v...)
		return nil
	case []byte:
		return l.decode(v)
	case string:
		return l.decode([]byte(v))
	default:
		return fmt.Errorf("models: cannot scan %T into StringList", src)
	}
}

func (l *StringList) decode(b []byte) error {
	if len(b) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("models: decode string list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// MarshalJSON keeps nil lists as [] on the wire.
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}
