package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts either a JSON string or a JSON number. Numbers keep
// their literal text, so 42 becomes "42".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the underlying text.
func (f FlexString) String() string {
	return string(f)
}

// Ptr returns a pointer to s as a FlexString.
func Ptr(s string) *FlexString {
	f := FlexString(s)
	return &f
}
