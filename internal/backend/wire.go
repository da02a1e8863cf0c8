package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexID decodes a JSON value that may arrive as a number or a string.
// Several backend identifier columns have mixed type affinity (the
// notifications project reference in particular), so every identifier is
// normalized to its string form at the wire boundary.
type FlexID string

// UnmarshalJSON accepts numeric, string, and null JSON values.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding id string: %w", err)
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding id number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}

func (f FlexID) String() string {
	return string(f)
}
