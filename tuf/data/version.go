package data

import (
	"encoding/json"
	"fmt"
)

// Version is a TUF role version number. Versions are positive integers
// and are monotone non-decreasing within a role's history.
type Version int64

// UnmarshalJSON implements json.Unmarshaler, rejecting non-positive
// versions rather than accepting them and failing later at comparison
// time.
func (v *Version) UnmarshalJSON(b []byte) error {
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("data: version: %w", err)
	}
	if n < 1 {
		return fmt.Errorf("data: version must be >= 1, got %d", n)
	}
	*v = Version(n)
	return nil
}
