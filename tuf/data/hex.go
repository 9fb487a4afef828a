package data

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HexBytes is a byte string that is serialized to and from JSON as a
// lowercase hex string, matching TUF's wire representation for digests
// and signatures.
type HexBytes []byte

// MarshalJSON implements json.Marshaler.
func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(h))
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HexBytes) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("data: hex bytes: %w", err)
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("data: invalid hex string: %w", err)
	}
	*h = decoded
	return nil
}

// String returns the lowercase hex encoding of h.
func (h HexBytes) String() string {
	return hex.EncodeToString(h)
}

// Hashes is the set of digests published for a metadata or target file,
// keyed by algorithm name ("sha256", ...).
type Hashes map[string]HexBytes
