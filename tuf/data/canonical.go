package data

import (
	"fmt"

	canonicaljson "github.com/docker/go/canonical/json"
)

// canonicalize re-encodes arbitrary JSON bytes using TUF's canonical JSON
// rules: object keys sorted lexicographically, no insignificant
// whitespace, UTF-8, deterministic number formatting.
//
// b is decoded into a generic value first (rather than a typed Go struct)
// so that canonicalization is a property of the JSON document itself, not
// of this module's struct field ordering, and so that fields this module
// does not know about (e.g. a future optional field) still round-trip
// into the signed bytes exactly as published.
func canonicalize(b []byte) ([]byte, error) {
	var generic interface{}
	if err := canonicaljson.Unmarshal(b, &generic); err != nil {
		return nil, fmt.Errorf("data: canonicalize: decode: %w", err)
	}
	out, err := canonicaljson.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("data: canonicalize: encode: %w", err)
	}
	return out, nil
}

// marshalCanonicalValue encodes an already-generic Go value (built from
// maps/slices/strings, not a typed struct) directly through the canonical
// encoder.
func marshalCanonicalValue(v interface{}) ([]byte, error) {
	return canonicaljson.Marshal(v)
}
