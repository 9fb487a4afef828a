package data

import (
	"encoding/json"
	"fmt"
)

// Signed is a signed document: a role payload plus the signatures that
// cover its canonical bytes. It is generic over the payload type so the
// verifier, datastore, and load-phase code all share one implementation
// instead of four near-identical copies, per spec.md §9's
// "polymorphism over roles" note.
type Signed[T Role] struct {
	Signed     T
	Signatures []Signature

	// raw holds the exact bytes of the "signed" sub-object as received,
	// so that canonicalization operates on the document as published
	// rather than as re-derived from this module's struct definition
	// (which may not round-trip fields it doesn't know about).
	raw json.RawMessage
}

type signedEnvelope struct {
	Signed     json.RawMessage `json:"signed"`
	Signatures []Signature     `json:"signatures"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Signed[T]) UnmarshalJSON(b []byte) error {
	var env signedEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("data: signed envelope: %w", err)
	}
	var payload T
	if err := json.Unmarshal(env.Signed, &payload); err != nil {
		return fmt.Errorf("data: signed payload: %w", err)
	}
	s.Signed = payload
	s.Signatures = env.Signatures
	s.raw = env.Signed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Signed[T]) MarshalJSON() ([]byte, error) {
	signedBytes := s.raw
	if signedBytes == nil {
		b, err := json.Marshal(s.Signed)
		if err != nil {
			return nil, fmt.Errorf("data: marshal signed payload: %w", err)
		}
		signedBytes = b
	}
	return json.Marshal(signedEnvelope{Signed: signedBytes, Signatures: s.Signatures})
}

// CanonicalBytes returns the canonical JSON encoding of the "signed"
// sub-object: the bytes that every Signature in this document must
// cover.
func (s Signed[T]) CanonicalBytes() ([]byte, error) {
	if s.raw != nil {
		return canonicalize(s.raw)
	}
	b, err := json.Marshal(s.Signed)
	if err != nil {
		return nil, fmt.Errorf("data: marshal signed payload: %w", err)
	}
	return canonicalize(b)
}

// Sigs returns the signatures attached to this document.
func (s Signed[T]) Sigs() []Signature {
	return s.Signatures
}
