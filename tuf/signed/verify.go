// Package signed implements spec.md §4.4: threshold signature
// verification of a Signed document against a role descriptor carried by
// a trusted Root payload.
package signed

import (
	"fmt"

	"github.com/theupdateframework/go-tuf-client/tuf/data"
	"github.com/theupdateframework/go-tuf-client/tuf/keys"
)

// Document is any role payload that carries canonical bytes and
// signatures — every data.Signed[T] instance satisfies this, so the
// verifier is written once and shared across all four roles (spec.md §9
// "polymorphism over roles").
type Document interface {
	CanonicalBytes() ([]byte, error)
	Sigs() []data.Signature
}

// ErrThresholdNotMet is returned when fewer than the role's threshold of
// distinct, valid signatures were found.
type ErrThresholdNotMet struct {
	Role data.RoleName
	Have int
	Need int
}

func (e ErrThresholdNotMet) Error() string {
	return fmt.Sprintf("signed: role %q has %d valid signatures, needs %d", e.Role, e.Have, e.Need)
}

// VerifyRole verifies that doc carries at least the threshold of
// distinct, valid signatures required by root's descriptor for role,
// per spec.md §4.4:
//
//  1. Resolve the role descriptor for `role` within root.
//  2. Compute the canonical bytes of doc's signed sub-object.
//  3. For each signature whose key_id is both listed in the role
//     descriptor and present in root's keys map, verify it
//     cryptographically; count each distinct key_id at most once, and
//     only on successful verification.
//  4. Succeed if the count is >= threshold.
func VerifyRole(root data.Root, role data.RoleName, doc Document) error {
	desc, ok := root.Roles[role]
	if !ok {
		return fmt.Errorf("signed: root has no descriptor for role %q", role)
	}

	msg, err := doc.CanonicalBytes()
	if err != nil {
		return fmt.Errorf("signed: canonicalize %q document: %w", role, err)
	}

	allowed := make(map[string]struct{}, len(desc.KeyIDs))
	for _, id := range desc.KeyIDs {
		allowed[id] = struct{}{}
	}

	counted := make(map[string]struct{}, desc.Threshold)
	for _, sig := range doc.Sigs() {
		if _, ok := allowed[sig.KeyID]; !ok {
			continue
		}
		if _, ok := counted[sig.KeyID]; ok {
			continue // a key_id is counted at most once
		}
		key, ok := root.Keys[sig.KeyID]
		if !ok {
			continue
		}
		if err := keys.Verify(key, msg, sig.Sig); err != nil {
			continue
		}
		counted[sig.KeyID] = struct{}{}
	}

	if len(counted) < desc.Threshold {
		return ErrThresholdNotMet{Role: role, Have: len(counted), Need: desc.Threshold}
	}
	return nil
}

// VerifySelf verifies a Root document against its own declared root
// role descriptor — used both for the shipped trusted root's
// self-verification (spec.md §4.6 step 1) and for a freshly fetched
// candidate root's self-consistency check (spec.md §4.6 step 3d).
func VerifySelf(candidate data.Root, doc Document) error {
	return VerifyRole(candidate, data.RoleRoot, doc)
}
