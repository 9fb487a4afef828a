package data

import (
	"fmt"
	"time"
)

// RoleName names one of the four top-level TUF roles this module
// understands. Delegated target roles are out of scope.
type RoleName string

const (
	RoleRoot      RoleName = "root"
	RoleTimestamp RoleName = "timestamp"
	RoleSnapshot  RoleName = "snapshot"
	RoleTargets   RoleName = "targets"
)

// MinThreshold is the lowest signature threshold a role may declare.
const MinThreshold = 1

func (r RoleName) String() string { return string(r) }

// RoleKeys is a role descriptor: the set of keys trusted to sign for a
// role and the threshold of distinct valid signatures required.
type RoleKeys struct {
	KeyIDs    []string `json:"keyids"`
	Threshold int      `json:"threshold"`
}

// NewRoleKeys builds a RoleKeys descriptor, enforcing
// threshold <= len(keyIDs) per spec.md's Role descriptor invariant.
func NewRoleKeys(keyIDs []string, threshold int) (*RoleKeys, error) {
	if threshold < MinThreshold {
		return nil, fmt.Errorf("data: role threshold must be >= %d, got %d", MinThreshold, threshold)
	}
	if threshold > len(keyIDs) {
		return nil, fmt.Errorf("data: role threshold %d exceeds key count %d", threshold, len(keyIDs))
	}
	return &RoleKeys{KeyIDs: keyIDs, Threshold: threshold}, nil
}

// Role is the capability set shared by every top-level payload: a
// version, an expiration, and a role type tag. This is the
// "polymorphism over roles" design note from spec.md §9 — a small
// trait-like interface rather than a class hierarchy.
type Role interface {
	RoleType() RoleName
	GetVersion() Version
	GetExpires() time.Time
}

// Root is the payload of the root role: the trust anchor naming every
// role's keys and thresholds.
type Root struct {
	Type               string               `json:"_type"`
	SpecVersion        string               `json:"spec_version,omitempty"`
	Version            Version              `json:"version"`
	Expires            time.Time            `json:"expires"`
	ConsistentSnapshot bool                 `json:"consistent_snapshot"`
	Keys               map[string]Key       `json:"keys"`
	Roles              map[RoleName]RoleKeys `json:"roles"`
}

// RoleType implements Role.
func (r Root) RoleType() RoleName { return RoleRoot }

// GetVersion implements Role.
func (r Root) GetVersion() Version { return r.Version }

// GetExpires implements Role.
func (r Root) GetExpires() time.Time { return r.Expires }

// Validate checks the invariants spec.md §3 places on a Root payload:
// every role's threshold is satisfiable by its key set, every
// referenced key_id resolves in the global keys map, and every key in
// that map is actually stored under its own content-derived id (the
// binding the keys map's type, map<key_id, Key>, assumes).
func (r Root) Validate() error {
	for keyID, key := range r.Keys {
		id, err := key.ID()
		if err != nil {
			return fmt.Errorf("data: root key %q: %w", keyID, err)
		}
		if id != keyID {
			return fmt.Errorf("data: root key %q is stored under a key id that does not match its content (%q)", keyID, id)
		}
	}
	for _, name := range []RoleName{RoleRoot, RoleTimestamp, RoleSnapshot, RoleTargets} {
		desc, ok := r.Roles[name]
		if !ok {
			return fmt.Errorf("data: root missing role descriptor for %q", name)
		}
		if desc.Threshold > len(desc.KeyIDs) {
			return fmt.Errorf("data: role %q threshold %d exceeds key count %d", name, desc.Threshold, len(desc.KeyIDs))
		}
		if desc.Threshold < MinThreshold {
			return fmt.Errorf("data: role %q threshold must be >= %d", name, MinThreshold)
		}
		for _, keyID := range desc.KeyIDs {
			if _, ok := r.Keys[keyID]; !ok {
				return fmt.Errorf("data: role %q references unknown key id %q", name, keyID)
			}
		}
	}
	return nil
}

// KeysForRole returns the Key values a role descriptor references, in
// the order listed, skipping any key_id the global keys map doesn't
// resolve (Validate should be called first to reject that case, but
// rekey-detection callers compare this slice directly).
func (r Root) KeysForRole(name RoleName) []Key {
	desc, ok := r.Roles[name]
	if !ok {
		return nil
	}
	keys := make([]Key, 0, len(desc.KeyIDs))
	for _, keyID := range desc.KeyIDs {
		if k, ok := r.Keys[keyID]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// KeySetsEqual reports whether two key slices contain the same keys
// (by full value, not just key_id), order-independent.
func KeySetsEqual(a, b []Key) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ka := range a {
		found := false
		for i, kb := range b {
			if used[i] {
				continue
			}
			if ka.Equal(kb) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
