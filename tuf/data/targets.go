package data

import (
	"encoding/json"
	"time"
)

// TargetFile is the descriptor for one named target in a Targets
// payload: its length, digests, and any caller-defined custom metadata.
type TargetFile struct {
	Length int64                      `json:"length"`
	Hashes Hashes                     `json:"hashes"`
	Custom map[string]json.RawMessage `json:"custom,omitempty"`
}

// SHA256 returns the target's expected sha256 digest, or nil if the
// repository did not publish one (which should never happen for a
// conformant repository, but callers should not panic on it).
func (t TargetFile) SHA256() HexBytes {
	return t.Hashes["sha256"]
}

// Targets is the payload of the (top-level) targets role. Delegated
// targets roles are out of scope for this module; this is the only
// source of target descriptors it consults.
type Targets struct {
	Type    string                `json:"_type"`
	Version Version               `json:"version"`
	Expires time.Time             `json:"expires"`
	Targets map[string]TargetFile `json:"targets"`
}

func (t Targets) RoleType() RoleName    { return RoleTargets }
func (t Targets) GetVersion() Version   { return t.Version }
func (t Targets) GetExpires() time.Time { return t.Expires }
