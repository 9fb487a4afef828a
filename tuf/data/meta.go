package data

import "time"

// FileMeta describes one file entry in a Timestamp's or Snapshot's meta
// map: the version of the referenced file, and optionally its length and
// digests (required for snapshot.json inside timestamp.json; optional
// for targets.json inside snapshot.json, per spec.md §3).
type FileMeta struct {
	Version Version `json:"version"`
	Length  int64   `json:"length,omitempty"`
	Hashes  Hashes  `json:"hashes,omitempty"`
}

// Timestamp is the payload of the timestamp role: a pointer to the
// current snapshot.
type Timestamp struct {
	Type    string              `json:"_type"`
	Version Version             `json:"version"`
	Expires time.Time           `json:"expires"`
	Meta    map[string]FileMeta `json:"meta"`
}

func (t Timestamp) RoleType() RoleName     { return RoleTimestamp }
func (t Timestamp) GetVersion() Version    { return t.Version }
func (t Timestamp) GetExpires() time.Time  { return t.Expires }

// SnapshotMeta returns the "snapshot.json" entry required by spec.md §3.
func (t Timestamp) SnapshotMeta() (FileMeta, bool) {
	m, ok := t.Meta["snapshot.json"]
	return m, ok
}

// Snapshot is the payload of the snapshot role: a consistent view of
// every targets file's version (and, for this CORE, only the top-level
// targets.json).
type Snapshot struct {
	Type    string              `json:"_type"`
	Version Version             `json:"version"`
	Expires time.Time           `json:"expires"`
	Meta    map[string]FileMeta `json:"meta"`
}

func (s Snapshot) RoleType() RoleName    { return RoleSnapshot }
func (s Snapshot) GetVersion() Version   { return s.Version }
func (s Snapshot) GetExpires() time.Time { return s.Expires }

// TargetsMeta returns the "targets.json" entry required by spec.md §3.
func (s Snapshot) TargetsMeta() (FileMeta, bool) {
	m, ok := s.Meta["targets.json"]
	return m, ok
}
