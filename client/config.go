package client

import "github.com/theupdateframework/go-tuf-client/storage"

// Limits bounds how many bytes each kind of fetch may consume and how
// many intermediate root versions a single load may walk through,
// following the nested-config-struct + mapstructure/json tag pair
// notary's RemoteServerConfig/TrustPinningConfig use (client/config.go
// in the teacher tree) so the same struct can be populated from Viper
// as well as from literal Go construction.
type Limits struct {
	MaxRootSize      int64 `json:"max_root_size" mapstructure:"max_root_size"`
	MaxTargetsSize   int64 `json:"max_targets_size" mapstructure:"max_targets_size"`
	MaxTimestampSize int64 `json:"max_timestamp_size" mapstructure:"max_timestamp_size"`
	MaxRootUpdates   int   `json:"max_root_updates" mapstructure:"max_root_updates"`
}

// DefaultLimits returns the limits named in spec.md §6: 1 MiB root, 10
// MiB targets, 1 MiB timestamp, 1024 root updates.
func DefaultLimits() Limits {
	return Limits{
		MaxRootSize:      1 << 20,
		MaxTargetsSize:   10 << 20,
		MaxTimestampSize: 1 << 20,
		MaxRootUpdates:   1024,
	}
}

// Settings is the single configuration record Load takes.
type Settings struct {
	// Root is the trusted shipped root document bytes — the source of
	// trust bootstrapping every other check.
	Root []byte `json:"-" mapstructure:"-"`

	// DatastoreDir is the path to an existing directory used to persist
	// trusted metadata and the monotone-clock floor.
	DatastoreDir string `json:"datastore_dir" mapstructure:"datastore_dir"`

	MetadataBaseURL string `json:"metadata_base_url" mapstructure:"metadata_base_url"`
	TargetBaseURL   string `json:"target_base_url" mapstructure:"target_base_url"`

	Limits Limits `json:"limits" mapstructure:"limits"`

	// Transport fetches metadata and target bytes. Required.
	Transport storage.Transport `json:"-" mapstructure:"-"`
}
