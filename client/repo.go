// Package client implements the TUF v1.0.0 client workflow: load the
// four top-level roles in strict order (root, timestamp, snapshot,
// targets), enforcing every rollback/freeze/fast-forward/endless-data
// defense along the way, and expose a read-only Repository for target
// lookup and retrieval. Structured the way
// notaryproject-notary/client/example_client_test.go constructs and
// then only reads from a client.Repository — construction does the
// heavy lifting, the returned value is a narrow read API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/theupdateframework/go-tuf-client/metrics"
	"github.com/theupdateframework/go-tuf-client/storage"
	"github.com/theupdateframework/go-tuf-client/trustmanager"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
)

// Target is the read-only view of one target file descriptor exposed by
// Repository.Targets(), named the way tough/src/lib.rs's Target struct
// flattens TargetFile.Hashes.sha256 into a single field for callers that
// only ever care about the one hash algorithm this module verifies.
type Target struct {
	Length int64
	SHA256 data.HexBytes
	Custom map[string]interface{}
}

// Repository is a loaded, fully-verified TUF client state: the set of
// currently trusted top-level targets plus enough context to stream and
// verify an individual target's bytes. It does not mutate after
// construction except that ReadTarget samples the monotone clock on
// every call (spec.md §5).
type Repository struct {
	transport              storage.Transport
	consistentSnapshot     bool
	datastore              *trustmanager.Datastore
	clock                  *trustmanager.Clock
	targetBaseURL          *url.URL
	earliestExpiration     int64 // unix seconds
	earliestExpirationRole data.RoleName
	targets                map[string]Target
}

// Load runs the full TUF client workflow against settings and returns a
// Repository on success, per spec.md §6.
func Load(ctx context.Context, settings Settings, m *metrics.Registry) (*Repository, error) {
	metadataBaseURL, err := normalizeBaseURL(settings.MetadataBaseURL)
	if err != nil {
		return nil, err
	}
	targetBaseURL, err := normalizeBaseURL(settings.TargetBaseURL)
	if err != nil {
		return nil, err
	}

	ds, err := trustmanager.NewDatastore(settings.DatastoreDir)
	if err != nil {
		return nil, err
	}
	clk := trustmanager.NewClock(ds)

	root, err := loadRoot(ctx, settings.Transport, settings.Root, ds, clk, settings.Limits, metadataBaseURL, m)
	if err != nil {
		return nil, err
	}

	timestamp, err := loadTimestamp(ctx, settings.Transport, root, ds, clk, settings.Limits.MaxTimestampSize, metadataBaseURL, m)
	if err != nil {
		return nil, err
	}

	snapshot, err := loadSnapshot(ctx, settings.Transport, root, timestamp, ds, clk, metadataBaseURL, m)
	if err != nil {
		return nil, err
	}

	targets, err := loadTargets(ctx, settings.Transport, root, snapshot, ds, clk, settings.Limits.MaxTargetsSize, metadataBaseURL, m)
	if err != nil {
		return nil, err
	}

	earliestUnix, earliestRole := earliestExpiration(root.Signed, timestamp.Signed, snapshot.Signed, targets.Signed)

	repo := &Repository{
		transport:              settings.Transport,
		consistentSnapshot:     root.Signed.ConsistentSnapshot,
		datastore:              ds,
		clock:                  clk,
		targetBaseURL:          targetBaseURL,
		earliestExpiration:     earliestUnix,
		earliestExpirationRole: earliestRole,
		targets:                make(map[string]Target, len(targets.Signed.Targets)),
	}
	for name, tf := range targets.Signed.Targets {
		custom := make(map[string]interface{}, len(tf.Custom))
		for k, v := range tf.Custom {
			var decoded interface{}
			if err := json.Unmarshal(v, &decoded); err == nil {
				custom[k] = decoded
			}
		}
		repo.targets[name] = Target{
			Length: tf.Length,
			SHA256: tf.SHA256(),
			Custom: custom,
		}
	}

	return repo, nil
}

func earliestExpiration(root, timestamp, snapshot, targets data.Role) (int64, data.RoleName) {
	roles := []data.Role{root, timestamp, snapshot, targets}
	earliest := roles[0].GetExpires().Unix()
	role := roles[0].RoleType()
	for _, r := range roles[1:] {
		if r.GetExpires().Unix() < earliest {
			earliest = r.GetExpires().Unix()
			role = r.RoleType()
		}
	}
	return earliest, role
}

// Targets returns a read-only snapshot of the currently trusted target
// descriptors.
func (r *Repository) Targets() map[string]Target {
	out := make(map[string]Target, len(r.targets))
	for k, v := range r.targets {
		out[k] = v
	}
	return out
}

// ReadTarget streams and verifies the named target's bytes, per
// spec.md §4.10. It returns (nil, nil) if name is not a known target.
// The returned reader is lazy: a checksum mismatch or size overrun
// surfaces from Read, not from this call, and once it does every
// subsequent Read on the same reader keeps failing — callers must
// discard any bytes already read.
func (r *Repository) ReadTarget(ctx context.Context, name string) (io.Reader, error) {
	now, err := r.clock.Now()
	if err != nil {
		return nil, err
	}
	if now.Unix() >= r.earliestExpiration {
		return nil, &ErrExpiredMetadata{Role: r.earliestExpirationRole}
	}

	target, ok := r.targets[name]
	if !ok {
		return nil, nil
	}

	file := name
	if r.consistentSnapshot {
		file = fmt.Sprintf("%s.%s", target.SHA256.String(), name)
	}

	fullURL, err := joinURL(r.targetBaseURL, file)
	if err != nil {
		return nil, err
	}

	rc, err := r.transport.Fetch(ctx, fullURL)
	if err != nil {
		return nil, &ErrTransport{Cause: err}
	}
	return &closingReader{
		r: storage.FetchSHA256(storage.FetchMaxSize(rc, target.Length), target.SHA256.String()),
		c: rc,
	}, nil
}

// closingReader closes its underlying transport stream once the wrapped
// reader is fully drained or errors, satisfying spec.md §5's scoped-
// resource-release requirement without making callers call Close
// themselves.
type closingReader struct {
	r io.Reader
	c io.Closer
}

func (cr *closingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if err != nil {
		cr.c.Close()
	}
	return n, err
}
