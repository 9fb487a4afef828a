package client

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/theupdateframework/go-tuf-client/metrics"
	"github.com/theupdateframework/go-tuf-client/storage"
	"github.com/theupdateframework/go-tuf-client/trustmanager"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
	"github.com/theupdateframework/go-tuf-client/tuf/signed"
)

// loadTargets runs step 4 of spec.md §4.9, ported from
// tough/src/lib.rs's load_targets. Delegated targets traversal is
// explicitly out of scope (spec.md §4.9): the top-level targets map is
// the only source of target descriptors.
func loadTargets(
	ctx context.Context,
	transport storage.Transport,
	root data.Signed[data.Root],
	snapshot data.Signed[data.Snapshot],
	ds *trustmanager.Datastore,
	clk *trustmanager.Clock,
	maxTargetsSize int64,
	metadataBaseURL *url.URL,
	m *metrics.Registry,
) (data.Signed[data.Targets], error) {
	var empty data.Signed[data.Targets]

	meta, ok := snapshot.Signed.TargetsMeta()
	if !ok {
		return empty, &ErrMetaMissing{File: "targets.json", Role: data.RoleSnapshot}
	}

	path := "targets.json"
	if root.Signed.ConsistentSnapshot {
		path = fmt.Sprintf("%d.targets.json", meta.Version)
	}
	fetchURL, err := joinURL(metadataBaseURL, path)
	if err != nil {
		return empty, err
	}

	rc, err := transport.Fetch(ctx, fetchURL)
	if err != nil {
		return empty, &ErrTransport{Cause: err}
	}

	size := meta.Length
	if size == 0 {
		size = maxTargetsSize
	}

	var reader io.Reader = rc
	if sum, ok := meta.Hashes["sha256"]; ok {
		reader = storage.FetchSHA256(storage.FetchMaxSize(reader, size), sum.String())
	} else {
		reader = storage.FetchMaxSize(reader, size)
	}

	targets, err := parseSigned[data.Targets](reader, data.RoleTargets)
	rc.Close()
	if err != nil {
		return empty, err
	}

	if targets.Signed.Version != meta.Version {
		return empty, &ErrVersionMismatch{Role: data.RoleTargets, Fetched: targets.Signed.Version, Expected: meta.Version}
	}

	if err := signed.VerifyRole(root.Signed, data.RoleTargets, targets); err != nil {
		m.IncVerificationFailure("targets", "threshold")
		return empty, &ErrVerifyMetadata{Role: data.RoleTargets, Cause: err}
	}

	if prior, ok := loadVerifiedPrior[data.Targets](ds, root.Signed, data.RoleTargets); ok {
		if prior.Signed.Version > targets.Signed.Version {
			m.IncRollbackDetected("targets")
			return empty, &ErrOlderMetadata{Role: data.RoleTargets, Current: prior.Signed.Version, New: targets.Signed.Version}
		}
	}

	now, err := clk.Now()
	if err != nil {
		return empty, err
	}
	if !now.Before(targets.Signed.Expires) {
		return empty, &ErrExpiredMetadata{Role: data.RoleTargets}
	}
	m.SetExpiration("targets", float64(targets.Signed.Expires.Unix()))

	raw, err := jsonMarshal(targets)
	if err != nil {
		return empty, err
	}
	if err := ds.Create("targets.json", raw); err != nil {
		return empty, err
	}
	return targets, nil
}
