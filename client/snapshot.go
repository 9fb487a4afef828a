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

// loadSnapshot runs step 3 of spec.md §4.8, ported from
// tough/src/lib.rs's load_snapshot.
func loadSnapshot(
	ctx context.Context,
	transport storage.Transport,
	root data.Signed[data.Root],
	timestamp data.Signed[data.Timestamp],
	ds *trustmanager.Datastore,
	clk *trustmanager.Clock,
	metadataBaseURL *url.URL,
	m *metrics.Registry,
) (data.Signed[data.Snapshot], error) {
	var empty data.Signed[data.Snapshot]

	meta, ok := timestamp.Signed.SnapshotMeta()
	if !ok {
		return empty, &ErrMetaMissing{File: "snapshot.json", Role: data.RoleTimestamp}
	}

	path := "snapshot.json"
	if root.Signed.ConsistentSnapshot {
		path = fmt.Sprintf("%d.snapshot.json", meta.Version)
	}
	fetchURL, err := joinURL(metadataBaseURL, path)
	if err != nil {
		return empty, err
	}

	rc, err := transport.Fetch(ctx, fetchURL)
	if err != nil {
		return empty, &ErrTransport{Cause: err}
	}
	sum, hasSHA256 := meta.Hashes["sha256"]
	var reader io.Reader = rc
	if hasSHA256 {
		reader = storage.FetchSHA256(storage.FetchMaxSize(reader, meta.Length), sum.String())
	} else {
		reader = storage.FetchMaxSize(reader, meta.Length)
	}
	snapshot, err := parseSigned[data.Snapshot](reader, data.RoleSnapshot)
	rc.Close()
	if err != nil {
		return empty, err
	}

	if snapshot.Signed.Version != meta.Version {
		return empty, &ErrVersionMismatch{Role: data.RoleSnapshot, Fetched: snapshot.Signed.Version, Expected: meta.Version}
	}

	if err := signed.VerifyRole(root.Signed, data.RoleSnapshot, snapshot); err != nil {
		m.IncVerificationFailure("snapshot", "threshold")
		return empty, &ErrVerifyMetadata{Role: data.RoleSnapshot, Cause: err}
	}

	if prior, ok := loadVerifiedPrior[data.Snapshot](ds, root.Signed, data.RoleSnapshot); ok {
		if prior.Signed.Version > snapshot.Signed.Version {
			m.IncRollbackDetected("snapshot")
			return empty, &ErrOlderMetadata{Role: data.RoleSnapshot, Current: prior.Signed.Version, New: snapshot.Signed.Version}
		}
		if priorTargetsMeta, ok := prior.Signed.TargetsMeta(); ok {
			newTargetsMeta, ok := snapshot.Signed.TargetsMeta()
			if !ok {
				return empty, &ErrMetaMissing{File: "targets.json", Role: data.RoleSnapshot}
			}
			if priorTargetsMeta.Version > newTargetsMeta.Version {
				m.IncRollbackDetected("snapshot")
				return empty, &ErrOlderMetadata{Role: data.RoleTargets, Current: priorTargetsMeta.Version, New: newTargetsMeta.Version}
			}
		}
	}

	now, err := clk.Now()
	if err != nil {
		return empty, err
	}
	if !now.Before(snapshot.Signed.Expires) {
		return empty, &ErrExpiredMetadata{Role: data.RoleSnapshot}
	}
	m.SetExpiration("snapshot", float64(snapshot.Signed.Expires.Unix()))

	raw, err := jsonMarshal(snapshot)
	if err != nil {
		return empty, err
	}
	if err := ds.Create("snapshot.json", raw); err != nil {
		return empty, err
	}
	return snapshot, nil
}
