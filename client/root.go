package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theupdateframework/go-tuf-client/metrics"
	"github.com/theupdateframework/go-tuf-client/storage"
	"github.com/theupdateframework/go-tuf-client/trustmanager"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
	"github.com/theupdateframework/go-tuf-client/tuf/signed"
)

// loadRoot runs steps 0-1 of spec.md §4.6: parse and self-verify the
// shipped trusted root, then walk forward through intermediate root
// versions until the transport reports none are left, checking
// continuity and self-consistency at each step. Ported behavior-for-
// behavior from tough/src/lib.rs's load_root, expressed with notary's
// logrus field idiom (client/isolated.go in the teacher tree logs this
// way around cryptoservice calls).
func loadRoot(
	ctx context.Context,
	transport storage.Transport,
	rootBytes []byte,
	ds *trustmanager.Datastore,
	clk *trustmanager.Clock,
	limits Limits,
	metadataBaseURL *url.URL,
	m *metrics.Registry,
) (data.Signed[data.Root], error) {
	var trusted data.Signed[data.Root]
	if err := json.Unmarshal(rootBytes, &trusted); err != nil {
		return trusted, &ErrParseTrustedMetadata{Cause: err}
	}
	if err := signed.VerifySelf(trusted.Signed, trusted); err != nil {
		return trusted, &ErrVerifyTrustedMetadata{Cause: err}
	}
	if err := trusted.Signed.Validate(); err != nil {
		return trusted, &ErrVerifyTrustedMetadata{Cause: err}
	}

	originalVersion := trusted.Signed.Version
	originalTimestampKeys := trusted.Signed.KeysForRole(data.RoleTimestamp)
	originalSnapshotKeys := trusted.Signed.KeysForRole(data.RoleSnapshot)

	for {
		if int64(trusted.Signed.Version) >= int64(originalVersion)+int64(limits.MaxRootUpdates) {
			return trusted, &ErrMaxUpdatesExceeded{MaxRootUpdates: limits.MaxRootUpdates}
		}

		path := fmt.Sprintf("%d.root.json", trusted.Signed.Version+1)
		fetchURL, err := joinURL(metadataBaseURL, path)
		if err != nil {
			return trusted, err
		}

		start := time.Now()
		rc, err := transport.Fetch(ctx, fetchURL)
		if err != nil {
			// Not available: stop rotating and move on to the freeze
			// check, per spec.md §4.6 step 3b.
			logrus.WithField("url", fetchURL).Debug("no further root versions available")
			break
		}
		candidate, err := parseSigned[data.Root](storage.FetchMaxSize(rc, limits.MaxRootSize), data.RoleRoot)
		rc.Close()
		m.ObserveFetchDuration("root", time.Since(start).Seconds())
		if err != nil {
			return trusted, err
		}

		if err := signed.VerifyRole(trusted.Signed, data.RoleRoot, candidate); err != nil {
			m.IncVerificationFailure("root", "continuity")
			return trusted, &ErrVerifyMetadata{Role: data.RoleRoot, Cause: err}
		}
		if err := signed.VerifySelf(candidate.Signed, candidate); err != nil {
			m.IncVerificationFailure("root", "self_consistency")
			return trusted, &ErrVerifyMetadata{Role: data.RoleRoot, Cause: err}
		}
		if err := candidate.Signed.Validate(); err != nil {
			m.IncVerificationFailure("root", "self_consistency")
			return trusted, &ErrVerifyMetadata{Role: data.RoleRoot, Cause: err}
		}

		if candidate.Signed.Version < trusted.Signed.Version {
			m.IncRollbackDetected("root")
			return trusted, &ErrOlderMetadata{Role: data.RoleRoot, Current: trusted.Signed.Version, New: candidate.Signed.Version}
		}
		if candidate.Signed.Version == trusted.Signed.Version {
			// Off-spec guard: a server whose filename encodes N+1 but
			// whose content declares N would loop forever otherwise.
			break
		}

		trusted = candidate
		m.IncRootRotation()
	}

	now, err := clk.Now()
	if err != nil {
		return trusted, err
	}
	if !now.Before(trusted.Signed.Expires) {
		return trusted, &ErrExpiredMetadata{Role: data.RoleRoot}
	}
	m.SetExpiration("root", float64(trusted.Signed.Expires.Unix()))

	newTimestampKeys := trusted.Signed.KeysForRole(data.RoleTimestamp)
	newSnapshotKeys := trusted.Signed.KeysForRole(data.RoleSnapshot)
	if !data.KeySetsEqual(originalTimestampKeys, newTimestampKeys) || !data.KeySetsEqual(originalSnapshotKeys, newSnapshotKeys) {
		// Fast-forward recovery: both deletes are attempted even if one
		// errors, matching tough's `r1.and(r2)` which still issues both
		// removes before surfacing either failure.
		errTimestamp := ds.Remove("timestamp.json")
		errSnapshot := ds.Remove("snapshot.json")
		if errTimestamp != nil {
			return trusted, errTimestamp
		}
		if errSnapshot != nil {
			return trusted, errSnapshot
		}
	}

	return trusted, nil
}
