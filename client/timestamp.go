package client

import (
	"context"
	"net/url"

	"github.com/theupdateframework/go-tuf-client/metrics"
	"github.com/theupdateframework/go-tuf-client/storage"
	"github.com/theupdateframework/go-tuf-client/trustmanager"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
	"github.com/theupdateframework/go-tuf-client/tuf/signed"
)

// loadTimestamp runs step 2 of spec.md §4.7, ported from
// tough/src/lib.rs's load_timestamp.
func loadTimestamp(
	ctx context.Context,
	transport storage.Transport,
	root data.Signed[data.Root],
	ds *trustmanager.Datastore,
	clk *trustmanager.Clock,
	maxTimestampSize int64,
	metadataBaseURL *url.URL,
	m *metrics.Registry,
) (data.Signed[data.Timestamp], error) {
	var empty data.Signed[data.Timestamp]

	fetchURL, err := joinURL(metadataBaseURL, "timestamp.json")
	if err != nil {
		return empty, err
	}
	rc, err := transport.Fetch(ctx, fetchURL)
	if err != nil {
		return empty, &ErrTransport{Cause: err}
	}
	timestamp, err := parseSigned[data.Timestamp](storage.FetchMaxSize(rc, maxTimestampSize), data.RoleTimestamp)
	rc.Close()
	if err != nil {
		return empty, err
	}

	if err := signed.VerifyRole(root.Signed, data.RoleTimestamp, timestamp); err != nil {
		m.IncVerificationFailure("timestamp", "threshold")
		return empty, &ErrVerifyMetadata{Role: data.RoleTimestamp, Cause: err}
	}

	// A prior timestamp.json that fails to parse or self-verify under
	// the current root is ignored for rollback purposes (spec.md §9
	// "corrupt prior trusted file" open question, preserved from the
	// original implementation).
	if prior, ok := loadVerifiedPrior[data.Timestamp](ds, root.Signed, data.RoleTimestamp); ok {
		if prior.Signed.Version > timestamp.Signed.Version {
			m.IncRollbackDetected("timestamp")
			return empty, &ErrOlderMetadata{Role: data.RoleTimestamp, Current: prior.Signed.Version, New: timestamp.Signed.Version}
		}
	}

	now, err := clk.Now()
	if err != nil {
		return empty, err
	}
	if !now.Before(timestamp.Signed.Expires) {
		return empty, &ErrExpiredMetadata{Role: data.RoleTimestamp}
	}
	m.SetExpiration("timestamp", float64(timestamp.Signed.Expires.Unix()))

	raw, err := jsonMarshal(timestamp)
	if err != nil {
		return empty, err
	}
	if err := ds.Create("timestamp.json", raw); err != nil {
		return empty, err
	}
	return timestamp, nil
}
