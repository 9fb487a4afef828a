package client

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
)

// fakeTransport serves fixed byte bodies keyed by exact URL, the way a
// recorded HTTP fixture would. A missing key simulates a 404: Fetch
// returns an error, which the root-rotation loop treats as "no further
// versions available" per spec.md §4.6 step 3b.
type fakeTransport struct {
	bodies map[string][]byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bodies: map[string][]byte{}}
}

func (f *fakeTransport) set(url string, body []byte) {
	f.bodies[url] = body
}

func (f *fakeTransport) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	b, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("fake transport: not found: " + url)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type testKey struct {
	id   string
	pub  data.Key
	priv ed25519.PrivateKey
}

func genTestKey(t *testing.T) testKey {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key := data.Key{
		Type:   data.KeyTypeEd25519,
		Scheme: data.SchemeEd25519,
		Value:  data.KeyValue{Public: base64.StdEncoding.EncodeToString(pub)},
	}
	id, err := key.ID()
	require.NoError(t, err)
	return testKey{id: id, pub: key, priv: priv}
}

// signPayload builds a Signed[T] from payload, signed by each of
// signers, following the same construct-envelope-then-canonicalize
// approach as tuf/signed's own tests.
func signPayload[T data.Role](t *testing.T, payload T, signers ...testKey) data.Signed[T] {
	t.Helper()
	payloadBytes, err := json.Marshal(payload)
	require.NoError(t, err)

	var out data.Signed[T]
	raw := []byte(`{"signed":` + string(payloadBytes) + `,"signatures":[]}`)
	require.NoError(t, json.Unmarshal(raw, &out))

	msg, err := out.CanonicalBytes()
	require.NoError(t, err)

	sigs := make([]data.Signature, 0, len(signers))
	for _, s := range signers {
		sigs = append(sigs, data.Signature{KeyID: s.id, Sig: ed25519.Sign(s.priv, msg)})
	}
	out.Signatures = sigs
	return out
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func sha256Sum(b []byte) data.HexBytes {
	sum := sha256.Sum256(b)
	return data.HexBytes(sum[:])
}

// testFixture bundles one signing key per top-level role plus a shared
// future expiry, from which scenarios build their repository documents.
type testFixture struct {
	rootKey      testKey
	timestampKey testKey
	snapshotKey  testKey
	targetsKey   testKey

	future time.Time
}

func newTestFixture(t *testing.T) *testFixture {
	return &testFixture{
		rootKey:      genTestKey(t),
		timestampKey: genTestKey(t),
		snapshotKey:  genTestKey(t),
		targetsKey:   genTestKey(t),
		future:       time.Now().Add(365 * 24 * time.Hour),
	}
}

func (f *testFixture) buildRoot(t *testing.T, version data.Version, timestampKey, snapshotKey testKey) (data.Root, data.Signed[data.Root]) {
	root := data.Root{
		Type:               "root",
		SpecVersion:        "1.0.0",
		Version:            version,
		Expires:            f.future,
		ConsistentSnapshot: false,
		Keys: map[string]data.Key{
			f.rootKey.id: f.rootKey.pub,
			timestampKey.id: timestampKey.pub,
			snapshotKey.id:  snapshotKey.pub,
			f.targetsKey.id: f.targetsKey.pub,
		},
		Roles: map[data.RoleName]data.RoleKeys{
			data.RoleRoot:      {KeyIDs: []string{f.rootKey.id}, Threshold: 1},
			data.RoleTimestamp: {KeyIDs: []string{timestampKey.id}, Threshold: 1},
			data.RoleSnapshot:  {KeyIDs: []string{snapshotKey.id}, Threshold: 1},
			data.RoleTargets:   {KeyIDs: []string{f.targetsKey.id}, Threshold: 1},
		},
	}
	signedRoot := signPayload(t, root, f.rootKey)
	return root, signedRoot
}

func (f *testFixture) buildTargets(t *testing.T, version data.Version, expires time.Time, files map[string]data.TargetFile) ([]byte, data.FileMeta) {
	targets := data.Targets{Type: "targets", Version: version, Expires: expires, Targets: files}
	signedTargets := signPayload(t, targets, f.targetsKey)
	b := mustMarshal(t, signedTargets)
	return b, data.FileMeta{Version: version, Length: int64(len(b)), Hashes: data.Hashes{"sha256": sha256Sum(b)}}
}

func (f *testFixture) buildSnapshot(t *testing.T, version data.Version, expires time.Time, targetsMeta data.FileMeta) ([]byte, data.FileMeta) {
	snapshot := data.Snapshot{
		Type:    "snapshot",
		Version: version,
		Expires: expires,
		Meta:    map[string]data.FileMeta{"targets.json": targetsMeta},
	}
	signedSnapshot := signPayload(t, snapshot, f.snapshotKey)
	b := mustMarshal(t, signedSnapshot)
	return b, data.FileMeta{Version: version, Length: int64(len(b)), Hashes: data.Hashes{"sha256": sha256Sum(b)}}
}

func (f *testFixture) buildTimestamp(t *testing.T, version data.Version, expires time.Time, snapshotMeta data.FileMeta) []byte {
	return f.buildTimestampSignedBy(t, version, expires, snapshotMeta, f.timestampKey)
}

// buildTimestampSignedBy builds a timestamp payload signed by an
// explicit key rather than f.timestampKey, for scenarios that rotate
// the timestamp role's key (fast-forward recovery).
func (f *testFixture) buildTimestampSignedBy(t *testing.T, version data.Version, expires time.Time, snapshotMeta data.FileMeta, key testKey) []byte {
	timestamp := data.Timestamp{
		Type:    "timestamp",
		Version: version,
		Expires: expires,
		Meta:    map[string]data.FileMeta{"snapshot.json": snapshotMeta},
	}
	signedTimestamp := signPayload(t, timestamp, key)
	return mustMarshal(t, signedTimestamp)
}

// forceDatastoreFloor writes latest_known_time.json directly, bypassing
// trustmanager.Clock, so a test can pin the monotone-clock floor ahead
// of the real wall clock without that package exporting a setter.
func forceDatastoreFloor(t *testing.T, dir string, at time.Time) {
	t.Helper()
	b := mustMarshal(t, map[string]string{"time": at.Format(time.RFC3339Nano)})
	require.NoError(t, os.WriteFile(dir+"/latest_known_time.json", b, 0644))
}
