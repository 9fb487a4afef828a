package data

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRoleKeysThresholdExceedsKeys(t *testing.T) {
	_, err := NewRoleKeys([]string{"a"}, 2)
	require.Error(t, err)
}

func TestNewRoleKeysThresholdBelowMinimum(t *testing.T) {
	_, err := NewRoleKeys([]string{"a"}, 0)
	require.Error(t, err)
}

func TestNewRoleKeysOK(t *testing.T) {
	rk, err := NewRoleKeys([]string{"a", "b"}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, rk.Threshold)
	require.Len(t, rk.KeyIDs, 2)
}

func TestVersionRejectsNonPositive(t *testing.T) {
	var v Version
	require.Error(t, json.Unmarshal([]byte("0"), &v))
	require.Error(t, json.Unmarshal([]byte("-1"), &v))
	require.NoError(t, json.Unmarshal([]byte("1"), &v))
}

func TestKeyEqual(t *testing.T) {
	k1 := Key{Type: KeyTypeEd25519, Scheme: SchemeEd25519, Value: KeyValue{Public: "abc"}}
	k2 := Key{Type: KeyTypeEd25519, Scheme: SchemeEd25519, Value: KeyValue{Public: "abc"}}
	k3 := Key{Type: KeyTypeEd25519, Scheme: SchemeEd25519, Value: KeyValue{Public: "def"}}
	require.True(t, k1.Equal(k2))
	require.False(t, k1.Equal(k3))
}

func TestKeyIDDeterministic(t *testing.T) {
	k := Key{Type: KeyTypeEd25519, Scheme: SchemeEd25519, Value: KeyValue{Public: "rc+glN01m+q8jmX8SolGsjTfk6NMhUQTWyj10hjmne0="}}
	id1, err := k.ID()
	require.NoError(t, err)
	id2, err := k.ID()
	require.NoError(t, err)
	require.Equal(t, id1, id2)
	require.Len(t, id1, 64)
}

func TestKeySetsEqual(t *testing.T) {
	a := []Key{{Type: "ed25519", Scheme: "ed25519", Value: KeyValue{Public: "x"}}}
	b := []Key{{Type: "ed25519", Scheme: "ed25519", Value: KeyValue{Public: "x"}}}
	c := []Key{{Type: "ed25519", Scheme: "ed25519", Value: KeyValue{Public: "y"}}}
	require.True(t, KeySetsEqual(a, b))
	require.False(t, KeySetsEqual(a, c))
	require.False(t, KeySetsEqual(a, nil))
}

func TestRootValidate(t *testing.T) {
	key := Key{Type: "ed25519", Scheme: "ed25519", Value: KeyValue{Public: "x"}}
	keyID, err := key.ID()
	require.NoError(t, err)

	root := Root{
		Version: 1,
		Expires: time.Now().Add(24 * time.Hour),
		Keys: map[string]Key{
			keyID: key,
		},
		Roles: map[RoleName]RoleKeys{
			RoleRoot:      {KeyIDs: []string{keyID}, Threshold: 1},
			RoleTimestamp: {KeyIDs: []string{keyID}, Threshold: 1},
			RoleSnapshot:  {KeyIDs: []string{keyID}, Threshold: 1},
			RoleTargets:   {KeyIDs: []string{keyID}, Threshold: 1},
		},
	}
	require.NoError(t, root.Validate())
}

func TestRootValidateKeyIDMismatch(t *testing.T) {
	root := Root{
		Version: 1,
		Expires: time.Now().Add(24 * time.Hour),
		Keys: map[string]Key{
			"k1": {Type: "ed25519", Scheme: "ed25519", Value: KeyValue{Public: "x"}},
		},
		Roles: map[RoleName]RoleKeys{
			RoleRoot:      {KeyIDs: []string{"k1"}, Threshold: 1},
			RoleTimestamp: {KeyIDs: []string{"k1"}, Threshold: 1},
			RoleSnapshot:  {KeyIDs: []string{"k1"}, Threshold: 1},
			RoleTargets:   {KeyIDs: []string{"k1"}, Threshold: 1},
		},
	}
	require.Error(t, root.Validate())
}

func TestRootValidateMissingKey(t *testing.T) {
	root := Root{
		Version: 1,
		Expires: time.Now().Add(24 * time.Hour),
		Keys:    map[string]Key{},
		Roles: map[RoleName]RoleKeys{
			RoleRoot:      {KeyIDs: []string{"missing"}, Threshold: 1},
			RoleTimestamp: {KeyIDs: []string{}, Threshold: 0},
			RoleSnapshot:  {KeyIDs: []string{}, Threshold: 0},
			RoleTargets:   {KeyIDs: []string{}, Threshold: 0},
		},
	}
	require.Error(t, root.Validate())
}

func TestSignedRoundTrip(t *testing.T) {
	raw := []byte(`{"signed":{"_type":"Root","version":2,"expires":"2030-01-01T00:00:00Z","consistent_snapshot":false,"keys":{},"roles":{}},"signatures":[{"keyid":"abc","sig":"deadbeef"}]}`)
	var signed Signed[Root]
	require.NoError(t, json.Unmarshal(raw, &signed))
	require.Equal(t, Version(2), signed.Signed.Version)
	require.Len(t, signed.Signatures, 1)
	require.Equal(t, "abc", signed.Signatures[0].KeyID)

	out, err := json.Marshal(signed)
	require.NoError(t, err)

	var roundTripped Signed[Root]
	require.NoError(t, json.Unmarshal(out, &roundTripped))
	require.Equal(t, signed.Signed, roundTripped.Signed)
	require.Equal(t, signed.Signatures, roundTripped.Signatures)
}

func TestCanonicalBytesDeterministic(t *testing.T) {
	raw := []byte(`{"signed":{"_type":"Root","version":1,"expires":"2030-01-01T00:00:00Z","consistent_snapshot":false,"keys":{},"roles":{},"b_field":1,"a_field":2},"signatures":[]}`)
	var signed Signed[Root]
	require.NoError(t, json.Unmarshal(raw, &signed))
	b1, err := signed.CanonicalBytes()
	require.NoError(t, err)
	b2, err := signed.CanonicalBytes()
	require.NoError(t, err)
	require.Equal(t, b1, b2)
	// a_field must sort before b_field in canonical output.
	require.True(t, indexOf(b1, "a_field") < indexOf(b1, "b_field"))
}

func indexOf(haystack []byte, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == needle {
			return i
		}
	}
	return -1
}
