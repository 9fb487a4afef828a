package data

import (
	"crypto/sha256"
	"fmt"
)

// Recognized TUF key types and their expected signing schemes. Unknown
// key types parse without error (a root document should never fail to
// parse because it lists a key type this module doesn't verify with) but
// can never satisfy a signature threshold.
const (
	KeyTypeEd25519 = "ed25519"
	KeyTypeECDSA   = "ecdsa"
	KeyTypeECDSAx  = "ecdsa-sha2-nistp256"
	KeyTypeRSA     = "rsa"

	SchemeEd25519    = "ed25519"
	SchemeECDSAP256  = "ecdsa-sha2-nistp256"
	SchemeRSASSAPSS  = "rsassa-pss-sha256"
)

// KeyValue holds the public-key material for a Key. Only Public is used
// by this module; a repository author's private half is never present
// in any document this library reads.
type KeyValue struct {
	Public string `json:"public"`
}

// Key is a public key declared in a Root document's global keys map.
type Key struct {
	Type   string   `json:"keytype"`
	Scheme string   `json:"scheme"`
	Value  KeyValue `json:"keyval"`
}

// Equal reports whether two keys are identical in every field TUF
// considers significant for rekey detection (spec.md's fast-forward
// recovery relies on this, not just key_id equality, since a key_id
// could in principle be rebound to different material).
func (k Key) Equal(other Key) bool {
	return k.Type == other.Type && k.Scheme == other.Scheme && k.Value.Public == other.Value.Public
}

// ID returns this key's content-derived identifier: the lowercase hex
// SHA-256 of the canonical JSON encoding of {keytype, scheme, keyval}.
func (k Key) ID() (string, error) {
	generic := map[string]interface{}{
		"keytype": k.Type,
		"scheme":  k.Scheme,
		"keyval":  map[string]interface{}{"public": k.Value.Public},
	}
	b, err := marshalCanonicalValue(generic)
	if err != nil {
		return "", fmt.Errorf("data: key id: %w", err)
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("%x", sum), nil
}

// Signature is a single signature over a Signed document's canonical
// "signed" bytes.
type Signature struct {
	KeyID string   `json:"keyid"`
	Sig   HexBytes `json:"sig"`
}
