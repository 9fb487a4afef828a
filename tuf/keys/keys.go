// Package keys verifies signatures for the key types a TUF root document
// may declare: ed25519, ecdsa-sha2-nistp256, and rsassa-pss-sha256.
//
// This module never holds or uses a private key — repository authoring
// and signing are explicitly out of scope — so there is nothing here but
// the verification half of each scheme, implemented directly against the
// standard library the way notary's own tuf/utils package wraps stdlib
// crypto for key parsing (notary's extra dependency in this area,
// golang.org/x/crypto/scrypt, exists only to encrypt *private* keys at
// rest and has no role to play in a verify-only client).
package keys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/theupdateframework/go-tuf-client/tuf/data"
)

// ErrUnsupportedKeyType is returned when a key's declared type is not
// one this module can verify with. Such a key simply never
// contributes to a signature threshold; it is not a parse error at the
// Root level.
var ErrUnsupportedKeyType = errors.New("keys: unsupported key type or scheme")

// Verify checks that sig is a valid signature over msg under key. It
// returns ErrUnsupportedKeyType for a key type this module does not
// implement, and a verification error (not necessarily
// ErrUnsupportedKeyType) for a key type it does implement but whose
// signature does not check out. The verification algorithm is chosen
// from the key type alone; the key's declared scheme is not consulted.
func Verify(key data.Key, msg []byte, sig []byte) error {
	switch key.Type {
	case data.KeyTypeEd25519:
		return verifyEd25519(key, msg, sig)
	case data.KeyTypeECDSA, data.KeyTypeECDSAx:
		return verifyECDSA(key, msg, sig)
	case data.KeyTypeRSA:
		return verifyRSA(key, msg, sig)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedKeyType, key.Type)
	}
}

func decodePublic(key data.Key) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(key.Value.Public)
	if err != nil {
		return nil, fmt.Errorf("keys: decode public key: %w", err)
	}
	return b, nil
}

func verifyEd25519(key data.Key, msg, sig []byte) error {
	pub, err := decodePublic(key)
	if err != nil {
		return err
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("keys: ed25519 public key has wrong size %d", len(pub))
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return errors.New("keys: ed25519 signature verification failed")
	}
	return nil
}

func verifyECDSA(key data.Key, msg, sig []byte) error {
	der, err := decodePublic(key)
	if err != nil {
		return err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return fmt.Errorf("keys: parse ecdsa public key: %w", err)
	}
	ecdsaPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return errors.New("keys: key material is not an ECDSA public key")
	}
	digest := sha256.Sum256(msg)
	if !ecdsa.VerifyASN1(ecdsaPub, digest[:], sig) {
		return errors.New("keys: ecdsa signature verification failed")
	}
	return nil
}

func verifyRSA(key data.Key, msg, sig []byte) error {
	der, err := decodePublic(key)
	if err != nil {
		return err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return fmt.Errorf("keys: parse rsa public key: %w", err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return errors.New("keys: key material is not an RSA public key")
	}
	digest := sha256.Sum256(msg)
	opts := &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: crypto.SHA256}
	if err := rsa.VerifyPSS(rsaPub, crypto.SHA256, digest[:], sig, opts); err != nil {
		return fmt.Errorf("keys: rsa-pss signature verification failed: %w", err)
	}
	return nil
}
