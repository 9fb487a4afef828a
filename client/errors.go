package client

import (
	"fmt"

	"github.com/theupdateframework/go-tuf-client/tuf/data"
)

// One struct per error kind, following notary's client/errors.go
// convention (ErrRepoNotInitialized, ErrInvalidRemoteRole, ...): a
// caller that needs structured context uses errors.As against the
// concrete type rather than parsing an error string.

// ErrParseTrustedMetadata is returned when the shipped trusted root
// bytes do not parse as valid TUF JSON.
type ErrParseTrustedMetadata struct {
	Cause error
}

func (e *ErrParseTrustedMetadata) Error() string {
	return fmt.Sprintf("client: parse trusted root: %v", e.Cause)
}
func (e *ErrParseTrustedMetadata) Unwrap() error { return e.Cause }

// ErrVerifyTrustedMetadata is returned when the shipped trusted root
// fails self-verification against its own declared keys.
type ErrVerifyTrustedMetadata struct {
	Cause error
}

func (e *ErrVerifyTrustedMetadata) Error() string {
	return fmt.Sprintf("client: verify trusted root: %v", e.Cause)
}
func (e *ErrVerifyTrustedMetadata) Unwrap() error { return e.Cause }

// ErrParseMetadata is returned when a fetched metadata file fails to
// parse as its expected role.
type ErrParseMetadata struct {
	Role  data.RoleName
	Cause error
}

func (e *ErrParseMetadata) Error() string {
	return fmt.Sprintf("client: parse %s metadata: %v", e.Role, e.Cause)
}
func (e *ErrParseMetadata) Unwrap() error { return e.Cause }

// ErrVerifyMetadata is returned when a fetched metadata file fails its
// signature threshold under the trusted authority for that role.
type ErrVerifyMetadata struct {
	Role  data.RoleName
	Cause error
}

func (e *ErrVerifyMetadata) Error() string {
	return fmt.Sprintf("client: verify %s metadata: %v", e.Role, e.Cause)
}
func (e *ErrVerifyMetadata) Unwrap() error { return e.Cause }

// ErrOlderMetadata is a rollback-attack signal: a newly fetched
// document's version is lower than one already trusted.
type ErrOlderMetadata struct {
	Role    data.RoleName
	Current data.Version
	New     data.Version
}

func (e *ErrOlderMetadata) Error() string {
	return fmt.Sprintf("client: %s rollback: current version %d, fetched version %d", e.Role, e.Current, e.New)
}

// ErrVersionMismatch is returned when a snapshot or targets document's
// own version disagrees with the pointer that referenced it.
type ErrVersionMismatch struct {
	Role     data.RoleName
	Fetched  data.Version
	Expected data.Version
}

func (e *ErrVersionMismatch) Error() string {
	return fmt.Sprintf("client: %s version mismatch: fetched %d, expected %d", e.Role, e.Fetched, e.Expected)
}

// ErrExpiredMetadata is a freeze-attack signal: role.expires is not
// after the latest known time.
type ErrExpiredMetadata struct {
	Role data.RoleName
}

func (e *ErrExpiredMetadata) Error() string {
	return fmt.Sprintf("client: %s metadata has expired", e.Role)
}

// ErrMaxUpdatesExceeded is returned when the root rotation loop
// consumes its entire budget without reaching a stopping condition.
type ErrMaxUpdatesExceeded struct {
	MaxRootUpdates int
}

func (e *ErrMaxUpdatesExceeded) Error() string {
	return fmt.Sprintf("client: root rotation exceeded max_root_updates=%d", e.MaxRootUpdates)
}

// ErrMetaMissing is returned when a required entry is absent from an
// enclosing role's meta map.
type ErrMetaMissing struct {
	File string
	Role data.RoleName
}

func (e *ErrMetaMissing) Error() string {
	return fmt.Sprintf("client: %s missing from %s meta", e.File, e.Role)
}

// ErrJoinURL is returned when composing a URL out of a base and a
// relative path fails.
type ErrJoinURL struct {
	Base string
	Path string
	Cause error
}

func (e *ErrJoinURL) Error() string {
	return fmt.Sprintf("client: join url %s + %s: %v", e.Base, e.Path, e.Cause)
}
func (e *ErrJoinURL) Unwrap() error { return e.Cause }

// ErrParseURL is returned when a base URL fails to parse, even after
// trailing-slash normalization.
type ErrParseURL struct {
	URL   string
	Cause error
}

func (e *ErrParseURL) Error() string {
	return fmt.Sprintf("client: parse url %s: %v", e.URL, e.Cause)
}
func (e *ErrParseURL) Unwrap() error { return e.Cause }

// ErrTransport wraps any failure that occurred beneath the transport
// boundary.
type ErrTransport struct {
	Cause error
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("client: transport: %v", e.Cause)
}
func (e *ErrTransport) Unwrap() error { return e.Cause }
