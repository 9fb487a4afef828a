package client

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/theupdateframework/go-tuf-client/storage"
	"github.com/theupdateframework/go-tuf-client/trustmanager"
	"github.com/theupdateframework/go-tuf-client/tuf/data"
	"github.com/theupdateframework/go-tuf-client/tuf/signed"
)

// parseSigned decodes a Signed[T] document directly from r — never
// buffering the whole body first — so the size caps in storage/fetch.go
// bound memory, not just bytes-on-wire (spec.md §9 "lazy vs eager
// verification"). Whatever follows the decoded value is then read to the
// end and discarded, so that a FetchSHA256 reader reaches EOF and checks
// its digest, and an oversized body is reported as oversized even when
// it stops being valid JSON early. A MaxSizeExceeded or HashMismatch
// surfacing from the underlying bounded reader is returned unchanged so
// callers can match on it directly; any other decode failure is wrapped
// as ErrParseMetadata for role.
func parseSigned[T data.Role](r io.Reader, role data.RoleName) (data.Signed[T], error) {
	var out data.Signed[T]
	err := json.NewDecoder(r).Decode(&out)
	if _, drainErr := io.Copy(io.Discard, r); drainErr != nil {
		var sizeErr *storage.MaxSizeExceeded
		var hashErr *storage.HashMismatch
		if err == nil || errors.As(drainErr, &sizeErr) || errors.As(drainErr, &hashErr) {
			err = drainErr
		}
	}
	if err != nil {
		var sizeErr *storage.MaxSizeExceeded
		var hashErr *storage.HashMismatch
		if errors.As(err, &sizeErr) || errors.As(err, &hashErr) {
			return out, err
		}
		return out, &ErrParseMetadata{Role: role, Cause: err}
	}
	return out, nil
}

// loadVerifiedPrior reads filename (named by role's conventional
// datastore filename) and returns it only if it both parses and
// self-verifies under root. Any failure — missing file, corrupt JSON,
// signature failure — yields ok=false rather than an error: a prior
// trusted file that doesn't check out must never deny service, and must
// never be used as rollback evidence (spec.md §9).
func loadVerifiedPrior[T data.Role](ds *trustmanager.Datastore, root data.Root, role data.RoleName) (data.Signed[T], bool) {
	var zero data.Signed[T]
	b, err := ds.Reader(filenameFor(role))
	if err != nil {
		return zero, false
	}
	var prior data.Signed[T]
	if err := json.Unmarshal(b, &prior); err != nil {
		return zero, false
	}
	if err := signed.VerifyRole(root, role, prior); err != nil {
		return zero, false
	}
	return prior, true
}

func filenameFor(role data.RoleName) string {
	return string(role) + ".json"
}

func jsonMarshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
