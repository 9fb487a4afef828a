// Package storage fetches metadata and target bytes from a remote
// repository, the way notary's storage.HTTPStore wraps an *http.Client
// behind a small Transport-style interface (see
// storage/httpstore_test.go in the teacher tree), generalized here to
// also cover the filesystem-backed repositories exercised by go-tuf's
// fetcher package.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Transport fetches the bytes addressed by url, returning a stream the
// caller must Close. It never buffers the whole response itself — that
// is left to the bounded readers in fetch.go — so the same interface
// serves both small metadata files and multi-gigabyte targets.
type Transport interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// HTTPTransport fetches over HTTP(S) using an injected *http.Client,
// the way notary's HTTPStore takes a RoundTripper rather than assuming
// http.DefaultClient.
type HTTPTransport struct {
	Client *http.Client
}

// NewHTTPTransport returns an HTTPTransport. A nil client falls back to
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{Client: client}
}

func (t *HTTPTransport) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{URL: url, Cause: err}
	}
	resp, err := t.Client.Do(req)
	if err != nil {
		return nil, &Error{URL: url, Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &Error{URL: url, StatusCode: resp.StatusCode, Cause: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return resp.Body, nil
}

// FilesystemTransport fetches from a local directory tree, used for
// file://-rooted repositories and for tests that do not want to stand
// up an HTTP server.
type FilesystemTransport struct {
	Root string
}

func NewFilesystemTransport(root string) *FilesystemTransport {
	return &FilesystemTransport{Root: root}
}

func (t *FilesystemTransport) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(t.Root + "/" + name)
	if err != nil {
		return nil, &Error{URL: name, Cause: err}
	}
	return f, nil
}

// Error wraps a transport-level failure with the URL that produced it,
// so callers can build client.ErrTransport{Cause: err} per spec.md §7
// without losing which fetch failed.
type Error struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("storage: fetch %s: http %d: %v", e.URL, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("storage: fetch %s: %v", e.URL, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }
