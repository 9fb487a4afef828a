package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPTransportFetchOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.Client())
	rc, err := tr.Fetch(context.Background(), srv.URL+"/1.root.json")
	require.NoError(t, err)
	defer rc.Close()
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "payload", string(out))
}

func TestHTTPTransportFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(srv.Client())
	_, err := tr.Fetch(context.Background(), srv.URL+"/2.root.json")
	require.Error(t, err)
	var transportErr *Error
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, http.StatusNotFound, transportErr.StatusCode)
}

func TestFilesystemTransportFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1.root.json"), []byte("root-bytes"), 0644))

	tr := NewFilesystemTransport(dir)
	rc, err := tr.Fetch(context.Background(), "1.root.json")
	require.NoError(t, err)
	defer rc.Close()
	out, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "root-bytes", string(out))
}

func TestFilesystemTransportFetchMissing(t *testing.T) {
	tr := NewFilesystemTransport(t.TempDir())
	_, err := tr.Fetch(context.Background(), "missing.json")
	require.Error(t, err)
}
