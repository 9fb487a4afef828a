package storage

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFetchMaxSizeAllowsUnderLimit(t *testing.T) {
	data := []byte("hello world")
	r := FetchMaxSize(bytes.NewReader(data), int64(len(data)))
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestFetchMaxSizeRejectsOverLimit(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	r := FetchMaxSize(bytes.NewReader(data), 10)
	_, err := io.ReadAll(r)
	require.Error(t, err)
	var exceeded *MaxSizeExceeded
	require.ErrorAs(t, err, &exceeded)
}

func TestFetchMaxSizeLatchesAfterError(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 100)
	r := FetchMaxSize(bytes.NewReader(data), 10)
	_, err1 := io.ReadAll(r)
	require.Error(t, err1)
	n, err2 := r.Read(make([]byte, 10))
	require.Equal(t, 0, n)
	require.Equal(t, err1, err2)
}

func TestFetchSHA256Matches(t *testing.T) {
	data := []byte("the quick brown fox")
	sum := sha256.Sum256(data)
	want := hex.EncodeToString(sum[:])
	r := FetchSHA256(bytes.NewReader(data), want)
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestFetchSHA256MismatchLatches(t *testing.T) {
	data := []byte("the quick brown fox")
	r := FetchSHA256(bytes.NewReader(data), "0000000000000000000000000000000000000000000000000000000000000000")
	_, err := io.ReadAll(r)
	require.Error(t, err)
	var mismatch *HashMismatch
	require.ErrorAs(t, err, &mismatch)

	n, err2 := r.Read(make([]byte, 1))
	require.Equal(t, 0, n)
	require.Equal(t, err, err2)
}
