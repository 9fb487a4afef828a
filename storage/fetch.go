package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// MaxSizeExceeded is returned once a bounded read would exceed the
// configured limit. The error latches: after it is first returned, every
// subsequent Read on the same reader keeps returning it, so a caller
// that loops on partial reads can never be tricked into accepting
// truncated data it already rejected (spec.md §4.2 endless-data
// defense).
type MaxSizeExceeded struct {
	Limit int64
}

func (e *MaxSizeExceeded) Error() string {
	return fmt.Sprintf("storage: response exceeded max size of %d bytes", e.Limit)
}

// HashMismatch is returned by a FetchSHA256 reader once the full stream
// has been consumed and its digest does not match the expected value.
type HashMismatch struct {
	Want string
	Got  string
}

func (e *HashMismatch) Error() string {
	return fmt.Sprintf("storage: sha256 mismatch: want %s, got %s", e.Want, e.Got)
}

// boundedReader wraps r so that reading more than limit bytes in total
// fails permanently, rather than merely truncating at the limit — a
// reader that silently stopped at the limit would let a hostile server
// pad a truncated document up to exactly the expected length.
type boundedReader struct {
	r       io.Reader
	limit   int64
	read    int64
	poisoned error
}

// FetchMaxSize returns a reader that fails with MaxSizeExceeded as soon
// as more than limit bytes have been read from r, and keeps failing on
// every call thereafter.
func FetchMaxSize(r io.Reader, limit int64) io.Reader {
	return &boundedReader{r: r, limit: limit}
}

func (b *boundedReader) Read(p []byte) (int, error) {
	if b.poisoned != nil {
		return 0, b.poisoned
	}
	if b.read >= b.limit {
		// At the limit only an exhausted stream is acceptable: one more
		// byte means the document is oversized.
		var probe [1]byte
		pn, err := b.r.Read(probe[:])
		if pn > 0 {
			b.poisoned = &MaxSizeExceeded{Limit: b.limit}
			return 0, b.poisoned
		}
		return 0, err
	}
	if int64(len(p)) > b.limit-b.read {
		p = p[:b.limit-b.read]
	}
	n, err := b.r.Read(p)
	b.read += int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		b.poisoned = err
		return n, err
	}
	if b.read >= b.limit && err == nil {
		// confirm the underlying stream is actually exhausted; one more
		// byte available past the limit means the real document is
		// oversized, not merely exactly at the boundary.
		var probe [1]byte
		pn, _ := b.r.Read(probe[:])
		if pn > 0 {
			b.poisoned = &MaxSizeExceeded{Limit: b.limit}
			return n, b.poisoned
		}
	}
	return n, err
}

// hashingReader wraps r, accumulating a running sha256 digest and
// checking it against want once the underlying reader reports io.EOF.
// Like boundedReader it latches: a caller that keeps reading after a
// mismatch keeps seeing the same error rather than silently succeeding
// on a second pass.
type hashingReader struct {
	r        io.Reader
	sum      hashState
	want     string
	poisoned error
	done     bool
}

type hashState interface {
	Write(p []byte) (int, error)
	Sum(b []byte) []byte
}

// FetchSHA256 returns a reader that verifies the full stream's sha256
// digest equals want (lowercase hex) once exhausted, returning
// HashMismatch from the Read call that first observes io.EOF if it does
// not.
func FetchSHA256(r io.Reader, want string) io.Reader {
	return &hashingReader{r: r, sum: sha256.New(), want: want}
}

func (h *hashingReader) Read(p []byte) (int, error) {
	if h.poisoned != nil {
		return 0, h.poisoned
	}
	n, err := h.r.Read(p)
	if n > 0 {
		h.sum.Write(p[:n])
	}
	if errors.Is(err, io.EOF) && !h.done {
		h.done = true
		got := hex.EncodeToString(h.sum.Sum(nil))
		if got != h.want {
			h.poisoned = &HashMismatch{Want: h.want, Got: got}
			return n, h.poisoned
		}
	}
	return n, err
}
