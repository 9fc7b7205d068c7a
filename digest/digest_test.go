package digest

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newRequest(t *testing.T) *http.Request {
	req, err := http.NewRequest(http.MethodPut, "https://example.com/upload", nil)
	assert.NoError(t, err)
	return req
}

// countingReadSeeker keeps track of the number of bytes read so tests can tell whether the source was hashed at all.
type countingReadSeeker struct {
	io.ReadSeeker
	bytesRead int
}

func (c *countingReadSeeker) Read(p []byte) (int, error) {
	n, err := c.ReadSeeker.Read(p)
	c.bytesRead += n
	return n, err
}

func pos(t *testing.T, rs io.ReadSeeker) int64 {
	offset, err := rs.Seek(0, io.SeekCurrent)
	assert.NoError(t, err)
	return offset
}

func TestAttach_Disabled(t *testing.T) {
	req := newRequest(t)
	src := &countingReadSeeker{ReadSeeker: strings.NewReader("hello, world!")}
	cfg := &Config{Algorithm: "SHA-256"}

	assert.NoError(t, Attach(req, src, cfg))
	assert.Empty(t, req.Header.Get(Header))
	assert.Nil(t, cfg.Sum)
	assert.Zero(t, src.bytesRead)
}

func TestAttach_NilConfig(t *testing.T) {
	req := newRequest(t)

	assert.NoError(t, Attach(req, strings.NewReader("hello, world!"), nil))
	assert.Empty(t, req.Header.Get(Header))
}

func TestAttach_CachedSum(t *testing.T) {
	req := newRequest(t)
	src := &countingReadSeeker{ReadSeeker: strings.NewReader("hello, world!")}
	cfg := &Config{Enabled: true, Algorithm: "SHA-256", Sum: []byte("hello")}

	assert.NoError(t, Attach(req, src, cfg))

	// the cached value is used verbatim without reading the source.
	assert.Equal(t, "SHA-256=aGVsbG8=", req.Header.Get(Header))
	assert.Zero(t, src.bytesRead)
	assert.EqualValues(t, 0, pos(t, src))
}

func TestAttach_NonSeekable(t *testing.T) {
	req := newRequest(t)
	cfg := &Config{Enabled: true, Algorithm: "SHA-256"}

	// hide bytes.Reader's Seek method.
	assert.NoError(t, Attach(req, struct{ io.Reader }{bytes.NewReader([]byte("hello, world!"))}, cfg))
	assert.Empty(t, req.Header.Get(Header))
	assert.Nil(t, cfg.Sum)
}

func TestAttach_DefaultAlgorithm(t *testing.T) {
	req := newRequest(t)
	cfg := &Config{Enabled: true}

	assert.NoError(t, Attach(req, strings.NewReader("abc"), cfg))

	assert.Equal(t, "SHA-256=ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=", req.Header.Get(Header))
	assert.Equal(t, "SHA-256", cfg.Algorithm)
	assert.NotNil(t, cfg.Sum)
}

func TestAttach_Sha1(t *testing.T) {
	req := newRequest(t)
	src := strings.NewReader("abc")
	cfg := &Config{Enabled: true, Algorithm: "SHA1"}

	assert.NoError(t, Attach(req, src, cfg))

	// the requested spelling goes into the header verbatim.
	assert.Equal(t, "SHA1=qZk+NkcGgWq6PiVxeFDCbJzQ2J0=", req.Header.Get(Header))
	assert.Equal(t, "SHA1", cfg.Algorithm)
	assert.EqualValues(t, 0, pos(t, src))
}

func TestAttach_RemainingBytesOnly(t *testing.T) {
	req := newRequest(t)
	src := strings.NewReader("xyzabc")
	_, err := src.Seek(3, io.SeekStart)
	assert.NoError(t, err)

	cfg := &Config{Enabled: true, Algorithm: "SHA1"}
	assert.NoError(t, Attach(req, src, cfg))

	// only "abc" is hashed, and the read position comes back to where the caller left it.
	assert.Equal(t, "SHA1=qZk+NkcGgWq6PiVxeFDCbJzQ2J0=", req.Header.Get(Header))
	assert.EqualValues(t, 3, pos(t, src))
}

func TestAttach_UnknownAlgorithmFallsBack(t *testing.T) {
	req := newRequest(t)
	cfg := &Config{Enabled: true, Algorithm: "FOO"}

	assert.NoError(t, Attach(req, strings.NewReader("abc"), cfg))

	assert.Equal(t, "SHA-256=ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=", req.Header.Get(Header))
	assert.Equal(t, "SHA-256", cfg.Algorithm)
}

func TestAttach_NoUsableFallback(t *testing.T) {
	old := DefaultAlgorithm
	DefaultAlgorithm = "FOO"
	defer func() {
		DefaultAlgorithm = old
	}()

	req := newRequest(t)
	src := &countingReadSeeker{ReadSeeker: strings.NewReader("abc")}
	cfg := &Config{Enabled: true, Algorithm: "BAR"}

	err := Attach(req, src, cfg)

	var uerr *UnsupportedAlgorithmError
	assert.ErrorAs(t, err, &uerr)
	assert.Equal(t, "BAR", uerr.Name)
	assert.Equal(t, "no hash algorithm for 'BAR'", err.Error())

	assert.Empty(t, req.Header.Get(Header))
	assert.Nil(t, cfg.Sum)
	assert.Zero(t, src.bytesRead)
}

func TestAttach_Idempotent(t *testing.T) {
	src := &countingReadSeeker{ReadSeeker: strings.NewReader("hello, world!")}
	cfg := &Config{Enabled: true, Algorithm: "SHA-256"}

	first := newRequest(t)
	assert.NoError(t, Attach(first, src, cfg))

	readOnce := src.bytesRead
	assert.Equal(t, len("hello, world!"), readOnce)
	assert.EqualValues(t, 0, pos(t, src))

	second := newRequest(t)
	assert.NoError(t, Attach(second, src, cfg))

	// the second call reuses the cached sum without touching the source again.
	assert.Equal(t, first.Header.Get(Header), second.Header.Get(Header))
	assert.Equal(t, readOnce, src.bytesRead)
}
