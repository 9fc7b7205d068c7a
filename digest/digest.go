// Package digest computes content-integrity digests of seekable streams and attaches them to outgoing HTTP requests
// as a `Digest` header.
//
// The header value follows the `algorithm=base64-digest` convention (https://datatracker.ietf.org/doc/html/rfc3230):
//
//	Digest: SHA-256=ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=
//
// Digesting is strictly opt-in via Config.Enabled and best-effort: a source that cannot seek is skipped silently
// because its read position could not be restored after hashing. The digest covers the bytes from the source's
// current read position to EOF, not necessarily the whole stream; seek to the start first if you want a whole-content
// digest.
package digest

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"

	"github.com/nguyengg/httpup/util"
)

// Header is the name of the header carrying the content digest.
const Header = "Digest"

// Config controls digesting of an outgoing request body.
//
// Config is created and owned by the caller, typically one per upload, and passed by pointer into Attach which
// mutates Algorithm and Sum at most once. A Config must not be shared by concurrent uploads; nothing here is
// synchronised against multiple writers.
type Config struct {
	// Enabled opts the request into digesting.
	//
	// The zero value disables digesting entirely; Attach then never touches the source nor the request.
	Enabled bool

	// Algorithm is the requested hash algorithm name.
	//
	// SHA-1, SHA-256, SHA-384, and SHA-512 are recognised in any of their usual spellings ("SHA256", "sha-256",
	// etc.); names added with Register are matched exactly. The name goes into the header value verbatim. If it
	// resolves to no known algorithm, DefaultAlgorithm is used instead and written back here so that the header
	// reflects the algorithm actually used.
	Algorithm string

	// Sum caches the computed digest.
	//
	// Once set, whether by Attach or by the caller ahead of time, it is reused as-is and never recomputed. A
	// caller providing Sum directly is responsible for setting Algorithm consistently.
	Sum []byte
}

// Attach merges a Digest header into req, computing the digest of src's remaining bytes if needed.
//
// Attach returns with req unchanged and a nil error when cfg is nil or disabled, or when no digest is cached and src
// does not implement io.Seeker. If a digest had to be computed, src's read position afterwards is exactly what it was
// before, cfg.Sum caches the digest for subsequent calls, and cfg.Algorithm names the algorithm actually used.
//
// The only error produced by Attach itself is *UnsupportedAlgorithmError; read errors from src propagate unwrapped.
// Computation is cancellable via req's context.
func Attach(req *http.Request, src io.Reader, cfg *Config) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	if err := ensureSum(req.Context(), src, cfg); err != nil {
		return err
	}

	// still no digest means src wasn't seekable; integrity protection is best-effort so skip quietly.
	if len(cfg.Sum) == 0 {
		return nil
	}

	req.Header.Set(Header, cfg.Algorithm+"="+base64.StdEncoding.EncodeToString(cfg.Sum))
	return nil
}

// ensureSum populates cfg.Sum and cfg.Algorithm from src unless a digest is already cached or src cannot seek.
func ensureSum(ctx context.Context, src io.Reader, cfg *Config) error {
	if len(cfg.Sum) > 0 {
		return nil
	}

	rs, ok := src.(io.ReadSeeker)
	if !ok {
		// reading src to EOF here would drain the body the caller is about to send.
		return nil
	}

	res, err := Compute(ctx, rs, cfg.Algorithm)
	if err != nil {
		return err
	}

	cfg.Algorithm, cfg.Sum = res.Algorithm, res.Sum
	return nil
}

// Result is the outcome of Compute.
type Result struct {
	// Algorithm is the name of the algorithm actually used: the requested name verbatim if it resolved,
	// DefaultAlgorithm otherwise.
	Algorithm string

	// Sum is the digest of the bytes between the source's read position at the time of the call and EOF.
	Sum []byte
}

// Compute hashes src's remaining bytes with the named algorithm and restores src's read position.
//
// The algorithm is resolved before src is touched: if name resolves to no known algorithm, DefaultAlgorithm is
// substituted, and if that resolves to nothing either, Compute fails with *UnsupportedAlgorithmError without having
// read from src. Read and seek errors propagate unwrapped. On any error the returned Result is the zero value; a
// partial digest is never returned.
//
// Compute never writes anywhere; callers decide whether to persist the Result (Attach persists it into its Config).
func Compute(ctx context.Context, src io.ReadSeeker, name string) (Result, error) {
	requested := name
	h := newHash(name)
	if h == nil {
		name = DefaultAlgorithm
		h = newHash(name)
	}
	if h == nil {
		return Result{}, &UnsupportedAlgorithmError{Name: requested}
	}

	offset, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return Result{}, err
	}

	if _, err = util.CopyBufferWithContext(ctx, h, src, nil); err != nil {
		return Result{}, err
	}

	if _, err = src.Seek(offset, io.SeekStart); err != nil {
		return Result{}, err
	}

	return Result{Algorithm: name, Sum: h.Sum(nil)}, nil
}
