package httpup

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nguyengg/httpup/digest"
	"github.com/nguyengg/httpup/util"
)

// UploadOptions customises Upload.
type UploadOptions struct {
	// Method is the HTTP method of the upload request, http.MethodPut by default.
	Method string

	// ContentType overrides content-type sniffing.
	//
	// If empty and src can seek, the first 512 bytes of src decide the Content-Type header; the header is omitted
	// when detection comes back with the application/octet-stream catch-all.
	ContentType string

	// Digest controls the Digest header of the upload request.
	//
	// The zero value disables the header entirely. See WithDigest for the common case.
	Digest digest.Config

	logger io.WriteCloser
}

// WithDigest enables the Digest header using the named hash algorithm.
//
// Passing an empty name uses digest.DefaultAlgorithm.
func WithDigest(algorithm string) func(*UploadOptions) {
	return func(opts *UploadOptions) {
		opts.Digest = digest.Config{Enabled: true, Algorithm: algorithm}
	}
}

// UploadOutput is the result of a successful Upload.
type UploadOutput struct {
	// StatusCode is the status code of the server's response.
	StatusCode int

	// ETag is the value of the response's ETag header, empty if the server sent none.
	ETag string

	// Size is the number of bytes that were sent as the request body.
	Size int64

	// Digest is the value of the Digest header that was sent, empty if the header was skipped or disabled.
	Digest string
}

// Upload sends the contents of src as the body of a single request to url.
//
// If src implements io.ReadSeeker, three things happen before the transfer, each restoring src's read position:
// the Digest header is computed per opts.Digest, Content-Type is sniffed from the first 512 bytes, and the remaining
// length of src becomes the request's Content-Length. The request also gets a GetBody that rewinds src, so the
// client can replay the body across 307/308 redirects. A src that cannot seek is sent chunked without any of those.
//
// The body always starts at src's current read position; seek to the start first to upload a whole file.
//
// Responses outside the 2xx range produce *UploadError. Retries and authentication are the responsibility of the
// client argument.
func Upload(ctx context.Context, client *http.Client, src io.Reader, url string, optFns ...func(*UploadOptions)) (*UploadOutput, error) {
	opts := &UploadOptions{Method: http.MethodPut, logger: noopLogger{}}
	for _, fn := range optFns {
		fn(opts)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	// digest first, while src's read position is still exactly where the caller left it.
	if err = digest.Attach(req, src, &opts.Digest); err != nil {
		return nil, fmt.Errorf("attach digest error: %w", err)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(src)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if n, ok := remainingLen(src); ok {
		req.ContentLength = n
	}

	// a seekable source can be replayed, so let the client re-send the body across 307/308 redirects.
	if rs, ok := src.(io.ReadSeeker); ok {
		if start, err := rs.Seek(0, io.SeekCurrent); err == nil {
			req.GetBody = func() (io.ReadCloser, error) {
				if _, err := rs.Seek(start, io.SeekStart); err != nil {
					return nil, err
				}

				return io.NopCloser(rs), nil
			}
		}
	}

	sizer := &util.Sizer{}
	req.Body = io.NopCloser(io.TeeReader(src, io.MultiWriter(sizer, opts.logger)))

	resp, err := client.Do(req)
	if err != nil {
		_ = opts.logger.Close()
		return nil, fmt.Errorf("send request error: %w", err)
	}
	defer resp.Body.Close()

	_ = opts.logger.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &UploadError{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
	}

	return &UploadOutput{
		StatusCode: resp.StatusCode,
		ETag:       resp.Header.Get("ETag"),
		Size:       sizer.Size,
		Digest:     req.Header.Get(digest.Header),
	}, nil
}

// detectContentType sniffs the Content-Type from src's next 512 bytes, restoring src's read position afterwards.
//
// Returns empty string for sources that cannot seek, for empty sources, and for the application/octet-stream
// catch-all, which is not worth a header.
func detectContentType(src io.Reader) string {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		return ""
	}

	rsc := util.ResetOnCloseReadSeeker(rs)
	data := make([]byte, 512)
	n, _ := io.ReadFull(rsc, data)
	if rsc.Close() != nil || n == 0 {
		return ""
	}

	if v := http.DetectContentType(data[:n]); v != "application/octet-stream" {
		return v
	}

	return ""
}

// remainingLen computes the number of bytes between src's read position and EOF, restoring the position afterwards.
func remainingLen(src io.Reader) (int64, bool) {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		return 0, false
	}

	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}

	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false
	}

	if _, err = rs.Seek(cur, io.SeekStart); err != nil {
		return 0, false
	}

	return end - cur, true
}
