// Package httpup uploads the contents of files and other byte streams over HTTP, attaching an RFC 3230-style Digest
// content-integrity header computed by the digest package.
//
// The happy path for a file on disk is UploadFile:
//
//	out, err := httpup.UploadFile(ctx, http.DefaultClient, "report.pdf", "https://example.com/drop/report.pdf",
//		httpup.WithDigest("SHA-256"))
//
// Upload accepts any io.Reader; sources that also implement io.ReadSeeker additionally get a Digest header, a
// Content-Length, and a sniffed Content-Type for free because their read position can be restored between passes.
package httpup

import (
	"context"
	"fmt"
	"net/http"
	"os"
)

// UploadFile uploads the named file to url.
//
// It is a convenience wrapper around Upload that opens and closes the file. The file being a *os.File means the
// upload always gets a Digest header (if enabled via options), Content-Length, and a sniffed Content-Type.
func UploadFile(ctx context.Context, client *http.Client, name, url string, optFns ...func(*UploadOptions)) (*UploadOutput, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file error: %w", err)
	}
	defer f.Close()

	return Upload(ctx, client, f, url, optFns...)
}
