package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nguyengg/httpup"
	"github.com/nguyengg/httpup/internal/s3url"
)

// upload sends one file or directory (compressed first) to the resolved target URL.
func (c *Command) upload(ctx context.Context, logger *log.Logger, name, target string) error {
	// name can either be a file or a directory, so use stat to determine what to do.
	fi, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("describe file error: %w", err)
	}

	filename, contentType, archived := name, "", false
	switch {
	case fi.IsDir():
		if filename, contentType, err = c.compress(ctx, logger, name); err != nil {
			return fmt.Errorf("compress directory error: %w", err)
		}
		archived = true

		if fi, err = os.Stat(filename); err != nil {
			return fmt.Errorf("describe archive error: %w", err)
		}
	case !fi.Mode().IsRegular():
		return errors.New("not a regular file")
	}

	if archived {
		defer func() {
			_ = os.Remove(filename)
		}()
	}

	dst, err := c.resolve(ctx, target, filename)
	if err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open file error: %w", err)
	}
	defer f.Close()

	optFns := []func(*httpup.UploadOptions){httpup.WithProgressBar(fi.Size())}
	if !c.NoDigest {
		optFns = append(optFns, httpup.WithDigest(c.Algorithm))
	}
	if contentType != "" {
		optFns = append(optFns, func(opts *httpup.UploadOptions) {
			opts.ContentType = contentType
		})
	}

	out, err := httpup.Upload(ctx, c.client, f, dst, optFns...)
	if err != nil {
		return err
	}

	if out.Digest != "" {
		logger.Printf("uploaded %s, status code: %d, digest: %s", humanize.IBytes(uint64(out.Size)), out.StatusCode, out.Digest)
	} else {
		logger.Printf("uploaded %s, status code: %d", humanize.IBytes(uint64(out.Size)), out.StatusCode)
	}

	// only regular files are deleted; a compressed directory stays while its intermediate archive is removed by
	// the deferred cleanup above.
	if c.Delete && !archived {
		if err = os.Remove(name); err != nil {
			return fmt.Errorf("delete local file error: %w", err)
		}

		logger.Printf("deleted local file")
	}

	return nil
}

// resolve turns the target argument into the URL the file is uploaded to, presigning s3:// targets.
func (c *Command) resolve(ctx context.Context, target, filename string) (string, error) {
	if strings.HasSuffix(target, "/") {
		target += url.PathEscape(filepath.Base(filename))
	}

	if !s3url.Is(target) {
		return target, nil
	}

	return s3url.Presign(ctx, target, c.Expires)
}
