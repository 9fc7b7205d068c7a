// Package util provides the small I/O helpers shared by the httpup library and its commands.
package util

import (
	"context"
	"fmt"
	"io"
)

// CopyBufferWithContext is a variant of io.CopyBuffer that is cancellable via context.
//
// If buf is nil, a new buffer of size 32*1024 is created. Unlike io.CopyBuffer, it does not matter if src implements
// [io.WriterTo] or dst implements [io.ReaderFrom] because those interfaces do not support context.
//
// The context is checked for done status after every write, so a very large buffer delays the effect of cancellation
// while a very small one adds overhead.
func CopyBufferWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (written int64, err error) {
	if buf == nil {
		buf = make([]byte, 32*1024)
	}

	var nr, nw int
	for {
		nr, err = src.Read(buf)

		if nr > 0 {
			switch nw, err = dst.Write(buf[0:nr]); {
			case err != nil:
				return written, err
			case nr < nw:
				return written, io.ErrShortWrite
			case nr != nw:
				return written, fmt.Errorf("invalid write: expected to write %d bytes, wrote %d bytes instead", nr, nw)
			}

			written += int64(nw)

			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}
		}

		if err == io.EOF {
			return written, nil
		}
		if err != nil {
			return written, err
		}
	}
}

// ResetOnCloseReadSeeker will reset the src io.ReadSeeker's read offset to the original value upon closing.
//
// Error from capturing the original read offset is returned by the Read, Seek, and Close methods to prevent draining
// of the src io.ReadSeeker. Error from resetting the read offset is returned only by the Close method.
func ResetOnCloseReadSeeker(src io.ReadSeeker) io.ReadSeekCloser {
	r := &resetOnCloseReadSeeker{src: src}
	r.offset, r.err = src.Seek(0, io.SeekCurrent)
	return r
}

type resetOnCloseReadSeeker struct {
	src    io.ReadSeeker
	offset int64
	err    error
}

func (r *resetOnCloseReadSeeker) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}

	return r.src.Read(p)
}

func (r *resetOnCloseReadSeeker) Seek(offset int64, whence int) (int64, error) {
	if r.err != nil {
		return r.offset, r.err
	}

	return r.src.Seek(offset, whence)
}

func (r *resetOnCloseReadSeeker) Close() error {
	if r.err != nil {
		return r.err
	}

	_, r.err = r.src.Seek(r.offset, io.SeekStart)
	return r.err
}

// Sizer is an io.Writer that discards everything written to it while keeping count.
type Sizer struct {
	Size int64
}

func (s *Sizer) Write(p []byte) (int, error) {
	s.Size += int64(len(p))
	return len(p), nil
}
