package httpup

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"
)

// WithProgressLogger adds a progress logger that logs upload progress with the given interval.
//
// For example, if interval is `5*time.Second`, every 5 seconds the given logger will print `uploaded X so far` where
// X is the number of bytes sent so far in a human-friendly format (e.g. 5 KiB, 1 MiB, etc.). Pass a positive size to
// get `uploaded X / Y so far` instead; pass a negative size if the total is unknown.
func WithProgressLogger(logger *log.Logger, interval time.Duration, size int64) func(*UploadOptions) {
	return func(opts *UploadOptions) {
		opts.logger = &logWriter{
			logger: logger,
			rate:   &rate.Sometimes{Interval: interval},
			size:   size,
		}
	}
}

// WithProgressBar adds a progress bar that displays upload progress on stderr.
//
// Pass a negative size if the total number of bytes is unknown; the bar then becomes a spinner.
func WithProgressBar(size int64, options ...progressbar.Option) func(*UploadOptions) {
	return func(opts *UploadOptions) {
		// don't create the progress bar here; create on first write instead so that a short-circuited upload
		// doesn't draw an empty bar.
		opts.logger = &barWriter{opts: options, size: size}
	}
}

type logWriter struct {
	logger        *log.Logger
	rate          *rate.Sometimes
	written, size int64
}

func (l *logWriter) Write(p []byte) (int, error) {
	l.written += int64(len(p))

	l.rate.Do(func() {
		if l.size > 0 {
			l.logger.Printf("uploaded %s / %s so far", humanize.IBytes(uint64(l.written)), humanize.IBytes(uint64(l.size)))
		} else {
			l.logger.Printf("uploaded %s so far", humanize.IBytes(uint64(l.written)))
		}
	})

	return len(p), nil
}

func (l *logWriter) Close() error {
	if l.size > 0 && l.written != l.size {
		l.logger.Printf("uploaded %s / %s in total", humanize.IBytes(uint64(l.written)), humanize.IBytes(uint64(l.size)))
	} else {
		l.logger.Printf("uploaded %s in total", humanize.IBytes(uint64(l.written)))
	}

	return nil
}

type barWriter struct {
	bar  *progressbar.ProgressBar
	opts []progressbar.Option
	size int64
}

func (b *barWriter) Write(p []byte) (int, error) {
	if b.bar == nil {
		b.bar = progressbar.NewOptions64(b.size, append([]progressbar.Option{
			progressbar.OptionSetDescription("uploading"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowTotalBytes(true),
			progressbar.OptionThrottle(time.Second),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionFullWidth(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
		}, b.opts...)...)
	}

	// the bar is cosmetic; its errors never fail an upload.
	_, _ = b.bar.Write(p)

	return len(p), nil
}

func (b *barWriter) Close() error {
	if b.bar != nil {
		return b.bar.Close()
	}

	return nil
}

type noopLogger struct{}

func (noopLogger) Write(p []byte) (int, error) {
	return len(p), nil
}

func (noopLogger) Close() error {
	return nil
}

var _ io.WriteCloser = (*logWriter)(nil)
var _ io.WriteCloser = (*barWriter)(nil)
var _ io.WriteCloser = noopLogger{}
