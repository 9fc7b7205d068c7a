package internal

import (
	"errors"
	"fmt"
	"os"
)

// OpenExclFile creates a new file in the working directory with the condition that the file did not exist prior to
// this call.
//
// Stem is the desired name of the file without its extension, ext the extension including the leading dot. The actual
// file that is created may carry a numeric suffix (stem-1.ext, stem-2.ext, etc.) to avoid clobbering existing files.
//
// The file is opened with flag `os.O_RDWR|os.O_CREATE|os.O_EXCL` and permission `0666`. Caller is responsible for
// closing (and possibly removing) the file upon a successful return.
func OpenExclFile(stem, ext string) (*os.File, error) {
	name := stem + ext
	for i := 0; ; {
		switch file, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666); {
		case err == nil:
			return file, nil
		case errors.Is(err, os.ErrExist):
			i++
			name = fmt.Sprintf("%s-%d%s", stem, i, ext)
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}
