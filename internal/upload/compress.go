package upload

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mholt/archives"
	"github.com/nguyengg/httpup/internal"
)

// compress creates a new zip archive holding all files recursively starting at root.
//
// All files in the archive include root's basename in their path, so the top-level entry of the archive is the root
// directory itself. The caller is responsible for removing the archive when done with it.
func (c *Command) compress(ctx context.Context, logger *log.Logger, root string) (name, contentType string, err error) {
	base := filepath.Base(root)

	// a new file is always created; if archiving fails, the file is removed on the way out.
	out, err := internal.OpenExclFile(base, ".zip")
	if err != nil {
		return "", "", fmt.Errorf("create archive error: %w", err)
	}
	name = out.Name()

	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(name)
		}
	}()

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{root: base})
	if err != nil {
		return name, "", fmt.Errorf("walk directory error: %w", err)
	}

	logger.Printf(`compressing %d files into "%s"`, len(files), name)

	if err = (archives.Zip{}).Archive(ctx, out, files); err != nil {
		return name, "", fmt.Errorf("write archive error: %w", err)
	}

	if err = out.Close(); err != nil {
		return name, "", fmt.Errorf("close archive error: %w", err)
	}

	return name, "application/zip", nil
}
