package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// PrefixLogger creates a logger whose prefix identifies one file out of a batch.
//
// i and n are the one-based ordinal and expected count.
func PrefixLogger(i, n int, name string) *log.Logger {
	return log.New(os.Stderr, fmt.Sprintf(`[%d/%d] "%s" - `, i, n, truncate(filepath.Base(name), 30)), 0)
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}

	return s[:width-3] + "..."
}
