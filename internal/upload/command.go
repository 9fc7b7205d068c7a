package upload

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/httpup/internal"
)

type Command struct {
	Algorithm string        `short:"a" long:"algorithm" description:"hash algorithm for the Digest header" default:"SHA-256"`
	NoDigest  bool          `long:"no-digest" description:"if given, no Digest header is computed or sent"`
	Expires   time.Duration `long:"presign-expires" description:"how long presigned URLs for s3:// targets remain valid" default:"15m"`
	Delete    bool          `short:"d" long:"delete" description:"if given, the local files will be deleted only upon successful upload. If compressing a directory, the directory will not be deleted but the intermediate archive will be."`
	Args      struct {
		URL   string           `positional-arg-name:"url" description:"the http(s):// or s3://bucket/key destination. A url ending in / has each file's name appended to it" required:"yes"`
		Files []flags.Filename `positional-arg-name:"file" description:"the local files or directories (after compressing the directories with zip) to be uploaded" required:"yes"`
	} `positional-args:"yes"`

	client *http.Client
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	target := c.Args.URL
	n := len(c.Args.Files)
	if n > 1 && !strings.HasSuffix(target, "/") {
		return fmt.Errorf(`uploading several files requires the url to end in / so that each file gets its own name; got "%s"`, target)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	c.client = &http.Client{}

	success := 0
	for i, file := range c.Args.Files {
		logger := internal.PrefixLogger(i+1, n, string(file))

		switch err := c.upload(ctx, logger, string(file), target); {
		case err == nil:
			success++
		case errors.Is(err, context.Canceled):
			logger.Printf("upload was interrupted")
		default:
			logger.Printf("upload error: %v", err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	log.Printf("successfully uploaded %d/%d files", success, n)
	if success != n {
		return fmt.Errorf("uploaded only %d/%d files", success, n)
	}

	return nil
}
