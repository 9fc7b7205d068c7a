// Package digestcmd implements the "digest" subcommand which prints Digest header values without uploading anything.
package digestcmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/httpup/digest"
)

type Command struct {
	Algorithm string `short:"a" long:"algorithm" description:"hash algorithm to use" default:"SHA-256"`
	Args      struct {
		Files []flags.Filename `positional-arg-name:"file" description:"the files to digest" required:"yes"`
	} `positional-args:"yes"`
}

func (c *Command) Execute(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("unknown positional arguments: %s", strings.Join(args, " "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	for _, file := range c.Args.Files {
		v, err := c.digest(ctx, string(file))
		if err != nil {
			return fmt.Errorf(`digest "%s" error: %w`, file, err)
		}

		fmt.Printf("%s: %s\n", file, v)
	}

	return nil
}

func (c *Command) digest(ctx context.Context, name string) (string, error) {
	f, err := os.Open(name)
	if err != nil {
		return "", fmt.Errorf("open file error: %w", err)
	}
	defer f.Close()

	res, err := digest.Compute(ctx, f, c.Algorithm)
	if err != nil {
		return "", err
	}

	return res.Algorithm + "=" + base64.StdEncoding.EncodeToString(res.Sum), nil
}
