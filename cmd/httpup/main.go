package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/nguyengg/httpup/internal/digestcmd"
	"github.com/nguyengg/httpup/internal/upload"
)

var opts struct {
	Upload upload.Command    `command:"upload" alias:"up" description:"upload files or directories (after compressing the directories with zip) over HTTP with a Digest content-integrity header"`
	Digest digestcmd.Command `command:"digest" alias:"dig" description:"print the Digest header value of files without uploading them"`
}

func main() {
	p := flags.NewParser(&opts, flags.Default)

	if _, err := p.Parse(); err != nil && !flags.WroteHelp(err) {
		os.Exit(1)
	}
}
