package main

import (
	"archive/zip"
	"fmt"

	"github.com/urfave/cli/v2"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list the entries of an archive",
		ArgsUsage: "ARCHIVE",
		Action:    runList,
	}
}

func runList(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("list requires an ARCHIVE argument", 2)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("zipwriter: opening %s: %w", path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		method := "store"
		if f.Method == zip.Deflate {
			method = "deflate"
		}
		fmt.Fprintf(c.App.Writer, "%10d %10d %-8s %s\n", f.UncompressedSize64, f.CompressedSize64, method, f.Name)
	}
	return nil
}
