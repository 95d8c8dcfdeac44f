package main

import (
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mosaicward/zipwriter"
)

func newApp() *cli.App {
	return &cli.App{
		Name:        "zipwriter",
		Usage:       "stream a directory tree into a ZIP archive",
		Description: "zipwriter walks a directory and writes its files into a PKZIP archive without buffering the whole tree in memory.",
		Commands: []*cli.Command{
			newCreateCommand(),
			newListCommand(),
		},
	}
}

func newCreateCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create an archive from a directory",
		ArgsUsage: "SOURCE_DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "archive path to write",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "method",
				Usage: "compression method for every entry: store or deflate",
				Value: "deflate",
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "DEFLATE compression level, 1-9 (0 picks the default)",
			},
			&cli.StringFlag{
				Name:  "comment",
				Usage: "archive-level comment",
			},
		},
		Action: runCreate,
	}
}

func runCreate(c *cli.Context) error {
	root := c.Args().First()
	if root == "" {
		return cli.Exit("create requires a SOURCE_DIR argument", 2)
	}
	method, err := parseMethod(c.String("method"))
	if err != nil {
		return cli.Exit(err, 2)
	}

	out, err := os.Create(c.String("output"))
	if err != nil {
		return fmt.Errorf("zipwriter: opening output: %w", err)
	}
	defer out.Close()

	zw := zipwriter.New(out)
	zw.SetDefaultLevel(c.Int("level"))
	if comment := c.String("comment"); comment != "" {
		zw.SetComment(comment)
	}

	if err := addTree(zw, root, method); err != nil {
		return err
	}
	if err := zw.Finish(); err != nil {
		return fmt.Errorf("zipwriter: finishing archive: %w", err)
	}
	return out.Close()
}

// addTree walks root, streaming every regular file into zw under a name
// relative to root. Symlinks and non-regular files (devices, sockets) are
// skipped, matching the teacher's "archive everything within the source
// directory" reach without attempting special handling for file kinds
// that a ZIP entry cannot represent as stream bytes.
func addTree(zw *zipwriter.Writer, root string, method uint16) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		entry := zipwriter.Entry{
			Name:          rel,
			Modified:      info.ModTime(),
			Method:        zipwriter.Method(method),
			ExternalAttrs: uint32(info.Mode().Perm()) << 16,
		}
		if method == zipwriter.Store {
			// Store entries declare size and CRC-32 up front, so the
			// file is hashed before it is handed to BeginEntry.
			size, sum, err := hashFile(f)
			if err != nil {
				return fmt.Errorf("zipwriter: hashing %s: %w", rel, err)
			}
			entry.Size = zipwriter.Size(size)
			entry.CRC32 = zipwriter.CRC32(sum)
		}

		w, err := zw.BeginEntry(entry)
		if err != nil {
			return fmt.Errorf("zipwriter: adding %s: %w", rel, err)
		}
		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("zipwriter: writing %s: %w", rel, err)
		}
		return nil
	})
}

// hashFile reads f to completion computing its size and CRC-32, then
// seeks back to the start so the caller can stream it again.
func hashFile(f *os.File) (size uint32, sum uint32, err error) {
	h := crc32.NewIEEE()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	return uint32(n), h.Sum32(), nil
}

func parseMethod(s string) (uint16, error) {
	switch strings.ToLower(s) {
	case "store":
		return zipwriter.Store, nil
	case "deflate":
		return zipwriter.Deflate, nil
	default:
		return 0, fmt.Errorf("zipwriter: unknown method %q, want store or deflate", s)
	}
}
