package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/internal/xdg"
	"github.com/driftfs/vfs/thumbnail"
)

var thumbnailerCmd string

func init() {
	cmd := &cobra.Command{
		Use:   "thumbnail <file-uri>",
		Short: "Generate or reuse a cached thumbnail for a local file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			u := vfs.URI(args[0])
			srcPath := u.Opaque()

			fi, err := os.Stat(srcPath)
			if err != nil {
				return err
			}

			var thumbnailer thumbnail.Thumbnailer
			if thumbnailerCmd != "" {
				thumbnailer = thumbnail.ExternalThumbnailer(thumbnailerCmd)
			}

			dbPath := filepath.Join(xdg.CacheHome(), "vfsctl", "thumbnails.db")
			cache, err := thumbnail.Open(dbPath, thumbnailer)
			if err != nil {
				return err
			}
			defer cache.Close()

			path, err := cache.GetOrGenerate(ctx, string(u), srcPath, thumbnail.SizeNormal, fi.ModTime())
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
	cmd.Flags().StringVar(&thumbnailerCmd, "thumbnailer", "", "external thumbnailer command to invoke")
	root.AddCommand(cmd)
}
