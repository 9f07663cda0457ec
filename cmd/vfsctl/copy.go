package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/vfs/op"
)

var copyOverwrite bool

func init() {
	cmd := &cobra.Command{
		Use:   "copy <src-uri> <dst-uri>",
		Short: "Copy a resource, reporting progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			src, err := vfs.Resolve(ctx, vfs.URI(args[0]))
			if err != nil {
				return err
			}
			dst, err := vfs.Resolve(ctx, vfs.URI(args[1]))
			if err != nil {
				return err
			}
			var flags vfs.CopyFlags
			if copyOverwrite {
				flags |= vfs.CopyOverwrite
			}
			return op.Copy(ctx, src, dst, flags, func(done, total int64) {
				fmt.Printf("\r%d/%d bytes", done, total)
			})
		},
	}
	cmd.Flags().BoolVar(&copyOverwrite, "overwrite", false, "allow replacing an existing destination")
	root.AddCommand(cmd)
}
