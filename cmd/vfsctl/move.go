package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/vfs/op"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "move <src-uri> <dst-uri>",
		Short: "Move a resource",
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
			return op.Move(ctx, src, dst, vfs.CopyNone, nil)
		},
	})
}
