package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
	"github.com/driftfs/vfs/vfs/op"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "rm <uri>",
		Short: "Delete a resource directly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := vfs.Resolve(ctx, vfs.URI(args[0]))
			if err != nil {
				return err
			}
			return op.Delete(ctx, f)
		},
	})
}
