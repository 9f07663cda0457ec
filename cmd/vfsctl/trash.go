package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "trash <uri>",
		Short: "Move a resource to the backend's trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := vfs.Resolve(ctx, vfs.URI(args[0]))
			if err != nil {
				return err
			}
			return f.Trash(ctx)
		},
	})
}
