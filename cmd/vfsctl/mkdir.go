package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "mkdir <uri>",
		Short: "Create an empty directory resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := vfs.Resolve(ctx, vfs.URI(args[0]))
			if err != nil {
				return err
			}
			return f.MakeDirectory(ctx)
		},
	})
}
