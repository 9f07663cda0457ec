package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "ls <uri>",
		Short: "List the children of a directory resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			f, err := vfs.Resolve(ctx, vfs.URI(args[0]))
			if err != nil {
				return err
			}
			enum, err := f.EnumerateChildren(ctx, "standard::*")
			if err != nil {
				return err
			}
			defer enum.Close()
			for {
				entry, ok, err := enum.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				kind := entry.Info.GetType()
				size := entry.Info.GetSize()
				name := entry.Info.GetString(vfs.AttrStandardName)
				fmt.Printf("%-9s %10d  %s\n", kind, size, name)
			}
		},
	})
}
