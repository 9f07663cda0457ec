package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/driftfs/vfs/device"
)

func init() {
	root.AddCommand(&cobra.Command{
		Use:   "mounts",
		Short: "List the current drive/volume/mount object graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := device.NewAggregator()
			defer agg.Close()

			graph, err := agg.Load(context.Background())
			if err != nil {
				return err
			}
			for _, m := range graph.Mounts {
				ro := ""
				if m.ReadOnly {
					ro = " (read-only)"
				}
				fmt.Printf("%s\t%s%s\n", m.RootURI, m.Name, ro)
			}
			return nil
		},
	})
}
