package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navcore-dev/navcore/pkg/navcore/routes"
)

var nativeOnly bool

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route catalog",
	Args:  cobra.NoArgs,
	RunE:  listRoutes,
}

func init() {
	routesCmd.Flags().BoolVar(&nativeOnly, "native", false, "only list native routes")
}

func listRoutes(cmd *cobra.Command, _ []string) error {
	list := routes.All()
	if nativeOnly {
		list = routes.Native()
	}

	out := cmd.OutOrStdout()
	for _, r := range list {
		if routes.IsNative(r) {
			fmt.Fprintf(out, "%s\tnative\n", r)
			continue
		}
		fmt.Fprintln(out, r)
	}
	return nil
}
