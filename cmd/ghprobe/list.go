package main

import (
	"fmt"

	"github.com/jmgilman/go/ghprobe/suite"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var include []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := suite.Select(include)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderCatalogue(scenarios, newStyles()))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&include, "include", "i", nil, "Glob selecting scenarios by name, group or group/name")

	return cmd
}
