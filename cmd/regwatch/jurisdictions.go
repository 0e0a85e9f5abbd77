package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/regwatch/regwatch-mcp/internal/jurisdiction"
)

func newJurisdictionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jurisdictions",
		Short: "List the canonical jurisdiction codes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range jurisdiction.ValidCodes() {
				fmt.Println(code)
			}
			return nil
		},
	}
}
