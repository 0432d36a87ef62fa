package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/version"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of shipyard",
		Long:  `Print the version number of shipyard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.Info())
			return nil
		},
	}
}
