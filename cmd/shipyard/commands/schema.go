package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/config"
	"github.com/harborline/shipyard/internal/schema"
)

func NewSchemaCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Generate the JSON schema for shipyard.yaml files",
		Long: `Generate a JSON Schema describing the valid shape of shipyard.yaml,
with one section per command under any environment name. The committed copy
lives at ` + schema.DefaultPath + ` and is used for IDE validation via
yaml-language-server:

  # yaml-language-server: $schema=schema/shipyard.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schema.Write(outputFile, Registry(), config.ToKey, DefaultPolicy()); err != nil {
				return fmt.Errorf("generating schema: %w", err)
			}
			fmt.Printf("Schema written to %s\n", outputFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", schema.DefaultPath, "Output file path")

	return cmd
}
