package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harborline/shipyard/internal/config"
	"github.com/harborline/shipyard/internal/manifest"
	"github.com/harborline/shipyard/internal/registry"
)

var initDescriptor = &registry.Command{
	Name:  "init",
	Short: "Scaffold a new shipyard project",
	Long: `Create a starter Shipfile and shipyard.yaml in the target directory.

The Shipfile declares one service using the selected runtime; shipyard.yaml
holds the per-environment command parameters the generated schema describes.`,
	Options: withConfigOptions(
		registry.Option{
			Name: "name",
			Type: registry.TypeText,
			Help: "Name of the first service (defaults to the directory name)",
		},
		registry.Option{
			Name:    "runtime",
			Type:    registry.TypeChoice,
			Help:    "Runtime used to invoke the service locally",
			Default: "go1.x",
			Choices: []string{"go1.x", "node20", "python3.12"},
		},
		registry.Option{
			Name:    "output_dir",
			Type:    registry.TypeDirectory,
			Help:    "Directory to scaffold into",
			Default: ".",
		},
		registry.Option{
			Name: "force",
			Type: registry.TypeBool,
			Help: "Overwrite existing Shipfile and shipyard.yaml",
		},
	),
}

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   initDescriptor.Name,
		Short: initDescriptor.Short,
		Long:  initDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"init"}
			outputDir := resolveString(cmd, cfg, env, path, "output_dir")
			name := resolveString(cmd, cfg, env, path, "name")
			runtime := resolveString(cmd, cfg, env, path, "runtime")
			force := resolveBool(cmd, cfg, env, path, "force")

			if name == "" {
				abs, err := filepath.Abs(outputDir)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				name = filepath.Base(abs)
			}

			if err := os.MkdirAll(outputDir, 0o750); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			shipfile := filepath.Join(outputDir, manifest.DefaultFileName)
			configFile := filepath.Join(outputDir, config.DefaultFileName)
			if !force {
				for _, f := range []string{shipfile, configFile} {
					if _, err := os.Stat(f); err == nil {
						return fmt.Errorf("%s already exists (use --force to overwrite)", f)
					}
				}
			}

			m := manifest.Manifest{Services: []manifest.Service{{
				Name:    name,
				Path:    "./" + name,
				Runtime: runtime,
			}}}
			data, err := yaml.Marshal(&m)
			if err != nil {
				return fmt.Errorf("encode manifest: %w", err)
			}
			if err := os.WriteFile(shipfile, data, 0o600); err != nil {
				return fmt.Errorf("write manifest: %w", err)
			}

			starter := config.New()
			starter.SetParameter(config.DefaultEnv, []string{"build"}, "arch", "amd64")
			if err := starter.Save(configFile); err != nil {
				return err
			}

			fmt.Printf("Scaffolded project %s in %s\n", name, outputDir)
			return nil
		},
	}

	registry.Bind(cmd.Flags(), initDescriptor.Options)
	return cmd
}
