package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/builder"
	"github.com/harborline/shipyard/internal/registry"
	"github.com/harborline/shipyard/internal/release"
)

var deployDescriptor = &registry.Command{
	Name:  "deploy",
	Short: "Promote built artifacts into the release store",
	Long: `Copy the built artifacts into a new release under .shipyard/releases
and record the deployment.

A stack that already has a deployed release is refused unless --force is set.`,
	Options: withConfigOptions(
		registry.Option{
			Name: "stack_name",
			Type: registry.TypeText,
			Help: "Name of the stack the release belongs to",
		},
		registry.Option{
			Name: "region",
			Type: registry.TypeText,
			Help: "Region label recorded with the release",
		},
		registry.Option{
			Name: "parameter_overrides",
			Type: registry.TypeList,
			Help: "KEY=VALUE parameters recorded with the release (repeatable)",
		},
		registry.Option{
			Name:    "artifact_dir",
			Type:    registry.TypeDirectory,
			Help:    "Directory containing the built artifacts",
			Default: builder.DefaultOutputDir,
		},
		registry.Option{
			Name: "force",
			Type: registry.TypeBool,
			Help: "Deploy even if the stack already has a deployed release",
		},
	),
}

func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   deployDescriptor.Name,
		Short: deployDescriptor.Short,
		Long:  deployDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"deploy"}
			stack := resolveString(cmd, cfg, env, path, "stack_name")
			region := resolveString(cmd, cfg, env, path, "region")
			overrides := resolveStrings(cmd, cfg, env, path, "parameter_overrides")
			artifactDir := resolveString(cmd, cfg, env, path, "artifact_dir")
			force := resolveBool(cmd, cfg, env, path, "force")

			artifacts, err := builder.ListArtifacts(artifactDir)
			if err != nil {
				return err
			}

			root := release.Root(".")
			if !force {
				existing, listErr := release.List(root)
				if listErr != nil {
					return listErr
				}
				for _, rec := range existing {
					if rec.Stack == stack && rec.Status == release.StatusDeployed {
						return fmt.Errorf("stack %q already has deployed release %s (use --force)", stack, rec.ID)
					}
				}
			}

			rec, err := release.New(stack, region, artifactNames(artifacts), overrides)
			if err != nil {
				return err
			}
			if err := release.Save(root, rec); err != nil {
				return err
			}

			if err := promote(artifacts, filepath.Join(root, rec.ID)); err != nil {
				rec.Status = release.StatusFailed
				rec.LastError = err.Error()
				if saveErr := release.Save(root, rec); saveErr != nil {
					return fmt.Errorf("promote release: %w (record update failed: %v)", err, saveErr)
				}
				return err
			}

			rec.Status = release.StatusDeployed
			if err := release.Save(root, rec); err != nil {
				return err
			}

			fmt.Printf("Deployed stack %s as release %s (%d artifacts)\n", stack, rec.ID, len(artifacts))
			return nil
		},
	}

	registry.Bind(cmd.Flags(), deployDescriptor.Options)
	return cmd
}

func artifactNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	return names
}

func promote(artifacts []string, dest string) error {
	for _, src := range artifacts {
		if err := copyFile(src, filepath.Join(dest, filepath.Base(src))); err != nil {
			return fmt.Errorf("promote artifact %s: %w", filepath.Base(src), err)
		}
	}
	return nil
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
