package commands

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/builder"
	"github.com/harborline/shipyard/internal/manifest"
	"github.com/harborline/shipyard/internal/registry"
)

var buildDescriptor = &registry.Command{
	Name:  "build",
	Short: "Package all services declared in the Shipfile",
	Long: `Package every service directory declared in the Shipfile into a
deployable archive under the artifact directory.

Archives that already exist are reused unless --no-cache is set.`,
	Options: withConfigOptions(
		registry.Option{
			Name:    "manifest",
			Type:    registry.TypePath,
			Help:    "Path to the Shipfile manifest",
			Default: manifest.DefaultFileName,
		},
		registry.Option{
			Name:    "arch",
			Type:    registry.TypeChoice,
			Help:    "Target architecture for the built artifacts",
			Default: "amd64",
			Choices: []string{"amd64", "arm64"},
		},
		registry.Option{
			Name: "tag",
			Type: registry.TypeList,
			Help: "Tags to attach to this build (repeatable)",
		},
		registry.Option{
			Name:    "parallel",
			Type:    registry.TypeInt,
			Help:    "Number of services to package concurrently",
			Default: 4,
		},
		registry.Option{
			Name: "no_cache",
			Type: registry.TypeBool,
			Help: "Rebuild archives even when they already exist",
		},
		registry.Option{
			Name:    "out_dir",
			Type:    registry.TypeDirectory,
			Help:    "Directory to write artifacts into",
			Default: builder.DefaultOutputDir,
		},
	),
}

func NewBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   buildDescriptor.Name,
		Short: buildDescriptor.Short,
		Long:  buildDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"build"}
			manifestPath := resolveString(cmd, cfg, env, path, "manifest")
			arch := resolveString(cmd, cfg, env, path, "arch")
			outDir := resolveString(cmd, cfg, env, path, "out_dir")
			tags := resolveStrings(cmd, cfg, env, path, "tag")
			parallel := resolveInt(cmd, cfg, env, path, "parallel")
			noCache := resolveBool(cmd, cfg, env, path, "no_cache")
			if parallel < 1 {
				parallel = 1
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			type buildResult struct {
				service string
				archive string
				cached  bool
				err     error
			}

			jobs := make(chan manifest.Service)
			results := make(chan buildResult, len(m.Services))

			var wg sync.WaitGroup
			for i := 0; i < parallel; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for svc := range jobs {
						archive := builder.ArtifactPath(outDir, svc.Name, arch)
						if !noCache {
							if _, statErr := os.Stat(archive); statErr == nil {
								results <- buildResult{service: svc.Name, archive: archive, cached: true}
								continue
							}
						}
						built, buildErr := builder.Package(svc, arch, outDir)
						results <- buildResult{service: svc.Name, archive: built, err: buildErr}
					}
				}()
			}
			for _, svc := range m.Services {
				jobs <- svc
			}
			close(jobs)
			wg.Wait()
			close(results)

			built := 0
			for res := range results {
				if res.err != nil {
					return res.err
				}
				if res.cached {
					fmt.Printf("  %s: cached (%s)\n", res.service, res.archive)
					continue
				}
				fmt.Printf("  %s: built %s\n", res.service, res.archive)
				built++
			}

			summary := fmt.Sprintf("Packaged %d of %d services for %s", built, len(m.Services), arch)
			if len(tags) > 0 {
				summary += " [" + strings.Join(tags, ", ") + "]"
			}
			fmt.Println(summary)
			return nil
		},
	}

	registry.Bind(cmd.Flags(), buildDescriptor.Options)
	return cmd
}
