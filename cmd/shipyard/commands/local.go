package commands

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/builder"
	"github.com/harborline/shipyard/internal/manifest"
	"github.com/harborline/shipyard/internal/registry"
	"github.com/harborline/shipyard/internal/runner"
)

var localInvokeDescriptor = &registry.Command{
	Name:  "invoke",
	Short: "Run one service entrypoint locally",
	Long: `Run a service from the Shipfile as a local subprocess, feeding the
event payload on stdin and printing whatever the service writes to stdout.
Output is also appended to the service's log under .shipyard/logs.`,
	Options: withConfigOptions(
		registry.Option{
			Name: "service",
			Type: registry.TypeText,
			Help: "Name of the service to invoke (defaults to the first declared service)",
		},
		registry.Option{
			Name: "event",
			Type: registry.TypePath,
			Help: "File whose contents are passed to the service on stdin",
		},
		registry.Option{
			Name: "env_file",
			Type: registry.TypePath,
			Help: "File with additional KEY=VALUE environment entries",
		},
		registry.Option{
			Name:    "manifest",
			Type:    registry.TypePath,
			Help:    "Path to the Shipfile manifest",
			Default: manifest.DefaultFileName,
		},
	),
}

var localStartDescriptor = &registry.Command{
	Name:  "start",
	Short: "Serve built artifacts over HTTP",
	Long: `Start a local HTTP server exposing the artifact directory, useful for
poking at build output before deploying.`,
	Options: withConfigOptions(
		registry.Option{
			Name:    "host",
			Type:    registry.TypeText,
			Help:    "Interface to bind",
			Default: "127.0.0.1",
		},
		registry.Option{
			Name:    "port",
			Type:    registry.TypeInt,
			Help:    "Port to listen on",
			Default: 8080,
		},
		registry.Option{
			Name:    "artifact_dir",
			Type:    registry.TypeDirectory,
			Help:    "Directory to serve",
			Default: builder.DefaultOutputDir,
		},
	),
}

var localDescriptor = &registry.Command{
	Name:        "local",
	Short:       "Run services locally",
	Long:        "Run and inspect services on the local machine without deploying.",
	Subcommands: []*registry.Command{localInvokeDescriptor, localStartDescriptor},
}

func NewLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   localDescriptor.Name,
		Short: localDescriptor.Short,
		Long:  localDescriptor.Long,
	}

	cmd.AddCommand(newLocalInvokeCmd())
	cmd.AddCommand(newLocalStartCmd())

	return cmd
}

func newLocalInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   localInvokeDescriptor.Name,
		Short: localInvokeDescriptor.Short,
		Long:  localInvokeDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"local", "invoke"}
			manifestPath := resolveString(cmd, cfg, env, path, "manifest")
			serviceName := resolveString(cmd, cfg, env, path, "service")
			eventPath := resolveString(cmd, cfg, env, path, "event")
			envFile := resolveString(cmd, cfg, env, path, "env_file")

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			svc := &m.Services[0]
			if serviceName != "" {
				named, ok := m.Service(serviceName)
				if !ok {
					return fmt.Errorf("service %q not found in %s", serviceName, manifestPath)
				}
				svc = named
			}

			var event []byte
			if eventPath != "" {
				event, err = os.ReadFile(eventPath)
				if err != nil {
					return fmt.Errorf("read event file: %w", err)
				}
			}

			var extraEnv []string
			if envFile != "" {
				extraEnv, err = runner.ParseEnvFile(envFile)
				if err != nil {
					return err
				}
			}

			result, err := runner.Invoke(svc, event, extraEnv)
			if err != nil {
				return err
			}

			fmt.Print(result.Output)
			fmt.Fprintf(os.Stderr, "Invoked %s in %s\n", svc.Name, result.Duration.Round(time.Millisecond))
			return nil
		},
	}

	registry.Bind(cmd.Flags(), localInvokeDescriptor.Options)
	return cmd
}

func newLocalStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   localStartDescriptor.Name,
		Short: localStartDescriptor.Short,
		Long:  localStartDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"local", "start"}
			host := resolveString(cmd, cfg, env, path, "host")
			port := resolveInt(cmd, cfg, env, path, "port")
			artifactDir := resolveString(cmd, cfg, env, path, "artifact_dir")

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			fmt.Printf("Serving %s on http://%s\n", artifactDir, addr)
			return http.ListenAndServe(addr, http.FileServer(http.Dir(artifactDir)))
		},
	}

	registry.Bind(cmd.Flags(), localStartDescriptor.Options)
	return cmd
}
