package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/registry"
	"github.com/harborline/shipyard/internal/runner"
)

var logsDescriptor = &registry.Command{
	Name:  "logs",
	Short: "Print a service's local invoke log",
	Long: `Print the output recorded by previous local invocations of a service.
With --follow the log is polled for new output until interrupted.`,
	Options: withConfigOptions(
		registry.Option{
			Name: "service",
			Type: registry.TypeText,
			Help: "Name of the service whose log to print",
		},
		registry.Option{
			Name: "follow",
			Type: registry.TypeBool,
			Help: "Keep polling the log for new output",
		},
		registry.Option{
			Name: "filter_pattern",
			Type: registry.TypeText,
			Help: "Only print lines containing this substring",
		},
	),
}

func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   logsDescriptor.Name,
		Short: logsDescriptor.Short,
		Long:  logsDescriptor.Long,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			path := []string{"logs"}
			service := resolveString(cmd, cfg, env, path, "service")
			follow := resolveBool(cmd, cfg, env, path, "follow")
			filter := resolveString(cmd, cfg, env, path, "filter_pattern")

			if service == "" {
				return fmt.Errorf("--service is required")
			}

			logPath := runner.LogPath(".", service)
			offset, err := printLog(logPath, 0, filter)
			if err != nil {
				return err
			}

			for follow {
				time.Sleep(500 * time.Millisecond)
				offset, err = printLog(logPath, offset, filter)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	registry.Bind(cmd.Flags(), logsDescriptor.Options)
	return cmd
}

// printLog prints log content past offset, applying the line filter, and
// returns the new offset. A missing log file counts as empty.
func printLog(path string, offset int64, filter string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return offset, nil
		}
		return offset, fmt.Errorf("read log: %w", err)
	}
	if int64(len(data)) <= offset {
		return offset, nil
	}

	for _, line := range strings.Split(strings.TrimRight(string(data[offset:]), "\n"), "\n") {
		if filter != "" && !strings.Contains(line, filter) {
			continue
		}
		fmt.Println(line)
	}
	return int64(len(data)), nil
}
