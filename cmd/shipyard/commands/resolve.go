package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborline/shipyard/internal/config"
	"github.com/harborline/shipyard/internal/registry"
)

// configOptions are attached to every config-consuming command. They select
// which file and environment parameters are read from, so the schema
// generator excludes them from the generated document.
var configOptions = []registry.Option{
	{
		Name:    "config_file",
		Type:    registry.TypePath,
		Help:    "Configuration file to read command parameters from",
		Default: config.DefaultFileName,
	},
	{
		Name:    "config_env",
		Type:    registry.TypeText,
		Help:    "Environment name whose parameters should be used",
		Default: config.DefaultEnv,
	},
}

func withConfigOptions(opts ...registry.Option) []registry.Option {
	return append(opts, configOptions...)
}

// loadConfig reads the config file and environment selected by the reserved
// flags. A missing file is not an error; commands then run on flag defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := cmd.Flags().GetString("config-file")
	if err != nil {
		return nil, "", err
	}
	env, err := cmd.Flags().GetString("config-env")
	if err != nil {
		return nil, "", err
	}

	if _, statErr := os.Stat(path); statErr != nil {
		if os.IsNotExist(statErr) {
			return nil, env, nil
		}
		return nil, "", statErr
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, env, nil
}

// The resolve helpers implement flag > config file > flag default precedence.
// Config lookups use the same joined keys the generated schema declares.

func resolveString(cmd *cobra.Command, cfg *config.Config, env string, cmdPath []string, key string) string {
	flag := cmd.Flags().Lookup(registry.FlagName(key))
	if flag != nil && flag.Changed {
		return flag.Value.String()
	}
	if cfg != nil {
		if v, ok := cfg.Parameter(env, cmdPath, key); ok {
			return fmt.Sprintf("%v", v)
		}
	}
	if flag != nil {
		return flag.Value.String()
	}
	return ""
}

func resolveInt(cmd *cobra.Command, cfg *config.Config, env string, cmdPath []string, key string) int {
	flag := cmd.Flags().Lookup(registry.FlagName(key))
	if flag == nil || !flag.Changed {
		if cfg != nil {
			if v, ok := cfg.Parameter(env, cmdPath, key); ok {
				if n, isInt := v.(int); isInt {
					return n
				}
			}
		}
	}
	n, _ := cmd.Flags().GetInt(registry.FlagName(key))
	return n
}

func resolveBool(cmd *cobra.Command, cfg *config.Config, env string, cmdPath []string, key string) bool {
	flag := cmd.Flags().Lookup(registry.FlagName(key))
	if flag == nil || !flag.Changed {
		if cfg != nil {
			if v, ok := cfg.Parameter(env, cmdPath, key); ok {
				if b, isBool := v.(bool); isBool {
					return b
				}
			}
		}
	}
	b, _ := cmd.Flags().GetBool(registry.FlagName(key))
	return b
}

func resolveStrings(cmd *cobra.Command, cfg *config.Config, env string, cmdPath []string, key string) []string {
	flag := cmd.Flags().Lookup(registry.FlagName(key))
	if flag == nil || !flag.Changed {
		if cfg != nil {
			if v, ok := cfg.Parameter(env, cmdPath, key); ok {
				switch value := v.(type) {
				case []string:
					return value
				case []any:
					out := make([]string, 0, len(value))
					for _, item := range value {
						out = append(out, fmt.Sprintf("%v", item))
					}
					return out
				}
			}
		}
	}
	s, _ := cmd.Flags().GetStringSlice(registry.FlagName(key))
	return s
}
