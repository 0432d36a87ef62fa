package schema

import (
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/harborline/shipyard/internal/config"
	"github.com/harborline/shipyard/internal/registry"
)

// KeyJoiner turns a command path into a single configuration property key.
// It must match the function the config reader uses or the generated schema
// will never validate a real config file.
type KeyJoiner func(segments []string) string

// reservedOptions select which environment/file configuration is read from.
// Allowing them inside a config file would let the file redirect its own
// resolution, so they never appear in the schema.
var reservedOptions = map[string]bool{
	"config_env":  true,
	"config_file": true,
}

var titleCaser = cases.Title(language.English)

// Command is one leaf command as it appears in the schema: a unique joined
// name, a cleaned description and its options in declaration order.
type Command struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// commandsFrom walks one top-level command package. Groups contribute one
// Command per subcommand, named by joining the package and subcommand names;
// leaves contribute a single Command under the package name alone.
func commandsFrom(pkg *registry.Command, join KeyJoiner) []Command {
	if pkg.Leaf() {
		return []Command{{
			Name:        join([]string{pkg.Name}),
			Description: commandHelp(pkg),
			Parameters:  parameters(pkg),
		}}
	}

	commands := make([]Command, 0, len(pkg.Subcommands))
	for _, sub := range pkg.Subcommands {
		commands = append(commands, Command{
			Name:        join([]string{pkg.Name, sub.Name}),
			Description: commandHelp(sub),
			Parameters:  parameters(sub),
		})
	}
	return commands
}

func commandHelp(cmd *registry.Command) string {
	if cmd.Long != "" {
		return cleanText(cmd.Long)
	}
	return cleanText(cmd.Short)
}

// parameters normalizes a command's options, skipping unnamed descriptors and
// the reserved configuration-redirection options.
func parameters(cmd *registry.Command) []Parameter {
	params := make([]Parameter, 0, len(cmd.Options))
	for _, opt := range cmd.Options {
		if opt.Name == "" || reservedOptions[opt.Name] {
			continue
		}
		params = append(params, NewParameter(opt))
	}
	return params
}

// fragment returns the command's single top-level schema entry. Commands whose
// top-level name segment is marked DetailStub in the policy get an empty
// parameter map and no per-parameter bullet list.
func (c Command) fragment(policy Policy) (string, *jsonschema.Schema) {
	segments := strings.Split(c.Name, config.KeyDelimiter)
	formatted := strings.Join(segments, " ")
	stub := policy[segments[0]] == DetailStub

	paramList := ""
	paramProps := jsonschema.NewProperties()
	if !stub {
		lines := make([]string, 0, len(c.Parameters))
		for _, p := range c.Parameters {
			lines = append(lines, fmt.Sprintf("%s:\n%s", p.Name, p.Description))
			paramProps.Set(p.Name, p.toSchema())
		}
		if len(lines) > 0 {
			paramList = "* " + strings.Join(lines, "\n* ")
		}
	}

	parametersSchema := &jsonschema.Schema{
		Title:       fmt.Sprintf("Parameters for the %s command", formatted),
		Description: fmt.Sprintf("Available parameters for the %s command:\n%s", formatted, paramList),
		Type:        "object",
		Properties:  paramProps,
	}

	props := jsonschema.NewProperties()
	props.Set("parameters", parametersSchema)

	return c.Name, &jsonschema.Schema{
		Title:       titleCaser.String(formatted) + " command",
		Description: c.Description,
		Properties:  props,
		Required:    []string{"parameters"},
	}
}
