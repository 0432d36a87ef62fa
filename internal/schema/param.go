package schema

import (
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/harborline/shipyard/internal/registry"
)

// stringTypes are the declared option types that collapse to a plain JSON
// Schema string. Choice options carry their allowed values separately as an
// enum, and path-like options have no string subtype in the schema dialect.
var stringTypes = map[string]bool{
	registry.TypeText:      true,
	registry.TypePath:      true,
	registry.TypeChoice:    true,
	registry.TypeFilename:  true,
	registry.TypeDirectory: true,
}

// Parameter is the schema-relevant view of one command-line option.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Default     any
	Items       string
	Choices     []string
}

// NewParameter normalizes one option descriptor. It never fails: missing
// fields fall back to defaults that still produce a valid fragment.
func NewParameter(opt registry.Option) Parameter {
	declared := strings.ToLower(opt.Type)

	var paramType string
	switch {
	case stringTypes[declared]:
		paramType = "string"
	case declared == registry.TypeList:
		paramType = "array"
	case declared == "":
		paramType = "string"
	default:
		paramType = declared
	}

	p := Parameter{
		Name:        opt.Name,
		Type:        paramType,
		Description: cleanText(opt.Help),
	}
	if paramType == "array" {
		// Only homogeneous string arrays are emitted, whatever the
		// option's actual element type.
		p.Items = "string"
	}
	if truthy(opt.Default) {
		p.Default = sequenceDefault(opt.Default)
	}
	if declared == registry.TypeChoice && len(opt.Choices) > 0 {
		p.Choices = opt.Choices
	}
	return p
}

// toSchema returns the JSON Schema fragment for the parameter.
func (p Parameter) toSchema() *jsonschema.Schema {
	s := &jsonschema.Schema{
		Title:       p.Name,
		Type:        p.Type,
		Description: p.Description,
	}
	if p.Default != nil {
		s.Default = p.Default
	}
	if p.Items != "" {
		s.Items = &jsonschema.Schema{Type: p.Items}
	}
	if len(p.Choices) > 0 {
		enum := make([]any, 0, len(p.Choices))
		for _, c := range p.Choices {
			enum = append(enum, c)
		}
		s.Enum = enum
	}
	return s
}

// cleanText normalizes help text for the schema: backspace control characters
// are dropped, then surrounding newlines, then surrounding whitespace.
// Cleaning is idempotent and empty input yields "".
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\b", "")
	text = strings.Trim(text, "\n")
	return strings.TrimSpace(text)
}

// truthy reports whether a default value is worth recording. Zero scalars,
// empty strings and empty sequences all count as "no default".
func truthy(v any) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case bool:
		return value
	case int:
		return value != 0
	case int64:
		return value != 0
	case float64:
		return value != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	}
	return true
}

// sequenceDefault converts fixed-size array defaults into slices so that
// every recorded sequence default has the same shape.
func sequenceDefault(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Array {
		return v
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
