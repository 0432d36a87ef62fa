package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/harborline/shipyard/internal/registry"
)

func TestGenerateRootKeys(t *testing.T) {
	doc, err := Generate(nil, nil, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	m := schemaToMap(t, doc)
	if m["$schema"] != "http://json-schema.org/draft-04/schema" {
		t.Errorf("$schema = %v", m["$schema"])
	}
	if m["title"] != "Shipyard configuration schema" {
		t.Errorf("title = %v", m["title"])
	}
	if m["type"] != "object" {
		t.Errorf("type = %v", m["type"])
	}
	if m["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v", m["additionalProperties"])
	}

	version := m["properties"].(map[string]any)["version"].(map[string]any)
	if version["type"] != "number" {
		t.Errorf("version.type = %v", version["type"])
	}
	if version["default"] != 0.1 {
		t.Errorf("version.default = %v", version["default"])
	}

	required, ok := m["required"].([]any)
	if !ok || len(required) != 1 || required[0] != "version" {
		t.Errorf("required = %v", m["required"])
	}

	env := m["patternProperties"].(map[string]any)["^.+$"].(map[string]any)
	if env["title"] != "Environment" {
		t.Errorf("environment title = %v", env["title"])
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	packages := []*registry.Command{{
		Name:  "foo",
		Short: "Foo command",
		Options: []registry.Option{
			{Name: "bar", Type: "text", Help: "Bar option", Default: "baz"},
		},
	}}

	doc, err := Generate(packages, nil, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	m := schemaToMap(t, doc)
	bar := m["patternProperties"].(map[string]any)["^.+$"].(map[string]any)["properties"].(map[string]any)["foo"].(map[string]any)["properties"].(map[string]any)["parameters"].(map[string]any)["properties"].(map[string]any)["bar"]

	want := map[string]any{
		"title":       "bar",
		"type":        "string",
		"description": "Bar option",
		"default":     "baz",
	}
	if !reflect.DeepEqual(bar, want) {
		t.Errorf("bar fragment = %#v, want %#v", bar, want)
	}
}

func TestGenerateGroupCommands(t *testing.T) {
	packages := []*registry.Command{{
		Name: "grp",
		Subcommands: []*registry.Command{
			{Name: "a", Short: "A"},
			{Name: "b", Short: "B"},
		},
	}}

	doc, err := Generate(packages, nil, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	m := schemaToMap(t, doc)
	props := m["patternProperties"].(map[string]any)["^.+$"].(map[string]any)["properties"].(map[string]any)
	for _, name := range []string{"grp_a", "grp_b"} {
		if _, ok := props[name]; !ok {
			t.Errorf("missing command entry %q: %v", name, props)
		}
	}
	if len(props) != 2 {
		t.Errorf("got %d command entries, want 2", len(props))
	}
}

func TestGenerateDuplicateCommandNames(t *testing.T) {
	packages := []*registry.Command{
		{Name: "foo", Short: "first"},
		{Name: "foo", Short: "second"},
	}

	_, err := Generate(packages, nil, nil)
	if err == nil {
		t.Fatal("Generate() succeeded, want duplicate-name error")
	}
	if !strings.Contains(err.Error(), `"foo"`) {
		t.Errorf("error does not name the duplicate: %v", err)
	}
}

func TestGenerateCustomJoiner(t *testing.T) {
	packages := []*registry.Command{{
		Name:        "grp",
		Subcommands: []*registry.Command{{Name: "a"}},
	}}

	join := func(segments []string) string { return strings.Join(segments, ".") }
	doc, err := Generate(packages, join, nil)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	m := schemaToMap(t, doc)
	props := m["patternProperties"].(map[string]any)["^.+$"].(map[string]any)["properties"].(map[string]any)
	if _, ok := props["grp.a"]; !ok {
		t.Errorf("custom joiner ignored: %v", props)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema", "shipyard.json")

	packages := []*registry.Command{{Name: "foo", Short: "Foo"}}
	if err := Write(path, packages, nil, nil); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read schema file: %v", err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"$schema\"") {
		t.Errorf("unexpected serialization prefix: %.40q", string(data))
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("written schema is not valid JSON: %v", err)
	}
	if m["$schema"] != "http://json-schema.org/draft-04/schema" {
		t.Errorf("$schema = %v", m["$schema"])
	}
}
