// Package registry holds the statically-declared description of the shipyard
// command tree. Each command package declares its descriptor next to its cobra
// constructor and binds its flags from it, so the CLI surface and the metadata
// consumed by schema generation cannot drift apart.
package registry

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// Declared option types. The schema generator maps these onto JSON Schema
// primitives; Bind maps them onto pflag registrations.
const (
	TypeText      = "text"
	TypePath      = "path"
	TypeFilename  = "filename"
	TypeDirectory = "directory"
	TypeChoice    = "choice"
	TypeList      = "list"
	TypeBool      = "boolean"
	TypeInt       = "integer"
	TypeNumber    = "number"
)

// Option describes one value-accepting command-line option. Name is the
// configuration key (underscored); the flag it binds to uses hyphens.
type Option struct {
	Name    string
	Type    string
	Help    string
	Default any
	Choices []string
}

// Command describes one command package. A Command with Subcommands is a
// group and is never directly invocable; a Command without them is a leaf.
type Command struct {
	Name        string
	Short       string
	Long        string
	Subcommands []*Command
	Options     []Option
}

// Leaf reports whether the command is directly invocable.
func (c *Command) Leaf() bool {
	return len(c.Subcommands) == 0
}

// FlagName returns the CLI flag spelling of a configuration key.
func FlagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Bind registers a flag on fs for every option, preserving declaration order.
func Bind(fs *pflag.FlagSet, opts []Option) {
	fs.SortFlags = false
	for _, o := range opts {
		name := FlagName(o.Name)
		switch o.Type {
		case TypeChoice:
			fs.Var(newChoiceValue(o.Choices, stringDefault(o.Default)), name, o.Help)
		case TypeList:
			fs.StringSlice(name, sliceDefault(o.Default), o.Help)
		case TypeBool:
			fs.Bool(name, boolDefault(o.Default), o.Help)
		case TypeInt:
			fs.Int(name, intDefault(o.Default), o.Help)
		case TypeNumber:
			fs.Float64(name, floatDefault(o.Default), o.Help)
		default:
			// text, path, filename, directory and anything unrecognized
			// are plain string flags.
			fs.String(name, stringDefault(o.Default), o.Help)
		}
	}
}

func stringDefault(v any) string {
	s, _ := v.(string)
	return s
}

func sliceDefault(v any) []string {
	s, _ := v.([]string)
	return s
}

func boolDefault(v any) bool {
	b, _ := v.(bool)
	return b
}

func intDefault(v any) int {
	n, _ := v.(int)
	return n
}

func floatDefault(v any) float64 {
	f, _ := v.(float64)
	return f
}

// choiceValue is a pflag.Value restricted to a fixed set of strings.
type choiceValue struct {
	value   string
	choices []string
}

func newChoiceValue(choices []string, def string) *choiceValue {
	return &choiceValue{value: def, choices: choices}
}

func (c *choiceValue) String() string {
	return c.value
}

func (c *choiceValue) Set(s string) error {
	for _, choice := range c.choices {
		if s == choice {
			c.value = s
			return nil
		}
	}
	return fmt.Errorf("invalid value %q (allowed: %s)", s, strings.Join(c.choices, ", "))
}

func (c *choiceValue) Type() string {
	return TypeChoice
}
