// Package tools loads the tool registry from tools.yaml.
//
// The frontend pages historically passed an open-ended bag of booleans as
// "settings". Here each tool declares a closed, enumerated set of
// recognized options with documented defaults; anything else is rejected at
// the process boundary. The near-duplicate page variants differ only in
// data, so a variant is a registry entry, not a code path.
package tools

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind says where a tool's processing happens.
type Kind string

const (
	// KindRemote packages the collection into a multipart POST to an
	// opaque upstream endpoint.
	KindRemote Kind = "remote"
	// KindLocal runs in-process (link extraction, PDF word count).
	KindLocal Kind = "local"
)

// Mode says what a tool's items are.
type Mode string

const (
	// ModeFiles: each uploaded file is one item (images-to-PDF).
	ModeFiles Mode = "files"
	// ModePages: one uploaded document, one item per page (organizer).
	ModePages Mode = "pages"
)

// Option is one recognized setting for a tool.
type Option struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type"` // "string", "bool" or "int"
	Default any      `yaml:"default"`
	Enum    []string `yaml:"enum,omitempty"` // string options only
}

// Tool describes one browser tool page's backend behavior.
type Tool struct {
	Name         string   `yaml:"name"`
	Title        string   `yaml:"title"`
	Kind         Kind     `yaml:"kind"`
	Mode         Mode     `yaml:"mode"`
	Endpoint     string   `yaml:"endpoint,omitempty"` // remote tools
	LocalOp      string   `yaml:"local_op,omitempty"` // local tools
	Accept       []string `yaml:"accept"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
	MaxFiles     int      `yaml:"max_files"`
	Options      []Option `yaml:"options,omitempty"`
}

// Registry holds every configured tool.
type Registry struct {
	tools map[string]*Tool
	names []string
}

// Load reads and validates the registry from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool registry: %w", err)
	}

	var file struct {
		Tools []*Tool `yaml:"tools"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tool registry: %w", err)
	}
	if len(file.Tools) == 0 {
		return nil, fmt.Errorf("tool registry %s defines no tools", path)
	}

	r := &Registry{tools: make(map[string]*Tool, len(file.Tools))}
	for _, t := range file.Tools {
		if err := validateTool(t); err != nil {
			return nil, fmt.Errorf("tool %q: %w", t.Name, err)
		}
		if _, dup := r.tools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		r.tools[t.Name] = t
		r.names = append(r.names, t.Name)
	}
	return r, nil
}

func validateTool(t *Tool) error {
	if t.Name == "" {
		return fmt.Errorf("missing name")
	}
	switch t.Kind {
	case KindRemote:
		if t.Endpoint == "" {
			return fmt.Errorf("remote tool needs an endpoint")
		}
	case KindLocal:
		if t.LocalOp == "" {
			return fmt.Errorf("local tool needs a local_op")
		}
	default:
		return fmt.Errorf("unknown kind %q", t.Kind)
	}
	if t.Mode != ModeFiles && t.Mode != ModePages {
		return fmt.Errorf("unknown mode %q", t.Mode)
	}
	if len(t.Accept) == 0 {
		return fmt.Errorf("empty accept list")
	}
	for _, opt := range t.Options {
		switch opt.Type {
		case "string", "bool", "int":
		default:
			return fmt.Errorf("option %q has unknown type %q", opt.Name, opt.Type)
		}
	}
	return nil
}

// Get returns the tool with the given name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the configured tool names in file order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ResolveSettings validates user-supplied settings against the tool's
// option set and fills in defaults for everything omitted. Unrecognized
// names and mistyped values are rejected, never silently dropped.
func (t *Tool) ResolveSettings(supplied map[string]any) (map[string]any, error) {
	byName := make(map[string]*Option, len(t.Options))
	for i := range t.Options {
		byName[t.Options[i].Name] = &t.Options[i]
	}

	resolved := make(map[string]any, len(t.Options))
	for name, opt := range byName {
		resolved[name] = opt.Default
	}

	for name, value := range supplied {
		opt, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unrecognized setting %q for tool %s", name, t.Name)
		}
		coerced, err := opt.coerce(value)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", name, err)
		}
		resolved[name] = coerced
	}
	return resolved, nil
}

func (o *Option) coerce(value any) (any, error) {
	switch o.Type {
	case "bool":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", value)
		}
		return b, nil
	case "int":
		switch v := value.(type) {
		case int:
			return v, nil
		case float64:
			// JSON numbers decode as float64.
			if v != float64(int(v)) {
				return nil, fmt.Errorf("expected an integer, got %v", v)
			}
			return int(v), nil
		default:
			return nil, fmt.Errorf("expected an integer, got %T", value)
		}
	case "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", value)
		}
		if len(o.Enum) > 0 && !contains(o.Enum, s) {
			return nil, fmt.Errorf("%q is not one of: %s", s, strings.Join(o.Enum, ", "))
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown option type %q", o.Type)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
