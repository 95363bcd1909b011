// Package flowfile loads flow graphs and their seeds from HCL files.
package flowfile // import "github.com/orkestr8/xflow/flowfile"

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/orkestr8/xflow"
	"github.com/orkestr8/xflow/flow"
)

// Factory builds a component of one kind from its config object.
type Factory func(config map[string]xflow.Value) (xflow.Component, error)

// Registry maps component kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds a kind. A kind can be registered only once.
func (r *Registry) Register(kind string, f Factory) error {
	if kind == "" || f == nil {
		return fmt.Errorf("Register: empty kind or nil factory")
	}
	if _, has := r.factories[kind]; has {
		return fmt.Errorf("Register: duplicate kind %s", kind)
	}
	r.factories[kind] = f
	return nil
}

// Kinds returns the registered kinds, sorted.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Flow is a built graph plus the seeds declared next to it.
type Flow struct {
	Graph *xflow.FlowGraph
	Seeds flow.Seeds
}

// configured attaches executor attributes to a component built by a factory.
type configured struct {
	xflow.Component
	attributes map[string]interface{}
}

func (c configured) Attributes() map[string]interface{} {
	return c.attributes
}

// Load reads and builds the flow file at path.
func Load(ctx context.Context, path string, registry *Registry) (*Flow, error) {
	log := flow.LoggerFrom(ctx)
	log.Log("Loading flow file", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(src, path, registry)
	if err != nil {
		return nil, err
	}
	log.Log("Loaded flow file", "path", path, "graph", f.Graph.GraphName(),
		"components", f.Graph.Len(), "connections", len(f.Graph.Connections()), "seeds", len(f.Seeds))
	return f, nil
}

// Parse decodes src and builds the flow. filename is used in diagnostics and,
// without its extension, as the graph name when the file sets none.
func Parse(src []byte, filename string, registry *Registry) (*Flow, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse flow file %s: %s", filename, diags.Error())
	}

	var decoded File
	diags = gohcl.DecodeBody(file.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode flow file %s: %s", filename, diags.Error())
	}
	return decoded.Build(filename, registry)
}

// Build turns the decoded file into a flow graph and seeds.
func (f File) Build(filename string, registry *Registry) (*Flow, error) {
	name := f.Name
	if name == "" {
		base := filepath.Base(filename)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	b := xflow.NewBuilder(xflow.Options{Name: name})
	for _, block := range f.Components {
		c, mode, err := block.component(registry)
		if err != nil {
			return nil, fmt.Errorf("%s: component %s: %w", filename, block.Name, err)
		}
		if _, err := b.Add(block.Name, c, mode); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	// Connections are resolved against the names added above, so a
	// connect block may appear before the components it names.
	resolve := func(ref string) (xflow.PortRef, error) {
		component, port, ok := strings.Cut(ref, ".")
		if !ok || component == "" || port == "" {
			return xflow.PortRef{}, fmt.Errorf("bad port reference %q, want component.port", ref)
		}
		for i, block := range f.Components {
			if block.Name == component {
				return xflow.Ref(xflow.ComponentID(i), port), nil
			}
		}
		return xflow.PortRef{}, fmt.Errorf("bad port reference %q: no component %s", ref, component)
	}

	for _, block := range f.Connections {
		from, err := resolve(block.From)
		if err != nil {
			return nil, fmt.Errorf("%s: connect: %w", filename, err)
		}
		to, err := resolve(block.To)
		if err != nil {
			return nil, fmt.Errorf("%s: connect: %w", filename, err)
		}
		var options []xflow.ConnectOption
		if block.Feedback {
			options = append(options, xflow.Feedback())
		}
		if err := b.Connect(from, to, options...); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
	}

	fg, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	seeds := flow.Seeds{}
	for _, block := range f.Seeds {
		ref, err := resolve(block.Port)
		if err != nil {
			return nil, fmt.Errorf("%s: seed: %w", filename, err)
		}
		values, err := toValues(block.Values)
		if err != nil {
			return nil, fmt.Errorf("%s: seed %s: %w", filename, block.Port, err)
		}
		seeds[ref] = append(seeds[ref], values...)
	}
	return &Flow{Graph: fg, Seeds: seeds}, nil
}

func (block ComponentBlock) component(registry *Registry) (xflow.Component, xflow.ExecutionMode, error) {
	factory, has := registry.factories[block.Kind]
	if !has {
		return nil, 0, fmt.Errorf("unknown kind %s", block.Kind)
	}

	mode := xflow.Lazy
	if block.Mode != "" {
		m, err := xflow.ParseMode(block.Mode)
		if err != nil {
			return nil, 0, err
		}
		mode = m
	}

	config, err := toConfig(block.Config)
	if err != nil {
		return nil, 0, err
	}
	c, err := factory(config)
	if err != nil {
		return nil, 0, err
	}

	if block.Timeout != "" {
		if _, err := time.ParseDuration(block.Timeout); err != nil {
			return nil, 0, fmt.Errorf("timeout: %w", err)
		}
		c = configured{Component: c, attributes: map[string]interface{}{"timeout": block.Timeout}}
	}
	return c, mode, nil
}
