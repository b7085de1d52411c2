// Package registry holds the ordered list of tools and resolves intents to them.
package registry

import (
	"time"

	"orianna-agent/internal/tools/toolkit"
	manifest "orianna-agent/pkg/registry"
)

const ManifestVersion = "1.0.0"

// Registry is immutable after construction. Resolution order is the order
// tools were passed to New.
type Registry struct {
	tools []toolkit.Tool
}

func New(tools ...toolkit.Tool) *Registry {
	out := make([]toolkit.Tool, 0, len(tools))
	for _, t := range tools {
		if t != nil {
			out = append(out, t)
		}
	}
	return &Registry{tools: out}
}

// All returns the tools in resolution order.
func (r *Registry) All() []toolkit.Tool {
	return append([]toolkit.Tool(nil), r.tools...)
}

// Resolve returns the first tool whose CanHandle accepts intent.
func (r *Registry) Resolve(intent string) (toolkit.Tool, bool) {
	for _, t := range r.tools {
		if t.CanHandle(intent) {
			return t, true
		}
	}
	return nil, false
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name()
	}
	return names
}

// Manifest describes the registered tools. extra lists tools that are not
// dispatched, such as the spreadsheet sync, and are appended disabled.
func (r *Registry) Manifest(now time.Time, extra ...toolkit.Tool) *manifest.ToolManifest {
	m := &manifest.ToolManifest{
		Version:     ManifestVersion,
		GeneratedAt: now.UTC().Format(time.RFC3339),
	}
	for _, t := range r.tools {
		m.Tools = append(m.Tools, entry(t, true))
	}
	for _, t := range extra {
		m.Tools = append(m.Tools, entry(t, false))
	}
	return m
}

func entry(t toolkit.Tool, enabled bool) manifest.ToolEntry {
	e := manifest.ToolEntry{Name: t.Name(), SchemaPrompt: t.SchemaPrompt(), Enabled: enabled}
	if d, ok := t.(toolkit.Describer); ok {
		e.Intents = d.Intents()
		e.Actions = d.Actions()
	}
	return e
}
