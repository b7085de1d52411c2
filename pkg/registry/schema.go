// pkg/registry/schema.go
package registry

// ToolManifest describes the tools an assistant build exposes, in dispatch order.
type ToolManifest struct {
	Version     string      `json:"version"`
	GeneratedAt string      `json:"generatedAt"`
	Tools       []ToolEntry `json:"tools"`
}

type ToolEntry struct {
	Name         string   `json:"name"`
	Intents      []string `json:"intents"`
	Actions      []string `json:"actions"`
	SchemaPrompt string   `json:"schemaPrompt,omitempty"`
	Enabled      bool     `json:"enabled"`
}
