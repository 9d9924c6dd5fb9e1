// Package tools exposes the task lifecycle as agent-callable tools.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/tasktrack/tasktrack/internal/logging"
)

// schemaBaseURL prefixes the in-memory resource URL of every tool schema.
const schemaBaseURL = "mem://tools/"

// ErrUnknownTool is returned by Call for a name that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Handler executes a tool with arguments that already passed schema
// validation.
type Handler func(ctx context.Context, args json.RawMessage) Result

// Definition is the client-facing description of a tool.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type tool struct {
	def     Definition
	schema  *jsonschema.Schema
	handler Handler
}

// Registry holds the registered tools.
type Registry struct {
	tools  map[string]*tool
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*tool),
		logger: logging.OrDefault(logger),
	}
}

// Register compiles the tool's input schema and adds it to the registry.
func (r *Registry) Register(def Definition, handler Handler) error {
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}

	schema, err := compileSchema(def.Name, def.InputSchema)
	if err != nil {
		return err
	}

	r.tools[def.Name] = &tool{def: def, schema: schema, handler: handler}
	return nil
}

// Definitions returns every registered tool, sorted by name.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Call validates args against the tool's schema and runs it. Only an unknown
// tool name is an error; everything else is reported in the Result.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	if len(bytes.TrimSpace(args)) == 0 || bytes.Equal(bytes.TrimSpace(args), []byte("null")) {
		args = json.RawMessage("{}")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(args))
	if err != nil {
		return invalidArguments("Arguments are not valid JSON", err.Error()), nil
	}
	if err := t.schema.Validate(doc); err != nil {
		r.logger.DebugContext(ctx, "tool arguments rejected", "tool", name, "error", err)
		return invalidArguments("Arguments do not match the tool schema", err.Error()), nil
	}

	result := t.handler(ctx, args)
	if result.IsError() {
		r.logger.InfoContext(ctx, "tool call failed", "tool", name, "code", result.Error.Code)
	} else {
		r.logger.DebugContext(ctx, "tool call succeeded", "tool", name, "kind", string(result.Kind))
	}
	return result, nil
}

func compileSchema(name string, raw json.RawMessage) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s schema: %w", name, err)
	}

	// Relative URLs resolve against the working directory.
	url := schemaBaseURL + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add %s schema resource: %w", name, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", name, err)
	}
	return schema, nil
}
