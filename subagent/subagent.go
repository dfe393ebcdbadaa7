// Package subagent resolves named subagent definitions through pluggable
// per-kind resolvers and delegates tasks to the executor registered for the
// resolved kind, synchronously or in the background behind an opaque handle.
//
// A kind is a protocol discriminator ("CLAUDE" for local markdown-defined
// agents, "A2A" for remote agent-card endpoints, anything a host registers).
// Each kind contributes one Type pairing a Resolver with an Executor; the
// package itself knows nothing about any wire format.
package subagent

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the subagent package.
var (
	ErrUnknownSubagent     = errors.New("subagent: unknown subagent")
	ErrNoExecutor          = errors.New("subagent: no executor for kind")
	ErrUnresolvedReference = errors.New("subagent: no resolver claims reference")
	ErrDuplicateKind       = errors.New("subagent: duplicate kind")
)

// Reference points at a subagent that has not been resolved yet: a location,
// the kind of protocol that understands it, and optional metadata for the
// resolver. References are immutable configuration values consumed exactly
// once at registry build time.
type Reference struct {
	// URI locates the definition source: a markdown file path, a remote
	// agent base URL, whatever the kind's resolver expects.
	URI string

	// Kind selects the resolver and, later, the executor.
	Kind string

	// Metadata carries resolver-specific settings.
	Metadata map[string]string
}

// Definition is the resolved, protocol-specific description of a callable
// subagent. Implementations are immutable after resolution.
type Definition interface {
	// Name is the unique key callers use in TaskCall.SubagentType.
	Name() string

	// Description is the human-readable capability summary.
	Description() string

	// Kind matches the Reference the definition was resolved from.
	Kind() string

	// Reference returns the originating reference.
	Reference() Reference
}

// RegistrationLine formats a definition for embedding into a Task tool
// description listing.
func RegistrationLine(def Definition) string {
	return fmt.Sprintf("-%s: /%s", def.Name(), def.Description())
}

// Resolver turns references of one kind into definitions at configuration
// time.
type Resolver interface {
	// CanResolve reports whether this resolver claims the reference.
	CanResolve(ref Reference) bool

	// Resolve builds the definition. Called only when CanResolve returned
	// true.
	Resolve(ref Reference) (Definition, error)
}

// Executor runs a task against a resolved definition of its kind and returns
// the subagent's response text.
type Executor interface {
	// Kind names the definition kind this executor serves.
	Kind() string

	// Execute runs the task synchronously. Blocking is expected; background
	// submission is the Delegator's job.
	Execute(ctx context.Context, call TaskCall, def Definition) (string, error)
}

// Type pairs the resolver and executor for one kind. At most one Type per
// distinct kind may be registered; NewDelegator rejects duplicates.
type Type struct {
	Resolver Resolver
	Executor Executor
}

// Kind returns the kind served by this type's executor.
func (t Type) Kind() string {
	return t.Executor.Kind()
}

// TaskCall is the input to delegation. The json/jsonschema tags double as
// the LLM tool input schema for the Task tool.
type TaskCall struct {
	Description     string `json:"description" jsonschema:"required,description=A short (3-5 word) description of the task"`
	Prompt          string `json:"prompt" jsonschema:"required,description=The task for the agent to perform"`
	SubagentType    string `json:"subagent_type" jsonschema:"required,description=The type of specialized agent to use for this task"`
	Model           string `json:"model,omitempty" jsonschema:"description=Optional model override for this agent. If not specified inherits the subagent default"`
	Resume          string `json:"resume,omitempty" jsonschema:"description=Optional agent ID to resume from. The agent continues from the previous execution transcript"`
	RunInBackground bool   `json:"run_in_background,omitempty" jsonschema:"description=Set to true to run this agent in the background. Use TaskOutput to read the output later"`
}
