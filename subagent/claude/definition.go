// Package claude implements the local subagent kind: definitions are
// markdown files whose YAML front matter names the agent and whose body
// becomes its system prompt. The chat model behind the executor is an
// interface the host supplies; this package carries no API client.
package claude

import (
	"github.com/shopspring/decimal"

	"github.com/spring-ai-community/agent-utils-go/subagent"
)

// Kind is the discriminator claimed by this package's resolver and executor.
const Kind = "CLAUDE"

// Definition is a subagent parsed from markdown with YAML front matter.
// Immutable after resolution.
type Definition struct {
	ref subagent.Reference

	name        string
	description string

	// model is the chat-client key this agent prefers. Empty inherits the
	// executor's default client.
	model string

	// tools restricts the agent to the named tools; nil inherits all.
	tools []string

	// disallowedTools are removed from the inherited or restricted set.
	disallowedTools []string

	// skills are loaded into the agent's context at startup.
	skills []string

	permissionMode string

	// maxBudget caps the agent's spend. Zero means uncapped.
	maxBudget decimal.Decimal

	// systemPrompt is the markdown body below the front matter.
	systemPrompt string
}

var _ subagent.Definition = (*Definition)(nil)

func (d *Definition) Name() string                  { return d.name }
func (d *Definition) Description() string           { return d.description }
func (d *Definition) Kind() string                  { return Kind }
func (d *Definition) Reference() subagent.Reference { return d.ref }
func (d *Definition) Model() string                 { return d.model }
func (d *Definition) Tools() []string               { return d.tools }
func (d *Definition) DisallowedTools() []string     { return d.disallowedTools }
func (d *Definition) Skills() []string              { return d.skills }
func (d *Definition) PermissionMode() string        { return d.permissionMode }
func (d *Definition) MaxBudget() decimal.Decimal    { return d.maxBudget }
func (d *Definition) SystemPrompt() string          { return d.systemPrompt }
