package claude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spring-ai-community/agent-utils-go/subagent"
)

func writeAgentFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agent.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestResolver_CanResolve(t *testing.T) {
	r := NewResolver()
	assert.True(t, r.CanResolve(subagent.Reference{Kind: Kind}))
	assert.False(t, r.CanResolve(subagent.Reference{Kind: "A2A"}))
}

func TestResolver_Resolve(t *testing.T) {
	path := writeAgentFile(t, `---
name: code-reviewer
description: Reviews code changes for correctness
model: claude-sonnet-4-5
tools: Read, Grep, Glob
disallowedTools: Bash
skills: review-checklist
permissionMode: plan
maxBudget: 2.50
---
You are a meticulous code reviewer.

Focus on correctness first.
`)

	r := NewResolver()
	def, err := r.Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.NoError(t, err)

	cd, ok := def.(*Definition)
	require.True(t, ok)

	assert.Equal(t, "code-reviewer", cd.Name())
	assert.Equal(t, "Reviews code changes for correctness", cd.Description())
	assert.Equal(t, Kind, cd.Kind())
	assert.Equal(t, "claude-sonnet-4-5", cd.Model())
	assert.Equal(t, []string{"Read", "Grep", "Glob"}, cd.Tools())
	assert.Equal(t, []string{"Bash"}, cd.DisallowedTools())
	assert.Equal(t, []string{"review-checklist"}, cd.Skills())
	assert.Equal(t, "plan", cd.PermissionMode())
	assert.True(t, decimal.NewFromFloat(2.50).Equal(cd.MaxBudget()))
	assert.Equal(t, "You are a meticulous code reviewer.\n\nFocus on correctness first.", cd.SystemPrompt())
}

func TestResolver_Resolve_FileURIPrefix(t *testing.T) {
	path := writeAgentFile(t, `---
name: helper
description: Helps out
---
Body.
`)

	r := NewResolver()
	def, err := r.Resolve(subagent.Reference{URI: "file:" + path, Kind: Kind})
	require.NoError(t, err)
	assert.Equal(t, "helper", def.Name())
}

func TestResolver_Resolve_Defaults(t *testing.T) {
	path := writeAgentFile(t, `---
name: minimal
description: Bare minimum agent
---
Prompt.
`)

	r := NewResolver()
	def, err := r.Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.NoError(t, err)

	cd := def.(*Definition)
	assert.Empty(t, cd.Model())
	assert.Nil(t, cd.Tools())
	assert.Nil(t, cd.DisallowedTools())
	assert.Equal(t, "default", cd.PermissionMode())
	assert.True(t, cd.MaxBudget().IsZero())
}

func TestResolver_Resolve_MissingName(t *testing.T) {
	path := writeAgentFile(t, `---
description: No name here
---
Prompt.
`)

	_, err := NewResolver().Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no name")
}

func TestResolver_Resolve_MissingDescription(t *testing.T) {
	path := writeAgentFile(t, `---
name: nameless-wonder
---
Prompt.
`)

	_, err := NewResolver().Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no description")
}

func TestResolver_Resolve_MissingFrontMatter(t *testing.T) {
	path := writeAgentFile(t, "Just a plain markdown file.\n")

	_, err := NewResolver().Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "front matter")
}

func TestResolver_Resolve_UnterminatedFrontMatter(t *testing.T) {
	path := writeAgentFile(t, `---
name: broken
description: Never closed
`)

	_, err := NewResolver().Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated")
}

func TestResolver_Resolve_InvalidBudget(t *testing.T) {
	path := writeAgentFile(t, `---
name: spendy
description: Bad budget
maxBudget: lots
---
Prompt.
`)

	_, err := NewResolver().Resolve(subagent.Reference{URI: path, Kind: Kind})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maxBudget")
}

func TestResolver_Resolve_FileNotFound(t *testing.T) {
	_, err := NewResolver().Resolve(subagent.Reference{URI: "/does/not/exist.md", Kind: Kind})
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,, b "))
}
