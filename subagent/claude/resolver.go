package claude

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/spring-ai-community/agent-utils-go/subagent"
)

// frontMatter is the YAML block at the top of a subagent markdown file.
// List-valued fields are comma-separated strings, matching the Claude
// subagent file format.
type frontMatter struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Model           string `yaml:"model"`
	Tools           string `yaml:"tools"`
	DisallowedTools string `yaml:"disallowedTools"`
	Skills          string `yaml:"skills"`
	PermissionMode  string `yaml:"permissionMode"`
	MaxBudget       string `yaml:"maxBudget"`
}

// Resolver resolves CLAUDE-kind references by reading the referenced
// markdown file and parsing its front matter.
type Resolver struct{}

var _ subagent.Resolver = (*Resolver)(nil)

// NewResolver creates a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// CanResolve claims references of kind CLAUDE.
func (r *Resolver) CanResolve(ref subagent.Reference) bool {
	return ref.Kind == Kind
}

// Resolve reads the markdown file the reference points at and builds a
// Definition from its front matter and body. Files without a name or
// description are rejected.
func (r *Resolver) Resolve(ref subagent.Reference) (subagent.Definition, error) {
	path := strings.TrimPrefix(ref.URI, "file:")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading subagent file: %w", err)
	}

	fm, body, err := splitFrontMatter(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing subagent file %q: %w", path, err)
	}
	if fm.Name == "" {
		return nil, fmt.Errorf("subagent file %q has no name in front matter", path)
	}
	if fm.Description == "" {
		return nil, fmt.Errorf("subagent file %q has no description in front matter", path)
	}

	def := &Definition{
		ref:             ref,
		name:            fm.Name,
		description:     fm.Description,
		model:           fm.Model,
		tools:           splitList(fm.Tools),
		disallowedTools: splitList(fm.DisallowedTools),
		skills:          splitList(fm.Skills),
		permissionMode:  fm.PermissionMode,
		systemPrompt:    strings.TrimSpace(body),
	}
	if def.permissionMode == "" {
		def.permissionMode = "default"
	}
	if fm.MaxBudget != "" {
		budget, err := decimal.NewFromString(fm.MaxBudget)
		if err != nil {
			return nil, fmt.Errorf("subagent file %q has invalid maxBudget %q: %w", path, fm.MaxBudget, err)
		}
		def.maxBudget = budget
	}
	return def, nil
}

const frontMatterDelim = "---"

// splitFrontMatter separates the leading YAML block from the markdown body.
func splitFrontMatter(content string) (frontMatter, string, error) {
	var fm frontMatter

	trimmed := strings.TrimLeft(content, "\n\r \t")
	if !strings.HasPrefix(trimmed, frontMatterDelim+"\n") {
		return fm, "", fmt.Errorf("missing front matter block")
	}
	rest := trimmed[len(frontMatterDelim)+1:]

	end := strings.Index(rest, "\n"+frontMatterDelim)
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated front matter block")
	}

	if err := yaml.Unmarshal([]byte(rest[:end]), &fm); err != nil {
		return fm, "", err
	}

	body := rest[end+len("\n"+frontMatterDelim):]
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return fm, body, nil
}

// splitList parses a comma-separated front matter value into trimmed,
// non-empty entries.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
