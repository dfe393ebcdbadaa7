package claude

import (
	"context"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"

	agentutils "github.com/spring-ai-community/agent-utils-go"
	"github.com/spring-ai-community/agent-utils-go/subagent"
)

// DefaultClientKey is the chat-client map key used when neither the call nor
// the definition names a model.
const DefaultClientKey = "default"

// Exchange is one prompt/response pair of an agent's transcript.
type Exchange struct {
	Prompt   string
	Response string
}

// ChatRequest is what the executor hands to the host's chat client.
type ChatRequest struct {
	// System is the subagent's system prompt (the markdown body).
	System string
	// Prompt is the task prompt from the call.
	Prompt string
	// Model is the resolved model identifier.
	Model anthropic.Model
	// Tools is the subagent's allowed tool set after filtering. Nil means
	// all tools.
	Tools []string
	// Skills are loaded into the agent's context at startup.
	Skills []string
	// PermissionMode is the definition's permission mode ("default" when
	// the front matter names none).
	PermissionMode string
	// MaxBudget caps spend for this run. Zero means uncapped.
	MaxBudget decimal.Decimal
	// Transcript holds prior exchanges when resuming an agent.
	Transcript []Exchange
}

// ChatClient runs one prompt against a chat model and returns the final
// response text. The LLM loop itself lives with the host; this package only
// describes what it is asked to do.
type ChatClient interface {
	Call(ctx context.Context, req ChatRequest) (string, error)
}

// ChatClientFunc adapts a function to the ChatClient interface.
type ChatClientFunc func(ctx context.Context, req ChatRequest) (string, error)

func (f ChatClientFunc) Call(ctx context.Context, req ChatRequest) (string, error) {
	return f(ctx, req)
}

// Executor runs CLAUDE-kind subagents through host-supplied chat clients,
// keyed by model identifier with a mandatory DefaultClientKey fallback.
//
// Every execution is tagged with an agent ID returned in the response
// trailer; passing that ID as the call's resume token continues the agent
// with its previous transcript.
type Executor struct {
	clients   map[string]ChatClient
	toolNames []string

	mu       sync.Mutex
	sessions map[string][]Exchange
}

var _ subagent.Executor = (*Executor)(nil)

func newExecutor(clients map[string]ChatClient, toolNames []string) *Executor {
	return &Executor{
		clients:   clients,
		toolNames: toolNames,
		sessions:  make(map[string][]Exchange),
	}
}

// Kind returns the CLAUDE kind.
func (e *Executor) Kind() string {
	return Kind
}

// Execute runs the call against the definition's subagent: picks a chat
// client (call model override first, then the definition's model, then the
// default), applies tool filtering, loads the resume transcript if any, and
// records the new exchange so the agent can be resumed later.
func (e *Executor) Execute(ctx context.Context, call subagent.TaskCall, def subagent.Definition) (string, error) {
	cd, ok := def.(*Definition)
	if !ok {
		return "", fmt.Errorf("claude: definition %q has kind %s but is not a claude definition", def.Name(), def.Kind())
	}

	modelKey, client := e.pickClient(call.Model, cd.Model())

	var transcript []Exchange
	agentID := call.Resume
	if agentID != "" {
		var found bool
		transcript, found = e.transcript(agentID)
		if !found {
			return "", fmt.Errorf("claude: no transcript for agent %q", agentID)
		}
	} else {
		agentID = agentutils.GenerateID(agentutils.PrefixAgent)
	}

	response, err := client.Call(ctx, ChatRequest{
		System:         cd.SystemPrompt(),
		Prompt:         call.Prompt,
		Model:          anthropic.Model(modelKey),
		Tools:          filterTools(e.toolNames, cd.Tools(), cd.DisallowedTools()),
		Skills:         cd.Skills(),
		PermissionMode: cd.PermissionMode(),
		MaxBudget:      cd.MaxBudget(),
		Transcript:     transcript,
	})
	if err != nil {
		return "", fmt.Errorf("claude: subagent %q: %w", cd.Name(), err)
	}

	e.record(agentID, Exchange{Prompt: call.Prompt, Response: response})

	return fmt.Sprintf("%s\n\nagent_id: %s", response, agentID), nil
}

// pickClient resolves the chat client: the call's model override wins, then
// the definition's model, then the default. An override with no registered
// client silently falls back to the default rather than failing the task.
func (e *Executor) pickClient(callModel, defModel string) (string, ChatClient) {
	for _, key := range []string{callModel, defModel} {
		if key == "" {
			continue
		}
		if client, ok := e.clients[key]; ok {
			return key, client
		}
	}
	return DefaultClientKey, e.clients[DefaultClientKey]
}

func (e *Executor) transcript(agentID string) ([]Exchange, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	transcript, ok := e.sessions[agentID]
	if !ok {
		return nil, false
	}
	out := make([]Exchange, len(transcript))
	copy(out, transcript)
	return out, true
}

func (e *Executor) record(agentID string, ex Exchange) {
	e.mu.Lock()
	e.sessions[agentID] = append(e.sessions[agentID], ex)
	e.mu.Unlock()
}

// filterTools applies the definition's allowed and disallowed lists to the
// executor's full tool set. Nil allowed inherits everything.
func filterTools(all, allowed, disallowed []string) []string {
	if len(all) == 0 {
		return nil
	}

	keep := all
	if len(allowed) > 0 {
		allowedSet := toSet(allowed)
		keep = nil
		for _, name := range all {
			if allowedSet[name] {
				keep = append(keep, name)
			}
		}
	}
	if len(disallowed) > 0 {
		disallowedSet := toSet(disallowed)
		filtered := make([]string, 0, len(keep))
		for _, name := range keep {
			if !disallowedSet[name] {
				filtered = append(filtered, name)
			}
		}
		keep = filtered
	}
	return keep
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// TypeOption configures NewType.
type TypeOption func(*typeConfig)

type typeConfig struct {
	clients   map[string]ChatClient
	toolNames []string
}

// WithChatClient registers a chat client under a model key. The key
// DefaultClientKey must be registered for NewType to succeed.
func WithChatClient(modelKey string, client ChatClient) TypeOption {
	return func(c *typeConfig) {
		c.clients[modelKey] = client
	}
}

// WithTools sets the full tool set subagents of this type may use.
// Definitions narrow it with their tools/disallowedTools front matter.
func WithTools(names ...string) TypeOption {
	return func(c *typeConfig) {
		c.toolNames = append(c.toolNames, names...)
	}
}

// NewType builds the CLAUDE subagent.Type: the front-matter resolver paired
// with a chat-client-backed executor.
func NewType(opts ...TypeOption) (subagent.Type, error) {
	cfg := &typeConfig{clients: make(map[string]ChatClient)}
	for _, opt := range opts {
		opt(cfg)
	}
	if _, ok := cfg.clients[DefaultClientKey]; !ok {
		return subagent.Type{}, fmt.Errorf("claude: a %q chat client must be registered", DefaultClientKey)
	}
	return subagent.Type{
		Resolver: NewResolver(),
		Executor: newExecutor(cfg.clients, cfg.toolNames),
	}, nil
}
