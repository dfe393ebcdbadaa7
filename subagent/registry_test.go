package subagent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDefinition is a minimal in-memory definition for registry and
// delegator tests.
type fakeDefinition struct {
	ref         Reference
	name        string
	description string
	kind        string
}

func (d *fakeDefinition) Name() string         { return d.name }
func (d *fakeDefinition) Description() string  { return d.description }
func (d *fakeDefinition) Kind() string         { return d.kind }
func (d *fakeDefinition) Reference() Reference { return d.ref }

// fakeResolver resolves references of its kind into fakeDefinitions named by
// the reference URI.
type fakeResolver struct {
	kind string
	err  error
}

func (r *fakeResolver) CanResolve(ref Reference) bool {
	return ref.Kind == r.kind
}

func (r *fakeResolver) Resolve(ref Reference) (Definition, error) {
	if r.err != nil {
		return nil, r.err
	}
	name := ref.URI
	if n, ok := ref.Metadata["name"]; ok {
		name = n
	}
	desc := "agent for " + ref.URI
	if d, ok := ref.Metadata["description"]; ok {
		desc = d
	}
	return &fakeDefinition{ref: ref, name: name, description: desc, kind: r.kind}, nil
}

// fakeExecutor records the calls it receives and answers with a canned
// response or error.
type fakeExecutor struct {
	kind     string
	response string
	err      error
	panics   bool
	calls    []TaskCall
	block    chan struct{} // when non-nil, Execute waits for it or ctx
}

func (e *fakeExecutor) Kind() string { return e.kind }

func (e *fakeExecutor) Execute(ctx context.Context, call TaskCall, def Definition) (string, error) {
	e.calls = append(e.calls, call)
	if e.panics {
		panic("executor blew up")
	}
	if e.block != nil {
		select {
		case <-e.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if e.err != nil {
		return "", e.err
	}
	if e.response != "" {
		return e.response, nil
	}
	return fmt.Sprintf("%s handled %q", def.Name(), call.Prompt), nil
}

func fakeType(kind string) Type {
	return Type{Resolver: &fakeResolver{kind: kind}, Executor: &fakeExecutor{kind: kind}}
}

func TestBuildRegistry(t *testing.T) {
	refs := []Reference{
		{URI: "alpha", Kind: "FAKE"},
		{URI: "beta", Kind: "FAKE"},
	}

	r, err := BuildRegistry(refs, []Type{fakeType("FAKE")})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"alpha", "beta"}, r.Names())

	def, ok := r.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "FAKE", def.Kind())
}

func TestBuildRegistry_UnresolvedKind(t *testing.T) {
	refs := []Reference{{URI: "remote", Kind: "A2A"}}

	_, err := BuildRegistry(refs, []Type{fakeType("FAKE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedReference)
	assert.Contains(t, err.Error(), "A2A")
	assert.Contains(t, err.Error(), "remote")
}

func TestBuildRegistry_DuplicateKind(t *testing.T) {
	_, err := BuildRegistry(nil, []Type{fakeType("FAKE"), fakeType("FAKE")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateKind)
}

func TestBuildRegistry_ResolverError(t *testing.T) {
	broken := Type{
		Resolver: &fakeResolver{kind: "FAKE", err: fmt.Errorf("bad file")},
		Executor: &fakeExecutor{kind: "FAKE"},
	}

	_, err := BuildRegistry([]Reference{{URI: "x", Kind: "FAKE"}}, []Type{broken})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad file")
}

func TestBuildRegistry_NameCollisionLastWins(t *testing.T) {
	refs := []Reference{
		{URI: "first.md", Kind: "FAKE", Metadata: map[string]string{"name": "reviewer", "description": "old"}},
		{URI: "second.md", Kind: "FAKE", Metadata: map[string]string{"name": "reviewer", "description": "new"}},
	}

	r, err := BuildRegistry(refs, []Type{fakeType("FAKE")})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Len())
	def, ok := r.Get("reviewer")
	require.True(t, ok)
	assert.Equal(t, "new", def.Description())
}

func TestBuildRegistry_FirstClaimingResolverWins(t *testing.T) {
	refs := []Reference{{URI: "x", Kind: "FAKE"}}
	types := []Type{
		{Resolver: &fakeResolver{kind: "OTHER"}, Executor: &fakeExecutor{kind: "OTHER"}},
		fakeType("FAKE"),
	}

	r, err := BuildRegistry(refs, types)
	require.NoError(t, err)

	def, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "FAKE", def.Kind())
}

func TestRegistry_Registrations(t *testing.T) {
	refs := []Reference{
		{URI: "alpha", Kind: "FAKE"},
		{URI: "beta", Kind: "FAKE"},
	}
	r, err := BuildRegistry(refs, []Type{fakeType("FAKE")})
	require.NoError(t, err)

	assert.Equal(t,
		"-alpha: /agent for alpha\n-beta: /agent for beta",
		r.Registrations())
}

func TestRegistrationLine(t *testing.T) {
	def := &fakeDefinition{name: "reviewer", description: "Reviews code changes"}
	assert.Equal(t, "-reviewer: /Reviews code changes", RegistrationLine(def))
}
