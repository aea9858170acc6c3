package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclare_Basic(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("datastore", nil))
	require.NoError(t, g.Declare("cache", []string{"datastore"}))

	assert.True(t, g.Known("datastore"))
	assert.True(t, g.Known("cache"))
	assert.False(t, g.Known("users"))
	assert.Equal(t, []string{"datastore"}, g.DirectDependencies("cache"))
	assert.Nil(t, g.DirectDependencies("datastore"))
	assert.Equal(t, []string{"datastore", "cache"}, g.Names())
}

func TestDeclare_IdempotentForIdenticalSet(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("users", []string{"cache", "auth"}))

	// Same set, different order and with a duplicate: still a no-op.
	require.NoError(t, g.Declare("users", []string{"auth", "cache", "auth"}))
	assert.ElementsMatch(t, []string{"cache", "auth"}, g.DirectDependencies("users"))
}

func TestDeclare_ConflictingSetFails(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("users", []string{"cache"}))

	err := g.Declare("users", []string{"cache", "auth"})
	require.Error(t, err)

	var ambiguous *AmbiguousDeclarationError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "users", ambiguous.Service)
	assert.Equal(t, []string{"cache"}, ambiguous.Declared)
	assert.Contains(t, err.Error(), "conflicting dependencies")
}

func TestDeclare_SelfEdgeFails(t *testing.T) {
	g := New()
	err := g.Declare("users", []string{"cache", "users"})
	require.Error(t, err)

	var selfRef *SelfReferenceError
	require.ErrorAs(t, err, &selfRef)
	assert.Equal(t, "users", selfRef.Service)
	assert.False(t, g.Known("users"), "failed declaration must not be recorded")
}

func TestDirectDependencies_ReturnsCopy(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("cache", []string{"datastore"}))

	deps := g.DirectDependencies("cache")
	deps[0] = "mutated"
	assert.Equal(t, []string{"datastore"}, g.DirectDependencies("cache"))
}

func TestClosure(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("datastore", nil))
	require.NoError(t, g.Declare("auth", []string{"datastore"}))
	require.NoError(t, g.Declare("cache", []string{"datastore"}))
	require.NoError(t, g.Declare("users", []string{"cache", "auth"}))

	closure, err := g.Closure("users")
	require.NoError(t, err)
	assert.Equal(t, []string{"datastore", "auth", "cache", "users"}, closure)

	closure, err = g.Closure("auth")
	require.NoError(t, err)
	assert.Equal(t, []string{"datastore", "auth"}, closure)

	closure, err = g.Closure("datastore")
	require.NoError(t, err)
	assert.Equal(t, []string{"datastore"}, closure)
}

func TestClosure_UnknownTarget(t *testing.T) {
	g := New()

	_, err := g.Closure("ghost")
	var unknown *UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.Dependency)
}

func TestClosure_DanglingEdge(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("users", []string{"cache"}))

	_, err := g.Closure("users")
	var unknown *UnknownDependencyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "users", unknown.Dependent)
	assert.Equal(t, "cache", unknown.Dependency)

	// Declaring the missing service afterwards repairs resolution; load
	// order must not matter.
	require.NoError(t, g.Declare("cache", nil))
	closure, err := g.Closure("users")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"users", "cache"}, closure)
}
