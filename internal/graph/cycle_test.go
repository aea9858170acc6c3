package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCycle_TwoNodeCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("ServiceA", []string{"ServiceB"}))
	require.NoError(t, g.Declare("ServiceB", []string{"ServiceA"}))

	cycle := g.FindCycle("ServiceA")
	assert.Equal(t, []string{"ServiceA", "ServiceB", "ServiceA"}, cycle)

	cycle = g.FindCycle("ServiceB")
	assert.Equal(t, []string{"ServiceB", "ServiceA", "ServiceB"}, cycle)
}

func TestFindCycle_TransitiveCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("a", []string{"b"}))
	require.NoError(t, g.Declare("b", []string{"c"}))
	require.NoError(t, g.Declare("c", []string{"a"}))

	cycle := g.FindCycle("a")
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycle)
}

func TestFindCycle_CycleBeyondStart(t *testing.T) {
	// The start node is not part of the cycle itself; the path must still
	// round-trip from the first recurring node, not from start.
	g := New()
	require.NoError(t, g.Declare("entry", []string{"b"}))
	require.NoError(t, g.Declare("b", []string{"c"}))
	require.NoError(t, g.Declare("c", []string{"b"}))

	cycle := g.FindCycle("entry")
	assert.Equal(t, []string{"b", "c", "b"}, cycle)
}

func TestFindCycle_AcyclicChain(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("a", []string{"b"}))
	require.NoError(t, g.Declare("b", []string{"c"}))
	require.NoError(t, g.Declare("c", nil))

	assert.Nil(t, g.FindCycle("a"))
}

func TestFindCycle_DiamondIsNotACycle(t *testing.T) {
	// a -> b, a -> c, b -> d, c -> d. The shared dependency d is reached
	// twice but never while on the active path, so no cycle is reported.
	g := New()
	require.NoError(t, g.Declare("d", nil))
	require.NoError(t, g.Declare("b", []string{"d"}))
	require.NoError(t, g.Declare("c", []string{"d"}))
	require.NoError(t, g.Declare("a", []string{"b", "c"}))

	assert.Nil(t, g.FindCycle("a"))
}

func TestFindCycle_IgnoresDanglingEdges(t *testing.T) {
	g := New()
	require.NoError(t, g.Declare("a", []string{"missing"}))

	assert.Nil(t, g.FindCycle("a"))
}
