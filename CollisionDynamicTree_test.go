package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aabbAt(x, y, hx, hy float64) planar.AABB {
	bb := planar.MakeAABB()
	bb.LowerBound.Set(x-hx, y-hy)
	bb.UpperBound.Set(x+hx, y+hy)
	return bb
}

func TestDynamicTreeCreateQueryDestroy(t *testing.T) {
	tree := planar.MakeDynamicTree()

	ids := make([]int, 0, 10)
	for i := 0; i < 10; i++ {
		id := tree.CreateProxy(aabbAt(float64(i)*3, 0, 1, 1), i)
		ids = append(ids, id)
	}

	tree.Validate()
	assert.LessOrEqual(t, tree.GetHeight(), 6)

	// Query around proxy 4 finds exactly that proxy (spacing 3, fat margin
	// well under 1).
	found := make([]int, 0)
	tree.Query(func(nodeId int) bool {
		found = append(found, tree.GetUserData(nodeId).(int))
		return true
	}, aabbAt(12, 0, 0.5, 0.5))

	require.Len(t, found, 1)
	assert.Equal(t, 4, found[0])

	for _, id := range ids {
		tree.DestroyProxy(id)
	}
	tree.Validate()
	assert.Equal(t, 0, tree.GetHeight())
}

func TestDynamicTreeFatAABBContainsTight(t *testing.T) {
	tree := planar.MakeDynamicTree()
	tight := aabbAt(0, 0, 1, 1)
	id := tree.CreateProxy(tight, nil)

	fat := tree.GetFatAABB(id)
	assert.True(t, fat.Contains(tight))
	assert.Greater(t, fat.GetPerimeter(), tight.GetPerimeter())
}

func TestDynamicTreeMoveProxy(t *testing.T) {
	tree := planar.MakeDynamicTree()
	id := tree.CreateProxy(aabbAt(0, 0, 1, 1), nil)

	// A move inside the fat AABB does not re-insert.
	small := aabbAt(0.001, 0, 1, 1)
	assert.False(t, tree.MoveProxy(id, small, planar.MakeVec2(0.001, 0)))

	// A large move does.
	big := aabbAt(10, 0, 1, 1)
	assert.True(t, tree.MoveProxy(id, big, planar.MakeVec2(10, 0)))
	assert.True(t, tree.GetFatAABB(id).Contains(big))
}

func TestDynamicTreeRayCast(t *testing.T) {
	tree := planar.MakeDynamicTree()
	tree.CreateProxy(aabbAt(5, 0, 1, 1), "hit")
	tree.CreateProxy(aabbAt(5, 10, 1, 1), "miss")

	visited := make([]string, 0)
	input := planar.MakeRayCastInput()
	input.P1.Set(0, 0)
	input.P2.Set(20, 0)
	input.MaxFraction = 1.0

	tree.RayCast(func(in planar.RayCastInput, nodeId int) float64 {
		visited = append(visited, tree.GetUserData(nodeId).(string))
		return in.MaxFraction
	}, input)

	require.Len(t, visited, 1)
	assert.Equal(t, "hit", visited[0])
}

func TestDynamicTreeBalance(t *testing.T) {
	tree := planar.MakeDynamicTree()

	// A worst-case monotone insertion order still yields a balanced tree.
	for i := 0; i < 64; i++ {
		tree.CreateProxy(aabbAt(float64(i)*2.5, 0, 1, 1), i)
	}

	tree.Validate()
	assert.LessOrEqual(t, tree.GetHeight(), 16)
	assert.LessOrEqual(t, tree.GetMaxBalance(), 4)
	assert.GreaterOrEqual(t, tree.GetAreaRatio(), 1.0)
}

func TestBroadPhasePairEmission(t *testing.T) {
	bp := planar.MakeBroadPhase()

	a := bp.CreateProxy(aabbAt(0, 0, 1, 1), "a")
	b := bp.CreateProxy(aabbAt(1, 0, 1, 1), "b")
	_ = bp.CreateProxy(aabbAt(100, 0, 1, 1), "far")

	type pair struct{ a, b string }
	pairs := make([]pair, 0)
	collect := func(udA interface{}, udB interface{}) {
		pairs = append(pairs, pair{udA.(string), udB.(string)})
	}

	bp.UpdatePairs(collect)
	require.Len(t, pairs, 1, "overlapping pair emitted exactly once")

	// With no moved proxies there is nothing to emit.
	pairs = pairs[:0]
	bp.UpdatePairs(collect)
	assert.Len(t, pairs, 0)

	// Moving one proxy re-emits only pairs involving it.
	bp.MoveProxy(a, aabbAt(0.5, 0, 1, 1), planar.MakeVec2(0.5, 0))
	bp.TouchProxy(a)
	pairs = pairs[:0]
	bp.UpdatePairs(collect)
	assert.LessOrEqual(t, len(pairs), 1)

	assert.Equal(t, 3, bp.GetProxyCount())
	_ = b
}

func TestBroadPhaseTestOverlap(t *testing.T) {
	bp := planar.MakeBroadPhase()
	a := bp.CreateProxy(aabbAt(0, 0, 1, 1), nil)
	b := bp.CreateProxy(aabbAt(1, 0, 1, 1), nil)
	c := bp.CreateProxy(aabbAt(50, 0, 1, 1), nil)

	assert.True(t, bp.TestOverlap(a, b))
	assert.False(t, bp.TestOverlap(a, c))
}
