package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func distanceBetweenSquares(t *testing.T, cache *planar.SimplexCache, xA, xB float64) planar.DistanceOutput {
	t.Helper()

	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	input := planar.MakeDistanceInput()
	input.ProxyA.Set(&squareA, 0)
	input.ProxyB.Set(&squareB, 0)
	input.TransformationA = xfAt(xA, 0, 0)
	input.TransformationB = xfAt(xB, 0, 0)
	input.UseRadii = false

	output := planar.MakeDistanceOutput()
	planar.Distance(&output, cache, &input)
	return output
}

func TestDistanceBetweenSeparatedSquares(t *testing.T) {
	cache := planar.MakeSimplexCache()
	output := distanceBetweenSquares(t, &cache, -3, 3)

	// Faces at -2 and +2: the gap is 4.
	assert.InDelta(t, 4.0, output.Distance, 1e-9)
	assert.InDelta(t, -2.0, output.PointA.X, 1e-9)
	assert.InDelta(t, 2.0, output.PointB.X, 1e-9)
}

func TestDistanceMonotoneOnApproach(t *testing.T) {
	cache := planar.MakeSimplexCache()

	prev := planar.MaxFloat
	for x := 5.0; x >= 1.05; x -= 0.01 {
		output := distanceBetweenSquares(t, &cache, -x, x)
		require.LessOrEqual(t, output.Distance, prev+1e-9,
			"distance must not increase while closing at x=%v", x)
		prev = output.Distance
	}
}

func TestDistanceMonotoneOnSeparation(t *testing.T) {
	cache := planar.MakeSimplexCache()

	prev := 0.0
	for x := 1.05; x <= 5.0; x += 0.01 {
		output := distanceBetweenSquares(t, &cache, -x, x)
		require.GreaterOrEqual(t, output.Distance, prev-1e-9,
			"distance must not decrease while separating at x=%v", x)
		prev = output.Distance
	}
}

func TestDistanceWarmCache(t *testing.T) {
	cache := planar.MakeSimplexCache()

	cold := distanceBetweenSquares(t, &cache, -3, 3)
	require.NotZero(t, cache.Count)

	// A warm second query on the same pair converges at least as fast and
	// agrees on the answer.
	warm := distanceBetweenSquares(t, &cache, -3, 3)
	assert.InDelta(t, cold.Distance, warm.Distance, 1e-12)
	assert.LessOrEqual(t, warm.Iterations, cold.Iterations)
}

func TestOverlapShapes(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	assert.True(t, planar.TestOverlapShapes(&squareA, 0, &squareB, 0, xfAt(0, 0, 0), xfAt(1.5, 0, 0)))
	assert.False(t, planar.TestOverlapShapes(&squareA, 0, &squareB, 0, xfAt(0, 0, 0), xfAt(5, 0, 0)))
}

func TestDistanceProxyFromShapes(t *testing.T) {
	circle := planar.MakeCircleShape()
	circle.Radius = 0.5

	proxy := planar.MakeDistanceProxy()
	proxy.Set(&circle, 0)
	assert.Equal(t, 1, proxy.GetVertexCount())
	assert.Equal(t, 0.5, proxy.Radius)

	square := planar.MakePolygonShape()
	square.SetAsBox(1, 1)
	proxy.Set(&square, 0)
	assert.Equal(t, 4, proxy.GetVertexCount())

	// Support in +x picks a vertex with x = 1.
	support := proxy.GetSupport(planar.MakeVec2(1, 0))
	assert.InDelta(t, 1.0, proxy.GetVertex(support).X, 1e-12)
}
