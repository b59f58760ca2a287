package planar_test

import (
	"math"
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func xfAt(x, y, angle float64) planar.Transformation {
	xf := planar.MakeTransformation()
	xf.Set(planar.MakeVec2(x, y), angle)
	return xf
}

func manifoldNormalIsUnit(t *testing.T, manifold *planar.Manifold) {
	t.Helper()
	if manifold.PointCount == 0 || manifold.Type == planar.ManifoldTypeCircles {
		return
	}
	length := manifold.LocalNormal.Length()
	assert.InDelta(t, 1.0, length, 1e-5)
}

func TestCollideTouchingSquares(t *testing.T) {
	// Two unit-half-width squares whose faces touch exactly.
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	manifold := planar.Manifold{}
	planar.CollidePolygons(&manifold, &squareA, xfAt(-1, 0, 0), &squareB, xfAt(1, 0, 0))

	require.Equal(t, 2, manifold.PointCount)
	assert.Equal(t, planar.ManifoldTypeFaceA, manifold.Type)
	manifoldNormalIsUnit(t, &manifold)
	assert.InDelta(t, 1.0, manifold.LocalNormal.X, 1e-9)
	assert.InDelta(t, 0.0, manifold.LocalNormal.Y, 1e-9)

	// Identifiers must be distinct so the solver can warm start per point.
	assert.NotEqual(t, manifold.Points[0].Id.Key(), manifold.Points[1].Id.Key())

	// World-space separations at both points are zero for an exact touch.
	wm := planar.MakeWorldManifold()
	wm.Initialize(&manifold, xfAt(-1, 0, 0), squareA.GetRadius(), xfAt(1, 0, 0), squareB.GetRadius())
	for i := 0; i < manifold.PointCount; i++ {
		assert.InDelta(t, 0.0, wm.Separations[i], 2.0*planar.PolygonRadius+1e-9)
	}
}

func TestCollideDeeplyOverlappingSquares(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	// Centers one unit apart on x: overlap depth is 1.
	manifold := planar.Manifold{}
	planar.CollidePolygons(&manifold, &squareA, xfAt(0, 0, 0), &squareB, xfAt(1, 0, 0))

	require.Equal(t, 2, manifold.PointCount)
	manifoldNormalIsUnit(t, &manifold)

	wm := planar.MakeWorldManifold()
	wm.Initialize(&manifold, xfAt(0, 0, 0), squareA.GetRadius(), xfAt(1, 0, 0), squareB.GetRadius())
	for i := 0; i < manifold.PointCount; i++ {
		assert.InDelta(t, -1.0, wm.Separations[i], 0.05)
	}
}

func TestCollideSeparatedSquares(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	manifold := planar.Manifold{}
	planar.CollidePolygons(&manifold, &squareA, xfAt(-2, 0, 0), &squareB, xfAt(2, 0, 0))

	assert.Equal(t, 0, manifold.PointCount)
}

func TestCollideCircles(t *testing.T) {
	circleA := planar.MakeCircleShape()
	circleA.Radius = 1.0
	circleB := planar.MakeCircleShape()
	circleB.Radius = 1.0

	manifold := planar.Manifold{}
	planar.CollideCircles(&manifold, &circleA, xfAt(0, 0, 0), &circleB, xfAt(1.5, 0, 0))

	require.Equal(t, 1, manifold.PointCount)
	assert.Equal(t, planar.ManifoldTypeCircles, manifold.Type)

	// Separated circles yield nothing.
	manifold = planar.Manifold{}
	planar.CollideCircles(&manifold, &circleA, xfAt(0, 0, 0), &circleB, xfAt(2.5, 0, 0))
	assert.Equal(t, 0, manifold.PointCount)
}

func TestCollidePolygonAndCircle(t *testing.T) {
	polygon := planar.MakePolygonShape()
	polygon.SetAsBox(1, 1)
	circle := planar.MakeCircleShape()
	circle.Radius = 0.5

	manifold := planar.Manifold{}
	planar.CollidePolygonAndCircle(&manifold, &polygon, xfAt(0, 0, 0), &circle, xfAt(1.25, 0, 0))

	require.Equal(t, 1, manifold.PointCount)
	assert.Equal(t, planar.ManifoldTypeFaceA, manifold.Type)
	manifoldNormalIsUnit(t, &manifold)
}

func TestCollideEdgeAndCircle(t *testing.T) {
	edge := planar.MakeEdgeShape()
	edge.Set(planar.MakeVec2(-2, 0), planar.MakeVec2(2, 0))

	circle := planar.MakeCircleShape()
	circle.Radius = 0.5

	manifold := planar.Manifold{}
	planar.CollideEdgeAndCircle(&manifold, &edge, xfAt(0, 0, 0), &circle, xfAt(0, 0.4, 0))

	require.Equal(t, 1, manifold.PointCount)
}

func TestCollideEdgeAndPolygon(t *testing.T) {
	edge := planar.MakeEdgeShape()
	edge.Set(planar.MakeVec2(-2, 0), planar.MakeVec2(2, 0))

	polygon := planar.MakePolygonShape()
	polygon.SetAsBox(0.5, 0.5)

	manifold := planar.Manifold{}
	planar.CollideEdgeAndPolygon(&manifold, &edge, xfAt(0, 0, 0), &polygon, xfAt(0, 0.45, 0))

	require.NotEqual(t, 0, manifold.PointCount)
	manifoldNormalIsUnit(t, &manifold)
}

func TestContactIDStableAcrossFrames(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	first := planar.Manifold{}
	planar.CollidePolygons(&first, &squareA, xfAt(0, 0, 0), &squareB, xfAt(1.5, 0, 0))
	require.Equal(t, 2, first.PointCount)

	// A tiny motion of the same feature pair keeps the same ids.
	second := planar.Manifold{}
	planar.CollidePolygons(&second, &squareA, xfAt(0, 0, 0), &squareB, xfAt(1.501, 0.001, 0))
	require.Equal(t, 2, second.PointCount)

	for i := 0; i < 2; i++ {
		found := false
		for j := 0; j < 2; j++ {
			if first.Points[i].Id.Key() == second.Points[j].Id.Key() {
				found = true
			}
		}
		assert.True(t, found, "contact feature id should persist")
	}
}

func TestGetPointStates(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	touching := planar.Manifold{}
	planar.CollidePolygons(&touching, &squareA, xfAt(0, 0, 0), &squareB, xfAt(1.5, 0, 0))
	require.Equal(t, 2, touching.PointCount)

	empty := planar.Manifold{}

	var state1, state2 [planar.MaxManifoldPoints]planar.PointState
	planar.GetPointStates(&state1, &state2, empty, touching)
	assert.Equal(t, planar.PointStateAdd, state2[0])
	assert.Equal(t, planar.PointStateAdd, state2[1])

	planar.GetPointStates(&state1, &state2, touching, empty)
	assert.Equal(t, planar.PointStateRemove, state1[0])
	assert.Equal(t, planar.PointStateRemove, state1[1])

	planar.GetPointStates(&state1, &state2, touching, touching)
	assert.Equal(t, planar.PointStatePersist, state1[0])
	assert.Equal(t, planar.PointStatePersist, state2[0])
}

func TestWorldManifoldNormalPointsFromAToB(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	manifold := planar.Manifold{}
	planar.CollidePolygons(&manifold, &squareA, xfAt(0, 0, 0), &squareB, xfAt(1.5, 0, 0))
	require.NotEqual(t, 0, manifold.PointCount)

	wm := planar.MakeWorldManifold()
	wm.Initialize(&manifold, xfAt(0, 0, 0), squareA.GetRadius(), xfAt(1.5, 0, 0), squareB.GetRadius())

	assert.InDelta(t, 1.0, wm.Normal.Length(), 1e-5)
	assert.True(t, wm.Normal.X > 0.0, "normal should point from A to B")
	assert.False(t, math.IsNaN(wm.Points[0].X))
}
