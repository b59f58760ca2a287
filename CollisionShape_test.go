package planar_test

import (
	"math"
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxMassData(t *testing.T) {
	hx, hy, density := 1.5, 0.75, 2.0

	shape := planar.MakePolygonShape()
	shape.SetAsBox(hx, hy)

	massData := planar.MakeMassData()
	shape.ComputeMass(&massData, density)

	mass := 4.0 * density * hx * hy
	assert.InDelta(t, mass, massData.Mass, 1e-9)
	assert.InDelta(t, 0.0, massData.Center.X, 1e-9)
	assert.InDelta(t, 0.0, massData.Center.Y, 1e-9)

	// Rectangle of extents (2hx, 2hy): I about the centroid is
	// m*((2hx)^2 + (2hy)^2)/12, and the centroid is the origin here.
	inertia := mass * (4.0*hx*hx + 4.0*hy*hy) / 12.0
	assert.InDelta(t, inertia, massData.I, 1e-9)
}

func TestOffCenterBoxMassData(t *testing.T) {
	hx, hy, density := 1.0, 1.0, 1.0
	center := planar.MakeVec2(3.0, -2.0)

	shape := planar.MakePolygonShape()
	shape.SetAsBoxFromCenterAndAngle(hx, hy, center, 0.0)

	massData := planar.MakeMassData()
	shape.ComputeMass(&massData, density)

	mass := 4.0 * density * hx * hy
	assert.InDelta(t, mass, massData.Mass, 1e-9)
	assert.InDelta(t, center.X, massData.Center.X, 1e-9)
	assert.InDelta(t, center.Y, massData.Center.Y, 1e-9)

	// Parallel axis: I about the origin grows by m*|c|^2.
	inertiaCenter := mass * (4.0*hx*hx + 4.0*hy*hy) / 12.0
	inertiaOrigin := inertiaCenter + mass*center.Dot(center)
	assert.InDelta(t, inertiaOrigin, massData.I, 1e-9)
}

func TestCircleMassData(t *testing.T) {
	radius, density := 0.5, 3.0

	shape := planar.MakeCircleShape()
	shape.Radius = radius
	shape.P.Set(1.0, 2.0)

	massData := planar.MakeMassData()
	shape.ComputeMass(&massData, density)

	mass := density * planar.Pi * radius * radius
	assert.InDelta(t, mass, massData.Mass, 1e-9)
	assert.Equal(t, shape.P, massData.Center)

	inertia := mass*0.5*radius*radius + mass*shape.P.Dot(shape.P)
	assert.InDelta(t, inertia, massData.I, 1e-9)
}

func TestEdgeMassData(t *testing.T) {
	shape := planar.MakeEdgeShape()
	shape.Set(planar.MakeVec2(-1, 0), planar.MakeVec2(1, 0))

	massData := planar.MakeMassData()
	shape.ComputeMass(&massData, 1.0)

	assert.Equal(t, 0.0, massData.Mass)
	assert.Equal(t, 0.0, massData.I)
}

func TestPolygonAABB(t *testing.T) {
	shape := planar.MakePolygonShape()
	shape.SetAsBox(1, 2)

	xf := planar.MakeTransformation()
	xf.Set(planar.MakeVec2(5, 5), 0.0)

	aabb := planar.MakeAABB()
	shape.ComputeAABB(&aabb, xf, 0)

	// The AABB is the box plus the polygon skin radius.
	assert.InDelta(t, 4.0-planar.PolygonRadius, aabb.LowerBound.X, 1e-12)
	assert.InDelta(t, 3.0-planar.PolygonRadius, aabb.LowerBound.Y, 1e-12)
	assert.InDelta(t, 6.0+planar.PolygonRadius, aabb.UpperBound.X, 1e-12)
	assert.InDelta(t, 7.0+planar.PolygonRadius, aabb.UpperBound.Y, 1e-12)
}

func TestPolygonValidate(t *testing.T) {
	shape := planar.MakePolygonShape()
	shape.SetAsBox(1, 1)
	assert.True(t, shape.Validate())

	hexagon := planar.MakePolygonShape()
	vertices := make([]planar.Vec2, 6)
	for i := 0; i < 6; i++ {
		angle := float64(i) / 6.0 * 2.0 * planar.Pi
		vertices[i].Set(math.Cos(angle), math.Sin(angle))
	}
	hexagon.Set(vertices, 6)
	assert.True(t, hexagon.Validate())
	assert.Equal(t, 6, hexagon.Count)
}

func TestChainChildEdges(t *testing.T) {
	vs := []planar.Vec2{
		planar.MakeVec2(0, 0),
		planar.MakeVec2(1, 0),
		planar.MakeVec2(2, 1),
		planar.MakeVec2(3, 1),
	}

	chain := planar.MakeChainShape()
	chain.CreateChain(vs, 4)

	assert.Equal(t, 3, chain.GetChildCount())

	edge := planar.MakeEdgeShape()
	chain.GetChildEdge(&edge, 1)
	assert.Equal(t, vs[1], edge.Vertex1)
	assert.Equal(t, vs[2], edge.Vertex2)
	assert.True(t, edge.HasVertex0)
	assert.True(t, edge.HasVertex3)
}

func TestChainLoopChildCount(t *testing.T) {
	vs := []planar.Vec2{
		planar.MakeVec2(0, 0),
		planar.MakeVec2(2, 0),
		planar.MakeVec2(2, 2),
		planar.MakeVec2(0, 2),
	}

	loop := planar.MakeChainShape()
	loop.CreateLoop(vs, 4)

	assert.Equal(t, 4, loop.GetChildCount())
}

func TestCircleRayCast(t *testing.T) {
	shape := planar.MakeCircleShape()
	shape.Radius = 1.0
	shape.P.Set(0, 0)

	xf := planar.MakeTransformation()
	xf.SetIdentity()

	input := planar.MakeRayCastInput()
	input.P1.Set(-3, 0)
	input.P2.Set(3, 0)
	input.MaxFraction = 1.0

	output := planar.MakeRayCastOutput()
	require.True(t, shape.RayCast(&output, input, xf, 0))
	assert.InDelta(t, 2.0/6.0, output.Fraction, 1e-9)
	assert.InDelta(t, -1.0, output.Normal.X, 1e-9)
}

func TestPolygonRayCast(t *testing.T) {
	shape := planar.MakePolygonShape()
	shape.SetAsBox(1, 1)

	xf := planar.MakeTransformation()
	xf.SetIdentity()

	input := planar.MakeRayCastInput()
	input.P1.Set(-3, 0)
	input.P2.Set(0, 0)
	input.MaxFraction = 1.0

	output := planar.MakeRayCastOutput()
	require.True(t, shape.RayCast(&output, input, xf, 0))
	assert.InDelta(t, 2.0/3.0, output.Fraction, 1e-9)
	assert.InDelta(t, -1.0, output.Normal.X, 1e-9)
}

func TestShapeTestPoint(t *testing.T) {
	shape := planar.MakePolygonShape()
	shape.SetAsBox(1, 1)

	xf := planar.MakeTransformation()
	xf.SetIdentity()

	assert.True(t, shape.TestPoint(xf, planar.MakeVec2(0.5, 0.5)))
	assert.False(t, shape.TestPoint(xf, planar.MakeVec2(1.5, 0.0)))
}
