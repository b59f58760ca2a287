package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRopeHangsFromPinnedEnd(t *testing.T) {
	const count = 10

	vertices := make([]planar.Vec2, count)
	masses := make([]float64, count)
	for i := 0; i < count; i++ {
		vertices[i].Set(float64(i), 0)
		masses[i] = 1.0
	}
	// Pin the first vertex.
	masses[0] = 0.0

	def := planar.MakeRopeDef()
	def.Vertices = vertices
	def.Count = count
	def.Masses = masses
	def.Gravity.Set(0, -10)

	rope := planar.MakeRope()
	rope.Initialize(&def)
	require.Equal(t, count, rope.GetVertexCount())

	dt := 1.0 / 60.0
	for i := 0; i < 600; i++ {
		rope.Step(dt, 1)
	}

	ps := rope.GetVertices()

	// The pinned vertex has not moved.
	assert.Equal(t, planar.MakeVec2(0, 0), ps[0])

	// The free end hangs below the pin.
	assert.Less(t, ps[count-1].Y, -1.0)

	// Stretch constraints keep neighbor spacing near one unit.
	for i := 0; i < count-1; i++ {
		spacing := ps[i].DistanceTo(ps[i+1])
		assert.InDelta(t, 1.0, spacing, 0.25, "segment %d stretched too far", i)
	}
}

func TestRopeSetAngleKeepsVertexCount(t *testing.T) {
	def := planar.MakeRopeDef()
	def.Count = 3
	def.Vertices = []planar.Vec2{
		planar.MakeVec2(0, 0),
		planar.MakeVec2(1, 0),
		planar.MakeVec2(2, 0),
	}
	def.Masses = []float64{0, 1, 1}

	rope := planar.MakeRope()
	rope.Initialize(&def)
	rope.SetAngle(0.5)

	assert.Equal(t, 3, rope.GetVertexCount())
}
