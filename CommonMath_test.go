package planar_test

import (
	"math"
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformationRoundTrip(t *testing.T) {
	xf := planar.MakeTransformation()
	xf.Set(planar.MakeVec2(3.5, -2.25), 0.7)

	points := []planar.Vec2{
		planar.MakeVec2(0, 0),
		planar.MakeVec2(1, 1),
		planar.MakeVec2(-17.5, 4.125),
		planar.MakeVec2(1e-4, -1e-4),
	}

	for _, p := range points {
		q := xf.ApplyInverse(xf.Apply(p))
		assert.InDelta(t, p.X, q.X, 1e-12)
		assert.InDelta(t, p.Y, q.Y, 1e-12)
	}
}

func TestTransformationMulInverse(t *testing.T) {
	a := planar.MakeTransformationByPositionAndRotation(planar.MakeVec2(1, 2), planar.MakeRotFromAngle(0.3))
	b := planar.MakeTransformationByPositionAndRotation(planar.MakeVec2(-4, 0.5), planar.MakeRotFromAngle(-1.1))

	c := a.MulT(a.Mul(b))
	assert.InDelta(t, b.P.X, c.P.X, 1e-12)
	assert.InDelta(t, b.P.Y, c.P.Y, 1e-12)
	assert.InDelta(t, b.Q.GetAngle(), c.Q.GetAngle(), 1e-12)
}

func TestRotFromAngle(t *testing.T) {
	q := planar.MakeRotFromAngle(planar.Pi / 3.0)
	assert.InDelta(t, math.Cos(planar.Pi/3.0), q.C, 1e-15)
	assert.InDelta(t, math.Sin(planar.Pi/3.0), q.S, 1e-15)
	assert.InDelta(t, planar.Pi/3.0, q.GetAngle(), 1e-15)
}

func TestRotFromVector(t *testing.T) {
	fallback := planar.MakeRotFromAngle(0.25)

	q := planar.MakeRotFromVector(planar.MakeVec2(3, 4), fallback)
	assert.InDelta(t, 0.6, q.C, 1e-15)
	assert.InDelta(t, 0.8, q.S, 1e-15)

	// A degenerate vector falls back.
	q = planar.MakeRotFromVector(planar.MakeVec2(0, 0), fallback)
	assert.Equal(t, fallback, q)
}

func TestAngleFromDegrees(t *testing.T) {
	assert.InDelta(t, planar.Pi, planar.AngleFromDegrees(180), 1e-15)
	assert.InDelta(t, planar.Pi/2.0, planar.AngleFromDegrees(90), 1e-15)
}

func TestMat22Solve(t *testing.T) {
	m := planar.MakeMat22FromScalars(2, 1, 1, 3)
	b := planar.MakeVec2(5, 10)
	x := m.Solve(b)

	got := m.MulVec(x)
	assert.InDelta(t, b.X, got.X, 1e-12)
	assert.InDelta(t, b.Y, got.Y, 1e-12)
}

func TestMat33Solve(t *testing.T) {
	m := planar.MakeMat33FromColumns(
		planar.MakeVec3(2, 1, 0),
		planar.MakeVec3(1, 3, 1),
		planar.MakeVec3(0, 1, 4),
	)
	b := planar.MakeVec3(1, 2, 3)
	x := m.Solve33(b)

	got := m.MulVec(x)
	assert.InDelta(t, b.X, got.X, 1e-12)
	assert.InDelta(t, b.Y, got.Y, 1e-12)
	assert.InDelta(t, b.Z, got.Z, 1e-12)
}

func TestSweepAdvance0(t *testing.T) {
	sweep := planar.Sweep{}
	sweep.C0.Set(0, 0)
	sweep.C.Set(10, 0)
	sweep.A0 = 0.0
	sweep.A = 1.0
	sweep.Alpha0 = 0.0

	sweep.Advance0(0.5)

	assert.InDelta(t, 5.0, sweep.C0.X, 1e-12)
	assert.InDelta(t, 0.5, sweep.A0, 1e-12)
	assert.InDelta(t, 0.5, sweep.Alpha0, 1e-12)

	// Advancing again re-normalizes against the remaining interval.
	sweep.Advance0(0.75)
	assert.InDelta(t, 7.5, sweep.C0.X, 1e-12)
	assert.InDelta(t, 0.75, sweep.Alpha0, 1e-12)
}

func TestSweepGetTransformation(t *testing.T) {
	sweep := planar.Sweep{}
	sweep.C0.Set(0, 0)
	sweep.C.Set(4, 0)
	sweep.A0 = 0.0
	sweep.A = 0.0

	xf := planar.MakeTransformation()
	sweep.GetTransformation(&xf, 0.25)
	assert.InDelta(t, 1.0, xf.P.X, 1e-12)

	sweep.GetTransformation(&xf, 1.0)
	assert.InDelta(t, 4.0, xf.P.X, 1e-12)
}

func TestAABBOperations(t *testing.T) {
	a := planar.MakeAABB()
	a.LowerBound.Set(0, 0)
	a.UpperBound.Set(2, 2)

	b := planar.MakeAABB()
	b.LowerBound.Set(1, 1)
	b.UpperBound.Set(4, 3)

	require.True(t, a.IsValid())
	assert.True(t, planar.TestOverlapBoundingBoxes(a, b))
	assert.InDelta(t, 8.0, a.GetPerimeter(), 1e-12)

	u := planar.MakeAABB()
	u.CombineTwoInPlace(a, b)
	assert.True(t, u.Contains(a))
	assert.True(t, u.Contains(b))
	assert.Equal(t, planar.MakeVec2(0, 0), u.LowerBound)
	assert.Equal(t, planar.MakeVec2(4, 3), u.UpperBound)

	far := planar.MakeAABB()
	far.LowerBound.Set(10, 10)
	far.UpperBound.Set(11, 11)
	assert.False(t, planar.TestOverlapBoundingBoxes(a, far))
}

func TestAABBRayCast(t *testing.T) {
	bb := planar.MakeAABB()
	bb.LowerBound.Set(1, -1)
	bb.UpperBound.Set(2, 1)

	input := planar.MakeRayCastInput()
	input.P1.Set(0, 0)
	input.P2.Set(3, 0)
	input.MaxFraction = 1.0

	output := planar.MakeRayCastOutput()
	require.True(t, bb.RayCast(&output, input))
	assert.InDelta(t, 1.0/3.0, output.Fraction, 1e-12)
	assert.InDelta(t, -1.0, output.Normal.X, 1e-12)

	// Miss above the box.
	input.P1.Set(0, 5)
	input.P2.Set(3, 5)
	assert.False(t, bb.RayCast(&output, input))
}

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, uint32(2), planar.NextPowerOfTwo(1))
	assert.Equal(t, uint32(8), planar.NextPowerOfTwo(5))
	assert.Equal(t, uint32(16), planar.NextPowerOfTwo(8))
	assert.True(t, planar.IsPowerOfTwo(64))
	assert.False(t, planar.IsPowerOfTwo(48))
}
