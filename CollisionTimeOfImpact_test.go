package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareProxy(hx, hy float64) planar.DistanceProxy {
	square := planar.MakePolygonShape()
	square.SetAsBox(hx, hy)
	proxy := planar.MakeDistanceProxy()
	proxy.Set(&square, 0)
	return proxy
}

func restingSweep(x, y float64) planar.Sweep {
	sweep := planar.Sweep{}
	sweep.C0.Set(x, y)
	sweep.C.Set(x, y)
	return sweep
}

func movingSweep(x0, y0, x1, y1 float64) planar.Sweep {
	sweep := planar.Sweep{}
	sweep.C0.Set(x0, y0)
	sweep.C.Set(x1, y1)
	return sweep
}

func TestTimeOfImpactTouching(t *testing.T) {
	input := planar.MakeTOIInput()
	input.ProxyA = squareProxy(1, 1)
	input.ProxyB = squareProxy(1, 1)
	input.SweepA = restingSweep(0, 0)
	// B flies from x=10 to x=-10, crossing A within the interval.
	input.SweepB = movingSweep(10, 0, -10, 0)
	input.TMax = 1.0

	output := planar.MakeTOIOutput()
	planar.TimeOfImpact(&output, &input)

	require.Equal(t, planar.TOIStateTouching, output.State)

	// Faces meet when B's center reaches x=2: that is 8 of 20 units in.
	assert.InDelta(t, 0.4, output.T, 0.01)
}

func TestTimeOfImpactSeparated(t *testing.T) {
	input := planar.MakeTOIInput()
	input.ProxyA = squareProxy(1, 1)
	input.ProxyB = squareProxy(1, 1)
	input.SweepA = restingSweep(0, 0)
	// B passes well above A.
	input.SweepB = movingSweep(10, 10, -10, 10)
	input.TMax = 1.0

	output := planar.MakeTOIOutput()
	planar.TimeOfImpact(&output, &input)

	assert.Equal(t, planar.TOIStateSeparated, output.State)
	assert.Equal(t, 1.0, output.T)
}

func TestTimeOfImpactOverlapped(t *testing.T) {
	input := planar.MakeTOIInput()
	input.ProxyA = squareProxy(1, 1)
	input.ProxyB = squareProxy(1, 1)
	input.SweepA = restingSweep(0, 0)
	input.SweepB = restingSweep(0.5, 0)
	input.TMax = 1.0

	output := planar.MakeTOIOutput()
	planar.TimeOfImpact(&output, &input)

	assert.Equal(t, planar.TOIStateOverlapped, output.State)
	assert.Equal(t, 0.0, output.T)
}

func TestTimeOfImpactRootIterationCap(t *testing.T) {
	input := planar.MakeTOIInput()
	input.ProxyA = squareProxy(1, 1)
	input.ProxyB = squareProxy(1, 1)
	input.SweepA = restingSweep(0, 0)
	input.SweepB = movingSweep(10, 0, -10, 0)
	input.TMax = 1.0
	input.MaxRootIters = 3

	output := planar.MakeTOIOutput()
	planar.TimeOfImpact(&output, &input)

	// A tight cap still yields a best-known answer rather than a panic.
	assert.NotEqual(t, planar.TOIStateUnknown, output.State)
	assert.GreaterOrEqual(t, output.T, 0.0)
	assert.LessOrEqual(t, output.T, 1.0)
}

func TestSeparationFunctionOnSeparatedSquares(t *testing.T) {
	squareA := planar.MakePolygonShape()
	squareA.SetAsBox(1, 1)
	squareB := planar.MakePolygonShape()
	squareB.SetAsBox(1, 1)

	proxyA := planar.MakeDistanceProxy()
	proxyA.Set(&squareA, 0)
	proxyB := planar.MakeDistanceProxy()
	proxyB.Set(&squareB, 0)

	// Prime a simplex cache with the two squares just apart on the x axis.
	input := planar.MakeDistanceInput()
	input.ProxyA = proxyA
	input.ProxyB = proxyB
	input.TransformationA = xfAt(-1.5, 0, 0)
	input.TransformationB = xfAt(1.5, 0, 0)
	input.UseRadii = false

	cache := planar.MakeSimplexCache()
	output := planar.MakeDistanceOutput()
	planar.Distance(&output, &cache, &input)
	require.NotZero(t, cache.Count)

	var fcn planar.SeparationFunction
	separation := fcn.Initialize(&cache, &proxyA, restingSweep(-1.5, 0), &proxyB, restingSweep(1.5, 0), 0.0)

	assert.InDelta(t, 1.0, separation, 1e-9)
	assert.InDelta(t, 1.0, fcn.Axis.Length(), 1e-9)
}
