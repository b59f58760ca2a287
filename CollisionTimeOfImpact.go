package planar

import (
	"math"
)

/// Input parameters for TimeOfImpact
type TOIInput struct {
	ProxyA DistanceProxy
	ProxyB DistanceProxy
	SweepA Sweep
	SweepB Sweep
	TMax   float64 // defines sweep interval [0, tMax]

	// The linear slop drives the separation target; the iteration caps
	// bound the root finder and the outer axis loop.
	LinearSlop   float64
	MaxIters     int
	MaxRootIters int
}

func MakeTOIInput() TOIInput {
	return TOIInput{
		LinearSlop:   DefaultLinearSlop,
		MaxIters:     20,
		MaxRootIters: DefaultMaxTOIRootIterCount,
	}
}

/// Output parameters for TimeOfImpact.
type TOIState uint8

const (
	TOIStateUnknown TOIState = iota + 1
	TOIStateFailed
	TOIStateOverlapped
	TOIStateTouching
	TOIStateSeparated
)

type TOIOutput struct {
	State TOIState
	T     float64

	// Iteration accounting, for callers that track numerical exhaustion.
	Iters     int
	RootIters int
}

func MakeTOIOutput() TOIOutput {
	return TOIOutput{}
}

type sepFuncType uint8

const (
	sepFuncPoints sepFuncType = iota
	sepFuncFaceA
	sepFuncFaceB
)

/// Finds the separation between two swept proxies along a witness axis
/// recovered from the GJK simplex cache.
type SeparationFunction struct {
	ProxyA, ProxyB *DistanceProxy
	SweepA, SweepB Sweep
	Type           sepFuncType
	LocalPoint     Vec2
	Axis           Vec2
}

/// Both proxies' poses at fraction t of the sweep interval.
func (sf SeparationFunction) posesAt(t float64) (Transformation, Transformation) {
	var xfA, xfB Transformation
	sf.SweepA.GetTransformation(&xfA, t)
	sf.SweepB.GetTransformation(&xfB, t)
	return xfA, xfB
}

func (sf *SeparationFunction) Initialize(cache *SimplexCache, proxyA *DistanceProxy, sweepA Sweep, proxyB *DistanceProxy, sweepB Sweep, t1 float64) float64 {

	sf.ProxyA = proxyA
	sf.ProxyB = proxyB
	count := cache.Count
	Assert(0 < count && count < 3)

	sf.SweepA = sweepA
	sf.SweepB = sweepB

	xfA, xfB := sf.posesAt(t1)

	if count == 1 {
		sf.Type = sepFuncPoints
		localPointA := sf.ProxyA.GetVertex(cache.IndexA[0])
		localPointB := sf.ProxyB.GetVertex(cache.IndexB[0])
		pointA := xfA.Apply(localPointA)
		pointB := xfB.Apply(localPointB)
		sf.Axis = pointB.Sub(pointA)
		s := sf.Axis.Normalize()
		return s
	} else if cache.IndexA[0] == cache.IndexA[1] {
		// Two points on B and one on A.
		sf.Type = sepFuncFaceB
		localPointB1 := proxyB.GetVertex(cache.IndexB[0])
		localPointB2 := proxyB.GetVertex(cache.IndexB[1])

		sf.Axis = CrossVS(localPointB2.Sub(localPointB1), 1.0)

		sf.Axis.Normalize()
		normal := xfB.Q.Rotate(sf.Axis)

		sf.LocalPoint = localPointB1.Add(localPointB2).Scale(0.5)
		pointB := xfB.Apply(sf.LocalPoint)

		localPointA := proxyA.GetVertex(cache.IndexA[0])
		pointA := xfA.Apply(localPointA)

		s := pointA.Sub(pointB).Dot(normal)
		if s < 0.0 {
			sf.Axis = sf.Axis.Neg()
			s = -s
		}

		return s
	} else {
		// Two points on A and one or two points on B.
		sf.Type = sepFuncFaceA
		localPointA1 := sf.ProxyA.GetVertex(cache.IndexA[0])
		localPointA2 := sf.ProxyA.GetVertex(cache.IndexA[1])

		sf.Axis = CrossVS(localPointA2.Sub(localPointA1), 1.0)
		sf.Axis.Normalize()
		normal := xfA.Q.Rotate(sf.Axis)

		sf.LocalPoint = localPointA1.Add(localPointA2).Scale(0.5)
		pointA := xfA.Apply(sf.LocalPoint)

		localPointB := sf.ProxyB.GetVertex(cache.IndexB[0])
		pointB := xfB.Apply(localPointB)

		s := pointB.Sub(pointA).Dot(normal)
		if s < 0.0 {
			sf.Axis = sf.Axis.Neg()
			s = -s
		}

		return s
	}
}

//
func (sf *SeparationFunction) FindMinSeparation(indexA *int, indexB *int, t float64) float64 {

	xfA, xfB := sf.posesAt(t)

	switch sf.Type {
	case sepFuncPoints:
		{
			axisA := xfA.Q.InvRotate(sf.Axis)
			axisB := xfB.Q.InvRotate(sf.Axis.Neg())

			*indexA = sf.ProxyA.GetSupport(axisA)
			*indexB = sf.ProxyB.GetSupport(axisB)

			localPointA := sf.ProxyA.GetVertex(*indexA)
			localPointB := sf.ProxyB.GetVertex(*indexB)

			pointA := xfA.Apply(localPointA)
			pointB := xfB.Apply(localPointB)

			separation := pointB.Sub(pointA).Dot(sf.Axis)
			return separation
		}

	case sepFuncFaceA:
		{
			normal := xfA.Q.Rotate(sf.Axis)
			pointA := xfA.Apply(sf.LocalPoint)

			axisB := xfB.Q.InvRotate(normal.Neg())

			*indexA = -1
			*indexB = sf.ProxyB.GetSupport(axisB)

			localPointB := sf.ProxyB.GetVertex(*indexB)
			pointB := xfB.Apply(localPointB)

			separation := pointB.Sub(pointA).Dot(normal)
			return separation
		}

	case sepFuncFaceB:
		{
			normal := xfB.Q.Rotate(sf.Axis)
			pointB := xfB.Apply(sf.LocalPoint)

			axisA := xfA.Q.InvRotate(normal.Neg())

			*indexB = -1
			*indexA = sf.ProxyA.GetSupport(axisA)

			localPointA := sf.ProxyA.GetVertex(*indexA)
			pointA := xfA.Apply(localPointA)

			separation := pointA.Sub(pointB).Dot(normal)
			return separation
		}

	default:
		Assert(false)
		*indexA = -1
		*indexB = -1
		return 0.0
	}
}

//
func (sf *SeparationFunction) Evaluate(indexA int, indexB int, t float64) float64 {

	xfA, xfB := sf.posesAt(t)

	switch sf.Type {
	case sepFuncPoints:
		{
			localPointA := sf.ProxyA.GetVertex(indexA)
			localPointB := sf.ProxyB.GetVertex(indexB)

			pointA := xfA.Apply(localPointA)
			pointB := xfB.Apply(localPointB)
			separation := pointB.Sub(pointA).Dot(sf.Axis)

			return separation
		}

	case sepFuncFaceA:
		{
			normal := xfA.Q.Rotate(sf.Axis)
			pointA := xfA.Apply(sf.LocalPoint)

			localPointB := sf.ProxyB.GetVertex(indexB)
			pointB := xfB.Apply(localPointB)

			separation := pointB.Sub(pointA).Dot(normal)
			return separation
		}

	case sepFuncFaceB:
		{
			normal := xfB.Q.Rotate(sf.Axis)
			pointB := xfB.Apply(sf.LocalPoint)

			localPointA := sf.ProxyA.GetVertex(indexA)
			pointA := xfA.Apply(localPointA)

			separation := pointA.Sub(pointB).Dot(normal)
			return separation
		}

	default:
		Assert(false)
		return 0.0
	}
}

/// Compute the upper bound on time before two shapes penetrate. Time is represented as
/// a fraction between [0,tMax]. This uses a swept separating axis and may miss some intermediate,
/// non-tunneling collision. If you change the time interval, you should call this function
/// again.
/// Note: use Distance to compute the contact point and normal at the time of impact.
// CCD via the local separating axis method. This seeks progression
// by computing the largest time at which separation is maintained.
func TimeOfImpact(output *TOIOutput, input *TOIInput) {

	output.State = TOIStateUnknown
	output.T = input.TMax

	proxyA := &input.ProxyA
	proxyB := &input.ProxyB

	sweepA := input.SweepA
	sweepB := input.SweepB

	// Large rotations can make the root finder fail, so we normalize the
	// sweep angles.
	sweepA.Normalize()
	sweepB.Normalize()

	tMax := input.TMax

	linearSlop := input.LinearSlop
	if linearSlop <= 0.0 {
		linearSlop = DefaultLinearSlop
	}
	maxIters := input.MaxIters
	if maxIters <= 0 {
		maxIters = 20
	}
	maxRootIters := input.MaxRootIters
	if maxRootIters <= 0 {
		maxRootIters = DefaultMaxTOIRootIterCount
	}

	totalRadius := proxyA.Radius + proxyB.Radius
	target := math.Max(linearSlop, totalRadius-3.0*linearSlop)
	tolerance := 0.25 * linearSlop
	Assert(target > tolerance)

	t1 := 0.0
	iter := 0

	// Prepare input for distance query.
	cache := MakeSimplexCache()
	cache.Count = 0
	distanceInput := MakeDistanceInput()
	distanceInput.ProxyA = input.ProxyA
	distanceInput.ProxyB = input.ProxyB
	distanceInput.UseRadii = false

	// The outer loop progressively attempts to compute new separating axes.
	// This loop terminates when an axis is repeated (no progress is made).
	for {
		// The distance query at t1 also seeds the separating axis.
		sweepA.GetTransformation(&distanceInput.TransformationA, t1)
		sweepB.GetTransformation(&distanceInput.TransformationB, t1)
		distanceOutput := MakeDistanceOutput()
		Distance(&distanceOutput, &cache, &distanceInput)

		// If the shapes are overlapped, we give up on continuous collision.
		if distanceOutput.Distance <= 0.0 {
			// Failure!
			output.State = TOIStateOverlapped
			output.T = 0.0
			break
		}

		if distanceOutput.Distance < target+tolerance {
			// Victory!
			output.State = TOIStateTouching
			output.T = t1
			break
		}

		// Initialize the separating axis.
		var fcn SeparationFunction
		fcn.Initialize(&cache, proxyA, sweepA, proxyB, sweepB, t1)

		// Compute the TOI on the separating axis. We do this by successively
		// resolving the deepest point. This loop is bounded by the number of vertices.
		done := false
		t2 := tMax
		pushBackIter := 0
		for {
			// Find the deepest point at t2. Store the witness point indices.
			var indexA, indexB int
			s2 := fcn.FindMinSeparation(&indexA, &indexB, t2)

			// Is the final configuration separated?
			if s2 > target+tolerance {
				// Victory!
				output.State = TOIStateSeparated
				output.T = tMax
				done = true
				break
			}

			// Has the separation reached tolerance?
			if s2 > target-tolerance {
				// Advance the sweeps
				t1 = t2
				break
			}

			// Compute the initial separation of the witness points.
			s1 := fcn.Evaluate(indexA, indexB, t1)

			// Check for initial overlap. This might happen if the root finder
			// runs out of iterations.
			if s1 < target-tolerance {
				output.State = TOIStateFailed
				output.T = t1
				done = true
				break
			}

			// Check for touching
			if s1 <= target+tolerance {
				// Victory! t1 should hold the TOI (could be 0.0).
				output.State = TOIStateTouching
				output.T = t1
				done = true
				break
			}

			// Compute 1D root of: f(x) - target = 0
			rootIterCount := 0
			a1 := t1
			a2 := t2

			for {
				// Use a mix of the secant rule and bisection.
				t := 0.0

				if (rootIterCount & 1) != 0x0000 {
					// Secant rule to improve convergence.
					t = a1 + (target-s1)*(a2-a1)/(s2-s1)
				} else {
					// Bisection to guarantee progress.
					t = 0.5 * (a1 + a2)
				}

				rootIterCount++
				output.RootIters++

				s := fcn.Evaluate(indexA, indexB, t)

				if math.Abs(s-target) < tolerance {
					// t2 holds a tentative value for t1
					t2 = t
					break
				}

				// Ensure we continue to bracket the root.
				if s > target {
					a1 = t
					s1 = s
				} else {
					a2 = t
					s2 = s
				}

				if rootIterCount == maxRootIters {
					break
				}
			}

			pushBackIter++

			if pushBackIter == MaxPolygonVertices {
				break
			}
		}

		iter++
		output.Iters = iter

		if done {
			break
		}

		if iter == maxIters {
			// Root finder got stuck. Semi-victory.
			output.State = TOIStateFailed
			output.T = t1
			break
		}
	}
}
