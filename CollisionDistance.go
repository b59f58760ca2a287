package planar

/// A distance proxy wraps one convex piece of a shape for the GJK
/// distance query: its vertices plus the vertex radius the shape carries
/// around them.
type DistanceProxy struct {
	Buffer   [2]Vec2 // backing store for chain children
	Vertices []Vec2
	Count    int
	Radius   float64
}

func MakeDistanceProxy() DistanceProxy {
	return DistanceProxy{}
}

func (p DistanceProxy) GetVertexCount() int {
	return p.Count
}

func (p DistanceProxy) GetVertex(index int) Vec2 {
	Assert(0 <= index && index < p.Count)
	return p.Vertices[index]
}

/// Index of the vertex furthest along direction d.
func (p DistanceProxy) GetSupport(d Vec2) int {
	best := 0
	bestProjection := p.Vertices[0].Dot(d)
	for i := 1; i < p.Count; i++ {
		projection := p.Vertices[i].Dot(d)
		if projection > bestProjection {
			best = i
			bestProjection = projection
		}
	}
	return best
}

func (p DistanceProxy) GetSupportVertex(d Vec2) Vec2 {
	return p.Vertices[p.GetSupport(d)]
}

/// Capture one child of a shape. Chains expose one segment per child,
/// wrapping around for the closing segment of a loop.
func (p *DistanceProxy) Set(shape ShapeInterface, index int) {
	switch shape.GetType() {
	case ShapeTypeCircle:
		circle := shape.(*CircleShape)
		p.Vertices = []Vec2{circle.P}
		p.Count = 1
		p.Radius = circle.Radius

	case ShapeTypePolygon:
		polygon := shape.(*PolygonShape)
		p.Vertices = polygon.Vertices[:]
		p.Count = polygon.Count
		p.Radius = polygon.Radius

	case ShapeTypeEdge:
		edge := shape.(*EdgeShape)
		p.Vertices = []Vec2{edge.Vertex1, edge.Vertex2}
		p.Count = 2
		p.Radius = edge.Radius

	case ShapeTypeChain:
		chain := shape.(*ChainShape)
		Assert(0 <= index && index < chain.Count)

		p.Buffer[0] = chain.Vertices[index]
		next := index + 1
		if next == chain.Count {
			next = 0
		}
		p.Buffer[1] = chain.Vertices[next]

		p.Vertices = p.Buffer[:]
		p.Count = 2
		p.Radius = chain.Radius

	default:
		Assert(false)
	}
}

/// Warm-start state for Distance: the support indices and size metric of
/// the simplex a previous query ended with. Zero Count means cold.
type SimplexCache struct {
	Metric float64 // length or area of the cached simplex
	Count  int
	IndexA [3]int
	IndexB [3]int
}

func MakeSimplexCache() SimplexCache {
	return SimplexCache{}
}

type DistanceInput struct {
	ProxyA          DistanceProxy
	ProxyB          DistanceProxy
	TransformationA Transformation
	TransformationB Transformation

	/// When set, the output accounts for the proxies' vertex radii.
	UseRadii bool
}

func MakeDistanceInput() DistanceInput {
	return DistanceInput{
		TransformationA: MakeTransformation(),
		TransformationB: MakeTransformation(),
	}
}

type DistanceOutput struct {
	PointA     Vec2 // closest point on shape A
	PointB     Vec2 // closest point on shape B
	Distance   float64
	Iterations int // support calls consumed
}

func MakeDistanceOutput() DistanceOutput {
	return DistanceOutput{}
}

/// One vertex of the working simplex on the Minkowski difference B - A.
type simplexNode struct {
	wA      Vec2    // world support point on A
	wB      Vec2    // world support point on B
	w       Vec2    // wB - wA
	weight  float64 // barycentric coordinate of the closest point
	indexA  int
	indexB  int
}

type simplex struct {
	nodes [3]simplexNode
	count int
}

/// Fill one node from the proxies' vertex indices.
func (sx *simplex) loadNode(slot int, iA, iB int, proxyA *DistanceProxy, xfA Transformation, proxyB *DistanceProxy, xfB Transformation) {
	node := &sx.nodes[slot]
	node.indexA = iA
	node.indexB = iB
	node.wA = xfA.Apply(proxyA.GetVertex(iA))
	node.wB = xfB.Apply(proxyB.GetVertex(iB))
	node.w = node.wB.Sub(node.wA)
	node.weight = 0.0
}

/// Seed the simplex from the cache, discarding it when its size metric
/// has drifted too far from what the cached poses produced (the geometry
/// changed enough that the old simplex would mislead the search).
func (sx *simplex) readCache(cache *SimplexCache, proxyA *DistanceProxy, xfA Transformation, proxyB *DistanceProxy, xfB Transformation) {
	Assert(cache.Count <= 3)

	sx.count = cache.Count
	for i := 0; i < sx.count; i++ {
		sx.loadNode(i, cache.IndexA[i], cache.IndexB[i], proxyA, xfA, proxyB, xfB)
	}

	if sx.count > 1 {
		oldMetric := cache.Metric
		newMetric := sx.metric()
		if newMetric < 0.5*oldMetric || 2.0*oldMetric < newMetric || newMetric < Epsilon {
			sx.count = 0
		}
	}

	if sx.count == 0 {
		sx.loadNode(0, 0, 0, proxyA, xfA, proxyB, xfB)
		sx.nodes[0].weight = 1.0
		sx.count = 1
	}
}

func (sx simplex) writeCache(cache *SimplexCache) {
	cache.Metric = sx.metric()
	cache.Count = sx.count
	for i := 0; i < sx.count; i++ {
		cache.IndexA[i] = sx.nodes[i].indexA
		cache.IndexB[i] = sx.nodes[i].indexB
	}
}

/// Direction from the closest simplex feature toward the origin.
func (sx simplex) searchDirection() Vec2 {
	switch sx.count {
	case 1:
		return sx.nodes[0].w.Neg()

	case 2:
		edge := sx.nodes[1].w.Sub(sx.nodes[0].w)
		if edge.Cross(sx.nodes[0].w.Neg()) > 0.0 {
			// Origin is on the left of the edge.
			return CrossSV(1.0, edge)
		}
		return CrossVS(edge, 1.0)

	default:
		Assert(false)
		return Vec2Zero
	}
}

/// Size metric used to decide whether a cached simplex is still usable:
/// segment length for two nodes, twice the triangle area for three.
func (sx simplex) metric() float64 {
	switch sx.count {
	case 1:
		return 0.0
	case 2:
		return sx.nodes[0].w.DistanceTo(sx.nodes[1].w)
	case 3:
		ab := sx.nodes[1].w.Sub(sx.nodes[0].w)
		ac := sx.nodes[2].w.Sub(sx.nodes[0].w)
		return ab.Cross(ac)
	default:
		Assert(false)
		return 0.0
	}
}

/// Witness points on both shapes from the barycentric weights. With a
/// full triangle the origin is enclosed and both witnesses coincide.
func (sx simplex) witnessPoints(pA *Vec2, pB *Vec2) {
	switch sx.count {
	case 1:
		*pA = sx.nodes[0].wA
		*pB = sx.nodes[0].wB

	case 2:
		a0 := sx.nodes[0].weight
		a1 := sx.nodes[1].weight
		*pA = sx.nodes[0].wA.Scale(a0).Add(sx.nodes[1].wA.Scale(a1))
		*pB = sx.nodes[0].wB.Scale(a0).Add(sx.nodes[1].wB.Scale(a1))

	case 3:
		point := sx.nodes[0].wA.Scale(sx.nodes[0].weight)
		point = point.Add(sx.nodes[1].wA.Scale(sx.nodes[1].weight))
		point = point.Add(sx.nodes[2].wA.Scale(sx.nodes[2].weight))
		*pA = point
		*pB = point

	default:
		Assert(false)
	}
}

/// Reduce a segment simplex to the feature closest to the origin,
/// assigning barycentric weights. The edge coefficients come from
/// projecting the origin onto the segment: uAB weights vertex a, vAB
/// weights vertex b, and a non-positive coefficient clamps to the
/// opposite vertex.
func (sx *simplex) solveSegment() {
	a := sx.nodes[0].w
	b := sx.nodes[1].w
	ab := b.Sub(a)

	vAB := -a.Dot(ab)
	if vAB <= 0.0 {
		// The origin projects behind a.
		sx.nodes[0].weight = 1.0
		sx.count = 1
		return
	}

	uAB := b.Dot(ab)
	if uAB <= 0.0 {
		// The origin projects beyond b.
		sx.nodes[1].weight = 1.0
		sx.nodes[0] = sx.nodes[1]
		sx.count = 1
		return
	}

	// Interior of the segment.
	inv := 1.0 / (uAB + vAB)
	sx.nodes[0].weight = uAB * inv
	sx.nodes[1].weight = vAB * inv
	sx.count = 2
}

/// Reduce a triangle simplex to its closest feature: a vertex, an edge,
/// or the whole triangle when it contains the origin. Edge coefficients
/// as in solveSegment; the signed areas sa/sb/sc decide which side of
/// each edge the origin falls on.
func (sx *simplex) solveTriangle() {
	a := sx.nodes[0].w
	b := sx.nodes[1].w
	c := sx.nodes[2].w

	ab := b.Sub(a)
	uAB := b.Dot(ab)
	vAB := -a.Dot(ab)

	ac := c.Sub(a)
	uAC := c.Dot(ac)
	vAC := -a.Dot(ac)

	bc := c.Sub(b)
	uBC := c.Dot(bc)
	vBC := -b.Dot(bc)

	area := ab.Cross(ac)
	sa := area * b.Cross(c)
	sb := area * c.Cross(a)
	sc := area * a.Cross(b)

	// Vertex a.
	if vAB <= 0.0 && vAC <= 0.0 {
		sx.nodes[0].weight = 1.0
		sx.count = 1
		return
	}

	// Edge ab.
	if uAB > 0.0 && vAB > 0.0 && sc <= 0.0 {
		inv := 1.0 / (uAB + vAB)
		sx.nodes[0].weight = uAB * inv
		sx.nodes[1].weight = vAB * inv
		sx.count = 2
		return
	}

	// Edge ac.
	if uAC > 0.0 && vAC > 0.0 && sb <= 0.0 {
		inv := 1.0 / (uAC + vAC)
		sx.nodes[0].weight = uAC * inv
		sx.nodes[2].weight = vAC * inv
		sx.nodes[1] = sx.nodes[2]
		sx.count = 2
		return
	}

	// Vertex b.
	if uAB <= 0.0 && vBC <= 0.0 {
		sx.nodes[1].weight = 1.0
		sx.nodes[0] = sx.nodes[1]
		sx.count = 1
		return
	}

	// Vertex c.
	if uAC <= 0.0 && uBC <= 0.0 {
		sx.nodes[2].weight = 1.0
		sx.nodes[0] = sx.nodes[2]
		sx.count = 1
		return
	}

	// Edge bc.
	if uBC > 0.0 && vBC > 0.0 && sa <= 0.0 {
		inv := 1.0 / (uBC + vBC)
		sx.nodes[1].weight = uBC * inv
		sx.nodes[2].weight = vBC * inv
		sx.nodes[0] = sx.nodes[2]
		sx.count = 2
		return
	}

	// The triangle contains the origin.
	inv := 1.0 / (sa + sb + sc)
	sx.nodes[0].weight = sa * inv
	sx.nodes[1].weight = sb * inv
	sx.nodes[2].weight = sc * inv
	sx.count = 3
}

const gjkMaxIterations = 20

/// Closest points between two convex proxies, GJK on the Minkowski
/// difference with Voronoi-region simplex reduction. The cache warm
/// starts the query and receives the final simplex for the next call.
func Distance(output *DistanceOutput, cache *SimplexCache, input *DistanceInput) {
	proxyA := &input.ProxyA
	proxyB := &input.ProxyB
	xfA := input.TransformationA
	xfB := input.TransformationB

	var sx simplex
	sx.readCache(cache, proxyA, xfA, proxyB, xfB)

	// Support indices of the previous simplex, for cycle detection.
	var prevA, prevB [3]int
	prevCount := 0

	iterations := 0
	for iterations < gjkMaxIterations {
		prevCount = sx.count
		for i := 0; i < prevCount; i++ {
			prevA[i] = sx.nodes[i].indexA
			prevB[i] = sx.nodes[i].indexB
		}

		switch sx.count {
		case 2:
			sx.solveSegment()
		case 3:
			sx.solveTriangle()
		}

		// A surviving triangle encloses the origin: overlap.
		if sx.count == 3 {
			break
		}

		direction := sx.searchDirection()
		if direction.LengthSquared() < Epsilon*Epsilon {
			// The origin sits (numerically) on the current feature. Do not
			// report zero distance outright; the witness points below give
			// the best available answer.
			break
		}

		// Tentative new vertex from the supports along the search
		// direction, mapped into each proxy's local frame.
		slot := sx.count
		iA := proxyA.GetSupport(xfA.Q.InvRotate(direction.Neg()))
		iB := proxyB.GetSupport(xfB.Q.InvRotate(direction))
		sx.loadNode(slot, iA, iB, proxyA, xfA, proxyB, xfB)

		iterations++

		// A repeated support pair means no progress is possible.
		repeated := false
		for i := 0; i < prevCount; i++ {
			if iA == prevA[i] && iB == prevB[i] {
				repeated = true
				break
			}
		}
		if repeated {
			break
		}

		sx.count++
	}

	sx.witnessPoints(&output.PointA, &output.PointB)
	output.Distance = output.PointA.DistanceTo(output.PointB)
	output.Iterations = iterations

	sx.writeCache(cache)

	if input.UseRadii {
		rA := proxyA.Radius
		rB := proxyB.Radius

		if output.Distance > rA+rB && output.Distance > Epsilon {
			// Separated: pull both witnesses onto the rounded surfaces.
			output.Distance -= rA + rB
			normal := output.PointB.Sub(output.PointA)
			normal.Normalize()
			output.PointA = output.PointA.Add(normal.Scale(rA))
			output.PointB = output.PointB.Sub(normal.Scale(rB))
		} else {
			// The rounded shapes overlap; collapse to the midpoint.
			mid := output.PointA.Add(output.PointB).Scale(0.5)
			output.PointA = mid
			output.PointB = mid
			output.Distance = 0.0
		}
	}
}
