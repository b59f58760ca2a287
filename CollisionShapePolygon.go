package planar

/// A convex polygon. It is assumed that the interior of the polygon is to
/// the left of each edge.
/// Polygons have a maximum number of vertices equal to MaxPolygonVertices.
/// In most cases you should not need many vertices for a convex polygon.

type PolygonShape struct {
	Shape

	Centroid Vec2
	Vertices [MaxPolygonVertices]Vec2
	Normals  [MaxPolygonVertices]Vec2
	Count    int
}

func MakePolygonShape() PolygonShape {
	return PolygonShape{
		Shape: Shape{
			Type:   ShapeTypePolygon,
			Radius: PolygonRadius,
		},
	}
}

func (shape *PolygonShape) GetVertex(index int) *Vec2 {
	Assert(0 <= index && index < shape.Count)
	return &shape.Vertices[index]
}

func (shape PolygonShape) Clone() ShapeInterface {
	clone := shape
	return &clone
}

func (shape *PolygonShape) Destroy() {}

/// Make an axis-aligned box of the given half-widths, centered on the
/// local origin.
func (shape *PolygonShape) SetAsBox(hx float64, hy float64) {
	shape.Count = 4
	shape.Vertices[0] = Vec2{-hx, -hy}
	shape.Vertices[1] = Vec2{hx, -hy}
	shape.Vertices[2] = Vec2{hx, hy}
	shape.Vertices[3] = Vec2{-hx, hy}
	shape.Normals[0] = Vec2{0.0, -1.0}
	shape.Normals[1] = Vec2{1.0, 0.0}
	shape.Normals[2] = Vec2{0.0, 1.0}
	shape.Normals[3] = Vec2{-1.0, 0.0}
	shape.Centroid.SetZero()
}

/// Make a box posed at the given center and angle in the body frame.
func (shape *PolygonShape) SetAsBoxFromCenterAndAngle(hx float64, hy float64, center Vec2, angle float64) {
	shape.SetAsBox(hx, hy)
	shape.Centroid = center

	var xf Transformation
	xf.Set(center, angle)

	for i := 0; i < shape.Count; i++ {
		shape.Vertices[i] = xf.Apply(shape.Vertices[i])
		shape.Normals[i] = xf.Q.Rotate(shape.Normals[i])
	}
}

func (shape PolygonShape) GetChildCount() int {
	return 1
}

/// Area-weighted centroid of a simple polygon, by fanning triangles
/// about the vertex average (any reference point works up to rounding).
func ComputeCentroid(vs []Vec2, count int) Vec2 {
	Assert(count >= 3)

	ref := Vec2Zero
	for i := 0; i < count; i++ {
		ref = ref.Add(vs[i])
	}
	ref = ref.Scale(1.0 / float64(count))

	const third = 1.0 / 3.0

	var centroid Vec2
	area := 0.0

	for i := 0; i < count; i++ {
		a := vs[i]
		b := vs[(i+1)%count]

		triangleArea := 0.5 * a.Sub(ref).Cross(b.Sub(ref))
		area += triangleArea

		// Each triangle contributes at its own centroid.
		centroid = centroid.Add(ref.Add(a).Add(b).Scale(triangleArea * third))
	}

	Assert(area > Epsilon)
	return centroid.Scale(1.0 / area)
}

func (shape *PolygonShape) Set(vertices []Vec2, count int) {
	Assert(3 <= count && count <= MaxPolygonVertices)
	if count < 3 {
		shape.SetAsBox(1.0, 1.0)
		return
	}

	n := MinInt(count, MaxPolygonVertices)

	// Perform welding and copy vertices into local buffer.
	ps := make([]Vec2, MaxPolygonVertices)
	tempCount := 0

	for i := 0; i < n; i++ {
		v := vertices[i]

		unique := true
		for j := 0; j < tempCount; j++ {
			if v.DistanceSquaredTo(ps[j]) < ((0.5 * DefaultLinearSlop) * (0.5 * DefaultLinearSlop)) {
				unique = false
				break
			}
		}

		if unique {
			ps[tempCount] = v
			tempCount++
		}
	}

	n = tempCount
	if n < 3 {
		// Polygon is degenerate.
		Assert(false)
		shape.SetAsBox(1.0, 1.0)
		return
	}

	// Create the convex hull using the Gift wrapping algorithm
	// http://en.wikipedia.org/wiki/Gift_wrapping_algorithm

	// Find the right most point on the hull
	i0 := 0
	x0 := ps[0].X
	for i := 1; i < n; i++ {
		x := ps[i].X
		if x > x0 || (x == x0 && ps[i].Y < ps[i0].Y) {
			i0 = i
			x0 = x
		}
	}

	hull := make([]int, MaxPolygonVertices)
	m := 0
	ih := i0

	for {
		Assert(m < MaxPolygonVertices)
		hull[m] = ih

		ie := 0
		for j := 1; j < n; j++ {
			if ie == ih {
				ie = j
				continue
			}

			r := ps[ie].Sub(ps[hull[m]])
			v := ps[j].Sub(ps[hull[m]])
			c := r.Cross(v)
			if c < 0.0 {
				ie = j
			}

			// Collinearity check
			if c == 0.0 && v.LengthSquared() > r.LengthSquared() {
				ie = j
			}
		}

		m++
		ih = ie

		if ie == i0 {
			break
		}
	}

	if m < 3 {
		// Polygon is degenerate.
		Assert(false)
		shape.SetAsBox(1.0, 1.0)
		return
	}

	shape.Count = m

	// Copy vertices.
	for i := 0; i < m; i++ {
		shape.Vertices[i] = ps[hull[i]]
	}

	// Compute normals. Ensure the edges have non-zero length.
	for i := 0; i < m; i++ {
		i1 := i
		i2 := 0
		if i+1 < m {
			i2 = i + 1
		}

		edge := shape.Vertices[i2].Sub(shape.Vertices[i1])
		Assert(edge.LengthSquared() > Epsilon*Epsilon)
		shape.Normals[i] = CrossVS(edge, 1.0)
		shape.Normals[i].Normalize()
	}

	// Compute the polygon centroid.
	shape.Centroid = ComputeCentroid(shape.Vertices[:], m)
}

/// A point is inside a convex polygon when it is behind every face.
func (shape PolygonShape) TestPoint(xf Transformation, p Vec2) bool {
	local := xf.ApplyInverse(p)

	for i := 0; i < shape.Count; i++ {
		if shape.Normals[i].Dot(local.Sub(shape.Vertices[i])) > 0.0 {
			return false
		}
	}
	return true
}

/// Clip the ray against each face half-plane, keeping the entering and
/// exiting fractions. A hit exists when the entering face survives.
func (shape PolygonShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transformation, childIndex int) bool {
	// Work in the polygon's frame.
	p1 := xf.ApplyInverse(input.P1)
	p2 := xf.ApplyInverse(input.P2)
	d := p2.Sub(p1)

	enter := 0.0
	exit := input.MaxFraction
	enterFace := -1

	for i := 0; i < shape.Count; i++ {
		// The face plane is hit where
		// dot(normal, p1 + t*d - v) = 0.
		numerator := shape.Normals[i].Dot(shape.Vertices[i].Sub(p1))
		denominator := shape.Normals[i].Dot(d)

		if denominator == 0.0 {
			// Parallel and outside this half-plane: no hit at all.
			if numerator < 0.0 {
				return false
			}
		} else if denominator < 0.0 && numerator < enter*denominator {
			// Entering through this face (comparison flipped since the
			// denominator is negative).
			enter = numerator / denominator
			enterFace = i
		} else if denominator > 0.0 && numerator < exit*denominator {
			// Exiting through this face.
			exit = numerator / denominator
		}

		if exit < enter {
			return false
		}
	}

	Assert(0.0 <= enter && enter <= input.MaxFraction)

	if enterFace < 0 {
		// The ray starts inside; no surface was crossed.
		return false
	}

	output.Fraction = enter
	output.Normal = xf.Q.Rotate(shape.Normals[enterFace])
	return true
}

func (shape PolygonShape) ComputeAABB(aabb *AABB, xf Transformation, childIndex int) {

	lower := xf.Apply(shape.Vertices[0])
	upper := lower

	for i := 1; i < shape.Count; i++ {
		v := xf.Apply(shape.Vertices[i])
		lower = lower.Min(v)
		upper = upper.Max(v)
	}

	margin := Vec2{shape.Radius, shape.Radius}
	aabb.LowerBound = lower.Sub(margin)
	aabb.UpperBound = upper.Add(margin)
}

/// Mass properties by signed-triangle integration: fan the polygon into
/// triangles about an interior reference point, accumulate each
/// triangle's area, first moment, and second moment in closed form, then
/// shift the moment from the reference point to the body origin via the
/// parallel-axis theorem.
func (shape PolygonShape) ComputeMass(massData *MassData, density float64) {
	Assert(shape.Count >= 3)

	// Fanning about an interior point keeps the signed areas positive.
	ref := Vec2Zero
	for i := 0; i < shape.Count; i++ {
		ref = ref.Add(shape.Vertices[i])
	}
	ref = ref.Scale(1.0 / float64(shape.Count))

	const third = 1.0 / 3.0

	var center Vec2
	area := 0.0
	moment := 0.0

	for i := 0; i < shape.Count; i++ {
		// Triangle spanned by the reference point and one edge.
		e1 := shape.Vertices[i].Sub(ref)
		next := i + 1
		if next == shape.Count {
			next = 0
		}
		e2 := shape.Vertices[next].Sub(ref)

		cross := e1.Cross(e2)
		triangleArea := 0.5 * cross
		area += triangleArea

		// The triangle centroid sits at (e1+e2)/3 from the reference.
		center = center.Add(e1.Add(e2).Scale(triangleArea * third))

		// Closed-form second moment of the triangle about the reference.
		intX2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
		intY2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
		moment += (0.25 * third * cross) * (intX2 + intY2)
	}

	massData.Mass = density * area

	Assert(area > Epsilon)
	center = center.Scale(1.0 / area)
	massData.Center = center.Add(ref)

	// Shift the moment from the reference point to the body origin.
	massData.I = density * moment
	massData.I += massData.Mass * (massData.Center.Dot(massData.Center) - center.Dot(center))
}

/// Reports whether the vertices form a convex counter-clockwise hull:
/// every other vertex must lie on the left of every directed edge.
func (shape PolygonShape) Validate() bool {
	for i := 0; i < shape.Count; i++ {
		next := (i + 1) % shape.Count
		origin := shape.Vertices[i]
		edge := shape.Vertices[next].Sub(origin)

		for k := 0; k < shape.Count; k++ {
			if k == i || k == next {
				continue
			}
			if edge.Cross(shape.Vertices[k].Sub(origin)) < 0.0 {
				return false
			}
		}
	}
	return true
}
