package planar

/// A line segment (edge) shape. Edges are one-dimensional and massless;
/// the optional neighbor vertices let chains present a one-sided surface
/// with smooth contact normals.
type EdgeShape struct {
	Shape

	/// The segment endpoints.
	Vertex1, Vertex2 Vec2

	/// Adjacent vertices of the surrounding chain, when there is one.
	Vertex0, Vertex3       Vec2
	HasVertex0, HasVertex3 bool
}

func MakeEdgeShape() EdgeShape {
	return EdgeShape{
		Shape: Shape{
			Type:   ShapeTypeEdge,
			Radius: PolygonRadius,
		},
	}
}

/// Set the endpoints and drop any neighbor information.
func (e *EdgeShape) Set(v1 Vec2, v2 Vec2) {
	e.Vertex1 = v1
	e.Vertex2 = v2
	e.HasVertex0 = false
	e.HasVertex3 = false
}

func (e EdgeShape) Clone() ShapeInterface {
	clone := e
	return &clone
}

func (e *EdgeShape) Destroy() {}

func (e EdgeShape) GetChildCount() int {
	return 1
}

/// A segment has no interior.
func (e EdgeShape) TestPoint(xf Transformation, p Vec2) bool {
	return false
}

/// Intersect the ray with the segment's supporting line, then check the
/// hit lies within the segment. Works in the edge's local frame.
func (e EdgeShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transformation, childIndex int) bool {
	p1 := xf.ApplyInverse(input.P1)
	p2 := xf.ApplyInverse(input.P2)
	d := p2.Sub(p1)

	v1 := e.Vertex1
	v2 := e.Vertex2
	segment := v2.Sub(v1)

	normal := Vec2{segment.Y, -segment.X}
	normal.Normalize()

	// The line is hit where dot(normal, p1 + t*d - v1) = 0.
	numerator := normal.Dot(v1.Sub(p1))
	denominator := normal.Dot(d)
	if denominator == 0.0 {
		return false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return false
	}

	// Locate the hit along the segment.
	hit := p1.Add(d.Scale(t))
	segLenSq := segment.Dot(segment)
	if segLenSq == 0.0 {
		return false
	}
	along := hit.Sub(v1).Dot(segment) / segLenSq
	if along < 0.0 || along > 1.0 {
		return false
	}

	output.Fraction = t
	output.Normal = xf.Q.Rotate(normal)
	if numerator > 0.0 {
		output.Normal = output.Normal.Neg()
	}
	return true
}

func (e EdgeShape) ComputeAABB(aabb *AABB, xf Transformation, childIndex int) {
	v1 := xf.Apply(e.Vertex1)
	v2 := xf.Apply(e.Vertex2)

	margin := Vec2{e.Radius, e.Radius}
	aabb.LowerBound = v1.Min(v2).Sub(margin)
	aabb.UpperBound = v1.Max(v2).Add(margin)
}

/// Edges are massless; only the centroid is meaningful.
func (e EdgeShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center = e.Vertex1.Add(e.Vertex2).Scale(0.5)
	massData.I = 0.0
}
