package planar

/// A chain shape is a free-form run of line segments, one broad-phase
/// child per segment. Collision is two-sided, so winding order does not
/// matter; neighbor vertices give each child segment smooth normals.
/// WARNING: a self-intersecting chain will not collide correctly.
type ChainShape struct {
	Shape

	Vertices []Vec2
	Count    int

	// Ghost vertices beyond the endpoints, for stitching chains together.
	PrevVertex    Vec2
	NextVertex    Vec2
	HasPrevVertex bool
	HasNextVertex bool
}

func MakeChainShape() ChainShape {
	return ChainShape{
		Shape: Shape{
			Type:   ShapeTypeChain,
			Radius: PolygonRadius,
		},
	}
}

func (c *ChainShape) Destroy() {
	c.Clear()
}

func (c *ChainShape) Clear() {
	c.Vertices = nil
	c.Count = 0
}

func (c *ChainShape) assertSpacing(vertices []Vec2, count int) {
	for i := 1; i < count; i++ {
		// Vertices this close together make degenerate segments.
		AssertMsg(vertices[i-1].DistanceSquaredTo(vertices[i]) > DefaultLinearSlop*DefaultLinearSlop,
			"chain vertices too close together")
	}
}

/// Build a closed loop. The first vertex is duplicated at the end, and
/// the ghost vertices wrap around, so every segment has neighbors.
func (c *ChainShape) CreateLoop(vertices []Vec2, count int) {
	Assert(c.Vertices == nil && c.Count == 0)
	Assert(count >= 3)
	if count < 3 {
		return
	}
	c.assertSpacing(vertices, count)

	c.Count = count + 1
	c.Vertices = make([]Vec2, c.Count)
	copy(c.Vertices, vertices[:count])
	c.Vertices[count] = c.Vertices[0]

	c.PrevVertex = c.Vertices[c.Count-2]
	c.NextVertex = c.Vertices[1]
	c.HasPrevVertex = true
	c.HasNextVertex = true
}

/// Build an open chain. Ghost vertices can be attached afterwards with
/// SetPrevVertex/SetNextVertex.
func (c *ChainShape) CreateChain(vertices []Vec2, count int) {
	Assert(c.Vertices == nil && c.Count == 0)
	Assert(count >= 2)
	c.assertSpacing(vertices, count)

	c.Count = count
	c.Vertices = make([]Vec2, count)
	copy(c.Vertices, vertices[:count])

	c.HasPrevVertex = false
	c.HasNextVertex = false
	c.PrevVertex.SetZero()
	c.NextVertex.SetZero()
}

func (c *ChainShape) SetPrevVertex(prevVertex Vec2) {
	c.PrevVertex = prevVertex
	c.HasPrevVertex = true
}

func (c *ChainShape) SetNextVertex(nextVertex Vec2) {
	c.NextVertex = nextVertex
	c.HasNextVertex = true
}

func (c ChainShape) Clone() ShapeInterface {
	clone := MakeChainShape()
	clone.CreateChain(c.Vertices, c.Count)
	clone.PrevVertex = c.PrevVertex
	clone.NextVertex = c.NextVertex
	clone.HasPrevVertex = c.HasPrevVertex
	clone.HasNextVertex = c.HasNextVertex
	return &clone
}

/// One child per segment.
func (c ChainShape) GetChildCount() int {
	return c.Count - 1
}

/// The wrap-around second vertex for the closing segment of a loop.
func (c ChainShape) childVertices(index int) (Vec2, Vec2) {
	next := index + 1
	if next == c.Count {
		next = 0
	}
	return c.Vertices[index], c.Vertices[next]
}

/// Materialize one segment as an edge shape, neighbors included.
func (c ChainShape) GetChildEdge(edge *EdgeShape, index int) {
	Assert(0 <= index && index < c.Count-1)

	edge.Type = ShapeTypeEdge
	edge.Radius = c.Radius
	edge.Vertex1 = c.Vertices[index]
	edge.Vertex2 = c.Vertices[index+1]

	if index > 0 {
		edge.Vertex0 = c.Vertices[index-1]
		edge.HasVertex0 = true
	} else {
		edge.Vertex0 = c.PrevVertex
		edge.HasVertex0 = c.HasPrevVertex
	}

	if index < c.Count-2 {
		edge.Vertex3 = c.Vertices[index+2]
		edge.HasVertex3 = true
	} else {
		edge.Vertex3 = c.NextVertex
		edge.HasVertex3 = c.HasNextVertex
	}
}

/// A chain has no interior.
func (c ChainShape) TestPoint(xf Transformation, p Vec2) bool {
	return false
}

func (c ChainShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transformation, childIndex int) bool {
	Assert(childIndex < c.Count)

	v1, v2 := c.childVertices(childIndex)
	edge := MakeEdgeShape()
	edge.Vertex1 = v1
	edge.Vertex2 = v2

	return edge.RayCast(output, input, xf, 0)
}

func (c ChainShape) ComputeAABB(aabb *AABB, xf Transformation, childIndex int) {
	Assert(childIndex < c.Count)

	v1, v2 := c.childVertices(childIndex)
	w1 := xf.Apply(v1)
	w2 := xf.Apply(v2)

	aabb.LowerBound = w1.Min(w2)
	aabb.UpperBound = w1.Max(w2)
}

/// Chains are massless.
func (c ChainShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = 0.0
	massData.Center.SetZero()
	massData.I = 0.0
}
