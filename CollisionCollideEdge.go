package planar

import (
	"math"
)

func emitEdgeCircleManifold(manifold *Manifold, kind ManifoldType, localNormal Vec2, localPoint Vec2, circleCenter Vec2, feature ContactFeature) {
	manifold.PointCount = 1
	manifold.Type = kind
	manifold.LocalNormal = localNormal
	manifold.LocalPoint = localPoint
	manifold.Points[0].Id = ContactID(feature)
	manifold.Points[0].LocalPoint = circleCenter
}

/// Collide an edge with a circle, honoring edge connectivity: a circle
/// whose closest feature is an endpoint shared with a neighboring edge is
/// that neighbor's problem, so the endpoint regions defer to it.
func CollideEdgeAndCircle(manifold *Manifold, edgeA *EdgeShape, xfA Transformation, circleB *CircleShape, xfB Transformation) {
	manifold.PointCount = 0

	// The circle center in the edge's frame.
	center := xfA.ApplyInverse(xfB.Apply(circleB.P))

	v1 := edgeA.Vertex1
	v2 := edgeA.Vertex2
	segment := v2.Sub(v1)

	// Projection weights of the center onto the segment.
	weight1 := segment.Dot(v2.Sub(center))
	weight2 := segment.Dot(center.Sub(v1))

	reach := edgeA.Radius + circleB.Radius

	feature := ContactFeature{IndexB: 0, TypeB: ContactFeatureTypeVertex}

	// Behind v1.
	if weight2 <= 0.0 {
		if center.DistanceSquaredTo(v1) > reach*reach {
			return
		}

		// The region belongs to the preceding edge when the center
		// projects onto it.
		if edgeA.HasVertex0 {
			prevSegment := v1.Sub(edgeA.Vertex0)
			if prevSegment.Dot(v1.Sub(center)) > 0.0 {
				return
			}
		}

		feature.IndexA = 0
		feature.TypeA = ContactFeatureTypeVertex
		emitEdgeCircleManifold(manifold, ManifoldTypeCircles, Vec2{}, v1, circleB.P, feature)
		return
	}

	// Beyond v2.
	if weight1 <= 0.0 {
		if center.DistanceSquaredTo(v2) > reach*reach {
			return
		}

		// Likewise, the following edge owns this region.
		if edgeA.HasVertex3 {
			nextSegment := edgeA.Vertex3.Sub(v2)
			if nextSegment.Dot(center.Sub(v2)) > 0.0 {
				return
			}
		}

		feature.IndexA = 1
		feature.TypeA = ContactFeatureTypeVertex
		emitEdgeCircleManifold(manifold, ManifoldTypeCircles, Vec2{}, v2, circleB.P, feature)
		return
	}

	// Interior of the segment.
	lenSq := segment.Dot(segment)
	Assert(lenSq > 0.0)
	closest := v1.Scale(weight1).Add(v2.Scale(weight2)).Scale(1.0 / lenSq)
	if center.DistanceSquaredTo(closest) > reach*reach {
		return
	}

	normal := Vec2{-segment.Y, segment.X}
	if normal.Dot(center.Sub(v1)) < 0.0 {
		normal = normal.Neg()
	}
	normal.Normalize()

	feature.IndexA = 0
	feature.TypeA = ContactFeatureTypeFace
	emitEdgeCircleManifold(manifold, ManifoldTypeFaceA, normal, v1, circleB.P, feature)
}

type epAxisType uint8

const (
	epAxisUnknown epAxisType = iota
	epAxisEdgeA
	epAxisEdgeB
)

/// The best separating axis found so far.
type epAxis struct {
	kind       epAxisType
	index      int
	separation float64
}

/// The polygon transplanted into the edge's frame.
type epPolygon struct {
	vertices [MaxPolygonVertices]Vec2
	normals  [MaxPolygonVertices]Vec2
	count    int
}

/// The face selected for clipping, with its side planes.
type epRefFace struct {
	i1, i2 int
	v1, v2 Vec2
	normal Vec2

	sideNormal1 Vec2
	sideOffset1 float64
	sideNormal2 Vec2
	sideOffset2 float64
}

/// Edge-polygon collision working state. The edge's neighbors restrict
/// which collision normals are admissible, so a chain behaves as a single
/// one-sided surface instead of a row of independent segments.
type epCollider struct {
	polygonB epPolygon

	xf        Transformation
	centroidB Vec2

	v0, v1, v2, v3             Vec2
	normal0, normal1, normal2  Vec2
	normal                     Vec2
	lowerLimit, upperLimit     Vec2
	radius                     float64
	front                      bool
}

/// Pick the collision side and admissible normal range from which side of
/// the edge (and its neighbors) the polygon centroid lies on. Convex
/// corners widen the range to the neighbor's normal; concave corners
/// clamp it to this edge's own normal.
func (ep *epCollider) classify(hasPrev, hasNext bool) {
	edge1 := ep.v2.Sub(ep.v1)
	edge1.Normalize()
	ep.normal1 = Vec2{edge1.Y, -edge1.X}

	offset1 := ep.normal1.Dot(ep.centroidB.Sub(ep.v1))
	offset0, offset2 := 0.0, 0.0
	convexPrev, convexNext := false, false

	if hasPrev {
		edge0 := ep.v1.Sub(ep.v0)
		edge0.Normalize()
		ep.normal0 = Vec2{edge0.Y, -edge0.X}
		convexPrev = edge0.Cross(edge1) >= 0.0
		offset0 = ep.normal0.Dot(ep.centroidB.Sub(ep.v0))
	}

	if hasNext {
		edge2 := ep.v3.Sub(ep.v2)
		edge2.Normalize()
		ep.normal2 = Vec2{edge2.Y, -edge2.X}
		convexNext = edge1.Cross(edge2) > 0.0
		offset2 = ep.normal2.Dot(ep.centroidB.Sub(ep.v2))
	}

	set := func(front bool, normal, lower, upper Vec2) {
		ep.front = front
		ep.normal = normal
		ep.lowerLimit = lower
		ep.upperLimit = upper
	}

	back1 := ep.normal1.Neg()

	switch {
	case hasPrev && hasNext:
		switch {
		case convexPrev && convexNext:
			if front := offset0 >= 0.0 || offset1 >= 0.0 || offset2 >= 0.0; front {
				set(true, ep.normal1, ep.normal0, ep.normal2)
			} else {
				set(false, back1, back1, back1)
			}
		case convexPrev:
			if front := offset0 >= 0.0 || (offset1 >= 0.0 && offset2 >= 0.0); front {
				set(true, ep.normal1, ep.normal0, ep.normal1)
			} else {
				set(false, back1, ep.normal2.Neg(), back1)
			}
		case convexNext:
			if front := offset2 >= 0.0 || (offset0 >= 0.0 && offset1 >= 0.0); front {
				set(true, ep.normal1, ep.normal1, ep.normal2)
			} else {
				set(false, back1, back1, ep.normal0.Neg())
			}
		default:
			if front := offset0 >= 0.0 && offset1 >= 0.0 && offset2 >= 0.0; front {
				set(true, ep.normal1, ep.normal1, ep.normal1)
			} else {
				set(false, back1, ep.normal2.Neg(), ep.normal0.Neg())
			}
		}

	case hasPrev:
		if convexPrev {
			if front := offset0 >= 0.0 || offset1 >= 0.0; front {
				set(true, ep.normal1, ep.normal0, back1)
			} else {
				set(false, back1, ep.normal1, back1)
			}
		} else {
			if front := offset0 >= 0.0 && offset1 >= 0.0; front {
				set(true, ep.normal1, ep.normal1, back1)
			} else {
				set(false, back1, ep.normal1, ep.normal0.Neg())
			}
		}

	case hasNext:
		if convexNext {
			if front := offset1 >= 0.0 || offset2 >= 0.0; front {
				set(true, ep.normal1, back1, ep.normal2)
			} else {
				set(false, back1, back1, ep.normal1)
			}
		} else {
			if front := offset1 >= 0.0 && offset2 >= 0.0; front {
				set(true, ep.normal1, back1, ep.normal1)
			} else {
				set(false, back1, ep.normal2.Neg(), ep.normal1)
			}
		}

	default:
		if front := offset1 >= 0.0; front {
			set(true, ep.normal1, back1, back1)
		} else {
			set(false, back1, ep.normal1, ep.normal1)
		}
	}
}

/// Deepest polygon vertex against the edge's chosen normal.
func (ep *epCollider) edgeSeparation() epAxis {
	axis := epAxis{kind: epAxisEdgeA, separation: MaxFloat}
	if !ep.front {
		axis.index = 1
	}

	for i := 0; i < ep.polygonB.count; i++ {
		depth := ep.normal.Dot(ep.polygonB.vertices[i].Sub(ep.v1))
		if depth < axis.separation {
			axis.separation = depth
		}
	}

	return axis
}

/// Best separating axis among the polygon's faces, restricted to normals
/// the edge's admissible range allows.
func (ep *epCollider) polygonSeparation() epAxis {
	axis := epAxis{kind: epAxisUnknown, index: -1, separation: -MaxFloat}

	perp := Vec2{-ep.normal.Y, ep.normal.X}

	for i := 0; i < ep.polygonB.count; i++ {
		n := ep.polygonB.normals[i].Neg()

		s1 := n.Dot(ep.polygonB.vertices[i].Sub(ep.v1))
		s2 := n.Dot(ep.polygonB.vertices[i].Sub(ep.v2))
		separation := math.Min(s1, s2)

		if separation > ep.radius {
			// Separating axis found; no contact.
			return epAxis{kind: epAxisEdgeB, index: i, separation: separation}
		}

		// Skip normals outside the admissible range.
		if n.Dot(perp) >= 0.0 {
			if n.Sub(ep.upperLimit).Dot(ep.normal) < -DefaultAngularSlop {
				continue
			}
		} else {
			if n.Sub(ep.lowerLimit).Dot(ep.normal) < -DefaultAngularSlop {
				continue
			}
		}

		if separation > axis.separation {
			axis = epAxis{kind: epAxisEdgeB, index: i, separation: separation}
		}
	}

	return axis
}

/// Collide an edge (or chain segment) against a polygon: classify the
/// edge side, find the best admissible separating axis from the edge and
/// from the polygon, pick the reference face with hysteresis toward the
/// edge for stability, and clip.
func CollideEdgeAndPolygon(manifold *Manifold, edgeA *EdgeShape, xfA Transformation, polygonB *PolygonShape, xfB Transformation) {
	var ep epCollider

	ep.xf = xfA.MulT(xfB)
	ep.centroidB = ep.xf.Apply(polygonB.Centroid)

	ep.v0 = edgeA.Vertex0
	ep.v1 = edgeA.Vertex1
	ep.v2 = edgeA.Vertex2
	ep.v3 = edgeA.Vertex3

	ep.classify(edgeA.HasVertex0, edgeA.HasVertex3)

	// The polygon, expressed in the edge's frame.
	ep.polygonB.count = polygonB.Count
	for i := 0; i < polygonB.Count; i++ {
		ep.polygonB.vertices[i] = ep.xf.Apply(polygonB.Vertices[i])
		ep.polygonB.normals[i] = ep.xf.Q.Rotate(polygonB.Normals[i])
	}

	ep.radius = polygonB.Radius + edgeA.Radius

	manifold.PointCount = 0

	edgeAxis := ep.edgeSeparation()
	if edgeAxis.kind == epAxisUnknown || edgeAxis.separation > ep.radius {
		return
	}

	polygonAxis := ep.polygonSeparation()
	if polygonAxis.kind != epAxisUnknown && polygonAxis.separation > ep.radius {
		return
	}

	// Hysteresis toward the edge axis reduces jitter.
	const relativeTol = 0.98
	const absoluteTol = 0.001

	primaryAxis := edgeAxis
	if polygonAxis.kind != epAxisUnknown && polygonAxis.separation > relativeTol*edgeAxis.separation+absoluteTol {
		primaryAxis = polygonAxis
	}

	incident := make([]ClipVertex, 2)
	var rf epRefFace

	if primaryAxis.kind == epAxisEdgeA {
		manifold.Type = ManifoldTypeFaceA

		// The incident face: the polygon face most anti-parallel to the
		// edge normal.
		bestIndex := 0
		bestDot := ep.normal.Dot(ep.polygonB.normals[0])
		for i := 1; i < ep.polygonB.count; i++ {
			dot := ep.normal.Dot(ep.polygonB.normals[i])
			if dot < bestDot {
				bestDot = dot
				bestIndex = i
			}
		}

		i1 := bestIndex
		i2 := (bestIndex + 1) % ep.polygonB.count

		incident[0] = ClipVertex{
			V: ep.polygonB.vertices[i1],
			Id: ContactID{
				IndexA: 0, TypeA: ContactFeatureTypeFace,
				IndexB: uint8(i1), TypeB: ContactFeatureTypeVertex,
			},
		}
		incident[1] = ClipVertex{
			V: ep.polygonB.vertices[i2],
			Id: ContactID{
				IndexA: 0, TypeA: ContactFeatureTypeFace,
				IndexB: uint8(i2), TypeB: ContactFeatureTypeVertex,
			},
		}

		if ep.front {
			rf.i1, rf.i2 = 0, 1
			rf.v1, rf.v2 = ep.v1, ep.v2
			rf.normal = ep.normal1
		} else {
			rf.i1, rf.i2 = 1, 0
			rf.v1, rf.v2 = ep.v2, ep.v1
			rf.normal = ep.normal1.Neg()
		}
	} else {
		manifold.Type = ManifoldTypeFaceB

		incident[0] = ClipVertex{
			V: ep.v1,
			Id: ContactID{
				IndexA: 0, TypeA: ContactFeatureTypeVertex,
				IndexB: uint8(primaryAxis.index), TypeB: ContactFeatureTypeFace,
			},
		}
		incident[1] = ClipVertex{
			V: ep.v2,
			Id: ContactID{
				IndexA: 0, TypeA: ContactFeatureTypeVertex,
				IndexB: uint8(primaryAxis.index), TypeB: ContactFeatureTypeFace,
			},
		}

		rf.i1 = primaryAxis.index
		rf.i2 = (rf.i1 + 1) % ep.polygonB.count
		rf.v1 = ep.polygonB.vertices[rf.i1]
		rf.v2 = ep.polygonB.vertices[rf.i2]
		rf.normal = ep.polygonB.normals[rf.i1]
	}

	rf.sideNormal1 = Vec2{rf.normal.Y, -rf.normal.X}
	rf.sideNormal2 = rf.sideNormal1.Neg()
	rf.sideOffset1 = rf.sideNormal1.Dot(rf.v1)
	rf.sideOffset2 = rf.sideNormal2.Dot(rf.v2)

	// Clip the incident edge against the reference face's side planes.
	stage1 := make([]ClipVertex, 2)
	if ClipSegmentToLine(stage1, incident, rf.sideNormal1, rf.sideOffset1, rf.i1) < MaxManifoldPoints {
		return
	}
	stage2 := make([]ClipVertex, 2)
	if ClipSegmentToLine(stage2, stage1, rf.sideNormal2, rf.sideOffset2, rf.i2) < MaxManifoldPoints {
		return
	}

	if primaryAxis.kind == epAxisEdgeA {
		manifold.LocalNormal = rf.normal
		manifold.LocalPoint = rf.v1
	} else {
		// Reference data in the polygon's own frame.
		manifold.LocalNormal = polygonB.Normals[rf.i1]
		manifold.LocalPoint = polygonB.Vertices[rf.i1]
	}

	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		if rf.normal.Dot(stage2[i].V.Sub(rf.v1)) > ep.radius {
			continue
		}

		point := &manifold.Points[pointCount]
		if primaryAxis.kind == epAxisEdgeA {
			point.LocalPoint = ep.xf.ApplyInverse(stage2[i].V)
			point.Id = stage2[i].Id
		} else {
			point.LocalPoint = stage2[i].V
			point.Id = ContactID{
				IndexA: stage2[i].Id.IndexB, TypeA: stage2[i].Id.TypeB,
				IndexB: stage2[i].Id.IndexA, TypeB: stage2[i].Id.TypeA,
			}
		}
		pointCount++
	}

	manifold.PointCount = pointCount
}
