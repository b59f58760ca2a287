package planar

/// Two circles touch when their centers are within the radius sum. The
/// manifold stores both centers in local coordinates; the world normal is
/// derived from the transformed centers when needed.
func CollideCircles(manifold *Manifold, circleA *CircleShape, xfA Transformation, circleB *CircleShape, xfB Transformation) {
	manifold.PointCount = 0

	centerA := xfA.Apply(circleA.P)
	centerB := xfB.Apply(circleB.P)

	reach := circleA.Radius + circleB.Radius
	if centerA.DistanceSquaredTo(centerB) > reach*reach {
		return
	}

	manifold.Type = ManifoldTypeCircles
	manifold.LocalPoint = circleA.P
	manifold.LocalNormal.SetZero()
	manifold.PointCount = 1
	manifold.Points[0].LocalPoint = circleB.P
	manifold.Points[0].Id.SetKey(0)
}

/// Emit the single-point faceA manifold every polygon-circle case ends
/// with.
func emitPolygonCircle(manifold *Manifold, normal Vec2, facePoint Vec2, circleCenter Vec2) {
	manifold.PointCount = 1
	manifold.Type = ManifoldTypeFaceA
	manifold.LocalNormal = normal
	manifold.LocalPoint = facePoint
	manifold.Points[0].LocalPoint = circleCenter
	manifold.Points[0].Id.SetKey(0)
}

/// Collide a polygon with a circle: find the polygon face with the least
/// separation from the circle center, then resolve against the face
/// interior or whichever face vertex the center projects beyond.
func CollidePolygonAndCircle(manifold *Manifold, polygonA *PolygonShape, xfA Transformation, circleB *CircleShape, xfB Transformation) {
	manifold.PointCount = 0

	// Work in the polygon's frame.
	center := xfA.ApplyInverse(xfB.Apply(circleB.P))

	reach := polygonA.Radius + circleB.Radius

	bestFace := 0
	bestSeparation := -MaxFloat
	for i := 0; i < polygonA.Count; i++ {
		separation := polygonA.Normals[i].Dot(center.Sub(polygonA.Vertices[i]))
		if separation > reach {
			return
		}
		if separation > bestSeparation {
			bestSeparation = separation
			bestFace = i
		}
	}

	// The face runs from v1 to v2.
	v1 := polygonA.Vertices[bestFace]
	v2 := polygonA.Vertices[(bestFace+1)%polygonA.Count]

	// Center inside the polygon: use the face normal directly.
	if bestSeparation < Epsilon {
		emitPolygonCircle(manifold, polygonA.Normals[bestFace], v1.Add(v2).Scale(0.5), circleB.P)
		return
	}

	// Otherwise resolve against the nearest feature of the face.
	beyondV1 := center.Sub(v1).Dot(v2.Sub(v1)) <= 0.0
	beyondV2 := center.Sub(v2).Dot(v1.Sub(v2)) <= 0.0

	switch {
	case beyondV1:
		if center.DistanceSquaredTo(v1) > reach*reach {
			return
		}
		normal := center.Sub(v1)
		normal.Normalize()
		emitPolygonCircle(manifold, normal, v1, circleB.P)

	case beyondV2:
		if center.DistanceSquaredTo(v2) > reach*reach {
			return
		}
		normal := center.Sub(v2)
		normal.Normalize()
		emitPolygonCircle(manifold, normal, v2, circleB.P)

	default:
		faceCenter := v1.Add(v2).Scale(0.5)
		if center.Sub(faceCenter).Dot(polygonA.Normals[bestFace]) > reach {
			return
		}
		emitPolygonCircle(manifold, polygonA.Normals[bestFace], faceCenter, circleB.P)
	}
}
