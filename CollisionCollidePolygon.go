package planar

/// Largest separation of target's hull from the faces of source: for each
/// source face normal, the deepest target vertex is found, and the face
/// whose deepest vertex is least penetrated wins. Positive means the
/// polygons are apart along that face. Also reports the winning face.
func FindMaxSeparation(edgeIndex *int, source *PolygonShape, xfSource Transformation, target *PolygonShape, xfTarget Transformation) float64 {
	// One combined transform takes source-local directly into
	// target-local coordinates.
	sourceToTarget := xfTarget.MulT(xfSource)

	bestFace := 0
	bestSeparation := -MaxFloat

	for i := 0; i < source.Count; i++ {
		normal := sourceToTarget.Q.Rotate(source.Normals[i])
		faceVertex := sourceToTarget.Apply(source.Vertices[i])

		// Deepest target vertex along this face normal.
		deepest := MaxFloat
		for j := 0; j < target.Count; j++ {
			depth := normal.Dot(target.Vertices[j].Sub(faceVertex))
			if depth < deepest {
				deepest = depth
			}
		}

		if deepest > bestSeparation {
			bestSeparation = deepest
			bestFace = i
		}
	}

	*edgeIndex = bestFace
	return bestSeparation
}

/// The incident edge: the face of the incident polygon most anti-parallel
/// to the reference face normal, emitted as two clip vertices tagged with
/// the producing features.
func FindIncidentEdge(c []ClipVertex, ref *PolygonShape, xfRef Transformation, refEdge int, inc *PolygonShape, xfInc Transformation) {
	Assert(0 <= refEdge && refEdge < ref.Count)

	// Reference normal in the incident polygon's frame.
	refNormal := xfInc.Q.InvRotate(xfRef.Q.Rotate(ref.Normals[refEdge]))

	incEdge := 0
	mostOpposed := MaxFloat
	for i := 0; i < inc.Count; i++ {
		facing := refNormal.Dot(inc.Normals[i])
		if facing < mostOpposed {
			mostOpposed = facing
			incEdge = i
		}
	}

	i1 := incEdge
	i2 := (incEdge + 1) % inc.Count

	c[0] = ClipVertex{
		V: xfInc.Apply(inc.Vertices[i1]),
		Id: ContactID{
			IndexA: uint8(refEdge), TypeA: ContactFeatureTypeFace,
			IndexB: uint8(i1), TypeB: ContactFeatureTypeVertex,
		},
	}
	c[1] = ClipVertex{
		V: xfInc.Apply(inc.Vertices[i2]),
		Id: ContactID{
			IndexA: uint8(refEdge), TypeA: ContactFeatureTypeFace,
			IndexB: uint8(i2), TypeB: ContactFeatureTypeVertex,
		},
	}
}

/// SAT + clipping polygon collision: find the best separating axis from
/// each polygon's faces; if neither separates, the less-penetrated face
/// becomes the reference (with a small bias toward A for frame-to-frame
/// stability), the incident edge is clipped against the reference face's
/// side planes, and surviving points within the radius sum become the
/// manifold.
func CollidePolygons(manifold *Manifold, polyA *PolygonShape, xfA Transformation, polyB *PolygonShape, xfB Transformation) {
	manifold.PointCount = 0
	totalRadius := polyA.Radius + polyB.Radius

	edgeA := 0
	separationA := FindMaxSeparation(&edgeA, polyA, xfA, polyB, xfB)
	if separationA > totalRadius {
		return
	}

	edgeB := 0
	separationB := FindMaxSeparation(&edgeB, polyB, xfB, polyA, xfA)
	if separationB > totalRadius {
		return
	}

	// Prefer A's face unless B's separation is clearly better; the bias
	// keeps the reference choice stable across frames.
	const biasFactor = 0.1
	flip := separationB > separationA+biasFactor*DefaultLinearSlop

	var ref, inc *PolygonShape
	var xfRef, xfInc Transformation
	var refEdge int
	if flip {
		ref, inc = polyB, polyA
		xfRef, xfInc = xfB, xfA
		refEdge = edgeB
		manifold.Type = ManifoldTypeFaceB
	} else {
		ref, inc = polyA, polyB
		xfRef, xfInc = xfA, xfB
		refEdge = edgeA
		manifold.Type = ManifoldTypeFaceA
	}

	incidentEdge := make([]ClipVertex, 2)
	FindIncidentEdge(incidentEdge, ref, xfRef, refEdge, inc, xfInc)

	iv1 := refEdge
	iv2 := (refEdge + 1) % ref.Count

	v11 := ref.Vertices[iv1]
	v12 := ref.Vertices[iv2]

	localTangent := v12.Sub(v11)
	localTangent.Normalize()

	manifold.LocalNormal = CrossVS(localTangent, 1.0)
	manifold.LocalPoint = v11.Add(v12).Scale(0.5)

	tangent := xfRef.Q.Rotate(localTangent)
	normal := CrossVS(tangent, 1.0)

	v11 = xfRef.Apply(v11)
	v12 = xfRef.Apply(v12)

	frontOffset := normal.Dot(v11)

	// Side planes, pushed out by the combined skin radius.
	sideOffset1 := -tangent.Dot(v11) + totalRadius
	sideOffset2 := tangent.Dot(v12) + totalRadius

	// Clip the incident edge against both side planes.
	stage1 := make([]ClipVertex, 2)
	if ClipSegmentToLine(stage1, incidentEdge, tangent.Neg(), sideOffset1, iv1) < 2 {
		return
	}
	stage2 := make([]ClipVertex, 2)
	if ClipSegmentToLine(stage2, stage1, tangent, sideOffset2, iv2) < 2 {
		return
	}

	// Keep clipped points within reach of the reference face.
	pointCount := 0
	for i := 0; i < MaxManifoldPoints; i++ {
		if normal.Dot(stage2[i].V)-frontOffset > totalRadius {
			continue
		}

		point := &manifold.Points[pointCount]
		point.LocalPoint = xfInc.ApplyInverse(stage2[i].V)
		point.Id = stage2[i].Id
		if flip {
			// The id's A/B sides follow the manifold, not the clip.
			point.Id = ContactID{
				IndexA: stage2[i].Id.IndexB, TypeA: stage2[i].Id.TypeB,
				IndexB: stage2[i].Id.IndexA, TypeB: stage2[i].Id.TypeA,
			}
		}
		pointCount++
	}

	manifold.PointCount = pointCount
}
