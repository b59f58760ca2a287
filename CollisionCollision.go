package planar

import (
	"math"
)

const NullFeature uint8 = math.MaxUint8

type ContactFeatureType uint8

const (
	ContactFeatureTypeVertex ContactFeatureType = iota
	ContactFeatureTypeFace
)

/// Names the pair of features (a vertex or a face on either shape) that
/// produced a contact point. Stable across frames for the same geometric
/// configuration, which is what lets the solver warm start.
type ContactFeature struct {
	IndexA uint8
	IndexB uint8
	TypeA  ContactFeatureType
	TypeB  ContactFeatureType
}

func MakeContactFeature() ContactFeature {
	return ContactFeature{}
}

/// A contact id is a contact feature packed for cheap comparison.
type ContactID ContactFeature

func (id ContactID) Key() uint32 {
	return uint32(id.IndexA) |
		uint32(id.IndexB)<<8 |
		uint32(id.TypeA)<<16 |
		uint32(id.TypeB)<<24
}

func (id *ContactID) SetKey(key uint32) {
	id.IndexA = uint8(key)
	id.IndexB = uint8(key >> 8)
	id.TypeA = ContactFeatureType(key >> 16 & 0xFF)
	id.TypeB = ContactFeatureType(key >> 24 & 0xFF)
}

/// One point of a contact manifold. The meaning of LocalPoint depends on
/// the manifold type; the accumulated impulses are solver caches carried
/// across steps for warm starting and are not reliable contact forces.
type ManifoldPoint struct {
	LocalPoint     Vec2
	NormalImpulse  float64
	TangentImpulse float64
	Id             ContactID
}

type ManifoldType uint8

const (
	ManifoldTypeCircles ManifoldType = iota
	ManifoldTypeFaceA
	ManifoldTypeFaceB
)

/// A compact description of up to two touching points between two convex
/// shapes, stored in the local frame of the reference shape so position
/// correction can account for body movement between steps.
///
/// For circles, LocalPoint is circle A's center (an edge vertex for the
/// edge-circle vertex regions) and the normal is unused.
/// For faceA/faceB, LocalNormal is the reference normal and LocalPoint a
/// point on the reference feature: the face midpoint for polygon-polygon
/// and polygon-circle face contacts, a vertex for polygon-circle vertex
/// contacts and for the edge colliders. The per-point local points live
/// on the incident shape.
type Manifold struct {
	Points      [MaxManifoldPoints]ManifoldPoint
	LocalNormal Vec2
	LocalPoint  Vec2
	Type        ManifoldType
	PointCount  int
}

func NewManifold() *Manifold {
	return &Manifold{}
}

/// A manifold evaluated in world space: the shared normal (pointing from
/// shape A to shape B), the world contact points, and the signed
/// separations (negative means overlap).
type WorldManifold struct {
	Normal      Vec2
	Points      [MaxManifoldPoints]Vec2
	Separations [MaxManifoldPoints]float64
}

func MakeWorldManifold() WorldManifold {
	return WorldManifold{}
}

func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transformation, radiusA float64, xfB Transformation, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case ManifoldTypeCircles:
		wm.initializeCircles(manifold, xfA, radiusA, xfB, radiusB)
	case ManifoldTypeFaceA:
		wm.initializeFace(manifold, xfA, radiusA, xfB, radiusB, false)
	case ManifoldTypeFaceB:
		wm.initializeFace(manifold, xfB, radiusB, xfA, radiusA, true)
	}
}

func (wm *WorldManifold) initializeCircles(manifold *Manifold, xfA Transformation, radiusA float64, xfB Transformation, radiusB float64) {
	centerA := xfA.Apply(manifold.LocalPoint)
	centerB := xfB.Apply(manifold.Points[0].LocalPoint)

	wm.Normal = Vec2{1.0, 0.0}
	if centerA.DistanceSquaredTo(centerB) > Epsilon*Epsilon {
		wm.Normal = centerB.Sub(centerA)
		wm.Normal.Normalize()
	}

	onA := centerA.Add(wm.Normal.Scale(radiusA))
	onB := centerB.Sub(wm.Normal.Scale(radiusB))
	wm.Points[0] = onA.Add(onB).Scale(0.5)
	wm.Separations[0] = onB.Sub(onA).Dot(wm.Normal)
}

/// Shared face evaluation: xfRef/radiusRef belong to the shape owning the
/// reference face, xfInc/radiusInc to the incident shape. When flipped,
/// the incident shape is A and the reported normal is negated so it still
/// points from A to B.
func (wm *WorldManifold) initializeFace(manifold *Manifold, xfRef Transformation, radiusRef float64, xfInc Transformation, radiusInc float64, flipped bool) {
	normal := xfRef.Q.Rotate(manifold.LocalNormal)
	facePoint := xfRef.Apply(manifold.LocalPoint)

	for i := 0; i < manifold.PointCount; i++ {
		clip := xfInc.Apply(manifold.Points[i].LocalPoint)

		depth := radiusRef - clip.Sub(facePoint).Dot(normal)
		onRef := clip.Add(normal.Scale(depth))
		onInc := clip.Sub(normal.Scale(radiusInc))

		wm.Points[i] = onRef.Add(onInc).Scale(0.5)
		wm.Separations[i] = onInc.Sub(onRef).Dot(normal)
	}

	wm.Normal = normal
	if flipped {
		wm.Normal = normal.Neg()
	}
}

/// This is used for determining the state of contact points.
type PointState uint8

const (
	PointStateNull    PointState = iota ///< point does not exist
	PointStateAdd                       ///< point was added in the update
	PointStatePersist                   ///< point persisted across the update
	PointStateRemove                    ///< point was removed in the update
)

func manifoldHasID(m Manifold, key uint32) bool {
	for i := 0; i < m.PointCount; i++ {
		if m.Points[i].Id.Key() == key {
			return true
		}
	}
	return false
}

/// Classify each point of two successive manifolds: state1 describes the
/// fate of manifold1's points (persist or remove), state2 the provenance
/// of manifold2's points (persist or add).
func GetPointStates(state1 *[MaxManifoldPoints]PointState, state2 *[MaxManifoldPoints]PointState, manifold1 Manifold, manifold2 Manifold) {
	for i := range state1 {
		state1[i] = PointStateNull
		state2[i] = PointStateNull
	}

	for i := 0; i < manifold1.PointCount; i++ {
		if manifoldHasID(manifold2, manifold1.Points[i].Id.Key()) {
			state1[i] = PointStatePersist
		} else {
			state1[i] = PointStateRemove
		}
	}

	for i := 0; i < manifold2.PointCount; i++ {
		if manifoldHasID(manifold1, manifold2.Points[i].Id.Key()) {
			state2[i] = PointStatePersist
		} else {
			state2[i] = PointStateAdd
		}
	}
}

/// Used for computing contact manifolds.
type ClipVertex struct {
	V  Vec2
	Id ContactID
}

/// Ray-cast input data. The ray extends from p1 to p1 + maxFraction * (p2 - p1).
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

func MakeRayCastInput() RayCastInput {
	return RayCastInput{}
}

/// Ray-cast output data. The ray hits at p1 + fraction * (p2 - p1), where p1 and p2
/// come from RayCastInput.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
}

func MakeRayCastOutput() RayCastOutput {
	return RayCastOutput{}
}

/// An axis aligned bounding box.
type AABB struct {
	LowerBound Vec2
	UpperBound Vec2
}

func MakeAABB() AABB {
	return AABB{}
}

func (bb AABB) GetCenter() Vec2 {
	return bb.LowerBound.Add(bb.UpperBound).Scale(0.5)
}

/// Half-widths of the box.
func (bb AABB) GetExtents() Vec2 {
	return bb.UpperBound.Sub(bb.LowerBound).Scale(0.5)
}

func (bb AABB) GetPerimeter() float64 {
	size := bb.UpperBound.Sub(bb.LowerBound)
	return 2.0 * (size.X + size.Y)
}

/// Grow this box to cover another.
func (bb *AABB) CombineInPlace(other AABB) {
	bb.LowerBound = bb.LowerBound.Min(other.LowerBound)
	bb.UpperBound = bb.UpperBound.Max(other.UpperBound)
}

/// Set this box to the union of two others.
func (bb *AABB) CombineTwoInPlace(a, b AABB) {
	bb.LowerBound = a.LowerBound.Min(b.LowerBound)
	bb.UpperBound = a.UpperBound.Max(b.UpperBound)
}

func (bb AABB) Contains(other AABB) bool {
	return bb.LowerBound.X <= other.LowerBound.X &&
		bb.LowerBound.Y <= other.LowerBound.Y &&
		other.UpperBound.X <= bb.UpperBound.X &&
		other.UpperBound.Y <= bb.UpperBound.Y
}

func (bb AABB) IsValid() bool {
	size := bb.UpperBound.Sub(bb.LowerBound)
	return size.X >= 0.0 && size.Y >= 0.0 &&
		bb.LowerBound.IsValid() && bb.UpperBound.IsValid()
}

func TestOverlapBoundingBoxes(a, b AABB) bool {
	if b.LowerBound.X > a.UpperBound.X || b.LowerBound.Y > a.UpperBound.Y {
		return false
	}
	if a.LowerBound.X > b.UpperBound.X || a.LowerBound.Y > b.UpperBound.Y {
		return false
	}
	return true
}

/// Slab-clipping ray cast against the box, one axis at a time.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tEnter := -MaxFloat
	tExit := MaxFloat

	origin := input.P1
	dir := input.P2.Sub(input.P1)
	absDir := dir.Abs()

	var normal Vec2

	for axis := 0; axis < 2; axis++ {
		lower := bb.LowerBound.Component(axis)
		upper := bb.UpperBound.Component(axis)
		o := origin.Component(axis)

		if absDir.Component(axis) < Epsilon {
			// The ray runs parallel to this slab; it must start inside it.
			if o < lower || upper < o {
				return false
			}
			continue
		}

		invD := 1.0 / dir.Component(axis)
		tNear := (lower - o) * invD
		tFar := (upper - o) * invD

		sign := -1.0
		if tNear > tFar {
			tNear, tFar = tFar, tNear
			sign = 1.0
		}

		if tNear > tEnter {
			normal.SetZero()
			normal.SetComponent(axis, sign)
			tEnter = tNear
		}
		tExit = math.Min(tExit, tFar)

		if tEnter > tExit {
			return false
		}
	}

	// Reject hits behind the start or beyond the allowed fraction.
	if tEnter < 0.0 || input.MaxFraction < tEnter {
		return false
	}

	output.Fraction = tEnter
	output.Normal = normal
	return true
}

/// Sutherland-Hodgman clipping of a two-vertex segment against one plane.
/// Writes at most two vertices to vOut and returns how many were kept.
func ClipSegmentToLine(vOut []ClipVertex, vIn []ClipVertex, normal Vec2, offset float64, vertexIndexA int) int {
	count := 0

	// Signed distances of the segment ends to the plane.
	d0 := normal.Dot(vIn[0].V) - offset
	d1 := normal.Dot(vIn[1].V) - offset

	if d0 <= 0.0 {
		vOut[count] = vIn[0]
		count++
	}
	if d1 <= 0.0 {
		vOut[count] = vIn[1]
		count++
	}

	if d0*d1 < 0.0 {
		// The segment straddles the plane: keep the crossing point, tagged
		// as the reference vertex hitting the incident face.
		t := d0 / (d0 - d1)
		vOut[count].V = vIn[0].V.Add(vIn[1].V.Sub(vIn[0].V).Scale(t))
		vOut[count].Id.IndexA = uint8(vertexIndexA)
		vOut[count].Id.IndexB = vIn[0].Id.IndexB
		vOut[count].Id.TypeA = ContactFeatureTypeVertex
		vOut[count].Id.TypeB = ContactFeatureTypeFace
		count++
	}

	return count
}

/// Precise overlap test between two shape children via the distance query.
func TestOverlapShapes(shapeA ShapeInterface, indexA int, shapeB ShapeInterface, indexB int, xfA Transformation, xfB Transformation) bool {
	input := MakeDistanceInput()
	input.ProxyA.Set(shapeA, indexA)
	input.ProxyB.Set(shapeB, indexB)
	input.TransformationA = xfA
	input.TransformationB = xfB
	input.UseRadii = true

	cache := MakeSimplexCache()
	output := MakeDistanceOutput()
	Distance(&output, &cache, &input)

	return output.Distance < 10.0*Epsilon
}
