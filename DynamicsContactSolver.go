package planar

import (
	"math"
)

// The block solver sometimes meets a poorly conditioned effective mass
// matrix, so its internal checks stay behind this switch.
const debugSolver = false

const blockSolve = true

/// Per-point state of a contact velocity constraint.
type VelocityConstraintPoint struct {
	RA             Vec2
	RB             Vec2
	NormalImpulse  float64
	TangentImpulse float64
	NormalMass     float64
	TangentMass    float64
	VelocityBias   float64
}

/// One contact's velocity constraint, keyed by island-local body indices.
type ContactVelocityConstraint struct {
	Points             [MaxManifoldPoints]VelocityConstraintPoint
	Normal             Vec2
	NormalMass         Mat22
	K                  Mat22
	IndexA             int
	IndexB             int
	InvMassA, InvMassB float64
	InvIA, InvIB       float64
	Friction           float64
	Restitution        float64
	TangentSpeed       float64
	PointCount         int
	ContactIndex       int
}

/// One contact's position constraint: everything needed to re-derive the
/// separation from candidate poses during the NGS pass.
type contactPositionConstraint struct {
	localPoints                [MaxManifoldPoints]Vec2
	localNormal                Vec2
	localPoint                 Vec2
	indexA, indexB             int
	invMassA, invMassB         float64
	localCenterA, localCenterB Vec2
	invIA, invIB               float64
	manifoldType               ManifoldType
	radiusA, radiusB           float64
	pointCount                 int
}

type ContactSolverDef struct {
	Step       StepConf
	Contacts   []ContactInterface // has to be backed by pointers
	Count      int
	Positions  []Position
	Velocities []Velocity
}

func MakeContactSolverDef() ContactSolverDef {
	return ContactSolverDef{}
}

type ContactSolver struct {
	Step                StepConf
	Positions           []Position
	Velocities          []Velocity
	PositionConstraints []contactPositionConstraint
	VelocityConstraints []ContactVelocityConstraint
	Contacts            []ContactInterface // has to be backed by pointers
	Count               int
}

/// Linear and angular velocity of one island body together with its
/// inverse mass, so impulses can be applied in one place.
type solverBody struct {
	v    Vec2
	w    float64
	invM float64
	invI float64
}

func (body *solverBody) applyImpulse(impulse Vec2, at Vec2) {
	body.v = body.v.Add(impulse.Scale(body.invM))
	body.w += body.invI * at.Cross(impulse)
}

/// Velocity of the contact point at offset r from the body center.
func (body solverBody) velocityAt(r Vec2) Vec2 {
	return body.v.Add(CrossSV(body.w, r))
}

func relativeVelocity(a, b solverBody, rA, rB Vec2) Vec2 {
	return b.velocityAt(rB).Sub(a.velocityAt(rA))
}

func (solver *ContactSolver) loadBodies(vc *ContactVelocityConstraint) (solverBody, solverBody) {
	a := solverBody{
		v:    solver.Velocities[vc.IndexA].V,
		w:    solver.Velocities[vc.IndexA].W,
		invM: vc.InvMassA,
		invI: vc.InvIA,
	}
	b := solverBody{
		v:    solver.Velocities[vc.IndexB].V,
		w:    solver.Velocities[vc.IndexB].W,
		invM: vc.InvMassB,
		invI: vc.InvIB,
	}
	return a, b
}

func (solver *ContactSolver) storeBodies(vc *ContactVelocityConstraint, a, b solverBody) {
	solver.Velocities[vc.IndexA].V = a.v
	solver.Velocities[vc.IndexA].W = a.w
	solver.Velocities[vc.IndexB].V = b.v
	solver.Velocities[vc.IndexB].W = b.w
}

/// Build the position-independent parts of every constraint. Accumulated
/// impulses are carried over scaled by the step's DtRatio when warm
/// starting is on.
func MakeContactSolver(def *ContactSolverDef) ContactSolver {
	solver := ContactSolver{
		Step:                def.Step,
		Count:               def.Count,
		PositionConstraints: make([]contactPositionConstraint, def.Count),
		VelocityConstraints: make([]ContactVelocityConstraint, def.Count),
		Positions:           def.Positions,
		Velocities:          def.Velocities,
		Contacts:            def.Contacts,
	}

	for i := 0; i < solver.Count; i++ {
		contact := solver.Contacts[i]

		fixtureA := contact.GetFixtureA()
		fixtureB := contact.GetFixtureB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()
		manifold := contact.GetManifold()

		pointCount := manifold.PointCount
		Assert(pointCount > 0)

		vc := &solver.VelocityConstraints[i]
		vc.Friction = contact.GetFriction()
		vc.Restitution = contact.GetRestitution()
		vc.TangentSpeed = contact.GetTangentSpeed()
		vc.IndexA = bodyA.IslandIndex
		vc.IndexB = bodyB.IslandIndex
		vc.InvMassA = bodyA.InvMass
		vc.InvMassB = bodyB.InvMass
		vc.InvIA = bodyA.InvI
		vc.InvIB = bodyB.InvI
		vc.ContactIndex = i
		vc.PointCount = pointCount
		vc.K.SetZero()
		vc.NormalMass.SetZero()

		pc := &solver.PositionConstraints[i]
		pc.indexA = bodyA.IslandIndex
		pc.indexB = bodyB.IslandIndex
		pc.invMassA = bodyA.InvMass
		pc.invMassB = bodyB.InvMass
		pc.localCenterA = bodyA.Sweep.LocalCenter
		pc.localCenterB = bodyB.Sweep.LocalCenter
		pc.invIA = bodyA.InvI
		pc.invIB = bodyB.InvI
		pc.localNormal = manifold.LocalNormal
		pc.localPoint = manifold.LocalPoint
		pc.pointCount = pointCount
		pc.radiusA = fixtureA.GetShape().GetRadius()
		pc.radiusB = fixtureB.GetShape().GetRadius()
		pc.manifoldType = manifold.Type

		for j := 0; j < pointCount; j++ {
			mp := &manifold.Points[j]
			pt := &vc.Points[j]

			if solver.Step.DoWarmStart {
				pt.NormalImpulse = solver.Step.DtRatio * mp.NormalImpulse
				pt.TangentImpulse = solver.Step.DtRatio * mp.TangentImpulse
			}

			pc.localPoints[j] = mp.LocalPoint
		}
	}

	return solver
}

func (solver *ContactSolver) Destroy() {
}

/// Pose of an island body rebuilt from the solver's position array.
func (solver *ContactSolver) poseOf(index int, localCenter Vec2) Transformation {
	xf := MakeTransformation()
	xf.Q.Set(solver.Positions[index].A)
	xf.P = solver.Positions[index].C.Sub(xf.Q.Rotate(localCenter))
	return xf
}

/// Build the position-dependent parts: world-space contact geometry,
/// effective masses, restitution bias, and (for two points) the block
/// matrix when it is invertible enough to trust.
func (solver *ContactSolver) InitializeVelocityConstraints() {
	for i := 0; i < solver.Count; i++ {
		vc := &solver.VelocityConstraints[i]
		pc := &solver.PositionConstraints[i]

		manifold := solver.Contacts[vc.ContactIndex].GetManifold()
		Assert(manifold.PointCount > 0)

		bodyA, bodyB := solver.loadBodies(vc)
		centerA := solver.Positions[vc.IndexA].C
		centerB := solver.Positions[vc.IndexB].C

		xfA := solver.poseOf(vc.IndexA, pc.localCenterA)
		xfB := solver.poseOf(vc.IndexB, pc.localCenterB)

		worldManifold := MakeWorldManifold()
		worldManifold.Initialize(manifold, xfA, pc.radiusA, xfB, pc.radiusB)

		vc.Normal = worldManifold.Normal
		tangent := CrossVS(vc.Normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			pt := &vc.Points[j]

			pt.RA = worldManifold.Points[j].Sub(centerA)
			pt.RB = worldManifold.Points[j].Sub(centerB)

			pt.NormalMass = effectiveMass(bodyA, bodyB, pt.RA, pt.RB, vc.Normal)
			pt.TangentMass = effectiveMass(bodyA, bodyB, pt.RA, pt.RB, tangent)

			// Restitution kicks in above the velocity threshold; below it
			// the contact is treated as inelastic to avoid jitter.
			pt.VelocityBias = 0.0
			approach := vc.Normal.Dot(relativeVelocity(bodyA, bodyB, pt.RA, pt.RB))
			if approach < -solver.Step.VelocityThreshold {
				pt.VelocityBias = -vc.Restitution * approach
			}
		}

		if vc.PointCount == 2 && blockSolve {
			solver.prepareBlock(vc, bodyA, bodyB)
		}
	}
}

/// Inverse of the scalar effective mass along one direction, or zero when
/// both bodies are immovable on that row.
func effectiveMass(a, b solverBody, rA, rB, direction Vec2) float64 {
	rnA := rA.Cross(direction)
	rnB := rB.Cross(direction)
	k := a.invM + b.invM + a.invI*rnA*rnA + b.invI*rnB*rnB
	if k > 0.0 {
		return 1.0 / k
	}
	return 0.0
}

func (solver *ContactSolver) prepareBlock(vc *ContactVelocityConstraint, bodyA, bodyB solverBody) {
	pt1 := &vc.Points[0]
	pt2 := &vc.Points[1]

	rn1A := pt1.RA.Cross(vc.Normal)
	rn1B := pt1.RB.Cross(vc.Normal)
	rn2A := pt2.RA.Cross(vc.Normal)
	rn2B := pt2.RB.Cross(vc.Normal)

	mSum := bodyA.invM + bodyB.invM
	k11 := mSum + bodyA.invI*rn1A*rn1A + bodyB.invI*rn1B*rn1B
	k22 := mSum + bodyA.invI*rn2A*rn2A + bodyB.invI*rn2B*rn2B
	k12 := mSum + bodyA.invI*rn1A*rn2A + bodyB.invI*rn1B*rn2B

	const maxConditionNumber = 1000.0
	if k11*k11 < maxConditionNumber*(k11*k22-k12*k12) {
		vc.K.Ex = Vec2{k11, k12}
		vc.K.Ey = Vec2{k12, k22}
		vc.NormalMass = vc.K.GetInverse()
	} else {
		// Nearly parallel constraint rows; fall back to one point.
		// TODO: pick the deepest point instead of the first.
		vc.PointCount = 1
	}
}

/// Apply the accumulated impulses from the previous step so the iterative
/// solver starts near the converged answer.
func (solver *ContactSolver) WarmStart() {
	for i := 0; i < solver.Count; i++ {
		vc := &solver.VelocityConstraints[i]

		bodyA, bodyB := solver.loadBodies(vc)
		tangent := CrossVS(vc.Normal, 1.0)

		for j := 0; j < vc.PointCount; j++ {
			pt := &vc.Points[j]
			impulse := vc.Normal.Scale(pt.NormalImpulse).Add(tangent.Scale(pt.TangentImpulse))
			bodyA.applyImpulse(impulse.Neg(), pt.RA)
			bodyB.applyImpulse(impulse, pt.RB)
		}

		solver.storeBodies(vc, bodyA, bodyB)
	}
}

func (solver *ContactSolver) SolveVelocityConstraints() {
	for i := 0; i < solver.Count; i++ {
		vc := &solver.VelocityConstraints[i]
		Assert(vc.PointCount == 1 || vc.PointCount == 2)

		bodyA, bodyB := solver.loadBodies(vc)

		// Friction first: non-penetration solved after wins on conflicts.
		solver.solveTangent(vc, &bodyA, &bodyB)

		if vc.PointCount == 1 || !blockSolve {
			solver.solveNormalPointwise(vc, &bodyA, &bodyB)
		} else {
			solver.solveNormalBlock(vc, &bodyA, &bodyB)
		}

		solver.storeBodies(vc, bodyA, bodyB)
	}
}

func (solver *ContactSolver) solveTangent(vc *ContactVelocityConstraint, bodyA, bodyB *solverBody) {
	tangent := CrossVS(vc.Normal, 1.0)

	for j := 0; j < vc.PointCount; j++ {
		pt := &vc.Points[j]

		// Tangential speed relative to the surface (TangentSpeed models a
		// conveyor belt).
		slip := relativeVelocity(*bodyA, *bodyB, pt.RA, pt.RB).Dot(tangent) - vc.TangentSpeed
		increment := pt.TangentMass * (-slip)

		// The accumulated friction impulse stays inside the cone set by
		// the accumulated normal impulse.
		cone := vc.Friction * pt.NormalImpulse
		accumulated := Clamp(pt.TangentImpulse+increment, -cone, cone)
		increment = accumulated - pt.TangentImpulse
		pt.TangentImpulse = accumulated

		impulse := tangent.Scale(increment)
		bodyA.applyImpulse(impulse.Neg(), pt.RA)
		bodyB.applyImpulse(impulse, pt.RB)
	}
}

func (solver *ContactSolver) solveNormalPointwise(vc *ContactVelocityConstraint, bodyA, bodyB *solverBody) {
	for j := 0; j < vc.PointCount; j++ {
		pt := &vc.Points[j]

		closing := relativeVelocity(*bodyA, *bodyB, pt.RA, pt.RB).Dot(vc.Normal)
		increment := -pt.NormalMass * (closing - pt.VelocityBias)

		// Clamp the accumulated impulse, not the increment.
		accumulated := math.Max(pt.NormalImpulse+increment, 0.0)
		increment = accumulated - pt.NormalImpulse
		pt.NormalImpulse = accumulated

		impulse := vc.Normal.Scale(increment)
		bodyA.applyImpulse(impulse.Neg(), pt.RA)
		bodyB.applyImpulse(impulse, pt.RB)
	}
}

/// Two-point normal solve as a miniature LCP (after Dirk Gregorius):
///
///   vn = A*x + b,  vn >= 0,  x >= 0,  vn_i * x_i = 0
///
/// Complementarity means each point either pushes (x_i > 0, vn_i = 0) or
/// separates (x_i = 0, vn_i >= 0), so only four sign patterns exist and
/// they are simply enumerated. Because the accumulated impulse is what
/// gets clamped, the constant term is adjusted by A*a for the already
/// applied impulse a before testing the cases.
func (solver *ContactSolver) solveNormalBlock(vc *ContactVelocityConstraint, bodyA, bodyB *solverBody) {
	pt1 := &vc.Points[0]
	pt2 := &vc.Points[1]

	applied := Vec2{pt1.NormalImpulse, pt2.NormalImpulse}
	Assert(applied.X >= 0.0 && applied.Y >= 0.0)

	vn1 := relativeVelocity(*bodyA, *bodyB, pt1.RA, pt1.RB).Dot(vc.Normal)
	vn2 := relativeVelocity(*bodyA, *bodyB, pt2.RA, pt2.RB).Dot(vc.Normal)

	b := Vec2{vn1 - pt1.VelocityBias, vn2 - pt2.VelocityBias}
	b = b.Sub(vc.K.MulVec(applied))

	commit := func(total Vec2) {
		delta := total.Sub(applied)
		impulse1 := vc.Normal.Scale(delta.X)
		impulse2 := vc.Normal.Scale(delta.Y)

		bodyA.applyImpulse(impulse1.Neg(), pt1.RA)
		bodyA.applyImpulse(impulse2.Neg(), pt2.RA)
		bodyB.applyImpulse(impulse1, pt1.RB)
		bodyB.applyImpulse(impulse2, pt2.RB)

		pt1.NormalImpulse = total.X
		pt2.NormalImpulse = total.Y

		if debugSolver {
			const errorTol = 1.0e-3
			if total.X > 0.0 {
				post := relativeVelocity(*bodyA, *bodyB, pt1.RA, pt1.RB).Dot(vc.Normal)
				Assert(math.Abs(post-pt1.VelocityBias) < errorTol)
			}
			if total.Y > 0.0 {
				post := relativeVelocity(*bodyA, *bodyB, pt2.RA, pt2.RB).Dot(vc.Normal)
				Assert(math.Abs(post-pt2.VelocityBias) < errorTol)
			}
		}
	}

	// Case 1: both points push, vn = 0 at both. x = -inv(A)*b.
	x := vc.NormalMass.MulVec(b).Neg()
	if x.X >= 0.0 && x.Y >= 0.0 {
		commit(x)
		return
	}

	// Case 2: point 1 pushes, point 2 separates.
	x = Vec2{-pt1.NormalMass * b.X, 0.0}
	if x.X >= 0.0 && vc.K.Ex.Y*x.X+b.Y >= 0.0 {
		commit(x)
		return
	}

	// Case 3: point 2 pushes, point 1 separates.
	x = Vec2{0.0, -pt2.NormalMass * b.Y}
	if x.Y >= 0.0 && vc.K.Ey.X*x.Y+b.X >= 0.0 {
		commit(x)
		return
	}

	// Case 4: both points separate; all impulse is withdrawn.
	if b.X >= 0.0 && b.Y >= 0.0 {
		commit(Vec2{})
		return
	}

	// No case accepted: numerical trouble in K. Keep what we have.
}

/// Copy the accumulated impulses back onto the manifold so the next step
/// can warm start from them.
func (solver *ContactSolver) StoreImpulses() {
	for i := 0; i < solver.Count; i++ {
		vc := &solver.VelocityConstraints[i]
		manifold := solver.Contacts[vc.ContactIndex].GetManifold()

		for j := 0; j < vc.PointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.Points[j].NormalImpulse
			manifold.Points[j].TangentImpulse = vc.Points[j].TangentImpulse
		}
	}
}

/// Re-derive one contact point's world normal, position, and separation
/// from candidate poses during position solving.
func positionManifold(pc *contactPositionConstraint, xfA, xfB Transformation, index int) (normal Vec2, point Vec2, separation float64) {
	Assert(pc.pointCount > 0)

	switch pc.manifoldType {
	case ManifoldTypeCircles:
		centerA := xfA.Apply(pc.localPoint)
		centerB := xfB.Apply(pc.localPoints[0])
		normal = centerB.Sub(centerA)
		normal.Normalize()
		point = centerA.Add(centerB).Scale(0.5)
		separation = centerB.Sub(centerA).Dot(normal) - pc.radiusA - pc.radiusB

	case ManifoldTypeFaceA:
		normal = xfA.Q.Rotate(pc.localNormal)
		facePoint := xfA.Apply(pc.localPoint)
		point = xfB.Apply(pc.localPoints[index])
		separation = point.Sub(facePoint).Dot(normal) - pc.radiusA - pc.radiusB

	case ManifoldTypeFaceB:
		normal = xfB.Q.Rotate(pc.localNormal)
		facePoint := xfB.Apply(pc.localPoint)
		point = xfA.Apply(pc.localPoints[index])
		separation = point.Sub(facePoint).Dot(normal) - pc.radiusA - pc.radiusB

		// Report the normal from A to B like the other cases.
		normal = normal.Neg()
	}

	return normal, point, separation
}

/// One non-linear Gauss-Seidel pass over all position constraints.
/// In the TOI variant only the two bodies named by the indices receive
/// corrections; everything else is treated as infinitely heavy. Reports
/// whether every separation came out above the acceptance threshold.
func (solver *ContactSolver) solvePositions(resolutionRate float64, toiBodyA, toiBodyB int, toiPass bool) bool {
	minSeparation := 0.0

	for i := 0; i < solver.Count; i++ {
		pc := &solver.PositionConstraints[i]

		mA, iA := pc.invMassA, pc.invIA
		mB, iB := pc.invMassB, pc.invIB
		if toiPass {
			if pc.indexA != toiBodyA && pc.indexA != toiBodyB {
				mA, iA = 0.0, 0.0
			}
			if pc.indexB != toiBodyA && pc.indexB != toiBodyB {
				mB, iB = 0.0, 0.0
			}
		}

		centerA := solver.Positions[pc.indexA].C
		angleA := solver.Positions[pc.indexA].A
		centerB := solver.Positions[pc.indexB].C
		angleB := solver.Positions[pc.indexB].A

		pointCount := pc.pointCount
		for j := 0; j < pointCount; j++ {
			// Rebuild poses from the running positions: earlier points in
			// this pass already moved the bodies.
			var xfA, xfB Transformation
			xfA.Q.Set(angleA)
			xfA.P = centerA.Sub(xfA.Q.Rotate(pc.localCenterA))
			xfB.Q.Set(angleB)
			xfB.P = centerB.Sub(xfB.Q.Rotate(pc.localCenterB))

			normal, point, separation := positionManifold(pc, xfA, xfB, j)

			// Two points at equal depth are corrected once through their
			// midpoint, so a symmetric overlap is pushed apart along the
			// normal without rotating either body.
			if j == 0 && pointCount == 2 {
				_, point1, separation1 := positionManifold(pc, xfA, xfB, 1)
				if separation1 == separation {
					point = point.Add(point1).Scale(0.5)
					pointCount = 1
				}
			}

			rA := point.Sub(centerA)
			rB := point.Sub(centerB)

			minSeparation = math.Min(minSeparation, separation)

			// Resolve a fraction of the error, allow the slop, and cap the
			// correction to avoid overshoot.
			C := Clamp(resolutionRate*(separation+solver.Step.LinearSlop), -solver.Step.MaxLinearCorrection, 0.0)

			rnA := rA.Cross(normal)
			rnB := rB.Cross(normal)
			k := mA + mB + iA*rnA*rnA + iB*rnB*rnB

			magnitude := 0.0
			if k > 0.0 {
				magnitude = -C / k
			}
			correction := normal.Scale(magnitude)

			centerA = centerA.Sub(correction.Scale(mA))
			angleA -= iA * rA.Cross(correction)
			centerB = centerB.Add(correction.Scale(mB))
			angleB += iB * rB.Cross(correction)
		}

		solver.Positions[pc.indexA].C = centerA
		solver.Positions[pc.indexA].A = angleA
		solver.Positions[pc.indexB].C = centerB
		solver.Positions[pc.indexB].A = angleB
	}

	// Separations cannot be pushed all the way to -slop in one pass, so
	// accept a small multiple of it.
	if toiPass {
		return minSeparation >= -1.5*solver.Step.LinearSlop
	}
	return minSeparation >= -3.0*solver.Step.LinearSlop
}

func (solver *ContactSolver) SolvePositionConstraints() bool {
	return solver.solvePositions(solver.Step.RegResolutionRate, -1, -1, false)
}

func (solver *ContactSolver) SolveTOIPositionConstraints(toiBodyA, toiBodyB int) bool {
	return solver.solvePositions(solver.Step.ToiResolutionRate, toiBodyA, toiBodyB, true)
}
