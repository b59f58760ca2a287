package planar

import (
	"math"
)

/// Rope joint definition: one anchor per body and the rope's maximum
/// length.
/// Note: by default the connected objects will not collide.
/// see CollideConnected in JointDef.
type RopeJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// Rope length cap; must exceed the linear slop to have any effect.
	MaxLength float64
}

func MakeRopeJointDef() RopeJointDef {
	return RopeJointDef{
		JointDef: JointDef{Type: RopeJointType},
		LocalAnchorA: Vec2{-1.0, 0.0},
		LocalAnchorB: Vec2{1.0, 0.0},
	}
}

/// Caps the distance between two anchors, and does nothing else.
/// Warning: if you attempt to change the maximum length during
/// the simulation you will get some non-physical behavior.
/// A model that would allow you to dynamically modify the length
/// would have some sponginess, so I chose not to implement it
/// that way. See DistanceJoint if you want to dynamically
/// control length.
type RopeJoint struct {
	*Joint

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	MaxLength    float64
	Length       float64
	Impulse      float64

	// Rebuilt each solve.
	jointSolverCache
	U            Vec2
	RA           Vec2
	RB           Vec2
	Mass         float64
	State        limitState
}

/// Anchor point in bodyA's local frame.
func (j RopeJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j RopeJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

/// Set/Get the maximum length of the rope.
func (j *RopeJoint) SetMaxLength(length float64) {
	j.MaxLength = length
}

// // Limit:
// // C = norm(pB - pA) - L
// // u = (pB - pA) / norm(pB - pA)
// // Cdot = dot(u, vB + cross(wB, rB) - vA - cross(wA, rA))
// // J = [-u -cross(rA, u) u cross(rB, u)]
// // K = J * invM * JT
// //   = invMassA + invIA * cross(rA, u)^2 + invMassB + invIB * cross(rB, u)^2

func MakeRopeJoint(def *RopeJointDef) *RopeJoint {
	res := RopeJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB

	res.MaxLength = def.MaxLength

	res.Mass = 0.0
	res.Impulse = 0.0
	res.State = inactiveLimit
	res.Length = 0.0

	return &res
}

func (j *RopeJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	j.RA = qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	j.RB = qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	j.U = (cB.Add(j.RB).Sub(cA)).Sub(j.RA)

	j.Length = j.U.Length()

	C := j.Length - j.MaxLength
	if C > 0.0 {
		j.State = atUpperLimit
	} else {
		j.State = inactiveLimit
	}

	if j.Length > data.Step.LinearSlop {
		j.U = j.U.Scale(1.0 / j.Length)
	} else {
		j.U.SetZero()
		j.Mass = 0.0
		j.Impulse = 0.0
		return
	}

	// Compute effective mass.
	crA := j.RA.Cross(j.U)
	crB := j.RB.Cross(j.U)
	invMass := j.InvMassA + j.InvIA*crA*crA + j.InvMassB + j.InvIB*crB*crB

	if invMass != 0.0 {
		j.Mass = 1.0 / invMass
	} else {
		j.Mass = 0.0
	}

	if data.Step.DoWarmStart {
		// Scale the impulse to support a variable time step.
		j.Impulse *= data.Step.DtRatio

		P := j.U.Scale(j.Impulse)
		vA = vA.Sub(P.Scale(j.InvMassA))
		wA -= j.InvIA * j.RA.Cross(P)
		vB = vB.Add(P.Scale(j.InvMassB))
		wB += j.InvIB * j.RB.Cross(P)
	} else {
		j.Impulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *RopeJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, j.RA))
	vpB := vB.Add(CrossSV(wB, j.RB))
	C := j.Length - j.MaxLength
	Cdot := j.U.Dot(vpB.Sub(vpA))

	// Predictive constraint.
	if C < 0.0 {
		Cdot += data.Step.InvDt * C
	}

	impulse := -j.Mass * Cdot
	oldImpulse := j.Impulse
	j.Impulse = math.Min(0.0, j.Impulse+impulse)
	impulse = j.Impulse - oldImpulse

	P := j.U.Scale(impulse)
	vA = vA.Sub(P.Scale(j.InvMassA))
	wA -= j.InvIA * j.RA.Cross(P)
	vB = vB.Add(P.Scale(j.InvMassB))
	wB += j.InvIB * j.RB.Cross(P)

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *RopeJoint) SolvePositionConstraints(data SolverData) bool {

	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	u := (cB.Add(rB).Sub(cA)).Sub(rA)

	length := u.Normalize()
	C := length - j.MaxLength

	C = Clamp(C, 0.0, data.Step.MaxLinearCorrection)

	impulse := -j.Mass * C
	P := u.Scale(impulse)

	cA = cA.Sub(P.Scale(j.InvMassA))
	aA -= j.InvIA * rA.Cross(P)
	cB = cB.Add(P.Scale(j.InvMassB))
	aB += j.InvIB * rB.Cross(P)

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return length-j.MaxLength < data.Step.LinearSlop
}

func (j RopeJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j RopeJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j RopeJoint) GetReactionForce(inv_dt float64) Vec2 {
	F := j.U.Scale((inv_dt * j.Impulse))
	return F
}

func (j RopeJoint) GetReactionTorque(inv_dt float64) float64 {
	return 0.0
}

func (j RopeJoint) GetMaxLength() float64 {
	return j.MaxLength
}

func (j RopeJoint) GetLimitState() limitState {
	return j.State
}

