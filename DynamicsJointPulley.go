package planar

import (
	"math"
)

const minPulleyLength = 2.0

/// Pulley joint definition: a ground anchor and body anchor per side,
/// plus the rope ratio between the sides.
type PulleyJointDef struct {
	JointDef

	/// The first ground anchor in world coordinates. This point never moves.
	GroundAnchorA Vec2

	/// The second ground anchor in world coordinates. This point never moves.
	GroundAnchorB Vec2

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// The a reference length for the segment attached to bodyA.
	LengthA float64

	/// The a reference length for the segment attached to bodyB.
	LengthB float64

	/// The pulley ratio, used to simulate a block-and-tackle.
	Ratio float64
}

func MakePulleyJointDef() PulleyJointDef {
	return PulleyJointDef{
		JointDef: JointDef{Type: PulleyJointType, CollideConnected: true},
		GroundAnchorA: Vec2{-1.0, 1.0},
		GroundAnchorB: Vec2{1.0, 1.0},
		LocalAnchorA: Vec2{-1.0, 0.0},
		LocalAnchorB: Vec2{1.0, 0.0},
		Ratio: 1.0,
	}
}

/// The pulley joint is connected to two bodies and two fixed ground points.
/// The pulley supports a ratio such that:
/// length1 + ratio * length2 = constant
/// Yes, the force transmitted is scaled by the ratio.
/// Warning: the pulley joint can get a bit squirrelly by itself. They often
/// work better when combined with prismatic joints. You should also cover the
/// the anchor points with static shapes to prevent one side from going to
/// zero length.
type PulleyJoint struct {
	*Joint

	GroundAnchorA Vec2
	GroundAnchorB Vec2
	LengthA       float64
	LengthB       float64

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	Constant     float64
	Ratio        float64
	Impulse      float64

	// Rebuilt each solve.
	jointSolverCache
	UA           Vec2
	UB           Vec2
	RA           Vec2
	RB           Vec2
	Mass         float64
}

// Pulley:
// length1 = norm(p1 - s1)
// length2 = norm(p2 - s2)
// C0 = (length1 + ratio * length2)_initial
// C = C0 - (length1 + ratio * length2)
// u1 = (p1 - s1) / norm(p1 - s1)
// u2 = (p2 - s2) / norm(p2 - s2)
// Cdot = -dot(u1, v1 + cross(w1, r1)) - ratio * dot(u2, v2 + cross(w2, r2))
// J = -[u1 cross(r1, u1) ratio * u2  ratio * cross(r2, u2)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u1)^2 + ratio^2 * (invMass2 + invI2 * cross(r2, u2)^2)

func (def *PulleyJointDef) Initialize(bA *Body, bB *Body, groundA Vec2, groundB Vec2, anchorA Vec2, anchorB Vec2, r float64) {
	def.BodyA = bA
	def.BodyB = bB
	def.GroundAnchorA = groundA
	def.GroundAnchorB = groundB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchorA)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchorB)
	dA := anchorA.Sub(groundA)
	def.LengthA = dA.Length()
	dB := anchorB.Sub(groundB)
	def.LengthB = dB.Length()
	def.Ratio = r
	Assert(def.Ratio > Epsilon)
}

func MakePulleyJoint(def *PulleyJointDef) *PulleyJoint {
	res := PulleyJoint{
		Joint: MakeJoint(def),
	}

	res.GroundAnchorA = def.GroundAnchorA
	res.GroundAnchorB = def.GroundAnchorB
	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB

	res.LengthA = def.LengthA
	res.LengthB = def.LengthB

	Assert(def.Ratio != 0.0)
	res.Ratio = def.Ratio

	res.Constant = def.LengthA + res.Ratio*def.LengthB

	res.Impulse = 0.0

	return &res
}

func (j *PulleyJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	j.RA = qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	j.RB = qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

	// Get the pulley axes.
	j.UA = cA.Add(j.RA).Sub(j.GroundAnchorA)
	j.UB = cB.Add(j.RB).Sub(j.GroundAnchorB)

	lengthA := j.UA.Length()
	lengthB := j.UB.Length()

	if lengthA > 10.0*data.Step.LinearSlop {
		j.UA = j.UA.Scale(1.0 / lengthA)
	} else {
		j.UA.SetZero()
	}

	if lengthB > 10.0*data.Step.LinearSlop {
		j.UB = j.UB.Scale(1.0 / lengthB)
	} else {
		j.UB.SetZero()
	}

	// Compute effective mass.
	ruA := j.RA.Cross(j.UA)
	ruB := j.RB.Cross(j.UB)

	mA := j.InvMassA + j.InvIA*ruA*ruA
	mB := j.InvMassB + j.InvIB*ruB*ruB

	j.Mass = mA + j.Ratio*j.Ratio*mB

	if j.Mass > 0.0 {
		j.Mass = 1.0 / j.Mass
	}

	if data.Step.DoWarmStart {
		// Scale impulses to support variable time steps.
		j.Impulse *= data.Step.DtRatio

		// Warm starting.
		PA := j.UA.Scale(-(j.Impulse))
		PB := j.UB.Scale(-j.Ratio*j.Impulse)

		vA = vA.Add(PA.Scale(j.InvMassA))
		wA += j.InvIA * j.RA.Cross(PA)
		vB = vB.Add(PB.Scale(j.InvMassB))
		wB += j.InvIB * j.RB.Cross(PB)
	} else {
		j.Impulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *PulleyJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	vpA := vA.Add(CrossSV(wA, j.RA))
	vpB := vB.Add(CrossSV(wB, j.RB))

	Cdot := -j.UA.Dot(vpA) - j.Ratio*j.UB.Dot(vpB)
	impulse := -j.Mass * Cdot
	j.Impulse += impulse

	PA := j.UA.Scale(-impulse)
	PB := j.UB.Scale(-j.Ratio*impulse)
	vA = vA.Add(PA.Scale(j.InvMassA))
	wA += j.InvIA * j.RA.Cross(PA)
	vB = vB.Add(PB.Scale(j.InvMassB))
	wB += j.InvIB * j.RB.Cross(PB)

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *PulleyJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

	// Get the pulley axes.
	uA := cA.Add(rA).Sub(j.GroundAnchorA)
	uB := cB.Add(rB).Sub(j.GroundAnchorB)

	lengthA := uA.Length()
	lengthB := uB.Length()

	if lengthA > 10.0*data.Step.LinearSlop {
		uA = uA.Scale(1.0 / lengthA)
	} else {
		uA.SetZero()
	}

	if lengthB > 10.0*data.Step.LinearSlop {
		uB = uB.Scale(1.0 / lengthB)
	} else {
		uB.SetZero()
	}

	// Compute effective mass.
	ruA := rA.Cross(uA)
	ruB := rB.Cross(uB)

	mA := j.InvMassA + j.InvIA*ruA*ruA
	mB := j.InvMassB + j.InvIB*ruB*ruB

	mass := mA + j.Ratio*j.Ratio*mB

	if mass > 0.0 {
		mass = 1.0 / mass
	}

	C := j.Constant - lengthA - j.Ratio*lengthB
	linearError := math.Abs(C)

	impulse := -mass * C

	PA := uA.Scale(-impulse)
	PB := uB.Scale(-j.Ratio*impulse)

	cA = cA.Add(PA.Scale(j.InvMassA))
	aA += j.InvIA * rA.Cross(PA)
	cB = cB.Add(PB.Scale(j.InvMassB))
	aB += j.InvIB * rB.Cross(PB)

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return linearError < data.Step.LinearSlop
}

func (j PulleyJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j PulleyJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j PulleyJoint) GetReactionForce(inv_dt float64) Vec2 {
	P := j.UB.Scale(j.Impulse)
	return P.Scale(inv_dt)
}

func (j PulleyJoint) GetReactionTorque(inv_dt float64) float64 {
	return 0.0
}

func (j PulleyJoint) GetGroundAnchorA() Vec2 {
	return j.GroundAnchorA
}

func (j PulleyJoint) GetGroundAnchorB() Vec2 {
	return j.GroundAnchorB
}

func (j PulleyJoint) GetLengthA() float64 {
	return j.LengthA
}

func (j PulleyJoint) GetLengthB() float64 {
	return j.LengthB
}

func (j PulleyJoint) GetRatio() float64 {
	return j.Ratio
}

func (j PulleyJoint) GetCurrentLengthA() float64 {
	p := j.BodyA.GetWorldPoint(j.LocalAnchorA)
	s := j.GroundAnchorA
	d := p.Sub(s)
	return d.Length()
}

func (j PulleyJoint) GetCurrentLengthB() float64 {
	p := j.BodyB.GetWorldPoint(j.LocalAnchorB)
	s := j.GroundAnchorB
	d := p.Sub(s)
	return d.Length()
}

func (j *PulleyJoint) ShiftOrigin(newOrigin Vec2) {
	j.GroundAnchorA = j.GroundAnchorA.Sub(newOrigin)
	j.GroundAnchorB = j.GroundAnchorB.Sub(newOrigin)
}
