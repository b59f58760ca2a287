package planar

/// Friction joint definition.
type FrictionJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// Translational friction cap, in N.
	MaxForce float64

	/// Angular friction cap, in N-m.
	MaxTorque float64
}

func MakeFrictionJointDef() FrictionJointDef {
	return FrictionJointDef{
		JointDef: JointDef{Type: FrictionJointType},
	}
}

/// Plane friction for top-down games: resists both relative translation
/// and relative spin between the bodies.
type FrictionJoint struct {
	*Joint

	LocalAnchorA Vec2
	LocalAnchorB Vec2

	// Carried between steps.
	LinearImpulse  Vec2
	AngularImpulse float64
	MaxForce       float64
	MaxTorque      float64

	// Rebuilt each solve.
	jointSolverCache
	RA           Vec2
	RB           Vec2
	LinearMass   Mat22
	AngularMass  float64
}

/// Anchor point in bodyA's local frame.
func (j FrictionJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j FrictionJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

// Point-to-point constraint
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

// Angle constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (j *FrictionJointDef) Initialize(bA *Body, bB *Body, anchor Vec2) {
	j.BodyA = bA
	j.BodyB = bB
	j.LocalAnchorA = j.BodyA.GetLocalPoint(anchor)
	j.LocalAnchorB = j.BodyB.GetLocalPoint(anchor)
}

func MakeFrictionJoint(def *FrictionJointDef) *FrictionJoint {
	res := FrictionJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB

	res.LinearImpulse.SetZero()
	res.AngularImpulse = 0.0

	res.MaxForce = def.MaxForce
	res.MaxTorque = def.MaxTorque

	return &res
}

func (j *FrictionJoint) InitVelocityConstraints(data SolverData) {

	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	_, aA, vA, wA := data.state(j.IndexA)

	_, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	// Compute the effective mass matrix.
	j.RA = qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	j.RB = qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

	// J = [-I -r1_skew I r2_skew]
	//     [ 0       -1 0       1]
	// r_skew = [-ry; rx]

	// Matlab
	// K = [ mA+r1y^2*iA+mB+r2y^2*iB,  -r1y*iA*r1x-r2y*iB*r2x,          -r1y*iA-r2y*iB]
	//     [  -r1y*iA*r1x-r2y*iB*r2x, mA+r1x^2*iA+mB+r2x^2*iB,           r1x*iA+r2x*iB]
	//     [          -r1y*iA-r2y*iB,           r1x*iA+r2x*iB,                   iA+iB]

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	var K Mat22
	K.Ex.X = mA + mB + iA*j.RA.Y*j.RA.Y + iB*j.RB.Y*j.RB.Y
	K.Ex.Y = -iA*j.RA.X*j.RA.Y - iB*j.RB.X*j.RB.Y
	K.Ey.X = K.Ex.Y
	K.Ey.Y = mA + mB + iA*j.RA.X*j.RA.X + iB*j.RB.X*j.RB.X

	j.LinearMass = K.GetInverse()

	j.AngularMass = iA + iB
	if j.AngularMass > 0.0 {
		j.AngularMass = 1.0 / j.AngularMass
	}

	if data.Step.DoWarmStart {
		// Scale impulses to support a variable time step.
		j.LinearImpulse = j.LinearImpulse.Scale(data.Step.DtRatio)
		j.AngularImpulse *= data.Step.DtRatio

		P := MakeVec2(j.LinearImpulse.X, j.LinearImpulse.Y)
		vA = vA.Sub(P.Scale(mA))
		wA -= iA * (j.RA.Cross(P) + j.AngularImpulse)
		vB = vB.Add(P.Scale(mB))
		wB += iB * (j.RB.Cross(P) + j.AngularImpulse)
	} else {
		j.LinearImpulse.SetZero()
		j.AngularImpulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *FrictionJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	h := data.Step.Dt

	// Solve angular friction
	{
		Cdot := wB - wA
		impulse := -j.AngularMass * Cdot

		oldImpulse := j.AngularImpulse
		maxImpulse := h * j.MaxTorque
		j.AngularImpulse = Clamp(j.AngularImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.AngularImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve linear friction
	{
		Cdot := ((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))

		impulse := j.LinearMass.MulVec(Cdot).Neg()
		oldImpulse := j.LinearImpulse
		j.LinearImpulse = j.LinearImpulse.Add(impulse)

		maxImpulse := h * j.MaxForce

		if j.LinearImpulse.LengthSquared() > maxImpulse*maxImpulse {
			j.LinearImpulse.Normalize()
			j.LinearImpulse = j.LinearImpulse.Scale(maxImpulse)
		}

		impulse = j.LinearImpulse.Sub(oldImpulse)

		vA = vA.Sub(impulse.Scale(mA))
		wA -= iA * j.RA.Cross(impulse)

		vB = vB.Add(impulse.Scale(mB))
		wB += iB * j.RB.Cross(impulse)
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *FrictionJoint) SolvePositionConstraints(data SolverData) bool {
	return true
}

func (j FrictionJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j FrictionJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j FrictionJoint) GetReactionForce(inv_dt float64) Vec2 {
	return j.LinearImpulse.Scale(inv_dt)
}

func (j FrictionJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.AngularImpulse
}

func (j *FrictionJoint) SetMaxForce(force float64) {
	Assert(IsValid(force) && force >= 0.0)
	j.MaxForce = force
}

func (j FrictionJoint) GetMaxForce() float64 {
	return j.MaxForce
}

func (j *FrictionJoint) SetMaxTorque(torque float64) {
	Assert(IsValid(torque) && torque >= 0.0)
	j.MaxTorque = torque
}

func (j FrictionJoint) GetMaxTorque() float64 {
	return j.MaxTorque
}

