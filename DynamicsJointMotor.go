package planar

/// Motor joint definition: target offsets plus force/torque budgets.
type MotorJointDef struct {
	JointDef

	/// Target of bodyB relative to bodyA, in bodyA's frame (meters).
	LinearOffset Vec2

	/// Target relative angle, radians.
	AngularOffset float64

	/// The maximum motor force in N.
	MaxForce float64

	/// The maximum motor torque in N-m.
	MaxTorque float64

	/// Position correction factor in the range [0,1].
	CorrectionFactor float64
}

func MakeMotorJointDef() MotorJointDef {
	return MotorJointDef{
		JointDef: JointDef{Type: MotorJointType},
		MaxForce: 1.0,
		MaxTorque: 1.0,
		CorrectionFactor: 0.3,
	}
}

/// Drives the relative pose of two bodies toward a target offset; handy
/// for steering a dynamic body relative to the ground.
type MotorJoint struct {
	*Joint

	// Carried between steps.
	LinearOffset     Vec2
	AngularOffset    float64
	LinearImpulse    Vec2
	AngularImpulse   float64
	MaxForce         float64
	MaxTorque        float64
	CorrectionFactor float64

	// Rebuilt each solve.
	jointSolverCache
	RA           Vec2
	RB           Vec2
	LinearError  Vec2
	AngularError float64
	LinearMass   Mat22
	AngularMass  float64
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

func (def *MotorJointDef) Initialize(bA *Body, bB *Body) {
	def.BodyA = bA
	def.BodyB = bB
	xB := def.BodyB.GetPosition()
	def.LinearOffset = def.BodyA.GetLocalPoint(xB)

	angleA := def.BodyA.GetAngle()
	angleB := def.BodyB.GetAngle()
	def.AngularOffset = angleB - angleA
}

func MakeMotorJoint(def *MotorJointDef) *MotorJoint {

	res := MotorJoint{
		Joint: MakeJoint(def),
	}

	res.LinearOffset = def.LinearOffset
	res.AngularOffset = def.AngularOffset

	res.LinearImpulse.SetZero()
	res.AngularImpulse = 0.0

	res.MaxForce = def.MaxForce
	res.MaxTorque = def.MaxTorque
	res.CorrectionFactor = def.CorrectionFactor

	return &res
}

func (j *MotorJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	// Compute the effective mass matrix.
	j.RA = qA.Rotate(j.LocalCenterA.Neg())
	j.RB = qB.Rotate(j.LocalCenterB.Neg())

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

	j.LinearError = ((cB.Add(j.RB).Sub(cA)).Sub(j.RA)).Sub(qA.Rotate(j.LinearOffset))
	j.AngularError = aB - aA - j.AngularOffset

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

func (j *MotorJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	h := data.Step.Dt
	inv_h := data.Step.InvDt

	// Solve angular friction
	{
		Cdot := wB - wA + inv_h*j.CorrectionFactor*j.AngularError
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
		Cdot := (((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))).Add(j.LinearError.Scale(inv_h*j.CorrectionFactor))

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

func (j *MotorJoint) SolvePositionConstraints(data SolverData) bool {
	return true
}

func (j MotorJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetPosition()
}

func (j MotorJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetPosition()
}

func (j MotorJoint) GetReactionForce(inv_dt float64) Vec2 {
	return j.LinearImpulse.Scale(inv_dt)
}

func (j MotorJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.AngularImpulse
}

func (j *MotorJoint) SetMaxForce(force float64) {
	Assert(IsValid(force) && force >= 0.0)
	j.MaxForce = force
}

func (j MotorJoint) GetMaxForce() float64 {
	return j.MaxForce
}

func (j *MotorJoint) SetMaxTorque(torque float64) {
	Assert(IsValid(torque) && torque >= 0.0)
	j.MaxTorque = torque
}

func (j MotorJoint) GetMaxTorque() float64 {
	return j.MaxTorque
}

func (j *MotorJoint) SetCorrectionFactor(factor float64) {
	Assert(IsValid(factor) && 0.0 <= factor && factor <= 1.0)
	j.CorrectionFactor = factor
}

func (j MotorJoint) GetCorrectionFactor() float64 {
	return j.CorrectionFactor
}

func (j *MotorJoint) SetLinearOffset(linearOffset Vec2) {
	if linearOffset.X != j.LinearOffset.X || linearOffset.Y != j.LinearOffset.Y {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.LinearOffset = linearOffset
	}
}

func (j MotorJoint) GetLinearOffset() Vec2 {
	return j.LinearOffset
}

func (j *MotorJoint) SetAngularOffset(angularOffset float64) {
	if angularOffset != j.AngularOffset {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.AngularOffset = angularOffset
	}
}

func (j MotorJoint) GetAngularOffset() float64 {
	return j.AngularOffset
}

