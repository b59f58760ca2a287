package planar

import (
	"math"
)

/// Wheel joint definition: a suspension line given by local anchors and
/// a local axis, with spring and motor tuning. Translation reads zero
/// where the anchors coincide in world space.
type WheelJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// Motion axis in bodyA's local frame.
	LocalAxisA Vec2

	/// Whether the motor is on.
	EnableMotor bool

	/// Motor torque cap, N-m.
	MaxMotorTorque float64

	/// Target motor speed, radians per second.
	MotorSpeed float64

	/// Suspension frequency in Hertz; zero disables the spring.
	FrequencyHz float64

	/// Suspension damping ratio; one is critical damping.
	DampingRatio float64
}

func MakeWheelJointDef() WheelJointDef {
	return WheelJointDef{
		JointDef: JointDef{Type: WheelJointType},
		LocalAxisA: Vec2{1.0, 0.0},
		FrequencyHz: 2.0,
		DampingRatio: 0.7,
	}
}

/// A wheel joint. This joint provides two degrees of freedom: translation
/// along an axis fixed in bodyA and rotation in the plane. In other words, it is a point to
/// line constraint with a rotational motor and a linear spring/damper.
/// This joint is designed for vehicle suspensions.
type WheelJoint struct {
	*Joint

	FrequencyHz  float64
	DampingRatio float64

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	LocalXAxisA  Vec2
	LocalYAxisA  Vec2

	Impulse       float64
	MotorImpulse  float64
	SpringImpulse float64

	MaxMotorTorque float64
	MotorSpeed     float64
	MotorEnabled    bool

	// Rebuilt each solve.
	jointSolverCache

	Ax  Vec2
	Ay  Vec2
	SAx float64
	SBx float64
	SAy float64
	SBy float64

	Mass       float64
	MotorMass  float64
	SpringMass float64

	Bias  float64
	Gamma float64
}

/// Anchor point in bodyA's local frame.
func (j WheelJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j WheelJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

/// The local joint axis relative to bodyA.
func (j WheelJoint) GetLocalAxisA() Vec2 {
	return j.LocalXAxisA
}

func (j WheelJoint) GetMotorSpeed() float64 {
	return j.MotorSpeed
}

func (j WheelJoint) GetMaxMotorTorque() float64 {
	return j.MaxMotorTorque
}

func (j *WheelJoint) SetSpringFrequencyHz(hz float64) {
	j.FrequencyHz = hz
}

func (j WheelJoint) GetSpringFrequencyHz() float64 {
	return j.FrequencyHz
}

func (j *WheelJoint) SetSpringDampingRatio(ratio float64) {
	j.DampingRatio = ratio
}

func (j WheelJoint) GetSpringDampingRatio() float64 {
	return j.DampingRatio
}

// Linear constraint (point-to-line)
// d = pB - pA = xB + rB - xA - rA
// C = dot(ay, d)
// Cdot = dot(d, cross(wA, ay)) + dot(ay, vB + cross(wB, rB) - vA - cross(wA, rA))
//      = -dot(ay, vA) - dot(cross(d + rA, ay), wA) + dot(ay, vB) + dot(cross(rB, ay), vB)
// J = [-ay, -cross(d + rA, ay), ay, cross(rB, ay)]

// Spring linear constraint
// C = dot(ax, d)
// Cdot = = -dot(ax, vA) - dot(cross(d + rA, ax), wA) + dot(ax, vB) + dot(cross(rB, ax), vB)
// J = [-ax -cross(d+rA, ax) ax cross(rB, ax)]

// Motor rotational constraint
// Cdot = wB - wA
// J = [0 0 -1 0 0 1]

func (def *WheelJointDef) Initialize(bA *Body, bB *Body, anchor Vec2, axis Vec2) {
	def.BodyA = bA
	def.BodyB = bB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.LocalAxisA = def.BodyA.GetLocalVector(axis)
}

func MakeWheelJoint(def *WheelJointDef) *WheelJoint {
	res := WheelJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB
	res.LocalXAxisA = def.LocalAxisA
	res.LocalYAxisA = CrossSV(1.0, res.LocalXAxisA)

	res.Mass = 0.0
	res.Impulse = 0.0
	res.MotorMass = 0.0
	res.MotorImpulse = 0.0
	res.SpringMass = 0.0
	res.SpringImpulse = 0.0

	res.MaxMotorTorque = def.MaxMotorTorque
	res.MotorSpeed = def.MotorSpeed
	res.MotorEnabled = def.EnableMotor

	res.FrequencyHz = def.FrequencyHz
	res.DampingRatio = def.DampingRatio

	res.Bias = 0.0
	res.Gamma = 0.0

	res.Ax.SetZero()
	res.Ay.SetZero()

	return &res
}

func (j *WheelJoint) InitVelocityConstraints(data SolverData) {

	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	// Compute the effective masses.
	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	d := (cB.Add(rB).Sub(cA)).Sub(rA)

	// Point to line constraint
	{
		j.Ay = qA.Rotate(j.LocalYAxisA)
		j.SAy = d.Add(rA).Cross(j.Ay)
		j.SBy = rB.Cross(j.Ay)

		j.Mass = mA + mB + iA*j.SAy*j.SAy + iB*j.SBy*j.SBy

		if j.Mass > 0.0 {
			j.Mass = 1.0 / j.Mass
		}
	}

	// Spring constraint
	j.SpringMass = 0.0
	j.Bias = 0.0
	j.Gamma = 0.0
	if j.FrequencyHz > 0.0 {
		j.Ax = qA.Rotate(j.LocalXAxisA)
		j.SAx = d.Add(rA).Cross(j.Ax)
		j.SBx = rB.Cross(j.Ax)

		invMass := mA + mB + iA*j.SAx*j.SAx + iB*j.SBx*j.SBx

		if invMass > 0.0 {
			j.SpringMass = 1.0 / invMass

			C := d.Dot(j.Ax)

			// Frequency
			omega := 2.0 * Pi * j.FrequencyHz

			// Damping coefficient
			damp := 2.0 * j.SpringMass * j.DampingRatio * omega

			// Spring stiffness
			k := j.SpringMass * omega * omega

			// magic formulas
			h := data.Step.Dt
			j.Gamma = h * (damp + h*k)
			if j.Gamma > 0.0 {
				j.Gamma = 1.0 / j.Gamma
			}

			j.Bias = C * h * k * j.Gamma

			j.SpringMass = invMass + j.Gamma
			if j.SpringMass > 0.0 {
				j.SpringMass = 1.0 / j.SpringMass
			}
		}
	} else {
		j.SpringImpulse = 0.0
	}

	// Rotational motor
	if j.MotorEnabled {
		j.MotorMass = iA + iB
		if j.MotorMass > 0.0 {
			j.MotorMass = 1.0 / j.MotorMass
		}
	} else {
		j.MotorMass = 0.0
		j.MotorImpulse = 0.0
	}

	if data.Step.DoWarmStart {
		// Account for variable time step.
		j.Impulse *= data.Step.DtRatio
		j.SpringImpulse *= data.Step.DtRatio
		j.MotorImpulse *= data.Step.DtRatio

		P := (j.Ay.Scale(j.Impulse)).Add(j.Ax.Scale(j.SpringImpulse))
		LA := j.Impulse*j.SAy + j.SpringImpulse*j.SAx + j.MotorImpulse
		LB := j.Impulse*j.SBy + j.SpringImpulse*j.SBx + j.MotorImpulse

		vA = vA.Sub(P.Scale(j.InvMassA))
		wA -= j.InvIA * LA

		vB = vB.Add(P.Scale(j.InvMassB))
		wB += j.InvIB * LB
	} else {
		j.Impulse = 0.0
		j.SpringImpulse = 0.0
		j.MotorImpulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *WheelJoint) SolveVelocityConstraints(data SolverData) {
	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	// Solve spring constraint
	{
		Cdot := j.Ax.Dot(vB.Sub(vA)) + j.SBx*wB - j.SAx*wA
		impulse := -j.SpringMass * (Cdot + j.Bias + j.Gamma*j.SpringImpulse)
		j.SpringImpulse += impulse

		P := j.Ax.Scale(impulse)
		LA := impulse * j.SAx
		LB := impulse * j.SBx

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	}

	// Solve rotational motor constraint
	{
		Cdot := wB - wA - j.MotorSpeed
		impulse := -j.MotorMass * Cdot

		oldImpulse := j.MotorImpulse
		maxImpulse := data.Step.Dt * j.MaxMotorTorque
		j.MotorImpulse = Clamp(j.MotorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.MotorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve point to line constraint
	{
		Cdot := j.Ay.Dot(vB.Sub(vA)) + j.SBy*wB - j.SAy*wA
		impulse := -j.Mass * Cdot
		j.Impulse += impulse

		P := j.Ay.Scale(impulse)
		LA := impulse * j.SAy
		LB := impulse * j.SBy

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *WheelJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	d := ((cB.Sub(cA)).Add(rB)).Sub(rA)

	ay := qA.Rotate(j.LocalYAxisA)

	sAy := d.Add(rA).Cross(ay)
	sBy := rB.Cross(ay)

	C := d.Dot(ay)

	k := j.InvMassA + j.InvMassB + j.InvIA*j.SAy*j.SAy + j.InvIB*j.SBy*j.SBy

	impulse := 0.0
	if k != 0.0 {
		impulse = -C / k
	} else {
		impulse = 0.0
	}

	P := ay.Scale(impulse)
	LA := impulse * sAy
	LB := impulse * sBy

	cA = cA.Sub(P.Scale(j.InvMassA))
	aA -= j.InvIA * LA
	cB = cB.Add(P.Scale(j.InvMassB))
	aB += j.InvIB * LB

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return math.Abs(C) <= data.Step.LinearSlop
}

func (j WheelJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j WheelJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j WheelJoint) GetReactionForce(inv_dt float64) Vec2 {
	return ((j.Ay.Scale(j.Impulse)).Add(j.Ax.Scale(j.SpringImpulse))).Scale(inv_dt)
}

func (j WheelJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.MotorImpulse
}

func (j WheelJoint) GetJointTranslation() float64 {
	bA := j.BodyA
	bB := j.BodyB

	pA := bA.GetWorldPoint(j.LocalAnchorA)
	pB := bB.GetWorldPoint(j.LocalAnchorB)
	d := pB.Sub(pA)
	axis := bA.GetWorldVector(j.LocalXAxisA)

	translation := d.Dot(axis)
	return translation
}

func (j WheelJoint) GetJointLinearSpeed() float64 {
	bA := j.BodyA
	bB := j.BodyB

	rA := bA.Xf.Q.Rotate(j.LocalAnchorA.Sub(bA.Sweep.LocalCenter))
	rB := bB.Xf.Q.Rotate(j.LocalAnchorB.Sub(bB.Sweep.LocalCenter))
	p1 := bA.Sweep.C.Add(rA)
	p2 := bB.Sweep.C.Add(rB)
	d := p2.Sub(p1)
	axis := bA.Xf.Q.Rotate(j.LocalXAxisA)

	vA := bA.LinearVelocity
	vB := bB.LinearVelocity
	wA := bA.AngularVelocity
	wB := bB.AngularVelocity

	speed := d.Dot(CrossSV(wA, axis)) + axis.Dot(((vB.Add(CrossSV(wB, rB))).Sub(vA)).Sub(CrossSV(wA, rA)))
	return speed
}

func (j WheelJoint) GetJointAngle() float64 {
	bA := j.BodyA
	bB := j.BodyB
	return bB.Sweep.A - bA.Sweep.A
}

func (j WheelJoint) GetJointAngularSpeed() float64 {
	wA := j.BodyA.AngularVelocity
	wB := j.BodyB.AngularVelocity
	return wB - wA
}

func (j WheelJoint) IsMotorEnabled() bool {
	return j.MotorEnabled
}

func (j *WheelJoint) EnableMotor(flag bool) {
	if flag != j.MotorEnabled {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorEnabled = flag
	}
}

func (j *WheelJoint) SetMotorSpeed(speed float64) {
	if speed != j.MotorSpeed {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorSpeed = speed
	}
}

func (j *WheelJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.MaxMotorTorque {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MaxMotorTorque = torque
	}
}

func (j WheelJoint) GetMotorTorque(inv_dt float64) float64 {
	return inv_dt * j.MotorImpulse
}

