package planar

import (
	"math"
)

/// Revolute joint definition: the shared pivot given as a local anchor
/// on each body, plus the rest angle the limits measure from. Anchors
/// are body-origin relative (not center-of-mass relative) so recomputing
/// mass or editing shapes never breaks the joint.
type RevoluteJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// bodyB angle minus bodyA angle at rest, in radians.
	ReferenceAngle float64

	/// Whether the angle limit is on.
	EnableLimit bool

	/// Limit lower angle, radians.
	LowerAngle float64

	/// Limit upper angle, radians.
	UpperAngle float64

	/// Whether the motor is on.
	EnableMotor bool

	/// Target motor speed, radians per second.
	MotorSpeed float64

	/// Torque budget for reaching the motor speed, N-m.
	MaxMotorTorque float64
}

func MakeRevoluteJointDef() RevoluteJointDef {
	return RevoluteJointDef{
		JointDef: JointDef{Type: RevoluteJointType},
		LocalAnchorA: Vec2{0.0, 0.0},
		LocalAnchorB: Vec2{0.0, 0.0},
	}
}

/// A revolute joint constrains two bodies to share a common point while they
/// are free to rotate about the point. The relative rotation about the shared
/// point is the joint angle. You can limit the relative rotation with
/// a joint limit that specifies a lower and upper angle. You can use a motor
/// to drive the relative rotation about the shared point. A maximum motor torque
/// is provided so that infinite forces are not generated.
type RevoluteJoint struct {
	*Joint

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	Impulse      Vec3
	MotorImpulse float64

	MotorEnabled    bool
	MaxMotorTorque float64
	MotorSpeed     float64

	LimitEnabled    bool
	ReferenceAngle float64
	LowerAngle     float64
	UpperAngle     float64

	// Rebuilt each solve.
	jointSolverCache
	RA           Vec2
	RB           Vec2
	Mass         Mat33 // effective mass for point-to-point constraint.
	MotorMass    float64 // effective mass for motor/limit angular constraint.
	LimitState   limitState
}

/// Anchor point in bodyA's local frame.
func (j RevoluteJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j RevoluteJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

/// Get the reference angle.
func (j RevoluteJoint) GetReferenceAngle() float64 {
	return j.ReferenceAngle
}

func (j RevoluteJoint) GetMaxMotorTorque() float64 {
	return j.MaxMotorTorque
}

func (j RevoluteJoint) GetMotorSpeed() float64 {
	return j.MotorSpeed
}

// Point-to-point constraint
// C = p2 - p1
// Cdot = v2 - v1
//      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I -r1_skew I r2_skew ]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

// Motor constraint
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
// K = invI1 + invI2

func (def *RevoluteJointDef) Initialize(bA *Body, bB *Body, anchor Vec2) {
	def.BodyA = bA
	def.BodyB = bB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = def.BodyB.GetAngle() - def.BodyA.GetAngle()
}

func MakeRevoluteJoint(def *RevoluteJointDef) *RevoluteJoint {
	res := RevoluteJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB
	res.ReferenceAngle = def.ReferenceAngle

	res.Impulse.SetZero()
	res.MotorImpulse = 0.0

	res.LowerAngle = def.LowerAngle
	res.UpperAngle = def.UpperAngle
	res.MaxMotorTorque = def.MaxMotorTorque
	res.MotorSpeed = def.MotorSpeed
	res.LimitEnabled = def.EnableLimit
	res.MotorEnabled = def.EnableMotor
	res.LimitState = inactiveLimit

	return &res
}

func (j *RevoluteJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	_, aA, vA, wA := data.state(j.IndexA)

	_, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

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

	fixedRotation := (iA+iB == 0.0)

	j.Mass.Ex.X = mA + mB + j.RA.Y*j.RA.Y*iA + j.RB.Y*j.RB.Y*iB
	j.Mass.Ey.X = -j.RA.Y*j.RA.X*iA - j.RB.Y*j.RB.X*iB
	j.Mass.Ez.X = -j.RA.Y*iA - j.RB.Y*iB
	j.Mass.Ex.Y = j.Mass.Ey.X
	j.Mass.Ey.Y = mA + mB + j.RA.X*j.RA.X*iA + j.RB.X*j.RB.X*iB
	j.Mass.Ez.Y = j.RA.X*iA + j.RB.X*iB
	j.Mass.Ex.Z = j.Mass.Ez.X
	j.Mass.Ey.Z = j.Mass.Ez.Y
	j.Mass.Ez.Z = iA + iB

	j.MotorMass = iA + iB
	if j.MotorMass > 0.0 {
		j.MotorMass = 1.0 / j.MotorMass
	}

	if j.MotorEnabled == false || fixedRotation {
		j.MotorImpulse = 0.0
	}

	if j.LimitEnabled && fixedRotation == false {
		jointAngle := aB - aA - j.ReferenceAngle
		if math.Abs(j.UpperAngle-j.LowerAngle) < 2.0*data.Step.AngularSlop {
			j.LimitState = equalLimits
		} else if jointAngle <= j.LowerAngle {
			if j.LimitState != atLowerLimit {
				j.Impulse.Z = 0.0
			}
			j.LimitState = atLowerLimit
		} else if jointAngle >= j.UpperAngle {
			if j.LimitState != atUpperLimit {
				j.Impulse.Z = 0.0
			}
			j.LimitState = atUpperLimit
		} else {
			j.LimitState = inactiveLimit
			j.Impulse.Z = 0.0
		}
	} else {
		j.LimitState = inactiveLimit
	}

	if data.Step.DoWarmStart {
		// Scale impulses to support a variable time step.
		j.Impulse = j.Impulse.Scale(data.Step.DtRatio)
		j.MotorImpulse *= data.Step.DtRatio

		P := MakeVec2(j.Impulse.X, j.Impulse.Y)

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * (j.RA.Cross(P) + j.MotorImpulse + j.Impulse.Z)

		vB = vB.Add(P.Scale(mB))
		wB += iB * (j.RB.Cross(P) + j.MotorImpulse + j.Impulse.Z)
	} else {
		j.Impulse.SetZero()
		j.MotorImpulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *RevoluteJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	fixedRotation := (iA+iB == 0.0)

	// Solve motor constraint.
	if j.MotorEnabled && j.LimitState != equalLimits && fixedRotation == false {
		Cdot := wB - wA - j.MotorSpeed
		impulse := -j.MotorMass * Cdot
		oldImpulse := j.MotorImpulse
		maxImpulse := data.Step.Dt * j.MaxMotorTorque
		j.MotorImpulse = Clamp(j.MotorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.MotorImpulse - oldImpulse

		wA -= iA * impulse
		wB += iB * impulse
	}

	// Solve limit constraint.
	if j.LimitEnabled && j.LimitState != inactiveLimit && fixedRotation == false {
		Cdot1 := ((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))
		Cdot2 := wB - wA
		Cdot := MakeVec3(Cdot1.X, Cdot1.Y, Cdot2)

		impulse := j.Mass.Solve33(Cdot).Neg()

		if j.LimitState == equalLimits {
			j.Impulse = j.Impulse.Add(impulse)
		} else if j.LimitState == atLowerLimit {
			newImpulse := j.Impulse.Z + impulse.Z
			if newImpulse < 0.0 {
				rhs := Cdot1.Neg().Add((MakeVec2(j.Mass.Ez.X, j.Mass.Ez.Y)).Scale(j.Impulse.Z))
				reduced := j.Mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.Impulse.Z
				j.Impulse.X += reduced.X
				j.Impulse.Y += reduced.Y
				j.Impulse.Z = 0.0
			} else {
				j.Impulse = j.Impulse.Add(impulse)
			}
		} else if j.LimitState == atUpperLimit {
			newImpulse := j.Impulse.Z + impulse.Z
			if newImpulse > 0.0 {
				rhs := Cdot1.Neg().Add((MakeVec2(j.Mass.Ez.X, j.Mass.Ez.Y)).Scale(j.Impulse.Z))
				reduced := j.Mass.Solve22(rhs)
				impulse.X = reduced.X
				impulse.Y = reduced.Y
				impulse.Z = -j.Impulse.Z
				j.Impulse.X += reduced.X
				j.Impulse.Y += reduced.Y
				j.Impulse.Z = 0.0
			} else {
				j.Impulse = j.Impulse.Add(impulse)
			}
		}

		P := MakeVec2(impulse.X, impulse.Y)

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * (j.RA.Cross(P) + impulse.Z)

		vB = vB.Add(P.Scale(mB))
		wB += iB * (j.RB.Cross(P) + impulse.Z)
	} else {
		// Solve point-to-point constraint
		Cdot := ((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))
		impulse := j.Mass.Solve22(Cdot.Neg())

		j.Impulse.X += impulse.X
		j.Impulse.Y += impulse.Y

		vA = vA.Sub(impulse.Scale(mA))
		wA -= iA * j.RA.Cross(impulse)

		vB = vB.Add(impulse.Scale(mB))
		wB += iB * j.RB.Cross(impulse)
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *RevoluteJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	angularError := 0.0
	positionError := 0.0

	fixedRotation := (j.InvIA+j.InvIB == 0.0)

	// Solve angular limit constraint.
	if j.LimitEnabled && j.LimitState != inactiveLimit && fixedRotation == false {
		angle := aB - aA - j.ReferenceAngle
		limitImpulse := 0.0

		if j.LimitState == equalLimits {
			// Prevent large angular corrections
			C := Clamp(angle-j.LowerAngle, -data.Step.MaxAngularCorrection, data.Step.MaxAngularCorrection)
			limitImpulse = -j.MotorMass * C
			angularError = math.Abs(C)
		} else if j.LimitState == atLowerLimit {
			C := angle - j.LowerAngle
			angularError = -C

			// Prevent large angular corrections and allow some slop.
			C = Clamp(C+data.Step.AngularSlop, -data.Step.MaxAngularCorrection, 0.0)
			limitImpulse = -j.MotorMass * C
		} else if j.LimitState == atUpperLimit {
			C := angle - j.UpperAngle
			angularError = C

			// Prevent large angular corrections and allow some slop.
			C = Clamp(C-data.Step.AngularSlop, 0.0, data.Step.MaxAngularCorrection)
			limitImpulse = -j.MotorMass * C
		}

		aA -= j.InvIA * limitImpulse
		aB += j.InvIB * limitImpulse
	}

	// Solve point-to-point constraint.
	{
		qA.Set(aA)
		qB.Set(aB)
		rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
		rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

		C := (cB.Add(rB).Sub(cA)).Sub(rA)
		positionError = C.Length()

		mA := j.InvMassA
		mB := j.InvMassB
		iA := j.InvIA
		iB := j.InvIB

		var K Mat22
		K.Ex.X = mA + mB + iA*rA.Y*rA.Y + iB*rB.Y*rB.Y
		K.Ex.Y = -iA*rA.X*rA.Y - iB*rB.X*rB.Y
		K.Ey.X = K.Ex.Y
		K.Ey.Y = mA + mB + iA*rA.X*rA.X + iB*rB.X*rB.X

		impulse := K.Solve(C).Neg()

		cA = cA.Sub(impulse.Scale(mA))
		aA -= iA * rA.Cross(impulse)

		cB = cB.Add(impulse.Scale(mB))
		aB += iB * rB.Cross(impulse)
	}

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return positionError <= data.Step.LinearSlop && angularError <= data.Step.AngularSlop
}

func (j RevoluteJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j RevoluteJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j RevoluteJoint) GetReactionForce(inv_dt float64) Vec2 {
	P := MakeVec2(j.Impulse.X, j.Impulse.Y)
	return P.Scale(inv_dt)
}

func (j RevoluteJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.Impulse.Z
}

func (j RevoluteJoint) GetJointAngle() float64 {
	bA := j.BodyA
	bB := j.BodyB
	return bB.Sweep.A - bA.Sweep.A - j.ReferenceAngle
}

func (j *RevoluteJoint) GetJointSpeed() float64 {
	bA := j.BodyA
	bB := j.BodyB
	return bB.AngularVelocity - bA.AngularVelocity
}

func (j RevoluteJoint) IsMotorEnabled() bool {
	return j.MotorEnabled
}

func (j *RevoluteJoint) EnableMotor(flag bool) {
	if flag != j.MotorEnabled {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorEnabled = flag
	}
}

func (j RevoluteJoint) GetMotorTorque(inv_dt float64) float64 {
	return inv_dt * j.MotorImpulse
}

func (j *RevoluteJoint) SetMotorSpeed(speed float64) {
	if speed != j.MotorSpeed {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorSpeed = speed
	}
}

func (j *RevoluteJoint) SetMaxMotorTorque(torque float64) {
	if torque != j.MaxMotorTorque {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MaxMotorTorque = torque
	}
}

func (j RevoluteJoint) IsLimitEnabled() bool {
	return j.LimitEnabled
}

func (j *RevoluteJoint) EnableLimit(flag bool) {
	if flag != j.LimitEnabled {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.LimitEnabled = flag
		j.Impulse.Z = 0.0
	}
}

func (j RevoluteJoint) GetLowerLimit() float64 {
	return j.LowerAngle
}

func (j RevoluteJoint) GetUpperLimit() float64 {
	return j.UpperAngle
}

func (j *RevoluteJoint) SetLimits(lower float64, upper float64) {
	Assert(lower <= upper)

	if lower != j.LowerAngle || upper != j.UpperAngle {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.Impulse.Z = 0.0
		j.LowerAngle = lower
		j.UpperAngle = upper
	}
}

