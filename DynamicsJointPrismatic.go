package planar

import (
	"math"
)

/// Prismatic joint definition: a motion line given by a local anchor on
/// each body and a local axis. Translation reads zero where the anchors
/// coincide in world space; local storage tolerates slightly violated
/// initial configurations.
type PrismaticJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// The local translation unit axis in bodyA.
	LocalAxisA Vec2

	/// The constrained angle between the bodies: bodyB_angle - bodyA_angle.
	ReferenceAngle float64

	/// Whether the translation limit is on.
	EnableLimit bool

	/// The lower translation limit, usually in meters.
	LowerTranslation float64

	/// The upper translation limit, usually in meters.
	UpperTranslation float64

	/// Whether the motor is on.
	EnableMotor bool

	/// Motor force cap, N.
	MaxMotorForce float64

	/// Target motor speed along the axis, meters per second.
	MotorSpeed float64
}

func MakePrismaticJointDef() PrismaticJointDef {
	return PrismaticJointDef{
		JointDef: JointDef{Type: PrismaticJointType},
		LocalAxisA: Vec2{1.0, 0.0},
	}
}

/// One translational degree of freedom along an axis fixed in bodyA,
/// with rotation locked. Supports a travel limit and a drive motor
/// (which doubles as joint friction).
type PrismaticJoint struct {
	*Joint

	// Carried between steps.
	LocalAnchorA     Vec2
	LocalAnchorB     Vec2
	LocalXAxisA      Vec2
	LocalYAxisA      Vec2
	ReferenceAngle   float64
	Impulse          Vec3
	MotorImpulse     float64
	LowerTranslation float64
	UpperTranslation float64
	MaxMotorForce    float64
	MotorSpeed       float64
	LimitEnabled      bool
	MotorEnabled      bool
	LimitState       limitState

	// Rebuilt each solve.
	jointSolverCache
	Axis, Perp Vec2
	S1, S2     float64
	A1, A2     float64
	K            Mat33
	MotorMass    float64
}

/// Anchor point in bodyA's local frame.
func (j PrismaticJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j PrismaticJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

/// The local joint axis relative to bodyA.
func (j PrismaticJoint) GetLocalAxisA() Vec2 {
	return j.LocalXAxisA
}

/// Get the reference angle.
func (j PrismaticJoint) GetReferenceAngle() float64 {
	return j.ReferenceAngle
}

func (j PrismaticJoint) GetMaxMotorForce() float64 {
	return j.MaxMotorForce
}

func (j PrismaticJoint) GetMotorSpeed() float64 {
	return j.MotorSpeed
}

// Linear constraint (point-to-line)
// d = p2 - p1 = x2 + r2 - x1 - r1
// C = dot(perp, d)
// Cdot = dot(d, cross(w1, perp)) + dot(perp, v2 + cross(w2, r2) - v1 - cross(w1, r1))
//      = -dot(perp, v1) - dot(cross(d + r1, perp), w1) + dot(perp, v2) + dot(cross(r2, perp), v2)
// J = [-perp, -cross(d + r1, perp), perp, cross(r2,perp)]
//
// Angular constraint
// C = a2 - a1 + a_initial
// Cdot = w2 - w1
// J = [0 0 -1 0 0 1]
//
// K = J * invM * JT
//
// J = [-a -s1 a s2]
//     [0  -1  0  1]
// a = perp
// s1 = cross(d + r1, a) = cross(p2 - x1, a)
// s2 = cross(r2, a) = cross(p2 - x2, a)

// Motor/Limit linear constraint
// C = dot(ax1, d)
// Cdot = = -dot(ax1, v1) - dot(cross(d + r1, ax1), w1) + dot(ax1, v2) + dot(cross(r2, ax1), v2)
// J = [-ax1 -cross(d+r1,ax1) ax1 cross(r2,ax1)]

// Block Solver
// We develop a block solver that includes the joint limit. This makes the limit stiff (inelastic) even
// when the mass has poor distribution (leading to large torques about the joint anchor points).
//
// The Jacobian has 3 rows:
// J = [-uT -s1 uT s2] // linear
//     [0   -1   0  1] // angular
//     [-vT -a1 vT a2] // limit
//
// u = perp
// v = axis
// s1 = cross(d + r1, u), s2 = cross(r2, u)
// a1 = cross(d + r1, v), a2 = cross(r2, v)

// M * (v2 - v1) = JT * df
// J * v2 = bias
//
// v2 = v1 + invM * JT * df
// J * (v1 + invM * JT * df) = bias
// K * df = bias - J * v1 = -Cdot
// K = J * invM * JT
// Cdot = J * v1 - bias
//
// Now solve for f2.
// df = f2 - f1
// K * (f2 - f1) = -Cdot
// f2 = invK * (-Cdot) + f1
//
// Clamp accumulated limit impulse.
// lower: f2(3) = max(f2(3), 0)
// upper: f2(3) = min(f2(3), 0)
//
// Solve for correct f2(1:2)
// K(1:2, 1:2) * f2(1:2) = -Cdot(1:2) - K(1:2,3) * f2(3) + K(1:2,1:3) * f1
//                       = -Cdot(1:2) - K(1:2,3) * f2(3) + K(1:2,1:2) * f1(1:2) + K(1:2,3) * f1(3)
// K(1:2, 1:2) * f2(1:2) = -Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3)) + K(1:2,1:2) * f1(1:2)
// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
//
// Now compute impulse to be applied:
// df = f2 - f1

func (j *PrismaticJointDef) Initialize(bA *Body, bB *Body, anchor Vec2, axis Vec2) {
	j.BodyA = bA
	j.BodyB = bB
	j.LocalAnchorA = j.BodyA.GetLocalPoint(anchor)
	j.LocalAnchorB = j.BodyB.GetLocalPoint(anchor)
	j.LocalAxisA = j.BodyA.GetLocalVector(axis)
	j.ReferenceAngle = j.BodyB.GetAngle() - j.BodyA.GetAngle()
}

func MakePrismaticJoint(def *PrismaticJointDef) *PrismaticJoint {
	res := PrismaticJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB
	res.LocalXAxisA = def.LocalAxisA
	res.LocalXAxisA.Normalize()
	res.LocalYAxisA = CrossSV(1.0, res.LocalXAxisA)
	res.ReferenceAngle = def.ReferenceAngle

	res.Impulse.SetZero()
	res.MotorMass = 0.0
	res.MotorImpulse = 0.0

	res.LowerTranslation = def.LowerTranslation
	res.UpperTranslation = def.UpperTranslation
	res.MaxMotorForce = def.MaxMotorForce
	res.MotorSpeed = def.MotorSpeed
	res.LimitEnabled = def.EnableLimit
	res.MotorEnabled = def.EnableMotor
	res.LimitState = inactiveLimit

	res.Axis.SetZero()
	res.Perp.SetZero()

	return &res
}

func (j *PrismaticJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	// Compute the effective masses.
	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	d := ((cB.Sub(cA)).Add(rB)).Sub(rA)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	// Compute motor Jacobian and effective mass.
	{
		j.Axis = qA.Rotate(j.LocalXAxisA)
		j.A1 = d.Add(rA).Cross(j.Axis)
		j.A2 = rB.Cross(j.Axis)

		j.MotorMass = mA + mB + iA*j.A1*j.A1 + iB*j.A2*j.A2
		if j.MotorMass > 0.0 {
			j.MotorMass = 1.0 / j.MotorMass
		}
	}

	// Prismatic constraint.
	{
		j.Perp = qA.Rotate(j.LocalYAxisA)

		j.S1 = d.Add(rA).Cross(j.Perp)
		j.S2 = rB.Cross(j.Perp)

		k11 := mA + mB + iA*j.S1*j.S1 + iB*j.S2*j.S2
		k12 := iA*j.S1 + iB*j.S2
		k13 := iA*j.S1*j.A1 + iB*j.S2*j.A2
		k22 := iA + iB
		if k22 == 0.0 {
			// For bodies with fixed rotation.
			k22 = 1.0
		}
		k23 := iA*j.A1 + iB*j.A2
		k33 := mA + mB + iA*j.A1*j.A1 + iB*j.A2*j.A2

		j.K.Ex.Set(k11, k12, k13)
		j.K.Ey.Set(k12, k22, k23)
		j.K.Ez.Set(k13, k23, k33)
	}

	// Compute motor and limit terms.
	if j.LimitEnabled {
		jointTranslation := j.Axis.Dot(d)
		if math.Abs(j.UpperTranslation-j.LowerTranslation) < 2.0*data.Step.LinearSlop {
			j.LimitState = equalLimits
		} else if jointTranslation <= j.LowerTranslation {
			if j.LimitState != atLowerLimit {
				j.LimitState = atLowerLimit
				j.Impulse.Z = 0.0
			}
		} else if jointTranslation >= j.UpperTranslation {
			if j.LimitState != atUpperLimit {
				j.LimitState = atUpperLimit
				j.Impulse.Z = 0.0
			}
		} else {
			j.LimitState = inactiveLimit
			j.Impulse.Z = 0.0
		}
	} else {
		j.LimitState = inactiveLimit
		j.Impulse.Z = 0.0
	}

	if j.MotorEnabled == false {
		j.MotorImpulse = 0.0
	}

	if data.Step.DoWarmStart {
		// Account for variable time step.
		j.Impulse = j.Impulse.Scale(data.Step.DtRatio)
		j.MotorImpulse *= data.Step.DtRatio

		P := (j.Perp.Scale(j.Impulse.X)).Add(j.Axis.Scale(j.MotorImpulse+j.Impulse.Z))
		LA := j.Impulse.X*j.S1 + j.Impulse.Y + (j.MotorImpulse+j.Impulse.Z)*j.A1
		LB := j.Impulse.X*j.S2 + j.Impulse.Y + (j.MotorImpulse+j.Impulse.Z)*j.A2

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	} else {
		j.Impulse.SetZero()
		j.MotorImpulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *PrismaticJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	// Solve linear motor constraint.
	if j.MotorEnabled && j.LimitState != equalLimits {
		Cdot := j.Axis.Dot(vB.Sub(vA)) + j.A2*wB - j.A1*wA
		impulse := j.MotorMass * (j.MotorSpeed - Cdot)
		oldImpulse := j.MotorImpulse
		maxImpulse := data.Step.Dt * j.MaxMotorForce
		j.MotorImpulse = Clamp(j.MotorImpulse+impulse, -maxImpulse, maxImpulse)
		impulse = j.MotorImpulse - oldImpulse

		P := j.Axis.Scale(impulse)
		LA := impulse * j.A1
		LB := impulse * j.A2

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	}

	var Cdot1 Vec2
	Cdot1.X = j.Perp.Dot(vB.Sub(vA)) + j.S2*wB - j.S1*wA
	Cdot1.Y = wB - wA

	if j.LimitEnabled && j.LimitState != inactiveLimit {
		// Solve prismatic and limit constraint in block form.
		Cdot2 := 0.0
		Cdot2 = j.Axis.Dot(vB.Sub(vA)) + j.A2*wB - j.A1*wA
		Cdot := MakeVec3(Cdot1.X, Cdot1.Y, Cdot2)

		f1 := j.Impulse
		df := j.K.Solve33(Cdot.Neg())
		j.Impulse = j.Impulse.Add(df)

		if j.LimitState == atLowerLimit {
			j.Impulse.Z = math.Max(j.Impulse.Z, 0.0)
		} else if j.LimitState == atUpperLimit {
			j.Impulse.Z = math.Min(j.Impulse.Z, 0.0)
		}

		// f2(1:2) = invK(1:2,1:2) * (-Cdot(1:2) - K(1:2,3) * (f2(3) - f1(3))) + f1(1:2)
		b := Cdot1.Neg().Sub((MakeVec2(j.K.Ez.X, j.K.Ez.Y)).Scale(j.Impulse.Z-f1.Z))
		f2r := j.K.Solve22(b).Add(MakeVec2(f1.X, f1.Y))
		j.Impulse.X = f2r.X
		j.Impulse.Y = f2r.Y

		df = j.Impulse.Sub(f1)

		P := (j.Perp.Scale(df.X)).Add(j.Axis.Scale(df.Z))
		LA := df.X*j.S1 + df.Y + df.Z*j.A1
		LB := df.X*j.S2 + df.Y + df.Z*j.A2

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	} else {
		// Limit is inactive, just solve the prismatic constraint in block form.
		df := j.K.Solve22(Cdot1.Neg())
		j.Impulse.X += df.X
		j.Impulse.Y += df.Y

		P := j.Perp.Scale(df.X)
		LA := df.X*j.S1 + df.Y
		LB := df.X*j.S2 + df.Y

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * LA

		vB = vB.Add(P.Scale(mB))
		wB += iB * LB
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

// A velocity based solver computes reaction forces(impulses) using the velocity constraint solver.Under this context,
// the position solver is not there to resolve forces.It is only there to cope with integration error.
//
// Therefore, the pseudo impulses in the position solver do not have any physical meaning.Thus it is okay if they suck.
//
// We could take the active state from the velocity solver.However, the joint might push past the limit when the velocity
// solver indicates the limit is inactive.
func (j *PrismaticJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	// Compute fresh Jacobians
	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	d := (cB.Add(rB).Sub(cA)).Sub(rA)

	axis := qA.Rotate(j.LocalXAxisA)
	a1 := d.Add(rA).Cross(axis)
	a2 := rB.Cross(axis)
	perp := qA.Rotate(j.LocalYAxisA)

	s1 := d.Add(rA).Cross(perp)
	s2 := rB.Cross(perp)

	impulse := MakeVec3(0, 0, 0)
	C1 := MakeVec2(0, 0)
	C1.X = perp.Dot(d)
	C1.Y = aB - aA - j.ReferenceAngle

	linearError := math.Abs(C1.X)
	angularError := math.Abs(C1.Y)

	active := false
	C2 := 0.0
	if j.LimitEnabled {
		translation := axis.Dot(d)
		if math.Abs(j.UpperTranslation-j.LowerTranslation) < 2.0*data.Step.LinearSlop {
			// Prevent large linear corrections
			C2 = Clamp(translation, -data.Step.MaxLinearCorrection, data.Step.MaxLinearCorrection)
			linearError = math.Max(linearError, math.Abs(translation))
			active = true
		} else if translation <= j.LowerTranslation {
			// Prevent large linear corrections and allow some slop.
			C2 = Clamp(translation-j.LowerTranslation+data.Step.LinearSlop, -data.Step.MaxLinearCorrection, 0.0)
			linearError = math.Max(linearError, j.LowerTranslation-translation)
			active = true
		} else if translation >= j.UpperTranslation {
			// Prevent large linear corrections and allow some slop.
			C2 = Clamp(translation-j.UpperTranslation-data.Step.LinearSlop, 0.0, data.Step.MaxLinearCorrection)
			linearError = math.Max(linearError, translation-j.UpperTranslation)
			active = true
		}
	}

	if active {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k13 := iA*s1*a1 + iB*s2*a2
		k22 := iA + iB
		if k22 == 0.0 {
			// For fixed rotation
			k22 = 1.0
		}
		k23 := iA*a1 + iB*a2
		k33 := mA + mB + iA*a1*a1 + iB*a2*a2

		K := MakeMat33()
		K.Ex.Set(k11, k12, k13)
		K.Ey.Set(k12, k22, k23)
		K.Ez.Set(k13, k23, k33)

		C := MakeVec3(0, 0, 0)
		C.X = C1.X
		C.Y = C1.Y
		C.Z = C2

		impulse = K.Solve33(C.Neg())
	} else {
		k11 := mA + mB + iA*s1*s1 + iB*s2*s2
		k12 := iA*s1 + iB*s2
		k22 := iA + iB
		if k22 == 0.0 {
			k22 = 1.0
		}

		K := MakeMat22()
		K.Ex.Set(k11, k12)
		K.Ey.Set(k12, k22)

		impulse1 := K.Solve(C1.Neg())
		impulse.X = impulse1.X
		impulse.Y = impulse1.Y
		impulse.Z = 0.0
	}

	P := (perp.Scale(impulse.X)).Add(axis.Scale(impulse.Z))
	LA := impulse.X*s1 + impulse.Y + impulse.Z*a1
	LB := impulse.X*s2 + impulse.Y + impulse.Z*a2

	cA = cA.Sub(P.Scale(mA))
	aA -= iA * LA
	cB = cB.Add(P.Scale(mB))
	aB += iB * LB

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return linearError <= data.Step.LinearSlop && angularError <= data.Step.AngularSlop
}

func (j PrismaticJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j PrismaticJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j PrismaticJoint) GetReactionForce(inv_dt float64) Vec2 {
	return ((j.Perp.Scale(j.Impulse.X)).Add(j.Axis.Scale(j.MotorImpulse+j.Impulse.Z))).Scale(inv_dt)
}

func (j PrismaticJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.Impulse.Y
}

func (j PrismaticJoint) GetJointTranslation() float64 {
	pA := j.BodyA.GetWorldPoint(j.LocalAnchorA)
	pB := j.BodyB.GetWorldPoint(j.LocalAnchorB)
	d := pB.Sub(pA)
	axis := j.BodyA.GetWorldVector(j.LocalXAxisA)

	translation := d.Dot(axis)
	return translation
}

func (j PrismaticJoint) GetJointSpeed() float64 {
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

	speed := d.Dot(CrossSV(wA, axis)) +
		axis.Dot(((vB.Add(CrossSV(wB, rB))).Sub(vA)).Sub(CrossSV(wA, rA)))
	return speed
}

func (j PrismaticJoint) IsLimitEnabled() bool {
	return j.LimitEnabled
}

func (j *PrismaticJoint) EnableLimit(flag bool) {
	if flag != j.LimitEnabled {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.LimitEnabled = flag
		j.Impulse.Z = 0.0
	}
}

func (j PrismaticJoint) GetLowerLimit() float64 {
	return j.LowerTranslation
}

func (j PrismaticJoint) GetUpperLimit() float64 {
	return j.UpperTranslation
}

func (j *PrismaticJoint) SetLimits(lower float64, upper float64) {
	Assert(lower <= upper)
	if lower != j.LowerTranslation || upper != j.UpperTranslation {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.LowerTranslation = lower
		j.UpperTranslation = upper
		j.Impulse.Z = 0.0
	}
}

func (j PrismaticJoint) IsMotorEnabled() bool {
	return j.MotorEnabled
}

func (j *PrismaticJoint) EnableMotor(flag bool) {
	if flag != j.MotorEnabled {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorEnabled = flag
	}
}

func (j *PrismaticJoint) SetMotorSpeed(speed float64) {
	if speed != j.MotorSpeed {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MotorSpeed = speed
	}
}

func (j *PrismaticJoint) SetMaxMotorForce(force float64) {
	if force != j.MaxMotorForce {
		j.BodyA.SetAwake(true)
		j.BodyB.SetAwake(true)
		j.MaxMotorForce = force
	}
}

func (j PrismaticJoint) GetMotorForce(inv_dt float64) float64 {
	return inv_dt * j.MotorImpulse
}

