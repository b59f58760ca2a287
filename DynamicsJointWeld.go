package planar

import (
	"math"
)

/// Weld joint definition: local anchors plus the relative rest angle.
/// Anchor placement determines the reaction torque.
type WeldJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// bodyB angle minus bodyA angle at rest, in radians.
	ReferenceAngle float64

	/// Rotational spring frequency in Hertz; zero is rigid.
	FrequencyHz float64

	/// Damping ratio: 0 none, 1 critical.
	DampingRatio float64
}

func MakeWeldJointDef() WeldJointDef {
	return WeldJointDef{
		JointDef: JointDef{Type: WeldJointType},
		LocalAnchorA: Vec2{0.0, 0.0},
		LocalAnchorB: Vec2{0.0, 0.0},
	}
}

/// Locks two bodies together. Some distortion remains because the island
/// solver is iterative rather than exact.
type WeldJoint struct {
	*Joint

	FrequencyHz  float64
	DampingRatio float64
	Bias         float64

	// Carried between steps.
	LocalAnchorA   Vec2
	LocalAnchorB   Vec2
	ReferenceAngle float64
	Gamma          float64
	Impulse        Vec3

	// Rebuilt each solve.
	jointSolverCache
	RA           Vec2
	RB           Vec2
	Mass         Mat33
}

/// Anchor point in bodyA's local frame.
func (j WeldJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j WeldJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

/// Get the reference angle.
func (j WeldJoint) GetReferenceAngle() float64 {
	return j.ReferenceAngle
}

/// Set/get frequency in Hz.
func (j *WeldJoint) SetFrequency(hz float64) {
	j.FrequencyHz = hz
}

func (j WeldJoint) GetFrequency() float64 {
	return j.FrequencyHz
}

/// Set/get damping ratio.
func (j *WeldJoint) SetDampingRatio(ratio float64) {
	j.DampingRatio = ratio
}

func (j WeldJoint) GetDampingRatio() float64 {
	return j.DampingRatio
}

// // Point-to-point constraint
// // C = p2 - p1
// // Cdot = v2 - v1
// //      = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// // J = [-I -r1_skew I r2_skew ]
// // Identity used:
// // w k % (rx i + ry j) = w * (-ry i + rx j)

// // Angle constraint
// // C = angle2 - angle1 - referenceAngle
// // Cdot = w2 - w1
// // J = [0 0 -1 0 0 1]
// // K = invI1 + invI2

func (def *WeldJointDef) Initialize(bA *Body, bB *Body, anchor Vec2) {
	def.BodyA = bA
	def.BodyB = bB
	def.LocalAnchorA = def.BodyA.GetLocalPoint(anchor)
	def.LocalAnchorB = def.BodyB.GetLocalPoint(anchor)
	def.ReferenceAngle = def.BodyB.GetAngle() - def.BodyA.GetAngle()
}

func MakeWeldJoint(def *WeldJointDef) *WeldJoint {
	res := WeldJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB
	res.ReferenceAngle = def.ReferenceAngle
	res.FrequencyHz = def.FrequencyHz
	res.DampingRatio = def.DampingRatio

	res.Impulse.SetZero()

	return &res
}

func (j *WeldJoint) InitVelocityConstraints(data SolverData) {
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

	var K Mat33
	K.Ex.X = mA + mB + j.RA.Y*j.RA.Y*iA + j.RB.Y*j.RB.Y*iB
	K.Ey.X = -j.RA.Y*j.RA.X*iA - j.RB.Y*j.RB.X*iB
	K.Ez.X = -j.RA.Y*iA - j.RB.Y*iB
	K.Ex.Y = K.Ey.X
	K.Ey.Y = mA + mB + j.RA.X*j.RA.X*iA + j.RB.X*j.RB.X*iB
	K.Ez.Y = j.RA.X*iA + j.RB.X*iB
	K.Ex.Z = K.Ez.X
	K.Ey.Z = K.Ez.Y
	K.Ez.Z = iA + iB

	if j.FrequencyHz > 0.0 {
		K.GetInverse22(&j.Mass)

		invM := iA + iB
		m := 0.0
		if invM > 0.0 {
			m = 1.0 / invM
		}

		C := aB - aA - j.ReferenceAngle

		// Frequency
		omega := 2.0 * Pi * j.FrequencyHz

		// Damping coefficient
		d := 2.0 * m * j.DampingRatio * omega

		// Spring stiffness
		k := m * omega * omega

		// magic formulas
		h := data.Step.Dt
		j.Gamma = h * (d + h*k)
		if j.Gamma != 0.0 {
			j.Gamma = 1.0 / j.Gamma
		} else {
			j.Gamma = 0.0
		}
		j.Bias = C * h * k * j.Gamma

		invM += j.Gamma
		if invM != 0.0 {
			j.Mass.Ez.Z = 1.0 / invM
		} else {
			j.Mass.Ez.Z = 0.0
		}
	} else if K.Ez.Z == 0.0 {
		K.GetInverse22(&j.Mass)
		j.Gamma = 0.0
		j.Bias = 0.0
	} else {
		K.GetSymInverse33(&j.Mass)
		j.Gamma = 0.0
		j.Bias = 0.0
	}

	if data.Step.DoWarmStart {
		// Scale impulses to support a variable time step.
		j.Impulse = j.Impulse.Scale(data.Step.DtRatio)

		P := MakeVec2(j.Impulse.X, j.Impulse.Y)

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * (j.RA.Cross(P) + j.Impulse.Z)

		vB = vB.Add(P.Scale(mB))
		wB += iB * (j.RB.Cross(P) + j.Impulse.Z)
	} else {
		j.Impulse.SetZero()
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *WeldJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	if j.FrequencyHz > 0.0 {
		Cdot2 := wB - wA

		impulse2 := -j.Mass.Ez.Z * (Cdot2 + j.Bias + j.Gamma*j.Impulse.Z)
		j.Impulse.Z += impulse2

		wA -= iA * impulse2
		wB += iB * impulse2

		Cdot1 := ((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))

		impulse1 := j.Mass.MulVec22(Cdot1).Neg()
		j.Impulse.X += impulse1.X
		j.Impulse.Y += impulse1.Y

		P := impulse1

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * j.RA.Cross(P)

		vB = vB.Add(P.Scale(mB))
		wB += iB * j.RB.Cross(P)
	} else {
		Cdot1 := ((vB.Add(CrossSV(wB, j.RB))).Sub(vA)).Sub(CrossSV(wA, j.RA))
		Cdot2 := wB - wA
		Cdot := MakeVec3(Cdot1.X, Cdot1.Y, Cdot2)

		impulse := j.Mass.MulVec(Cdot).Neg()
		j.Impulse = j.Impulse.Add(impulse)

		P := MakeVec2(impulse.X, impulse.Y)

		vA = vA.Sub(P.Scale(mA))
		wA -= iA * (j.RA.Cross(P) + impulse.Z)

		vB = vB.Add(P.Scale(mB))
		wB += iB * (j.RB.Cross(P) + impulse.Z)
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *WeldJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	mA := j.InvMassA
	mB := j.InvMassB
	iA := j.InvIA
	iB := j.InvIB

	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

	positionError := 0.0
	angularError := 0.0

	var K Mat33
	K.Ex.X = mA + mB + rA.Y*rA.Y*iA + rB.Y*rB.Y*iB
	K.Ey.X = -rA.Y*rA.X*iA - rB.Y*rB.X*iB
	K.Ez.X = -rA.Y*iA - rB.Y*iB
	K.Ex.Y = K.Ey.X
	K.Ey.Y = mA + mB + rA.X*rA.X*iA + rB.X*rB.X*iB
	K.Ez.Y = rA.X*iA + rB.X*iB
	K.Ex.Z = K.Ez.X
	K.Ey.Z = K.Ez.Y
	K.Ez.Z = iA + iB

	if j.FrequencyHz > 0.0 {
		C1 := (cB.Add(rB).Sub(cA)).Sub(rA)

		positionError = C1.Length()
		angularError = 0.0

		P := K.Solve22(C1).Neg()

		cA = cA.Sub(P.Scale(mA))
		aA -= iA * rA.Cross(P)

		cB = cB.Add(P.Scale(mB))
		aB += iB * rB.Cross(P)
	} else {
		C1 := (cB.Add(rB).Sub(cA)).Sub(rA)
		C2 := aB - aA - j.ReferenceAngle

		positionError = C1.Length()
		angularError = math.Abs(C2)

		C := MakeVec3(C1.X, C1.Y, C2)

		var impulse Vec3
		if K.Ez.Z > 0.0 {
			impulse = K.Solve33(C).Neg()
		} else {
			impulse2 := K.Solve22(C1).Neg()
			impulse.Set(impulse2.X, impulse2.Y, 0.0)
		}

		P := MakeVec2(impulse.X, impulse.Y)

		cA = cA.Sub(P.Scale(mA))
		aA -= iA * (rA.Cross(P) + impulse.Z)

		cB = cB.Add(P.Scale(mB))
		aB += iB * (rB.Cross(P) + impulse.Z)
	}

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return positionError <= data.Step.LinearSlop && angularError <= data.Step.AngularSlop
}

func (j WeldJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j WeldJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j WeldJoint) GetReactionForce(inv_dt float64) Vec2 {
	P := MakeVec2(j.Impulse.X, j.Impulse.Y)
	return P.Scale(inv_dt)
}

func (j WeldJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * j.Impulse.Z
}

