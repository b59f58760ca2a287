package planar

import (
	"math"
)

/// Distance joint definition: one anchor per body and a non-zero rest
/// length. Anchors are local, so a freshly loaded configuration may
/// violate the constraint slightly and be pulled straight.
/// @warning avoid zero or near-zero lengths.
type DistanceJointDef struct {
	JointDef

	/// Anchor point in bodyA's local frame.
	LocalAnchorA Vec2

	/// Anchor point in bodyB's local frame.
	LocalAnchorB Vec2

	/// Rest distance between the anchors.
	Length float64

	/// Spring frequency in Hertz. Zero
	/// makes the constraint rigid.
	FrequencyHz float64

	/// Damping ratio: 0 none, 1 critical.
	DampingRatio float64
}

func MakeDistanceJointDef() DistanceJointDef {
	return DistanceJointDef{
		JointDef: JointDef{Type: DistanceJointType},
		LocalAnchorA: Vec2{0.0, 0.0},
		LocalAnchorB: Vec2{0.0, 0.0},
		Length: 1.0,
	}
}

/// Keeps two anchor points a fixed distance apart, like a massless rigid
/// rod between the bodies.
type DistanceJoint struct {
	*Joint

	FrequencyHz  float64
	DampingRatio float64
	Bias         float64

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	Gamma        float64
	Impulse      float64
	Length       float64

	// Rebuilt each solve.
	jointSolverCache
	U            Vec2
	RA           Vec2
	RB           Vec2
	Mass         float64
}

/// Anchor point in bodyA's local frame.
func (j DistanceJoint) GetLocalAnchorA() Vec2 {
	return j.LocalAnchorA
}

/// Anchor point in bodyB's local frame.
func (j DistanceJoint) GetLocalAnchorB() Vec2 {
	return j.LocalAnchorB
}

func (j *DistanceJoint) SetLength(length float64) {
	j.Length = length
}

func (j DistanceJoint) GetLength() float64 {
	return j.Length
}

func (j *DistanceJoint) SetFrequency(hz float64) {
	j.FrequencyHz = hz
}

func (j DistanceJoint) GetFrequency() float64 {
	return j.FrequencyHz
}

func (j *DistanceJoint) SetDampingRatio(ratio float64) {
	j.DampingRatio = ratio
}

func (j DistanceJoint) GetDampingRatio() float64 {
	return j.DampingRatio
}

// 1-D constrained system
// m (v2 - v1) = lambda
// v2 + (beta/h) * x1 + gamma * lambda = 0, gamma has units of inverse mass.
// x2 = x1 + h * v2

// 1-D mass-damper-spring system
// m (v2 - v1) + h * d * v2 + h * k *

// C = norm(p2 - p1) - L
// u = (p2 - p1) / norm(p2 - p1)
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]
// K = J * invM * JT
//   = invMass1 + invI1 * cross(r1, u)^2 + invMass2 + invI2 * cross(r2, u)^2

func (j *DistanceJointDef) Initialize(b1 *Body, b2 *Body, anchor1 Vec2, anchor2 Vec2) {
	j.BodyA = b1
	j.BodyB = b2
	j.LocalAnchorA = j.BodyA.GetLocalPoint(anchor1)
	j.LocalAnchorB = j.BodyB.GetLocalPoint(anchor2)
	d := anchor2.Sub(anchor1)
	j.Length = d.Length()
}

func MakeDistanceJoint(def *DistanceJointDef) *DistanceJoint {
	res := DistanceJoint{
		Joint: MakeJoint(def),
	}

	res.LocalAnchorA = def.LocalAnchorA
	res.LocalAnchorB = def.LocalAnchorB
	res.Length = def.Length
	res.FrequencyHz = def.FrequencyHz
	res.DampingRatio = def.DampingRatio
	res.Impulse = 0.0
	res.Gamma = 0.0
	res.Bias = 0.0

	return &res
}

func (j *DistanceJoint) InitVelocityConstraints(data SolverData) {
	j.jointSolverCache.capture(j.BodyA, j.BodyB)

	cA, aA, vA, wA := data.state(j.IndexA)

	cB, aB, vB, wB := data.state(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	j.RA = qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	j.RB = qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	j.U = (cB.Add(j.RB).Sub(cA)).Sub(j.RA)

	// Handle singularity.
	length := j.U.Length()
	if length > data.Step.LinearSlop {
		j.U = j.U.Scale(1.0 / length)
	} else {
		j.U.Set(0.0, 0.0)
	}

	crAu := j.RA.Cross(j.U)
	crBu := j.RB.Cross(j.U)
	invMass := j.InvMassA + j.InvIA*crAu*crAu + j.InvMassB + j.InvIB*crBu*crBu

	// Compute the effective mass matrix.
	if invMass != 0.0 {
		j.Mass = 1.0 / invMass
	} else {
		j.Mass = 0
	}

	if j.FrequencyHz > 0.0 {
		C := length - j.Length

		// Frequency
		omega := 2.0 * Pi * j.FrequencyHz

		// Damping coefficient
		d := 2.0 * j.Mass * j.DampingRatio * omega

		// Spring stiffness
		k := j.Mass * omega * omega

		// magic formulas
		h := data.Step.Dt
		j.Gamma = h * (d + h*k)
		if j.Gamma != 0.0 {
			j.Gamma = 1.0 / j.Gamma
		} else {
			j.Gamma = 0.0
		}
		j.Bias = C * h * k * j.Gamma

		invMass += j.Gamma
		if invMass != 0.0 {
			j.Mass = 1.0 / invMass
		} else {
			j.Mass = 0.0
		}
	} else {
		j.Gamma = 0.0
		j.Bias = 0.0
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

	// Note: mutation on value, not ref; but OK because Velocities is an array
	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *DistanceJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)

	// Cdot = dot(u, v + cross(w, r))
	vpA := vA.Add(CrossSV(wA, j.RA))
	vpB := vB.Add(CrossSV(wB, j.RB))
	Cdot := j.U.Dot(vpB.Sub(vpA))

	impulse := -j.Mass * (Cdot + j.Bias + j.Gamma*j.Impulse)
	j.Impulse += impulse

	P := j.U.Scale(impulse)
	vA = vA.Sub(P.Scale(j.InvMassA))
	wA -= j.InvIA * j.RA.Cross(P)
	vB = vB.Add(P.Scale(j.InvMassB))
	wB += j.InvIB * j.RB.Cross(P)

	// Note: mutation on value, not ref; but OK because Velocities is an array
	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
}

func (j *DistanceJoint) SolvePositionConstraints(data SolverData) bool {
	if j.FrequencyHz > 0.0 {
		// There is no position correction for soft distance constraints.
		return true
	}

	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)

	rA := qA.Rotate(j.LocalAnchorA.Sub(j.LocalCenterA))
	rB := qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))
	u := (cB.Add(rB).Sub(cA)).Sub(rA)

	length := u.Normalize()
	C := length - j.Length
	C = Clamp(C, -data.Step.MaxLinearCorrection, data.Step.MaxLinearCorrection)

	impulse := -j.Mass * C
	P := u.Scale(impulse)

	cA = cA.Sub(P.Scale(j.InvMassA))
	aA -= j.InvIA * rA.Cross(P)
	cB = cB.Add(P.Scale(j.InvMassB))
	aB += j.InvIB * rB.Cross(P)

	// Note: mutation on value, not ref; but OK because Positions is an array
	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)

	return math.Abs(C) < data.Step.LinearSlop
}

func (j DistanceJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j DistanceJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j DistanceJoint) GetReactionForce(inv_dt float64) Vec2 {
	return j.U.Scale((inv_dt * j.Impulse))
}

func (j DistanceJoint) GetReactionTorque(inv_dt float64) float64 {
	return 0.0
}

