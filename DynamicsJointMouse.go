package planar

/// Mouse joint definition: a world-space target plus the spring tuning
/// that pulls the body toward it.
type MouseJointDef struct {
	JointDef

	/// Initial world target; taken as the body anchor at creation.
	Target Vec2

	/// Cap on the pulling force, typically a few times the body weight.
	MaxForce float64

	/// Response frequency in Hertz.
	FrequencyHz float64

	/// Damping ratio: 0 none, 1 critical.
	DampingRatio float64
}

func MakeMouseJointDef() MouseJointDef {
	return MouseJointDef{
		JointDef: JointDef{Type: MouseJointType},
		Target: Vec2{0.0, 0.0},
		FrequencyHz: 5.0,
		DampingRatio: 0.7,
	}
}

/// Drags a point on a body toward a world target through a soft,
/// force-capped spring, so the constraint stretches instead of yanking.
/// Intended for interactive dragging of a body toward a target point.
type MouseJoint struct {
	*Joint

	LocalAnchorB Vec2
	TargetA      Vec2
	FrequencyHz  float64
	DampingRatio float64
	Beta         float64

	// Carried between steps.
	Impulse  Vec2
	MaxForce float64
	Gamma    float64

	// Rebuilt each solve.
	IndexA       int
	IndexB       int
	RB           Vec2
	LocalCenterB Vec2
	InvMassB     float64
	InvIB        float64
	Mass         Mat22
	C            Vec2
}

// p = attached point, m = mouse point
// C = p - m
// Cdot = v
//      = v + cross(w, r)
// J = [I r_skew]
// Identity used:
// w k % (rx i + ry j) = w * (-ry i + rx j)

func MakeMouseJoint(def *MouseJointDef) *MouseJoint {
	res := MouseJoint{
		Joint: MakeJoint(def),
	}

	Assert(def.Target.IsValid())
	Assert(IsValid(def.MaxForce) && def.MaxForce >= 0.0)
	Assert(IsValid(def.FrequencyHz) && def.FrequencyHz >= 0.0)
	Assert(IsValid(def.DampingRatio) && def.DampingRatio >= 0.0)

	res.TargetA = def.Target
	res.LocalAnchorB = res.BodyB.GetTransformation().ApplyInverse(res.TargetA)

	res.MaxForce = def.MaxForce
	res.Impulse.SetZero()

	res.FrequencyHz = def.FrequencyHz
	res.DampingRatio = def.DampingRatio

	res.Beta = 0.0
	res.Gamma = 0.0

	return &res
}

func (j *MouseJoint) SetTarget(target Vec2) {
	if target != j.TargetA {
		j.BodyB.SetAwake(true)
		j.TargetA = target
	}
}

func (j MouseJoint) GetTarget() Vec2 {
	return j.TargetA
}

func (j *MouseJoint) SetMaxForce(force float64) {
	j.MaxForce = force
}

func (j MouseJoint) GetMaxForce() float64 {
	return j.MaxForce
}

func (j *MouseJoint) SetFrequency(hz float64) {
	j.FrequencyHz = hz
}

func (j MouseJoint) GetFrequency() float64 {
	return j.FrequencyHz
}

func (j *MouseJoint) SetDampingRatio(ratio float64) {
	j.DampingRatio = ratio
}

func (j MouseJoint) GetDampingRatio() float64 {
	return j.DampingRatio
}

func (j *MouseJoint) InitVelocityConstraints(data SolverData) {
	j.IndexB = j.BodyB.IslandIndex
	j.LocalCenterB = j.BodyB.Sweep.LocalCenter
	j.InvMassB = j.BodyB.InvMass
	j.InvIB = j.BodyB.InvI

	cB, aB, vB, wB := data.state(j.IndexB)

	qB := MakeRotFromAngle(aB)

	mass := j.BodyB.GetMass()

	// Frequency
	omega := 2.0 * Pi * j.FrequencyHz

	// Damping coefficient
	d := 2.0 * mass * j.DampingRatio * omega

	// Spring stiffness
	k := mass * (omega * omega)

	// magic formulas
	// gamma has units of inverse mass.
	// beta has units of inverse time.
	h := data.Step.Dt
	Assert(d+h*k > Epsilon)
	j.Gamma = h * (d + h*k)
	if j.Gamma != 0.0 {
		j.Gamma = 1.0 / j.Gamma
	}
	j.Beta = h * k * j.Gamma

	// Compute the effective mass matrix.
	j.RB = qB.Rotate(j.LocalAnchorB.Sub(j.LocalCenterB))

	// K    = [(1/m1 + 1/m2) * eye(2) - skew(r1) * invI1 * skew(r1) - skew(r2) * invI2 * skew(r2)]
	//      = [1/m1+1/m2     0    ] + invI1 * [r1.y*r1.y -r1.x*r1.y] + invI2 * [r1.y*r1.y -r1.x*r1.y]
	//        [    0     1/m1+1/m2]           [-r1.x*r1.y r1.x*r1.x]           [-r1.x*r1.y r1.x*r1.x]
	var K Mat22
	K.Ex.X = j.InvMassB + j.InvIB*j.RB.Y*j.RB.Y + j.Gamma
	K.Ex.Y = -j.InvIB * j.RB.X * j.RB.Y
	K.Ey.X = K.Ex.Y
	K.Ey.Y = j.InvMassB + j.InvIB*j.RB.X*j.RB.X + j.Gamma

	j.Mass = K.GetInverse()

	j.C = cB.Add(j.RB).Sub(j.TargetA)
	j.C = j.C.Scale(j.Beta)

	// Cheat with some damping
	wB *= 0.98

	if data.Step.DoWarmStart {
		j.Impulse = j.Impulse.Scale(data.Step.DtRatio)
		vB = vB.Add(j.Impulse.Scale(j.InvMassB))
		wB += j.InvIB * j.RB.Cross(j.Impulse)
	} else {
		j.Impulse.SetZero()
	}

	data.setVelocity(j.IndexB, vB, wB)
}

func (j *MouseJoint) SolveVelocityConstraints(data SolverData) {

	vB, wB := data.velocity(j.IndexB)

	// Cdot = v + cross(w, r)
	Cdot := vB.Add(CrossSV(wB, j.RB))
	impulse := j.Mass.MulVec(((Cdot.Add(j.C)).Add(j.Impulse.Scale(j.Gamma))).Neg())

	oldImpulse := j.Impulse
	j.Impulse = j.Impulse.Add(impulse)
	maxImpulse := data.Step.Dt * j.MaxForce
	if j.Impulse.LengthSquared() > maxImpulse*maxImpulse {
		j.Impulse = j.Impulse.Scale(maxImpulse / j.Impulse.Length())
	}
	impulse = j.Impulse.Sub(oldImpulse)

	vB = vB.Add(impulse.Scale(j.InvMassB))
	wB += j.InvIB * j.RB.Cross(impulse)

	data.setVelocity(j.IndexB, vB, wB)
}

func (j *MouseJoint) SolvePositionConstraints(data SolverData) bool {
	return true
}

func (j MouseJoint) GetAnchorA() Vec2 {
	return j.TargetA
}

func (j MouseJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j MouseJoint) GetReactionForce(inv_dt float64) Vec2 {
	return j.Impulse.Scale(inv_dt)
}

func (j MouseJoint) GetReactionTorque(inv_dt float64) float64 {
	return inv_dt * 0.0
}

func (j *MouseJoint) ShiftOrigin(newOrigin Vec2) {
	j.TargetA = j.TargetA.Sub(newOrigin)
}
