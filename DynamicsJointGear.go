package planar

/// Gear joint definition: two existing revolute or prismatic joints, in
/// any combination.
type GearJointDef struct {
	JointDef

	/// First geared joint (revolute or prismatic).
	Joint1 JointInterface // has to be backed by pointer

	/// Second geared joint (revolute or prismatic).
	Joint2 JointInterface // has to be backed by pointer

	/// The gear ratio.
	/// @see GearJoint for explanation.
	Ratio float64
}

func MakeGearJointDef() GearJointDef {
	return GearJointDef{
		JointDef: JointDef{Type: GearJointType},
		Ratio: 1.0,
	}
}

/// A gear joint is used to connect two joints together. Either joint
/// can be a revolute or prismatic joint. You specify a gear ratio
/// to bind the motions together:
/// coordinate1 + ratio * coordinate2 = constant
/// The ratio can be negative or positive. If one joint is a revolute joint
/// and the other joint is a prismatic joint, then the ratio will have units
/// of length or units of 1/length.
/// @warning You have to manually destroy the gear joint if joint1 or joint2
/// is destroyed.
type GearJoint struct {
	*Joint

	Joint1 JointInterface // backed by pointer
	Joint2 JointInterface // backed by pointer

	TypeA JointType
	TypeB JointType

	// Body A is connected to body C
	// Body B is connected to body D
	BodyC *Body
	BodyD *Body

	// Carried between steps.
	LocalAnchorA Vec2
	LocalAnchorB Vec2
	LocalAnchorC Vec2
	LocalAnchorD Vec2

	LocalAxisC Vec2
	LocalAxisD Vec2

	ReferenceAngleA float64
	ReferenceAngleB float64

	Constant float64
	Ratio    float64

	Impulse float64

	// Rebuilt each solve.
	IndexA, IndexB, IndexC, IndexD int
	LcA, LcB, LcC, LcD             Vec2
	MA, MB, MC, MD                 float64
	IA, IB, IC, ID                 float64
	JvAC, JvBD                         Vec2
	JwA, JwB, JwC, JwD             float64
	Mass                                 float64
}

/// Get the first joint.
func (j GearJoint) GetJoint1() JointInterface { // returns a pointer
	return j.Joint1
}

/// Get the second joint.
func (j GearJoint) GetJoint2() JointInterface { // returns a pointer
	return j.Joint2
}

// Gear Joint:
// C0 = (coordinate1 + ratio * coordinate2)_initial
// C = (coordinate1 + ratio * coordinate2) - C0 = 0
// J = [J1 ratio * J2]
// K = J * invM * JT
//   = J1 * invM1 * J1T + ratio * ratio * J2 * invM2 * J2T
//
// Revolute:
// coordinate = rotation
// Cdot = angularVelocity
// J = [0 0 1]
// K = J * invM * JT = invI
//
// Prismatic:
// coordinate = dot(p - pg, ug)
// Cdot = dot(v + cross(w, r), ug)
// J = [ug cross(r, ug)]
// K = J * invM * JT = invMass + invI * cross(r, ug)^2

func MakeGearJoint(def *GearJointDef) *GearJoint {
	res := GearJoint{
		Joint: MakeJoint(def),
	}

	res.Joint1 = def.Joint1
	res.Joint2 = def.Joint2

	res.TypeA = res.Joint1.GetType()
	res.TypeB = res.Joint2.GetType()

	Assert(res.TypeA == RevoluteJointType || res.TypeA == PrismaticJointType)
	Assert(res.TypeB == RevoluteJointType || res.TypeB == PrismaticJointType)

	coordinateA := 0.0
	coordinateB := 0.0



	res.BodyC = res.Joint1.GetBodyA()
	res.BodyA = res.Joint1.GetBodyB()

	// Get geometry of joint1
	xfA := res.BodyA.Xf
	aA := res.BodyA.Sweep.A
	xfC := res.BodyC.Xf
	aC := res.BodyC.Sweep.A

	if res.TypeA == RevoluteJointType {
		revolute := def.Joint1.(*RevoluteJoint)
		res.LocalAnchorC = revolute.LocalAnchorA
		res.LocalAnchorA = revolute.LocalAnchorB
		res.ReferenceAngleA = revolute.ReferenceAngle
		res.LocalAxisC.SetZero()

		coordinateA = aA - aC - res.ReferenceAngleA
	} else {
		prismatic := def.Joint1.(*PrismaticJoint)
		res.LocalAnchorC = prismatic.LocalAnchorA
		res.LocalAnchorA = prismatic.LocalAnchorB
		res.ReferenceAngleA = prismatic.ReferenceAngle
		res.LocalAxisC = prismatic.LocalXAxisA

		pC := res.LocalAnchorC
		pA := xfC.Q.InvRotate((xfA.Q.Rotate(res.LocalAnchorA)).Add(xfA.P.Sub(xfC.P)))
		coordinateA = pA.Sub(pC).Dot(res.LocalAxisC)
	}

	res.BodyD = res.Joint2.GetBodyA()
	res.BodyB = res.Joint2.GetBodyB()

	// Get geometry of joint2
	xfB := res.BodyB.Xf
	aB := res.BodyB.Sweep.A
	xfD := res.BodyD.Xf
	aD := res.BodyD.Sweep.A

	if res.TypeB == RevoluteJointType {
		revolute := def.Joint2.(*RevoluteJoint)
		res.LocalAnchorD = revolute.LocalAnchorA
		res.LocalAnchorB = revolute.LocalAnchorB
		res.ReferenceAngleB = revolute.ReferenceAngle
		res.LocalAxisD.SetZero()

		coordinateB = aB - aD - res.ReferenceAngleB
	} else {
		prismatic := def.Joint2.(*PrismaticJoint)
		res.LocalAnchorD = prismatic.LocalAnchorA
		res.LocalAnchorB = prismatic.LocalAnchorB
		res.ReferenceAngleB = prismatic.ReferenceAngle
		res.LocalAxisD = prismatic.LocalXAxisA

		pD := res.LocalAnchorD
		pB := xfD.Q.InvRotate((xfB.Q.Rotate(res.LocalAnchorB)).Add(xfB.P.Sub(xfD.P)))
		coordinateB = pB.Sub(pD).Dot(res.LocalAxisD)
	}

	res.Ratio = def.Ratio

	res.Constant = coordinateA + res.Ratio*coordinateB

	res.Impulse = 0.0

	return &res
}

func (j *GearJoint) InitVelocityConstraints(data SolverData) {
	j.IndexA = j.BodyA.IslandIndex
	j.IndexB = j.BodyB.IslandIndex
	j.IndexC = j.BodyC.IslandIndex
	j.IndexD = j.BodyD.IslandIndex
	j.LcA = j.BodyA.Sweep.LocalCenter
	j.LcB = j.BodyB.Sweep.LocalCenter
	j.LcC = j.BodyC.Sweep.LocalCenter
	j.LcD = j.BodyD.Sweep.LocalCenter
	j.MA = j.BodyA.InvMass
	j.MB = j.BodyB.InvMass
	j.MC = j.BodyC.InvMass
	j.MD = j.BodyD.InvMass
	j.IA = j.BodyA.InvI
	j.IB = j.BodyB.InvI
	j.IC = j.BodyC.InvI
	j.ID = j.BodyD.InvI

	_, aA, vA, wA := data.state(j.IndexA)

	_, aB, vB, wB := data.state(j.IndexB)

	_, aC, vC, wC := data.state(j.IndexC)

	_, aD, vD, wD := data.state(j.IndexD)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)
	qC := MakeRotFromAngle(aC)
	qD := MakeRotFromAngle(aD)

	j.Mass = 0.0

	if j.TypeA == RevoluteJointType {
		j.JvAC.SetZero()
		j.JwA = 1.0
		j.JwC = 1.0
		j.Mass += j.IA + j.IC
	} else {
		u := qC.Rotate(j.LocalAxisC)
		rC := qC.Rotate(j.LocalAnchorC.Sub(j.LcC))
		rA := qA.Rotate(j.LocalAnchorA.Sub(j.LcA))
		j.JvAC = u
		j.JwC = rC.Cross(u)
		j.JwA = rA.Cross(u)
		j.Mass += j.MC + j.MA + j.IC*j.JwC*j.JwC + j.IA*j.JwA*j.JwA
	}

	if j.TypeB == RevoluteJointType {
		j.JvBD.SetZero()
		j.JwB = j.Ratio
		j.JwD = j.Ratio
		j.Mass += j.Ratio * j.Ratio * (j.IB + j.ID)
	} else {
		u := qD.Rotate(j.LocalAxisD)
		rD := qD.Rotate(j.LocalAnchorD.Sub(j.LcD))
		rB := qB.Rotate(j.LocalAnchorB.Sub(j.LcB))
		j.JvBD = u.Scale(j.Ratio)
		j.JwD = j.Ratio * rD.Cross(u)
		j.JwB = j.Ratio * rB.Cross(u)
		j.Mass += j.Ratio*j.Ratio*(j.MD+j.MB) + j.ID*j.JwD*j.JwD + j.IB*j.JwB*j.JwB
	}

	// Compute effective mass.
	if j.Mass > 0.0 {
		j.Mass = 1.0 / j.Mass
	} else {
		j.Mass = 0.0
	}

	if data.Step.DoWarmStart {
		vA = vA.Add(j.JvAC.Scale(j.MA*j.Impulse))
		wA += j.IA * j.Impulse * j.JwA
		vB = vB.Add(j.JvBD.Scale(j.MB*j.Impulse))
		wB += j.IB * j.Impulse * j.JwB
		vC = vC.Sub(j.JvAC.Scale(j.MC*j.Impulse))
		wC -= j.IC * j.Impulse * j.JwC
		vD = vD.Sub(j.JvBD.Scale(j.MD*j.Impulse))
		wD -= j.ID * j.Impulse * j.JwD
	} else {
		j.Impulse = 0.0
	}

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
	data.setVelocity(j.IndexC, vC, wC)
	data.setVelocity(j.IndexD, vD, wD)
}

func (j *GearJoint) SolveVelocityConstraints(data SolverData) {
	vA, wA := data.velocity(j.IndexA)
	vB, wB := data.velocity(j.IndexB)
	vC, wC := data.velocity(j.IndexC)
	vD, wD := data.velocity(j.IndexD)

	Cdot := j.JvAC.Dot(vA.Sub(vC)) + j.JvBD.Dot(vB.Sub(vD))
	Cdot += (j.JwA*wA - j.JwC*wC) + (j.JwB*wB - j.JwD*wD)

	impulse := -j.Mass * Cdot
	j.Impulse += impulse

	vA = vA.Add(j.JvAC.Scale(j.MA*impulse))
	wA += j.IA * impulse * j.JwA
	vB = vB.Add(j.JvBD.Scale(j.MB*impulse))
	wB += j.IB * impulse * j.JwB
	vC = vC.Sub(j.JvAC.Scale(j.MC*impulse))
	wC -= j.IC * impulse * j.JwC
	vD = vD.Sub(j.JvBD.Scale(j.MD*impulse))
	wD -= j.ID * impulse * j.JwD

	data.setVelocity(j.IndexA, vA, wA)
	data.setVelocity(j.IndexB, vB, wB)
	data.setVelocity(j.IndexC, vC, wC)
	data.setVelocity(j.IndexD, vD, wD)
}

func (j *GearJoint) SolvePositionConstraints(data SolverData) bool {
	cA, aA := data.position(j.IndexA)
	cB, aB := data.position(j.IndexB)
	cC, aC := data.position(j.IndexC)
	cD, aD := data.position(j.IndexD)

	qA := MakeRotFromAngle(aA)
	qB := MakeRotFromAngle(aB)
	qC := MakeRotFromAngle(aC)
	qD := MakeRotFromAngle(aD)

	linearError := 0.0

	coordinateA := 0.0
	coordinateB := 0.0

	var JvAC Vec2
	var JvBD Vec2
	var JwA, JwB, JwC, JwD float64
	mass := 0.0

	if j.TypeA == RevoluteJointType {
		JvAC.SetZero()
		JwA = 1.0
		JwC = 1.0
		mass += j.IA + j.IC

		coordinateA = aA - aC - j.ReferenceAngleA
	} else {
		u := qC.Rotate(j.LocalAxisC)
		rC := qC.Rotate(j.LocalAnchorC.Sub(j.LcC))
		rA := qA.Rotate(j.LocalAnchorA.Sub(j.LcA))
		JvAC = u
		JwC = rC.Cross(u)
		JwA = rA.Cross(u)
		mass += j.MC + j.MA + j.IC*JwC*JwC + j.IA*JwA*JwA

		pC := j.LocalAnchorC.Sub(j.LcC)
		pA := qC.InvRotate(rA.Add(cA.Sub(cC)))
		coordinateA = pA.Sub(pC).Dot(j.LocalAxisC)
	}

	if j.TypeB == RevoluteJointType {
		JvBD.SetZero()
		JwB = j.Ratio
		JwD = j.Ratio
		mass += j.Ratio * j.Ratio * (j.IB + j.ID)

		coordinateB = aB - aD - j.ReferenceAngleB
	} else {
		u := qD.Rotate(j.LocalAxisD)
		rD := qD.Rotate(j.LocalAnchorD.Sub(j.LcD))
		rB := qB.Rotate(j.LocalAnchorB.Sub(j.LcB))
		JvBD = u.Scale(j.Ratio)
		JwD = j.Ratio * rD.Cross(u)
		JwB = j.Ratio * rB.Cross(u)
		mass += j.Ratio*j.Ratio*(j.MD+j.MB) + j.ID*JwD*JwD + j.IB*JwB*JwB

		pD := j.LocalAnchorD.Sub(j.LcD)
		pB := qD.InvRotate(rB.Add(cB.Sub(cD)))
		coordinateB = pB.Sub(pD).Dot(j.LocalAxisD)
	}

	C := (coordinateA + j.Ratio*coordinateB) - j.Constant

	impulse := 0.0
	if mass > 0.0 {
		impulse = -C / mass
	}

	cA = cA.Add(JvAC.Scale(j.MA*impulse))
	aA += j.IA * impulse * JwA
	cB = cB.Add(JvBD.Scale(j.MB*impulse))
	aB += j.IB * impulse * JwB
	cC = cC.Sub(JvAC.Scale(j.MC*impulse))
	aC -= j.IC * impulse * JwC
	cD = cD.Sub(JvBD.Scale(j.MD*impulse))
	aD -= j.ID * impulse * JwD

	data.setPosition(j.IndexA, cA, aA)
	data.setPosition(j.IndexB, cB, aB)
	data.setPosition(j.IndexC, cC, aC)
	data.setPosition(j.IndexD, cD, aD)


	return linearError < data.Step.LinearSlop
}

func (j GearJoint) GetAnchorA() Vec2 {
	return j.BodyA.GetWorldPoint(j.LocalAnchorA)
}

func (j GearJoint) GetAnchorB() Vec2 {
	return j.BodyB.GetWorldPoint(j.LocalAnchorB)
}

func (j GearJoint) GetReactionForce(inv_dt float64) Vec2 {
	P := j.JvAC.Scale(j.Impulse)
	return P.Scale(inv_dt)
}

func (j GearJoint) GetReactionTorque(inv_dt float64) float64 {
	L := j.Impulse * j.JwA
	return inv_dt * L
}

func (j *GearJoint) SetRatio(ratio float64) {
	Assert(IsValid(ratio))
	j.Ratio = ratio
}

func (j GearJoint) GetRatio() float64 {
	return j.Ratio
}

