package planar

import (
	"math"
)

/*
Position correction uses sequential impulses for velocity plus a separate
non-linear Gauss-Seidel position pass (full NGS for joints, a Baumgarte-style
resolution rate for contacts). Velocity-only Baumgarte feeds position error
into momentum and false bounce; NGS re-computes the error per constraint and
lets iterations terminate early once every error is within a small multiple
of the linear slop.

The solver is cache-bound: body state is copied into the compact Positions
and Velocities arrays indexed by island body index, constraints iterate
linearly, and results are copied back once per solve.
*/

/// One connected component of awake bodies joined by contacts or joints,
/// solved independently of the rest of the world.
type Island struct {
	Listener ContactListenerInterface

	Bodies   []*Body
	Contacts []ContactInterface // has to be backed by pointers
	Joints   []JointInterface   // has to be backed by pointers

	Positions  []Position
	Velocities []Velocity

	BodyCount    int
	JointCount   int
	ContactCount int

	BodyCapacity    int
	ContactCapacity int
	JointCapacity   int
}

func MakeIsland(bodyCapacity int, contactCapacity int, jointCapacity int, listener ContactListenerInterface) Island {
	return Island{
		Listener: listener,

		BodyCapacity:    bodyCapacity,
		ContactCapacity: contactCapacity,
		JointCapacity:   jointCapacity,

		Bodies:   make([]*Body, bodyCapacity),
		Contacts: make([]ContactInterface, contactCapacity),
		Joints:   make([]JointInterface, jointCapacity),

		Positions:  make([]Position, bodyCapacity),
		Velocities: make([]Velocity, bodyCapacity),
	}
}

func (island *Island) Clear() {
	island.BodyCount = 0
	island.ContactCount = 0
	island.JointCount = 0
}

func (island *Island) AddBody(body *Body) {
	Assert(island.BodyCount < island.BodyCapacity)
	body.IslandIndex = island.BodyCount
	island.Bodies[island.BodyCount] = body
	island.BodyCount++
}

func (island *Island) AddContact(contact ContactInterface) { // contact has to be a pointer
	Assert(island.ContactCount < island.ContactCapacity)
	island.Contacts[island.ContactCount] = contact
	island.ContactCount++
}

func (island *Island) Add(joint JointInterface) { // joint has to be a pointer
	Assert(island.JointCount < island.JointCapacity)
	island.Joints[island.JointCount] = joint
	island.JointCount++
}

/// Advance one body's solver state by h, clamping runaway motion.
func integrateState(position *Position, velocity *Velocity, h, maxTranslation, maxRotation float64) {
	translation := velocity.V.Scale(h)
	if translation.LengthSquared() > maxTranslation*maxTranslation {
		velocity.V = velocity.V.Scale(maxTranslation / translation.Length())
	}

	rotation := h * velocity.W
	if rotation*rotation > maxRotation*maxRotation {
		velocity.W *= maxRotation / math.Abs(rotation)
	}

	position.C = position.C.Add(velocity.V.Scale(h))
	position.A += h * velocity.W
}

/// Load body state into the island arrays, integrating velocities (with
/// gravity, acceleration, and damping) for the accelerable ones.
func (island *Island) captureState(step StepConf, gravity Vec2) {
	h := step.Dt

	for i := 0; i < island.BodyCount; i++ {
		b := island.Bodies[i]

		// Remember the step-start pose for continuous collision.
		b.Sweep.C0 = b.Sweep.C
		b.Sweep.A0 = b.Sweep.A

		v := b.LinearVelocity
		w := b.AngularVelocity

		if b.IsAccelerable() {
			v = v.Add(gravity.Scale(b.GravityScale).Add(b.LinearAcceleration).Scale(h))
			w += h * b.AngularAcceleration

			// Damping via the Pade approximation of exp(-c*h):
			// v2 = v1 / (1 + c*h).
			v = v.Scale(1.0 / (1.0 + h*b.LinearDamping))
			w *= 1.0 / (1.0 + h*b.AngularDamping)
		}

		island.Positions[i] = Position{C: b.Sweep.C, A: b.Sweep.A}
		island.Velocities[i] = Velocity{V: v, W: w}
	}
}

/// Write the island arrays back onto the bodies.
func (island *Island) restoreState() {
	for i := 0; i < island.BodyCount; i++ {
		body := island.Bodies[i]
		body.Sweep.C = island.Positions[i].C
		body.Sweep.A = island.Positions[i].A
		body.LinearVelocity = island.Velocities[i].V
		body.AngularVelocity = island.Velocities[i].W
		body.SynchronizeTransformation()
	}
}

/// Track stillness and put the whole island to sleep once every body has
/// been quiet long enough. Returns how many bodies fell asleep.
func (island *Island) updateSleep(step StepConf, positionSolved bool) int {
	minStillTime := MaxFloat

	linTolSq := step.LinearSleepTolerance * step.LinearSleepTolerance
	angTolSq := step.AngularSleepTolerance * step.AngularSleepTolerance

	for i := 0; i < island.BodyCount; i++ {
		b := island.Bodies[i]
		if !b.IsSpeedable() {
			continue
		}

		still := (b.Flags&bodyAutoSleepFlag) != 0 &&
			b.AngularVelocity*b.AngularVelocity <= angTolSq &&
			b.LinearVelocity.Dot(b.LinearVelocity) <= linTolSq

		if still {
			b.SleepTime += step.Dt
			minStillTime = math.Min(minStillTime, b.SleepTime)
		} else {
			b.SleepTime = 0.0
			minStillTime = 0.0
		}
	}

	if minStillTime < step.MinStillTimeToSleep || !positionSolved {
		return 0
	}

	slept := 0
	for i := 0; i < island.BodyCount; i++ {
		b := island.Bodies[i]
		if b.IsSpeedable() && b.IsAwake() {
			slept++
		}
		b.SetAwake(false)
	}
	return slept
}

/// Integrate, solve velocity and position constraints, and manage sleep.
/// Reports whether the position solver converged and how many bodies were
/// put to sleep.
func (island *Island) Solve(profile *Profile, step StepConf, gravity Vec2, allowSleep bool) (bool, int) {
	timer := MakeTimer()

	island.captureState(step, gravity)

	timer.Reset()

	solverData := SolverData{
		Step:       step,
		Positions:  island.Positions,
		Velocities: island.Velocities,
	}

	contactSolverDef := ContactSolverDef{
		Step:       step,
		Contacts:   island.Contacts,
		Count:      island.ContactCount,
		Positions:  island.Positions,
		Velocities: island.Velocities,
	}

	contactSolver := MakeContactSolver(&contactSolverDef)
	contactSolver.InitializeVelocityConstraints()

	if step.DoWarmStart {
		contactSolver.WarmStart()
	}

	for i := 0; i < island.JointCount; i++ {
		island.Joints[i].InitVelocityConstraints(solverData)
	}

	profile.SolveInit = timer.GetMilliseconds()

	timer.Reset()
	for i := 0; i < step.RegVelocityIterations; i++ {
		for j := 0; j < island.JointCount; j++ {
			island.Joints[j].SolveVelocityConstraints(solverData)
		}
		contactSolver.SolveVelocityConstraints()
	}

	// Keep the accumulated impulses for next step's warm start.
	contactSolver.StoreImpulses()
	profile.SolveVelocity = timer.GetMilliseconds()

	for i := 0; i < island.BodyCount; i++ {
		integrateState(&island.Positions[i], &island.Velocities[i], step.Dt, step.MaxTranslation, step.MaxRotation)
	}

	timer.Reset()
	positionSolved := false
	for i := 0; i < step.RegPositionIterations; i++ {
		contactsOkay := contactSolver.SolvePositionConstraints()

		jointsOkay := true
		for j := 0; j < island.JointCount; j++ {
			jointOkay := island.Joints[j].SolvePositionConstraints(solverData)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// The position errors are all small enough to stop early.
			positionSolved = true
			break
		}
	}

	island.restoreState()
	profile.SolvePosition = timer.GetMilliseconds()

	island.Report(contactSolver.VelocityConstraints, step.RegVelocityIterations)

	slept := 0
	if allowSleep {
		slept = island.updateSleep(step, positionSolved)
	}

	return positionSolved, slept
}

/// Solve a TOI sub-step island. Position correction comes first and only
/// moves the two TOI bodies; velocities are then solved without warm
/// starting, since the discrete solver already applied those impulses.
func (island *Island) SolveTOI(subStep StepConf, toiIndexA int, toiIndexB int) {
	Assert(toiIndexA < island.BodyCount)
	Assert(toiIndexB < island.BodyCount)

	for i := 0; i < island.BodyCount; i++ {
		b := island.Bodies[i]
		island.Positions[i] = Position{C: b.Sweep.C, A: b.Sweep.A}
		island.Velocities[i] = Velocity{V: b.LinearVelocity, W: b.AngularVelocity}
	}

	contactSolverDef := ContactSolverDef{
		Step:       subStep,
		Contacts:   island.Contacts,
		Count:      island.ContactCount,
		Positions:  island.Positions,
		Velocities: island.Velocities,
	}
	contactSolver := MakeContactSolver(&contactSolverDef)

	for i := 0; i < subStep.ToiPositionIterations; i++ {
		if contactSolver.SolveTOIPositionConstraints(toiIndexA, toiIndexB) {
			break
		}
	}

	// The corrected poses become the new safe start of the sweeps.
	island.Bodies[toiIndexA].Sweep.C0 = island.Positions[toiIndexA].C
	island.Bodies[toiIndexA].Sweep.A0 = island.Positions[toiIndexA].A
	island.Bodies[toiIndexB].Sweep.C0 = island.Positions[toiIndexB].C
	island.Bodies[toiIndexB].Sweep.A0 = island.Positions[toiIndexB].A

	contactSolver.InitializeVelocityConstraints()

	for i := 0; i < subStep.ToiVelocityIterations; i++ {
		contactSolver.SolveVelocityConstraints()
	}

	// TOI contact impulses can be huge; do not store them for warm
	// starting.

	for i := 0; i < island.BodyCount; i++ {
		integrateState(&island.Positions[i], &island.Velocities[i], subStep.Dt, subStep.MaxTranslation, subStep.MaxRotation)
	}

	island.restoreState()

	island.Report(contactSolver.VelocityConstraints, subStep.ToiVelocityIterations)
}

/// Hand each touching contact's impulses to the listener.
func (island *Island) Report(constraints []ContactVelocityConstraint, iterations int) {
	if island.Listener == nil {
		return
	}

	for i := 0; i < island.ContactCount; i++ {
		vc := &constraints[i]

		impulse := MakeContactImpulse()
		impulse.Count = vc.PointCount
		for j := 0; j < vc.PointCount; j++ {
			impulse.NormalImpulses[j] = vc.Points[j].NormalImpulse
			impulse.TangentImpulses[j] = vc.Points[j].TangentImpulse
		}

		island.Listener.PostSolve(island.Contacts[i], &impulse, iterations)
	}
}
