package planar

import (
	"math"
)

const (
	worldNewFixtureFlag = 0x0001
	worldLockedFlag     = 0x0002

	worldClearAccelerationsFlag = 0x0004
)

/// World construction parameters. Gravity plus the numerical tolerances
/// every solver pass measures against.
type WorldDef struct {
	Gravity         Vec2
	LinearSlop      float64
	AngularSlop     float64
	MaxVertexRadius float64
}

func MakeWorldDef() WorldDef {
	return WorldDef{
		Gravity:         MakeVec2(0.0, -9.8),
		LinearSlop:      DefaultLinearSlop,
		AngularSlop:     DefaultAngularSlop,
		MaxVertexRadius: DefaultMaxVertexRadius,
	}
}

/// The world class manages all physics entities, dynamic simulation,
/// and asynchronous queries.
type World struct {
	Flags int

	ContactManager ContactManager

	BodyList  *Body          // linked list
	JointList JointInterface // has to be backed by pointer

	BodyCount  int
	JointCount int

	Gravity    Vec2
	AllowSleep bool

	// Numerical tolerances, fixed at construction.
	LinearSlop      float64
	AngularSlop     float64
	MaxVertexRadius float64

	DestructionListener DestructionListenerInterface

	// This is used to compute the time step ratio to
	// support a variable time step.
	Inv_dt0 float64

	// These are for debugging the solver.
	WarmStarting      bool
	ContinuousPhysics bool
	SubStepping       bool

	StepComplete bool

	Profile Profile
}

func (w World) GetBodyList() *Body {
	return w.BodyList
}

func (w World) GetJointList() JointInterface { // returns a pointer
	return w.JointList
}

func (w World) GetContactList() ContactInterface { // returns a pointer
	return w.ContactManager.ContactList
}

func (w World) GetBodyCount() int {
	return w.BodyCount
}

func (w World) GetJointCount() int {
	return w.JointCount
}

func (w World) GetContactCount() int {
	return w.ContactManager.ContactCount
}

func (w *World) SetGravity(gravity Vec2) {
	AssertMsg(gravity.IsValid(), "gravity must be finite")
	w.Gravity = gravity
}

func (w World) GetGravity() Vec2 {
	return w.Gravity
}

func (w World) IsLocked() bool {
	return (w.Flags & worldLockedFlag) == worldLockedFlag
}

func (w *World) SetAutoClearAccelerations(flag bool) {
	if flag {
		w.Flags |= worldClearAccelerationsFlag
	} else {
		w.Flags &= ^worldClearAccelerationsFlag
	}
}

/// Get the flag that controls automatic clearing of accelerations applied
/// through ApplyForce and ApplyTorque after each step.
func (w World) GetAutoClearAccelerations() bool {
	return (w.Flags & worldClearAccelerationsFlag) == worldClearAccelerationsFlag
}

func (w World) GetContactManager() ContactManager {
	return w.ContactManager
}

func (w World) GetProfile() Profile {
	return w.Profile
}

func MakeWorld(def WorldDef) World {
	world := World{
		WarmStarting:      true,
		ContinuousPhysics: true,
		StepComplete:      true,
		AllowSleep:        true,

		Gravity: def.Gravity,

		LinearSlop:      def.LinearSlop,
		AngularSlop:     def.AngularSlop,
		MaxVertexRadius: def.MaxVertexRadius,

		Flags: worldClearAccelerationsFlag,

		ContactManager: MakeContactManager(),
	}

	// The fat-AABB margin scales with the world's own slop.
	world.ContactManager.BroadPhase.Tree.AabbExtension = def.LinearSlop * 20.0

	return world
}

/// Construct a world with default tolerances.
func MakeWorldFromGravity(gravity Vec2) World {
	def := MakeWorldDef()
	def.Gravity = gravity
	return MakeWorld(def)
}

func (w *World) Destroy() {

	b := w.BodyList
	for b != nil {
		bNext := b.Next

		f := b.FixtureList
		for f != nil {
			fNext := f.Next
			f.ProxyCount = 0
			f.Destroy()
			f = fNext
		}

		b = bNext
	}
}

func (w *World) SetDestructionListener(listener DestructionListenerInterface) {
	w.DestructionListener = listener
}

func (w *World) SetContactFilter(filter ContactFilterInterface) {
	w.ContactManager.ContactFilter = filter
}

func (w *World) SetContactListener(listener ContactListenerInterface) {
	w.ContactManager.ContactListener = listener
}

func (w *World) CreateBody(def *BodyDef) *Body {
	AssertMsg(w.IsLocked() == false, "CreateBody while world is locked")

	if w.IsLocked() {
		return nil
	}

	b := NewBody(def, w)

	// Add to world doubly linked list.
	b.Prev = nil
	b.Next = w.BodyList
	if w.BodyList != nil {
		w.BodyList.Prev = b
	}
	w.BodyList = b
	w.BodyCount++

	return b
}

func (w *World) DestroyBody(b *Body) {
	Assert(w.BodyCount > 0)
	AssertMsg(w.IsLocked() == false, "DestroyBody while world is locked")

	if w.IsLocked() {
		return
	}

	// Delete the attached joints.
	je := b.JointList
	for je != nil {
		je0 := je
		je = je.Next

		if w.DestructionListener != nil {
			w.DestructionListener.SayGoodbyeToJoint(je0.Joint)
		}

		w.DestroyJoint(je0.Joint)

		b.JointList = je
	}
	b.JointList = nil

	// Delete the attached contacts.
	ce := b.ContactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		w.ContactManager.Destroy(ce0.Contact)
	}
	b.ContactList = nil

	// Delete the attached fixtures. This destroys broad-phase proxies.
	f := b.FixtureList
	for f != nil {
		f0 := f
		f = f.Next

		if w.DestructionListener != nil {
			w.DestructionListener.SayGoodbyeToFixture(f0)
		}

		f0.DestroyProxies(&w.ContactManager.BroadPhase)
		f0.Destroy()

		b.FixtureList = f
		b.FixtureCount -= 1
	}

	b.FixtureList = nil
	b.FixtureCount = 0

	// Remove world body list.
	if b.Prev != nil {
		b.Prev.Next = b.Next
	}

	if b.Next != nil {
		b.Next.Prev = b.Prev
	}

	if b == w.BodyList {
		w.BodyList = b.Next
	}

	w.BodyCount--
}

func (w *World) CreateJoint(def JointDefInterface) JointInterface {
	AssertMsg(w.IsLocked() == false, "CreateJoint while world is locked")
	if w.IsLocked() {
		return nil
	}

	j := JointCreate(def)

	// Connect to the world list.
	j.SetPrev(nil)
	j.SetNext(w.JointList)
	if w.JointList != nil {
		w.JointList.SetPrev(j)
	}
	w.JointList = j
	w.JointCount++

	// Connect to the bodies' doubly linked lists.
	j.GetEdgeA().Joint = j
	j.GetEdgeA().Other = j.GetBodyB()
	j.GetEdgeA().Prev = nil
	j.GetEdgeA().Next = j.GetBodyA().JointList
	if j.GetBodyA().JointList != nil {
		j.GetBodyA().JointList.Prev = j.GetEdgeA()
	}

	j.GetBodyA().JointList = j.GetEdgeA()

	j.GetEdgeB().Joint = j
	j.GetEdgeB().Other = j.GetBodyA()
	j.GetEdgeB().Prev = nil
	j.GetEdgeB().Next = j.GetBodyB().JointList
	if j.GetBodyB().JointList != nil {
		j.GetBodyB().JointList.Prev = j.GetEdgeB()
	}
	j.GetBodyB().JointList = j.GetEdgeB()

	bodyA := def.GetBodyA()
	bodyB := def.GetBodyB()

	// If the joint prevents collisions, then flag any contacts for filtering.
	if def.IsCollideConnected() == false {
		edge := bodyB.GetContactList()
		for edge != nil {
			if edge.Other == bodyA {
				// Flag the contact for filtering at the next time step (where either
				// body is awake).
				edge.Contact.FlagForFiltering()
			}

			edge = edge.Next
		}
	}

	// Note: creating a joint doesn't wake the bodies.

	return j
}

func (w *World) DestroyJoint(j JointInterface) { // j backed by pointer
	AssertMsg(w.IsLocked() == false, "DestroyJoint while world is locked")
	if w.IsLocked() {
		return
	}

	collideConnected := j.IsCollideConnected()

	// Remove from the doubly linked list.
	if j.GetPrev() != nil {
		j.GetPrev().SetNext(j.GetNext())
	}

	if j.GetNext() != nil {
		j.GetNext().SetPrev(j.GetPrev())
	}

	if j == w.JointList {
		w.JointList = j.GetNext()
	}

	// Disconnect from island graph.
	bodyA := j.GetBodyA()
	bodyB := j.GetBodyB()

	// Wake up connected bodies.
	bodyA.SetAwake(true)
	bodyB.SetAwake(true)

	// Remove from body 1.
	if j.GetEdgeA().Prev != nil {
		j.GetEdgeA().Prev.Next = j.GetEdgeA().Next
	}

	if j.GetEdgeA().Next != nil {
		j.GetEdgeA().Next.Prev = j.GetEdgeA().Prev
	}

	if j.GetEdgeA() == bodyA.JointList {
		bodyA.JointList = j.GetEdgeA().Next
	}

	j.GetEdgeA().Prev = nil
	j.GetEdgeA().Next = nil

	// Remove from body 2
	if j.GetEdgeB().Prev != nil {
		j.GetEdgeB().Prev.Next = j.GetEdgeB().Next
	}

	if j.GetEdgeB().Next != nil {
		j.GetEdgeB().Next.Prev = j.GetEdgeB().Prev
	}

	if j.GetEdgeB() == bodyB.JointList {
		bodyB.JointList = j.GetEdgeB().Next
	}

	j.GetEdgeB().Prev = nil
	j.GetEdgeB().Next = nil

	JointDestroy(j)

	Assert(w.JointCount > 0)
	w.JointCount--

	// If the joint prevents collisions, then flag any contacts for filtering.
	if collideConnected == false {
		edge := bodyB.GetContactList()
		for edge != nil {
			if edge.Other == bodyA {
				// Flag the contact for filtering at the next time step (where either
				// body is awake).
				edge.Contact.FlagForFiltering()
			}

			edge = edge.Next
		}
	}
}

func (w *World) SetAllowSleeping(flag bool) {
	if flag == w.AllowSleep {
		return
	}

	w.AllowSleep = flag
	if w.AllowSleep == false {
		for b := w.BodyList; b != nil; b = b.Next {
			b.SetAwake(true)
		}
	}
}

func (w *World) SetSubStepping(flag bool) {
	w.SubStepping = flag
}

func (w *World) SetContinuousPhysics(flag bool) {
	w.ContinuousPhysics = flag
}

/// Grow an island from a seed body by depth-first search over the
/// contact and joint graphs. Static bodies join an island but do not
/// propagate it, which keeps islands small.
func (w *World) buildIslandFrom(seed *Body, island *Island, stack []*Body) {
	island.Clear()
	stack = stack[:0]
	stack = append(stack, seed)
	seed.Flags |= bodyIslandFlag

	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		Assert(b.IsActive())
		island.AddBody(b)

		// Keep the body awake without resetting its sleep timer.
		b.Flags |= bodyAwakeFlag

		if !b.IsSpeedable() {
			continue
		}

		for ce := b.ContactList; ce != nil; ce = ce.Next {
			contact := ce.Contact

			if (contact.GetFlags() & contactIslandFlag) != 0 {
				continue
			}
			if !contact.IsEnabled() || !contact.IsTouching() {
				continue
			}
			if contact.GetFixtureA().IsSensor() || contact.GetFixtureB().IsSensor() {
				continue
			}

			island.AddContact(contact)
			contact.SetFlags(contact.GetFlags() | contactIslandFlag)

			other := ce.Other
			if (other.Flags & bodyIslandFlag) == 0 {
				stack = append(stack, other)
				other.Flags |= bodyIslandFlag
			}
		}

		for je := b.JointList; je != nil; je = je.Next {
			if je.Joint.GetIslandFlag() {
				continue
			}

			// Joints to inactive bodies are not simulated.
			other := je.Other
			if !other.IsActive() {
				continue
			}

			island.Add(je.Joint)
			je.Joint.SetIslandFlag(true)

			if (other.Flags & bodyIslandFlag) == 0 {
				stack = append(stack, other)
				other.Flags |= bodyIslandFlag
			}
		}
	}
}

/// The regular solve phase: build each awake island, solve it, and
/// re-synchronize the broad-phase for everything that moved.
func (w *World) Solve(step StepConf) RegStepStats {
	var stats RegStepStats

	w.Profile.SolveInit = 0.0
	w.Profile.SolveVelocity = 0.0
	w.Profile.SolvePosition = 0.0

	// Size the island for the worst case.
	island := MakeIsland(
		w.BodyCount,
		w.ContactManager.ContactCount,
		w.JointCount,
		w.ContactManager.ContactListener,
	)

	// Clear island membership everywhere.
	for b := w.BodyList; b != nil; b = b.Next {
		b.Flags &= ^bodyIslandFlag
	}
	for c := w.ContactManager.ContactList; c != nil; c = c.GetNext() {
		c.SetFlags(c.GetFlags() & ^contactIslandFlag)
	}
	for j := w.JointList; j != nil; j = j.GetNext() {
		j.SetIslandFlag(false)
	}

	stack := make([]*Body, 0, w.BodyCount)

	for seed := w.BodyList; seed != nil; seed = seed.Next {
		if (seed.Flags & bodyIslandFlag) != 0 {
			continue
		}
		if !seed.IsAwake() || !seed.IsActive() {
			continue
		}
		// The seed must be able to move: dynamic or kinematic.
		if !seed.IsSpeedable() {
			continue
		}

		w.buildIslandFrom(seed, &island, stack)
		stats.IslandsFound++

		profile := MakeProfile()
		solved, slept := island.Solve(&profile, step, w.Gravity, w.AllowSleep)
		if solved {
			stats.IslandsSolved++
		}
		stats.BodiesSlept += slept
		w.Profile.SolveInit += profile.SolveInit
		w.Profile.SolveVelocity += profile.SolveVelocity
		w.Profile.SolvePosition += profile.SolvePosition

		// Let static bodies participate in other islands too.
		for i := 0; i < island.BodyCount; i++ {
			b := island.Bodies[i]
			if !b.IsSpeedable() {
				b.Flags &= ^bodyIslandFlag
			}
		}
	}

	{
		timer := MakeTimer()

		// Re-fit the broad-phase proxies of every body that moved.
		for b := w.BodyList; b != nil; b = b.GetNext() {
			if (b.Flags & bodyIslandFlag) == 0 {
				continue
			}
			if !b.IsSpeedable() {
				continue
			}
			stats.ProxiesMoved += b.SynchronizeFixtures()
		}

		// Moved proxies may have produced fresh pairs.
		added, _ := w.ContactManager.FindNewContacts()
		stats.ContactsAdded = added
		w.Profile.Broadphase = timer.GetMilliseconds()
	}

	return stats
}


/// The cached-or-computed time of impact for one contact, in [0, 1].
/// Contacts that cannot participate in continuous collision report 1.
/// The second return is false when the contact was skipped, true when a
/// fresh TOI computation ran.
func (w *World) contactTOIAlpha(c ContactInterface, step StepConf) (float64, bool) {
	if (c.GetFlags() & contactTOIFlag) != 0 {
		// Still valid from an earlier pass.
		return c.GetTOI(), false
	}

	fA := c.GetFixtureA()
	fB := c.GetFixtureB()

	if fA.IsSensor() || fB.IsSensor() {
		return 1.0, false
	}

	bA := fA.GetBody()
	bB := fB.GetBody()

	typeA := bA.Type
	typeB := bB.Type
	Assert(typeA == DynamicBody || typeB == DynamicBody)

	// At least one side must be awake and able to move.
	activeA := bA.IsAwake() && typeA != StaticBody
	activeB := bB.IsAwake() && typeB != StaticBody
	if !activeA && !activeB {
		return 1.0, false
	}

	// Two ordinary dynamic bodies rely on the discrete solver; continuous
	// handling needs a bullet or a non-dynamic body on one side.
	collideA := bA.IsImpenetrable() || typeA != DynamicBody
	collideB := bB.IsImpenetrable() || typeB != DynamicBody
	if !collideA && !collideB {
		return 1.0, false
	}

	// Bring both sweeps onto the same interval start.
	alpha0 := bA.Sweep.Alpha0
	if bA.Sweep.Alpha0 < bB.Sweep.Alpha0 {
		alpha0 = bB.Sweep.Alpha0
		bA.Sweep.Advance0(alpha0)
	} else if bB.Sweep.Alpha0 < bA.Sweep.Alpha0 {
		alpha0 = bA.Sweep.Alpha0
		bB.Sweep.Advance0(alpha0)
	}
	Assert(alpha0 < 1.0)

	input := MakeTOIInput()
	input.ProxyA.Set(fA.GetShape(), c.GetChildIndexA())
	input.ProxyB.Set(fB.GetShape(), c.GetChildIndexB())
	input.SweepA = bA.Sweep
	input.SweepB = bB.Sweep
	input.TMax = 1.0
	input.LinearSlop = w.LinearSlop
	input.MaxRootIters = step.MaxTOIRootIterCount

	output := MakeTOIOutput()
	TimeOfImpact(&output, &input)

	// Map the sub-interval fraction back onto the whole step.
	alpha := 1.0
	if output.State == TOIStateTouching {
		alpha = math.Min(alpha0+(1.0-alpha0)*output.T, 1.0)
	}

	c.SetTOI(alpha)
	c.SetFlags(c.GetFlags() | contactTOIFlag)
	return alpha, true
}

/// Pull the touching neighbors of a TOI body into the island, advancing
/// them to the TOI time first. Only static, kinematic, and bullet
/// neighbors join; plain dynamic-dynamic pairs stay with the discrete
/// solver.
func (w *World) gatherTOIContacts(body *Body, island *Island, minAlpha float64) {
	if body.Type != DynamicBody {
		return
	}

	for ce := body.ContactList; ce != nil; ce = ce.Next {
		if island.BodyCount == island.BodyCapacity {
			break
		}
		if island.ContactCount == island.ContactCapacity {
			break
		}

		contact := ce.Contact
		if (contact.GetFlags() & contactIslandFlag) != 0 {
			continue
		}

		other := ce.Other
		if other.Type == DynamicBody && !body.IsImpenetrable() && !other.IsImpenetrable() {
			continue
		}

		if contact.GetFixtureA().IsSensor() || contact.GetFixtureB().IsSensor() {
			continue
		}

		// Tentatively advance the neighbor; undone if the contact turns
		// out disabled or separated.
		backup := other.Sweep
		if (other.Flags & bodyIslandFlag) == 0 {
			other.Advance(minAlpha)
		}

		ContactUpdate(contact, w.ContactManager.ContactListener)

		if !contact.IsEnabled() || !contact.IsTouching() {
			other.Sweep = backup
			other.SynchronizeTransformation()
			continue
		}

		contact.SetFlags(contact.GetFlags() | contactIslandFlag)
		island.AddContact(contact)

		if (other.Flags & bodyIslandFlag) != 0 {
			continue
		}

		other.Flags |= bodyIslandFlag
		if other.Type != StaticBody {
			other.SetAwake(true)
		}
		island.AddBody(other)
	}
}

/// The continuous-collision phase: repeatedly find the earliest time of
/// impact among eligible contacts, advance the two bodies there, solve a
/// small sub-step island, and re-pair the broad-phase, until no contact
/// hits inside the step or the pass budget runs out.
func (w *World) SolveTOI(step StepConf) ToiStepStats {
	var stats ToiStepStats

	island := MakeIsland(2*MaxTOIContacts, MaxTOIContacts, 0, w.ContactManager.ContactListener)

	if w.StepComplete {
		for b := w.BodyList; b != nil; b = b.Next {
			b.Flags &= ^bodyIslandFlag
			b.Sweep.Alpha0 = 0.0
		}

		for c := w.ContactManager.ContactList; c != nil; c = c.GetNext() {
			// Invalidate all cached TOIs.
			c.SetFlags(c.GetFlags() & ^(contactTOIFlag | contactIslandFlag))
			c.SetTOICount(0)
			c.SetTOI(1.0)
		}
	}

	for pass := 0; pass < step.MaxTOIIterations; pass++ {
		// Locate the earliest TOI among the eligible contacts.
		var minContact ContactInterface = nil // has to be a pointer
		minAlpha := 1.0

		for c := w.ContactManager.ContactList; c != nil; c = c.GetNext() {
			if !c.IsEnabled() {
				continue
			}
			if c.GetTOICount() > step.MaxSubSteps {
				// This contact used up its sub-step budget.
				continue
			}

			alpha, computed := w.contactTOIAlpha(c, step)
			if computed {
				stats.ContactsChecked++
			}
			if alpha < minAlpha {
				minContact = c
				minAlpha = alpha
			}
		}

		if minContact == nil || 1.0-10.0*Epsilon < minAlpha {
			// Nothing hits inside the remainder of the step.
			w.StepComplete = true
			break
		}

		// Advance the two impacting bodies to the TOI.
		fA := minContact.GetFixtureA()
		fB := minContact.GetFixtureB()
		bA := fA.GetBody()
		bB := fB.GetBody()

		backupA := bA.Sweep
		backupB := bB.Sweep

		bA.Advance(minAlpha)
		bB.Advance(minAlpha)

		// Refresh the manifold at the impact poses.
		ContactUpdate(minContact, w.ContactManager.ContactListener)
		minContact.SetFlags(minContact.GetFlags() & ^contactTOIFlag)
		minContact.SetTOICount(minContact.GetTOICount() + 1)

		if !minContact.IsEnabled() || !minContact.IsTouching() {
			// A false alarm: restore and disable for this pass.
			minContact.SetEnabled(false)
			bA.Sweep = backupA
			bB.Sweep = backupB
			bA.SynchronizeTransformation()
			bB.SynchronizeTransformation()
			continue
		}

		bA.SetAwake(true)
		bB.SetAwake(true)

		// Assemble the sub-step island around the impact.
		island.Clear()
		island.AddBody(bA)
		island.AddBody(bB)
		island.AddContact(minContact)

		bA.Flags |= bodyIslandFlag
		bB.Flags |= bodyIslandFlag
		minContact.SetFlags(minContact.GetFlags() | contactIslandFlag)

		w.gatherTOIContacts(bA, &island, minAlpha)
		w.gatherTOIContacts(bB, &island, minAlpha)

		stats.IslandsFound++

		subStep := step
		subStep.Dt = (1.0 - minAlpha) * step.Dt
		subStep.InvDt = 1.0 / subStep.Dt
		subStep.DtRatio = 1.0
		subStep.DoWarmStart = false
		island.SolveTOI(subStep, bA.IslandIndex, bB.IslandIndex)

		// Reset island flags, re-fit proxies, and drop the cached TOIs of
		// every contact touching a displaced body.
		for i := 0; i < island.BodyCount; i++ {
			body := island.Bodies[i]
			body.Flags &= ^bodyIslandFlag

			if body.Type != DynamicBody {
				continue
			}

			stats.ProxiesMoved += body.SynchronizeFixtures()

			for ce := body.ContactList; ce != nil; ce = ce.Next {
				ce.Contact.SetFlags(ce.Contact.GetFlags() & ^(contactTOIFlag | contactIslandFlag))
			}
		}

		// Moved proxies can create or destroy contacts.
		added, _ := w.ContactManager.FindNewContacts()
		stats.ContactsAdded += added

		if w.SubStepping {
			w.StepComplete = false
			break
		}
	}

	return stats
}

/// Advance the world by conf.Dt seconds. Performs narrow-phase refresh,
/// regular island solving, the TOI sub-stepping pass, and sleep
/// management. Returns the per-phase statistics.
func (w *World) Step(conf StepConf) StepStats {
	var stats StepStats

	stepTimer := MakeTimer()

	// If new fixtures were added, we need to find the new contacts.
	if (w.Flags & worldNewFixtureFlag) != 0x0000 {
		added, ignored := w.ContactManager.FindNewContacts()
		stats.Pre.Added += added
		stats.Pre.Ignored += ignored
		w.Flags &= ^worldNewFixtureFlag
	}

	w.Flags |= worldLockedFlag

	step := conf
	step.DtRatio = w.Inv_dt0 * conf.Dt
	step.LinearSlop = w.LinearSlop
	step.AngularSlop = w.AngularSlop
	if conf.Dt > 0.0 {
		step.InvDt = 1.0 / conf.Dt
	} else {
		step.InvDt = 0.0
	}
	if !w.WarmStarting {
		step.DoWarmStart = false
	}

	// Update contacts. This is where some contacts are destroyed.
	{
		timer := MakeTimer()
		updated, destroyed, ignored := w.ContactManager.Collide()
		stats.Pre.Updated = updated
		stats.Pre.Destroyed = destroyed
		stats.Pre.Ignored += ignored
		w.Profile.Collide = timer.GetMilliseconds()
	}

	// Integrate velocities, solve velocity constraints, and integrate positions.
	if w.StepComplete && step.Dt > 0.0 {
		timer := MakeTimer()
		stats.Reg = w.Solve(step)
		w.Profile.Solve = timer.GetMilliseconds()
	}

	// Handle TOI events.
	if w.ContinuousPhysics && step.DoToi && step.Dt > 0.0 {
		timer := MakeTimer()
		stats.Toi = w.SolveTOI(step)
		w.Profile.SolveTOI = timer.GetMilliseconds()
	}

	if step.Dt > 0.0 {
		w.Inv_dt0 = step.InvDt
	}

	if (w.Flags & worldClearAccelerationsFlag) != 0x0000 {
		w.ClearAccelerations()
	}

	w.Flags &= ^worldLockedFlag

	w.Profile.Step = stepTimer.GetMilliseconds()

	return stats
}

/// Zero every body's linear and angular acceleration. Called automatically
/// after each step unless SetAutoClearAccelerations(false).
func (w *World) ClearAccelerations() {
	for body := w.BodyList; body != nil; body = body.GetNext() {
		body.LinearAcceleration.SetZero()
		body.AngularAcceleration = 0.0
	}
}

type WorldQueryWrapper struct {
	BroadPhase *BroadPhase
	Callback   BroadPhaseQueryCallback
}

func MakeWorldQueryWrapper() WorldQueryWrapper {
	return WorldQueryWrapper{}
}

func (query *WorldQueryWrapper) QueryCallback(proxyId int) bool {
	proxy := query.BroadPhase.GetUserData(proxyId).(*FixtureProxy)
	return query.Callback(proxy.Fixture)
}

/// Query the world for all fixtures whose fat AABB overlaps the given
/// AABB. The visitor returns false to stop the query.
func (w *World) QueryAABB(callback BroadPhaseQueryCallback, aabb AABB) {
	wrapper := MakeWorldQueryWrapper()
	wrapper.BroadPhase = &w.ContactManager.BroadPhase
	wrapper.Callback = callback
	w.ContactManager.BroadPhase.Query(wrapper.QueryCallback, aabb)
}

/// Ray-cast the world for all fixtures in the path of the ray. The visitor
/// controls continuation: return -1 to ignore the hit, 0 to stop, the
/// fraction to clip the ray, or 1 to continue unclipped.
func (w *World) RayCast(callback RaycastCallback, point1 Vec2, point2 Vec2) {

	// TreeRayCastCallback
	wrapper := func(input RayCastInput, nodeId int) float64 {

		userData := w.ContactManager.BroadPhase.GetUserData(nodeId)
		proxy := userData.(*FixtureProxy)
		fixture := proxy.Fixture
		index := proxy.ChildIndex
		output := MakeRayCastOutput()
		hit := fixture.RayCast(&output, input, index)

		if hit {
			fraction := output.Fraction
			point := (input.P1.Scale((1.0-fraction))).Add(input.P2.Scale(fraction))
			return callback(fixture, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := MakeRayCastInput()
	input.MaxFraction = 1.0
	input.P1 = point1
	input.P2 = point2
	w.ContactManager.BroadPhase.RayCast(wrapper, input)
}

func (w World) GetProxyCount() int {
	return w.ContactManager.BroadPhase.GetProxyCount()
}

func (w World) GetTreeHeight() int {
	return w.ContactManager.BroadPhase.GetTreeHeight()
}

func (w World) GetTreeBalance() int {
	return w.ContactManager.BroadPhase.GetTreeBalance()
}

func (w World) GetTreeQuality() float64 {
	return w.ContactManager.BroadPhase.GetTreeQuality()
}

/// Shift the world origin. Useful for large worlds. The body shift formula
/// is: position -= newOrigin.
func (w *World) ShiftOrigin(newOrigin Vec2) {

	AssertMsg((w.Flags&worldLockedFlag) == 0, "ShiftOrigin while world is locked")
	if (w.Flags & worldLockedFlag) == worldLockedFlag {
		return
	}

	for b := w.BodyList; b != nil; b = b.Next {
		b.Xf.P = b.Xf.P.Sub(newOrigin)
		b.Sweep.C0 = b.Sweep.C0.Sub(newOrigin)
		b.Sweep.C = b.Sweep.C.Sub(newOrigin)
	}

	for j := w.JointList; j != nil; j = j.GetNext() {
		j.ShiftOrigin(newOrigin)
	}

	w.ContactManager.BroadPhase.ShiftOrigin(newOrigin)
}
