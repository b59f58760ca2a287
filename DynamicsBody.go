package planar

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// kinematic: zero mass, non-zero velocity set by user, moved by solver
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver

type BodyType uint8

const (
	StaticBody BodyType = iota
	KinematicBody
	DynamicBody
)

const (
	bodyIslandFlag        uint32 = 0x0001
	bodyAwakeFlag         uint32 = 0x0002
	bodyAutoSleepFlag     uint32 = 0x0004
	bodyImpenetrableFlag  uint32 = 0x0008
	bodyFixedRotationFlag uint32 = 0x0010
	bodyActiveFlag        uint32 = 0x0020
	bodyTOIFlag           uint32 = 0x0040
)

/// A body definition holds all the data needed to construct a rigid b.
/// You can safely re-use body definitions. Shapes are added to a body after construction.
type BodyDef struct {

	/// The body type: static, kinematic, or dynamic.
	/// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type BodyType

	/// The world position of the b. Avoid creating bodies at the origin
	/// since this can lead to many overlapping shapes.
	Position Vec2

	/// The world angle of the body in radians.
	Angle float64

	/// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity Vec2

	/// The angular velocity of the b.
	AngularVelocity float64

	/// Linear damping is use to reduce the linear velocity. The damping parameter
	/// can be larger than 1.0 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	/// Units are 1/time
	LinearDamping float64

	/// Angular damping is use to reduce the angular velocity. The damping parameter
	/// can be larger than 1.0 but the damping effect becomes sensitive to the
	/// time step when the damping parameter is large.
	/// Units are 1/time
	AngularDamping float64

	/// Set this flag to false if this body should never fall asleep. Note that
	/// this increases CPU usage.
	AllowSleep bool

	/// Is this body initially awake or sleeping?
	Awake bool

	/// Should this body be prevented from rotating? Useful for characters.
	FixedRotation bool

	/// Is this a fast moving body that should be prevented from tunneling through
	/// other moving bodies? Note that all bodies are prevented from tunneling through
	/// kinematic and static bodies. This setting is only considered on dynamic bodies.
	/// @warning You should use this flag sparingly since it increases processing time.
	Bullet bool

	/// Does this body start out active?
	Active bool

	/// Use this to store application specific body data.
	UserData interface{}

	/// Scale the gravity applied to this b.
	GravityScale float64
}

/// This constructor sets the body definition default values.
func MakeBodyDef() BodyDef {
	return BodyDef{
		UserData:        nil,
		Position:        MakeVec2(0, 0),
		Angle:           0.0,
		LinearVelocity:  MakeVec2(0, 0),
		AngularVelocity: 0.0,
		LinearDamping:   0.0,
		AngularDamping:  0.0,
		AllowSleep:      true,
		Awake:           true,
		FixedRotation:   false,
		Bullet:          false,
		Type:            StaticBody,
		Active:          true,
		GravityScale:    1.0,
	}
}

func NewBodyDef() *BodyDef {
	res := MakeBodyDef()
	return &res
}

type Body struct {
	Type BodyType

	Flags uint32

	IslandIndex int

	Xf    Transformation // the body origin transform
	Sweep Sweep     // the swept motion for CCD

	LinearVelocity  Vec2
	AngularVelocity float64

	// Accelerations persist across steps until cleared; gravity is applied
	// separately, scaled by GravityScale.
	LinearAcceleration  Vec2
	AngularAcceleration float64

	World *World
	Prev  *Body
	Next  *Body

	FixtureList  *Fixture // linked list
	FixtureCount int

	JointList   *JointEdge   // linked list
	ContactList *ContactEdge // linked list

	Mass, InvMass float64

	// Rotational inertia about the center of mass.
	I, InvI float64

	LinearDamping  float64
	AngularDamping float64
	GravityScale   float64

	SleepTime float64

	UserData interface{}
}

func (b Body) GetType() BodyType {
	return b.Type
}

func (b *Body) setFlag(mask uint32, on bool) {
	if on {
		b.Flags |= mask
	} else {
		b.Flags &= ^mask
	}
}

func (b Body) hasFlag(mask uint32) bool {
	return (b.Flags & mask) == mask
}

/// A speedable body can have non-zero velocity: kinematic or dynamic.
func (b Body) IsSpeedable() bool {
	return b.Type != StaticBody
}

/// An accelerable body responds to forces and gravity: dynamic only.
func (b Body) IsAccelerable() bool {
	return b.Type == DynamicBody
}

func (b Body) GetTransformation() Transformation {
	return b.Xf
}

func (b Body) GetPosition() Vec2 {
	return b.Xf.P
}

func (b Body) GetAngle() float64 {
	return b.Sweep.A
}

func (b Body) GetWorldCenter() Vec2 {
	return b.Sweep.C
}

func (b Body) GetLocalCenter() Vec2 {
	return b.Sweep.LocalCenter
}

func (b *Body) SetLinearVelocity(v Vec2) {
	if b.Type == StaticBody {
		return
	}

	if v.Dot(v) > 0.0 {
		b.SetAwake(true)
	}

	b.LinearVelocity = v
}

func (b Body) GetLinearVelocity() Vec2 {
	return b.LinearVelocity
}

func (b *Body) SetAngularVelocity(w float64) {
	if b.Type == StaticBody {
		return
	}

	if w*w > 0.0 {
		b.SetAwake(true)
	}

	b.AngularVelocity = w
}

func (b Body) GetAngularVelocity() float64 {
	return b.AngularVelocity
}

func (b Body) GetMass() float64 {
	return b.Mass
}

func (b Body) GetInertia() float64 {
	return b.I + b.Mass*b.Sweep.LocalCenter.Dot(b.Sweep.LocalCenter)
}

func (b Body) GetMassData(data *MassData) {
	data.Mass = b.Mass
	data.I = b.I + b.Mass*b.Sweep.LocalCenter.Dot(b.Sweep.LocalCenter)
	data.Center = b.Sweep.LocalCenter
}

func (b Body) GetWorldPoint(localPoint Vec2) Vec2 {
	return b.Xf.Apply(localPoint)
}

func (b Body) GetWorldVector(localVector Vec2) Vec2 {
	return b.Xf.Q.Rotate(localVector)
}

func (b Body) GetLocalPoint(worldPoint Vec2) Vec2 {
	return b.Xf.ApplyInverse(worldPoint)
}

func (b Body) GetLocalVector(worldVector Vec2) Vec2 {
	return b.Xf.Q.InvRotate(worldVector)
}

func (b Body) GetLinearVelocityFromWorldPoint(worldPoint Vec2) Vec2 {
	return b.LinearVelocity.Add(CrossSV(b.AngularVelocity, worldPoint.Sub(b.Sweep.C)))
}

func (b Body) GetLinearVelocityFromLocalPoint(localPoint Vec2) Vec2 {
	return b.GetLinearVelocityFromWorldPoint(b.GetWorldPoint(localPoint))
}

func (b Body) GetLinearDamping() float64 {
	return b.LinearDamping
}

func (b *Body) SetLinearDamping(linearDamping float64) {
	b.LinearDamping = linearDamping
}

func (b Body) GetAngularDamping() float64 {
	return b.AngularDamping
}

func (b *Body) SetAngularDamping(angularDamping float64) {
	b.AngularDamping = angularDamping
}

func (b Body) GetGravityScale() float64 {
	return b.GravityScale
}

func (b *Body) SetGravityScale(scale float64) {
	b.GravityScale = scale
}

/// An impenetrable (bullet) body gets continuous collision handling
/// against other dynamic bodies in the TOI sub-stepper.
func (b *Body) SetImpenetrable(flag bool) {
	b.setFlag(bodyImpenetrableFlag, flag)
}

func (b Body) IsImpenetrable() bool {
	return b.hasFlag(bodyImpenetrableFlag)
}

/// Waking resets the sleep timer; putting a body to sleep also zeroes
/// its velocities and accelerations.
func (b *Body) SetAwake(flag bool) {
	b.setFlag(bodyAwakeFlag, flag)
	b.SleepTime = 0.0
	if !flag {
		b.LinearVelocity.SetZero()
		b.AngularVelocity = 0.0
		b.LinearAcceleration.SetZero()
		b.AngularAcceleration = 0.0
	}
}

func (b Body) IsAwake() bool {
	return b.hasFlag(bodyAwakeFlag)
}

func (b Body) IsActive() bool {
	return b.hasFlag(bodyActiveFlag)
}

func (b Body) IsFixedRotation() bool {
	return b.hasFlag(bodyFixedRotationFlag)
}

func (b *Body) SetSleepingAllowed(flag bool) {
	b.setFlag(bodyAutoSleepFlag, flag)
	if !flag {
		b.SetAwake(true)
	}
}

func (b Body) IsSleepingAllowed() bool {
	return b.hasFlag(bodyAutoSleepFlag)
}

func (b Body) GetFixtureList() *Fixture {
	return b.FixtureList
}

func (b Body) GetJointList() *JointEdge {
	return b.JointList
}

func (b Body) GetContactList() *ContactEdge {
	return b.ContactList
}

func (b Body) GetNext() *Body {
	return b.Next
}

func (b *Body) SetUserData(data interface{}) {
	b.UserData = data
}

func (b Body) GetUserData() interface{} {
	return b.UserData
}

/// Set the accelerations directly. The linear part is in world
/// coordinates; gravity is added on top of this during integration.
func (b *Body) SetAcceleration(linear Vec2, angular float64) {
	if !b.IsAccelerable() {
		return
	}

	AssertMsg(linear.IsValid() && IsValid(angular), "acceleration must be finite")

	b.LinearAcceleration = linear
	if (b.Flags & bodyFixedRotationFlag) == 0 {
		b.AngularAcceleration = angular
	}
}

func (b Body) GetLinearAcceleration() Vec2 {
	return b.LinearAcceleration
}

func (b Body) GetAngularAcceleration() float64 {
	return b.AngularAcceleration
}

func (b *Body) ApplyForce(force Vec2, point Vec2, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping.
	if b.IsAwake() {
		b.LinearAcceleration = b.LinearAcceleration.Add(force.Scale(b.InvMass))
		b.AngularAcceleration += b.InvI * point.Sub(b.Sweep.C).Cross(force)
	}
}

func (b *Body) ApplyForceToCenter(force Vec2, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping
	if b.IsAwake() {
		b.LinearAcceleration = b.LinearAcceleration.Add(force.Scale(b.InvMass))
	}
}

func (b *Body) ApplyTorque(torque float64, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping
	if b.IsAwake() {
		b.AngularAcceleration += b.InvI * torque
	}
}

func (b *Body) ApplyLinearImpulse(impulse Vec2, point Vec2, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if b.IsAwake() {
		b.LinearVelocity = b.LinearVelocity.Add(impulse.Scale(b.InvMass))
		b.AngularVelocity += b.InvI * point.Sub(b.Sweep.C).Cross(impulse)
	}
}

func (b *Body) ApplyLinearImpulseToCenter(impulse Vec2, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if b.IsAwake() {
		b.LinearVelocity = b.LinearVelocity.Add(impulse.Scale(b.InvMass))
	}
}

func (b *Body) ApplyAngularImpulse(impulse float64, wake bool) {
	if !b.IsAccelerable() {
		return
	}

	if wake && !b.IsAwake() {
		b.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if b.IsAwake() {
		b.AngularVelocity += b.InvI * impulse
	}
}

func (b *Body) SynchronizeTransformation() {
	b.Xf.Q.Set(b.Sweep.A)
	b.Xf.P = b.Sweep.C.Sub(b.Xf.Q.Rotate(b.Sweep.LocalCenter))
}

func (b *Body) Advance(alpha float64) {
	// Advance to the new safe time. This doesn't sync the broad-phase.
	b.Sweep.Advance0(alpha)
	b.Sweep.C = b.Sweep.C0
	b.Sweep.A = b.Sweep.A0
	b.Xf.Q.Set(b.Sweep.A)
	b.Xf.P = b.Sweep.C.Sub(b.Xf.Q.Rotate(b.Sweep.LocalCenter))
}

func (b Body) GetWorld() *World {
	return b.World
}


func NewBody(bd *BodyDef, world *World) *Body {
	Assert(bd.Position.IsValid())
	Assert(bd.LinearVelocity.IsValid())
	Assert(IsValid(bd.Angle))
	Assert(IsValid(bd.AngularVelocity))
	Assert(IsValid(bd.AngularDamping) && bd.AngularDamping >= 0.0)
	Assert(IsValid(bd.LinearDamping) && bd.LinearDamping >= 0.0)

	flags := uint32(0)
	if bd.Bullet {
		flags |= bodyImpenetrableFlag
	}
	if bd.FixedRotation {
		flags |= bodyFixedRotationFlag
	}
	if bd.AllowSleep {
		flags |= bodyAutoSleepFlag
	}
	if bd.Awake {
		flags |= bodyAwakeFlag
	}
	if bd.Active {
		flags |= bodyActiveFlag
	}

	b := &Body{
		Type:  bd.Type,
		Flags: flags,
		World: world,

		LinearVelocity:  bd.LinearVelocity,
		AngularVelocity: bd.AngularVelocity,

		LinearDamping:  bd.LinearDamping,
		AngularDamping: bd.AngularDamping,
		GravityScale:   bd.GravityScale,

		UserData: bd.UserData,
	}

	b.Xf.Set(bd.Position, bd.Angle)

	b.Sweep.C0 = b.Xf.P
	b.Sweep.C = b.Xf.P
	b.Sweep.A0 = bd.Angle
	b.Sweep.A = bd.Angle

	// A massless dynamic body is forced to unit mass in ResetMassData;
	// start there so the body behaves before fixtures arrive.
	if b.Type == DynamicBody {
		b.Mass = 1.0
		b.InvMass = 1.0
	}

	return b
}

func (b *Body) SetType(bodytype BodyType) {

	AssertMsg(b.World.IsLocked() == false, "SetType while world is locked")
	if b.World.IsLocked() == true {
		return
	}

	if b.Type == bodytype {
		return
	}

	b.Type = bodytype

	b.ResetMassData()

	if b.Type == StaticBody {
		b.LinearVelocity.SetZero()
		b.AngularVelocity = 0.0
		b.Sweep.A0 = b.Sweep.A
		b.Sweep.C0 = b.Sweep.C
		b.SynchronizeFixtures()
	}

	b.SetAwake(true)

	b.LinearAcceleration.SetZero()
	b.AngularAcceleration = 0.0

	// Delete the attached contacts.
	ce := b.ContactList
	for ce != nil {
		ce0 := ce
		ce = ce.Next
		b.World.ContactManager.Destroy(ce0.Contact)
	}

	b.ContactList = nil

	// Touch the proxies so that new contacts will be created (when appropriate)
	broadPhase := b.World.ContactManager.BroadPhase
	for f := b.FixtureList; f != nil; f = f.Next {
		proxyCount := f.ProxyCount
		for i := 0; i < proxyCount; i++ {
			broadPhase.TouchProxy(f.Proxies[i].ProxyId)
		}
	}
}

func (b *Body) CreateFixtureFromDef(def *FixtureDef) *Fixture {

	AssertMsg(b.World.IsLocked() == false, "CreateFixture while world is locked")
	if b.World.IsLocked() == true {
		return nil
	}

	vertexRadius := def.Shape.GetRadius()
	if vertexRadius < DefaultMinVertexRadius || vertexRadius > b.World.MaxVertexRadius {
		AssertMsg(false, "fixture shape vertex radius out of range")
		return nil
	}

	fixture := NewFixture()
	fixture.Create(b, def)

	if b.IsActive() {
		broadPhase := &b.World.ContactManager.BroadPhase
		fixture.CreateProxies(broadPhase, b.Xf)
	}

	fixture.Next = b.FixtureList
	b.FixtureList = fixture
	b.FixtureCount++

	fixture.Body = b

	// Adjust mass properties if needed.
	if fixture.Density > 0.0 {
		b.ResetMassData()
	}

	// Let the world know we have a new fixture. This will cause new contacts
	// to be created at the beginning of the next time step.
	b.World.Flags |= worldNewFixtureFlag

	return fixture
}

func (b *Body) CreateFixture(shape ShapeInterface, density float64) *Fixture {

	def := MakeFixtureDef()
	def.Shape = shape
	def.Density = density

	return b.CreateFixtureFromDef(&def)
}

func (b *Body) DestroyFixture(fixture *Fixture) {

	if fixture == nil {
		return
	}

	Assert(b.World.IsLocked() == false)
	if b.World.IsLocked() == true {
		return
	}

	Assert(fixture.Body == b)

	// Remove the fixture from this body's singly linked list.
	Assert(b.FixtureCount > 0)
	node := &b.FixtureList
	found := false
	for *node != nil {
		if *node == fixture {
			*node = fixture.Next
			found = true
			break
		}

		node = &(*node).Next
	}

	// You tried to remove a shape that is not attached to this b.
	Assert(found)

	// Destroy any contacts associated with the fixture.
	edge := b.ContactList
	for edge != nil {
		c := edge.Contact
		edge = edge.Next

		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()

		if fixture == fixtureA || fixture == fixtureB {
			// This destroys the contact and removes it from
			// this body's contact list.
			b.World.ContactManager.Destroy(c)
		}
	}

	if b.IsActive() {
		broadPhase := &b.World.ContactManager.BroadPhase
		fixture.DestroyProxies(broadPhase)
	}

	fixture.Body = nil
	fixture.Next = nil
	fixture.Destroy()

	b.FixtureCount--

	// Reset the mass data.
	b.ResetMassData()
}

func (b *Body) ResetMassData() {

	// Compute mass data from shapes. Each shape has its own density.
	b.Mass = 0.0
	b.InvMass = 0.0
	b.I = 0.0
	b.InvI = 0.0
	b.Sweep.LocalCenter.SetZero()

	// Static and kinematic bodies have zero mass.
	if b.Type == StaticBody || b.Type == KinematicBody {
		b.Sweep.C0 = b.Xf.P
		b.Sweep.C = b.Xf.P
		b.Sweep.A0 = b.Sweep.A
		return
	}

	Assert(b.Type == DynamicBody)

	// Accumulate mass over all fixtures.
	localCenter := MakeVec2(0, 0)
	for f := b.FixtureList; f != nil; f = f.Next {
		if f.Density == 0.0 {
			continue
		}

		massData := NewMassData()
		f.GetMassData(massData)
		b.Mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Scale(massData.Mass))
		b.I += massData.I
	}

	// Compute center of mass.
	if b.Mass > 0.0 {
		b.InvMass = 1.0 / b.Mass
		localCenter = localCenter.Scale(b.InvMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		b.Mass = 1.0
		b.InvMass = 1.0
	}

	if b.I > 0.0 && (b.Flags&bodyFixedRotationFlag) == 0 {
		// Center the inertia about the center of mass.
		b.I -= b.Mass * localCenter.Dot(localCenter)
		Assert(b.I > 0.0)
		b.InvI = 1.0 / b.I

	} else {
		b.I = 0.0
		b.InvI = 0.0
	}

	// Move center of mass.
	oldCenter := b.Sweep.C
	b.Sweep.LocalCenter = localCenter
	b.Sweep.C0 = b.Xf.Apply(b.Sweep.LocalCenter)
	b.Sweep.C = b.Xf.Apply(b.Sweep.LocalCenter)

	// Update center of mass velocity.
	b.LinearVelocity = b.LinearVelocity.Add(CrossSV(b.AngularVelocity, b.Sweep.C.Sub(oldCenter)))
}

func (b *Body) SetMassData(massData *MassData) {

	Assert(b.World.IsLocked() == false)
	if b.World.IsLocked() == true {
		return
	}

	if b.Type != DynamicBody {
		return
	}

	b.InvMass = 0.0
	b.I = 0.0
	b.InvI = 0.0

	b.Mass = massData.Mass
	if b.Mass <= 0.0 {
		b.Mass = 1.0
	}

	b.InvMass = 1.0 / b.Mass

	if massData.I > 0.0 && (b.Flags&bodyFixedRotationFlag) == 0 {
		b.I = massData.I - b.Mass*massData.Center.Dot(massData.Center)
		Assert(b.I > 0.0)
		b.InvI = 1.0 / b.I
	}

	// Move center of mass.
	oldCenter := b.Sweep.C
	b.Sweep.LocalCenter = massData.Center
	b.Sweep.C0 = b.Xf.Apply(b.Sweep.LocalCenter)
	b.Sweep.C = b.Xf.Apply(b.Sweep.LocalCenter)

	// Update center of mass velocity.
	b.LinearVelocity = b.LinearVelocity.Add(CrossSV(b.AngularVelocity, b.Sweep.C.Sub(oldCenter)))
}

func (b Body) ShouldCollide(other *Body) bool {

	// At least one body should be dynamic.
	if b.Type != DynamicBody && other.Type != DynamicBody {
		return false
	}

	// Does a joint prevent collision?
	for jn := b.JointList; jn != nil; jn = jn.Next {
		if jn.Other == other {
			if jn.Joint.IsCollideConnected() == false {
				return false
			}
		}
	}

	return true
}

func (b *Body) SetTransformation(position Vec2, angle float64) {
	Assert(b.World.IsLocked() == false)

	if b.World.IsLocked() == true {
		return
	}

	b.Xf.Q.Set(angle)
	b.Xf.P = position

	b.Sweep.C = b.Xf.Apply(b.Sweep.LocalCenter)
	b.Sweep.A = angle

	b.Sweep.C0 = b.Sweep.C
	b.Sweep.A0 = angle

	broadPhase := &b.World.ContactManager.BroadPhase
	for f := b.FixtureList; f != nil; f = f.Next {
		f.Synchronize(broadPhase, b.Xf, b.Xf)
	}
}

/// Update the broad-phase proxies of every fixture to cover the sweep.
/// Returns the number of proxies moved.
func (b *Body) SynchronizeFixtures() int {
	xf1 := MakeTransformation()
	xf1.Q.Set(b.Sweep.A0)
	xf1.P = b.Sweep.C0.Sub(xf1.Q.Rotate(b.Sweep.LocalCenter))

	moved := 0
	broadPhase := &b.World.ContactManager.BroadPhase
	for f := b.FixtureList; f != nil; f = f.Next {
		moved += f.Synchronize(broadPhase, xf1, b.Xf)
	}

	return moved
}

func (b *Body) SetActive(flag bool) {

	Assert(b.World.IsLocked() == false)

	if flag == b.IsActive() {
		return
	}

	if flag {
		b.Flags |= bodyActiveFlag

		// Create all proxies.
		broadPhase := &b.World.ContactManager.BroadPhase
		for f := b.FixtureList; f != nil; f = f.Next {
			f.CreateProxies(broadPhase, b.Xf)
		}

		// Contacts are created the next time step.
	} else {
		b.Flags &= ^bodyActiveFlag

		// Destroy all proxies.
		broadPhase := &b.World.ContactManager.BroadPhase
		for f := b.FixtureList; f != nil; f = f.Next {
			f.DestroyProxies(broadPhase)
		}

		// Destroy the attached contacts.
		ce := b.ContactList
		for ce != nil {
			ce0 := ce
			ce = ce.Next
			b.World.ContactManager.Destroy(ce0.Contact)
		}

		b.ContactList = nil
	}
}

func (b *Body) SetFixedRotation(flag bool) {
	if b.IsFixedRotation() == flag {
		return
	}

	b.setFlag(bodyFixedRotationFlag, flag)
	b.AngularVelocity = 0.0
	b.ResetMassData()
}
