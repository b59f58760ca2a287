package planar

import (
	"math"
)

/// Friction mixing law. The idea is to allow either fixture to drive the friction to zero.
/// For example, anything slides on ice.
func MixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an inelastic surface.
/// For example, a superball bounces on anything.
func MixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}

	return restitution2
}

/// A contact edge is used to connect bodies and contacts together
/// in a contact graph where each body is a node and each contact
/// is an edge. A contact edge belongs to a doubly linked list
/// maintained in each attached body. Each contact has two contact
/// nodes, one for each attached body.
type ContactEdge struct {
	Other   *Body            ///< provides quick access to the other body attached.
	Contact ContactInterface ///< the contact
	Prev    *ContactEdge     ///< the previous contact edge in the body's contact list
	Next    *ContactEdge     ///< the next contact edge in the body's contact list
}

func NewContactEdge() *ContactEdge {
	return &ContactEdge{}
}

const (
	// Used when crawling contact graph when forming islands.
	contactIslandFlag uint32 = 0x0001

	// Set when the shapes are touching.
	contactTouchingFlag uint32 = 0x0002

	// This contact can be disabled (by user)
	contactEnabledFlag uint32 = 0x0004

	// This contact needs filtering because a fixture filter was changed.
	contactFilterFlag uint32 = 0x0008

	// This bullet contact had a TOI event
	contactBulletHitFlag uint32 = 0x0010

	// This contact has a valid cached TOI
	contactTOIFlag uint32 = 0x0020
)

/// A contact manages the relationship between two shapes. A contact exists
/// for each overlapping AABB in the broad-phase (except if filtered), so a
/// contact object may exist that has no contact points.
type ContactInterface interface {
	GetFlags() uint32
	SetFlags(flags uint32)

	GetPrev() ContactInterface
	SetPrev(prev ContactInterface)

	GetNext() ContactInterface
	SetNext(prev ContactInterface)

	GetNodeA() *ContactEdge
	SetNodeA(node *ContactEdge)

	GetNodeB() *ContactEdge
	SetNodeB(node *ContactEdge)

	GetFixtureA() *Fixture
	SetFixtureA(fixture *Fixture)

	GetFixtureB() *Fixture
	SetFixtureB(fixture *Fixture)

	GetChildIndexA() int
	SetChildIndexA(index int)

	GetChildIndexB() int
	SetChildIndexB(index int)

	GetManifold() *Manifold
	SetManifold(manifold *Manifold)

	GetTOICount() int
	SetTOICount(toiCount int)

	GetTOI() float64
	SetTOI(toiCount float64)

	GetFriction() float64
	SetFriction(friction float64)
	ResetFriction()

	GetRestitution() float64
	SetRestitution(restitution float64)
	ResetRestitution()

	GetTangentSpeed() float64
	SetTangentSpeed(tangentSpeed float64)

	IsTouching() bool
	IsEnabled() bool
	SetEnabled(bool)

	Evaluate(manifold *Manifold, xfA Transformation, xfB Transformation)

	FlagForFiltering()

	GetWorldManifold(worldManifold *WorldManifold)
}

type Contact struct {
	Flags uint32

	// World pool and list pointers.
	Prev ContactInterface //should be backed by a pointer
	Next ContactInterface //should be backed by a pointer

	// Nodes for connecting bodies.
	NodeA *ContactEdge
	NodeB *ContactEdge

	FixtureA *Fixture
	FixtureB *Fixture

	IndexA int
	IndexB int

	Manifold *Manifold

	ToiCount     int
	Toi          float64
	Friction     float64
	Restitution  float64
	TangentSpeed float64
}

func (c Contact) GetFlags() uint32 {
	return c.Flags
}

func (c *Contact) SetFlags(flags uint32) {
	c.Flags = flags
}

func (c Contact) GetPrev() ContactInterface {
	return c.Prev
}

func (c *Contact) SetPrev(prev ContactInterface) {
	c.Prev = prev
}

func (c Contact) GetNext() ContactInterface {
	return c.Next
}

func (c *Contact) SetNext(next ContactInterface) {
	c.Next = next
}

func (c Contact) GetNodeA() *ContactEdge {
	return c.NodeA
}

func (c *Contact) SetNodeA(node *ContactEdge) {
	c.NodeA = node
}

func (c Contact) GetNodeB() *ContactEdge {
	return c.NodeB
}

func (c *Contact) SetNodeB(node *ContactEdge) {
	c.NodeB = node
}

func (c Contact) GetFixtureA() *Fixture {
	return c.FixtureA
}

func (c *Contact) SetFixtureA(fixture *Fixture) {
	c.FixtureA = fixture
}

func (c Contact) GetFixtureB() *Fixture {
	return c.FixtureB
}

func (c *Contact) SetFixtureB(fixture *Fixture) {
	c.FixtureB = fixture
}

func (c Contact) GetChildIndexA() int {
	return c.IndexA
}

func (c *Contact) SetChildIndexA(index int) {
	c.IndexA = index
}

func (c Contact) GetChildIndexB() int {
	return c.IndexB
}

func (c *Contact) SetChildIndexB(index int) {
	c.IndexB = index
}

func (c Contact) GetManifold() *Manifold {
	return c.Manifold
}

func (c *Contact) SetManifold(manifold *Manifold) {
	c.Manifold = manifold
}

func (c Contact) GetTOICount() int {
	return c.ToiCount
}

func (c *Contact) SetTOICount(toiCount int) {
	c.ToiCount = toiCount
}

func (c Contact) GetTOI() float64 {
	return c.Toi
}

func (c *Contact) SetTOI(toi float64) {
	c.Toi = toi
}

func (c Contact) GetFriction() float64 {
	return c.Friction
}

func (c *Contact) SetFriction(friction float64) {
	c.Friction = friction
}

func (c *Contact) ResetFriction() {
	c.Friction = MixFriction(c.FixtureA.Friction, c.FixtureB.Friction)
}

func (c Contact) GetRestitution() float64 {
	return c.Restitution
}

func (c *Contact) SetRestitution(restitution float64) {
	c.Restitution = restitution
}

func (c *Contact) ResetRestitution() {
	c.Restitution = MixRestitution(c.FixtureA.Restitution, c.FixtureB.Restitution)
}

func (c Contact) GetTangentSpeed() float64 {
	return c.TangentSpeed
}

func (c *Contact) SetTangentSpeed(speed float64) {
	c.TangentSpeed = speed
}

func (c Contact) GetWorldManifold(worldManifold *WorldManifold) {
	bodyA := c.FixtureA.GetBody()
	bodyB := c.FixtureB.GetBody()
	shapeA := c.FixtureA.GetShape()
	shapeB := c.FixtureB.GetShape()

	worldManifold.Initialize(c.Manifold, bodyA.GetTransformation(), shapeA.GetRadius(), bodyB.GetTransformation(), shapeB.GetRadius())
}

func (c *Contact) SetEnabled(flag bool) {
	if flag {
		c.Flags |= contactEnabledFlag
	} else {
		c.Flags &= ^contactEnabledFlag
	}
}

func (c Contact) IsEnabled() bool {
	return (c.Flags & contactEnabledFlag) == contactEnabledFlag
}

func (c Contact) IsTouching() bool {
	return (c.Flags & contactTouchingFlag) == contactTouchingFlag
}

func (c *Contact) FlagForFiltering() {
	c.Flags |= contactFilterFlag
}

func MakeContact(fA *Fixture, indexA int, fB *Fixture, indexB int) Contact {
	return Contact{
		Flags:       contactEnabledFlag,
		FixtureA:    fA,
		FixtureB:    fB,
		IndexA:      indexA,
		IndexB:      indexB,
		Manifold:    NewManifold(),
		NodeA:       NewContactEdge(),
		NodeB:       NewContactEdge(),
		Friction:    MixFriction(fA.Friction, fB.Friction),
		Restitution: MixRestitution(fA.Restitution, fB.Restitution),
	}
}

/// Carry the accumulated impulses of matching contact features from the
/// previous manifold into the fresh one, so the solver can warm start.
func matchWarmStartImpulses(fresh *Manifold, old Manifold) {
	for i := 0; i < fresh.PointCount; i++ {
		point := &fresh.Points[i]
		point.NormalImpulse = 0.0
		point.TangentImpulse = 0.0

		key := point.Id.Key()
		for j := 0; j < old.PointCount; j++ {
			if old.Points[j].Id.Key() == key {
				point.NormalImpulse = old.Points[j].NormalImpulse
				point.TangentImpulse = old.Points[j].TangentImpulse
				break
			}
		}
	}
}

/// Refresh the manifold and touching state from the bodies' current
/// transforms, dispatch begin/end events on transitions, and give the
/// listener a PreSolve look at touching non-sensor contacts.
/// Note: the fixture AABBs may no longer overlap when this is called.
func ContactUpdate(contact ContactInterface, listener ContactListenerInterface) {
	oldManifold := *contact.GetManifold()

	// A PreSolve disable only lasts one update.
	contact.SetFlags(contact.GetFlags() | contactEnabledFlag)

	wasTouching := contact.IsTouching()

	fixtureA := contact.GetFixtureA()
	fixtureB := contact.GetFixtureB()
	sensor := fixtureA.IsSensor() || fixtureB.IsSensor()

	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()
	xfA := bodyA.GetTransformation()
	xfB := bodyB.GetTransformation()

	touching := false
	if sensor {
		// Sensors report overlap but never build manifolds.
		touching = TestOverlapShapes(
			fixtureA.GetShape(), contact.GetChildIndexA(),
			fixtureB.GetShape(), contact.GetChildIndexB(),
			xfA, xfB)
		contact.GetManifold().PointCount = 0
	} else {
		contact.Evaluate(contact.GetManifold(), xfA, xfB)
		touching = contact.GetManifold().PointCount > 0

		matchWarmStartImpulses(contact.GetManifold(), oldManifold)

		if touching != wasTouching {
			bodyA.SetAwake(true)
			bodyB.SetAwake(true)
		}
	}

	if touching {
		contact.SetFlags(contact.GetFlags() | contactTouchingFlag)
	} else {
		contact.SetFlags(contact.GetFlags() & ^contactTouchingFlag)
	}

	if listener == nil {
		return
	}

	if touching && !wasTouching {
		listener.BeginContact(contact)
	}
	if !touching && wasTouching {
		listener.EndContact(contact)
	}
	if touching && !sensor {
		listener.PreSolve(contact, oldManifold)
	}
}
