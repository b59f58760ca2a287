package planar

/// Receives destruction notices for objects that go away implicitly: when
/// a body is destroyed, its fixtures and joints are torn down with it and
/// announced here so the host can drop its own references.
type DestructionListenerInterface interface {
	SayGoodbyeToFixture(fixture *Fixture)
	SayGoodbyeToJoint(joint JointInterface) // backed by pointer
}

/// Decides whether two fixtures may generate a contact at all. Returning
/// false suppresses the pair before any narrow-phase work happens.
type ContactFilterInterface interface {
	ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool
}

/// Per-point impulses handed to PostSolve, indexed like the manifold
/// points. Impulses are reported rather than forces because a TOI
/// sub-step's force would blow up as the sub-step shrinks.
type ContactImpulse struct {
	NormalImpulses  [MaxManifoldPoints]float64
	TangentImpulses [MaxManifoldPoints]float64
	Count           int
}

func MakeContactImpulse() ContactImpulse {
	return ContactImpulse{}
}

/// Contact lifecycle callbacks, delivered synchronously during Step with
/// the world locked. Creating or destroying bodies, fixtures, or joints
/// from inside any of these is rejected.
type ContactListenerInterface interface {
	/// A contact's touching state switched on. Fires at most once per
	/// transition.
	BeginContact(contact ContactInterface) // backed by pointer

	/// A contact's touching state switched off, or a touching contact was
	/// destroyed. Fires at most once per transition.
	EndContact(contact ContactInterface) // backed by pointer

	/// Fires after the manifold of an awake, non-sensor contact was
	/// refreshed, before the solver runs. The previous manifold is passed
	/// by value so changes can be detected, and the contact itself may be
	/// disabled here to skip its response for this step. Disabling does
	/// not suppress a later EndContact.
	PreSolve(contact ContactInterface, oldManifold Manifold) // backed by pointer

	/// Fires after an island containing the touching contact was solved.
	/// The iteration count is the number of velocity iterations the
	/// island ran.
	PostSolve(contact ContactInterface, impulse *ContactImpulse, iterations int) // backed by pointer
}

/// Visits fixtures found by an AABB query. Return false to end the query.
type BroadPhaseQueryCallback func(fixture *Fixture) bool

/// Visits fixtures hit by a world ray cast. The return value steers the
/// cast: -1 ignores this hit, 0 stops, a fraction in (0, 1) clips the ray
/// there, and 1 continues unclipped.
type RaycastCallback func(fixture *Fixture, point Vec2, normal Vec2, fraction float64) float64

/// The filter applied when no user filter is installed: group index
/// overrides first (shared non-zero group always or never collides), then
/// the category/mask bits must accept each other both ways.
type ContactFilter struct {
}

func (cf *ContactFilter) ShouldCollide(fixtureA *Fixture, fixtureB *Fixture) bool {
	a := fixtureA.GetFilterData()
	b := fixtureB.GetFilterData()

	if a.GroupIndex != 0 && a.GroupIndex == b.GroupIndex {
		return a.GroupIndex > 0
	}

	return (a.MaskBits&b.CategoryBits) != 0 && (a.CategoryBits&b.MaskBits) != 0
}
