package planar

/// Owns the broad-phase and the world's contact list: creates contacts
/// for new overlapping pairs, refreshes their manifolds each step, and
/// tears them down when pairs stop overlapping or get filtered away.
type ContactManager struct {
	BroadPhase      BroadPhase
	ContactList     ContactInterface
	ContactCount    int
	ContactFilter   ContactFilterInterface
	ContactListener ContactListenerInterface

	// Pair bookkeeping for the current FindNewContacts call.
	pairsAdded   int
	pairsIgnored int
}

func MakeContactManager() ContactManager {
	return ContactManager{
		BroadPhase:    MakeBroadPhase(),
		ContactFilter: &ContactFilter{},
	}
}

/// Unlink a contact from the world list and both bodies' edge lists, with
/// an EndContact notice when it was touching.
func (cm *ContactManager) Destroy(c ContactInterface) {
	bodyA := c.GetFixtureA().GetBody()
	bodyB := c.GetFixtureB().GetBody()

	if cm.ContactListener != nil && c.IsTouching() {
		cm.ContactListener.EndContact(c)
	}

	// World list.
	if c.GetPrev() != nil {
		c.GetPrev().SetNext(c.GetNext())
	}
	if c.GetNext() != nil {
		c.GetNext().SetPrev(c.GetPrev())
	}
	if c == cm.ContactList {
		cm.ContactList = c.GetNext()
	}

	// Body A's edge list.
	nodeA := c.GetNodeA()
	if nodeA.Prev != nil {
		nodeA.Prev.Next = nodeA.Next
	}
	if nodeA.Next != nil {
		nodeA.Next.Prev = nodeA.Prev
	}
	if nodeA == bodyA.ContactList {
		bodyA.ContactList = nodeA.Next
	}

	// Body B's edge list.
	nodeB := c.GetNodeB()
	if nodeB.Prev != nil {
		nodeB.Prev.Next = nodeB.Next
	}
	if nodeB.Next != nil {
		nodeB.Next.Prev = nodeB.Prev
	}
	if nodeB == bodyB.ContactList {
		bodyB.ContactList = nodeB.Next
	}

	ContactDestroy(c)
	cm.ContactCount--
}

/// Whether a filter-flagged contact should be dropped outright.
func (cm *ContactManager) rejectedByFilters(c ContactInterface) bool {
	fixtureA := c.GetFixtureA()
	fixtureB := c.GetFixtureB()

	if !fixtureB.GetBody().ShouldCollide(fixtureA.GetBody()) {
		return true
	}
	return cm.ContactFilter != nil && !cm.ContactFilter.ShouldCollide(fixtureA, fixtureB)
}

/// The narrow-phase pass: walk every contact, destroy the ones whose
/// pairs no longer qualify or overlap, and refresh the manifolds of the
/// rest. Returns counts of updated, destroyed, and skipped contacts.
func (cm *ContactManager) Collide() (updated, destroyed, ignored int) {
	c := cm.ContactList
	for c != nil {
		// Re-run filtering when a fixture's filter data changed.
		if (c.GetFlags() & contactFilterFlag) != 0 {
			if cm.rejectedByFilters(c) {
				doomed := c
				c = c.GetNext()
				cm.Destroy(doomed)
				destroyed++
				continue
			}
			c.SetFlags(c.GetFlags() & ^contactFilterFlag)
		}

		fixtureA := c.GetFixtureA()
		fixtureB := c.GetFixtureB()
		bodyA := fixtureA.GetBody()
		bodyB := fixtureB.GetBody()

		// Skip pairs where neither body is a moving, awake one.
		activeA := bodyA.IsAwake() && bodyA.IsSpeedable()
		activeB := bodyB.IsAwake() && bodyB.IsSpeedable()
		if !activeA && !activeB {
			ignored++
			c = c.GetNext()
			continue
		}

		// The fat AABBs separating ends the contact's life.
		proxyIdA := fixtureA.Proxies[c.GetChildIndexA()].ProxyId
		proxyIdB := fixtureB.Proxies[c.GetChildIndexB()].ProxyId
		if !cm.BroadPhase.TestOverlap(proxyIdA, proxyIdB) {
			doomed := c
			c = c.GetNext()
			cm.Destroy(doomed)
			destroyed++
			continue
		}

		ContactUpdate(c, cm.ContactListener)
		updated++
		c = c.GetNext()
	}

	return updated, destroyed, ignored
}

/// Trigger broad-phase pair generation. Returns how many contacts were
/// created and how many candidate pairs were rejected.
func (cm *ContactManager) FindNewContacts() (added, ignored int) {
	cm.pairsAdded = 0
	cm.pairsIgnored = 0
	cm.BroadPhase.UpdatePairs(cm.AddPair)
	return cm.pairsAdded, cm.pairsIgnored
}

/// Whether a contact already exists for the exact (fixture, child) pair,
/// in either order. Walks body B's edge list.
func contactExists(bodyB *Body, fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) bool {
	for edge := bodyB.GetContactList(); edge != nil; edge = edge.Next {
		if edge.Other != fixtureA.GetBody() {
			continue
		}

		fA := edge.Contact.GetFixtureA()
		fB := edge.Contact.GetFixtureB()
		iA := edge.Contact.GetChildIndexA()
		iB := edge.Contact.GetChildIndexB()

		if fA == fixtureA && fB == fixtureB && iA == indexA && iB == indexB {
			return true
		}
		if fA == fixtureB && fB == fixtureA && iA == indexB && iB == indexA {
			return true
		}
	}
	return false
}

/// Broad-phase callback for a fresh overlapping proxy pair: vet the pair
/// and, if it qualifies, allocate the contact and link it everywhere.
func (cm *ContactManager) AddPair(proxyUserDataA interface{}, proxyUserDataB interface{}) {
	proxyA := proxyUserDataA.(*FixtureProxy)
	proxyB := proxyUserDataB.(*FixtureProxy)

	fixtureA := proxyA.Fixture
	fixtureB := proxyB.Fixture
	indexA := proxyA.ChildIndex
	indexB := proxyB.ChildIndex
	bodyA := fixtureA.GetBody()
	bodyB := fixtureB.GetBody()

	// Fixtures on one body never collide with each other.
	if bodyA == bodyB {
		cm.pairsIgnored++
		return
	}

	if contactExists(bodyB, fixtureA, indexA, fixtureB, indexB) {
		cm.pairsIgnored++
		return
	}

	// Joints can forbid collision, and at least one body must be dynamic.
	if !bodyB.ShouldCollide(bodyA) {
		cm.pairsIgnored++
		return
	}

	// User filtering.
	if cm.ContactFilter != nil && !cm.ContactFilter.ShouldCollide(fixtureA, fixtureB) {
		cm.pairsIgnored++
		return
	}

	c := ContactFactory(fixtureA, indexA, fixtureB, indexB)
	if c == nil {
		cm.pairsIgnored++
		return
	}

	// The factory may have swapped the fixtures into canonical order.
	fixtureA = c.GetFixtureA()
	fixtureB = c.GetFixtureB()
	bodyA = fixtureA.GetBody()
	bodyB = fixtureB.GetBody()

	// Push onto the world list.
	c.SetPrev(nil)
	c.SetNext(cm.ContactList)
	if cm.ContactList != nil {
		cm.ContactList.SetPrev(c)
	}
	cm.ContactList = c

	// Hook the contact's edges into both bodies' lists.
	nodeA := c.GetNodeA()
	nodeA.Contact = c
	nodeA.Other = bodyB
	nodeA.Prev = nil
	nodeA.Next = bodyA.ContactList
	if bodyA.ContactList != nil {
		bodyA.ContactList.Prev = nodeA
	}
	bodyA.ContactList = nodeA

	nodeB := c.GetNodeB()
	nodeB.Contact = c
	nodeB.Other = bodyA
	nodeB.Prev = nil
	nodeB.Next = bodyB.ContactList
	if bodyB.ContactList != nil {
		bodyB.ContactList.Prev = nodeB
	}
	bodyB.ContactList = nodeB

	// New solid contacts wake both bodies.
	if !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		bodyA.SetAwake(true)
		bodyB.SetAwake(true)
	}

	cm.ContactCount++
	cm.pairsAdded++
}
