package planar

/// All shape-pair contacts share one concrete type; the manifold builder
/// appropriate to the pair is picked once at creation time.
type shapeContact struct {
	Contact
	collide func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation)
}

func (c *shapeContact) Evaluate(manifold *Manifold, xfA Transformation, xfB Transformation) {
	c.collide(c, manifold, xfA, xfB)
}

/// One row of the pair table: how to build a contact for an ordered
/// (typeA, typeB) pair, and whether that order is the canonical one.
/// For a flipped pair the factory swaps the fixtures before calling.
type contactPairEntry struct {
	create  func(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface
	primary bool
}

var contactPairs [shapeTypeCount][shapeTypeCount]contactPairEntry
var contactPairsReady = false

func registerContactPair(typeA, typeB ShapeType, create func(*Fixture, int, *Fixture, int) ContactInterface) {
	Assert(typeA < shapeTypeCount && typeB < shapeTypeCount)

	contactPairs[typeA][typeB] = contactPairEntry{create: create, primary: true}
	if typeA != typeB {
		contactPairs[typeB][typeA] = contactPairEntry{create: create, primary: false}
	}
}

func initContactPairs() {
	registerContactPair(ShapeTypeCircle, ShapeTypeCircle, newCircleContact)
	registerContactPair(ShapeTypePolygon, ShapeTypeCircle, newPolygonAndCircleContact)
	registerContactPair(ShapeTypePolygon, ShapeTypePolygon, newPolygonContact)
	registerContactPair(ShapeTypeEdge, ShapeTypeCircle, newEdgeAndCircleContact)
	registerContactPair(ShapeTypeEdge, ShapeTypePolygon, newEdgeAndPolygonContact)
	registerContactPair(ShapeTypeChain, ShapeTypeCircle, newChainAndCircleContact)
	registerContactPair(ShapeTypeChain, ShapeTypePolygon, newChainAndPolygonContact)
}

/// Allocate the contact appropriate to the fixtures' shape kinds, with
/// the fixtures in canonical order. Returns nil for pairs no builder
/// handles (for example chain against chain).
func ContactFactory(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	if !contactPairsReady {
		initContactPairs()
		contactPairsReady = true
	}

	typeA := fixtureA.GetType()
	typeB := fixtureB.GetType()
	Assert(typeA < shapeTypeCount && typeB < shapeTypeCount)

	entry := contactPairs[typeA][typeB]
	if entry.create == nil {
		return nil
	}
	if entry.primary {
		return entry.create(fixtureA, indexA, fixtureB, indexB)
	}
	return entry.create(fixtureB, indexB, fixtureA, indexA)
}

/// Wake the bodies of a touching contact being torn down, so a pile does
/// not freeze mid-air when something under it disappears.
func ContactDestroy(contact ContactInterface) {
	fixtureA := contact.GetFixtureA()
	fixtureB := contact.GetFixtureB()

	if contact.GetManifold().PointCount > 0 && !fixtureA.IsSensor() && !fixtureB.IsSensor() {
		fixtureA.GetBody().SetAwake(true)
		fixtureB.GetBody().SetAwake(true)
	}
}

func newCircleContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypeCircle)
	Assert(fixtureB.GetType() == ShapeTypeCircle)
	return &shapeContact{
		Contact: MakeContact(fixtureA, 0, fixtureB, 0),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			CollideCircles(manifold,
				c.FixtureA.GetShape().(*CircleShape), xfA,
				c.FixtureB.GetShape().(*CircleShape), xfB)
		},
	}
}

func newPolygonAndCircleContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypePolygon)
	Assert(fixtureB.GetType() == ShapeTypeCircle)
	return &shapeContact{
		Contact: MakeContact(fixtureA, 0, fixtureB, 0),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			CollidePolygonAndCircle(manifold,
				c.FixtureA.GetShape().(*PolygonShape), xfA,
				c.FixtureB.GetShape().(*CircleShape), xfB)
		},
	}
}

func newPolygonContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypePolygon)
	Assert(fixtureB.GetType() == ShapeTypePolygon)
	return &shapeContact{
		Contact: MakeContact(fixtureA, 0, fixtureB, 0),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			CollidePolygons(manifold,
				c.FixtureA.GetShape().(*PolygonShape), xfA,
				c.FixtureB.GetShape().(*PolygonShape), xfB)
		},
	}
}

func newEdgeAndCircleContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypeEdge)
	Assert(fixtureB.GetType() == ShapeTypeCircle)
	return &shapeContact{
		Contact: MakeContact(fixtureA, 0, fixtureB, 0),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			CollideEdgeAndCircle(manifold,
				c.FixtureA.GetShape().(*EdgeShape), xfA,
				c.FixtureB.GetShape().(*CircleShape), xfB)
		},
	}
}

func newEdgeAndPolygonContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypeEdge)
	Assert(fixtureB.GetType() == ShapeTypePolygon)
	return &shapeContact{
		Contact: MakeContact(fixtureA, 0, fixtureB, 0),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			CollideEdgeAndPolygon(manifold,
				c.FixtureA.GetShape().(*EdgeShape), xfA,
				c.FixtureB.GetShape().(*PolygonShape), xfB)
		},
	}
}

/// Chain contacts remember which child segment they were created for and
/// collide that one segment, complete with its ghost neighbors.
func newChainAndCircleContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypeChain)
	Assert(fixtureB.GetType() == ShapeTypeCircle)
	return &shapeContact{
		Contact: MakeContact(fixtureA, indexA, fixtureB, indexB),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			chain := c.FixtureA.GetShape().(*ChainShape)
			edge := MakeEdgeShape()
			chain.GetChildEdge(&edge, c.IndexA)
			CollideEdgeAndCircle(manifold,
				&edge, xfA,
				c.FixtureB.GetShape().(*CircleShape), xfB)
		},
	}
}

func newChainAndPolygonContact(fixtureA *Fixture, indexA int, fixtureB *Fixture, indexB int) ContactInterface {
	Assert(fixtureA.GetType() == ShapeTypeChain)
	Assert(fixtureB.GetType() == ShapeTypePolygon)
	return &shapeContact{
		Contact: MakeContact(fixtureA, indexA, fixtureB, indexB),
		collide: func(c *shapeContact, manifold *Manifold, xfA Transformation, xfB Transformation) {
			chain := c.FixtureA.GetShape().(*ChainShape)
			edge := MakeEdgeShape()
			chain.GetChildEdge(&edge, c.IndexA)
			CollideEdgeAndPolygon(manifold,
				&edge, xfA,
				c.FixtureB.GetShape().(*PolygonShape), xfB)
		},
	}
}
