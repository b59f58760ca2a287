package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSolverSeparatesDeepOverlap(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	a := makeDynamicBox(&world, 0, 0, 1, 1)
	b := makeDynamicBox(&world, 1, 0, 1, 1)

	conf := stepConfAt60Hz()
	conf.RegVelocityIterations = 0
	conf.RegPositionIterations = 1

	world.Step(conf)

	// One pass at the regular resolution rate pushes the boxes apart along
	// the collision axis only, and only a fraction of the way.
	assert.Less(t, a.GetPosition().X, 0.0, "A moves strictly left")
	assert.Greater(t, b.GetPosition().X, 1.0, "B moves strictly right")
	assert.InDelta(t, 0.0, a.GetPosition().Y, 1e-9)
	assert.InDelta(t, 0.0, b.GetPosition().Y, 1e-9)

	gap := b.GetPosition().X - a.GetPosition().X
	assert.Less(t, gap, 2.0, "a single pass must not fully separate a deep overlap")
	assert.Greater(t, gap, 1.0)
}

func TestRestingContactIsStable(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	// Two boxes exactly touching: position solving must not disturb them.
	a := makeDynamicBox(&world, -1, 0, 1, 1)
	b := makeDynamicBox(&world, 1, 0, 1, 1)

	conf := stepConfAt60Hz()
	for i := 0; i < 10; i++ {
		world.Step(conf)
	}

	assert.InDelta(t, -1.0, a.GetPosition().X, 2.0*world.LinearSlop)
	assert.InDelta(t, 1.0, b.GetPosition().X, 2.0*world.LinearSlop)
	assert.InDelta(t, 0.0, a.GetPosition().Y, 2.0*world.LinearSlop)
	assert.InDelta(t, 0.0, b.GetPosition().Y, 2.0*world.LinearSlop)
}

func TestFrictionMixing(t *testing.T) {
	assert.InDelta(t, 0.5, planar.MixFriction(0.5, 0.5), 1e-12)
	assert.InDelta(t, 0.0, planar.MixFriction(0.0, 1.0), 1e-12)
	assert.InDelta(t, 0.6, planar.MixFriction(0.9, 0.4), 1e-12)
}

func TestRestitutionMixing(t *testing.T) {
	assert.Equal(t, 0.8, planar.MixRestitution(0.8, 0.2))
	assert.Equal(t, 0.8, planar.MixRestitution(0.2, 0.8))
	assert.Equal(t, 0.0, planar.MixRestitution(0.0, 0.0))
}

func TestConveyorTangentSpeed(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	// A flat static platform acting as a conveyor belt.
	platformBd := planar.MakeBodyDef()
	platform := world.CreateBody(&platformBd)
	platformShape := planar.MakePolygonShape()
	platformShape.SetAsBox(10, 0.5)
	platformFixture := platform.CreateFixture(&platformShape, 0.0)
	platformFixture.SetFriction(0.8)

	box := makeDynamicBox(&world, 0, 1.1, 0.5, 0.5)

	listener := &conveyorListener{platform: platformFixture, speed: 5.0}
	world.SetContactListener(listener)

	conf := stepConfAt60Hz()
	for i := 0; i < 180; i++ {
		world.Step(conf)
	}

	// Belt friction drags the box along x.
	assert.Greater(t, box.GetLinearVelocity().X, 1.0)
	assert.Greater(t, box.GetPosition().X, 1.0)
}

type conveyorListener struct {
	platform *planar.Fixture
	speed    float64
}

func (l *conveyorListener) BeginContact(contact planar.ContactInterface) {}
func (l *conveyorListener) EndContact(contact planar.ContactInterface)   {}

func (l *conveyorListener) PreSolve(contact planar.ContactInterface, oldManifold planar.Manifold) {
	if contact.GetFixtureA() == l.platform || contact.GetFixtureB() == l.platform {
		contact.SetTangentSpeed(l.speed)
	}
}

func (l *conveyorListener) PostSolve(contact planar.ContactInterface, impulse *planar.ContactImpulse, iterations int) {
}

func TestPostSolveReportsImpulses(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	makeGroundEdge(&world, -20, 0, 20, 0)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 2)
	bd.LinearVelocity.Set(0, -5)
	ball := world.CreateBody(&bd)
	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	ball.CreateFixture(&shape, 1.0)

	listener := &impulseListener{}
	world.SetContactListener(listener)

	conf := stepConfAt60Hz()
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	require.True(t, listener.called)
	assert.Greater(t, listener.maxNormalImpulse, 0.0)
	assert.Equal(t, conf.RegVelocityIterations, listener.iterations)
}

type impulseListener struct {
	called           bool
	maxNormalImpulse float64
	iterations       int
}

func (l *impulseListener) BeginContact(contact planar.ContactInterface) {}
func (l *impulseListener) EndContact(contact planar.ContactInterface)   {}
func (l *impulseListener) PreSolve(contact planar.ContactInterface, oldManifold planar.Manifold) {
}

func (l *impulseListener) PostSolve(contact planar.ContactInterface, impulse *planar.ContactImpulse, iterations int) {
	l.called = true
	l.iterations = iterations
	for i := 0; i < impulse.Count; i++ {
		if impulse.NormalImpulses[i] > l.maxNormalImpulse {
			l.maxNormalImpulse = impulse.NormalImpulses[i]
		}
	}
}
