package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepConfAt60Hz() planar.StepConf {
	conf := planar.MakeStepConf()
	conf.SetTime(1.0 / 60.0)
	return conf
}

func makeGroundEdge(world *planar.World, x1, y1, x2, y2 float64) *planar.Body {
	bd := planar.MakeBodyDef()
	ground := world.CreateBody(&bd)

	shape := planar.MakeEdgeShape()
	shape.Set(planar.MakeVec2(x1, y1), planar.MakeVec2(x2, y2))
	ground.CreateFixture(&shape, 0.0)
	return ground
}

func makeDynamicBox(world *planar.World, x, y, hx, hy float64) *planar.Body {
	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(x, y)
	body := world.CreateBody(&bd)

	shape := planar.MakePolygonShape()
	shape.SetAsBox(hx, hy)
	body.CreateFixture(&shape, 1.0)
	return body
}

func TestWorldDefaults(t *testing.T) {
	def := planar.MakeWorldDef()
	assert.Equal(t, planar.MakeVec2(0, -9.8), def.Gravity)
	assert.Equal(t, 0.005, def.LinearSlop)
	assert.InDelta(t, 2.0*planar.Pi/180.0, def.AngularSlop, 1e-12)
	assert.Equal(t, 255.0, def.MaxVertexRadius)
}

func TestStepConfDefaults(t *testing.T) {
	conf := planar.MakeStepConf()
	assert.Equal(t, 8, conf.RegVelocityIterations)
	assert.Equal(t, 3, conf.RegPositionIterations)
	assert.Equal(t, 8, conf.ToiVelocityIterations)
	assert.Equal(t, 20, conf.ToiPositionIterations)
	assert.Equal(t, 48, conf.MaxSubSteps)
	assert.Equal(t, 0.8, conf.VelocityThreshold)
	assert.Equal(t, 4.0, conf.MaxTranslation)
	assert.InDelta(t, planar.Pi/2.0, conf.MaxRotation, 1e-12)
	assert.Equal(t, 0.2, conf.RegResolutionRate)
	assert.Equal(t, 0.75, conf.ToiResolutionRate)
	assert.Equal(t, 0.5, conf.MinStillTimeToSleep)
	assert.True(t, conf.DoWarmStart)
	assert.True(t, conf.DoToi)
}

func TestFreeFall(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 100)
	body := world.CreateBody(&bd)

	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	body.CreateFixture(&shape, 1.0)

	conf := stepConfAt60Hz()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	// After a second of free fall the body is near v = -10 and has dropped
	// roughly 5m (semi-implicit Euler overshoots slightly).
	assert.InDelta(t, -10.0, body.GetLinearVelocity().Y, 0.2)
	assert.Less(t, body.GetPosition().Y, 96.0)
	assert.Greater(t, body.GetPosition().Y, 94.0)
	assert.Equal(t, 0.0, body.GetPosition().X)
}

func TestStaticBodyNeverMoves(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	ground := makeGroundEdge(&world, -20, 0, 20, 0)
	box := makeDynamicBox(&world, 0, 2, 0.5, 0.5)

	groundPos := ground.GetPosition()
	groundAngle := ground.GetAngle()

	conf := stepConfAt60Hz()
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	assert.Equal(t, groundPos, ground.GetPosition())
	assert.Equal(t, groundAngle, ground.GetAngle())
	// The box came to rest on the ground rather than falling through.
	assert.Greater(t, box.GetPosition().Y, 0.4)
}

func TestKinematicIntegration(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	bd := planar.MakeBodyDef()
	bd.Type = planar.KinematicBody
	bd.Position.Set(0, 0)
	bd.LinearVelocity.Set(2, 1)
	bd.AngularVelocity = 0.5
	body := world.CreateBody(&bd)

	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	body.CreateFixture(&shape, 0.0)

	conf := stepConfAt60Hz()
	steps := 60
	for i := 0; i < steps; i++ {
		world.Step(conf)
	}

	elapsed := float64(steps) * conf.Dt

	// Kinematic bodies integrate velocity but ignore gravity.
	assert.InDelta(t, 2.0*elapsed, body.GetPosition().X, world.LinearSlop)
	assert.InDelta(t, 1.0*elapsed, body.GetPosition().Y, world.LinearSlop)
	assert.InDelta(t, 0.5*elapsed, body.GetAngle(), world.AngularSlop)
	assert.Equal(t, planar.MakeVec2(2, 1), body.GetLinearVelocity())
}

func TestBodiesSleepWhenStill(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	makeGroundEdge(&world, -20, 0, 20, 0)
	box := makeDynamicBox(&world, 0, 0.55, 0.5, 0.5)

	conf := stepConfAt60Hz()
	slept := 0
	for i := 0; i < 300; i++ {
		stats := world.Step(conf)
		slept += stats.Reg.BodiesSlept
	}

	assert.False(t, box.IsAwake(), "a resting box should fall asleep")
	assert.NotZero(t, slept, "sleep transitions should be reported in stats")
	assert.LessOrEqual(t, box.GetLinearVelocity().Length(), conf.LinearSleepTolerance)
}

func TestLockedWorldRejectsCreation(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	makeGroundEdge(&world, -20, 0, 20, 0)
	makeDynamicBox(&world, 0, 0.25, 0.5, 0.5)

	listener := &lockProbeListener{world: &world}
	world.SetContactListener(listener)

	conf := stepConfAt60Hz()
	for i := 0; i < 10; i++ {
		world.Step(conf)
	}

	require.True(t, listener.called, "the contact listener should have fired")
	assert.True(t, listener.sawLocked, "world must be locked during callbacks")
	assert.Nil(t, listener.created, "CreateBody during a callback must return nil")
}

type lockProbeListener struct {
	world     *planar.World
	called    bool
	sawLocked bool
	created   *planar.Body
}

func (l *lockProbeListener) BeginContact(contact planar.ContactInterface) {
	l.called = true
	l.sawLocked = l.world.IsLocked()

	bd := planar.MakeBodyDef()
	if b := l.world.CreateBody(&bd); b != nil {
		l.created = b
	}
}

func (l *lockProbeListener) EndContact(contact planar.ContactInterface) {}
func (l *lockProbeListener) PreSolve(contact planar.ContactInterface, oldManifold planar.Manifold) {
}
func (l *lockProbeListener) PostSolve(contact planar.ContactInterface, impulse *planar.ContactImpulse, iterations int) {
}

func TestBeginEndContactOncePerTransition(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	listener := &countingListener{}
	world.SetContactListener(listener)

	makeGroundEdge(&world, -20, 0, 20, 0)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 3)
	bd.LinearVelocity.Set(0, -10)
	ball := world.CreateBody(&bd)
	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	fixture := ball.CreateFixture(&shape, 1.0)
	fixture.SetRestitution(0.5)

	conf := stepConfAt60Hz()
	for i := 0; i < 120; i++ {
		world.Step(conf)
	}

	assert.Greater(t, listener.begin, 0)
	diff := listener.begin - listener.end
	assert.True(t, diff == 0 || diff == 1,
		"touch transitions alternate; begin leads end by at most one")
}

type countingListener struct {
	begin int
	end   int
}

func (l *countingListener) BeginContact(contact planar.ContactInterface) { l.begin++ }
func (l *countingListener) EndContact(contact planar.ContactInterface)   { l.end++ }
func (l *countingListener) PreSolve(contact planar.ContactInterface, oldManifold planar.Manifold) {
}
func (l *countingListener) PostSolve(contact planar.ContactInterface, impulse *planar.ContactImpulse, iterations int) {
}

func TestRestitutionRebound(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	makeGroundEdge(&world, -20, 0, 20, 0)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 5)
	ball := world.CreateBody(&bd)

	shape := planar.MakeCircleShape()
	shape.Radius = 1.0
	fixture := ball.CreateFixture(&shape, 1.0)
	fixture.SetRestitution(1.0)

	conf := stepConfAt60Hz()
	conf.VelocityThreshold = 0.0

	impactSpeed := 0.0
	reboundSpeed := 0.0
	for i := 0; i < 300; i++ {
		before := ball.GetLinearVelocity().Y
		world.Step(conf)
		after := ball.GetLinearVelocity().Y
		if before < 0 && after > 0 {
			impactSpeed = -before
			reboundSpeed = after
			break
		}
	}

	require.NotZero(t, impactSpeed, "the ball should have bounced")
	tolerance := impactSpeed*0.05 + 2.0*world.LinearSlop/conf.Dt
	assert.InDelta(t, impactSpeed, reboundSpeed, tolerance)
}

func TestBulletDoesNotTunnel(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	// A thin static wall at x = 5.
	wallBd := planar.MakeBodyDef()
	wallBd.Position.Set(5, 0)
	wall := world.CreateBody(&wallBd)
	wallShape := planar.MakePolygonShape()
	wallShape.SetAsBox(0.05, 10)
	wall.CreateFixture(&wallShape, 0.0)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Bullet = true
	bd.Position.Set(-40, 0)
	bd.LinearVelocity.Set(150, 0)
	bullet := world.CreateBody(&bd)

	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.75, 0.75)
	bullet.CreateFixture(&shape, 1.0)

	require.True(t, bullet.IsImpenetrable())

	conf := stepConfAt60Hz()
	for i := 0; i < 300; i++ {
		world.Step(conf)
		require.Less(t, bullet.GetPosition().X, 5.0,
			"a bullet body must never cross a static wall")
	}
}

func TestFastBodyWithoutToiTunnels(t *testing.T) {
	// The control experiment: the same setup with continuous collision
	// disabled passes straight through the thin wall.
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	wallBd := planar.MakeBodyDef()
	wallBd.Position.Set(5, 0)
	wall := world.CreateBody(&wallBd)
	wallShape := planar.MakePolygonShape()
	wallShape.SetAsBox(0.05, 10)
	wall.CreateFixture(&wallShape, 0.0)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(-41.2, 0)
	bd.LinearVelocity.Set(150, 0)
	box := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.75, 0.75)
	box.CreateFixture(&shape, 1.0)

	world.SetContinuousPhysics(false)

	conf := stepConfAt60Hz()
	conf.DoToi = false
	conf.MaxTranslation = 10.0
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	assert.Greater(t, box.GetPosition().X, 5.0)
}

func TestStepStatsPopulated(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	makeGroundEdge(&world, -20, 0, 20, 0)
	makeDynamicBox(&world, 0, 0.25, 0.5, 0.5)
	makeDynamicBox(&world, 3, 0.25, 0.5, 0.5)

	conf := stepConfAt60Hz()

	first := world.Step(conf)
	assert.NotZero(t, first.Pre.Added, "initial contacts should be reported as added")

	totalUpdated := 0
	islands := 0
	for i := 0; i < 60; i++ {
		stats := world.Step(conf)
		totalUpdated += stats.Pre.Updated
		islands += stats.Reg.IslandsFound
	}

	assert.NotZero(t, totalUpdated)
	assert.NotZero(t, islands)
	assert.Equal(t, 3, world.GetBodyCount())
	assert.NotZero(t, world.GetContactCount())
}

func TestDestroyBodyCascades(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	ground := makeGroundEdge(&world, -20, 0, 20, 0)
	box := makeDynamicBox(&world, 0, 5, 0.5, 0.5)

	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(ground, box, planar.MakeVec2(0, 5))
	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)

	listener := &goodbyeListener{}
	world.SetDestructionListener(listener)

	require.Equal(t, 1, world.GetJointCount())
	world.DestroyBody(box)

	assert.Equal(t, 1, world.GetBodyCount())
	assert.Equal(t, 0, world.GetJointCount())
	assert.Equal(t, 1, listener.joints, "joint destruction must be announced")
	assert.Equal(t, 1, listener.fixtures, "fixture destruction must be announced")
}

type goodbyeListener struct {
	fixtures int
	joints   int
}

func (l *goodbyeListener) SayGoodbyeToFixture(fixture *planar.Fixture)   { l.fixtures++ }
func (l *goodbyeListener) SayGoodbyeToJoint(joint planar.JointInterface) { l.joints++ }

func TestFixtureVertexRadiusValidation(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	body := world.CreateBody(&bd)

	tiny := planar.MakeCircleShape()
	tiny.Radius = planar.DefaultMinVertexRadius / 4.0
	assert.Nil(t, body.CreateFixture(&tiny, 1.0))

	huge := planar.MakeCircleShape()
	huge.Radius = world.MaxVertexRadius * 2.0
	assert.Nil(t, body.CreateFixture(&huge, 1.0))

	ok := planar.MakeCircleShape()
	ok.Radius = 0.5
	assert.NotNil(t, body.CreateFixture(&ok, 1.0))
}

func TestQueryAABB(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))
	makeDynamicBox(&world, 0, 0, 0.5, 0.5)
	makeDynamicBox(&world, 10, 0, 0.5, 0.5)

	aabb := planar.MakeAABB()
	aabb.LowerBound.Set(-1, -1)
	aabb.UpperBound.Set(1, 1)

	count := 0
	world.QueryAABB(func(fixture *planar.Fixture) bool {
		count++
		return true
	}, aabb)

	assert.Equal(t, 1, count)
}

func TestWorldRayCast(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))
	makeDynamicBox(&world, 5, 0, 0.5, 0.5)

	hits := 0
	var hitPoint planar.Vec2
	world.RayCast(func(fixture *planar.Fixture, point planar.Vec2, normal planar.Vec2, fraction float64) float64 {
		hits++
		hitPoint = point
		return fraction
	}, planar.MakeVec2(0, 0), planar.MakeVec2(10, 0))

	require.Equal(t, 1, hits)
	assert.InDelta(t, 4.5, hitPoint.X, 0.05)
}

func TestGravityAndAccelerationIntegration(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))
	world.SetAutoClearAccelerations(false)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.GravityScale = 0.0
	body := world.CreateBody(&bd)
	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	body.CreateFixture(&shape, 1.0)

	body.SetAcceleration(planar.MakeVec2(3, 0), 0.0)

	conf := stepConfAt60Hz()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	// With gravity scaled away, only the set acceleration acts.
	assert.InDelta(t, 3.0, body.GetLinearVelocity().X, 0.05)
	assert.InDelta(t, 0.0, body.GetLinearVelocity().Y, 1e-9)
}

func TestShiftOrigin(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))
	box := makeDynamicBox(&world, 10, 5, 0.5, 0.5)

	world.ShiftOrigin(planar.MakeVec2(10, 0))

	assert.InDelta(t, 0.0, box.GetPosition().X, 1e-12)
	assert.InDelta(t, 5.0, box.GetPosition().Y, 1e-12)
}

func TestStaticPoseExactlyPreserved(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	bd := planar.MakeBodyDef()
	bd.Position.Set(1.25, -3.5)
	bd.Angle = 0.3
	static := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(1, 1)
	static.CreateFixture(&shape, 0.0)

	makeDynamicBox(&world, 1.25, 0, 0.5, 0.5)

	pos := static.GetPosition()
	angle := static.GetAngle()

	conf := stepConfAt60Hz()
	for i := 0; i < 90; i++ {
		world.Step(conf)
		require.Equal(t, pos, static.GetPosition())
		require.Equal(t, angle, static.GetAngle())
	}
}
