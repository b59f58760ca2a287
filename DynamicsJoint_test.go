package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevolutePendulumRespectsLimits(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -9.8))

	groundBd := planar.MakeBodyDef()
	ground := world.CreateBody(&groundBd)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(-10, 20)
	bob := world.CreateBody(&bd)
	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	bob.CreateFixture(&shape, 5.0)

	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(ground, bob, planar.MakeVec2(-10, 12))
	jd.EnableLimit = true
	jd.LowerAngle = -planar.Pi / 4.0
	jd.UpperAngle = planar.Pi / 2.0

	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)
	revolute := joint.(*planar.RevoluteJoint)

	conf := stepConfAt60Hz()
	for i := 0; i < 600; i++ {
		world.Step(conf)
		angle := revolute.GetJointAngle()
		require.GreaterOrEqual(t, angle, jd.LowerAngle-world.AngularSlop,
			"joint angle below lower limit at step %d", i)
		require.LessOrEqual(t, angle, jd.UpperAngle+world.AngularSlop,
			"joint angle above upper limit at step %d", i)
	}
}

func TestDistanceJointHoldsLength(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -9.8))

	groundBd := planar.MakeBodyDef()
	groundBd.Position.Set(0, 10)
	ground := world.CreateBody(&groundBd)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(4, 10)
	ball := world.CreateBody(&bd)
	shape := planar.MakeCircleShape()
	shape.Radius = 0.5
	ball.CreateFixture(&shape, 1.0)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(ground, ball, planar.MakeVec2(0, 10), planar.MakeVec2(4, 10))
	require.InDelta(t, 4.0, jd.Length, 1e-12)

	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)

	conf := stepConfAt60Hz()
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	distance := ball.GetPosition().DistanceTo(planar.MakeVec2(0, 10))
	assert.InDelta(t, 4.0, distance, 0.1)
}

func TestPrismaticJointConstrainsToAxis(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -9.8))

	groundBd := planar.MakeBodyDef()
	ground := world.CreateBody(&groundBd)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 5)
	slider := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	slider.CreateFixture(&shape, 1.0)

	jd := planar.MakePrismaticJointDef()
	jd.Initialize(ground, slider, planar.MakeVec2(0, 5), planar.MakeVec2(0, 1))
	jd.EnableLimit = true
	jd.LowerTranslation = -3.0
	jd.UpperTranslation = 1.0

	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)
	prismatic := joint.(*planar.PrismaticJoint)

	conf := stepConfAt60Hz()
	for i := 0; i < 300; i++ {
		world.Step(conf)
		// The slider may only move along the y axis.
		require.InDelta(t, 0.0, slider.GetPosition().X, 0.01)
	}

	translation := prismatic.GetJointTranslation()
	assert.GreaterOrEqual(t, translation, jd.LowerTranslation-world.LinearSlop)
	assert.LessOrEqual(t, translation, jd.UpperTranslation+world.LinearSlop)
}

func TestMouseJointPullsTowardTarget(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	groundBd := planar.MakeBodyDef()
	ground := world.CreateBody(&groundBd)

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Position.Set(0, 0)
	box := world.CreateBody(&bd)
	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.5, 0.5)
	box.CreateFixture(&shape, 1.0)

	jd := planar.MakeMouseJointDef()
	jd.BodyA = ground
	jd.BodyB = box
	jd.Target.Set(0, 0)
	jd.MaxForce = 1000.0

	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)
	mouse := joint.(*planar.MouseJoint)

	mouse.SetTarget(planar.MakeVec2(5, 5))

	conf := stepConfAt60Hz()
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	assert.InDelta(t, 5.0, box.GetPosition().X, 0.5)
	assert.InDelta(t, 5.0, box.GetPosition().Y, 0.5)
}

func TestJointCollideConnectedFiltering(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, -10))

	a := makeDynamicBox(&world, 0, 0, 0.5, 0.5)
	b := makeDynamicBox(&world, 0.25, 0, 0.5, 0.5)

	jd := planar.MakeRevoluteJointDef()
	jd.Initialize(a, b, planar.MakeVec2(0, 0))
	jd.CollideConnected = false
	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)

	conf := stepConfAt60Hz()
	for i := 0; i < 10; i++ {
		world.Step(conf)
	}

	// The overlapping jointed bodies never get a touching contact.
	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		bodyA := c.GetFixtureA().GetBody()
		bodyB := c.GetFixtureB().GetBody()
		if (bodyA == a && bodyB == b) || (bodyA == b && bodyB == a) {
			t.Fatalf("contact exists between joint-connected bodies")
		}
	}
}

func TestDestroyJointWakesBodies(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	a := makeDynamicBox(&world, 0, 0, 0.5, 0.5)
	b := makeDynamicBox(&world, 5, 0, 0.5, 0.5)

	jd := planar.MakeDistanceJointDef()
	jd.Initialize(a, b, a.GetPosition(), b.GetPosition())
	joint := world.CreateJoint(&jd)
	require.NotNil(t, joint)
	require.Equal(t, 1, world.GetJointCount())

	a.SetAwake(false)
	b.SetAwake(false)

	world.DestroyJoint(joint)

	assert.Equal(t, 0, world.GetJointCount())
	assert.True(t, a.IsAwake())
	assert.True(t, b.IsAwake())
}

func TestGearJointRatio(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	groundBd := planar.MakeBodyDef()
	ground := world.CreateBody(&groundBd)

	gearA := makeDynamicBox(&world, -2, 0, 0.5, 0.5)
	gearB := makeDynamicBox(&world, 2, 0, 0.5, 0.5)

	jdA := planar.MakeRevoluteJointDef()
	jdA.Initialize(ground, gearA, gearA.GetPosition())
	jointA := world.CreateJoint(&jdA)
	require.NotNil(t, jointA)

	jdB := planar.MakeRevoluteJointDef()
	jdB.Initialize(ground, gearB, gearB.GetPosition())
	jointB := world.CreateJoint(&jdB)
	require.NotNil(t, jointB)

	gd := planar.MakeGearJointDef()
	gd.BodyA = gearA
	gd.BodyB = gearB
	gd.Joint1 = jointA
	gd.Joint2 = jointB
	gd.Ratio = 2.0
	gear := world.CreateJoint(&gd)
	require.NotNil(t, gear)

	gearA.ApplyTorque(10.0, true)

	conf := stepConfAt60Hz()
	for i := 0; i < 60; i++ {
		world.Step(conf)
	}

	// The gear constraint couples the two revolute angles by the ratio.
	angleA := jointA.(*planar.RevoluteJoint).GetJointAngle()
	angleB := jointB.(*planar.RevoluteJoint).GetJointAngle()
	assert.InDelta(t, 0.0, angleA+2.0*angleB, 0.05)
}
