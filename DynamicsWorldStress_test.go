package planar_test

import (
	"testing"

	"github.com/gerich-home/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A bullet box fired through a cloud of small circles: after the dust
// settles, every pair of overlapping fixtures must be known to the world
// as a contact (nothing tunneled into an untracked overlap).
func TestBulletThroughCircleCloud(t *testing.T) {
	world := planar.MakeWorldFromGravity(planar.MakeVec2(0, 0))

	bodies := make([]*planar.Body, 0, 40)

	// A 6x6 grid of small circles around (-3, 5).
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			bd := planar.MakeBodyDef()
			bd.Type = planar.DynamicBody
			bd.Position.Set(-3.0+float64(i)*0.25, 5.0+float64(j)*0.25)
			body := world.CreateBody(&bd)

			shape := planar.MakeCircleShape()
			shape.Radius = 0.1
			body.CreateFixture(&shape, 1.0)
			bodies = append(bodies, body)
		}
	}

	bd := planar.MakeBodyDef()
	bd.Type = planar.DynamicBody
	bd.Bullet = true
	bd.Position.Set(-40, 5)
	bd.LinearVelocity.Set(150, 0)
	bullet := world.CreateBody(&bd)

	shape := planar.MakePolygonShape()
	shape.SetAsBox(0.75, 0.75)
	bullet.CreateFixture(&shape, 1.0)
	bodies = append(bodies, bullet)

	conf := stepConfAt60Hz()
	for i := 0; i < 300; i++ {
		world.Step(conf)
	}

	// Collect the world's live contact pairs.
	type pairKey struct{ a, b *planar.Fixture }
	known := make(map[pairKey]bool)
	for c := world.GetContactList(); c != nil; c = c.GetNext() {
		known[pairKey{c.GetFixtureA(), c.GetFixtureB()}] = true
		known[pairKey{c.GetFixtureB(), c.GetFixtureA()}] = true
	}

	// Every overlapping fixture pair must have a contact.
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			fa := bodies[i].GetFixtureList()
			fb := bodies[j].GetFixtureList()
			require.NotNil(t, fa)
			require.NotNil(t, fb)

			overlap := planar.TestOverlapShapes(
				fa.GetShape(), 0, fb.GetShape(), 0,
				bodies[i].GetTransformation(), bodies[j].GetTransformation(),
			)
			if overlap {
				assert.True(t, known[pairKey{fa, fb}],
					"overlapping fixtures without a tracked contact (%d, %d)", i, j)
			}
		}
	}

	// Everything is still finite.
	for _, body := range bodies {
		p := body.GetPosition()
		assert.True(t, planar.IsValid(p.X) && planar.IsValid(p.Y))
	}
}
