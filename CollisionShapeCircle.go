package planar

import (
	"math"
)

/// A circle shape.
type CircleShape struct {
	Shape
	/// Center in the parent body's local frame.
	P Vec2
}

func MakeCircleShape() CircleShape {
	return CircleShape{
		Shape: Shape{Type: ShapeTypeCircle},
	}
}

func (c CircleShape) Clone() ShapeInterface {
	clone := c
	return &clone
}

func (c CircleShape) GetChildCount() int {
	return 1
}

func (c CircleShape) Destroy() {}

func (c CircleShape) TestPoint(xf Transformation, p Vec2) bool {
	offset := p.Sub(xf.Apply(c.P))
	return offset.Dot(offset) <= c.Radius*c.Radius
}

/// Segment-circle intersection by solving |s + t*r| = radius for the
/// smaller root of the quadratic.
func (c CircleShape) RayCast(output *RayCastOutput, input RayCastInput, xf Transformation, childIndex int) bool {
	center := xf.Apply(c.P)
	s := input.P1.Sub(center)
	r := input.P2.Sub(input.P1)

	// t^2*(r.r) + 2t*(s.r) + (s.s - radius^2) = 0
	b := s.Dot(s) - c.Radius*c.Radius
	rDotR := r.Dot(r)
	sDotR := s.Dot(r)
	discriminant := sDotR*sDotR - rDotR*b

	if discriminant < 0.0 || rDotR < Epsilon {
		return false
	}

	t := -(sDotR + math.Sqrt(discriminant))
	if t < 0.0 || input.MaxFraction*rDotR < t {
		return false
	}

	t /= rDotR
	output.Fraction = t
	output.Normal = s.Add(r.Scale(t))
	output.Normal.Normalize()
	return true
}

func (c CircleShape) ComputeAABB(aabb *AABB, xf Transformation, childIndex int) {
	center := xf.Apply(c.P)
	extent := Vec2{c.Radius, c.Radius}
	aabb.LowerBound = center.Sub(extent)
	aabb.UpperBound = center.Add(extent)
}

/// Disc mass: m = rho*pi*r^2; I about the local origin adds the
/// parallel-axis term for an off-origin center.
func (c CircleShape) ComputeMass(massData *MassData, density float64) {
	massData.Mass = density * Pi * c.Radius * c.Radius
	massData.Center = c.P
	massData.I = massData.Mass * (0.5*c.Radius*c.Radius + c.P.Dot(c.P))
}
