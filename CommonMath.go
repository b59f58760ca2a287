package planar

import (
	"math"
)

/// Reports whether a scalar is a usable coordinate: neither NaN nor infinite.
func IsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

/// Clamp a into [low, high]. A non-finite bound leaves that side open.
func Clamp(a, low, high float64) float64 {
	if IsValid(high) && a > high {
		a = high
	}
	if IsValid(low) && a < low {
		a = low
	}
	return a
}

func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

/// A 2D column vector.
type Vec2 struct {
	X, Y float64
}

func MakeVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

var Vec2Zero = Vec2{}

func (v *Vec2) SetZero() {
	v.X = 0.0
	v.Y = 0.0
}

func (v *Vec2) Set(x, y float64) {
	v.X = x
	v.Y = y
}

func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{v.X + w.X, v.Y + w.Y}
}

func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{v.X - w.X, v.Y - w.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{s * v.X, s * v.Y}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v.X, -v.Y}
}

func (v Vec2) Dot(w Vec2) float64 {
	return v.X*w.X + v.Y*w.Y
}

/// The 2D cross product of two vectors is a scalar.
func (v Vec2) Cross(w Vec2) float64 {
	return v.X*w.Y - v.Y*w.X
}

/// Cross a scalar with a vector: s x v, a vector.
func CrossSV(s float64, v Vec2) Vec2 {
	return Vec2{-s * v.Y, s * v.X}
}

/// Cross a vector with a scalar: v x s, a vector.
func CrossVS(v Vec2, s float64) Vec2 {
	return Vec2{s * v.Y, -s * v.X}
}

func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

/// For comparisons, cheaper than Length.
func (v Vec2) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

/// Scale this vector to unit length in place, returning the prior length.
/// A vector too short to normalize is left alone and reports zero.
func (v *Vec2) Normalize() float64 {
	length := v.Length()
	if length < Epsilon {
		return 0.0
	}
	inv := 1.0 / length
	v.X *= inv
	v.Y *= inv
	return length
}

func (v Vec2) IsValid() bool {
	return IsValid(v.X) && IsValid(v.Y)
}

/// The counter-clockwise perpendicular, satisfying skew(v)·w == v x w.
func (v Vec2) Skew() Vec2 {
	return Vec2{-v.Y, v.X}
}

func (v Vec2) DistanceTo(w Vec2) float64 {
	return v.Sub(w).Length()
}

func (v Vec2) DistanceSquaredTo(w Vec2) float64 {
	d := v.Sub(w)
	return d.Dot(d)
}

func (v Vec2) Abs() Vec2 {
	return Vec2{math.Abs(v.X), math.Abs(v.Y)}
}

func (v Vec2) Min(w Vec2) Vec2 {
	return Vec2{math.Min(v.X, w.X), math.Min(v.Y, w.Y)}
}

func (v Vec2) Max(w Vec2) Vec2 {
	return Vec2{math.Max(v.X, w.X), math.Max(v.Y, w.Y)}
}

func (v Vec2) Clamp(low, high Vec2) Vec2 {
	return low.Max(v.Min(high))
}

/// Component access by axis index, for the axis-generic AABB code.
func (v Vec2) Component(axis int) float64 {
	if axis == 0 {
		return v.X
	}
	return v.Y
}

func (v *Vec2) SetComponent(axis int, value float64) {
	if axis == 0 {
		v.X = value
	} else {
		v.Y = value
	}
}

/// A 3D column vector, used by the 3x3 joint blocks.
type Vec3 struct {
	X, Y, Z float64
}

func MakeVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v *Vec3) SetZero() {
	v.X = 0.0
	v.Y = 0.0
	v.Z = 0.0
}

func (v *Vec3) Set(x, y, z float64) {
	v.X = x
	v.Y = y
	v.Z = z
}

func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{s * v.X, s * v.Y, s * v.Z}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

func (v Vec3) Dot(w Vec3) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

/// A 2x2 matrix stored as two column vectors.
type Mat22 struct {
	Ex, Ey Vec2
}

func MakeMat22() Mat22 {
	return Mat22{}
}

func MakeMat22FromColumns(c1, c2 Vec2) Mat22 {
	return Mat22{Ex: c1, Ey: c2}
}

func MakeMat22FromScalars(a11, a12, a21, a22 float64) Mat22 {
	return Mat22{
		Ex: Vec2{a11, a21},
		Ey: Vec2{a12, a22},
	}
}

func (m *Mat22) Set(c1, c2 Vec2) {
	m.Ex = c1
	m.Ey = c2
}

func (m *Mat22) SetIdentity() {
	m.Ex = Vec2{1.0, 0.0}
	m.Ey = Vec2{0.0, 1.0}
}

func (m *Mat22) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
}

func (m Mat22) Add(n Mat22) Mat22 {
	return Mat22{
		Ex: m.Ex.Add(n.Ex),
		Ey: m.Ey.Add(n.Ey),
	}
}

func (m Mat22) MulVec(v Vec2) Vec2 {
	return Vec2{
		m.Ex.X*v.X + m.Ey.X*v.Y,
		m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

/// Multiply the transpose by a vector. For a rotation matrix this is the
/// inverse transform.
func (m Mat22) MulTVec(v Vec2) Vec2 {
	return Vec2{v.Dot(m.Ex), v.Dot(m.Ey)}
}

func (m Mat22) Mul(n Mat22) Mat22 {
	return Mat22{
		Ex: m.MulVec(n.Ex),
		Ey: m.MulVec(n.Ey),
	}
}

func (m Mat22) MulT(n Mat22) Mat22 {
	return Mat22{
		Ex: Vec2{m.Ex.Dot(n.Ex), m.Ey.Dot(n.Ex)},
		Ey: Vec2{m.Ex.Dot(n.Ey), m.Ey.Dot(n.Ey)},
	}
}

func (m Mat22) GetInverse() Mat22 {
	det := m.Ex.X*m.Ey.Y - m.Ey.X*m.Ex.Y
	if det != 0.0 {
		det = 1.0 / det
	}
	return Mat22{
		Ex: Vec2{det * m.Ey.Y, -det * m.Ex.Y},
		Ey: Vec2{-det * m.Ey.X, det * m.Ex.X},
	}
}

/// Solve m*x = b by Cramer's rule. Cheaper than inverting when the matrix
/// is used once; a singular matrix yields the zero vector.
func (m Mat22) Solve(b Vec2) Vec2 {
	a11, a12 := m.Ex.X, m.Ey.X
	a21, a22 := m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec2{
		det * (a22*b.X - a12*b.Y),
		det * (a11*b.Y - a21*b.X),
	}
}

/// A 3x3 matrix stored as three column vectors.
type Mat33 struct {
	Ex, Ey, Ez Vec3
}

func MakeMat33() Mat33 {
	return Mat33{}
}

func MakeMat33FromColumns(c1, c2, c3 Vec3) Mat33 {
	return Mat33{Ex: c1, Ey: c2, Ez: c3}
}

func (m *Mat33) SetZero() {
	m.Ex.SetZero()
	m.Ey.SetZero()
	m.Ez.SetZero()
}

func (m Mat33) MulVec(v Vec3) Vec3 {
	return m.Ex.Scale(v.X).Add(m.Ey.Scale(v.Y)).Add(m.Ez.Scale(v.Z))
}

/// Multiply the upper-left 2x2 block by a vector.
func (m Mat33) MulVec22(v Vec2) Vec2 {
	return Vec2{
		m.Ex.X*v.X + m.Ey.X*v.Y,
		m.Ex.Y*v.X + m.Ey.Y*v.Y,
	}
}

/// Solve m*x = b for the full 3x3 system by Cramer's rule. A singular
/// matrix yields the zero vector.
func (m Mat33) Solve33(b Vec3) Vec3 {
	det := m.Ex.Dot(m.Ey.Cross(m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec3{
		det * b.Dot(m.Ey.Cross(m.Ez)),
		det * m.Ex.Dot(b.Cross(m.Ez)),
		det * m.Ex.Dot(m.Ey.Cross(b)),
	}
}

/// Solve the upper-left 2x2 block of m*x = b.
func (m Mat33) Solve22(b Vec2) Vec2 {
	a11, a12 := m.Ex.X, m.Ey.X
	a21, a22 := m.Ex.Y, m.Ey.Y
	det := a11*a22 - a12*a21
	if det != 0.0 {
		det = 1.0 / det
	}
	return Vec2{
		det * (a22*b.X - a12*b.Y),
		det * (a11*b.Y - a21*b.X),
	}
}

/// Write the inverse of the upper-left 2x2 block into out, zero elsewhere.
func (m Mat33) GetInverse22(out *Mat33) {
	a, b := m.Ex.X, m.Ey.X
	c, d := m.Ex.Y, m.Ey.Y
	det := a*d - b*c
	if det != 0.0 {
		det = 1.0 / det
	}
	out.Ex = Vec3{det * d, -det * c, 0.0}
	out.Ey = Vec3{-det * b, det * a, 0.0}
	out.Ez = Vec3{}
}

/// Write the inverse of m into out, assuming m is symmetric. A singular
/// matrix yields the zero matrix.
func (m Mat33) GetSymInverse33(out *Mat33) {
	det := m.Ex.Dot(m.Ey.Cross(m.Ez))
	if det != 0.0 {
		det = 1.0 / det
	}

	a11, a12, a13 := m.Ex.X, m.Ey.X, m.Ez.X
	a22, a23 := m.Ey.Y, m.Ez.Y
	a33 := m.Ez.Z

	out.Ex = Vec3{
		det * (a22*a33 - a23*a23),
		det * (a13*a23 - a12*a33),
		det * (a12*a23 - a13*a22),
	}
	out.Ey = Vec3{
		out.Ex.Y,
		det * (a11*a33 - a13*a13),
		det * (a13*a12 - a11*a23),
	}
	out.Ez = Vec3{
		out.Ex.Z,
		out.Ey.Z,
		det * (a11*a22 - a12*a12),
	}
}

/// A unit vector representing an orientation: the cosine and sine of an
/// angle, kept together so rotating a vector needs no trigonometry.
type Rot struct {
	S, C float64
}

func MakeRot() Rot {
	return Rot{S: 0.0, C: 1.0}
}

func MakeRotFromAngle(radians float64) Rot {
	return Rot{
		S: math.Sin(radians),
		C: math.Cos(radians),
	}
}

/// Initialize from a direction vector. Falls back to the given rotation
/// when the vector is too short to normalize.
func MakeRotFromVector(v Vec2, fallback Rot) Rot {
	length := v.Length()
	if length < Epsilon {
		return fallback
	}
	return Rot{S: v.Y / length, C: v.X / length}
}

/// Literal constructor for angles given in degrees. All other angle
/// parameters in this package are radians.
func AngleFromDegrees(degrees float64) float64 {
	return degrees / 180.0 * Pi
}

func (q *Rot) Set(radians float64) {
	q.S = math.Sin(radians)
	q.C = math.Cos(radians)
}

func (q *Rot) SetIdentity() {
	q.S = 0.0
	q.C = 1.0
}

func (q Rot) GetAngle() float64 {
	return math.Atan2(q.S, q.C)
}

func (q Rot) GetXAxis() Vec2 {
	return Vec2{q.C, q.S}
}

func (q Rot) GetYAxis() Vec2 {
	return Vec2{-q.S, q.C}
}

/// Compose two rotations.
func (q Rot) Mul(r Rot) Rot {
	return Rot{
		S: q.S*r.C + q.C*r.S,
		C: q.C*r.C - q.S*r.S,
	}
}

/// Compose the inverse of q with r.
func (q Rot) MulT(r Rot) Rot {
	return Rot{
		S: q.C*r.S - q.S*r.C,
		C: q.C*r.C + q.S*r.S,
	}
}

func (q Rot) Rotate(v Vec2) Vec2 {
	return Vec2{
		q.C*v.X - q.S*v.Y,
		q.S*v.X + q.C*v.Y,
	}
}

func (q Rot) InvRotate(v Vec2) Vec2 {
	return Vec2{
		q.C*v.X + q.S*v.Y,
		-q.S*v.X + q.C*v.Y,
	}
}

/// The pose of a rigid frame: a translation plus a rotation.
type Transformation struct {
	P Vec2
	Q Rot
}

func MakeTransformation() Transformation {
	return Transformation{Q: MakeRot()}
}

func MakeTransformationByPositionAndRotation(position Vec2, rotation Rot) Transformation {
	return Transformation{P: position, Q: rotation}
}

func (t *Transformation) SetIdentity() {
	t.P.SetZero()
	t.Q.SetIdentity()
}

func (t *Transformation) Set(position Vec2, radians float64) {
	t.P = position
	t.Q.Set(radians)
}

/// Map a point from the local frame to world space.
func (t Transformation) Apply(v Vec2) Vec2 {
	return Vec2{
		t.Q.C*v.X - t.Q.S*v.Y + t.P.X,
		t.Q.S*v.X + t.Q.C*v.Y + t.P.Y,
	}
}

/// Map a world-space point into the local frame.
func (t Transformation) ApplyInverse(v Vec2) Vec2 {
	px := v.X - t.P.X
	py := v.Y - t.P.Y
	return Vec2{
		t.Q.C*px + t.Q.S*py,
		-t.Q.S*px + t.Q.C*py,
	}
}

/// Compose two frames: the result maps through u, then through t.
func (t Transformation) Mul(u Transformation) Transformation {
	return Transformation{
		P: t.Q.Rotate(u.P).Add(t.P),
		Q: t.Q.Mul(u.Q),
	}
}

/// Compose the inverse of t with u.
func (t Transformation) MulT(u Transformation) Transformation {
	return Transformation{
		P: t.Q.InvRotate(u.P.Sub(t.P)),
		Q: t.Q.MulT(u.Q),
	}
}

/// Describes the motion of a body between two poses for continuous
/// collision. Shapes are attached at the body origin, which need not be
/// the center of mass, so the interpolation tracks the center explicitly.
type Sweep struct {
	LocalCenter Vec2    // local center of mass position
	C0, C       Vec2    // world center positions
	A0, A       float64 // world angles

	/// Fraction of the step already consumed; C0/A0 hold the pose there.
	Alpha0 float64
}

/// Interpolated pose at fraction beta of the remaining interval.
func (sweep Sweep) GetTransformation(xf *Transformation, beta float64) {
	center := sweep.C0.Scale(1.0 - beta).Add(sweep.C.Scale(beta))
	xf.Q.Set((1.0-beta)*sweep.A0 + beta*sweep.A)

	// The origin sits behind the rotated local center.
	xf.P = center.Sub(xf.Q.Rotate(sweep.LocalCenter))
}

/// Move the start pose forward to the absolute fraction alpha.
func (sweep *Sweep) Advance0(alpha float64) {
	Assert(sweep.Alpha0 < 1.0)
	beta := (alpha - sweep.Alpha0) / (1.0 - sweep.Alpha0)
	sweep.C0 = sweep.C0.Add(sweep.C.Sub(sweep.C0).Scale(beta))
	sweep.A0 += beta * (sweep.A - sweep.A0)
	sweep.Alpha0 = alpha
}

/// Shift both angles by the same multiple of 2 pi so that A0 lies in
/// [0, 2 pi), keeping their difference intact.
func (sweep *Sweep) Normalize() {
	turns := 2.0 * Pi * math.Floor(sweep.A0/(2.0*Pi))
	sweep.A0 -= turns
	sweep.A -= turns
}

/// The smallest power of two strictly greater than a 32-bit value (so a
/// power of two maps to the next one), by smearing the top set bit into
/// every lower position.
func NextPowerOfTwo(x uint32) uint32 {
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	return x + 1
}

func IsPowerOfTwo(x uint32) bool {
	return x > 0 && (x&(x-1)) == 0
}
