package planar

/// Mass, centroid, and polar moment computed for a shape at a given
/// density. The moment is about the body-local origin.
type MassData struct {
	Mass   float64
	Center Vec2
	I      float64
}

func MakeMassData() MassData {
	return MassData{}
}

func NewMassData() *MassData {
	res := MakeMassData()
	return &res
}

type ShapeType uint8

const (
	ShapeTypeCircle ShapeType = iota
	ShapeTypeEdge
	ShapeTypePolygon
	ShapeTypeChain
	shapeTypeCount
)

/// The capability set every shape variant provides. Shapes are immutable
/// values from the simulation's point of view: a fixture clones its shape
/// at creation, so one shape definition can safely back many fixtures.
/// A shape may consist of several child primitives (chain segments).
type ShapeInterface interface {
	Destroy()

	/// Deep-copy the concrete shape.
	Clone() ShapeInterface

	/// Discriminator for down-casting to the concrete shape.
	GetType() ShapeType

	/// The vertex radius: the rounding carried around the shape's hull.
	GetRadius() float64

	/// Number of child primitives.
	GetChildCount() int

	/// Whether the world-space point is inside the shape. Only meaningful
	/// for shapes with an interior.
	TestPoint(xf Transformation, p Vec2) bool

	/// Cast a ray against one child, with the shape posed at the given
	/// transform.
	RayCast(output *RayCastOutput, input RayCastInput, transform Transformation, childIndex int) bool

	/// Bounding box of one child under the given transform.
	ComputeAABB(aabb *AABB, xf Transformation, childIndex int)

	/// Mass properties at the given density (kg/m^2), about the local
	/// origin.
	ComputeMass(massData *MassData, density float64)
}

/// Fields shared by every shape variant.
type Shape struct {
	Type ShapeType

	/// For polygonal shapes this must be PolygonRadius; rounded polygons
	/// are not supported.
	Radius float64
}

func (shape Shape) GetType() ShapeType {
	return shape.Type
}

func (shape Shape) GetRadius() float64 {
	return shape.Radius
}

func (shape *Shape) SetRadius(r float64) {
	shape.Radius = r
}
