package planar

/// Collision filtering data. Two fixtures sharing a non-zero group always
/// collide when the group is positive and never when it is negative; with
/// no shared group, each side's category must be in the other's mask.
type Filter struct {
	CategoryBits uint16
	MaskBits     uint16
	GroupIndex   int16
}

func MakeFilter() Filter {
	return Filter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
	}
}

/// Everything needed to create a fixture. Definitions are plain values
/// and can be reused; the shape is cloned at creation time.
type FixtureDef struct {
	Shape ShapeInterface

	UserData interface{}

	/// Friction coefficient, usually in [0, 1].
	Friction float64

	/// Restitution (bounciness), usually in [0, 1].
	Restitution float64

	/// Density in kg/m^2; zero-density fixtures add no mass.
	Density float64

	/// Sensors detect overlap but produce no collision response.
	IsSensor bool

	Filter Filter
}

func MakeFixtureDef() FixtureDef {
	return FixtureDef{
		Friction: 0.2,
		Filter:   MakeFilter(),
	}
}

/// Links one shape child to its broad-phase proxy.
type FixtureProxy struct {
	Aabb       AABB
	Fixture    *Fixture
	ChildIndex int
	ProxyId    int
}

/// A fixture binds a shape to a body, along with the material and
/// filtering data collision needs. Its transform is the body's.
/// Created through Body.CreateFixture; not reusable.
type Fixture struct {
	Density float64

	Next *Fixture
	Body *Body

	Shape ShapeInterface

	Friction    float64
	Restitution float64

	Proxies    []FixtureProxy
	ProxyCount int

	Filter Filter

	Sensor bool

	UserData interface{}
}

func NewFixture() *Fixture {
	return &Fixture{Filter: MakeFilter()}
}

func (f Fixture) GetType() ShapeType {
	return f.Shape.GetType()
}

func (f Fixture) GetShape() ShapeInterface {
	return f.Shape
}

func (f Fixture) IsSensor() bool {
	return f.Sensor
}

func (f Fixture) GetFilterData() Filter {
	return f.Filter
}

func (f Fixture) GetUserData() interface{} {
	return f.UserData
}

func (f *Fixture) SetUserData(data interface{}) {
	f.UserData = data
}

func (f Fixture) GetBody() *Body {
	return f.Body
}

func (f Fixture) GetNext() *Fixture {
	return f.Next
}

/// Changing the density takes effect at the body's next ResetMassData.
func (f *Fixture) SetDensity(density float64) {
	Assert(IsValid(density) && density >= 0.0)
	f.Density = density
}

func (f Fixture) GetDensity() float64 {
	return f.Density
}

func (f Fixture) GetFriction() float64 {
	return f.Friction
}

/// Affects only contacts created after the change.
func (f *Fixture) SetFriction(friction float64) {
	f.Friction = friction
}

func (f Fixture) GetRestitution() float64 {
	return f.Restitution
}

/// Affects only contacts created after the change.
func (f *Fixture) SetRestitution(restitution float64) {
	f.Restitution = restitution
}

func (f Fixture) TestPoint(p Vec2) bool {
	return f.Shape.TestPoint(f.Body.GetTransformation(), p)
}

func (f Fixture) RayCast(output *RayCastOutput, input RayCastInput, childIndex int) bool {
	return f.Shape.RayCast(output, input, f.Body.GetTransformation(), childIndex)
}

func (f Fixture) GetMassData(massData *MassData) {
	f.Shape.ComputeMass(massData, f.Density)
}

/// The broad-phase (fat) AABB of one child.
func (f Fixture) GetAABB(childIndex int) AABB {
	Assert(0 <= childIndex && childIndex < f.ProxyCount)
	return f.Proxies[childIndex].Aabb
}

func (f *Fixture) Create(body *Body, def *FixtureDef) {
	f.UserData = def.UserData
	f.Friction = def.Friction
	f.Restitution = def.Restitution
	f.Body = body
	f.Next = nil
	f.Filter = def.Filter
	f.Sensor = def.IsSensor
	f.Shape = def.Shape.Clone()
	f.Density = def.Density

	// One proxy slot per shape child; filled in by CreateProxies.
	childCount := f.Shape.GetChildCount()
	f.Proxies = make([]FixtureProxy, childCount)
	for i := range f.Proxies {
		f.Proxies[i].ProxyId = nullProxy
	}
	f.ProxyCount = 0
}

func (f *Fixture) Destroy() {
	// The proxies must already be gone.
	Assert(f.ProxyCount == 0)
	f.Proxies = nil

	f.Shape.Destroy()
	f.Shape = nil
}

func (f *Fixture) CreateProxies(broadPhase *BroadPhase, xf Transformation) {
	Assert(f.ProxyCount == 0)

	f.ProxyCount = f.Shape.GetChildCount()
	for i := 0; i < f.ProxyCount; i++ {
		proxy := &f.Proxies[i]
		f.Shape.ComputeAABB(&proxy.Aabb, xf, i)
		proxy.ProxyId = broadPhase.CreateProxy(proxy.Aabb, proxy)
		proxy.Fixture = f
		proxy.ChildIndex = i
	}
}

func (f *Fixture) DestroyProxies(broadPhase *BroadPhase) {
	for i := 0; i < f.ProxyCount; i++ {
		broadPhase.DestroyProxy(f.Proxies[i].ProxyId)
		f.Proxies[i].ProxyId = nullProxy
	}
	f.ProxyCount = 0
}

/// Re-fatten and move each proxy to cover the swept shape between the two
/// transforms. Returns the number of proxies moved.
func (f *Fixture) Synchronize(broadPhase *BroadPhase, transform1 Transformation, transform2 Transformation) int {
	if f.ProxyCount == 0 {
		return 0
	}

	displacement := transform2.P.Sub(transform1.P)

	for i := 0; i < f.ProxyCount; i++ {
		proxy := &f.Proxies[i]

		// Cover the whole sweep (rotation effects may be underestimated).
		var before, after AABB
		f.Shape.ComputeAABB(&before, transform1, proxy.ChildIndex)
		f.Shape.ComputeAABB(&after, transform2, proxy.ChildIndex)
		proxy.Aabb.CombineTwoInPlace(before, after)

		broadPhase.MoveProxy(proxy.ProxyId, proxy.Aabb, displacement)
	}

	return f.ProxyCount
}

func (f *Fixture) SetFilterData(filter Filter) {
	f.Filter = filter
	f.Refilter()
}

/// Re-run filtering for every contact touching this fixture, and touch
/// the proxies so missing pairs can form.
func (f *Fixture) Refilter() {
	if f.Body == nil {
		return
	}

	for edge := f.Body.GetContactList(); edge != nil; edge = edge.Next {
		contact := edge.Contact
		if contact.GetFixtureA() == f || contact.GetFixtureB() == f {
			contact.FlagForFiltering()
		}
	}

	world := f.Body.GetWorld()
	if world == nil {
		return
	}

	broadPhase := &world.ContactManager.BroadPhase
	for i := 0; i < f.ProxyCount; i++ {
		broadPhase.TouchProxy(f.Proxies[i].ProxyId)
	}
}

func (f *Fixture) SetSensor(sensor bool) {
	if sensor != f.Sensor {
		f.Body.SetAwake(true)
		f.Sensor = sensor
	}
}
