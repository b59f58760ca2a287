package planar

type JointType uint8

const (
	UnknownJointType JointType = iota + 1
	RevoluteJointType
	PrismaticJointType
	DistanceJointType
	PulleyJointType
	MouseJointType
	GearJointType
	WheelJointType
	WeldJointType
	FrictionJointType
	RopeJointType
	MotorJointType
)

type limitState uint8

const (
	inactiveLimit limitState = iota + 1
	atLowerLimit
	atUpperLimit
	equalLimits
)

/// A joint edge: one half of a joint's membership in the constraint
/// graph, linked into the owning body's joint list. Each joint has two,
/// one per attached body, and each names the body on the far side.
type JointEdge struct {
	Other *Body
	Joint JointInterface // backed by pointer
	Prev  *JointEdge
	Next  *JointEdge
}

/// Fields shared by every joint definition.
type JointDef struct {
	/// Set by the concrete definition's constructor.
	Type JointType

	UserData interface{}

	BodyA *Body
	BodyB *Body

	/// Whether the attached bodies may still collide with each other.
	CollideConnected bool
}

func MakeJointDef() JointDef {
	return JointDef{Type: UnknownJointType}
}

type JointDefInterface interface {
	GetType() JointType
	SetType(t JointType)
	GetUserData() interface{}
	SetUserData(userdata interface{})
	GetBodyA() *Body
	SetBodyA(body *Body)
	GetBodyB() *Body
	SetBodyB(body *Body)
	IsCollideConnected() bool
	SetCollideConnected(flag bool)
}

func (def JointDef) GetType() JointType            { return def.Type }
func (def *JointDef) SetType(t JointType)          { def.Type = t }
func (def JointDef) GetUserData() interface{}      { return def.UserData }
func (def *JointDef) SetUserData(data interface{}) { def.UserData = data }
func (def JointDef) GetBodyA() *Body               { return def.BodyA }
func (def *JointDef) SetBodyA(body *Body)          { def.BodyA = body }
func (def JointDef) GetBodyB() *Body               { return def.BodyB }
func (def *JointDef) SetBodyB(body *Body)          { def.BodyB = body }
func (def JointDef) IsCollideConnected() bool      { return def.CollideConnected }
func (def *JointDef) SetCollideConnected(b bool)   { def.CollideConnected = b }

/// Island-solver constants every joint caches at the start of a solve:
/// the bodies' island indices, local centers, and inverse masses.
type jointSolverCache struct {
	IndexA, IndexB             int
	LocalCenterA, LocalCenterB Vec2
	InvMassA, InvMassB         float64
	InvIA, InvIB               float64
}

func (c *jointSolverCache) capture(bodyA, bodyB *Body) {
	c.IndexA = bodyA.IslandIndex
	c.IndexB = bodyB.IslandIndex
	c.LocalCenterA = bodyA.Sweep.LocalCenter
	c.LocalCenterB = bodyB.Sweep.LocalCenter
	c.InvMassA = bodyA.InvMass
	c.InvMassB = bodyB.InvMass
	c.InvIA = bodyA.InvI
	c.InvIB = bodyB.InvI
}

/// The base joint. Joints constrain two bodies together in various
/// fashions; some also feature limits and motors.
type Joint struct {
	Type             JointType
	Prev             JointInterface // backed by pointer
	Next             JointInterface // backed by pointer
	EdgeA            *JointEdge
	EdgeB            *JointEdge
	BodyA            *Body
	BodyB            *Body
	IslandFlag       bool
	CollideConnected bool
	UserData         interface{}
}

/// Shift the origin for any points stored in world coordinates.
func (j Joint) ShiftOrigin(newOrigin Vec2) {}

func (j Joint) GetType() JointType            { return j.Type }
func (j *Joint) SetType(t JointType)          { j.Type = t }
func (j Joint) GetBodyA() *Body               { return j.BodyA }
func (j *Joint) SetBodyA(body *Body)          { j.BodyA = body }
func (j Joint) GetBodyB() *Body               { return j.BodyB }
func (j *Joint) SetBodyB(body *Body)          { j.BodyB = body }
func (j Joint) GetNext() JointInterface       { return j.Next }
func (j *Joint) SetNext(next JointInterface)  { j.Next = next }
func (j Joint) GetPrev() JointInterface       { return j.Prev }
func (j *Joint) SetPrev(prev JointInterface)  { j.Prev = prev }
func (j Joint) GetUserData() interface{}      { return j.UserData }
func (j *Joint) SetUserData(data interface{}) { j.UserData = data }
func (j Joint) IsCollideConnected() bool      { return j.CollideConnected }
func (j *Joint) SetCollideConnected(f bool)   { j.CollideConnected = f }
func (j Joint) GetEdgeA() *JointEdge          { return j.EdgeA }
func (j *Joint) SetEdgeA(edge *JointEdge)     { j.EdgeA = edge }
func (j Joint) GetEdgeB() *JointEdge          { return j.EdgeB }
func (j *Joint) SetEdgeB(edge *JointEdge)     { j.EdgeB = edge }

/// A joint is active only while both of its bodies are.
func (j Joint) IsActive() bool {
	return j.BodyA.IsActive() && j.BodyB.IsActive()
}

func (j *Joint) Destroy() {}

func (j *Joint) InitVelocityConstraints(data SolverData)  {}
func (j *Joint) SolveVelocityConstraints(data SolverData) {}
func (j *Joint) SolvePositionConstraints(data SolverData) bool {
	return false
}

func (j Joint) GetIslandFlag() bool      { return j.IslandFlag }
func (j *Joint) SetIslandFlag(flag bool) { j.IslandFlag = flag }

func MakeJoint(def JointDefInterface) *Joint { // def has to be backed by pointer
	Assert(def.GetBodyA() != def.GetBodyB())

	return &Joint{
		Type:             def.GetType(),
		BodyA:            def.GetBodyA(),
		BodyB:            def.GetBodyB(),
		CollideConnected: def.IsCollideConnected(),
		UserData:         def.GetUserData(),
		EdgeA:            &JointEdge{},
		EdgeB:            &JointEdge{},
	}
}

/// Construct the concrete joint for a definition. The definition must be
/// the pointer form of the matching concrete type.
func JointCreate(def JointDefInterface) JointInterface {
	switch typed := def.(type) {
	case *DistanceJointDef:
		return MakeDistanceJoint(typed)
	case *MouseJointDef:
		return MakeMouseJoint(typed)
	case *PrismaticJointDef:
		return MakePrismaticJoint(typed)
	case *RevoluteJointDef:
		return MakeRevoluteJoint(typed)
	case *PulleyJointDef:
		return MakePulleyJoint(typed)
	case *GearJointDef:
		return MakeGearJoint(typed)
	case *WheelJointDef:
		return MakeWheelJoint(typed)
	case *WeldJointDef:
		return MakeWeldJoint(typed)
	case *FrictionJointDef:
		return MakeFrictionJoint(typed)
	case *RopeJointDef:
		return MakeRopeJoint(typed)
	case *MotorJointDef:
		return MakeMotorJoint(typed)
	default:
		AssertMsg(false, "unknown joint definition type")
		return nil
	}
}

func JointDestroy(joint JointInterface) { // has to be backed by pointer
	joint.Destroy()
}

type JointInterface interface {
	/// Shift the origin for any points stored in world coordinates.
	ShiftOrigin(newOrigin Vec2)

	GetType() JointType
	SetType(t JointType)

	GetBodyA() *Body
	SetBodyA(body *Body)

	GetBodyB() *Body
	SetBodyB(body *Body)

	GetNext() JointInterface     // backed by pointer
	SetNext(next JointInterface) // backed by pointer

	GetPrev() JointInterface     // backed by pointer
	SetPrev(prev JointInterface) // backed by pointer

	GetEdgeA() *JointEdge
	SetEdgeA(edge *JointEdge)

	GetEdgeB() *JointEdge
	SetEdgeB(edge *JointEdge)

	GetUserData() interface{}
	SetUserData(data interface{})

	IsCollideConnected() bool
	SetCollideConnected(flag bool)

	IsActive() bool

	Destroy()

	InitVelocityConstraints(data SolverData)
	SolveVelocityConstraints(data SolverData)
	SolvePositionConstraints(data SolverData) bool

	GetIslandFlag() bool
	SetIslandFlag(flag bool)
}
