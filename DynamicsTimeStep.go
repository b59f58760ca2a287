package planar

/// Profiling data. Times are in milliseconds.
type Profile struct {
	Step          float64
	Collide       float64
	Solve         float64
	SolveInit     float64
	SolveVelocity float64
	SolvePosition float64
	Broadphase    float64
	SolveTOI      float64
}

func MakeProfile() Profile {
	return Profile{}
}

/// Step configuration. Every tunable the regular and TOI solvers read per
/// step lives here so a caller can vary quality against performance from
/// one step to the next. MakeStepConf returns the defaults; SetTime keeps
/// DtRatio consistent when the delta changes between steps.
type StepConf struct {
	Dt      float64 // time step
	InvDt   float64 // inverse time step (0 if dt == 0)
	DtRatio float64 // dt * inv_dt of the previous step

	RegVelocityIterations int
	RegPositionIterations int
	ToiVelocityIterations int
	ToiPositionIterations int

	MaxSubSteps         int
	MaxTOIRootIterCount int
	MaxTOIIterations    int

	VelocityThreshold    float64
	MaxTranslation       float64
	MaxRotation          float64
	MaxLinearCorrection  float64
	MaxAngularCorrection float64
	RegResolutionRate    float64
	ToiResolutionRate    float64

	LinearSleepTolerance  float64
	AngularSleepTolerance float64
	MinStillTimeToSleep   float64

	DoWarmStart bool
	DoToi       bool

	// Filled in by the world from its own tunables before solving.
	LinearSlop  float64
	AngularSlop float64
}

func MakeStepConf() StepConf {
	return StepConf{
		DtRatio:               1.0,
		RegVelocityIterations: DefaultRegVelocityIterations,
		RegPositionIterations: DefaultRegPositionIterations,
		ToiVelocityIterations: DefaultToiVelocityIterations,
		ToiPositionIterations: DefaultToiPositionIterations,
		MaxSubSteps:           DefaultMaxSubSteps,
		MaxTOIRootIterCount:   DefaultMaxTOIRootIterCount,
		MaxTOIIterations:      DefaultMaxTOIIterations,
		VelocityThreshold:     DefaultVelocityThreshold,
		MaxTranslation:        DefaultMaxTranslation,
		MaxRotation:           DefaultMaxRotation,
		MaxLinearCorrection:   DefaultMaxLinearCorrection,
		MaxAngularCorrection:  DefaultMaxAngularCorrection,
		RegResolutionRate:     DefaultRegResolutionRate,
		ToiResolutionRate:     DefaultToiResolutionRate,
		LinearSleepTolerance:  DefaultLinearSleepTolerance,
		AngularSleepTolerance: DefaultAngularSleepTolerance,
		MinStillTimeToSleep:   DefaultMinStillTimeToSleep,
		DoWarmStart:           true,
		DoToi:                 true,
		LinearSlop:            DefaultLinearSlop,
		AngularSlop:           DefaultAngularSlop,
	}
}

/// Set the step time, keeping DtRatio consistent with the previous delta.
func (conf *StepConf) SetTime(dt float64) {
	if conf.Dt > 0.0 {
		conf.DtRatio = dt / conf.Dt
	} else {
		conf.DtRatio = 1.0
	}
	conf.Dt = dt
	if dt > 0.0 {
		conf.InvDt = 1.0 / dt
	} else {
		conf.InvDt = 0.0
	}
}

/// Pre-phase statistics: contact manager pair bookkeeping.
type PreStepStats struct {
	Ignored   int
	Destroyed int
	Updated   int
	Added     int
}

/// Regular-phase statistics.
type RegStepStats struct {
	IslandsFound  int
	IslandsSolved int
	ContactsAdded int
	BodiesSlept   int
	ProxiesMoved  int
}

/// TOI-phase statistics.
type ToiStepStats struct {
	IslandsFound    int
	ContactsChecked int
	ContactsAdded   int
	ProxiesMoved    int
}

/// Per-step statistics returned by World.Step.
type StepStats struct {
	Pre PreStepStats
	Reg RegStepStats
	Toi ToiStepStats
}

/// This is an internal structure.
type Position struct {
	C Vec2
	A float64
}

/// This is an internal structure.
type Velocity struct {
	V Vec2
	W float64
}

/// Solver Data
type SolverData struct {
	Step       StepConf
	Positions  []Position
	Velocities []Velocity
}

func MakeSolverData() SolverData {
	return SolverData{}
}

/// Position and velocity of one island body, loaded together the way the
/// joint solvers consume them.
func (data SolverData) state(i int) (Vec2, float64, Vec2, float64) {
	return data.Positions[i].C, data.Positions[i].A, data.Velocities[i].V, data.Velocities[i].W
}

func (data SolverData) velocity(i int) (Vec2, float64) {
	return data.Velocities[i].V, data.Velocities[i].W
}

func (data SolverData) position(i int) (Vec2, float64) {
	return data.Positions[i].C, data.Positions[i].A
}

func (data SolverData) setVelocity(i int, v Vec2, w float64) {
	data.Velocities[i].V = v
	data.Velocities[i].W = w
}

func (data SolverData) setPosition(i int, c Vec2, a float64) {
	data.Positions[i].C = c
	data.Positions[i].A = a
}
