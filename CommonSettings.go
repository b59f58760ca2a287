package planar

import "math"

// Debug enables hard assertions. When false, contract violations are
// reported through the package logger and execution continues.
const Debug = false

func Assert(a bool) {
	AssertMsg(a, "assertion failed")
}

func AssertMsg(a bool, msg string) {
	if !a {
		if Debug {
			panic(msg)
		}
		logger.Warn(msg)
	}
}

const MaxFloat = math.MaxFloat64
const Epsilon = math.SmallestNonzeroFloat64
const Pi = math.Pi

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
/// Most of these are defaults: the world takes its slops from WorldDef and
/// the solvers take their iteration counts and rates from StepConf.

// Collision

/// The maximum number of contact points between two convex shapes. Do
/// not change this value.
const MaxManifoldPoints = 2

/// The maximum number of vertices on a convex polygon.
const MaxPolygonVertices = 8

/// A small length used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const DefaultLinearSlop = 0.005

/// A small angle used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const DefaultAngularSlop = (2.0 / 180.0 * Pi)

/// Fattens AABBs in the dynamic tree. This allows proxies to move by a small
/// amount without triggering a tree adjustment. In meters.
const DefaultAabbExtension = DefaultLinearSlop * 20.0

/// Fattens AABBs in the dynamic tree. This is used to predict the future
/// position based on the current displacement. A dimensionless multiplier.
const AabbMultiplier = 2.0

/// The radius of the polygon/edge shape skin. This should not be modified.
/// Making this smaller means polygons will have an insufficient buffer for
/// continuous collision. Making it larger may create artifacts for vertex
/// collision.
const PolygonRadius = (2.0 * DefaultLinearSlop)

/// Vertex radius range accepted at fixture creation. The upper bound is the
/// world's MaxVertexRadius tunable; this is its default.
const DefaultMinVertexRadius = DefaultLinearSlop
const DefaultMaxVertexRadius = 255.0

// Dynamics

/// Default maximum number of sub-steps per contact in continuous physics
/// simulation.
const DefaultMaxSubSteps = 48

/// Maximum number of contacts handled when solving a TOI impact.
const MaxTOIContacts = 32

/// Default cap on TOI root-finder iterations per contact.
const DefaultMaxTOIRootIterCount = 50

/// Default cap on whole-world TOI passes per step.
const DefaultMaxTOIIterations = 20

/// A velocity threshold for elastic collisions. Any collision with a relative
/// linear velocity below this threshold will be treated as inelastic.
const DefaultVelocityThreshold = 0.8

/// The maximum linear position correction used when solving constraints.
/// This helps to prevent overshoot.
const DefaultMaxLinearCorrection = 0.2

/// The maximum angular position correction used when solving constraints.
/// This helps to prevent overshoot.
const DefaultMaxAngularCorrection = (8.0 / 180.0 * Pi)

/// The maximum linear translation of a body per step. This limit is very
/// large and is used to prevent numerical problems.
const DefaultMaxTranslation = 4.0

/// The maximum angular rotation of a body per step. This limit is very large
/// and is used to prevent numerical problems.
const DefaultMaxRotation = (0.5 * Pi)

/// This scale factor controls how fast overlap is resolved. Ideally this
/// would be 1 so that overlap is removed in one time step. However using
/// values close to 1 often lead to overshoot.
const DefaultRegResolutionRate = 0.2
const DefaultToiResolutionRate = 0.75

// Sleep

/// The time that a body must be still before it will go to sleep.
const DefaultMinStillTimeToSleep = 0.5

/// A body cannot sleep if its linear velocity is above this tolerance.
const DefaultLinearSleepTolerance = 0.01

/// A body cannot sleep if its angular velocity is above this tolerance.
const DefaultAngularSleepTolerance = (2.0 / 180.0 * Pi)

/// Default solver iteration counts.
const DefaultRegVelocityIterations = 8
const DefaultRegPositionIterations = 3
const DefaultToiVelocityIterations = 8
const DefaultToiPositionIterations = 20
