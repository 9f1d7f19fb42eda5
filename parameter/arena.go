package parameter

import "time"

// Population & Arena
const (
	// DefaultPopulation is the number of agents created per fight
	DefaultPopulation = 200

	// DefaultArenaWidth and DefaultArenaHeight are arena extents in world units
	DefaultArenaWidth  = 1600.0
	DefaultArenaHeight = 900.0

	// DefaultRadius is the base agent radius before growth and death shrink
	DefaultRadius = 8.0
	// DefaultRadiusVariance is the +/- fraction applied to base radius at creation
	DefaultRadiusVariance = 0.0

	// DefaultMaxHealth is the starting and respawn health
	DefaultMaxHealth = 100.0
)

// Motion
const (
	// DefaultBaseSpeed is the initial and respawn speed scale (units/sec)
	DefaultBaseSpeed = 140.0
	// DefaultMinSpeed and DefaultMaxSpeed bound agent speed after every phase
	DefaultMinSpeed = 60.0
	DefaultMaxSpeed = 320.0

	// DefaultJitter is the maximum random acceleration magnitude (units/sec²)
	DefaultJitter = 90.0

	// DefaultDamping is the per-tick velocity multiplier, independent of dt
	DefaultDamping = 0.999

	// DefaultWallBoost multiplies velocity after a wall reflection
	DefaultWallBoost = 1.02
)

// Combat
const (
	// DefaultElasticity is the restitution coefficient for agent contacts
	DefaultElasticity = 1.0
	// DefaultHitBoost multiplies both velocities after a contact
	DefaultHitBoost = 1.05

	// DefaultDamageMin and DefaultDamageMax bound the per-contact damage roll
	DefaultDamageMin = 4.0
	DefaultDamageMax = 12.0

	// DefaultDeathFadeSec is the Dying countdown before an agent becomes Dead
	DefaultDeathFadeSec = 0.8

	// DefaultSparseHitsPerSec is the expected random hits per living agent per second when collisions are off
	DefaultSparseHitsPerSec = 0.6
)

// Growth
const (
	// DefaultGrowthStartSurvivors is the survivor fraction at which radii start growing
	DefaultGrowthStartSurvivors = 0.4
	// DefaultGrowthFullSurvivors is the survivor fraction at which growth reaches max scale
	DefaultGrowthFullSurvivors = 0.05
	// DefaultGrowthExponent shapes the growth curve after smoothstep
	DefaultGrowthExponent = 1.0
	// DefaultGrowthMaxScale is the radius multiplier at full growth
	DefaultGrowthMaxScale = 4.5
	// DefaultGrowthSmoothSec is the smoothing time constant of the scale
	DefaultGrowthSmoothSec = 0.6
)

// Broad phase
const (
	// DefaultMaxPairsPerCell caps candidate pairs per cell neighborhood per tick, 0 = unlimited
	// Under heavy crowding remaining pairs resolve on later ticks
	DefaultMaxPairsPerCell = 256

	// DefaultMinCellSize is the lower bound on spatial grid cell side
	DefaultMinCellSize = 16.0
)

// Clock & Telemetry
const (
	// DefaultTickRate is the maximum ticks per second of the threaded runner
	DefaultTickRate = 60

	// DefaultMaxStepSec caps dt so a stalled caller cannot inject a huge step
	DefaultMaxStepSec = 0.05

	// DefaultTelemetryInterval throttles alive count telemetry independently of tick rate
	DefaultTelemetryInterval = 250 * time.Millisecond

	// CommandQueueSize is the runner's pending command capacity
	CommandQueueSize = 32

	// FramePoolSize is the number of recycled snapshot buffers per runner
	FramePoolSize = 3
)
