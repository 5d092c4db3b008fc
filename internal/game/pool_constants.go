package game

// Table and physics constants for the 8-ball table.
// Units are table-space pixels and simulation steps; one step is one frame at TickRate.
const (
	TableWidth   = 800.0
	TableHeight  = 400.0
	RailWidth    = 40.0
	BallRadius   = 15.0
	PocketRadius = 28.0
	NumBalls     = 16 // 0=cue, 1-7=solids, 8=eight, 9-15=stripes
	GroupSize    = 7

	Friction        = 0.985
	MinVelocity     = 0.06
	RailRestitution = 0.86
	MaxBallSpeed    = 26.0

	MaxPowerPixels = 160.0
	MaxShotSpeed   = 22.0
	AimGrabRadius  = BallRadius * 1.6

	TickRate    = 60
	StepSeconds = 1.0 / TickRate

	RecoilSeconds = 0.12
	RecoilDecay   = 0.92

	CollisionEpsilon = 0.0001
	OverlapBias      = 0.001
	DragEpsilon      = 0.001

	// Rack layout: rows are packed slightly tighter than a full diameter.
	RackRows       = 5
	RackRowSpacing = BallRadius * 2 * 0.88
)
