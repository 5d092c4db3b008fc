package game

// BallKind classifies a ball by the rules it plays under.
type BallKind string

const (
	KindCue    BallKind = "CUE"
	KindSolid  BallKind = "SOLID"
	KindStripe BallKind = "STRIPE"
	KindEight  BallKind = "EIGHT"
)

// Color is an sRGB hex colour ("#rrggbb") handed to renderers as-is.
type Color string

const (
	ColorWhite  Color = "#ffffff"
	ColorBlack  Color = "#000000"
	ColorYellow Color = "#fdf900"
	ColorBlue   Color = "#0079f1"
	ColorRed    Color = "#e62937"
	ColorPurple Color = "#c87aff"
	ColorOrange Color = "#ffa100"
	ColorGreen  Color = "#00e430"
	ColorMaroon Color = "#be2137"
)

// groupColors is shared by solids 1-7 and stripes 9-15.
var groupColors = [GroupSize]Color{
	ColorYellow, ColorBlue, ColorRed, ColorPurple, ColorOrange, ColorGreen, ColorMaroon,
}

// Ball is one ball on the table. Pocketed balls stay in the rack array but are
// skipped by physics, pocket checks and drawing until the next reset.
type Ball struct {
	Number   int      `json:"number"`
	Kind     BallKind `json:"kind"`
	Position Vec2     `json:"position"`
	Velocity Vec2     `json:"velocity"`
	Pocketed bool     `json:"pocketed"`
	Color    Color    `json:"color"`
}

// KindForNumber maps a ball number to its kind.
func KindForNumber(n int) BallKind {
	switch {
	case n == 0:
		return KindCue
	case n == 8:
		return KindEight
	case n >= 1 && n <= 7:
		return KindSolid
	default:
		return KindStripe
	}
}

// ColorForNumber returns the rendering colour for a ball number.
func ColorForNumber(n int) Color {
	switch KindForNumber(n) {
	case KindCue:
		return ColorWhite
	case KindEight:
		return ColorBlack
	case KindSolid:
		return groupColors[n-1]
	default:
		return groupColors[(n-9)%GroupSize]
	}
}

// Striped is derived from the kind; there is no separate flag to keep in sync.
func (b *Ball) Striped() bool {
	return b.Kind == KindStripe
}

// Group returns the player group that owns this ball, or GroupUnassigned for
// the cue ball and the 8-ball.
func (b *Ball) Group() BallGroup {
	switch b.Kind {
	case KindSolid:
		return GroupSolids
	case KindStripe:
		return GroupStripes
	}
	return GroupUnassigned
}

// IsMoving reports whether either velocity component is above the motion threshold.
func (b *Ball) IsMoving() bool {
	if b.Pocketed {
		return false
	}
	return abs(b.Velocity.X) > MinVelocity || abs(b.Velocity.Y) > MinVelocity
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
