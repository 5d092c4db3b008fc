package game

// Pocket is one of the six capture zones.
type Pocket struct {
	ID       int     `json:"id"`
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

// TableGeometry is the layout handed to renderers. Physics uses the same constants.
type TableGeometry struct {
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	RailWidth    float64  `json:"rail_width"`
	BallRadius   float64  `json:"ball_radius"`
	PocketRadius float64  `json:"pocket_radius"`
	Pockets      []Pocket `json:"pockets"`
	CueSpot      Vec2     `json:"cue_spot"`
	RackApex     Vec2     `json:"rack_apex"`
}

// pocketCenters lists corners and mid-rail points in scan order.
var pocketCenters = [6]Vec2{
	{X: RailWidth, Y: RailWidth},
	{X: TableWidth * 0.5, Y: RailWidth},
	{X: TableWidth - RailWidth, Y: RailWidth},
	{X: RailWidth, Y: TableHeight - RailWidth},
	{X: TableWidth * 0.5, Y: TableHeight - RailWidth},
	{X: TableWidth - RailWidth, Y: TableHeight - RailWidth},
}

// Pockets returns the six pockets in the order they are tested.
func Pockets() []Pocket {
	pockets := make([]Pocket, len(pocketCenters))
	for i, c := range pocketCenters {
		pockets[i] = Pocket{ID: i, Position: c, Radius: PocketRadius}
	}
	return pockets
}

// CueSpot is where the cue ball starts and respawns after a scratch.
func CueSpot() Vec2 {
	return Vec2{X: TableWidth * 0.25, Y: TableHeight * 0.5}
}

// RackApex is the position of the front ball of the triangle.
func RackApex() Vec2 {
	return Vec2{X: TableWidth * 0.72, Y: TableHeight * 0.5}
}

// Geometry returns the authoritative table layout.
func Geometry() TableGeometry {
	return TableGeometry{
		Width:        TableWidth,
		Height:       TableHeight,
		RailWidth:    RailWidth,
		BallRadius:   BallRadius,
		PocketRadius: PocketRadius,
		Pockets:      Pockets(),
		CueSpot:      CueSpot(),
		RackApex:     RackApex(),
	}
}

// PlayableArea reports whether p is strictly inside the rails with room for a ball.
func PlayableArea(p Vec2) bool {
	return p.X > RailWidth+BallRadius &&
		p.X < TableWidth-RailWidth-BallRadius &&
		p.Y > RailWidth+BallRadius &&
		p.Y < TableHeight-RailWidth-BallRadius
}

// Standard8BallRack returns a fresh rack: the cue ball on the cue spot and balls
// 1-15 filled row by row into a five-row triangle pointing at the cue ball.
func Standard8BallRack() [NumBalls]Ball {
	var balls [NumBalls]Ball

	balls[0] = Ball{
		Number:   0,
		Kind:     KindCue,
		Position: CueSpot(),
		Color:    ColorWhite,
	}

	apex := RackApex()
	n := 1
	for row := 0; row < RackRows; row++ {
		for col := 0; col <= row && n < NumBalls; col++ {
			offset := Vec2{
				X: float64(row) * RackRowSpacing,
				Y: float64(col)*BallRadius*2 - float64(row)*BallRadius,
			}
			balls[n] = Ball{
				Number:   n,
				Kind:     KindForNumber(n),
				Position: apex.Plus(offset),
				Color:    ColorForNumber(n),
			}
			n++
		}
	}

	return balls
}
