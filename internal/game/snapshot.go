package game

// BallView is the render-facing view of one ball.
type BallView struct {
	Number   int      `json:"number"`
	Kind     BallKind `json:"kind"`
	Position Vec2     `json:"position"`
	Color    Color    `json:"color"`
	Pocketed bool     `json:"pocketed"`
	Striped  bool     `json:"striped"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	Balls         []BallView `json:"balls"`
	Players       [2]Player  `json:"players"`
	CurrentPlayer int        `json:"current_player"`
	State         State      `json:"state"`
	StatusMessage string     `json:"status_message"`
	Power         float64    `json:"power"`
	PullDistance  float64    `json:"pull_distance"`
	Aiming        bool       `json:"aiming"`
	ShowAimLine   bool       `json:"show_aim_line"`
	AimFrom       *Vec2      `json:"aim_from,omitempty"`
	AimTo         *Vec2      `json:"aim_to,omitempty"`
	BallsMoving   bool       `json:"balls_moving"`
	BreakPending  bool       `json:"break_pending"`
	TypesAssigned bool       `json:"types_assigned"`
	Shots         int        `json:"shots"`
	Tick          uint64     `json:"tick"`
}

// Snapshot copies the current state. The aim line runs from the cue ball to the
// pointer and is only shown while aiming with the table at rest.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Balls:         make([]BallView, NumBalls),
		Players:       g.Players,
		CurrentPlayer: g.CurrentPlayer,
		State:         g.State,
		StatusMessage: g.StatusMessage,
		Power:         g.Power,
		PullDistance:  g.PullDistance,
		Aiming:        g.aim != nil,
		BallsMoving:   g.ballsMoving,
		BreakPending:  g.BreakPending(),
		TypesAssigned: g.TypesAssigned(),
		Shots:         g.Shots,
		Tick:          g.Ticks,
	}

	for i := range g.Balls {
		b := &g.Balls[i]
		s.Balls[i] = BallView{
			Number:   b.Number,
			Kind:     b.Kind,
			Position: b.Position,
			Color:    b.Color,
			Pocketed: b.Pocketed,
			Striped:  b.Striped(),
		}
	}

	if s.Aiming && !s.BallsMoving {
		from := g.Balls[0].Position
		to := g.aim.Pointer
		s.ShowAimLine = true
		s.AimFrom = &from
		s.AimTo = &to
	}

	return s
}
