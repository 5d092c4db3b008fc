package game

import "fmt"

// PocketEvent records a ball dropping into a pocket.
type PocketEvent struct {
	Ball   int `json:"ball"`
	Pocket int `json:"pocket"`
}

// PocketReport is the outcome of one pocket scan.
type PocketReport struct {
	Pocketed  []PocketEvent `json:"pocketed,omitempty"`
	Scratch   bool          `json:"scratch"`
	EightBall bool          `json:"eight_ball"`
}

// pocketFor returns the first pocket whose capture zone contains p.
func pocketFor(p Vec2) (int, bool) {
	for i, c := range pocketCenters {
		if Distance(p, c) < PocketRadius {
			return i, true
		}
	}
	return -1, false
}

// CheckPockets scans the balls in rack order and drops every ball inside a
// capture zone. The order of effects is part of the rules:
//
//   - the cue ball marks a scratch and resets the respawn anchor, but stays where it fell;
//   - the 8-ball ends the rack for the current player and stops the scan at once;
//   - the first object ball on an open table assigns groups;
//   - a group ball reduces its owner's remaining count.
//
// After the scan a scratch passes the turn, and the narration names the
// player who was shooting when the scan started.
func (g *Game) CheckPockets() PocketReport {
	var report PocketReport
	shooter := g.CurrentPlayer

	for i := range g.Balls {
		b := &g.Balls[i]
		if b.Pocketed {
			continue
		}

		pocket, ok := pocketFor(b.Position)
		if !ok {
			continue
		}

		b.Pocketed = true
		b.Velocity = Vec2{}
		report.Pocketed = append(report.Pocketed, PocketEvent{Ball: b.Number, Pocket: pocket})

		switch b.Kind {
		case KindCue:
			report.Scratch = true
			g.CueRespawn = CueSpot()

		case KindEight:
			report.EightBall = true
			if g.Players[g.CurrentPlayer].GroupCleared() {
				g.finishRack(StateWon)
			} else {
				g.finishRack(StateLost)
			}
			return report

		default:
			group := b.Group()
			if !g.TypesAssigned() {
				g.assignGroups(g.CurrentPlayer, group)
			}
			if owner := g.playerIndexForGroup(group); owner >= 0 && g.Players[owner].BallsRemaining > 0 {
				g.Players[owner].BallsRemaining--
			}
		}
	}

	if report.Scratch {
		g.applyScratch()
	}

	if len(report.Pocketed) > 0 {
		g.StatusMessage = fmt.Sprintf("%s pocketed a ball!", g.Players[shooter].Name)
	}

	return report
}
