package server

import (
	"github.com/greenhollow/fellowship/game"
)

// SeatView is one seat as a particular viewer may see it: hidden hand
// cards are card backs, threat cards and statuses are the viewer's own
// business.
type SeatView struct {
	Index     int             `json:"index"`
	Character string          `json:"character,omitempty"`
	Rider     string          `json:"rider,omitempty"`
	Hand      []game.CardView `json:"hand"`
	Won       []game.WonTrick `json:"won"`
	Played    []game.Card     `json:"played"`
	Threat    int             `json:"threat,omitempty"`
	Objective string          `json:"objective,omitempty"`
	Status    *game.Status    `json:"status,omitempty"`
}

// StateView is the full game as serialized for one seat.
type StateView struct {
	You          int         `json:"you"`
	Seats        []SeatView  `json:"seats"`
	Trick        *game.Trick `json:"trick,omitempty"`
	TrickNumber  int         `json:"trickNumber"`
	TricksToPlay int         `json:"tricksToPlay"`
	Leader       int         `json:"leader"`
	RingBroken   bool        `json:"ringBroken"`
	LostCard     *game.Card  `json:"lostCard,omitempty"`
	Finished     bool        `json:"finished"`
}

// stateViews serializes the game once per seat. Runs synchronously
// inside the engine's listener callback, while the state is quiescent.
func stateViews(g *game.Game) []StateView {
	n := g.SeatCount()
	out := make([]StateView, n)
	for viewer := 0; viewer < n; viewer++ {
		v := StateView{
			You:          viewer,
			TrickNumber:  g.TrickNumber(),
			TricksToPlay: g.TricksToPlay(),
			Leader:       g.Leader(),
			RingBroken:   g.RingBroken(),
			Finished:     g.Finished(),
		}
		if g.LostCardRevealed() {
			lost, _ := g.LostCard()
			v.LostCard = &lost
		}
		if t := g.CurrentTrick(); t != nil {
			// copy: the engine keeps appending to the live trick after
			// this snapshot is posted away
			v.Trick = &game.Trick{Number: t.Number, Plays: append([]game.Play(nil), t.Plays...)}
		}
		for _, s := range g.Seats() {
			sv := SeatView{
				Index:     s.Index,
				Character: s.CharacterName(),
				Hand:      s.Hand.View(s.Index == viewer),
				Won:       s.Won,
				Played:    s.Played,
			}
			if s.Rider != nil {
				sv.Rider = s.Rider.Name
			}
			if s.Index == viewer {
				sv.Threat = s.Threat
				if s.Character != nil && s.Character.Display != nil {
					sv.Objective = s.Character.Display(g, s)
				}
				st := g.Status(s.Index)
				sv.Status = &st
			}
			v.Seats = append(v.Seats, sv)
		}
		out[viewer] = v
	}
	return out
}

// LogUpdate is one narration line, already resolved for its recipient.
type LogUpdate struct {
	Line      string `json:"line"`
	Important bool   `json:"important"`
}

// FinalUpdate announces a seat's objective becoming final.
type FinalUpdate struct {
	Seat   int         `json:"seat"`
	Rider  bool        `json:"rider"`
	Status game.Status `json:"status"`
}
