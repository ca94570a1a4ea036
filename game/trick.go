package game

// Play is one card put into a trick by one seat.
type Play struct {
	Seat  int  `json:"seat"`
	Card  Card `json:"card"`
	Trump bool `json:"trump"`
}

// Trick is an in-progress or completed round of plays, one per active
// seat. The winner owns all its cards once it resolves.
type Trick struct {
	Number int    `json:"number"`
	Plays  []Play `json:"plays"`
}

func NewTrick(number int) *Trick {
	return &Trick{Number: number}
}

func (t *Trick) Add(seat int, c Card, trump bool) {
	t.Plays = append(t.Plays, Play{Seat: seat, Card: c, Trump: trump})
}

// LeadSuit is the suit of the first non-trump play. A trump lead sets no
// follow requirement.
func (t *Trick) LeadSuit() (Suit, bool) {
	for _, p := range t.Plays {
		if !p.Trump {
			return p.Card.Suit, true
		}
	}
	return 0, false
}

func (t *Trick) Cards() []Card {
	out := make([]Card, 0, len(t.Plays))
	for _, p := range t.Plays {
		out = append(out, p.Card)
	}
	return out
}

func (t *Trick) HasPlayed(seat int) bool {
	for _, p := range t.Plays {
		if p.Seat == seat {
			return true
		}
	}
	return false
}

// Winner resolves the trick: the single trump play wins outright,
// otherwise the highest card in the lead suit.
func (t *Trick) Winner() int {
	if len(t.Plays) == 0 {
		panic("winner of empty trick")
	}

	for _, p := range t.Plays {
		if p.Trump {
			return p.Seat
		}
	}

	lead, _ := t.LeadSuit()
	best := -1
	winner := -1
	for _, p := range t.Plays {
		if p.Card.Suit == lead && p.Card.Value > best {
			best = p.Card.Value
			winner = p.Seat
		}
	}
	return winner
}
