package game

// WonTrick is one trick captured by a seat.
type WonTrick struct {
	Number int    `json:"number"`
	Cards  []Card `json:"cards"`
}

// Seat is the per-player runtime record. Created once at game start,
// mutated as the seat plays, wins and exchanges cards, never destroyed.
type Seat struct {
	Index      int
	Character  *Character
	Rider      *Rider
	Hand       Hand
	Won        []WonTrick
	Played     []Card
	Threat     int // 0 until a threat card is drawn
	SetAside   *Card
	Controller Controller
}

func (s *Seat) WonCards() []Card {
	var out []Card
	for _, t := range s.Won {
		out = append(out, t.Cards...)
	}
	return out
}

func (s *Seat) WonCardsMatching(match func(Card) bool) int {
	n := 0
	for _, c := range s.WonCards() {
		if match(c) {
			n++
		}
	}
	return n
}

func (s *Seat) HasWonCard(c Card) bool {
	return containsCard(s.WonCards(), c)
}

// WonTrickNumbers is the ordered trick numbers this seat has taken.
func (s *Seat) WonTrickNumbers() []int {
	out := make([]int, 0, len(s.Won))
	for _, t := range s.Won {
		out = append(out, t.Number)
	}
	return out
}

func (s *Seat) CharacterName() string {
	if s.Character == nil {
		return ""
	}
	return s.Character.Name
}

// BaseCharacterName resolves burdened variants to their base identity.
func (s *Seat) BaseCharacterName() string {
	return BaseName(s.CharacterName())
}
