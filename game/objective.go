package game

// Finality says whether a status is provably permanent.
type Finality int

const (
	Tentative Finality = iota
	Final
)

func (f Finality) String() string {
	if f == Final {
		return "final"
	}
	return "tentative"
}

type Outcome int

const (
	Failure Outcome = iota
	Success
)

func (o Outcome) String() string {
	if o == Success {
		return "success"
	}
	return "failure"
}

// Status is the answer to "is this objective met": an outcome, and
// whether that outcome can still change. A Final status never flips.
type Status struct {
	Finality Finality `json:"finality"`
	Outcome  Outcome  `json:"outcome"`
}

var (
	FinalSuccess     = Status{Final, Success}
	FinalFailure     = Status{Final, Failure}
	TentativeSuccess = Status{Tentative, Success}
	TentativeFailure = Status{Tentative, Failure}
)

func (s Status) String() string {
	return s.Finality.String() + " " + s.Outcome.String()
}

// Possibilities is a count of wins already locked in, and the best case
// still reachable. Never persisted, only computed on demand.
type Possibilities struct {
	Current int
	Max     int
}

// checkPossibilities rejects ranges an objective must never produce.
// Max below Current would let finality flip later, which callers depend
// on never happening.
func checkPossibilities(p Possibilities) {
	if p.Current < 0 || p.Max < p.Current {
		panic("impossible objective range")
	}
}

// AchieveAtLeast is final success only once the target is locked in, and
// final failure only once no favourable future can reach it.
func AchieveAtLeast(p Possibilities, target int) Status {
	checkPossibilities(p)
	switch {
	case p.Current >= target:
		return FinalSuccess
	case p.Max < target:
		return FinalFailure
	default:
		return TentativeFailure
	}
}

func AchieveExactly(p Possibilities, target int) Status {
	return AchieveRange(p, target, target)
}

func AchieveRange(p Possibilities, min, max int) Status {
	checkPossibilities(p)
	switch {
	case p.Current > max:
		return FinalFailure
	case p.Max < min:
		return FinalFailure
	case p.Current >= min && p.Max <= max:
		return FinalSuccess
	case p.Current >= min:
		// met now, but more wins could overshoot
		return TentativeSuccess
	default:
		return TentativeFailure
	}
}

// AchieveMoreThan is "a ends strictly above b", for two independently
// bounded ranges.
func AchieveMoreThan(a, b Possibilities) Status {
	checkPossibilities(a)
	checkPossibilities(b)
	switch {
	case a.Current > b.Max:
		return FinalSuccess
	case a.Max <= b.Current:
		return FinalFailure
	case a.Current > b.Current:
		return TentativeSuccess
	default:
		return TentativeFailure
	}
}

func AchieveBoth(a, b Status) Status {
	return AchieveEvery([]Status{a, b})
}

// AchieveEvery is the conjunction: final failure as soon as any child is,
// final success only once all are. An empty list is vacuously achieved.
func AchieveEvery(list []Status) Status {
	out := FinalSuccess
	for _, s := range list {
		if s == FinalFailure {
			return FinalFailure
		}
		if s.Outcome == Failure {
			out = TentativeFailure
		} else if s.Finality == Tentative && out.Outcome == Success {
			out = TentativeSuccess
		}
	}
	return out
}

// AchieveSome is the disjunction, the mirror image of AchieveEvery.
func AchieveSome(list []Status) Status {
	out := FinalFailure
	for _, s := range list {
		if s == FinalSuccess {
			return FinalSuccess
		}
		if s.Outcome == Success {
			out = TentativeSuccess
		} else if s.Finality == Tentative && out.Outcome == Failure {
			out = TentativeFailure
		}
	}
	return out
}

// DoNot flips the outcome and keeps the finality.
func DoNot(s Status) Status {
	if s.Outcome == Success {
		return Status{s.Finality, Failure}
	}
	return Status{s.Finality, Success}
}

// TricksWinnable counts tricks won by the seat against the tricks still
// to be resolved. The trick in progress is one single future
// opportunity, whether or not the seat has already played into it.
func (g *Game) TricksWinnable(seat *Seat) Possibilities {
	cur := len(seat.Won)
	return Possibilities{Current: cur, Max: cur + g.TricksRemaining()}
}

// TricksWinnableNumbered restricts TricksWinnable to trick numbers
// accepted by match.
func (g *Game) TricksWinnableNumbered(seat *Seat, match func(int) bool) Possibilities {
	cur := 0
	for _, n := range seat.WonTrickNumbers() {
		if match(n) {
			cur++
		}
	}
	future := 0
	for n := g.trickNo; n < g.tricksToPlay; n++ {
		if match(n) {
			future++
		}
	}
	return Possibilities{Current: cur, Max: cur + future}
}

// CardsWinnable counts matching cards in the seat's won pile against
// matching cards not yet locked away anywhere. Cards won by other seats,
// or set aside as the lost card, are gone: one seat's gains lower every
// other seat's ceiling.
func (g *Game) CardsWinnable(seat *Seat, match func(Card) bool) Possibilities {
	cur := seat.WonCardsMatching(match)
	free := 0
	for _, c := range NewDeck() {
		if !match(c) {
			continue
		}
		if seat.HasWonCard(c) || g.cardLocked(seat, c) {
			continue
		}
		free++
	}
	return Possibilities{Current: cur, Max: cur + free}
}

// cardLocked reports whether a card can no longer end up in this seat's
// won pile, short of it already being there.
func (g *Game) cardLocked(seat *Seat, c Card) bool {
	for _, other := range g.seats {
		if other.Index != seat.Index && other.HasWonCard(c) {
			return true
		}
		if other.SetAside != nil && *other.SetAside == c {
			return true
		}
	}
	if !g.lostHeld && g.lost == c {
		return true
	}
	return false
}

// AchieveCard is the single-card case: locked in once held, dead once
// provably elsewhere, otherwise still open.
func (g *Game) AchieveCard(seat *Seat, c Card) Status {
	if seat.HasWonCard(c) {
		return FinalSuccess
	}
	if g.cardLocked(seat, c) {
		return FinalFailure
	}
	return TentativeFailure
}

// HasCard reports whether the seat has won the card.
func (g *Game) HasCard(seat *Seat, c Card) bool {
	return seat.HasWonCard(c)
}

// CardGone reports whether the card is provably out of the seat's reach.
func (g *Game) CardGone(seat *Seat, c Card) bool {
	return g.cardLocked(seat, c)
}
