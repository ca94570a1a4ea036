package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// testGame builds a bare table mid-journey, for poking at objectives
// without dealing a real deck.
func testGame(seats int) *Game {
	g := &Game{
		log:      zerolog.Nop(),
		rng:      rand.New(rand.NewSource(1)),
		listener: nopListener{},
	}
	for i := 0; i < seats; i++ {
		g.seats = append(g.seats, &Seat{Index: i, Hand: NewHand(nil)})
	}
	g.statuses = make([]Status, seats)
	g.riderStatuses = make([]Status, seats)
	g.tricksToPlay = 12
	return g
}

func mustCharacter(t *testing.T, name string) *Character {
	t.Helper()
	c, ok := LookupCharacter(name)
	if !ok {
		t.Fatalf("no character %s", name)
	}
	return c
}

// queueController answers from scripted lists, in order.
type queueController struct {
	cards   []Card
	buttons []string
}

func (q *queueController) nextCard() Card {
	c := q.cards[0]
	q.cards = q.cards[1:]
	return c
}

func (q *queueController) ChooseButton(ctx context.Context, prompt string, options []Button) (string, error) {
	b := q.buttons[0]
	q.buttons = q.buttons[1:]
	return b, nil
}

func (q *queueController) ChooseCard(ctx context.Context, prompt string, options []Card) (Card, error) {
	return q.nextCard(), nil
}

func (q *queueController) SelectCard(ctx context.Context, prompt string, available []Card) (Card, error) {
	return q.nextCard(), nil
}

func TestNew_validation(t *testing.T) {
	if _, err := New(Config{Seats: 0}); err != ErrBadSeatCount {
		t.Errorf("error")
	}
	if _, err := New(Config{Seats: 5}); err != ErrBadSeatCount {
		t.Errorf("error")
	}
	if _, err := New(Config{Seats: 2, Controllers: make([]Controller, 1)}); err != ErrBadControllers {
		t.Errorf("error")
	}

	ctrls := []Controller{&queueController{}, &queueController{}}
	if _, err := New(Config{Seats: 2, Controllers: ctrls, Pool: []string{"Saruman"}}); err != ErrUnknownCharacter {
		t.Errorf("error")
	}
	if _, err := New(Config{Seats: 2, Controllers: ctrls, Riders: []string{"Shortcut"}}); err != ErrUnknownRider {
		t.Errorf("error")
	}
}

func TestNew_deal(t *testing.T) {
	ctrls := []Controller{&queueController{}, &queueController{}, &queueController{}}
	g, err := New(Config{Seats: 3, Controllers: ctrls, Seed: 42, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("got error")
	}

	if g.TricksToPlay() != 12 {
		t.Errorf("got %d", g.TricksToPlay())
	}

	seen := map[Card]bool{}
	for _, s := range g.Seats() {
		if s.Hand.Size() != 12 {
			t.Errorf("bad hand size")
		}
		for _, c := range s.Hand.Cards() {
			if seen[c] {
				t.Errorf("duplicate %s", c)
			}
			seen[c] = true
		}
	}
	lost, held := g.LostCard()
	if held {
		t.Errorf("error")
	}
	if seen[lost] {
		t.Errorf("lost card was dealt")
	}
	if len(seen) != DeckSize-1 {
		t.Errorf("got %d", len(seen))
	}

	// the Ring's holder leads, unless the Ring is lost
	if lost != RingCard {
		if !g.Seat(g.Leader()).Hand.Has(RingCard) {
			t.Errorf("wrong leader")
		}
	} else if g.Leader() != 0 {
		t.Errorf("wrong leader")
	}
}

func TestPlayTrick_ringAsTrump(t *testing.T) {
	g := testGame(2)
	g.seats[0].Hand = NewHand([]Card{RingCard, {Mountains, 2}})
	g.seats[0].Controller = &queueController{cards: []Card{RingCard}, buttons: []string{"yes"}}
	g.seats[1].Hand = NewHand([]Card{{Mountains, 5}})
	g.seats[1].Controller = &queueController{cards: []Card{{Mountains, 5}}}

	if err := g.playTrick(context.Background()); err != nil {
		t.Fatalf("got error")
	}

	if !g.RingBroken() {
		t.Errorf("error")
	}
	// the lone trump wins outright, rank be damned
	if g.Leader() != 0 {
		t.Errorf("error")
	}
	if len(g.Seat(0).Won) != 1 || len(g.Seat(0).Won[0].Cards) != 2 {
		t.Errorf("error")
	}
	if g.TrickNumber() != 1 {
		t.Errorf("error")
	}
}

func TestPlayTrick_ringDeclinedLegal(t *testing.T) {
	g := testGame(2)
	g.seats[0].Hand = NewHand([]Card{RingCard})
	g.seats[0].Controller = &queueController{cards: []Card{RingCard}, buttons: []string{"no"}}
	g.seats[1].Hand = NewHand([]Card{{Rings, 2}})
	g.seats[1].Controller = &queueController{cards: []Card{{Rings, 2}}}

	if err := g.playTrick(context.Background()); err != nil {
		t.Fatalf("got error")
	}

	// declined, so the Ring is a plain lead and loses to the higher ring
	if g.RingBroken() {
		t.Errorf("error")
	}
	if g.Leader() != 1 {
		t.Errorf("error")
	}
}

func TestPlayTrick_ringDeclinedIllegal(t *testing.T) {
	g := testGame(2)
	g.seats[0].Hand = NewHand([]Card{{Mountains, 2}})
	g.seats[0].Controller = &queueController{cards: []Card{{Mountains, 2}}}
	g.seats[1].Hand = NewHand([]Card{RingCard, {Mountains, 5}})
	g.seats[1].Controller = &queueController{
		cards:   []Card{RingCard, {Mountains, 5}},
		buttons: []string{"no"},
	}

	if err := g.playTrick(context.Background()); err != nil {
		t.Fatalf("got error")
	}

	// seat 1 must follow mountains once it declines the trump
	if g.RingBroken() {
		t.Errorf("error")
	}
	if g.Leader() != 1 {
		t.Errorf("error")
	}
	if !g.Seat(1).Hand.Has(RingCard) {
		t.Errorf("error")
	}
}

func TestLegalPlays_followSuit(t *testing.T) {
	g := testGame(2)
	s := g.Seat(0)
	s.Hand = NewHand([]Card{{Mountains, 2}, {Forests, 3}, RingCard})

	tr := NewTrick(0)
	tr.Add(1, Card{Forests, 7}, false)

	normal, ringable := g.legalPlays(s, tr)
	if len(normal) != 1 || normal[0] != (Card{Forests, 3}) {
		t.Errorf("error")
	}
	if !ringable {
		t.Errorf("error")
	}
}

func TestLegalPlays_void(t *testing.T) {
	g := testGame(2)
	s := g.Seat(0)
	s.Hand = NewHand([]Card{{Mountains, 2}, {Hills, 3}})

	tr := NewTrick(0)
	tr.Add(1, Card{Forests, 7}, false)

	normal, ringable := g.legalPlays(s, tr)
	if len(normal) != 2 {
		t.Errorf("error")
	}
	if ringable {
		t.Errorf("error")
	}
}

func TestObjective_gandalf(t *testing.T) {
	g := testGame(3)
	s := g.Seat(1)
	s.Character = mustCharacter(t, "Gandalf")

	if s.Character.Objective(g, s) != TentativeFailure {
		t.Errorf("error")
	}

	s.Won = append(s.Won, WonTrick{Number: 0, Cards: []Card{{Mountains, 1}}})
	g.trickNo = 1
	if s.Character.Objective(g, s) != FinalSuccess {
		t.Errorf("error")
	}

	// locked in: still success at the very end
	g.trickNo = g.tricksToPlay
	g.finished = true
	if s.Character.Objective(g, s) != FinalSuccess {
		t.Errorf("error")
	}
}

func TestObjective_pippin(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Pippin")

	g.trickNo = 10
	g.Seat(1).Won = []WonTrick{{Number: 0}, {Number: 1}, {Number: 2}, {Number: 3}, {Number: 4}}
	g.Seat(2).Won = []WonTrick{{Number: 5}, {Number: 6}, {Number: 7}, {Number: 8}, {Number: 9}}

	// two tricks left; even winning both cannot lift seat 0 off the bottom
	if s.Character.Objective(g, s) != FinalSuccess {
		t.Errorf("error")
	}
}

func TestObjective_farmerMaggot(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Farmer Maggot")
	s.Threat = 4

	s.Won = []WonTrick{{Number: 0, Cards: []Card{{Mountains, 4}}}}
	g.trickNo = 1
	if s.Character.Objective(g, s) != TentativeFailure {
		t.Errorf("error")
	}

	// every other rank-4 card gets locked away
	g.Seat(1).Won = []WonTrick{{Number: 1, Cards: []Card{{Forests, 4}, {Hills, 4}}}}
	g.Seat(2).Won = []WonTrick{{Number: 2, Cards: []Card{{Shadows, 4}, {Rings, 4}}}}
	g.trickNo = 3
	if s.Character.Objective(g, s) != FinalFailure {
		t.Errorf("error")
	}
}

func TestObjective_boromir(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Boromir")

	s.Won = []WonTrick{{Number: 2}, {Number: 3}}
	g.trickNo = 4
	if s.Character.Objective(g, s) != TentativeFailure {
		t.Errorf("error")
	}

	s.Won = append(s.Won, WonTrick{Number: 4})
	g.trickNo = 5
	if s.Character.Objective(g, s) != TentativeSuccess {
		t.Errorf("error")
	}

	g.trickNo = g.tricksToPlay
	if s.Character.Objective(g, s) != FinalSuccess {
		t.Errorf("error")
	}
}

func TestObjective_boromirDeadRun(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Boromir")

	// a run of two, then a miss: nothing can extend it any more
	s.Won = []WonTrick{{Number: 2}, {Number: 3}}
	g.trickNo = 6
	if s.Character.Objective(g, s) != FinalFailure {
		t.Errorf("error")
	}
}

func TestObjective_frodoRingBroken(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Frodo")

	s.Won = []WonTrick{{Number: 0, Cards: []Card{{Mountains, 1}}}}
	g.trickNo = 1
	if s.Character.Objective(g, s) != TentativeSuccess {
		t.Errorf("error")
	}

	g.ringBroken = true
	if s.Character.Objective(g, s) != FinalFailure {
		t.Errorf("error")
	}
}

func TestObjective_frodoRingBuried(t *testing.T) {
	g := testGame(3)
	s := g.Seat(0)
	s.Character = mustCharacter(t, "Frodo")

	s.Won = []WonTrick{{Number: 0, Cards: []Card{RingCard, {Mountains, 1}}}}
	g.trickNo = 1
	if s.Character.Objective(g, s) != FinalSuccess {
		t.Errorf("error")
	}
}

func TestExchange_gathersBeforeApplying(t *testing.T) {
	g := testGame(2)
	a := g.Seat(0)
	b := g.Seat(1)
	a.Character = mustCharacter(t, "Frodo")
	b.Character = mustCharacter(t, "Sam")

	a.Hand = NewHand([]Card{{Mountains, 1}})
	b.Hand = NewHand([]Card{{Forests, 2}})
	a.Controller = &queueController{cards: []Card{{Mountains, 1}}}
	b.Controller = &queueController{cards: []Card{{Forests, 2}}}

	if err := g.Exchange(context.Background(), b, func(base string) bool { return base == "Frodo" }); err != nil {
		t.Fatalf("got error")
	}

	if !a.Hand.Has(Card{Forests, 2}) || a.Hand.Size() != 1 {
		t.Errorf("error")
	}
	if !b.Hand.Has(Card{Mountains, 1}) || b.Hand.Size() != 1 {
		t.Errorf("error")
	}
}

func TestExchange_noEligibleSeat(t *testing.T) {
	g := testGame(2)
	g.Seat(0).Character = mustCharacter(t, "Frodo")
	g.Seat(1).Character = mustCharacter(t, "Gimli")

	err := g.Exchange(context.Background(), g.Seat(1), func(base string) bool { return base == "Legolas" })
	if err != ErrNoEligibleSeat {
		t.Errorf("error")
	}
}

func TestPassAround(t *testing.T) {
	g := testGame(3)
	for i, s := range g.seats {
		s.Hand = NewHand([]Card{{Mountains, i + 1}})
		s.Controller = &queueController{cards: []Card{{Mountains, i + 1}}}
	}

	if err := g.PassAround(context.Background()); err != nil {
		t.Fatalf("got error")
	}

	for i, s := range g.seats {
		from := (i + 2) % 3
		if !s.Hand.Has(Card{Mountains, from + 1}) || s.Hand.Size() != 1 {
			t.Errorf("seat %d has %v", i, s.Hand.Cards())
		}
	}
}

func TestLostCard(t *testing.T) {
	g := testGame(2)
	g.lost = Card{Hills, 6}
	s := g.Seat(0)

	if err := g.TakeLostCard(s); err != nil {
		t.Fatalf("got error")
	}
	if !s.Hand.Has(Card{Hills, 6}) {
		t.Errorf("error")
	}
	if err := g.TakeLostCard(g.Seat(1)); err != ErrLostCardTaken {
		t.Errorf("error")
	}
}

func TestGiveCard(t *testing.T) {
	g := testGame(2)
	g.Seat(0).Hand = NewHand([]Card{{Mountains, 1}})

	g.GiveCard(g.Seat(0), g.Seat(1), Card{Mountains, 1})

	if g.Seat(0).Hand.Size() != 0 {
		t.Errorf("error")
	}
	if !g.Seat(1).Hand.Has(Card{Mountains, 1}) {
		t.Errorf("error")
	}
}

func TestExtendTricks(t *testing.T) {
	g := testGame(2)
	g.trickNo = 12

	if g.TricksRemaining() != 0 {
		t.Errorf("error")
	}
	g.ExtendTricks()
	if g.TricksToPlay() != 13 || g.TricksRemaining() != 1 {
		t.Errorf("error")
	}
}

// conservationListener re-counts every card on each state push: hands,
// won piles, set-asides, the trick on the table and the lost card must
// always cover the deck exactly.
type conservationListener struct {
	t     *testing.T
	seats int
}

func (l conservationListener) StateChanged(g *Game) {
	total := 0
	for _, s := range g.Seats() {
		total += s.Hand.Size()
		total += len(s.WonCards())
		if s.SetAside != nil {
			total++
		}
	}
	if tr := g.CurrentTrick(); tr != nil {
		total += len(tr.Plays)
	}
	if _, held := g.LostCard(); !held {
		total++
	}
	if total != DeckSize {
		l.t.Errorf("seats %d: %d cards on the table", l.seats, total)
	}
}

func (l conservationListener) LogLine(string, bool, []int, string) {}
func (l conservationListener) StatusFinal(int, bool, Status)       {}

func TestGame_fullJourney(t *testing.T) {
	for _, seats := range []int{1, 2, 3, 4} {
		ctrls := make([]Controller, seats)
		for i := range ctrls {
			ctrls[i] = NewAIController(rand.New(rand.NewSource(int64(seats*100+i))), 0)
		}

		g, err := New(Config{
			Seats:       seats,
			Controllers: ctrls,
			Riders:      []string{"Swift Passage"},
			Seed:        int64(seats),
			Logger:      zerolog.Nop(),
			Listener:    conservationListener{t: t, seats: seats},
		})
		if err != nil {
			t.Fatalf("got error")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = g.Run(ctx)
		cancel()
		if err != nil {
			t.Fatalf("seats %d: run error: %v", seats, err)
		}

		if !g.Finished() {
			t.Errorf("seats %d: not finished", seats)
		}

		// nothing stays tentative once the journey ends
		for i := 0; i < seats; i++ {
			if g.Status(i).Finality != Final {
				t.Errorf("seats %d: seat %d not final", seats, i)
			}
		}
		if g.RiderStatus(0).Finality != Final {
			t.Errorf("seats %d: rider not final", seats)
		}

		// every card is accounted for: won, set aside, or still lost
		seen := map[Card]bool{}
		total := 0
		for _, s := range g.Seats() {
			if s.Hand.Size() != 0 {
				t.Errorf("seats %d: seat %d still holds cards", seats, s.Index)
			}
			for _, c := range s.WonCards() {
				if seen[c] {
					t.Errorf("seats %d: duplicate %s", seats, c)
				}
				seen[c] = true
				total++
			}
			if s.SetAside != nil {
				if seen[*s.SetAside] {
					t.Errorf("seats %d: duplicate %s", seats, *s.SetAside)
				}
				seen[*s.SetAside] = true
				total++
			}
		}
		lost, held := g.LostCard()
		if !held {
			if seen[lost] {
				t.Errorf("seats %d: duplicate %s", seats, lost)
			}
			total++
		}
		if total != DeckSize {
			t.Errorf("seats %d: %d cards accounted for", seats, total)
		}

		if len(g.Tricks()) != g.TricksToPlay() {
			t.Errorf("seats %d: %d tricks", seats, len(g.Tricks()))
		}
	}
}

// monotonicityListener snapshots each seat's possibilities at every
// trick boundary: locked-in counts must never shrink, ceilings must
// never grow once setup stops moving cards around.
type monotonicityListener struct {
	t      *testing.T
	prevNo int
	tricks []Possibilities
	cards  []Possibilities
}

func (l *monotonicityListener) record(g *Game) {
	l.tricks = l.tricks[:0]
	l.cards = l.cards[:0]
	for _, s := range g.Seats() {
		l.tricks = append(l.tricks, g.TricksWinnable(s))
		l.cards = append(l.cards, g.CardsWinnable(s, isSuit(Forests)))
	}
}

func (l *monotonicityListener) StateChanged(g *Game) {
	no := g.TrickNumber()
	if no == l.prevNo {
		if no == 0 {
			// setup is still dealing threat cards and the lost card
			l.record(g)
		}
		return
	}

	for i, s := range g.Seats() {
		tp := g.TricksWinnable(s)
		if tp.Current < l.tricks[i].Current || tp.Max > l.tricks[i].Max {
			l.t.Errorf("trick %d seat %d: tricks %v -> %v", no, i, l.tricks[i], tp)
		}
		cp := g.CardsWinnable(s, isSuit(Forests))
		if cp.Current < l.cards[i].Current || cp.Max > l.cards[i].Max {
			l.t.Errorf("trick %d seat %d: cards %v -> %v", no, i, l.cards[i], cp)
		}
	}

	l.record(g)
	l.prevNo = no
}

func (l *monotonicityListener) LogLine(string, bool, []int, string) {}
func (l *monotonicityListener) StatusFinal(int, bool, Status)       {}

func TestGame_possibilityMonotonicity(t *testing.T) {
	ml := &monotonicityListener{t: t}
	ctrls := make([]Controller, 4)
	for i := range ctrls {
		ctrls[i] = NewAIController(rand.New(rand.NewSource(int64(i+50))), 0)
	}

	g, err := New(Config{
		Seats:       4,
		Controllers: ctrls,
		Seed:        50,
		Logger:      zerolog.Nop(),
		Listener:    ml,
	})
	if err != nil {
		t.Fatalf("got error")
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("got error")
	}

	if ml.prevNo != g.TricksToPlay() {
		t.Errorf("checked through trick %d", ml.prevNo)
	}
}

func TestGame_runTwice(t *testing.T) {
	ctrls := []Controller{NewAIController(rand.New(rand.NewSource(9)), 0)}
	g, err := New(Config{Seats: 1, Controllers: ctrls, Seed: 9, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("got error")
	}
	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("got error")
	}
	if err := g.Run(context.Background()); err != ErrAlreadyStarted {
		t.Errorf("error")
	}
}
