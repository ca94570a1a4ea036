package game

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Listener receives everything the engine considers externally visible.
type Listener interface {
	// StateChanged fires after every visible mutation.
	StateChanged(g *Game)
	// LogLine carries narration. A non-empty visibleTo restricts the
	// line to those seats; everyone else gets hidden instead.
	LogLine(line string, important bool, visibleTo []int, hidden string)
	// StatusFinal fires when a seat's objective (or rider, when rider
	// is true) first becomes final.
	StatusFinal(seat int, rider bool, status Status)
}

type nopListener struct{}

func (nopListener) StateChanged(*Game)                  {}
func (nopListener) LogLine(string, bool, []int, string) {}
func (nopListener) StatusFinal(int, bool, Status)       {}

type Config struct {
	Seats       int
	Controllers []Controller
	// Pool is the set of characters offered during setup. Frodo is
	// always present and always sits at seat 0, so he is implied.
	Pool []string
	// Riders optionally attaches one rider per seat, "" for none.
	Riders   []string
	Seed     int64
	Logger   zerolog.Logger
	Listener Listener
}

// DefaultPool is the face-up draw offered to the non-Frodo seats.
var DefaultPool = []string{
	"Sam", "Gandalf", "Pippin", "Merry", "Boromir",
	"Aragorn", "Legolas", "Gimli", "Galadriel", "Farmer Maggot", "Gollum",
}

// Game owns all seats, the lost card, the trick history and the trick in
// progress. Only the one goroutine inside Run mutates it.
type Game struct {
	log      zerolog.Logger
	rng      *rand.Rand
	listener Listener

	seats        []*Seat
	lost         Card
	lostHeld     bool
	lostRevealed bool
	lostHolder   int

	tricksToPlay int
	trickNo      int
	current      *Trick
	tricks       []*Trick
	leader       int

	ringBroken bool
	started    bool
	finished   bool
	pool       []string

	statuses      []Status
	riderStatuses []Status
}

func New(cfg Config) (*Game, error) {
	if cfg.Seats < 1 || cfg.Seats > 4 {
		return nil, ErrBadSeatCount
	}
	if len(cfg.Controllers) != cfg.Seats {
		return nil, ErrBadControllers
	}

	g := &Game{
		log:      cfg.Logger,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		listener: cfg.Listener,
	}
	if g.listener == nil {
		g.listener = nopListener{}
	}

	deck := NewDeck()
	deck.Shuffle(g.rng)

	// one card is lost, face-down, before any dealing
	g.lost, deck = deck.Draw()

	per := len(deck) / cfg.Seats
	g.tricksToPlay = per
	for i := 0; i < cfg.Seats; i++ {
		cards := make([]Card, per)
		copy(cards, deck[i*per:(i+1)*per])

		var hand Hand
		switch cfg.Seats {
		case 1:
			hand = NewOpenHand(cards)
		case 2:
			hand = NewFanHand(cards)
		default:
			hand = NewHand(cards)
		}

		g.seats = append(g.seats, &Seat{
			Index:      i,
			Hand:       hand,
			Controller: cfg.Controllers[i],
		})
	}

	// the Ring's holder leads the first trick; if the Ring is the lost
	// card, seat 0 does
	g.leader = 0
	for _, s := range g.seats {
		if containsCard(s.Hand.Cards(), RingCard) {
			g.leader = s.Index
			break
		}
	}

	g.statuses = make([]Status, cfg.Seats)
	g.riderStatuses = make([]Status, cfg.Seats)

	pool := cfg.Pool
	if pool == nil {
		pool = DefaultPool
	}
	for _, name := range pool {
		if _, ok := LookupCharacter(name); !ok {
			return nil, ErrUnknownCharacter
		}
	}
	g.pool = append(g.pool, pool...)

	for i, name := range cfg.Riders {
		if name == "" || i >= cfg.Seats {
			continue
		}
		r, ok := LookupRider(name)
		if !ok {
			return nil, ErrUnknownRider
		}
		g.seats[i].Rider = r
	}

	return g, nil
}

// Run drives the whole game: setup, the trick loop, and the closing
// evaluation. It blocks until the game is over or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	if g.started {
		return ErrAlreadyStarted
	}
	g.started = true

	if err := g.setup(ctx); err != nil {
		return err
	}

	for g.trickNo < g.tricksToPlay && !g.allHandsEmpty() {
		if err := g.playTrick(ctx); err != nil {
			return err
		}
	}

	g.finished = true
	g.evaluateAll()
	g.Log("the journey is over", true)
	g.listener.StateChanged(g)
	return nil
}

// --- setup phase ---

func (g *Game) setup(ctx context.Context) error {
	if err := g.assignCharacters(ctx); err != nil {
		return err
	}

	// setup actions run one seat at a time, in seat order; anything
	// simultaneous goes through gather-then-apply primitives instead
	for _, s := range g.seats {
		if s.Character.Setup == nil {
			continue
		}
		if err := s.Character.Setup(ctx, g, s); err != nil {
			return err
		}
	}

	g.Logf(true, "the fellowship sets out, %d tricks ahead", g.tricksToPlay)
	g.evaluateAll()
	g.listener.StateChanged(g)
	return nil
}

func (g *Game) assignCharacters(ctx context.Context) error {
	frodo, ok := LookupCharacter("Frodo")
	if !ok {
		panic("no Frodo in the catalog")
	}
	g.seats[0].Character = frodo
	g.Logf(false, "seat 0 carries the Ring as %s", frodo.Name)

	pool := make([]string, len(g.pool))
	copy(pool, g.pool)

	for _, s := range g.seats[1:] {
		if len(pool) == 0 {
			return ErrUnknownCharacter
		}
		options := make([]Button, 0, len(pool))
		for _, name := range pool {
			options = append(options, Button{Value: name, Label: name})
		}
		picked, err := s.Controller.ChooseButton(ctx, "Choose your character", options)
		if err != nil {
			return err
		}
		c, ok := LookupCharacter(picked)
		if !ok {
			panic("picked character vanished: " + picked)
		}
		s.Character = c
		pool, _ = withoutString(pool, picked)
		g.Logf(false, "seat %d will travel as %s", s.Index, c.Name)
	}

	g.listener.StateChanged(g)
	return nil
}

// --- trick loop ---

func (g *Game) playTrick(ctx context.Context) error {
	t := NewTrick(g.trickNo)
	g.current = t

	n := len(g.seats)
	for i := 0; i < n; i++ {
		s := g.seats[(g.leader+i)%n]
		if s.Hand.Size() == 0 {
			continue
		}
		if err := g.playInto(ctx, t, s); err != nil {
			return err
		}
		g.listener.StateChanged(g)
	}

	winner := t.Winner()
	w := g.seats[winner]
	w.Won = append(w.Won, WonTrick{Number: t.Number, Cards: t.Cards()})

	g.tricks = append(g.tricks, t)
	g.current = nil
	g.trickNo++
	g.leader = winner

	g.Logf(false, "seat %d takes trick %d", winner, t.Number+1)
	g.evaluateAll()
	g.listener.StateChanged(g)
	return nil
}

func (g *Game) playInto(ctx context.Context, t *Trick, s *Seat) error {
	normal, ringable := g.legalPlays(s, t)

	options := make([]Card, len(normal))
	copy(options, normal)
	if ringable && !containsCard(options, RingCard) {
		options = append(options, RingCard)
	}

	card, err := s.Controller.SelectCard(ctx, "Play a card", options)
	if err != nil {
		return err
	}
	if !containsCard(options, card) {
		panic(fmt.Sprintf("seat %d played %s which was not offered", s.Index, card))
	}

	trump := false
	if card.IsRing() {
		// playing the Ring as trump breaks its seal for good, so the
		// holder always confirms
		ans, err := s.Controller.ChooseButton(ctx, "Play the One Ring as trump?", YesNo)
		if err != nil {
			return err
		}
		if ans == "yes" {
			trump = true
			g.ringBroken = true
			g.Log("the One Ring is revealed", true)
		} else if !containsCard(normal, RingCard) {
			// declined, and the Ring is not a legal plain play here
			card, err = s.Controller.SelectCard(ctx, "Play a card", normal)
			if err != nil {
				return err
			}
			if !containsCard(normal, card) {
				panic(fmt.Sprintf("seat %d played %s which was not offered", s.Index, card))
			}
		}
	}

	if err := s.Hand.Take(card); err != nil {
		panic(fmt.Sprintf("seat %d does not hold %s", s.Index, card))
	}
	s.Played = append(s.Played, card)
	t.Add(s.Index, card, trump)

	g.Logf(false, "seat %d plays %s", s.Index, card)
	return nil
}

// legalPlays is the cards a seat may put into the trick: follow the lead
// suit when able, anything otherwise. The Ring may additionally be
// played at any time by its holder.
func (g *Game) legalPlays(s *Seat, t *Trick) (normal []Card, ringable bool) {
	playable := s.Hand.Playable()

	lead, led := t.LeadSuit()
	if led {
		for _, c := range playable {
			if c.Suit == lead {
				normal = append(normal, c)
			}
		}
		if len(normal) == 0 {
			normal = playable
		}
	} else {
		normal = playable
	}

	return normal, containsCard(playable, RingCard)
}

// --- status evaluation ---

func (g *Game) evaluateAll() {
	for i, s := range g.seats {
		if s.Character == nil {
			continue
		}
		st := s.Character.Objective(g, s)
		prev := g.statuses[i]
		if prev.Finality == Final && st != prev {
			panic(fmt.Sprintf("final status flipped for seat %d: %s -> %s", i, prev, st))
		}
		if st.Finality == Final && prev.Finality != Final {
			g.listener.StatusFinal(i, false, st)
			g.Logf(true, "seat %d's fate is sealed: %s", i, st.Outcome)
		}
		g.statuses[i] = st

		if s.Rider == nil {
			continue
		}
		rst := s.Rider.Objective(g, s)
		rprev := g.riderStatuses[i]
		if rprev.Finality == Final && rst != rprev {
			panic(fmt.Sprintf("final rider status flipped for seat %d: %s -> %s", i, rprev, rst))
		}
		if rst.Finality == Final && rprev.Finality != Final {
			g.listener.StatusFinal(i, true, rst)
		}
		g.riderStatuses[i] = rst
	}
}

// --- setup primitives, exposed to character bodies ---

// DrawThreatCard draws a random rank for the seat, never equal to
// exclude. Excluding the lost card's rank keeps a threat from being
// unwinnable before play even starts.
func (g *Game) DrawThreatCard(s *Seat, exclude int) int {
	for {
		rank := g.rng.Intn(8) + 1
		if rank == exclude {
			continue
		}
		s.Threat = rank
		g.LogPrivate(fmt.Sprintf("seat %d draws threat card %d", s.Index, rank),
			[]int{s.Index},
			fmt.Sprintf("seat %d draws a threat card", s.Index))
		return rank
	}
}

// ChooseThreatCard draws two ranks and lets the seat keep one; the other
// goes back to the pile.
func (g *Game) ChooseThreatCard(ctx context.Context, s *Seat) (int, error) {
	a := g.rng.Intn(8) + 1
	b := a
	for b == a {
		b = g.rng.Intn(8) + 1
	}

	options := []Button{
		{Value: fmt.Sprint(a), Label: fmt.Sprintf("Threat %d", a)},
		{Value: fmt.Sprint(b), Label: fmt.Sprintf("Threat %d", b)},
	}
	picked, err := s.Controller.ChooseButton(ctx, "Keep which threat card?", options)
	if err != nil {
		return 0, err
	}

	rank := a
	if picked == fmt.Sprint(b) {
		rank = b
	}
	s.Threat = rank
	g.LogPrivate(fmt.Sprintf("seat %d keeps threat card %d", s.Index, rank),
		[]int{s.Index},
		fmt.Sprintf("seat %d draws a threat card", s.Index))
	return rank, nil
}

// Exchange swaps one card each way between the seat and another seat
// whose character satisfies pred. Predicates see base identities, so
// burdened variants still match. Both choices are gathered before either
// is applied.
func (g *Game) Exchange(ctx context.Context, s *Seat, pred func(base string) bool) error {
	var eligible []*Seat
	for _, other := range g.seats {
		if other.Index == s.Index || other.Character == nil {
			continue
		}
		if pred(other.BaseCharacterName()) {
			eligible = append(eligible, other)
		}
	}
	if len(eligible) == 0 {
		return ErrNoEligibleSeat
	}

	partner := eligible[0]
	if len(eligible) > 1 {
		options := make([]Button, 0, len(eligible))
		for _, e := range eligible {
			options = append(options, Button{Value: fmt.Sprint(e.Index), Label: e.Character.Name})
		}
		picked, err := s.Controller.ChooseButton(ctx, "Exchange with whom?", options)
		if err != nil {
			return err
		}
		for _, e := range eligible {
			if fmt.Sprint(e.Index) == picked {
				partner = e
			}
		}
	}

	var give, take Card
	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		c, err := s.Controller.ChooseCard(gctx, "Give a card away", s.Hand.Playable())
		give = c
		return err
	})
	grp.Go(func() error {
		c, err := partner.Controller.ChooseCard(gctx, "Give a card away", partner.Hand.Playable())
		take = c
		return err
	})
	if err := grp.Wait(); err != nil {
		return err
	}

	g.mustTake(s, give)
	g.mustTake(partner, take)
	s.Hand.Give(take)
	partner.Hand.Give(give)

	g.LogPrivate(
		fmt.Sprintf("seat %d trades %s for %s with seat %d", s.Index, give, take, partner.Index),
		[]int{s.Index, partner.Index},
		fmt.Sprintf("seat %d exchanges a card with seat %d", s.Index, partner.Index))
	g.listener.StateChanged(g)
	return nil
}

// PassAround has every seat pick a card, then all cards move one seat to
// the right at once. No seat's pick may see another's.
func (g *Game) PassAround(ctx context.Context) error {
	picks := make([]Card, len(g.seats))
	grp, gctx := errgroup.WithContext(ctx)
	for _, s := range g.seats {
		s := s
		grp.Go(func() error {
			c, err := s.Controller.ChooseCard(gctx, "Pass a card to your right", s.Hand.Playable())
			picks[s.Index] = c
			return err
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	n := len(g.seats)
	for _, s := range g.seats {
		g.mustTake(s, picks[s.Index])
	}
	for _, s := range g.seats {
		g.seats[(s.Index+1)%n].Hand.Give(picks[s.Index])
	}

	g.Log("everyone passes a card to the right", false)
	g.listener.StateChanged(g)
	return nil
}

// TakeLostCard puts the lost card into the seat's hand.
func (g *Game) TakeLostCard(s *Seat) error {
	if g.lostHeld {
		return ErrLostCardTaken
	}
	g.lostHeld = true
	g.lostHolder = s.Index
	s.Hand.Give(g.lost)
	g.LogPrivate(fmt.Sprintf("seat %d takes the lost card, %s", s.Index, g.lost),
		[]int{s.Index},
		fmt.Sprintf("seat %d takes the lost card", s.Index))
	g.listener.StateChanged(g)
	return nil
}

// OfferLostCard is TakeLostCard behind a yes/no.
func (g *Game) OfferLostCard(ctx context.Context, s *Seat) error {
	if g.lostHeld {
		return ErrLostCardTaken
	}
	ans, err := s.Controller.ChooseButton(ctx, "Take the lost card?", YesNo)
	if err != nil {
		return err
	}
	if ans == "no" {
		return nil
	}
	return g.TakeLostCard(s)
}

// RevealLostCard turns the lost card face-up for everyone.
func (g *Game) RevealLostCard() {
	g.lostRevealed = true
	g.Logf(true, "the lost card is %s", g.lost)
	g.listener.StateChanged(g)
}

// RevealHand turns the seat's whole hand face-up.
func (g *Game) RevealHand(s *Seat) {
	s.Hand.Reveal()
	g.Logf(false, "seat %d reveals their hand", s.Index)
	g.listener.StateChanged(g)
}

// SetAsideCard removes one chosen card from play for the rest of the
// game. It stays owned by the seat for accounting.
func (g *Game) SetAsideCard(ctx context.Context, s *Seat) error {
	c, err := s.Controller.ChooseCard(ctx, "Set a card aside", s.Hand.Playable())
	if err != nil {
		return err
	}
	g.mustTake(s, c)
	s.SetAside = &c
	g.LogPrivate(fmt.Sprintf("seat %d sets aside %s", s.Index, c),
		[]int{s.Index},
		fmt.Sprintf("seat %d sets a card aside", s.Index))
	g.listener.StateChanged(g)
	return nil
}

// GiveCard moves a card between hands.
func (g *Game) GiveCard(from, to *Seat, c Card) {
	g.mustTake(from, c)
	to.Hand.Give(c)
	g.LogPrivate(fmt.Sprintf("seat %d gives %s to seat %d", from.Index, c, to.Index),
		[]int{from.Index, to.Index},
		fmt.Sprintf("seat %d gives a card to seat %d", from.Index, to.Index))
	g.listener.StateChanged(g)
}

// ExtendTricks grants one extra trick beyond the normal count.
func (g *Game) ExtendTricks() {
	g.tricksToPlay++
	g.Log("the road goes ever on: one more trick", true)
}

func (g *Game) mustTake(s *Seat, c Card) {
	if err := s.Hand.Take(c); err != nil {
		panic(fmt.Sprintf("seat %d does not hold %s", s.Index, c))
	}
}

// --- logging ---

func (g *Game) Log(line string, important bool) {
	g.log.Info().Msg(line)
	g.listener.LogLine(line, important, nil, "")
}

func (g *Game) Logf(important bool, format string, a ...interface{}) {
	g.Log(fmt.Sprintf(format, a...), important)
}

// LogPrivate narrates to some seats only; the rest see hidden.
func (g *Game) LogPrivate(line string, visibleTo []int, hidden string) {
	g.log.Info().Msg(hidden)
	g.listener.LogLine(line, false, visibleTo, hidden)
}

// NotifyStateChange lets character bodies force a push after their own
// mutations.
func (g *Game) NotifyStateChange() {
	g.listener.StateChanged(g)
}

// --- state queries ---

func (g *Game) Seats() []*Seat    { return g.seats }
func (g *Game) Seat(i int) *Seat  { return g.seats[i] }
func (g *Game) SeatCount() int    { return len(g.seats) }
func (g *Game) TrickNumber() int  { return g.trickNo }
func (g *Game) TricksToPlay() int { return g.tricksToPlay }
func (g *Game) Finished() bool    { return g.finished }
func (g *Game) RingBroken() bool  { return g.ringBroken }
func (g *Game) Leader() int       { return g.leader }

func (g *Game) TricksRemaining() int {
	return g.tricksToPlay - g.trickNo
}

func (g *Game) CurrentTrick() *Trick {
	return g.current
}

func (g *Game) Tricks() []*Trick {
	out := make([]*Trick, len(g.tricks))
	copy(out, g.tricks)
	return out
}

// LostCard is the set-aside card and whether a seat holds it now.
func (g *Game) LostCard() (Card, bool) {
	return g.lost, g.lostHeld
}

func (g *Game) LostCardRevealed() bool {
	return g.lostRevealed
}

func (g *Game) Status(seat int) Status {
	return g.statuses[seat]
}

func (g *Game) RiderStatus(seat int) Status {
	return g.riderStatuses[seat]
}

func (g *Game) allHandsEmpty() bool {
	for _, s := range g.seats {
		if s.Hand.Size() > 0 {
			return false
		}
	}
	return true
}

func withoutString(l []string, s string) ([]string, bool) {
	for i, x := range l {
		if x == s {
			var out []string
			out = append(out, l[0:i]...)
			out = append(out, l[i+1:]...)
			return out, true
		}
	}
	return l, false
}
