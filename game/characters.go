package game

import (
	"context"
	"fmt"
)

// The catalog. Character bodies are content: each is a few closures over
// the engine's primitives and the objective combinators.

func init() {
	registerCharacter(&Character{
		Name:      "Frodo",
		Objective: frodoObjective,
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("keep the Ring sealed, win a trick (%d won)", len(s.Won))
		},
	})

	registerCharacter(&Character{
		Name: "Frodo (Burdened)",
		Base: "Frodo",
		Objective: func(g *Game, s *Seat) Status {
			noShadowEight := DoNot(AchieveAtLeast(
				g.CardsWinnable(s, isCard(Card{Shadows, 8})), 1))
			return AchieveBoth(frodoObjective(g, s), noShadowEight)
		},
		Display: func(g *Game, s *Seat) string {
			return "keep the Ring sealed, win a trick, shun the shadow eight"
		},
	})

	registerCharacter(&Character{
		Name: "Sam",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			return g.Exchange(ctx, s, func(base string) bool { return base == "Frodo" })
		},
		Objective: samObjective,
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win more tricks than anyone (%d won)", len(s.Won))
		},
	})

	registerCharacter(&Character{
		Name: "Sam (Burdened)",
		Base: "Sam",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			if _, err := g.ChooseThreatCard(ctx, s); err != nil {
				return err
			}
			return g.Exchange(ctx, s, func(base string) bool { return base == "Frodo" })
		},
		Objective: func(g *Game, s *Seat) Status {
			threat := AchieveAtLeast(g.CardsWinnable(s, isRank(s.Threat)), 1)
			return AchieveBoth(samObjective(g, s), threat)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win more tricks than anyone, and a card of rank %d", s.Threat)
		},
	})

	registerCharacter(&Character{
		Name: "Gandalf",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			g.RevealHand(s)
			return nil
		},
		Objective: func(g *Game, s *Seat) Status {
			return AchieveAtLeast(g.TricksWinnable(s), 1)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win at least one trick (%d won)", len(s.Won))
		},
	})

	registerCharacter(&Character{
		Name: "Pippin",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			if g.SeatCount() < 2 {
				return nil
			}
			return g.PassAround(ctx)
		},
		Objective: func(g *Game, s *Seat) Status {
			own := g.TricksWinnable(s)
			var others []Status
			for _, o := range g.Seats() {
				if o.Index == s.Index {
					continue
				}
				others = append(others, DoNot(AchieveMoreThan(own, g.TricksWinnable(o))))
			}
			return AchieveEvery(others)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win the fewest tricks, or joint fewest (%d won)", len(s.Won))
		},
	})

	registerCharacter(&Character{
		Name:      "Merry",
		Objective: merryObjective,
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win neither the fewest nor the most tricks (%d won)", len(s.Won))
		},
	})

	registerCharacter(&Character{
		Name:      "Boromir",
		Objective: boromirObjective,
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win exactly three tricks in a row, no others (%v)", s.WonTrickNumbers())
		},
	})

	registerCharacter(&Character{
		Name: "Aragorn",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			if _, held := g.LostCard(); held {
				return nil
			}
			if err := g.OfferLostCard(ctx, s); err != nil {
				return err
			}
			if _, held := g.LostCard(); held {
				// keep the hand even
				return g.SetAsideCard(ctx, s)
			}
			return nil
		},
		Objective: func(g *Game, s *Seat) Status {
			first := AchieveAtLeast(g.TricksWinnableNumbered(s, func(n int) bool { return n == 0 }), 1)
			last := AchieveAtLeast(g.TricksWinnableNumbered(s, func(n int) bool { return n == g.TricksToPlay()-1 }), 1)
			return AchieveBoth(first, last)
		},
		Display: func(g *Game, s *Seat) string {
			return "win the first and the last trick"
		},
	})

	registerCharacter(&Character{
		Name: "Legolas",
		Objective: func(g *Game, s *Seat) Status {
			return AchieveAtLeast(g.CardsWinnable(s, isSuit(Forests)), 4)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win four forests cards (%d won)", s.WonCardsMatching(isSuit(Forests)))
		},
	})

	registerCharacter(&Character{
		Name: "Gimli",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			if !g.hasCharacter("Legolas") {
				return nil
			}
			return g.Exchange(ctx, s, func(base string) bool { return base == "Legolas" })
		},
		Objective: func(g *Game, s *Seat) Status {
			own := g.CardsWinnable(s, isSuit(Mountains))
			var others []Status
			for _, o := range g.Seats() {
				if o.Index == s.Index {
					continue
				}
				others = append(others, AchieveMoreThan(own, g.CardsWinnable(o, isSuit(Mountains))))
			}
			return AchieveEvery(others)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win more mountains cards than anyone (%d won)", s.WonCardsMatching(isSuit(Mountains)))
		},
	})

	registerCharacter(&Character{
		Name: "Galadriel",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			lost, _ := g.LostCard()
			g.DrawThreatCard(s, lost.Value)
			g.RevealLostCard()
			return nil
		},
		Objective: func(g *Game, s *Seat) Status {
			if s.Threat == 0 {
				return TentativeSuccess
			}
			return DoNot(AchieveAtLeast(g.CardsWinnable(s, isRank(s.Threat)), 1))
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win no cards of rank %d", s.Threat)
		},
	})

	registerCharacter(&Character{
		Name: "Farmer Maggot",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			lost, _ := g.LostCard()
			g.DrawThreatCard(s, lost.Value)
			return nil
		},
		Objective: func(g *Game, s *Seat) Status {
			if s.Threat == 0 {
				return TentativeFailure
			}
			return AchieveExactly(g.CardsWinnable(s, isRank(s.Threat)), 2)
		},
		Display: func(g *Game, s *Seat) string {
			return fmt.Sprintf("win exactly two cards of rank %d (%d won)",
				s.Threat, s.WonCardsMatching(isRank(s.Threat)))
		},
	})

	registerCharacter(&Character{
		Name: "Gollum",
		Setup: func(ctx context.Context, g *Game, s *Seat) error {
			if _, held := g.LostCard(); held {
				return nil
			}
			if err := g.TakeLostCard(s); err != nil {
				return err
			}
			return g.SetAsideCard(ctx, s)
		},
		Objective: func(g *Game, s *Seat) Status {
			return g.AchieveCard(s, RingCard)
		},
		Display: func(g *Game, s *Seat) string {
			return "win the trick that carries the One Ring"
		},
	})

	registerRider(&Rider{
		Name: "Swift Passage",
		Objective: func(g *Game, s *Seat) Status {
			return AchieveAtLeast(g.TricksWinnableNumbered(s, func(n int) bool { return n < 3 }), 1)
		},
		Display: func(g *Game, s *Seat) string {
			return "win one of the first three tricks"
		},
	})

	registerRider(&Rider{
		Name: "Unseen Road",
		Objective: func(g *Game, s *Seat) Status {
			return DoNot(AchieveAtLeast(g.CardsWinnable(s, isCard(Card{Shadows, 8})), 1))
		},
		Display: func(g *Game, s *Seat) string {
			return "never win the shadow eight"
		},
	})
}

func isSuit(suit Suit) func(Card) bool {
	return func(c Card) bool { return c.Suit == suit }
}

func isRank(rank int) func(Card) bool {
	return func(c Card) bool { return c.Value == rank }
}

func isCard(want Card) func(Card) bool {
	return func(c Card) bool { return c == want }
}

// frodoObjective: the Ring must never be played as trump, and Frodo must
// still take at least one trick.
func frodoObjective(g *Game, s *Seat) Status {
	return AchieveBoth(g.ringSealed(), AchieveAtLeast(g.TricksWinnable(s), 1))
}

// ringSealed is final failure the moment the Ring is trumped, and final
// success once the Ring is buried in a won pile unplayed.
func (g *Game) ringSealed() Status {
	if g.ringBroken {
		return FinalFailure
	}
	for _, s := range g.seats {
		if s.HasWonCard(RingCard) {
			return FinalSuccess
		}
	}
	if g.finished {
		return FinalSuccess
	}
	return TentativeSuccess
}

func samObjective(g *Game, s *Seat) Status {
	own := g.TricksWinnable(s)
	var others []Status
	for _, o := range g.Seats() {
		if o.Index == s.Index {
			continue
		}
		others = append(others, AchieveMoreThan(own, g.TricksWinnable(o)))
	}
	return AchieveEvery(others)
}

// merryObjective needs, among the other seats, someone strictly below
// and someone strictly above. Both comparisons finalize as soon as the
// ordering is guaranteed to survive the remaining tricks.
func merryObjective(g *Game, s *Seat) Status {
	own := g.TricksWinnable(s)
	var below, above []Status
	for _, o := range g.Seats() {
		if o.Index == s.Index {
			continue
		}
		other := g.TricksWinnable(o)
		below = append(below, AchieveMoreThan(own, other))
		above = append(above, AchieveMoreThan(other, own))
	}
	return AchieveBoth(AchieveSome(below), AchieveSome(above))
}

// boromirObjective: exactly three consecutive tricks and no others. One
// missed trick directly after a short run kills it for good.
func boromirObjective(g *Game, s *Seat) Status {
	nums := s.WonTrickNumbers()

	if len(nums) > 3 {
		return FinalFailure
	}
	for i := 1; i < len(nums); i++ {
		if nums[i] != nums[i-1]+1 {
			return FinalFailure
		}
	}

	if len(nums) == 3 {
		if g.TricksRemaining() == 0 {
			return FinalSuccess
		}
		return TentativeSuccess
	}

	need := 3 - len(nums)
	if len(nums) > 0 {
		last := nums[len(nums)-1]
		if g.trickNo > last+1 {
			// the run can only grow through the very next trick
			return FinalFailure
		}
	}
	if g.TricksRemaining() < need {
		return FinalFailure
	}
	return TentativeFailure
}

func (g *Game) hasCharacter(name string) bool {
	for _, s := range g.seats {
		if s.Character != nil && s.BaseCharacterName() == BaseName(name) {
			return true
		}
	}
	return false
}
