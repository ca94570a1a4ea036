package game

import (
	"fmt"
	"math/rand"
)

type Suit int

const (
	Mountains Suit = iota
	Forests
	Hills
	Shadows
	Rings
)

var suitNames = map[Suit]string{
	Mountains: "mountains",
	Forests:   "forests",
	Hills:     "hills",
	Shadows:   "shadows",
	Rings:     "rings",
}

func (s Suit) String() string {
	return suitNames[s]
}

// Size is how many ranks the suit holds.
func (s Suit) Size() int {
	if s == Rings {
		return 5
	}
	return 8
}

var Suits = []Suit{Mountains, Forests, Hills, Shadows, Rings}

// DeckSize is 4 suits of 8 plus rings of 5.
const DeckSize = 37

type Card struct {
	Suit  Suit `json:"suit"`
	Value int  `json:"value"`
}

// RingCard is the one of rings, the only card that can be trump.
var RingCard = Card{Rings, 1}

func (c Card) IsRing() bool {
	return c == RingCard
}

func (c Card) String() string {
	return fmt.Sprintf("%s-%d", c.Suit, c.Value)
}

type Deck []Card

func NewDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for v := 1; v <= s.Size(); v++ {
			d = append(d, Card{s, v})
		}
	}
	return d
}

func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Draw takes the top card, returning the rest.
func (d Deck) Draw() (Card, Deck) {
	if len(d) == 0 {
		panic("draw from empty deck")
	}
	return d[0], d[1:]
}

func removeCard(cards []Card, c Card) ([]Card, bool) {
	for i, x := range cards {
		if x == c {
			var out []Card
			out = append(out, cards[0:i]...)
			out = append(out, cards[i+1:]...)
			return out, true
		}
	}
	return cards, false
}

func containsCard(cards []Card, c Card) bool {
	for _, x := range cards {
		if x == c {
			return true
		}
	}
	return false
}
