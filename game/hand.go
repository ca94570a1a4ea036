package game

// CardView is one card as shown to a viewer. Known is false when the
// viewer may only see a card back.
type CardView struct {
	Card  Card `json:"card"`
	Known bool `json:"known"`
}

// Hand holds a seat's unplayed cards. Variants differ only in what is
// revealed to whom and in which cards are playable at a given moment.
type Hand interface {
	Cards() []Card
	Playable() []Card
	Has(c Card) bool
	Take(c Card) error
	Give(c Card)
	Reveal()
	View(owner bool) []CardView
	Size() int
}

// tableHand is the normal hand, held face-down towards the table.
type tableHand struct {
	cards    []Card
	revealed bool
}

func NewHand(cards []Card) Hand {
	return &tableHand{cards: cards}
}

// NewOpenHand is a hand that starts revealed, for solitaire play.
func NewOpenHand(cards []Card) Hand {
	return &tableHand{cards: cards, revealed: true}
}

func (h *tableHand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *tableHand) Playable() []Card {
	return h.Cards()
}

func (h *tableHand) Has(c Card) bool {
	return containsCard(h.cards, c)
}

func (h *tableHand) Take(c Card) error {
	rest, ok := removeCard(h.cards, c)
	if !ok {
		return ErrNotInHand
	}
	h.cards = rest
	return nil
}

func (h *tableHand) Give(c Card) {
	h.cards = append(h.cards, c)
}

func (h *tableHand) Reveal() {
	h.revealed = true
}

func (h *tableHand) View(owner bool) []CardView {
	out := make([]CardView, 0, len(h.cards))
	for _, c := range h.cards {
		if owner || h.revealed {
			out = append(out, CardView{Card: c, Known: true})
		} else {
			out = append(out, CardView{Known: false})
		}
	}
	return out
}

func (h *tableHand) Size() int {
	return len(h.cards)
}

// fanHand is the two-player layout: piles of two laid out in a fan, the
// top card face-up and playable, the card under it hidden until the top
// is gone. Odd leftovers form single-card piles.
type fanHand struct {
	piles []*fanPile
}

type fanPile struct {
	under *Card
	top   Card
}

func NewFanHand(cards []Card) Hand {
	h := &fanHand{}
	i := 0
	for ; i+1 < len(cards); i += 2 {
		under := cards[i]
		h.piles = append(h.piles, &fanPile{under: &under, top: cards[i+1]})
	}
	if i < len(cards) {
		h.piles = append(h.piles, &fanPile{top: cards[i]})
	}
	return h
}

func (h *fanHand) Cards() []Card {
	var out []Card
	for _, p := range h.piles {
		out = append(out, p.top)
		if p.under != nil {
			out = append(out, *p.under)
		}
	}
	return out
}

func (h *fanHand) Playable() []Card {
	var out []Card
	for _, p := range h.piles {
		out = append(out, p.top)
	}
	return out
}

func (h *fanHand) Has(c Card) bool {
	return containsCard(h.Cards(), c)
}

func (h *fanHand) Take(c Card) error {
	for i, p := range h.piles {
		if p.top != c {
			continue
		}
		if p.under != nil {
			p.top = *p.under
			p.under = nil
		} else {
			h.piles = append(h.piles[0:i], h.piles[i+1:]...)
		}
		return nil
	}
	return ErrNotInHand
}

func (h *fanHand) Give(c Card) {
	h.piles = append(h.piles, &fanPile{top: c})
}

func (h *fanHand) Reveal() {
	// tops are already public; hidden unders stay hidden until uncovered
}

func (h *fanHand) View(owner bool) []CardView {
	var out []CardView
	for _, p := range h.piles {
		if p.under != nil {
			// the under card is hidden even from the owner
			out = append(out, CardView{Known: false})
		}
		out = append(out, CardView{Card: p.top, Known: true})
	}
	return out
}

func (h *fanHand) Size() int {
	n := 0
	for _, p := range h.piles {
		n++
		if p.under != nil {
			n++
		}
	}
	return n
}
