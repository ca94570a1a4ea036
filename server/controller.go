package server

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/greenhollow/fellowship/game"
)

// DecisionRequest is one suspended decision as sent to a client. The
// same ID and payload are re-sent verbatim on reconnect, so an in-flight
// UI can pick up where it was.
type DecisionRequest struct {
	ID      string        `json:"id"`
	Seat    int           `json:"seat"`
	Kind    string        `json:"kind"`
	Prompt  string        `json:"prompt"`
	Buttons []game.Button `json:"buttons,omitempty"`
	Cards   []game.Card   `json:"cards,omitempty"`
}

// Wire decision kinds. Seat and character picks ride the choose_button
// shape with seat numbers or character names as values.
const (
	KindChooseButton = "choose_button"
	KindSelectCard   = "select_card"
)

// DecisionResponse is a client's answer, correlated by request ID.
type DecisionResponse struct {
	ID     string `json:"id"`
	Choice int    `json:"choice"`
}

type pendingReq struct {
	req DecisionRequest
	ch  chan int
}

// netController satisfies game.Controller for a seat driven by a remote
// peer. Every outstanding request is retained until its response
// arrives; late or duplicate responses are ignored.
type netController struct {
	seat int
	send func(v interface{})

	mu      sync.Mutex
	pending map[string]*pendingReq
}

func newNetController(seat int, send func(v interface{})) *netController {
	return &netController{
		seat:    seat,
		send:    send,
		pending: map[string]*pendingReq{},
	}
}

func (c *netController) ask(ctx context.Context, req DecisionRequest) (int, error) {
	req.ID = uuid.NewString()
	req.Seat = c.seat

	p := &pendingReq{req: req, ch: make(chan int, 1)}
	c.mu.Lock()
	c.pending[req.ID] = p
	c.mu.Unlock()

	c.send(req)

	select {
	case i := <-p.ch:
		return i, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, req.ID)
		c.mu.Unlock()
		return 0, ctx.Err()
	}
}

// Resolve answers an outstanding request. It reports false for unknown
// or already-resolved IDs and out-of-range choices.
func (c *netController) Resolve(id string, choice int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[id]
	if !ok {
		return false
	}
	n := len(p.req.Buttons)
	if p.req.Kind == KindSelectCard {
		n = len(p.req.Cards)
	}
	if choice < 0 || choice >= n {
		return false
	}

	delete(c.pending, id)
	p.ch <- choice
	return true
}

// Retransmit re-sends every outstanding request, verbatim.
func (c *netController) Retransmit() {
	c.mu.Lock()
	reqs := make([]DecisionRequest, 0, len(c.pending))
	for _, p := range c.pending {
		reqs = append(reqs, p.req)
	}
	c.mu.Unlock()

	for _, req := range reqs {
		c.send(req)
	}
}

func (c *netController) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *netController) ChooseButton(ctx context.Context, prompt string, options []game.Button) (string, error) {
	i, err := c.ask(ctx, DecisionRequest{Kind: KindChooseButton, Prompt: prompt, Buttons: options})
	if err != nil {
		return "", err
	}
	return options[i].Value, nil
}

func (c *netController) ChooseCard(ctx context.Context, prompt string, options []game.Card) (game.Card, error) {
	i, err := c.ask(ctx, DecisionRequest{Kind: KindSelectCard, Prompt: prompt, Cards: options})
	if err != nil {
		return game.Card{}, err
	}
	return options[i], nil
}

func (c *netController) SelectCard(ctx context.Context, prompt string, available []game.Card) (game.Card, error) {
	i, err := c.ask(ctx, DecisionRequest{Kind: KindSelectCard, Prompt: prompt, Cards: available})
	if err != nil {
		return game.Card{}, err
	}
	return available[i], nil
}
