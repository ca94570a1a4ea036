package game

import (
	"context"
	"math/rand"
	"time"
)

// Button is one labelled option in a choose-button decision.
type Button struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Controller is how a seat makes decisions. The engine always blocks on
// one of these calls and never cares what is on the other end: a local
// AI, a terminal, or a network peer.
type Controller interface {
	ChooseButton(ctx context.Context, prompt string, options []Button) (string, error)
	ChooseCard(ctx context.Context, prompt string, options []Card) (Card, error)
	SelectCard(ctx context.Context, prompt string, available []Card) (Card, error)
}

// AIController answers every decision uniformly at random, after a small
// delay so that watching clients can follow along.
type AIController struct {
	rng   *rand.Rand
	delay time.Duration
}

func NewAIController(rng *rand.Rand, delay time.Duration) *AIController {
	return &AIController{rng: rng, delay: delay}
}

func (a *AIController) wait(ctx context.Context) error {
	if a.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(a.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *AIController) ChooseButton(ctx context.Context, prompt string, options []Button) (string, error) {
	if err := a.wait(ctx); err != nil {
		return "", err
	}
	return options[a.rng.Intn(len(options))].Value, nil
}

func (a *AIController) ChooseCard(ctx context.Context, prompt string, options []Card) (Card, error) {
	if err := a.wait(ctx); err != nil {
		return Card{}, err
	}
	return options[a.rng.Intn(len(options))], nil
}

func (a *AIController) SelectCard(ctx context.Context, prompt string, available []Card) (Card, error) {
	if err := a.wait(ctx); err != nil {
		return Card{}, err
	}
	return available[a.rng.Intn(len(available))], nil
}

// DecisionKind tags what shape of answer a Decision wants.
type DecisionKind string

const (
	ChooseButtonDecision DecisionKind = "choose_button"
	ChooseCardDecision   DecisionKind = "choose_card"
	SelectCardDecision   DecisionKind = "select_card"
)

// Decision is one suspended choice, handed to whatever is driving a
// HumanController. Resolve with the index of the chosen option.
type Decision struct {
	Kind    DecisionKind
	Prompt  string
	Buttons []Button
	Cards   []Card

	resolve chan int
}

func (d *Decision) Options() int {
	if d.Kind == ChooseButtonDecision {
		return len(d.Buttons)
	}
	return len(d.Cards)
}

func (d *Decision) Resolve(i int) {
	d.resolve <- i
}

// HumanController queues decisions onto a channel for a UI to answer.
type HumanController struct {
	ch chan *Decision
}

func NewHumanController() *HumanController {
	return &HumanController{ch: make(chan *Decision)}
}

// Decisions is where pending decisions arrive, one at a time.
func (h *HumanController) Decisions() <-chan *Decision {
	return h.ch
}

func (h *HumanController) ask(ctx context.Context, d *Decision) (int, error) {
	d.resolve = make(chan int, 1)
	select {
	case h.ch <- d:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case i := <-d.resolve:
		if i < 0 || i >= d.Options() {
			panic("decision resolved out of range")
		}
		return i, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (h *HumanController) ChooseButton(ctx context.Context, prompt string, options []Button) (string, error) {
	i, err := h.ask(ctx, &Decision{Kind: ChooseButtonDecision, Prompt: prompt, Buttons: options})
	if err != nil {
		return "", err
	}
	return options[i].Value, nil
}

func (h *HumanController) ChooseCard(ctx context.Context, prompt string, options []Card) (Card, error) {
	i, err := h.ask(ctx, &Decision{Kind: ChooseCardDecision, Prompt: prompt, Cards: options})
	if err != nil {
		return Card{}, err
	}
	return options[i], nil
}

func (h *HumanController) SelectCard(ctx context.Context, prompt string, available []Card) (Card, error) {
	i, err := h.ask(ctx, &Decision{Kind: SelectCardDecision, Prompt: prompt, Cards: available})
	if err != nil {
		return Card{}, err
	}
	return available[i], nil
}

// YesNo is the standard two-button option set.
var YesNo = []Button{
	{Value: "yes", Label: "Yes"},
	{Value: "no", Label: "No"},
}
