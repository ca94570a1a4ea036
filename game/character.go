package game

import (
	"context"
	"sort"
)

// Character is one playable identity: how it sets up, whether it is
// winning, and how to describe that. Bodies are plain data over the
// engine's primitives, registered once at startup and never mutated.
type Character struct {
	Name string
	// Base is the identity this is a variant of, for burdened forms.
	// Empty means the name is its own base.
	Base string

	Setup     func(ctx context.Context, g *Game, seat *Seat) error
	Objective func(g *Game, seat *Seat) Status
	Display   func(g *Game, seat *Seat) string
}

// Rider is a campaign-level sub-objective attached on top of a
// character's own objective.
type Rider struct {
	Name      string
	Objective func(g *Game, seat *Seat) Status
	Display   func(g *Game, seat *Seat) string
}

var characters = map[string]*Character{}
var riders = map[string]*Rider{}

func registerCharacter(c *Character) {
	if _, dup := characters[c.Name]; dup {
		panic("duplicate character " + c.Name)
	}
	characters[c.Name] = c
}

func registerRider(r *Rider) {
	if _, dup := riders[r.Name]; dup {
		panic("duplicate rider " + r.Name)
	}
	riders[r.Name] = r
}

func LookupCharacter(name string) (*Character, bool) {
	c, ok := characters[name]
	return c, ok
}

func LookupRider(name string) (*Rider, bool) {
	r, ok := riders[name]
	return r, ok
}

// BaseName resolves a variant name to its base identity, so that
// predicates written against "Frodo" still match a burdened Frodo.
func BaseName(name string) string {
	if c, ok := characters[name]; ok && c.Base != "" {
		return c.Base
	}
	return name
}

func CharacterNames() []string {
	out := make([]string, 0, len(characters))
	for n := range characters {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
