package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhollow/fellowship/game"

	rl "github.com/chzyer/readline"
)

func main() {
	seats := flag.Int("seats", 4, "number of seats, 1 to 4")
	seed := flag.Int64("seed", time.Now().UnixNano(), "deal seed")
	rider := flag.String("rider", "", "rider for your seat")
	flag.Parse()

	human := game.NewHumanController()

	ctrls := make([]game.Controller, *seats)
	ctrls[0] = human
	for i := 1; i < *seats; i++ {
		rng := rand.New(rand.NewSource(*seed + int64(i)))
		ctrls[i] = game.NewAIController(rng, 0)
	}

	riders := make([]string, *seats)
	riders[0] = *rider

	g, err := game.New(game.Config{
		Seats:       *seats,
		Controllers: ctrls,
		Riders:      riders,
		Seed:        *seed,
		Logger:      zerolog.Nop(),
		Listener:    replListener{},
	})
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	l, err := rl.NewEx(&rl.Config{
		Prompt:            "\033[31m»\033[0m ",
		HistoryFile:       "hist.txt",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	done := make(chan error, 1)
	go func() {
		done <- g.Run(context.Background())
	}()

	for {
		select {
		case d := <-human.Decisions():
			answerDecision(l, g, d)
		case err := <-done:
			if err != nil {
				fmt.Printf("error: %v\n", err)
				return
			}
			printFinal(g)
			return
		}
	}
}

// answerDecision shows the pending choice and reads until it gets a
// usable answer. The engine is blocked on us, so poking around in the
// game for display is safe.
func answerDecision(l *rl.Instance, g *game.Game, d *game.Decision) {
	printDecision(d)

	for {
		line, err := l.Readline()
		if err == rl.ErrInterrupt {
			if len(line) == 0 {
				fmt.Printf("a game in progress cannot be abandoned\n")
			}
			continue
		} else if err == io.EOF {
			fmt.Printf("a game in progress cannot be abandoned\n")
			continue
		}

		cmd := strings.TrimSpace(line)
		switch cmd {
		case "":
			continue
		case "hand":
			printHand(g)
			continue
		case "table":
			printTable(g)
			continue
		case "status":
			printStatus(g)
			continue
		case "again":
			printDecision(d)
			continue
		case "help":
			fmt.Printf("a number answers; also: hand, table, status, again\n")
			continue
		}

		n, err := strconv.Atoi(cmd)
		if err != nil || n < 1 || n > d.Options() {
			fmt.Printf("answer 1 to %d, or help\n", d.Options())
			continue
		}
		d.Resolve(n - 1)
		return
	}
}

func printDecision(d *game.Decision) {
	fmt.Printf("%s\n", d.Prompt)
	if d.Kind == game.ChooseButtonDecision {
		for i, b := range d.Buttons {
			fmt.Printf("  %d: %s\n", i+1, b.Label)
		}
	} else {
		for i, c := range d.Cards {
			fmt.Printf("  %d: %s\n", i+1, c)
		}
	}
}

func printHand(g *game.Game) {
	s := g.Seat(0)
	for _, cv := range s.Hand.View(true) {
		if cv.Known {
			fmt.Printf("  %s\n", cv.Card)
		} else {
			fmt.Printf("  (face down)\n")
		}
	}
}

func printTable(g *game.Game) {
	fmt.Printf("trick %d of %d\n", g.TrickNumber()+1, g.TricksToPlay())
	if t := g.CurrentTrick(); t != nil {
		for _, p := range t.Plays {
			trump := ""
			if p.Trump {
				trump = " (trump)"
			}
			fmt.Printf("  seat %d: %s%s\n", p.Seat, p.Card, trump)
		}
	}
	for _, s := range g.Seats() {
		fmt.Printf("seat %d: %s, %d tricks won\n", s.Index, s.CharacterName(), len(s.Won))
	}
}

func printStatus(g *game.Game) {
	s := g.Seat(0)
	if s.Character != nil && s.Character.Display != nil {
		fmt.Printf("%s\n", s.Character.Display(g, s))
	}
	fmt.Printf("objective: %s\n", describe(g.Status(0)))
	if s.Rider != nil {
		fmt.Printf("%s: %s\n", s.Rider.Name, describe(g.RiderStatus(0)))
	}
}

func printFinal(g *game.Game) {
	won := true
	for _, s := range g.Seats() {
		st := g.Status(s.Index)
		fmt.Printf("seat %d (%s): %s\n", s.Index, s.CharacterName(), describe(st))
		if st.Outcome != game.Success {
			won = false
		}
		if s.Rider != nil {
			rst := g.RiderStatus(s.Index)
			fmt.Printf("  %s: %s\n", s.Rider.Name, describe(rst))
			if rst.Outcome != game.Success {
				won = false
			}
		}
	}
	if won {
		fmt.Printf("the fellowship prevails\n")
	} else {
		fmt.Printf("the quest has failed\n")
	}
}

func describe(st game.Status) string {
	out := "failed"
	if st.Outcome == game.Success {
		out = "achieved"
	}
	if st.Finality == game.Tentative {
		return out + " so far"
	}
	return out
}

// replListener narrates for seat 0.
type replListener struct{}

func (replListener) StateChanged(*game.Game) {}

func (replListener) LogLine(line string, important bool, visibleTo []int, hidden string) {
	if visibleTo != nil && !seesLine(visibleTo) {
		line = hidden
	}
	if line == "" {
		return
	}
	if important {
		fmt.Printf("\033[33m%s\033[0m\n", line)
	} else {
		fmt.Printf("%s\n", line)
	}
}

func (replListener) StatusFinal(seat int, rider bool, status game.Status) {
	what := "objective"
	if rider {
		what = "rider"
	}
	out := "failed"
	if status.Outcome == game.Success {
		out = "achieved"
	}
	fmt.Printf("\033[33mseat %d %s %s\033[0m\n", seat, what, out)
}

func seesLine(visibleTo []int) bool {
	for _, v := range visibleTo {
		if v == 0 {
			return true
		}
	}
	return false
}
