package server

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhollow/fellowship/game"
)

// room is one table: seat claims, attached clients, and, once started,
// the engine goroutine driving the game.
type room struct {
	id        string
	seatCount int
	riders    []string

	clients map[int]*clientBundle
	names   map[int]string
	net     map[int]*netController

	g         *game.Game
	cancel    context.CancelFunc
	started   bool
	finished  bool
	lastViews []StateView

	log zerolog.Logger
}

func (r *room) info() RoomInfo {
	claimed := make([]string, r.seatCount)
	for i, name := range r.names {
		claimed[i] = name
	}
	return RoomInfo{
		ID:       r.id,
		Seats:    r.seatCount,
		Claimed:  claimed,
		Started:  r.started,
		Finished: r.finished,
	}
}

// start builds a controller per seat and launches the engine. Connected
// seats are driven over the network; empty seats play themselves.
func (r *room) start(ctx context.Context, coreCh chan<- interface{}) error {
	if r.started {
		return game.ErrAlreadyStarted
	}

	ctrls := make([]game.Controller, r.seatCount)
	for i := 0; i < r.seatCount; i++ {
		if _, connected := r.clients[i]; connected {
			i := i
			nc := newNetController(i, func(v interface{}) {
				coreCh <- sendToSeat{Room: r.id, Seat: i, Body: v}
			})
			r.net[i] = nc
			ctrls[i] = nc
		} else {
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(i)))
			ctrls[i] = game.NewAIController(rng, 300*time.Millisecond)
		}
	}

	g, err := game.New(game.Config{
		Seats:       r.seatCount,
		Controllers: ctrls,
		Riders:      r.riders,
		Seed:        time.Now().UnixNano(),
		Logger:      r.log,
		Listener:    roomListener{room: r.id, coreCh: coreCh},
	})
	if err != nil {
		return err
	}

	gctx, cancel := context.WithCancel(ctx)
	r.g = g
	r.cancel = cancel
	r.started = true

	go func() {
		err := g.Run(gctx)
		coreCh <- gameOverMsg{Room: r.id, Err: err}
	}()

	return nil
}

func (r *room) stop() {
	if r.cancel != nil {
		r.cancel()
	}
}

// roomListener runs on the engine goroutine. It snapshots everything it
// needs synchronously and posts the results to the core, which owns all
// client bookkeeping.
type roomListener struct {
	room   string
	coreCh chan<- interface{}
}

func (l roomListener) StateChanged(g *game.Game) {
	l.coreCh <- broadcastStates{Room: l.room, Views: stateViews(g)}
}

func (l roomListener) LogLine(line string, important bool, visibleTo []int, hidden string) {
	l.coreCh <- broadcastLog{
		Room:      l.room,
		Line:      line,
		Important: important,
		VisibleTo: visibleTo,
		Hidden:    hidden,
	}
}

func (l roomListener) StatusFinal(seat int, rider bool, status game.Status) {
	l.coreCh <- broadcastFinal{
		Room:   l.room,
		Update: FinalUpdate{Seat: seat, Rider: rider, Status: status},
	}
}
