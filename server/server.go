package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/greenhollow/fellowship/comms"
)

// Server hosts rooms and shuttles decisions between engines and clients.
type Server interface {
	Run(ctx context.Context) error
}

func NewServer(addr string) Server {
	return &server{
		addr:   addr,
		rooms:  map[string]*room{},
		coreCh: make(chan interface{}, 100),
	}
}

type server struct {
	addr   string
	rooms  map[string]*room
	coreCh chan interface{}
}

func (s *server) Run(ctx context.Context) error {
	log.Info().Msg("server running")
	defer log.Info().Msg("server stopping")

	grp, gctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		return runWebGateway(gctx, s, s.addr)
	})

	grp.Go(func() error {
		for {
			select {
			case in := <-s.coreCh:
				s.processMessage(gctx, in)
			case <-gctx.Done():
				for _, r := range s.rooms {
					r.stop()
				}
				return gctx.Err()
			}
		}
	})

	return grp.Wait()
}

// processMessage is the whole core: one goroutine, all room and client
// bookkeeping.
func (s *server) processMessage(ctx context.Context, in interface{}) {
	switch msg := in.(type) {
	case createRoomMsg:
		if _, exists := s.rooms[msg.ID]; exists {
			msg.Rep <- errors.New("room exists")
			return
		}
		if msg.Seats < 1 || msg.Seats > 4 {
			msg.Rep <- errors.New("need 1 to 4 seats")
			return
		}
		s.rooms[msg.ID] = &room{
			id:        msg.ID,
			seatCount: msg.Seats,
			riders:    msg.Riders,
			clients:   map[int]*clientBundle{},
			names:     map[int]string{},
			net:       map[int]*netController{},
			log:       log.With().Str("room", msg.ID).Logger(),
		}
		log.Info().Str("room", msg.ID).Msg("room created")
		msg.Rep <- nil

	case listRoomsMsg:
		list := []RoomInfo{}
		for _, r := range s.rooms {
			list = append(list, r.info())
		}
		msg.Rep <- list

	case queryRoomMsg:
		r, exists := s.rooms[msg.ID]
		if !exists {
			msg.Rep <- nil
			return
		}
		info := r.info()
		msg.Rep <- &info

	case deleteRoomMsg:
		r, exists := s.rooms[msg.ID]
		if !exists {
			msg.Rep <- errors.New("room not found")
			return
		}
		r.stop()
		delete(s.rooms, msg.ID)
		log.Info().Str("room", msg.ID).Msg("room deleted")
		msg.Rep <- nil

	case startRoomMsg:
		r, exists := s.rooms[msg.ID]
		if !exists {
			msg.Rep <- errors.New("room not found")
			return
		}
		msg.Rep <- r.start(ctx, s.coreCh)

	case connectMsg:
		s.handleConnect(msg)

	case disconnectMsg:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		r.log.Info().Msgf("seat %d client gone", msg.Seat)
		delete(r.clients, msg.Seat)

	case responseFromUser:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		nc, ok := r.net[msg.Seat]
		if !ok || !nc.Resolve(msg.ID, msg.Choice) {
			// late, duplicate or junk; expected under retransmission
			r.log.Info().Msgf("ignoring stale response %s from seat %d", msg.ID, msg.Seat)
		}

	case textFromUser:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		line := fmt.Sprintf("%s says %s", r.names[msg.Seat], msg.Text)
		s.deliverAll(r, "log", LogUpdate{Line: line})

	case sendToSeat:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		s.deliver(r, msg.Seat, "decision", msg.Body)

	case broadcastStates:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		r.lastViews = msg.Views
		for seat, view := range msg.Views {
			s.deliver(r, seat, "state", view)
		}

	case broadcastLog:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		for seat := 0; seat < r.seatCount; seat++ {
			line := msg.Line
			if msg.VisibleTo != nil && !containsInt(msg.VisibleTo, seat) {
				line = msg.Hidden
			}
			s.deliver(r, seat, "log", LogUpdate{Line: line, Important: msg.Important})
		}

	case broadcastFinal:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		s.deliverAll(r, "final", msg.Update)

	case gameOverMsg:
		r, ok := s.rooms[msg.Room]
		if !ok {
			return
		}
		r.finished = true
		if msg.Err != nil {
			r.log.Error().Err(msg.Err).Msg("game ended with error")
		} else {
			r.log.Info().Msg("game over")
		}

	default:
		log.Warn().Msgf("nonsense in core: %#v", in)
	}
}

func (s *server) handleConnect(msg connectMsg) {
	r, ok := s.rooms[msg.Room]
	if !ok {
		msg.Rep <- errors.New("room not found")
		return
	}
	if msg.Seat < 0 || msg.Seat >= r.seatCount {
		msg.Rep <- errors.New("no such seat")
		return
	}
	if name, claimed := r.names[msg.Seat]; claimed && name != msg.Name {
		msg.Rep <- errors.New("seat taken")
		return
	}

	r.clients[msg.Seat] = &msg.Client
	r.names[msg.Seat] = msg.Name
	msg.Rep <- nil

	r.log.Info().Msgf("%s sits at seat %d", msg.Name, msg.Seat)

	// resynchronize a reconnecting client: latest view, then every
	// still-outstanding decision, verbatim
	if r.lastViews != nil {
		s.deliver(r, msg.Seat, "state", r.lastViews[msg.Seat])
	}
	if nc, ok := r.net[msg.Seat]; ok {
		nc.Retransmit()
	}
}

func (s *server) deliver(r *room, seat int, head string, body interface{}) {
	c, ok := r.clients[seat]
	if !ok {
		return
	}
	msg, err := comms.Encode(head, body)
	if err != nil {
		r.log.Error().Err(err).Msg("encode error")
		return
	}
	select {
	case c.downCh <- msg:
	default:
		// client lagging
		r.log.Info().Msgf("seat %d client lagging", seat)
	}
}

func (s *server) deliverAll(r *room, head string, body interface{}) {
	for seat := 0; seat < r.seatCount; seat++ {
		s.deliver(r, seat, head, body)
	}
}

func containsInt(l []int, n int) bool {
	for _, x := range l {
		if x == n {
			return true
		}
	}
	return false
}
