package server

// messages into the server core

type createRoomMsg struct {
	ID     string
	Seats  int
	Riders []string
	Rep    chan error
}

type listRoomsMsg struct {
	Rep chan []RoomInfo
}

type queryRoomMsg struct {
	ID  string
	Rep chan *RoomInfo
}

type deleteRoomMsg struct {
	ID  string
	Rep chan error
}

type startRoomMsg struct {
	ID  string
	Rep chan error
}

type connectMsg struct {
	Room   string
	Seat   int
	Name   string
	Client clientBundle
	Rep    chan error
}

type disconnectMsg struct {
	Room string
	Seat int
}

type responseFromUser struct {
	Room   string
	Seat   int
	ID     string
	Choice int
}

type textFromUser struct {
	Room string
	Seat int
	Text string
}

// sendToSeat comes out of a network controller, which runs on the
// engine's goroutine and must not touch client maps itself.
type sendToSeat struct {
	Room string
	Seat int
	Body interface{}
}

// broadcastStates carries the per-seat snapshots built inside the
// engine's listener callback.
type broadcastStates struct {
	Room  string
	Views []StateView
}

type broadcastLog struct {
	Room      string
	Line      string
	Important bool
	VisibleTo []int
	Hidden    string
}

type broadcastFinal struct {
	Room   string
	Update FinalUpdate
}

type gameOverMsg struct {
	Room string
	Err  error
}

type clientBundle struct {
	downCh chan interface{}
}

// RoomInfo is the lobby summary of one room.
type RoomInfo struct {
	ID       string   `json:"id"`
	Seats    int      `json:"seats"`
	Claimed  []string `json:"claimed"`
	Started  bool     `json:"started"`
	Finished bool     `json:"finished"`
}
