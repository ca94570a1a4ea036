package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"nhooyr.io/websocket"

	"github.com/greenhollow/fellowship/comms"
)

type WsJSONMessage struct {
	Head string          `json:"head"`
	Data json.RawMessage `json:"data"`
}

func runWebGateway(ctx context.Context, server *server, addr string) error {
	log := log.With().Str("gw", "web").Logger()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	log.Info().Msgf("web listening on http://%v", ln.Addr())

	rh := restHandler{
		server: server,
		log:    log,
	}

	ch := commsHandler{
		server: server,
		log:    log,
	}

	r := gin.Default()
	a := r.Group("/api")
	a.GET("/rooms", rh.getRooms)
	a.POST("/rooms", rh.makeRoom)
	a.GET("/rooms/:id", rh.getRoom)
	a.DELETE("/rooms/:id", rh.deleteRoom)
	a.POST("/rooms/:id/start", rh.startRoom)
	r.GET("/ws", ch.serveWS)

	s := &http.Server{
		Handler:     r,
		ReadTimeout: time.Second * 10,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		_ = s.Shutdown(sctx)
	}()

	err = s.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type restHandler struct {
	server *server
	log    zerolog.Logger
}

type makeRoomInput struct {
	ID     string   `json:"id"`
	Seats  int      `json:"seats"`
	Riders []string `json:"riders"`
}

func (rh *restHandler) getRooms(c *gin.Context) {
	rep := make(chan []RoomInfo)
	rh.server.coreCh <- listRoomsMsg{Rep: rep}
	c.JSON(http.StatusOK, <-rep)
}

func (rh *restHandler) makeRoom(c *gin.Context) {
	var in makeRoomInput
	if err := c.BindJSON(&in); err != nil {
		return
	}
	if in.ID == "" {
		c.String(http.StatusBadRequest, "missing id")
		return
	}

	rep := make(chan error)
	rh.server.coreCh <- createRoomMsg{ID: in.ID, Seats: in.Seats, Riders: in.Riders, Rep: rep}
	if err := <-rep; err != nil {
		rh.log.Error().Err(err).Msg("create room error")
		c.String(http.StatusInternalServerError, "error: %v", err)
		return
	}

	c.String(http.StatusOK, "ok: %s", in.ID)
}

func (rh *restHandler) getRoom(c *gin.Context) {
	id := c.Param("id")

	rep := make(chan *RoomInfo)
	rh.server.coreCh <- queryRoomMsg{ID: id, Rep: rep}
	res := <-rep
	if res == nil {
		c.JSON(http.StatusNotFound, nil)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (rh *restHandler) deleteRoom(c *gin.Context) {
	id := c.Param("id")

	rep := make(chan error)
	rh.server.coreCh <- deleteRoomMsg{ID: id, Rep: rep}
	if err := <-rep; err != nil {
		c.String(http.StatusNotFound, "error: %v", err)
		return
	}

	c.String(http.StatusOK, "ok: %s", id)
}

func (rh *restHandler) startRoom(c *gin.Context) {
	id := c.Param("id")

	rep := make(chan error)
	rh.server.coreCh <- startRoomMsg{ID: id, Rep: rep}
	if err := <-rep; err != nil {
		rh.log.Error().Err(err).Msg("start room error")
		c.String(http.StatusInternalServerError, "error: %v", err)
		return
	}

	c.String(http.StatusOK, "ok: %s", id)
}

type commsHandler struct {
	server *server
	log    zerolog.Logger
}

func (ch *commsHandler) serveWS(c *gin.Context) {
	addr := c.Request.RemoteAddr

	log := ch.log.With().Str("client", addr).Logger()
	log.Info().Msgf("connecting")

	roomId := c.Query("room")
	name := c.Query("name")
	seat, err := strconv.Atoi(c.Query("seat"))
	if roomId == "" || name == "" || err != nil {
		c.String(http.StatusBadRequest, "missing params")
		return
	}

	server := ch.server

	socket, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		Subprotocols: []string{"comms"},
	})
	if err != nil {
		log.Info().Err(err).Msg("websocket accept error")
		return
	}
	defer socket.Close(websocket.StatusInternalError, "the sky is falling")

	if socket.Subprotocol() != "comms" {
		socket.Close(websocket.StatusPolicyViolation, "client must speak the comms subprotocol")
		return
	}

	downCh := make(chan interface{}, 100)

	rep := make(chan error)
	server.coreCh <- connectMsg{Room: roomId, Seat: seat, Name: name, Client: clientBundle{downCh}, Rep: rep}
	if err := <-rep; err != nil {
		log.Info().Msgf("refusing: %s", addr)
		msg, _ := comms.Encode("connected", comms.ConnectResponse{Err: comms.WrapError(err)})
		sendDownWs(socket, msg)
		socket.Close(websocket.StatusNormalClosure, "cannot connect")
		return
	}

	msg, _ := comms.Encode("connected", comms.ConnectResponse{Seat: seat})
	sendDownWs(socket, msg)

	go func() {
		// read downCh, write to conn
		for down := range downCh {
			msg, ok := down.(comms.Message)
			if !ok {
				log.Info().Msgf("junk down: %#v", down)
				continue
			}
			if err := sendDownWs(socket, msg); err != nil {
				log.Info().Err(err).Msg("send error")
				break
			}
		}
	}()

	for {
		// read conn, despatch into server
		msg, err := readMessageWs(socket)
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			server.coreCh <- disconnectMsg{Room: roomId, Seat: seat}
			return
		}
		if err != nil {
			log.Info().Err(err).Msgf("client read error: %v", addr)
			server.coreCh <- disconnectMsg{Room: roomId, Seat: seat}
			return
		}

		f := msg.Head.Fields()
		switch f[0] {
		case "text":
			var text string
			if err := comms.Decode(msg, &text); err != nil {
				log.Info().Err(err).Msg("decode text error")
				continue
			}
			server.coreCh <- textFromUser{Room: roomId, Seat: seat, Text: text}
		case "response":
			var res DecisionResponse
			if err := comms.Decode(msg, &res); err != nil {
				log.Info().Err(err).Msg("decode response error")
				continue
			}
			server.coreCh <- responseFromUser{Room: roomId, Seat: seat, ID: res.ID, Choice: res.Choice}
		default:
			log.Info().Msgf("junk from client: %v", f)
		}
	}
}

func sendDownWs(ws *websocket.Conn, msg comms.Message) error {
	w, err := ws.Writer(context.TODO(), websocket.MessageText)
	if err != nil {
		return err
	}
	defer w.Close()

	jmsg := WsJSONMessage{
		Head: string(msg.Head),
		Data: msg.Data,
	}

	tmsg, _ := json.Marshal(jmsg)

	_, err = w.Write(tmsg)
	if err != nil {
		return err
	}

	return w.Close()
}

func readMessageWs(c *websocket.Conn) (comms.Message, error) {
	typ, r, err := c.Reader(context.TODO())
	if err != nil {
		return comms.Message{}, err
	}

	if typ != websocket.MessageText {
		return comms.Message{}, errors.New("client sent a binary message")
	}

	bytes, err := io.ReadAll(r)
	if err != nil {
		return comms.Message{}, err
	}
	msg := WsJSONMessage{}
	if err := json.Unmarshal(bytes, &msg); err != nil {
		return comms.Message{}, err
	}

	return comms.Message{Head: comms.Head(msg.Head), Data: msg.Data}, nil
}
