package comms

import (
	"encoding/json"
	"strings"
)

// Head is the routing part of a message: colon-separated fields, e.g.
// "request:abc123:play".
type Head string

func (h Head) Fields() []string {
	return strings.Split(string(h), ":")
}

func (h Head) First() string {
	return h.Fields()[0]
}

func HeadOf(fields ...string) Head {
	return Head(strings.Join(fields, ":"))
}

// Message is one wire message: a head and a JSON body.
type Message struct {
	Head Head
	Data json.RawMessage
}

func Encode(head string, v interface{}) (Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Message{}, err
	}
	return Message{Head: Head(head), Data: data}, nil
}

func Decode(msg Message, v interface{}) error {
	return json.Unmarshal(msg.Data, v)
}

// CommsError carries an error code across the wire.
type CommsError struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *CommsError) Error() string {
	return e.Msg
}

type coded interface {
	ErrorCode() string
}

func WrapError(err error) *CommsError {
	if err == nil {
		return nil
	}
	if c, ok := err.(coded); ok {
		return &CommsError{Code: c.ErrorCode(), Msg: err.Error()}
	}
	return &CommsError{Code: "ERROR", Msg: err.Error()}
}

// ConnectResponse acknowledges a client attach.
type ConnectResponse struct {
	Seat int         `json:"seat"`
	Err  *CommsError `json:"error,omitempty"`
}
