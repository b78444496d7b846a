package netwrk

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// WebSocket subprotocols, one per codec.
const (
	SubprotocolJSON  = "pong.json"
	SubprotocolProto = "pong.proto"
)

// Codec turns messages into frames and back.
type Codec interface {
	Subprotocol() string
	// FrameType is the websocket message type used for encoded frames.
	FrameType() int
	Encode(Message) ([]byte, error)
	Decode([]byte) (Message, error)
}

// CodecFor returns the codec for a negotiated subprotocol. An empty or
// unknown subprotocol falls back to JSON.
func CodecFor(subprotocol string) Codec {
	if subprotocol == SubprotocolProto {
		return ProtoCodec{}
	}
	return JSONCodec{}
}

type JSONCodec struct{}

func (JSONCodec) Subprotocol() string { return SubprotocolJSON }

func (JSONCodec) FrameType() int { return websocket.TextMessage }

func (JSONCodec) Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func (JSONCodec) Decode(b []byte) (Message, error) {
	return Unmarshal(b)
}

// ProtoCodec carries the same envelope as a binary google.protobuf.Struct.
type ProtoCodec struct{}

func (ProtoCodec) Subprotocol() string { return SubprotocolProto }

func (ProtoCodec) FrameType() int { return websocket.BinaryMessage }

func (ProtoCodec) Encode(m Message) ([]byte, error) {
	js, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(js, &fields); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build struct: %w", err)
	}
	return proto.Marshal(s)
}

func (ProtoCodec) Decode(b []byte) (Message, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(b, s); err != nil {
		return Message{}, fmt.Errorf("decode proto envelope: %w", err)
	}
	js, err := json.Marshal(s.AsMap())
	if err != nil {
		return Message{}, err
	}
	return Unmarshal(js)
}
