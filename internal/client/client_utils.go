package client

import (
	"netpong/internal/netwrk"
)

func JoinMessage(name string) netwrk.Message {
	return netwrk.Message{Type: netwrk.TypeJoin, Data: netwrk.Join{PlayerName: name}}
}

func PaddleMoveMessage(goUp, goDown bool) netwrk.Message {
	return netwrk.Message{
		Type: netwrk.TypePaddleMove,
		Data: netwrk.PaddleMove{GoUp: netwrk.Bool(goUp), GoDown: netwrk.Bool(goDown)},
	}
}

func ReadyMessage() netwrk.Message {
	return netwrk.Message{Type: netwrk.TypeReady, Data: netwrk.Ready{}}
}

func RestartMessage() netwrk.Message {
	return netwrk.Message{Type: netwrk.TypeRestart, Data: netwrk.Restart{}}
}
