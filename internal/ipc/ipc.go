// Package ipc is the local control channel between voxbot-ctl and a running
// assistant: one JSON message per unix socket connection.
package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/voxbot.sock"

const (
	CmdStop = "stop"
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// StartServer listens on path and calls handler for every message. Close the
// returned listener to stop serving.
func StartServer(path string, handler func(ControlMessage)) (net.Listener, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if err != nil {
				slog.Warn("control socket accept failed", "err", err)
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return ln, nil
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		slog.Warn("bad control message", "err", err)
		return
	}
	handler(msg)
}

func SendCommand(path, cmd string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd})
}
