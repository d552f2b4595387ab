package player

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serveIPC runs a fake mpv IPC endpoint on socket, answering get_property
// requests from props. It interleaves unsolicited event lines the way mpv
// does.
func serveIPC(t *testing.T, socket string, props map[string]any) {
	t.Helper()
	ln, err := net.Listen("unix", socket)
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveIPCConn(conn, props)
		}
	}()
}

func serveIPCConn(conn net.Conn, props map[string]any) {
	defer conn.Close()
	enc := json.NewEncoder(conn)
	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		var req struct {
			Command   []string `json:"command"`
			RequestID int64    `json:"request_id"`
		}
		if json.Unmarshal(sc.Bytes(), &req) != nil || len(req.Command) != 2 || req.Command[0] != "get_property" {
			return
		}
		_ = enc.Encode(map[string]any{"event": "property-change"})
		val, ok := props[req.Command[1]]
		if !ok {
			_ = enc.Encode(map[string]any{"error": "property unavailable", "request_id": req.RequestID})
			continue
		}
		_ = enc.Encode(map[string]any{"data": val, "error": "success", "request_id": req.RequestID})
	}
}
