package player

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	defaultSampleInterval = 2 * time.Second
	ipcTimeout            = time.Second
)

// MPV plays files with mpv and reads positions over its JSON IPC socket.
// mpv keeps no on-disk resume state of its own, so while a spawned player
// runs, a goroutine samples the socket and the last matching observation
// survives the player's exit.
type MPV struct {
	binary    string
	extraArgs []string
	socket    string
	interval  time.Duration
	log       *slog.Logger

	mu   sync.Mutex
	last map[string]Resume
}

// NewMPV creates an mpv player.
func NewMPV(cfg Config, log *slog.Logger) *MPV {
	binary := cfg.Binary
	if binary == "" {
		binary = "mpv"
	}
	socket := cfg.MPVSocket
	if socket == "" {
		socket = defaultSocket()
	}
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = defaultSampleInterval
	}
	return &MPV{
		binary:    binary,
		extraArgs: cfg.ExtraArgs,
		socket:    socket,
		interval:  interval,
		log:       log,
		last:      make(map[string]Resume),
	}
}

func defaultSocket() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "m-mpv.sock")
	}
	return filepath.Join(os.TempDir(), "m-mpv.sock")
}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath(m.binary)
	return err == nil
}

func (m *MPV) Play(ctx context.Context, path string, start time.Duration) error {
	if _, err := exec.LookPath(m.binary); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, m.binary)
	}

	args := m.args(path, start)
	m.log.Debug("launching player", "binary", m.binary, "args", args)
	cmd := exec.CommandContext(ctx, m.binary, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrExit, err)
	}

	sampleCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.sample(sampleCtx, path)
	}()

	err := cmd.Wait()
	cancel()
	<-done
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExit, err)
	}
	return nil
}

func (m *MPV) args(path string, start time.Duration) []string {
	args := []string{"--input-ipc-server=" + m.socket}
	if start > 0 {
		args = append(args, fmt.Sprintf("--start=+%d", int64(start.Seconds())))
	}
	args = append(args, m.extraArgs...)
	return append(args, "--", path)
}

// sample polls the IPC socket until ctx is cancelled, keeping the last
// observation that matches path.
func (m *MPV) sample(ctx context.Context, path string) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if res, ok := m.query(path); ok {
			m.mu.Lock()
			m.last[path] = res
			m.mu.Unlock()
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Resume prefers a live reading, so it also works for players this process
// did not spawn. With the socket gone it falls back to the last sample
// taken during Play.
func (m *MPV) Resume(path string) (Resume, bool) {
	if res, ok := m.query(path); ok {
		return res, true
	}
	m.mu.Lock()
	res, ok := m.last[path]
	m.mu.Unlock()
	return res, ok
}

// query asks the running player for its current file and position.
func (m *MPV) query(path string) (Resume, bool) {
	conn, err := net.DialTimeout("unix", m.socket, ipcTimeout)
	if err != nil {
		return Resume{}, false
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(ipcTimeout))

	c := &ipcClient{enc: json.NewEncoder(conn), sc: bufio.NewScanner(conn)}

	current, ok := c.stringProperty("path")
	if !ok || current != path {
		return Resume{}, false
	}
	pos, ok := c.floatProperty("time-pos")
	if !ok {
		return Resume{}, false
	}
	dur, _ := c.floatProperty("duration") // unknown for streams and mid-load

	return sanitize(Resume{
		Position: time.Duration(pos * float64(time.Second)),
		Duration: time.Duration(dur * float64(time.Second)),
	})
}

// ipcClient speaks mpv's line-delimited JSON protocol. Responses are
// matched on request_id; unsolicited event lines are skipped.
type ipcClient struct {
	enc    *json.Encoder
	sc     *bufio.Scanner
	nextID int64
}

type ipcRequest struct {
	Command   []string `json:"command"`
	RequestID int64    `json:"request_id"`
}

type ipcResponse struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Event     string          `json:"event"`
	RequestID int64           `json:"request_id"`
}

func (c *ipcClient) property(name string) (json.RawMessage, bool) {
	c.nextID++
	id := c.nextID
	if err := c.enc.Encode(ipcRequest{Command: []string{"get_property", name}, RequestID: id}); err != nil {
		return nil, false
	}
	for c.sc.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(c.sc.Bytes(), &resp); err != nil {
			return nil, false
		}
		if resp.Event != "" || resp.RequestID != id {
			continue
		}
		if resp.Error != "success" {
			return nil, false
		}
		return resp.Data, true
	}
	return nil, false
}

func (c *ipcClient) stringProperty(name string) (string, bool) {
	data, ok := c.property(name)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}

func (c *ipcClient) floatProperty(name string) (float64, bool) {
	data, ok := c.property(name)
	if !ok {
		return 0, false
	}
	// mpv reports durations as floats but some properties come back as
	// integers or strings depending on version.
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
