// Package playback drives the media player for a resolved stream source and
// reports playback positions upward while the player runs.
//
// The player's time API is not an event source, so positions are sampled by
// polling its IPC socket on a fixed interval. The bridge persists nothing
// itself; the caller receives positions through the OnPosition callback.
package playback

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"baggedflix/internal/stream"
)

// pollInterval is how often the player is asked for its current position.
const pollInterval = 5 * time.Second

// Options configure one playback session.
type Options struct {
	Title      string
	StartPos   float64        // seconds
	SubFile    string         // local caption file, optional
	OnPosition func(seconds float64)
}

// Session launches the player for stream sources.
type Session struct {
	player string
	log    zerolog.Logger
}

// New creates a session for the given player binary.
func New(player string, log zerolog.Logger) *Session {
	return &Session{player: player, log: log}
}

// Available checks if the player binary exists in PATH.
func (s *Session) Available() bool {
	_, err := exec.LookPath(s.player)
	return err == nil
}

// Play runs the player until it exits and returns the last observed playback
// position. All session resources (playlist temp file, IPC socket dir,
// polling timer) are released before Play returns; cancelling ctx stops the
// polling and the player.
func (s *Session) Play(ctx context.Context, src *stream.Source, opts Options) (float64, error) {
	target, cleanup, err := materialize(src)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	// Randomized IPC socket path, per-session.
	socketDir, err := os.MkdirTemp("", "baggedflix-mpv-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir for player socket: %w", err)
	}
	defer os.RemoveAll(socketDir)
	socketPath := filepath.Join(socketDir, "socket")

	cmd := exec.CommandContext(ctx, s.player, buildArgs(target, socketPath, opts)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting %s: %w", s.player, err)
	}

	poller := newPoller(socketPath, opts.OnPosition, s.log)
	go poller.run(ctx)

	err = cmd.Wait()
	lastPos := poller.stop()

	if err != nil {
		// The player returns non-zero on user quit, which is normal.
		if _, ok := err.(*exec.ExitError); ok {
			return lastPos, nil
		}
		return lastPos, fmt.Errorf("running %s: %w", s.player, err)
	}
	return lastPos, nil
}

// buildArgs assembles the player command line for one session.
func buildArgs(target, socketPath string, opts Options) []string {
	args := []string{
		target,
		"--force-media-title=" + opts.Title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
	}
	if opts.StartPos > 0 {
		args = append(args, fmt.Sprintf("--start=+%.0f", opts.StartPos))
	}
	if opts.SubFile != "" {
		args = append(args, "--sub-file="+opts.SubFile)
	}
	return args
}

// poller samples the player's time-pos property over its IPC socket.
type poller struct {
	socketPath string
	onPosition func(float64)
	log        zerolog.Logger
	done       chan struct{}
	lastPos    chan float64
}

func newPoller(socketPath string, onPosition func(float64), log zerolog.Logger) *poller {
	return &poller{
		socketPath: socketPath,
		onPosition: onPosition,
		log:        log,
		done:       make(chan struct{}),
		lastPos:    make(chan float64, 1),
	}
}

// stop cancels polling and returns the last observed position.
func (p *poller) stop() float64 {
	close(p.done)
	select {
	case pos := <-p.lastPos:
		return pos
	case <-time.After(time.Second):
		return 0
	}
}

// run polls until stopped or the context is cancelled.
func (p *poller) run(ctx context.Context) {
	var last float64
	defer func() { p.lastPos <- last }()

	conn := p.dial()
	if conn == nil {
		<-p.done
		return
	}
	defer conn.Close()

	reader := bufio.NewScanner(conn)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-ticker.C:
			pos, ok := p.query(conn, reader)
			if !ok {
				return // player gone
			}
			if pos > 0 {
				last = pos
				if p.onPosition != nil {
					p.onPosition(pos)
				}
			}
		}
	}
}

// dial waits for the player to create its socket, then connects.
func (p *poller) dial() net.Conn {
	for i := 0; i < 50; i++ {
		select {
		case <-p.done:
			return nil
		default:
		}
		if _, err := os.Stat(p.socketPath); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	conn, err := net.Dial("unix", p.socketPath)
	if err != nil {
		p.log.Debug().Err(err).Msg("player socket unavailable, position tracking disabled")
		return nil
	}
	return conn
}

// query asks for time-pos and reads until the matching response, skipping
// interleaved player events.
func (p *poller) query(conn net.Conn, reader *bufio.Scanner) (float64, bool) {
	req := map[string]interface{}{
		"command":    []interface{}{"get_property", "time-pos"},
		"request_id": 1,
	}
	data, _ := json.Marshal(req)
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return 0, false
	}

	for reader.Scan() {
		var resp struct {
			RequestID int     `json:"request_id"`
			Data      float64 `json:"data"`
			Error     string  `json:"error"`
		}
		if err := json.Unmarshal(reader.Bytes(), &resp); err != nil {
			continue
		}
		if resp.RequestID != 1 {
			continue // unrelated event
		}
		if resp.Error != "success" {
			return 0, true // e.g. property unavailable while buffering
		}
		return resp.Data, true
	}
	return 0, false
}
