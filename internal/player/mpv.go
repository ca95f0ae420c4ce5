package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// MPV implements the Player interface for mpv.
// Uses exec.Command with explicit args (no shell interpretation)
// and IPC via Unix socket at a randomized temp path.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

// Play launches mpv and returns the final playback position.
func (m *MPV) Play(streamURL, title, referer string, startPos float64) (float64, error) {
	// Create randomized IPC socket path (prevents symlink attacks)
	socketDir, err := os.MkdirTemp("", "sakura-mpv-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp dir for mpv socket: %w", err)
	}
	defer os.RemoveAll(socketDir)

	socketPath := filepath.Join(socketDir, "socket")

	// Build args as explicit slice — each arg is separate, no shell interpretation
	args := []string{
		streamURL,
		"--force-media-title=" + title,
		"--input-ipc-server=" + socketPath,
		"--really-quiet",
	}

	if referer != "" {
		args = append(args, "--http-header-fields=Referer: "+referer)
	}
	if startPos > 0 {
		args = append(args, fmt.Sprintf("--start=+%.0f", startPos))
	}

	cmd := exec.Command("mpv", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("starting mpv: %w", err)
	}

	var lastPos float64
	go func() {
		lastPos = m.trackPosition(socketPath)
	}()

	if err := cmd.Wait(); err != nil {
		// mpv returns non-zero on user quit, which is normal
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 4 {
			return lastPos, nil
		}
	}

	return lastPos, nil
}

// trackPosition polls mpv's IPC socket for the current playback position.
func (m *MPV) trackPosition(socketPath string) float64 {
	var lastPos float64

	// Wait for socket to appear
	for i := 0; i < 50; i++ {
		if _, err := os.Stat(socketPath); err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return 0
	}
	defer conn.Close()

	scanner := bufio.NewScanner(conn)

	// Start observing time-pos property
	cmd := map[string]interface{}{
		"command":    []interface{}{"observe_property", 1, "time-pos"},
		"request_id": 100,
	}
	data, _ := json.Marshal(cmd)
	data = append(data, '\n')
	conn.Write(data)

	for scanner.Scan() {
		line := scanner.Text()
		var event struct {
			Event string  `json:"event"`
			Name  string  `json:"name"`
			Data  float64 `json:"data"`
		}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		if event.Name == "time-pos" && event.Data > 0 {
			lastPos = event.Data
		}
	}

	return lastPos
}
