package player

import (
	"fmt"
	"os"
	"os/exec"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

// Play launches VLC. VLC doesn't have IPC position tracking like mpv,
// so we return 0 for position.
func (v *VLC) Play(streamURL, title, referer string, startPos float64) (float64, error) {
	args := []string{
		streamURL,
		"--meta-title", title,
		"--play-and-exit",
	}

	if referer != "" {
		args = append(args, "--http-referrer", referer)
	}
	if startPos > 0 {
		args = append(args, fmt.Sprintf("--start-time=%.0f", startPos))
	}

	cmd := exec.Command("vlc", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			_ = exitErr // VLC exits non-zero on user close
			return 0, nil
		}
		return 0, fmt.Errorf("running vlc: %w", err)
	}

	return 0, nil
}
