// Package player provides a secure interface for launching media players.
// All player invocations use exec.Command with explicit argument slices,
// so titles and URLs are never interpreted by a shell.
package player

// Player is the interface for media player implementations.
type Player interface {
	// Play starts playback of a stream URL. The referer is forwarded as
	// an HTTP header when the player supports it; some CDNs refuse
	// requests without it. Returns the last playback position.
	Play(streamURL, title, referer string, startPos float64) (float64, error)

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{} // Default to mpv
	}
}
