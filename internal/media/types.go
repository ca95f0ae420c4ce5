// Package media defines shared types for the sakura application.
package media

// SearchResult represents a single search result from the site.
type SearchResult struct {
	ID    string // Numeric video ID, e.g. "33"
	Title string // Display title
	URL   string // Full URL to the detail page
	Cover string // Cover image URL (may be empty)
}

// Detail holds the metadata scraped from a detail page.
type Detail struct {
	ID      string
	Title   string
	Cover   string
	Intro   string
	Alias   string
	Area    string
	Year    string
	Updated string
	Tags    []string
}

// Episode is one playable episode inside a line.
type Episode struct {
	Index int    // 1-based position within the line
	Name  string // Display name, e.g. "第01集"
	URL   string // Full playback page URL
	Line  int    // Line number parsed from the play URL
	Ep    int    // Episode number parsed from the play URL
}

// Line is one distribution route with its ordered episodes.
type Line struct {
	Name     string
	Episodes []Episode
}

// EpisodeList is the full line/episode structure of a detail page.
type EpisodeList struct {
	Title string
	Lines []Line
}

// PlayerConfig is the player configuration pulled out of a playback page.
// URL is still obfuscated at this point; Encrypt selects the decode chain.
type PlayerConfig struct {
	URL     string // Obfuscated media reference (key "url")
	Encrypt int    // Encryption type code (key "encrypt", default 0)
	From    string // Player/source identifier (key "from", default "mp4")
}

// Resolution is the final output of a stream resolution attempt.
// Callers must check Success before using StreamURL or Playlist;
// on failure the other fields may still hold partial diagnostic data.
type Resolution struct {
	StreamURL string // Resolver or direct playlist URL
	Playlist  string // Fetched playlist text (full resolution mode only)
	Success   bool
	Err       string // Human-readable diagnostic, set whenever Success is false
}

// HistoryEntry represents a single entry in the watch history.
type HistoryEntry struct {
	ID       string  // Video ID
	Title    string  // Display title
	Line     int     // Zero-based line index
	Episode  int     // Zero-based episode index
	Position float64 // Last playback position in seconds
}
