package httputil

import (
	"strings"
	"testing"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"33", false},
		{"120584", false},
		{"", true},
		{"33a", true},
		{"../33", true},
		{"33; rm -rf /", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateVideoID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateVideoID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	base := "https://www.dm569.com"

	tests := []struct {
		href string
		want string
	}{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"http://other.com/x", "http://other.com/x"},
		{"/video/33.html", "https://www.dm569.com/video/33.html"},
		{"play/33-1-1.html", "https://www.dm569.com/play/33-1-1.html"},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got := NormalizeURL(base, tt.href)
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.href, got, tt.want)
			}
		})
	}
}

func TestCanonicalizeQuery(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"already canonical",
			"https://danmu.yhdmjx.com/m3u8.php?url=abc",
			"https://danmu.yhdmjx.com/m3u8.php?url=abc",
		},
		{
			"re-encodes reserved characters",
			"https://jx.example.com/?url=https://a.com/b c",
			"https://jx.example.com/?url=https%3A%2F%2Fa.com%2Fb+c",
		},
		{
			"no query",
			"https://example.com/index.m3u8",
			"https://example.com/index.m3u8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalizeQuery(tt.in)
			if got != tt.want {
				t.Errorf("CanonicalizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"海贼王 第01集", "海贼王 第01集"},
		{"a/b/c.mkv", "c.mkv"},
		{"..", "untitled"},
		{"", "untitled"},
		{"bad:name*?.mkv", "bad_name__.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SanitizeFilename(tt.in)
			if got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSafeDownloadPath(t *testing.T) {
	dir := t.TempDir()

	path, err := SafeDownloadPath(dir, "episode.mkv")
	if err != nil {
		t.Fatalf("SafeDownloadPath() error = %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("path %q escapes %q", path, dir)
	}

	// Traversal components must be neutralized, not honored.
	path, err = SafeDownloadPath(dir, "../../etc/passwd")
	if err != nil {
		t.Fatalf("SafeDownloadPath() error = %v", err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("traversal path %q escapes %q", path, dir)
	}
}
