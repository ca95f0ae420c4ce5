package extract

import "testing"

func TestResolvePlayerConfig(t *testing.T) {
	tests := []struct {
		name string
		html string
		want struct {
			url     string
			encrypt int
			from    string
		}
		ok bool
	}{
		{
			name: "player_aaaa with all fields",
			html: `<script>var player_aaaa = {"url":"aHR0cHM6Ly9leGFtcGxlLmNvbS92aWRlby5tM3U4","encrypt":2,"from":"mp4"};</script>`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"aHR0cHM6Ly9leGFtcGxlLmNvbS92aWRlby5tM3U4", 2, "mp4"},
			ok: true,
		},
		{
			name: "missing encrypt and from default",
			html: `var player_aaaa = {"url":"abc%2Fdef"}`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"abc%2Fdef", 0, "mp4"},
			ok: true,
		},
		{
			name: "encrypt as string coerced",
			html: `var player_aaaa = {"url":"abc","encrypt":"2","from":"ali"}`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"abc", 2, "ali"},
			ok: true,
		},
		{
			name: "unparseable encrypt defaults to 0",
			html: `var player_aaaa = {"url":"abc","encrypt":"x"}`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"abc", 0, "mp4"},
			ok: true,
		},
		{
			name: "player_aaaa without url falls through to next name",
			html: `var player_aaaa = {"encrypt":2};
				var MacPlayerConfig = {"url":"fallback-url"};`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"fallback-url", 0, "mp4"},
			ok: true,
		},
		{
			name: "generic config name",
			html: `var config = {"url":"from-config"}`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"from-config", 0, "mp4"},
			ok: true,
		},
		{
			name: "regex fallback on parse field",
			html: `<script>player.setup({parse: "https://danmu.yhdmjx.com/m3u8.php?url="});</script>`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"https://danmu.yhdmjx.com/m3u8.php?url=", 0, "mp4"},
			ok: true,
		},
		{
			name: "regex fallback on url field with m3u8",
			html: `<script>play({url: "https://cdn.example.com/a/index.m3u8"})</script>`,
			want: struct {
				url     string
				encrypt int
				from    string
			}{"https://cdn.example.com/a/index.m3u8", 0, "mp4"},
			ok: true,
		},
		{
			name: "nothing extractable",
			html: `<html><body>no player here</body></html>`,
			ok:   false,
		},
		{
			name: "parse field without m3u8 or php rejected",
			html: `<script>x({parse: "https://example.com/watch"})</script>`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, ok := ResolvePlayerConfig(tt.html)
			if ok != tt.ok {
				t.Fatalf("ResolvePlayerConfig() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if cfg.URL != tt.want.url {
				t.Errorf("URL = %q, want %q", cfg.URL, tt.want.url)
			}
			if cfg.Encrypt != tt.want.encrypt {
				t.Errorf("Encrypt = %d, want %d", cfg.Encrypt, tt.want.encrypt)
			}
			if cfg.From != tt.want.from {
				t.Errorf("From = %q, want %q", cfg.From, tt.want.from)
			}
		})
	}
}

func TestResolvePlayerConfigPriority(t *testing.T) {
	// player_aaaa must win even when later candidates are also present.
	html := `
		var config = {"url":"wrong"};
		var player_aaaa = {"url":"right","encrypt":2};
	`
	cfg, ok := ResolvePlayerConfig(html)
	if !ok {
		t.Fatal("ResolvePlayerConfig() failed")
	}
	if cfg.URL != "right" {
		t.Errorf("URL = %q, want %q", cfg.URL, "right")
	}
	if cfg.Encrypt != 2 {
		t.Errorf("Encrypt = %d, want 2", cfg.Encrypt)
	}
}
