package extract

import (
	"regexp"
	"strconv"
	"strings"

	"sakura/internal/jsvar"
	"sakura/internal/media"
)

// playerVarNames is the ordered list of config variable names tried on a
// playback page. player_aaaa is the name the site actually uses; the rest
// cover older maccms player builds.
var playerVarNames = []string{
	"player_aaaa",
	"MacPlayerConfig",
	"MacPlayer",
	"player_config",
	"config",
}

// configFallbackRes are the permissive last-resort patterns applied to the
// raw HTML when no structured config variable parses. A match is accepted
// only if it mentions m3u8 or php.
var configFallbackRes = []*regexp.Regexp{
	regexp.MustCompile(`parse["']?\s*[:=]\s*["']([^"']*?)["']`),
	regexp.MustCompile(`url["']?\s*[:=]\s*["'](https?://[^"']*?m3u8[^"']*?)["']`),
}

// ResolvePlayerConfig extracts the player configuration from playback page
// HTML. Candidate variable names are tried in priority order; a candidate
// without a url field is skipped. When every structured extraction fails, a
// regex pass over the raw HTML is the final fallback. Returns ok=false only
// when nothing matched, which is terminal for the page.
func ResolvePlayerConfig(html string) (media.PlayerConfig, bool) {
	for _, name := range playerVarNames {
		m, ok := jsvar.Extract(html, name)
		if !ok {
			continue
		}

		rawURL, _ := m["url"].(string)
		if rawURL == "" {
			continue
		}

		cfg := media.PlayerConfig{URL: rawURL, Encrypt: 0, From: "mp4"}
		switch v := m["encrypt"].(type) {
		case float64:
			cfg.Encrypt = int(v)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				cfg.Encrypt = n
			}
		}
		if from, ok := m["from"].(string); ok && from != "" {
			cfg.From = from
		}
		return cfg, true
	}

	for _, re := range configFallbackRes {
		for _, match := range re.FindAllStringSubmatch(html, -1) {
			candidate := match[1]
			if strings.Contains(candidate, "m3u8") || strings.Contains(candidate, "php") {
				return media.PlayerConfig{URL: candidate, Encrypt: 0, From: "mp4"}, true
			}
		}
	}

	return media.PlayerConfig{}, false
}
