package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"sakura/internal/httputil"
	"sakura/internal/media"
)

// resolverEndpoints is the fixed fallback chain of third-party parse
// services. Order is priority: the first entry is the site's own resolver
// and must be tried first.
var resolverEndpoints = []string{
	"https://danmu.yhdmjx.com/m3u8.php?url=",
	"https://jx.ydm21.cn/m3u8.php?url=",
	"https://jx.xmflv.com/?url=",
	"https://www.ckplayer.vip/jiexi/?url=",
	"https://jx.m3u8.tv/jiexi/?url=",
}

// resolveErrorMarkers appear in a resolver's HTML body when it cannot
// handle the reference; their presence triggers the endpoint fallback loop.
var resolveErrorMarkers = []string{"解析不到该播放地址", "出现错误"}

// jsonURLKeys are the alternate field names scanned in a JSON resolver
// response, in priority order.
var jsonURLKeys = []string{"data", "link", "playUrl", "url_list", "m3u8"}

var (
	m3u8LinkRe        = regexp.MustCompile(`https?://[^\s"'<>]+\.m3u8[^\s"'<>]*`)
	getVideoInfoArgRe = regexp.MustCompile(`getVideoInfo\s*\(\s*["']([^"']+)["']`)
)

// Fetcher is the HTTP capability the resolver depends on.
// *httputil.Client satisfies it; tests substitute a scripted fake.
type Fetcher interface {
	Get(rawURL string, extra map[string]string) (*httputil.Response, error)
	Head(rawURL string, extra map[string]string) (*httputil.Response, error)
}

// EpisodeLister supplies the line/episode structure for a video ID.
type EpisodeLister interface {
	Episodes(vid string) (*media.EpisodeList, error)
}

// Resolver turns a (video ID, line index, episode index) selection into a
// playable stream URL, and optionally the playlist content itself.
type Resolver struct {
	client Fetcher
	lister EpisodeLister
	origin string // Origin header for resolver fetches, e.g. "https://www.dm569.com"
}

// NewResolver creates a Resolver over the given fetcher and episode source.
func NewResolver(client Fetcher, lister EpisodeLister, origin string) *Resolver {
	return &Resolver{client: client, lister: lister, origin: origin}
}

// Resolve runs the full pipeline: fetch the episode list, fetch the
// selected playback page, extract and decode the player config, construct
// the resolver URL, and — unless playOnly is set — fetch and classify the
// resolver response until a playlist is obtained or every fallback is
// exhausted. playOnly short-circuits right after URL construction,
// returning a URL suitable for handing to a player without touching the
// resolver endpoint.
//
// Resolve never returns an error; failures are reported in the Resolution
// with Success=false and a descriptive Err.
func (r *Resolver) Resolve(vid string, line, ep int, playOnly bool) media.Resolution {
	list, err := r.lister.Episodes(vid)
	if err != nil || list == nil || len(list.Lines) == 0 {
		return failure("no episode list")
	}

	if line < 0 || line >= len(list.Lines) {
		return failure("line index out of range")
	}
	episodes := list.Lines[line].Episodes
	if ep < 0 || ep >= len(episodes) {
		return failure("episode index out of range")
	}
	playURL := episodes[ep].URL
	logrus.Debugf("resolving line %d episode %d: %s", line, ep, playURL)

	page, err := r.client.Get(playURL, nil)
	if err != nil {
		return failure("fetching playback page: " + err.Error())
	}

	cfg, ok := ResolvePlayerConfig(page.Body)
	if !ok {
		return failure("no player config")
	}
	logrus.Debugf("player config: encrypt=%d from=%s", cfg.Encrypt, cfg.From)

	decoded := DecodeURL(cfg.URL, cfg.Encrypt)

	var streamURL string
	if strings.Contains(decoded, "m3u8.php") || strings.HasPrefix(decoded, "http") {
		// Already resolver-ready or final.
		streamURL = decoded
	} else {
		streamURL = resolverEndpoints[0] + url.QueryEscape(decoded)
	}
	streamURL = httputil.CanonicalizeQuery(streamURL)
	logrus.Debugf("stream URL: %s", streamURL)

	if playOnly {
		return media.Resolution{StreamURL: streamURL, Success: true}
	}

	hdr := map[string]string{"Referer": playURL, "Origin": r.origin}
	return r.fetchPlaylist(streamURL, decoded, hdr)
}

// fetchPlaylist fetches the constructed resolver URL and classifies the
// response. A network failure or an HTML error page moves on to the
// remaining endpoints; only exhausting all of them is terminal.
func (r *Resolver) fetchPlaylist(streamURL, decoded string, hdr map[string]string) media.Resolution {
	resp, err := r.client.Get(streamURL, hdr)
	if err != nil {
		logrus.Debugf("primary resolver fetch failed: %v", err)
		return r.fallbackEndpoints(decoded, hdr)
	}
	body := resp.Body

	if isHTMLPage(body) {
		if real, ok := r.scrapePlayerPage(body, streamURL, hdr); ok {
			if res, ok := r.fetchIfPlaylist(real, hdr); ok {
				return res
			}
		}
		if containsResolveError(body) {
			return r.fallbackEndpoints(decoded, hdr)
		}
		return failure("player page yielded no usable video source")
	}

	if res, ok := r.classifyBody(body, streamURL, hdr); ok {
		return res
	}

	res := failure("unrecognized resolver response: " + truncate(body, 200))
	res.StreamURL = streamURL
	res.Playlist = body
	return res
}

// fallbackEndpoints reconstructs the resolver URL from the same decoded
// value for each remaining endpoint, in fixed priority order, classifying
// each response the same way. As a last resort the decoded value itself is
// fetched directly when it is an absolute URL.
func (r *Resolver) fallbackEndpoints(decoded string, hdr map[string]string) media.Resolution {
	for _, base := range resolverEndpoints[1:] {
		altURL := httputil.CanonicalizeQuery(base + url.QueryEscape(decoded))
		logrus.Debugf("trying fallback resolver: %s", altURL)

		resp, err := r.client.Get(altURL, hdr)
		if err != nil {
			continue
		}
		body := resp.Body

		if isHTMLPage(body) {
			if real, ok := r.scrapePlayerPage(body, altURL, hdr); ok {
				if res, ok := r.fetchIfPlaylist(real, hdr); ok {
					return res
				}
			}
			continue
		}
		if strings.Contains(body, "#EXT") {
			return success(altURL, body)
		}
	}

	if strings.HasPrefix(decoded, "http") {
		logrus.Debugf("trying decoded URL directly: %s", decoded)
		if res, ok := r.fetchIfPlaylist(decoded, hdr); ok {
			return res
		}
	}

	return failure("all resolver endpoints exhausted")
}

// classifyBody handles the non-HTML response shapes: JSON payload, raw
// playlist text, or unrecognized text with an embedded playlist link.
func (r *Resolver) classifyBody(body, fetchedURL string, hdr map[string]string) (media.Resolution, bool) {
	trimmed := strings.TrimSpace(body)

	if strings.HasPrefix(trimmed, "{") {
		if res, ok := r.classifyJSON(trimmed, hdr); ok {
			return res, true
		}
	}

	if strings.HasPrefix(trimmed, "#EXT") {
		return success(fetchedURL, body), true
	}

	if link := m3u8LinkRe.FindString(body); link != "" {
		logrus.Debugf("embedded playlist link: %s", link)
		if resp, err := r.client.Get(link, hdr); err == nil {
			// Not re-validated for #EXT; some sources serve playlists
			// without the marker in the first bytes.
			return success(link, resp.Body), true
		}
	}

	return media.Resolution{}, false
}

// classifyJSON extracts a media URL from a JSON resolver payload. A url
// field carrying a getVideoInfo() call is decrypted first; otherwise the
// alternate field names are scanned for the first http URL.
func (r *Resolver) classifyJSON(body string, hdr map[string]string) (media.Resolution, bool) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return media.Resolution{}, false
	}

	if urlField, _ := payload["url"].(string); strings.Contains(urlField, "getVideoInfo(") {
		if m := getVideoInfoArgRe.FindStringSubmatch(urlField); m != nil {
			if decrypted, ok := DecryptVideoURL(m[1]); ok {
				logrus.Debugf("decrypted video URL: %s", decrypted)
				if res, ok := r.fetchIfPlaylist(decrypted, hdr); ok {
					return res, true
				}
			}
		}
	}

	for _, key := range jsonURLKeys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		var real string
		switch t := v.(type) {
		case string:
			real = t
		case []any:
			if len(t) > 0 {
				real, _ = t[0].(string)
			}
		}
		if real == "" || !strings.HasPrefix(real, "http") {
			continue
		}

		resp, err := r.client.Get(real, hdr)
		if err != nil {
			continue
		}
		// Accepted without a #EXT re-check, matching the upstream
		// resolver's contract for these fields.
		return success(real, resp.Body), true
	}

	return media.Resolution{}, false
}

// fetchIfPlaylist fetches u and accepts it only when the content carries a
// playlist marker.
func (r *Resolver) fetchIfPlaylist(u string, hdr map[string]string) (media.Resolution, bool) {
	resp, err := r.client.Get(u, hdr)
	if err != nil {
		return media.Resolution{}, false
	}
	if strings.Contains(resp.Body, "#EXT") {
		return success(u, resp.Body), true
	}
	return media.Resolution{}, false
}

func isHTMLPage(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype")
}

func containsResolveError(body string) bool {
	for _, marker := range resolveErrorMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

func success(streamURL, playlist string) media.Resolution {
	return media.Resolution{StreamURL: streamURL, Playlist: playlist, Success: true}
}

func failure(msg string) media.Resolution {
	return media.Resolution{Err: msg}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
