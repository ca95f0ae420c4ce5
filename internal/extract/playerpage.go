package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// scriptSourceRes are applied to every script body, in order. The order
// encodes observed reliability: explicit playlist URLs beat mp4 URLs beat
// generic url/src fields, so the first accepted candidate is the best one.
var scriptSourceRes = []*regexp.Regexp{
	regexp.MustCompile(`(https?://[^\s"'<>]+\.m3u8[^\s"'<>]*)`),
	regexp.MustCompile(`"(https?://[^"]+\.m3u8[^"]*)"`),
	regexp.MustCompile(`'(https?://[^']+\.m3u8[^']*)'`),
	regexp.MustCompile(`(https?://[^\s"'<>]+\.mp4[^\s"'<>]*)`),
	regexp.MustCompile(`"(https?://[^"]+\.mp4[^"]*)"`),
	regexp.MustCompile(`'(https?://[^']+\.mp4[^']*)'`),
	regexp.MustCompile(`"url":\s*"([^"]+)"`),
	regexp.MustCompile(`'url':\s*'([^']+)'`),
	regexp.MustCompile(`url:\s*"([^"]+)"`),
	regexp.MustCompile(`url:\s*'([^']+)'`),
	regexp.MustCompile(`player_aaaa\s*=\s*"([^"]+)"`),
	regexp.MustCompile(`player_aaaa\s*=\s*'([^']+)'`),
	regexp.MustCompile(`src:\s*"([^"]+)"`),
	regexp.MustCompile(`src:\s*'([^']+)'`),
	regexp.MustCompile(`source:\s*"([^"]+)"`),
	regexp.MustCompile(`source:\s*'([^']+)'`),
}

// skipSchemes marks candidates that can never be media URLs.
var skipSchemes = []string{"javascript:", "data:", "blob:", "#"}

// acceptedContentTypes are the Content-Type prefixes/markers a HEAD probe
// must report for a candidate to be accepted on type alone.
var acceptedContentTypes = []string{
	"video/", "application/vnd.apple.mpegurl", "application/x-mpegurl", "text/plain",
}

// scrapePlayerPage digs a real media URL out of an intermediate HTML player
// page. Candidates are collected from script bodies (inline first, then
// external scripts fetched relative to the page), iframe src attributes,
// and video/source src attributes, in that order, then probed with HEAD
// requests. The first candidate answering 200 with a media Content-Type —
// or whose URL contains .m3u8 outright — wins. Probe failures move on to
// the next candidate. Returns ok=false when every candidate is rejected.
func (r *Resolver) scrapePlayerPage(html, pageURL string, hdr map[string]string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var candidates []string

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		body := s.Text()

		if src, ok := s.Attr("src"); ok && src != "" {
			scriptURL := src
			if !strings.HasPrefix(src, "http") {
				resolved, err := joinURL(pageURL, src)
				if err != nil {
					return
				}
				scriptURL = resolved
			}
			resp, err := r.client.Get(scriptURL, hdr)
			if err != nil {
				logrus.Debugf("external script fetch failed: %s: %v", scriptURL, err)
				return
			}
			body = resp.Body
		}

		if body == "" {
			return
		}

		for _, re := range scriptSourceRes {
			for _, m := range re.FindAllStringSubmatch(body, -1) {
				candidate := m[1]
				if candidate == "" || hasSkipScheme(candidate) {
					continue
				}
				candidates = append(candidates, candidate)
			}
		}
	})

	doc.Find("iframe").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			candidates = append(candidates, src)
		}
	})

	doc.Find("video").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			candidates = append(candidates, src)
		}
		s.Find("source").Each(func(_ int, src *goquery.Selection) {
			if v, ok := src.Attr("src"); ok && v != "" {
				candidates = append(candidates, v)
			}
		})
	})

	// Dedup preserving discovery order: the ordering is load-bearing.
	candidates = lo.Uniq(candidates)
	logrus.Debugf("player page scrape found %d candidate sources", len(candidates))

	for _, candidate := range candidates {
		probe := candidate
		if !strings.HasPrefix(probe, "http") {
			resolved, err := joinURL(pageURL, probe)
			if err != nil {
				continue
			}
			probe = resolved
		}

		resp, err := r.client.Head(probe, hdr)
		if err != nil {
			logrus.Debugf("candidate probe failed: %s: %v", probe, err)
			continue
		}
		if resp.StatusCode != 200 {
			continue
		}

		ct := strings.ToLower(resp.ContentType)
		if matchesContentType(ct) || strings.Contains(probe, ".m3u8") {
			return probe, true
		}
	}

	return "", false
}

func hasSkipScheme(s string) bool {
	lower := strings.ToLower(s)
	for _, scheme := range skipSchemes {
		if strings.Contains(lower, scheme) {
			return true
		}
	}
	return false
}

func matchesContentType(ct string) bool {
	for _, accepted := range acceptedContentTypes {
		if strings.Contains(ct, accepted) {
			return true
		}
	}
	return false
}

// joinURL resolves ref against base, like a browser resolving a relative
// script or media path.
func joinURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u, err := b.Parse(ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
