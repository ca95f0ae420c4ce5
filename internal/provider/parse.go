package provider

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"sakura/internal/httputil"
	"sakura/internal/media"
)

// vidPatterns extract the numeric series ID from an href, in priority
// order. artdetail pages are articles, not videos; they are filtered out
// before this runs but the pattern stays for completeness.
var vidPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/video/(\d+)\.html`),
	regexp.MustCompile(`/play-(\d+)-`),
	regexp.MustCompile(`/artdetail-(\d+)\.html`),
}

var (
	playShortRe = regexp.MustCompile(`/play-(\d+)-(\d+)\.html`)
	playLongRe  = regexp.MustCompile(`/play-(\d+)-(\d+)-(\d+)\.html`)
)

// extractVid pulls the numeric series ID out of an href, or "" when no
// known URL shape matches.
func extractVid(href string) string {
	for _, re := range vidPatterns {
		if m := re.FindStringSubmatch(href); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractEpParams parses a playback href into (vid, line, ep). The long
// shape /play-{vid}-{line}-{ep}.html wins over the short
// /play-{vid}-{ep}.html shape; zeros mean the component was absent.
func extractEpParams(href string) (vid string, line, ep int) {
	if m := playLongRe.FindStringSubmatch(href); m != nil {
		line, _ = strconv.Atoi(m[2])
		ep, _ = strconv.Atoi(m[3])
		return m[1], line, ep
	}
	if m := playShortRe.FindStringSubmatch(href); m != nil {
		ep, _ = strconv.Atoi(m[2])
		return m[1], 0, ep
	}
	return "", 0, 0
}

// parseSearchResults extracts search results from a results page. The
// structured result list is preferred; when the page doesn't carry one,
// bare detail links are harvested instead. Article (artdetail) links are
// skipped in every strategy.
func parseSearchResults(doc *goquery.Document, base string) []media.SearchResult {
	var results []media.SearchResult

	doc.Find(".myui-vodlist__media li").Each(func(_ int, s *goquery.Selection) {
		if r, ok := extractSearchItem(s, base); ok {
			results = append(results, r)
		}
	})

	if len(results) == 0 {
		doc.Find(`a[href*="/video/"]`).Each(func(_ int, s *goquery.Selection) {
			if r, ok := extractLinkResult(s, base); ok {
				results = append(results, r)
			}
		})
	}
	if len(results) == 0 {
		doc.Find(`a[href*="detail"]`).Each(func(_ int, s *goquery.Selection) {
			if r, ok := extractLinkResult(s, base); ok {
				results = append(results, r)
			}
		})
	}

	return lo.UniqBy(results, func(r media.SearchResult) string { return r.ID })
}

func extractSearchItem(item *goquery.Selection, base string) (media.SearchResult, bool) {
	link := item.Find(`a[href*="/video/"]`).First()
	if link.Length() == 0 {
		link = item.Find(".detail .title a").First()
	}
	if link.Length() == 0 {
		return media.SearchResult{}, false
	}

	href := link.AttrOr("href", "")
	if strings.Contains(href, "artdetail") {
		return media.SearchResult{}, false
	}

	title := strings.TrimSpace(item.Find(".detail .title a").First().Text())
	if title == "" {
		title = strings.TrimSpace(item.Find(".title").First().Text())
	}
	if title == "" {
		title = link.AttrOr("title", "")
	}

	var cover string
	if img := item.Find("img").First(); img.Length() > 0 {
		cover = img.AttrOr("data-original", "")
		if cover == "" {
			cover = img.AttrOr("src", "")
		}
	} else if thumb := item.Find("a.myui-vodlist__thumb").First(); thumb.Length() > 0 {
		cover = thumb.AttrOr("data-original", "")
	}

	vid := extractVid(href)
	if vid == "" {
		return media.SearchResult{}, false
	}

	return media.SearchResult{
		ID:    vid,
		Title: title,
		URL:   httputil.NormalizeURL(base, href),
		Cover: cover,
	}, true
}

func extractLinkResult(link *goquery.Selection, base string) (media.SearchResult, bool) {
	href := link.AttrOr("href", "")
	if href == "" || strings.Contains(href, "artdetail") {
		return media.SearchResult{}, false
	}
	// Only video-shaped links; the generic detail selector also matches
	// article and help pages.
	if !isVideoHref(href) {
		return media.SearchResult{}, false
	}

	vid := extractVid(href)
	if vid == "" {
		return media.SearchResult{}, false
	}

	title := link.AttrOr("title", "")
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}

	return media.SearchResult{
		ID:    vid,
		Title: title,
		URL:   httputil.NormalizeURL(base, href),
	}, true
}

// videoHrefMarkers distinguish video pages from article and help pages
// matched by the generic detail selector.
var videoHrefMarkers = []string{"voddetail", "play", "video", "vod"}

func isVideoHref(href string) bool {
	for _, marker := range videoHrefMarkers {
		if strings.Contains(href, marker) {
			return true
		}
	}
	return false
}

// parseDetail extracts series metadata from a /video/{id}.html page.
func parseDetail(doc *goquery.Document, base string) *media.Detail {
	detail := &media.Detail{}

	detail.Title = strings.TrimSpace(doc.Find("h1.title").First().Text())

	if img := doc.Find("img.lazyload").First(); img.Length() > 0 {
		cover := img.AttrOr("data-original", "")
		if cover == "" {
			cover = img.AttrOr("src", "")
		}
		if cover != "" {
			detail.Cover = httputil.NormalizeURL(base, cover)
		}
	}

	detail.Intro = strings.TrimSpace(doc.Find("span.sketch").First().Text())

	// Each labeled field lives in a p.data row; a row can carry several
	// labels, so every field is matched independently.
	doc.Find("p.data").Each(func(_ int, p *goquery.Selection) {
		text := p.Text()

		if detail.Alias == "" && strings.Contains(text, "别名：") {
			detail.Alias = strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(text), "别名：", ""))
		}
		if len(detail.Tags) == 0 && strings.Contains(text, "分类：") {
			p.Find("a").Each(func(_ int, a *goquery.Selection) {
				if tag := strings.TrimSpace(a.Text()); tag != "" {
					detail.Tags = append(detail.Tags, tag)
				}
			})
		}
		if detail.Area == "" && strings.Contains(text, "地区：") {
			detail.Area = strings.TrimSpace(p.Find("a").First().Text())
		}
		if detail.Year == "" && strings.Contains(text, "年份：") {
			detail.Year = strings.TrimSpace(p.Find("a").First().Text())
		}
		if detail.Updated == "" && strings.Contains(text, "更新：") {
			detail.Updated = strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(text), "更新：", ""))
		}
	})

	return detail
}

// parseEpisodeList extracts the playback lines and their episodes from a
// /video/{id}.html page. Each .tab-pane under .tab-content is one line;
// its display name comes from the matching tab link, or a generated
// 线路N fallback when the page has no tab navigation.
func parseEpisodeList(doc *goquery.Document, base string) *media.EpisodeList {
	list := &media.EpisodeList{}

	list.Title = strings.TrimSpace(doc.Find(".title").First().Text())
	if list.Title == "" {
		list.Title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find(".tab-content .tab-pane").Each(func(idx int, pane *goquery.Selection) {
		paneID := pane.AttrOr("id", "")
		if paneID == "" {
			return
		}

		name := strings.TrimSpace(doc.Find(`li a[href="#` + paneID + `"]`).First().Text())
		if name == "" {
			name = "线路" + strconv.Itoa(idx+1)
		}

		listUl := pane.Find(".myui-content__list").First()
		if listUl.Length() == 0 {
			return
		}

		var episodes []media.Episode
		listUl.Find("a").Each(func(epIdx int, a *goquery.Selection) {
			href := a.AttrOr("href", "")
			if href == "" {
				return
			}

			_, line, ep := extractEpParams(href)
			if line == 0 {
				line = lineFromPaneID(paneID, idx)
			}
			if line == 0 {
				line = idx + 1
			}
			if ep == 0 {
				ep = epIdx + 1
			}

			episodes = append(episodes, media.Episode{
				Index: epIdx + 1,
				Name:  strings.TrimSpace(a.Text()),
				URL:   httputil.NormalizeURL(base, href),
				Line:  line,
				Ep:    ep,
			})
		})

		if len(episodes) > 0 {
			list.Lines = append(list.Lines, media.Line{Name: name, Episodes: episodes})
		}
	})

	return list
}

// lineFromPaneID recovers the line number from pane IDs like "playlist4".
// Returns fallback's value semantics (0) when the ID has another shape.
func lineFromPaneID(paneID string, idx int) int {
	if !strings.HasPrefix(paneID, "playlist") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(paneID, "playlist"))
	if err != nil {
		return idx
	}
	return n
}
