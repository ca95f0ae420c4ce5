package provider

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"sakura/internal/httputil"
	"sakura/internal/media"
)

// DM569 implements the Provider interface for the dm569.com anime site.
type DM569 struct {
	base   string // e.g., "https://www.dm569.com"
	client *httputil.Client
}

// NewDM569 creates a new DM569 provider.
func NewDM569(base string, timeout time.Duration) *DM569 {
	return &DM569{
		base:   strings.TrimRight(base, "/"),
		client: httputil.NewClient(timeout),
	}
}

// BaseURL returns the site root, without a trailing slash.
func (d *DM569) BaseURL() string {
	return d.base
}

// searchPaths are the candidate search URL shapes, tried in order. The
// site has shipped several frontends; the first shape that returns a page
// mentioning the keyword wins.
var searchPaths = []string{
	"/search/-------------.html?wd=%s",
	"/search.php?wd=%s",
	"/search?q=%s",
	"/index.php/vod/search.html?wd=%s",
}

// Search returns matching results for a keyword, trying each known search
// URL shape until one yields results.
func (d *DM569) Search(keyword string) ([]media.SearchResult, error) {
	encoded := url.QueryEscape(keyword)

	for _, path := range searchPaths {
		searchURL := d.base + fmt.Sprintf(path, encoded)

		resp, err := d.client.Get(searchURL, nil)
		if err != nil {
			logrus.Debugf("search URL %s failed: %v", searchURL, err)
			continue
		}
		// A page that never mentions the keyword is a redirect to the
		// homepage or an empty shell; try the next shape.
		if !strings.Contains(resp.Body, keyword) {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
		if err != nil {
			continue
		}
		if results := parseSearchResults(doc, d.base); len(results) > 0 {
			return results, nil
		}
	}

	return nil, fmt.Errorf("no results found for %q", keyword)
}

// Detail returns detailed metadata for a series.
func (d *DM569) Detail(vid string) (*media.Detail, error) {
	doc, err := d.fetchSeriesPage(vid)
	if err != nil {
		return nil, fmt.Errorf("getting detail: %w", err)
	}

	detail := parseDetail(doc, d.base)
	detail.ID = vid
	return detail, nil
}

// Episodes returns the line/episode structure for a series.
func (d *DM569) Episodes(vid string) (*media.EpisodeList, error) {
	doc, err := d.fetchSeriesPage(vid)
	if err != nil {
		return nil, fmt.Errorf("getting episodes: %w", err)
	}

	list := parseEpisodeList(doc, d.base)
	if len(list.Lines) == 0 {
		return nil, fmt.Errorf("no playback lines for video %s", vid)
	}
	return list, nil
}

func (d *DM569) fetchSeriesPage(vid string) (*goquery.Document, error) {
	if err := httputil.ValidateVideoID(vid); err != nil {
		return nil, fmt.Errorf("invalid video ID: %w", err)
	}

	pageURL := fmt.Sprintf("%s/video/%s.html", d.base, vid)
	resp, err := d.client.Get(pageURL, nil)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
}
