package provider

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const testBase = "https://www.dm569.com"

func loadTestDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parsing test fixture %s: %v", filename, err)
	}
	return doc
}

func TestParseSearchResults(t *testing.T) {
	doc := loadTestDoc(t, "search_results.html")
	results := parseSearchResults(doc, testBase)

	// Duplicate IDs collapse, the artdetail article is filtered out.
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	if results[0].ID != "33" {
		t.Errorf("result[0].ID = %q, want '33'", results[0].ID)
	}
	if results[0].Title != "海贼王" {
		t.Errorf("result[0].Title = %q, want '海贼王'", results[0].Title)
	}
	if results[0].URL != testBase+"/video/33.html" {
		t.Errorf("result[0].URL = %q", results[0].URL)
	}
	if results[0].Cover != "https://img.dm569.com/upload/vod/33.jpg" {
		t.Errorf("result[0].Cover = %q, want the data-original value", results[0].Cover)
	}

	if results[1].ID != "482" {
		t.Errorf("result[1].ID = %q, want '482'", results[1].ID)
	}
}

func TestParseSearchResultsLinkFallback(t *testing.T) {
	doc := loadTestDoc(t, "search_links.html")
	results := parseSearchResults(doc, testBase)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	if results[0].ID != "7021" || results[0].Title != "葬送的芙莉莲" {
		t.Errorf("result[0] = %+v", results[0])
	}
	if results[1].ID != "8455" {
		t.Errorf("result[1].ID = %q, want '8455'", results[1].ID)
	}
}

func TestParseDetail(t *testing.T) {
	doc := loadTestDoc(t, "series_page.html")
	detail := parseDetail(doc, testBase)

	if detail.Title != "海贼王" {
		t.Errorf("Title = %q", detail.Title)
	}
	if detail.Cover != testBase+"/upload/vod/33.jpg" {
		t.Errorf("Cover = %q, want normalized data-original", detail.Cover)
	}
	if !strings.Contains(detail.Intro, "航海王") {
		t.Errorf("Intro = %q", detail.Intro)
	}
	if detail.Alias != "航海王,One Piece" {
		t.Errorf("Alias = %q", detail.Alias)
	}
	if len(detail.Tags) != 3 || detail.Tags[0] != "搞笑" || detail.Tags[2] != "热血" {
		t.Errorf("Tags = %v", detail.Tags)
	}
	if detail.Area != "日本" {
		t.Errorf("Area = %q", detail.Area)
	}
	if detail.Year != "1999" {
		t.Errorf("Year = %q", detail.Year)
	}
	if detail.Updated != "2025-12-29" {
		t.Errorf("Updated = %q", detail.Updated)
	}
}

func TestParseEpisodeList(t *testing.T) {
	doc := loadTestDoc(t, "series_page.html")
	list := parseEpisodeList(doc, testBase)

	if list.Title != "海贼王" {
		t.Errorf("Title = %q", list.Title)
	}
	// The desc pane has no episode list and must not produce a line.
	if len(list.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(list.Lines))
	}

	main := list.Lines[0]
	if main.Name != "主线" {
		t.Errorf("line[0].Name = %q, want tab text", main.Name)
	}
	if len(main.Episodes) != 3 {
		t.Fatalf("line[0] has %d episodes, want 3", len(main.Episodes))
	}
	first := main.Episodes[0]
	if first.Name != "第01集" || first.Line != 1 || first.Ep != 1 {
		t.Errorf("episode[0] = %+v", first)
	}
	if first.URL != testBase+"/play-33-1-1.html" {
		t.Errorf("episode[0].URL = %q", first.URL)
	}

	// Second pane uses the short /play-{vid}-{ep}.html shape; the line
	// number comes from the pane ID instead.
	backup := list.Lines[1]
	if backup.Name != "备用线" {
		t.Errorf("line[1].Name = %q", backup.Name)
	}
	if len(backup.Episodes) != 2 {
		t.Fatalf("line[1] has %d episodes, want 2", len(backup.Episodes))
	}
	if backup.Episodes[0].Line != 4 {
		t.Errorf("line[1] episode line = %d, want 4 from pane ID", backup.Episodes[0].Line)
	}
	if backup.Episodes[0].Ep != 201 {
		t.Errorf("line[1] episode ep = %d, want 201", backup.Episodes[0].Ep)
	}
}

func TestExtractVid(t *testing.T) {
	tests := []struct {
		href string
		want string
	}{
		{"/video/33.html", "33"},
		{"https://www.dm569.com/video/482.html", "482"},
		{"/play-33-1-5.html", "33"},
		{"/artdetail-901.html", "901"},
		{"/about.html", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractVid(tt.href); got != tt.want {
			t.Errorf("extractVid(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestExtractEpParams(t *testing.T) {
	tests := []struct {
		href       string
		vid        string
		line, ep   int
	}{
		{"/play-33-1-5.html", "33", 1, 5},
		{"/play-33-201.html", "33", 0, 201},
		{"https://www.dm569.com/play-482-4-12.html", "482", 4, 12},
		{"/video/33.html", "", 0, 0},
	}
	for _, tt := range tests {
		vid, line, ep := extractEpParams(tt.href)
		if vid != tt.vid || line != tt.line || ep != tt.ep {
			t.Errorf("extractEpParams(%q) = (%q, %d, %d), want (%q, %d, %d)",
				tt.href, vid, line, ep, tt.vid, tt.line, tt.ep)
		}
	}
}
