package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const timelinePage = `<!DOCTYPE html>
<html><body><div class="timeline">
  <div class="timeline-item">
    <div class="pinned"><span>Pinned Tweet</span></div>
    <a class="tweet-link" href="/stoolpresidente/status/1000#m"></a>
    <div class="tweet-content media-body">$OLD pinned forever</div>
  </div>
  <div class="timeline-item">
    <a class="tweet-link" href="/stoolpresidente/status/1290000000000000105#m"></a>
    <div class="tweet-content media-body"><a href="/search?q=%24AMZN">$AMZN</a> to the moon</div>
  </div>
  <div class="timeline-item">
    <a class="tweet-link" href="/stoolpresidente/status/1290000000000000107#m"></a>
    <div class="tweet-content media-body">line one<br>$tsla line two</div>
  </div>
  <div class="timeline-item">
    <a class="tweet-link" href="/stoolpresidente/status/1290000000000000090#m"></a>
    <div class="tweet-content media-body">already seen $GME</div>
  </div>
</div></body></html>`

func TestTimelineScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stoolpresidente" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(timelinePage))
	}))
	defer srv.Close()

	s := NewScraper(srv.URL+"/", 5*time.Second)
	posts, err := s.Timeline(context.Background(), "stoolpresidente", 50, 1290000000000000100)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("got %d posts (%+v), want 2", len(posts), posts)
	}
	if posts[0].ID != 1290000000000000107 || posts[0].Text != "line one\n$tsla line two" {
		t.Errorf("posts[0] = %+v", posts[0])
	}
	if posts[1].ID != 1290000000000000105 || posts[1].Text != "$AMZN to the moon" {
		t.Errorf("posts[1] = %+v", posts[1])
	}

	// Repeated polls of the same page must work.
	if _, err := s.Timeline(context.Background(), "stoolpresidente", 1, 0); err != nil {
		t.Fatalf("second Timeline() error = %v", err)
	}
}

func TestTimelineScrapeCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timelinePage))
	}))
	defer srv.Close()

	posts, err := NewScraper(srv.URL, 5*time.Second).Timeline(context.Background(), "stoolpresidente", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].ID != 1290000000000000107 {
		t.Errorf("posts = %+v, want only the newest", posts)
	}
}

func TestTimelineScrapeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewScraper(srv.URL, 5*time.Second).Timeline(context.Background(), "stoolpresidente", 50, 0); err == nil {
		t.Fatal("expected error for 502 response")
	}
}

func TestStatusID(t *testing.T) {
	tests := []struct {
		href    string
		want    int64
		wantErr bool
	}{
		{"/user/status/123#m", 123, false},
		{"https://nitter.example/user/status/456", 456, false},
		{"/user/status/abc", 0, true},
		{"/user", 0, true},
	}
	for _, tt := range tests {
		got, err := statusID(tt.href)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("statusID(%q) = (%d, %v), want (%d, err=%v)", tt.href, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestTimelineScrapeSkipsBrokenItems(t *testing.T) {
	page := `<html><body>
  <div class="timeline-item"><div class="tweet-content">ad without a link</div></div>
  <div class="timeline-item">
    <a class="tweet-link" href="/stoolpresidente/status/notanumber"></a>
    <div class="tweet-content">$GME</div>
  </div>
  <div class="timeline-item">
    <a class="tweet-link" href="/stoolpresidente/status/1290000000000000105#m"></a>
    <div class="tweet-content">$AMZN to the moon</div>
  </div>
</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	posts, err := NewScraper(srv.URL, 5*time.Second).Timeline(context.Background(), "stoolpresidente", 50, 0)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if len(posts) != 1 || posts[0].ID != 1290000000000000105 {
		t.Errorf("posts = %+v, want only the parseable item", posts)
	}
}
