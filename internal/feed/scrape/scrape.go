// Package scrape reads a public timeline from a Nitter-style HTML mirror.
// It needs no API credentials and serves as an alternate feed source.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"cashtag-trader/internal/interfaces"
	"cashtag-trader/internal/logger"
	"cashtag-trader/internal/types"
)

// Selectors locate timeline items on the mirror page.
type Selectors struct {
	Item    string
	Link    string
	Content string
	Pinned  string
}

// DefaultSelectors match Nitter's timeline markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Item:    "div.timeline-item",
		Link:    "a.tweet-link",
		Content: "div.tweet-content",
		Pinned:  "div.pinned",
	}
}

type Scraper struct {
	baseURL   string
	selectors Selectors
	timeout   time.Duration
	userAgent string
}

var _ interfaces.Feed = (*Scraper)(nil)

func NewScraper(baseURL string, timeout time.Duration) *Scraper {
	return &Scraper{
		baseURL:   strings.TrimRight(baseURL, "/"),
		selectors: DefaultSelectors(),
		timeout:   timeout,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Timeline scrapes account's page and returns up to count posts newer than sinceID,
// newest first. Pinned posts are ignored.
func (s *Scraper) Timeline(ctx context.Context, account string, count int, sinceID int64) ([]types.Post, error) {
	var posts []types.Post
	var skipped int

	// A fresh collector per call; colly refuses to revisit a URL otherwise.
	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.baseURL)),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.userAgent)
	})

	c.OnHTML(s.selectors.Item, func(e *colly.HTMLElement) {
		if e.DOM.Find(s.selectors.Pinned).Length() > 0 {
			return
		}
		id, err := statusID(e.ChildAttr(s.selectors.Link, "href"))
		if err != nil {
			logger.Warn(ctx, "Skipping timeline item without status link", "account", account, "error", err)
			skipped++
			return
		}
		if id <= sinceID {
			return
		}
		posts = append(posts, types.Post{
			ID:     id,
			Text:   contentText(e.DOM.Find(s.selectors.Content).First()),
			Author: account,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scraping error", "url", r.Request.URL.String(), "status", r.StatusCode, "error", err)
	})

	pageURL := s.baseURL + "/" + url.PathEscape(account)
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	if skipped > 0 {
		logger.Debug(ctx, "Timeline items skipped", "account", account, "skipped", skipped, "kept", len(posts))
	}

	types.SortNewestFirst(posts)
	if count > 0 && len(posts) > count {
		posts = posts[:count]
	}
	return posts, nil
}

// statusID pulls the numeric ID out of a link such as /user/status/1290000000000000105#m.
func statusID(href string) (int64, error) {
	u, err := url.Parse(href)
	if err != nil {
		return 0, fmt.Errorf("parse status link %q: %w", href, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+1 < len(parts); i++ {
		if parts[i] == "status" {
			id, err := strconv.ParseInt(parts[i+1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("parse status id in %q: %w", href, err)
			}
			return id, nil
		}
	}
	return 0, fmt.Errorf("no status id in link %q", href)
}

// contentText renders post markup as plain text, keeping line breaks.
func contentText(sel *goquery.Selection) string {
	sel.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(sel.Text())
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
