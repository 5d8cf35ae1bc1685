package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"brandquiz/internal/model"
)

const (
	browserUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	maxParagraphs     = 20
	minParagraphChars = 30
	maxBodyBytes      = 2 << 20
)

// logoSelectors are tried in order; the first image with a src wins
var logoSelectors = []string{
	`img[class*="logo"]`,
	`img[id*="logo"]`,
	`img[alt*="logo"]`,
	`img[src*="logo"]`,
	`a[class*="logo"] img`,
	`div[class*="logo"] img`,
	`header img`,
	`.logo img`,
	`#logo img`,
}

// ScraperService fetches a company website and extracts text signals
type ScraperService struct {
	client *http.Client
}

// NewScraperService creates a scraper with the given fetch timeout
func NewScraperService(timeout time.Duration) *ScraperService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ScraperService{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NormalizeURL prepends https:// when the scheme is missing
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "https://" + raw
	}
	return raw
}

// Scrape fetches the page once and extracts title, description,
// headings, paragraphs and a logo URL.
func (s *ScraperService) Scrape(ctx context.Context, rawURL string) (*model.WebsiteData, error) {
	pageURL := NormalizeURL(rawURL)
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return nil, &model.ScrapeError{Kind: model.ScrapeFailed, URL: pageURL, Message: "invalid website URL", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &model.ScrapeError{Kind: model.ScrapeFailed, URL: pageURL, Message: "failed to create request", Err: err}
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classifyFetchError(pageURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &model.ScrapeError{Kind: model.ScrapeBlocked, URL: pageURL,
			Message: "access to this website is blocked; the site may have security measures preventing analysis"}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &model.ScrapeError{Kind: model.ScrapeNotFound, URL: pageURL,
			Message: "website not found; please check the URL"}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &model.ScrapeError{Kind: model.ScrapeFailed, URL: pageURL,
			Message: fmt.Sprintf("could not analyze the website: status %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.ScrapeError{Kind: model.ScrapeFailed, URL: pageURL, Message: "could not parse the website", Err: err}
	}

	// redirects change the base for relative links
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	data := Extract(doc, base)
	data.OriginalURL = pageURL
	log.Printf("[Scraper] %s: %d headings, %d paragraphs, logo=%t", pageURL, len(data.Headings), len(data.Paragraphs), data.LogoURL != nil)
	return data, nil
}

// Extract pulls the text signals and logo out of a parsed page
func Extract(doc *goquery.Document, base *url.URL) *model.WebsiteData {
	data := &model.WebsiteData{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")),
	}

	for _, tag := range []string{"h1", "h2"} {
		doc.Find(tag).Each(func(_ int, sel *goquery.Selection) {
			if text := collapseSpace(sel.Text()); text != "" {
				data.Headings = append(data.Headings, text)
			}
		})
	}

	doc.Find("p").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := collapseSpace(sel.Text())
		if len(text) > minParagraphChars {
			data.Paragraphs = append(data.Paragraphs, text)
		}
		return len(data.Paragraphs) < maxParagraphs
	})

	data.LogoURL = findLogo(doc, base)

	parts := make([]string, 0, 2+len(data.Headings)+len(data.Paragraphs))
	if data.Title != "" {
		parts = append(parts, data.Title)
	}
	if data.Description != "" {
		parts = append(parts, data.Description)
	}
	parts = append(parts, data.Headings...)
	parts = append(parts, data.Paragraphs...)
	data.Content = strings.Join(parts, " ")

	return data
}

func findLogo(doc *goquery.Document, base *url.URL) *string {
	for _, selector := range logoSelectors {
		src, ok := doc.Find(selector).First().Attr("src")
		src = strings.TrimSpace(src)
		if !ok || src == "" {
			continue
		}
		ref, err := url.Parse(src)
		if err != nil {
			continue
		}
		resolved := ref.String()
		if base != nil {
			resolved = base.ResolveReference(ref).String()
		}
		return &resolved
	}
	return nil
}

func classifyFetchError(pageURL string, err error) *model.ScrapeError {
	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded),
		errors.As(err, &dnsErr), errors.As(err, &opErr):
		return &model.ScrapeError{Kind: model.ScrapeUnreachable, URL: pageURL,
			Message: "could not connect to the website; please verify the URL is correct and the site is accessible", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &model.ScrapeError{Kind: model.ScrapeUnreachable, URL: pageURL,
			Message: "the website took too long to respond", Err: err}
	}
	return &model.ScrapeError{Kind: model.ScrapeFailed, URL: pageURL, Message: "could not analyze the website", Err: err}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
