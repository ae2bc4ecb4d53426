// Package fetch downloads catalog listing pages and parses them with goquery.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds one page download.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies catalog sync requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; PathwayAgent/1.0; +catalog-sync)"

// DefaultMaxBytes caps a page body. Catalog listing pages are well under this.
const DefaultMaxBytes = 5 << 20

// ErrTooLarge is returned when a page exceeds Options.MaxBytes.
var ErrTooLarge = errors.New("page exceeds size limit")

// Result is one downloaded page.
type Result struct {
	// URL is the final URL after redirects.
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error describes a failed page download.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures page downloads. HTTPClient, when set, is used as is and
// Timeout is ignored.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	MaxBytes   int64
	HTTPClient *http.Client
}

// DefaultOptions returns the options used by catalog sync.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

func (o *Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: o.Timeout}
}

// URL downloads a page. Non-200 responses return the Result together with an
// error so callers can inspect the status. Binary content types are rejected.
func URL(ctx context.Context, rawURL string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	fail := func(msg string, cause error) *Error {
		return &Error{URL: rawURL, Message: msg, Cause: cause}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fail("invalid URL", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fail("failed to create request", err)
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, fail("HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	result := &Result{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, fail(fmt.Sprintf("HTTP status %d", resp.StatusCode), nil)
	}
	if isBinary(result.ContentType) {
		return result, fail(fmt.Sprintf("unexpected content type %q", result.ContentType), nil)
	}

	limit := opts.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fail("failed to read response body", err)
	}
	if int64(len(body)) > limit {
		return result, fail(fmt.Sprintf("body larger than %d bytes", limit), ErrTooLarge)
	}
	result.HTML = string(body)

	return result, nil
}

func isBinary(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, prefix := range []string{"image/", "audio/", "video/", "application/pdf", "application/zip", "application/octet-stream"} {
		if strings.HasPrefix(ct, prefix) {
			return true
		}
	}
	return false
}

// Document parses the page into a goquery document.
func (r *Result) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(r.HTML))
	if err != nil {
		return nil, &Error{URL: r.URL, Message: "failed to parse HTML", Cause: err}
	}
	return doc, nil
}

// siteChrome is removed before looking for the listing area.
const siteChrome = "nav, footer, header, script, style, noscript, .sidebar, .cookie-banner, .popup, .breadcrumb"

// MainContent strips site chrome and noiseSelectors from doc, then returns the
// first element matching contentSelectors, or body when none match.
func MainContent(doc *goquery.Document, contentSelectors []string, noiseSelectors ...string) *goquery.Selection {
	doc.Find(siteChrome).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First()
		}
	}
	return doc.Find("body")
}

// CatalogSelectors returns selectors for the program listing area of a catalog page,
// most specific first.
func CatalogSelectors() []string {
	return []string{"main", "#content", ".content", "article"}
}
