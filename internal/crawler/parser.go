package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/cases"
)

// Defaults for HTMLParser.
const (
	// DefaultUserAgent identifies the crawler in HTTP requests.
	DefaultUserAgent = "wordcrawl/1.0 (+https://github.com/nao1215/wordcrawl)"

	// DefaultMaxBodySize limits how much of a page is read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultRequestTimeout bounds a single page fetch.
	DefaultRequestTimeout = 15 * time.Second
)

// nonWordChars are stripped from every whitespace-separated token.
var nonWordChars = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// HTMLParser fetches pages over HTTP(S) or from file:// URLs and extracts
// their words and links. It is safe for concurrent use.
type HTMLParser struct {
	client       *http.Client
	userAgent    string
	maxBodySize  int64
	ignoredWords patternSet
	hostHeaders  map[string]http.Header
}

var _ PageParser = (*HTMLParser)(nil)

// ParserOption configures an HTMLParser.
type ParserOption func(*HTMLParser)

// WithHTTPClient sets the client used for http and https URLs.
func WithHTTPClient(client *http.Client) ParserOption {
	return func(p *HTMLParser) {
		p.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ParserOption {
	return func(p *HTMLParser) {
		p.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum number of bytes read from a page.
func WithMaxBodySize(size int64) ParserOption {
	return func(p *HTMLParser) {
		p.maxBodySize = size
	}
}

// WithIgnoredWords sets patterns for words that are never counted.
// A word is ignored only when a pattern matches all of it.
func WithIgnoredWords(patterns []*regexp.Regexp) ParserOption {
	return func(p *HTMLParser) {
		p.ignoredWords = newPatternSet(patterns)
	}
}

// WithHostHeaders sets extra request headers per lower-case host name.
func WithHostHeaders(headers map[string]http.Header) ParserOption {
	return func(p *HTMLParser) {
		p.hostHeaders = headers
	}
}

// NewHTMLParser creates an HTMLParser.
func NewHTMLParser(opts ...ParserOption) *HTMLParser {
	p := &HTMLParser{
		client:      &http.Client{Timeout: DefaultRequestTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse fetches the page at rawURL and returns its word counts and links.
func (p *HTMLParser) Parse(ctx context.Context, rawURL string) (ParseResult, error) {
	base, err := url.Parse(rawURL)
	if err != nil {
		return ParseResult{}, fmt.Errorf("invalid page URL: %w", err)
	}

	body, contentType, err := p.open(ctx, base)
	if err != nil {
		return ParseResult{}, err
	}
	defer body.Close()

	decoded, err := charset.NewReader(io.LimitReader(body, p.maxBodySize), contentType)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return ParseResult{}, fmt.Errorf("failed to parse %s: %w", rawURL, err)
	}
	doc.Find("script, style, noscript, template").Remove()

	return ParseResult{
		WordCounts: p.countWords(pageText(doc)),
		Links:      extractLinks(doc, base),
	}, nil
}

// open returns the page body and its declared content type.
func (p *HTMLParser) open(ctx context.Context, u *url.URL) (io.ReadCloser, string, error) {
	switch u.Scheme {
	case "http", "https":
		return p.get(ctx, u)
	case "file":
		f, err := os.Open(u.Path) //nolint:gosec // crawling local files is an explicit feature
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", u, err)
		}
		return f, "", nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

func (p *HTMLParser) get(ctx context.Context, u *url.URL) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for key, values := range p.hostHeaders[strings.ToLower(u.Hostname())] {
		req.Header[key] = values
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, u, resp.StatusCode)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// pageText returns the text of doc with a space after every text node, so
// words in adjacent elements such as "<p>a</p><p>b</p>" stay apart.
func pageText(doc *goquery.Document) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return sb.String()
}

// countWords splits text on whitespace, strips non-word characters, folds
// case and drops empty and ignored words.
func (p *HTMLParser) countWords(text string) map[string]int {
	// A Caser keeps state between calls and cannot be shared between goroutines.
	fold := cases.Fold()

	counts := make(map[string]int)
	for _, token := range strings.Fields(text) {
		word := fold.String(nonWordChars.ReplaceAllString(token, ""))
		if word == "" || p.ignoredWords.matchAny(word) {
			continue
		}
		counts[word]++
	}
	return counts
}

// extractLinks resolves every a[href] against the page URL.
func extractLinks(doc *goquery.Document, base *url.URL) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if link := resolveURL(base, href); link != "" {
			links = append(links, link)
		}
	})
	return links
}

// resolveURL turns href into an absolute URL, or "" when it does not point at a page.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return ""
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	return resolved.String()
}
