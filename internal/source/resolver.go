// Package source turns a podcast link into text the model can work from.
// Transcripts pass through untouched; links to RSS/Atom feeds and web pages
// are fetched and reduced to their readable text.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

const (
	defaultTimeout  = 15 * time.Second
	defaultMaxChars = 12000
	maxBodyBytes    = 5 << 20
	maxFeedItems    = 1
	maxRedirects    = 5
	userAgent       = "podcast-automate/1.0 (+source-resolver)"
)

var (
	// ErrNotALink is returned by Resolve for sources that are not http(s) links
	ErrNotALink = errors.New("source is not a link")
	// ErrForbiddenAddress is returned when a link points at a loopback,
	// private, link-local, multicast or unspecified address
	ErrForbiddenAddress = errors.New("source address is not publicly routable")
)

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598)
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// Options configures a Resolver
type Options struct {
	Timeout  time.Duration
	MaxChars int
	Client   *http.Client
}

// Resolver fetches the material behind a podcast link
type Resolver struct {
	client   *http.Client
	feeds    *gofeed.Parser
	maxChars int
}

// NewResolver creates a resolver. Zero options fall back to defaults.
func NewResolver(opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	client := opts.Client
	if client == nil {
		client = publicClient(opts.Timeout)
	}
	return &Resolver{
		client:   client,
		feeds:    gofeed.NewParser(),
		maxChars: opts.MaxChars,
	}
}

// publicClient only dials public addresses. The check runs on the resolved IP
// at connect time, so redirects and DNS answers are covered too.
func publicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: timeout, Control: refuseNonPublic}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{
		Timeout:       timeout,
		Transport:     transport,
		CheckRedirect: checkRedirect,
	}
}

func refuseNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, address)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil || !IsPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, host)
	}
	return nil
}

func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
		return fmt.Errorf("refusing redirect to %s", req.URL.Scheme)
	}
	if ip, err := netip.ParseAddr(req.URL.Hostname()); err == nil && !IsPublicAddr(ip) {
		return fmt.Errorf("%w: %s", ErrForbiddenAddress, ip)
	}
	return nil
}

// IsPublicAddr reports whether ip is safe for the resolver to dial
func IsPublicAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	switch {
	case !ip.IsValid(),
		ip.IsUnspecified(),
		ip.IsLoopback(),
		ip.IsPrivate(),
		ip.IsLinkLocalUnicast(),
		ip.IsLinkLocalMulticast(),
		ip.IsInterfaceLocalMulticast(),
		ip.IsMulticast(),
		sharedAddressSpace.Contains(ip):
		return false
	}
	return true
}

// IsLink reports whether the source is a single absolute http(s) URL
func IsLink(source string) bool {
	s := strings.TrimSpace(source)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Resolve fetches the link and returns its readable text, truncated to the
// configured limit. Non-link sources return ErrNotALink.
func (r *Resolver) Resolve(ctx context.Context, source string) (string, error) {
	if !IsLink(source) {
		return "", ErrNotALink
	}
	link := strings.TrimSpace(source)

	body, err := r.fetch(ctx, link)
	if err != nil {
		return "", err
	}

	var text string
	if gofeed.DetectFeedType(bytes.NewReader(body)) != gofeed.FeedTypeUnknown {
		text, err = r.fromFeed(body)
	} else {
		text, err = fromPage(body, link)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no readable content at %s", link)
	}
	return truncateRunes(text, r.maxChars), nil
}

func (r *Resolver) fetch(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", link, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", link, err)
	}
	return body, nil
}

// fromFeed describes the show and its most recent episode
func (r *Resolver) fromFeed(body []byte) (string, error) {
	feed, err := r.feeds.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse feed: %w", err)
	}

	var b strings.Builder
	writeLine(&b, "Show", feed.Title)
	writeLine(&b, "Show Description", htmlToText(feed.Description))

	for i, item := range feed.Items {
		if i == maxFeedItems {
			break
		}
		writeLine(&b, "Episode", item.Title)
		if item.PublishedParsed != nil {
			writeLine(&b, "Published", item.PublishedParsed.Format("2006-01-02"))
		}
		desc := item.Content
		if desc == "" {
			desc = item.Description
		}
		writeLine(&b, "Episode Notes", htmlToText(desc))
	}
	return b.String(), nil
}

// fromPage extracts the article text and page metadata from HTML
func fromPage(body []byte, link string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := metaContent(doc, "meta[property='og:title']")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	description := metaContent(doc, "meta[property='og:description']")
	if description == "" {
		description = metaContent(doc, "meta[name='description']")
	}

	pageURL, _ := url.Parse(link)
	var text string
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		text = strings.TrimSpace(article.TextContent)
		if title == "" {
			title = strings.TrimSpace(article.Title)
		}
	}

	var b strings.Builder
	writeLine(&b, "Title", title)
	writeLine(&b, "Description", description)
	if text != "" && text != description {
		writeLine(&b, "Content", text)
	}
	return b.String(), nil
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

func htmlToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}

func writeLine(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
