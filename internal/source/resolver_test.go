package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Shipping Software</title>
    <description>A weekly show about building products.</description>
    <item>
      <title>Episode 42: Scaling Postgres</title>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
      <description><![CDATA[<p>We talk about <b>replication</b> and backups.</p>]]></description>
    </item>
    <item>
      <title>Episode 41: Older</title>
      <description>Should not appear.</description>
    </item>
  </channel>
</rss>`

const pageHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Fallback Title</title>
  <meta property="og:title" content="Episode 7: Remote Teams">
  <meta name="description" content="How distributed teams stay aligned.">
</head>
<body>
  <article>
    <h1>Episode 7: Remote Teams</h1>
    <p>In this episode our host talks with two engineering managers about running remote teams across many time zones.
    They cover rituals, written communication, onboarding and the tooling that keeps everyone aligned.</p>
    <p>Later they discuss hiring, trust and how to avoid meeting overload when half the team is asleep.</p>
  </article>
</body>
</html>`

func serve(t *testing.T, contentType, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// local lets a resolver reach an httptest server on loopback
func local(srv *httptest.Server) Options {
	return Options{Client: srv.Client()}
}

func TestIsLink(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://www.youtube.com/watch?v=abc123", true},
		{"  http://feeds.example.com/show.xml  ", true},
		{"ftp://example.com/file", false},
		{"Host: welcome to the show https://example.com", false},
		{"example.com/episode", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsLink(tt.source), tt.source)
	}
}

func TestResolve_Transcript(t *testing.T) {
	r := NewResolver(Options{})
	_, err := r.Resolve(context.Background(), "Host: welcome back to the show, today we talk about shipping.")
	assert.ErrorIs(t, err, ErrNotALink)
}

func TestResolve_Feed(t *testing.T) {
	srv := serve(t, "application/rss+xml", feedXML)

	text, err := NewResolver(local(srv)).Resolve(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Show: Shipping Software")
	assert.Contains(t, text, "Episode: Episode 42: Scaling Postgres")
	assert.Contains(t, text, "Published: 2025-06-02")
	assert.Contains(t, text, "We talk about replication and backups.")
	assert.NotContains(t, text, "Episode 41")
	assert.NotContains(t, text, "<b>")
}

func TestResolve_Page(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", pageHTML)

	text, err := NewResolver(local(srv)).Resolve(context.Background(), srv.URL+"/episodes/7")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Title: Episode 7: Remote Teams"))
	assert.Contains(t, text, "Description: How distributed teams stay aligned.")
	assert.Contains(t, text, "engineering managers")
}

func TestResolve_Truncates(t *testing.T) {
	srv := serve(t, "text/html", pageHTML)

	text, err := NewResolver(Options{MaxChars: 20, Client: srv.Client()}).Resolve(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, []rune(text), 20)
}

func TestResolve_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewResolver(local(srv)).Resolve(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestResolve_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(pageHTML))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewResolver(local(srv)).Resolve(ctx, srv.URL)
	assert.Error(t, err)
}

func TestResolve_RefusesLoopback(t *testing.T) {
	var hit atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hit.Store(true)
		_, _ = w.Write([]byte("AWS_SECRET_ACCESS_KEY=abc123"))
	}))
	defer srv.Close()

	text, err := NewResolver(Options{}).Resolve(context.Background(), srv.URL+"/latest/meta-data/iam/security-credentials/role")
	require.ErrorIs(t, err, ErrForbiddenAddress)
	assert.Empty(t, text)
	assert.False(t, hit.Load())
}

func TestResolve_RefusesRedirectToMetadata(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://169.254.169.254/latest/meta-data/", nil)
	via := []*http.Request{httptest.NewRequest(http.MethodGet, "https://podcasts.example.com/ep/1", nil)}

	assert.ErrorIs(t, checkRedirect(req, via), ErrForbiddenAddress)

	public := httptest.NewRequest(http.MethodGet, "https://cdn.example.com/ep/1", nil)
	assert.NoError(t, checkRedirect(public, via))

	file := httptest.NewRequest(http.MethodGet, "https://cdn.example.com/ep/1", nil)
	file.URL.Scheme = "file"
	assert.Error(t, checkRedirect(file, via))
}

func TestIsPublicAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1", false},
		{"::1", false},
		{"10.1.2.3", false},
		{"172.16.0.9", false},
		{"192.168.1.1", false},
		{"169.254.169.254", false},
		{"fe80::1", false},
		{"fd00::1", false},
		{"0.0.0.0", false},
		{"::", false},
		{"224.0.0.1", false},
		{"ff02::1", false},
		{"100.64.0.1", false},
		{"::ffff:127.0.0.1", false},
		{"93.184.216.34", true},
		{"2606:4700::1111", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPublicAddr(netip.MustParseAddr(tt.addr)), tt.addr)
	}
}
