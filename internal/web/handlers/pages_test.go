package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/podcast-automate/internal/models"
	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubmissions struct {
	received url.Values
	result   models.ActionResult[models.ContentPack]
}

func (s *stubSubmissions) HandleSubmission(_ context.Context, values url.Values) models.ActionResult[models.ContentPack] {
	s.received = values
	return s.result
}

func setupTestRouter(stub *stubSubmissions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewWebHandler(stub)
	router.GET("/", h.Home)
	router.POST("/htmx/generate", h.HTMXGenerate)
	router.POST("/generate", h.Generate)
	return router
}

func postForm(router *gin.Engine, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestHome(t *testing.T) {
	router := setupTestRouter(&stubSubmissions{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc := parse(t, w)
	assert.Equal(t, "Podcast Automate", doc.Find("h1").Text())
	assert.Equal(t, 1, doc.Find("#podcast-form").Length())
	assert.Equal(t, 1, doc.Find("#viewer .empty-state").Length())
}

func TestHTMXGenerate_Success(t *testing.T) {
	pack := &models.ContentPack{EpisodeSummary: "Summary text", Transcript: "Host: hi"}
	stub := &stubSubmissions{result: models.Success(pack)}
	router := setupTestRouter(stub)

	values := url.Values{
		"podcastSource":  {"", "Host: a long enough transcript"},
		"toneStyle":      {"Casual"},
		"targetAudience": {"Tech"},
		"platforms":      {"LinkedIn", "YouTube"},
	}
	w := postForm(router, "/htmx/generate", values)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Host: a long enough transcript", stub.received.Get("podcastSource"))
	assert.Equal(t, []string{"LinkedIn", "YouTube"}, stub.received["platforms"])

	doc := parse(t, w)
	assert.Equal(t, 1, doc.Find(".results").Length())
	assert.Equal(t, 1, doc.Find(".toast-success").Length())
}

func TestHTMXGenerate_Error(t *testing.T) {
	stub := &stubSubmissions{result: models.Failure[models.ContentPack]("Please select at least one platform.")}
	router := setupTestRouter(stub)

	w := postForm(router, "/htmx/generate", url.Values{"podcastSource": {"https://example.com/ep/1"}})

	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, 0, doc.Find(".results").Length())
	assert.Contains(t, doc.Find(".toast-error").Text(), "Please select at least one platform.")
}

func TestGenerateFallback_KeepsForm(t *testing.T) {
	stub := &stubSubmissions{result: models.Failure[models.ContentPack]("Please select a valid tone style.")}
	router := setupTestRouter(stub)

	w := postForm(router, "/generate", url.Values{
		"sourceMode":     {"text"},
		"podcastSource":  {"", "Host: a long enough transcript"},
		"toneStyle":      {"Storytelling"},
		"targetAudience": {"Founders"},
		"platforms":      {"Instagram"},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	doc := parse(t, w)
	assert.Equal(t, "Host: a long enough transcript", doc.Find("#podcast-text").Text())
	assert.Equal(t, "Storytelling", doc.Find(`#tone-style option[selected]`).AttrOr("value", ""))
	assert.Equal(t, "Instagram", doc.Find(`input[name="platforms"][checked]`).AttrOr("value", ""))
	assert.Contains(t, doc.Find(".toast-error").Text(), "Please select a valid tone style.")
}

func TestGenerateFallback_ModeFollowsFilledInput(t *testing.T) {
	tests := []struct {
		name     string
		sources  []string
		wantMode string
		wantURL  string
		wantText string
	}{
		{
			name:     "transcript with stale url mode",
			sources:  []string{"", "Host: a long enough transcript"},
			wantMode: "text",
			wantText: "Host: a long enough transcript",
		},
		{
			name:     "link with stale text mode",
			sources:  []string{"https://example.com/ep/1", ""},
			wantMode: "url",
			wantURL:  "https://example.com/ep/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubSubmissions{result: models.Failure[models.ContentPack]("Please select at least one platform.")}
			router := setupTestRouter(stub)

			stale := "url"
			if tt.wantMode == "url" {
				stale = "text"
			}
			w := postForm(router, "/generate", url.Values{
				"sourceMode":    {stale},
				"podcastSource": tt.sources,
				"toneStyle":     {"Casual"},
			})

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.wantMode, stub.received.Get("sourceMode"))

			doc := parse(t, w)
			assert.Equal(t, tt.wantMode, doc.Find(`input[name="sourceMode"]`).AttrOr("value", ""))
			assert.Equal(t, tt.wantURL, doc.Find("#podcast-url").AttrOr("value", ""))
			assert.Equal(t, tt.wantText, doc.Find("#podcast-text").Text())
		})
	}
}

func TestGenerateFallback_Success(t *testing.T) {
	stub := &stubSubmissions{result: models.Success(&models.ContentPack{EpisodeSummary: "Done"})}
	router := setupTestRouter(stub)

	w := postForm(router, "/generate", url.Values{"podcastSource": {"https://example.com/ep/1"}})

	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, 1, doc.Find("#viewer .results").Length())
	assert.Equal(t, "https://example.com/ep/1", doc.Find("#podcast-url").AttrOr("value", ""))
}
