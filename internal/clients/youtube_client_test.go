package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/tubesentiment/config"
	"github.com/spacesedan/tubesentiment/internal/models"
)

func newTestYouTubeClient(t *testing.T, handler http.HandlerFunc) *YouTubeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	yt := NewYouTubeClient(config.YouTubeConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	})
	yt.Backoff = time.Millisecond
	yt.MaxRetries = 3
	return yt
}

func threadPage(start, n int, next string) models.YouTubeCommentThreadsResponse {
	page := models.YouTubeCommentThreadsResponse{NextPageToken: next}
	for i := start; i < start+n; i++ {
		var thread models.YouTubeCommentThread
		thread.ID = fmt.Sprintf("t%d", i)
		thread.Snippet.TopLevelComment.ID = fmt.Sprintf("c%d", i)
		thread.Snippet.TopLevelComment.Snippet = models.YouTubeCommentSnippet{
			TextDisplay:       fmt.Sprintf("comment %d", i),
			AuthorDisplayName: "viewer",
			LikeCount:         i,
			PublishedAt:       time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC),
		}
		page.Items = append(page.Items, thread)
	}
	return page
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode: %v", err)
	}
}

func youTubeError(code int, reason string) models.YouTubeErrorResponse {
	return models.YouTubeErrorResponse{Error: models.YouTubeError{
		Code:    code,
		Message: reason,
		Errors:  []models.YouTubeErrorDetail{{Reason: reason}},
	}}
}

func TestFetchCommentsFollowsPagesUpToLimit(t *testing.T) {
	var pageSizes []int
	var tokens []string

	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/commentThreads" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if q.Get("key") != "test-key" || q.Get("part") != "snippet" || q.Get("videoId") != "vid" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("textFormat") != "plainText" || q.Get("order") != "relevance" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}

		size, _ := strconv.Atoi(q.Get("maxResults"))
		pageSizes = append(pageSizes, size)
		tokens = append(tokens, q.Get("pageToken"))

		start := len(pageSizes) * 100
		writeJSON(t, w, http.StatusOK, threadPage(start, size, fmt.Sprintf("p%d", len(pageSizes)+1)))
	})

	comments, err := yt.FetchComments(context.Background(), "vid", 250)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if len(comments) != 250 {
		t.Fatalf("got %d comments, want 250", len(comments))
	}
	if fmt.Sprint(pageSizes) != "[100 100 50]" {
		t.Errorf("page sizes = %v", pageSizes)
	}
	if fmt.Sprint(tokens) != "[ p2 p3]" {
		t.Errorf("page tokens = %q", tokens)
	}
	if comments[0].CommentID != "c100" || comments[0].Text != "comment 100" {
		t.Errorf("first comment = %+v", comments[0])
	}
}

func TestFetchCommentsStopsWithoutNextToken(t *testing.T) {
	calls := 0
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		next := ""
		if calls == 1 {
			next = "p2"
		}
		writeJSON(t, w, http.StatusOK, threadPage(calls*10, 10, next))
	})

	comments, err := yt.FetchComments(context.Background(), "vid", 1000)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if calls != 2 || len(comments) != 20 {
		t.Errorf("calls = %d, comments = %d", calls, len(comments))
	}
}

func TestFetchCommentsErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		reason    string
		wantErr   error
		wantCalls int32
	}{
		{"comments disabled", http.StatusForbidden, "commentsDisabled", ErrCommentsDisabled, 1},
		{"video not found", http.StatusNotFound, "videoNotFound", ErrVideoNotFound, 1},
		{"quota exceeded", http.StatusForbidden, "quotaExceeded", ErrUpstreamUnavailable, 1},
		{"server error is retried", http.StatusInternalServerError, "backendError", ErrUpstreamUnavailable, 3},
		{"rate limit is retried", http.StatusTooManyRequests, "rateLimitExceeded", ErrUpstreamUnavailable, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(t, w, tt.status, youTubeError(tt.status, tt.reason))
			})

			comments, err := yt.FetchComments(context.Background(), "vid", 10)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if comments != nil {
				t.Errorf("expected no comments, got %d", len(comments))
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestFetchCommentsRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, http.StatusOK, threadPage(0, 3, ""))
	})

	comments, err := yt.FetchComments(context.Background(), "vid", 10)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if len(comments) != 3 || calls.Load() != 2 {
		t.Errorf("comments = %d, calls = %d", len(comments), calls.Load())
	}
}

func TestFetchCommentsReturnsPartialOnLaterPageFailure(t *testing.T) {
	calls := 0
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(t, w, http.StatusOK, threadPage(0, 100, "p2"))
			return
		}
		writeJSON(t, w, http.StatusForbidden, youTubeError(http.StatusForbidden, "quotaExceeded"))
	})

	comments, err := yt.FetchComments(context.Background(), "vid", 300)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if len(comments) != 100 {
		t.Errorf("got %d comments, want the first page", len(comments))
	}
}

func TestFetchCommentsZeroLimit(t *testing.T) {
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	comments, err := yt.FetchComments(context.Background(), "vid", 0)
	if err != nil || comments == nil || len(comments) != 0 {
		t.Errorf("comments = %v, err = %v", comments, err)
	}
}

func TestFetchCommentsSortByEngagement(t *testing.T) {
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, threadPage(0, 5, ""))
	})
	yt.SortByEngagement = true

	comments, err := yt.FetchComments(context.Background(), "vid", 5)
	if err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if comments[0].LikeCount != 4 || comments[4].LikeCount != 0 {
		t.Errorf("not sorted by likes: first=%d last=%d", comments[0].LikeCount, comments[4].LikeCount)
	}
}

func TestSortByEngagement(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	comments := []models.RawComment{
		{CommentID: "a", LikeCount: 1, PublishedAt: older},
		{CommentID: "b", LikeCount: 5, PublishedAt: older},
		{CommentID: "c", LikeCount: 1, PublishedAt: newer},
		{CommentID: "d", LikeCount: 1, PublishedAt: newer},
	}
	SortByEngagement(comments)

	var got string
	for _, c := range comments {
		got += c.CommentID
	}
	if got != "bcda" {
		t.Errorf("order = %s, want bcda", got)
	}
}

func TestFetchVideoMetadata(t *testing.T) {
	published := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)

	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" || r.URL.Query().Get("id") == "" {
			t.Errorf("unexpected request %s", r.URL)
		}
		resp := models.YouTubeVideosResponse{}
		if r.URL.Query().Get("id") == "vid" {
			resp.Items = []models.YouTubeVideo{{
				ID: "vid",
				Snippet: models.YouTubeVideoSnippet{
					Title:        "A video",
					ChannelTitle: "A channel",
					PublishedAt:  published,
				},
			}}
		}
		writeJSON(t, w, http.StatusOK, resp)
	})

	meta, err := yt.FetchVideoMetadata(context.Background(), "vid")
	if err != nil {
		t.Fatalf("FetchVideoMetadata: %v", err)
	}
	want := models.VideoMetadata{VideoID: "vid", Title: "A video", ChannelTitle: "A channel", PublishedAt: published}
	if meta != want {
		t.Errorf("meta = %+v, want %+v", meta, want)
	}

	if _, err := yt.FetchVideoMetadata(context.Background(), "missing"); !errors.Is(err, ErrVideoNotFound) {
		t.Errorf("missing video err = %v", err)
	}
}

func TestFetchVideoMetadataInvalidJSON(t *testing.T) {
	yt := newTestYouTubeClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	})

	if _, err := yt.FetchVideoMetadata(context.Background(), "vid"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestOAuthTokenIsSentAsBearer(t *testing.T) {
	var auth, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		key = r.URL.Query().Get("key")
		writeJSON(t, w, http.StatusOK, threadPage(0, 1, ""))
	}))
	defer srv.Close()

	yt := NewYouTubeClient(config.YouTubeConfig{
		AccessToken: "token-123",
		BaseURL:     srv.URL,
		Timeout:     5 * time.Second,
	})

	if _, err := yt.FetchComments(context.Background(), "vid", 1); err != nil {
		t.Fatalf("FetchComments: %v", err)
	}
	if auth != "Bearer token-123" {
		t.Errorf("Authorization = %q", auth)
	}
	if key != "" {
		t.Errorf("api key should not be sent, got %q", key)
	}
}
