package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/tubesentiment/config"
	"github.com/spacesedan/tubesentiment/internal/models"
	"github.com/spacesedan/tubesentiment/internal/monitoring"
	"golang.org/x/oauth2"
)

var (
	youTubeInstance *YouTubeClient
	youTubeOnce     sync.Once
)

// YouTubeClient talks to the YouTube Data API v3. It authenticates with an
// API key or, when an access token is configured, an OAuth bearer token.
type YouTubeClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string

	SortByEngagement bool

	// Backoff is the first retry delay. It doubles up to MAX_BACKOFF.
	Backoff    time.Duration
	MaxRetries int

	Metrics *monitoring.Metrics
}

func NewYouTubeClient(cfg config.YouTubeConfig) *YouTubeClient {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	if cfg.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.AccessToken,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = cfg.Timeout
	}

	return &YouTubeClient{
		Client:           httpClient,
		BaseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:           cfg.APIKey,
		SortByEngagement: cfg.SortByEngagement,
		Backoff:          INITIAL_BACKOFF,
		MaxRetries:       MAX_RETRIES,
	}
}

func GetYouTubeClient(cfg config.YouTubeConfig) *YouTubeClient {
	youTubeOnce.Do(func() {
		if cfg.APIKey == "" && cfg.AccessToken == "" {
			slog.Warn("[YouTubeClient] Neither YOUTUBE_API_KEY nor YOUTUBE_ACCESS_TOKEN is set")
		}
		slog.Info("[YouTubeClient] Initializing Client",
			slog.String("base_url", cfg.BaseURL),
			slog.Duration("timeout", cfg.Timeout),
			slog.Bool("oauth", cfg.AccessToken != ""))
		youTubeInstance = NewYouTubeClient(cfg)
	})
	return youTubeInstance
}

// FetchComments pages through the top-level comment threads of videoID
// until limit comments were collected or no next page exists. A failure on
// the first page is returned; a later failure ends paging and the comments
// fetched so far are returned.
func (yt *YouTubeClient) FetchComments(ctx context.Context, videoID string, limit int) ([]models.RawComment, error) {
	if limit <= 0 {
		return []models.RawComment{}, nil
	}

	comments := make([]models.RawComment, 0, min(limit, YOUTUBE_PAGE_SIZE))
	pageToken := ""

	for page := 1; len(comments) < limit; page++ {
		pageSize := min(limit-len(comments), YOUTUBE_PAGE_SIZE)

		resp, err := yt.fetchCommentPage(ctx, videoID, pageSize, pageToken)
		if err != nil {
			yt.Metrics.UpstreamError("comments")
			if page == 1 {
				return nil, fmt.Errorf("[YouTubeClient] failed to fetch comments for %s: %w", videoID, err)
			}
			slog.Warn("[YouTubeClient] Paging stopped early, returning partial comments",
				slog.String("video_id", videoID),
				slog.Int("page", page),
				slog.Int("fetched", len(comments)),
				slog.String("error", err.Error()))
			break
		}

		for _, item := range resp.Items {
			if len(comments) >= limit {
				break
			}
			comments = append(comments, item.ToRawComment())
		}

		if resp.NextPageToken == "" || len(resp.Items) == 0 {
			break
		}
		pageToken = resp.NextPageToken
	}

	if yt.SortByEngagement {
		SortByEngagement(comments)
	}

	slog.Debug("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))

	return comments, nil
}

func (yt *YouTubeClient) FetchVideoMetadata(ctx context.Context, videoID string) (models.VideoMetadata, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var resp models.YouTubeVideosResponse
	if err := yt.getJSON(ctx, "videos", params, &resp); err != nil {
		yt.Metrics.UpstreamError("videos")
		return models.VideoMetadata{}, fmt.Errorf("[YouTubeClient] failed to fetch metadata for %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return models.VideoMetadata{}, fmt.Errorf("[YouTubeClient] %s: %w", videoID, ErrVideoNotFound)
	}

	video := resp.Items[0]
	return models.VideoMetadata{
		VideoID:      videoID,
		Title:        video.Snippet.Title,
		ChannelTitle: video.Snippet.ChannelTitle,
		PublishedAt:  video.Snippet.PublishedAt,
	}, nil
}

// SortByEngagement orders comments by like count, then by recency. Ties keep
// their original order.
func SortByEngagement(comments []models.RawComment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].LikeCount != comments[j].LikeCount {
			return comments[i].LikeCount > comments[j].LikeCount
		}
		return comments[i].PublishedAt.After(comments[j].PublishedAt)
	})
}

func (yt *YouTubeClient) fetchCommentPage(ctx context.Context, videoID string, pageSize int, pageToken string) (models.YouTubeCommentThreadsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("maxResults", strconv.Itoa(pageSize))
	params.Set("textFormat", "plainText")
	params.Set("order", "relevance")
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp models.YouTubeCommentThreadsResponse
	err := yt.getJSON(ctx, "commentThreads", params, &resp)
	return resp, err
}

func (yt *YouTubeClient) getJSON(ctx context.Context, resource string, params url.Values, out any) error {
	if yt.APIKey != "" {
		params.Set("key", yt.APIKey)
	}
	endpoint := yt.BaseURL + "/" + resource + "?" + params.Encode()

	body, err := yt.doWithRetry(ctx, endpoint)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		slog.Error("[YouTubeClient] Failed to unmarshal response",
			slog.String("resource", resource),
			slog.String("error", err.Error()),
			getPreview(body))
		return fmt.Errorf("%w: invalid %s response: %v", ErrUpstreamUnavailable, resource, err)
	}
	return nil
}

// doWithRetry retries transport errors, 429 and 5xx with exponential backoff.
// Any other non-2xx status is mapped to a sentinel error right away.
func (yt *YouTubeClient) doWithRetry(ctx context.Context, endpoint string) ([]byte, error) {
	backoff := yt.Backoff
	retries := max(yt.MaxRetries, 1)
	var lastErr error

	for attempt := 1; attempt <= retries; attempt++ {
		body, status, err := yt.do(ctx, endpoint)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
			}
			lastErr = fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		case status >= 200 && status < 300:
			return body, nil
		case status == http.StatusTooManyRequests || status >= 500:
			lastErr = mapYouTubeError(status, body)
		default:
			return nil, mapYouTubeError(status, body)
		}

		if attempt == retries {
			break
		}

		slog.Warn("[YouTubeClient] Request failed, will retry",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", lastErr.Error()))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	slog.Error("[YouTubeClient] Failed after max retries",
		slog.Int("retries", retries),
		slog.String("error", lastErr.Error()))
	return nil, lastErr
}

func (yt *YouTubeClient) do(ctx context.Context, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := yt.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func mapYouTubeError(status int, body []byte) error {
	var payload models.YouTubeErrorResponse
	_ = json.Unmarshal(body, &payload)

	reason := ""
	if len(payload.Error.Errors) > 0 {
		reason = payload.Error.Errors[0].Reason
	}
	message := payload.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	switch {
	case reason == "commentsDisabled":
		return fmt.Errorf("%w: %s", ErrCommentsDisabled, message)
	case reason == "videoNotFound" || status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrVideoNotFound, message)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUpstreamUnavailable, status, message)
	}
}

func getPreview(body []byte) slog.Attr {
	raw := string(body)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
