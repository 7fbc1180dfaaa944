package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/spacesedan/tubesentiment/internal/clients"
	"github.com/spacesedan/tubesentiment/internal/models"
	"github.com/spacesedan/tubesentiment/internal/monitoring"
	"github.com/spacesedan/tubesentiment/internal/sentiment"
)

const maxRequestBody = 1 << 20

type CommentSource interface {
	FetchComments(ctx context.Context, videoID string, limit int) ([]models.RawComment, error)
}

type MetadataSource interface {
	FetchVideoMetadata(ctx context.Context, videoID string) (models.VideoMetadata, error)
}

// Server holds the shared, read-only dependencies of the HTTP handlers.
type Server struct {
	Comments CommentSource
	// Metadata is optional; without it responses carry no video title.
	Metadata MetadataSource
	Analyzer *sentiment.Analyzer
	Metrics  *monitoring.Metrics

	DefaultMaxResults int
	MaxResultsCap     int

	// CacheHealthy is nil when no comment cache is configured.
	CacheHealthy *atomic.Bool
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{"status": "ok"}
	if s.CacheHealthy != nil {
		body["cache"] = "ok"
		if !s.CacheHealthy.Load() {
			body["cache"] = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) getComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	videoID := strings.TrimSpace(query.Get("videoId"))
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "videoId is required")
		return
	}
	limit := ParseMaxResults(query.Get("maxResults"), s.DefaultMaxResults, s.MaxResultsCap)

	resp := models.CommentsResponse{
		VideoID:         videoID,
		Policy:          s.Analyzer.Policy().Name(),
		ConfidenceScale: s.Analyzer.Policy().ConfidenceScale(),
	}

	if s.Metadata != nil {
		meta, err := s.Metadata.FetchVideoMetadata(ctx, videoID)
		switch {
		case errors.Is(err, clients.ErrVideoNotFound):
			writeError(w, http.StatusNotFound, "video not found")
			return
		case err != nil:
			slog.Warn("[API] Video metadata unavailable, continuing without it",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
		default:
			resp.VideoTitle = meta.Title
			if !meta.PublishedAt.IsZero() {
				published := meta.PublishedAt
				resp.VideoPublishedAt = &published
			}
		}
	}

	comments, err := s.Comments.FetchComments(ctx, videoID, limit)
	switch {
	case errors.Is(err, clients.ErrCommentsDisabled):
		slog.Info("[API] Comments disabled", slog.String("video_id", videoID))
		comments = nil
	case errors.Is(err, clients.ErrVideoNotFound):
		writeError(w, http.StatusNotFound, "video not found")
		return
	case err != nil:
		slog.Error("[API] Failed to fetch comments",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "failed to fetch comments")
		return
	}

	resp.Comments, resp.SentimentStats = s.Analyzer.AnalyzeComments(comments)
	for _, c := range resp.Comments {
		s.Metrics.CommentScored(string(c.Sentiment))
	}

	slog.Info("[API] Scored comments",
		slog.String("video_id", videoID),
		slog.Int("requested", limit),
		slog.Int("scored", resp.SentimentStats.Total))

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must be a non-empty list")
		return
	}

	results, stats := s.Analyzer.AnalyzeTexts(req.Texts)
	for _, res := range results {
		s.Metrics.CommentScored(string(res.Sentiment))
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{
		Policy:          s.Analyzer.Policy().Name(),
		ConfidenceScale: s.Analyzer.Policy().ConfidenceScale(),
		Results:         results,
		SentimentStats:  stats,
	})
}

// ParseMaxResults falls back to def when raw is missing, unparseable or
// below 1, and clamps anything above limit.
func ParseMaxResults(raw string, def, limit int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		n = def
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("[API] Failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
