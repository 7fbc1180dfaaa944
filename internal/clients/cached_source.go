package clients

import (
	"context"
	"log/slog"
	"time"

	"github.com/spacesedan/tubesentiment/internal/models"
	"github.com/spacesedan/tubesentiment/internal/monitoring"
)

type CommentSource interface {
	FetchComments(ctx context.Context, videoID string, limit int) ([]models.RawComment, error)
}

type CommentCache interface {
	GetComments(ctx context.Context, key string) ([]models.RawComment, bool, error)
	SetComments(ctx context.Context, key string, comments []models.RawComment, ttl time.Duration) error
}

// CachedCommentSource reads through a CommentCache before hitting the
// wrapped source. Cache failures are logged and never fail a fetch.
type CachedCommentSource struct {
	Source  CommentSource
	Cache   CommentCache
	TTL     time.Duration
	Metrics *monitoring.Metrics
}

func NewCachedCommentSource(source CommentSource, cache CommentCache, ttl time.Duration, metrics *monitoring.Metrics) *CachedCommentSource {
	return &CachedCommentSource{
		Source:  source,
		Cache:   cache,
		TTL:     ttl,
		Metrics: metrics,
	}
}

func (s *CachedCommentSource) FetchComments(ctx context.Context, videoID string, limit int) ([]models.RawComment, error) {
	if s.Cache == nil {
		return s.Source.FetchComments(ctx, videoID, limit)
	}

	key := CommentsCacheKey(videoID, limit)
	cached, ok, err := s.Cache.GetComments(ctx, key)
	if err != nil {
		slog.Warn("[CommentCache] Lookup failed, bypassing cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	if ok {
		s.Metrics.CacheHit()
		slog.Debug("[CommentCache] Hit", slog.String("key", key))
		return cached, nil
	}
	s.Metrics.CacheMiss()

	comments, err := s.Source.FetchComments(ctx, videoID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.Cache.SetComments(ctx, key, comments, s.TTL); err != nil {
		slog.Warn("[CommentCache] Store failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return comments, nil
}
