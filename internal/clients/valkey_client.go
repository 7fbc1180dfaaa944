package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/tubesentiment/config"
	"github.com/spacesedan/tubesentiment/internal/models"
	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
	cfg    config.ValkeyConfig
	mu     sync.Mutex
}

const VALKEY_COMMENTS_PREFIX = "comments"

func newValkey(cfg config.ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.Address,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}

	return client, nil
}

// InitValkey connects once and returns the shared client. The error is
// returned on every call after a failed first attempt.
func InitValkey(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	var initErr error
	valkeyOnce.Do(func() {
		client, err := newValkey(cfg)
		if err != nil {
			initErr = err
			return
		}
		slog.Info("[ValkeyClient] Successfully connected to valkey",
			slog.String("address", cfg.Address))
		valkeyInstance = &ValkeyClient{Client: client, cfg: cfg}
	})
	if valkeyInstance == nil {
		if initErr == nil {
			initErr = errors.New("[ValkeyClient] Valkey client is not initialized")
		}
		return nil, initErr
	}
	return valkeyInstance, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := newValkey(vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed, keeping the old client",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.Client
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.client().Close()
	}
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.client()
	err := c.Do(ctx, c.B().Ping().Build()).Error()
	if isConnectionError(err) {
		vc.recreateClient()
	}
	return err
}

func CommentsCacheKey(videoID string, limit int) string {
	return fmt.Sprintf("%s:%s:%d", VALKEY_COMMENTS_PREFIX, videoID, limit)
}

// GetComments returns the cached comments under key. A missing key is a
// miss, not an error.
func (vc *ValkeyClient) GetComments(ctx context.Context, key string) ([]models.RawComment, bool, error) {
	c := vc.client()
	res := vc.DoWithRetry(ctx, c.B().Get().Key(key).Build().Pin(), 3)

	err := res.Error()
	if valkey.IsValkeyNil(err) {
		return nil, false, nil
	}
	if err != nil {
		if isConnectionError(err) {
			vc.recreateClient()
		}
		return nil, false, err
	}

	raw, err := res.AsBytes()
	if err != nil {
		return nil, false, err
	}

	var comments []models.RawComment
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, false, fmt.Errorf("[ValkeyClient] corrupt cache entry %s: %w", key, err)
	}
	return comments, true, nil
}

func (vc *ValkeyClient) SetComments(ctx context.Context, key string, comments []models.RawComment, ttl time.Duration) error {
	raw, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("[ValkeyClient] failed to encode comments: %w", err)
	}

	c := vc.client()
	completed := []valkey.Completed{
		c.B().Set().Key(key).Value(valkey.BinaryString(raw)).Build().Pin(),
		c.B().Expire().Key(key).Seconds(max(int64(ttl.Seconds()), 1)).Build().Pin(),
	}

	responses := vc.DoMultiWithRetry(ctx, completed, 3)
	for _, res := range responses {
		if err := res.Error(); err != nil {
			return err
		}
	}

	slog.Debug("[ValkeyClient] Cached comments",
		slog.String("key", key),
		slog.Int("count", len(comments)))
	return nil
}

// Commands passed to the retry helpers must be pinned so they survive reuse.
func (vc *ValkeyClient) DoMultiWithRetry(ctx context.Context, completed []valkey.Completed, retries int) []valkey.ValkeyResult {
	var results []valkey.ValkeyResult

	for i := 0; i < retries; i++ {
		results = vc.client().DoMulti(ctx, completed...)
		hasErr := false
		for _, r := range results {
			if r.Error() != nil {
				hasErr = true
				slog.Warn("[ValkeyClient] Do Multi failed",
					slog.Int("attempt", i+1),
					slog.String("error", r.Error().Error()))
				if isConnectionError(r.Error()) {
					vc.recreateClient()
				}
				break
			}
		}
		if !hasErr {
			break
		}
		time.Sleep(time.Millisecond * 250)
	}

	return results
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.client().Do(ctx, completed)
		if err := result.Error(); err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
