package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacesedan/textsummarizer/config"
	"github.com/valkey-io/valkey-go"
)

const valkeyRetries = 3

var (
	valkeyInstance *ValkeyClient
	valkeyErr      error
	valkeyOnce     sync.Once
)

// ValkeyClient is the summary cache. It satisfies summarizer.Cache.
type ValkeyClient struct {
	client valkey.Client
	opts   valkey.ClientOption
	ttl    time.Duration
	mu     sync.RWMutex
}

func InitValkey(cfg config.ValkeyConfig) (*ValkeyClient, error) {
	valkeyOnce.Do(func() {
		opts := valkeyOptions(cfg)

		client, err := connectValkey(opts)
		if err != nil {
			valkeyErr = err
			return
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey",
			slog.String("address", cfg.InitAddress),
			slog.Duration("ttl", cfg.TTL))

		valkeyInstance = &ValkeyClient{client: client, opts: opts, ttl: cfg.TTL}
	})
	return valkeyInstance, valkeyErr
}

func valkeyOptions(cfg config.ValkeyConfig) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			cfg.InitAddress,
		},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if cfg.TLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
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

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.client
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()

	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.client.Close()
	vc.client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

// Get returns the cached summary for key, if any.
func (vc *ValkeyClient) Get(ctx context.Context, key string) (string, bool, error) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, valkeyRetries)

	if err := res.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}

	summary, err := res.ToString()
	if err != nil {
		return "", false, err
	}
	return summary, true, nil
}

// Set stores summary under key with the configured TTL in a single SET EX.
func (vc *ValkeyClient) Set(ctx context.Context, key string, summary string) error {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return setSummaryCommand(c, key, summary, vc.ttl)
	}, valkeyRetries)
	if err := res.Error(); err != nil {
		return err
	}

	slog.Debug("[ValkeyClient] Cached summary", slog.String("key", key))
	return nil
}

func setSummaryCommand(c valkey.Client, key, summary string, ttl time.Duration) valkey.Completed {
	return c.B().Set().Key(key).Value(summary).ExSeconds(int64(ttl / time.Second)).Build()
}

// DoWithRetry rebuilds the command on every attempt since valkey-go
// recycles a command once it has been sent.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		client := vc.current()
		result = client.Do(ctx, build(client))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if isConnectionError(err) {
			vc.recreateClient()
		}

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
