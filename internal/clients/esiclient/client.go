package esiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/evetools/ratwatch/internal/config"
	"github.com/evetools/ratwatch/internal/types"
)

const (
	systemKillsEndpoint = "/v2/universe/system_kills/"
	sovereigntyEndpoint = "/v1/sovereignty/structures/"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.ESIConfig
}

func NewClient(cfg *config.ESIConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		cfg:        cfg,
	}
}

// FetchSystemKills fetches the global kill counters for every system the
// cluster reported activity in. Systems with no kills are absent from the
// response; the caller zero-fills them during reconciliation.
func (c *Client) FetchSystemKills(ctx context.Context) (*KillsResult, error) {
	callForKills := func() (*KillsResult, error) {
		var kills []types.KillSnapshot
		lastModified, err := c.get(ctx, systemKillsEndpoint, &kills)
		if err != nil {
			return nil, err
		}

		return &KillsResult{LastModified: lastModified, Kills: kills}, nil
	}

	result, err := clientCallWithRetry(ctx, callForKills, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch system kills: %w", err)
	}

	return result, nil
}

// FetchSovereigntyStructures fetches the cluster-wide sovereignty structure
// list; the vulnerability occupancy level per system is the ADM shown in
// reports.
func (c *Client) FetchSovereigntyStructures(ctx context.Context) ([]types.SovSnapshot, error) {
	callForSov := func() ([]types.SovSnapshot, error) {
		var structures []types.SovSnapshot
		if _, err := c.get(ctx, sovereigntyEndpoint, &structures); err != nil {
			return nil, err
		}
		return structures, nil
	}

	result, err := clientCallWithRetry(ctx, callForSov, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sovereignty structures: %w", err)
	}

	return result, nil
}

// get performs one GET against the ESI endpoint and decodes the JSON body
// into out, returning the Last-Modified header value of the response.
func (c *Client) get(ctx context.Context, endpoint string, out any) (time.Time, error) {
	url := c.cfg.BaseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return time.Time{}, fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, endpoint, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return time.Time{}, fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}

	lastModified, err := http.ParseTime(resp.Header.Get("Last-Modified"))
	if err != nil {
		// Not every endpoint sends the header; callers that need freshness
		// treat the receive time as the batch timestamp.
		lastModified = time.Now().UTC()
	}

	return lastModified, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.ESIConfig,
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryDelay()),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("ESI call failed, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
