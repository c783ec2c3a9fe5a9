// Gói fetcher thực hiện các request HTTP cho crawler với cơ chế retry.
// Lỗi tầng transport (connection refused, timeout, DNS) được retry với
// backoff cố định, số lần retry lấy từ cấu hình, để 0 thì retry vô hạn
// như hành vi gốc của batch job. Lỗi ứng dụng không phải rate limit
// (4xx/5xx) trả về body nil để caller tự thay thế giá trị mặc định.

package fetcher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/limiter"
	"github.com/gitradar/topic-crawler/pkg/log"
)

var errRateLimited = errors.New("fetcher: rate limited by upstream")

type Fetcher struct {
	Logger log.Logger
	Config *cfg.Config
	Budget *limiter.Budget
	client *http.Client
}

func NewFetcher(logger log.Logger, config *cfg.Config, budget *limiter.Budget) *Fetcher {
	return &Fetcher{
		Logger: logger,
		Config: config,
		Budget: budget,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch thực hiện GET và trả về body. Body nil với error nil nghĩa là
// upstream trả lỗi ứng dụng không thể retry, caller áp dụng fallback.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	return f.Do(ctx, http.MethodGet, url, headers, nil)
}

func (f *Fetcher) Do(ctx context.Context, method, url string, headers map[string]string, payload []byte) ([]byte, error) {
	var body []byte

	operation := func() error {
		body = nil
		f.Budget.Wait(ctx)

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			// Lỗi transport, retry
			f.Logger.Warn(ctx, "Request failed for %s: %v", url, err)
			return err
		}
		defer resp.Body.Close()

		f.Budget.RecordHeaders(resp.Header)

		// Tín hiệu rate limit: chờ tới thời điểm reset rồi thử lại
		if resp.StatusCode == http.StatusForbidden && resp.Header.Get("X-RateLimit-Remaining") == "0" {
			f.Logger.Warn(ctx, "Rate limit hit for %s, waiting until reset", url)
			f.Budget.WaitForReset(ctx)
			return errRateLimited
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Lỗi ứng dụng, không retry, caller xử lý fallback
			f.Logger.Warn(ctx, "Non-retryable response for %s: %s", url, resp.Status)
			return nil
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return nil
	}

	if err := backoff.Retry(operation, f.policy(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *Fetcher) policy(ctx context.Context) backoff.BackOffContext {
	delay := time.Duration(f.Config.GithubApi.RetryDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = 5 * time.Second
	}
	constant := backoff.NewConstantBackOff(delay)
	if attempts := f.Config.GithubApi.RetryAttempts; attempts > 0 {
		return backoff.WithContext(backoff.WithMaxRetries(constant, uint64(attempts)), ctx)
	}
	return backoff.WithContext(constant, ctx)
}
