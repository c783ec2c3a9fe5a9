// Budget theo dõi hạn mức request còn lại của GitHub API và thời điểm
// reset. Khi hạn mức xuống dưới ngưỡng thấp, caller bị chặn lại cho tới
// thời điểm reset. Budget cũng ép khoảng cách tối thiểu giữa hai request
// để tránh burst ngay cả khi hạn mức còn nhiều.

package limiter

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
)

type Budget struct {
	mu          sync.Mutex
	limit       int
	remaining   int
	used        int
	resetAt     time.Time
	lastRequest time.Time

	lowWater   int
	minSpacing time.Duration
	hourly     int

	primaryEnv   string
	secondaryEnv string
	onSecondary  bool

	// hook cho test
	now   func() time.Time
	sleep func(time.Duration)
}

func NewBudget(config *cfg.Config) *Budget {
	lowWater := config.GithubApi.LowWaterMark
	if lowWater <= 0 {
		lowWater = 10
	}
	spacing := time.Duration(config.GithubApi.MinSpacingMs) * time.Millisecond
	if spacing <= 0 {
		spacing = time.Second
	}
	hourly := config.GithubApi.HourlyBudget
	if hourly <= 0 {
		hourly = 5000
	}

	return &Budget{
		remaining:    hourly,
		hourly:       hourly,
		lowWater:     lowWater,
		minSpacing:   spacing,
		primaryEnv:   config.GithubApi.PrimaryTokenEnv,
		secondaryEnv: config.GithubApi.SecondaryTokenEnv,
		now:          time.Now,
		sleep:        time.Sleep,
	}
}

// Wait chặn caller lại nếu hạn mức đã chạm ngưỡng thấp, sau đó ép khoảng
// cách tối thiểu giữa hai request liên tiếp
func (b *Budget) Wait(ctx context.Context) {
	b.mu.Lock()
	wait := time.Duration(0)
	if b.remaining > 0 && b.remaining <= b.lowWater {
		if d := b.resetAt.Sub(b.now()); d > 0 {
			wait = d
		}
	}

	if sinceLast := b.now().Sub(b.lastRequest); sinceLast < b.minSpacing {
		wait += b.minSpacing - sinceLast
	}
	b.mu.Unlock()

	if wait > 0 {
		b.sleepCtx(ctx, wait)
	}

	b.mu.Lock()
	b.lastRequest = b.now()
	b.mu.Unlock()
}

// WaitForReset chặn caller tới thời điểm reset, dùng khi upstream đã trả
// về tín hiệu rate limit
func (b *Budget) WaitForReset(ctx context.Context) {
	b.mu.Lock()
	wait := b.resetAt.Sub(b.now())
	b.mu.Unlock()

	if wait > 0 {
		b.sleepCtx(ctx, wait)
	}
}

// Record cập nhật trạng thái hạn mức từ payload rateLimit của GraphQL
func (b *Budget) Record(limit, remaining, used int, resetAt time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.limit = limit
	b.remaining = remaining
	b.used = used
	b.resetAt = resetAt
}

// RecordHeaders cập nhật trạng thái hạn mức từ header của REST API
func (b *Budget) RecordHeaders(h http.Header) {
	remainingStr := h.Get("X-RateLimit-Remaining")
	if remainingStr == "" {
		return
	}
	remaining, err := strconv.Atoi(remainingStr)
	if err != nil {
		return
	}

	resetAt := time.Time{}
	if resetStr := h.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetUnix, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetUnix, 0)
		}
	}

	limit := 0
	if limitStr := h.Get("X-RateLimit-Limit"); limitStr != "" {
		limit, _ = strconv.Atoi(limitStr)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.limit = limit
	b.remaining = remaining
	if !resetAt.IsZero() {
		b.resetAt = resetAt
	}
}

// Token trả về credential đang hoạt động. Khi hạn mức của token chính
// cạn kiệt thì chuyển sang token phụ, chuyển một chiều duy nhất trong
// vòng đời process, restart process mới quay lại token chính.
func (b *Budget) Token() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.onSecondary && b.remaining == 0 && b.secondaryEnv != "" {
		b.onSecondary = true
		b.remaining = b.hourly
	}

	env := b.primaryEnv
	if b.onSecondary {
		env = b.secondaryEnv
	}
	return os.Getenv(env)
}

func (b *Budget) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

func (b *Budget) OnSecondary() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.onSecondary
}

func (b *Budget) sleepCtx(ctx context.Context, d time.Duration) {
	if ctx != nil {
		select {
		case <-ctx.Done():
			return
		default:
		}
	}
	b.sleep(d)
}
