// Package api cung cấp các API public để tương tác với topic crawler
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/crawler"
	"github.com/gitradar/topic-crawler/internal/fetcher"
	"github.com/gitradar/topic-crawler/internal/githubapi"
	"github.com/gitradar/topic-crawler/internal/limiter"
	"github.com/gitradar/topic-crawler/pkg/db"
	"github.com/gitradar/topic-crawler/pkg/log"
)

// CrawlStats chứa thống kê về chu kỳ refresh
type CrawlStats struct {
	Version             string    `json:"version"`
	IsRunning           bool      `json:"isRunning"`
	StartTime           time.Time `json:"startTime"`
	Duration            string    `json:"duration"`
	TopicsCrawled       int       `json:"topicsCrawled"`
	ReposCrawled        int       `json:"reposCrawled"`
	ContributorsCrawled int       `json:"contributorsCrawled"`
	LastError           string    `json:"lastError"`
}

// HarvestAPI cung cấp các API để điều khiển crawler
type HarvestAPI struct {
	ctx           context.Context
	config        *cfg.Config
	logger        log.Logger
	mongo         *db.Mongo
	crawlers      map[string]crawler.Crawler
	crawling      bool
	crawlStatsMu  sync.RWMutex
	crawlStats    *CrawlStats
	stopCrawlChan chan struct{}
}

// NewHarvestAPI tạo một instance mới của HarvestAPI
func NewHarvestAPI() *HarvestAPI {
	return &HarvestAPI{
		crawlers:      make(map[string]crawler.Crawler),
		crawlStats:    &CrawlStats{},
		stopCrawlChan: make(chan struct{}),
	}
}

// Initialize khởi tạo các thành phần cần thiết cho crawler
func (a *HarvestAPI) Initialize(ctx context.Context) error {
	a.ctx = ctx

	var err error

	loader, _ := cfg.NewViperLoader()
	a.config, err = loader.Load()
	if err != nil {
		a.logger, _ = log.NewCslLogger()
		a.logger.Error(a.ctx, "Failed to load configuration: %v", err)
		return err
	}

	a.logger, err = log.NewCslLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.mongo, err = db.NewMongo(a.config)
	if err != nil {
		a.logger.Error(a.ctx, "Failed to connect to database: %v", err)
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, version := range []string{"v1", "v2"} {
		c, err := crawler.FactoryCrawler(version, a.logger, a.config, a.mongo)
		if err != nil {
			a.logger.Error(a.ctx, "Failed to create crawler %s: %v", version, err)
			// Không return ở đây, các phiên bản khác vẫn có thể dùng được
			continue
		}
		a.crawlers[version] = c
	}

	if len(a.crawlers) == 0 {
		return errors.New("failed to initialize any crawler")
	}

	return a.mongo.EnsureIndexes()
}

// StartRefresh bắt đầu một chu kỳ refresh với phiên bản được chỉ định
func (a *HarvestAPI) StartRefresh(version string) (string, error) {
	a.crawlStatsMu.RLock()
	isCrawling := a.crawling
	a.crawlStatsMu.RUnlock()

	if isCrawling {
		return "Refresh is already in progress", nil
	}

	selectedCrawler, ok := a.crawlers[version]
	if !ok {
		return "", errors.New("invalid crawler version: " + version)
	}

	a.crawlStatsMu.Lock()
	a.crawling = true
	a.crawlStats = &CrawlStats{
		Version:   version,
		IsRunning: true,
		StartTime: time.Now(),
	}
	a.crawlStatsMu.Unlock()

	go func(c crawler.Crawler) {
		success := c.Crawl()

		a.updateCrawlStats(func(stats *CrawlStats) {
			stats.IsRunning = false
			if !success {
				stats.LastError = "Refresh failed"
			}
		})

		a.crawlStatsMu.Lock()
		a.crawling = false
		a.crawlStatsMu.Unlock()
	}(selectedCrawler)

	return "Started refresh with version " + version, nil
}

// GetCrawlStats trả về thống kê về chu kỳ refresh hiện tại
func (a *HarvestAPI) GetCrawlStats() (*CrawlStats, error) {
	a.crawlStatsMu.RLock()
	defer a.crawlStatsMu.RUnlock()

	if a.crawlStats == nil {
		return &CrawlStats{}, nil
	}

	stats := *a.crawlStats
	if stats.IsRunning {
		stats.Duration = time.Since(stats.StartTime).String()
	}

	return &stats, nil
}

// updateCrawlStats cập nhật thống kê một cách an toàn
func (a *HarvestAPI) updateCrawlStats(updateFn func(*CrawlStats)) {
	a.crawlStatsMu.Lock()
	defer a.crawlStatsMu.Unlock()

	if a.crawlStats == nil {
		a.crawlStats = &CrawlStats{}
	}

	updateFn(a.crawlStats)
}

// GetTrendingRepositories truy vấn các repository tạo trong tuần vừa
// qua có nhiều sao nhất, phục vụ màn hình trending không cần chạy cả
// chu kỳ refresh
func (a *HarvestAPI) GetTrendingRepositories(first int) ([]githubapi.Repository, error) {
	if a.config == nil {
		return nil, errors.New("api not initialized")
	}
	if first <= 0 {
		first = 25
	}

	budget := limiter.NewBudget(a.config)
	f := fetcher.NewFetcher(a.logger, a.config, budget)
	caller := githubapi.NewCaller(a.logger, a.config, f, budget)

	createdAfter := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	return caller.TrendingRepositories(a.ctx, createdAfter, first)
}

// GetDatabaseStatus kiểm tra trạng thái kết nối cơ sở dữ liệu
func (a *HarvestAPI) GetDatabaseStatus() (string, error) {
	if a.mongo == nil {
		return "Database not initialized", nil
	}

	if err := a.mongo.Ping(); err != nil {
		return "Database not connected: " + err.Error(), err
	}

	return "Database connected", nil
}
