package main

import (
	"context"
	"flag"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/crawler"
	"github.com/gitradar/topic-crawler/pkg/db"
	"github.com/gitradar/topic-crawler/pkg/log"
)

type Handler struct {
	Crawler crawler.Crawler
	Logger  log.Logger
}

func NewHandler(crawler crawler.Crawler, logger log.Logger) *Handler {
	return &Handler{
		Crawler: crawler,
		Logger:  logger,
	}
}

func main() {
	version := flag.String("version", "v1", "Crawler version to run (v1, v2, v3)")
	flag.Parse()

	ctx := context.Background()
	// loader, _ := cfg.NewMockLoader()
	loader, _ := cfg.NewViperLoader()
	config, _ := loader.Load()
	mongo, _ := db.NewMongo(config)
	logger, _ := log.NewCslLogger()

	// Tạo index trước khi chạy
	if err := mongo.EnsureIndexes(); err != nil {
		logger.Error(ctx, "Cannot ensure indexes: %v", err)
	}

	c, err := crawler.FactoryCrawler(*version, logger, config, mongo)
	if err != nil {
		logger.Error(ctx, "Cannot create crawler: %v", err)
		return
	}

	//
	logger.Info(ctx, "Starting Github topic crawler %s", *version)
	handler := NewHandler(c, logger)
	if handler.Crawler.Crawl() {
		logger.Info(ctx, "Successfully!")
	} else {
		logger.Error(ctx, "Failed!")
	}
}
