package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gitradar/topic-crawler/cfg"
	"github.com/gitradar/topic-crawler/internal/model"
	"github.com/gitradar/topic-crawler/internal/store"
	"github.com/gitradar/topic-crawler/pkg/db"
	"github.com/gitradar/topic-crawler/pkg/kafka"
	"github.com/gitradar/topic-crawler/pkg/log"
)

func main() {
	// Load configuration
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, _ := log.NewCslLogger()

	// Setup database
	mongo, err := db.NewMongo(config)
	if err != nil {
		logger.Error(context.Background(), "Failed to connect to database: %v", err)
		os.Exit(1)
	}
	st := store.NewMongoStore(mongo)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	startTopDevsConsumer(ctx, config, logger, st)

	// Wait for termination signal
	<-sigCh
	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	cancel()
}

func startTopDevsConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, st store.Store) {
	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicTopDevs, "top-devs-consumer-group")

	batchSize := 20
	batchTimeout := 5 * time.Second

	// Channel to collect messages for batch processing
	messages := make(chan model.TopDevsMessage, batchSize*2)

	// Batch processor
	go processBatchedTopDevs(ctx, messages, batchSize, batchTimeout, config, logger, st)

	consumer.RegisterHandler(model.MessageKeyTopDevs, func(data []byte) error {
		var msg model.TopDevsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal top devs message: %w", err)
		}

		// Send to batch channel instead of processing individually
		select {
		case messages <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Top devs consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Top developers consumer started successfully")
}

// processBatchedTopDevs gom message thành batch rồi ghi một lần để giảm
// số round-trip tới database
func processBatchedTopDevs(ctx context.Context, messages <-chan model.TopDevsMessage, batchSize int,
	batchTimeout time.Duration, config *cfg.Config, logger log.Logger, st store.Store) {

	var batch []model.TopDevsMessage
	timer := time.NewTimer(batchTimeout)

	for {
		select {
		case <-ctx.Done():
			// Process remaining messages before exiting
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, config, logger, st)
			}
			return

		case msg := <-messages:
			batch = append(batch, msg)

			if len(batch) >= batchSize {
				processSingleBatch(ctx, batch, config, logger, st)
				batch = nil
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, config, logger, st)
				batch = nil
			}
			timer.Reset(batchTimeout)
		}
	}
}

func processSingleBatch(ctx context.Context, batch []model.TopDevsMessage, config *cfg.Config, logger log.Logger, st store.Store) {
	if len(batch) == 0 {
		return
	}

	logger.Info(ctx, "Processing batch of %d topic documents", len(batch))

	documents := make([]interface{}, 0, len(batch))
	for _, msg := range batch {
		documents = append(documents, msg.Document)
	}

	if err := st.InsertMany(ctx, config.Mongo.Collections.TopDevs, documents); err != nil {
		logger.Error(ctx, "Failed to save batch of topic documents: %v", err)
	} else {
		logger.Info(ctx, "Successfully saved batch of %d topic documents", len(batch))
	}
}
