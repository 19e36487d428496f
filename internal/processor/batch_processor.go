package processor

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estatequery/server/config"
	"estatequery/server/internal/database"
	"estatequery/server/internal/models"
	"estatequery/server/internal/queue"
)

// TxRunner is the slice of *gorm.DB the processor needs; tests
// substitute a mock.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// BatchProcessor drains record batches from the ingest queue into the
// database with transaction and retry handling. It subscribes to the
// queue exactly once and fans batches out over an internal job channel,
// so each batch is written once no matter how many workers run.
type BatchProcessor struct {
	db        TxRunner
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.RecordQueue
	jobs      chan []*models.Property
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewBatchProcessor(db TxRunner, q *queue.RecordQueue, cfg *config.Config, logger *logrus.Logger) *BatchProcessor {
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:     db,
		queue:  q,
		config: cfg,
		logger: logger,
		jobs:   make(chan []*models.Property, cfg.Ingest.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the queue subscription and launches the configured
// number of workers. The subscription is in place before Start returns,
// so batches pushed immediately afterwards are never dropped.
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(func(batch []*models.Property) error {
		select {
		case p.jobs <- batch:
			return nil
		case <-p.ctx.Done():
			return p.ctx.Err()
		}
	})

	for i := 0; i < p.config.Ingest.ProcessorCount; i++ {
		p.waitGroup.Add(1)
		go p.worker()
	}
}

// Stop gracefully shuts down the processor.
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

func (p *BatchProcessor) worker() {
	defer p.waitGroup.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case batch := <-p.jobs:
			if err := p.processBatch(batch); err != nil {
				p.logger.WithError(err).Error("Dropping batch after exhausting retries")
			}
		}
	}
}

// processBatch upserts one batch inside a transaction, retrying on
// failure up to the configured limit.
func (p *BatchProcessor) processBatch(batch []*models.Property) error {
	var err error
	for attempt := 0; attempt <= p.config.Ingest.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying batch ingestion, attempt %d of %d", attempt, p.config.Ingest.MaxRetries)
			time.Sleep(time.Duration(p.config.Ingest.RetryDelay) * time.Second)
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.UpsertProperties(tx, batch); err != nil {
				return fmt.Errorf("failed to upsert record batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.Infof("Successfully ingested batch of %d records", len(batch))
			return nil
		}

		p.logger.Errorf("Batch ingestion failed: %v", err)
	}

	return fmt.Errorf("failed to ingest batch after %d attempts: %w", p.config.Ingest.MaxRetries, err)
}
