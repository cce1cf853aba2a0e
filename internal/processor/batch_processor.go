package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"homefront/server/config"
	"homefront/server/internal/models"
	"homefront/server/internal/queue"
)

// Store persists invocation batches. SaveInvocations must be all-or-nothing.
type Store interface {
	SaveInvocations(ctx context.Context, invocations []*models.Invocation) error
}

// BatchProcessor collects invocation records and writes them in batches
type BatchProcessor struct {
	store     Store
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.InvocationQueue
	mu        sync.Mutex
	pending   []*models.Invocation
	waitGroup sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(store Store, queue *queue.InvocationQueue, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		store:  store,
		queue:  queue,
		config: config,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (p *BatchProcessor) maxBatchSize() int {
	if p.config.BatchProcessing.MaxBatchSize <= 0 {
		return 1
	}
	return p.config.BatchProcessing.MaxBatchSize
}

func (p *BatchProcessor) maxWait() time.Duration {
	if p.config.BatchProcessing.MaxBatchWaitTime <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.config.BatchProcessing.MaxBatchWaitTime) * time.Second
}

// Start subscribes to the queue and begins the periodic flush
func (p *BatchProcessor) Start() {
	p.queue.Subscribe(p.processBatch)
	p.queue.Start()

	p.waitGroup.Add(1)
	go p.flushLoop()
}

// Stop flushes what is pending and waits for queued batches to be written
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
	p.flush()
	p.queue.Close()
}

// Record buffers one invocation. It never blocks on the store.
func (p *BatchProcessor) Record(inv *models.Invocation) {
	p.mu.Lock()
	p.pending = append(p.pending, inv)
	var batch []*models.Invocation
	if len(p.pending) >= p.maxBatchSize() {
		batch = p.pending
		p.pending = nil
	}
	p.mu.Unlock()

	if batch != nil {
		p.push(batch)
	}
}

func (p *BatchProcessor) flush() {
	p.mu.Lock()
	batch := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(batch) > 0 {
		p.push(batch)
	}
}

func (p *BatchProcessor) push(batch []*models.Invocation) {
	if err := p.queue.Push(batch); err != nil {
		p.logger.WithError(err).WithField("batch_size", len(batch)).Warn("Dropping invocation batch")
	}
}

// flushLoop writes partial batches once they have waited long enough
func (p *BatchProcessor) flushLoop() {
	defer p.waitGroup.Done()

	ticker := time.NewTicker(p.maxWait())
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.flush()
		}
	}
}

// processBatch writes a single batch with retry logic
func (p *BatchProcessor) processBatch(batch []*models.Invocation) error {
	retries := p.config.BatchProcessing.MaxRetries
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			p.logger.Infof("Retrying invocation batch, attempt %d of %d", attempt, retries)
			time.Sleep(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second)
		}

		err = p.store.SaveInvocations(context.Background(), batch)
		if err == nil {
			p.logger.WithField("batch_size", len(batch)).Debug("Saved invocation batch")
			return nil
		}

		p.logger.WithError(err).Error("Invocation batch failed")
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", retries+1, err)
}
