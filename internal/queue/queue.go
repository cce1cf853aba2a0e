package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// InvocationQueue represents an in-memory queue for invocation batches
type InvocationQueue struct {
	items    chan []*models.Invocation
	done     chan struct{}
	finished chan struct{}
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Invocation) error
}

// NewInvocationQueue creates a new invocation queue with the specified buffer size
func NewInvocationQueue(bufferSize int, logger *logrus.Logger) *InvocationQueue {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &InvocationQueue{
		items:    make(chan []*models.Invocation, bufferSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Invocation) error, 0),
	}
}

// Push adds a batch of invocations to the queue
func (q *InvocationQueue) Push(batch []*models.Invocation) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send so callers on the request path never wait
	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *InvocationQueue) Subscribe(handler func([]*models.Invocation) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue. Calling it twice is a no-op.
func (q *InvocationQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started || q.closed {
		return
	}
	q.started = true
	go q.process()
}

func (q *InvocationQueue) process() {
	defer close(q.finished)
	for {
		select {
		case <-q.done:
			q.drain()
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// drain handles whatever was queued before Close.
func (q *InvocationQueue) drain() {
	for {
		select {
		case batch := <-q.items:
			q.processBatch(batch)
		default:
			return
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *InvocationQueue) processBatch(batch []*models.Invocation) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).WithField("batch_size", len(batch)).Error("Handler failed to process batch")
		}
	}
}

// Close stops accepting batches and, if the queue was started, waits until
// the batches already queued have been handled.
func (q *InvocationQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	started := q.started
	close(q.done)
	q.mu.Unlock()

	if started {
		<-q.finished
	}
	return nil
}

// Len returns the current number of batches in the queue
func (q *InvocationQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *InvocationQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
