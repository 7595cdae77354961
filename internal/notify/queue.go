package notify

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Notification is one outbound message; delivery channels subscribe to
// the queue and decide how to send it.
type Notification struct {
	To      []string
	Subject string
	Body    string
}

// Queue is an in-memory buffer decoupling request handlers from the mail
// transport, so a slow SMTP server never blocks a response.
type Queue struct {
	items    chan *Notification
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func(*Notification) error
}

// NewQueue creates a notification queue with the specified buffer size.
func NewQueue(bufferSize int, logger *logrus.Logger) *Queue {
	return &Queue{
		items:    make(chan *Notification, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func(*Notification) error, 0),
	}
}

// Push adds a notification to the queue without blocking.
func (q *Queue) Push(n *Notification) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	select {
	case q.items <- n:
		q.logger.WithField("subject", n.Subject).Debug("Queued notification")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler called for every notification.
func (q *Queue) Subscribe(handler func(*Notification) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins dispatching queued notifications.
func (q *Queue) Start() {
	go q.process()
}

func (q *Queue) process() {
	for {
		select {
		case <-q.done:
			return
		case n, ok := <-q.items:
			if !ok {
				return
			}
			q.dispatch(n)
		}
	}
}

func (q *Queue) dispatch(n *Notification) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(n); err != nil {
			q.logger.WithError(err).Error("Handler failed to deliver notification")
		}
	}
}

// Close stops the queue and prevents new notifications from being added.
// The items channel is left open: a Push racing with Close must never hit
// a closed channel, and the done channel already stops the dispatcher.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	return nil
}

// Len returns the current number of queued notifications.
func (q *Queue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
