package sender

import (
	stderrors "errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/clio/pkg/config"
	"github.com/arthur-debert/clio/pkg/message"
)

// item is a queued message; stop marks the end of the queue
type item struct {
	msg  message.Message
	stop bool
}

// Queue delivers messages from one worker goroutine. Send never blocks on
// I/O; Finish waits until everything sent before it has been handled.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []item
	closed bool

	router *Router
	logger zerolog.Logger
	done   chan struct{}
	// errs is written by the worker only and read after done is closed
	errs []error
}

// NewQueue creates the router for cfg and starts the worker
func NewQueue(cfg config.OutputConfig, opts ...Option) (*Queue, error) {
	router, err := NewRouter(cfg, opts...)
	if err != nil {
		return nil, err
	}

	o := buildOptions("sender.Queue", opts)
	q := &Queue{
		router: router,
		logger: o.logger,
		done:   make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()
	return q, nil
}

// Send enqueues m. After Finish has started the message is dropped.
func (q *Queue) Send(m message.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.logger.Debug().
			Str("intent", m.Intent.String()).
			Msg("Message sent after finish, dropped")
		return nil
	}
	q.items = append(q.items, item{msg: m})
	q.cond.Signal()
	return nil
}

// Finish enqueues the stop marker and blocks until the worker has delivered
// everything before it, closed the destinations and exited. It returns every
// error the worker saw. Later calls wait for the same point and return nil.
func (q *Queue) Finish() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return nil
	}
	q.closed = true
	q.items = append(q.items, item{stop: true})
	q.cond.Signal()
	q.mu.Unlock()

	<-q.done
	return stderrors.Join(q.errs...)
}

func (q *Queue) next() item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 {
		q.cond.Wait()
	}
	it := q.items[0]
	q.items[0] = item{}
	q.items = q.items[1:]
	return it
}

func (q *Queue) run() {
	defer close(q.done)
	q.logger.Debug().Msg("Worker started")

	for {
		it := q.next()
		if it.stop {
			if err := q.router.Finish(); err != nil {
				q.errs = append(q.errs, err)
			}
			q.logger.Debug().Int("errors", len(q.errs)).Msg("Worker stopped")
			return
		}
		if err := q.router.Send(it.msg); err != nil {
			q.logger.Error().
				Err(err).
				Str("intent", it.msg.Intent.String()).
				Msg("Message delivery failed")
			q.errs = append(q.errs, err)
		}
	}
}
