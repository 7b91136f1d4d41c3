package listener

import (
	"context"
	"sync"
)

// responseBuffer caps queued responses per connection. Solver output
// is tiny relative to solve times, so this never fills in practice.
const responseBuffer = 100

// session is the per-connection state: the response channel drained by
// the writer goroutine and the registry of cancel functions for
// operations still in flight.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	out    chan any
	wg     sync.WaitGroup

	mu      sync.Mutex
	pending map[int]context.CancelFunc
}

func newSession() *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		ctx:     ctx,
		cancel:  cancel,
		out:     make(chan any, responseBuffer),
		pending: make(map[int]context.CancelFunc),
	}
}

// send queues a response for the writer. Once the connection is going
// away the message is dropped instead of blocking a worker.
func (s *session) send(msg any) {
	select {
	case s.out <- msg:
	case <-s.ctx.Done():
	}
}

func (s *session) register(nonce int, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[nonce] = cancel
}

func (s *session) unregister(nonce int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, nonce)
}

// cancelNonce stops the operation registered under nonce. Cancelling a
// nonce that already finished is not an error; the client races the
// solver and often loses.
func (s *session) cancelNonce(nonce int) {
	s.mu.Lock()
	cancel := s.pending[nonce]
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// close stops all in-flight work, waits for the workers to drain, then
// closes the response channel so the writer can exit.
func (s *session) close() {
	s.cancel()
	s.wg.Wait()
	close(s.out)
}
