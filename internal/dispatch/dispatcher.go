package dispatch

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"greenville/internal/domain"
	"greenville/internal/localcart"
	"greenville/internal/session"
)

// Protocol is the slice of the sync client the dispatcher drives.
type Protocol interface {
	FetchCart(ctx context.Context) ([]domain.LineItem, error)
	SyncCart(ctx context.Context, entries []domain.CartEntry) error
	MergeCart(ctx context.Context, entries []domain.CartEntry) ([]domain.LineItem, error)
}

// Dispatcher connects the local cart store and the session to the sync
// protocol. Item mutations push the full cart to the server, a login
// merges the anonymous cart into the stored one, a session restore pulls
// the stored cart down, and a logout resets local state.
//
// All protocol traffic is serialized through one mutex, so a login merge
// finishes before any mutation-triggered push can observe its result.
type Dispatcher struct {
	store    *localcart.Store
	sess     *session.Session
	protocol Protocol
	logger   *log.Logger
	timeout  time.Duration

	mu sync.Mutex
	wg sync.WaitGroup
}

func New(store *localcart.Store, sess *session.Session, protocol Protocol, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	d := &Dispatcher{
		store:    store,
		sess:     sess,
		protocol: protocol,
		logger:   logger,
		timeout:  15 * time.Second,
	}
	store.Subscribe(d.onMutation)
	sess.OnTransition(d.onTransition)
	return d
}

// Wait blocks until all in-flight background pushes have finished. Call
// on shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) onMutation(m localcart.Mutation) {
	if !d.sess.Authenticated() {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.mu.Lock()
		defer d.mu.Unlock()

		// Re-read at send time: a burst of mutations collapses into pushes
		// of the latest state, and a merge that ran meanwhile is reflected.
		if !d.sess.Authenticated() {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.protocol.SyncCart(ctx, d.store.Entries()); err != nil {
			d.logger.Printf("cart sync after %s: %v", m, err)
		}
	}()
}

func (d *Dispatcher) onTransition(t session.Transition) {
	switch t {
	case session.LoginSuccess:
		// Synchronous on purpose: the merge must complete, and its result
		// must land in the store, before any queued mutation push runs.
		d.mu.Lock()
		defer d.mu.Unlock()
		d.mergeLocked()
	case session.Hydrated:
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.mu.Lock()
			defer d.mu.Unlock()
			d.fetchLocked()
		}()
	case session.LoggedOut:
		d.store.Clear()
	}
}

func (d *Dispatcher) mergeLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	items, err := d.protocol.MergeCart(ctx, d.store.Entries())
	if err == nil {
		d.store.ReplaceAll(items)
		return
	}
	d.logger.Printf("cart merge on login: %v", err)

	// Fall back to pulling the stored cart. If that fails too, the local
	// pre-login cart stays in place untouched.
	d.fetchLocked()
}

func (d *Dispatcher) fetchLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	items, err := d.protocol.FetchCart(ctx)
	if err != nil {
		d.logger.Printf("cart fetch: %v", err)
		return
	}
	d.store.ReplaceAll(items)
}
