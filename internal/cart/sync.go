package cart

import (
	"context"
	"sync"
	"time"

	"backend/internal/utils"
)

// ItemStore is the persistence side of the sync queue, implemented by the
// session item repository. ReplaceItems must upsert every line keyed by
// (session_id, item_type, item_id) and delete lines no longer present.
type ItemStore interface {
	ReplaceItems(ctx context.Context, sessionID int64, items []Item, totalCents int64) error
}

// Syncer mirrors cart snapshots into checkout_session_items. The cart's
// client-side state stays authoritative: a sync that exhausts its retries is
// logged and dropped, never surfaced to the checkout flow.
type Syncer struct {
	store      ItemStore
	queue      chan State
	maxRetries int
	baseDelay  time.Duration
	requestID  string

	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	pending map[int64]State // latest snapshot per session, coalesced
}

type SyncerOption func(*Syncer)

func WithMaxRetries(n int) SyncerOption {
	return func(s *Syncer) { s.maxRetries = n }
}

func WithBaseDelay(d time.Duration) SyncerOption {
	return func(s *Syncer) { s.baseDelay = d }
}

func NewSyncer(store ItemStore, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:      store,
		queue:      make(chan State, 64),
		maxRetries: 3,
		baseDelay:  200 * time.Millisecond,
		done:       make(chan struct{}),
		pending:    map[int64]State{},
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.run(ctx)
	return s
}

// Enqueue queues a snapshot for persistence. Snapshots without a session ID
// are dropped silently (nothing to key the rows by yet). A full queue also
// drops: the next mutation enqueues a fresher snapshot anyway.
func (s *Syncer) Enqueue(state State) {
	if state.SessionID == 0 {
		return
	}
	select {
	case s.queue <- state:
	default:
		utils.LogEvent(s.requestID, "cart", "sync_enqueue", "queue full, snapshot dropped")
	}
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			s.drain()
			return
		case state := <-s.queue:
			s.coalesce(state)
			s.flush(ctx)
		}
	}
}

// coalesce folds queued snapshots so only the newest per session is written.
func (s *Syncer) coalesce(first State) {
	s.mu.Lock()
	s.pending[first.SessionID] = first
	s.mu.Unlock()
	for {
		select {
		case more := <-s.queue:
			s.mu.Lock()
			s.pending[more.SessionID] = more
			s.mu.Unlock()
		default:
			return
		}
	}
}

func (s *Syncer) flush(ctx context.Context) {
	s.mu.Lock()
	batch := s.pending
	s.pending = map[int64]State{}
	s.mu.Unlock()

	for sessionID, state := range batch {
		s.syncOne(ctx, sessionID, state)
	}
}

func (s *Syncer) syncOne(ctx context.Context, sessionID int64, state State) {
	delay := s.baseDelay
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
		}
		err := s.store.ReplaceItems(ctx, sessionID, state.Items, state.TotalCents)
		if err == nil {
			return
		}
		utils.LogEvent(s.requestID, "cart", "sync", "replace items failed: "+err.Error())
	}
	utils.LogEvent(s.requestID, "cart", "sync", "giving up after retries; client cart remains source of truth")
}

// drain writes whatever is still queued or coalesced, once, without retries.
func (s *Syncer) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	s.mu.Lock()
	batch := s.pending
	s.pending = map[int64]State{}
	s.mu.Unlock()
	for sessionID, state := range batch {
		if err := s.store.ReplaceItems(ctx, sessionID, state.Items, state.TotalCents); err != nil {
			utils.LogEvent(s.requestID, "cart", "sync_drain", "final flush failed: "+err.Error())
		}
	}

	for {
		select {
		case state := <-s.queue:
			if err := s.store.ReplaceItems(ctx, state.SessionID, state.Items, state.TotalCents); err != nil {
				utils.LogEvent(s.requestID, "cart", "sync_drain", "final flush failed: "+err.Error())
			}
		default:
			return
		}
	}
}

// Close stops the worker and flushes best-effort.
func (s *Syncer) Close() {
	s.cancel()
	<-s.done
}
