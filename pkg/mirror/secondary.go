package mirror

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/otpmirror/pkg/async"
	"github.com/dmitrymomot/otpmirror/pkg/broadcast"
	"github.com/dmitrymomot/otpmirror/pkg/kvstore"
	"github.com/dmitrymomot/otpmirror/pkg/link"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
	"github.com/dmitrymomot/otpmirror/pkg/otp"
	"github.com/dmitrymomot/otpmirror/pkg/snapshot"
)

// CacheKey is the kvstore key of the persisted snapshot batch.
const CacheKey = "codeInfos"

// UpdateReason says why the secondary's view changed.
type UpdateReason string

const (
	UpdateBatch      UpdateReason = "batch"
	UpdatePrediction UpdateReason = "prediction"
)

// Update notifies presentation layers that Display would return something
// new.
type Update struct {
	Reason       UpdateReason
	CredentialID string // set for UpdatePrediction
	At           time.Time
}

// Secondary caches the latest batch pushed by the primary.
type Secondary struct {
	link  link.Link
	store kvstore.Store
	opts  options
	log   *slog.Logger

	persistMu sync.Mutex

	mu         sync.RWMutex
	batch      []snapshot.CodeSnapshot
	index      map[string]int
	predicted  map[string]uint64
	generation uint64

	updates  *broadcast.Memory[Update]
	run      runner
	inflight async.Inflight
}

// NewSecondary returns a coordinator talking to the primary over l and
// persisting its cache in store. A nil store keeps the cache in memory.
func NewSecondary(l link.Link, store kvstore.Store, opts ...Option) *Secondary {
	o := newOptions(DefaultRequestInterval, opts)
	if store == nil {
		store = kvstore.NewMemory()
	}
	return &Secondary{
		link:      l,
		store:     store,
		opts:      o,
		log:       logger.OrNop(o.log).With(logger.Component("mirror"), logger.Role("secondary")),
		index:     map[string]int{},
		predicted: map[string]uint64{},
		updates:   broadcast.NewMemory[Update](8),
	}
}

// Load restores the persisted batch. Snapshots keep the arrival time they
// were stamped with, so a cache older than its freshness window is masked.
func (s *Secondary) Load(ctx context.Context) error {
	var batch []snapshot.CodeSnapshot
	found, err := kvstore.GetJSON(ctx, s.store, CacheKey, &batch)
	if err != nil {
		return errors.Join(ErrLoad, err)
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	s.replace(batch)
	s.mu.Unlock()

	s.log.InfoContext(ctx, "restored snapshot cache", logger.Count(len(batch)))
	s.updates.Publish(Update{Reason: UpdateBatch, At: s.opts.clock.Now()})
	return nil
}

// Start loads the persisted cache, then asks the primary for an update
// immediately and on every tick. It blocks until ctx is done or Stop is
// called. A Secondary can be started once.
func (s *Secondary) Start(ctx context.Context) error {
	ctx, end, err := s.run.begin(ctx)
	if err != nil {
		return err
	}
	defer end()

	if err := s.Load(ctx); err != nil {
		s.log.WarnContext(ctx, "starting with an empty cache", logger.Error(err))
	}

	ticker := s.opts.clock.NewTicker(s.opts.interval)
	defer ticker.Stop()

	s.log.InfoContext(ctx, "secondary started", logger.Duration(s.opts.interval))
	s.RequestUpdate(ctx)

	for {
		select {
		case <-ctx.Done():
			s.inflight.Wait()
			s.log.InfoContext(ctx, "secondary stopped")
			return nil
		case <-ticker.C():
			s.RequestUpdate(ctx)
		}
	}
}

// Stop ends Start and waits for in-flight sends.
func (s *Secondary) Stop() {
	s.run.stop()
}

// Close releases update subscribers.
func (s *Secondary) Close() error {
	return s.updates.Close()
}

// RequestUpdate asks the primary for a fresh batch in the background. An
// unreachable peer completes the future with link.ErrUnreachable.
func (s *Secondary) RequestUpdate(ctx context.Context) *async.Future[struct{}] {
	return s.inflight.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.opts.sendTimeout)
		defer cancel()

		if !s.link.Reachable(ctx) {
			s.log.DebugContext(ctx, "peer unreachable, skipping update request")
			return link.ErrUnreachable
		}
		if err := s.link.Send(ctx, link.RequestUpdate()); err != nil {
			s.log.WarnContext(ctx, "update request failed", logger.Error(err))
			return err
		}
		return nil
	})
}

// Receive replaces the cache with batch. Every snapshot is stamped with the
// local arrival time, unconfirmed counter predictions are dropped and
// subscribers are notified. A persistence failure is reported after the
// in-memory cache has been replaced.
func (s *Secondary) Receive(ctx context.Context, batch []snapshot.CodeSnapshot) error {
	now := s.opts.clock.Now()
	stamped := snapshot.Stamp(batch, now)

	s.mu.Lock()
	s.replace(stamped)
	gen := s.generation
	s.mu.Unlock()

	s.log.DebugContext(ctx, "received snapshots", logger.Count(len(stamped)))
	s.updates.Publish(Update{Reason: UpdateBatch, At: now})

	if err := s.persist(ctx, gen, stamped); err != nil {
		s.log.WarnContext(ctx, "failed to persist snapshot cache", logger.Error(err))
		return errors.Join(ErrPersist, err)
	}
	return nil
}

// persist writes batch unless a newer one has replaced it in the meantime;
// the newer batch persists itself. Writes are serialized so an older batch
// never overwrites a newer one in the store.
func (s *Secondary) persist(ctx context.Context, gen uint64, batch []snapshot.CodeSnapshot) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	superseded := s.generation != gen
	s.mu.RUnlock()
	if superseded {
		return nil
	}
	return kvstore.SetJSON(ctx, s.store, CacheKey, batch)
}

// Advance asks the primary to move an HOTP counter forward by one and
// records the expected counter until the next batch confirms it. Only fresh
// HOTP snapshots can be advanced.
func (s *Secondary) Advance(ctx context.Context, id string) error {
	now := s.opts.clock.Now()

	s.mu.RLock()
	snap, ok := s.lookup(id)
	s.mu.RUnlock()

	switch {
	case !ok:
		return ErrUnknownSnapshot
	case snap.Kind != otp.KindHOTP:
		return ErrNotHOTP
	case !snapshot.IsFresh(snap, now):
		return ErrStale
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.sendTimeout)
	defer cancel()

	if !s.link.Reachable(ctx) {
		return link.ErrUnreachable
	}

	var confirmed uint64
	if snap.Counter != nil {
		confirmed = *snap.Counter
	}

	// The confirming batch can arrive before Send returns, so the prediction
	// is recorded first and tied to the current batch. Repeated advances
	// without a batch in between build on the pending prediction.
	s.mu.Lock()
	gen := s.generation
	prev, pending := s.predicted[id]
	if pending {
		confirmed = prev
	}
	s.predicted[id] = confirmed + 1
	s.mu.Unlock()

	if err := s.link.Send(ctx, link.IncrementCounter(id)); err != nil {
		s.mu.Lock()
		if s.generation == gen {
			if pending {
				s.predicted[id] = prev
			} else {
				delete(s.predicted, id)
			}
		}
		s.mu.Unlock()
		s.log.WarnContext(ctx, "increment request failed", logger.CredentialID(id), logger.Error(err))
		return err
	}

	s.updates.Publish(Update{Reason: UpdatePrediction, CredentialID: id, At: now})
	return nil
}

// HandleMessage accepts push batches. Control messages are ignored.
func (s *Secondary) HandleMessage(ctx context.Context, m link.Message) error {
	if m.Push == nil {
		s.log.DebugContext(ctx, "ignoring non-push message")
		return nil
	}
	return s.Receive(ctx, m.Push.CodeInfos)
}

// Snapshots returns a copy of the cached batch in the primary's order.
func (s *Secondary) Snapshots() []snapshot.CodeSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.batch)
}

func (s *Secondary) Lookup(id string) (snapshot.CodeSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(id)
}

// IsFresh reports whether snapshot id exists and is fresh now.
func (s *Secondary) IsFresh(id string) bool {
	snap, ok := s.Lookup(id)
	return ok && snapshot.IsFresh(snap, s.opts.clock.Now())
}

// Predicted returns the unconfirmed counter recorded by Advance.
func (s *Secondary) Predicted(id string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.predicted[id]
	return c, ok
}

// Display renders every cached snapshot at now.
func (s *Secondary) Display(now time.Time) []snapshot.DisplayRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]snapshot.DisplayRow, len(s.batch))
	for i, snap := range s.batch {
		rows[i] = snapshot.Render(snap, now)
		if c, ok := s.predicted[snap.ID]; ok && rows[i].Fresh {
			rows[i].PredictedCounter = &c
		}
	}
	return rows
}

// Subscribe returns a subscriber notified after every change to the view.
func (s *Secondary) Subscribe(ctx context.Context) broadcast.Subscriber[Update] {
	return s.updates.Subscribe(ctx)
}

// replace swaps in batch and drops predictions. Must hold s.mu.
func (s *Secondary) replace(batch []snapshot.CodeSnapshot) {
	s.batch = batch
	s.index = make(map[string]int, len(batch))
	for i, snap := range batch {
		s.index[snap.ID] = i
	}
	clear(s.predicted)
	s.generation++
}

// Must hold s.mu.
func (s *Secondary) lookup(id string) (snapshot.CodeSnapshot, bool) {
	i, ok := s.index[id]
	if !ok {
		return snapshot.CodeSnapshot{}, false
	}
	return s.batch[i], true
}

var _ link.Receiver = (*Secondary)(nil)
