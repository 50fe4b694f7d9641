package radixkv

import (
	"sync"
	"time"

	"github.com/flier/radixkv/pkg/opt"
	"github.com/flier/radixkv/pkg/tuple"
)

// Locked wraps a Tree behind a sync.RWMutex, the external exclusive lock
// this store's concurrency model requires for multi-goroutine use. All
// methods take the lock for their whole duration; there is no API for
// holding the lock across multiple calls, by design, since this store
// gives no cursor or iterator that could outlive a single call anyway.
type Locked struct {
	mu   sync.RWMutex
	tree *Tree
}

// NewLocked wraps an empty Tree in a Locked, with its virtual clock
// initialized to the current wall-clock time so SetTTL/Expire calls are
// meaningful immediately, before any driver has ticked it.
func NewLocked() *Locked {
	tree := New()
	tree.SetNow(time.Now().UnixNano())
	return &Locked{tree: tree}
}

// SetTTL stores value under key with an expiry ttlNanos after the tree's
// current virtual clock.
func (l *Locked) SetTTL(key []byte, value Value, ttlNanos int64) opt.Option[Value] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.SetTTL(key, value, ttlNanos)
}

func (l *Locked) Get(key []byte) opt.Option[Value] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Get(key)
}

func (l *Locked) Set(key []byte, value Value) opt.Option[Value] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Set(key, value)
}

func (l *Locked) Del(key []byte) opt.Option[Value] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Del(key)
}

func (l *Locked) GetN(prefix []byte) []tuple.Tuple2[[]byte, Value] {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.GetN(prefix)
}

func (l *Locked) DelN(prefix []byte) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.DelN(prefix)
}

func (l *Locked) GetTTL(key []byte) (int64, TTLStatus) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.GetTTL(key)
}

func (l *Locked) Expire(key []byte, ttlNanos int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Expire(key, ttlNanos)
}

func (l *Locked) Persist(key []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Persist(key)
}

func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// tick runs the clock-advance-and-evict step the Driver calls
// periodically; unexported because external callers only ever need it
// through the Driver's timer, never directly.
func (l *Locked) tick() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.Tick(time.Now().UnixNano())
	return l.tree.EvictExpired()
}

// Driver periodically ticks a Locked tree's virtual clock and runs
// sampled TTL eviction in the background, the async clock/evictor
// collaborator this store's design leaves external. It is a thin
// time.Ticker loop, not a new scheduling abstraction.
type Driver struct {
	stop chan struct{}
	done chan struct{}
}

// Shared returns a Locked tree plus a Driver that ticks it every
// interval. Call Stop to shut the driver down.
func Shared(interval time.Duration) (*Locked, *Driver) {
	l := NewLocked()
	d := &Driver{stop: make(chan struct{}), done: make(chan struct{})}

	go d.run(l, interval)

	return l, d
}

func (d *Driver) run(l *Locked, interval time.Duration) {
	defer close(d.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			l.tick()
		}
	}
}

// Stop halts the driver's background ticking and waits for its goroutine
// to exit.
func (d *Driver) Stop() {
	close(d.stop)
	<-d.done
}
