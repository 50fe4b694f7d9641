package radixkv

import "math/rand"

// samplesPerRound and the 25% threshold below match Redis's own
// probabilistic active-expiry cycle: sample a fixed batch, and keep
// sampling as long as a large share of the last batch turned out to be
// expired, since that's a signal more expired keys are still clustered in
// the tagged set.
const (
	samplesPerRound  = 20
	expiredThreshold = 0.25
)

// SetNow sets the tree's virtual clock, used to decide whether a TTL
// entry has expired. now is nanoseconds on whatever epoch the caller
// chooses to be consistent about (typically time.Now().UnixNano()).
//
// now may be less than the previously set value: regressing the clock is
// accepted without error, matching the reference behavior this store's
// TTL model is drawn from. A caller that needs monotonic time should
// enforce that itself before calling SetNow.
func (t *Tree) SetNow(now int64) { t.now = now }

// Now returns the tree's current virtual clock value.
func (t *Tree) Now() int64 { return t.now }

// Tick advances the virtual clock to now, the operation a background
// driver calls on a timer before running EvictExpired.
func (t *Tree) Tick(now int64) { t.SetNow(now) }

// Expire sets key's absolute expiry to the tree's current clock plus
// ttlNanos, reports whether key was present.
func (t *Tree) Expire(key []byte, ttlNanos int64) bool {
	idx, ok := t.find(key)
	if !ok {
		return false
	}
	n := t.get(idx)
	if !n.hasValue || t.isExpired(n) {
		return false
	}

	if n.expiry != 0 {
		t.tagged.Untag(idx)
	}

	expiry := t.now + ttlNanos
	if expiry == 0 {
		expiry = 1
	}
	n.expiry = expiry
	t.tagged.Tag(idx)
	return true
}

// Persist clears key's TTL, making it permanent. Reports whether key was
// present and previously had a TTL.
func (t *Tree) Persist(key []byte) bool {
	idx, ok := t.find(key)
	if !ok {
		return false
	}
	n := t.get(idx)
	if !n.hasValue || t.isExpired(n) || n.expiry == 0 {
		return false
	}

	t.tagged.Untag(idx)
	n.expiry = 0
	return true
}

// GetTTL reports key's remaining lifetime in nanoseconds and its status:
// NoKey if absent or already expired, NoTTL if permanent, HasTTL with the
// remaining nanoseconds otherwise. An entry whose expiry has passed reports
// NoKey even before eviction has removed it.
func (t *Tree) GetTTL(key []byte) (int64, TTLStatus) {
	idx, ok := t.find(key)
	if !ok {
		return 0, NoKey
	}
	n := t.get(idx)
	if !n.hasValue || t.isExpired(n) {
		return 0, NoKey
	}
	if n.expiry == 0 {
		return 0, NoTTL
	}

	remaining := n.expiry - t.now
	if remaining < 0 {
		remaining = 0
	}
	return remaining, HasTTL
}

// EvictExpired actively reclaims expired entries using a Redis-style
// sampled sweep: sample a fixed batch of tagged (TTL-bearing) entries,
// evict the expired ones, and repeat while at least 25% of the last
// batch was expired (a sign the tagged set is still dense with expired
// entries). It returns the number of entries evicted.
func (t *Tree) EvictExpired() int {
	evicted := 0

	for {
		if t.tagged.Len() == 0 {
			return evicted
		}

		sampled := 0
		expiredInRound := 0
		seen := make(map[uint32]bool, samplesPerRound)

		for i := 0; i < samplesPerRound && i < t.tagged.Len(); i++ {
			idx, ok := t.tagged.Sample(rand.Intn)
			if !ok {
				break
			}
			if seen[idx] {
				continue
			}
			seen[idx] = true
			sampled++

			n := t.get(idx)
			if t.isExpired(n) {
				expiredInRound++
				t.evictNode(idx)
				evicted++
			}
		}

		if sampled == 0 || float64(expiredInRound)/float64(sampled) < expiredThreshold {
			return evicted
		}
	}
}

// evictNode drops idx's value (it has already been confirmed expired)
// and prunes/recompresses the tree the same way Del does.
func (t *Tree) evictNode(idx uint32) {
	n := t.get(idx)
	n.hasValue = false
	n.expiry = 0
	t.tagged.Untag(idx)
	t.size--

	t.pruneFrom(idx)
}
