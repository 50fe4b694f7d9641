package radixkv_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flier/radixkv"
)

func TestTTLLazyExpiry(t *testing.T) {
	tr := radixkv.New()
	tr.SetNow(1000)

	tr.SetTTL([]byte("k"), radixkv.NewValue([]byte("v")), 500)

	remaining, status := tr.GetTTL([]byte("k"))
	require.Equal(t, radixkv.HasTTL, status)
	assert.Equal(t, int64(500), remaining)

	tr.SetNow(1600) // past expiry, but no active eviction has run yet
	assert.True(t, tr.Get([]byte("k")).IsNone(), "expired key must be filtered lazily by Get")

	_, status = tr.GetTTL([]byte("k"))
	assert.Equal(t, radixkv.NoKey, status)
}

func TestExpireAndPersist(t *testing.T) {
	tr := radixkv.New()
	tr.SetNow(0)
	tr.Set([]byte("k"), radixkv.NewValue([]byte("v")))

	_, status := tr.GetTTL([]byte("k"))
	require.Equal(t, radixkv.NoTTL, status)

	require.True(t, tr.Expire([]byte("k"), 100))
	_, status = tr.GetTTL([]byte("k"))
	require.Equal(t, radixkv.HasTTL, status)

	require.True(t, tr.Persist([]byte("k")))
	_, status = tr.GetTTL([]byte("k"))
	assert.Equal(t, radixkv.NoTTL, status)
}

func TestClockRegressionIsAccepted(t *testing.T) {
	tr := radixkv.New()
	tr.SetNow(1000)
	tr.SetTTL([]byte("k"), radixkv.NewValue([]byte("v")), 10)

	// Regressing the clock below the expiry must not error or panic, and
	// must simply make the key look unexpired again.
	assert.NotPanics(t, func() { tr.SetNow(500) })
	assert.True(t, tr.Get([]byte("k")).IsSome())
}

func TestEvictExpiredConverges(t *testing.T) {
	tr := radixkv.New()
	tr.SetNow(0)

	const n = 500
	for i := 0; i < n; i++ {
		k := []byte{byte(i), byte(i >> 8)}
		tr.SetTTL(k, radixkv.NewValue([]byte("v")), int64(rand.Intn(100)))
	}

	tr.SetNow(1000) // every entry's TTL has elapsed by now

	evicted := 0
	for rounds := 0; rounds < 1000 && tr.Len() > 0; rounds++ {
		evicted += tr.EvictExpired()
	}

	assert.Equal(t, n, evicted, "sampled eviction should eventually reclaim every expired entry")
	assert.Equal(t, 0, tr.Len())
}

func TestTickDrivesEviction(t *testing.T) {
	l, d := radixkv.Shared(10 * time.Millisecond)
	defer d.Stop()

	l.SetTTL([]byte("k"), radixkv.NewValue([]byte("v")), int64(time.Millisecond))

	require.Eventually(t, func() bool {
		return l.Get([]byte("k")).IsNone()
	}, time.Second, 5*time.Millisecond)
}
