package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"clock-tutor-service/internal/narrator"
)

// ClipCache keeps synthesized clips in process with a TTL so repeated
// phrases do not hit the speech API again.
type ClipCache struct {
	ttl   time.Duration
	clock func() time.Time
	rnd   *rand.Rand

	mu    sync.RWMutex
	clips map[string]cachedClip
}

type cachedClip struct {
	clip      narrator.Clip
	expiresAt time.Time
}

func NewClipCache(ttl time.Duration) *ClipCache {
	return newClipCacheWithClock(ttl, time.Now)
}

func newClipCacheWithClock(ttl time.Duration, clock func() time.Time) *ClipCache {
	return &ClipCache{
		ttl:   ttl,
		clock: clock,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		clips: make(map[string]cachedClip),
	}
}

func (c *ClipCache) Get(_ context.Context, text string) (narrator.Clip, bool, error) {
	now := c.clock()
	c.mu.RLock()
	entry, ok := c.clips[text]
	c.mu.RUnlock()
	if !ok {
		return narrator.Clip{}, false, nil
	}
	if c.ttl > 0 && !entry.expiresAt.After(now) {
		c.mu.Lock()
		delete(c.clips, text)
		c.mu.Unlock()
		return narrator.Clip{}, false, nil
	}
	return entry.clip, true, nil
}

func (c *ClipCache) Put(_ context.Context, clip narrator.Clip) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clips[clip.Text] = cachedClip{clip: clip, expiresAt: c.clock().Add(c.ttlWithJitter())}
	return nil
}

func (c *ClipCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clips)
}

func (c *ClipCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
