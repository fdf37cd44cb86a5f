package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"clock-tutor-service/internal/narrator"
	"github.com/redis/go-redis/v9"
)

// ClipCache stores synthesized clips in Redis, one hash per phrase:
// HSET narration:clip:{sha256(text)} text .. pcm .. rate .. channels ..
type ClipCache struct {
	client *redis.Client
	ttl    time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewClipCache(client *redis.Client, ttl time.Duration) *ClipCache {
	return &ClipCache{
		client: client,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ClipCache) Get(ctx context.Context, text string) (narrator.Clip, bool, error) {
	fields, err := c.client.HGetAll(ctx, clipKey(text)).Result()
	if err != nil {
		return narrator.Clip{}, false, err
	}
	// a hash collision or partial write is treated as a miss
	if len(fields) == 0 || fields["text"] != text {
		return narrator.Clip{}, false, nil
	}
	rate, _ := strconv.Atoi(fields["rate"])
	channels, _ := strconv.Atoi(fields["channels"])
	return narrator.Clip{
		Text:       text,
		PCM:        []byte(fields["pcm"]),
		SampleRate: rate,
		Channels:   channels,
	}, true, nil
}

func (c *ClipCache) Put(ctx context.Context, clip narrator.Clip) error {
	key := clipKey(clip.Text)
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key,
		"text", clip.Text,
		"pcm", clip.PCM,
		"rate", clip.SampleRate,
		"channels", clip.Channels,
	)
	if ttl := c.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func clipKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "narration:clip:" + hex.EncodeToString(sum[:])
}

func (c *ClipCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
