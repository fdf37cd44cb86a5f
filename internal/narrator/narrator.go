package narrator

import (
	"context"
	"strings"
	"sync"
	"time"

	"clock-tutor-service/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Sink plays a finished clip, typically by pushing it to a client.
type Sink interface {
	Play(clip Clip)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Clip)

func (f SinkFunc) Play(c Clip) { f(c) }

// ClipCache stores clips by their text.
type ClipCache interface {
	Get(ctx context.Context, text string) (Clip, bool, error)
	Put(ctx context.Context, clip Clip) error
}

// Narrator dispatches speech in the background. Failures never reach the
// caller; they are logged and the utterance is dropped.
type Narrator struct {
	synth   Synthesizer
	cache   ClipCache
	timeout time.Duration
	log     *logging.Logger

	sf singleflight.Group
	wg sync.WaitGroup
}

// New returns a narrator; a nil synthesizer gives a silent one.
func New(synth Synthesizer, cache ClipCache, timeout time.Duration, log *logging.Logger) *Narrator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Narrator{synth: synth, cache: cache, timeout: timeout, log: log}
}

// Disabled reports whether Say is a no-op.
func (n *Narrator) Disabled() bool { return n == nil || n.synth == nil }

// Say synthesizes text and hands the clip to sink without blocking.
func (n *Narrator) Say(sink Sink, text string) {
	text = strings.TrimSpace(text)
	if n.Disabled() || text == "" || sink == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		clip, err := n.Clip(ctx, text)
		if err != nil {
			n.log.Warn("narration dropped", "text", text, "err", err)
			return
		}
		sink.Play(clip)
	}()
}

// Clip returns the cached clip for text or synthesizes it. Concurrent calls
// for the same text share one synthesis.
func (n *Narrator) Clip(ctx context.Context, text string) (Clip, error) {
	if n.cache != nil {
		clip, ok, err := n.cache.Get(ctx, text)
		if err != nil {
			n.log.Warn("clip cache read", "err", err)
		} else if ok {
			return clip, nil
		}
	}

	result, err, _ := n.sf.Do(text, func() (interface{}, error) {
		clip, err := n.synth.Synthesize(ctx, text)
		if err != nil {
			return Clip{}, err
		}
		if n.cache != nil {
			if err := n.cache.Put(ctx, clip); err != nil {
				n.log.Warn("clip cache write", "err", err)
			}
		}
		return clip, nil
	})
	if err != nil {
		return Clip{}, err
	}
	return result.(Clip), nil
}

// Wait blocks until every in-flight Say has finished.
func (n *Narrator) Wait() {
	if n == nil {
		return
	}
	n.wg.Wait()
}
