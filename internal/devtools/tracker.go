// Package devtools traces chart renders: timed pipeline stages, processed-data
// cache lookups and the Redis commands behind them.
package devtools

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLimit = 500

// Kind classifies a trace event.
type Kind int

const (
	// KindStage is one timed step of a chart render.
	KindStage Kind = iota
	// KindLookup is a processed-data cache lookup.
	KindLookup
	// KindRedis is a Redis command or pipeline.
	KindRedis
)

func (k Kind) String() string {
	switch k {
	case KindStage:
		return "stage"
	case KindLookup:
		return "cache"
	case KindRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// Event is one traced step.
type Event struct {
	Seq      uint64
	Time     time.Time
	Origin   string
	Kind     Kind
	Name     string
	Duration time.Duration
	// Err is the command error text, empty on success and for redis.Nil.
	Err string
}

func (e Event) String() string {
	line := fmt.Sprintf("#%d %6s %-5s %-12s %s", e.Seq, formatDuration(e.Duration), e.Kind, e.Origin, e.Name)
	if e.Err != "" {
		line += " (" + e.Err + ")"
	}
	return line
}

// Tracker keeps the most recent events. A nil *Tracker discards everything.
type Tracker struct {
	mu     sync.Mutex
	limit  int
	events []Event
	next   int
	seq    uint64
}

// NewTracker creates a tracker holding up to limit events.
// A non-positive limit selects the default.
func NewTracker(limit int) *Tracker {
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Tracker{limit: limit}
}

type originKey struct{}

// WithOrigin labels events recorded under ctx.
func WithOrigin(ctx context.Context, origin string) context.Context {
	if origin == "" {
		return ctx
	}
	return context.WithValue(ctx, originKey{}, origin)
}

func originOf(ctx context.Context) string {
	if ctx != nil {
		if origin, ok := ctx.Value(originKey{}).(string); ok {
			return origin
		}
	}
	return "-"
}

// Events returns the retained events, oldest first.
func (t *Tracker) Events() []Event {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.events) == 0 {
		return nil
	}
	out := make([]Event, 0, len(t.events))
	if len(t.events) < t.limit {
		return append(out, t.events...)
	}
	out = append(out, t.events[t.next:]...)
	return append(out, t.events[:t.next]...)
}

func (t *Tracker) add(ctx context.Context, e Event) {
	if t == nil {
		return
	}
	e.Time = time.Now()
	e.Origin = originOf(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	e.Seq = t.seq
	t.seq++
	if len(t.events) < t.limit {
		t.events = append(t.events, e)
		return
	}
	t.events[t.next] = e
	t.next = (t.next + 1) % t.limit
}

// Stage records a render step that began at start.
func (t *Tracker) Stage(ctx context.Context, name string, start time.Time) {
	t.add(ctx, Event{Kind: KindStage, Name: name, Duration: time.Since(start)})
}

// Lookup records a cache lookup of key in tier.
func (t *Tracker) Lookup(ctx context.Context, tier, key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	t.add(ctx, Event{Kind: KindLookup, Name: tier + " " + result + " " + key})
}

// Hook returns a go-redis hook that records every command.
func (t *Tracker) Hook() redis.Hook {
	return hook{t: t}
}

type hook struct {
	t *Tracker
}

func (h hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.t.add(ctx, Event{Kind: KindRedis, Name: commandLine(cmd), Duration: time.Since(start), Err: errText(err)})
		return err
	}
}

// ProcessPipelineHook records a pipeline as one event listing its commands.
func (h hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if len(cmds) == 0 {
			return err
		}
		lines := make([]string, len(cmds))
		for i, cmd := range cmds {
			lines[i] = commandLine(cmd)
		}
		h.t.add(ctx, Event{
			Kind:     KindRedis,
			Name:     "pipeline[" + strings.Join(lines, "; ") + "]",
			Duration: time.Since(start),
			Err:      errText(err),
		})
		return err
	}
}

func errText(err error) string {
	if err == nil || errors.Is(err, redis.Nil) {
		return ""
	}
	return err.Error()
}

// commandLine prints cmd with payloads reduced to their size, since stored
// frames are whole JSON documents.
func commandLine(cmd redis.Cmder) string {
	var b strings.Builder
	for i, arg := range cmd.Args() {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch v := arg.(type) {
		case []byte:
			fmt.Fprintf(&b, "<%d bytes>", len(v))
		case string:
			if len(v) > 256 {
				fmt.Fprintf(&b, "<%d bytes>", len(v))
			} else {
				b.WriteString(v)
			}
		default:
			fmt.Fprint(&b, v)
		}
	}
	if b.Len() == 0 {
		return cmd.Name()
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d == 0:
		return "-"
	case d < time.Millisecond:
		return fmt.Sprintf("%dus", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
