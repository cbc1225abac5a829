package botkit

import (
	"context"
	"log"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"albot/internal/metrics"
)

type Options struct {
	// Metrics is optional.
	Metrics *metrics.Metrics
	// ReplyRate is the number of commands per second accepted from one
	// channel. Zero or less disables the limit.
	ReplyRate  float64
	ReplyBurst int
}

type Bot struct {
	cmdViews map[string]ViewFunc
	metrics  *metrics.Metrics

	replyRate  rate.Limit
	replyBurst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	// sweepAt is the limiter count at which idle limiters are dropped.
	sweepAt int
}

const defaultSweepAt = 1024

func New(opts Options) *Bot {
	b := &Bot{
		cmdViews:   make(map[string]ViewFunc),
		metrics:    opts.Metrics,
		replyRate:  rate.Inf,
		replyBurst: opts.ReplyBurst,
		limiters:   make(map[string]*rate.Limiter),
		sweepAt:    defaultSweepAt,
	}

	if opts.ReplyRate > 0 {
		b.replyRate = rate.Limit(opts.ReplyRate)
	}
	if b.replyBurst <= 0 {
		b.replyBurst = 1
	}

	return b
}

func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	if b.cmdViews == nil {
		b.cmdViews = make(map[string]ViewFunc)
	}

	b.cmdViews[Fold(cmd)] = view
}

func (b *Bot) GetCmdView(cmd string) (ViewFunc, bool) {
	view, ok := b.cmdViews[Fold(cmd)]
	return view, ok
}

// Commands returns the registered command names in alphabetical order.
func (b *Bot) Commands() []string {
	names := lo.Keys(b.cmdViews)
	slices.Sort(names)
	return names
}

// HandleCommand runs the view registered for inv.Command. Unknown commands
// are ignored. A failing view is logged and answered with "Internal error".
func (b *Bot) HandleCommand(ctx context.Context, inv *Invocation) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered in command %q: %v\n%s", inv.Command, p, string(debug.Stack()))
			b.observe(func(m *metrics.Metrics) { m.CommandErrors.Observe(1, inv.Command, inv.Platform) })
		}
	}()

	view, ok := b.GetCmdView(inv.Command)
	if !ok {
		return
	}

	if !b.allow(inv) {
		log.Printf("[WARN] dropping command %q in channel %s: reply rate exceeded", inv.Command, inv.ChannelID())
		b.observe(func(m *metrics.Metrics) { m.RateLimited.Observe(1, inv.Platform) })
		return
	}

	b.observe(func(m *metrics.Metrics) { m.CommandCount.Observe(1, inv.Command, inv.Platform) })
	start := time.Now()

	err := view(ctx, inv)

	b.observe(func(m *metrics.Metrics) { m.CommandLatency.Observe(time.Since(start).Seconds(), inv.Command) })

	if err != nil {
		log.Printf("[ERROR] failed to execute view %q: %v", inv.Command, err)
		b.observe(func(m *metrics.Metrics) { m.CommandErrors.Observe(1, inv.Command, inv.Platform) })

		if err := inv.Send("Internal error"); err != nil {
			log.Printf("[ERROR] failed to send error message: %v", err)
		}
	}
}

func (b *Bot) allow(inv *Invocation) bool {
	if b.replyRate == rate.Inf {
		return true
	}

	key := inv.Platform + ":" + inv.ChannelID()

	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.limiters[key]
	if !ok {
		if len(b.limiters) >= b.sweepAt {
			b.sweepLimiters(time.Now())
		}

		l = rate.NewLimiter(b.replyRate, b.replyBurst)
		b.limiters[key] = l
	}

	return l.Allow()
}

// sweepLimiters drops limiters whose bucket has refilled; they behave like
// new ones. The caller holds b.mu.
func (b *Bot) sweepLimiters(now time.Time) {
	full := float64(b.replyBurst)

	for key, l := range b.limiters {
		if l.TokensAt(now) >= full {
			delete(b.limiters, key)
		}
	}

	if len(b.limiters) >= b.sweepAt {
		b.sweepAt *= 2
	}
}

func (b *Bot) observe(f func(m *metrics.Metrics)) {
	if b.metrics != nil {
		f(b.metrics)
	}
}

type ViewFunc func(ctx context.Context, inv *Invocation) error
