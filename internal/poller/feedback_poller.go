package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fadilmartias/recruit-scheduler/internal/usecase"
)

// FeedbackSender is the work done on every tick.
type FeedbackSender interface {
	SendDueRequests(ctx context.Context) (usecase.FeedbackRunStats, error)
}

type Stats struct {
	Runs         int64      `json:"runs"`
	RequestsSent int64      `json:"requests_sent"`
	Failures     int64      `json:"failures"`
	RunErrors    int64      `json:"run_errors"`
	LastRunAt    *time.Time `json:"last_run_at,omitempty"`
	LastDuration string     `json:"last_duration,omitempty"`
}

// FeedbackPoller periodically asks interviewers for feedback on interviews
// that have started. It is created and owned by main; one run happens
// immediately on Start.
type FeedbackPoller struct {
	sender   FeedbackSender
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.RWMutex
	stats   Stats
	running bool
}

func NewFeedbackPoller(sender FeedbackSender, interval time.Duration) *FeedbackPoller {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &FeedbackPoller{
		sender:   sender,
		interval: interval,
		timeout:  interval,
		log:      slog.With(slog.String("component", "feedback_poller")),
	}
}

func (p *FeedbackPoller) Start(parent context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.running = true
	p.mu.Unlock()

	p.log.Info("feedback poller started", slog.Duration("interval", p.interval))
	p.wg.Add(1)
	go p.loop(ctx)
}

// Stop cancels an in-flight run and waits for the loop to exit.
func (p *FeedbackPoller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		cancel := p.cancel
		p.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		p.wg.Wait()

		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.log.Info("feedback poller stopped")
	})
}

func (p *FeedbackPoller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single scan. Errors are logged and counted; the poller
// keeps running.
func (p *FeedbackPoller) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	res, err := p.sender.SendDueRequests(runCtx)
	elapsed := time.Since(start)

	p.mu.Lock()
	p.stats.Runs++
	p.stats.RequestsSent += int64(res.Sent)
	p.stats.Failures += int64(res.Failed)
	if err != nil {
		p.stats.RunErrors++
	}
	p.stats.LastRunAt = &start
	p.stats.LastDuration = elapsed.String()
	p.mu.Unlock()

	if err != nil {
		p.log.Error("feedback poll failed", slog.Any("error", err))
		return
	}
	if res.Due > 0 {
		p.log.Info("feedback poll finished",
			slog.Int("due", res.Due), slog.Int("sent", res.Sent),
			slog.Int("failed", res.Failed), slog.Int("skipped", res.Skipped),
			slog.Duration("took", elapsed))
	}
}

func (p *FeedbackPoller) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.stats
	if s.LastRunAt != nil {
		t := *s.LastRunAt
		s.LastRunAt = &t
	}
	return s
}

// Healthy reports whether the poller is running and has completed a run
// within two intervals.
func (p *FeedbackPoller) Healthy() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.running {
		return false
	}
	if p.stats.LastRunAt == nil {
		return true
	}
	return time.Since(*p.stats.LastRunAt) < 2*p.interval+p.timeout
}
