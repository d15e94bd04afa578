// Package scheduler drives the tick loop: each tick walks every registered
// schedule's missed-jobs window and offers the due instants to the enqueue
// transaction. Multiple replicas run this loop independently; the store's
// claim semantics, not the loop, guarantee exactly-once enqueue.
package scheduler

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cronbeat/cronbeat/internal/core"
	"github.com/cronbeat/cronbeat/internal/metrics"
	"github.com/cronbeat/cronbeat/internal/registry"
)

// State of the scheduler loop.
type State int32

const (
	StateIdle State = iota
	StateTicking
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTicking:
		return "ticking"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// Enqueuer performs one atomic claim-and-push attempt.
type Enqueuer interface {
	Enqueue(ctx context.Context, sched *core.Schedule, instant time.Time) (core.Outcome, error)
}

// EpochSource resolves when a schedule name first existed in the fleet.
type EpochSource interface {
	EnsureScheduleEpoch(ctx context.Context, name string, now time.Time) (time.Time, error)
}

// Config configures a Scheduler.
type Config struct {
	Registry         *registry.Registry
	Enqueuer         Enqueuer
	TickPeriod       time.Duration
	MissedJobsWindow time.Duration
	// MaxParallel caps concurrent schedule processing within one tick
	// (default: 8). Schedules share no mutable state, so only the store
	// connection bounds parallelism.
	MaxParallel int
	// Epochs clips each schedule's look-back to its first registration.
	// Optional; without it the walker always uses the full window.
	Epochs EpochSource
	Logger *slog.Logger
}

// Scheduler is the coordinating control loop.
type Scheduler struct {
	registry    *registry.Registry
	enqueuer    Enqueuer
	tickPeriod  time.Duration
	walker      Walker
	maxParallel int
	logger      *slog.Logger

	state    atomic.Int32
	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	fatal    chan error

	epochs  EpochSource
	epochMu sync.Mutex
	epoch   map[string]time.Time

	now func() time.Time
}

// New creates a Scheduler.
func New(cfg Config) *Scheduler {
	maxParallel := cfg.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 8
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		registry:    cfg.Registry,
		enqueuer:    cfg.Enqueuer,
		tickPeriod:  cfg.TickPeriod,
		walker:      Walker{Window: cfg.MissedJobsWindow},
		maxParallel: maxParallel,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		fatal:       make(chan error, 1),
		epochs:      cfg.Epochs,
		epoch:       make(map[string]time.Time),
		now:         time.Now,
	}
}

// State returns the loop's current state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// Fatal delivers the first permanent store error observed. The process
// should exit when it fires; a scheduler that is wrong about what it
// already claimed is worse than one that is down.
func (s *Scheduler) Fatal() <-chan error {
	return s.fatal
}

// Start launches the tick loop. The first tick runs almost immediately so a
// restarted replica recovers downtime without waiting a full period; a
// small random offset keeps a fleet deployed in lockstep from hitting the
// store simultaneously.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer close(s.done)

		if spread := int64(s.tickPeriod / 10); spread > 0 {
			select {
			case <-s.stop:
				return
			case <-time.After(time.Duration(rand.Int64N(spread))):
			}
		}

		ticker := time.NewTicker(s.tickPeriod)
		defer ticker.Stop()

		s.runTick()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.runTick()
			}
		}
	}()
}

// Stop transitions to ShuttingDown and waits for the in-flight tick, if
// any, to finish. In-flight enqueue transactions are never aborted
// mid-flight. Idempotent.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.state.Store(int32(StateShuttingDown))
		close(s.stop)
	})
	if s.started.Load() {
		<-s.done
	}
}

// tickSummary aggregates outcome counts for one tick.
type tickSummary struct {
	claimed   int
	already   int
	transient int
}

// runTick drives one pass over every schedule in the registry.
func (s *Scheduler) runTick() {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateTicking)) {
		return
	}
	defer s.state.CompareAndSwap(int32(StateTicking), int32(StateIdle))

	start := s.now()
	entries := s.registry.All()
	results := make([]tickSummary, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(s.maxParallel)
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			results[i] = s.runSchedule(entry, start)
			return nil
		})
	}
	g.Wait()

	var total tickSummary
	for _, r := range results {
		total.claimed += r.claimed
		total.already += r.already
		total.transient += r.transient
	}

	elapsed := time.Since(start)
	metrics.ObserveTick(elapsed)
	s.logger.Info("tick completed",
		"schedules", len(entries),
		"claimed", total.claimed,
		"already_claimed", total.already,
		"transient_failures", total.transient,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// runSchedule offers every due instant for one schedule to the enqueuer, in
// ascending order. A transient failure stops this schedule's pass; the
// remaining instants are inside the window next tick.
func (s *Scheduler) runSchedule(entry *registry.Entry, now time.Time) tickSummary {
	var summary tickSummary

	sched := &entry.Schedule
	epoch, ok := s.scheduleEpoch(sched.Name, now)
	if !ok {
		summary.transient++
		return summary
	}
	for _, instant := range s.walker.Due(entry, now, epoch) {
		if s.State() == StateShuttingDown {
			break
		}

		outcome, err := s.enqueuer.Enqueue(context.Background(), sched, instant)
		metrics.RecordOutcome(sched.Name, outcome)

		if err != nil {
			if core.IsPermanent(err) {
				s.reportFatal(err)
				return summary
			}
			summary.transient++
			s.logger.Warn("enqueue attempt failed",
				"schedule", sched.Name,
				"queue", sched.Queue,
				"instant", core.FormatTime(instant),
				"error", err,
			)
			break
		}

		switch outcome {
		case core.OutcomePushed:
			summary.claimed++
			if now.Sub(instant) > s.tickPeriod+time.Second {
				metrics.RecordRecovered()
				s.logger.Info("recovered missed instant",
					"schedule", sched.Name,
					"instant", core.FormatTime(instant),
					"late_by", now.Sub(instant).String(),
				)
			}
		case core.OutcomeAlreadyClaimed:
			summary.already++
		}
	}

	return summary
}

// scheduleEpoch resolves and caches the schedule's fleet-wide registration
// instant. If the store cannot answer, the schedule is skipped for this
// tick: walking the full window instead would back-fill a brand-new
// schedule with instants from before it existed, and those claims can
// never be taken back.
func (s *Scheduler) scheduleEpoch(name string, now time.Time) (time.Time, bool) {
	s.epochMu.Lock()
	epoch, ok := s.epoch[name]
	s.epochMu.Unlock()
	if ok {
		return epoch, true
	}
	if s.epochs == nil {
		return time.Time{}, true
	}

	epoch, err := s.epochs.EnsureScheduleEpoch(context.Background(), name, now)
	if err != nil {
		if core.IsPermanent(err) {
			s.reportFatal(err)
		} else {
			s.logger.Warn("could not resolve schedule epoch", "schedule", name, "error", err)
		}
		return time.Time{}, false
	}

	s.epochMu.Lock()
	s.epoch[name] = epoch
	s.epochMu.Unlock()
	return epoch, true
}

func (s *Scheduler) reportFatal(err error) {
	select {
	case s.fatal <- err:
	default:
	}
}
