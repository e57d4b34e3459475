package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aoidb/aoi/domain/event"
	"github.com/aoidb/aoi/internal/config"
	"github.com/aoidb/aoi/internal/log"
)

// ScanState reports what the scanner is doing.
type ScanState int32

// Scanner states.
const (
	ScanIdle ScanState = iota
	ScanScanning
	ScanProcessing
)

// String returns the state name.
func (s ScanState) String() string {
	switch s {
	case ScanScanning:
		return "scanning"
	case ScanProcessing:
		return "processing"
	default:
		return "idle"
	}
}

// EventFuser fuses one event.
type EventFuser interface {
	FuseEvent(ctx context.Context, e event.Event) (FuseResult, error)
}

// ScanResult counts the outcome of one pass.
type ScanResult struct {
	Fused  int
	Failed int
}

// Scanner periodically finds unfused events and feeds them to the fusion
// service. A failure on one event is logged and never stops the others.
type Scanner struct {
	events    event.Store
	fuser     EventFuser
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	enabled   bool

	state  atomic.Int32
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewScanner creates a new Scanner from config and dependencies.
func NewScanner(
	cfg config.ScannerConfig,
	events event.Store,
	fuser EventFuser,
	logger *slog.Logger,
) *Scanner {
	return &Scanner{
		events:    events,
		fuser:     fuser,
		logger:    logger,
		interval:  cfg.Interval(),
		batchSize: cfg.BatchSize(),
		enabled:   cfg.Enabled(),
	}
}

// State returns the current state.
func (s *Scanner) State() ScanState {
	return ScanState(s.state.Load())
}

// Start begins scanning in a background goroutine.
// If disabled or already running, this is a no-op.
func (s *Scanner) Start(ctx context.Context) {
	if !s.enabled {
		s.logger.Info("event scanner disabled")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Go(func() {
		s.run(ctx)
	})

	s.logger.Info("event scanner started",
		slog.Duration("interval", s.interval),
		slog.Int("batch_size", s.batchSize),
	)
}

// Stop cancels the scan loop and waits for the in-flight event to finish.
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("event scanner stopped")
}

func (s *Scanner) run(ctx context.Context) {
	for {
		if _, err := s.ScanOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("scan failed", slog.Any("error", err))
		}

		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// ScanOnce drains the unfused backlog in batches. Within one pass a cursor
// moves past every event it has seen, so events that fail are retried on
// the next pass rather than looping in this one.
func (s *Scanner) ScanOnce(ctx context.Context) (ScanResult, error) {
	start := time.Now()
	defer func() {
		s.state.Store(int32(ScanIdle))
		scanDuration.Observe(time.Since(start).Seconds())
	}()

	ctx = log.WithCorrelationID(ctx, uuid.NewString())

	var (
		result ScanResult
		cursor int64
	)
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		s.state.Store(int32(ScanScanning))
		batch, err := s.events.FindUnfused(ctx, s.batchSize, event.WithIDAfter(cursor))
		if err != nil {
			return result, fmt.Errorf("find unfused events: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		s.state.Store(int32(ScanProcessing))
		for _, e := range batch {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			cursor = e.ID()
			if _, err := s.fuser.FuseEvent(ctx, e); err != nil {
				result.Failed++
				eventsFailed.Inc()
				s.logger.ErrorContext(ctx, "failed to fuse event",
					slog.Int64("event_id", e.ID()),
					slog.Any("error", err),
				)
				continue
			}
			result.Fused++
		}

		if s.batchSize <= 0 || len(batch) < s.batchSize {
			break
		}
	}

	if result.Fused > 0 || result.Failed > 0 {
		s.logger.InfoContext(ctx, "scan complete",
			slog.Int("fused", result.Fused),
			slog.Int("failed", result.Failed),
			slog.Duration("took", time.Since(start)),
		)
	}
	return result, nil
}
