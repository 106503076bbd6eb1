// Package session holds the snapshot of the currently loaded save. A load
// builds a complete snapshot off to the side and publishes it in one atomic
// swap, so readers see either the previous save or the new one, never a mix.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oxcstats/soldierstats/internal/parser"
	"github.com/oxcstats/soldierstats/internal/savefile"
	"github.com/oxcstats/soldierstats/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Archiver receives every published snapshot. Storage backends implement it.
type Archiver interface {
	StoreSnapshot(ctx context.Context, snap *core.Snapshot) error
}

// Recorder receives load timings. The influx manager implements it.
type Recorder interface {
	RecordLoad(ctx context.Context, snap *core.Snapshot, took time.Duration) error
}

// Option configures a Store.
type Option func(*Store)

// WithArchiver adds a backend notified after each successful load.
func WithArchiver(a Archiver) Option {
	return func(s *Store) { s.archivers = append(s.archivers, a) }
}

// WithRecorder adds a metrics sink notified after each successful load.
func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorders = append(s.recorders, r) }
}

// WithMeter sets the meter used for load counters.
func WithMeter(m metric.Meter) Option {
	return func(s *Store) { s.meter = m }
}

// WithDebugDump writes the game document of every load to path as JSON.
func WithDebugDump(path string) Option {
	return func(s *Store) { s.dumpPath = path }
}

// Store holds the current snapshot.
type Store struct {
	current atomic.Pointer[core.Snapshot]

	parser    *parser.Parser
	logger    *slog.Logger
	archivers []Archiver
	recorders []Recorder
	meter     metric.Meter
	dumpPath  string

	loads    metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
	soldiers metric.Int64Gauge
}

// NewStore creates an empty store. Current returns nil until the first
// successful Load.
func NewStore(p *parser.Parser, logger *slog.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		parser: p,
		logger: logger,
		meter:  noop.Meter{},
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	if s.loads, err = s.meter.Int64Counter("save.loads",
		metric.WithDescription("Successful save loads")); err != nil {
		return nil, fmt.Errorf("failed to create loads counter: %w", err)
	}
	if s.failures, err = s.meter.Int64Counter("save.load_failures",
		metric.WithDescription("Save loads that did not publish a snapshot")); err != nil {
		return nil, fmt.Errorf("failed to create failures counter: %w", err)
	}
	if s.duration, err = s.meter.Float64Histogram("save.load_duration",
		metric.WithDescription("Time to read and assemble a save"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if s.soldiers, err = s.meter.Int64Gauge("save.roster_size",
		metric.WithDescription("Soldiers in the current roster")); err != nil {
		return nil, fmt.Errorf("failed to create roster gauge: %w", err)
	}

	return s, nil
}

// Current returns the published snapshot, or nil before the first load.
func (s *Store) Current() *core.Snapshot {
	return s.current.Load()
}

// Load reads and assembles the save at path, then replaces the current
// snapshot. On error the previous snapshot stays published.
func (s *Store) Load(ctx context.Context, path string) (*core.Snapshot, error) {
	start := time.Now()

	snap, err := s.build(path)
	if err != nil {
		s.failures.Add(ctx, 1)
		s.logger.ErrorContext(ctx, "Failed to load save", "path", path, "error", err)
		return nil, err
	}

	s.current.Store(snap)
	took := time.Since(start)

	s.loads.Add(ctx, 1)
	s.duration.Record(ctx, float64(took.Microseconds())/1000, metric.WithAttributes(attribute.String("save", snap.Info.Name)))
	s.soldiers.Record(ctx, int64(len(snap.Roster)))

	s.logger.InfoContext(ctx, "Loaded save",
		"path", path,
		"name", snap.Info.Name,
		"soldiers", len(snap.Roster),
		"missions", len(snap.Missions),
		"bases", len(snap.Bases),
		"rejected", len(snap.Rejected),
		"took", took)

	s.notify(ctx, snap, took)
	return snap, nil
}

func (s *Store) build(path string) (*core.Snapshot, error) {
	game, meta, err := savefile.LoadBoth(path)
	if err != nil {
		return nil, err
	}

	if s.dumpPath != "" {
		if err := savefile.DumpJSON(game, s.dumpPath, false); err != nil {
			s.logger.Warn("Failed to write debug dump", "path", s.dumpPath, "error", err)
		}
	}

	return s.parser.Parse(game, meta, path)
}

// notify runs the observers. Their failures never roll back the snapshot.
func (s *Store) notify(ctx context.Context, snap *core.Snapshot, took time.Duration) {
	for _, r := range s.recorders {
		if err := r.RecordLoad(ctx, snap, took); err != nil {
			s.logger.WarnContext(ctx, "Failed to record load metrics", "error", err)
		}
	}
	for _, a := range s.archivers {
		if err := a.StoreSnapshot(ctx, snap); err != nil {
			s.logger.ErrorContext(ctx, "Failed to archive snapshot", "path", snap.Source, "error", err)
		}
	}
}

// LogAttrs returns attributes describing the current save for log records.
func (s *Store) LogAttrs() []slog.Attr {
	snap := s.Current()
	if snap == nil {
		return nil
	}
	return []slog.Attr{slog.String("save", snap.Info.Name)}
}
