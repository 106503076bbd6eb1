package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/oxcstats/soldierstats/pkg/core"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Buckets written by RecordLoad.
const (
	BucketSaveStats    = "save_stats"
	BucketSoldierStats = "soldier_stats"
)

// DefaultBucketNames are the buckets created on connect.
var DefaultBucketNames = []string{
	BucketSaveStats,
	BucketSoldierStats,
}

// pingTimeout bounds the health check on connect.
const pingTimeout = 5 * time.Second

// Config holds the InfluxDB connection settings.
type Config struct {
	Enabled       bool
	URL           string
	Token         string
	Org           string
	BackupPath    string // gzipped line protocol written while the server is unreachable
	RetentionDays int    // 0 keeps data forever
}

// ConfigFromViper reads the influx.* config keys.
func ConfigFromViper() Config {
	return Config{
		Enabled: viper.GetBool("influx.enabled"),
		URL: fmt.Sprintf("%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		Token:         viper.GetString("influx.token"),
		Org:           viper.GetString("influx.org"),
		BackupPath:    viper.GetString("influx.backupPath"),
		RetentionDays: viper.GetInt("influx.retentionDays"),
	}
}

// Manager writes load metrics to InfluxDB, or to a gzipped line protocol
// backup file when the server cannot be reached.
type Manager struct {
	Client       influxdb2.Client
	Writers      map[string]influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	BucketNames  []string
	Logger       zerolog.Logger

	cfg        Config
	backupFile *os.File
}

// NewManager creates an unconnected manager.
func NewManager(log zerolog.Logger, cfg Config) *Manager {
	return &Manager{
		Writers:     make(map[string]influxdb2_api.WriteAPI),
		BucketNames: DefaultBucketNames,
		Logger:      log,
		cfg:         cfg,
	}
}

// Connect pings the server and prepares the org, buckets and writers. An
// unreachable server is not an error: points go to the backup file instead.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return errors.New("influx is disabled")
	}

	m.Client = influxdb2.NewClientWithOptions(m.cfg.URL, m.cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(500).
			SetFlushInterval(1000),
	)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	running, err := m.Client.Ping(pingCtx)
	cancel()

	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("url", m.cfg.URL).Str("backupPath", m.cfg.BackupPath).
			Msg("InfluxDB unreachable, writing to backup file")
		return m.openBackup()
	}

	if err := m.ensureBuckets(ctx); err != nil {
		return err
	}
	m.CreateWriters()
	m.IsValid = true
	m.Logger.Info().Str("url", m.cfg.URL).Str("org", m.cfg.Org).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) openBackup() error {
	if m.BackupWriter != nil {
		return nil
	}
	if m.cfg.BackupPath == "" {
		return errors.New("influx unreachable and no backup path configured")
	}
	file, err := os.OpenFile(m.cfg.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error creating backup file: %w", err)
	}
	m.backupFile = file
	m.BackupWriter = gzip.NewWriter(file)
	return nil
}

// ensureBuckets creates the org and any missing bucket.
func (m *Manager) ensureBuckets(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()
	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		if org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org); err != nil {
			return fmt.Errorf("error creating organization %s: %w", m.cfg.Org, err)
		}
	}

	var rules []domain.RetentionRule
	if m.cfg.RetentionDays > 0 {
		expire := domain.RetentionRuleTypeExpire
		rules = append(rules, domain.RetentionRule{
			Type:         &expire,
			EverySeconds: int64(m.cfg.RetentionDays) * 24 * 60 * 60,
		})
	}

	buckets := m.Client.BucketsAPI()
	for _, name := range m.BucketNames {
		if _, err := buckets.FindBucketByName(ctx, name); err == nil {
			continue
		}
		m.Logger.Info().Str("bucket", name).Int("retentionDays", m.cfg.RetentionDays).Msg("Bucket not found, creating")
		if _, err := buckets.CreateBucketWithName(ctx, org, name, rules...); err != nil {
			return fmt.Errorf("error creating bucket %s: %w", name, err)
		}
	}
	return nil
}

// CreateWriters opens a non-blocking write API per bucket and logs its
// asynchronous write errors.
func (m *Manager) CreateWriters() {
	for _, bucket := range m.BucketNames {
		w := m.Client.WriteAPI(m.cfg.Org, bucket)
		m.Writers[bucket] = w
		go func(bucket string, errs <-chan error) {
			for err := range errs {
				m.Logger.Error().Err(err).Str("bucket", bucket).Msg("Error sending data to InfluxDB")
			}
		}(bucket, w.Errors())
	}
	m.Logger.Debug().Strs("buckets", m.BucketNames).Msg("InfluxDB writers initialized")
}

// WritePoint queues point on the bucket's writer, or appends it to the backup
// file when the server was unreachable at connect.
func (m *Manager) WritePoint(ctx context.Context, bucket string, point *influxdb2_write.Point) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.IsValid {
		return m.writeBackup(point)
	}
	w, ok := m.Writers[bucket]
	if !ok {
		return fmt.Errorf("influx bucket %q not registered", bucket)
	}
	w.WritePoint(point)
	return nil
}

func (m *Manager) writeBackup(point *influxdb2_write.Point) error {
	if m.BackupWriter == nil {
		return errors.New("influx not connected and no backup writer available")
	}
	// PointToLineProtocol terminates the line itself
	line := influxdb2_write.PointToLineProtocol(point, time.Nanosecond)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	if _, err := m.BackupWriter.Write([]byte(line)); err != nil {
		return fmt.Errorf("error writing to InfluxDB backup file: %w", err)
	}
	return nil
}

// Close flushes pending writes and releases the client and backup file.
func (m *Manager) Close() error {
	for _, w := range m.Writers {
		w.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}

	var err error
	if m.BackupWriter != nil {
		err = m.BackupWriter.Close()
		m.BackupWriter = nil
	}
	if m.backupFile != nil {
		if cerr := m.backupFile.Close(); err == nil {
			err = cerr
		}
		m.backupFile = nil
	}
	m.IsValid = false
	return err
}

// RecordLoad writes one summary point for the load and one point per roster
// soldier. It satisfies the session store's recorder hook.
func (m *Manager) RecordLoad(ctx context.Context, snap *core.Snapshot, took time.Duration) error {
	for _, bp := range PointsFromSnapshot(snap, took) {
		if err := m.WritePoint(ctx, bp.Bucket, bp.Point); err != nil {
			return err
		}
	}
	m.Logger.Debug().Str("save", snap.Info.Name).Int("soldiers", len(snap.Roster)).Msg("Recorded load metrics")
	return nil
}

// BucketPoint pairs a point with its destination bucket.
type BucketPoint struct {
	Bucket string
	Point  *influxdb2_write.Point
}

// PointsFromSnapshot builds the points describing one loaded snapshot. All
// points carry the snapshot's load time.
func PointsFromSnapshot(snap *core.Snapshot, took time.Duration) []BucketPoint {
	ts := snap.LoadedAt
	points := make([]BucketPoint, 0, len(snap.Roster)+1)

	dead := 0
	for i := range snap.Roster {
		if snap.Roster[i].Dead() {
			dead++
		}
	}

	summary := influxdb2_write.NewPointWithMeasurement("save_load").
		AddTag("save", snap.Info.Name).
		AddTag("engine", snap.Info.Engine).
		AddTag("version", snap.Info.Version).
		AddField("difficulty", snap.Difficulty).
		AddField("soldiers", len(snap.Roster)).
		AddField("dead", dead).
		AddField("missions", len(snap.Missions)).
		AddField("bases", len(snap.Bases)).
		AddField("rejected", len(snap.Rejected)).
		AddField("duration_ms", float64(took.Microseconds())/1000).
		SetTime(ts)
	points = append(points, BucketPoint{Bucket: BucketSaveStats, Point: summary})

	for i := range snap.Roster {
		s := &snap.Roster[i]
		p := influxdb2_write.NewPointWithMeasurement("soldier").
			AddTag("save", snap.Info.Name).
			AddTag("soldier_id", strconv.Itoa(s.ID)).
			AddTag("base", s.Base).
			AddField("name", s.Name).
			AddField("rank", s.Rank).
			AddField("missions", s.Missions).
			AddField("kills", s.Kills).
			AddField("dead", s.Dead()).
			AddField("recovery", s.Recovery).
			SetTime(ts)
		for j, v := range s.CurrentStats.Values() {
			p.AddField(core.StatKeys[j], v)
		}
		points = append(points, BucketPoint{Bucket: BucketSoldierStats, Point: p})
	}

	return points
}
