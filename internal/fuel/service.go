package fuel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nievasdev/brazilgas/internal/logger"
	"github.com/nievasdev/brazilgas/internal/metrics"
)

var (
	errNoSource     = errors.New("no dataset source configured")
	errNoBoundaries = errors.New("no boundary source configured")
)

// Service loads the survey into the store and answers view queries over the
// current dataset.
type Service struct {
	store      Store
	source     Source
	parser     *Parser
	boundaries BoundaryFetcher
	metrics    *metrics.Metrics
	log        *logger.Entry
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

func WithBoundaries(b BoundaryFetcher) ServiceOption {
	return func(s *Service) { s.boundaries = b }
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Log) ServiceOption {
	return func(s *Service) { s.log = l.WithComponent("service") }
}

func WithCatalog(c *Catalog) ServiceOption {
	return func(s *Service) { s.parser = NewParser(c) }
}

// NewService creates a new Service.
func NewService(store Store, source Source, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		source: source,
		parser: NewParser(nil),
		log:    logger.Discard().WithComponent("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the lookup tables records are validated against.
func (s *Service) Catalog() *Catalog {
	return s.parser.Catalog()
}

// Refresh fetches and parses the whole survey file and swaps it in as the
// current dataset. On error the previous dataset keeps being served.
func (s *Service) Refresh(ctx context.Context) (LoadSummary, error) {
	if s.source == nil {
		return LoadSummary{}, errNoSource
	}

	log := s.log.WithFields(logger.Fields{"source": s.source.Name()})
	started := time.Now()

	rc, err := s.source.Open(ctx)
	if err != nil {
		s.metrics.LoadFailed()
		log.WithError(err).Error("dataset fetch failed")
		return LoadSummary{}, fmt.Errorf("open %s: %w", s.source.Name(), err)
	}
	defer rc.Close()

	records, stats, err := Load(ctx, rc, s.parser)
	if err != nil {
		s.metrics.LoadFailed()
		log.WithError(err).Error("dataset parse failed")
		return LoadSummary{}, fmt.Errorf("load %s: %w", s.source.Name(), err)
	}

	for _, name := range stats.UnmappedStates {
		log.WithFields(logger.Fields{"state": name}).Warn("state has no subdivision code; using name as code")
	}

	ds := Dataset{
		ID:       uuid.NewString(),
		Source:   s.source.Name(),
		LoadedAt: time.Now().UTC(),
		Stats:    stats,
		Records:  records,
	}
	summary := LoadSummary{
		ID:       ds.ID,
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Duration: time.Since(started),
		Stats:    stats,
	}
	s.store.SaveDataset(ds, summary)
	s.metrics.ObserveLoad(stats.Accepted, stats.Rejected, summary.Duration)

	log.WithFields(logger.Fields{
		"dataset_id": ds.ID,
		"rows":       stats.Rows,
		"accepted":   stats.Accepted,
		"rejected":   stats.Rejected,
		"undated":    stats.Undated,
		"took":       summary.Duration.String(),
	}).Info("dataset loaded")

	return summary, nil
}

// Dataset delegates to the underlying store.
func (s *Service) Dataset() (Dataset, error) {
	return s.store.Latest()
}

// History delegates to the underlying store.
func (s *Service) History() []LoadSummary {
	return s.store.History()
}

// Records returns the filtered records of the current dataset.
func (s *Service) Records(f Filter) ([]Record, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return nil, err
	}
	s.metrics.Query("records")
	return FilterRecords(ds.Records, f), nil
}

func (s *Service) StateView(f Filter) ([]StateAggregate, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return nil, err
	}
	s.metrics.Query("states")
	return AggregateByState(ds.Records, f), nil
}

func (s *Service) MonthlyView(region Region) ([]MonthlyPoint, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return nil, err
	}
	s.metrics.Query("monthly")
	return AggregateByMonth(ds.Records, region), nil
}

// Summary computes the headline statistics for the records matching f.
func (s *Service) Summary(f Filter) (SummaryStats, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return SummaryStats{}, err
	}
	s.metrics.Query("stats")
	return summarize(ds.Records, f), nil
}

func summarize(records []Record, f Filter) SummaryStats {
	return CalculateStats(FilterRecords(records, Filter{Region: f.Region}), f.Product)
}

// Dashboard computes the three views for one filter concurrently.
func (s *Service) Dashboard(ctx context.Context, f Filter) (Dashboard, error) {
	ds, err := s.store.Latest()
	if err != nil {
		return Dashboard{}, err
	}
	s.metrics.Query("dashboard")

	out := Dashboard{Filter: f}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.States = AggregateByState(ds.Records, f)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.Monthly = AggregateByMonth(ds.Records, f.Region)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.Stats = summarize(ds.Records, f)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.Records = len(FilterRecords(ds.Records, f))
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// Boundaries fetches the boundary asset and pairs each feature with its
// canonical key.
func (s *Service) Boundaries(ctx context.Context) ([]Boundary, error) {
	if s.boundaries == nil {
		return nil, errNoBoundaries
	}
	names, err := s.boundaries.FeatureNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	return MatchBoundaries(names, s.Catalog()), nil
}
