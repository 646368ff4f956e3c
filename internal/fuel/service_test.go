package fuel

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nievasdev/brazilgas/internal/metrics"
)

var errEmpty = errors.New("empty")

type memStore struct {
	mu      sync.Mutex
	current *Dataset
	history []LoadSummary
}

func (m *memStore) SaveDataset(ds Dataset, summary LoadSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = &ds
	m.history = append(m.history, summary)
}

func (m *memStore) Latest() (Dataset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Dataset{}, errEmpty
	}
	return *m.current, nil
}

func (m *memStore) History() []LoadSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LoadSummary(nil), m.history...)
}

type stringSource struct {
	body string
	err  error
}

func (s *stringSource) Name() string { return "memory" }

func (s *stringSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.body)), nil
}

type staticBoundaries []string

func (b staticBoundaries) FeatureNames(ctx context.Context) ([]string, error) {
	return b, nil
}

const serviceCSV = minimalHeader +
	"5/9/04,SUL,PARANÁ,GLP,10,30\n" +
	"5/9/04,NORTE,ACRE,GLP,5,40\n" +
	"6/6/04,SUL,PARANÁ,ÓLEO DIESEL,20,1.5\n" +
	"6/6/04,SUL,PARANÁ,ETANOL HIDRATADO,20,1.1\n"

func TestServiceRefresh(t *testing.T) {
	st := &memStore{}
	m := metrics.New(prometheus.NewRegistry())
	svc := NewService(st, &stringSource{body: serviceCSV}, WithMetrics(m))

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, "memory", summary.Source)
	assert.Equal(t, LoadStats{Rows: 4, Accepted: 3, Rejected: 1}, summary.Stats)

	ds, err := svc.Dataset()
	require.NoError(t, err)
	assert.Equal(t, summary.ID, ds.ID)
	assert.Len(t, ds.Records, 3)
	assert.Len(t, svc.History(), 1)
}

func TestServiceRefreshFailureKeepsPreviousDataset(t *testing.T) {
	st := &memStore{}
	src := &stringSource{body: serviceCSV}
	svc := NewService(st, src)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	src.body = "ESTADO\nACRE\n"
	_, err = svc.Refresh(context.Background())
	require.ErrorIs(t, err, ErrMissingColumns)

	src.err = errors.New("connection refused")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	ds, err := svc.Dataset()
	require.NoError(t, err)
	assert.Equal(t, first.ID, ds.ID)
	assert.Len(t, svc.History(), 1)
}

func TestServiceWithoutSource(t *testing.T) {
	svc := NewService(&memStore{}, nil)

	_, err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, errNoSource)

	_, err = svc.StateView(Filter{})
	assert.ErrorIs(t, err, errEmpty)
}

func TestServiceViews(t *testing.T) {
	svc := NewService(&memStore{}, &stringSource{body: serviceCSV})
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	records, err := svc.Records(Filter{Region: RegionSul})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	states, err := svc.StateView(Filter{Product: ProductGLP})
	require.NoError(t, err)
	assert.Len(t, states, 2)

	points, err := svc.MonthlyView(RegionSul)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 30.0, points[0].Prices[ProductGLP])

	stats, err := svc.Summary(Filter{Product: ProductGLP, Region: RegionNorte})
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalStations)
	assert.Equal(t, 40.0, stats.HistoricalAveragePrice)
}

func TestServiceDashboardMatchesIndividualViews(t *testing.T) {
	svc := NewService(&memStore{}, &stringSource{body: serviceCSV})
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	f := Filter{Product: ProductGLP, Region: All}
	dash, err := svc.Dashboard(context.Background(), f)
	require.NoError(t, err)

	states, _ := svc.StateView(f)
	points, _ := svc.MonthlyView(f.Region)
	stats, _ := svc.Summary(f)

	assert.Equal(t, f, dash.Filter)
	assert.Equal(t, states, dash.States)
	assert.Equal(t, points, dash.Monthly)
	assert.Equal(t, stats, dash.Stats)
	assert.Equal(t, 2, dash.Records)
}

func TestServiceBoundaries(t *testing.T) {
	svc := NewService(&memStore{}, nil, WithBoundaries(staticBoundaries{"Ceará", "Nowhere"}))

	got, err := svc.Boundaries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "BR-CE", got[0].Code)
	assert.False(t, got[1].Mapped)

	_, err = NewService(&memStore{}, nil).Boundaries(context.Background())
	assert.ErrorIs(t, err, errNoBoundaries)
}

func TestServiceWithCatalog(t *testing.T) {
	cat := NewCatalog([]Product{"ETANOL HIDRATADO"}, []Region{RegionSul}, nil, map[string]string{"ACRE": "BR-AC"})
	svc := NewService(&memStore{}, &stringSource{body: serviceCSV}, WithCatalog(cat))

	summary, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stats.Accepted)
	assert.Equal(t, []string{"PARANA"}, summary.Stats.UnmappedStates)
	assert.Same(t, cat, svc.Catalog())
}
