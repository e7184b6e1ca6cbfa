package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout-engine/internal/classify"
	"shopscout-engine/internal/config"
	"shopscout-engine/internal/domain"
	"shopscout-engine/internal/metrics"
	"shopscout-engine/internal/outreach"
	"shopscout-engine/internal/places"
)

// fakePlaces answers from maps keyed by query and place id.
type fakePlaces struct {
	ids      map[string]places.PlaceLookup
	details  map[string]places.DetailsLookup
	queries  []string
	detailed []string
}

func (f *fakePlaces) FindPlace(_ context.Context, q string) places.PlaceLookup {
	f.queries = append(f.queries, q)
	if r, ok := f.ids[q]; ok {
		return r
	}
	return places.PlaceLookup{Status: places.StatusNotFound}
}

func (f *fakePlaces) Details(_ context.Context, id string) places.DetailsLookup {
	f.detailed = append(f.detailed, id)
	if r, ok := f.details[id]; ok {
		return r
	}
	return places.DetailsLookup{Status: places.StatusNotFound}
}

type fakeProber struct {
	links []string
	err   error
	sites []string
}

func (p *fakeProber) AggregatorLinks(_ context.Context, site string) ([]string, error) {
	p.sites = append(p.sites, site)
	return p.links, p.err
}

type countingPacer struct{ n int }

func (p *countingPacer) Wait(context.Context) error { p.n++; return nil }

func found(id string) places.PlaceLookup {
	return places.PlaceLookup{PlaceID: id, Status: places.StatusFound}
}

func site(url string) places.DetailsLookup {
	return places.DetailsLookup{Status: places.StatusFound, Enrichment: domain.Enrichment{Website: url, MapsURL: "https://maps.google.com/?cid=" + url}}
}

func newRunner(fp PlaceFinder) *Runner {
	return &Runner{
		Places:     fp,
		Classifier: classify.New(config.DefaultAggregators),
		Composer:   outreach.New("Slice"),
		Region:     "MA",
	}
}

func TestQuery(t *testing.T) {
	assert.Equal(t, "Tony's Pizza, Boston, MA", Query(domain.Shop{AccountName: "Tony's Pizza", BillingCity: "Boston"}, "MA"))
	assert.Equal(t, "Tony's Pizza, , MA", Query(domain.Shop{AccountName: "Tony's Pizza"}, "MA"))
}

func TestRunPlaceNotFound(t *testing.T) {
	fp := &fakePlaces{}
	rep, err := newRunner(fp).Run(context.Background(), []domain.Shop{{AccountName: "Tony's Pizza"}}, Options{})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 1)
	assert.Equal(t, domain.Row{
		Shop:           domain.Shop{AccountName: "Tony's Pizza"},
		Classification: domain.Classification{Note: domain.NotePlaceNotFound},
	}, rep.Rows[0])
	assert.Empty(t, fp.detailed, "no details call without a place id")
	assert.Equal(t, 1, rep.Counts[metrics.OutcomeNotFound])
}

func TestRunSearchFailureLooksLikeNotFound(t *testing.T) {
	fp := &fakePlaces{ids: map[string]places.PlaceLookup{
		"Sal's, Boston, MA": {Status: places.StatusFailed, Err: errors.New("timeout")},
	}}
	rep, err := newRunner(fp).Run(context.Background(), []domain.Shop{{AccountName: "Sal's", BillingCity: "Boston"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, domain.NotePlaceNotFound, rep.Rows[0].Note)
	assert.Empty(t, fp.detailed)
}

func TestRunClassifiesAndNotes(t *testing.T) {
	fp := &fakePlaces{
		ids: map[string]places.PlaceLookup{
			"Agg, , MA":    found("p1"),
			"Direct, , MA": found("p2"),
			"Bare, , MA":   found("p3"),
			"Broken, , MA": found("p4"),
		},
		details: map[string]places.DetailsLookup{
			"p1": site("https://www.doordash.com/store/123"),
			"p2": site("https://order.tonyspizza.com"),
			"p3": {Status: places.StatusNotFound},
			"p4": {Status: places.StatusFailed, Err: errors.New("bad json")},
		},
	}
	shops := []domain.Shop{{AccountName: "Agg"}, {AccountName: "Direct"}, {AccountName: "Bare"}, {AccountName: "Broken"}}

	rep, err := newRunner(fp).Run(context.Background(), shops, Options{})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 4)

	agg := rep.Rows[0]
	assert.True(t, agg.HasWebsite)
	assert.False(t, agg.DirectOrdering)
	assert.Equal(t, domain.NoteThirdPartyOnly, agg.Note)
	assert.Equal(t, "https://www.doordash.com/store/123", agg.Website)

	direct := rep.Rows[1]
	assert.True(t, direct.HasWebsite)
	assert.True(t, direct.DirectOrdering)
	assert.Equal(t, "", direct.Note)
	assert.NotEmpty(t, direct.MapsURL)

	for _, r := range rep.Rows[2:] {
		assert.False(t, r.HasWebsite)
		assert.False(t, r.DirectOrdering)
		assert.Equal(t, domain.NoteNoWebsite, r.Note)
	}

	for _, r := range rep.Rows {
		if r.DirectOrdering {
			assert.True(t, r.HasWebsite)
		}
	}
	assert.Equal(t, []string{"Agg, , MA", "Direct, , MA", "Bare, , MA", "Broken, , MA"}, fp.queries)
	assert.Empty(t, rep.Messages, "messages only when asked for")
}

func TestRunOffline(t *testing.T) {
	pacer := &countingPacer{}
	r := newRunner(nil)
	r.Pacer = pacer

	shops := []domain.Shop{{AccountName: "A"}, {AccountName: "B", BillingCity: "Boston"}}
	rep, err := r.Run(context.Background(), shops, Options{ComposeMessages: true})
	require.NoError(t, err)

	assert.True(t, rep.Offline)
	for i, row := range rep.Rows {
		assert.Equal(t, shops[i], row.Shop)
		assert.False(t, row.HasWebsite)
		assert.False(t, row.DirectOrdering)
		assert.Equal(t, domain.NoteNoAPIKey, row.Note)
		assert.Empty(t, row.Website)
	}
	assert.Zero(t, pacer.n, "offline runs are not paced")
	require.Len(t, rep.Messages, 2)
	assert.Contains(t, rep.Messages[0].Subject, "custom website")
}

func TestRunComposesAlignedMessages(t *testing.T) {
	fp := &fakePlaces{
		ids:     map[string]places.PlaceLookup{"Tony's, Boston, MA": found("p1")},
		details: map[string]places.DetailsLookup{"p1": site("https://order.tonyspizza.com")},
	}
	shops := []domain.Shop{
		{ShopID: "1", AccountName: "Tony's", BillingCity: "Boston"},
		{ShopID: "2", AccountName: "Nowhere"},
	}

	rep, err := newRunner(fp).Run(context.Background(), shops, Options{ComposeMessages: true})
	require.NoError(t, err)
	require.Len(t, rep.Messages, 2)

	assert.Equal(t, "1", rep.Messages[0].ShopID)
	assert.Contains(t, rep.Messages[0].Body, "Great job having your own direct ordering!")
	assert.True(t, strings.HasPrefix(rep.Messages[0].SMS, "Tony's:"))
	assert.Equal(t, "Nowhere", rep.Messages[1].AccountName)
	assert.Contains(t, rep.Messages[1].Subject, "custom website")
}

func TestRunPacesEachOnlineShop(t *testing.T) {
	pacer := &countingPacer{}
	r := newRunner(&fakePlaces{})
	r.Pacer = pacer

	_, err := r.Run(context.Background(), []domain.Shop{{AccountName: "A"}, {AccountName: "B"}, {AccountName: "C"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, pacer.n)
}

type cancelPacer struct{}

func (cancelPacer) Wait(ctx context.Context) error { return context.Canceled }

func TestRunStopsWhenPacingFails(t *testing.T) {
	r := newRunner(&fakePlaces{})
	r.Pacer = cancelPacer{}
	_, err := r.Run(context.Background(), []domain.Shop{{AccountName: "A"}}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunProbeAnnotatesDirectSites(t *testing.T) {
	fp := &fakePlaces{
		ids: map[string]places.PlaceLookup{"Direct, , MA": found("p1"), "Agg, , MA": found("p2")},
		details: map[string]places.DetailsLookup{
			"p1": site("https://order.tonyspizza.com"),
			"p2": site("https://www.grubhub.com/x"),
		},
	}
	pr := &fakeProber{links: []string{"doordash.com", "grubhub.com"}}
	r := newRunner(fp)
	r.Prober = pr

	rep, err := r.Run(context.Background(), []domain.Shop{{AccountName: "Direct"}, {AccountName: "Agg"}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Site links to doordash.com, grubhub.com", rep.Rows[0].Note)
	assert.True(t, rep.Rows[0].DirectOrdering, "probe never changes the flags")
	assert.Equal(t, []string{"https://order.tonyspizza.com"}, pr.sites, "only direct sites are probed")

	pr.err = errors.New("down")
	pr.sites = nil
	rep, err = r.Run(context.Background(), []domain.Shop{{AccountName: "Direct"}}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", rep.Rows[0].Note)
}

func TestRunMetrics(t *testing.T) {
	fp := &fakePlaces{
		ids:     map[string]places.PlaceLookup{"Direct, , MA": found("p1")},
		details: map[string]places.DetailsLookup{"p1": site("https://order.tonyspizza.com")},
	}
	r := newRunner(fp)
	r.Metrics = metrics.NewRun()

	rep, err := r.Run(context.Background(), []domain.Shop{{AccountName: "Direct"}, {AccountName: "Missing"}}, Options{})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{metrics.OutcomeDirect: 1, metrics.OutcomeNotFound: 1}, rep.Counts)
	assert.NotEmpty(t, rep.RunID)
	assert.False(t, rep.FinishedAt.Before(rep.StartedAt))
	assert.WithinDuration(t, time.Now(), rep.FinishedAt, time.Minute)
}
