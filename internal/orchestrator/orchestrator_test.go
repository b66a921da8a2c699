package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagehq/tripdocs/internal/extract"
	"github.com/voyagehq/tripdocs/internal/grouper"
	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

type fakeFetcher struct {
	mu     sync.Mutex
	failOn map[string]error
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, sourceURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sourceURL)
	if err, ok := f.failOn[sourceURL]; ok {
		return nil, err
	}
	return []byte(sourceURL), nil
}

type fakePassportExtractor struct {
	outcome models.ExtractionOutcome
}

func (f *fakePassportExtractor) Extract(_ context.Context, _, _ []byte) models.ExtractionOutcome {
	return f.outcome
}

type fakeTextExtractor struct {
	outcome models.ExtractionOutcome
	panics  bool
}

func (f *fakeTextExtractor) Extract(_ context.Context, _ []byte) models.ExtractionOutcome {
	if f.panics {
		panic("extractor exploded")
	}
	return f.outcome
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.ProgressEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event models.ProgressEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *fakePublisher) byStatus(status models.ProgressStatus) []models.ProgressEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProgressEvent
	for _, e := range f.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

type fakeReporter struct {
	mu      sync.Mutex
	results []models.UnitResult
	err     error
}

func (f *fakeReporter) Report(_ context.Context, result models.UnitResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result)
	return f.err
}

type fakeStatusStore struct {
	mu       sync.Mutex
	total    int
	mapped   int
	failed   int
	initErr  error
	finished int
}

func (f *fakeStatusStore) InitBatch(_ context.Context, _ string, totalUnits int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.total = totalUnits
	return f.initErr
}

func (f *fakeStatusStore) UnitFinished(_ context.Context, _ string, failed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished++
	if failed {
		f.failed++
	} else {
		f.mapped++
	}
	return nil
}

func (f *fakeStatusStore) GetBatchStatus(_ context.Context, batchID string) (*models.BatchStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.BatchStatus{
		BatchID:    batchID,
		TotalUnits: f.total,
		Mapped:     f.mapped,
		Failed:     f.failed,
	}, nil
}

type fixture struct {
	fetcher   *fakeFetcher
	passport  *fakePassportExtractor
	flight    *fakeTextExtractor
	hotel     *fakeTextExtractor
	publisher *fakePublisher
	reporter  *fakeReporter
	status    *fakeStatusStore
}

func newFixture() *fixture {
	return &fixture{
		fetcher:   &fakeFetcher{failOn: map[string]error{}},
		passport:  &fakePassportExtractor{outcome: models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: map[string]string{"full_name": "Rahul Sharma"}}},
		flight:    &fakeTextExtractor{outcome: models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: map[string]string{extract.FieldPassengerName: "Rahul Sharma"}}},
		hotel:     &fakeTextExtractor{outcome: models.ExtractionOutcome{Status: models.ExtractionSuccess, Fields: map[string]string{extract.FieldGuestName: "Priya Nair"}}},
		publisher: &fakePublisher{},
		reporter:  &fakeReporter{},
		status:    &fakeStatusStore{},
	}
}

func (f *fixture) orchestrator(cfg Config) *Orchestrator {
	return New(f.fetcher, f.passport, f.flight, f.hotel, f.publisher, f.reporter, f.status, logger.NewTestLogger(), cfg)
}

func doc(id, travelerID, name string, kind models.DocumentKind) models.DocumentRef {
	return models.DocumentRef{
		DocumentID:   id,
		TravelerID:   travelerID,
		TravelerName: name,
		SourceURL:    "https://docs.example.com/" + id,
		Kind:         kind,
	}
}

func TestRunProcessesMixedBatch(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(Config{MaxConcurrent: 4})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindPassportFront),
		doc("d2", "t1", "Rahul Sharma", models.KindPassportBack),
		doc("d3", "t1", "Rahul Sharma", models.KindFlight),
		doc("d4", "t2", "Priya Nair", models.KindHotel),
	}}

	o.Run(context.Background(), batch)

	// Three units, each with one processing and one terminal event.
	assert.Len(t, f.publisher.byStatus(models.ProgressProcessing), 3)
	assert.Len(t, f.publisher.byStatus(models.ProgressMapped), 3)
	assert.Empty(t, f.publisher.byStatus(models.ProgressFailed))

	require.Len(t, f.reporter.results, 3)
	for _, r := range f.reporter.results {
		assert.Equal(t, "b1", r.BatchID)
		assert.True(t, r.Completed)
	}

	assert.Equal(t, 3, f.status.total)
	assert.Equal(t, 3, f.status.mapped)
	assert.Equal(t, 0, f.status.failed)
}

func TestRunMapsFlightToMatchedTraveler(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Priya Nair", models.KindFlight),
		doc("d2", "t2", "Rahul Sharma", models.KindHotel),
	}}

	o.Run(context.Background(), batch)

	require.Len(t, f.reporter.results, 2)
	for _, r := range f.reporter.results {
		switch r.DocumentType {
		case models.UnitFlight:
			// Extracted passenger "Rahul Sharma" matches t2, not the
			// traveler the document was uploaded under.
			assert.Equal(t, "t2", r.MappedToTravelerID)
		case models.UnitHotel:
			assert.Equal(t, "t1", r.MappedToTravelerID)
		}
	}
}

func TestRunPassportMapsToOwnTraveler(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t7", "Rahul Sharma", models.KindPassportFront),
		doc("d2", "t7", "Rahul Sharma", models.KindPassportBack),
	}}

	o.Run(context.Background(), batch)

	require.Len(t, f.reporter.results, 1)
	assert.Equal(t, models.UnitPassport, f.reporter.results[0].DocumentType)
	assert.Equal(t, "t7", f.reporter.results[0].MappedToTravelerID)
	assert.Equal(t, []string{"d1", "d2"}, f.reporter.results[0].DocumentIDs)
}

func TestRunDropsLonePassportSideByDefault(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindPassportFront),
	}}

	o.Run(context.Background(), batch)

	assert.Empty(t, f.publisher.events)
	assert.Empty(t, f.reporter.results)
	assert.Equal(t, 0, f.status.total)
}

func TestRunReportsLonePassportSideUnderReportPolicy(t *testing.T) {
	f := newFixture()
	o := f.orchestrator(Config{MaxConcurrent: 1, UnpairedPolicy: grouper.PolicyReport})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindPassportFront),
	}}

	o.Run(context.Background(), batch)

	assert.Len(t, f.publisher.byStatus(models.ProgressProcessing), 1)
	failed := f.publisher.byStatus(models.ProgressFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "d1", failed[0].DocumentID)

	require.Len(t, f.reporter.results, 1)
	assert.False(t, f.reporter.results[0].Completed)
}

func TestRunFetchFailureIsUnitLocal(t *testing.T) {
	f := newFixture()
	f.fetcher.failOn["https://docs.example.com/d1"] = errors.New("object not found")
	o := f.orchestrator(Config{MaxConcurrent: 2})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
		doc("d2", "t2", "Priya Nair", models.KindHotel),
	}}

	o.Run(context.Background(), batch)

	failed := f.publisher.byStatus(models.ProgressFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "d1", failed[0].DocumentID)
	assert.Contains(t, failed[0].Error, "object not found")

	mapped := f.publisher.byStatus(models.ProgressMapped)
	require.Len(t, mapped, 1)
	assert.Equal(t, "d2", mapped[0].DocumentID)

	assert.Equal(t, 1, f.status.failed)
	assert.Equal(t, 1, f.status.mapped)
}

func TestRunInvalidOutcomeFailsUnit(t *testing.T) {
	f := newFixture()
	f.flight.outcome = models.InvalidOutcome("receipt text", "text does not look like a flight document")
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
	}}

	o.Run(context.Background(), batch)

	failed := f.publisher.byStatus(models.ProgressFailed)
	require.Len(t, failed, 1)
	require.Len(t, f.reporter.results, 1)
	assert.False(t, f.reporter.results[0].Completed)
	assert.Equal(t, models.ExtractionInvalid, f.reporter.results[0].Outcome.Status)
}

func TestRunPanicIsIsolatedToUnit(t *testing.T) {
	f := newFixture()
	f.flight.panics = true
	o := f.orchestrator(Config{MaxConcurrent: 2})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
		doc("d2", "t2", "Priya Nair", models.KindHotel),
	}}

	o.Run(context.Background(), batch)

	failed := f.publisher.byStatus(models.ProgressFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "d1", failed[0].DocumentID)
	assert.Contains(t, failed[0].Error, "unexpected failure")

	mapped := f.publisher.byStatus(models.ProgressMapped)
	require.Len(t, mapped, 1)
	assert.Equal(t, "d2", mapped[0].DocumentID)
}

func TestRunUnmatchedNameStillCompletes(t *testing.T) {
	f := newFixture()
	f.flight.outcome = models.ExtractionOutcome{
		Status: models.ExtractionSuccess,
		Fields: map[string]string{extract.FieldPassengerName: "Somebody Unrelated"},
	}
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
	}}

	o.Run(context.Background(), batch)

	require.Len(t, f.reporter.results, 1)
	assert.True(t, f.reporter.results[0].Completed)
	// Mapping is empty, not an error: extraction succeeded.
	assert.Empty(t, f.reporter.results[0].MappedToTravelerID)
}

func TestRunPublishFailuresDoNotAlterOutcome(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("redis down")
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
	}}

	o.Run(context.Background(), batch)

	require.Len(t, f.reporter.results, 1)
	assert.True(t, f.reporter.results[0].Completed)
}

func TestRunReporterFailuresDoNotStopBatch(t *testing.T) {
	f := newFixture()
	f.reporter.err = errors.New("webhook unreachable")
	o := f.orchestrator(Config{MaxConcurrent: 1})

	batch := models.Batch{ID: "b1", Documents: []models.DocumentRef{
		doc("d1", "t1", "Rahul Sharma", models.KindFlight),
		doc("d2", "t2", "Priya Nair", models.KindHotel),
	}}

	o.Run(context.Background(), batch)

	// Both units still reached their terminal state.
	assert.Len(t, f.publisher.byStatus(models.ProgressMapped), 2)
	assert.Equal(t, 2, f.status.finished)
}
