// Package orchestrator drives every processing unit of a batch through
// acquire → extract → validate → match → report. Failures are strictly
// unit-local: a unit that errors, validates invalid, or panics reaches
// its Failed terminal state without touching its siblings, and the
// batch always runs to completion.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voyagehq/tripdocs/internal/extract"
	"github.com/voyagehq/tripdocs/internal/grouper"
	"github.com/voyagehq/tripdocs/internal/matcher"
	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/fetch"
	"github.com/voyagehq/tripdocs/pkg/logger"
	"github.com/voyagehq/tripdocs/pkg/progress"
	"github.com/voyagehq/tripdocs/pkg/queue"
	"github.com/voyagehq/tripdocs/pkg/report"
)

// PassportExtractor is the pair-based extraction contract.
type PassportExtractor interface {
	Extract(ctx context.Context, front, back []byte) models.ExtractionOutcome
}

// TextExtractor is the single-document extraction contract shared by
// the flight and hotel extractors.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) models.ExtractionOutcome
}

// Config tunes batch execution.
type Config struct {
	// MaxConcurrent bounds how many units run at once. Units share no
	// mutable state, so any limit >= 1 is correct.
	MaxConcurrent int
	// UnpairedPolicy decides whether lone passport sides are silently
	// dropped or reported as failed.
	UnpairedPolicy grouper.UnpairedPolicy
}

// Orchestrator owns one batch run end to end. All collaborators are
// injected interfaces so tests can substitute in-memory fakes.
type Orchestrator struct {
	fetcher   fetch.Fetcher
	passport  PassportExtractor
	flight    TextExtractor
	hotel     TextExtractor
	publisher progress.Publisher
	reporter  report.Reporter
	status    queue.StatusStore
	logger    logger.Logger
	cfg       Config
}

func New(
	fetcher fetch.Fetcher,
	passport PassportExtractor,
	flight TextExtractor,
	hotel TextExtractor,
	publisher progress.Publisher,
	reporter report.Reporter,
	status queue.StatusStore,
	log logger.Logger,
	cfg Config,
) *Orchestrator {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.UnpairedPolicy == "" {
		cfg.UnpairedPolicy = grouper.PolicyDrop
	}
	return &Orchestrator{
		fetcher:   fetcher,
		passport:  passport,
		flight:    flight,
		hotel:     hotel,
		publisher: publisher,
		reporter:  reporter,
		status:    status,
		logger:    log,
		cfg:       cfg,
	}
}

// Run processes the whole batch to completion. Every derived unit ends
// in exactly one terminal state; there is no early abort.
func (o *Orchestrator) Run(ctx context.Context, batch models.Batch) {
	travelers := batch.Travelers()
	grouped := grouper.Group(batch.Documents)

	o.logger.Info("batch processing started",
		logger.String("batchId", batch.ID),
		logger.Int("documentCount", len(batch.Documents)),
		logger.Int("unitCount", len(grouped.Units)),
		logger.Int("unpairedCount", len(grouped.Unpaired)),
	)

	if o.status != nil {
		if err := o.status.InitBatch(ctx, batch.ID, len(grouped.Units)); err != nil {
			o.logger.Error("failed to init batch status", logger.Error(err))
		}
	}

	if o.cfg.UnpairedPolicy == grouper.PolicyReport {
		for _, doc := range grouped.Unpaired {
			o.failUnpaired(ctx, batch.ID, doc)
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(o.cfg.MaxConcurrent)
	for _, unit := range grouped.Units {
		unit := unit
		g.Go(func() error {
			o.runUnit(ctx, batch.ID, travelers, unit)
			return nil
		})
	}
	// Unit failures are converted to terminal states inside runUnit, so
	// Wait never sees an error.
	_ = g.Wait()

	o.logger.Info("batch processing completed",
		logger.String("batchId", batch.ID),
		logger.Int("unitCount", len(grouped.Units)),
	)
}

// runUnit drives one unit through its state machine:
// Pending → Processing → {Mapped, Failed}.
func (o *Orchestrator) runUnit(ctx context.Context, batchID string, travelers []models.Traveler, unit models.ProcessingUnit) {
	primary := unit.Primary()

	o.publishEvent(ctx, models.ProgressEvent{
		BatchID:      batchID,
		TravelerID:   primary.TravelerID,
		TravelerName: primary.TravelerName,
		DocumentID:   primary.DocumentID,
		DocumentKind: primary.Kind,
		Status:       models.ProgressProcessing,
	})

	outcome, mappedID := o.executeUnit(ctx, travelers, unit)

	result := models.UnitResult{
		BatchID:            batchID,
		Unit:               unit,
		TravelerID:         primary.TravelerID,
		DocumentType:       unit.UnitKind(),
		DocumentIDs:        unitDocumentIDs(unit),
		Completed:          outcome.Status == models.ExtractionSuccess,
		Outcome:            outcome,
		MappedToTravelerID: mappedID,
	}

	if result.Completed {
		o.publishEvent(ctx, models.ProgressEvent{
			BatchID:      batchID,
			TravelerID:   primary.TravelerID,
			TravelerName: primary.TravelerName,
			DocumentID:   primary.DocumentID,
			DocumentKind: primary.Kind,
			Status:       models.ProgressMapped,
			Fields:       outcome.Fields,
		})
	} else {
		o.publishEvent(ctx, models.ProgressEvent{
			BatchID:      batchID,
			TravelerID:   primary.TravelerID,
			TravelerName: primary.TravelerName,
			DocumentID:   primary.DocumentID,
			DocumentKind: primary.Kind,
			Status:       models.ProgressFailed,
			Error:        outcome.ErrorMessage,
		})
	}

	o.report(ctx, result)
	o.recordFinished(ctx, batchID, !result.Completed)
}

// executeUnit performs acquire → extract → match. Any panic inside the
// unit's pipeline is converted to an error outcome here; nothing
// escapes to sibling units.
func (o *Orchestrator) executeUnit(ctx context.Context, travelers []models.Traveler, unit models.ProcessingUnit) (outcome models.ExtractionOutcome, mappedID string) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("unit pipeline panicked",
				logger.String("documentId", unit.Primary().DocumentID),
				logger.Any("panic", r),
			)
			outcome = models.ExtractionOutcome{
				Status:       models.ExtractionError,
				ErrorMessage: fmt.Sprintf("unexpected failure: %v", r),
			}
			mappedID = ""
		}
	}()

	switch u := unit.(type) {
	case models.PassportUnit:
		front, err := o.fetcher.Fetch(ctx, u.Front.SourceURL)
		if err != nil {
			return models.ErrorOutcome(fmt.Errorf("failed to fetch passport front: %w", err)), ""
		}
		back, err := o.fetcher.Fetch(ctx, u.Back.SourceURL)
		if err != nil {
			return models.ErrorOutcome(fmt.Errorf("failed to fetch passport back: %w", err)), ""
		}
		outcome = o.passport.Extract(ctx, front, back)
		if outcome.Status == models.ExtractionSuccess {
			// The pair is already traveler-scoped; no fuzzy matching.
			mappedID = u.TravelerID
		}
		return outcome, mappedID

	case models.FlightUnit:
		return o.runTextUnit(ctx, travelers, u.Doc, o.flight, extract.FieldPassengerName)

	case models.HotelUnit:
		return o.runTextUnit(ctx, travelers, u.Doc, o.hotel, extract.FieldGuestName)

	default:
		return models.ErrorOutcome(fmt.Errorf("unknown unit kind: %s", unit.UnitKind())), ""
	}
}

func (o *Orchestrator) runTextUnit(ctx context.Context, travelers []models.Traveler, doc models.DocumentRef, extractor TextExtractor, nameField string) (models.ExtractionOutcome, string) {
	data, err := o.fetcher.Fetch(ctx, doc.SourceURL)
	if err != nil {
		return models.ErrorOutcome(fmt.Errorf("failed to fetch document: %w", err)), ""
	}

	outcome := extractor.Extract(ctx, data)
	if outcome.Status != models.ExtractionSuccess {
		return outcome, ""
	}

	mappedID, ok := matcher.Match(outcome.Fields[nameField], travelers)
	if !ok {
		o.logger.Info("extracted name matched no traveler",
			logger.String("documentId", doc.DocumentID),
			logger.String("extractedName", outcome.Fields[nameField]),
		)
		return outcome, ""
	}
	return outcome, mappedID
}

// failUnpaired reports a lone passport side as failed without running
// extraction. Only active under grouper.PolicyReport.
func (o *Orchestrator) failUnpaired(ctx context.Context, batchID string, doc models.DocumentRef) {
	const msg = "passport side has no matching counterpart"

	o.publishEvent(ctx, models.ProgressEvent{
		BatchID:      batchID,
		TravelerID:   doc.TravelerID,
		TravelerName: doc.TravelerName,
		DocumentID:   doc.DocumentID,
		DocumentKind: doc.Kind,
		Status:       models.ProgressProcessing,
	})
	o.publishEvent(ctx, models.ProgressEvent{
		BatchID:      batchID,
		TravelerID:   doc.TravelerID,
		TravelerName: doc.TravelerName,
		DocumentID:   doc.DocumentID,
		DocumentKind: doc.Kind,
		Status:       models.ProgressFailed,
		Error:        msg,
	})

	o.report(ctx, models.UnitResult{
		BatchID:      batchID,
		TravelerID:   doc.TravelerID,
		DocumentType: models.UnitPassport,
		DocumentIDs:  []string{doc.DocumentID},
		Completed:    false,
		Outcome: models.ExtractionOutcome{
			Status:       models.ExtractionError,
			ErrorMessage: msg,
		},
	})
}

// publishEvent stamps and publishes a progress event. Publish failures
// are logged and swallowed: progress is at-most-effort and never alters
// a unit's outcome.
func (o *Orchestrator) publishEvent(ctx context.Context, event models.ProgressEvent) {
	event.Timestamp = time.Now().UTC()
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("failed to publish progress event",
			logger.String("batchId", event.BatchID),
			logger.String("documentId", event.DocumentID),
			logger.Error(err),
		)
	}
}

// report delivers the terminal result. A webhook failure is logged only:
// the unit's terminal state was committed before the call.
func (o *Orchestrator) report(ctx context.Context, result models.UnitResult) {
	if err := o.reporter.Report(ctx, result); err != nil {
		o.logger.Error("failed to report unit result",
			logger.String("batchId", result.BatchID),
			logger.String("documentType", string(result.DocumentType)),
			logger.Error(err),
		)
	}
}

func (o *Orchestrator) recordFinished(ctx context.Context, batchID string, failed bool) {
	if o.status == nil {
		return
	}
	if err := o.status.UnitFinished(ctx, batchID, failed); err != nil {
		o.logger.Warn("failed to update batch status", logger.Error(err))
	}
}

func unitDocumentIDs(unit models.ProcessingUnit) []string {
	switch u := unit.(type) {
	case models.PassportUnit:
		return []string{u.Front.DocumentID, u.Back.DocumentID}
	case models.FlightUnit:
		return []string{u.Doc.DocumentID}
	case models.HotelUnit:
		return []string{u.Doc.DocumentID}
	}
	return nil
}
